package analytics

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"finsight/internal/core"
)

// testEngine returns an engine with a pinned clock and random source
// so every rule evaluates deterministically.
func testEngine() *Engine {
	clock := func() time.Time {
		// A Wednesday afternoon: no greeting or weekday rule fires.
		return time.Date(2024, 3, 13, 14, 0, 0, 0, time.UTC)
	}
	return NewEngineWith(clock, rand.New(rand.NewSource(42)), DefaultThresholds())
}

func evalAll(t *testing.T, txs []core.Transaction, budgets []core.Budget) []core.Insight {
	t.Helper()
	e := testEngine()
	return e.Evaluate(txs, budgets, Aggregate(txs))
}

func findInsight(insights []core.Insight, title string) *core.Insight {
	for i := range insights {
		if insights[i].Title == title {
			return &insights[i]
		}
	}
	return nil
}

func TestRuleNoIncome(t *testing.T) {
	insights := evalAll(t, []core.Transaction{
		{Date: date(2024, 1, 6), Amount: 1000, Type: core.Expense},
	}, nil)

	got := findInsight(insights, "No income recorded")
	if got == nil {
		t.Fatal("expected the no-income insight to fire")
	}
	if got.Kind != core.KindDanger {
		t.Errorf("kind = %q, want danger", got.Kind)
	}
}

func TestRuleNegativeBalance(t *testing.T) {
	tests := []struct {
		name        string
		income      float64
		expenses    float64
		wantTitle   string
		absentTitle string
		wantKind    core.InsightKind
	}{
		{
			name:        "deep deficit is urgent",
			income:      10000,
			expenses:    16000,
			wantTitle:   "Urgent: significant negative balance",
			absentTitle: "Negative balance detected",
			wantKind:    core.KindDanger,
		},
		{
			name:        "mild deficit is a warning",
			income:      5000,
			expenses:    7000,
			wantTitle:   "Negative balance detected",
			absentTitle: "Urgent: significant negative balance",
			wantKind:    core.KindWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insights := evalAll(t, []core.Transaction{
				{Date: date(2024, 1, 5), Amount: tt.income, Type: core.Income},
				{Date: date(2024, 1, 10), Amount: tt.expenses, Type: core.Expense},
			}, nil)

			got := findInsight(insights, tt.wantTitle)
			if got == nil {
				t.Fatalf("expected insight %q", tt.wantTitle)
			}
			if got.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", got.Kind, tt.wantKind)
			}
			if findInsight(insights, tt.absentTitle) != nil {
				t.Errorf("insight %q should not fire (branches are mutually exclusive)", tt.absentTitle)
			}
		})
	}
}

var savingsLadderTitles = []string{
	"Critical overspending",
	"Major overspending",
	"Outstanding savings rate",
	"Strong savings rate",
	"Decent savings rate",
	"Low savings rate",
	"Very low savings rate",
}

func TestSavingsLadderExhaustive(t *testing.T) {
	tests := []struct {
		name     string
		income   float64
		expenses float64
		want     string
	}{
		{"deficit above half of income", 1000, 1600, "Critical overspending"},
		{"plain deficit", 5000, 7000, "Major overspending"},
		{"outstanding", 1000, 600, "Outstanding savings rate"},
		{"strong", 1000, 750, "Strong savings rate"},
		{"decent", 1000, 850, "Decent savings rate"},
		{"low", 1000, 930, "Low savings rate"},
		{"very low", 1000, 990, "Very low savings rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insights := evalAll(t, []core.Transaction{
				{Date: date(2024, 1, 5), Amount: tt.income, Type: core.Income},
				{Date: date(2024, 1, 10), Amount: tt.expenses, Type: core.Expense},
			}, nil)

			var fired []string
			for _, title := range savingsLadderTitles {
				if findInsight(insights, title) != nil {
					fired = append(fired, title)
				}
			}
			if len(fired) != 1 {
				t.Fatalf("exactly one ladder insight should fire, got %v", fired)
			}
			if fired[0] != tt.want {
				t.Errorf("ladder fired %q, want %q", fired[0], tt.want)
			}
		})
	}
}

func TestRuleExpensiveSubscriptions(t *testing.T) {
	tests := []struct {
		name string
		txs  []core.Transaction
		want string
	}{
		{
			name: "huge subscription is danger",
			txs: []core.Transaction{
				{Date: date(2024, 1, 5), Amount: 12000, Type: core.Expense, Category: "Subscription services"},
			},
			want: "Very expensive subscription",
		},
		{
			name: "pricey subscription is warning",
			txs: []core.Transaction{
				{Date: date(2024, 1, 5), Amount: 1500, Type: core.Expense, Notes: "Annual SUBSCRIPTION renewal"},
			},
			want: "Costly subscriptions",
		},
		{
			name: "cheap subscription stays quiet",
			txs: []core.Transaction{
				{Date: date(2024, 1, 5), Amount: 15, Type: core.Expense, Category: "subscription"},
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insights := evalAll(t, tt.txs, nil)
			danger := findInsight(insights, "Very expensive subscription")
			warning := findInsight(insights, "Costly subscriptions")
			switch tt.want {
			case "":
				if danger != nil || warning != nil {
					t.Error("no subscription insight should fire")
				}
			case "Very expensive subscription":
				if danger == nil {
					t.Error("expected the danger variant")
				}
				if warning != nil {
					t.Error("danger and warning variants are mutually exclusive")
				}
			case "Costly subscriptions":
				if warning == nil {
					t.Error("expected the warning variant")
				}
				if danger != nil {
					t.Error("danger variant should not fire")
				}
			}
		})
	}
}

func TestRuleOverBudget(t *testing.T) {
	budgets := []core.Budget{
		{Name: "Food budget", Category: "Food", Amount: 500, Spent: 650},
		{Name: "Fun", Amount: 200, Spent: 90},
		{Name: "Transport budget", Category: "Transport", Amount: 100, Spent: 101},
	}
	insights := evalAll(t, nil, budgets)

	got := findInsight(insights, "Budgets exceeded")
	if got == nil {
		t.Fatal("expected the over-budget insight")
	}
	if got.Kind != core.KindDanger {
		t.Errorf("kind = %q, want danger", got.Kind)
	}
	for _, name := range []string{"Food", "Transport"} {
		if !contains(got.Description, name) {
			t.Errorf("description %q should list %s", got.Description, name)
		}
	}
	if contains(got.Description, "Fun") {
		t.Errorf("description %q should not list budgets still in range", got.Description)
	}
}

func TestRuleCategoryConcentration(t *testing.T) {
	insights := evalAll(t, []core.Transaction{
		{Date: date(2024, 1, 5), Amount: 10000, Type: core.Income},
		{Date: date(2024, 1, 6), Amount: 500, Type: core.Expense, Category: "Rent"},
		{Date: date(2024, 1, 7), Amount: 100, Type: core.Expense, Category: "Food"},
	}, nil)

	got := findInsight(insights, "One category dominates")
	if got == nil {
		t.Fatal("expected the concentration insight: Rent is 83% of spend")
	}
	if !contains(got.Description, "Rent") {
		t.Errorf("description %q should name the dominant category", got.Description)
	}
}

func TestRuleHealthScore(t *testing.T) {
	tests := []struct {
		name     string
		income   float64
		expenses float64
		want     string
	}{
		{"healthy", 3000, 1000, "Healthy finances"},
		{"balanced", 1000, 1100, "Balanced finances"},
		{"strained", 1000, 3000, "Finances under strain"},
		{"critical", 0, 1000, "Critical financial health"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var txs []core.Transaction
			if tt.income > 0 {
				txs = append(txs, core.Transaction{Date: date(2024, 1, 5), Amount: tt.income, Type: core.Income})
			}
			if tt.expenses > 0 {
				txs = append(txs, core.Transaction{Date: date(2024, 1, 6), Amount: tt.expenses, Type: core.Expense})
			}
			insights := evalAll(t, txs, nil)
			if findInsight(insights, tt.want) == nil {
				t.Errorf("expected health insight %q", tt.want)
			}
		})
	}
}

func TestRuleHealthScoreSilentOnEmptyLedger(t *testing.T) {
	insights := evalAll(t, nil, nil)
	for _, title := range []string{"Healthy finances", "Balanced finances", "Finances under strain", "Critical financial health"} {
		if findInsight(insights, title) != nil {
			t.Errorf("health insight %q should not fire on an empty ledger", title)
		}
	}
}

func TestRuleImpulseBuying(t *testing.T) {
	txs := []core.Transaction{
		{Date: date(2024, 1, 5), Amount: 10000, Type: core.Income},
	}
	// Five purchases on one day carrying most of the spending.
	for i := 0; i < 5; i++ {
		txs = append(txs, core.Transaction{Date: date(2024, 1, 20), Amount: 200, Type: core.Expense, Category: "Shopping"})
	}
	txs = append(txs, core.Transaction{Date: date(2024, 1, 8), Amount: 50, Type: core.Expense})

	insights := evalAll(t, txs, nil)
	if findInsight(insights, "Impulse buying day") == nil {
		t.Error("expected the impulse-buying insight")
	}
}

func TestRuleWealthMilestone(t *testing.T) {
	insights := evalAll(t, []core.Transaction{
		{Date: date(2024, 1, 5), Amount: 620000, Type: core.Income},
		{Date: date(2024, 1, 6), Amount: 100000, Type: core.Expense},
	}, nil)

	got := findInsight(insights, "Milestone reached")
	if got == nil {
		t.Fatal("expected the milestone insight: balance 520000 passed 500000")
	}
	if !contains(got.Description, "500000") {
		t.Errorf("description %q should name the crossed milestone", got.Description)
	}
	if !contains(got.Description, "1000000") {
		t.Errorf("description %q should name the next target", got.Description)
	}
}

func TestRuleRecurringDeficit(t *testing.T) {
	txs := []core.Transaction{
		// January: deficit.
		{Date: date(2024, 1, 5), Amount: 1000, Type: core.Income},
		{Date: date(2024, 1, 20), Amount: 1500, Type: core.Expense},
		// February: surplus.
		{Date: date(2024, 2, 5), Amount: 1000, Type: core.Income},
		{Date: date(2024, 2, 20), Amount: 500, Type: core.Expense},
		// March: deficit.
		{Date: date(2024, 3, 5), Amount: 1000, Type: core.Income},
		{Date: date(2024, 3, 10), Amount: 1400, Type: core.Expense},
	}
	insights := evalAll(t, txs, nil)
	if findInsight(insights, "Repeated monthly deficits") == nil {
		t.Error("expected the recurring-deficit insight: 2 of last 3 months in deficit")
	}
}

func TestRuleIncomeStability(t *testing.T) {
	stable := []core.Transaction{
		{Date: date(2024, 1, 1), Amount: 3000, Type: core.Income},
		{Date: date(2024, 2, 1), Amount: 3050, Type: core.Income},
		{Date: date(2024, 3, 1), Amount: 3020, Type: core.Income},
	}
	insights := evalAll(t, stable, nil)
	if findInsight(insights, "Stable income") == nil {
		t.Error("expected the stable-income insight")
	}

	irregular := []core.Transaction{
		{Date: date(2024, 1, 1), Amount: 1000, Type: core.Income},
		{Date: date(2024, 2, 1), Amount: 4000, Type: core.Income},
	}
	insights = evalAll(t, irregular, nil)
	if findInsight(insights, "Irregular income") == nil {
		t.Error("expected the irregular-income insight")
	}
}

func TestRuleSeasonalPatternFoldsYears(t *testing.T) {
	// Two heavy Decembers a year apart count as one season.
	txs := []core.Transaction{
		{Date: date(2023, 12, 10), Amount: 500, Type: core.Expense, Category: "Gifts"},
		{Date: date(2024, 12, 12), Amount: 500, Type: core.Expense, Category: "Gifts"},
		{Date: date(2024, 1, 15), Amount: 100, Type: core.Expense},
		{Date: date(2024, 2, 15), Amount: 100, Type: core.Expense},
	}
	insights := evalAll(t, txs, nil)

	got := findInsight(insights, "Seasonal spending pattern")
	if got == nil {
		t.Fatal("expected the seasonal insight: December carries most of the spend")
	}
	if n := strings.Count(got.Description, "December"); n != 1 {
		t.Errorf("description %q lists December %d times, want once", got.Description, n)
	}
	if contains(got.Description, "January") || contains(got.Description, "February") {
		t.Errorf("description %q should only list months well above average", got.Description)
	}
}

func TestEndToEndScenario(t *testing.T) {
	// The canonical scenario: modest income, larger spend, no budgets.
	txs := []core.Transaction{
		{Date: core.ParseDate("2024-01-05"), Amount: core.ParseAmount("5000"), Type: core.Income},
		{Date: core.ParseDate("2024-01-10"), Amount: core.ParseAmount("7000"), Type: core.Expense, Category: "Food"},
	}

	summary := Aggregate(txs)
	// Overspending shows in the negative balance; the rate floors at 0.
	want := core.Summary{Income: 5000, Expenses: 7000, Balance: -2000, SavingsRate: 0}
	if summary != want {
		t.Fatalf("Aggregate() = %+v, want %+v", summary, want)
	}

	insights := evalAll(t, txs, nil)
	if findInsight(insights, "Negative balance detected") == nil {
		t.Error("expected the warning-grade negative balance insight (-2000 is above -5000)")
	}
	if findInsight(insights, "Urgent: significant negative balance") != nil {
		t.Error("the danger-grade variant must not fire at -2000")
	}
	// Deficit is 40% of income, under the 50% critical threshold.
	if findInsight(insights, "Major overspending") == nil {
		t.Error("expected the plain overspending danger insight")
	}
	if findInsight(insights, "Critical overspending") != nil {
		t.Error("the critical overspending branch must not fire at a 40% deficit")
	}
}

func contains(s, sub string) bool {
	return strings.Contains(s, sub)
}
