package analytics

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"finsight/internal/core"
)

// ruleInput is the shared read-only view every rule evaluates against.
type ruleInput struct {
	Transactions []core.Transaction
	Budgets      []core.Budget
	Income       float64
	Expenses     float64
	Balance      float64
	SavingsRate  float64
	Now          time.Time
	Rand         *rand.Rand
	Thresholds   Thresholds
}

// rule is one independent evaluator: it inspects the snapshot and
// produces at most one insight. Rules never suppress each other.
type rule struct {
	name     string
	evaluate func(in ruleInput) *core.Insight
}

var rules = []rule{
	{"no_income", ruleNoIncome},
	{"negative_balance", ruleNegativeBalance},
	{"expensive_subscriptions", ruleExpensiveSubscriptions},
	{"over_budget", ruleOverBudget},
	{"savings_rate", ruleSavingsRate},
	{"spending_pace", ruleSpendingPace},
	{"largest_expense", ruleLargestExpense},
	{"small_purchases", ruleSmallPurchases},
	{"weekend_spending", ruleWeekendSpending},
	{"month_over_month", ruleMonthOverMonth},
	{"income_stability", ruleIncomeStability},
	{"emergency_fund", ruleEmergencyFund},
	{"subscription_count", ruleSubscriptionCount},
	{"heavy_day_of_month", ruleHeavyDayOfMonth},
	{"busy_days", ruleBusyDays},
	{"round_numbers", ruleRoundNumbers},
	{"category_concentration", ruleCategoryConcentration},
	{"impulse_buying", ruleImpulseBuying},
	{"health_score", ruleHealthScore},
	{"seasonal_pattern", ruleSeasonalPattern},
	{"recurring_deficit", ruleRecurringDeficit},
	{"projected_savings", ruleProjectedSavings},
	{"time_of_day_spending", ruleTimeOfDaySpending},
	{"wealth_milestone", ruleWealthMilestone},
	{"daily_greeting", ruleDailyGreeting},
	{"weekday_boost", ruleWeekdayBoost},
	{"random_tip", ruleRandomTip},
}

func ruleNoIncome(in ruleInput) *core.Insight {
	if in.Income == 0 && in.Expenses > 0 {
		return &core.Insight{
			Title:       "No income recorded",
			Description: fmt.Sprintf("You have %.2f in expenses but no income on record. Add your income sources to get a complete picture.", in.Expenses),
			Kind:        core.KindDanger,
			Icon:        "alert-octagon",
		}
	}
	return nil
}

func ruleNegativeBalance(in ruleInput) *core.Insight {
	switch {
	case in.Balance < -5000:
		return &core.Insight{
			Title:       "Urgent: significant negative balance",
			Description: fmt.Sprintf("Your balance is %.2f. Spending is far ahead of income; review your largest expenses now.", in.Balance),
			Kind:        core.KindDanger,
			Icon:        "trending-down",
		}
	case in.Balance < 0:
		return &core.Insight{
			Title:       "Negative balance detected",
			Description: fmt.Sprintf("Your balance is %.2f. You are spending more than you earn this period.", in.Balance),
			Kind:        core.KindWarning,
			Icon:        "trending-down",
		}
	}
	return nil
}

// taggedSubscription reports whether a transaction looks like a
// subscription charge, matching category or notes as a case-insensitive
// substring.
func taggedSubscription(tx core.Transaction) bool {
	return strings.Contains(strings.ToLower(tx.Category), "subscription") ||
		strings.Contains(strings.ToLower(tx.Notes), "subscription")
}

func ruleExpensiveSubscriptions(in ruleInput) *core.Insight {
	var count int
	var largest float64
	for _, tx := range in.Transactions {
		if tx.Amount > 1000 && taggedSubscription(tx) {
			count++
			if tx.Amount > largest {
				largest = tx.Amount
			}
		}
	}
	switch {
	case largest > 10000:
		return &core.Insight{
			Title:       "Very expensive subscription",
			Description: fmt.Sprintf("One subscription costs %.2f. Make sure it is still worth it.", largest),
			Kind:        core.KindDanger,
			Icon:        "repeat",
		}
	case count > 0:
		return &core.Insight{
			Title:       "Costly subscriptions",
			Description: fmt.Sprintf("You have %d subscription charges above 1000. Review whether you still use them all.", count),
			Kind:        core.KindWarning,
			Icon:        "repeat",
		}
	}
	return nil
}

func ruleOverBudget(in ruleInput) *core.Insight {
	var names []string
	for _, b := range in.Budgets {
		if b.OverBudget() {
			names = append(names, b.Label())
		}
	}
	if len(names) == 0 {
		return nil
	}
	return &core.Insight{
		Title:       "Budgets exceeded",
		Description: fmt.Sprintf("Spending went over budget in: %s.", strings.Join(names, ", ")),
		Kind:        core.KindDanger,
		Icon:        "target",
	}
}

func ruleSavingsRate(in ruleInput) *core.Insight {
	deficit := in.Expenses - in.Income
	switch {
	case in.Expenses > in.Income && deficit > in.Income*0.5:
		return &core.Insight{
			Title:       "Critical overspending",
			Description: fmt.Sprintf("Your deficit of %.2f exceeds half of your income. Immediate action is needed.", deficit),
			Kind:        core.KindDanger,
			Icon:        "alert-triangle",
		}
	case in.Income < in.Expenses:
		return &core.Insight{
			Title:       "Major overspending",
			Description: fmt.Sprintf("Spending exceeds income by %.2f this period.", deficit),
			Kind:        core.KindDanger,
			Icon:        "alert-triangle",
		}
	case in.SavingsRate >= 30:
		return &core.Insight{
			Title:       "Outstanding savings rate",
			Description: fmt.Sprintf("You are saving %.1f%% of your income. Exceptional discipline.", in.SavingsRate),
			Kind:        core.KindSuccess,
			Icon:        "award",
		}
	case in.SavingsRate >= 20:
		return &core.Insight{
			Title:       "Strong savings rate",
			Description: fmt.Sprintf("You are saving %.1f%% of your income. Keep it up.", in.SavingsRate),
			Kind:        core.KindSuccess,
			Icon:        "thumbs-up",
		}
	case in.SavingsRate >= 10:
		return &core.Insight{
			Title:       "Decent savings rate",
			Description: fmt.Sprintf("You are saving %.1f%% of your income. Aim for 20%% or more.", in.SavingsRate),
			Kind:        core.KindInfo,
			Icon:        "piggy-bank",
		}
	case in.SavingsRate >= 5:
		return &core.Insight{
			Title:       "Low savings rate",
			Description: fmt.Sprintf("You are saving only %.1f%% of your income. Look for expenses to trim.", in.SavingsRate),
			Kind:        core.KindWarning,
			Icon:        "piggy-bank",
		}
	case in.SavingsRate > 0:
		return &core.Insight{
			Title:       "Very low savings rate",
			Description: fmt.Sprintf("You are saving just %.1f%% of your income. Almost everything earned is being spent.", in.SavingsRate),
			Kind:        core.KindDanger,
			Icon:        "alert-circle",
		}
	}
	return nil
}

func ruleSpendingPace(in ruleInput) *core.Insight {
	var weekTotal, monthTotal float64
	weekStart := in.Now.AddDate(0, 0, -7)
	monthStart := in.Now.AddDate(0, 0, -30)
	for _, tx := range in.Transactions {
		if tx.Type != core.Expense || tx.Amount <= 0 || tx.Date.IsZero() {
			continue
		}
		if tx.Date.After(monthStart) && !tx.Date.After(in.Now) {
			monthTotal += tx.Amount
			if tx.Date.After(weekStart) {
				weekTotal += tx.Amount
			}
		}
	}
	weekDaily := weekTotal / 7
	monthDaily := monthTotal / 30
	if monthDaily <= 0 {
		return nil
	}
	ratio := weekDaily / monthDaily
	switch {
	case ratio > 1.5:
		return &core.Insight{
			Title:       "Spending spike",
			Description: fmt.Sprintf("This week you spent %.1fx your usual daily pace. Check what changed.", ratio),
			Kind:        core.KindWarning,
			Icon:        "zap",
		}
	case ratio < 0.7:
		return &core.Insight{
			Title:       "Spending under control",
			Description: "Your spending this week is well below your monthly pace. Nice restraint.",
			Kind:        core.KindSuccess,
			Icon:        "shield",
		}
	}
	return nil
}

func ruleLargestExpense(in ruleInput) *core.Insight {
	if in.Expenses <= 0 {
		return nil
	}
	var largest core.Transaction
	for _, tx := range in.Transactions {
		if tx.Type == core.Expense && tx.Amount > largest.Amount {
			largest = tx
		}
	}
	share := largest.Amount / in.Expenses
	if share <= 0.15 {
		return nil
	}
	kind := core.KindInfo
	if share > 0.30 {
		kind = core.KindWarning
	}
	return &core.Insight{
		Title:       "One purchase dominates",
		Description: fmt.Sprintf("A single %s expense of %.2f makes up %.0f%% of your total spending.", largest.CategoryOrDefault(), largest.Amount, share*100),
		Kind:        kind,
		Icon:        "shopping-bag",
	}
}

func ruleSmallPurchases(in ruleInput) *core.Insight {
	var count int
	var total float64
	for _, tx := range in.Transactions {
		if tx.Type == core.Expense && tx.Amount > 0 && tx.Amount < 100 {
			count++
			total += tx.Amount
		}
	}
	if count <= 20 || in.Expenses <= 0 {
		return nil
	}
	return &core.Insight{
		Title:       "Many small purchases",
		Description: fmt.Sprintf("%d purchases under 100 add up to %.2f (%.0f%% of your spending).", count, total, total/in.Expenses*100),
		Kind:        core.KindInfo,
		Icon:        "coffee",
	}
}

func ruleWeekendSpending(in ruleInput) *core.Insight {
	var weekendTotal, weekdayTotal float64
	for _, tx := range in.Transactions {
		if tx.Type != core.Expense || tx.Amount <= 0 || tx.Date.IsZero() {
			continue
		}
		switch tx.Date.Weekday() {
		case time.Saturday, time.Sunday:
			weekendTotal += tx.Amount
		default:
			weekdayTotal += tx.Amount
		}
	}
	weekendDaily := weekendTotal / 2
	weekdayDaily := weekdayTotal / 5
	if weekdayDaily <= 0 || weekendDaily <= weekdayDaily*1.5 {
		return nil
	}
	return &core.Insight{
		Title:       "Weekend spender",
		Description: fmt.Sprintf("Your average weekend day costs %.1fx a weekday. Plan weekend activities with a budget.", weekendDaily/weekdayDaily),
		Kind:        core.KindWarning,
		Icon:        "calendar",
	}
}

func ruleMonthOverMonth(in ruleInput) *core.Insight {
	current := core.MonthOf(in.Now)
	previous := core.MonthOf(in.Now.AddDate(0, -1, 0))
	var curTotal, prevTotal float64
	for _, tx := range in.Transactions {
		if tx.Type != core.Expense || tx.Amount <= 0 || tx.Date.IsZero() {
			continue
		}
		switch core.MonthOf(tx.Date) {
		case current:
			curTotal += tx.Amount
		case previous:
			prevTotal += tx.Amount
		}
	}
	if prevTotal <= 0 {
		return nil
	}
	change := (curTotal - prevTotal) / prevTotal * 100
	switch {
	case change > 20:
		return &core.Insight{
			Title:       "Spending up this month",
			Description: fmt.Sprintf("You have spent %.0f%% more than last month so far.", change),
			Kind:        core.KindWarning,
			Icon:        "trending-up",
		}
	case change < -15:
		return &core.Insight{
			Title:       "Spending down this month",
			Description: fmt.Sprintf("You have spent %.0f%% less than last month. Great progress.", -change),
			Kind:        core.KindSuccess,
			Icon:        "trending-down",
		}
	}
	return nil
}

func ruleIncomeStability(in ruleInput) *core.Insight {
	var amounts []float64
	for _, tx := range in.Transactions {
		if tx.Type.IsIncome() && tx.Amount > 0 {
			amounts = append(amounts, tx.Amount)
		}
	}
	if len(amounts) < 2 {
		return nil
	}
	minAmt, maxAmt, sum := amounts[0], amounts[0], 0.0
	for _, a := range amounts {
		if a < minAmt {
			minAmt = a
		}
		if a > maxAmt {
			maxAmt = a
		}
		sum += a
	}
	avg := sum / float64(len(amounts))
	if avg <= 0 {
		return nil
	}
	spread := (maxAmt - minAmt) / avg
	switch {
	case spread > 0.5:
		return &core.Insight{
			Title:       "Irregular income",
			Description: "Your income amounts vary a lot. A buffer of fixed expenses helps smooth the swings.",
			Kind:        core.KindInfo,
			Icon:        "activity",
		}
	case spread < 0.1:
		return &core.Insight{
			Title:       "Stable income",
			Description: "Your income is very consistent. That makes planning and automatic saving easy.",
			Kind:        core.KindSuccess,
			Icon:        "anchor",
		}
	}
	return nil
}

func ruleEmergencyFund(in ruleInput) *core.Insight {
	if in.Expenses <= 0 {
		return nil
	}
	months := distinctMonths(in.Transactions)
	if months == 0 {
		months = 1
	}
	monthlyExpenses := in.Expenses / float64(months)
	if monthlyExpenses <= 0 {
		return nil
	}
	coverage := in.Balance / monthlyExpenses
	switch {
	case coverage < 1:
		return &core.Insight{
			Title:       "No emergency cushion",
			Description: "Your balance covers less than one month of expenses. Build a buffer before anything else.",
			Kind:        core.KindDanger,
			Icon:        "life-buoy",
		}
	case coverage >= 6:
		return &core.Insight{
			Title:       "Solid emergency fund",
			Description: fmt.Sprintf("Your balance covers about %.0f months of expenses. You are well protected.", coverage),
			Kind:        core.KindSuccess,
			Icon:        "shield",
		}
	case coverage >= 3:
		return &core.Insight{
			Title:       "Emergency fund growing",
			Description: fmt.Sprintf("Your balance covers about %.0f months of expenses. Six months is the usual target.", coverage),
			Kind:        core.KindInfo,
			Icon:        "life-buoy",
		}
	}
	return nil
}

var subscriptionKeywords = []string{"subscription", "membership", "netflix", "spotify", "prime", "monthly plan"}

func ruleSubscriptionCount(in ruleInput) *core.Insight {
	var count int
	var total float64
	for _, tx := range in.Transactions {
		if tx.Type != core.Expense || tx.Amount <= 0 {
			continue
		}
		text := strings.ToLower(tx.Category + " " + tx.Notes)
		matched := false
		for _, kw := range subscriptionKeywords {
			if strings.Contains(text, kw) {
				matched = true
				break
			}
		}
		// Amounts ending in .00 are typical of fixed recurring charges.
		if !matched && tx.Amount == float64(int64(tx.Amount)) {
			matched = true
		}
		if matched {
			count++
			total += tx.Amount
		}
	}
	if count < 5 || in.Expenses <= 0 {
		return nil
	}
	share := total / in.Expenses
	kind := core.KindInfo
	if share > 0.15 {
		kind = core.KindWarning
	}
	return &core.Insight{
		Title:       "Recurring charges add up",
		Description: fmt.Sprintf("%d recurring-looking charges make up %.0f%% of your spending.", count, share*100),
		Kind:        kind,
		Icon:        "repeat",
	}
}

func ruleHeavyDayOfMonth(in ruleInput) *core.Insight {
	if in.Expenses <= 0 {
		return nil
	}
	byDay := make(map[int]float64)
	for _, tx := range in.Transactions {
		if tx.Type == core.Expense && tx.Amount > 0 && !tx.Date.IsZero() {
			byDay[tx.Date.Day()] += tx.Amount
		}
	}
	heaviestDay, heaviest := 0, 0.0
	for day, total := range byDay {
		if total > heaviest {
			heaviestDay, heaviest = day, total
		}
	}
	if heaviest/in.Expenses <= in.Thresholds.HeavyDayShare {
		return nil
	}
	return &core.Insight{
		Title:       "Spending clusters on one day",
		Description: fmt.Sprintf("Day %d of the month carries %.0f%% of your spending.", heaviestDay, heaviest/in.Expenses*100),
		Kind:        core.KindInfo,
		Icon:        "calendar",
	}
}

func ruleBusyDays(in ruleInput) *core.Insight {
	counts := make(map[string]int)
	for _, tx := range in.Transactions {
		if !tx.Date.IsZero() {
			counts[tx.Date.Format("2006-01-02")]++
		}
	}
	if len(counts) == 0 {
		return nil
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	avg := float64(total) / float64(len(counts))
	busy := 0
	for _, c := range counts {
		if float64(c) > avg*2 {
			busy++
		}
	}
	if busy == 0 {
		return nil
	}
	return &core.Insight{
		Title:       "Transaction bursts",
		Description: fmt.Sprintf("%d days had more than twice your average number of transactions.", busy),
		Kind:        core.KindInfo,
		Icon:        "bar-chart",
	}
}

func ruleRoundNumbers(in ruleInput) *core.Insight {
	var round, counted int
	for _, tx := range in.Transactions {
		if tx.Amount <= 0 {
			continue
		}
		counted++
		cents := int64(math.Round(tx.Amount * 100))
		if cents%10000 == 0 || cents%5000 == 0 {
			round++
		}
	}
	if counted == 0 {
		return nil
	}
	share := float64(round) / float64(counted)
	if share <= in.Thresholds.RoundNumberShare {
		return nil
	}
	return &core.Insight{
		Title:       "Round-number habit",
		Description: fmt.Sprintf("%.0f%% of your transactions are round amounts. Rounded estimates can hide the real totals.", share*100),
		Kind:        core.KindInfo,
		Icon:        "circle",
	}
}

func ruleCategoryConcentration(in ruleInput) *core.Insight {
	if in.Expenses <= 0 {
		return nil
	}
	byCategory := make(map[string]float64)
	for _, tx := range in.Transactions {
		if tx.Type == core.Expense && tx.Amount > 0 {
			byCategory[tx.CategoryOrDefault()] += tx.Amount
		}
	}
	topName, top := "", 0.0
	for name, total := range byCategory {
		if total > top {
			topName, top = name, total
		}
	}
	if top/in.Expenses <= 0.40 {
		return nil
	}
	return &core.Insight{
		Title:       "One category dominates",
		Description: fmt.Sprintf("%s accounts for %.0f%% of your spending.", topName, top/in.Expenses*100),
		Kind:        core.KindWarning,
		Icon:        "pie-chart",
	}
}

func ruleImpulseBuying(in ruleInput) *core.Insight {
	if in.Expenses <= 0 {
		return nil
	}
	type dayStats struct {
		count int
		total float64
	}
	byDay := make(map[string]*dayStats)
	for _, tx := range in.Transactions {
		if tx.Type != core.Expense || tx.Amount <= 0 || tx.Date.IsZero() {
			continue
		}
		key := tx.Date.Format("2006-01-02")
		if byDay[key] == nil {
			byDay[key] = &dayStats{}
		}
		byDay[key].count++
		byDay[key].total += tx.Amount
	}
	for day, stats := range byDay {
		if stats.count >= 5 && stats.total/in.Expenses > in.Thresholds.ImpulseDayShare {
			return &core.Insight{
				Title:       "Impulse buying day",
				Description: fmt.Sprintf("On %s you made %d purchases totaling %.0f%% of your spending.", day, stats.count, stats.total/in.Expenses*100),
				Kind:        core.KindWarning,
				Icon:        "shopping-cart",
			}
		}
	}
	return nil
}

func ruleHealthScore(in ruleInput) *core.Insight {
	if in.Income == 0 && in.Expenses == 0 {
		return nil
	}
	var score float64
	if in.Income+in.Expenses > 0 {
		score = core.SafeNumber(in.Income / (in.Income + in.Expenses) * 100)
	}
	switch {
	case score >= 60:
		return &core.Insight{
			Title:       "Healthy finances",
			Description: fmt.Sprintf("Your financial health score is %.0f/100. Income comfortably outweighs spending.", score),
			Kind:        core.KindSuccess,
			Icon:        "heart",
		}
	case score >= 45:
		return &core.Insight{
			Title:       "Balanced finances",
			Description: fmt.Sprintf("Your financial health score is %.0f/100. Income and spending are roughly even.", score),
			Kind:        core.KindInfo,
			Icon:        "heart",
		}
	case score > 0:
		return &core.Insight{
			Title:       "Finances under strain",
			Description: fmt.Sprintf("Your financial health score is %.0f/100. Spending is outpacing income.", score),
			Kind:        core.KindWarning,
			Icon:        "heart",
		}
	default:
		return &core.Insight{
			Title:       "Critical financial health",
			Description: "All activity is spending with no income recorded.",
			Kind:        core.KindDanger,
			Icon:        "heart",
		}
	}
}

// ruleSeasonalPattern folds spending by month of year, so December
// 2023 and December 2024 count as one season.
func ruleSeasonalPattern(in ruleInput) *core.Insight {
	byMonth := make(map[time.Month]float64)
	for _, tx := range in.Transactions {
		if tx.Type == core.Expense && tx.Amount > 0 && !tx.Date.IsZero() {
			byMonth[tx.Date.Month()] += tx.Amount
		}
	}
	if len(byMonth) < 2 {
		return nil
	}
	var sum float64
	for _, total := range byMonth {
		sum += total
	}
	avg := sum / float64(len(byMonth))
	var heavy []string
	for month, total := range byMonth {
		if total > avg*1.3 {
			heavy = append(heavy, month.String())
		}
	}
	if len(heavy) == 0 {
		return nil
	}
	sort.Strings(heavy)
	return &core.Insight{
		Title:       "Seasonal spending pattern",
		Description: fmt.Sprintf("Spending runs well above average in: %s.", strings.Join(heavy, ", ")),
		Kind:        core.KindInfo,
		Icon:        "sun",
	}
}

func ruleRecurringDeficit(in ruleInput) *core.Insight {
	income := make(map[core.MonthKey]float64)
	expense := make(map[core.MonthKey]float64)
	seen := make(map[core.MonthKey]bool)
	for _, tx := range in.Transactions {
		if tx.Amount <= 0 || tx.Date.IsZero() {
			continue
		}
		key := core.MonthOf(tx.Date)
		switch {
		case tx.Type.IsIncome():
			income[key] += tx.Amount
			seen[key] = true
		case tx.Type == core.Expense:
			expense[key] += tx.Amount
			seen[key] = true
		}
	}
	months := make([]core.MonthKey, 0, len(seen))
	for key := range seen {
		months = append(months, key)
	}
	sort.Slice(months, func(i, j int) bool { return months[j].Before(months[i]) })
	if len(months) > 3 {
		months = months[:3]
	}
	deficits := 0
	for _, key := range months {
		if expense[key] > income[key] {
			deficits++
		}
	}
	if deficits < 2 {
		return nil
	}
	return &core.Insight{
		Title:       "Repeated monthly deficits",
		Description: fmt.Sprintf("You spent more than you earned in %d of your last %d months.", deficits, len(months)),
		Kind:        core.KindDanger,
		Icon:        "alert-triangle",
	}
}

func ruleProjectedSavings(in ruleInput) *core.Insight {
	if in.Balance <= 0 {
		return nil
	}
	months := distinctMonths(in.Transactions)
	if months == 0 {
		months = 1
	}
	projected := in.Balance / float64(months) * 12
	switch {
	case projected >= 50000:
		return &core.Insight{
			Title:       "On track for major savings",
			Description: fmt.Sprintf("At this pace you would save about %.0f over a year.", projected),
			Kind:        core.KindSuccess,
			Icon:        "trending-up",
		}
	case projected >= 20000:
		return &core.Insight{
			Title:       "Steady savings pace",
			Description: fmt.Sprintf("At this pace you would save about %.0f over a year.", projected),
			Kind:        core.KindInfo,
			Icon:        "trending-up",
		}
	}
	return nil
}

func ruleTimeOfDaySpending(in ruleInput) *core.Insight {
	var morning, afternoon, evening, total float64
	for _, tx := range in.Transactions {
		if tx.Type != core.Expense || tx.Amount <= 0 || tx.Date.IsZero() {
			continue
		}
		switch hour := tx.Date.Hour(); {
		case hour >= 5 && hour < 12:
			morning += tx.Amount
		case hour >= 12 && hour < 18:
			afternoon += tx.Amount
		default:
			evening += tx.Amount
		}
		total += tx.Amount
	}
	if total <= 0 {
		return nil
	}
	bucket, amount := "the evening", evening
	if morning > amount {
		bucket, amount = "the morning", morning
	}
	if afternoon > amount {
		bucket, amount = "the afternoon", afternoon
	}
	if amount/total <= 0.5 {
		return nil
	}
	return &core.Insight{
		Title:       "Time-of-day pattern",
		Description: fmt.Sprintf("%.0f%% of your spending happens in %s.", amount/total*100, bucket),
		Kind:        core.KindInfo,
		Icon:        "clock",
	}
}

var wealthMilestones = []float64{100000, 500000, 1000000, 5000000, 10000000}

func ruleWealthMilestone(in ruleInput) *core.Insight {
	var crossed, next float64
	for _, m := range wealthMilestones {
		if in.Balance >= m {
			crossed = m
		} else {
			next = m
			break
		}
	}
	if crossed == 0 {
		return nil
	}
	desc := fmt.Sprintf("Your net balance passed %.0f.", crossed)
	if next > 0 {
		desc += fmt.Sprintf(" Next stop: %.0f.", next)
	}
	return &core.Insight{
		Title:       "Milestone reached",
		Description: desc,
		Kind:        core.KindSuccess,
		Icon:        "flag",
	}
}

func ruleDailyGreeting(in ruleInput) *core.Insight {
	switch hour := in.Now.Hour(); {
	case hour >= 5 && hour < 12:
		return &core.Insight{
			Title:       "Good morning",
			Description: "Start the day with a quick look at yesterday's spending.",
			Kind:        core.KindInfo,
			Icon:        "sunrise",
		}
	case hour >= 18 && hour < 23:
		return &core.Insight{
			Title:       "Evening review",
			Description: "A two-minute review of today's purchases keeps the ledger honest.",
			Kind:        core.KindInfo,
			Icon:        "moon",
		}
	}
	return nil
}

func ruleWeekdayBoost(in ruleInput) *core.Insight {
	switch in.Now.Weekday() {
	case time.Monday:
		return &core.Insight{
			Title:       "Fresh week",
			Description: "A new week is a good moment to set a spending intention.",
			Kind:        core.KindInfo,
			Icon:        "calendar",
		}
	case time.Friday:
		return &core.Insight{
			Title:       "Weekend ahead",
			Description: "Weekends are when budgets slip. Decide your fun money in advance.",
			Kind:        core.KindInfo,
			Icon:        "calendar",
		}
	}
	return nil
}

var tips = []string{
	"Automate a transfer to savings on payday; what you never see you never spend.",
	"Review your subscriptions quarterly; the forgotten ones add up fastest.",
	"Use the 24-hour rule for purchases above your comfort threshold.",
	"Track cash withdrawals too; untracked cash is where budgets leak.",
}

func ruleRandomTip(in ruleInput) *core.Insight {
	if in.Rand.Float64() >= in.Thresholds.TipProbability {
		return nil
	}
	return &core.Insight{
		Title:       "Tip",
		Description: tips[in.Rand.Intn(len(tips))],
		Kind:        core.KindInfo,
		Icon:        "lightbulb",
	}
}

// distinctMonths counts the calendar months covered by the snapshot.
func distinctMonths(transactions []core.Transaction) int {
	seen := make(map[core.MonthKey]struct{})
	for _, tx := range transactions {
		if !tx.Date.IsZero() {
			seen[core.MonthOf(tx.Date)] = struct{}{}
		}
	}
	return len(seen)
}
