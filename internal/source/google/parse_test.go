package google

import (
	"testing"
	"time"

	"finsight/internal/core"
)

func TestParseLedgerRows(t *testing.T) {
	values := [][]interface{}{
		{"Date", "Amount", "Type", "Category", "Notes"},
		{"2024-03-01", "1.200,50", "expense", "Rent", "March rent"},
		{"2024-03-05", "5000", "INCOME", "Salary"},
		{"2024-03-08", "42.90", "unknown_type", "Groceries"},
		{"not a date", "100", "expense", "Food"},
		{"2024-03-09", "zero", "expense", "Food"},
		{"2024-03-10"},
		{},
	}

	got := parseLedgerRows(values)
	if len(got) != 3 {
		t.Fatalf("parseLedgerRows() returned %d transactions, want 3: %+v", len(got), got)
	}

	first := got[0]
	if !first.Date.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v, want 2024-03-01", first.Date)
	}
	if first.Amount != 1200.50 {
		t.Errorf("amount = %v, want 1200.50", first.Amount)
	}
	if first.Type != core.Expense {
		t.Errorf("type = %q, want expense", first.Type)
	}
	if first.Notes != "March rent" {
		t.Errorf("notes = %q, want 'March rent'", first.Notes)
	}

	if got[1].Type != core.Income {
		t.Errorf("upper-cased type = %q, want income", got[1].Type)
	}
	if got[2].Type != core.Expense {
		t.Errorf("unknown type = %q, want fallback to expense", got[2].Type)
	}
}

func TestParseLedgerRowsEmpty(t *testing.T) {
	if got := parseLedgerRows(nil); len(got) != 0 {
		t.Errorf("parseLedgerRows(nil) = %+v, want empty", got)
	}
}

func TestParseBudgetRows(t *testing.T) {
	values := [][]interface{}{
		{"Name", "Category", "Amount", "Spent"},
		{"Groceries", "Groceries", "500", "250"},
		{"Dining out", "Dining", "200", "310"},
		{"", "Orphan", "100", "10"},
		{"No amount", "Misc", "", ""},
	}

	got := parseBudgetRows(values)
	if len(got) != 3 {
		t.Fatalf("parseBudgetRows() returned %d budgets, want 3: %+v", len(got), got)
	}

	if got[0].PercentageUsed != 50 {
		t.Errorf("PercentageUsed = %v, want 50", got[0].PercentageUsed)
	}
	if !got[1].OverBudget() {
		t.Error("budget with spent > amount should report over budget")
	}
	if got[2].Name != "No amount" || got[2].PercentageUsed != 0 {
		t.Errorf("zero-amount budget = %+v, want zero percentage", got[2])
	}
}
