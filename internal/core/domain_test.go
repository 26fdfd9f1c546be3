package core

import (
	"testing"
	"time"
)

func TestTransactionTypeIsValid(t *testing.T) {
	tests := []struct {
		name string
		typ  TransactionType
		want bool
	}{
		{"income", Income, true},
		{"expense", Expense, true},
		{"transfer", Transfer, true},
		{"contribution", Contribution, true},
		{"cash_in", CashIn, true},
		{"unknown", TransactionType("refund"), false},
		{"empty", TransactionType(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.IsValid(); got != tt.want {
				t.Errorf("%q.IsValid() = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}

func TestTransactionTypeIsIncome(t *testing.T) {
	if !Income.IsIncome() {
		t.Error("income should count as income")
	}
	if !CashIn.IsIncome() {
		t.Error("cash_in should count as income")
	}
	if Expense.IsIncome() {
		t.Error("expense should not count as income")
	}
	if Transfer.IsIncome() {
		t.Error("transfer should not count as income")
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Date:     time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Amount:   100,
		Type:     Expense,
		Category: "Food",
	}

	tests := []struct {
		name    string
		mutate  func(tx *Transaction)
		wantErr error
	}{
		{"valid", func(tx *Transaction) {}, nil},
		{"zero date", func(tx *Transaction) { tx.Date = time.Time{} }, ErrInvalidDate},
		{"negative amount", func(tx *Transaction) { tx.Amount = -1 }, ErrInvalidAmount},
		{"bad type", func(tx *Transaction) { tx.Type = "loan" }, ErrInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			if err := tx.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBudgetValidate(t *testing.T) {
	if err := (Budget{Name: "Groceries", Amount: 500, Spent: 120}).Validate(); err != nil {
		t.Errorf("valid budget: unexpected error %v", err)
	}
	if err := (Budget{Name: "  ", Amount: 500}).Validate(); err != ErrEmptyBudgetName {
		t.Errorf("blank name: got %v, want %v", err, ErrEmptyBudgetName)
	}
	if err := (Budget{Name: "X", Amount: -1}).Validate(); err != ErrInvalidAmount {
		t.Errorf("negative amount: got %v, want %v", err, ErrInvalidAmount)
	}
}

func TestCategoryOrDefault(t *testing.T) {
	tx := Transaction{Category: ""}
	if got := tx.CategoryOrDefault(); got != "Uncategorized" {
		t.Errorf("CategoryOrDefault() = %q, want Uncategorized", got)
	}
	tx.Category = "Rent"
	if got := tx.CategoryOrDefault(); got != "Rent" {
		t.Errorf("CategoryOrDefault() = %q, want Rent", got)
	}
}

func TestBudgetLabel(t *testing.T) {
	b := Budget{Name: "Monthly food", Category: "Food"}
	if got := b.Label(); got != "Food" {
		t.Errorf("Label() = %q, want Food", got)
	}
	b.Category = ""
	if got := b.Label(); got != "Monthly food" {
		t.Errorf("Label() = %q, want Monthly food", got)
	}
}

func TestMonthKey(t *testing.T) {
	jan := MonthOf(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	feb := MonthOf(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	dec23 := MonthOf(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))

	if !jan.Before(feb) {
		t.Error("jan 2024 should be before feb 2024")
	}
	if !dec23.Before(jan) {
		t.Error("dec 2023 should be before jan 2024")
	}
	if feb.Before(jan) {
		t.Error("feb 2024 should not be before jan 2024")
	}
}
