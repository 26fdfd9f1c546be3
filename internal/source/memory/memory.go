package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"finsight/internal/core"
)

// Store is an in-memory ledger backend. It backs local development and
// tests, and doubles as the demo dataset when no real backend is
// configured.
type Store struct {
	mu           sync.Mutex
	transactions []core.Transaction
	budgets      []core.Budget
}

func New(transactions []core.Transaction, budgets []core.Budget) *Store {
	s := &Store{}
	s.transactions = append(s.transactions, transactions...)
	for _, b := range budgets {
		s.budgets = append(s.budgets, withUsage(b))
	}
	return s
}

// NewSeeded returns a store pre-filled with a small demo ledger
// spanning the three months before now.
func NewSeeded(now time.Time) *Store {
	month := func(offset int, day int) time.Time {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, offset, day-1)
	}
	transactions := []core.Transaction{
		{Date: month(-2, 1), Amount: 52000, Type: core.Income, Category: "Salary"},
		{Date: month(-2, 3), Amount: 15000, Type: core.Expense, Category: "Rent"},
		{Date: month(-2, 8), Amount: 4200, Type: core.Expense, Category: "Groceries"},
		{Date: month(-2, 15), Amount: 1800, Type: core.Expense, Category: "Transport"},
		{Date: month(-2, 21), Amount: 999, Type: core.Expense, Category: "Subscriptions", Notes: "Streaming subscription"},
		{Date: month(-1, 1), Amount: 52000, Type: core.Income, Category: "Salary"},
		{Date: month(-1, 3), Amount: 15000, Type: core.Expense, Category: "Rent"},
		{Date: month(-1, 9), Amount: 4650, Type: core.Expense, Category: "Groceries"},
		{Date: month(-1, 12), Amount: 2300, Type: core.Expense, Category: "Dining"},
		{Date: month(-1, 18), Amount: 1750, Type: core.Expense, Category: "Transport"},
		{Date: month(-1, 21), Amount: 999, Type: core.Expense, Category: "Subscriptions", Notes: "Streaming subscription"},
		{Date: month(0, 1), Amount: 52000, Type: core.Income, Category: "Salary"},
		{Date: month(0, 3), Amount: 15000, Type: core.Expense, Category: "Rent"},
		{Date: month(0, 6), Amount: 5100, Type: core.Expense, Category: "Groceries"},
		{Date: month(0, 10), Amount: 3100, Type: core.Expense, Category: "Dining"},
	}
	budgets := []core.Budget{
		{Name: "Groceries", Category: "Groceries", Amount: 6000, Spent: 5100},
		{Name: "Dining out", Category: "Dining", Amount: 2500, Spent: 3100},
		{Name: "Transport", Category: "Transport", Amount: 2000, Spent: 0},
	}
	return New(transactions, budgets)
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out, nil
}

func (s *Store) ListBudgets(_ context.Context) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Budget, len(s.budgets))
	copy(out, s.budgets)
	return out, nil
}

func (s *Store) AppendTransaction(_ context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, tx)
	return nil
}

// UpsertBudget replaces the budget with the same name, or appends it.
// Names compare case-insensitively.
func (s *Store) UpsertBudget(_ context.Context, budget core.Budget) error {
	if err := budget.Validate(); err != nil {
		return err
	}
	budget = withUsage(budget)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.budgets {
		if strings.EqualFold(existing.Name, budget.Name) {
			s.budgets[i] = budget
			return nil
		}
	}
	s.budgets = append(s.budgets, budget)
	return nil
}

func withUsage(b core.Budget) core.Budget {
	if b.Amount > 0 {
		b.PercentageUsed = core.SafeNumber(b.Spent / b.Amount * 100)
	} else {
		b.PercentageUsed = 0
	}
	return b
}
