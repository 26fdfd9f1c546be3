package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income       TransactionType = "income"
	Expense      TransactionType = "expense"
	Transfer     TransactionType = "transfer"
	Contribution TransactionType = "contribution"
	CashIn       TransactionType = "cash_in"
)

type (
	TransactionType string

	// Transaction is a single ledger entry. Snapshots handed to the
	// analytics engine are read-only; the engine never mutates them.
	Transaction struct {
		Date     time.Time
		Amount   float64
		Type     TransactionType
		Category string
		Notes    string
	}

	// Budget is an active spending budget with its consumption so far.
	Budget struct {
		Name           string
		Category       string
		Amount         float64
		Spent          float64
		PercentageUsed float64
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrEmptyBudgetName = errors.New("empty budget name")
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense, Transfer, Contribution, CashIn:
		return true
	default:
		return false
	}
}

// IsIncome reports whether the type counts toward total income.
func (t TransactionType) IsIncome() bool {
	return t == Income || t == CashIn
}

func (tx Transaction) Validate() error {
	if tx.Date.IsZero() {
		return ErrInvalidDate
	}
	if tx.Amount < 0 {
		return ErrInvalidAmount
	}
	if !tx.Type.IsValid() {
		return ErrInvalidType
	}
	if len(tx.Notes) > 500 {
		return errors.New("notes too long (max 500 characters)")
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyBudgetName
	}
	if b.Amount < 0 || b.Spent < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Label returns the budget's category name, falling back to the budget
// name when no category is attached.
func (b Budget) Label() string {
	if strings.TrimSpace(b.Category) != "" {
		return b.Category
	}
	return b.Name
}

// CategoryOrDefault returns the transaction category, or "Uncategorized"
// when no category was recorded.
func (tx Transaction) CategoryOrDefault() string {
	if strings.TrimSpace(tx.Category) == "" {
		return "Uncategorized"
	}
	return tx.Category
}

// OverBudget reports whether spending has exceeded the budgeted amount.
func (b Budget) OverBudget() bool {
	return b.Spent > b.Amount
}

// MonthKey identifies a calendar month.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month a time falls in.
func MonthOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// Before reports whether k is an earlier calendar month than other.
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}
