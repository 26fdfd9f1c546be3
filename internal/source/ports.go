package source

import (
	"context"

	"finsight/internal/core"
)

// Ports for ledger data backends.
type (
	// LedgerReader returns the full transaction snapshot the analytics
	// run on.
	LedgerReader interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	// BudgetReader returns the configured budgets with spent totals.
	BudgetReader interface {
		ListBudgets(ctx context.Context) ([]core.Budget, error)
	}

	// LedgerWriter accepts new transactions. Read-only backends do not
	// implement it.
	LedgerWriter interface {
		AppendTransaction(ctx context.Context, tx core.Transaction) error
	}

	// BudgetWriter creates or replaces a budget by name.
	BudgetWriter interface {
		UpsertBudget(ctx context.Context, budget core.Budget) error
	}
)

// Store combines the read ports every backend must provide.
type Store interface {
	LedgerReader
	BudgetReader
}
