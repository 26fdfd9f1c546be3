// Package analytics implements the financial insight and trend engine.
//
// The engine is a pure, synchronous computation over in-memory ledger
// snapshots: transactions and budgets go in, a bounded list of insights
// and per-category spending trends come out. It performs no I/O and
// holds no state across invocations; the only impurities are the
// wall-clock and the random source, both injected through the Engine
// constructor so tests can pin them.
package analytics

import (
	"finsight/internal/core"
)

// Aggregate reduces a transaction snapshot into the scalar dashboard
// totals. Malformed records are skipped or zeroed, never rejected:
// this function cannot fail.
func Aggregate(transactions []core.Transaction) core.Summary {
	var income, expenses float64
	for _, tx := range transactions {
		amount := core.SafeNumber(tx.Amount)
		if amount <= 0 {
			continue
		}
		switch {
		case tx.Type.IsIncome():
			income += amount
		case tx.Type == core.Expense:
			expenses += amount
		}
	}

	income = core.NonNegative(income)
	expenses = core.NonNegative(expenses)
	balance := core.SafeNumber(income - expenses)

	// The savings rate never goes negative: overspending shows up in the
	// balance, the rate bottoms out at zero.
	var savingsRate float64
	if income > 0 {
		savingsRate = core.NonNegative(balance / income * 100)
	}

	return core.Summary{
		Income:      income,
		Expenses:    expenses,
		Balance:     balance,
		SavingsRate: savingsRate,
	}
}
