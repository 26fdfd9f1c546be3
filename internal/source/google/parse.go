package google

import (
	"fmt"
	"strings"

	"finsight/internal/core"
)

// parseLedgerRows converts a values matrix (as returned by the Sheets
// API) into transactions. The first row is skipped when its date
// column does not parse, which covers the usual header row. Malformed
// rows are dropped, never propagated as errors.
func parseLedgerRows(values [][]interface{}) []core.Transaction {
	var out []core.Transaction
	for _, row := range values {
		cols := toStrings(row)
		if len(cols) < 2 {
			continue
		}
		date := core.ParseDate(safeGet(cols, 0))
		if date.IsZero() {
			continue // header or malformed row
		}
		amount := core.ParseAmount(safeGet(cols, 1))
		if amount == 0 {
			continue
		}

		txType := core.TransactionType(strings.ToLower(strings.TrimSpace(safeGet(cols, 2))))
		if !txType.IsValid() {
			txType = core.Expense
		}

		out = append(out, core.Transaction{
			Date:     date,
			Amount:   amount,
			Type:     txType,
			Category: strings.TrimSpace(safeGet(cols, 3)),
			Notes:    strings.TrimSpace(safeGet(cols, 4)),
		})
	}
	return out
}

// parseBudgetRows converts a values matrix into budgets, computing the
// percentage used. Rows without a name are skipped.
func parseBudgetRows(values [][]interface{}) []core.Budget {
	var out []core.Budget
	for i, row := range values {
		cols := toStrings(row)
		name := strings.TrimSpace(safeGet(cols, 0))
		if name == "" {
			continue
		}
		amount := core.ParseAmount(safeGet(cols, 2))
		if amount == 0 && i == 0 {
			// Likely the header row ("Name", "Category", "Amount", "Spent").
			continue
		}
		spent := core.ParseAmount(safeGet(cols, 3))

		b := core.Budget{
			Name:     name,
			Category: strings.TrimSpace(safeGet(cols, 1)),
			Amount:   amount,
			Spent:    spent,
		}
		if b.Amount > 0 {
			b.PercentageUsed = core.SafeNumber(b.Spent / b.Amount * 100)
		}
		out = append(out, b)
	}
	return out
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
