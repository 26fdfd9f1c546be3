package google

import (
	"context"
	"errors"
	"fmt"

	"finsight/internal/core"
	"finsight/internal/source"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client reads the ledger and budgets from a Google Sheets
// spreadsheet. It is read-only: the analytics never write back to the
// sheet, so only the readonly scope is requested.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	ledgerSheet   string
	budgetSheet   string
}

// Ensure interface conformance
var (
	_ source.LedgerReader = (*Client)(nil)
	_ source.BudgetReader = (*Client)(nil)
)

// Options configures the Sheets client. CredentialsJSON holds service
// account or OAuth client credentials accepted by the Google API
// libraries.
type Options struct {
	SpreadsheetID   string
	LedgerSheet     string
	BudgetSheet     string
	CredentialsJSON []byte
}

func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.SpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if len(opts.CredentialsJSON) == 0 {
		return nil, errors.New("missing Google credentials")
	}
	if opts.LedgerSheet == "" {
		opts.LedgerSheet = "Ledger"
	}
	if opts.BudgetSheet == "" {
		opts.BudgetSheet = "Budgets"
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(opts.CredentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		ledgerSheet:   opts.LedgerSheet,
		budgetSheet:   opts.BudgetSheet,
	}, nil
}

// ListTransactions scans the ledger sheet. Expected columns are
// Date, Amount, Type, Category, Notes; rows that do not parse into a
// usable transaction are skipped rather than failing the whole read.
func (c *Client) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:E", c.ledgerSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return parseLedgerRows(resp.Values), nil
}

// ListBudgets scans the budget sheet. Expected columns are Name,
// Category, Amount, Spent.
func (c *Client) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:D", c.budgetSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return parseBudgetRows(resp.Values), nil
}
