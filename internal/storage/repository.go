package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"finsight/internal/core"
	"finsight/internal/source"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNoDigest is returned when no digest has been persisted yet.
var ErrNoDigest = errors.New("no digest stored")

// Digest is a persisted analytics snapshot: the summary plus the full
// insight candidate set and trends at the time it was computed.
type Digest struct {
	ID          string
	Reason      string
	GeneratedAt time.Time
	Summary     core.Summary
	Insights    []core.Insight
	Trends      []core.Trend
}

type SQLiteRepository struct {
	db *sql.DB
}

// Ensure interface conformance
var (
	_ source.LedgerReader = (*SQLiteRepository)(nil)
	_ source.BudgetReader = (*SQLiteRepository)(nil)
	_ source.LedgerWriter = (*SQLiteRepository)(nil)
	_ source.BudgetWriter = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListTransactions implements source.LedgerReader
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, amount, type, category, notes FROM transactions ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			dateStr string
			tx      core.Transaction
			txType  string
		)
		if err := rows.Scan(&dateStr, &tx.Amount, &txType, &tx.Category, &tx.Notes); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Date = core.ParseDate(dateStr)
		tx.Type = core.TransactionType(txType)
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// AppendTransaction implements source.LedgerWriter
func (r *SQLiteRepository) AppendTransaction(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, date, amount, type, category, notes) VALUES (?, ?, ?, ?, ?, ?)`,
		id, tx.Date.UTC().Format(time.RFC3339), tx.Amount, string(tx.Type), tx.Category, tx.Notes)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"type", tx.Type,
		"category", tx.Category,
		"amount", tx.Amount)
	return nil
}

// ListBudgets implements source.BudgetReader
func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, category, amount, spent FROM budgets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.Name, &b.Category, &b.Amount, &b.Spent); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		if b.Amount > 0 {
			b.PercentageUsed = core.SafeNumber(b.Spent / b.Amount * 100)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return out, nil
}

// UpsertBudget implements source.BudgetWriter
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, budget core.Budget) error {
	if err := budget.Validate(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (name, category, amount, spent) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET category = excluded.category, amount = excluded.amount, spent = excluded.spent`,
		budget.Name, budget.Category, budget.Amount, budget.Spent)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

// SaveDigest persists an analytics digest. The digest ID is assigned
// here when empty.
func (r *SQLiteRepository) SaveDigest(ctx context.Context, digest Digest) (string, error) {
	if digest.ID == "" {
		digest.ID = uuid.NewString()
	}
	if digest.GeneratedAt.IsZero() {
		digest.GeneratedAt = time.Now().UTC()
	}

	summaryJSON, err := json.Marshal(digest.Summary)
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}
	insightsJSON, err := json.Marshal(digest.Insights)
	if err != nil {
		return "", fmt.Errorf("marshal insights: %w", err)
	}
	trendsJSON, err := json.Marshal(digest.Trends)
	if err != nil {
		return "", fmt.Errorf("marshal trends: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO insight_digests (id, reason, generated_at, summary_json, insights_json, trends_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		digest.ID, digest.Reason, digest.GeneratedAt.UTC().Format(time.RFC3339),
		string(summaryJSON), string(insightsJSON), string(trendsJSON))
	if err != nil {
		return "", fmt.Errorf("insert digest: %w", err)
	}

	slog.InfoContext(ctx, "Digest saved to SQLite",
		"id", digest.ID,
		"reason", digest.Reason,
		"insights", len(digest.Insights),
		"trends", len(digest.Trends))
	return digest.ID, nil
}

// LatestDigest returns the most recently generated digest, or
// ErrNoDigest when none exists.
func (r *SQLiteRepository) LatestDigest(ctx context.Context) (*Digest, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, reason, generated_at, summary_json, insights_json, trends_json
		 FROM insight_digests ORDER BY generated_at DESC, id DESC LIMIT 1`)

	var (
		digest       Digest
		generatedAt  string
		summaryJSON  string
		insightsJSON string
		trendsJSON   string
	)
	err := row.Scan(&digest.ID, &digest.Reason, &generatedAt, &summaryJSON, &insightsJSON, &trendsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoDigest
	}
	if err != nil {
		return nil, fmt.Errorf("scan digest: %w", err)
	}

	digest.GeneratedAt = core.ParseDate(generatedAt)
	if err := json.Unmarshal([]byte(summaryJSON), &digest.Summary); err != nil {
		return nil, fmt.Errorf("unmarshal summary: %w", err)
	}
	if err := json.Unmarshal([]byte(insightsJSON), &digest.Insights); err != nil {
		return nil, fmt.Errorf("unmarshal insights: %w", err)
	}
	if err := json.Unmarshal([]byte(trendsJSON), &digest.Trends); err != nil {
		return nil, fmt.Errorf("unmarshal trends: %w", err)
	}
	return &digest, nil
}

// PruneDigests keeps the most recent n digests and deletes the rest.
func (r *SQLiteRepository) PruneDigests(ctx context.Context, keep int) error {
	if keep < 1 {
		keep = 1
	}
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM insight_digests WHERE id NOT IN (
			SELECT id FROM insight_digests ORDER BY generated_at DESC, id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("prune digests: %w", err)
	}
	if deleted, err := result.RowsAffected(); err == nil && deleted > 0 {
		slog.InfoContext(ctx, "Pruned old digests", "deleted", deleted, "kept", keep)
	}
	return nil
}
