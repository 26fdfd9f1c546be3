package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"finsight/internal/amqp"
	"finsight/internal/analytics"
	"finsight/internal/core"
	"finsight/internal/source"
)

// ErrReadOnlyBackend is returned for write operations when the
// configured backend cannot accept writes (e.g. Google Sheets).
var ErrReadOnlyBackend = errors.New("backend is read-only")

// Publisher publishes refresh requests for the digest worker.
type Publisher interface {
	PublishRefresh(ctx context.Context, reason string) error
}

// Report bundles one full analytics pass over the ledger.
type Report struct {
	Summary  core.Summary   `json:"summary"`
	Insights []core.Insight `json:"insights"`
	Trends   []core.Trend   `json:"trends"`
}

// InsightService orchestrates ledger reads, the analytics engine and
// refresh notifications. The engine holds per-instance random state,
// so a fresh one is created per operation instead of sharing across
// goroutines.
type InsightService struct {
	store        source.Store
	ledgerWriter source.LedgerWriter
	budgetWriter source.BudgetWriter
	publisher    Publisher
	newEngine    func() *analytics.Engine
}

func NewInsightService(store source.Store, publisher Publisher) *InsightService {
	s := &InsightService{
		store:     store,
		publisher: publisher,
		newEngine: analytics.NewEngine,
	}
	if w, ok := store.(source.LedgerWriter); ok {
		s.ledgerWriter = w
	}
	if w, ok := store.(source.BudgetWriter); ok {
		s.budgetWriter = w
	}
	return s
}

// WithEngineFactory overrides how engines are built. Tests pin the
// clock and random source through this.
func (s *InsightService) WithEngineFactory(factory func() *analytics.Engine) *InsightService {
	s.newEngine = factory
	return s
}

// Snapshot fetches transactions and budgets concurrently.
func (s *InsightService) Snapshot(ctx context.Context) ([]core.Transaction, []core.Budget, error) {
	var (
		transactions []core.Transaction
		budgets      []core.Budget
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.store.ListTransactions(ctx)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		budgets, err = s.store.ListBudgets(ctx)
		if err != nil {
			return fmt.Errorf("list budgets: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return transactions, budgets, nil
}

// Summary aggregates the current ledger snapshot.
func (s *InsightService) Summary(ctx context.Context) (core.Summary, error) {
	transactions, err := s.store.ListTransactions(ctx)
	if err != nil {
		return core.Summary{}, fmt.Errorf("list transactions: %w", err)
	}
	return analytics.Aggregate(transactions), nil
}

// InsightCandidates runs the full rule table and returns every insight
// that fired, unshuffled. Callers that want the display sample pass
// the result through SelectInsights; keeping the two steps separate
// lets the candidate set be cached while each request still gets a
// fresh random pick.
func (s *InsightService) InsightCandidates(ctx context.Context) ([]core.Insight, error) {
	transactions, budgets, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	summary := analytics.Aggregate(transactions)
	return s.newEngine().Evaluate(transactions, budgets, summary), nil
}

// SelectInsights shuffles candidates and truncates to limit.
func (s *InsightService) SelectInsights(candidates []core.Insight, limit int) []core.Insight {
	return s.newEngine().SelectInsights(candidates, limit)
}

// Insights returns a random sample of the currently firing insights.
func (s *InsightService) Insights(ctx context.Context, limit int) ([]core.Insight, error) {
	candidates, err := s.InsightCandidates(ctx)
	if err != nil {
		return nil, err
	}
	return s.SelectInsights(candidates, limit), nil
}

// Trends returns the month-over-month category trends.
func (s *InsightService) Trends(ctx context.Context, limit int) ([]core.Trend, error) {
	transactions, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return s.newEngine().AnalyzeTrends(transactions, limit), nil
}

// Report runs the rule engine and the trend analyzer over one
// snapshot, in parallel on separate engines.
func (s *InsightService) Report(ctx context.Context, insightLimit, trendLimit int) (Report, error) {
	transactions, budgets, err := s.Snapshot(ctx)
	if err != nil {
		return Report{}, err
	}
	summary := analytics.Aggregate(transactions)

	var (
		insights []core.Insight
		trends   []core.Trend
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		engine := s.newEngine()
		insights = engine.SelectInsights(engine.Evaluate(transactions, budgets, summary), insightLimit)
		return nil
	})
	g.Go(func() error {
		trends = s.newEngine().AnalyzeTrends(transactions, trendLimit)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	return Report{Summary: summary, Insights: insights, Trends: trends}, nil
}

// AddTransaction appends a ledger entry and requests a digest refresh.
// The refresh is best-effort: a broker failure does not fail the write.
func (s *InsightService) AddTransaction(ctx context.Context, tx core.Transaction) error {
	if s.ledgerWriter == nil {
		return ErrReadOnlyBackend
	}
	if err := s.ledgerWriter.AppendTransaction(ctx, tx); err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	s.notifyRefresh(ctx, amqp.ReasonLedgerChanged)
	return nil
}

// AddBudget creates or replaces a budget and requests a digest refresh.
func (s *InsightService) AddBudget(ctx context.Context, budget core.Budget) error {
	if s.budgetWriter == nil {
		return ErrReadOnlyBackend
	}
	if err := s.budgetWriter.UpsertBudget(ctx, budget); err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	s.notifyRefresh(ctx, amqp.ReasonLedgerChanged)
	return nil
}

// RequestRefresh publishes a manual refresh request.
func (s *InsightService) RequestRefresh(ctx context.Context) error {
	if s.publisher == nil {
		return errors.New("refresh publishing not configured")
	}
	return s.publisher.PublishRefresh(ctx, amqp.ReasonManualRefresh)
}

func (s *InsightService) notifyRefresh(ctx context.Context, reason string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Refresh publisher not available, skipping notification")
		return
	}
	if err := s.publisher.PublishRefresh(ctx, reason); err != nil {
		slog.ErrorContext(ctx, "Failed to publish refresh message",
			"reason", reason, "error", err)
	}
}
