package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finsight/internal/amqp"
	"finsight/internal/services"
	"finsight/internal/storage"
)

// keepDigests is how many historical digests the worker retains.
const keepDigests = 20

// ReportSource computes a full analytics pass over the current ledger.
type ReportSource interface {
	Report(ctx context.Context, insightLimit, trendLimit int) (services.Report, error)
}

// DigestStore persists computed digests.
type DigestStore interface {
	SaveDigest(ctx context.Context, digest storage.Digest) (string, error)
	PruneDigests(ctx context.Context, keep int) error
}

// DigestWorker recomputes the analytics digest when the ledger changes
// and on a fixed schedule, persisting each result.
type DigestWorker struct {
	source       ReportSource
	store        DigestStore
	insightLimit int
	trendLimit   int
}

func NewDigestWorker(source ReportSource, store DigestStore, insightLimit, trendLimit int) *DigestWorker {
	return &DigestWorker{
		source:       source,
		store:        store,
		insightLimit: insightLimit,
		trendLimit:   trendLimit,
	}
}

// HandleRefreshMessage processes a single refresh request from AMQP
func (w *DigestWorker) HandleRefreshMessage(ctx context.Context, msg *amqp.RefreshMessage) error {
	slog.InfoContext(ctx, "Processing refresh message",
		"id", msg.ID,
		"reason", msg.Reason)

	if err := w.generate(ctx, msg.Reason); err != nil {
		return err
	}
	return nil
}

// RunScheduled regenerates the digest every interval until the context
// ends. A digest is also generated immediately on startup so a fresh
// deployment has one without waiting a full interval.
func (w *DigestWorker) RunScheduled(ctx context.Context, interval time.Duration) error {
	if err := w.generate(ctx, amqp.ReasonScheduled); err != nil {
		slog.ErrorContext(ctx, "Startup digest generation failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping scheduled digest generation", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := w.generate(ctx, amqp.ReasonScheduled); err != nil {
				slog.ErrorContext(ctx, "Scheduled digest generation failed", "error", err)
			}
		}
	}
}

func (w *DigestWorker) generate(ctx context.Context, reason string) error {
	started := time.Now()

	report, err := w.source.Report(ctx, w.insightLimit, w.trendLimit)
	if err != nil {
		return fmt.Errorf("compute report: %w", err)
	}

	id, err := w.store.SaveDigest(ctx, storage.Digest{
		Reason:      reason,
		GeneratedAt: time.Now().UTC(),
		Summary:     report.Summary,
		Insights:    report.Insights,
		Trends:      report.Trends,
	})
	if err != nil {
		return fmt.Errorf("save digest: %w", err)
	}

	// Pruning is housekeeping; a failure does not fail the refresh.
	if err := w.store.PruneDigests(ctx, keepDigests); err != nil {
		slog.WarnContext(ctx, "Failed to prune digests", "error", err)
	}

	slog.InfoContext(ctx, "Digest generated",
		"id", id,
		"reason", reason,
		"insights", len(report.Insights),
		"trends", len(report.Trends),
		"duration", time.Since(started).Round(time.Millisecond))
	return nil
}
