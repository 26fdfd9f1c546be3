package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"finsight/internal/amqp"
	"finsight/internal/core"
	"finsight/internal/services"
	"finsight/internal/storage"
)

type fakeReportSource struct {
	report services.Report
	err    error
	calls  int
}

func (f *fakeReportSource) Report(_ context.Context, _, _ int) (services.Report, error) {
	f.calls++
	return f.report, f.err
}

type fakeDigestStore struct {
	saved    []storage.Digest
	saveErr  error
	pruneErr error
	pruned   int
}

func (f *fakeDigestStore) SaveDigest(_ context.Context, d storage.Digest) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.saved = append(f.saved, d)
	return "digest-1", nil
}

func (f *fakeDigestStore) PruneDigests(_ context.Context, keep int) error {
	f.pruned = keep
	return f.pruneErr
}

func TestHandleRefreshMessage(t *testing.T) {
	source := &fakeReportSource{report: services.Report{
		Summary:  core.Summary{Income: 5000, Expenses: 3000, Balance: 2000, SavingsRate: 40},
		Insights: []core.Insight{{Title: "Strong savings rate", Kind: core.KindSuccess}},
		Trends:   []core.Trend{{Category: "Groceries", Direction: core.TrendUp}},
	}}
	store := &fakeDigestStore{}
	w := NewDigestWorker(source, store, 4, 4)

	msg := amqp.NewRefreshMessage(amqp.ReasonLedgerChanged)
	if err := w.HandleRefreshMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleRefreshMessage() error = %v", err)
	}

	if len(store.saved) != 1 {
		t.Fatalf("saved %d digests, want 1", len(store.saved))
	}
	digest := store.saved[0]
	if digest.Reason != amqp.ReasonLedgerChanged {
		t.Errorf("digest reason = %q, want %q", digest.Reason, amqp.ReasonLedgerChanged)
	}
	if digest.GeneratedAt.IsZero() {
		t.Error("digest should carry a generation timestamp")
	}
	if len(digest.Insights) != 1 || len(digest.Trends) != 1 {
		t.Errorf("digest content = %d insights, %d trends, want 1 and 1", len(digest.Insights), len(digest.Trends))
	}
	if store.pruned != keepDigests {
		t.Errorf("pruned with keep = %d, want %d", store.pruned, keepDigests)
	}
}

func TestHandleRefreshMessageReportError(t *testing.T) {
	source := &fakeReportSource{err: errors.New("backend down")}
	store := &fakeDigestStore{}
	w := NewDigestWorker(source, store, 4, 4)

	err := w.HandleRefreshMessage(context.Background(), amqp.NewRefreshMessage(amqp.ReasonManualRefresh))
	if err == nil {
		t.Fatal("HandleRefreshMessage() should fail when the report cannot be computed")
	}
	if len(store.saved) != 0 {
		t.Errorf("no digest should be saved on report failure, got %d", len(store.saved))
	}
}

func TestHandleRefreshMessageSaveError(t *testing.T) {
	source := &fakeReportSource{}
	store := &fakeDigestStore{saveErr: errors.New("disk full")}
	w := NewDigestWorker(source, store, 4, 4)

	err := w.HandleRefreshMessage(context.Background(), amqp.NewRefreshMessage(amqp.ReasonManualRefresh))
	if err == nil {
		t.Fatal("HandleRefreshMessage() should propagate save errors so the delivery is requeued")
	}
}

func TestHandleRefreshMessagePruneErrorIsNotFatal(t *testing.T) {
	source := &fakeReportSource{}
	store := &fakeDigestStore{pruneErr: errors.New("lock timeout")}
	w := NewDigestWorker(source, store, 4, 4)

	if err := w.HandleRefreshMessage(context.Background(), amqp.NewRefreshMessage(amqp.ReasonScheduled)); err != nil {
		t.Errorf("HandleRefreshMessage() error = %v, prune failures should not fail the refresh", err)
	}
}

func TestRunScheduledStopsOnContextCancel(t *testing.T) {
	source := &fakeReportSource{}
	store := &fakeDigestStore{}
	w := NewDigestWorker(source, store, 4, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.RunScheduled(ctx, time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RunScheduled() error = %v, want context.Canceled", err)
	}
	// The startup digest still runs before the loop observes cancellation.
	if source.calls != 1 {
		t.Errorf("report computed %d times, want 1 (startup only)", source.calls)
	}
}
