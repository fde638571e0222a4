package importer

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"testing"
	"testing/fstest"

	"homefinder_backend/internal/events"
	"homefinder_backend/platform/logger"
)

type stubLocker struct {
	held     bool
	released int
}

func (l *stubLocker) TryImportLock(context.Context) (func(), bool, error) {
	if l.held {
		return nil, false, nil
	}
	return func() { l.released++ }, true, nil
}

type stubRunner struct {
	summary Summary
	err     error
	calls   int
}

func (r *stubRunner) Run(context.Context, fs.FS) (Summary, error) {
	r.calls++
	return r.summary, r.err
}

type stubArchiver struct {
	key string
	err error
}

func (a stubArchiver) Archive(context.Context, Summary) (string, error) {
	return a.key, a.err
}

type capturingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *capturingBus) Publish(_ context.Context, e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *capturingBus) PublishSync(ctx context.Context, e events.Event) error {
	b.Publish(ctx, e)
	return nil
}

func (b *capturingBus) Subscribe(string, events.Handler) {}

func TestJobArchivesAndAnnounces(t *testing.T) {
	runner := &stubRunner{summary: Summary{Loaded: 7, Skipped: 2, Batches: 1}}
	locker := &stubLocker{}
	bus := &capturingBus{}
	job := NewJob(runner, locker, stubArchiver{key: "imports/2026/05/summary.json"}, bus, logger.Discard())

	result, err := job.Run(context.Background(), fstest.MapFS{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ReportKey != "imports/2026/05/summary.json" || result.Summary.Loaded != 7 {
		t.Fatalf("unexpected result %+v", result)
	}
	if locker.released != 1 {
		t.Fatalf("expected lock released once, got %d", locker.released)
	}
	if len(bus.events) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.events))
	}
	completed, ok := bus.events[0].(events.PropertyImportCompleted)
	if !ok {
		t.Fatalf("unexpected event %T", bus.events[0])
	}
	if completed.Loaded != 7 || completed.Skipped != 2 || completed.ReportKey != result.ReportKey || completed.Err != "" {
		t.Fatalf("unexpected event payload %+v", completed)
	}
}

func TestJobRefusesWhenLockHeld(t *testing.T) {
	runner := &stubRunner{}
	bus := &capturingBus{}
	job := NewJob(runner, &stubLocker{held: true}, nil, bus, logger.Discard())

	if _, err := job.Run(context.Background(), fstest.MapFS{}); !errors.Is(err, ErrImportInProgress) {
		t.Fatalf("expected ErrImportInProgress, got %v", err)
	}
	if runner.calls != 0 || len(bus.events) != 0 {
		t.Fatalf("expected no run and no event, got %d runs and %d events", runner.calls, len(bus.events))
	}
}

func TestJobReportsRunFailure(t *testing.T) {
	runner := &stubRunner{summary: Summary{FailedBatches: 3}, err: ErrAllBatchesFailed}
	bus := &capturingBus{}
	job := NewJob(runner, &stubLocker{}, stubArchiver{err: errors.New("bucket missing")}, bus, logger.Discard())

	result, err := job.Run(context.Background(), fstest.MapFS{})
	if !errors.Is(err, ErrAllBatchesFailed) {
		t.Fatalf("expected ErrAllBatchesFailed, got %v", err)
	}
	if result.ReportKey != "" {
		t.Fatalf("expected no report key, got %q", result.ReportKey)
	}
	completed := bus.events[0].(events.PropertyImportCompleted)
	if completed.Err != ErrAllBatchesFailed.Error() || completed.FailedBatches != 3 {
		t.Fatalf("unexpected event payload %+v", completed)
	}
}
