package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"homefinder_backend/internal/importer"
	"homefinder_backend/platform/apperr"
	"homefinder_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type testSchedulerConfig struct {
	redisURL string
}

func (c testSchedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return "" }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func newTestClient(t *testing.T) *Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewClient(testSchedulerConfig{redisURL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestEnqueueImportIsUnique(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	id, err := client.EnqueueImport(ctx, PropertyImportPayload{RequestedBy: "admin"})
	if err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	if id == "" {
		t.Fatal("expected a task id")
	}

	_, err = client.EnqueueImport(ctx, PropertyImportPayload{RequestedBy: "admin"})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict on second enqueue, got %v", err)
	}
}

func TestEnqueueNotification(t *testing.T) {
	client := newTestClient(t)

	err := client.EnqueueNotification(context.Background(), NotificationSendPayload{
		Template:   "import_summary",
		Recipients: []string{"ops@example.com"},
		Data:       json.RawMessage(`{"loaded":3}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNilClientIsUnavailable(t *testing.T) {
	var client *Client
	if _, err := client.EnqueueImport(context.Background(), PropertyImportPayload{}); !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close on nil client: %v", err)
	}
}

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{}); err == nil {
		t.Fatal("expected error without redis url")
	}
}

type stubImports struct {
	err     error
	dirs    []string
	summary importer.Summary
}

func (s *stubImports) RunDir(_ context.Context, dir string) (importer.Result, error) {
	s.dirs = append(s.dirs, dir)
	return importer.Result{Summary: s.summary}, s.err
}

func importTask(t *testing.T, payload PropertyImportPayload) *asynq.Task {
	t.Helper()
	task, err := NewPropertyImportTask(payload)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	return task
}

func TestHandlePropertyImport(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name      string
		runErr    error
		dataPath  string
		wantErr   bool
		skipRetry bool
		runs      int
	}{
		{name: "configured data path", dataPath: dir, runs: 1},
		{name: "lock held elsewhere", dataPath: dir, runErr: importer.ErrImportInProgress, runs: 1},
		{name: "fatal store error", dataPath: dir, runErr: importer.ErrStoreUnavailable, wantErr: true, skipRetry: true, runs: 1},
		{name: "missing data path", dataPath: dir + "/nope", wantErr: true, skipRetry: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imports := &stubImports{err: tt.runErr}
			w := &Worker{imports: imports, dataPath: tt.dataPath, log: logger.Discard()}

			err := w.handlePropertyImport(context.Background(), importTask(t, PropertyImportPayload{RequestedBy: "admin"}))
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.skipRetry && !errors.Is(err, asynq.SkipRetry) {
				t.Fatalf("expected SkipRetry, got %v", err)
			}
			if len(imports.dirs) != tt.runs {
				t.Fatalf("expected %d runs, got %d", tt.runs, len(imports.dirs))
			}
			if tt.runs == 1 && imports.dirs[0] != dir {
				t.Fatalf("expected run over %s, got %s", dir, imports.dirs[0])
			}
		})
	}
}

func TestHandlePropertyImportIgnoresPathInPayload(t *testing.T) {
	dir := t.TempDir()
	imports := &stubImports{}
	w := &Worker{imports: imports, dataPath: dir, log: logger.Discard()}

	task := asynq.NewTask(TaskPropertyImport, []byte(`{"dataPath":"/etc","requestedBy":"admin"}`))
	if err := w.handlePropertyImport(context.Background(), task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(imports.dirs) != 1 || imports.dirs[0] != dir {
		t.Fatalf("expected run over configured %s, got %v", dir, imports.dirs)
	}
}

type recordingDeliverer struct {
	payloads []NotificationSendPayload
}

func (d *recordingDeliverer) Deliver(_ context.Context, payload NotificationSendPayload) error {
	d.payloads = append(d.payloads, payload)
	return nil
}

func TestHandleNotificationSend(t *testing.T) {
	deliverer := &recordingDeliverer{}
	w := &Worker{notifier: deliverer, log: logger.Discard()}

	task, err := NewNotificationSendTask(NotificationSendPayload{
		Template:   "inquiry_confirmation",
		Recipients: []string{"buyer@example.com"},
		Data:       json.RawMessage(`{"name":"Sam"}`),
		InquiryID:  "b3c1c1d4-2f41-4a59-9c0e-0d5f1c7b2a10",
	})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := w.handleNotificationSend(context.Background(), task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deliverer.payloads) != 1 || deliverer.payloads[0].Recipients[0] != "buyer@example.com" {
		t.Fatalf("unexpected deliveries %+v", deliverer.payloads)
	}
}
