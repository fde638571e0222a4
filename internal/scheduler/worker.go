package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"

	"homefinder_backend/internal/importer"
	"homefinder_backend/platform/config"
	"homefinder_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// ImportRunner runs one guarded import over a directory tree.
type ImportRunner interface {
	RunDir(ctx context.Context, dataPath string) (importer.Result, error)
}

// NotificationDeliverer sends a queued notification.
type NotificationDeliverer interface {
	Deliver(ctx context.Context, payload NotificationSendPayload) error
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	imports  ImportRunner
	notifier NotificationDeliverer
	dataPath string
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, dataPath string, imports ImportRunner, notifier NotificationDeliverer, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		imports:  imports,
		notifier: notifier,
		dataPath: dataPath,
		log:      log,
	}

	mux.HandleFunc(TaskPropertyImport, w.handlePropertyImport)
	mux.HandleFunc(TaskNotificationSend, w.handleNotificationSend)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handlePropertyImport(ctx context.Context, task *asynq.Task) error {
	payload, err := ParsePropertyImportPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	if _, err := os.Stat(w.dataPath); err != nil {
		return fmt.Errorf("import data path: %w: %w", err, asynq.SkipRetry)
	}

	w.log.Info("property import started", "dataPath", w.dataPath, "requestedBy", payload.RequestedBy)
	result, err := w.imports.RunDir(ctx, w.dataPath)
	if errors.Is(err, importer.ErrImportInProgress) {
		w.log.Warn("property import skipped, lock held elsewhere")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	w.log.Info("property import completed", "loaded", result.Summary.Loaded, "reportKey", result.ReportKey)
	return nil
}

func (w *Worker) handleNotificationSend(ctx context.Context, task *asynq.Task) error {
	if w.notifier == nil {
		return nil
	}

	payload, err := ParseNotificationSendPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	return w.notifier.Deliver(ctx, payload)
}
