package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homefinder_backend/internal/adapters/storage"
	adminrepo "homefinder_backend/internal/admin/repository"
	adminservice "homefinder_backend/internal/admin/service"
	"homefinder_backend/internal/email"
	"homefinder_backend/internal/events"
	"homefinder_backend/internal/importer"
	inquiryrepo "homefinder_backend/internal/inquiries/repository"
	"homefinder_backend/internal/notification"
	propertyrepo "homefinder_backend/internal/properties/repository"
	"homefinder_backend/internal/scheduler"
	"homefinder_backend/platform/config"
	"homefinder_backend/platform/db"
	"homefinder_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	defer eventBus.Wait()

	// Queued emails are delivered inline here; the worker never re-enqueues.
	notificationModule := notification.New(email.NewSender(cfg), inquiryrepo.New(pool), cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	activity := adminservice.New(adminrepo.New(pool), log)
	eventBus.Subscribe(events.PropertyImportCompleted{}.EventName(), activity)

	properties := propertyrepo.New(pool)
	batcher, err := importer.NewBatcher(properties, log, importer.Options{
		BatchSize:     cfg.GetImportBatchSize(),
		ProgressEvery: cfg.GetImportProgressEvery(),
	})
	if err != nil {
		panic("failed to initialize importer: " + err.Error())
	}
	job := importer.NewJob(batcher, properties, initArchiver(ctx, cfg, log), eventBus, log)

	worker, err := scheduler.NewWorker(cfg, cfg.GetDataPath(), job, notificationModule, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func initArchiver(ctx context.Context, cfg config.MinIOConfig, log *logger.Logger) importer.Archiver {
	if !cfg.IsMinIOEnabled() {
		return nil
	}

	store, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		return nil
	}
	bucket := cfg.GetMinioBucketImportReports()
	if err := withRetry(ctx, log, "ensure import-reports bucket", 3, time.Second, func() error {
		return store.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("import summaries will not be archived", "error", err, "bucket", bucket)
		return nil
	}
	return importer.NewReportArchiver(store, bucket)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", lastErr)

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
