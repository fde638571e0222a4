package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homefinder_backend/internal/adapters"
	"homefinder_backend/internal/adapters/storage"
	"homefinder_backend/internal/admin"
	"homefinder_backend/internal/agents"
	"homefinder_backend/internal/crm"
	"homefinder_backend/internal/email"
	"homefinder_backend/internal/events"
	apphttp "homefinder_backend/internal/http"
	"homefinder_backend/internal/http/router"
	"homefinder_backend/internal/inquiries"
	"homefinder_backend/internal/notification"
	"homefinder_backend/internal/pipeline"
	"homefinder_backend/internal/properties"
	"homefinder_backend/internal/scheduler"
	"homefinder_backend/internal/users"
	"homefinder_backend/migrations"
	"homefinder_backend/platform/config"
	"homefinder_backend/platform/db"
	"homefinder_backend/platform/logger"
	"homefinder_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

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
	log.Info("database connection established")

	applied, err := db.RunMigrations(ctx, pool, migrations.FS)
	if err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete", "applied", len(applied))

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()
	sender := email.NewSender(cfg)

	queue, closeQueue := initQueue(cfg, log)
	if closeQueue != nil {
		defer closeQueue()
	}

	storageSvc := initStorage(ctx, cfg, log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	propertiesModule := properties.NewModule(pool, cfg.GetPublicSiteURL(), val, log)

	pipelineModule, err := pipeline.NewModule(pool, eventBus, val, log)
	if err != nil {
		panic("failed to initialize pipeline module: " + err.Error())
	}
	crmModule, err := crm.NewModule(pool, val, log)
	if err != nil {
		panic("failed to initialize crm module: " + err.Error())
	}
	usersModule, err := users.NewModule(pool, val, log)
	if err != nil {
		panic("failed to initialize users module: " + err.Error())
	}

	// Anti-Corruption Layer: agents assign customers through the users service
	agentsModule, err := agents.NewModule(pool, adapters.NewCustomerAssigner(usersModule.Service()), val, log)
	if err != nil {
		panic("failed to initialize agents module: " + err.Error())
	}

	propertyLookup := adapters.NewInquiryPropertyLookup(propertiesModule.Repository())
	inquiriesModule, err := inquiries.NewModule(pool, propertyLookup, eventBus, val, log)
	if err != nil {
		panic("failed to initialize inquiries module: " + err.Error())
	}

	adminModule, err := admin.NewModule(pool, val, log)
	if err != nil {
		panic("failed to initialize admin module: " + err.Error())
	}
	adminModule.RegisterHandlers(eventBus)
	if queue != nil {
		adminModule.Service().SetImportQueue(queue)
	}
	if storageSvc != nil {
		adminModule.Service().SetReportStore(storageSvc, cfg.GetMinioBucketImportReports())
	}

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(sender, inquiriesModule.Service(), cfg, log)
	notificationModule.RegisterHandlers(eventBus)
	if queue != nil {
		notificationModule.SetQueue(queue)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules:  []apphttp.Module{
			propertiesModule,
			pipelineModule,
			crmModule,
			usersModule,
			agentsModule,
			inquiriesModule,
			adminModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initQueue(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; imports cannot be queued and emails are sent inline")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize task queue client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func initStorage(ctx context.Context, cfg config.MinIOConfig, log *logger.Logger) *storage.MinIOService {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MINIO_ENDPOINT not configured; import reports disabled")
		return nil
	}

	svc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}

	bucket := cfg.GetMinioBucketImportReports()
	if err := withRetry(ctx, log, "ensure import-reports bucket", 5, 2*time.Second, func() error {
		return svc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
	log.Info("storage service initialized", "importReportsBucket", bucket)
	return svc
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
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
