// Command property-import loads listing files from a data directory into the
// property catalogue. It exits non-zero when the import fails or another
// import holds the lock.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"homefinder_backend/internal/adapters/storage"
	adminrepo "homefinder_backend/internal/admin/repository"
	adminservice "homefinder_backend/internal/admin/service"
	"homefinder_backend/internal/email"
	"homefinder_backend/internal/events"
	"homefinder_backend/internal/importer"
	"homefinder_backend/internal/notification"
	propertyrepo "homefinder_backend/internal/properties/repository"
	"homefinder_backend/migrations"
	"homefinder_backend/platform/config"
	"homefinder_backend/platform/db"
	"homefinder_backend/platform/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "property-import:", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [data-path]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dataPath := cfg.GetDataPath()
	if flag.NArg() > 0 {
		dataPath = flag.Arg(0)
	}
	if info, err := os.Stat(dataPath); err != nil || !info.IsDir() {
		return fmt.Errorf("data path %q is not a directory", dataPath)
	}

	log := logger.New(cfg.Env)
	log.Info("starting property import", "dataPath", dataPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if _, err := db.RunMigrations(ctx, pool, migrations.FS); err != nil {
		return err
	}

	// Completion is announced to the same listeners the API process runs.
	bus := events.NewInMemoryBus(log)
	defer bus.Wait()
	notification.New(email.NewSender(cfg), nil, cfg, log).RegisterHandlers(bus)
	activity := adminservice.New(adminrepo.New(pool), log)
	bus.Subscribe(events.PropertyImportCompleted{}.EventName(), activity)

	properties := propertyrepo.New(pool)
	batcher, err := importer.NewBatcher(properties, log, importer.Options{
		BatchSize:     cfg.GetImportBatchSize(),
		ProgressEvery: cfg.GetImportProgressEvery(),
	})
	if err != nil {
		return err
	}

	var archiver importer.Archiver
	if cfg.IsMinIOEnabled() {
		store, err := storage.NewMinIOService(cfg)
		if err != nil {
			return fmt.Errorf("initialize storage: %w", err)
		}
		if err := store.EnsureBucketExists(ctx, cfg.GetMinioBucketImportReports()); err != nil {
			log.Warn("import reports bucket unavailable, summary will not be archived", "error", err)
		} else {
			archiver = importer.NewReportArchiver(store, cfg.GetMinioBucketImportReports())
		}
	}

	job := importer.NewJob(batcher, properties, archiver, bus, log)
	result, err := job.RunDir(ctx, dataPath)
	if errors.Is(err, importer.ErrImportInProgress) {
		return err
	}

	s := result.Summary
	fmt.Printf("loaded=%d skipped=%d rejected=%d lost=%d files=%d elapsed=%s\n",
		s.Loaded, s.Skipped, s.Rejected, s.Lost, s.Files, s.Elapsed)
	if result.ReportKey != "" {
		fmt.Printf("report=%s\n", result.ReportKey)
	}
	return err
}
