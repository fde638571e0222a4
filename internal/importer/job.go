package importer

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"homefinder_backend/internal/events"
	"homefinder_backend/platform/logger"
)

// ErrImportInProgress is returned when another process holds the import lock.
var ErrImportInProgress = errors.New("property import already in progress")

// Locker serialises imports across processes.
type Locker interface {
	TryImportLock(ctx context.Context) (release func(), ok bool, err error)
}

// Archiver stores a finished run summary and returns its object key.
type Archiver interface {
	Archive(ctx context.Context, s Summary) (string, error)
}

// Runner is the batch import entry point.
type Runner interface {
	Run(ctx context.Context, fsys fs.FS) (Summary, error)
}

// Job runs one guarded import: lock, batch load, archive, announce.
type Job struct {
	runner   Runner
	locker   Locker
	archiver Archiver
	bus      events.Publisher
	log      *logger.Logger
}

// NewJob wires a Job. archiver and bus may be nil.
func NewJob(runner Runner, locker Locker, archiver Archiver, bus events.Publisher, log *logger.Logger) *Job {
	return &Job{runner: runner, locker: locker, archiver: archiver, bus: bus, log: log}
}

// Result is what a guarded run produced.
type Result struct {
	Summary   Summary
	ReportKey string
}

// Run imports fsys while holding the import lock. A held lock returns
// ErrImportInProgress without touching the store.
func (j *Job) Run(ctx context.Context, fsys fs.FS) (Result, error) {
	release, ok, err := j.locker.TryImportLock(ctx)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		j.log.Warn("import skipped, another import holds the lock")
		return Result{}, ErrImportInProgress
	}
	defer release()

	summary, runErr := j.runner.Run(ctx, fsys)
	result := Result{Summary: summary}

	if j.archiver != nil {
		key, err := j.archiver.Archive(context.WithoutCancel(ctx), summary)
		if err != nil {
			j.log.Warn("import summary not archived", "error", err)
		} else {
			result.ReportKey = key
			j.log.Info("import summary archived", "key", key)
		}
	}

	if j.bus != nil {
		completed := events.PropertyImportCompleted{
			BaseEvent:     events.NewBaseEvent(),
			StartedAt:     summary.StartedAt,
			Loaded:        summary.Loaded,
			Skipped:       summary.Skipped,
			Rejected:      summary.Rejected,
			Lost:          summary.Lost,
			Files:         summary.Files,
			FileErrors:    summary.FileErrors,
			Batches:       summary.Batches,
			FailedBatches: summary.FailedBatches,
			Elapsed:       summary.Elapsed,
			ReportKey:     result.ReportKey,
		}
		if runErr != nil {
			completed.Err = runErr.Error()
		}
		j.bus.Publish(context.WithoutCancel(ctx), completed)
	}

	return result, runErr
}

// RunDir runs the import over the directory tree rooted at dir.
func (j *Job) RunDir(ctx context.Context, dir string) (Result, error) {
	return j.Run(ctx, os.DirFS(dir))
}
