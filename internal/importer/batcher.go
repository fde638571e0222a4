package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"homefinder_backend/internal/properties/domain"
	"homefinder_backend/platform/logger"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	// DefaultBatchSize is the number of listings committed per transaction.
	DefaultBatchSize = 500
	// DefaultProgressEvery is the file interval between progress log lines.
	DefaultProgressEvery = 50
	// RegionsDir is the directory under the data root holding one folder per region.
	RegionsDir = "states"
)

var (
	// ErrStoreUnavailable aborts a run when the store cannot answer an
	// existence lookup.
	ErrStoreUnavailable = errors.New("property store unavailable")
	// ErrAllBatchesFailed is returned when batches were attempted and none committed.
	ErrAllBatchesFailed = errors.New("no import batch committed")
)

// Store is the slice of the property repository the importer writes through.
type Store interface {
	Exists(ctx context.Context, id string) (bool, error)
	InsertMany(ctx context.Context, properties []domain.Property) error
}

// Options tunes a Batcher.
type Options struct {
	BatchSize     int
	ProgressEvery int
	// KeyToken overrides the random token used for listings without an
	// address. Tests use it to make fallback keys predictable.
	KeyToken func() string
}

// Summary reports the outcome of one run.
type Summary struct {
	StartedAt     time.Time     `json:"startedAt"`
	Elapsed       time.Duration `json:"elapsed"`
	Regions       int           `json:"regions"`
	Files         int           `json:"files"`
	FileErrors    int           `json:"fileErrors"`
	Loaded        int           `json:"loaded"`
	Skipped       int           `json:"skipped"`
	Rejected      int           `json:"rejected"`
	Lost          int           `json:"lost"`
	Batches       int           `json:"batches"`
	FailedBatches int           `json:"failedBatches"`
}

// Batcher loads listing files through a Store in bounded transactional batches.
// A Batcher runs one import at a time; it is not safe for concurrent Run calls.
type Batcher struct {
	store    Store
	resolver *Resolver
	schema   *jsonschema.Schema
	log      *logger.Logger
	opts     Options
	now      func() time.Time
}

// NewBatcher builds a Batcher. Non-positive options fall back to the defaults.
func NewBatcher(store Store, log *logger.Logger, opts Options) (*Batcher, error) {
	if opts.BatchSize < 1 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.ProgressEvery < 1 {
		opts.ProgressEvery = DefaultProgressEvery
	}
	schema, err := compileListingSchema()
	if err != nil {
		return nil, err
	}
	return &Batcher{
		store:    store,
		resolver: NewResolver(opts.KeyToken),
		schema:   schema,
		log:      log,
		opts:     opts,
		now:      time.Now,
	}, nil
}

// run is the mutable state of a single import.
type run struct {
	*Batcher
	summary Summary
	batch   []domain.Property
	pending map[string]struct{}
}

// Run imports every region under states/ in fsys. Region directories and
// files are visited in lexical order; hidden entries are skipped. The summary
// is always returned, also alongside an error.
func (b *Batcher) Run(ctx context.Context, fsys fs.FS) (Summary, error) {
	r := &run{
		Batcher: b,
		batch:   make([]domain.Property, 0, b.opts.BatchSize),
		pending: make(map[string]struct{}, b.opts.BatchSize),
	}
	r.summary.StartedAt = b.now().UTC()

	err := r.importRegions(ctx, fsys)
	r.summary.Elapsed = b.now().Sub(r.summary.StartedAt)

	if err == nil && r.summary.FailedBatches > 0 && r.summary.Batches == 0 {
		err = ErrAllBatchesFailed
	}

	s := r.summary
	b.log.Info("import finished",
		"loaded", s.Loaded,
		"skipped", s.Skipped,
		"rejected", s.Rejected,
		"lost", s.Lost,
		"files", s.Files,
		"fileErrors", s.FileErrors,
		"regions", s.Regions,
		"batches", s.Batches,
		"failedBatches", s.FailedBatches,
		"elapsed", s.Elapsed.Round(time.Millisecond).String(),
	)
	return s, err
}

func (r *run) importRegions(ctx context.Context, fsys fs.FS) error {
	regions, err := fs.ReadDir(fsys, RegionsDir)
	if err != nil {
		return fmt.Errorf("read regions: %w", err)
	}

	for _, region := range regions {
		if !region.IsDir() || hidden(region.Name()) {
			continue
		}
		if err := r.importRegion(ctx, fsys, region.Name()); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) importRegion(ctx context.Context, fsys fs.FS, region string) error {
	dir := path.Join(RegionsDir, region)
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		r.log.Warn("region skipped", "region", region, "error", err)
		return nil
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || hidden(entry.Name()) || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		files = append(files, path.Join(dir, entry.Name()))
	}

	r.summary.Regions++
	r.log.Info("importing region", "region", region, "files", len(files))

	for _, file := range files {
		if err := r.importFile(ctx, fsys, file); err != nil {
			return err
		}
		r.summary.Files++
		if r.summary.Files%r.opts.ProgressEvery == 0 {
			r.log.Info("import progress",
				"files", r.summary.Files,
				"loaded", r.summary.Loaded,
				"skipped", r.summary.Skipped,
				"elapsed", r.now().Sub(r.summary.StartedAt).Round(time.Second).String(),
			)
		}
	}

	r.commit(ctx)
	r.log.Info("region finished", "region", region, "loaded", r.summary.Loaded, "skipped", r.summary.Skipped)
	return nil
}

// importFile returns an error only for conditions that must stop the run.
func (r *run) importFile(ctx context.Context, fsys fs.FS, file string) error {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		r.summary.FileErrors++
		r.log.Warn("file skipped", "file", file, "error", err)
		return nil
	}

	records, err := decodeRecords(data)
	if err != nil {
		r.summary.FileErrors++
		r.log.Warn("file skipped", "file", file, "error", err)
		return nil
	}

	for i, record := range records {
		if err := r.importRecord(ctx, record); err != nil {
			if errors.Is(err, ErrRecordRejected) {
				r.summary.Rejected++
				r.log.Debug("record rejected", "file", file, "index", i, "reason", err)
				continue
			}
			return err
		}
	}
	return nil
}

func (r *run) importRecord(ctx context.Context, record any) error {
	fields, ok := record.(map[string]any)
	if !ok {
		return reject("record is %T, not an object", record)
	}
	if err := r.schema.Validate(fields); err != nil {
		return reject("%v", err)
	}

	listing := Listing(fields)
	key := r.resolver.Key(listing)
	property, err := Convert(listing, key)
	if err != nil {
		return err
	}

	if _, queued := r.pending[key]; queued {
		r.summary.Skipped++
		return nil
	}

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if exists {
		r.summary.Skipped++
		return nil
	}

	r.batch = append(r.batch, property)
	r.pending[key] = struct{}{}
	if len(r.batch) >= r.opts.BatchSize {
		r.commit(ctx)
	}
	return nil
}

// commit writes the current batch. A failed commit discards the batch and
// the run carries on.
func (r *run) commit(ctx context.Context) {
	if len(r.batch) == 0 {
		return
	}

	size := len(r.batch)
	if err := r.store.InsertMany(ctx, r.batch); err != nil {
		r.summary.FailedBatches++
		r.summary.Lost += size
		r.log.Error("batch commit failed, batch discarded", "size", size, "error", err)
	} else {
		r.summary.Batches++
		r.summary.Loaded += size
		r.log.Info("batch committed", "size", size, "loaded", r.summary.Loaded)
	}

	r.batch = make([]domain.Property, 0, r.opts.BatchSize)
	clear(r.pending)
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
