package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	"homefinder_backend/internal/properties/domain"
	"homefinder_backend/platform/logger"
)

type fakeStore struct {
	rows      map[string]domain.Property
	attempts  []int
	commits   []int
	failOn    map[int]bool
	existsErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]domain.Property), failOn: make(map[int]bool)}
}

func (s *fakeStore) Exists(_ context.Context, id string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	_, ok := s.rows[id]
	return ok, nil
}

func (s *fakeStore) InsertMany(_ context.Context, properties []domain.Property) error {
	attempt := len(s.attempts)
	s.attempts = append(s.attempts, len(properties))
	if s.failOn[attempt] {
		return errors.New("transaction aborted")
	}
	for _, p := range properties {
		s.rows[p.ID] = p
	}
	s.commits = append(s.commits, len(properties))
	return nil
}

// listings renders n listing objects with distinct listing ids.
func listings(prefix string, n int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"mls_id": "%s-%d", "list_price": "$%d", "street_address": "%d Elm St"}`, prefix, i, 100000+i, i)
	}
	return "[" + strings.Join(items, ",") + "]"
}

func newTestBatcher(t *testing.T, store Store, batchSize int) *Batcher {
	t.Helper()
	b, err := NewBatcher(store, logger.Discard(), Options{BatchSize: batchSize, ProgressEvery: 1, KeyToken: fixedToken})
	if err != nil {
		t.Fatalf("new batcher: %v", err)
	}
	return b
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRunCommitsInBoundedBatches(t *testing.T) {
	store := newFakeStore()
	fsys := fstest.MapFS{
		"states/tx/austin.json": {Data: []byte(listings("tx", 5))},
	}

	summary, err := newTestBatcher(t, store, 2).Run(context.Background(), fsys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalInts(store.commits, []int{2, 2, 1}) {
		t.Fatalf("expected commits [2 2 1], got %v", store.commits)
	}
	if summary.Loaded != 5 || summary.Batches != 3 || summary.Files != 1 || summary.Regions != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestRunFlushesAtRegionBoundary(t *testing.T) {
	store := newFakeStore()
	fsys := fstest.MapFS{
		"states/ca/a.json": {Data: []byte(listings("ca", 3))},
		"states/nv/a.json": {Data: []byte(listings("nv", 3))},
	}

	if _, err := newTestBatcher(t, store, 2).Run(context.Background(), fsys); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalInts(store.commits, []int{2, 1, 2, 1}) {
		t.Fatalf("expected commits [2 1 2 1], got %v", store.commits)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	store := newFakeStore()
	fsys := fstest.MapFS{
		"states/tx/a.json": {Data: []byte(listings("tx", 4))},
	}
	b := newTestBatcher(t, store, 3)

	if _, err := b.Run(context.Background(), fsys); err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := b.Run(context.Background(), fsys)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Loaded != 0 || second.Skipped != 4 {
		t.Fatalf("expected second run to skip all, got %+v", second)
	}
	if len(store.rows) != 4 {
		t.Fatalf("expected 4 stored rows, got %d", len(store.rows))
	}
}

func TestRunSkipsDuplicatesWithinBatch(t *testing.T) {
	store := newFakeStore()
	data := `[
		{"mls_id": "dup", "list_price": 100000},
		{"mls_id": "dup", "list_price": 200000},
		{"mls_id": "other", "list_price": 300000}
	]`
	fsys := fstest.MapFS{"states/tx/a.json": {Data: []byte(data)}}

	summary, err := newTestBatcher(t, store, 10).Run(context.Background(), fsys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Loaded != 2 || summary.Skipped != 1 {
		t.Fatalf("expected 2 loaded and 1 skipped, got %+v", summary)
	}
	if store.rows[md5Prefix("dup")].Price != 100000 {
		t.Fatal("expected the first occurrence to win")
	}
}

func TestRunCountsRejectedRecords(t *testing.T) {
	store := newFakeStore()
	data := `[
		{"mls_id": "ok", "list_price": 100000},
		{"mls_id": "no-price"},
		{"mls_id": "bad-lat", "list_price": 100000, "latitude": 200},
		"not an object"
	]`
	fsys := fstest.MapFS{"states/tx/a.json": {Data: []byte(data)}}

	summary, err := newTestBatcher(t, store, 10).Run(context.Background(), fsys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Loaded != 1 || summary.Rejected != 3 || summary.Skipped != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestRunAcceptsNumericStrings(t *testing.T) {
	store := newFakeStore()
	data := `[
		{"mls_id": "a", "list_price": 100000, "beds": "3"},
		{"mls_id": "b", "list_price": 100000, "full_baths": "2.5", "sqft": " 1850 ", "year_built": "1995"},
		{"mls_id": "c", "list_price": 100000, "latitude": "30.1", "longitude": "-97.7"},
		{"mls_id": "d", "list_price": 100000, "beds": "three"},
		{"mls_id": "e", "list_price": 100000, "latitude": "95"},
		{"mls_id": "f", "list_price": 100000, "hoa_fee": "NaN"}
	]`
	fsys := fstest.MapFS{"states/tx/a.json": {Data: []byte(data)}}
	resolver := NewResolver(fixedToken)

	summary, err := newTestBatcher(t, store, 10).Run(context.Background(), fsys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Loaded != 3 || summary.Rejected != 3 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	a := store.rows[resolver.Key(Listing{"mls_id": "a"})]
	if a.Beds == nil || *a.Beds != 3 {
		t.Fatalf("expected beds 3 from string, got %v", a.Beds)
	}
	b := store.rows[resolver.Key(Listing{"mls_id": "b"})]
	if b.Baths == nil || *b.Baths != 2.5 || b.Sqft == nil || *b.Sqft != 1850 || b.YearBuilt == nil || *b.YearBuilt != 1995 {
		t.Fatalf("unexpected numeric fields %+v", b)
	}
	c := store.rows[resolver.Key(Listing{"mls_id": "c"})]
	if c.Latitude == nil || *c.Latitude != 30.1 || c.Longitude == nil || *c.Longitude != -97.7 {
		t.Fatalf("unexpected coordinates %v %v", c.Latitude, c.Longitude)
	}
}

func TestRunRejectsValuesOutsideColumnRange(t *testing.T) {
	store := newFakeStore()
	data := `[
		{"mls_id": "ok", "list_price": 100000, "sqft": 2147483647},
		{"mls_id": "huge-sqft", "list_price": 100000, "sqft": 2147483648},
		{"mls_id": "huge-baths", "list_price": 100000, "full_baths": "1000"},
		{"mls_id": "huge-hoa", "list_price": 100000, "hoa_fee": 1e12}
	]`
	fsys := fstest.MapFS{"states/tx/a.json": {Data: []byte(data)}}

	summary, err := newTestBatcher(t, store, 10).Run(context.Background(), fsys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Loaded != 1 || summary.Rejected != 3 || summary.FailedBatches != 0 {
		t.Fatalf("expected bad values rejected per record, got %+v", summary)
	}
}

func TestRunSkipsUnreadableFilesAndHiddenEntries(t *testing.T) {
	store := newFakeStore()
	fsys := fstest.MapFS{
		"states/tx/a.json":        {Data: []byte("{not json")},
		"states/tx/b.json":        {Data: []byte(`{"mls_id": "single", "list_price": 250000}`)},
		"states/tx/.draft.json":   {Data: []byte(listings("draft", 2))},
		"states/tx/notes.txt":     {Data: []byte("ignored")},
		"states/.cache/a.json":    {Data: []byte(listings("cache", 2))},
		"states/tx/nested/c.json": {Data: []byte(listings("nested", 2))},
		"README.json":             {Data: []byte(listings("root", 2))},
	}

	summary, err := newTestBatcher(t, store, 10).Run(context.Background(), fsys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.FileErrors != 1 || summary.Loaded != 1 || summary.Files != 2 || summary.Regions != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestRunContinuesAfterFailedBatch(t *testing.T) {
	store := newFakeStore()
	store.failOn[0] = true
	fsys := fstest.MapFS{
		"states/tx/a.json": {Data: []byte(listings("tx", 5))},
	}

	summary, err := newTestBatcher(t, store, 2).Run(context.Background(), fsys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.FailedBatches != 1 || summary.Lost != 2 || summary.Loaded != 3 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(store.rows) != 3 {
		t.Fatalf("expected 3 stored rows, got %d", len(store.rows))
	}
}

func TestRunReportsWhenNoBatchCommits(t *testing.T) {
	store := newFakeStore()
	store.failOn[0] = true
	store.failOn[1] = true
	fsys := fstest.MapFS{
		"states/tx/a.json": {Data: []byte(listings("tx", 3))},
	}

	summary, err := newTestBatcher(t, store, 2).Run(context.Background(), fsys)
	if !errors.Is(err, ErrAllBatchesFailed) {
		t.Fatalf("expected ErrAllBatchesFailed, got %v", err)
	}
	if summary.Lost != 3 {
		t.Fatalf("expected 3 lost, got %d", summary.Lost)
	}
}

func TestRunAbortsWhenStoreUnavailable(t *testing.T) {
	store := newFakeStore()
	store.existsErr = errors.New("connection refused")
	fsys := fstest.MapFS{
		"states/tx/a.json": {Data: []byte(listings("tx", 2))},
	}

	_, err := newTestBatcher(t, store, 2).Run(context.Background(), fsys)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if len(store.attempts) != 0 {
		t.Fatalf("expected no commit attempts, got %v", store.attempts)
	}
}

func TestRunFailsWithoutRegionsDirectory(t *testing.T) {
	_, err := newTestBatcher(t, newFakeStore(), 2).Run(context.Background(), fstest.MapFS{})
	if err == nil {
		t.Fatal("expected error when the regions directory is missing")
	}
}
