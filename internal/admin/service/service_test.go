package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"homefinder_backend/internal/adapters/storage"
	"homefinder_backend/internal/admin/repository"
	"homefinder_backend/internal/admin/transport"
	"homefinder_backend/internal/events"
	"homefinder_backend/internal/scheduler"
	"homefinder_backend/platform/apperr"
	"homefinder_backend/platform/logger"

	"github.com/google/uuid"
)

var fixedNow = time.Date(2026, time.March, 17, 9, 30, 0, 0, time.UTC)

type fakeRepo struct {
	repository.Repository

	mu         sync.Mutex
	features   map[string]repository.Feature
	activities []repository.Activity
	monthStart time.Time
	countErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{features: make(map[string]repository.Feature)}
}

func (r *fakeRepo) GetFeature(_ context.Context, key string) (repository.Feature, error) {
	f, ok := r.features[key]
	if !ok {
		return repository.Feature{}, apperr.NotFound("feature not found")
	}
	return f, nil
}

func (r *fakeRepo) CreateFeature(_ context.Context, f repository.Feature) error {
	if _, ok := r.features[f.FeatureKey]; ok {
		return apperr.Conflict("feature key already exists")
	}
	r.features[f.FeatureKey] = f
	return nil
}

func (r *fakeRepo) UpdateFeature(_ context.Context, f repository.Feature) error {
	r.features[f.FeatureKey] = f
	return nil
}

func (r *fakeRepo) SetFeatureEnabled(_ context.Context, key string, enabled bool, by *uuid.UUID, at time.Time) error {
	f, ok := r.features[key]
	if !ok {
		return apperr.NotFound("feature not found")
	}
	f.IsEnabled = enabled
	f.EnabledBy = by
	f.EnabledAt = &at
	r.features[key] = f
	return nil
}

func (r *fakeRepo) InsertFeatureIfAbsent(_ context.Context, f repository.Feature) (bool, error) {
	if _, ok := r.features[f.FeatureKey]; ok {
		return false, nil
	}
	r.features[f.FeatureKey] = f
	return true, nil
}

func (r *fakeRepo) CreateActivity(_ context.Context, a repository.Activity) error {
	r.activities = append(r.activities, a)
	return nil
}

func (r *fakeRepo) ListActivity(_ context.Context, f repository.ActivityFilter) ([]repository.Activity, int, error) {
	var out []repository.Activity
	for _, a := range r.activities {
		if f.Since != nil && a.CreatedAt.Before(*f.Since) {
			continue
		}
		out = append(out, a)
	}
	return out, len(out), nil
}

func (r *fakeRepo) CountCustomers(context.Context) (int, int, error) { return 40, 31, r.countErr }
func (r *fakeRepo) CountAgents(context.Context) (int, int, error)    { return 6, 5, nil }
func (r *fakeRepo) CountInquiries(context.Context) (int, int, error) { return 12, 4, nil }
func (r *fakeRepo) CountProperties(context.Context) (int, error)     { return 1800, nil }

func (r *fakeRepo) PipelineMonth(_ context.Context, monthStart time.Time) (int, int, int64, error) {
	r.mu.Lock()
	r.monthStart = monthStart
	r.mu.Unlock()
	return 9, 2, 735000, nil
}

func newTestService(repo *fakeRepo) *Service {
	svc := New(repo, logger.Discard())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestDashboardCombinesCounts(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	stats, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalCustomers != 40 || stats.ActiveAgents != 5 || stats.NewInquiries != 4 || stats.TotalProperties != 1800 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.LeadsThisMonth != 9 || stats.ConversionsThisMonth != 2 || stats.RevenueThisMonth != 735000 {
		t.Fatalf("unexpected pipeline month: %+v", stats)
	}
	want := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !repo.monthStart.Equal(want) {
		t.Fatalf("expected month start %s, got %s", want, repo.monthStart)
	}
}

func TestDashboardPropagatesCountFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.countErr = errors.New("connection reset")
	svc := newTestService(repo)

	if _, err := svc.Dashboard(context.Background()); err == nil {
		t.Fatal("expected error when a count fails")
	}
}

func TestCreateFeatureDefaults(t *testing.T) {
	svc := newTestService(newFakeRepo())

	f, err := svc.CreateFeature(context.Background(), transport.CreateFeatureRequest{
		FeatureKey: "map_view",
		Name:       " Map View ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Category != "general" || !f.IsEnabled || f.Name != "Map View" {
		t.Fatalf("unexpected defaults: %+v", f)
	}

	_, err = svc.CreateFeature(context.Background(), transport.CreateFeatureRequest{FeatureKey: "map_view", Name: "Again"})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for duplicate key, got %v", err)
	}
}

func TestUpdateFeatureAppliesOnlyProvidedFields(t *testing.T) {
	repo := newFakeRepo()
	desc := "Grid of listings"
	repo.features["grid"] = repository.Feature{FeatureKey: "grid", Name: "Grid", Description: &desc, Category: "search", IsEnabled: true, DisplayOrder: 3}
	svc := newTestService(repo)

	order := 7
	f, err := svc.UpdateFeature(context.Background(), "grid", transport.UpdateFeatureRequest{DisplayOrder: &order})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.DisplayOrder != 7 || f.Name != "Grid" || f.Category != "search" || !f.IsEnabled {
		t.Fatalf("unexpected feature after update: %+v", f)
	}
	if f.Description == nil || *f.Description != desc {
		t.Fatalf("expected description kept, got %v", f.Description)
	}
}

func TestToggleFeatureRecordsActor(t *testing.T) {
	repo := newFakeRepo()
	repo.features["grid"] = repository.Feature{FeatureKey: "grid", Name: "Grid", IsEnabled: true}
	svc := newTestService(repo)
	actor := uuid.New()

	f, err := svc.ToggleFeature(context.Background(), "grid", false, &actor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.IsEnabled || f.EnabledBy == nil || *f.EnabledBy != actor {
		t.Fatalf("unexpected toggle result: %+v", f)
	}
	if f.EnabledAt == nil || !f.EnabledAt.Equal(fixedNow) {
		t.Fatalf("expected toggle time %s, got %v", fixedNow, f.EnabledAt)
	}

	if _, err := svc.ToggleFeature(context.Background(), "missing", true, nil); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSeedFeaturesKeepsExistingKeys(t *testing.T) {
	repo := newFakeRepo()
	repo.features["dashboard_saved_properties"] = repository.Feature{FeatureKey: "dashboard_saved_properties", Name: "Custom", IsEnabled: false}
	svc := newTestService(repo)

	defaults, err := DefaultFeatures()
	if err != nil {
		t.Fatalf("parse defaults: %v", err)
	}

	resp, err := svc.SeedFeatures(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Created != len(defaults)-1 {
		t.Fatalf("expected %d created, got %d", len(defaults)-1, resp.Created)
	}
	if kept := repo.features["dashboard_saved_properties"]; kept.Name != "Custom" || kept.IsEnabled {
		t.Fatalf("existing feature was overwritten: %+v", kept)
	}

	again, err := svc.SeedFeatures(context.Background())
	if err != nil || again.Created != 0 {
		t.Fatalf("expected second seed to create nothing, got %+v, %v", again, err)
	}
}

func TestDefaultFeatureKeysAreValid(t *testing.T) {
	defaults, err := DefaultFeatures()
	if err != nil {
		t.Fatalf("parse defaults: %v", err)
	}
	if len(defaults) == 0 {
		t.Fatal("expected a non-empty default catalogue")
	}
	seen := make(map[string]bool)
	for _, d := range defaults {
		if !IsValidFeatureKey(d.Key) {
			t.Fatalf("invalid default key %q", d.Key)
		}
		if seen[d.Key] {
			t.Fatalf("duplicate default key %q", d.Key)
		}
		seen[d.Key] = true
	}
}

func TestIsValidFeatureKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"map_view", true},
		{"v2_search", true},
		{"Map", false},
		{"2fast", false},
		{"with-dash", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidFeatureKey(tt.key); got != tt.want {
			t.Fatalf("IsValidFeatureKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestHandleRecordsStageChange(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	entry, customer, actor := uuid.New(), uuid.New(), uuid.New()
	changedAt := fixedNow.Add(-time.Hour)

	err := svc.Handle(context.Background(), events.PipelineStageChanged{
		EntryID:       entry,
		CustomerID:    customer,
		PreviousStage: "lead",
		Stage:         "viewing",
		ChangedAt:     changedAt,
		ActorID:       &actor,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.activities) != 1 {
		t.Fatalf("expected one activity, got %d", len(repo.activities))
	}
	a := repo.activities[0]
	if a.Action != "pipeline.stage_changed" || *a.EntityType != "customer_pipeline" || *a.EntityID != entry.String() {
		t.Fatalf("unexpected activity: %+v", a)
	}
	if a.Details["previousStage"] != "lead" || a.Details["stage"] != "viewing" || a.Details["customerId"] != customer.String() {
		t.Fatalf("unexpected details: %+v", a.Details)
	}
	if !a.CreatedAt.Equal(changedAt) || a.UserID == nil || *a.UserID != actor {
		t.Fatalf("unexpected time or actor: %+v", a)
	}
}

func TestHandleRecordsImportOutcome(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	err := svc.Handle(context.Background(), events.PropertyImportCompleted{
		Loaded:    120,
		Skipped:   4,
		Elapsed:   2 * time.Second,
		ReportKey: "imports/2026/03/summary.json",
		Err:       "no import batch committed",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := repo.activities[0]
	if a.Action != "properties.import_completed" || a.Details["loaded"] != 120 || a.Details["elapsedMs"] != int64(2000) {
		t.Fatalf("unexpected activity: %+v", a)
	}
	if a.Details["reportKey"] != "imports/2026/03/summary.json" || a.Details["error"] != "no import batch committed" {
		t.Fatalf("unexpected details: %+v", a.Details)
	}
	if !a.CreatedAt.Equal(fixedNow) {
		t.Fatalf("expected fallback timestamp %s, got %s", fixedNow, a.CreatedAt)
	}
}

func TestHandleIgnoresOtherEvents(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	if err := svc.Handle(context.Background(), events.InquirySubmitted{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.activities) != 0 {
		t.Fatalf("expected no activity, got %d", len(repo.activities))
	}
}

func TestRecentActivityDefaultsToOneDay(t *testing.T) {
	repo := newFakeRepo()
	repo.activities = []repository.Activity{
		{ID: uuid.New(), Action: "old", CreatedAt: fixedNow.Add(-25 * time.Hour)},
		{ID: uuid.New(), Action: "new", CreatedAt: fixedNow.Add(-2 * time.Hour)},
	}
	svc := newTestService(repo)

	resp, err := svc.RecentActivity(context.Background(), transport.RecentActivityRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 1 || resp.Items[0].Action != "new" || resp.Limit != 20 {
		t.Fatalf("unexpected recent activity: %+v", resp)
	}
}

func TestCreateActivityStampsActorAndIP(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	actor := uuid.New()

	resp, err := svc.CreateActivity(context.Background(), transport.CreateActivityRequest{Action: "export.csv"}, &actor, "203.0.113.7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.UserID == nil || *resp.UserID != actor || resp.IPAddress == nil || *resp.IPAddress != "203.0.113.7" {
		t.Fatalf("unexpected activity: %+v", resp)
	}
	if resp.Details == nil {
		t.Fatal("expected empty details map, got nil")
	}
}

type stubQueue struct {
	payload scheduler.PropertyImportPayload
	err     error
}

func (q *stubQueue) EnqueueImport(_ context.Context, p scheduler.PropertyImportPayload) (string, error) {
	q.payload = p
	if q.err != nil {
		return "", q.err
	}
	return "task-1", nil
}

func TestEnqueueImport(t *testing.T) {
	svc := newTestService(newFakeRepo())
	if _, err := svc.EnqueueImport(context.Background(), nil); !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable without a queue, got %v", err)
	}

	q := &stubQueue{}
	svc.SetImportQueue(q)
	actor := uuid.New()
	resp, err := svc.EnqueueImport(context.Background(), &actor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.TaskID != "task-1" || resp.Status != "queued" || q.payload.RequestedBy != actor.String() {
		t.Fatalf("unexpected enqueue: %+v, %+v", resp, q.payload)
	}

	q.err = apperr.Conflict("import already queued")
	if _, err := svc.EnqueueImport(context.Background(), nil); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

type stubReports struct {
	objects  []storage.ObjectInfo
	linkErr  error
	prefix   string
	bucket   string
	download string
}

func (s *stubReports) ListKeys(_ context.Context, bucket, prefix string, _ int) ([]storage.ObjectInfo, error) {
	s.bucket, s.prefix = bucket, prefix
	return s.objects, nil
}

func (s *stubReports) GenerateDownloadURL(_ context.Context, _, key string) (*storage.PresignedURL, error) {
	if s.linkErr != nil {
		return nil, s.linkErr
	}
	return &storage.PresignedURL{URL: "https://files.test/" + key, FileKey: key, ExpiresAt: fixedNow.Add(time.Hour)}, nil
}

func (s *stubReports) DownloadFile(_ context.Context, _, key string) (io.ReadCloser, error) {
	s.download = key
	return io.NopCloser(strings.NewReader(`{"loaded":1}`)), nil
}

func TestListImportReports(t *testing.T) {
	svc := newTestService(newFakeRepo())
	if _, err := svc.ListImportReports(context.Background(), 0); !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable without storage, got %v", err)
	}

	store := &stubReports{objects: []storage.ObjectInfo{{Key: "imports/2026/03/summary-a.json", Size: 512}}}
	svc.SetReportStore(store, "import-reports")

	resp, err := svc.ListImportReports(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.bucket != "import-reports" || store.prefix != "imports/" {
		t.Fatalf("unexpected listing scope: %s %s", store.bucket, store.prefix)
	}
	if len(resp.Items) != 1 || resp.Items[0].DownloadURL != "https://files.test/imports/2026/03/summary-a.json" || resp.Items[0].ExpiresAt == nil {
		t.Fatalf("unexpected reports: %+v", resp.Items)
	}

	store.linkErr = errors.New("signing failed")
	resp, err = svc.ListImportReports(context.Background(), 5)
	if err != nil {
		t.Fatalf("expected link failure to be tolerated, got %v", err)
	}
	if resp.Items[0].DownloadURL != "" {
		t.Fatalf("expected empty link, got %q", resp.Items[0].DownloadURL)
	}
}

func TestOpenImportReportRejectsForeignKeys(t *testing.T) {
	svc := newTestService(newFakeRepo())
	store := &stubReports{}
	svc.SetReportStore(store, "import-reports")

	for _, key := range []string{"secrets/env.json", "imports/../secrets/env.json"} {
		if _, err := svc.OpenImportReport(context.Background(), key); !apperr.Is(err, apperr.KindBadRequest) {
			t.Fatalf("expected bad request for %q, got %v", key, err)
		}
	}

	rc, err := svc.OpenImportReport(context.Background(), "imports/2026/03/summary-a.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != `{"loaded":1}` || store.download != "imports/2026/03/summary-a.json" {
		t.Fatalf("unexpected download: %s %s", body, store.download)
	}
}
