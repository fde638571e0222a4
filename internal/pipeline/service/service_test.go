package service

import (
	"context"
	"testing"
	"time"

	"homefinder_backend/internal/events"
	"homefinder_backend/internal/pipeline/analytics"
	"homefinder_backend/internal/pipeline/domain"
	"homefinder_backend/internal/pipeline/repository"
	"homefinder_backend/internal/pipeline/transport"
	"homefinder_backend/platform/apperr"
	"homefinder_backend/platform/logger"

	"github.com/google/uuid"
)

type memoryRepo struct {
	entries map[uuid.UUID]domain.Entry
	history []domain.StageChange
	agg     analytics.Aggregates
	aggFrom time.Time
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{entries: make(map[uuid.UUID]domain.Entry)}
}

func (r *memoryRepo) Create(_ context.Context, e domain.Entry, initial domain.StageChange) error {
	for _, existing := range r.entries {
		if existing.CustomerID == e.CustomerID {
			return apperr.Conflict("customer already in pipeline")
		}
	}
	r.entries[e.ID] = e
	r.history = append(r.history, initial)
	return nil
}

func (r *memoryRepo) Update(_ context.Context, e domain.Entry, change *domain.StageChange) error {
	if _, ok := r.entries[e.ID]; !ok {
		return apperr.NotFound("pipeline entry not found")
	}
	r.entries[e.ID] = e
	if change != nil {
		r.history = append(r.history, *change)
	}
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Entry, error) {
	e, ok := r.entries[id]
	if !ok {
		return domain.Entry{}, apperr.NotFound("pipeline entry not found")
	}
	return e, nil
}

func (r *memoryRepo) GetByCustomerID(_ context.Context, customerID uuid.UUID) (domain.Entry, error) {
	for _, e := range r.entries {
		if e.CustomerID == customerID {
			return e, nil
		}
	}
	return domain.Entry{}, apperr.NotFound("customer not in pipeline")
}

func (r *memoryRepo) GetView(ctx context.Context, id uuid.UUID) (repository.EntryView, error) {
	e, err := r.GetByID(ctx, id)
	if err != nil {
		return repository.EntryView{}, err
	}
	name := "Jordan Lee"
	return repository.EntryView{Entry: e, CustomerName: &name}, nil
}

func (r *memoryRepo) List(_ context.Context, params repository.ListParams) ([]repository.EntryView, int, error) {
	out := make([]repository.EntryView, 0)
	for _, e := range r.entries {
		if params.Stage != nil && e.Stage != *params.Stage {
			continue
		}
		out = append(out, repository.EntryView{Entry: e})
	}
	return out, len(out), nil
}

func (r *memoryRepo) History(_ context.Context, pipelineID uuid.UUID) ([]domain.StageChange, error) {
	out := make([]domain.StageChange, 0)
	for _, c := range r.history {
		if c.PipelineID == pipelineID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memoryRepo) Aggregates(_ context.Context, monthStart time.Time) (analytics.Aggregates, error) {
	r.aggFrom = monthStart
	return r.agg, nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

var fixedNow = time.Date(2026, 5, 20, 14, 30, 0, 0, time.UTC)

func newTestService() (*Service, *memoryRepo, *recordingBus) {
	repo := newMemoryRepo()
	bus := &recordingBus{}
	svc := New(repo, bus, logger.Discard())
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, bus
}

func strPtr(s string) *string { return &s }

func TestCreateStartsAsNewLeadAndRejectsDuplicates(t *testing.T) {
	svc, repo, bus := newTestService()
	customerID := uuid.New()

	resp, err := svc.Create(context.Background(), transport.CreateEntryRequest{CustomerID: customerID}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Stage != string(domain.StageNewLead) || !resp.StageEnteredAt.Equal(fixedNow) {
		t.Fatalf("unexpected entry %+v", resp)
	}
	if resp.CustomerName == nil {
		t.Fatal("expected customer display name in projection")
	}
	if len(repo.history) != 1 || repo.history[0].FromStage != nil {
		t.Fatalf("expected an initial history row, got %+v", repo.history)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected a created event, got %d events", len(bus.published))
	}

	_, err = svc.Create(context.Background(), transport.CreateEntryRequest{CustomerID: customerID}, nil)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("expected a single entry, got %d", len(repo.entries))
	}
}

func TestUpdateTransitionsAndPublishes(t *testing.T) {
	svc, repo, bus := newTestService()
	created, err := svc.Create(context.Background(), transport.CreateEntryRequest{CustomerID: uuid.New()}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	bus.published = nil

	later := fixedNow.Add(time.Hour)
	svc.now = func() time.Time { return later }
	resp, err := svc.Update(context.Background(), created.ID, transport.UpdateEntryRequest{Stage: strPtr("qualified")}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.PreviousStage == nil || *resp.PreviousStage != "new_lead" {
		t.Fatalf("expected previous stage new_lead, got %v", resp.PreviousStage)
	}
	if !resp.StageEnteredAt.Equal(later) || resp.LastStageChange == nil || !resp.LastStageChange.Equal(later) {
		t.Fatal("expected transition timestamps to be now")
	}
	if len(repo.history) != 2 {
		t.Fatalf("expected two history rows, got %d", len(repo.history))
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.published))
	}
	changed, ok := bus.published[0].(events.PipelineStageChanged)
	if !ok || changed.PreviousStage != "new_lead" || changed.Stage != "qualified" {
		t.Fatalf("unexpected event %+v", bus.published[0])
	}
}

func TestUpdateSameStageIsNoOp(t *testing.T) {
	svc, repo, bus := newTestService()
	created, _ := svc.Create(context.Background(), transport.CreateEntryRequest{CustomerID: uuid.New()}, nil)
	bus.published = nil

	svc.now = func() time.Time { return fixedNow.Add(time.Hour) }
	resp, err := svc.Update(context.Background(), created.ID, transport.UpdateEntryRequest{Stage: strPtr("new_lead")}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.PreviousStage != nil || !resp.StageEnteredAt.Equal(fixedNow) {
		t.Fatal("expected bookkeeping to be untouched")
	}
	if len(repo.history) != 1 || len(bus.published) != 0 {
		t.Fatal("expected no history row and no event")
	}
}

func TestUpdateRejectsLostReasonOutsideClosedLost(t *testing.T) {
	svc, _, _ := newTestService()
	created, _ := svc.Create(context.Background(), transport.CreateEntryRequest{CustomerID: uuid.New()}, nil)

	_, err := svc.Update(context.Background(), created.ID, transport.UpdateEntryRequest{LostReason: strPtr("budget")}, nil)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	resp, err := svc.Update(context.Background(), created.ID, transport.UpdateEntryRequest{
		Stage:      strPtr("closed_lost"),
		LostReason: strPtr("budget"),
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsClosed || resp.LostReason == nil {
		t.Fatalf("expected closed_lost with reason, got %+v", resp)
	}
}

func TestUpdateStageByCustomer(t *testing.T) {
	svc, _, _ := newTestService()
	customerID := uuid.New()
	if _, err := svc.Create(context.Background(), transport.CreateEntryRequest{CustomerID: customerID}, nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.UpdateStageByCustomer(context.Background(), customerID, "sold", nil); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request for unknown stage, got %v", err)
	}
	if _, err := svc.UpdateStageByCustomer(context.Background(), uuid.New(), "contacted", nil); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for unknown customer, got %v", err)
	}

	resp, err := svc.UpdateStageByCustomer(context.Background(), customerID, "closed_won", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success || !resp.Changed || resp.Stage != "closed_won" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestHistoryListsTransitionsInOrder(t *testing.T) {
	svc, _, _ := newTestService()
	created, _ := svc.Create(context.Background(), transport.CreateEntryRequest{CustomerID: uuid.New()}, nil)
	for _, stage := range []string{"contacted", "on_hold", "contacted"} {
		if _, err := svc.Update(context.Background(), created.ID, transport.UpdateEntryRequest{Stage: strPtr(stage)}, nil); err != nil {
			t.Fatalf("update to %s: %v", stage, err)
		}
	}

	resp, err := svc.History(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"new_lead", "contacted", "on_hold", "contacted"}
	if len(resp.Items) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(resp.Items))
	}
	for i, stage := range want {
		if resp.Items[i].ToStage != stage {
			t.Fatalf("row %d: expected %s, got %s", i, stage, resp.Items[i].ToStage)
		}
	}

	if _, err := svc.History(context.Background(), uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStatsUsesUTCMonthStart(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.agg = analytics.Aggregates{StageCounts: map[domain.Stage]int{domain.StageClosedWon: 3, domain.StageClosedLost: 1}}

	resp, err := svc.StatsResponse(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ConversionRate != 75 || resp.TotalLeads != 4 {
		t.Fatalf("unexpected stats %+v", resp)
	}
	if want := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC); !repo.aggFrom.Equal(want) {
		t.Fatalf("expected month start %v, got %v", want, repo.aggFrom)
	}
}
