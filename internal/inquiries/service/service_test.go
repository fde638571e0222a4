package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"homefinder_backend/internal/events"
	"homefinder_backend/internal/inquiries/repository"
	"homefinder_backend/internal/inquiries/transport"
	"homefinder_backend/platform/apperr"
	"homefinder_backend/platform/logger"

	"github.com/google/uuid"
)

type memoryRepo struct {
	repository.Repository
	items     map[uuid.UUID]repository.Inquiry
	createErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[uuid.UUID]repository.Inquiry)}
}

func (r *memoryRepo) Create(_ context.Context, in repository.Inquiry) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.items[in.ID] = in
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Inquiry, error) {
	in, ok := r.items[id]
	if !ok {
		return repository.Inquiry{}, apperr.NotFound("inquiry not found")
	}
	return in, nil
}

func (r *memoryRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string, at time.Time) error {
	in, ok := r.items[id]
	if !ok {
		return apperr.NotFound("inquiry not found")
	}
	in.Status = status
	in.UpdatedAt = at
	r.items[id] = in
	return nil
}

type stubProperties map[string]PropertySummary

func (p stubProperties) LookupProperty(_ context.Context, id string) (PropertySummary, error) {
	s, ok := p[id]
	if !ok {
		return PropertySummary{}, apperr.NotFound("property not found")
	}
	return s, nil
}

type recordingBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, e)
}

func (b *recordingBus) PublishSync(ctx context.Context, e events.Event) error {
	b.Publish(ctx, e)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

var testNow = time.Date(2026, 7, 14, 18, 5, 0, 0, time.UTC)

func newTestService(props stubProperties) (*Service, *memoryRepo, *recordingBus) {
	repo := newMemoryRepo()
	bus := &recordingBus{}
	svc := New(repo, props, bus, logger.Discard())
	svc.now = func() time.Time { return testNow }
	return svc, repo, bus
}

func contactRequest(message string) transport.ContactRequest {
	return transport.ContactRequest{
		Name:       "Jordan Ellis",
		Email:      " Jordan.Ellis@Example.com ",
		Phone:      "(512) 555-0187",
		Message:    message,
		PropertyID: "9f86d081884c7d65",
	}
}

func TestInferType(t *testing.T) {
	tests := []struct {
		message   string
		requested string
		want      string
	}{
		{message: "Could I tour the house on Friday?", want: TypeScheduleTour},
		{message: "Please SCHEDULE a showing", want: TypeScheduleTour},
		{message: "When can we visit?", requested: TypeRequestInfo, want: TypeScheduleTour},
		{message: "We would like to make an offer", want: TypeMakeOffer},
		{message: "Offer after a visit?", want: TypeScheduleTour},
		{message: "Is the roof new?", requested: TypeRequestInfo, want: TypeRequestInfo},
		{message: "Is the roof new?", requested: "callback", want: TypeGeneral},
		{message: "Is the roof new?", want: TypeGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			if got := InferType(tt.message, tt.requested); got != tt.want {
				t.Fatalf("InferType(%q, %q) = %q, want %q", tt.message, tt.requested, got, tt.want)
			}
		})
	}
}

func TestSubmitFillsPropertyDetailsAndPublishes(t *testing.T) {
	svc, repo, bus := newTestService(stubProperties{
		"9f86d081884c7d65": {Address: "8 Cedar Ln, Round Rock, TX, 78664", Price: 389000},
	})

	resp, err := svc.Submit(context.Background(), contactRequest("I'd like to schedule a <b>showing</b> this weekend"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success || resp.InquiryID == uuid.Nil {
		t.Fatalf("unexpected response %+v", resp)
	}

	stored := repo.items[resp.InquiryID]
	if stored.Email != "jordan.ellis@example.com" || *stored.Phone != "+15125550187" {
		t.Fatalf("contact details not normalized: %q %q", stored.Email, *stored.Phone)
	}
	if stored.Message != "I'd like to schedule a showing this weekend" {
		t.Fatalf("message not sanitized: %q", stored.Message)
	}
	if stored.InquiryType != TypeScheduleTour || stored.Status != StatusNew {
		t.Fatalf("unexpected type/status %s/%s", stored.InquiryType, stored.Status)
	}
	if stored.PropertyAddress == nil || *stored.PropertyAddress != "8 Cedar Ln, Round Rock, TX, 78664" {
		t.Fatalf("address not filled: %v", stored.PropertyAddress)
	}
	if stored.PropertyPrice == nil || *stored.PropertyPrice != 389000 {
		t.Fatalf("price not filled: %v", stored.PropertyPrice)
	}
	if !stored.CreatedAt.Equal(testNow) {
		t.Fatalf("unexpected created at %v", stored.CreatedAt)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.published))
	}
	e, ok := bus.published[0].(events.InquirySubmitted)
	if !ok || e.InquiryID != resp.InquiryID || e.InquiryType != TypeScheduleTour {
		t.Fatalf("unexpected event %+v", bus.published[0])
	}
}

func TestSubmitKeepsSubmittedPropertyDetails(t *testing.T) {
	svc, repo, _ := newTestService(stubProperties{
		"9f86d081884c7d65": {Address: "8 Cedar Ln", Price: 389000},
	})
	req := contactRequest("Is the HOA fee negotiable at all?")
	address := "8 Cedar Lane, Round Rock"
	price := int64(375000)
	req.PropertyAddress = &address
	req.PropertyPrice = &price

	resp, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := repo.items[resp.InquiryID]
	if *stored.PropertyAddress != address || *stored.PropertyPrice != price {
		t.Fatalf("submitted details overwritten: %q %d", *stored.PropertyAddress, *stored.PropertyPrice)
	}
}

func TestSubmitUnknownPropertyStillStores(t *testing.T) {
	svc, repo, _ := newTestService(stubProperties{})

	resp, err := svc.Submit(context.Background(), contactRequest("Is this home still available?"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := repo.items[resp.InquiryID]
	if stored.PropertyAddress != nil || stored.PropertyPrice != nil || stored.InquiryType != TypeGeneral {
		t.Fatalf("unexpected stored inquiry %+v", stored)
	}
}

func TestSubmitStoreFailureIsReturnedWithoutEvent(t *testing.T) {
	svc, repo, bus := newTestService(nil)
	repo.createErr = errors.New("connection refused")

	if _, err := svc.Submit(context.Background(), contactRequest("Is this home still available?")); err == nil {
		t.Fatal("expected store error")
	}
	if len(bus.published) != 0 {
		t.Fatalf("expected no event, got %d", len(bus.published))
	}
}

func TestSubmitRejectsMarkupOnlyMessage(t *testing.T) {
	svc, _, _ := newTestService(nil)
	_, err := svc.Submit(context.Background(), contactRequest("<img src=x><br><br><br>"))
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, repo, _ := newTestService(nil)
	id := uuid.New()
	repo.items[id] = repository.Inquiry{ID: id, Status: StatusNew}

	resp, err := svc.UpdateStatus(context.Background(), id, StatusResponded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != StatusResponded || !resp.UpdatedAt.Equal(testNow) {
		t.Fatalf("unexpected response %+v", resp)
	}

	if _, err := svc.UpdateStatus(context.Background(), id, "archived"); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), uuid.New(), StatusClosed); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
