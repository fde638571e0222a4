package service

import (
	"bytes"
	"context"
	"testing"

	"homefinder_backend/internal/properties/domain"
	"homefinder_backend/internal/properties/repository"
	"homefinder_backend/internal/properties/transport"
	"homefinder_backend/platform/apperr"
	"homefinder_backend/platform/logger"
)

type fakeReader struct {
	items    []domain.Property
	lastList repository.ListParams
	overview repository.Overview
}

func (f *fakeReader) Exists(_ context.Context, id string) (bool, error) {
	for _, p := range f.items {
		if p.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReader) GetByID(_ context.Context, id string) (domain.Property, error) {
	for _, p := range f.items {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Property{}, apperr.NotFound("property not found")
}

func (f *fakeReader) List(_ context.Context, params repository.ListParams) ([]domain.Property, int, error) {
	f.lastList = params
	return f.items, len(f.items), nil
}

func (f *fakeReader) Overview(_ context.Context, _ int) (repository.Overview, error) {
	return f.overview, nil
}

func (f *fakeReader) Count(_ context.Context) (int, error) { return len(f.items), nil }

const testID = "0123456789abcdef"

func newTestService(reader *fakeReader) *Service {
	return New(reader, "https://homes.example.com/", logger.Discard())
}

func TestListAppliesDefaultsAndTrimsFilters(t *testing.T) {
	reader := &fakeReader{items: []domain.Property{{ID: testID, Title: "1 Main St", Price: 100}}}
	svc := newTestService(reader)

	resp, err := svc.List(context.Background(), transport.ListPropertiesRequest{City: "  ", Geohash: "9V6"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Limit != defaultPageSize || resp.Offset != 0 || resp.Total != 1 {
		t.Fatalf("unexpected page %+v", resp)
	}
	if reader.lastList.City != nil {
		t.Fatal("expected blank city filter to be dropped")
	}
	if reader.lastList.GeohashPrefix == nil || *reader.lastList.GeohashPrefix != "9v6" {
		t.Fatalf("expected lower-cased geohash prefix, got %v", reader.lastList.GeohashPrefix)
	}
	if resp.Items[0].AltPhotos == nil || resp.Items[0].PriceHistory == nil {
		t.Fatal("expected empty slices rather than nil in projection")
	}
}

func TestListRejectsInvertedPriceRange(t *testing.T) {
	minPrice, maxPrice := int64(500), int64(100)
	_, err := newTestService(&fakeReader{}).List(context.Background(), transport.ListPropertiesRequest{MinPrice: &minPrice, MaxPrice: &maxPrice})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOverviewRoundsAveragePrice(t *testing.T) {
	reader := &fakeReader{overview: repository.Overview{
		Total:        3,
		AveragePrice: 333333.3333,
		TopStates:    []repository.StateCount{{State: "TX", Count: 2}, {State: "CA", Count: 1}},
	}}

	resp, err := newTestService(reader).Overview(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AveragePrice != 333333.33 {
		t.Fatalf("expected rounded average, got %v", resp.AveragePrice)
	}
	if len(resp.PropertiesByState) != 2 || resp.PropertiesByState[0].State != "TX" {
		t.Fatalf("unexpected state counts %+v", resp.PropertiesByState)
	}
}

func TestQRCode(t *testing.T) {
	svc := newTestService(&fakeReader{items: []domain.Property{{ID: testID}}})

	if _, err := svc.QRCode(context.Background(), "ffffffffffffffff", 0); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	png, err := svc.QRCode(context.Background(), testID, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatal("expected PNG output")
	}
	if got := svc.ListingURL(testID); got != "https://homes.example.com/properties/"+testID {
		t.Fatalf("unexpected listing url %q", got)
	}
}
