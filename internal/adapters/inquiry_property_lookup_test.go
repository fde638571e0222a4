package adapters

import (
	"context"
	"testing"

	"homefinder_backend/internal/properties/domain"
	"homefinder_backend/internal/properties/repository"
	"homefinder_backend/platform/apperr"
)

type stubPropertyReader struct {
	repository.PropertyReader
	properties map[string]domain.Property
}

func (s stubPropertyReader) GetByID(_ context.Context, id string) (domain.Property, error) {
	p, ok := s.properties[id]
	if !ok {
		return domain.Property{}, apperr.NotFound("property not found")
	}
	return p, nil
}

func TestInquiryPropertyLookup(t *testing.T) {
	street, city, state := "220 Bayshore Dr", "Tampa", "FL"
	lookup := NewInquiryPropertyLookup(stubPropertyReader{properties: map[string]domain.Property{
		"c4ca4238a0b92382": {ID: "c4ca4238a0b92382", StreetAddress: &street, City: &city, State: &state, Price: 729000},
	}})

	got, err := lookup.LookupProperty(context.Background(), "c4ca4238a0b92382")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Address != "220 Bayshore Dr, Tampa, FL" || got.Price != 729000 {
		t.Fatalf("unexpected summary %+v", got)
	}

	if _, err := lookup.LookupProperty(context.Background(), "missing"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
