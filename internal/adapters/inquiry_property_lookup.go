package adapters

import (
	"context"

	inquiryservice "homefinder_backend/internal/inquiries/service"
	"homefinder_backend/internal/properties/repository"
)

// InquiryPropertyLookup gives the inquiry service read access to listings.
type InquiryPropertyLookup struct {
	properties repository.PropertyReader
}

func NewInquiryPropertyLookup(properties repository.PropertyReader) *InquiryPropertyLookup {
	return &InquiryPropertyLookup{properties: properties}
}

func (a *InquiryPropertyLookup) LookupProperty(ctx context.Context, id string) (inquiryservice.PropertySummary, error) {
	p, err := a.properties.GetByID(ctx, id)
	if err != nil {
		return inquiryservice.PropertySummary{}, err
	}
	return inquiryservice.PropertySummary{Address: p.FormattedAddress(), Price: p.Price}, nil
}

var _ inquiryservice.PropertyLookup = (*InquiryPropertyLookup)(nil)
