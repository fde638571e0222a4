// Package service handles contact-form inquiries.
package service

import (
	"context"
	"strings"
	"time"

	"homefinder_backend/internal/events"
	"homefinder_backend/internal/inquiries/repository"
	"homefinder_backend/internal/inquiries/transport"
	"homefinder_backend/platform/apperr"
	"homefinder_backend/platform/logger"
	"homefinder_backend/platform/phone"
	"homefinder_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	TypeGeneral      = "general"
	TypeScheduleTour = "schedule_tour"
	TypeRequestInfo  = "request_info"
	TypeMakeOffer    = "make_offer"

	StatusNew       = "new"
	StatusRead      = "read"
	StatusResponded = "responded"
	StatusClosed    = "closed"

	defaultPageSize = 20
	maxPageSize     = 100

	submittedMessage = "Your inquiry has been submitted successfully. We'll be in touch soon!"
)

var (
	tourKeywords  = []string{"tour", "schedule", "visit"}
	offerKeywords = []string{"offer"}
)

func IsKnownType(t string) bool {
	switch t {
	case TypeGeneral, TypeScheduleTour, TypeRequestInfo, TypeMakeOffer:
		return true
	}
	return false
}

func IsKnownStatus(s string) bool {
	switch s {
	case StatusNew, StatusRead, StatusResponded, StatusClosed:
		return true
	}
	return false
}

// InferType picks the inquiry type. Keywords in the message override the
// requested type: tour wording wins over offer wording.
func InferType(message, requested string) string {
	lower := strings.ToLower(message)
	if containsAny(lower, tourKeywords) {
		return TypeScheduleTour
	}
	if containsAny(lower, offerKeywords) {
		return TypeMakeOffer
	}
	if IsKnownType(requested) {
		return requested
	}
	return TypeGeneral
}

// PropertySummary is what an inquiry copies from the listing.
type PropertySummary struct {
	Address string
	Price   int64
}

// PropertyLookup resolves listing details for an inquiry.
type PropertyLookup interface {
	LookupProperty(ctx context.Context, id string) (PropertySummary, error)
}

// Service provides business logic for inquiries.
type Service struct {
	repo       repository.Repository
	properties PropertyLookup
	bus        events.Publisher
	log        *logger.Logger
	now        func() time.Time
}

// New creates a new inquiry service.
func New(repo repository.Repository, properties PropertyLookup, bus events.Publisher, log *logger.Logger) *Service {
	return &Service{repo: repo, properties: properties, bus: bus, log: log, now: time.Now}
}

// Submit stores a contact-form inquiry and announces it. Email delivery
// happens asynchronously and never fails the submission.
func (s *Service) Submit(ctx context.Context, req transport.ContactRequest) (transport.ContactResponse, error) {
	now := s.now().UTC()
	propertyID := strings.TrimSpace(req.PropertyID)

	in := repository.Inquiry{
		ID:              uuid.New(),
		Name:            sanitize.Text(req.Name),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:           phone.NormalizeE164Ptr(&req.Phone),
		Message:         sanitize.Text(req.Message),
		PropertyID:      optional(propertyID),
		PropertyAddress: sanitize.TextPtr(req.PropertyAddress),
		PropertyPrice:   req.PropertyPrice,
		Status:          StatusNew,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	in.InquiryType = InferType(in.Message, req.InquiryType)
	if in.Name == "" || in.Message == "" {
		return transport.ContactResponse{}, apperr.Validation("name and message must contain text")
	}

	s.fillFromProperty(ctx, &in)

	if err := s.repo.Create(ctx, in); err != nil {
		return transport.ContactResponse{}, err
	}
	s.log.Info("inquiry created", "inquiryId", in.ID, "type", in.InquiryType, "propertyId", propertyID)

	s.bus.Publish(ctx, events.InquirySubmitted{
		BaseEvent:       events.NewBaseEvent(),
		InquiryID:       in.ID,
		Name:            in.Name,
		Email:           in.Email,
		Phone:           in.Phone,
		Message:         in.Message,
		InquiryType:     in.InquiryType,
		PropertyID:      in.PropertyID,
		PropertyAddress: in.PropertyAddress,
		PropertyPrice:   in.PropertyPrice,
	})

	return transport.ContactResponse{Success: true, Message: submittedMessage, InquiryID: in.ID}, nil
}

// fillFromProperty copies the listing address and price the form left out.
// An unknown listing keeps the submitted values.
func (s *Service) fillFromProperty(ctx context.Context, in *repository.Inquiry) {
	if s.properties == nil || in.PropertyID == nil {
		return
	}
	if in.PropertyAddress != nil && in.PropertyPrice != nil {
		return
	}

	p, err := s.properties.LookupProperty(ctx, *in.PropertyID)
	if err != nil {
		if !apperr.Is(err, apperr.KindNotFound) {
			s.log.Warn("property lookup failed for inquiry", "propertyId", *in.PropertyID, "error", err)
		}
		return
	}
	if in.PropertyAddress == nil && p.Address != "" {
		in.PropertyAddress = &p.Address
	}
	if in.PropertyPrice == nil && p.Price > 0 {
		in.PropertyPrice = &p.Price
	}
}

func (s *Service) List(ctx context.Context, req transport.ListInquiriesRequest) (transport.InquiryListResponse, error) {
	limit := req.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := max(req.Offset, 0)

	items, total, err := s.repo.List(ctx, repository.ListParams{
		Status:      optional(req.Status),
		InquiryType: optional(req.InquiryType),
		PropertyID:  optional(req.PropertyID),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		return transport.InquiryListResponse{}, err
	}

	resp := transport.InquiryListResponse{
		Items:  make([]transport.InquiryResponse, 0, len(items)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for _, in := range items {
		resp.Items = append(resp.Items, toResponse(in))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.InquiryResponse, error) {
	in, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.InquiryResponse{}, err
	}
	return toResponse(in), nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (transport.InquiryResponse, error) {
	if !IsKnownStatus(status) {
		return transport.InquiryResponse{}, apperr.BadRequest("invalid status")
	}
	if err := s.repo.UpdateStatus(ctx, id, status, s.now().UTC()); err != nil {
		return transport.InquiryResponse{}, err
	}
	return s.Get(ctx, id)
}

// MarkEmailSent records that the staff alert for an inquiry was delivered.
func (s *Service) MarkEmailSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.repo.MarkEmailSent(ctx, id, at)
}

func (s *Service) Stats(ctx context.Context) (transport.StatsResponse, error) {
	st, err := s.repo.Stats(ctx)
	if err != nil {
		return transport.StatsResponse{}, err
	}
	return transport.StatsResponse{
		TotalInquiries:     st.Total,
		NewInquiries:       st.New,
		RespondedInquiries: st.Responded,
		TourRequests:       st.TourRequests,
		OfferInquiries:     st.OfferInquiries,
		EmailsSent:         st.EmailsSent,
	}, nil
}

func toResponse(in repository.Inquiry) transport.InquiryResponse {
	return transport.InquiryResponse{
		ID:              in.ID,
		Name:            in.Name,
		Email:           in.Email,
		Phone:           in.Phone,
		Message:         in.Message,
		InquiryType:     in.InquiryType,
		PropertyID:      in.PropertyID,
		PropertyAddress: in.PropertyAddress,
		PropertyPrice:   in.PropertyPrice,
		Status:          in.Status,
		EmailSent:       in.EmailSent,
		EmailSentAt:     in.EmailSentAt,
		CreatedAt:       in.CreatedAt,
		UpdatedAt:       in.UpdatedAt,
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
