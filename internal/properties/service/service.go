// Package service implements the read side of the property catalogue.
package service

import (
	"context"
	"math"
	"strings"

	"homefinder_backend/internal/properties/repository"
	"homefinder_backend/internal/properties/transport"
	"homefinder_backend/platform/apperr"
	"homefinder_backend/platform/logger"

	"github.com/skip2/go-qrcode"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	topStatesLimit  = 10
	defaultQRSize   = 256
)

// Service provides business logic for listings.
type Service struct {
	repo    repository.PropertyReader
	siteURL string
	log     *logger.Logger
}

// New creates a new property service. siteURL is the public web app origin
// encoded into listing QR codes.
func New(repo repository.PropertyReader, siteURL string, log *logger.Logger) *Service {
	return &Service{repo: repo, siteURL: strings.TrimRight(siteURL, "/"), log: log}
}

// List returns one page of listings.
func (s *Service) List(ctx context.Context, req transport.ListPropertiesRequest) (transport.PropertyListResponse, error) {
	limit := req.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := max(req.Offset, 0)

	params := repository.ListParams{
		City:          optional(req.City),
		State:         optional(req.State),
		ZipCode:       optional(req.ZipCode),
		MinPrice:      req.MinPrice,
		MaxPrice:      req.MaxPrice,
		MinBeds:       req.MinBeds,
		MinBaths:      req.MinBaths,
		PropertyType:  optional(req.PropertyType),
		Status:        optional(req.Status),
		GeohashPrefix: optional(strings.ToLower(req.Geohash)),
		Limit:         limit,
		Offset:        offset,
	}
	if params.MinPrice != nil && params.MaxPrice != nil && *params.MinPrice > *params.MaxPrice {
		return transport.PropertyListResponse{}, apperr.Validation("minPrice must not exceed maxPrice")
	}

	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.PropertyListResponse{}, err
	}

	resp := make([]transport.PropertyResponse, 0, len(items))
	for _, p := range items {
		resp = append(resp, transport.ToPropertyResponse(p))
	}
	return transport.PropertyListResponse{Total: total, Items: resp, Limit: limit, Offset: offset}, nil
}

// GetByID returns a single listing.
func (s *Service) GetByID(ctx context.Context, id string) (transport.PropertyResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.PropertyResponse{}, err
	}
	return transport.ToPropertyResponse(p), nil
}

// Overview summarises the catalogue.
func (s *Service) Overview(ctx context.Context) (transport.OverviewResponse, error) {
	o, err := s.repo.Overview(ctx, topStatesLimit)
	if err != nil {
		return transport.OverviewResponse{}, err
	}

	states := make([]transport.StateCountResponse, 0, len(o.TopStates))
	for _, sc := range o.TopStates {
		states = append(states, transport.StateCountResponse{State: sc.State, Count: sc.Count})
	}
	return transport.OverviewResponse{
		TotalProperties:   o.Total,
		AveragePrice:      math.Round(o.AveragePrice*100) / 100,
		PropertiesByState: states,
	}, nil
}

// ListingURL is the public page of a listing.
func (s *Service) ListingURL(id string) string {
	return s.siteURL + "/properties/" + id
}

// QRCode renders a PNG QR code pointing at the listing's public page.
func (s *Service) QRCode(ctx context.Context, id string, size int) ([]byte, error) {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("property not found")
	}
	if size == 0 {
		size = defaultQRSize
	}

	png, err := qrcode.Encode(s.ListingURL(id), qrcode.Medium, size)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to render qr code", err)
	}
	return png, nil
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
