package service

import (
	"context"
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"homefinder_backend/internal/admin/repository"
	"homefinder_backend/internal/admin/transport"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const defaultCategory = "general"

//go:embed default_features.yaml
var defaultFeaturesYAML []byte

var featureKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// IsValidFeatureKey reports whether key is lower snake case.
func IsValidFeatureKey(key string) bool {
	return featureKeyPattern.MatchString(key)
}

// DefaultFeature is one entry of the embedded toggle catalogue.
type DefaultFeature struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Enabled     bool   `yaml:"enabled"`
	Order       int    `yaml:"order"`
}

// DefaultFeatures parses the embedded toggle catalogue.
func DefaultFeatures() ([]DefaultFeature, error) {
	var out []DefaultFeature
	if err := yaml.Unmarshal(defaultFeaturesYAML, &out); err != nil {
		return nil, fmt.Errorf("parse default features: %w", err)
	}
	return out, nil
}

func (s *Service) ListFeatures(ctx context.Context, req transport.ListFeaturesRequest) (transport.FeatureListResponse, error) {
	items, err := s.repo.ListFeatures(ctx, repository.FeatureFilter{
		Category:  optional(req.Category),
		IsEnabled: req.IsEnabled,
	})
	if err != nil {
		return transport.FeatureListResponse{}, err
	}

	resp := transport.FeatureListResponse{Items: make([]transport.FeatureResponse, 0, len(items)), Total: len(items)}
	for _, f := range items {
		resp.Items = append(resp.Items, toFeatureResponse(f))
	}
	return resp, nil
}

func (s *Service) GetFeature(ctx context.Context, key string) (transport.FeatureResponse, error) {
	f, err := s.repo.GetFeature(ctx, key)
	if err != nil {
		return transport.FeatureResponse{}, err
	}
	return toFeatureResponse(f), nil
}

func (s *Service) CreateFeature(ctx context.Context, req transport.CreateFeatureRequest) (transport.FeatureResponse, error) {
	now := s.now().UTC()
	f := repository.Feature{
		ID:           uuid.New(),
		FeatureKey:   req.FeatureKey,
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Category:     defaultCategory,
		IsEnabled:    true,
		DisplayOrder: req.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if c := strings.TrimSpace(req.Category); c != "" {
		f.Category = c
	}
	if req.IsEnabled != nil {
		f.IsEnabled = *req.IsEnabled
	}

	if err := s.repo.CreateFeature(ctx, f); err != nil {
		return transport.FeatureResponse{}, err
	}
	s.log.Info("feature created", "featureKey", f.FeatureKey)
	return toFeatureResponse(f), nil
}

func (s *Service) UpdateFeature(ctx context.Context, key string, req transport.UpdateFeatureRequest) (transport.FeatureResponse, error) {
	f, err := s.repo.GetFeature(ctx, key)
	if err != nil {
		return transport.FeatureResponse{}, err
	}

	if req.Name != nil {
		f.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		f.Description = req.Description
	}
	if req.Category != nil {
		f.Category = strings.TrimSpace(*req.Category)
	}
	if req.IsEnabled != nil {
		f.IsEnabled = *req.IsEnabled
	}
	if req.DisplayOrder != nil {
		f.DisplayOrder = *req.DisplayOrder
	}
	f.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateFeature(ctx, f); err != nil {
		return transport.FeatureResponse{}, err
	}
	return toFeatureResponse(f), nil
}

// ToggleFeature switches a feature and records who did it.
func (s *Service) ToggleFeature(ctx context.Context, key string, enabled bool, actor *uuid.UUID) (transport.FeatureResponse, error) {
	if err := s.repo.SetFeatureEnabled(ctx, key, enabled, actor, s.now().UTC()); err != nil {
		return transport.FeatureResponse{}, err
	}
	s.log.Info("feature toggled", "featureKey", key, "enabled", enabled)
	return s.GetFeature(ctx, key)
}

func (s *Service) DeleteFeature(ctx context.Context, key string) error {
	return s.repo.DeleteFeature(ctx, key)
}

// SeedFeatures inserts the default catalogue. Existing keys are left alone.
func (s *Service) SeedFeatures(ctx context.Context) (transport.SeedFeaturesResponse, error) {
	defaults, err := DefaultFeatures()
	if err != nil {
		return transport.SeedFeaturesResponse{}, err
	}

	now := s.now().UTC()
	created := 0
	for _, d := range defaults {
		f := repository.Feature{
			ID:           uuid.New(),
			FeatureKey:   d.Key,
			Name:         d.Name,
			Description:  optional(d.Description),
			Category:     d.Category,
			IsEnabled:    d.Enabled,
			DisplayOrder: d.Order,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if f.Category == "" {
			f.Category = defaultCategory
		}
		inserted, err := s.repo.InsertFeatureIfAbsent(ctx, f)
		if err != nil {
			return transport.SeedFeaturesResponse{}, err
		}
		if inserted {
			created++
		}
	}

	s.log.Info("default features seeded", "created", created, "catalogue", len(defaults))
	return transport.SeedFeaturesResponse{Success: true, Created: created}, nil
}

func toFeatureResponse(f repository.Feature) transport.FeatureResponse {
	return transport.FeatureResponse{
		ID:           f.ID,
		FeatureKey:   f.FeatureKey,
		Name:         f.Name,
		Description:  f.Description,
		Category:     f.Category,
		IsEnabled:    f.IsEnabled,
		DisplayOrder: f.DisplayOrder,
		EnabledBy:    f.EnabledBy,
		EnabledAt:    f.EnabledAt,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}
