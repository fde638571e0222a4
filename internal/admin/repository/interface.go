package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Feature is a named switch the web client reads to show or hide a section.
type Feature struct {
	ID           uuid.UUID
	FeatureKey   string
	Name         string
	Description  *string
	Category     string
	IsEnabled    bool
	DisplayOrder int
	EnabledBy    *uuid.UUID
	EnabledAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type FeatureFilter struct {
	Category  *string
	IsEnabled *bool
}

// Activity is one audit trail entry.
type Activity struct {
	ID         uuid.UUID
	UserID     *uuid.UUID
	Action     string
	EntityType *string
	EntityID   *string
	Details    map[string]any
	IPAddress  *string
	CreatedAt  time.Time
}

type ActivityFilter struct {
	UserID     *uuid.UUID
	Action     *string
	EntityType *string
	EntityID   *string
	Since      *time.Time
	Limit      int
	Offset     int
}

// FeatureRepository stores feature toggles keyed by feature_key.
type FeatureRepository interface {
	ListFeatures(ctx context.Context, f FeatureFilter) ([]Feature, error)
	GetFeature(ctx context.Context, key string) (Feature, error)
	CreateFeature(ctx context.Context, f Feature) error
	UpdateFeature(ctx context.Context, f Feature) error
	SetFeatureEnabled(ctx context.Context, key string, enabled bool, by *uuid.UUID, at time.Time) error
	DeleteFeature(ctx context.Context, key string) error
	// InsertFeatureIfAbsent reports whether a row was written.
	InsertFeatureIfAbsent(ctx context.Context, f Feature) (bool, error)
}

// ActivityRepository stores the audit trail.
type ActivityRepository interface {
	CreateActivity(ctx context.Context, a Activity) error
	ListActivity(ctx context.Context, f ActivityFilter) ([]Activity, int, error)
}

// DashboardReader answers the independent dashboard counts.
type DashboardReader interface {
	CountCustomers(ctx context.Context) (total, active int, err error)
	CountAgents(ctx context.Context) (total, active int, err error)
	CountInquiries(ctx context.Context) (total, unread int, err error)
	CountProperties(ctx context.Context) (int, error)
	PipelineMonth(ctx context.Context, monthStart time.Time) (leads, conversions int, revenue int64, err error)
}

// Repository combines the admin stores.
type Repository interface {
	FeatureRepository
	ActivityRepository
	DashboardReader
}
