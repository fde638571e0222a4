package repository

import (
	"context"

	"homefinder_backend/internal/properties/domain"
)

// ListParams filters and pages the listing query. Nil filters are ignored.
type ListParams struct {
	City          *string
	State         *string
	ZipCode       *string
	MinPrice      *int64
	MaxPrice      *int64
	MinBeds       *int
	MinBaths      *float64
	PropertyType  *string
	Status        *string
	GeohashPrefix *string
	Limit         int
	Offset        int
}

// StateCount is the number of listings in one state.
type StateCount struct {
	State string
	Count int
}

// Overview is the aggregate listing summary.
type Overview struct {
	Total        int
	AveragePrice float64
	TopStates    []StateCount
}

// PropertyReader provides read operations for listings.
type PropertyReader interface {
	Exists(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (domain.Property, error)
	List(ctx context.Context, params ListParams) ([]domain.Property, int, error)
	Overview(ctx context.Context, topStates int) (Overview, error)
	Count(ctx context.Context) (int, error)
}

// PropertyWriter provides write operations for listings.
type PropertyWriter interface {
	// InsertMany stores every listing in one transaction; either all rows
	// commit or none do.
	InsertMany(ctx context.Context, properties []domain.Property) error
}

// ImportLocker serialises bulk imports across processes.
type ImportLocker interface {
	// TryImportLock returns ok=false when another import holds the lock.
	// The caller must call release once the import has finished.
	TryImportLock(ctx context.Context) (release func(), ok bool, err error)
}

// Repository combines reader and writer.
type Repository interface {
	PropertyReader
	PropertyWriter
	ImportLocker
}
