package repository

import (
	"context"
	"time"

	"homefinder_backend/internal/pipeline/analytics"
	"homefinder_backend/internal/pipeline/domain"

	"github.com/google/uuid"
)

// EntryView is an entry joined with the customer and agent display fields.
// The agent reference is weak: AgentName is nil when the agent is gone.
type EntryView struct {
	domain.Entry
	CustomerName  *string
	CustomerEmail *string
	AgentName     *string
}

// ListParams filters and pages the pipeline board.
type ListParams struct {
	Stage           *domain.Stage
	AssignedAgentID *uuid.UUID
	Limit           int
	Offset          int
}

// EntryReader provides read operations for pipeline entries.
type EntryReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Entry, error)
	GetByCustomerID(ctx context.Context, customerID uuid.UUID) (domain.Entry, error)
	GetView(ctx context.Context, id uuid.UUID) (EntryView, error)
	List(ctx context.Context, params ListParams) ([]EntryView, int, error)
	History(ctx context.Context, pipelineID uuid.UUID) ([]domain.StageChange, error)
}

// EntryWriter provides write operations for pipeline entries.
type EntryWriter interface {
	// Create stores a new entry and its initial history row. A second entry
	// for the same customer fails with a conflict.
	Create(ctx context.Context, entry domain.Entry, initial domain.StageChange) error
	// Update stores entry and, when change is non-nil, appends it to the
	// history in the same transaction.
	Update(ctx context.Context, entry domain.Entry, change *domain.StageChange) error
}

// StatsReader reads the aggregates behind the pipeline dashboard.
type StatsReader interface {
	Aggregates(ctx context.Context, monthStart time.Time) (analytics.Aggregates, error)
}

// Repository combines reader and writer.
type Repository interface {
	EntryReader
	EntryWriter
	StatsReader
}
