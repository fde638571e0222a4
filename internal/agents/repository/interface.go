package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Agent is a stored agent with its current customer load.
type Agent struct {
	ID              uuid.UUID
	Email           string
	FirstName       string
	LastName        string
	Phone           *string
	LicenseNumber   *string
	Bio             *string
	Role            string
	Status          string
	MaxCustomers    int
	ActiveCustomers int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ListParams filters the agent list. Search matches email, names and phone.
type ListParams struct {
	Status *string
	Role   *string
	Search *string
	Limit  int
	Offset int
}

// Stats summarises the agent roster.
type Stats struct {
	Total              int
	ByStatus           map[string]int
	TotalCapacity      int
	AssignedCustomers  int
	AgentsWithCapacity int
}

// Repository is the agent store. ActiveCustomers is derived from active
// customers assigned to the agent and is ignored on writes.
type Repository interface {
	Create(ctx context.Context, a Agent) error
	GetByID(ctx context.Context, id uuid.UUID) (Agent, error)
	Update(ctx context.Context, a Agent) error
	SetStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error
	List(ctx context.Context, p ListParams) ([]Agent, int, error)
	Stats(ctx context.Context) (Stats, error)
}
