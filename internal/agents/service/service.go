// Package service implements agent roster management and customer assignment.
package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"homefinder_backend/internal/agents/repository"
	"homefinder_backend/internal/agents/transport"
	"homefinder_backend/platform/apperr"
	"homefinder_backend/platform/logger"
	"homefinder_backend/platform/phone"

	"github.com/google/uuid"
)

const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusOnLeave    = "on_leave"
	StatusTerminated = "terminated"
)

const (
	defaultPageSize     = 20
	maxPageSize         = 100
	defaultMaxCustomers = 50
	defaultRole         = "junior_agent"
)

var (
	statuses = []string{StatusActive, StatusInactive, StatusOnLeave, StatusTerminated}
	roles    = []string{"junior_agent", "senior_agent", "team_lead", "manager", "admin"}
)

// IsKnownStatus reports whether s is an agent status.
func IsKnownStatus(s string) bool { return slices.Contains(statuses, s) }

// IsKnownRole reports whether s is an agent role.
func IsKnownRole(s string) bool { return slices.Contains(roles, s) }

// CustomerAssigner points a customer at an agent.
type CustomerAssigner interface {
	AssignCustomer(ctx context.Context, customerID, agentID uuid.UUID) error
}

// Service provides business logic for agents.
type Service struct {
	repo     repository.Repository
	assigner CustomerAssigner
	log      *logger.Logger
	now      func() time.Time
}

// New creates a new agent service.
func New(repo repository.Repository, assigner CustomerAssigner, log *logger.Logger) *Service {
	return &Service{repo: repo, assigner: assigner, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// List returns agents newest first.
func (s *Service) List(ctx context.Context, req transport.ListAgentsRequest) (transport.AgentListResponse, error) {
	limit := req.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	limit = min(limit, maxPageSize)
	offset := max(req.Offset, 0)

	agents, total, err := s.repo.List(ctx, repository.ListParams{
		Status: optional(req.Status),
		Role:   optional(req.Role),
		Search: optional(req.Search),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return transport.AgentListResponse{}, err
	}

	items := make([]transport.AgentResponse, 0, len(agents))
	for _, a := range agents {
		items = append(items, ToAgentResponse(a))
	}
	return transport.AgentListResponse{Total: total, Items: items, Limit: limit, Offset: offset}, nil
}

// Get returns one agent.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.AgentResponse, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.AgentResponse{}, err
	}
	return ToAgentResponse(a), nil
}

// Create registers an agent.
func (s *Service) Create(ctx context.Context, req transport.CreateAgentRequest) (transport.AgentResponse, error) {
	now := s.now()
	a := repository.Agent{
		ID:            uuid.New(),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Phone:         phone.NormalizeE164Ptr(req.Phone),
		LicenseNumber: req.LicenseNumber,
		Bio:           req.Bio,
		Role:          defaultRole,
		Status:        StatusActive,
		MaxCustomers:  defaultMaxCustomers,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.Role != "" {
		a.Role = req.Role
	}
	if req.Status != "" {
		a.Status = req.Status
	}
	if req.MaxCustomers != nil {
		a.MaxCustomers = *req.MaxCustomers
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return transport.AgentResponse{}, err
	}
	s.log.Info("agent created", "id", a.ID, "role", a.Role)
	return ToAgentResponse(a), nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateAgentRequest) (transport.AgentResponse, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.AgentResponse{}, err
	}

	if req.Email != nil {
		a.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.FirstName != nil {
		a.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		a.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		a.Phone = phone.NormalizeE164Ptr(req.Phone)
	}
	if req.LicenseNumber != nil {
		a.LicenseNumber = req.LicenseNumber
	}
	if req.Bio != nil {
		a.Bio = req.Bio
	}
	if req.Role != nil {
		a.Role = *req.Role
	}
	if req.MaxCustomers != nil {
		a.MaxCustomers = *req.MaxCustomers
	}
	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return transport.AgentResponse{}, err
	}
	return ToAgentResponse(a), nil
}

// SetStatus changes the agent status.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status string) (transport.StatusResponse, error) {
	if !IsKnownStatus(status) {
		return transport.StatusResponse{}, apperr.BadRequest("invalid status")
	}
	if err := s.repo.SetStatus(ctx, id, status, s.now()); err != nil {
		return transport.StatusResponse{}, err
	}
	s.log.Info("agent status changed", "id", id, "status", status)
	return transport.StatusResponse{Success: true, Status: status}, nil
}

// Delete marks the agent terminated; rows are never removed.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.SetStatus(ctx, id, StatusTerminated)
	return err
}

// AssignCustomer assigns a customer to an active agent with spare capacity.
// The capacity check and the assignment are separate statements, so two
// concurrent assignments may overshoot the limit by one.
func (s *Service) AssignCustomer(ctx context.Context, req transport.AssignCustomerRequest) (transport.AssignCustomerResponse, error) {
	a, err := s.repo.GetByID(ctx, req.AgentID)
	if err != nil {
		return transport.AssignCustomerResponse{}, err
	}
	if a.Status != StatusActive {
		return transport.AssignCustomerResponse{}, apperr.BadRequest("agent is not active")
	}
	if !HasCapacity(a) {
		return transport.AssignCustomerResponse{}, apperr.BadRequest("agent is at capacity")
	}

	if err := s.assigner.AssignCustomer(ctx, req.CustomerID, req.AgentID); err != nil {
		return transport.AssignCustomerResponse{}, err
	}

	s.log.Info("customer assigned", "agentId", req.AgentID, "customerId", req.CustomerID)
	return transport.AssignCustomerResponse{Success: true, AgentID: req.AgentID, CustomerID: req.CustomerID}, nil
}

// Stats summarises the roster.
func (s *Service) Stats(ctx context.Context) (transport.StatsResponse, error) {
	st, err := s.repo.Stats(ctx)
	if err != nil {
		return transport.StatsResponse{}, err
	}
	return transport.StatsResponse{
		TotalAgents:        st.Total,
		ActiveAgents:       st.ByStatus[StatusActive],
		AgentsByStatus:     st.ByStatus,
		TotalCapacity:      st.TotalCapacity,
		AssignedCustomers:  st.AssignedCustomers,
		AgentsWithCapacity: st.AgentsWithCapacity,
	}, nil
}

// HasCapacity reports whether the agent can take another customer.
func HasCapacity(a repository.Agent) bool {
	return a.ActiveCustomers < a.MaxCustomers
}

// ToAgentResponse builds the read projection.
func ToAgentResponse(a repository.Agent) transport.AgentResponse {
	return transport.AgentResponse{
		ID:              a.ID,
		Email:           a.Email,
		FirstName:       a.FirstName,
		LastName:        a.LastName,
		FullName:        strings.TrimSpace(a.FirstName + " " + a.LastName),
		Phone:           a.Phone,
		LicenseNumber:   a.LicenseNumber,
		Bio:             a.Bio,
		Role:            a.Role,
		Status:          a.Status,
		IsActive:        a.Status == StatusActive,
		MaxCustomers:    a.MaxCustomers,
		ActiveCustomers: a.ActiveCustomers,
		HasCapacity:     HasCapacity(a),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
