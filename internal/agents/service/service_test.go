package service

import (
	"context"
	"testing"
	"time"

	"homefinder_backend/internal/agents/repository"
	"homefinder_backend/internal/agents/transport"
	"homefinder_backend/platform/apperr"
	"homefinder_backend/platform/logger"

	"github.com/google/uuid"
)

type stubRepo struct {
	repository.Repository
	agents map[uuid.UUID]repository.Agent
}

func (s *stubRepo) Create(_ context.Context, a repository.Agent) error {
	s.agents[a.ID] = a
	return nil
}

func (s *stubRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Agent, error) {
	a, ok := s.agents[id]
	if !ok {
		return repository.Agent{}, apperr.NotFound("agent not found")
	}
	return a, nil
}

func (s *stubRepo) SetStatus(_ context.Context, id uuid.UUID, status string, _ time.Time) error {
	a, ok := s.agents[id]
	if !ok {
		return apperr.NotFound("agent not found")
	}
	a.Status = status
	s.agents[id] = a
	return nil
}

type recordingAssigner struct {
	calls [][2]uuid.UUID
	err   error
}

func (r *recordingAssigner) AssignCustomer(_ context.Context, customerID, agentID uuid.UUID) error {
	r.calls = append(r.calls, [2]uuid.UUID{customerID, agentID})
	return r.err
}

func newTestService(agents ...repository.Agent) (*Service, *stubRepo, *recordingAssigner) {
	repo := &stubRepo{agents: make(map[uuid.UUID]repository.Agent)}
	for _, a := range agents {
		repo.agents[a.ID] = a
	}
	assigner := &recordingAssigner{}
	return New(repo, assigner, logger.Discard()), repo, assigner
}

func TestAssignCustomerChecksAgent(t *testing.T) {
	active := repository.Agent{ID: uuid.New(), Status: StatusActive, MaxCustomers: 2, ActiveCustomers: 1}
	full := repository.Agent{ID: uuid.New(), Status: StatusActive, MaxCustomers: 2, ActiveCustomers: 2}
	onLeave := repository.Agent{ID: uuid.New(), Status: StatusOnLeave, MaxCustomers: 2}
	svc, _, assigner := newTestService(active, full, onLeave)

	tests := []struct {
		name    string
		agentID uuid.UUID
		kind    apperr.Kind
	}{
		{name: "unknown agent", agentID: uuid.New(), kind: apperr.KindNotFound},
		{name: "inactive agent", agentID: onLeave.ID, kind: apperr.KindBadRequest},
		{name: "agent at capacity", agentID: full.ID, kind: apperr.KindBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AssignCustomer(context.Background(), transport.AssignCustomerRequest{AgentID: tt.agentID, CustomerID: uuid.New()})
			if !apperr.Is(err, tt.kind) {
				t.Fatalf("expected kind %v, got %v", tt.kind, err)
			}
		})
	}
	if len(assigner.calls) != 0 {
		t.Fatalf("expected no assignment, got %d", len(assigner.calls))
	}

	customerID := uuid.New()
	resp, err := svc.AssignCustomer(context.Background(), transport.AssignCustomerRequest{AgentID: active.ID, CustomerID: customerID})
	if err != nil || !resp.Success {
		t.Fatalf("unexpected result %+v, %v", resp, err)
	}
	if len(assigner.calls) != 1 || assigner.calls[0] != [2]uuid.UUID{customerID, active.ID} {
		t.Fatalf("unexpected assignment calls %v", assigner.calls)
	}
}

func TestAssignCustomerPropagatesMissingCustomer(t *testing.T) {
	agent := repository.Agent{ID: uuid.New(), Status: StatusActive, MaxCustomers: 5}
	svc, _, assigner := newTestService(agent)
	assigner.err = apperr.NotFound("user not found")

	_, err := svc.AssignCustomer(context.Background(), transport.AssignCustomerRequest{AgentID: agent.ID, CustomerID: uuid.New()})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateDefaultsAndProjection(t *testing.T) {
	svc, _, _ := newTestService()

	resp, err := svc.Create(context.Background(), transport.CreateAgentRequest{
		Email:     "Morgan@Realty.example",
		FirstName: "Morgan",
		LastName:  "Reyes",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.FullName != "Morgan Reyes" || resp.Email != "morgan@realty.example" {
		t.Fatalf("unexpected agent %+v", resp)
	}
	if resp.Role != "junior_agent" || resp.MaxCustomers != 50 || !resp.IsActive || !resp.HasCapacity {
		t.Fatalf("unexpected defaults %+v", resp)
	}
}

func TestDeleteTerminates(t *testing.T) {
	agent := repository.Agent{ID: uuid.New(), Status: StatusActive}
	svc, repo, _ := newTestService(agent)

	if err := svc.Delete(context.Background(), agent.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.agents[agent.ID].Status != StatusTerminated {
		t.Fatalf("expected terminated, got %s", repo.agents[agent.ID].Status)
	}
}

func TestHasCapacity(t *testing.T) {
	if !HasCapacity(repository.Agent{MaxCustomers: 3, ActiveCustomers: 2}) {
		t.Fatal("expected capacity below the limit")
	}
	if HasCapacity(repository.Agent{MaxCustomers: 3, ActiveCustomers: 3}) {
		t.Fatal("expected no capacity at the limit")
	}
}
