// Package service applies pipeline stage changes and serves the board and
// dashboard.
package service

import (
	"context"
	"errors"
	"time"

	"homefinder_backend/internal/events"
	"homefinder_backend/internal/pipeline/analytics"
	"homefinder_backend/internal/pipeline/domain"
	"homefinder_backend/internal/pipeline/repository"
	"homefinder_backend/internal/pipeline/transport"
	"homefinder_backend/platform/apperr"
	"homefinder_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Service provides business logic for the sales pipeline.
type Service struct {
	repo repository.Repository
	bus  events.Publisher
	log  *logger.Logger
	now  func() time.Time
}

// New creates a new pipeline service.
func New(repo repository.Repository, bus events.Publisher, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// List returns one page of the board ordered by most recent stage entry.
func (s *Service) List(ctx context.Context, req transport.ListEntriesRequest) (transport.EntryListResponse, error) {
	limit := req.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	params := repository.ListParams{Limit: limit, Offset: max(req.Offset, 0)}

	if req.Stage != "" {
		stage, ok := domain.ParseStage(req.Stage)
		if !ok {
			return transport.EntryListResponse{}, apperr.Validation("invalid stage")
		}
		params.Stage = &stage
	}
	if req.AssignedAgentID != "" {
		agentID, err := uuid.Parse(req.AssignedAgentID)
		if err != nil {
			return transport.EntryListResponse{}, apperr.Validation("invalid agent id")
		}
		params.AssignedAgentID = &agentID
	}

	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.EntryListResponse{}, err
	}

	resp := make([]transport.EntryResponse, 0, len(items))
	for _, v := range items {
		resp = append(resp, toEntryResponse(v))
	}
	return transport.EntryListResponse{Total: total, Items: resp, Limit: params.Limit, Offset: params.Offset}, nil
}

// Get returns one entry with its display fields.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.EntryResponse, error) {
	v, err := s.repo.GetView(ctx, id)
	if err != nil {
		return transport.EntryResponse{}, err
	}
	return toEntryResponse(v), nil
}

// Create adds a customer to the pipeline. A customer can only be added once.
func (s *Service) Create(ctx context.Context, req transport.CreateEntryRequest, actorID *uuid.UUID) (transport.EntryResponse, error) {
	stage := domain.StageNewLead
	if req.Stage != "" {
		parsed, ok := domain.ParseStage(req.Stage)
		if !ok {
			return transport.EntryResponse{}, apperr.Validation("invalid stage")
		}
		stage = parsed
	}

	entry := domain.NewEntry(req.CustomerID, stage, s.now())
	entry.AssignedAgentID = req.AssignedAgentID
	entry.ExpectedCloseDate = req.ExpectedCloseDate
	entry.DealValue = req.DealValue
	entry.LeadSource = req.LeadSource
	if req.Probability != nil {
		entry.Probability = *req.Probability
	}

	if err := s.repo.Create(ctx, entry, entry.InitialChange()); err != nil {
		return transport.EntryResponse{}, err
	}

	s.log.Info("pipeline entry created", "id", entry.ID, "customerId", entry.CustomerID, "stage", entry.Stage)
	s.bus.Publish(ctx, events.PipelineEntryCreated{
		BaseEvent:  events.NewBaseEvent(),
		EntryID:    entry.ID,
		CustomerID: entry.CustomerID,
		Stage:      string(entry.Stage),
		ActorID:    actorID,
	})

	return s.Get(ctx, entry.ID)
}

// Update applies a partial update, moving the stage when requested.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateEntryRequest, actorID *uuid.UUID) (transport.EntryResponse, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.EntryResponse{}, err
	}

	patch := domain.Patch{
		AssignedAgentID:   req.AssignedAgentID,
		ExpectedCloseDate: req.ExpectedCloseDate,
		DealValue:         req.DealValue,
		Probability:       req.Probability,
		LostReason:        req.LostReason,
		LostToCompetitor:  req.LostToCompetitor,
		LeadSource:        req.LeadSource,
	}
	if req.Stage != nil {
		stage, ok := domain.ParseStage(*req.Stage)
		if !ok {
			return transport.EntryResponse{}, apperr.Validation("invalid stage")
		}
		patch.Stage = &stage
	}

	previous := entry.Stage
	change, err := entry.Apply(patch, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrLostDetailsOutsideLost) {
			return transport.EntryResponse{}, apperr.Validation(err.Error())
		}
		return transport.EntryResponse{}, err
	}

	if err := s.repo.Update(ctx, entry, change); err != nil {
		return transport.EntryResponse{}, err
	}
	s.stageChanged(ctx, entry, previous, change, actorID)

	return s.Get(ctx, entry.ID)
}

// UpdateStageByCustomer moves the customer's entry to stage.
func (s *Service) UpdateStageByCustomer(ctx context.Context, customerID uuid.UUID, stage string, actorID *uuid.UUID) (transport.StageUpdateResponse, error) {
	target, ok := domain.ParseStage(stage)
	if !ok {
		return transport.StageUpdateResponse{}, apperr.BadRequest("invalid stage")
	}

	entry, err := s.repo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return transport.StageUpdateResponse{}, err
	}

	previous := entry.Stage
	change := entry.TransitionTo(target, s.now())
	if change != nil {
		if err := s.repo.Update(ctx, entry, change); err != nil {
			return transport.StageUpdateResponse{}, err
		}
		s.stageChanged(ctx, entry, previous, change, actorID)
	}

	return transport.StageUpdateResponse{Success: true, Stage: string(entry.Stage), Changed: change != nil}, nil
}

func (s *Service) stageChanged(ctx context.Context, entry domain.Entry, previous domain.Stage, change *domain.StageChange, actorID *uuid.UUID) {
	if change == nil {
		return
	}
	s.log.Info("pipeline stage changed", "id", entry.ID, "from", previous, "to", entry.Stage)
	s.bus.Publish(ctx, events.PipelineStageChanged{
		BaseEvent:     events.NewBaseEvent(),
		EntryID:       entry.ID,
		CustomerID:    entry.CustomerID,
		PreviousStage: string(previous),
		Stage:         string(entry.Stage),
		ChangedAt:     change.ChangedAt,
		ActorID:       actorID,
	})
}

// History returns the stage changes of an entry.
func (s *Service) History(ctx context.Context, id uuid.UUID) (transport.StageHistoryResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return transport.StageHistoryResponse{}, err
	}
	changes, err := s.repo.History(ctx, id)
	if err != nil {
		return transport.StageHistoryResponse{}, err
	}

	items := make([]transport.StageChangeResponse, 0, len(changes))
	for _, c := range changes {
		items = append(items, transport.StageChangeResponse{
			ID:        c.ID,
			FromStage: c.FromStage,
			ToStage:   string(c.ToStage),
			ChangedAt: c.ChangedAt,
		})
	}
	return transport.StageHistoryResponse{PipelineID: id, Items: items}, nil
}

// Stats computes the dashboard. Figures are eventually consistent with
// concurrent stage changes.
func (s *Service) Stats(ctx context.Context) (analytics.Stats, error) {
	monthStart := analytics.MonthStart(s.now())
	agg, err := s.repo.Aggregates(ctx, monthStart)
	if err != nil {
		return analytics.Stats{}, err
	}
	return analytics.Compute(agg, monthStart), nil
}

// StatsResponse renders Stats for the API.
func (s *Service) StatsResponse(ctx context.Context) (transport.StatsResponse, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return transport.StatsResponse{}, err
	}

	byStage := make(map[string]int, len(stats.LeadsByStage))
	for stage, count := range stats.LeadsByStage {
		byStage[string(stage)] = count
	}
	return transport.StatsResponse{
		TotalLeads:           stats.TotalLeads,
		LeadsByStage:         byStage,
		TotalDealValue:       stats.TotalDealValue,
		AvgDealValue:         stats.AvgDealValue,
		ConversionRate:       stats.ConversionRate,
		LeadsThisMonth:       stats.LeadsThisMonth,
		ConversionsThisMonth: stats.ConversionsThisMonth,
		RevenueThisMonth:     stats.RevenueThisMonth,
		AvgDaysToClose:       stats.AvgDaysToClose,
		MonthStart:           stats.MonthStart,
	}, nil
}

func toEntryResponse(v repository.EntryView) transport.EntryResponse {
	return transport.EntryResponse{
		ID:                v.ID,
		CustomerID:        v.CustomerID,
		AssignedAgentID:   v.AssignedAgentID,
		Stage:             string(v.Stage),
		PreviousStage:     v.PreviousStage,
		StageEnteredAt:    v.StageEnteredAt,
		LastStageChange:   v.LastStageChange,
		ExpectedCloseDate: v.ExpectedCloseDate,
		DealValue:         v.DealValue,
		Probability:       v.Probability,
		LostReason:        v.LostReason,
		LostToCompetitor:  v.LostToCompetitor,
		LeadSource:        v.LeadSource,
		IsClosed:          v.Stage.IsTerminal(),
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
		CustomerName:      v.CustomerName,
		CustomerEmail:     v.CustomerEmail,
		AssignedAgentName: v.AgentName,
	}
}
