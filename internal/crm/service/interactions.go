package service

import (
	"context"

	"homefinder_backend/internal/crm/domain"
	"homefinder_backend/internal/crm/repository"
	"homefinder_backend/internal/crm/transport"
	"homefinder_backend/platform/sanitize"

	"github.com/google/uuid"
)

// ListInteractions returns interactions newest first.
func (s *Service) ListInteractions(ctx context.Context, req transport.ListInteractionsRequest) (transport.InteractionListResponse, error) {
	customerID, err := optionalID(req.CustomerID, "customer id")
	if err != nil {
		return transport.InteractionListResponse{}, err
	}
	agentID, err := optionalID(req.AgentID, "agent id")
	if err != nil {
		return transport.InteractionListResponse{}, err
	}
	limit, offset := page(req.Limit, req.Offset)

	items, total, err := s.repo.ListInteractions(ctx, repository.InteractionFilter{
		CustomerID: customerID,
		AgentID:    agentID,
		Type:       optional(req.InteractionType),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return transport.InteractionListResponse{}, err
	}

	resp := make([]transport.InteractionResponse, 0, len(items))
	for _, v := range items {
		resp = append(resp, toInteractionResponse(v))
	}
	return transport.InteractionListResponse{Total: total, Items: resp, Limit: limit, Offset: offset}, nil
}

// GetInteraction returns one interaction.
func (s *Service) GetInteraction(ctx context.Context, id uuid.UUID) (transport.InteractionResponse, error) {
	v, err := s.repo.GetInteraction(ctx, id)
	if err != nil {
		return transport.InteractionResponse{}, err
	}
	return toInteractionResponse(v), nil
}

// CreateInteraction logs a touchpoint. Type defaults to other and outcome to neutral.
func (s *Service) CreateInteraction(ctx context.Context, req transport.CreateInteractionRequest) (transport.InteractionResponse, error) {
	now := s.now()
	kind := domain.InteractionOther
	if req.InteractionType != "" {
		kind = domain.InteractionType(req.InteractionType)
	}
	outcome := domain.OutcomeNeutral
	if req.Outcome != nil {
		outcome = domain.Outcome(*req.Outcome)
	}

	i := domain.Interaction{
		ID:               uuid.New(),
		CustomerID:       req.CustomerID,
		AgentID:          req.AgentID,
		PropertyID:       req.PropertyID,
		Type:             kind,
		Subject:          sanitize.TextPtr(req.Subject),
		Description:      sanitize.Text(req.Description),
		Outcome:          &outcome,
		DurationMinutes:  req.DurationMinutes,
		ScheduledAt:      req.ScheduledAt,
		CompletedAt:      req.CompletedAt,
		FollowUpRequired: req.FollowUpRequired,
		FollowUpDate:     req.FollowUpDate,
		FollowUpNotes:    sanitize.TextPtr(req.FollowUpNotes),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.CreateInteraction(ctx, i); err != nil {
		return transport.InteractionResponse{}, err
	}

	s.log.Info("interaction logged", "id", i.ID, "customerId", i.CustomerID, "type", i.Type)
	return s.GetInteraction(ctx, i.ID)
}

// UpdateInteraction applies a partial update.
func (s *Service) UpdateInteraction(ctx context.Context, id uuid.UUID, req transport.UpdateInteractionRequest) (transport.InteractionResponse, error) {
	v, err := s.repo.GetInteraction(ctx, id)
	if err != nil {
		return transport.InteractionResponse{}, err
	}

	i := v.Interaction
	if req.Subject != nil {
		i.Subject = sanitize.TextPtr(req.Subject)
	}
	if req.Description != nil {
		i.Description = sanitize.Text(*req.Description)
	}
	if req.Outcome != nil {
		outcome := domain.Outcome(*req.Outcome)
		i.Outcome = &outcome
	}
	if req.DurationMinutes != nil {
		i.DurationMinutes = req.DurationMinutes
	}
	if req.CompletedAt != nil {
		i.CompletedAt = req.CompletedAt
	}
	if req.FollowUpRequired != nil {
		i.FollowUpRequired = *req.FollowUpRequired
	}
	if req.FollowUpDate != nil {
		i.FollowUpDate = req.FollowUpDate
	}
	if req.FollowUpNotes != nil {
		i.FollowUpNotes = sanitize.TextPtr(req.FollowUpNotes)
	}
	i.UpdatedAt = s.now()

	if err := s.repo.UpdateInteraction(ctx, i); err != nil {
		return transport.InteractionResponse{}, err
	}
	return s.GetInteraction(ctx, id)
}

// DeleteInteraction removes an interaction.
func (s *Service) DeleteInteraction(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteInteraction(ctx, id)
}

func toInteractionResponse(v repository.InteractionView) transport.InteractionResponse {
	var outcome *string
	if v.Outcome != nil {
		o := string(*v.Outcome)
		outcome = &o
	}
	return transport.InteractionResponse{
		ID:               v.ID,
		CustomerID:       v.CustomerID,
		AgentID:          v.AgentID,
		PropertyID:       v.PropertyID,
		InteractionType:  string(v.Type),
		Subject:          v.Subject,
		Description:      v.Description,
		Outcome:          outcome,
		DurationMinutes:  v.DurationMinutes,
		ScheduledAt:      v.ScheduledAt,
		CompletedAt:      v.CompletedAt,
		FollowUpRequired: v.FollowUpRequired,
		FollowUpDate:     v.FollowUpDate,
		FollowUpNotes:    v.FollowUpNotes,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
		CustomerName:     v.CustomerName,
		AgentName:        v.AgentName,
	}
}
