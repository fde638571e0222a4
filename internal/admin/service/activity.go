package service

import (
	"context"
	"time"

	"homefinder_backend/internal/admin/repository"
	"homefinder_backend/internal/admin/transport"
	"homefinder_backend/internal/events"
	"homefinder_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	defaultActivityPage  = 50
	maxActivityPage      = 200
	defaultRecentHours   = 24
	defaultRecentLimit   = 20
	actionStageChanged   = "pipeline.stage_changed"
	actionEntryCreated   = "pipeline.entry_created"
	actionImportFinished = "properties.import_completed"
	entityPipeline       = "customer_pipeline"
)

func (s *Service) ListActivity(ctx context.Context, req transport.ListActivityRequest) (transport.ActivityListResponse, error) {
	limit := req.Limit
	if limit < 1 {
		limit = defaultActivityPage
	}
	if limit > maxActivityPage {
		limit = maxActivityPage
	}
	offset := max(req.Offset, 0)

	return s.listActivity(ctx, repository.ActivityFilter{
		UserID:     optionalID(req.UserID),
		Action:     optional(req.Action),
		EntityType: optional(req.EntityType),
		EntityID:   optional(req.EntityID),
		Limit:      limit,
		Offset:     offset,
	})
}

// RecentActivity returns entries from the last req.Hours hours.
func (s *Service) RecentActivity(ctx context.Context, req transport.RecentActivityRequest) (transport.ActivityListResponse, error) {
	hours := req.Hours
	if hours < 1 {
		hours = defaultRecentHours
	}
	limit := req.Limit
	if limit < 1 {
		limit = defaultRecentLimit
	}
	since := s.now().UTC().Add(-time.Duration(hours) * time.Hour)

	return s.listActivity(ctx, repository.ActivityFilter{Since: &since, Limit: limit})
}

func (s *Service) listActivity(ctx context.Context, f repository.ActivityFilter) (transport.ActivityListResponse, error) {
	items, total, err := s.repo.ListActivity(ctx, f)
	if err != nil {
		return transport.ActivityListResponse{}, err
	}

	resp := transport.ActivityListResponse{
		Items:  make([]transport.ActivityResponse, 0, len(items)),
		Total:  total,
		Limit:  f.Limit,
		Offset: f.Offset,
	}
	for _, a := range items {
		resp.Items = append(resp.Items, toActivityResponse(a))
	}
	return resp, nil
}

// CreateActivity records a client-reported action.
func (s *Service) CreateActivity(ctx context.Context, req transport.CreateActivityRequest, actor *uuid.UUID, ip string) (transport.ActivityResponse, error) {
	a := repository.Activity{
		ID:         uuid.New(),
		UserID:     actor,
		Action:     sanitize.Text(req.Action),
		EntityType: optional(req.EntityType),
		EntityID:   optional(req.EntityID),
		Details:    req.Details,
		IPAddress:  optional(ip),
		CreatedAt:  s.now().UTC(),
	}
	if a.Details == nil {
		a.Details = map[string]any{}
	}
	if err := s.repo.CreateActivity(ctx, a); err != nil {
		return transport.ActivityResponse{}, err
	}
	return toActivityResponse(a), nil
}

// Handle writes an activity row for the domain events the console audits.
func (s *Service) Handle(ctx context.Context, event events.Event) error {
	var a repository.Activity
	switch e := event.(type) {
	case events.PipelineStageChanged:
		entryID := e.EntryID.String()
		entityType := entityPipeline
		a = repository.Activity{
			UserID:     e.ActorID,
			Action:     actionStageChanged,
			EntityType: &entityType,
			EntityID:   &entryID,
			Details:    map[string]any{
				"customerId":    e.CustomerID.String(),
				"previousStage": e.PreviousStage,
				"stage":         e.Stage,
			},
			CreatedAt: e.ChangedAt,
		}
	case events.PipelineEntryCreated:
		entryID := e.EntryID.String()
		entityType := entityPipeline
		a = repository.Activity{
			UserID:     e.ActorID,
			Action:     actionEntryCreated,
			EntityType: &entityType,
			EntityID:   &entryID,
			Details:    map[string]any{"customerId": e.CustomerID.String(), "stage": e.Stage},
			CreatedAt:  e.OccurredAt(),
		}
	case events.PropertyImportCompleted:
		details := map[string]any{
			"loaded":        e.Loaded,
			"skipped":       e.Skipped,
			"rejected":      e.Rejected,
			"lost":          e.Lost,
			"failedBatches": e.FailedBatches,
			"elapsedMs":     e.Elapsed.Milliseconds(),
		}
		if e.ReportKey != "" {
			details["reportKey"] = e.ReportKey
		}
		if e.Err != "" {
			details["error"] = e.Err
		}
		a = repository.Activity{Action: actionImportFinished, Details: details, CreatedAt: e.OccurredAt()}
	default:
		return nil
	}

	a.ID = uuid.New()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now().UTC()
	}
	if err := s.repo.CreateActivity(ctx, a); err != nil {
		s.log.Error("activity not recorded", "action", a.Action, "error", err)
		return err
	}
	return nil
}

func toActivityResponse(a repository.Activity) transport.ActivityResponse {
	return transport.ActivityResponse{
		ID:         a.ID,
		UserID:     a.UserID,
		Action:     a.Action,
		EntityType: a.EntityType,
		EntityID:   a.EntityID,
		Details:    a.Details,
		IPAddress:  a.IPAddress,
		CreatedAt:  a.CreatedAt,
	}
}
