// Package service implements CRM record keeping: interactions, notes and
// tasks, plus the CRM dashboard.
package service

import (
	"context"
	"strings"
	"time"

	"homefinder_backend/internal/crm/repository"
	"homefinder_backend/internal/crm/transport"
	"homefinder_backend/platform/apperr"
	"homefinder_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service provides business logic for CRM records.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
	now  func() time.Time
}

// New creates a new CRM service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Stats returns the CRM dashboard counters.
func (s *Service) Stats(ctx context.Context) (transport.StatsResponse, error) {
	c, err := s.repo.Counts(ctx, s.now())
	if err != nil {
		return transport.StatsResponse{}, err
	}
	return transport.StatsResponse{
		TotalInteractions:   c.TotalInteractions,
		InteractionsToday:   c.InteractionsToday,
		PendingTasks:        c.PendingTasks,
		OverdueTasks:        c.OverdueTasks,
		FollowUpsDue:        c.FollowUpsDue,
		PipelineValue:       c.PipelineValue,
		CustomersInPipeline: c.CustomersInPipeline,
	}, nil
}

func page(limit, offset int) (int, int) {
	if limit < 1 {
		limit = defaultPageSize
	}
	return min(limit, maxPageSize), max(offset, 0)
}

func optionalID(raw, field string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.Validation("invalid " + field)
	}
	return &id, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
