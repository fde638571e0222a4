// Package service implements the admin console: dashboard counts, feature
// toggles, the activity trail and bulk import control.
package service

import (
	"context"
	"io"
	"strings"
	"time"

	"homefinder_backend/internal/adapters/storage"
	"homefinder_backend/internal/admin/repository"
	"homefinder_backend/internal/admin/transport"
	"homefinder_backend/internal/scheduler"
	"homefinder_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ImportQueue enqueues bulk property imports.
type ImportQueue interface {
	EnqueueImport(ctx context.Context, payload scheduler.PropertyImportPayload) (string, error)
}

// ReportStore reads archived import summaries.
type ReportStore interface {
	ListKeys(ctx context.Context, bucket, prefix string, limit int) ([]storage.ObjectInfo, error)
	GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*storage.PresignedURL, error)
	DownloadFile(ctx context.Context, bucket, fileKey string) (io.ReadCloser, error)
}

// Service provides business logic for the admin console.
type Service struct {
	repo          repository.Repository
	imports       ImportQueue
	reports       ReportStore
	reportsBucket string
	log           *logger.Logger
	now           func() time.Time
}

// New creates a new admin service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// SetImportQueue enables POST /admin/imports.
func (s *Service) SetImportQueue(q ImportQueue) { s.imports = q }

// SetReportStore enables the import report endpoints.
func (s *Service) SetReportStore(store ReportStore, bucket string) {
	s.reports = store
	s.reportsBucket = bucket
}

// Dashboard gathers the independent counts concurrently. Counts come from
// separate statements and are not a consistent snapshot.
func (s *Service) Dashboard(ctx context.Context) (transport.DashboardStatsResponse, error) {
	var out transport.DashboardStatsResponse
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.TotalCustomers, out.ActiveCustomers, err = s.repo.CountCustomers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.TotalAgents, out.ActiveAgents, err = s.repo.CountAgents(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.TotalInquiries, out.NewInquiries, err = s.repo.CountInquiries(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.TotalProperties, err = s.repo.CountProperties(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.LeadsThisMonth, out.ConversionsThisMonth, out.RevenueThisMonth, err = s.repo.PipelineMonth(gctx, monthStart)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.DashboardStatsResponse{}, err
	}
	return out, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optionalID(s string) *uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &id
}
