package service

import (
	"context"
	"io"
	"strings"

	"homefinder_backend/internal/admin/transport"
	"homefinder_backend/internal/scheduler"
	"homefinder_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	reportPrefix       = "imports/"
	defaultReportLimit = 20
)

// EnqueueImport queues a bulk import. A queued or running import is a Conflict.
func (s *Service) EnqueueImport(ctx context.Context, actor *uuid.UUID) (transport.EnqueueImportResponse, error) {
	if s.imports == nil {
		return transport.EnqueueImportResponse{}, apperr.Unavailable("import queue not configured")
	}

	payload := scheduler.PropertyImportPayload{}
	if actor != nil {
		payload.RequestedBy = actor.String()
	}
	taskID, err := s.imports.EnqueueImport(ctx, payload)
	if err != nil {
		return transport.EnqueueImportResponse{}, err
	}
	s.log.Info("property import queued", "taskId", taskID)
	return transport.EnqueueImportResponse{TaskID: taskID, Status: "queued"}, nil
}

// ListImportReports returns the newest archived summaries with download links.
func (s *Service) ListImportReports(ctx context.Context, limit int) (transport.ImportReportListResponse, error) {
	if s.reports == nil {
		return transport.ImportReportListResponse{}, apperr.Unavailable("report storage not configured")
	}
	if limit < 1 {
		limit = defaultReportLimit
	}

	objects, err := s.reports.ListKeys(ctx, s.reportsBucket, reportPrefix, limit)
	if err != nil {
		return transport.ImportReportListResponse{}, err
	}

	resp := transport.ImportReportListResponse{Items: make([]transport.ImportReport, 0, len(objects))}
	for _, obj := range objects {
		report := transport.ImportReport{ObjectInfo: obj}
		if url, err := s.reports.GenerateDownloadURL(ctx, s.reportsBucket, obj.Key); err != nil {
			s.log.Warn("report link not generated", "key", obj.Key, "error", err)
		} else {
			report.DownloadURL = url.URL
			report.ExpiresAt = &url.ExpiresAt
		}
		resp.Items = append(resp.Items, report)
	}
	return resp, nil
}

// OpenImportReport streams one archived summary. The caller closes it.
func (s *Service) OpenImportReport(ctx context.Context, key string) (io.ReadCloser, error) {
	if s.reports == nil {
		return nil, apperr.Unavailable("report storage not configured")
	}
	if !strings.HasPrefix(key, reportPrefix) || strings.Contains(key, "..") {
		return nil, apperr.BadRequest("invalid report key")
	}
	return s.reports.DownloadFile(ctx, s.reportsBucket, key)
}
