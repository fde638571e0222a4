package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

const reportContentType = "application/json"

// Uploader is the object storage operation the report archiver needs.
type Uploader interface {
	UploadFile(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)
}

// ReportArchiver stores run summaries as JSON objects so past imports can be
// audited after the logs rotate.
type ReportArchiver struct {
	storage Uploader
	bucket  string
}

// NewReportArchiver returns an archiver writing into bucket.
func NewReportArchiver(storage Uploader, bucket string) *ReportArchiver {
	return &ReportArchiver{storage: storage, bucket: bucket}
}

// Archive uploads s under imports/<year>/<month>/ and returns the object key.
func (a *ReportArchiver) Archive(ctx context.Context, s Summary) (string, error) {
	body, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode import summary: %w", err)
	}

	started := s.StartedAt.UTC()
	folder := started.Format("imports/2006/01")
	name := "summary-" + started.Format("20060102T150405Z") + ".json"

	key, err := a.storage.UploadFile(ctx, a.bucket, folder, name, reportContentType, bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", fmt.Errorf("archive import summary: %w", err)
	}
	return key, nil
}
