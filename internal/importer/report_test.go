package importer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"
)

type recordingUploader struct {
	bucket, folder, name, contentType string
	body []byte
	err  error
}

func (u *recordingUploader) UploadFile(_ context.Context, bucket, folder, fileName, contentType string, reader io.Reader, _ int64) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	u.bucket, u.folder, u.name, u.contentType, u.body = bucket, folder, fileName, contentType, body
	return folder + "/" + fileName, nil
}

func TestArchiveWritesSummaryJSON(t *testing.T) {
	up := &recordingUploader{}
	a := NewReportArchiver(up, "import-reports")
	summary := Summary{
		StartedAt: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		Loaded:    12,
		Skipped:   3,
	}

	key, err := a.Archive(context.Background(), summary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "imports/2026/03/summary-20260304T050607Z.json" {
		t.Fatalf("unexpected key %q", key)
	}
	if up.bucket != "import-reports" || up.contentType != "application/json" {
		t.Fatalf("unexpected upload target %s %s", up.bucket, up.contentType)
	}

	var decoded Summary
	if err := json.Unmarshal(up.body, &decoded); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if decoded.Loaded != 12 || decoded.Skipped != 3 {
		t.Fatalf("unexpected archived summary %+v", decoded)
	}
}

func TestArchivePropagatesUploadError(t *testing.T) {
	a := NewReportArchiver(&recordingUploader{err: errors.New("bucket missing")}, "import-reports")
	if _, err := a.Archive(context.Background(), Summary{}); err == nil {
		t.Fatal("expected upload error")
	}
}
