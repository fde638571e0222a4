package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestNewProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.Info("batch committed", "size", 2)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "batch committed" {
		t.Fatalf("unexpected msg: %v", record["msg"])
	}
	if record["size"] != float64(2) {
		t.Fatalf("unexpected size attribute: %v", record["size"])
	}
}

func TestNewProductionSuppressesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.Debug("noisy")

	if buf.Len() != 0 {
		t.Fatalf("expected debug to be suppressed, got %q", buf.String())
	}
}

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-42")

	log.WithContext(ctx).Info("hello")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unexpected output: %v", err)
	}
	if record["request_id"] != "req-42" {
		t.Fatalf("expected request_id attribute, got %v", record["request_id"])
	}
}
