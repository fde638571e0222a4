package email

import (
	"context"
	"strings"
	"testing"

	"homefinder_backend/platform/config"
)

func TestRenderInquiryNotification(t *testing.T) {
	price := int64(450000)
	out, err := Render(TemplateInquiryNotification, InquiryData{
		Base:            Base{Title: "New inquiry", Heading: "New inquiry"},
		InquiryType:     "schedule_tour",
		Name:            "Dana Whitfield",
		Email:           "dana@example.com",
		Message:         "Can we <b>visit</b> on Saturday?",
		PropertyAddress: "12 Elm St, Austin",
		PropertyPrice:   &price,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"schedule_tour", "Dana Whitfield", "12 Elm St, Austin", "$450000", "&lt;b&gt;visit"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestRenderImportSummary(t *testing.T) {
	out, err := Render(TemplateImportSummary, &ImportSummaryData{
		Base:    Base{Title: "Import finished", Heading: "Import finished"},
		Loaded:  1200,
		Skipped: 30,
		Elapsed: "4m12s",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "1200") || !strings.Contains(out, "4m12s") {
		t.Fatalf("summary counts missing from output")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, err := Render("missing", Base{}); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestNewData(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{name: TemplateInquiryNotification},
		{name: TemplateInquiryConfirmation},
		{name: TemplateImportSummary},
		{name: "newsletter", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewData(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewData(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestNoopSender(t *testing.T) {
	if err := (NoopSender{}).Send(context.Background(), "a@example.com", "hi", TemplateImportSummary, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewSenderFallsBackToNoop(t *testing.T) {
	if _, ok := NewSender(&config.Config{EmailEnabled: false}).(NoopSender); !ok {
		t.Fatal("expected NoopSender when email is disabled")
	}
	cfg := &config.Config{EmailEnabled: true, SMTPHost: "smtp.test", SMTPPort: 587, EmailFromAddress: "noreply@homefinder.test"}
	if _, ok := NewSender(cfg).(*SMTPSender); !ok {
		t.Fatal("expected SMTPSender when email is enabled")
	}
}
