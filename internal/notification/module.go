// Package notification sends emails in response to domain events.
// Domain modules publish events; this module owns templates and delivery.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"homefinder_backend/internal/email"
	"homefinder_backend/internal/events"
	"homefinder_backend/internal/scheduler"
	"homefinder_backend/platform/config"
	"homefinder_backend/platform/logger"

	"github.com/google/uuid"
)

// InquiryMarker records that the staff notification for an inquiry went out.
type InquiryMarker interface {
	MarkEmailSent(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Enqueuer hands a notification to the background worker.
type Enqueuer interface {
	EnqueueNotification(ctx context.Context, payload scheduler.NotificationSendPayload) error
}

// Module handles all notification-related event subscriptions.
type Module struct {
	notifier    *Notifier
	marker      InquiryMarker
	queue       Enqueuer
	adminEmails []string
	siteURL     string
	log         *logger.Logger
	now         func() time.Time
}

// New creates the notification module. marker may be nil in processes that
// never see inquiries.
func New(sender email.Sender, marker InquiryMarker, cfg config.NotificationConfig, log *logger.Logger) *Module {
	return &Module{
		notifier:    NewNotifier(sender, log),
		marker:      marker,
		adminEmails: cfg.GetAdminNotificationEmails(),
		siteURL:     cfg.GetPublicSiteURL(),
		log:         log,
		now:         time.Now,
	}
}

// SetQueue routes deliveries through the background worker instead of
// sending inline.
func (m *Module) SetQueue(q Enqueuer) { m.queue = q }

// RegisterHandlers subscribes to the events that trigger emails.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.InquirySubmitted{}.EventName(), m)
	bus.Subscribe(events.PropertyImportCompleted{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.InquirySubmitted:
		return m.handleInquirySubmitted(ctx, e)
	case events.PropertyImportCompleted:
		return m.handleImportCompleted(ctx, e)
	default:
		return nil
	}
}

func (m *Module) handleInquirySubmitted(ctx context.Context, e events.InquirySubmitted) error {
	data := email.InquiryData{
		InquiryID:       e.InquiryID.String(),
		InquiryType:     e.InquiryType,
		Name:            e.Name,
		Email:           e.Email,
		Phone:           deref(e.Phone),
		Message:         e.Message,
		PropertyAddress: deref(e.PropertyAddress),
		PropertyPrice:   e.PropertyPrice,
	}

	staff := data
	staff.Base = email.Base{Title: "New inquiry", Heading: "New inquiry from " + e.Name}
	if e.PropertyID != nil && m.siteURL != "" {
		staff.CTALabel = "View property"
		staff.CTAURL = m.siteURL + "/properties/" + *e.PropertyID
	}
	m.dispatch(ctx, email.TemplateInquiryNotification, m.adminEmails, staff, &e.InquiryID)

	customer := data
	customer.Base = email.Base{Title: "Thanks for your inquiry", Heading: "Thanks for your inquiry"}
	m.dispatch(ctx, email.TemplateInquiryConfirmation, []string{e.Email}, customer, nil)
	return nil
}

func (m *Module) handleImportCompleted(ctx context.Context, e events.PropertyImportCompleted) error {
	heading := "Property import finished"
	if e.Err != "" {
		heading = "Property import finished with errors"
	}
	data := email.ImportSummaryData{
		Base:          email.Base{Title: heading, Heading: heading},
		StartedAt:     e.StartedAt.UTC().Format(time.RFC1123),
		Elapsed:       e.Elapsed.Round(time.Second).String(),
		Loaded:        e.Loaded,
		Skipped:       e.Skipped,
		Rejected:      e.Rejected,
		Lost:          e.Lost,
		Files:         e.Files,
		FileErrors:    e.FileErrors,
		Batches:       e.Batches,
		FailedBatches: e.FailedBatches,
		Error:         e.Err,
		ReportKey:     e.ReportKey,
	}
	m.dispatch(ctx, email.TemplateImportSummary, m.adminEmails, data, nil)
	return nil
}

// dispatch queues the message when a queue is configured and otherwise
// delivers inline. Failures are logged and swallowed.
func (m *Module) dispatch(ctx context.Context, templateName string, recipients []string, data any, inquiryID *uuid.UUID) {
	if len(recipients) == 0 {
		m.log.Debug("notification skipped, no recipients", "template", templateName)
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		m.log.Error("notification payload encode failed", "template", templateName, "error", err)
		return
	}
	payload := scheduler.NotificationSendPayload{
		Template:   templateName,
		Recipients: recipients,
		Data:       raw,
	}
	if inquiryID != nil {
		payload.InquiryID = inquiryID.String()
	}

	if m.queue != nil {
		err := m.queue.EnqueueNotification(ctx, payload)
		if err == nil {
			return
		}
		m.log.Warn("notification enqueue failed, sending inline", "template", templateName, "error", err)
	}
	_ = m.Deliver(ctx, payload)
}

// Deliver sends a notification payload and, for staff inquiry alerts,
// stamps the inquiry as emailed.
func (m *Module) Deliver(ctx context.Context, payload scheduler.NotificationSendPayload) error {
	data, err := email.NewData(payload.Template)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload.Data, data); err != nil {
		return fmt.Errorf("decode notification data: %w", err)
	}

	if !m.notifier.Notify(ctx, payload.Template, payload.Recipients, data) {
		return fmt.Errorf("notification %s not delivered to every recipient", payload.Template)
	}

	if payload.InquiryID == "" || m.marker == nil {
		return nil
	}
	inquiryID, err := uuid.Parse(payload.InquiryID)
	if err != nil {
		return fmt.Errorf("parse inquiry id: %w", err)
	}
	if err := m.marker.MarkEmailSent(ctx, inquiryID, m.now().UTC()); err != nil {
		m.log.Warn("inquiry email flag not stored", "inquiryId", inquiryID, "error", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ scheduler.NotificationDeliverer = (*Module)(nil)
