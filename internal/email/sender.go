// Package email renders the embedded HTML templates and delivers them over SMTP.
package email

import (
	"context"

	"homefinder_backend/platform/config"
)

// Sender delivers one rendered template to one recipient.
type Sender interface {
	Send(ctx context.Context, toEmail, subject, templateName string, data any) error
}

// NewSender returns an SMTP sender, or a NoopSender when email is disabled.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}

// NoopSender drops every message. It is used when email is disabled.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, toEmail, subject, templateName string, data any) error {
	return nil
}

var (
	_ Sender = NoopSender{}
	_ Sender = (*SMTPSender)(nil)
)
