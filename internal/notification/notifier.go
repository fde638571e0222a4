package notification

import (
	"context"

	"homefinder_backend/internal/email"
	"homefinder_backend/platform/logger"
)

// Notifier renders a template and emails it to every recipient.
type Notifier struct {
	sender email.Sender
	log    *logger.Logger
}

// NewNotifier creates a Notifier over sender.
func NewNotifier(sender email.Sender, log *logger.Logger) *Notifier {
	return &Notifier{sender: sender, log: log}
}

// Notify reports whether every recipient was sent the message. Failures are
// logged, never returned.
func (n *Notifier) Notify(ctx context.Context, templateName string, recipients []string, data any) bool {
	if len(recipients) == 0 {
		n.log.Debug("notification skipped, no recipients", "template", templateName)
		return false
	}

	subject := email.Subject(templateName)
	delivered := true
	for _, to := range recipients {
		if err := n.sender.Send(ctx, to, subject, templateName, data); err != nil {
			n.log.Error("notification email failed", "template", templateName, "to", to, "error", err)
			delivered = false
			continue
		}
		n.log.Info("notification email sent", "template", templateName, "to", to)
	}
	return delivered
}
