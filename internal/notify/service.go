package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/nestinghomes/nestinghomes-web/internal/leads"
	"github.com/nestinghomes/nestinghomes-web/pkg/logging"
)

// LeadNotifier emails the office about each new website lead.
type LeadNotifier struct {
	email      EmailSender
	recipients []string
	logger     *logging.Logger
}

// NewLeadNotifier returns nil when there is no sender or no recipient.
func NewLeadNotifier(email EmailSender, recipients []string, logger *logging.Logger) *LeadNotifier {
	if email == nil || len(recipients) == 0 {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LeadNotifier{email: email, recipients: recipients, logger: logger}
}

// Name identifies the notifier in logs and metrics.
func (n *LeadNotifier) Name() string { return "email" }

// LeadCreated sends one email per recipient. Replies go to the lead.
func (n *LeadNotifier) LeadCreated(ctx context.Context, lead *leads.Lead) error {
	if n == nil || lead == nil {
		return nil
	}
	msg := EmailMessage{
		ReplyTo: lead.Email,
		Subject: fmt.Sprintf("New website lead - %s", lead.Name),
		Body:    leadText(lead),
		HTML:    leadHTML(lead),
	}

	var errs []error
	for _, recipient := range n.recipients {
		msg.To = recipient
		if err := n.email.Send(ctx, msg); err != nil {
			n.logger.Error("notify: failed to send lead email", "error", err, "to", recipient, "lead_id", lead.ID)
			errs = append(errs, err)
			continue
		}
		n.logger.Info("notify: lead email sent", "to", recipient, "lead_id", lead.ID)
	}
	if len(errs) > 0 {
		return fmt.Errorf("notify: %d of %d lead emails failed: %w", len(errs), len(n.recipients), errors.Join(errs...))
	}
	return nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func leadText(lead *leads.Lead) string {
	return fmt.Sprintf(`New lead from the website

Name: %s
Email: %s
Phone: %s
Property address: %s
Received: %s

Message:
%s
`, lead.Name, lead.Email, orDash(lead.Phone), orDash(lead.Address),
		lead.CreatedAt.Format("January 2, 2006 at 3:04 PM MST"), orDash(lead.Message))
}

func leadHTML(lead *leads.Lead) string {
	row := func(label, value string) string {
		return fmt.Sprintf(`<tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>%s:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>`,
			label, html.EscapeString(orDash(value)))
	}
	var b strings.Builder
	b.WriteString(`<div style="font-family: sans-serif; max-width: 600px;">`)
	b.WriteString(`<h2 style="color: #0f172a;">New website lead</h2>`)
	b.WriteString(`<table style="border-collapse: collapse; margin: 20px 0;">`)
	b.WriteString(row("Name", lead.Name))
	b.WriteString(row("Email", lead.Email))
	b.WriteString(row("Phone", lead.Phone))
	b.WriteString(row("Property address", lead.Address))
	b.WriteString(`</table>`)
	fmt.Fprintf(&b, `<p style="white-space: pre-wrap;">%s</p>`, html.EscapeString(orDash(lead.Message)))
	b.WriteString(`</div>`)
	return b.String()
}
