package notify

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/nestinghomes/nestinghomes-web/pkg/logging"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// DefaultFromName is the sender name used when none is configured.
const DefaultFromName = "Nesting Homes Website"

// EmailSender delivers one office notification email.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is a single notification to one office recipient.
// ReplyTo carries the lead's own address so the office can answer the
// owner straight from the inbox.
type EmailMessage struct {
	To      string
	ToName  string
	ReplyTo string
	Subject string
	Body    string // Plain text body
	HTML    string // Optional HTML body
}

// sender is the website's From identity, shared by every provider.
type sender struct {
	email string
	name  string
}

func newSender(email, name string) sender {
	if name == "" {
		name = DefaultFromName
	}
	return sender{email: email, name: name}
}

// String renders the RFC 5322 From header value.
func (s sender) String() string {
	return (&mail.Address{Name: s.name, Address: s.email}).String()
}

// SendGridSender sends lead notifications through the SendGrid v3 API.
type SendGridSender struct {
	client *sendgrid.Client
	from   sender
	logger *logging.Logger
}

// SendGridConfig holds configuration for SendGrid.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// NewSendGridSender returns nil when no API key is configured.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   newSender(cfg.FromEmail, cfg.FromName),
		logger: logger,
	}
}

func (s *SendGridSender) message(msg EmailMessage) *sgmail.SGMailV3 {
	html := msg.HTML
	if html == "" {
		html = msg.Body
	}
	m := sgmail.NewSingleEmail(
		sgmail.NewEmail(s.from.name, s.from.email),
		msg.Subject,
		sgmail.NewEmail(msg.ToName, msg.To),
		msg.Body,
		html,
	)
	if msg.ReplyTo != "" {
		m.SetReplyTo(sgmail.NewEmail("", msg.ReplyTo))
	}
	return m
}

// Send delivers msg. Any status of 400 or above is an error.
func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s.client == nil {
		return fmt.Errorf("notify: sendgrid client not configured")
	}

	response, err := s.client.SendWithContext(ctx, s.message(msg))
	if err != nil {
		s.logger.Error("sendgrid send failed", "error", err, "to", msg.To)
		return fmt.Errorf("notify: sendgrid send failed: %w", err)
	}
	if response.StatusCode >= 400 {
		s.logger.Error("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "to", msg.To)
		return fmt.Errorf("notify: sendgrid returned status %d", response.StatusCode)
	}

	s.logger.Info("lead email sent", "provider", "sendgrid", "to", msg.To, "status", response.StatusCode)
	return nil
}

// StubEmailSender logs notifications instead of sending them. It is used
// when neither SendGrid nor SES is configured, e.g. in local development.
type StubEmailSender struct {
	logger *logging.Logger
}

func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

func (s *StubEmailSender) Send(_ context.Context, msg EmailMessage) error {
	s.logger.Info("lead email not sent (no provider configured)", "to", msg.To, "subject", msg.Subject, "reply_to", msg.ReplyTo)
	return nil
}
