package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
)

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "",
		FromEmail: "test@example.com",
	}, nil)

	if sender != nil {
		t.Error("expected nil sender when API key is empty")
	}
}

func TestNewSendGridSender_DefaultFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "test-key",
		FromEmail: "test@example.com",
		FromName:  "",
	}, nil)

	if sender == nil {
		t.Fatal("expected non-nil sender")
	}
	if sender.from.name != DefaultFromName {
		t.Errorf("expected default from name %q, got %q", DefaultFromName, sender.from.name)
	}
}

func TestNewSendGridSender_CustomFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "test-key",
		FromEmail: "test@example.com",
		FromName:  "Custom Name",
	}, nil)

	if sender == nil {
		t.Fatal("expected non-nil sender")
	}
	if sender.from.name != "Custom Name" {
		t.Errorf("expected from name 'Custom Name', got %q", sender.from.name)
	}
}

func TestSendGridSender_Send_NilClient(t *testing.T) {
	sender := &SendGridSender{
		client: nil,
	}

	err := sender.Send(context.Background(), EmailMessage{
		To:      "recipient@example.com",
		Subject: "Test",
		Body:    "Test body",
	})

	if err == nil {
		t.Error("expected error when client is nil")
	}
}

func TestStubEmailSender_Send(t *testing.T) {
	sender := NewStubEmailSender(nil)

	err := sender.Send(context.Background(), EmailMessage{
		To:      "recipient@example.com",
		Subject: "Test Subject",
		Body:    "Test body",
	})

	if err != nil {
		t.Errorf("stub sender should not return error, got: %v", err)
	}
}

func TestNewSESSender_NilClient(t *testing.T) {
	if sender := NewSESSender(nil, SESConfig{FromEmail: "web@example.com"}, nil); sender != nil {
		t.Error("expected nil sender without an SES client")
	}
}

func TestSESSender_Send_NilClient(t *testing.T) {
	sender := &SESSender{}
	if err := sender.Send(context.Background(), EmailMessage{To: "office@example.com"}); err == nil {
		t.Error("expected error when client is nil")
	}
}

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESSender_SendLeadNotification(t *testing.T) {
	client := &fakeSES{}
	sender := newSESSender(client, SESConfig{FromEmail: "web@nestinghomesproperty.com"}, nil)

	err := sender.Send(context.Background(), EmailMessage{
		To:      "office@example.com",
		ReplyTo: "owner@example.com",
		Subject: "New website lead - Jane",
		Body:    "Name: Jane",
		HTML:    "<p>Name: Jane</p>",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.inputs) != 1 {
		t.Fatalf("expected one SES call, got %d", len(client.inputs))
	}
	in := client.inputs[0]
	from := aws.ToString(in.FromEmailAddress)
	if !strings.Contains(from, DefaultFromName) || !strings.HasSuffix(from, "<web@nestinghomesproperty.com>") {
		t.Errorf("unexpected from address %q", from)
	}
	if len(in.ReplyToAddresses) != 1 || in.ReplyToAddresses[0] != "owner@example.com" {
		t.Errorf("expected reply-to the lead, got %v", in.ReplyToAddresses)
	}
	if got := in.Destination.ToAddresses; len(got) != 1 || got[0] != "office@example.com" {
		t.Errorf("unexpected destination %v", got)
	}
	body := in.Content.Simple.Body
	if aws.ToString(body.Text.Data) != "Name: Jane" || aws.ToString(body.Html.Data) != "<p>Name: Jane</p>" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestSESSender_SendTextOnlyWithoutReplyTo(t *testing.T) {
	client := &fakeSES{}
	sender := newSESSender(client, SESConfig{FromEmail: "web@example.com", FromName: "Leads"}, nil)

	if err := sender.Send(context.Background(), EmailMessage{To: "office@example.com", Body: "hello"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in := client.inputs[0]
	if in.ReplyToAddresses != nil {
		t.Errorf("expected no reply-to, got %v", in.ReplyToAddresses)
	}
	if in.Content.Simple.Body.Html != nil {
		t.Error("expected no HTML part")
	}
}

func TestSESSender_SendError(t *testing.T) {
	sender := newSESSender(&fakeSES{err: errors.New("throttled")}, SESConfig{FromEmail: "web@example.com"}, nil)
	err := sender.Send(context.Background(), EmailMessage{To: "office@example.com", Body: "hi"})
	if err == nil || !strings.Contains(err.Error(), "throttled") {
		t.Fatalf("expected wrapped SES error, got %v", err)
	}
}

func TestSendGridSender_MessageRepliesToLead(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{APIKey: "test-key", FromEmail: "web@example.com"}, nil)

	m := sender.message(EmailMessage{
		To:      "office@example.com",
		ReplyTo: "owner@example.com",
		Subject: "New website lead - Jane",
		Body:    "Name: Jane",
	})
	if m.ReplyTo == nil || m.ReplyTo.Address != "owner@example.com" {
		t.Fatalf("expected reply-to the lead, got %+v", m.ReplyTo)
	}
	if m.From.Name != DefaultFromName || m.From.Address != "web@example.com" {
		t.Errorf("unexpected from %+v", m.From)
	}
	if len(m.Content) != 2 || m.Content[1].Value != "Name: Jane" {
		t.Errorf("expected text body reused as HTML, got %+v", m.Content)
	}
}
