package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"

	"github.com/nestinghomes/nestinghomes-web/internal/leads"
	"github.com/nestinghomes/nestinghomes-web/pkg/logging"
)

const eventTypeAttribute = "event_type"

// SQSAPI is the subset of the SQS client used by Publisher.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Publisher sends domain events to an SQS queue.
type Publisher struct {
	client   SQSAPI
	queueURL string
	logger   *logging.Logger
	newID    func() string
}

// NewPublisher returns nil when there is no client or queue URL.
func NewPublisher(client SQSAPI, queueURL string, logger *logging.Logger) *Publisher {
	if client == nil || queueURL == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{
		client:   client,
		queueURL: queueURL,
		logger:   logger,
		newID:    func() string { return uuid.NewString() },
	}
}

// Publish marshals payload and sends it with an event_type attribute.
func (p *Publisher) Publish(ctx context.Context, eventType string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("events: marshal %s: %w", eventType, err)
	}
	out, err := p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			eventTypeAttribute: {
				DataType:    aws.String("String"),
				StringValue: aws.String(eventType),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("events: failed to send SQS message: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

func (p *Publisher) Name() string { return "queue" }

// LeadCreated publishes a LeadCreatedV1 for the stored lead.
func (p *Publisher) LeadCreated(ctx context.Context, lead *leads.Lead) error {
	if p == nil || lead == nil {
		return nil
	}
	evt := LeadCreatedV1{
		EventID:   p.newID(),
		LeadID:    lead.ID,
		Name:      lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Address:   lead.Address,
		Message:   lead.Message,
		Source:    lead.Source,
		CreatedAt: lead.CreatedAt,
	}
	messageID, err := p.Publish(ctx, TypeLeadCreatedV1, evt)
	if err != nil {
		return err
	}
	p.logger.Info("lead event published", "lead_id", lead.ID, "event_id", evt.EventID, "sqs_message_id", messageID)
	return nil
}
