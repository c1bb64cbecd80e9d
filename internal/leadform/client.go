package leadform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nestinghomes/nestinghomes-web/pkg/logging"
)

const (
	// DefaultPath is the lead intake endpoint.
	DefaultPath = "/api/lead"

	// GenericFailureNotice is shown when the server gives no usable error text.
	GenericFailureNotice = "Sorry, we couldn't send your message. Please try again or call us at (310) 922-8202."

	maxResponseBytes = 1 << 20
)

var tracer = otel.Tracer("nestinghomes.internal.leadform")

// ErrMalformedResponse is returned when the response body is not JSON.
var ErrMalformedResponse = errors.New("leadform: response body is not valid JSON")

// ServerError is returned when the endpoint answers with a non-2xx status.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("leadform: server returned %d: %s", e.StatusCode, e.Message)
}

// Notifier shows a blocking notice to the person filling in the form.
type Notifier interface {
	Alert(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

// Alert calls fn(message).
func (fn NotifierFunc) Alert(message string) { fn(message) }

type noopNotifier struct{}

func (noopNotifier) Alert(string) {}

// Config controls how the submission client behaves.
type Config struct {
	BaseURL    string
	Path       string
	Timeout    time.Duration
	HTTPClient *http.Client
	Notifier   Notifier
	Logger     *logging.Logger
}

// Client sends lead forms to the intake endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	notifier   Notifier
	logger     *logging.Logger
}

// New creates a configured Client.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("leadform: base URL is required")
	}
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		path = DefaultPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = noopNotifier{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		endpoint:   baseURL + path,
		httpClient: httpClient,
		notifier:   notifier,
		logger:     logger,
	}, nil
}

// Endpoint returns the absolute URL leads are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Outcome describes what happened to one submit call.
type Outcome struct {
	State      State
	StatusCode int
	Response   any
	Diagnostic string
	Err        error
}

// Submitted reports whether the lead was accepted.
func (o Outcome) Submitted() bool {
	return o.State == StateSubmitted
}

// Submit sends a snapshot of form as one POST request. Every failure is
// handled here: the form is left editable, the notifier is alerted once and
// the outcome carries the cause. Submit never retries.
//
// Calling Submit while a previous call on the same form is pending, or on a
// form that was already submitted, returns immediately without a request.
func (c *Client) Submit(ctx context.Context, form *Form) Outcome {
	lead, err := form.begin()
	if err != nil {
		return Outcome{State: form.State(), Err: err}
	}

	ctx, span := c.startSpan(ctx)
	defer span.End()

	status, body, err := c.post(ctx, lead)
	if err != nil {
		return c.fail(form, span, status, GenericFailureNotice, err)
	}
	span.SetAttributes(attribute.Int("http.status_code", status))

	var decoded any
	parseErr := json.Unmarshal(body, &decoded)

	if status < 200 || status > 299 {
		msg := GenericFailureNotice
		if parseErr == nil {
			if text := errorText(decoded); text != "" {
				msg = text
			}
		}
		return c.fail(form, span, status, msg, &ServerError{StatusCode: status, Message: msg})
	}
	if parseErr != nil {
		return c.fail(form, span, status, GenericFailureNotice, fmt.Errorf("%w: %v", ErrMalformedResponse, parseErr))
	}

	form.finish(true)
	c.logger.Info("lead submitted", "endpoint", c.endpoint, "status", status)
	return Outcome{State: StateSubmitted, StatusCode: status, Response: decoded}
}

func (c *Client) startSpan(ctx context.Context) (context.Context, trace.Span) {
	return tracer.Start(ctx, "leadform.submit",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", c.endpoint)),
	)
}

func (c *Client) post(ctx context.Context, lead LeadForm) (int, []byte, error) {
	payload, err := json.Marshal(lead)
	if err != nil {
		return 0, nil, fmt.Errorf("leadform: marshal lead: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("leadform: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("leadform: send lead: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("leadform: read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) fail(form *Form, span trace.Span, status int, diagnostic string, err error) Outcome {
	form.finish(false)
	span.RecordError(err)
	span.SetStatus(codes.Error, diagnostic)
	c.logger.Error("lead submission failed",
		"endpoint", c.endpoint,
		"status", status,
		"diagnostic", diagnostic,
		"error", err,
	)
	c.notifier.Alert(diagnostic)
	return Outcome{State: StateFailed, StatusCode: status, Diagnostic: diagnostic, Err: err}
}

// errorText pulls a non-empty "error" string out of a decoded JSON object.
func errorText(decoded any) string {
	obj, ok := decoded.(map[string]any)
	if !ok {
		return ""
	}
	text, _ := obj["error"].(string)
	return strings.TrimSpace(text)
}
