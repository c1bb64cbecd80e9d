package bootstrap

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	appconfig "github.com/nestinghomes/nestinghomes-web/internal/config"
	"github.com/nestinghomes/nestinghomes-web/internal/leads"
	"github.com/nestinghomes/nestinghomes-web/internal/notify"
	"github.com/nestinghomes/nestinghomes-web/pkg/logging"
)

func testConfig() *appconfig.Config {
	return &appconfig.Config{
		AWSRegion:          "us-west-2",
		AWSAccessKeyID:     "test",
		AWSSecretAccessKey: "test",
		LeadDedupeWindow:   10 * time.Minute,
		SendGridFromName:   notify.DefaultFromName,
	}
}

func TestBuildRedisClientDisabled(t *testing.T) {
	if client := BuildRedisClient(context.Background(), &appconfig.Config{}, logging.New("error"), true); client != nil {
		t.Fatalf("expected nil client without REDIS_ADDR")
	}
	if client := BuildRedisClient(context.Background(), nil, nil, true); client != nil {
		t.Fatalf("expected nil client without config")
	}
}

func TestBuildRedisClientVerifies(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &appconfig.Config{RedisAddr: mr.Addr()}

	client := BuildRedisClient(context.Background(), cfg, logging.New("error"), true)
	if client == nil {
		t.Fatalf("expected client for reachable redis")
	}
	_ = client.Close()

	mr.Close()
	if client := BuildRedisClient(context.Background(), cfg, logging.New("error"), true); client != nil {
		t.Fatalf("expected nil client when redis is down")
	}
}

func TestConnectPostgresPoolEmptyURLReturnsNil(t *testing.T) {
	if pool := ConnectPostgresPool(context.Background(), "", logging.New("error")); pool != nil {
		t.Fatalf("expected nil pool for empty URL")
	}
}

func TestConnectPostgresPoolInvalidURLReturnsNil(t *testing.T) {
	if pool := ConnectPostgresPool(context.Background(), "::not a url::", logging.New("error")); pool != nil {
		t.Fatalf("expected nil pool for invalid URL")
	}
}

func TestLoadAWSConfigEndpointOverride(t *testing.T) {
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	cfg := testConfig()
	cfg.AWSEndpointOverride = "http://localhost:4566"

	awsCfg, err := LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("load aws config: %v", err)
	}
	if awsCfg.Region != "us-west-2" {
		t.Fatalf("expected region us-west-2, got %q", awsCfg.Region)
	}
	creds, err := awsCfg.Credentials.Retrieve(context.Background())
	if err != nil || creds.AccessKeyID != "test" {
		t.Fatalf("expected static credentials, got %+v (%v)", creds, err)
	}

	endpoint, err := awsCfg.EndpointResolverWithOptions.ResolveEndpoint(sqs.ServiceID, "us-west-2")
	if err != nil || endpoint.URL != "http://localhost:4566" {
		t.Fatalf("expected sqs override, got %+v (%v)", endpoint, err)
	}
	endpoint, err = awsCfg.EndpointResolverWithOptions.ResolveEndpoint(s3.ServiceID, "us-west-2")
	if err != nil || endpoint.URL != "http://localhost:4566" {
		t.Fatalf("expected s3 override, got %+v (%v)", endpoint, err)
	}
	if _, err := awsCfg.EndpointResolverWithOptions.ResolveEndpoint("DynamoDB", "us-west-2"); err == nil {
		t.Fatalf("expected other services to use the default resolver")
	}
}

func TestBuildAWSClientsOnlyWhatIsConfigured(t *testing.T) {
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	cfg := testConfig()
	awsCfg, err := LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("load aws config: %v", err)
	}

	clients := BuildAWSClients(awsCfg, cfg)
	if clients.SQS != nil || clients.S3 != nil || clients.SES != nil {
		t.Fatalf("expected no clients, got %+v", clients)
	}

	cfg.LeadQueueURL = "http://localhost:4566/000000000000/leads"
	cfg.LeadArchiveBucket = "leads-archive"
	cfg.SESFromEmail = "web@nestinghomesproperty.com"
	clients = BuildAWSClients(awsCfg, cfg)
	if clients.SQS == nil || clients.S3 == nil || clients.SES == nil {
		t.Fatalf("expected all clients, got %+v", clients)
	}

	cfg.SendGridAPIKey = "SG.test"
	if clients := BuildAWSClients(awsCfg, cfg); clients.SES != nil {
		t.Fatalf("expected SendGrid to take precedence over SES")
	}
}

func TestBuildEmailSenderPrecedence(t *testing.T) {
	logger := logging.New("error")
	cfg := testConfig()

	if _, ok := BuildEmailSender(cfg, AWSClients{}, logger).(*notify.StubEmailSender); !ok {
		t.Fatalf("expected stub sender without providers")
	}

	cfg.SendGridAPIKey = "SG.test"
	cfg.SendGridFromEmail = "web@nestinghomesproperty.com"
	if _, ok := BuildEmailSender(cfg, AWSClients{}, logger).(*notify.SendGridSender); !ok {
		t.Fatalf("expected SendGrid sender when API key is set")
	}
}

func TestBuildLeadServiceInMemoryWithRedisDedupe(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.RedisAddr = mr.Addr()
	cfg.LeadNotifyEmails = []string{"office@example.com"}
	logger := logging.New("error")

	redisClient := BuildRedisClient(context.Background(), cfg, logger, true)
	svc := BuildLeadService(cfg, LeadDeps{Redis: redisClient}, logger)

	req := func() *leads.CreateLeadRequest {
		return &leads.CreateLeadRequest{Name: "Jane", Email: "jane@example.com", Message: "Duplex"}
	}
	lead, err := svc.Capture(context.Background(), req())
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if lead.ID == "" {
		t.Fatalf("expected stored lead")
	}
	if _, err := svc.Capture(context.Background(), req()); !errors.Is(err, leads.ErrDuplicateLead) {
		t.Fatalf("expected duplicate, got %v", err)
	}

	stored, err := svc.List(context.Background(), leads.ListLeadsFilter{})
	if err != nil || len(stored) != 1 {
		t.Fatalf("expected one stored lead, got %d (%v)", len(stored), err)
	}
}

func TestBuildObserversSkipsUnconfigured(t *testing.T) {
	observers := buildObservers(testConfig(), LeadDeps{}, logging.New("error"))
	if len(observers) != 0 {
		t.Fatalf("expected no observers, got %d", len(observers))
	}

	cfg := testConfig()
	cfg.LeadNotifyEmails = []string{"office@example.com"}
	observers = buildObservers(cfg, LeadDeps{}, logging.New("error"))
	if len(observers) != 1 || observers[0].Name() != "email" {
		t.Fatalf("expected email observer, got %+v", observers)
	}
}
