package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nestinghomes/nestinghomes-web/internal/archive"
	appconfig "github.com/nestinghomes/nestinghomes-web/internal/config"
	"github.com/nestinghomes/nestinghomes-web/internal/events"
	"github.com/nestinghomes/nestinghomes-web/internal/leads"
	"github.com/nestinghomes/nestinghomes-web/internal/notify"
	"github.com/nestinghomes/nestinghomes-web/internal/observability/metrics"
	"github.com/nestinghomes/nestinghomes-web/pkg/logging"
)

// BuildEmailSender picks SendGrid, then SES, then the logging stub.
func BuildEmailSender(cfg *appconfig.Config, clients AWSClients, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	if sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sender != nil {
		logger.Info("lead email via sendgrid")
		return sender
	}
	if sender := notify.NewSESSender(clients.SES, notify.SESConfig{
		FromEmail: cfg.SESFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sender != nil {
		logger.Info("lead email via ses")
		return sender
	}
	logger.Warn("no email provider configured; lead emails will only be logged")
	return notify.NewStubEmailSender(logger)
}

// BuildLeadRepository uses Postgres when a pool is available.
func BuildLeadRepository(pool *pgxpool.Pool, logger *logging.Logger) leads.Repository {
	if pool == nil {
		logger.Warn("DATABASE_URL not set or unreachable; leads are kept in memory")
		return leads.NewInMemoryRepository()
	}
	return leads.NewPostgresRepository(pool)
}

// LeadDeps are the optional collaborators of the lead service.
type LeadDeps struct {
	Pool    *pgxpool.Pool
	Redis   *redis.Client
	AWS     AWSClients
	Metrics *metrics.LeadMetrics
}

// BuildLeadService wires storage, duplicate detection and the fan-out observers.
func BuildLeadService(cfg *appconfig.Config, deps LeadDeps, logger *logging.Logger) *leads.Service {
	if logger == nil {
		logger = logging.Default()
	}
	opts := []leads.ServiceOption{leads.WithMetrics(deps.Metrics)}

	if guard := leads.NewRedisDuplicateGuard(deps.Redis, cfg.LeadDedupeWindow); guard != nil {
		opts = append(opts, leads.WithDuplicateGuard(guard))
	}
	opts = append(opts, leads.WithObservers(buildObservers(cfg, deps, logger)...))

	return leads.NewService(BuildLeadRepository(deps.Pool, logger), logger, opts...)
}

func buildObservers(cfg *appconfig.Config, deps LeadDeps, logger *logging.Logger) []leads.Observer {
	var observers []leads.Observer

	if notifier := notify.NewLeadNotifier(BuildEmailSender(cfg, deps.AWS, logger), cfg.LeadNotifyEmails, logger); notifier != nil {
		observers = append(observers, notifier)
	} else {
		logger.Warn("LEAD_NOTIFY_EMAILS not set; lead emails disabled")
	}
	if deps.AWS.SQS != nil {
		if publisher := events.NewPublisher(deps.AWS.SQS, cfg.LeadQueueURL, logger); publisher != nil {
			observers = append(observers, publisher)
		}
	}
	if deps.AWS.S3 != nil {
		if store := archive.NewStore(deps.AWS.S3, cfg.LeadArchiveBucket, logger); store.Enabled() {
			observers = append(observers, store)
		}
	}

	names := make([]string, 0, len(observers))
	for _, o := range observers {
		names = append(names, o.Name())
	}
	logger.Info("lead observers configured", "observers", names)
	return observers
}
