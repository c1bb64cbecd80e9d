package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nestinghomes/nestinghomes-web/internal/api/router"
	"github.com/nestinghomes/nestinghomes-web/internal/app/bootstrap"
	appconfig "github.com/nestinghomes/nestinghomes-web/internal/config"
	httpmiddleware "github.com/nestinghomes/nestinghomes-web/internal/http/middleware"
	"github.com/nestinghomes/nestinghomes-web/internal/leads"
	"github.com/nestinghomes/nestinghomes-web/internal/observability/metrics"
	"github.com/nestinghomes/nestinghomes-web/internal/site"
	"github.com/nestinghomes/nestinghomes-web/pkg/logging"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.NewWithOptions(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger.Info("starting nestinghomes web server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) error {
	metricsHandler, leadMetrics := setupMetrics()

	pool := bootstrap.ConnectPostgresPool(ctx, cfg.DatabaseURL, logger)
	if pool != nil {
		defer pool.Close()
	}
	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	var awsClients bootstrap.AWSClients
	if cfg.UsesAWS() {
		awsCfg, err := bootstrap.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return err
		}
		awsClients = bootstrap.BuildAWSClients(awsCfg, cfg)
	}

	service := bootstrap.BuildLeadService(cfg, bootstrap.LeadDeps{
		Pool:    pool,
		Redis:   redisClient,
		AWS:     awsClients,
		Metrics: leadMetrics,
	}, logger)

	limiter := httpmiddleware.NewRateLimiter(cfg.LeadRateLimitPerSec, cfg.LeadRateLimitBurst)
	defer limiter.Stop()

	checks := map[string]router.Check{}
	if pool != nil {
		checks["postgres"] = pool.Ping
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	handler := router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leads.NewHandler(service, leadMetrics, logger),
		SiteHandler:        site.NewHandler(site.NestingHomes.WithBaseURL(cfg.PublicBaseURL), "", logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		LeadRateLimiter:    limiter,
		ReadinessChecks:    checks,
	})

	return serve(ctx, newServer(cfg.Port, handler), logger)
}

// setupMetrics registers lead metrics plus the Go and process collectors on a
// private registry.
func setupMetrics() (http.Handler, *metrics.LeadMetrics) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), metrics.NewLeadMetrics(registry)
}

func newServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, logger *logging.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
