package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/nestinghomes/nestinghomes-web/internal/http/middleware"
	"github.com/nestinghomes/nestinghomes-web/internal/leads"
	"github.com/nestinghomes/nestinghomes-web/internal/site"
	"github.com/nestinghomes/nestinghomes-web/pkg/logging"
)

const requestTimeout = 30 * time.Second

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	LeadsHandler       *leads.Handler
	SiteHandler        *site.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// LeadRateLimiter guards POST /api/lead. Nil disables the limit.
	LeadRateLimiter *httpmiddleware.RateLimiter

	// ReadinessChecks back GET /ready, keyed by dependency name.
	ReadinessChecks map[string]Check
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))

	r.Get("/health", healthHandler)
	r.Get("/ready", readinessHandler(cfg.ReadinessChecks))
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.SiteHandler != nil {
		r.Group(func(pages chi.Router) {
			pages.Use(middleware.Compress(5))
			pages.Get("/", cfg.SiteHandler.Index)
			pages.Get("/schema.json", cfg.SiteHandler.Schema)
		})
	}

	if cfg.LeadsHandler != nil {
		r.Route("/api", func(api chi.Router) {
			api.Use(middleware.AllowContentType("application/json"))
			if cfg.LeadRateLimiter != nil {
				api.With(cfg.LeadRateLimiter.Middleware).Post("/lead", cfg.LeadsHandler.CreateLead)
			} else {
				api.Post("/lead", cfg.LeadsHandler.CreateLead)
			}
		})
	}

	return r
}
