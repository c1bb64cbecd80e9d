package leads

import (
	"context"
	"errors"
	"fmt"

	"github.com/nestinghomes/nestinghomes-web/internal/observability/metrics"
	"github.com/nestinghomes/nestinghomes-web/pkg/logging"
)

// Observer is told about every stored lead (email, queue, archive).
type Observer interface {
	Name() string
	LeadCreated(ctx context.Context, lead *Lead) error
}

// Service runs the intake pipeline: validate, dedupe, store, fan out.
type Service struct {
	repo      Repository
	guard     DuplicateGuard
	observers []Observer
	metrics   *metrics.LeadMetrics
	logger    *logging.Logger
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithDuplicateGuard enables duplicate rejection. A nil guard is ignored.
func WithDuplicateGuard(guard DuplicateGuard) ServiceOption {
	return func(s *Service) {
		s.guard = guard
	}
}

// WithObservers appends post-save hooks. Nil observers are skipped.
func WithObservers(observers ...Observer) ServiceOption {
	return func(s *Service) {
		for _, o := range observers {
			if o != nil {
				s.observers = append(s.observers, o)
			}
		}
	}
}

// WithMetrics records observer failures.
func WithMetrics(m *metrics.LeadMetrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates the intake service.
func NewService(repo Repository, logger *logging.Logger, opts ...ServiceOption) *Service {
	if repo == nil {
		panic("leads: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{repo: repo, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Capture stores a lead. Validation failures come back as
// *apperror.ValidationError and repeats within the window as ErrDuplicateLead.
// Observer failures are logged and never returned.
func (s *Service) Capture(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	fingerprint := ""
	if s.guard != nil {
		fingerprint = req.Fingerprint()
		fresh, err := s.guard.Claim(ctx, fingerprint)
		switch {
		case err != nil:
			// Redis trouble should not cost us a lead.
			s.logger.Warn("lead dedupe unavailable", "error", err)
			fingerprint = ""
		case !fresh:
			return nil, ErrDuplicateLead
		}
	}

	lead, err := s.repo.Create(ctx, req)
	if err != nil {
		if fingerprint != "" {
			if relErr := s.guard.Release(ctx, fingerprint); relErr != nil {
				s.logger.Warn("lead dedupe release failed", "error", relErr)
			}
		}
		return nil, fmt.Errorf("leads: store lead: %w", err)
	}

	if err := s.notify(ctx, lead); err != nil {
		s.logger.Error("lead observers failed", "lead_id", lead.ID, "error", err)
	}
	return lead, nil
}

func (s *Service) notify(ctx context.Context, lead *Lead) error {
	var errs []error
	for _, o := range s.observers {
		if err := o.LeadCreated(ctx, lead); err != nil {
			s.metrics.ObserveObserverFailure(o.Name())
			errs = append(errs, fmt.Errorf("%s: %w", o.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// List proxies to the repository.
func (s *Service) List(ctx context.Context, filter ListLeadsFilter) ([]*Lead, error) {
	return s.repo.List(ctx, filter)
}
