package leads

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nestinghomes/nestinghomes-web/internal/apperror"
	"github.com/nestinghomes/nestinghomes-web/internal/observability/metrics"
	"github.com/nestinghomes/nestinghomes-web/pkg/logging"
)

const maxLeadBodyBytes = 64 << 10

var tracer = otel.Tracer("nestinghomes.internal.leads")

// Response bodies. Failures always carry an "error" string.
type createLeadResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Handler handles HTTP requests for leads
type Handler struct {
	service *Service
	metrics *metrics.LeadMetrics
	logger  *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(service *Service, m *metrics.LeadMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

// CreateLead handles POST /api/lead requests
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, span := tracer.Start(r.Context(), "leads.create")
	defer span.End()

	result := metrics.ResultError
	defer func() {
		span.SetAttributes(attribute.String("lead.result", result))
		h.metrics.ObserveSubmission(result, time.Since(start).Seconds())
	}()

	var req CreateLeadRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLeadBodyBytes)).Decode(&req); err != nil {
		h.logger.Warn("failed to decode lead", "error", err)
		result = metrics.ResultInvalid
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	lead, err := h.service.Capture(ctx, &req)
	if err != nil {
		span.RecordError(err)
		var verr *apperror.ValidationError
		switch {
		case errors.As(err, &verr):
			result = metrics.ResultInvalid
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.First(), Fields: verr.Fields})
		case errors.Is(err, ErrDuplicateLead):
			result = metrics.ResultDuplicate
			h.logger.Info("duplicate lead rejected", "email", req.Email)
			writeJSON(w, http.StatusConflict, errorResponse{Error: "Duplicate lead"})
		default:
			h.logger.Error("failed to create lead", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to save lead"})
		}
		return
	}

	result = metrics.ResultAccepted
	span.SetAttributes(attribute.String("lead.id", lead.ID))
	h.logger.Info("lead created", "id", lead.ID, "name", lead.Name, "source", lead.Source)
	writeJSON(w, http.StatusCreated, createLeadResponse{OK: true, ID: lead.ID})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
