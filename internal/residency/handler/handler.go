// Package handler wires the residency endpoints to the residency service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fiducia/internal/residency"
	"fiducia/pkg/domain"
	"fiducia/pkg/platform/httputil"
	"fiducia/pkg/requestcontext"
)

// Service defines the residency operations the handler depends on.
type Service interface {
	EvaluateUK(ctx context.Context, year domain.TaxYear, in residency.SRTInput) (*residency.Result, error)
	EvaluateSA(ctx context.Context, year domain.TaxYear, in residency.SAPresenceInput) (*residency.Result, error)
}

// Handler serves the residency endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a residency handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the residency endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/residency/uk/evaluate", h.HandleEvaluateUK)
	r.Post("/residency/sa/evaluate", h.HandleEvaluateSA)
}

type evaluateResponse struct {
	TaxYear string `json:"tax_year"`
	*residency.Result
}

// HandleEvaluateUK handles POST /v1/residency/uk/evaluate.
func (h *Handler) HandleEvaluateUK(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[UKEvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.EvaluateUK(ctx, req.Year(), req.Input())
	if err != nil {
		h.logger.ErrorContext(ctx, "uk residency evaluation failed",
			"request_id", requestID,
			"tax_year", req.TaxYear,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "uk residency evaluated",
		"request_id", requestID,
		"tax_year", req.TaxYear,
		"verdict", result.Verdict,
		"determining_test", result.DeterminingTest,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, evaluateResponse{TaxYear: req.TaxYear, Result: result})
}

// HandleEvaluateSA handles POST /v1/residency/sa/evaluate.
func (h *Handler) HandleEvaluateSA(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[SAEvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.EvaluateSA(ctx, req.Year(), req.Input())
	if err != nil {
		h.logger.ErrorContext(ctx, "sa residency evaluation failed",
			"request_id", requestID,
			"tax_year", req.TaxYear,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "sa residency evaluated",
		"request_id", requestID,
		"tax_year", req.TaxYear,
		"verdict", result.Verdict,
		"determining_test", result.DeterminingTest,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, evaluateResponse{TaxYear: req.TaxYear, Result: result})
}
