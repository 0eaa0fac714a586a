// Package handler wires the tax estimate endpoints to the tax service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"fiducia/internal/tax"
	"fiducia/pkg/domain"
	"fiducia/pkg/platform/httputil"
	"fiducia/pkg/requestcontext"
)

// Service defines the tax operations the handler depends on.
type Service interface {
	EstimateUK(ctx context.Context, year domain.TaxYear, in tax.UKEstimateInput) (*tax.UKEstimate, error)
	EstimateSA(ctx context.Context, year domain.TaxYear, taxableIncome decimal.Decimal, age int) (*tax.SAEstimate, error)
}

// Handler serves the tax estimate endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a tax handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the tax endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/tax/uk/estimate", h.HandleEstimateUK)
	r.Post("/tax/sa/estimate", h.HandleEstimateSA)
}

// HandleEstimateUK handles POST /v1/tax/uk/estimate.
func (h *Handler) HandleEstimateUK(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[UKEstimateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	est, err := h.service.EstimateUK(ctx, req.Year(), req.Input())
	if err != nil {
		h.logger.ErrorContext(ctx, "uk tax estimate failed",
			"request_id", requestID,
			"tax_year", req.TaxYear,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "uk tax estimated",
		"request_id", requestID,
		"tax_year", req.TaxYear,
		"total_due", est.TotalDue,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, est)
}

// HandleEstimateSA handles POST /v1/tax/sa/estimate.
func (h *Handler) HandleEstimateSA(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[SAEstimateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	est, err := h.service.EstimateSA(ctx, req.Year(), req.TaxableIncome, req.Age)
	if err != nil {
		h.logger.ErrorContext(ctx, "sa tax estimate failed",
			"request_id", requestID,
			"tax_year", req.TaxYear,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "sa tax estimated",
		"request_id", requestID,
		"tax_year", req.TaxYear,
		"tax_due", est.Result.TaxDue,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, est)
}
