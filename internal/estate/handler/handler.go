// Package handler wires the estate endpoints to the estate service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fiducia/internal/estate"
	"fiducia/pkg/domain"
	"fiducia/pkg/platform/httputil"
	"fiducia/pkg/requestcontext"
)

// Service defines the estate operations the handler depends on.
type Service interface {
	CalculateIHT(ctx context.Context, year domain.TaxYear, req estate.IHTRequest) (*estate.IHTCalculation, error)
	AnalyzeGifts(ctx context.Context, year domain.TaxYear, gifts []estate.Gift, deathDate time.Time) (*estate.GiftReport, error)
	CalculateSADuty(ctx context.Context, year domain.TaxYear, assets []estate.Asset, liabilities []estate.Liability) (*estate.SADutyCalculation, error)
}

// Handler serves the estate endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an estate handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the estate endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/estate/iht/calculate", h.HandleCalculateIHT)
	r.Post("/estate/gifts/analyze", h.HandleAnalyzeGifts)
	r.Post("/estate/sa-duty/calculate", h.HandleCalculateSADuty)
}

// HandleCalculateIHT handles POST /v1/estate/iht/calculate.
func (h *Handler) HandleCalculateIHT(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[IHTCalculateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	calc, err := h.service.CalculateIHT(ctx, req.Year(), req.Input())
	if err != nil {
		h.logger.ErrorContext(ctx, "iht calculation failed",
			"request_id", requestID,
			"tax_year", req.TaxYear,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "iht calculated",
		"request_id", requestID,
		"tax_year", req.TaxYear,
		"tax_due", calc.Result.TaxDue,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, calc)
}

// HandleAnalyzeGifts handles POST /v1/estate/gifts/analyze.
func (h *Handler) HandleAnalyzeGifts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[GiftAnalyzeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	report, err := h.service.AnalyzeGifts(ctx, req.Year(), req.Gifts, req.DeathDate)
	if err != nil {
		h.logger.ErrorContext(ctx, "gift analysis failed",
			"request_id", requestID,
			"tax_year", req.TaxYear,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "gifts analyzed",
		"request_id", requestID,
		"tax_year", req.TaxYear,
		"gifts", len(req.Gifts),
		"total_tax_due", report.TotalTaxDue,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, report)
}

// HandleCalculateSADuty handles POST /v1/estate/sa-duty/calculate.
func (h *Handler) HandleCalculateSADuty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[SADutyCalculateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	calc, err := h.service.CalculateSADuty(ctx, req.Year(), req.Assets, req.Liabilities)
	if err != nil {
		h.logger.ErrorContext(ctx, "sa estate duty calculation failed",
			"request_id", requestID,
			"tax_year", req.TaxYear,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "sa estate duty calculated",
		"request_id", requestID,
		"tax_year", req.TaxYear,
		"duty_due", calc.Result.DutyDue,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, calc)
}
