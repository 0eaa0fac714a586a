// Package handler wires the goal CRUD and optimization endpoints to the goal
// service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"fiducia/internal/goal"
	dErrors "fiducia/pkg/domain-errors"
	"fiducia/pkg/domain"
	"fiducia/pkg/platform/httputil"
	"fiducia/pkg/requestcontext"
)

// Service defines the goal operations the handler depends on.
type Service interface {
	Create(ctx context.Context, g goal.Snapshot) (*goal.Snapshot, error)
	Get(ctx context.Context, goalID domain.GoalID) (*goal.Snapshot, error)
	List(ctx context.Context) ([]*goal.Snapshot, error)
	Update(ctx context.Context, g goal.Snapshot) (*goal.Snapshot, error)
	Delete(ctx context.Context, goalID domain.GoalID) error
	OptimizePlan(ctx context.Context, monthlyBudget decimal.Decimal, goals []goal.Snapshot) (*goal.Plan, error)
}

// Handler serves the goal endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a goal handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the goal endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Route("/goals", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Post("/optimize", h.HandleOptimize)
		r.Route("/{goalID}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Put("/", h.HandleUpdate)
			r.Delete("/", h.HandleDelete)
		})
	})
}

// HandleCreate handles POST /v1/goals.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[GoalRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	created, err := h.service.Create(ctx, req.Snapshot())
	if err != nil {
		h.logger.ErrorContext(ctx, "goal creation failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "goal created",
		"request_id", requestID,
		"goal_id", created.ID,
		"goal_type", created.Type,
	)
	httputil.WriteJSON(w, http.StatusCreated, created)
}

// HandleList handles GET /v1/goals.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	goals, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "goal listing failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"goals": goals})
}

// HandleGet handles GET /v1/goals/{goalID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	goalID, ok := h.goalID(w, r, requestID)
	if !ok {
		return
	}

	g, err := h.service.Get(ctx, goalID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, g)
}

// HandleUpdate handles PUT /v1/goals/{goalID}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	goalID, ok := h.goalID(w, r, requestID)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[GoalRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	snapshot := req.Snapshot()
	snapshot.ID = goalID
	updated, err := h.service.Update(ctx, snapshot)
	if err != nil {
		h.logger.ErrorContext(ctx, "goal update failed",
			"request_id", requestID,
			"goal_id", goalID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "goal updated",
		"request_id", requestID,
		"goal_id", goalID,
	)
	httputil.WriteJSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /v1/goals/{goalID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	goalID, ok := h.goalID(w, r, requestID)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, goalID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "goal deleted",
		"request_id", requestID,
		"goal_id", goalID,
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleOptimize handles POST /v1/goals/optimize.
func (h *Handler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[OptimizeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	plan, err := h.service.OptimizePlan(ctx, req.MonthlyBudget, req.Goals)
	if err != nil {
		h.logger.ErrorContext(ctx, "goal optimization failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "goals optimized",
		"request_id", requestID,
		"allocations", len(plan.Allocations),
		"conflicts", len(plan.Conflicts),
		"total_allocated", plan.TotalAllocated,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, plan)
}

func (h *Handler) goalID(w http.ResponseWriter, r *http.Request, requestID string) (domain.GoalID, bool) {
	goalID, err := domain.ParseGoalID(chi.URLParam(r, "goalID"))
	if err != nil {
		h.logger.WarnContext(r.Context(), "invalid goal id",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid goal id"))
		return domain.GoalID{}, false
	}
	return goalID, true
}
