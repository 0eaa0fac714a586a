package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"fiducia/internal/goal"
	goalstore "fiducia/internal/goal/store/goal"
	"fiducia/pkg/domain"
	"fiducia/pkg/requestcontext"
)

var testUser = mustUser("7b7e9c70-0f6a-4f7e-9a34-000000000001")

func mustUser(s string) domain.UserID {
	id, err := domain.ParseUserID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// newGoalRouter builds the goal routes with the authenticated user and a
// fixed request time injected the way the real middleware chain does.
func newGoalRouter(t *testing.T, now time.Time) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc := goal.NewService(goalstore.NewInMemory(), logger)

	h := New(svc, logger)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := requestcontext.WithUserID(req.Context(), testUser)
			ctx = requestcontext.WithTime(ctx, now)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	h.Register(r)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("failed to encode payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGoalCRUDViaHandlers(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	router := newGoalRouter(t, now)

	rec := doJSON(t, router, http.MethodPost, "/goals", map[string]any{
		"name":           "House deposit",
		"type":           "property",
		"priority":       "HIGH",
		"target_amount":  "60000",
		"current_amount": "5000",
		"target_date":    "2028-06-01T00:00:00Z",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating goal, got %d: %s", rec.Code, rec.Body.String())
	}

	var created goal.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode created goal: %v", err)
	}
	if created.ID.IsNil() {
		t.Fatalf("expected an assigned goal id")
	}
	if created.UserID != testUser {
		t.Fatalf("expected the goal to belong to the authenticated user")
	}
	if !created.StartDate.Equal(now) {
		t.Fatalf("expected start date to default to the request time")
	}

	getRec := doJSON(t, router, http.MethodGet, "/goals/"+created.ID.String(), nil)
	if getRec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching goal, got %d", getRec.Code)
	}

	listRec := doJSON(t, router, http.MethodGet, "/goals", nil)
	if listRec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing goals, got %d", listRec.Code)
	}
	var listResp struct {
		Goals []goal.Snapshot `json:"goals"`
	}
	if err := json.NewDecoder(listRec.Body).Decode(&listResp); err != nil {
		t.Fatalf("failed to decode goal list: %v", err)
	}
	if len(listResp.Goals) != 1 {
		t.Fatalf("expected 1 goal, got %d", len(listResp.Goals))
	}

	updateRec := doJSON(t, router, http.MethodPut, "/goals/"+created.ID.String(), map[string]any{
		"name":           "House deposit",
		"type":           "property",
		"priority":       "MEDIUM",
		"target_amount":  "55000",
		"current_amount": "6000",
		"target_date":    "2028-06-01T00:00:00Z",
	})
	if updateRec.Code != http.StatusOK {
		t.Fatalf("expected 200 updating goal, got %d: %s", updateRec.Code, updateRec.Body.String())
	}
	var updated goal.Snapshot
	if err := json.NewDecoder(updateRec.Body).Decode(&updated); err != nil {
		t.Fatalf("failed to decode updated goal: %v", err)
	}
	if updated.Priority != goal.PriorityMedium {
		t.Fatalf("expected priority MEDIUM after update, got %s", updated.Priority)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("expected update to preserve created_at")
	}

	deleteRec := doJSON(t, router, http.MethodDelete, "/goals/"+created.ID.String(), nil)
	if deleteRec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 deleting goal, got %d", deleteRec.Code)
	}

	goneRec := doJSON(t, router, http.MethodGet, "/goals/"+created.ID.String(), nil)
	if goneRec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", goneRec.Code)
	}
}

func TestGoalHandlersRejectBadIDs(t *testing.T) {
	router := newGoalRouter(t, time.Now())

	rec := doJSON(t, router, http.MethodGet, "/goals/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a malformed goal id, got %d", rec.Code)
	}
}

func TestOptimizeInlineGoals(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	router := newGoalRouter(t, now)

	rec := doJSON(t, router, http.MethodPost, "/goals/optimize", map[string]any{
		"monthly_budget": "1000",
		"goals": []map[string]any{
			{
				"name":           "Emergency fund",
				"type":           "emergency",
				"priority":       "HIGH",
				"target_amount":  "10000",
				"current_amount": "2000",
				"target_date":    "2026-01-01T00:00:00Z",
			},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var plan goal.Plan
	if err := json.NewDecoder(rec.Body).Decode(&plan); err != nil {
		t.Fatalf("failed to decode plan: %v", err)
	}
	if len(plan.Allocations) != 1 {
		t.Fatalf("expected 1 allocation, got %d", len(plan.Allocations))
	}
	if plan.TotalAllocated.GreaterThan(decimal.RequireFromString("1000")) {
		t.Fatalf("allocation exceeds the budget: %s", plan.TotalAllocated)
	}
	if len(plan.Conflicts) != 0 {
		t.Fatalf("expected no conflicts, got %d", len(plan.Conflicts))
	}
}

func TestOptimizeStoredGoals(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	router := newGoalRouter(t, now)

	rec := doJSON(t, router, http.MethodPost, "/goals", map[string]any{
		"name":          "Travel",
		"type":          "travel",
		"priority":      "LOW",
		"target_amount": "3000",
		"target_date":   "2025-12-01T00:00:00Z",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating goal, got %d", rec.Code)
	}

	optRec := doJSON(t, router, http.MethodPost, "/goals/optimize", map[string]any{
		"monthly_budget": "500",
	})
	if optRec.Code != http.StatusOK {
		t.Fatalf("expected 200 optimizing stored goals, got %d: %s", optRec.Code, optRec.Body.String())
	}

	var plan goal.Plan
	if err := json.NewDecoder(optRec.Body).Decode(&plan); err != nil {
		t.Fatalf("failed to decode plan: %v", err)
	}
	if len(plan.Allocations) != 1 {
		t.Fatalf("expected the stored goal in the plan, got %d allocations", len(plan.Allocations))
	}
	if plan.Allocations[0].Name != "Travel" {
		t.Fatalf("expected the stored goal, got %q", plan.Allocations[0].Name)
	}
}

func TestOptimizeWithNothingToPlan(t *testing.T) {
	router := newGoalRouter(t, time.Now())

	rec := doJSON(t, router, http.MethodPost, "/goals/optimize", map[string]any{
		"monthly_budget": "500",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 with no goals anywhere, got %d", rec.Code)
	}
}
