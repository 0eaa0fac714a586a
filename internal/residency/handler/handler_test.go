package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"fiducia/internal/rates"
	"fiducia/internal/residency"
)

func newResidencyRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc := residency.NewService(rates.DefaultRegistry(), logger)

	h := New(svc, logger)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestEvaluateUKViaHandler(t *testing.T) {
	router := newResidencyRouter(t)

	rec := postJSON(t, router, "/residency/uk/evaluate", map[string]any{
		"tax_year":   "2024/25",
		"days_in_uk": 200,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		TaxYear         string `json:"tax_year"`
		Verdict         string `json:"verdict"`
		DeterminingTest string `json:"determining_test"`
		Trail           []any  `json:"trail"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TaxYear != "2024/25" {
		t.Fatalf("expected tax_year 2024/25, got %q", resp.TaxYear)
	}
	if resp.Verdict != string(residency.VerdictResident) {
		t.Fatalf("expected RESIDENT, got %q", resp.Verdict)
	}
	if resp.DeterminingTest != "automatic_uk" {
		t.Fatalf("expected automatic_uk, got %q", resp.DeterminingTest)
	}
	if len(resp.Trail) == 0 {
		t.Fatalf("expected a non-empty trail")
	}
}

func TestEvaluateUKRejectsBadYear(t *testing.T) {
	router := newResidencyRouter(t)

	rec := postJSON(t, router, "/residency/uk/evaluate", map[string]any{
		"tax_year":   "2024",
		"days_in_uk": 200,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a non-UK year label, got %d", rec.Code)
	}
}

func TestEvaluateUKRejectsContradictoryFacts(t *testing.T) {
	router := newResidencyRouter(t)

	rec := postJSON(t, router, "/residency/uk/evaluate", map[string]any{
		"tax_year":        "2024/25",
		"days_in_uk":      100,
		"work_days_in_uk": 150,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when work days exceed days present, got %d", rec.Code)
	}
}

func TestEvaluateUKUnknownYear(t *testing.T) {
	router := newResidencyRouter(t)

	rec := postJSON(t, router, "/residency/uk/evaluate", map[string]any{
		"tax_year":   "1999/00",
		"days_in_uk": 200,
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for a missing rate table, got %d", rec.Code)
	}
}

func TestEvaluateSAViaHandler(t *testing.T) {
	router := newResidencyRouter(t)

	rec := postJSON(t, router, "/residency/sa/evaluate", map[string]any{
		"tax_year":          "2025",
		"days_current_year": 120,
		"days_prior_years":  []int{200, 200, 200, 200, 200},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Verdict         string `json:"verdict"`
		DeterminingTest string `json:"determining_test"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Verdict != string(residency.VerdictResident) {
		t.Fatalf("expected RESIDENT, got %q", resp.Verdict)
	}
	if resp.DeterminingTest != "physical_presence" {
		t.Fatalf("expected physical_presence, got %q", resp.DeterminingTest)
	}
}
