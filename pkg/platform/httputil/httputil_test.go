package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "fiducia/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "internal_error" {
			t.Fatalf("expected error code internal_error, got %q", body["error"])
		}
		if _, ok := body["error_description"]; ok {
			t.Fatalf("expected error_description to be omitted for internal errors")
		}
	})

	t.Run("validation error includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeValidation, "days_in_uk must not exceed 366"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "validation" {
			t.Fatalf("expected error code validation, got %q", body["error"])
		}
		if body["error_description"] != "days_in_uk must not exceed 366" {
			t.Fatalf("expected description to be returned, got %q", body["error_description"])
		}
	})

	t.Run("configuration error maps to 500 and omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeConfiguration, "no rate table for 2019/20"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}
		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if _, ok := body["error_description"]; ok {
			t.Fatalf("expected error_description to be omitted for configuration errors")
		}
	})
}

type fakeRequest struct {
	Amount string `json:"amount"`
}

func (r *fakeRequest) Validate() error {
	if r.Amount == "" {
		return dErrors.New(dErrors.CodeValidation, "amount is required")
	}
	return nil
}

func TestDecodeAndPrepare(t *testing.T) {
	t.Run("malformed JSON writes bad_request", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))

		_, ok := DecodeAndPrepare[fakeRequest](w, r, nil, r.Context(), "req-1")
		if ok {
			t.Fatal("expected ok=false")
		}
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("validation failure writes coded error", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))

		_, ok := DecodeAndPrepare[fakeRequest](w, r, nil, r.Context(), "req-2")
		if ok {
			t.Fatal("expected ok=false")
		}
		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "validation" {
			t.Fatalf("expected validation, got %q", body["error"])
		}
	})

	t.Run("valid body returns parsed request", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":"100.00"}`))

		req, ok := DecodeAndPrepare[fakeRequest](w, r, nil, r.Context(), "req-3")
		if !ok {
			t.Fatal("expected ok=true")
		}
		if req.Amount != "100.00" {
			t.Fatalf("expected amount to be parsed, got %q", req.Amount)
		}
	})
}
