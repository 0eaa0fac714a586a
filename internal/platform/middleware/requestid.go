// Package middleware provides the HTTP middleware chain: request IDs and
// request time, bearer auth, and Redis-backed rate limiting.
package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"fiducia/pkg/requestcontext"
)

// RequestIDHeader carries the correlation ID on responses and may supply one
// on requests.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns each request a correlation ID and pins the request time
// in the context so downstream date arithmetic is consistent for the whole
// request.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		ctx = requestcontext.WithTime(ctx, time.Now().UTC())

		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
