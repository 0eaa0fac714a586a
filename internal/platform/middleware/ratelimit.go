package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	platformredis "fiducia/internal/platform/redis"
	dErrors "fiducia/pkg/domain-errors"
	"fiducia/pkg/platform/httputil"
	"fiducia/pkg/requestcontext"
)

// RateLimit applies a fixed-window per-user limit backed by Redis. With no
// Redis client configured the middleware is a pass-through. Redis outages
// fail open: losing the limiter must not take calculations down with it.
func RateLimit(client *platformredis.Client, perMinute int, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if client == nil || perMinute <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			subject := requestcontext.UserID(ctx).String()
			if subject == "00000000-0000-0000-0000-000000000000" {
				subject = r.RemoteAddr
			}
			window := time.Now().Unix() / 60
			key := fmt.Sprintf("ratelimit:%s:%d", subject, window)

			count, err := client.Incr(ctx, key).Result()
			if err != nil {
				logger.WarnContext(ctx, "rate limiter unavailable, allowing request",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				client.Expire(ctx, key, time.Minute)
			}
			if count > int64(perMinute) {
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
