// Package httpapi assembles the chi router: middleware chain, health and
// metrics endpoints, and the versioned API surface.
package httpapi

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	estatehandler "fiducia/internal/estate/handler"
	goalhandler "fiducia/internal/goal/handler"
	"fiducia/internal/platform/metrics"
	"fiducia/internal/platform/middleware"
	platformredis "fiducia/internal/platform/redis"
	"fiducia/internal/platform/token"
	"fiducia/internal/rates"
	residencyhandler "fiducia/internal/residency/handler"
	taxhandler "fiducia/internal/tax/handler"
	"fiducia/pkg/platform/httputil"
)

// Deps carries everything the router mounts. Nil Redis and DB are allowed
// and simply drop out of rate limiting and health reporting.
type Deps struct {
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Registry  *rates.Registry
	Validator *token.Validator

	Residency *residencyhandler.Handler
	Tax       *taxhandler.Handler
	Estate    *estatehandler.Handler
	Goals     *goalhandler.Handler

	Redis              *platformredis.Client
	DB                 *sql.DB
	RateLimitPerMinute int
}

// New builds the HTTP routing tree.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(d.Metrics.Middleware)

	r.Get("/healthz", healthz(d))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth(d.Validator, d.Logger))
		r.Use(middleware.RateLimit(d.Redis, d.RateLimitPerMinute, d.Logger))

		d.Residency.Register(r)
		d.Tax.Register(r)
		d.Estate.Register(r)
		d.Goals.Register(r)
	})

	return r
}

func healthz(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		body := map[string]any{
			"status":     "ok",
			"rate_years": d.Registry.Years(),
		}

		if d.DB != nil {
			if err := d.DB.PingContext(ctx); err != nil {
				body["status"] = "degraded"
				body["postgres"] = err.Error()
			} else {
				body["postgres"] = "ok"
			}
		}
		if d.Redis != nil {
			if err := d.Redis.Health(ctx); err != nil {
				body["status"] = "degraded"
				body["redis"] = err.Error()
			} else {
				body["redis"] = "ok"
			}
		}

		httputil.WriteJSON(w, http.StatusOK, body)
	}
}
