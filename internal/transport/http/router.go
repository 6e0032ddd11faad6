// Package httptransport assembles the HTTP router. Handlers stay thin and
// delegate to their services; this package only wires middleware and routes.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"residency/internal/platform/metrics"
	"residency/pkg/platform/httputil"
	adminmw "residency/pkg/platform/middleware/admin"
	authmw "residency/pkg/platform/middleware/auth"
	"residency/pkg/platform/middleware/metadata"
	"residency/pkg/platform/middleware/requesttime"
)

// RouteRegistrar mounts a module's endpoints.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// Deps collects what the router needs.
type Deps struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	TokenValidator authmw.TokenValidator
	AdminToken     string
	Citizen        []RouteRegistrar
	Admin          []RouteRegistrar
	// Ready reports whether backing stores answer. Nil means always ready.
	Ready func(ctx context.Context) error
}

// NewRouter wires all public endpoints.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Recoverer)
	r.Use(requesttime.Middleware)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			if err := d.Ready(r.Context()); err != nil {
				d.Logger.WarnContext(r.Context(), "readiness check failed", "error", err)
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireCitizen(d.TokenValidator, d.Logger))
		for _, m := range d.Citizen {
			m.Register(r)
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(d.AdminToken, d.Logger))
		for _, m := range d.Admin {
			m.Register(r)
		}
	})

	return r
}
