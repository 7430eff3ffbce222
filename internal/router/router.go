// Package router sets up all HTTP routes and middleware chains for the
// minutebook API. Operational endpoints sit outside the workspace-scoped
// API group.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"minutebook/internal/handlers"
	"minutebook/internal/metrics"
	"minutebook/internal/middleware"
)

// Options configure the router. Metrics and RateLimiter may be nil.
type Options struct {
	Metrics     http.Handler
	RateLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(templates *handlers.Templates, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(metrics.HTTPMiddleware)

	// Health check and metrics, no workspace required.
	r.Get("/health", healthHandler)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireWorkspace)
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Middleware)
		}

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", templates.List)
			r.Post("/", templates.Create)

			// Module catalog
			r.Get("/modules", templates.GetModules)
			r.Post("/modules", templates.CreateModules)
			r.Post("/preview", templates.Preview)

			r.Get("/{id}", templates.Get)
			r.Put("/{id}", templates.Update)
			r.Delete("/{id}", templates.Delete)
			r.Get("/{id}/revisions", templates.Revisions)
			r.Patch("/{id}/status", templates.UpdateStatus)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
