/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/entries/*    Single-entry CRUD and status transitions
  /api/users/*      Per-user generation, balances, listings
  /api/statuses     Status master data
  /api/defaults     Generation defaults

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/serve.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Entry routes
		r.Route("/entries", func(r chi.Router) {
			r.Post("/", h.CreateEntry)
			r.Get("/{id}", h.GetEntry)
			r.Put("/{id}", h.UpdateEntry)
			r.Delete("/{id}", h.DeleteEntry)
			r.Post("/{id}/done", h.MarkDone)
			r.Post("/{id}/release", h.Release)
		})

		// User routes
		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/entries", h.ListEntries)
			r.Post("/generate/monthly", h.GenerateMonthly)
			r.Post("/generate/yearly", h.GenerateYearly)
			r.Get("/balances/vacation", h.GetVacationBalance)
			r.Get("/balances/sick", h.GetSickLeaveBalance)
			r.Get("/summary", h.GetMonthSummary)
		})

		// Reference data
		r.Get("/statuses", h.ListStatuses)
		r.Get("/defaults", h.GetDefaults)
	})

	return r
}
