/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the app shell

ROUTE GROUPS:
  /api/verses/*      Weekly verse queries and statistics
  /api/monthly-verse Monthly memory verse lookup
  /api/events/*      Calendar queries and mutations
  /api/import/*      Workbook and CSV ingestion
  /api/export/*      CSV export and download templates
  /api/health        Liveness

SECURITY NOTE:
  No authentication middleware. Single-user app, all endpoints public.

SEE ALSO:
  - handlers.go: handler implementations
  - cmd/server/main.go: server startup
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
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/verses", func(r chi.Router) {
			r.Get("/weekly/{ageGroup}", h.GetWeeklyVerses)
			r.Get("/stats", h.GetStats)
		})

		r.Get("/monthly-verse", h.GetMonthlyVerse)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.ListMonthEvents)
			r.Post("/", h.CreateEvent)
			r.Get("/date/{date}", h.GetEventsForDate)
			r.Post("/prune", h.PruneEvents)
			r.Delete("/{id}", h.DeleteEvent)
		})

		r.Route("/import", func(r chi.Router) {
			r.Post("/workbook", h.ImportWorkbook)
			r.Post("/csv", h.ImportCSV)
		})

		r.Route("/export", func(r chi.Router) {
			r.Get("/csv", h.ExportCSV)
			r.Get("/template/verses", h.ExportVerseTemplate)
			r.Get("/template/calendar", h.ExportCalendarTemplate)
		})

		r.Get("/health", h.Health)
	})

	return r
}
