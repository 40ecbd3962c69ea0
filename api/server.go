/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address from X-Forwarded-For
  3. Access log: One zap entry per request
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for the console frontend

ROUTE GROUPS:
  /api/building, /api/floors/*, /api/stats    Floors and occupancy
  /api/viewings/*                             Viewing reservations
  /api/tenant-applications/*                  Lease applications
  /api/applications/*                         Maintenance/facility requests
  /api/activity                               Activity log
  /api/calendar/*                             Derived calendar
  /api/reports/*                              Excel export
  /api/scenarios/*, /api/reset                Demo data (dev only)

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// DefaultOrigins are the local dev frontend origins.
var DefaultOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultOrigins
	}
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(h.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "Warning"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/building", h.GetBuilding)
		r.Get("/stats", h.GetStats)
		r.Get("/activity", h.ListActivity)

		// Floor routes
		r.Route("/floors", func(r chi.Router) {
			r.Get("/", h.ListFloors)
			r.Route("/{floor}", func(r chi.Router) {
				r.Get("/", h.GetFloor)
				r.Get("/availability", h.GetAvailability)
				r.Post("/move-in", h.MoveIn)
				r.Post("/move-out", h.MoveOut)
				r.Put("/terms", h.UpdateTerms)
			})
		})

		// Viewing routes
		r.Route("/viewings", func(r chi.Router) {
			r.Get("/", h.ListViewings)
			r.Post("/", h.CreateViewing)
			r.Post("/{id}/approve", h.ApproveViewing)
			r.Post("/{id}/complete", h.CompleteViewing)
			r.Post("/{id}/cancel", h.CancelViewing)
			r.Delete("/{id}", h.DeleteViewing)
		})

		// Tenant application routes
		r.Route("/tenant-applications", func(r chi.Router) {
			r.Get("/", h.ListTenantApplications)
			r.Post("/", h.CreateTenantApplication)
			r.Post("/{id}/approve", h.ApproveTenantApplication)
			r.Post("/{id}/reject", h.RejectTenantApplication)
		})

		// Generic application routes
		r.Route("/applications", func(r chi.Router) {
			r.Get("/", h.ListApplications)
			r.Post("/", h.CreateApplication)
			r.Post("/{id}/approve", h.ApproveApplication)
			r.Post("/{id}/reject", h.RejectApplication)
		})

		// Calendar routes
		r.Route("/calendar", func(r chi.Router) {
			r.Get("/events", h.ListEvents)
			r.Get("/grid", h.GetCalendarGrid)
		})

		r.Get("/reports/floors.xlsx", h.DownloadFloorReport)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
		r.Post("/reset", h.ResetStore)
	})

	return r
}

// accessLog writes one zap entry per request, after the response.
func accessLog(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("remote", r.RemoteAddr),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
