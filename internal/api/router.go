package api

import (
	"net/http"
	"route-dashboard/internal/api/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(dash handlers.Dashboard, backend handlers.Pinger, hub *handlers.Hub, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	dashHandler := &handlers.DashboardHandler{Dashboard: dash}
	modeHandler := &handlers.ModeHandler{Dashboard: dash}
	healthHandler := &handlers.HealthHandler{Backend: backend, Dashboard: dash}

	r.Get("/", dashHandler.Page)
	r.Get("/health", healthHandler.Health)
	r.Get("/ws", hub.Handle)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", dashHandler.State)
		r.Get("/panel", dashHandler.Panel)
		r.Get("/map", dashHandler.Map)
		r.Post("/mode/{mode}", modeHandler.Trigger)
	})

	return r
}
