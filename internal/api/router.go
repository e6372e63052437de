package api

import (
	"net/http"

	"github.com/dom/hops-games/internal/api/handlers"
	"github.com/dom/hops-games/internal/api/middleware"
	"github.com/dom/hops-games/internal/config"
	"github.com/dom/hops-games/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	gameHandler := handlers.NewGameHandler(services.Game)
	scheduleHandler := handlers.NewScheduleHandler(services.Scheduler)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Identity(cfg.JWTSecret))

			r.Route("/games", func(r chi.Router) {
				r.Get("/", gameHandler.List)
				r.Post("/", gameHandler.Create)
				r.Get("/{id}", gameHandler.Get)
				r.Put("/{id}", gameHandler.Update)
			})
		})

		// Called by the daily cron
		r.Route("/internal", func(r chi.Router) {
			r.Use(middleware.InternalSecret(cfg.InternalSecretHeaderName, cfg.InternalSecretHeaderValue))
			r.Post("/schedule", scheduleHandler.Run)
		})
	})

	return r
}
