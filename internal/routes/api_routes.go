package routes

import (
	"flightwatch/internal/api"
	"flightwatch/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers the internal engine trigger and all API v1
// routes. This keeps route registration separate from router setup.
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, deps *api.Dependencies) {

	// Internal routes: engine trigger for external schedulers. Guarded by
	// the cron secret, never by user auth.
	r.Group(func(internal chi.Router) {
		internal.Use(middleware.CronSecretMiddleware(deps.Cfg.CronSecret, deps.Cfg.IsProduction()))
		internal.Post("/internal/engine/run", api.RunEngineHandler(deps.Engine))
	})

	// API v1 routes
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.AuthMiddleware(deps.Cfg.JWTSecret)) // global: all routes must be authenticated

		// Tracked flights
		v1.Get("/flights", handlers.ListFlightsHandler)
		v1.Post("/flights", handlers.TrackFlightHandler)
		v1.Get("/flights/{id}", handlers.GetFlightHandler)
		v1.Delete("/flights/{id}", handlers.DeleteFlightHandler)

		// Direct alerts
		v1.Post("/alerts", handlers.CreateAlertHandler)
		v1.Delete("/alerts/{id}", handlers.DeleteAlertHandler)

		// Rules
		v1.Post("/rules", handlers.CreateRuleHandler)
		v1.Delete("/rules/{id}", handlers.DeleteRuleHandler)

		// Notifications
		v1.Get("/notifications", handlers.ListNotificationsHandler)
		v1.Get("/notifications/unread", handlers.UnreadCountHandler)
		v1.Post("/notifications/{id}/read", handlers.MarkNotificationReadHandler)
	})
}
