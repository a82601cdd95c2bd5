package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/staff-presence/internal/api/http/handlers"
	"github.com/spec-kit/staff-presence/internal/auth"
	"github.com/spec-kit/staff-presence/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Staff          *handlers.StaffHandler
	Movements      *handlers.MovementHandler
	Presence       *handlers.PresenceHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	app.Post("/auth/login", cfg.Auth.Login)

	presence := app.Group("/presence", cfg.AuthMiddleware.Handle, auth.RequireRole())
	presence.Get("/dashboard", cfg.Presence.Dashboard)
	presence.Get("/search", cfg.Presence.Search)

	movements := app.Group("/movements", cfg.AuthMiddleware.Handle, auth.RequireRole())
	movements.Get("/me", cfg.Movements.Mine)
	movements.Post("/", cfg.Movements.Create)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/staff", cfg.Staff.List)
	admin.Post("/staff", cfg.Staff.Create)
	admin.Put("/staff/:id", cfg.Staff.Update)
	admin.Delete("/staff/:id", cfg.Staff.Delete)
	admin.Get("/movements", cfg.Movements.All)
	admin.Delete("/movements/:id", cfg.Movements.Delete)
	admin.Post("/sync", cfg.Presence.Sync)
}
