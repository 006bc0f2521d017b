package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Wadangzz/Dessert-Gemini/internal/api/http/handlers"
	"github.com/Wadangzz/Dessert-Gemini/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Sessions       *handlers.SessionHandler
	Commands       *handlers.CommandsHandler
	Inventory      *handlers.InventoryHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Sessions.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Sessions.Logout)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/commands", cfg.Commands.Submit)
	protected.Get("/inventory", cfg.Inventory.Floor)
}
