package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lostfound-service/internal/api/http/handlers"
	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	BasePath       string
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Items          *handlers.ItemsHandler
	Moderator      *handlers.ModeratorHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	api := app.Group(cfg.BasePath)
	authenticated := cfg.AuthMiddleware.Handle

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/profile", authenticated, cfg.Auth.Profile)

	items := api.Group("/items")
	items.Get("/approved", cfg.Items.ListApproved)
	items.Post("/", authenticated, cfg.Items.Create)
	items.Get("/", authenticated, cfg.Items.ListAll)
	items.Get("/:id", cfg.Items.Get)
	items.Put("/:id", authenticated, cfg.Items.Update)
	items.Delete("/:id", authenticated, cfg.Items.Delete)
	items.Post("/:id/claim", authenticated, cfg.Items.Claim)

	moderator := api.Group("/moderator", authenticated, auth.RequireRole(domain.RoleModerator))
	moderator.Get("/pending", cfg.Moderator.Pending)
	moderator.Put("/approve/:id", cfg.Moderator.Approve)
	moderator.Put("/reject/:id", cfg.Moderator.Reject)
	moderator.Get("/items/:id/history", cfg.Moderator.History)
}
