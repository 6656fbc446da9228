// Package app assembles the HTTP service from configuration and stores.
package app

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/lostfound-service/internal/api/http"
	"github.com/spec-kit/lostfound-service/internal/api/http/handlers"
	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/config"
	"github.com/spec-kit/lostfound-service/internal/events"
	"github.com/spec-kit/lostfound-service/internal/lifecycle"
	"github.com/spec-kit/lostfound-service/internal/observability"
	"github.com/spec-kit/lostfound-service/internal/service"
	"github.com/spec-kit/lostfound-service/internal/worker"
)

// App is the assembled service.
type App struct {
	Fiber      *fiber.App
	Auth       *service.AuthService
	Items      *service.ItemService
	Moderation *service.ModerationService
	Claims     *service.ClaimService
	Tokens     *auth.TokenManager
	Metrics    *observability.Metrics
}

// Option customizes assembly.
type Option func(*options)

type options struct {
	engineOpts []lifecycle.Option
}

// WithEngineOptions forwards options to the lifecycle engine.
func WithEngineOptions(opts ...lifecycle.Option) Option {
	return func(o *options) { o.engineOpts = append(o.engineOpts, opts...) }
}

// New wires services, handlers and routes on a fresh fiber app.
func New(cfg *config.Config, stores *Stores, logger *zap.Logger, opts ...Option) *App {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartAuditWorker(service.NewAuditService(dispatcher, stores.Transitions, logger))

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	engine := lifecycle.NewEngine(stores.Items, dispatcher, logger, o.engineOpts...)
	names := service.NewNameResolver(stores.Users, stores.NameCache, logger)

	authService := service.NewAuthService(cfg.Auth, stores.Users, tokens, logger)
	itemService := service.NewItemService(service.ItemDependencies{
		Engine:     engine,
		ItemRepo:   stores.Items,
		Names:      names,
		Dispatcher: dispatcher,
		Policy:     cfg.Items.MutationPolicy,
		Logger:     logger,
	})
	moderationService := service.NewModerationService(engine, stores.Items, stores.Transitions, names)
	claimService := service.NewClaimService(engine, names)

	fiberApp := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
		ErrorHandler:          httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(fiberApp, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(fiberApp, httptransport.RouteConfig{
		BasePath:       cfg.App.BasePath,
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, stores.Pingers...),
		Auth:           handlers.NewAuthHandler(authService),
		Items:          handlers.NewItemsHandler(itemService, claimService),
		Moderator:      handlers.NewModeratorHandler(moderationService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
	})

	return &App{
		Fiber:      fiberApp,
		Auth:       authService,
		Items:      itemService,
		Moderation: moderationService,
		Claims:     claimService,
		Tokens:     tokens,
		Metrics:    metrics,
	}
}
