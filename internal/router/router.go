package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/certprep-api/internal/config"
	"github.com/noah-isme/certprep-api/internal/handler"
	"github.com/noah-isme/certprep-api/internal/middleware"
	"github.com/noah-isme/certprep-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	QuestionGenerationHandler *handler.QuestionGenerationHandler
	BankHandler               *handler.BankHandler
	SubscriptionHandler       *handler.SubscriptionHandler
	JWTMiddleware             fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = middleware.JWTProtected(cfg.JWTSecret)
	}

	if deps.QuestionGenerationHandler != nil {
		deps.QuestionGenerationHandler.Register(api,
			jwtMiddleware,
			middleware.RequireRole("admin"),
			middleware.RateLimit("generate-questions", cfg.GenerationRateLimit, time.Minute),
		)
	}

	if deps.BankHandler != nil {
		deps.BankHandler.Register(api)
	}

	if deps.SubscriptionHandler != nil {
		deps.SubscriptionHandler.Register(api.Group("/subscription", jwtMiddleware))
	}
}
