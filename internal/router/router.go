package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-lms-api/internal/config"
	"github.com/noah-isme/gema-lms-api/internal/handler"
	"github.com/noah-isme/gema-lms-api/internal/middleware"
	"github.com/noah-isme/gema-lms-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	CatalogHandler    *handler.CatalogHandler
	DirectoryHandler  *handler.DirectoryHandler
	GradebookHandler  *handler.GradebookHandler
	EnrollmentHandler *handler.EnrollmentHandler
	// WriteLimiter guards submission and scoring routes; nil falls back to 30 requests per minute.
	WriteLimiter fiber.Handler
	HealthChecks map[string]handler.DependencyCheck
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthChecks))

	if deps.CatalogHandler != nil {
		deps.CatalogHandler.Register(api)
	}
	if deps.DirectoryHandler != nil {
		deps.DirectoryHandler.Register(api)
	}
	if deps.EnrollmentHandler != nil {
		deps.EnrollmentHandler.Register(api)
	}

	if deps.GradebookHandler != nil {
		limiter := deps.WriteLimiter
		if limiter == nil {
			limiter = middleware.RateLimit("gradebook", 30, time.Minute)
		}
		class := api.Group("/classes/:subject/:number/:season/:year")
		deps.GradebookHandler.Register(class, limiter)
	}
}
