// Package app assembles the Fiber application: middleware, health check and
// the catalog routing table.
package app

import (
	"context"
	"errors"
	"time"

	"plantshop/internal/handlers"
	"plantshop/internal/middleware"
	"plantshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Deps are the constructed services the HTTP layer depends on.
type Deps struct {
	Products *services.ProductService
	Auth     *services.AuthService
	Logger   *zap.Logger
	// Ping reports store health for /health. Optional.
	Ping func(ctx context.Context) error
	// AccessLog enables Fiber's request logger.
	AccessLog bool
}

// New builds the Fiber app with every route registered.
func New(deps Deps) *fiber.App {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "plantshop",
		ErrorHandler: errorHandler(log),
	})

	app.Use(recover.New())
	if deps.AccessLog {
		app.Use(logger.New())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.StatusOK
		body := fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		}
		if deps.Ping != nil {
			if err := deps.Ping(c.UserContext()); err != nil {
				log.Warn("health check failed", zap.Error(err))
				status = fiber.StatusServiceUnavailable
				body["status"] = "unhealthy"
			}
		}
		return c.Status(status).JSON(body)
	})

	productHandler := handlers.NewProductHandler(deps.Products, log)
	authHandler := handlers.NewAuthHandler(deps.Auth, log)
	Register(app, Routes(productHandler, authHandler), middleware.AuthRequired(deps.Auth, log))

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	})

	return app
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
