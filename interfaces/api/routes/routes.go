package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"topic-tasks/interfaces/api/handlers"
	"topic-tasks/interfaces/api/middleware"
	"topic-tasks/pkg/config"
)

// NewApp builds the fiber app with the middleware chain and every route.
func NewApp(cfg *config.Config, h *handlers.Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: cfg.IsProduction(),
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDevelopment()}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.CorsMiddleware(cfg.CORS))

	SetupRoutes(app, h, cfg.Auth.JWTSecret)
	return app
}

func SetupRoutes(app *fiber.App, h *handlers.Handlers, jwtSecret string) {
	SetupHealthRoutes(app, h)

	api := app.Group("/api")
	SetupTaskRoutes(api, h, jwtSecret)
}
