package routes

import (
	"github.com/gofiber/fiber/v2"

	"topic-tasks/interfaces/api/handlers"
)

func SetupHealthRoutes(app *fiber.App, h *handlers.Handlers) {
	app.Get("/health", h.HealthHandler.Health)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Backend Works",
			"health":  "/health",
			"api":     "/api/tasks",
		})
	})
}
