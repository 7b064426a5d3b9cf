package routes

import (
	"github.com/gofiber/fiber/v2"

	"topic-tasks/interfaces/api/handlers"
	"topic-tasks/interfaces/api/middleware"
)

func SetupTaskRoutes(api fiber.Router, h *handlers.Handlers, jwtSecret string) {
	tasks := api.Group("/tasks")
	tasks.Use(middleware.Optional(jwtSecret))
	tasks.Get("/", h.TaskHandler.ListTasks)
	tasks.Post("/", h.TaskHandler.CreateTasks)
	tasks.Get("/groups", h.TaskHandler.GroupTasks)
	tasks.Patch("/:id", h.TaskHandler.UpdateTaskStatus)
}
