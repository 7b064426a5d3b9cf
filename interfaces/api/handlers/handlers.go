package handlers

import (
	"topic-tasks/domain/services"
)

// Services contains all the services needed for handlers
type Services struct {
	TaskService services.TaskService
}

// Handlers contains all HTTP handlers
type Handlers struct {
	TaskHandler   *TaskHandler
	HealthHandler *HealthHandler
}

func NewHandlers(services *Services) *Handlers {
	return &Handlers{
		TaskHandler:   NewTaskHandler(services.TaskService),
		HealthHandler: NewHealthHandler(),
	}
}
