package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskEventPublisher announces task changes to other services.
type TaskEventPublisher interface {
	PublishTasksGenerated(ctx context.Context, event TasksGeneratedEvent) error
	PublishTaskStatusChanged(ctx context.Context, event TaskStatusChangedEvent) error
	Close() error
}

type TasksGeneratedEvent struct {
	UserID  string      `json:"userId"`
	Heading string      `json:"heading"`
	TaskIDs []uuid.UUID `json:"taskIds"`
	Count   int         `json:"count"`
	At      time.Time   `json:"at"`
}

type TaskStatusChangedEvent struct {
	TaskID    uuid.UUID `json:"taskId"`
	UserID    string    `json:"userId"`
	Completed bool      `json:"completed"`
	At        time.Time `json:"at"`
}
