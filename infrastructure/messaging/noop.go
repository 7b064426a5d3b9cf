package messaging

import (
	"context"
	"log/slog"

	"topic-tasks/domain/ports"
	"topic-tasks/pkg/logger"
)

// NoopPublisher logs events instead of sending them. Used when NATS is not configured.
type NoopPublisher struct {
	logger *slog.Logger
}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{
		logger: logger.Component("noop_publisher"),
	}
}

func (p *NoopPublisher) PublishTasksGenerated(ctx context.Context, event ports.TasksGeneratedEvent) error {
	p.logger.DebugContext(ctx, "Tasks generated (noop)",
		"user_id", event.UserID,
		"heading", event.Heading,
		"count", event.Count,
	)
	return nil
}

func (p *NoopPublisher) PublishTaskStatusChanged(ctx context.Context, event ports.TaskStatusChangedEvent) error {
	p.logger.DebugContext(ctx, "Task status changed (noop)",
		"task_id", event.TaskID,
		"completed", event.Completed,
	)
	return nil
}

func (p *NoopPublisher) Close() error {
	return nil
}

var _ ports.TaskEventPublisher = (*NoopPublisher)(nil)
