package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"topic-tasks/domain/models"
)

var ErrTaskNotFound = errors.New("task not found")

type TaskRepository interface {
	// ListByUser returns every task of the user in store order.
	ListByUser(ctx context.Context, userID string) ([]*models.Task, error)
	// InsertMany stores the batch atomically: all rows or none.
	InsertMany(ctx context.Context, tasks []*models.Task) ([]*models.Task, error)
	// UpdateCompleted returns ErrTaskNotFound when no row has the id.
	UpdateCompleted(ctx context.Context, id uuid.UUID, completed bool) (*models.Task, error)
}
