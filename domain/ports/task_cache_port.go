package ports

import (
	"context"
	"errors"

	"topic-tasks/domain/models"
)

var (
	// ErrCacheMiss is returned by TaskCache.GetUserTasks when nothing is cached.
	ErrCacheMiss = errors.New("cache miss")
	// ErrCacheVersionChanged means the user was invalidated after the version
	// was read, so the list about to be cached may be stale. Nothing is written.
	ErrCacheVersionChanged = errors.New("cache version changed")
)

// TaskCache caches per-user task lists. Writers read UserVersion before
// loading from the store and pass it to SetUserTasks; InvalidateUser bumps
// the version so a load that raced an update is never cached.
type TaskCache interface {
	GetUserTasks(ctx context.Context, userID string) ([]*models.Task, error)
	UserVersion(ctx context.Context, userID string) (int64, error)
	SetUserTasks(ctx context.Context, userID string, version int64, tasks []*models.Task) error
	InvalidateUser(ctx context.Context, userID string) error
}
