package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"topic-tasks/domain/models"
	"topic-tasks/domain/ports"
)

const userTasksKeyPrefix = "tasks:user:"

type TaskCache struct {
	client *Client
	ttl    time.Duration
}

func NewTaskCache(client *Client, ttl time.Duration) *TaskCache {
	return &TaskCache{client: client, ttl: ttl}
}

func UserTasksKey(userID string) string {
	return userTasksKeyPrefix + userID
}

// UserTasksVersionKey has no expiry; an expired counter could repeat a value.
func UserTasksVersionKey(userID string) string {
	return userTasksKeyPrefix + userID + ":version"
}

func (c *TaskCache) GetUserTasks(ctx context.Context, userID string) ([]*models.Task, error) {
	var tasks []*models.Task
	err := c.client.GetJSON(ctx, UserTasksKey(userID), &tasks)
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	return tasks, nil
}

func (c *TaskCache) UserVersion(ctx context.Context, userID string) (int64, error) {
	version, err := c.client.rdb.Get(ctx, UserTasksVersionKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return version, err
}

// SetUserTasks writes the list only while the version key still holds
// version. WATCH aborts the write if an invalidation lands in between.
func (c *TaskCache) SetUserTasks(ctx context.Context, userID string, version int64, tasks []*models.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return err
	}

	versionKey := UserTasksVersionKey(userID)
	err = c.client.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return ports.ErrCacheVersionChanged
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, UserTasksKey(userID), data, c.ttl)
			return nil
		})
		return err
	}, versionKey)
	if errors.Is(err, redis.TxFailedErr) {
		return ports.ErrCacheVersionChanged
	}
	return err
}

func (c *TaskCache) InvalidateUser(ctx context.Context, userID string) error {
	_, err := c.client.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, UserTasksVersionKey(userID))
		pipe.Del(ctx, UserTasksKey(userID))
		return nil
	})
	return err
}

var _ ports.TaskCache = (*TaskCache)(nil)
