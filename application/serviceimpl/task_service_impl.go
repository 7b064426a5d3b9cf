package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"topic-tasks/domain/models"
	"topic-tasks/domain/ports"
	"topic-tasks/domain/repositories"
	"topic-tasks/domain/services"
	"topic-tasks/pkg/logger"
)

type TaskServiceImpl struct {
	taskRepo  repositories.TaskRepository
	generator ports.StepGenerator
	publisher ports.TaskEventPublisher // optional
	cache     ports.TaskCache          // optional
}

func NewTaskService(taskRepo repositories.TaskRepository, generator ports.StepGenerator, publisher ports.TaskEventPublisher) services.TaskService {
	return &TaskServiceImpl{
		taskRepo:  taskRepo,
		generator: generator,
		publisher: publisher,
	}
}

// NewTaskServiceWithCache reads user task lists through cache and drops the
// cached list whenever that user's tasks change.
func NewTaskServiceWithCache(taskRepo repositories.TaskRepository, generator ports.StepGenerator, publisher ports.TaskEventPublisher, cache ports.TaskCache) services.TaskService {
	return &TaskServiceImpl{
		taskRepo:  taskRepo,
		generator: generator,
		publisher: publisher,
		cache:     cache,
	}
}

func (s *TaskServiceImpl) ListTasks(ctx context.Context, userID string) ([]*models.Task, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	cacheable := false
	var version int64
	if s.cache != nil {
		tasks, err := s.cache.GetUserTasks(ctx, userID)
		if err == nil {
			logger.DebugContext(ctx, "Task list served from cache", "user_id", userID, "count", len(tasks))
			return tasks, nil
		}
		if !errors.Is(err, ports.ErrCacheMiss) {
			logger.WarnContext(ctx, "Task cache read failed", "user_id", userID, "error", err)
		}

		// read before the store so an update that lands mid-load bumps it
		version, err = s.cache.UserVersion(ctx, userID)
		if err != nil {
			logger.WarnContext(ctx, "Task cache version read failed", "user_id", userID, "error", err)
		} else {
			cacheable = true
		}
	}

	tasks, err := s.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list user tasks", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %w", services.ErrStore, err)
	}

	if cacheable {
		err := s.cache.SetUserTasks(ctx, userID, version, tasks)
		switch {
		case errors.Is(err, ports.ErrCacheVersionChanged):
			logger.DebugContext(ctx, "Task list changed while loading, not cached", "user_id", userID)
		case err != nil:
			logger.WarnContext(ctx, "Task cache write failed", "user_id", userID, "error", err)
		}
	}

	return tasks, nil
}

func (s *TaskServiceImpl) GenerateTasks(ctx context.Context, topic, userID string) ([]*models.Task, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, services.NewValidationError(services.MsgTopicRequired)
	}
	if utf8.RuneCountInString(topic) > models.MaxHeadingLength {
		return nil, services.NewValidationError(services.MsgTopicTooLong)
	}
	if userID == "" {
		userID = models.AnonymousUserID
	}
	if utf8.RuneCountInString(userID) > models.MaxUserIDLength {
		return nil, services.NewValidationError(services.MsgUserIDTooLong)
	}

	logger.InfoContext(ctx, "Task generation attempt", "user_id", userID, "topic", topic)

	steps, err := s.generator.GenerateSteps(ctx, topic)
	if err != nil {
		logger.ErrorContext(ctx, "Step generation failed", "user_id", userID, "topic", topic, "error", err)
		return nil, fmt.Errorf("%w: %w", services.ErrGenerationFailed, err)
	}

	tasks := make([]*models.Task, 0, len(steps))
	for _, step := range steps {
		heading := topic
		tasks = append(tasks, &models.Task{
			UserID:    userID,
			Content:   truncateRunes(step, models.MaxContentLength),
			Completed: false,
			Heading:   &heading,
		})
	}

	// No compensation: if this insert fails the generated steps are lost
	// and the caller retries the whole request.
	inserted, err := s.taskRepo.InsertMany(ctx, tasks)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to store generated tasks", "user_id", userID, "count", len(tasks), "error", err)
		return nil, fmt.Errorf("%w: %w", services.ErrStore, err)
	}

	logger.InfoContext(ctx, "Tasks generated", "user_id", userID, "topic", topic, "count", len(inserted))

	s.invalidate(ctx, userID)
	if s.publisher != nil {
		ids := make([]uuid.UUID, 0, len(inserted))
		for _, task := range inserted {
			ids = append(ids, task.ID)
		}
		event := ports.TasksGeneratedEvent{
			UserID:  userID,
			Heading: topic,
			TaskIDs: ids,
			Count:   len(ids),
			At:      time.Now().UTC(),
		}
		if err := s.publisher.PublishTasksGenerated(ctx, event); err != nil {
			logger.WarnContext(ctx, "Failed to publish tasks generated event", "user_id", userID, "error", err)
		}
	}

	return inserted, nil
}

func (s *TaskServiceImpl) UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, completed bool) (*models.Task, error) {
	task, err := s.taskRepo.UpdateCompleted(ctx, taskID, completed)
	if errors.Is(err, repositories.ErrTaskNotFound) {
		logger.WarnContext(ctx, "Task not found for status update", "task_id", taskID)
		return nil, err
	}
	if err != nil {
		logger.ErrorContext(ctx, "Failed to update task status", "task_id", taskID, "error", err)
		return nil, fmt.Errorf("%w: %w", services.ErrStore, err)
	}

	logger.InfoContext(ctx, "Task status updated", "task_id", taskID, "completed", completed)

	s.invalidate(ctx, task.UserID)
	if s.publisher != nil {
		event := ports.TaskStatusChangedEvent{
			TaskID:    task.ID,
			UserID:    task.UserID,
			Completed: task.Completed,
			At:        time.Now().UTC(),
		}
		if err := s.publisher.PublishTaskStatusChanged(ctx, event); err != nil {
			logger.WarnContext(ctx, "Failed to publish task status event", "task_id", taskID, "error", err)
		}
	}

	return task, nil
}

func (s *TaskServiceImpl) GroupTasks(ctx context.Context, userID string, filter services.GroupFilter) (*services.TaskGroups, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	switch filter.Status {
	case "", services.StatusAll, services.StatusCompleted, services.StatusIncomplete:
	default:
		return nil, services.NewValidationError(services.MsgInvalidFilter)
	}

	tasks, err := s.ListTasks(ctx, userID)
	if err != nil {
		return nil, err
	}

	return BuildTaskGroups(tasks, filter), nil
}

func (s *TaskServiceImpl) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		logger.WarnContext(ctx, "Task cache invalidation failed", "user_id", userID, "error", err)
	}
}

func validateUserID(userID string) error {
	if userID == "" {
		return services.NewValidationError(services.MsgUserIDRequired)
	}
	if utf8.RuneCountInString(userID) > models.MaxUserIDLength {
		return services.NewValidationError(services.MsgUserIDTooLong)
	}
	return nil
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
