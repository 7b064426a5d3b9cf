package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"topic-tasks/domain/models"
	"topic-tasks/domain/repositories"
)

type TaskRepositoryImpl struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) repositories.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	tasks := make([]*models.Task, 0)
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepositoryImpl) InsertMany(ctx context.Context, tasks []*models.Task) ([]*models.Task, error) {
	if len(tasks) == 0 {
		return tasks, nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&tasks).Error
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepositoryImpl) UpdateCompleted(ctx context.Context, id uuid.UUID, completed bool) (*models.Task, error) {
	var task models.Task

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&task).Error; err != nil {
			return err
		}
		if err := tx.Model(&task).Update("completed", completed).Error; err != nil {
			return err
		}
		task.Completed = completed
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}

	return &task, nil
}
