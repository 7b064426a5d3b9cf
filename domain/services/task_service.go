package services

import (
	"context"

	"github.com/google/uuid"

	"topic-tasks/domain/models"
)

type TaskService interface {
	ListTasks(ctx context.Context, userID string) ([]*models.Task, error)
	GenerateTasks(ctx context.Context, topic, userID string) ([]*models.Task, error)
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, completed bool) (*models.Task, error)
	GroupTasks(ctx context.Context, userID string, filter GroupFilter) (*TaskGroups, error)
}

// Status filters accepted by GroupTasks.
const (
	StatusAll        = "all"
	StatusCompleted  = "completed"
	StatusIncomplete = "incomplete"
)

// AllHeadings selects every group in GroupFilter.Heading.
const AllHeadings = "All"

// UntitledHeading groups tasks stored without a heading.
const UntitledHeading = "Untitled"

type GroupFilter struct {
	Heading string // "" or AllHeadings = every group
	Status  string // "" = StatusAll
}

type TaskGroup struct {
	Heading   string
	Anchor    string
	Total     int
	Completed int
	Progress  int
	Tasks     []*models.Task
}

type TaskGroups struct {
	Groups    []TaskGroup
	Headings  []string
	Total     int
	Completed int
	Progress  int
}
