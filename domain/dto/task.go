package dto

import (
	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Topic  string `json:"topic" validate:"required,notblank,max=256"`
	UserID string `json:"userId" validate:"omitempty,max=256"`
}

// UpdateTaskStatusRequest keeps Completed as a pointer so an absent field
// is distinguishable from false.
type UpdateTaskStatusRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

type ListTasksQuery struct {
	UserID string `query:"userId" validate:"required,max=256"`
}

type GroupTasksQuery struct {
	UserID  string `query:"userId" validate:"required,max=256"`
	Heading string `query:"heading"`
	Status  string `query:"status" validate:"omitempty,oneof=all completed incomplete"`
}

type TaskResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	Completed bool      `json:"completed"`
	Heading   *string   `json:"heading"`
}

type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

type TaskItemResponse struct {
	Task TaskResponse `json:"task"`
}

type TaskGroupResponse struct {
	Heading   string         `json:"heading"`
	Anchor    string         `json:"anchor"`
	Total     int            `json:"total"`
	Completed int            `json:"completed"`
	Progress  int            `json:"progress"`
	Tasks     []TaskResponse `json:"tasks"`
}

type ProgressSummary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Progress  int `json:"progress"`
}

type TaskGroupsResponse struct {
	Groups   []TaskGroupResponse `json:"groups"`
	Headings []string            `json:"headings"`
	Summary  ProgressSummary     `json:"summary"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
