package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"topic-tasks/domain/dto"
	"topic-tasks/domain/repositories"
	"topic-tasks/domain/services"
	"topic-tasks/pkg/logger"
	"topic-tasks/pkg/utils"
)

const (
	msgTaskNotFound   = "Task not found"
	msgFetchFailed    = "Failed to fetch tasks"
	msgGenerateFailed = "Failed to generate tasks"
	msgUpdateFailed   = "Failed to update task status"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks handles GET /api/tasks?userId=
func (h *TaskHandler) ListTasks(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var query dto.ListTasksQuery
	if err := c.QueryParser(&query); err != nil {
		logger.WarnContext(ctx, "Invalid query", "error", err)
		return utils.BadRequestResponse(c, services.MsgUserIDRequired)
	}
	if query.UserID == "" {
		query.UserID = userFromToken(c)
	}

	if err := utils.ValidateStruct(&query); err != nil {
		return utils.BadRequestResponse(c, userIDMessage(err))
	}

	tasks, err := h.taskService.ListTasks(ctx, query.UserID)
	if err != nil {
		return serviceErrorResponse(c, err, msgFetchFailed)
	}

	return utils.SuccessResponse(c, dto.TaskListResponse{Tasks: dto.TasksToTaskResponses(tasks)})
}

// CreateTasks handles POST /api/tasks {topic, userId?}
func (h *TaskHandler) CreateTasks(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, services.MsgTopicRequired)
	}

	if err := utils.ValidateStruct(&req); err != nil {
		fieldErrs := utils.GetValidationErrors(err)
		logger.WarnContext(ctx, "Validation failed", "errors", fieldErrs)
		return utils.BadRequestResponse(c, createMessage(fieldErrs))
	}
	if req.UserID == "" {
		req.UserID = userFromToken(c)
	}

	tasks, err := h.taskService.GenerateTasks(ctx, req.Topic, req.UserID)
	if err != nil {
		return serviceErrorResponse(c, err, msgGenerateFailed)
	}

	return utils.SuccessResponse(c, dto.TaskListResponse{Tasks: dto.TasksToTaskResponses(tasks)})
}

// UpdateTaskStatus handles PATCH /api/tasks/:id {completed}
func (h *TaskHandler) UpdateTaskStatus(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.UpdateTaskStatusRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, services.MsgInvalidStatus)
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.BadRequestResponse(c, services.MsgInvalidStatus)
	}

	taskIDStr := c.Params("id")
	taskID, err := uuid.Parse(taskIDStr)
	if err != nil {
		logger.WarnContext(ctx, "Invalid task ID", "task_id", taskIDStr)
		return utils.NotFoundResponse(c, msgTaskNotFound)
	}

	task, err := h.taskService.UpdateTaskStatus(ctx, taskID, *req.Completed)
	if err != nil {
		return serviceErrorResponse(c, err, msgUpdateFailed)
	}

	return utils.SuccessResponse(c, dto.TaskItemResponse{Task: dto.TaskToTaskResponse(task)})
}

// GroupTasks handles GET /api/tasks/groups?userId=&heading=&status=
func (h *TaskHandler) GroupTasks(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var query dto.GroupTasksQuery
	if err := c.QueryParser(&query); err != nil {
		logger.WarnContext(ctx, "Invalid query", "error", err)
		return utils.BadRequestResponse(c, services.MsgUserIDRequired)
	}
	if query.UserID == "" {
		query.UserID = userFromToken(c)
	}

	if err := utils.ValidateStruct(&query); err != nil {
		for _, fe := range utils.GetValidationErrors(err) {
			if fe.Field == "status" {
				return utils.BadRequestResponse(c, services.MsgInvalidFilter)
			}
		}
		return utils.BadRequestResponse(c, userIDMessage(err))
	}

	groups, err := h.taskService.GroupTasks(ctx, query.UserID, services.GroupFilter{
		Heading: query.Heading,
		Status:  query.Status,
	})
	if err != nil {
		return serviceErrorResponse(c, err, msgFetchFailed)
	}

	return utils.SuccessResponse(c, dto.TaskGroupsToResponse(groups))
}

// serviceErrorResponse maps service errors to a status. Internal detail is
// logged and never returned.
func serviceErrorResponse(c *fiber.Ctx, err error, fallback string) error {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return utils.BadRequestResponse(c, validationErr.Message)
	case errors.Is(err, repositories.ErrTaskNotFound):
		return utils.NotFoundResponse(c, msgTaskNotFound)
	default:
		logger.ErrorContext(c.UserContext(), fallback, "error", err)
		return utils.InternalServerErrorResponse(c, fallback)
	}
}

func userFromToken(c *fiber.Ctx) string {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return ""
	}
	return user.ID
}

func userIDMessage(err error) string {
	for _, fe := range utils.GetValidationErrors(err) {
		if fe.Field == "userId" && fe.Tag == "max" {
			return services.MsgUserIDTooLong
		}
	}
	return services.MsgUserIDRequired
}

func createMessage(fieldErrs []utils.FieldError) string {
	for _, fe := range fieldErrs {
		switch {
		case fe.Field == "userId":
			return services.MsgUserIDTooLong
		case fe.Field == "topic" && fe.Tag == "max":
			return services.MsgTopicTooLong
		}
	}
	return services.MsgTopicRequired
}
