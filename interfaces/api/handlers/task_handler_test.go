package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topic-tasks/domain/models"
	"topic-tasks/domain/ports"
	"topic-tasks/domain/repositories"
	"topic-tasks/domain/services"
	"topic-tasks/interfaces/api/middleware"
)

type fakeTaskService struct {
	tasks  []*models.Task
	groups *services.TaskGroups
	err    error

	calls      int
	lastUserID string
	lastTopic  string
	lastID     uuid.UUID
	lastFilter services.GroupFilter
}

func (f *fakeTaskService) ListTasks(_ context.Context, userID string) ([]*models.Task, error) {
	f.calls++
	f.lastUserID = userID
	return f.tasks, f.err
}

func (f *fakeTaskService) GenerateTasks(_ context.Context, topic, userID string) ([]*models.Task, error) {
	f.calls++
	f.lastTopic, f.lastUserID = topic, userID
	return f.tasks, f.err
}

func (f *fakeTaskService) UpdateTaskStatus(_ context.Context, id uuid.UUID, completed bool) (*models.Task, error) {
	f.calls++
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &models.Task{ID: id, UserID: "u", Content: "step", Completed: completed}, nil
}

func (f *fakeTaskService) GroupTasks(_ context.Context, userID string, filter services.GroupFilter) (*services.TaskGroups, error) {
	f.calls++
	f.lastUserID, f.lastFilter = userID, filter
	return f.groups, f.err
}

const testSecret = "handler-secret"

func newTestApp(svc services.TaskService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	h := NewTaskHandler(svc)

	tasks := app.Group("/api/tasks", middleware.Optional(testSecret))
	tasks.Get("/", h.ListTasks)
	tasks.Post("/", h.CreateTasks)
	tasks.Get("/groups", h.GroupTasks)
	tasks.Patch("/:id", h.UpdateTaskStatus)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string, headers ...string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func heading(s string) *string { return &s }

func TestListTasks(t *testing.T) {
	id := uuid.New()
	svc := &fakeTaskService{tasks: []*models.Task{
		{ID: id, UserID: "alice", Content: "Read docs", Heading: heading("Go")},
	}}
	app := newTestApp(svc)

	status, body := doRequest(t, app, http.MethodGet, "/api/tasks?userId=alice", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", svc.lastUserID)

	tasks := body["tasks"].([]any)
	require.Len(t, tasks, 1)
	task := tasks[0].(map[string]any)
	assert.Equal(t, id.String(), task["id"])
	assert.Equal(t, "alice", task["userId"])
	assert.Equal(t, "Read docs", task["content"])
	assert.Equal(t, false, task["completed"])
	assert.Equal(t, "Go", task["heading"])
}

func TestListTasksEmptyIsArray(t *testing.T) {
	app := newTestApp(&fakeTaskService{})

	status, body := doRequest(t, app, http.MethodGet, "/api/tasks?userId=nobody", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{}, body["tasks"])
}

func TestListTasksRequiresUserID(t *testing.T) {
	svc := &fakeTaskService{}
	app := newTestApp(svc)

	for _, target := range []string{"/api/tasks", "/api/tasks?userId="} {
		status, body := doRequest(t, app, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "User ID is required", body["error"])
	}
	assert.Zero(t, svc.calls)
}

func TestListTasksStoreFailure(t *testing.T) {
	app := newTestApp(&fakeTaskService{err: fmt.Errorf("%w: connection refused", services.ErrStore)})

	status, body := doRequest(t, app, http.MethodGet, "/api/tasks?userId=alice", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to fetch tasks", body["error"])
}

func TestCreateTasks(t *testing.T) {
	svc := &fakeTaskService{tasks: []*models.Task{
		{ID: uuid.New(), UserID: "anonymous", Content: "step 1", Heading: heading("Go")},
		{ID: uuid.New(), UserID: "anonymous", Content: "step 2", Heading: heading("Go")},
	}}
	app := newTestApp(svc)

	status, body := doRequest(t, app, http.MethodPost, "/api/tasks", `{"topic":"Go"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["tasks"], 2)
	assert.Equal(t, "Go", svc.lastTopic)
	assert.Empty(t, svc.lastUserID)
}

func TestCreateTasksValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing topic", `{}`, "Topic is required"},
		{"empty topic", `{"topic":""}`, "Topic is required"},
		{"blank topic", `{"topic":"   "}`, "Topic is required"},
		{"non-string topic", `{"topic":42}`, "Topic is required"},
		{"malformed json", `{"topic":`, "Topic is required"},
		{"long topic", fmt.Sprintf(`{"topic":%q}`, strings.Repeat("a", 257)), services.MsgTopicTooLong},
		{"long user", fmt.Sprintf(`{"topic":"Go","userId":%q}`, strings.Repeat("u", 257)), services.MsgUserIDTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeTaskService{}
			status, body := doRequest(t, newTestApp(svc), http.MethodPost, "/api/tasks", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.want, body["error"])
			assert.Zero(t, svc.calls)
		})
	}
}

func TestCreateTasksGenerationFailure(t *testing.T) {
	cause := &ports.UpstreamError{StatusCode: 503, Body: "secret upstream body"}
	app := newTestApp(&fakeTaskService{err: fmt.Errorf("%w: %w", services.ErrGenerationFailed, cause)})

	status, body := doRequest(t, app, http.MethodPost, "/api/tasks", `{"topic":"Go","userId":"alice"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, map[string]any{"error": "Failed to generate tasks"}, body)
}

func TestCreateTasksUsesBearerIdentity(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "token-user",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	svc := &fakeTaskService{}
	app := newTestApp(svc)

	status, _ := doRequest(t, app, http.MethodPost, "/api/tasks", `{"topic":"Go"}`, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "token-user", svc.lastUserID)

	status, _ = doRequest(t, app, http.MethodPost, "/api/tasks", `{"topic":"Go","userId":"explicit"}`, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "explicit", svc.lastUserID)

	status, _ = doRequest(t, app, http.MethodGet, "/api/tasks", "", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "token-user", svc.lastUserID)
}

func TestInvalidBearerTokenIsIgnored(t *testing.T) {
	svc := &fakeTaskService{}
	app := newTestApp(svc)

	status, body := doRequest(t, app, http.MethodGet, "/api/tasks", "", "Authorization", "Bearer nonsense")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User ID is required", body["error"])
}

func TestUpdateTaskStatus(t *testing.T) {
	svc := &fakeTaskService{}
	app := newTestApp(svc)
	id := uuid.New()

	status, body := doRequest(t, app, http.MethodPatch, "/api/tasks/"+id.String(), `{"completed":true}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, id, svc.lastID)

	task := body["task"].(map[string]any)
	assert.Equal(t, id.String(), task["id"])
	assert.Equal(t, true, task["completed"])
}

func TestUpdateTaskStatusRejectsNonBoolean(t *testing.T) {
	for _, payload := range []string{`{"completed":"true"}`, `{"completed":1}`, `{"completed":null}`, `{}`} {
		t.Run(payload, func(t *testing.T) {
			svc := &fakeTaskService{}
			status, body := doRequest(t, newTestApp(svc), http.MethodPatch, "/api/tasks/"+uuid.NewString(), payload)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "Invalid completed status", body["error"])
			assert.Zero(t, svc.calls)
		})
	}
}

func TestUpdateTaskStatusNotFound(t *testing.T) {
	svc := &fakeTaskService{err: repositories.ErrTaskNotFound}
	app := newTestApp(svc)

	status, body := doRequest(t, app, http.MethodPatch, "/api/tasks/"+uuid.NewString(), `{"completed":true}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Task not found", body["error"])

	status, body = doRequest(t, app, http.MethodPatch, "/api/tasks/not-a-uuid", `{"completed":true}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Task not found", body["error"])
}

func TestUpdateTaskStatusStoreFailure(t *testing.T) {
	app := newTestApp(&fakeTaskService{err: services.ErrStore})

	status, body := doRequest(t, app, http.MethodPatch, "/api/tasks/"+uuid.NewString(), `{"completed":false}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to update task status", body["error"])
}

func TestGroupTasks(t *testing.T) {
	svc := &fakeTaskService{groups: &services.TaskGroups{
		Groups: []services.TaskGroup{{
			Heading: "Go", Anchor: "topic-go", Total: 2, Completed: 1, Progress: 50,
			Tasks: []*models.Task{{ID: uuid.New(), UserID: "alice", Content: "step", Heading: heading("Go")}},
		}},
		Headings:  []string{"Go"},
		Total:     2,
		Completed: 1,
		Progress:  50,
	}}
	app := newTestApp(svc)

	status, body := doRequest(t, app, http.MethodGet, "/api/tasks/groups?userId=alice&heading=Go&status=incomplete", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, services.GroupFilter{Heading: "Go", Status: "incomplete"}, svc.lastFilter)

	groups := body["groups"].([]any)
	require.Len(t, groups, 1)
	group := groups[0].(map[string]any)
	assert.Equal(t, "topic-go", group["anchor"])
	assert.EqualValues(t, 50, group["progress"])
	assert.Equal(t, []any{"Go"}, body["headings"])
	assert.EqualValues(t, 2, body["summary"].(map[string]any)["total"])
}

func TestGroupTasksValidation(t *testing.T) {
	svc := &fakeTaskService{}
	app := newTestApp(svc)

	status, body := doRequest(t, app, http.MethodGet, "/api/tasks/groups?userId=alice&status=done", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid status filter", body["error"])

	status, body = doRequest(t, app, http.MethodGet, "/api/tasks/groups", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User ID is required", body["error"])

	status, body = doRequest(t, app, http.MethodGet, "/api/tasks/groups?userId="+strings.Repeat("u", 257), "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User ID must be at most 256 characters", body["error"])
	assert.Zero(t, svc.calls)
}

func TestGroupTasksLongHeadingIsPassedThrough(t *testing.T) {
	svc := &fakeTaskService{groups: &services.TaskGroups{Groups: []services.TaskGroup{}, Headings: []string{}}}
	app := newTestApp(svc)
	long := strings.Repeat("h", 300)

	status, body := doRequest(t, app, http.MethodGet, "/api/tasks/groups?userId=alice&heading="+long, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, long, svc.lastFilter.Heading)
	assert.Empty(t, body["groups"])
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	status, body := doRequest(t, newTestApp(&fakeTaskService{}), http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, "error")
}
