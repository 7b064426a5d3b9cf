package serviceimpl

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"topic-tasks/domain/models"
	"topic-tasks/domain/ports"
	"topic-tasks/domain/repositories"
)

type memoryRepo struct {
	mu        sync.Mutex
	tasks     []*models.Task
	insertErr error
	listCalls int
}

func (r *memoryRepo) ListByUser(_ context.Context, userID string) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++

	out := make([]*models.Task, 0)
	for _, task := range r.tasks {
		if task.UserID == userID {
			copied := *task
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memoryRepo) InsertMany(_ context.Context, tasks []*models.Task) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	for _, task := range tasks {
		task.ID = uuid.New()
		copied := *task
		r.tasks = append(r.tasks, &copied)
	}
	return tasks, nil
}

func (r *memoryRepo) UpdateCompleted(_ context.Context, id uuid.UUID, completed bool) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, task := range r.tasks {
		if task.ID == id {
			task.Completed = completed
			copied := *task
			return &copied, nil
		}
	}
	return nil, repositories.ErrTaskNotFound
}

type stubGenerator struct {
	steps  []string
	err    error
	topics []string
}

func (g *stubGenerator) GenerateSteps(_ context.Context, topic string) ([]string, error) {
	g.topics = append(g.topics, topic)
	if g.err != nil {
		return nil, g.err
	}
	return g.steps, nil
}

type recordingPublisher struct {
	generated []ports.TasksGeneratedEvent
	changed   []ports.TaskStatusChangedEvent
	err       error
}

func (p *recordingPublisher) PublishTasksGenerated(_ context.Context, event ports.TasksGeneratedEvent) error {
	p.generated = append(p.generated, event)
	return p.err
}

func (p *recordingPublisher) PublishTaskStatusChanged(_ context.Context, event ports.TaskStatusChangedEvent) error {
	p.changed = append(p.changed, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type memoryCache struct {
	mu          sync.Mutex
	entries     map[string][]*models.Task
	versions    map[string]int64
	invalidated []string
	getErr      error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		entries:  make(map[string][]*models.Task),
		versions: make(map[string]int64),
	}
}

func (c *memoryCache) GetUserTasks(_ context.Context, userID string) ([]*models.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	tasks, ok := c.entries[userID]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return tasks, nil
}

func (c *memoryCache) UserVersion(_ context.Context, userID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[userID], nil
}

func (c *memoryCache) SetUserTasks(_ context.Context, userID string, version int64, tasks []*models.Task) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[userID] != version {
		return ports.ErrCacheVersionChanged
	}
	c.entries[userID] = tasks
	return nil
}

func (c *memoryCache) InvalidateUser(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, userID)
	c.versions[userID]++
	delete(c.entries, userID)
	return nil
}

// pausingRepo holds ListByUser after it has read the rows until resume is closed.
type pausingRepo struct {
	*memoryRepo
	loaded chan struct{}
	resume chan struct{}
	once   sync.Once
}

func newPausingRepo(inner *memoryRepo) *pausingRepo {
	return &pausingRepo{
		memoryRepo: inner,
		loaded:     make(chan struct{}),
		resume:     make(chan struct{}),
	}
}

func (r *pausingRepo) ListByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	tasks, err := r.memoryRepo.ListByUser(ctx, userID)
	paused := false
	r.once.Do(func() { paused = true })
	if paused {
		close(r.loaded)
		<-r.resume
	}
	return tasks, err
}

var errBoom = errors.New("boom")
