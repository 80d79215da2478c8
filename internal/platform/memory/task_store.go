package memory

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/phrazzld/taskboard/internal/platform/logger"
	"github.com/phrazzld/taskboard/internal/query"
	"github.com/phrazzld/taskboard/internal/store"
)

// Option customizes a TaskStore.
type Option func(*TaskStore)

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) {
		s.now = now
	}
}

// WithIDGenerator replaces the UUID generator used for new task IDs.
func WithIDGenerator(newID func() string) Option {
	return func(s *TaskStore) {
		s.newID = newID
	}
}

// TaskStore implements store.TaskStore with a mutex-guarded slice kept in
// insertion order, plus an index from ID to slice position.
type TaskStore struct {
	mu    sync.RWMutex
	tasks []domain.Task
	index map[string]int

	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates an empty in-memory task store.
// If logger is nil, a default logger will be used.
func NewTaskStore(logger *slog.Logger, opts ...Option) *TaskStore {
	if logger == nil {
		logger = slog.Default()
	}

	s := &TaskStore{
		index:  make(map[string]int),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
		logger: logger.With(slog.String("component", "task_store")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// demoPriorities are the priorities of the seeded tasks, in insertion order.
var demoPriorities = []domain.Priority{domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow}

// Seed implements store.TaskStore.Seed
func (s *TaskStore) Seed(ctx context.Context) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.tasks) > 0 {
		log.Debug("store already populated, skipping seed", slog.Int("task_count", len(s.tasks)))
		return
	}

	for i, p := range demoPriorities {
		s.insert(domain.TaskInput{
			Title:       fmt.Sprintf("Task #%d", i+1),
			Description: fmt.Sprintf("Demo %d", i+1),
			Priority:    p,
			Status:      domain.StatusPending,
			Tags:        []string{"demo"},
		})
	}

	log.Info("seeded demo tasks", slog.Int("task_count", len(s.tasks)))
}

// List implements store.TaskStore.List
func (s *TaskStore) List(ctx context.Context, criteria query.Criteria) []domain.Task {
	s.mu.RLock()
	snapshot := s.snapshot()
	s.mu.RUnlock()

	result := query.Apply(snapshot, criteria)

	logger.FromContextOrDefault(ctx, s.logger).Debug("listed tasks",
		slog.Int("matched", result.Total),
		slog.Int("task_count", len(snapshot)))
	return result.Items
}

// Get implements store.TaskStore.Get
func (s *TaskStore) Get(ctx context.Context, id string) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return domain.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(ctx context.Context, in domain.TaskInput) domain.Task {
	s.mu.Lock()
	task := s.insert(in)
	s.mu.Unlock()

	logger.FromContextOrDefault(ctx, s.logger).Debug("task created",
		slog.String("task_id", task.ID),
		slog.String("priority", string(task.Priority)))
	return task
}

// Update implements store.TaskStore.Update
func (s *TaskStore) Update(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return domain.Task{}, false
	}

	s.tasks[i].Apply(patch, s.now())

	logger.FromContextOrDefault(ctx, s.logger).Debug("task updated", slog.String("task_id", id))
	return s.tasks[i].Clone(), true
}

// Remove implements store.TaskStore.Remove
func (s *TaskStore) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}

	s.tasks = slices.Delete(s.tasks, i, i+1)
	delete(s.index, id)
	for j := i; j < len(s.tasks); j++ {
		s.index[s.tasks[j].ID] = j
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("task removed", slog.String("task_id", id))
	return true
}

// Count implements store.TaskStore.Count
func (s *TaskStore) Count(ctx context.Context) store.StatusCounts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := store.StatusCounts{Total: len(s.tasks)}
	for _, t := range s.tasks {
		switch t.Status {
		case domain.StatusPending:
			counts.Pending++
		case domain.StatusCompleted:
			counts.Completed++
		}
	}
	return counts
}

// insert appends a new task built from in. Callers must hold the write lock.
func (s *TaskStore) insert(in domain.TaskInput) domain.Task {
	task := domain.NewTask(s.newID(), in, s.now())
	s.index[task.ID] = len(s.tasks)
	s.tasks = append(s.tasks, task)
	return task.Clone()
}

// snapshot copies the collection. Callers must hold at least the read lock.
func (s *TaskStore) snapshot() []domain.Task {
	out := make([]domain.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}
