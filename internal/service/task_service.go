package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/phrazzld/taskboard/internal/events"
	"github.com/phrazzld/taskboard/internal/platform/logger"
	"github.com/phrazzld/taskboard/internal/query"
	"github.com/phrazzld/taskboard/internal/store"
)

// TaskService provides task-related operations
type TaskService interface {
	// Init seeds the store with demonstration tasks. Call it once at startup.
	Init(ctx context.Context)

	// List returns the tasks matching the criteria.
	List(ctx context.Context, criteria query.Criteria) []domain.Task

	// Get returns the task with the given ID or ErrTaskNotFound.
	Get(ctx context.Context, id string) (domain.Task, error)

	// Create validates the input and stores a new task.
	Create(ctx context.Context, in domain.TaskInput) (domain.Task, error)

	// Update validates the patch and merges it into an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error)

	// SetStatus is Update with a patch that only sets the status.
	SetStatus(ctx context.Context, id string, status domain.Status) (domain.Task, error)

	// Remove deletes a task. Returns ErrTaskNotFound if nothing was removed.
	Remove(ctx context.Context, id string) error

	// Stats returns the number of tasks per status.
	Stats(ctx context.Context) store.StatusCounts
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	store   store.TaskStore
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if the store is nil. A nil emitter disables events.
func NewTaskService(
	taskStore store.TaskStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (TaskService, error) {
	if taskStore == nil {
		return nil, domain.NewValidationError("taskStore", "cannot be nil", domain.ErrValidation)
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		store:   taskStore,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "task_service")),
	}, nil
}

// Init implements TaskService.Init
func (s *taskServiceImpl) Init(ctx context.Context) {
	s.store.Seed(ctx)
}

// List implements TaskService.List
func (s *taskServiceImpl) List(ctx context.Context, criteria query.Criteria) []domain.Task {
	return s.store.List(ctx, criteria)
}

// Get implements TaskService.Get
func (s *taskServiceImpl) Get(ctx context.Context, id string) (domain.Task, error) {
	task, ok := s.store.Get(ctx, id)
	if !ok {
		logger.FromContextOrDefault(ctx, s.logger).Debug("task not found", slog.String("task_id", id))
		return domain.Task{}, notFound("get", id)
	}
	return task, nil
}

// Create implements TaskService.Create
func (s *taskServiceImpl) Create(ctx context.Context, in domain.TaskInput) (domain.Task, error) {
	if err := in.Validate(); err != nil {
		return domain.Task{}, err
	}

	task := s.store.Create(ctx, in)

	logger.FromContextOrDefault(ctx, s.logger).Info("task created",
		slog.String("task_id", task.ID),
		slog.String("priority", string(task.Priority)))
	s.emit(ctx, events.NewTaskEvent(events.TaskCreated, task.ID, &task))
	return task, nil
}

// Update implements TaskService.Update
func (s *taskServiceImpl) Update(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
	return s.update(ctx, "update", id, patch, events.TaskUpdated)
}

// SetStatus implements TaskService.SetStatus
func (s *taskServiceImpl) SetStatus(ctx context.Context, id string, status domain.Status) (domain.Task, error) {
	return s.update(ctx, "set_status", id, domain.StatusPatch(status), events.TaskStatusChanged)
}

func (s *taskServiceImpl) update(
	ctx context.Context,
	operation, id string,
	patch domain.TaskPatch,
	eventType events.EventType,
) (domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := patch.Validate(); err != nil {
		return domain.Task{}, err
	}

	task, ok := s.store.Update(ctx, id, patch)
	if !ok {
		log.Debug("task not found", slog.String("task_id", id), slog.String("operation", operation))
		return domain.Task{}, notFound(operation, id)
	}

	log.Info("task updated",
		slog.String("task_id", task.ID),
		slog.String("operation", operation),
		slog.String("status", string(task.Status)))
	s.emit(ctx, events.NewTaskEvent(eventType, task.ID, &task))
	return task, nil
}

// Remove implements TaskService.Remove
func (s *taskServiceImpl) Remove(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !s.store.Remove(ctx, id) {
		log.Debug("task not found", slog.String("task_id", id), slog.String("operation", "remove"))
		return notFound("remove", id)
	}

	log.Info("task removed", slog.String("task_id", id))
	s.emit(ctx, events.NewTaskEvent(events.TaskDeleted, id, nil))
	return nil
}

// Stats implements TaskService.Stats
func (s *taskServiceImpl) Stats(ctx context.Context) store.StatusCounts {
	return s.store.Count(ctx)
}

// emit publishes an event after a completed mutation. Handler failures are
// logged and never undo or fail the mutation.
func (s *taskServiceImpl) emit(ctx context.Context, event *events.TaskEvent) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to publish task event",
			slog.String("error", err.Error()),
			slog.String("event_type", string(event.Type)),
			slog.String("task_id", event.TaskID))
	}
}
