package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard/internal/domain"
)

// EventType names what happened to a task.
type EventType string

// Task lifecycle event types.
const (
	TaskCreated       EventType = "task.created"
	TaskUpdated       EventType = "task.updated"
	TaskStatusChanged EventType = "task.status_changed"
	TaskDeleted       EventType = "task.deleted"
)

// TaskEvent records a completed mutation of a single task.
type TaskEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	Type   EventType `json:"type"`
	TaskID string    `json:"taskId"`

	// Task is the state after the mutation. It is nil for TaskDeleted.
	Task *domain.Task `json:"task,omitempty"`

	OccurredAt time.Time `json:"occurredAt"`
}

// NewTaskEvent creates a TaskEvent for the given task state. A nil task
// is allowed for deletions, in which case only taskID is recorded.
func NewTaskEvent(eventType EventType, taskID string, task *domain.Task) *TaskEvent {
	var snapshot *domain.Task
	if task != nil {
		clone := task.Clone()
		snapshot = &clone
	}
	return &TaskEvent{
		ID:         uuid.New(),
		Type:       eventType,
		TaskID:     taskID,
		Task:       snapshot,
		OccurredAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// EventHandlerFunc adapts an ordinary function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, event *TaskEvent) error

// HandleEvent calls f(ctx, event).
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *TaskEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *TaskEvent) error
}
