package store

import (
	"context"

	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/phrazzld/taskboard/internal/query"
)

// StatusCounts holds the number of tasks in each status.
type StatusCounts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

// TaskStore is the authoritative collection of tasks, keyed by ID.
// Implementations must make each method atomic with respect to the others
// and must never hand out references to their internal records.
type TaskStore interface {
	// Seed inserts the demonstration tasks. It is a no-op when the store
	// already holds at least one task.
	Seed(ctx context.Context)

	// List returns the tasks matching the criteria, sorted as requested.
	List(ctx context.Context, criteria query.Criteria) []domain.Task

	// Get returns the task with the given ID and whether it exists.
	Get(ctx context.Context, id string) (domain.Task, bool)

	// Create assigns a new ID and timestamps to the input and stores it.
	// The input must already be validated.
	Create(ctx context.Context, in domain.TaskInput) domain.Task

	// Update merges the patch into the task with the given ID. It returns
	// false when no such task exists. The patch must already be validated.
	Update(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, bool)

	// Remove deletes the task with the given ID and reports whether it existed.
	Remove(ctx context.Context, id string) bool

	// Count returns the number of tasks per status.
	Count(ctx context.Context) StatusCounts
}
