package domain

import (
	"slices"
	"time"
)

// Priority is the ordinal urgency of a task.
type Priority string

// Possible priority values, from least to most urgent.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank returns the ordinal position of the priority (low=1, medium=2, high=3).
// Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	default:
		return 0
	}
}

// IsValid reports whether p is one of the enumerated priorities.
func (p Priority) IsValid() bool {
	return p.Rank() > 0
}

// Status is the completion state of a task.
type Status string

// Possible status values. A task moves between them only through an explicit toggle.
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// IsValid reports whether s is one of the enumerated statuses.
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Toggle returns the opposite status.
func (s Status) Toggle() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// dueDateLayouts are the accepted ISO 8601 forms for a due date.
// time.RFC3339 also accepts fractional seconds when parsing.
var dueDateLayouts = []string{time.RFC3339, time.DateOnly}

// IsValidDueDate reports whether s is empty or parses as an ISO 8601
// date-time or calendar date.
func IsValidDueDate(s string) bool {
	if s == "" {
		return true
	}
	for _, layout := range dueDateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// Task is a single to-do item.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	DueDate     string    `json:"dueDate,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskInput carries the client-supplied fields of a new task.
// An empty Status defaults to pending.
type TaskInput struct {
	Title       string
	Description string
	Priority    Priority
	Status      Status
	DueDate     string
	Tags        []string
}

// Validate checks the input against the task invariants.
func (in TaskInput) Validate() error {
	if in.Title == "" {
		return NewValidationError("title", "is required", ErrEmptyTitle)
	}
	if !in.Priority.IsValid() {
		return NewValidationError("priority", "must be one of low, medium, high", ErrInvalidPriority)
	}
	if in.Status != "" && !in.Status.IsValid() {
		return NewValidationError("status", "must be one of pending, completed", ErrInvalidStatus)
	}
	if !IsValidDueDate(in.DueDate) {
		return NewValidationError("dueDate", "must be an ISO 8601 date or date-time", ErrInvalidDueDate)
	}
	return nil
}

// TaskPatch is a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *Priority
	Status      *Status
	DueDate     *string
	Tags        []string
}

// Validate checks every field that the patch sets.
func (p TaskPatch) Validate() error {
	if p.Title != nil && *p.Title == "" {
		return NewValidationError("title", "cannot be empty", ErrEmptyTitle)
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		return NewValidationError("priority", "must be one of low, medium, high", ErrInvalidPriority)
	}
	if p.Status != nil && !p.Status.IsValid() {
		return NewValidationError("status", "must be one of pending, completed", ErrInvalidStatus)
	}
	if p.DueDate != nil && !IsValidDueDate(*p.DueDate) {
		return NewValidationError("dueDate", "must be an ISO 8601 date or date-time", ErrInvalidDueDate)
	}
	return nil
}

// StatusPatch returns a patch that only changes the status.
func StatusPatch(status Status) TaskPatch {
	return TaskPatch{Status: &status}
}

// NewTask builds a task from validated input. CreatedAt and UpdatedAt are
// both set to now.
func NewTask(id string, in TaskInput, now time.Time) Task {
	status := in.Status
	if status == "" {
		status = StatusPending
	}
	return Task{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      status,
		DueDate:     in.DueDate,
		Tags:        slices.Clone(in.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply merges the set fields of the patch into the task and refreshes
// UpdatedAt. ID and CreatedAt are never touched.
func (t *Task) Apply(p TaskPatch, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Tags != nil {
		t.Tags = slices.Clone(p.Tags)
	}
	t.UpdatedAt = now
}

// Clone returns a copy that shares no mutable state with t.
func (t Task) Clone() Task {
	t.Tags = slices.Clone(t.Tags)
	return t
}
