package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/phrazzld/taskboard/internal/events"
	"github.com/phrazzld/taskboard/internal/platform/memory"
	"github.com/phrazzld/taskboard/internal/query"
	"github.com/phrazzld/taskboard/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingEmitter captures emitted events and can be made to fail.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.TaskEvent
	err    error
}

func (r *recordingEmitter) EmitEvent(_ context.Context, event *events.TaskEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recordingEmitter) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newTestService(t *testing.T) (service.TaskService, *recordingEmitter) {
	t.Helper()

	var n int
	base := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	store := memory.NewTaskStore(nil,
		memory.WithClock(func() time.Time {
			n++
			return base.Add(time.Duration(n) * time.Second)
		}),
		memory.WithIDGenerator(func() string {
			return fmt.Sprintf("task-%d", n)
		}),
	)

	emitter := &recordingEmitter{}
	svc, err := service.NewTaskService(store, emitter, nil)
	require.NoError(t, err)
	return svc, emitter
}

func TestNewTaskService_RequiresStore(t *testing.T) {
	svc, err := service.NewTaskService(nil, nil, nil)
	assert.Nil(t, svc)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestTaskService_Init(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.Init(ctx)
	svc.Init(ctx)

	assert.Equal(t, 3, svc.Stats(ctx).Total)
	assert.Equal(t, 3, svc.Stats(ctx).Pending)
}

func TestTaskService_CreateAndGet(t *testing.T) {
	svc, emitter := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.TaskInput{Title: "Write report", Priority: domain.PriorityHigh})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	assert.Equal(t, []events.EventType{events.TaskCreated}, emitter.types())
}

func TestTaskService_CreateRejectsInvalidInput(t *testing.T) {
	svc, emitter := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.TaskInput{Priority: domain.PriorityLow})
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.True(t, errors.Is(err, domain.ErrEmptyTitle))

	assert.Zero(t, svc.Stats(ctx).Total)
	assert.Empty(t, emitter.types())
}

func TestTaskService_NotFound(t *testing.T) {
	svc, emitter := newTestService(t)
	ctx := context.Background()
	title := "x"

	_, err := svc.Get(ctx, "missing")
	assert.True(t, errors.Is(err, service.ErrTaskNotFound))

	_, err = svc.Update(ctx, "missing", domain.TaskPatch{Title: &title})
	assert.True(t, errors.Is(err, service.ErrTaskNotFound))

	_, err = svc.SetStatus(ctx, "missing", domain.StatusCompleted)
	assert.True(t, errors.Is(err, service.ErrTaskNotFound))

	err = svc.Remove(ctx, "missing")
	assert.True(t, errors.Is(err, service.ErrTaskNotFound))

	var svcErr *service.TaskServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "remove", svcErr.Operation)
	assert.Equal(t, "missing", svcErr.TaskID)

	assert.Empty(t, emitter.types())
}

func TestTaskService_UpdateMergesFields(t *testing.T) {
	svc, emitter := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.TaskInput{
		Title:       "Write report",
		Description: "quarterly",
		Priority:    domain.PriorityLow,
	})
	require.NoError(t, err)

	high := domain.PriorityHigh
	updated, err := svc.Update(ctx, created.ID, domain.TaskPatch{Priority: &high})
	require.NoError(t, err)

	assert.Equal(t, domain.PriorityHigh, updated.Priority)
	assert.Equal(t, "Write report", updated.Title)
	assert.Equal(t, "quarterly", updated.Description)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	assert.Equal(t, []events.EventType{events.TaskCreated, events.TaskUpdated}, emitter.types())
}

func TestTaskService_UpdateRejectsInvalidPatch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.TaskInput{Title: "Write report", Priority: domain.PriorityLow})
	require.NoError(t, err)

	empty := ""
	_, err = svc.Update(ctx, created.ID, domain.TaskPatch{Title: &empty})
	assert.True(t, errors.Is(err, domain.ErrEmptyTitle))

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestTaskService_SetStatus(t *testing.T) {
	svc, emitter := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.TaskInput{Title: "Write report", Priority: domain.PriorityLow})
	require.NoError(t, err)

	done, err := svc.SetStatus(ctx, created.ID, domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, done.Status)

	// Setting the same status again still succeeds and refreshes updatedAt
	again, err := svc.SetStatus(ctx, created.ID, domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, again.Status)
	assert.True(t, again.UpdatedAt.After(done.UpdatedAt))

	_, err = svc.SetStatus(ctx, created.ID, "archived")
	assert.True(t, errors.Is(err, domain.ErrInvalidStatus))

	assert.Equal(t,
		[]events.EventType{events.TaskCreated, events.TaskStatusChanged, events.TaskStatusChanged},
		emitter.types())
}

func TestTaskService_Remove(t *testing.T) {
	svc, emitter := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.TaskInput{Title: "Write report", Priority: domain.PriorityLow})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.True(t, errors.Is(err, service.ErrTaskNotFound))
	assert.True(t, errors.Is(svc.Remove(ctx, created.ID), service.ErrTaskNotFound))

	assert.Equal(t, []events.EventType{events.TaskCreated, events.TaskDeleted}, emitter.types())
	assert.Equal(t, created.ID, emitter.events[1].TaskID)
	assert.Nil(t, emitter.events[1].Task)
}

func TestTaskService_ListAndStats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, title := range []string{"Write report", "Buy milk", "Call plumber"} {
		_, err := svc.Create(ctx, domain.TaskInput{Title: title, Priority: domain.PriorityMedium})
		require.NoError(t, err)
	}
	list := svc.List(ctx, query.Criteria{})
	require.Len(t, list, 3)
	// Newest first by default
	assert.Equal(t, "Call plumber", list[0].Title)

	_, err := svc.SetStatus(ctx, list[0].ID, domain.StatusCompleted)
	require.NoError(t, err)

	pending := svc.List(ctx, query.Criteria{Status: domain.StatusPending})
	assert.Len(t, pending, 2)

	stats := svc.Stats(ctx)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.Completed)
}

func TestTaskService_EmitFailureDoesNotFailMutation(t *testing.T) {
	svc, emitter := newTestService(t)
	emitter.err = errors.New("handler failed")
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.TaskInput{Title: "Write report", Priority: domain.PriorityLow})
	require.NoError(t, err)

	_, err = svc.Get(ctx, created.ID)
	assert.NoError(t, err)
}

func TestTaskService_WithInMemoryEmitter(t *testing.T) {
	store := memory.NewTaskStore(nil)
	emitter := events.NewInMemoryEventEmitter(nil)

	var received []events.EventType
	emitter.RegisterHandler(events.EventHandlerFunc(func(_ context.Context, e *events.TaskEvent) error {
		received = append(received, e.Type)
		return nil
	}))

	svc, err := service.NewTaskService(store, emitter, nil)
	require.NoError(t, err)

	ctx := context.Background()
	created, err := svc.Create(ctx, domain.TaskInput{Title: "Write report", Priority: domain.PriorityLow})
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, created.ID))

	assert.Equal(t, []events.EventType{events.TaskCreated, events.TaskDeleted}, received)
}
