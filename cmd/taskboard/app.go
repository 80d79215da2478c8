package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskboard/internal/config"
	"github.com/phrazzld/taskboard/internal/events"
	"github.com/phrazzld/taskboard/internal/platform/memory"
	"github.com/phrazzld/taskboard/internal/service"
	"github.com/phrazzld/taskboard/internal/store"
)

// application holds all the shared application dependencies.
type application struct {
	// Configuration
	config *config.Config

	logger *slog.Logger

	// Stores
	taskStore store.TaskStore

	// Services
	taskService service.TaskService

	// Event system
	eventEmitter *events.InMemoryEventEmitter
}

// newApplication creates a new application instance with all dependencies
// initialized, seeding the store when configured to.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	app.taskStore = memory.NewTaskStore(logger)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.NewAuditLogHandler(logger))

	var err error
	app.taskService, err = service.NewTaskService(app.taskStore, app.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	if cfg.Store.SeedDemoData {
		app.taskService.Init(ctx)
		logger.Info("demo tasks seeded", slog.Int("task_count", app.taskService.Stats(ctx).Total))
	}

	return app, nil
}

// cleanup releases application resources on shutdown.
func (app *application) cleanup() {
	stats := app.taskService.Stats(context.Background())
	app.logger.Info("discarding in-memory tasks",
		slog.Int("total", stats.Total),
		slog.Int("pending", stats.Pending),
		slog.Int("completed", stats.Completed))
}
