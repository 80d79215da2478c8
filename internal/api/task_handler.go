package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskboard/internal/api/shared"
	"github.com/phrazzld/taskboard/internal/platform/logger"
	"github.com/phrazzld/taskboard/internal/service"
)

// TotalCountHeader carries the number of tasks matched by a list request.
const TotalCountHeader = "X-Total-Count"

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
	exposeStack bool
}

// NewTaskHandler creates a new TaskHandler. When exposeStack is set, error
// bodies for not-found and internal errors include a stack trace.
func NewTaskHandler(
	taskService service.TaskService,
	logger *slog.Logger,
	exposeStack bool,
) *TaskHandler {
	if taskService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("taskService cannot be nil for TaskHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
		exposeStack: exposeStack,
	}
}

// RegisterRoutes mounts the task routes on r, relative to its mount point.
func (h *TaskHandler) RegisterRoutes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.ListTasks)
		r.Post("/", h.CreateTask)
		r.Get("/stats", h.GetStats)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTask)
			r.Put("/", h.UpdateTask)
			r.Delete("/", h.DeleteTask)
			r.Patch("/status", h.UpdateTaskStatus)
		})
	})
}

// ListTasks handles GET /api/tasks requests
// It returns the tasks matching the query parameters and sets X-Total-Count.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	criteria, err := parseListQuery(r.URL.Query())
	if err != nil {
		log.Debug("invalid list query", slog.String("query", r.URL.RawQuery))
		h.handleError(w, r, err)
		return
	}

	tasks := h.taskService.List(r.Context(), criteria)

	w.Header().Set(TotalCountHeader, strconv.Itoa(len(tasks)))
	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// GetStats handles GET /api/tasks/stats requests
func (h *TaskHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.taskService.Stats(r.Context()))
}

// GetTask handles GET /api/tasks/{id} requests
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// CreateTask handles POST /api/tasks requests
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateTaskRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		log.Debug("invalid create task request", slog.String("error", err.Error()))
		h.handleError(w, r, err)
		return
	}

	task, err := h.taskService.Create(r.Context(), req.ToInput())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	log.Debug("task created", slog.String("task_id", task.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// UpdateTask handles PUT /api/tasks/{id} requests
// It merges the supplied fields into the task.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id := chi.URLParam(r, "id")

	var req UpdateTaskRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		log.Debug("invalid update task request",
			slog.String("task_id", id),
			slog.String("error", err.Error()))
		h.handleError(w, r, err)
		return
	}

	task, err := h.taskService.Update(r.Context(), id, req.ToPatch())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// UpdateTaskStatus handles PATCH /api/tasks/{id}/status requests
func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateStatusRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	task, err := h.taskService.SetStatus(r.Context(), id, domainStatus(req.Status))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/{id} requests
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.taskService.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	HandleAPIError(w, r, err, h.exposeStack)
}
