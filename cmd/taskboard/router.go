package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/taskboard/internal/api"
	apiMiddleware "github.com/phrazzld/taskboard/internal/api/middleware"
	"github.com/phrazzld/taskboard/internal/api/shared"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	exposeStack := !app.config.Server.IsProduction()

	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(apiMiddleware.RequestLogger)
	r.Use(apiMiddleware.NewRecoverer(exposeStack))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.config.CORS.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{api.TotalCountHeader, shared.TraceIDHeader},
		MaxAge:         300,
	}))

	r.NotFound(api.NotFoundHandler)
	r.MethodNotAllowed(api.NotFoundHandler)

	taskHandler := api.NewTaskHandler(app.taskService, app.logger, exposeStack)
	r.Route("/api", taskHandler.RegisterRoutes)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
