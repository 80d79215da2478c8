package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/taskboard/internal/api/shared"
	"github.com/phrazzld/taskboard/internal/config"
	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestApp(t, false, config.EnvTest).setupRouter()

	w := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	assert.Len(t, w.Header().Get(shared.TraceIDHeader), 32)
}

func TestEveryResponseCarriesTraceID(t *testing.T) {
	router := newTestApp(t, true, config.EnvTest).setupRouter()

	paths := []string{"/api/tasks", "/api/tasks/missing", "/api/tasks?q=", "/nowhere", "/favicon.ico"}
	for _, path := range paths {
		w := serve(router, httptest.NewRequest(http.MethodGet, path, nil))
		assert.NotEmpty(t, w.Header().Get(shared.TraceIDHeader), path)
	}
}

func TestSeededTasksAreListed(t *testing.T) {
	router := newTestApp(t, true, config.EnvTest).setupRouter()

	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/tasks?sort=priority&order=desc", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3", w.Header().Get("X-Total-Count"))

	var tasks []domain.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.Len(t, tasks, 3)
	assert.Equal(t, domain.PriorityHigh, tasks[0].Priority)
	assert.Equal(t, domain.PriorityLow, tasks[2].Priority)
}

func TestStackOnlyOutsideProduction(t *testing.T) {
	dev := newTestApp(t, false, config.EnvDevelopment).setupRouter()
	prod := newTestApp(t, false, config.EnvProduction).setupRouter()

	w := serve(dev, httptest.NewRequest(http.MethodGet, "/api/tasks/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"stack"`)

	w = serve(prod, httptest.NewRequest(http.MethodGet, "/api/tasks/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Task not found"}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	router := newTestApp(t, false, config.EnvTest).setupRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := serve(router, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = serve(router, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRouteIsJSON(t *testing.T) {
	router := newTestApp(t, false, config.EnvTest).setupRouter()

	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"RouteNotFound","method":"GET","path":"/api/nope"}`, w.Body.String())

	w = serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, strings.TrimSpace(w.Body.String()))
}
