package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/taskboard/internal/api/shared"
	"github.com/phrazzld/taskboard/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var seenTraceID string
	var seenLogger bool
	handler := NewTraceMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTraceID = shared.GetTraceID(r.Context())
		_, seenLogger = logger.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

	require.Len(t, seenTraceID, 32)
	assert.Equal(t, seenTraceID, w.Header().Get(shared.TraceIDHeader))
	assert.True(t, seenLogger)
	assert.Contains(t, buf.String(), seenTraceID)
	assert.Contains(t, buf.String(), "request started")
}

func TestTraceMiddlewareUniquePerRequest(t *testing.T) {
	handler := NewTraceMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEqual(t, first.Header().Get(shared.TraceIDHeader), second.Header().Get(shared.TraceIDHeader))
}

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "success", status: http.StatusOK, wantLevel: "INFO"},
		{name: "client error", status: http.StatusNotFound, wantLevel: "WARN"},
		{name: "server error", status: http.StatusInternalServerError, wantLevel: "ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(slog.NewJSONHandler(&buf, nil))

			handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte("hello"))
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			req = req.WithContext(logger.WithLogger(req.Context(), log))
			handler.ServeHTTP(httptest.NewRecorder(), req)

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "request completed", entry["msg"])
			assert.Equal(t, tc.wantLevel, entry["level"])
			assert.Equal(t, float64(tc.status), entry["status"])
			assert.Equal(t, float64(5), entry["bytes"])
			assert.Equal(t, "/api/tasks", entry["path"])
		})
	}
}

func TestRecoverer(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("kaboom"))
	})

	t.Run("development exposes stack", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewRecoverer(true)(panicking).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var body shared.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Internal Server Error", body.Message)
		assert.True(t, strings.HasPrefix(body.Stack, "kaboom"))
	})

	t.Run("production hides stack", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewRecoverer(false)(panicking).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"message":"Internal Server Error"}`, w.Body.String())
	})

	t.Run("non-error panic value", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler := NewRecoverer(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("plain string")
		}))
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("abort handler is re-panicked", func(t *testing.T) {
		handler := NewRecoverer(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		}))
		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}
