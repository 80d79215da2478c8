package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/phrazzld/taskboard/internal/api/shared"
	"github.com/phrazzld/taskboard/internal/platform/logger"
	"github.com/phrazzld/taskboard/internal/redact"
)

// NewRecoverer returns middleware that turns a panic into a 500 response with
// the same body as any other internal error. The stack trace is included in
// the body only when exposeStack is set.
func NewRecoverer(exposeStack bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					// The server suppresses the stack for this sentinel
					panic(rec)
				}

				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", rec)
				}
				stack := string(debug.Stack())

				logger.FromContextOrDefault(r.Context(), slog.Default()).Error("recovered from panic",
					slog.String("error", redact.Error(err)),
					slog.String("stack", stack))

				var opts []shared.ResponseOption
				if exposeStack {
					opts = append(opts, shared.WithStack(fmt.Sprintf("%v\n%s", err, stack)))
				}
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
					"Internal Server Error", err, opts...)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
