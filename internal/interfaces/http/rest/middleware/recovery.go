package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/novacaap/java-sample-docker/pkg/api"
)

// Recovery converts panics into a 500 JSON response and logs the stack.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// Let the server abort the connection as it normally would.
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("Panic while serving request",
					zap.Any("panic", rec),
					zap.String("requestID", GetRequestID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()),
				)

				// Nothing useful can be sent once the handler started writing.
				if w.Header().Get("Content-Type") == "" {
					api.Error(w, http.StatusInternalServerError, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
