package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/novacaap/java-sample-docker/pkg/api"
)

// Timeout attaches a deadline to the request context. Store calls observe it;
// when the deadline passes before anything was written the client gets a 503.
func Timeout(timeout time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) && ww.Status() == 0 {
				logger.Warn("Request timeout",
					zap.String("requestID", GetRequestID(r.Context())),
					zap.Duration("timeout", timeout),
				)
				api.Error(ww, http.StatusServiceUnavailable, "Request timeout")
			}
		})
	}
}
