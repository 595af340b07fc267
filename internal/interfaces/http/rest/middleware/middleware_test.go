package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/novacaap/java-sample-docker/pkg/api"
)

func TestRequestIDMiddleware(t *testing.T) {
	t.Run("Should generate request ID when not provided", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()

		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NotEmpty(t, GetRequestID(r.Context()))
			w.WriteHeader(http.StatusOK)
		}))

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	})

	t.Run("Should use provided request ID", func(t *testing.T) {
		expectedID := "test-request-id"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, expectedID)
		w := httptest.NewRecorder()

		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, expectedID, GetRequestID(r.Context()))
			w.WriteHeader(http.StatusOK)
		}))

		handler.ServeHTTP(w, req)

		assert.Equal(t, expectedID, w.Header().Get(RequestIDHeader))
	})

	t.Run("Should replace oversized request ID", func(t *testing.T) {
		oversized := strings.Repeat("x", maxRequestIDLength+1)
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, oversized)
		w := httptest.NewRecorder()

		var seen string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))

		handler.ServeHTTP(w, req)

		assert.NotEqual(t, oversized, seen)
		assert.Len(t, seen, 36)
		assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	})

	t.Run("Should be empty outside a request", func(t *testing.T) {
		assert.Empty(t, GetRequestID(context.Background()))
		assert.Equal(t, "abc", GetRequestID(WithRequestID(context.Background(), "abc")))
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	t.Run("Should handle panic gracefully", func(t *testing.T) {
		core, logs := observer.New(zapcore.ErrorLevel)
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()

		handler := Recovery(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("test panic")
		}))

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
		assert.Equal(t, 1, logs.FilterMessage("Panic while serving request").Len())
	})

	t.Run("Should pass through normal requests", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()

		handler := Recovery(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
		}))

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLoggerMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := RequestID(Logger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})))

	req := httptest.NewRequest("GET", "/api/items/999", nil)
	req.Header.Set(RequestIDHeader, "abc")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(404), fields["status"])
	assert.Equal(t, "/api/items/999", fields["path"])
	assert.Equal(t, "abc", fields["requestID"])
}

type httpSample struct {
	method, route, status string
}

type fakeHTTPRecorder struct {
	samples []httpSample
}

func (f *fakeHTTPRecorder) RecordHTTPRequest(method, route, status string, _ time.Duration) {
	f.samples = append(f.samples, httpSample{method, route, status})
}

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	recorder := &fakeHTTPRecorder{}
	r := chi.NewRouter()
	r.Use(Metrics(recorder))
	r.Get("/api/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/items/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/items/2", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/nowhere", nil))

	assert.Equal(t, []httpSample{
		{"GET", "/api/items/{id}", "204"},
		{"GET", "/api/items/{id}", "204"},
		{"GET", "unmatched", "404"},
	}, recorder.samples)
}

func TestTracingMiddleware(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	r := chi.NewRouter()
	r.Use(Tracing(tp.Tracer("test")))
	r.Get("/api/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/items/5", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/items/{id}", spans[0].Name())
	assert.Equal(t, "Error", spans[0].Status().Code.String())
}

func TestTimeoutMiddleware(t *testing.T) {
	t.Run("Should answer 503 when the deadline passes silently", func(t *testing.T) {
		handler := Timeout(10*time.Millisecond, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/slow", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"error":"Request timeout"}`, w.Body.String())
	})

	t.Run("Should expose the deadline to handlers", func(t *testing.T) {
		handler := Timeout(time.Minute, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := r.Context().Deadline()
			assert.True(t, ok)
			w.WriteHeader(http.StatusOK)
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/fast", nil).WithContext(context.Background()))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
