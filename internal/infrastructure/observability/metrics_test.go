package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Records(t *testing.T) {
	c := NewCollector("sample")

	c.RecordHTTPRequest(http.MethodGet, "/api/items", "200", 10*time.Millisecond)
	c.RecordHTTPRequest(http.MethodGet, "/api/items", "200", 5*time.Millisecond)
	c.RecordItemCreated()
	c.RecordItemDeleted()
	c.RecordRepoOperation("create", "memory", nil, time.Millisecond)
	c.RecordRepoOperation("create", "memory", errors.New("boom"), time.Millisecond)
	c.SetBreakerState("dynamodb", 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/api/items", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ItemsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ItemsDeleted))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RepoOperations.WithLabelValues("create", "memory", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RepoOperations.WithLabelValues("create", "memory", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.BreakerState.WithLabelValues("dynamodb")))
}

func TestCollector_SeparateRegistries(t *testing.T) {
	a := NewCollector("sample")
	b := NewCollector("sample")

	a.RecordItemCreated()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.ItemsCreated))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.ItemsCreated))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("sample")
	c.RecordItemCreated()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sample_items_created_total 1")
}

func TestInitTracing_Disabled(t *testing.T) {
	tp, err := InitTracing(context.Background(), TracingConfig{ServiceName: "sample-api"})
	require.NoError(t, err)

	assert.False(t, tp.Enabled())
	_, span := tp.Tracer().Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, tp.Shutdown(context.Background()))
}
