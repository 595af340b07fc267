package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Business metrics
	ItemsCreated prometheus.Counter
	ItemsDeleted prometheus.Counter

	// Repository metrics
	RepoOperations *prometheus.CounterVec
	RepoDuration   *prometheus.HistogramVec

	// Circuit breaker state: 0 closed, 1 half-open, 2 open
	BreakerState *prometheus.GaugeVec
}

// NewCollector creates a metrics collector with its own registry.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	itemsCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_created_total",
			Help:      "Total number of items created",
		},
	)

	itemsDeleted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_deleted_total",
			Help:      "Total number of items deleted",
		},
	)

	repoOperations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repository_operations_total",
			Help:      "Total number of item store operations",
		},
		[]string{"operation", "backend", "status"},
	)

	repoDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "repository_operation_duration_seconds",
			Help:      "Item store operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "backend"},
	)

	breakerState := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		itemsCreated,
		itemsDeleted,
		repoOperations,
		repoDuration,
		breakerState,
	)

	return &Collector{
		registry:       registry,
		HTTPRequests:   httpRequests,
		HTTPDuration:   httpDuration,
		ItemsCreated:   itemsCreated,
		ItemsDeleted:   itemsDeleted,
		RepoOperations: repoOperations,
		RepoDuration:   repoDuration,
		BreakerState:   breakerState,
	}
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRepoOperation records one item store call.
func (c *Collector) RecordRepoOperation(operation, backend string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.RepoOperations.WithLabelValues(operation, backend, status).Inc()
	c.RepoDuration.WithLabelValues(operation, backend).Observe(duration.Seconds())
}

// RecordItemCreated increments the created items counter.
func (c *Collector) RecordItemCreated() {
	c.ItemsCreated.Inc()
}

// RecordItemDeleted increments the deleted items counter.
func (c *Collector) RecordItemDeleted() {
	c.ItemsDeleted.Inc()
}

// SetBreakerState publishes the numeric state of a named circuit breaker.
func (c *Collector) SetBreakerState(name string, state float64) {
	c.BreakerState.WithLabelValues(name).Set(state)
}
