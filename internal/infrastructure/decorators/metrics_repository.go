package decorators

import (
	"context"
	"time"

	"github.com/novacaap/java-sample-docker/internal/domain"
	"github.com/novacaap/java-sample-docker/internal/repository"
)

// OperationRecorder receives the outcome and latency of each store call.
type OperationRecorder interface {
	RecordRepoOperation(operation, backend string, err error, duration time.Duration)
}

// MetricsItemRepository records a counter and latency sample per store call.
type MetricsItemRepository struct {
	inner    repository.ItemRepository
	recorder OperationRecorder
	backend  string
}

var _ repository.ItemRepository = (*MetricsItemRepository)(nil)

// NewMetricsItemRepository wraps inner so every call is reported to recorder.
func NewMetricsItemRepository(inner repository.ItemRepository, recorder OperationRecorder, backend string) *MetricsItemRepository {
	return &MetricsItemRepository{inner: inner, recorder: recorder, backend: backend}
}

func (r *MetricsItemRepository) List(ctx context.Context) ([]domain.Item, error) {
	start := time.Now()
	items, err := r.inner.List(ctx)
	r.recorder.RecordRepoOperation("list", r.backend, err, time.Since(start))
	return items, err
}

func (r *MetricsItemRepository) Get(ctx context.Context, id domain.ItemID) (domain.Item, bool, error) {
	start := time.Now()
	item, found, err := r.inner.Get(ctx, id)
	r.recorder.RecordRepoOperation("get", r.backend, err, time.Since(start))
	return item, found, err
}

func (r *MetricsItemRepository) Create(ctx context.Context, name, description string) (domain.Item, error) {
	start := time.Now()
	item, err := r.inner.Create(ctx, name, description)
	r.recorder.RecordRepoOperation("create", r.backend, err, time.Since(start))
	return item, err
}

func (r *MetricsItemRepository) Delete(ctx context.Context, id domain.ItemID) (bool, error) {
	start := time.Now()
	removed, err := r.inner.Delete(ctx, id)
	r.recorder.RecordRepoOperation("delete", r.backend, err, time.Since(start))
	return removed, err
}
