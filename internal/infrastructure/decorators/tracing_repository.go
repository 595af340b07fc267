package decorators

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/novacaap/java-sample-docker/internal/domain"
	"github.com/novacaap/java-sample-docker/internal/repository"
)

// TraceItemRepository wraps a repository with one span per store call.
func TraceItemRepository(repo repository.ItemRepository, tracer trace.Tracer, backend string) repository.ItemRepository {
	return &tracedItemRepository{
		inner:   repo,
		tracer:  tracer,
		backend: attribute.String("store.backend", backend),
	}
}

type tracedItemRepository struct {
	inner   repository.ItemRepository
	tracer  trace.Tracer
	backend attribute.KeyValue
}

func (r *tracedItemRepository) List(ctx context.Context) ([]domain.Item, error) {
	ctx, span := r.tracer.Start(ctx, "repository.List", trace.WithAttributes(r.backend))
	defer span.End()

	items, err := r.inner.List(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("item.count", len(items)))
	return items, nil
}

func (r *tracedItemRepository) Get(ctx context.Context, id domain.ItemID) (domain.Item, bool, error) {
	ctx, span := r.tracer.Start(ctx, "repository.Get",
		trace.WithAttributes(r.backend, attribute.Int64("item.id", int64(id))),
	)
	defer span.End()

	item, found, err := r.inner.Get(ctx, id)
	if err != nil {
		recordError(span, err)
	}
	span.SetAttributes(attribute.Bool("item.found", found))
	return item, found, err
}

func (r *tracedItemRepository) Create(ctx context.Context, name, description string) (domain.Item, error) {
	ctx, span := r.tracer.Start(ctx, "repository.Create", trace.WithAttributes(r.backend))
	defer span.End()

	item, err := r.inner.Create(ctx, name, description)
	if err != nil {
		recordError(span, err)
		return item, err
	}
	span.SetAttributes(attribute.Int64("item.id", int64(item.ID)))
	return item, nil
}

func (r *tracedItemRepository) Delete(ctx context.Context, id domain.ItemID) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "repository.Delete",
		trace.WithAttributes(r.backend, attribute.Int64("item.id", int64(id))),
	)
	defer span.End()

	removed, err := r.inner.Delete(ctx, id)
	if err != nil {
		recordError(span, err)
	}
	span.SetAttributes(attribute.Bool("item.removed", removed))
	return removed, err
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
