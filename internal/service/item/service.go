// Package item implements the item use cases on top of the storage port.
package item

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/novacaap/java-sample-docker/internal/domain"
	"github.com/novacaap/java-sample-docker/internal/ports"
	"github.com/novacaap/java-sample-docker/internal/repository"
	appErrors "github.com/novacaap/java-sample-docker/pkg/errors"
)

// publishTimeout bounds a single event delivery.
const publishTimeout = 2 * time.Second

// Recorder receives business counters.
type Recorder interface {
	RecordItemCreated()
	RecordItemDeleted()
}

type noopRecorder struct{}

func (noopRecorder) RecordItemCreated() {}
func (noopRecorder) RecordItemDeleted() {}

// Service applies request defaults, calls the store and publishes item events.
type Service struct {
	repo      repository.ItemRepository
	publisher ports.EventPublisher
	metrics   Recorder
	now       func() time.Time
	logger    *zap.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRecorder reports created and deleted items to r.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.metrics = r }
}

// NewService creates a new item service. A nil publisher disables events.
func NewService(
	repo repository.ItemRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	if publisher == nil {
		publisher = ports.NoopEventPublisher{}
	}
	s := &Service{
		repo:      repo,
		publisher: publisher,
		metrics:   noopRecorder{},
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every item in insertion order.
func (s *Service) List(ctx context.Context) ([]domain.Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, "list items")
	}
	return items, nil
}

// Get returns the item or a not-found error.
func (s *Service) Get(ctx context.Context, id domain.ItemID) (domain.Item, error) {
	item, found, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Item{}, appErrors.Wrap(err, fmt.Sprintf("get item %d", id))
	}
	if !found {
		return domain.Item{}, appErrors.NewNotFound(fmt.Sprintf("item %d", id))
	}
	return item, nil
}

// Create stores a new item, filling in defaults for omitted fields.
func (s *Service) Create(ctx context.Context, draft domain.NewItemDraft) (domain.Item, error) {
	name, description := draft.Resolve()

	item, err := s.repo.Create(ctx, name, description)
	if err != nil {
		return domain.Item{}, appErrors.Wrap(err, "create item")
	}

	s.metrics.RecordItemCreated()
	s.logger.Info("Item created", zap.Int64("itemId", int64(item.ID)))
	s.publish(ctx, domain.NewItemCreated(item, s.now()))
	return item, nil
}

// Delete removes the item or returns a not-found error when it does not exist.
func (s *Service) Delete(ctx context.Context, id domain.ItemID) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, fmt.Sprintf("delete item %d", id))
	}
	if !removed {
		return appErrors.NewNotFound(fmt.Sprintf("item %d", id))
	}

	s.metrics.RecordItemDeleted()
	s.logger.Info("Item deleted", zap.Int64("itemId", int64(id)))
	s.publish(ctx, domain.NewItemDeleted(id, s.now()))
	return nil
}

// publish delivers the event on a best-effort basis. Failures are logged and
// never reach the caller.
func (s *Service) publish(ctx context.Context, event domain.ItemEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish item event",
			zap.String("eventType", event.Type),
			zap.Int64("itemId", int64(event.ItemID)),
			zap.Error(err),
		)
	}
}
