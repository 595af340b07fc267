// Package ports declares the outbound interfaces the item service depends on
// besides storage.
package ports

import (
	"context"

	"github.com/novacaap/java-sample-docker/internal/domain"
)

// EventPublisher delivers item events to interested parties outside the process.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ItemEvent) error
}

// NoopEventPublisher drops every event. It is used when events are disabled.
type NoopEventPublisher struct{}

// Publish implements EventPublisher.
func (NoopEventPublisher) Publish(context.Context, domain.ItemEvent) error {
	return nil
}
