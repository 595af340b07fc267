// Package repository defines the storage port the item service depends on.
package repository

import (
	"context"

	"github.com/novacaap/java-sample-docker/internal/domain"
)

// ItemRepository owns the authoritative item collection and its id counter.
//
// Absent ids are reported through the found/removed booleans, never as an
// error. The error return is reserved for backend failures; the in-memory
// implementation never produces one.
type ItemRepository interface {
	// List returns a snapshot of all items in insertion order.
	List(ctx context.Context) ([]domain.Item, error)

	// Get returns the item with the given id.
	Get(ctx context.Context, id domain.ItemID) (domain.Item, bool, error)

	// Create assigns the next id and appends the item.
	Create(ctx context.Context, name, description string) (domain.Item, error)

	// Delete removes the item with the given id, reporting whether one existed.
	Delete(ctx context.Context, id domain.ItemID) (bool, error)
}
