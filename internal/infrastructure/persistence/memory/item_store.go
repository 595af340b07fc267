package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/novacaap/java-sample-docker/internal/domain"
	"github.com/novacaap/java-sample-docker/internal/repository"
)

// ItemStore provides an in-memory implementation of repository.ItemRepository.
// One RWMutex guards both the ordered sequence and the id counter.
type ItemStore struct {
	mu     sync.RWMutex
	items  []domain.Item
	nextID domain.ItemID
}

var _ repository.ItemRepository = (*ItemStore)(nil)

// NewItemStore creates a store holding the seed items.
func NewItemStore() *ItemStore {
	return NewItemStoreWith(domain.SeedItems())
}

// NewItemStoreWith creates a store holding the given items. The counter
// continues after the highest seeded id.
func NewItemStoreWith(seed []domain.Item) *ItemStore {
	store := &ItemStore{
		items:  slices.Clone(seed),
		nextID: 1,
	}
	for _, item := range seed {
		if item.ID >= store.nextID {
			store.nextID = item.ID + 1
		}
	}
	return store
}

// List returns a copy of the current sequence.
func (s *ItemStore) List(ctx context.Context) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.items), nil
}

// Get scans the sequence for the first item with a matching id.
func (s *ItemStore) Get(ctx context.Context, id domain.ItemID) (domain.Item, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, found := lo.Find(s.items, func(it domain.Item) bool {
		return it.ID == id
	})
	return item, found, nil
}

// Create appends a new item under the next id.
func (s *ItemStore) Create(ctx context.Context, name, description string) (domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := domain.Item{
		ID:          s.nextID,
		Name:        name,
		Description: description,
	}
	s.nextID++
	s.items = append(s.items, item)

	return item, nil
}

// Delete removes the item with the given id if present.
func (s *ItemStore) Delete(ctx context.Context, id domain.ItemID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, idx, found := lo.FindIndexOf(s.items, func(it domain.Item) bool {
		return it.ID == id
	})
	if !found {
		return false, nil
	}

	s.items = slices.Delete(s.items, idx, idx+1)
	return true, nil
}
