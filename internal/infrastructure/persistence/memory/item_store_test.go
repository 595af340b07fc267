package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novacaap/java-sample-docker/internal/domain"
	"github.com/novacaap/java-sample-docker/internal/repository"
	"github.com/novacaap/java-sample-docker/internal/repository/repotest"
)

func TestItemStore_Contract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.ItemRepository {
		return NewItemStore()
	})
}

func TestNewItemStoreWith_ContinuesAfterHighestID(t *testing.T) {
	store := NewItemStoreWith([]domain.Item{
		{ID: 10, Name: "ten"},
		{ID: 4, Name: "four"},
	})

	item, err := store.Create(context.Background(), "next", "")
	require.NoError(t, err)
	assert.Equal(t, domain.ItemID(11), item.ID)
}

func TestNewItemStoreWith_Empty(t *testing.T) {
	store := NewItemStoreWith(nil)

	items, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)

	item, err := store.Create(context.Background(), "first", "")
	require.NoError(t, err)
	assert.Equal(t, domain.ItemID(1), item.ID)
}
