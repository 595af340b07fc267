package badger

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/novacaap/java-sample-docker/internal/domain"
	"github.com/novacaap/java-sample-docker/internal/repository"
	"github.com/novacaap/java-sample-docker/internal/repository/repotest"
)

// setupTestDB opens an in-memory Badger instance that is closed with the test.
func setupTestDB(t *testing.T) *badger.DB {
	db, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestItemStore_Contract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.ItemRepository {
		store, err := NewItemStore(setupTestDB(t), true, zap.NewNop())
		require.NoError(t, err)
		return store
	})
}

func TestItemStore_SeedsOnlyOnce(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	first, err := NewItemStore(db, true, zap.NewNop())
	require.NoError(t, err)
	removed, err := first.Delete(ctx, 1)
	require.NoError(t, err)
	require.True(t, removed)

	// Reopening over the same data must not bring the deleted seed back.
	second, err := NewItemStore(db, true, zap.NewNop())
	require.NoError(t, err)

	items, err := second.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Item{domain.SeedItems()[1]}, items)

	created, err := second.Create(ctx, "after reopen", "")
	require.NoError(t, err)
	assert.Equal(t, domain.ItemID(3), created.ID)
}

func TestItemStore_WithoutSeed(t *testing.T) {
	ctx := context.Background()
	store, err := NewItemStore(setupTestDB(t), false, zap.NewNop())
	require.NoError(t, err)

	items, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	created, err := store.Create(ctx, "first", "")
	require.NoError(t, err)
	assert.Equal(t, domain.ItemID(1), created.ID)
}

func TestItemKey_SortsNumerically(t *testing.T) {
	assert.Less(t, string(itemKey(9)), string(itemKey(10)))
	assert.Less(t, string(itemKey(99)), string(itemKey(100)))
}
