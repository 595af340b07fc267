// Package repotest is a contract suite every ItemRepository implementation
// must pass. Backends call Run from their own tests with a factory that
// returns a freshly seeded store.
package repotest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novacaap/java-sample-docker/internal/domain"
	"github.com/novacaap/java-sample-docker/internal/repository"
)

// Factory builds a new, seeded repository for a single sub-test.
type Factory func(t *testing.T) repository.ItemRepository

// Run executes the contract suite.
func Run(t *testing.T, newRepo Factory) {
	t.Run("fresh store lists the seed items", func(t *testing.T) {
		repo := newRepo(t)

		items, err := repo.List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.SeedItems(), items)
	})

	t.Run("create assigns the next id", func(t *testing.T) {
		repo := newRepo(t)

		item, err := repo.Create(context.Background(), "New Item", "Created by test")
		require.NoError(t, err)
		assert.Equal(t, domain.ItemID(3), item.ID)
		assert.Equal(t, "New Item", item.Name)
		assert.Equal(t, "Created by test", item.Description)
	})

	t.Run("list keeps insertion order", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		a, err := repo.Create(ctx, "alpha", "a")
		require.NoError(t, err)
		b, err := repo.Create(ctx, "beta", "b")
		require.NoError(t, err)

		items, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, append(domain.SeedItems(), a, b), items)
	})

	t.Run("get returns created items", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		created, err := repo.Create(ctx, "Unnamed", "")
		require.NoError(t, err)

		got, found, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, created, got)
	})

	t.Run("get unknown id is not found", func(t *testing.T) {
		_, found, err := newRepo(t).Get(context.Background(), 999)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("delete removes and is idempotent", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		removed, err := repo.Delete(ctx, 1)
		require.NoError(t, err)
		assert.True(t, removed)

		_, found, err := repo.Get(ctx, 1)
		require.NoError(t, err)
		assert.False(t, found)

		removed, err = repo.Delete(ctx, 1)
		require.NoError(t, err)
		assert.False(t, removed)

		removed, err = repo.Delete(ctx, 12345)
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("ids are never reused", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		first, err := repo.Create(ctx, "first", "")
		require.NoError(t, err)
		_, err = repo.Delete(ctx, first.ID)
		require.NoError(t, err)

		second, err := repo.Create(ctx, "second", "")
		require.NoError(t, err)
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("list returns a snapshot", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		items, err := repo.List(ctx)
		require.NoError(t, err)
		items[0].Name = "mutated"

		got, found, err := repo.Get(ctx, items[0].ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "First Item", got.Name)
	})

	t.Run("concurrent creates get unique increasing ids", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		const workers = 16
		ids := make(chan domain.ItemID, workers)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				item, err := repo.Create(ctx, fmt.Sprintf("item-%d", n), "")
				if assert.NoError(t, err) {
					ids <- item.ID
				}
			}(i)
		}
		wg.Wait()
		close(ids)

		seen := make(map[domain.ItemID]bool)
		for id := range ids {
			assert.False(t, seen[id], "id %d issued twice", id)
			assert.Greater(t, id, domain.ItemID(2))
			seen[id] = true
		}
		assert.Len(t, seen, workers)

		items, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, items, workers+2)
		for i := 1; i < len(items); i++ {
			assert.Less(t, items[i-1].ID, items[i].ID)
		}
	})
}
