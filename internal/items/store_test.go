package items

import (
	"context"
	"sync"
	"testing"

	"github.com/Aidin1998/itemsvc/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	return NewMemoryStore(nil)
}

func ptr[T any](v T) *T { return &v }

func TestCreateAssignsIncreasingIDs(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := s.Create(ctx, "a", decimal.NewFromInt(1))
	second := s.Create(ctx, "b", decimal.NewFromInt(2))

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, "b", second.Name)
	assert.True(t, second.Price.Equal(decimal.NewFromInt(2)))
}

func TestIDsAreNeverReused(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	a := s.Create(ctx, "a", decimal.Zero)
	b := s.Create(ctx, "b", decimal.Zero)
	require.NoError(t, s.Delete(ctx, b.ID))
	require.NoError(t, s.Delete(ctx, a.ID))

	c := s.Create(ctx, "c", decimal.Zero)
	assert.Greater(t, c.ID, b.ID)
}

func TestListKeepsInsertionOrder(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	assert.NotNil(t, s.List(ctx))
	assert.Empty(t, s.List(ctx))

	names := []string{"first", "second", "third", "fourth"}
	for _, n := range names {
		s.Create(ctx, n, decimal.NewFromInt(5))
	}
	require.NoError(t, s.Delete(ctx, 2))

	got := s.List(ctx)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, "third", got[1].Name)
	assert.Equal(t, "fourth", got[2].Name)
}

func TestGetMissing(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAppliesSuppliedFields(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	item := s.Create(ctx, "Item 1", decimal.NewFromInt(10))

	updated, err := s.Update(ctx, item.ID, models.ItemPatch{Name: ptr("Item 1 updated")})
	require.NoError(t, err)
	assert.Equal(t, "Item 1 updated", updated.Name)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(10)))

	updated, err = s.Update(ctx, item.ID, models.ItemPatch{Price: ptr(decimal.Zero)})
	require.NoError(t, err)
	assert.True(t, updated.Price.IsZero())
	assert.Equal(t, "Item 1 updated", updated.Name)

	stored, err := s.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestUpdateMissing(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.Update(context.Background(), 7, models.ItemPatch{Name: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMissing(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	item := s.Create(ctx, "a", decimal.Zero)

	require.NoError(t, s.Delete(ctx, item.ID))
	assert.ErrorIs(t, s.Delete(ctx, item.ID), ErrNotFound)
	assert.Equal(t, 0, s.Len(ctx))
}

func TestConcurrentCreateAndDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	const n = 200
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- s.Create(ctx, "load", decimal.NewFromInt(1)).ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, n)
	deleted := 0
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
		if id%2 == 0 {
			wg.Add(1)
			deleted++
			go func(id int64) {
				defer wg.Done()
				assert.NoError(t, s.Delete(ctx, id))
			}(id)
		}
	}
	wg.Wait()

	assert.Equal(t, n-deleted, s.Len(ctx))
	assert.Len(t, s.List(ctx), n-deleted)
}
