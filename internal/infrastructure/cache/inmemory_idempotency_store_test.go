package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	newlyMarked, err := store.MarkProcessed(ctx, "payment:verify:pay_1", time.Hour)
	require.NoError(t, err)
	assert.True(t, newlyMarked)

	// Second mark is a replay
	newlyMarked, err = store.MarkProcessed(ctx, "payment:verify:pay_1", time.Hour)
	require.NoError(t, err)
	assert.False(t, newlyMarked)
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	processed, err := store.IsProcessed(ctx, "payment:verify:pay_2")
	require.NoError(t, err)
	assert.False(t, processed)

	_, err = store.MarkProcessed(ctx, "payment:verify:pay_2", time.Hour)
	require.NoError(t, err)

	processed, err = store.IsProcessed(ctx, "payment:verify:pay_2")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestInMemoryIdempotencyStore_ExpiredEntryIsNotProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "payment:verify:pay_3", time.Nanosecond)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	processed, err := store.IsProcessed(ctx, "payment:verify:pay_3")
	require.NoError(t, err)
	assert.False(t, processed)

	// Expired entry can be re-marked
	newlyMarked, err := store.MarkProcessed(ctx, "payment:verify:pay_3", time.Hour)
	require.NoError(t, err)
	assert.True(t, newlyMarked)
}

func TestInMemoryIdempotencyStore_ConcurrentMarks(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.MarkProcessed(ctx, "payment:verify:pay_race", time.Hour)
			require.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestInMemoryIdempotencyStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
