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

	first, err := store.MarkProcessed(ctx, "pay_1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := store.MarkProcessed(ctx, "pay_1", time.Minute)
	require.NoError(t, err)
	assert.False(t, second)

	other, err := store.MarkProcessed(ctx, "pay_2", time.Minute)
	require.NoError(t, err)
	assert.True(t, other)
	assert.Equal(t, 2, store.Size())
}

func TestInMemoryIdempotencyStore_ExpiredKeyCanBeRemarked(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "pay_ttl", time.Nanosecond)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	again, err := store.MarkProcessed(ctx, "pay_ttl", time.Minute)
	require.NoError(t, err)
	assert.True(t, again)
}

func TestInMemoryIdempotencyStore_Forget(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "pay_retry", time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Forget(ctx, "pay_retry"))

	again, err := store.MarkProcessed(ctx, "pay_retry", time.Minute)
	require.NoError(t, err)
	assert.True(t, again, "a forgotten key accepts a new delivery")
}

func TestInMemoryIdempotencyStore_ConcurrentMarking(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	const goroutines = 32
	var wins int64
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			marked, err := store.MarkProcessed(ctx, "pay_race", time.Minute)
			assert.NoError(t, err)
			if marked {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins, "exactly one delivery wins the mark")
}

func TestInMemoryIdempotencyStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
