package blobstore

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	*MemoryStore
	gets atomic.Int64
}

func (c *countingStore) Get(ctx context.Context, name string) ([]byte, error) {
	c.gets.Add(1)
	return c.MemoryStore.Get(ctx, name)
}

func TestCachingStore_Get(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{MemoryStore: NewMemoryStore()}
	require.NoError(t, inner.Put(ctx, "a", []byte("hello")))

	store := NewCachingStore(inner, 1<<20)

	for range 3 {
		data, err := store.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), data)
	}
	assert.Equal(t, int64(1), inner.gets.Load())

	hits, misses := store.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
}

func TestCachingStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewCachingStore(NewMemoryStore(), 1<<20)
	require.NoError(t, store.Put(ctx, "a", []byte("abc")))

	data, err := store.Get(ctx, "a")
	require.NoError(t, err)
	data[0] = 'x'

	data, err = store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)
}

func TestCachingStore_Invalidation(t *testing.T) {
	ctx := context.Background()
	store := NewCachingStore(NewMemoryStore(), 1<<20)

	require.NoError(t, store.Put(ctx, "a", []byte("v1")))
	data, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), data)

	require.NoError(t, store.Put(ctx, "a", []byte("v2")))
	data, err = store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)

	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCachingStore_ConcurrentMisses(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{MemoryStore: NewMemoryStore()}
	require.NoError(t, inner.Put(ctx, "a", make([]byte, 128)))
	store := NewCachingStore(inner, 1<<20)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := store.Get(ctx, "a")
			assert.NoError(t, err)
			assert.Len(t, data, 128)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, inner.gets.Load(), int64(16))
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names)
}
