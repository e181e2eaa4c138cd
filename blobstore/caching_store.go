package blobstore

import (
	"context"
	"slices"

	"github.com/hupe1980/sparse/internal/cache"
	"golang.org/x/sync/singleflight"
)

// CachingStore wraps a Store and caches whole blobs in an LRU bounded by
// bytes. Concurrent misses for the same blob share one backend read.
type CachingStore struct {
	inner Store
	cache *cache.LRU
	group singleflight.Group
}

// NewCachingStore creates a new CachingStore holding at most capacity bytes.
func NewCachingStore(inner Store, capacity int64) *CachingStore {
	return &CachingStore{
		inner: inner,
		cache: cache.NewLRU(capacity),
	}
}

// Put writes through and drops any cached copy.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.cache.Remove(name)
	err := s.inner.Put(ctx, name, data)
	// A reader may have refilled the entry while the write was in flight
	s.cache.Remove(name)
	return err
}

// Get serves from the cache, falling back to the wrapped store.
func (s *CachingStore) Get(ctx context.Context, name string) ([]byte, error) {
	if data, ok := s.cache.Get(name); ok {
		return slices.Clone(data), nil
	}

	v, err, _ := s.group.Do(name, func() (any, error) {
		data, err := s.inner.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		s.cache.Set(name, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]byte)), nil
}

// Delete removes the blob and its cached copy.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.cache.Remove(name)
	return s.inner.Delete(ctx, name)
}

// List is passed through uncached.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns the cache hit and miss counters.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.cache.Stats()
}
