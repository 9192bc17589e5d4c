package assets

import (
	"context"
	"sync"

	"github.com/golang/groupcache/lru"
	"github.com/golang/groupcache/singleflight"

	"github.com/alexisbeaulieu97/colorpick/internal/ports"
)

// DefaultCacheEntries is the number of assets a CachingFetcher keeps.
const DefaultCacheEntries = 32

// CachingFetcher keeps recently fetched assets in memory and collapses
// concurrent requests for the same reference into one origin fetch. Failed
// fetches are not cached.
type CachingFetcher struct {
	origin ports.Fetcher
	group  singleflight.Group

	mu    sync.Mutex
	cache *lru.Cache
}

// NewCachingFetcher wraps origin with an LRU of maxEntries assets.
func NewCachingFetcher(origin ports.Fetcher, maxEntries int) *CachingFetcher {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	return &CachingFetcher{
		origin: origin,
		cache:  lru.New(maxEntries),
	}
}

// Fetch implements ports.Fetcher.
func (c *CachingFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if data, ok := c.lookup(ref); ok {
		return data, nil
	}

	v, err := c.group.Do(ref, func() (interface{}, error) {
		if data, ok := c.lookup(ref); ok {
			return data, nil
		}
		// Waiters share this fetch, so one caller cancelling must not fail the rest.
		data, err := c.origin.Fetch(context.WithoutCancel(ctx), ref)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.cache.Add(ref, data)
		c.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return clone(v.([]byte)), nil
}

// Len returns the number of cached assets.
func (c *CachingFetcher) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

func (c *CachingFetcher) lookup(ref string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.cache.Get(ref)
	if !ok {
		return nil, false
	}
	return clone(v.([]byte)), true
}

// Callers parse and mutate what they fetch, so every caller gets its own copy.
func clone(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	return out
}

var _ ports.Fetcher = (*CachingFetcher)(nil)
