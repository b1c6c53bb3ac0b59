package cache

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/snow-ghost/ideation/pkg/tokens"
)

// Observer is told about every lookup. PrometheusMetrics satisfies it.
type Observer interface {
	RecordCacheHit()
	RecordCacheMiss()
}

// TokenCache memoizes token counts of an underlying encoder. Conversation
// history is re-counted every turn, so most lookups are hits.
type TokenCache struct {
	inner    tokens.Encoder
	cache    *lru.Cache[CacheKey, int]
	config   *CacheConfig
	stats    *CacheStats
	observer Observer
	group    singleflight.Group
	mu       sync.Mutex
}

// NewTokenCache wraps inner with an LRU of token counts
func NewTokenCache(inner tokens.Encoder, config *CacheConfig) (*TokenCache, error) {
	if config == nil {
		config = DefaultCacheConfig()
	}

	c := &TokenCache{
		inner:  inner,
		config: config,
		stats:  &CacheStats{MaxSize: config.MaxSize},
	}

	cache, err := lru.NewWithEvict[CacheKey, int](config.MaxSize, func(CacheKey, int) {
		c.mu.Lock()
		c.stats.Evictions++
		c.mu.Unlock()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	c.cache = cache

	return c, nil
}

// Count returns the cached count for text, asking the inner encoder on a miss.
// Concurrent misses for the same text share one inner call. Errors are not cached.
func (c *TokenCache) Count(text string) (int, error) {
	key := GenerateKey(text)

	if n, ok := c.cache.Get(key); ok {
		c.record(true)
		return n, nil
	}
	c.record(false)

	v, err, _ := c.group.Do(string(key), func() (interface{}, error) {
		n, err := c.inner.Count(text)
		if err != nil {
			return 0, err
		}
		c.cache.Add(key, n)
		return n, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func (c *TokenCache) Encode(text string) ([]int, error) {
	return c.inner.Encode(text)
}

func (c *TokenCache) Decode(ids []int) (string, error) {
	return c.inner.Decode(ids)
}

// SetObserver installs o. Call it before the cache is shared.
func (c *TokenCache) SetObserver(o Observer) {
	c.observer = o
}

func (c *TokenCache) record(hit bool) {
	c.mu.Lock()
	if hit {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	c.mu.Unlock()

	if c.observer == nil {
		return
	}
	if hit {
		c.observer.RecordCacheHit()
	} else {
		c.observer.RecordCacheMiss()
	}
}

// Stats returns cache statistics
func (c *TokenCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := *c.stats
	stats.Size = c.cache.Len()
	stats.CalculateHitRate()
	return stats
}

// Clear drops every cached count
func (c *TokenCache) Clear() {
	c.cache.Purge()
}
