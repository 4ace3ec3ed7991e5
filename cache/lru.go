package cache

import (
	"context"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// lruCache backs Cache with github.com/hashicorp/golang-lru/v2, the LRU
// library referenced in the pack's open-policy-agent-eopa batch-query
// handler (prepared-query cache) and carried in hashicorp-nomad's go.mod.
type lruCache[K comparable, V any] struct {
	inner       *lru.Cache[K, entry[V]]
	ttl         time.Duration
	recordStats bool
	stats       Stats
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// NewLRU constructs an LRU-backed Cache with the given capacity and TTL.
// ttl <= 0 disables expiry.
func NewLRU[K comparable, V any](maxSize int, ttl time.Duration, recordStats bool) (Cache[K, V], error) {
	inner, err := lru.New[K, entry[V]](maxSize)
	if err != nil {
		return nil, err
	}
	return &lruCache[K, V]{inner: inner, ttl: ttl, recordStats: recordStats}, nil
}

func (c *lruCache[K, V]) Get(_ context.Context, key K) (V, bool) {
	e, ok := c.inner.Get(key)
	if !ok {
		c.miss()
		var zero V
		return zero, false
	}
	if c.ttl > 0 && time.Now().After(e.expiresAt) {
		c.inner.Remove(key)
		c.miss()
		var zero V
		return zero, false
	}
	c.hit()
	return e.value, true
}

func (c *lruCache[K, V]) Put(_ context.Context, key K, value V) {
	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = time.Now().Add(c.ttl)
	}
	evicted := c.inner.Add(key, entry[V]{value: value, expiresAt: expiresAt})
	if evicted && c.recordStats {
		atomic.AddUint64(&c.stats.Evictions, 1)
	}
}

func (c *lruCache[K, V]) Stats() Stats {
	return Stats{
		Hits:      atomic.LoadUint64(&c.stats.Hits),
		Misses:    atomic.LoadUint64(&c.stats.Misses),
		Evictions: atomic.LoadUint64(&c.stats.Evictions),
	}
}

func (c *lruCache[K, V]) Close() error { return nil }

func (c *lruCache[K, V]) hit() {
	if c.recordStats {
		atomic.AddUint64(&c.stats.Hits, 1)
	}
}

func (c *lruCache[K, V]) miss() {
	if c.recordStats {
		atomic.AddUint64(&c.stats.Misses, 1)
	}
}
