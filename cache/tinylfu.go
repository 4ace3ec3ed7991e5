package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// tinyLFUCache backs Cache with github.com/dgraph-io/ristretto/v2, the
// pack's W-TinyLFU-class admission+eviction cache (seen in the
// AleutianAI-AleutianFOSS and open-policy-agent-eopa dependency graphs),
// satisfying spec §4.5's `in-memory-W-TinyLFU` backend.
type tinyLFUCache[K comparable, V any] struct {
	inner       *ristretto.Cache[K, V]
	ttl         time.Duration
	recordStats bool
	stats       Stats
}

// NewTinyLFU constructs a ristretto-backed Cache sized for maxSize
// entries. ristretto sizes itself by a cost budget rather than entry
// count; maxSize is used directly as MaxCost with cost 1 per entry, which
// is the right unit here since cache values (bitmaps, predicate-id slices)
// are bounded small structures counted one-per-key.
func NewTinyLFU[K comparable, V any](maxSize int, ttl time.Duration, recordStats bool) (Cache[K, V], error) {
	inner, err := ristretto.NewCache(&ristretto.Config[K, V]{
		NumCounters: int64(maxSize) * 10,
		MaxCost:     int64(maxSize),
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &tinyLFUCache[K, V]{inner: inner, ttl: ttl, recordStats: recordStats}, nil
}

func (c *tinyLFUCache[K, V]) Get(_ context.Context, key K) (V, bool) {
	v, ok := c.inner.Get(key)
	if !ok {
		c.miss()
		var zero V
		return zero, false
	}
	c.hit()
	return v, true
}

func (c *tinyLFUCache[K, V]) Put(_ context.Context, key K, value V) {
	if c.ttl > 0 {
		c.inner.SetWithTTL(key, value, 1, c.ttl)
	} else {
		c.inner.Set(key, value, 1)
	}
}

func (c *tinyLFUCache[K, V]) Stats() Stats {
	return Stats{
		Hits:      atomic.LoadUint64(&c.stats.Hits),
		Misses:    atomic.LoadUint64(&c.stats.Misses),
		Evictions: 0,
	}
}

func (c *tinyLFUCache[K, V]) Close() error {
	c.inner.Close()
	return nil
}

func (c *tinyLFUCache[K, V]) hit() {
	if c.recordStats {
		atomic.AddUint64(&c.stats.Hits, 1)
	}
}

func (c *tinyLFUCache[K, V]) miss() {
	if c.recordStats {
		atomic.AddUint64(&c.stats.Misses, 1)
	}
}
