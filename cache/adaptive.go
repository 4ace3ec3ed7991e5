package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// adaptiveCache wraps an inner LRU or TinyLFU cache and resizes it by
// hit-rate band: when the observed hit rate drops below
// LowHitRateThreshold the capacity grows (more room reduces eviction
// churn); when it rises above HighHitRateThreshold the capacity shrinks
// back down, freeing memory once the working set is well covered. Bands
// are sampled every TuningIntervalSeconds. This control loop is bespoke
// (no pack library implements hit-rate-banded auto-resize — see
// DESIGN.md); it wraps the two library-backed caches above rather than
// reimplementing eviction itself.
type adaptiveCache[K comparable, V any] struct {
	mu       sync.Mutex
	cfg      AdaptiveBandConfig
	ttl      time.Duration
	useLFU   bool
	curSize  int
	inner    Cache[K, V]
	lastTune time.Time
	now      func() time.Time

	hits   uint64
	misses uint64

	// tunedHits/tunedMisses are the hits/misses totals at the previous
	// tuning pass (guarded by mu), so each pass sees only its own window
	// while Stats stays monotonic.
	tunedHits   uint64
	tunedMisses uint64
}

// NewAdaptive constructs an adaptive Cache that starts at cfg.MinSize and
// resizes within [cfg.MinSize, cfg.MaxSize] by hit-rate band. useLFU
// selects ristretto (W-TinyLFU) as the inner backend instead of the
// hashicorp LRU.
func NewAdaptive[K comparable, V any](cfg AdaptiveBandConfig, ttl time.Duration, useLFU bool) (Cache[K, V], error) {
	a := &adaptiveCache[K, V]{cfg: cfg, ttl: ttl, useLFU: useLFU, now: time.Now}
	size := cfg.MinSize
	if size <= 0 {
		size = 1024
	}
	inner, err := a.build(size)
	if err != nil {
		return nil, err
	}
	a.inner = inner
	a.curSize = size
	a.lastTune = a.now()
	return a, nil
}

func (a *adaptiveCache[K, V]) build(size int) (Cache[K, V], error) {
	if a.useLFU {
		return NewTinyLFU[K, V](size, a.ttl, true)
	}
	return NewLRU[K, V](size, a.ttl, true)
}

func (a *adaptiveCache[K, V]) Get(ctx context.Context, key K) (V, bool) {
	a.mu.Lock()
	inner := a.inner
	a.mu.Unlock()

	v, ok := inner.Get(ctx, key)
	if ok {
		atomic.AddUint64(&a.hits, 1)
	} else {
		atomic.AddUint64(&a.misses, 1)
	}
	a.maybeTune()
	return v, ok
}

func (a *adaptiveCache[K, V]) Put(ctx context.Context, key K, value V) {
	a.mu.Lock()
	inner := a.inner
	a.mu.Unlock()

	inner.Put(ctx, key, value)
}

func (a *adaptiveCache[K, V]) maybeTune() {
	interval := time.Duration(a.cfg.TuningIntervalSeconds) * time.Second
	if interval <= 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.now().Sub(a.lastTune) < interval {
		return
	}
	a.lastTune = a.now()

	allHits := atomic.LoadUint64(&a.hits)
	allMisses := atomic.LoadUint64(&a.misses)
	hits, misses := allHits-a.tunedHits, allMisses-a.tunedMisses
	a.tunedHits, a.tunedMisses = allHits, allMisses
	total := hits + misses
	if total == 0 {
		return
	}
	rate := float64(hits) / float64(total)

	newSize := a.curSize
	switch {
	case rate < a.cfg.LowHitRateThreshold && a.curSize < a.cfg.MaxSize:
		newSize = a.curSize * 2
		if newSize > a.cfg.MaxSize {
			newSize = a.cfg.MaxSize
		}
	case rate > a.cfg.HighHitRateThreshold && a.curSize > a.cfg.MinSize:
		newSize = a.curSize / 2
		if newSize < a.cfg.MinSize {
			newSize = a.cfg.MinSize
		}
	}
	if newSize == a.curSize {
		return
	}
	if inner, err := a.build(newSize); err == nil {
		a.inner = inner
		a.curSize = newSize
	}
}

func (a *adaptiveCache[K, V]) Stats() Stats {
	s := a.inner.Stats()
	s.Hits = atomic.LoadUint64(&a.hits)
	s.Misses = atomic.LoadUint64(&a.misses)
	return s
}

func (a *adaptiveCache[K, V]) Close() error {
	return a.inner.Close()
}
