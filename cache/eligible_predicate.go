package cache

import (
	"context"

	roaring "github.com/RoaringBitmap/roaring/v2"
)

// EligiblePredicateCache memoizes the set of predicate ids that still need
// evaluation after the base-condition lookup narrows the combination set —
// spec §4.5's second cache tier, keyed by HashBitmap of the
// eligible-combinations bitmap (the same [2]uint64 key shape as
// BaseConditionCache's fingerprint).
type EligiblePredicateCache struct {
	backend Cache[[2]uint64, *roaring.Bitmap]
}

// NewEligiblePredicateCache builds an EligiblePredicateCache over the
// backend selected by cfg.
func NewEligiblePredicateCache(cfg Config, onError func(error)) (*EligiblePredicateCache, error) {
	backend, err := buildBackend[[2]uint64, *roaring.Bitmap](cfg, onError,
		keyToString, encodeBitmap, decodeBitmap)
	if err != nil {
		return nil, err
	}
	return &EligiblePredicateCache{backend: backend}, nil
}

// Get looks up fingerprint.
func (c *EligiblePredicateCache) Get(ctx context.Context, fingerprint [2]uint64) (*roaring.Bitmap, bool) {
	return c.backend.Get(ctx, fingerprint)
}

// Put stores the eligible-predicate-id bitmap for fingerprint.
func (c *EligiblePredicateCache) Put(ctx context.Context, fingerprint [2]uint64, eligible *roaring.Bitmap) {
	c.backend.Put(ctx, fingerprint, eligible)
}

// Stats returns hit/miss/eviction counters for metrics export.
func (c *EligiblePredicateCache) Stats() Stats { return c.backend.Stats() }

// Collector returns a prometheus.Collector exporting this cache's
// counters, labeled "eligible_predicate".
func (c *EligiblePredicateCache) Collector() *StatsCollector {
	return NewStatsCollector("eligible_predicate", c)
}

// Close releases any backend resources.
func (c *EligiblePredicateCache) Close() error { return c.backend.Close() }

func encodeBitmap(bm *roaring.Bitmap) ([]byte, error) {
	return bm.ToBytes()
}

func decodeBitmap(b []byte) (*roaring.Bitmap, error) {
	bm := roaring.New()
	if err := bm.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return bm, nil
}
