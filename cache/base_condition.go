package cache

import (
	"context"
	"time"

	roaring "github.com/RoaringBitmap/roaring/v2"
)

// BaseConditionEntry is the value stored per fingerprint: the bitmap of
// combinations whose static-predicate prefix is satisfied, plus how many
// of those static predicates proved true (the "prefix of true predicates"
// carried forward into step 4 of spec §4.4).
type BaseConditionEntry struct {
	Eligible  *roaring.Bitmap
	TrueCount int
}

// BaseConditionCache memoizes, per fingerprint of an event's static-field
// values, the eligible-combinations bitmap (spec §4.5).
type BaseConditionCache struct {
	backend Cache[[2]uint64, BaseConditionEntry]
}

// NewBaseConditionCache builds a BaseConditionCache over the backend
// selected by cfg.
func NewBaseConditionCache(cfg Config, onError func(error)) (*BaseConditionCache, error) {
	backend, err := buildBackend[[2]uint64, BaseConditionEntry](cfg, onError,
		func(k [2]uint64) string { return keyToString(k) },
		encodeBaseConditionEntry, decodeBaseConditionEntry)
	if err != nil {
		return nil, err
	}
	return &BaseConditionCache{backend: backend}, nil
}

// Get looks up fingerprint. A miss (including a spuriously-dropped hit
// from a lossy backend) returns ok=false — the caller always recomputes on
// miss, so backend leeway never affects correctness.
func (c *BaseConditionCache) Get(ctx context.Context, fingerprint [2]uint64) (BaseConditionEntry, bool) {
	return c.backend.Get(ctx, fingerprint)
}

// Put stores the computed entry for fingerprint.
func (c *BaseConditionCache) Put(ctx context.Context, fingerprint [2]uint64, entry BaseConditionEntry) {
	c.backend.Put(ctx, fingerprint, entry)
}

// Stats returns hit/miss/eviction counters for metrics export.
func (c *BaseConditionCache) Stats() Stats { return c.backend.Stats() }

// Collector returns a prometheus.Collector exporting this cache's counters,
// labeled "base_condition". The caller registers it with whatever registry
// they use; Helios never registers metrics on a caller's behalf.
func (c *BaseConditionCache) Collector() *StatsCollector {
	return NewStatsCollector("base_condition", c)
}

// Close releases any backend resources (e.g. a distributed backend's
// connection pool).
func (c *BaseConditionCache) Close() error { return c.backend.Close() }

func encodeBaseConditionEntry(e BaseConditionEntry) ([]byte, error) {
	bm, err := e.Eligible.ToBytes()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 4, 4+len(bm))
	out[0] = byte(e.TrueCount)
	out[1] = byte(e.TrueCount >> 8)
	out[2] = byte(e.TrueCount >> 16)
	out[3] = byte(e.TrueCount >> 24)
	out = append(out, bm...)
	return out, nil
}

func decodeBaseConditionEntry(b []byte) (BaseConditionEntry, error) {
	if len(b) < 4 {
		return BaseConditionEntry{}, errShortBuffer
	}
	trueCount := int(b[0]) | int(b[1])<<8 | int(b[2])<<16 | int(b[3])<<24
	bm := roaring.New()
	if err := bm.UnmarshalBinary(b[4:]); err != nil {
		return BaseConditionEntry{}, err
	}
	return BaseConditionEntry{Eligible: bm, TrueCount: trueCount}, nil
}

// buildBackend constructs the Cache implementation selected by cfg.Type,
// sharing this one switch across BaseConditionCache and
// EligiblePredicateCache.
func buildBackend[K comparable, V any](
	cfg Config,
	onError func(error),
	encodeKey func(K) string,
	encodeValue func(V) ([]byte, error),
	decodeValue func([]byte) (V, error),
) (Cache[K, V], error) {
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	switch cfg.Type {
	case BackendNone:
		return NewNone[K, V](), nil
	case BackendInMemoryLRU:
		return NewLRU[K, V](cfg.MaxSize, ttl, cfg.RecordStats)
	case BackendAdaptiveTinyLFU:
		return NewTinyLFU[K, V](cfg.MaxSize, ttl, cfg.RecordStats)
	case BackendAdaptive:
		return NewAdaptive[K, V](cfg.AdaptiveBand, ttl, true)
	case BackendDistributed:
		return NewDistributed[K, V](cfg.Distributed, ttl, encodeKey, encodeValue, decodeValue, cfg.RecordStats, onError), nil
	default:
		return NewLRU[K, V](cfg.MaxSize, ttl, cfg.RecordStats)
	}
}
