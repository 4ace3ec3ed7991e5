package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestStatsCollectorExportsCounters(t *testing.T) {
	base, err := NewBaseConditionCache(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewBaseConditionCache: %v", err)
	}
	defer base.Close()

	reg := prometheus.NewRegistry()
	if err := reg.Register(base.Collector()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	metricFamilies, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var found bool
	for _, mf := range metricFamilies {
		if strings.HasPrefix(mf.GetName(), "helios_cache_") {
			found = true
		}
	}
	if !found {
		t.Fatal("expected at least one helios_cache_* metric family after registering the collector")
	}
}

func TestStatsCollectorReflectsHitsAndMisses(t *testing.T) {
	elig, err := NewEligiblePredicateCache(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewEligiblePredicateCache: %v", err)
	}
	defer elig.Close()

	elig.Get(context.Background(), [2]uint64{1, 2}) // miss

	s := elig.Stats()
	if s.Misses == 0 {
		t.Fatal("expected at least one recorded miss after a Get on an empty cache")
	}
}
