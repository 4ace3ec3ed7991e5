package cache

import (
	"context"
	"testing"
	"time"
)

func TestLRUGetMissThenHit(t *testing.T) {
	c, err := NewLRU[string, int](4, 0, true)
	if err != nil {
		t.Fatalf("NewLRU: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if _, ok := c.Get(ctx, "a"); ok {
		t.Fatal("expected a miss on an empty cache")
	}
	c.Put(ctx, "a", 1)
	v, ok := c.Get(ctx, "a")
	if !ok || v != 1 {
		t.Fatalf("expected hit with value 1, got %v, %v", v, ok)
	}

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 {
		t.Fatalf("expected 1 hit and 1 miss, got %+v", s)
	}
}

func TestLRUEvictsBeyondCapacity(t *testing.T) {
	c, err := NewLRU[int, int](2, 0, true)
	if err != nil {
		t.Fatalf("NewLRU: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	c.Put(ctx, 1, 1)
	c.Put(ctx, 2, 2)
	c.Put(ctx, 3, 3)

	if _, ok := c.Get(ctx, 1); ok {
		t.Fatal("expected the least-recently-used entry to have been evicted")
	}
	if s := c.Stats(); s.Evictions == 0 {
		t.Fatal("expected at least one recorded eviction")
	}
}

func TestLRUExpiresAfterTTL(t *testing.T) {
	c, err := NewLRU[string, int](4, time.Millisecond, true)
	if err != nil {
		t.Fatalf("NewLRU: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	c.Put(ctx, "a", 1)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get(ctx, "a"); ok {
		t.Fatal("expected the entry to have expired past its TTL")
	}
}

func TestLRURecordStatsDisabled(t *testing.T) {
	c, err := NewLRU[string, int](4, 0, false)
	if err != nil {
		t.Fatalf("NewLRU: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	c.Put(ctx, "a", 1)
	c.Get(ctx, "a")
	c.Get(ctx, "missing")

	s := c.Stats()
	if s.Hits != 0 || s.Misses != 0 {
		t.Fatalf("expected stats to stay at zero when RecordStats is false, got %+v", s)
	}
}
