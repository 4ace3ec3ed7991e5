package cache

import (
	"context"
	"testing"
	"time"
)

func TestAdaptiveStartsAtMinSize(t *testing.T) {
	c, err := NewAdaptive[string, int](AdaptiveBandConfig{
		MinSize:              8,
		MaxSize:              64,
		LowHitRateThreshold:  0.3,
		HighHitRateThreshold: 0.9,
	}, 0, false)
	if err != nil {
		t.Fatalf("NewAdaptive: %v", err)
	}
	defer c.Close()

	a := c.(*adaptiveCache[string, int])
	if a.curSize != 8 {
		t.Fatalf("expected initial size 8, got %d", a.curSize)
	}
}

func TestAdaptiveGetPutDelegatesToInner(t *testing.T) {
	c, err := NewAdaptive[string, int](AdaptiveBandConfig{MinSize: 4, MaxSize: 16}, 0, false)
	if err != nil {
		t.Fatalf("NewAdaptive: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	c.Put(ctx, "a", 1)
	v, ok := c.Get(ctx, "a")
	if !ok || v != 1 {
		t.Fatalf("expected hit with value 1, got %v, %v", v, ok)
	}
}

func TestAdaptiveGrowsOnLowHitRate(t *testing.T) {
	c, err := NewAdaptive[string, int](AdaptiveBandConfig{
		MinSize:               4,
		MaxSize:               64,
		LowHitRateThreshold:   0.9,
		HighHitRateThreshold:  0.99,
		TuningIntervalSeconds: 0,
	}, 0, false)
	if err != nil {
		t.Fatalf("NewAdaptive: %v", err)
	}
	defer c.Close()

	a := c.(*adaptiveCache[string, int])
	a.cfg.TuningIntervalSeconds = 1

	fixed := time.Now()
	a.now = func() time.Time { return fixed }
	a.lastTune = fixed.Add(-2 * time.Second)

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		c.Get(ctx, "missing")
	}
	a.maybeTune()

	if a.curSize <= 4 {
		t.Fatalf("expected capacity to grow after a sustained low hit rate, stayed at %d", a.curSize)
	}
}
