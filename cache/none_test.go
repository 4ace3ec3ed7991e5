package cache

import (
	"context"
	"testing"
)

func TestNoneAlwaysMisses(t *testing.T) {
	c := NewNone[string, int]()
	ctx := context.Background()

	c.Put(ctx, "a", 1)
	if _, ok := c.Get(ctx, "a"); ok {
		t.Fatal("expected the none backend to never produce a hit, even right after Put")
	}
	if s := c.Stats(); s != (Stats{}) {
		t.Fatalf("expected zero stats from the none backend, got %+v", s)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
