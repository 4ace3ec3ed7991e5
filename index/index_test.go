package index

import (
	"testing"

	roaring "github.com/RoaringBitmap/roaring/v2"
)

func TestAddAndBitmap(t *testing.T) {
	ix := NewBuilder()
	ix.Add(1, 10)
	ix.Add(1, 11)
	ix.Add(2, 20)

	bm := ix.Bitmap(1)
	if bm == nil || !bm.Contains(10) || !bm.Contains(11) || bm.Contains(20) {
		t.Fatalf("unexpected bitmap for predicate 1: %v", bm)
	}
	if ix.Bitmap(3) != nil {
		t.Fatal("expected nil bitmap for an unused predicate")
	}
}

func TestLen(t *testing.T) {
	ix := NewBuilder()
	if ix.Len() != 0 {
		t.Fatalf("expected empty index to have Len 0, got %d", ix.Len())
	}
	ix.Add(1, 10)
	ix.Add(2, 20)
	if ix.Len() != 2 {
		t.Fatalf("expected Len 2, got %d", ix.Len())
	}
}

func TestFreezeDoesNotChangeMembership(t *testing.T) {
	ix := NewBuilder()
	ix.Add(1, 10)
	ix.Add(1, 11)
	ix.Freeze()

	bm := ix.Bitmap(1)
	if !bm.Contains(10) || !bm.Contains(11) {
		t.Fatal("expected Freeze to preserve bitmap membership")
	}
}

func TestIntersectIntoYieldsOnlyCommonIDs(t *testing.T) {
	ix := NewBuilder()
	ix.Add(1, 10)
	ix.Add(1, 11)
	ix.Add(1, 12)

	eligible := roaring.New()
	eligible.Add(11)
	eligible.Add(12)
	eligible.Add(99)

	var got []uint32
	ix.IntersectInto(1, eligible, func(id uint32) {
		got = append(got, id)
	})

	if len(got) != 2 {
		t.Fatalf("expected exactly 2 combination ids, got %v", got)
	}
	seen := map[uint32]bool{got[0]: true, got[1]: true}
	if !seen[11] || !seen[12] {
		t.Fatalf("expected {11,12}, got %v", got)
	}
}

func TestIntersectIntoHandlesMissingOrNilBitmap(t *testing.T) {
	ix := NewBuilder()
	ix.Add(1, 10)

	called := false
	ix.IntersectInto(2, roaring.New(), func(uint32) { called = true })
	if called {
		t.Fatal("expected no callback for an unused predicate id")
	}

	ix.IntersectInto(1, nil, func(uint32) { called = true })
	if called {
		t.Fatal("expected no callback when eligible is nil")
	}
}

func TestIntersectIntoPicksSmallerSideRegardlessOfOrder(t *testing.T) {
	ix := NewBuilder()
	for i := uint32(0); i < 1000; i++ {
		ix.Add(1, i)
	}

	eligible := roaring.New()
	eligible.Add(5)
	eligible.Add(500)

	var got []uint32
	ix.IntersectInto(1, eligible, func(id uint32) {
		got = append(got, id)
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 results regardless of which bitmap is smaller, got %v", got)
	}
}
