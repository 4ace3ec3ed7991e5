// Package index builds and queries the inverted index mapping a predicate
// id to the bitmap of combination ids that reference it. The compressed
// bitmap representation is github.com/RoaringBitmap/roaring/v2, the same
// library the complete AKJUS-bsc-erigon example vendors for its own
// large-cardinality id-set indexing; it stays efficient whether a
// predicate is referenced by a handful of combinations (sparse) or a large
// fraction of them (dense), matching spec §4's requirement.
package index

import (
	roaring "github.com/RoaringBitmap/roaring/v2"
)

// Index is predicateId -> bitmap(combinationId).
type Index struct {
	byPredicate map[uint32]*roaring.Bitmap
}

// NewBuilder starts an empty Index under construction.
func NewBuilder() *Index {
	return &Index{byPredicate: make(map[uint32]*roaring.Bitmap)}
}

// Add records that combinationID references predicateID.
func (ix *Index) Add(predicateID, combinationID uint32) {
	bm, ok := ix.byPredicate[predicateID]
	if !ok {
		bm = roaring.New()
		ix.byPredicate[predicateID] = bm
	}
	bm.Add(combinationID)
}

// Freeze runs RunOptimize on every bitmap, trading a one-time compaction
// pass at compile end for smaller, faster-to-intersect bitmaps on the hot
// path.
func (ix *Index) Freeze() {
	for _, bm := range ix.byPredicate {
		bm.RunOptimize()
	}
}

// Bitmap returns the combination-id bitmap for predicateID, or nil if the
// predicate is unused. The returned bitmap must not be mutated by callers.
func (ix *Index) Bitmap(predicateID uint32) *roaring.Bitmap {
	return ix.byPredicate[predicateID]
}

// Len returns the number of predicates with a non-empty bitmap.
func (ix *Index) Len() int {
	return len(ix.byPredicate)
}

// IntersectInto intersects the predicate's bitmap with eligible and calls f
// for every combination id in the result, without materializing an
// intermediate bitmap — the hot inner loop named in spec §9's design note.
// It walks whichever of the two bitmaps has fewer set bits and tests
// membership in the other, rather than building an AND result bitmap.
func (ix *Index) IntersectInto(predicateID uint32, eligible *roaring.Bitmap, f func(combinationID uint32)) {
	bm := ix.byPredicate[predicateID]
	if bm == nil || eligible == nil {
		return
	}
	small, large := bm, eligible
	if eligible.GetCardinality() < bm.GetCardinality() {
		small, large = eligible, bm
	}
	it := small.Iterator()
	for it.HasNext() {
		id := it.Next()
		if large.Contains(id) {
			f(id)
		}
	}
}
