// Package numeric implements the GREATER_THAN / LESS_THAN / BETWEEN
// predicate family.
//
// Predicates are grouped per (fieldId, operator) into parallel
// Structure-of-Arrays: a threshold (or [lo,hi]) per predicate, stored
// alongside the owning predicate id. Evaluation walks the group's
// parallel arrays and compares the event's numeric value against each
// entry directly — there is no SIMD primitive in this codebase for
// broadcasting a scalar across numeric comparison lanes (the teacher's
// simd package covers byte search and ASCII detection, not numeric
// threshold comparison; see predicate/strmatch for where that package is
// actually put to use), so this stays a plain Go loop rather than
// pretending to a vectorization it doesn't have.
package numeric

import (
	"github.com/helioseng/helios/internal/sparse"
)

// group holds one (fieldId, operator) cohort of predicates.
type group struct {
	predicateIDs []uint32
	lo           []float64
	hi           []float64 // unused for single-threshold operators
}

// Family indexes numeric predicates by field and operator for batch
// evaluation.
type Family struct {
	greaterThan map[uint32]*group
	lessThan    map[uint32]*group
	between     map[uint32]*group
}

// NewFamily creates an empty numeric Family.
func NewFamily() *Family {
	return &Family{
		greaterThan: make(map[uint32]*group),
		lessThan:    make(map[uint32]*group),
		between:     make(map[uint32]*group),
	}
}

// AddGreaterThan registers a GREATER_THAN predicate.
func (f *Family) AddGreaterThan(fieldID, predicateID uint32, threshold float64) {
	g := f.groupFor(f.greaterThan, fieldID)
	g.predicateIDs = append(g.predicateIDs, predicateID)
	g.lo = append(g.lo, threshold)
}

// AddLessThan registers a LESS_THAN predicate.
func (f *Family) AddLessThan(fieldID, predicateID uint32, threshold float64) {
	g := f.groupFor(f.lessThan, fieldID)
	g.predicateIDs = append(g.predicateIDs, predicateID)
	g.lo = append(g.lo, threshold)
}

// AddBetween registers a BETWEEN predicate with inclusive bounds [lo, hi].
func (f *Family) AddBetween(fieldID, predicateID uint32, lo, hi float64) {
	g := f.groupFor(f.between, fieldID)
	g.predicateIDs = append(g.predicateIDs, predicateID)
	g.lo = append(g.lo, lo)
	g.hi = append(g.hi, hi)
}

func (f *Family) groupFor(m map[uint32]*group, fieldID uint32) *group {
	g, ok := m[fieldID]
	if !ok {
		g = &group{}
		m[fieldID] = g
	}
	return g
}

// HasField reports whether any numeric predicate is registered for fieldID.
func (f *Family) HasField(fieldID uint32) bool {
	if _, ok := f.greaterThan[fieldID]; ok {
		return true
	}
	if _, ok := f.lessThan[fieldID]; ok {
		return true
	}
	if _, ok := f.between[fieldID]; ok {
		return true
	}
	return false
}

// Eligible reports whether a predicate id is a member of the eligible set.
// The evaluator passes its own membership test (backed by the eligible
// combinations' union predicate set) so batches can skip ineligible
// candidates without a full bitmap materialization.
type Eligible interface {
	Contains(predicateID uint32) bool
}

// Evaluate dispatches value for fieldID against every registered numeric
// predicate, appending ids that evaluate true into out. value must be a
// finite float64; non-numeric event values are never routed here (see
// engine's dispatcher, which only calls Evaluate for fields the event
// encoded as numbers).
func (f *Family) Evaluate(fieldID uint32, value float64, eligible Eligible, out *sparse.SparseSet) {
	if g, ok := f.greaterThan[fieldID]; ok {
		batchCompareGT(g, value, eligible, out)
	}
	if g, ok := f.lessThan[fieldID]; ok {
		batchCompareLT(g, value, eligible, out)
	}
	if g, ok := f.between[fieldID]; ok {
		batchCompareBetween(g, value, eligible, out)
	}
}

func batchCompareGT(g *group, value float64, eligible Eligible, out *sparse.SparseSet) {
	for i, pid := range g.predicateIDs {
		if value > g.lo[i] && eligible.Contains(pid) {
			out.Insert(pid)
		}
	}
}

func batchCompareLT(g *group, value float64, eligible Eligible, out *sparse.SparseSet) {
	for i, pid := range g.predicateIDs {
		if value < g.lo[i] && eligible.Contains(pid) {
			out.Insert(pid)
		}
	}
}

func batchCompareBetween(g *group, value float64, eligible Eligible, out *sparse.SparseSet) {
	for i, pid := range g.predicateIDs {
		if value >= g.lo[i] && value <= g.hi[i] && eligible.Contains(pid) {
			out.Insert(pid)
		}
	}
}
