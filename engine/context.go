// Package engine implements the per-event evaluation algorithm: base-
// condition cache lookup, predicate dispatch ordered by per-field minimum
// weight, counter-based conjunction matching over the inverted index, and
// selection-strategy application. Grounded in the teacher's
// meta/find.go + meta/match.go orchestration and its pooled
// searchStatePool/SearchState (meta/engine.go) for per-worker scratch
// reuse across calls.
package engine

import (
	"github.com/helioseng/helios/cache"
	"github.com/helioseng/helios/internal/conv"
	"github.com/helioseng/helios/internal/sparse"
	"github.com/helioseng/helios/model"
	"github.com/helioseng/helios/rule"
)

// Context is the per-worker reusable scratch for one evaluation (spec §3
// EvaluationContext). It is exclusively owned by the worker goroutine that
// acquired it — never shared or accessed concurrently.
type Context struct {
	// Counters[c] is the number of this combination's predicates proven
	// true so far this evaluation; invariant Counters[c] <= predicateCount[c]
	// holds throughout (spec testable property 4).
	Counters []uint16

	// Touched holds every combination id whose Counters entry is non-zero,
	// so reset only has to wipe touched entries (spec §3 invariant).
	Touched *sparse.SparseSet

	// TruePredicates holds every predicate id the dispatcher proved true
	// this evaluation.
	TruePredicates *sparse.SparseSet

	Matches []MatchEntry

	fp cache.Fingerprinter

	// BoundModel/BoundGeneration identify the model this Context's arrays
	// are sized for; the pool compares BoundGeneration against the active
	// model's Generation on every acquire to detect hot-swap (spec §5
	// "model-swap detector").
	BoundModel      *model.Model
	BoundGeneration uint64
}

// MatchEntry is one (combination, rule) pair the match detector produced,
// before selection-strategy filtering.
type MatchEntry struct {
	CombinationID uint32
	Rule          rule.RuleRef
}

// newContext allocates a Context sized for m.
func newContext(m *model.Model) *Context {
	n := m.NumCombinations()
	return &Context{
		Counters:        make([]uint16, n),
		Touched:         sparse.NewSparseSet(conv.IntToUint32(n)),
		TruePredicates:  sparse.NewSparseSet(conv.IntToUint32(len(m.Predicates))),
		BoundModel:      m,
		BoundGeneration: m.Generation,
	}
}

// reset clears only the entries touched by the last evaluation (spec §3:
// "reset() wipes only touched entries"), leaving Counters for untouched
// combinations at their zero value where they already were.
func (c *Context) reset() {
	c.Touched.Iter(func(cid uint32) { c.Counters[cid] = 0 })
	c.Touched.Clear()
	c.TruePredicates.Clear()
	c.Matches = c.Matches[:0]
}

// rebind resizes Context in place for a new model generation, replacing
// the pooled instance's arrays rather than allocating a fresh Context —
// same "replace state sized for the new engine" shape as the teacher's
// getSearchState/putSearchState pool-rebuild path.
func (c *Context) rebind(m *model.Model) {
	n := m.NumCombinations()
	if cap(c.Counters) < n {
		c.Counters = make([]uint16, n)
	} else {
		c.Counters = c.Counters[:n]
		for i := range c.Counters {
			c.Counters[i] = 0
		}
	}
	c.Touched = sparse.NewSparseSet(conv.IntToUint32(n))
	c.TruePredicates = sparse.NewSparseSet(conv.IntToUint32(len(m.Predicates)))
	c.Matches = c.Matches[:0]
	c.BoundModel = m
	c.BoundGeneration = m.Generation
}
