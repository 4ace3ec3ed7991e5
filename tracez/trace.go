// Package tracez implements lazy evaluation tracing: the hot path records
// only field/predicate/combination ids and primitive counters (never
// strings), and all dictionary decoding / string formatting is deferred
// until a caller actually renders the trace (spec §9 "Lazy trace" design
// note). Grounded in the teacher's own lazy-statistics idiom: meta.Engine
// accumulates a plain counters struct (meta/engine.go's Stats) on the hot
// path and only formats it on demand via an accessor, never during a
// search.
package tracez

import (
	"fmt"

	"github.com/helioseng/helios/model"
)

// FieldStep records one field's dispatch outcome: which predicate ids (if
// any) evaluated true for it. Only ids and a count are captured — no
// string is built until Render.
type FieldStep struct {
	FieldID         uint32
	TruePredicates  []uint32
	PredicatesTried int
}

// Snapshot is the hot-path trace record for one evaluation: references and
// primitive counts only.
type Snapshot struct {
	Steps           []FieldStep
	MatchedCombos   []uint32
	PredicatesTotal int
}

// Trace wraps a Snapshot with the model needed to decode it, deferring
// every dictionary lookup until Render is called.
type Trace struct {
	snap  Snapshot
	model *model.Model
}

// New wraps snap for later rendering against m.
func New(snap Snapshot, m *model.Model) *Trace {
	return &Trace{snap: snap, model: m}
}

// Snapshot returns the raw, undecoded trace record.
func (t *Trace) Snapshot() Snapshot { return t.snap }

// Render materializes the trace into human-readable lines, decoding field
// and predicate identities only now, at serialization time — never on the
// hot evaluation path.
func (t *Trace) Render() []string {
	out := make([]string, 0, len(t.snap.Steps)+1)
	for _, step := range t.snap.Steps {
		name, ok := t.model.FieldDict.Decode(step.FieldID)
		if !ok {
			name = fmt.Sprintf("field#%d", step.FieldID)
		}
		out = append(out, fmt.Sprintf("%s: %d/%d predicates true", name, len(step.TruePredicates), step.PredicatesTried))
	}
	out = append(out, fmt.Sprintf("matched %d combination(s), %d predicate(s) evaluated total", len(t.snap.MatchedCombos), t.snap.PredicatesTotal))
	return out
}
