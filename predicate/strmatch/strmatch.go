// Package strmatch implements the CONTAINS predicate family: a bigram
// inverted index over needle patterns filters candidates, which are then
// verified by an actual substring check. This mirrors the teacher's Teddy
// prefilter (prefilter/teddy.go), which buckets literals by byte-pair for
// fast candidate generation before a verified match — here the "literals"
// are CONTAINS operands and the "haystack" is a single field value rather
// than a full regex search buffer. The verification step itself reuses the
// teacher's own SIMD substring search (simd.Memmem, the same rare-byte +
// Memchr routine the teacher's literal-match engine calls) instead of
// stdlib strings.Contains.
//
// Fields carrying more than automatonThreshold CONTAINS patterns also get a
// github.com/coregx/ahocorasick automaton built over all of that field's
// needles, consulted first as a bulk reject: if the automaton reports no
// match at all, none of the field's patterns can match and the bigram
// verification pass is skipped entirely. This is the same role the
// teacher's own Aho-Corasick fallback plays for alternations past 32
// literals (meta/compile.go's buildStrategyEngines) — a fast multi-pattern
// prefilter ahead of a precise check, not a replacement for it, since the
// automaton's exported surface (Find/IsMatch) never reports which pattern
// matched.
package strmatch

import (
	"github.com/coregx/ahocorasick"

	"github.com/helioseng/helios/internal/sparse"
	"github.com/helioseng/helios/simd"
)

// contains reports whether needle occurs in haystack, both already
// case-folded. Delegates to simd.Memmem (the teacher's rare-byte + Memchr
// substring search) rather than strings.Contains.
func contains(haystack, needle string) bool {
	return simd.Memmem([]byte(haystack), []byte(needle)) >= 0
}

// automatonThreshold mirrors the teacher's own Teddy->Aho-Corasick cutover
// point for "many literals" (meta/strategy.go).
const automatonThreshold = 32

// bigram packs two bytes into a dense key for the bucket map, matching
// Teddy's byte-pair bucketing scheme.
type bigram uint16

func makeBigram(a, b byte) bigram {
	return bigram(a)<<8 | bigram(b)
}

// pattern is a single registered CONTAINS operand, already case-folded.
type pattern struct {
	predicateID uint32
	text        string // folded
}

// Family indexes CONTAINS predicates per field.
type Family struct {
	byField map[uint32]*fieldIndex
}

type fieldIndex struct {
	buckets map[bigram][]pattern
	// short holds single-character patterns, which have no bigram and so
	// are always verified directly (same "short patterns" carve-out as
	// the teacher's Teddy "slim"/"fat" split for tiny needles).
	short []pattern
	// all holds every registered pattern for this field, used to build
	// automaton once the pattern count crosses automatonThreshold.
	all []pattern
	// automaton is a bulk-reject prefilter: if built and IsMatch(value)
	// is false, no pattern registered for this field can match value, so
	// the bigram verification pass can be skipped outright. Built lazily
	// by Build() once every pattern for the field is known.
	automaton *ahocorasick.Automaton
}

// NewFamily creates an empty CONTAINS Family.
func NewFamily() *Family {
	return &Family{byField: make(map[uint32]*fieldIndex)}
}

// Add registers a CONTAINS predicate. text must already be folded to the
// dictionary's canonical case.
func (f *Family) Add(fieldID, predicateID uint32, foldedText string) {
	fi, ok := f.byField[fieldID]
	if !ok {
		fi = &fieldIndex{buckets: make(map[bigram][]pattern)}
		f.byField[fieldID] = fi
	}
	p := pattern{predicateID: predicateID, text: foldedText}
	fi.all = append(fi.all, p)
	if len(foldedText) < 2 {
		fi.short = append(fi.short, p)
		return
	}
	seen := make(map[bigram]bool, len(foldedText)-1)
	for i := 0; i+1 < len(foldedText); i++ {
		bg := makeBigram(foldedText[i], foldedText[i+1])
		if seen[bg] {
			continue
		}
		seen[bg] = true
		fi.buckets[bg] = append(fi.buckets[bg], p)
	}
}

// Build finalizes every field's index, constructing an Aho-Corasick
// automaton for fields whose pattern count exceeds automatonThreshold. Must
// be called once after every Add, before any Evaluate. Safe to call on a
// Family with no registered fields.
func (f *Family) Build() error {
	for _, fi := range f.byField {
		if len(fi.all) <= automatonThreshold {
			continue
		}
		b := ahocorasick.NewBuilder()
		for _, p := range fi.all {
			b.AddPattern([]byte(p.text))
		}
		automaton, err := b.Build()
		if err != nil {
			return err
		}
		fi.automaton = automaton
	}
	return nil
}

// HasField reports whether any CONTAINS predicate is registered for
// fieldID.
func (f *Family) HasField(fieldID uint32) bool {
	_, ok := f.byField[fieldID]
	return ok
}

// Eligible reports eligible-set membership for candidate verification.
type Eligible interface {
	Contains(predicateID uint32) bool
}

// Evaluate checks value (already folded) against every CONTAINS predicate
// registered for fieldID, appending true predicate ids to out. Candidates
// are gathered via the bigram index (every bigram present in value
// contributes its bucket), deduplicated, then verified with a direct
// substring check.
func (f *Family) Evaluate(fieldID uint32, foldedValue string, eligible Eligible, out *sparse.SparseSet) {
	fi, ok := f.byField[fieldID]
	if !ok {
		return
	}

	for _, p := range fi.short {
		if eligible.Contains(p.predicateID) && contains(foldedValue, p.text) {
			out.Insert(p.predicateID)
		}
	}

	if len(foldedValue) < 2 || len(fi.buckets) == 0 {
		return
	}

	if fi.automaton != nil && !fi.automaton.IsMatch([]byte(foldedValue)) {
		return
	}

	candidates := make(map[uint32]string)
	for i := 0; i+1 < len(foldedValue); i++ {
		bg := makeBigram(foldedValue[i], foldedValue[i+1])
		for _, p := range fi.buckets[bg] {
			candidates[p.predicateID] = p.text
		}
	}
	for pid, text := range candidates {
		if eligible.Contains(pid) && contains(foldedValue, text) {
			out.Insert(pid)
		}
	}
}
