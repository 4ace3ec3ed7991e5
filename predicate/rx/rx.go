// Package rx implements the REGEX predicate family: each predicate holds a
// pattern compiled once at compile time to stdlib regexp, evaluated at
// match time as a full-match test against the event's original (non-folded)
// string. Per spec §4.3.3 this family is never vectorized; the teacher's
// own automaton machinery (nfa/, dfa/) exists to implement generic regex
// search, which this spec does not need — a predicate's pattern either
// fully matches a whole attribute value or it doesn't, so delegating to
// stdlib regexp's MatchString on a \A...\z-anchored pattern is both correct
// and, unlike a hand-rolled automaton, already proven.
package rx

import (
	"fmt"
	"regexp"

	"github.com/helioseng/helios/internal/sparse"
)

type compiled struct {
	predicateID uint32
	re          *regexp.Regexp
}

// Family holds compiled REGEX predicates per field.
type Family struct {
	byField map[uint32][]compiled
}

// NewFamily creates an empty REGEX Family.
func NewFamily() *Family {
	return &Family{byField: make(map[uint32][]compiled)}
}

// Compile compiles pattern as a full-match regex. The caller-supplied
// pattern is wrapped so that stdlib regexp's leftmost-first search
// semantics behave as a full-match test.
func Compile(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(`\A(?:` + pattern + `)\z`)
}

// Add registers a pre-compiled REGEX predicate for fieldID.
func (f *Family) Add(fieldID, predicateID uint32, re *regexp.Regexp) {
	f.byField[fieldID] = append(f.byField[fieldID], compiled{predicateID: predicateID, re: re})
}

// HasField reports whether any REGEX predicate is registered for fieldID.
func (f *Family) HasField(fieldID uint32) bool {
	_, ok := f.byField[fieldID]
	return ok
}

// Eligible reports eligible-set membership for candidate filtering.
type Eligible interface {
	Contains(predicateID uint32) bool
}

// Evaluate full-matches original (non-folded) against every REGEX
// predicate registered for fieldID, appending true predicate ids to out.
func (f *Family) Evaluate(fieldID uint32, original string, eligible Eligible, out *sparse.SparseSet) {
	for _, c := range f.byField[fieldID] {
		if !eligible.Contains(c.predicateID) {
			continue
		}
		if c.re.MatchString(original) {
			out.Insert(c.predicateID)
		}
	}
}

// CompileError wraps a regexp compilation failure with the offending
// pattern, matching the teacher's *CompileError{Pattern, Err} shape.
type CompileError struct {
	Pattern string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("rx: invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }
