// Package equality implements the EQUAL_TO and NOT_EQUAL_TO predicate
// family. Per field, EQUAL_TO predicates are indexed by operand value for
// O(1) lookup (the teacher's nfa/charclass_searcher.go uses the same
// small-alphabet map-dispatch shape for character classes); NOT_EQUAL_TO
// predicates for a field are kept in a short slice and scanned linearly,
// since a field typically carries few NOT_EQUAL_TO conditions.
package equality

import (
	"github.com/helioseng/helios/internal/sparse"
)

type key struct {
	kind    int8
	valueID uint32
	number  float64
	boolean bool
}

func keyForValue(valueID uint32) key { return key{kind: 0, valueID: valueID} }
func keyForNumber(n float64) key     { return key{kind: 1, number: n} }
func keyForBool(b bool) key          { return key{kind: 2, boolean: b} }

type notEqual struct {
	predicateID uint32
	k           key
}

// Family indexes EQUAL_TO/NOT_EQUAL_TO predicates per field.
type Family struct {
	equal    map[uint32]map[key][]uint32
	notEqual map[uint32][]notEqual
}

// NewFamily creates an empty equality Family.
func NewFamily() *Family {
	return &Family{
		equal:    make(map[uint32]map[key][]uint32),
		notEqual: make(map[uint32][]notEqual),
	}
}

// AddEqualValue registers an EQUAL_TO predicate over an interned string
// value.
func (f *Family) AddEqualValue(fieldID, predicateID, valueID uint32) {
	f.addEqual(fieldID, predicateID, keyForValue(valueID))
}

// AddEqualNumber registers an EQUAL_TO predicate over a raw numeric value.
func (f *Family) AddEqualNumber(fieldID, predicateID uint32, n float64) {
	f.addEqual(fieldID, predicateID, keyForNumber(n))
}

// AddEqualBool registers an EQUAL_TO predicate over a boolean value.
func (f *Family) AddEqualBool(fieldID, predicateID uint32, b bool) {
	f.addEqual(fieldID, predicateID, keyForBool(b))
}

func (f *Family) addEqual(fieldID, predicateID uint32, k key) {
	m, ok := f.equal[fieldID]
	if !ok {
		m = make(map[key][]uint32)
		f.equal[fieldID] = m
	}
	m[k] = append(m[k], predicateID)
}

// AddNotEqualValue registers a NOT_EQUAL_TO predicate over an interned
// string value.
func (f *Family) AddNotEqualValue(fieldID, predicateID, valueID uint32) {
	f.notEqual[fieldID] = append(f.notEqual[fieldID], notEqual{predicateID: predicateID, k: keyForValue(valueID)})
}

// AddNotEqualNumber registers a NOT_EQUAL_TO predicate over a raw numeric
// value.
func (f *Family) AddNotEqualNumber(fieldID, predicateID uint32, n float64) {
	f.notEqual[fieldID] = append(f.notEqual[fieldID], notEqual{predicateID: predicateID, k: keyForNumber(n)})
}

// AddNotEqualBool registers a NOT_EQUAL_TO predicate over a boolean value.
func (f *Family) AddNotEqualBool(fieldID, predicateID uint32, b bool) {
	f.notEqual[fieldID] = append(f.notEqual[fieldID], notEqual{predicateID: predicateID, k: keyForBool(b)})
}

// HasField reports whether any equality predicate is registered for
// fieldID.
func (f *Family) HasField(fieldID uint32) bool {
	if _, ok := f.equal[fieldID]; ok {
		return true
	}
	if _, ok := f.notEqual[fieldID]; ok {
		return true
	}
	return false
}

// Eligible reports eligible-set membership for candidate filtering.
type Eligible interface {
	Contains(predicateID uint32) bool
}

// EvaluateValue dispatches an interned string value for fieldID.
func (f *Family) EvaluateValue(fieldID, valueID uint32, eligible Eligible, out *sparse.SparseSet) {
	f.evaluate(fieldID, keyForValue(valueID), eligible, out)
}

// EvaluateNumber dispatches a raw numeric value for fieldID.
func (f *Family) EvaluateNumber(fieldID uint32, n float64, eligible Eligible, out *sparse.SparseSet) {
	f.evaluate(fieldID, keyForNumber(n), eligible, out)
}

// EvaluateBool dispatches a boolean value for fieldID.
func (f *Family) EvaluateBool(fieldID uint32, b bool, eligible Eligible, out *sparse.SparseSet) {
	f.evaluate(fieldID, keyForBool(b), eligible, out)
}

func (f *Family) evaluate(fieldID uint32, k key, eligible Eligible, out *sparse.SparseSet) {
	if m, ok := f.equal[fieldID]; ok {
		for _, pid := range m[k] {
			if eligible.Contains(pid) {
				out.Insert(pid)
			}
		}
	}
	f.evaluateNotEqual(fieldID, k, eligible, out)
}

func (f *Family) evaluateNotEqual(fieldID uint32, k key, eligible Eligible, out *sparse.SparseSet) {
	for _, ne := range f.notEqual[fieldID] {
		if ne.k != k && eligible.Contains(ne.predicateID) {
			out.Insert(ne.predicateID)
		}
	}
}

// EvaluateNotEqualValue dispatches only NOT_EQUAL_TO predicates for an
// interned string value, skipping the EQUAL_TO family entirely. Used by the
// evaluator's phase-2 dispatch, which has already handled EQUAL_TO
// predicates via the base-condition cache and must not double-count them.
func (f *Family) EvaluateNotEqualValue(fieldID, valueID uint32, eligible Eligible, out *sparse.SparseSet) {
	f.evaluateNotEqual(fieldID, keyForValue(valueID), eligible, out)
}

// EvaluateNotEqualNumber dispatches only NOT_EQUAL_TO predicates for a raw
// numeric value.
func (f *Family) EvaluateNotEqualNumber(fieldID uint32, n float64, eligible Eligible, out *sparse.SparseSet) {
	f.evaluateNotEqual(fieldID, keyForNumber(n), eligible, out)
}

// EvaluateNotEqualBool dispatches only NOT_EQUAL_TO predicates for a
// boolean value.
func (f *Family) EvaluateNotEqualBool(fieldID uint32, b bool, eligible Eligible, out *sparse.SparseSet) {
	f.evaluateNotEqual(fieldID, keyForBool(b), eligible, out)
}

// EvaluateNotEqualUnknown marks every NOT_EQUAL_TO predicate registered for
// fieldID as true. Used when the event's value for fieldID was never
// interned into the value dictionary at all: it cannot equal any specific
// operand a rule names, so every NOT_EQUAL_TO condition on that field holds
// by construction.
func (f *Family) EvaluateNotEqualUnknown(fieldID uint32, eligible Eligible, out *sparse.SparseSet) {
	for _, ne := range f.notEqual[fieldID] {
		if eligible.Contains(ne.predicateID) {
			out.Insert(ne.predicateID)
		}
	}
}
