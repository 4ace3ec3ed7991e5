// Package model defines the frozen, immutable-shared Model the compiler
// produces and the evaluator reads: dictionaries, predicate families,
// inverted index, and the Structure-of-Arrays combination metadata, plus
// the hot-swap machinery (atomic.Pointer + Generation) described in spec
// §5. The shape mirrors the teacher's meta.Engine: a single struct
// assembled once by a compile function and then only read from, with a
// monotonic counter (Generation here, Stats there) for observability.
package model

import (
	roaring "github.com/RoaringBitmap/roaring/v2"

	"github.com/helioseng/helios/cache"
	"github.com/helioseng/helios/dict"
	"github.com/helioseng/helios/index"
	"github.com/helioseng/helios/predicate"
	"github.com/helioseng/helios/predicate/equality"
	"github.com/helioseng/helios/predicate/numeric"
	"github.com/helioseng/helios/predicate/rx"
	"github.com/helioseng/helios/predicate/strmatch"
	"github.com/helioseng/helios/rule"
)

// Model is the frozen snapshot the evaluator reads. It is built once by
// the compiler and never mutated afterward; all fields are safe to read
// concurrently from any number of evaluator workers.
type Model struct {
	// Generation uniquely identifies this Model instance among all models
	// ever built in this process; evaluator contexts compare their bound
	// Generation against the currently active model's to detect hot-swap.
	Generation uint64

	FieldDict *dict.Dictionary
	ValueDict *dict.Dictionary

	// Predicates is indexed by predicate id.
	Predicates []predicate.Predicate

	// Combinations is indexed by combination id.
	Combinations []rule.Combination

	// AllCombinations is the bitmap {0, ..., len(Combinations)-1}, built
	// once at compile time so the evaluator never has to materialize it on
	// a base-condition cache miss.
	AllCombinations *roaring.Bitmap

	// CombinationRules[c] lists every (ruleCode, priority) that owns
	// combination c.
	CombinationRules [][]rule.RuleRef

	Index *index.Index

	// PredicateCount[c] == len(CombinationPredicateIDs[c]); kept as its
	// own array (rather than derived each time) because it is read on
	// every counter-increment in the evaluator's hot loop.
	PredicateCount []uint16

	// CombinationPredicateIDs[c] is the sorted predicate-id list owned by
	// combination c.
	CombinationPredicateIDs [][]uint32

	// FieldMinWeight is the cheapest reason to look at a field: the
	// minimum Weight across every predicate registered against that
	// field id, used to order field dispatch in the evaluator (cheap
	// fields first).
	FieldMinWeight map[uint32]float64

	// StaticPredicateIDs is the sorted set of predicate ids considered
	// "static" for base-condition cache fingerprinting: every EQUAL_TO
	// predicate in the model (the cheapest, most stable family). A
	// fingerprint is computed over exactly these
	// predicates' fields and the event's values for them.
	StaticPredicateIDs []uint32

	// StaticFieldIDs is the sorted, deduplicated set of field ids any
	// StaticPredicateIDs entry is registered against — exactly the fields
	// the base-condition fingerprint is computed over.
	StaticFieldIDs []uint32

	// StaticPredicateCountPerCombo[c] is the number of c's own predicate
	// ids that are static. Whenever c is a member of a base-condition
	// cache entry's eligible bitmap, every one of those static predicates
	// is known true, so the evaluator can seed Counters[c] with this
	// value directly instead of re-walking the inverted index.
	StaticPredicateCountPerCombo []uint16

	Numeric  *numeric.Family
	StrMatch *strmatch.Family
	Regex    *rx.Family
	Equal    *equality.Family

	// BaseCache memoizes the eligible-combinations bitmap for an event's
	// static-field fingerprint (spec §4.5, tier 1). A freshly built model
	// begins with empty caches of its own — caches are never carried over
	// from the model a hot-swap replaces, since combination/predicate ids
	// are not guaranteed stable across compiles.
	BaseCache *cache.BaseConditionCache

	// EligibleCache memoizes the predicate-id set owned by the eligible
	// combinations the base-condition step produced (hit or miss), keyed
	// by that bitmap's hash (spec §4.5, tier 2).
	EligibleCache *cache.EligiblePredicateCache

	ruleMetadata     map[string]*rule.Metadata
	rulesByPredicate map[uint32][]string
}

// NewEmpty constructs a zero-value Model with all maps/slices
// initialized; used by the compiler's builder before population.
func NewEmpty(generation uint64) *Model {
	return &Model{
		Generation:       generation,
		FieldMinWeight:   make(map[uint32]float64),
		ruleMetadata:     make(map[string]*rule.Metadata),
		rulesByPredicate: make(map[uint32][]string),
	}
}

// AttachCaches installs this model's base-condition and eligible-predicate
// caches. Called once by the compiler's Build after the validate stage,
// when the model's predicate/combination ids are final.
func (m *Model) AttachCaches(base *cache.BaseConditionCache, eligible *cache.EligiblePredicateCache) {
	m.BaseCache = base
	m.EligibleCache = eligible
}

// SetRuleMetadata installs the ruleCode -> Metadata and predicateId ->
// []ruleCode lookup tables. Called once by the compiler at layout-finalize
// time.
func (m *Model) SetRuleMetadata(byCode map[string]*rule.Metadata, byPredicate map[uint32][]string) {
	m.ruleMetadata = byCode
	m.rulesByPredicate = byPredicate
}

// GetRuleMetadata returns the metadata for ruleCode, or ok=false if no such
// rule exists in this model.
func (m *Model) GetRuleMetadata(ruleCode string) (*rule.Metadata, bool) {
	md, ok := m.ruleMetadata[ruleCode]
	return md, ok
}

// GetCombinationIdsForRule returns the combination ids owned by ruleCode.
func (m *Model) GetCombinationIdsForRule(ruleCode string) []uint32 {
	md, ok := m.ruleMetadata[ruleCode]
	if !ok {
		return nil
	}
	return md.CombinationIDs
}

// GetRulesUsingPredicate returns every ruleCode whose combinations
// reference predicateID.
func (m *Model) GetRulesUsingPredicate(predicateID uint32) []string {
	return m.rulesByPredicate[predicateID]
}

// GetAllRuleMetadata returns metadata for every rule in the model. The
// returned slice is freshly allocated; callers may retain it.
func (m *Model) GetAllRuleMetadata() []*rule.Metadata {
	out := make([]*rule.Metadata, 0, len(m.ruleMetadata))
	for _, md := range m.ruleMetadata {
		out = append(out, md)
	}
	return out
}

// NumCombinations returns the number of combinations in the model.
func (m *Model) NumCombinations() int {
	return len(m.Combinations)
}

// IsStaticPredicate reports whether predicateID is one of the EQUAL_TO
// predicates tracked by StaticPredicateIDs. StaticPredicateIDs is sorted at
// compile time, so this is a binary search — cheap enough for the
// base-condition cache miss path, which is the only caller.
func (m *Model) IsStaticPredicate(predicateID uint32) bool {
	ids := m.StaticPredicateIDs
	lo, hi := 0, len(ids)
	for lo < hi {
		mid := (lo + hi) / 2
		if ids[mid] < predicateID {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo < len(ids) && ids[lo] == predicateID
}
