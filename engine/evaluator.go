package engine

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	roaring "github.com/RoaringBitmap/roaring/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/helioseng/helios/cache"
	"github.com/helioseng/helios/config"
	"github.com/helioseng/helios/event"
	"github.com/helioseng/helios/internal/conv"
	"github.com/helioseng/helios/internal/sparse"
	"github.com/helioseng/helios/model"
	"github.com/helioseng/helios/predicate"
	"github.com/helioseng/helios/rule"
	"github.com/helioseng/helios/tracez"
)

// Evaluator runs the per-event matching algorithm (spec §4.4) against a
// hot-swappable Model, reusing pooled Context scratch across calls. Mirrors
// the teacher's Regex{prog *syntax.Prog} + pooled searchState: an immutable
// program behind an atomic pointer, plus per-call scratch drawn from a
// sync.Pool.
type Evaluator struct {
	model   atomic.Pointer[model.Model]
	pool    *contextPool
	cfg     config.EvaluatorConfig
	latency prometheus.Histogram
	matches prometheus.Counter
}

// Metrics returns the prometheus collectors exporting this Evaluator's
// per-call latency histogram and cumulative match counter. The caller
// registers them with their own registry; per spec's metrics Non-goal,
// Helios emits counters without aggregating or exporting them itself.
func (e *Evaluator) Metrics() []prometheus.Collector {
	return []prometheus.Collector{e.latency, e.matches}
}

// NewEvaluator builds an Evaluator bound to m with cfg's tunables.
func NewEvaluator(m *model.Model, cfg config.EvaluatorConfig) *Evaluator {
	e := &Evaluator{
		pool: newContextPool(),
		cfg:  cfg,
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "helios_evaluation_duration_seconds",
			Help:    "Per-event evaluation latency.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		matches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "helios_evaluations_matched_total",
			Help: "Total evaluations that matched at least one rule.",
		}),
	}
	e.model.Store(m)
	return e
}

// SwapModel atomically replaces the active model (spec §5 hot-swap). In-
// flight Evaluate calls keep using the Context they already acquired;
// subsequent acquires rebind to the new generation.
func (e *Evaluator) SwapModel(m *model.Model) {
	e.model.Store(m)
}

// Model returns the currently active model.
func (e *Evaluator) Model() *model.Model {
	return e.model.Load()
}

// Evaluate runs the full matching algorithm against a single event (spec
// §4.4).
func (e *Evaluator) Evaluate(ctx context.Context, ev *event.Event) (*MatchResult, error) {
	res, _, err := e.evaluate(ctx, ev, false)
	return res, err
}

// EvaluateBatch runs Evaluate independently over every event in evs,
// returning one MatchResult per input in the same order. A per-event error
// does not abort the batch; the corresponding result is nil.
func (e *Evaluator) EvaluateBatch(ctx context.Context, evs []*event.Event) ([]*MatchResult, error) {
	out := make([]*MatchResult, len(evs))
	var firstErr error
	for i, ev := range evs {
		res, err := e.Evaluate(ctx, ev)
		out[i] = res
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return out, firstErr
}

// EvaluateWithTrace runs Evaluate while also capturing a lazy trace: the hot
// path records only ids and counts (tracez.Snapshot), and all decoding is
// deferred to Trace.Render, called only if the caller asks (spec §6/§9).
func (e *Evaluator) EvaluateWithTrace(ctx context.Context, ev *event.Event) (*MatchResult, *tracez.Trace, error) {
	return e.evaluate(ctx, ev, true)
}

func (e *Evaluator) evaluate(ctx context.Context, ev *event.Event, withTrace bool) (*MatchResult, *tracez.Trace, error) {
	start := time.Now()
	if ev == nil || ev.EventID == "" {
		return nil, nil, errInvalidEvent("eventId must be non-empty")
	}

	m := e.model.Load()
	enc := event.Encode(ev, m)
	c := e.pool.acquire(m)

	eligibleCombos, baseTrueCount := e.resolveBaseCondition(ctx, m, enc, c)

	for _, cid := range iterateBitmap(eligibleCombos) {
		n := m.StaticPredicateCountPerCombo[cid]
		if n > 0 {
			c.Counters[cid] = n
			c.Touched.Insert(cid)
		}
	}

	eligiblePredicates := e.resolveEligiblePredicates(ctx, m, eligibleCombos)

	var steps []tracez.FieldStep
	fields := presentFieldsByWeight(m, enc)
	for _, fieldID := range fields {
		before := c.TruePredicates.Size()
		dispatchField(m, fieldID, enc, eligiblePredicates, c.TruePredicates)
		if withTrace {
			after := c.TruePredicates.Size()
			added := append([]uint32(nil), c.TruePredicates.Values()[before:after]...)
			steps = append(steps, tracez.FieldStep{FieldID: fieldID, TruePredicates: added, PredicatesTried: len(added)})
		}
	}

	newlyTrue := c.TruePredicates.Values()
	for _, pid := range newlyTrue {
		m.Index.IntersectInto(pid, eligibleCombos, func(cid uint32) {
			c.Counters[cid]++
			c.Touched.Insert(cid)
		})
	}

	c.Matches = c.Matches[:0]
	c.Touched.Iter(func(cid uint32) {
		if c.Counters[cid] >= m.PredicateCount[cid] {
			for _, ref := range m.CombinationRules[cid] {
				c.Matches = append(c.Matches, MatchEntry{CombinationID: cid, Rule: ref})
			}
		}
	})

	selected := applySelection(e.cfg.Strategy, c.Matches)
	hits := make([]RuleHit, 0, len(selected))
	matchedCombos := make([]uint32, 0, len(selected))
	for _, mt := range selected {
		desc := ""
		if md, ok := m.GetRuleMetadata(mt.Rule.RuleCode); ok {
			desc = md.Description
		}
		hits = append(hits, RuleHit{RuleCode: mt.Rule.RuleCode, Priority: mt.Rule.Priority, Description: desc})
		matchedCombos = append(matchedCombos, mt.CombinationID)
	}

	result := &MatchResult{
		EventID:             ev.EventID,
		MatchedRules:        hits,
		EvaluationTimeNanos: time.Since(start).Nanoseconds(),
		PredicatesEvaluated: baseTrueCount + len(newlyTrue),
		MatchedCount:        len(hits),
	}

	var trace *tracez.Trace
	if withTrace {
		snap := tracez.Snapshot{
			Steps:           steps,
			MatchedCombos:   matchedCombos,
			PredicatesTotal: result.PredicatesEvaluated,
		}
		trace = tracez.New(snap, m)
	}

	e.pool.release(c)
	e.latency.Observe(time.Since(start).Seconds())
	if result.MatchedCount > 0 {
		e.matches.Inc()
	}
	return result, trace, nil
}

// resolveBaseCondition implements spec §4.4 steps 2-4: fingerprint the
// event's static fields, consult the base-condition cache, and on a miss
// evaluate the static (EQUAL_TO) predicates once to populate it.
func (e *Evaluator) resolveBaseCondition(ctx context.Context, m *model.Model, enc *event.Encoded, c *Context) (*roaring.Bitmap, int) {
	if len(m.StaticFieldIDs) == 0 {
		return m.AllCombinations, 0
	}

	pairs := make([]cache.FieldValue, len(m.StaticFieldIDs))
	for i, fieldID := range m.StaticFieldIDs {
		if v, ok := enc.Values[fieldID]; ok {
			pairs[i] = fieldValueOf(fieldID, v)
		} else {
			pairs[i] = cache.FieldValue{FieldID: fieldID}
		}
	}
	fp := c.fp.Fingerprint(pairs)

	if m.BaseCache != nil {
		if entry, ok := m.BaseCache.Get(ctx, fp); ok {
			return entry.Eligible, entry.TrueCount
		}
	}

	trueStatic := sparse.NewSparseSet(conv.IntToUint32(len(m.Predicates)))
	filter := staticFilter{m: m}
	for _, fieldID := range m.StaticFieldIDs {
		v, ok := enc.Values[fieldID]
		if !ok {
			continue
		}
		switch v.Kind {
		case event.KindNumber:
			m.Equal.EvaluateNumber(fieldID, v.Number, filter, trueStatic)
		case event.KindBool:
			m.Equal.EvaluateBool(fieldID, v.Bool, filter, trueStatic)
		case event.KindString:
			if v.HasValueID {
				m.Equal.EvaluateValue(fieldID, v.ValueID, filter, trueStatic)
			}
		}
	}

	disqualified := roaring.New()
	for _, pid := range m.StaticPredicateIDs {
		if trueStatic.Contains(pid) {
			continue
		}
		if bm := m.Index.Bitmap(pid); bm != nil {
			disqualified.Or(bm)
		}
	}
	eligible := m.AllCombinations.Clone()
	eligible.AndNot(disqualified)

	if m.BaseCache != nil {
		m.BaseCache.Put(ctx, fp, cache.BaseConditionEntry{Eligible: eligible, TrueCount: trueStatic.Size()})
	}
	return eligible, trueStatic.Size()
}

// staticFilter restricts family dispatch to predicate ids the model tracks
// as static (EQUAL_TO), so the combined EQUAL_TO/NOT_EQUAL_TO evaluator in
// predicate/equality never leaks a NOT_EQUAL_TO id into the static phase.
type staticFilter struct{ m *model.Model }

func (f staticFilter) Contains(predicateID uint32) bool { return f.m.IsStaticPredicate(predicateID) }

// resolveEligiblePredicates implements spec §4.4/§4.5 tier 2: the union of
// predicate ids owned by any combination in eligibleCombos, memoized by the
// bitmap's identity hash.
func (e *Evaluator) resolveEligiblePredicates(ctx context.Context, m *model.Model, eligibleCombos *roaring.Bitmap) *roaring.Bitmap {
	key := cache.HashBitmap(eligibleCombos)
	if m.EligibleCache != nil {
		if bm, ok := m.EligibleCache.Get(ctx, key); ok {
			return bm
		}
	}

	out := roaring.New()
	for _, cid := range iterateBitmap(eligibleCombos) {
		for _, pid := range m.CombinationPredicateIDs[cid] {
			out.Add(pid)
		}
	}
	if m.EligibleCache != nil {
		m.EligibleCache.Put(ctx, key, out)
	}
	return out
}

func fieldValueOf(fieldID uint32, v event.Value) cache.FieldValue {
	switch v.Kind {
	case event.KindString:
		if v.HasValueID {
			return cache.FieldValue{FieldID: fieldID, Present: true, IsString: true, ValueID: v.ValueID}
		}
		return cache.FieldValue{FieldID: fieldID, Present: true, IsString: true, ValueID: math.MaxUint32}
	case event.KindNumber:
		return cache.FieldValue{FieldID: fieldID, Present: true, Bits: math.Float64bits(v.Number)}
	case event.KindBool:
		bits := uint64(0)
		if v.Bool {
			bits = 1
		}
		return cache.FieldValue{FieldID: fieldID, Present: true, Bits: bits}
	default:
		return cache.FieldValue{FieldID: fieldID, Present: true}
	}
}

func iterateBitmap(bm *roaring.Bitmap) []uint32 {
	if bm == nil {
		return nil
	}
	return bm.ToArray()
}

// presentFieldsByWeight returns the fields present in enc, sorted by
// model.FieldMinWeight ascending so the cheapest-to-evaluate families are
// dispatched first (spec §4.4 step 5 "cheapest reason first").
func presentFieldsByWeight(m *model.Model, enc *event.Encoded) []uint32 {
	fields := make([]uint32, 0, len(enc.Values))
	for fieldID := range enc.Values {
		fields = append(fields, fieldID)
	}
	sort.Slice(fields, func(i, j int) bool {
		wi, wj := m.FieldMinWeight[fields[i]], m.FieldMinWeight[fields[j]]
		if wi != wj {
			return wi < wj
		}
		return fields[i] < fields[j]
	})
	return fields
}

// dispatchField evaluates every non-static (NOT_EQUAL_TO, numeric,
// CONTAINS, REGEX) predicate family for fieldID's encoded value, excluding
// EQUAL_TO — already accounted for by resolveBaseCondition's counter
// seeding — to avoid double counting.
func dispatchField(m *model.Model, fieldID uint32, enc *event.Encoded, eligible *roaring.Bitmap, out *sparse.SparseSet) {
	v := enc.Values[fieldID]
	switch v.Kind {
	case event.KindNumber:
		m.Numeric.Evaluate(fieldID, v.Number, eligible, out)
		m.Equal.EvaluateNotEqualNumber(fieldID, v.Number, eligible, out)
	case event.KindBool:
		m.Equal.EvaluateNotEqualBool(fieldID, v.Bool, eligible, out)
	case event.KindString:
		if v.HasValueID {
			m.Equal.EvaluateNotEqualValue(fieldID, v.ValueID, eligible, out)
		} else {
			m.Equal.EvaluateNotEqualUnknown(fieldID, eligible, out)
		}
		m.StrMatch.Evaluate(fieldID, v.Folded, eligible, out)
		if raw, ok := enc.Raw[fieldID]; ok {
			m.Regex.Evaluate(fieldID, raw, eligible, out)
		}
	}
}

// ExplainRule evaluates one rule's combinations in isolation against ev and
// returns, per condition, whether it passed and why not (spec §6
// explainRule). Unlike Evaluate, it does not consult either cache tier or
// the shared inverted index: it re-derives every predicate's outcome
// directly so an operator can see the exact reason a rule didn't fire.
func (e *Evaluator) ExplainRule(ev *event.Event, ruleCode string) (*Explanation, error) {
	if ev == nil || ev.EventID == "" {
		return nil, errInvalidEvent("eventId must be non-empty")
	}
	m := e.model.Load()
	md, ok := m.GetRuleMetadata(ruleCode)
	if !ok {
		return nil, &Error{Kind: "UnknownRule", Detail: ruleCode}
	}
	enc := event.Encode(ev, m)

	exp := &Explanation{RuleCode: ruleCode}
	for _, cid := range md.CombinationIDs {
		ce := CombinationExplanation{CombinationID: cid, Matched: true}
		for _, pid := range m.CombinationPredicateIDs[cid] {
			passed, reason := explainPredicate(m, enc, m.Predicates[pid])
			ce.Conditions = append(ce.Conditions, ConditionExplanation{PredicateID: pid, Passed: passed, Reason: reason})
			if !passed {
				ce.Matched = false
			}
		}
		if ce.Matched {
			exp.Matched = true
		}
		exp.Combinations = append(exp.Combinations, ce)
	}
	return exp, nil
}

func explainPredicate(m *model.Model, enc *event.Encoded, p predicate.Predicate) (bool, string) {
	fieldName, ok := m.FieldDict.Decode(p.FieldID)
	if !ok {
		fieldName = "field#unknown"
	}
	v, present := enc.Values[p.FieldID]

	switch p.Op {
	case rule.EqualTo:
		if !present {
			return false, fieldName + " is absent"
		}
		if equalMatch(v, p) {
			return true, ""
		}
		return false, fieldName + " does not equal the expected value"

	case rule.NotEqualTo:
		if !present {
			return false, fieldName + " is absent"
		}
		if equalMatch(v, p) {
			return false, fieldName + " equals the excluded value"
		}
		return true, ""

	case rule.GreaterThan:
		if !present || v.Kind != event.KindNumber {
			return false, fieldName + " is not numeric"
		}
		if v.Number > p.Number {
			return true, ""
		}
		return false, fieldName + " does not exceed the threshold"

	case rule.LessThan:
		if !present || v.Kind != event.KindNumber {
			return false, fieldName + " is not numeric"
		}
		if v.Number < p.Number {
			return true, ""
		}
		return false, fieldName + " is not below the threshold"

	case rule.Between:
		if !present || v.Kind != event.KindNumber {
			return false, fieldName + " is not numeric"
		}
		if v.Number >= p.Lo && v.Number <= p.Hi {
			return true, ""
		}
		return false, fieldName + " is outside the allowed range"

	case rule.Contains:
		if !present || v.Kind != event.KindString {
			return false, fieldName + " is not a string"
		}
		if strings.Contains(v.Folded, p.Text) {
			return true, ""
		}
		return false, fieldName + " does not contain the expected substring"

	case rule.Regex:
		if !present {
			return false, fieldName + " is absent"
		}
		raw := enc.Raw[p.FieldID]
		if p.Pattern != nil && p.Pattern.MatchString(raw) {
			return true, ""
		}
		return false, fieldName + " does not match the pattern"

	default:
		return false, fieldName + " has an unrecognized operator"
	}
}

// equalMatch reports whether v equals p's operand, for the EQUAL_TO/
// NOT_EQUAL_TO kinds predicate/equality's Family stores.
func equalMatch(v event.Value, p predicate.Predicate) bool {
	switch p.Kind {
	case predicate.KindValue:
		return v.Kind == event.KindString && v.HasValueID && v.ValueID == p.ValueID
	case predicate.KindNumber:
		return v.Kind == event.KindNumber && v.Number == p.Number
	case predicate.KindBool:
		return v.Kind == event.KindBool && v.Bool == p.Bool
	default:
		return false
	}
}
