// Package compiler implements the seven-stage offline pipeline that turns
// declarative rule.Definitions into a frozen model.Model: parse/validate,
// dictionary-encode, expand IS_ANY_OF + deduplicate, profile weights,
// build the inverted index, finalize the Structure-of-Arrays layout, and a
// final validation pass. Grounded in the teacher's meta.Compile /
// CompileWithConfig staged-construction shape (meta/compile.go), with
// per-stage observability modeled on meta.Engine's Stats accessor.
package compiler

import (
	"fmt"
	"sort"
	"time"

	roaring "github.com/RoaringBitmap/roaring/v2"

	"github.com/helioseng/helios/cache"
	"github.com/helioseng/helios/config"
	"github.com/helioseng/helios/dict"
	"github.com/helioseng/helios/index"
	"github.com/helioseng/helios/model"
	"github.com/helioseng/helios/predicate"
	"github.com/helioseng/helios/predicate/equality"
	"github.com/helioseng/helios/predicate/numeric"
	"github.com/helioseng/helios/predicate/rx"
	"github.com/helioseng/helios/predicate/strmatch"
	"github.com/helioseng/helios/rule"
)

// Pipeline runs the compilation stages described in spec §4.2 over a rule
// corpus, producing a frozen *model.Model.
type Pipeline struct {
	generation uint64
}

// NewPipeline constructs a Pipeline. generation is the Generation value
// stamped onto every model this Pipeline builds; callers building
// successive models for hot-swap pass a monotonically increasing value.
func NewPipeline(generation uint64) *Pipeline {
	return &Pipeline{generation: generation}
}

// expanded is one fully-encoded, IS_ANY_OF-expanded conjunction awaiting
// dedup/registration, still tagged with its source rule.
type expanded struct {
	ruleCode string
	priority int
	preds    []predicate.Predicate
}

// Build runs every stage in order and returns the finished model, or the
// first *Error encountered. lst may be nil.
func (p *Pipeline) Build(defs []rule.Definition, cfg config.CompilerConfig, lst Listener) (*model.Model, error) {
	if lst == nil {
		lst = noopListener{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Stage: string(StageParseValidate), Detail: err.Error(), Err: err}
	}

	m := model.NewEmpty(p.generation)
	m.FieldDict = dict.New()
	m.ValueDict = dict.New()
	m.Numeric = numeric.NewFamily()
	m.StrMatch = strmatch.NewFamily()
	m.Regex = rx.NewFamily()
	m.Equal = equality.NewFamily()

	valid, err := p.stageParseValidate(lst, defs)
	if err != nil {
		return nil, err
	}

	fieldOf, err := p.stageDictionaryEncode(lst, m, valid)
	if err != nil {
		return nil, err
	}

	expansions, err := p.stageExpandDeduplicate(lst, m, valid, fieldOf, cfg)
	if err != nil {
		return nil, err
	}

	predByKey, combos, comboRules, err := p.stageRegister(lst, m, expansions)
	if err != nil {
		return nil, err
	}

	if err := p.stageWeightProfile(lst, m, predByKey); err != nil {
		return nil, err
	}

	idx, err := p.stageIndexBuild(lst, combos)
	if err != nil {
		return nil, err
	}

	if err := p.stageLayoutFinalize(lst, m, combos, comboRules, idx, valid); err != nil {
		return nil, err
	}

	if err := p.stageValidate(lst, m); err != nil {
		return nil, err
	}

	base, err := cache.NewBaseConditionCache(cache.DefaultConfig(), nil)
	if err != nil {
		return nil, &Error{Stage: string(StageLayoutFinalize), Detail: err.Error(), Err: err}
	}
	eligible, err := cache.NewEligiblePredicateCache(cache.DefaultConfig(), nil)
	if err != nil {
		return nil, &Error{Stage: string(StageLayoutFinalize), Detail: err.Error(), Err: err}
	}
	m.AttachCaches(base, eligible)

	return m, nil
}

// stageParseValidate rejects definitions with a missing ruleCode, empty
// Conditions, or an operator that doesn't round-trip through
// rule.ParseOperator/String, and drops disabled rules (spec §4.2 step 1).
func (p *Pipeline) stageParseValidate(lst Listener, defs []rule.Definition) ([]rule.Definition, error) {
	start := time.Now()
	lst.OnStageStart(StageParseValidate)

	out := make([]rule.Definition, 0, len(defs))
	skipped := 0
	for _, d := range defs {
		if !d.Enabled {
			skipped++
			continue
		}
		if d.RuleCode == "" {
			err := &Error{Stage: string(StageParseValidate), Detail: "missing ruleCode"}
			lst.OnError(StageParseValidate, err)
			return nil, err
		}
		if len(d.Conditions) == 0 {
			err := &Error{Stage: string(StageParseValidate), Detail: "empty conditions", RuleCode: d.RuleCode}
			lst.OnError(StageParseValidate, err)
			return nil, err
		}
		for _, c := range d.Conditions {
			if _, ok := rule.ParseOperator(c.Operator.String()); !ok {
				err := &Error{Stage: string(StageParseValidate), Detail: fmt.Sprintf("unknown operator %q", c.Operator), RuleCode: d.RuleCode}
				lst.OnError(StageParseValidate, err)
				return nil, err
			}
			if c.Operator == rule.Between && len(c.List) != 2 {
				err := &Error{Stage: string(StageParseValidate), Detail: "BETWEEN requires exactly two bounds", RuleCode: d.RuleCode}
				lst.OnError(StageParseValidate, err)
				return nil, err
			}
			if c.Operator == rule.IsAnyOf && len(c.List) == 0 {
				err := &Error{Stage: string(StageParseValidate), Detail: "IS_ANY_OF requires a non-empty list", RuleCode: d.RuleCode}
				lst.OnError(StageParseValidate, err)
				return nil, err
			}
		}
		out = append(out, d)
	}

	lst.OnStageComplete(StageParseValidate, time.Since(start), Metrics{"rules_parsed": len(out), "rules_skipped_disabled": skipped})
	return out, nil
}

// stageDictionaryEncode interns every condition's field name. String-value
// interning happens lazily in stageExpandDeduplicate since IS_ANY_OF
// expansion needs the raw operand list first.
func (p *Pipeline) stageDictionaryEncode(lst Listener, m *model.Model, defs []rule.Definition) (map[string]uint32, error) {
	start := time.Now()
	lst.OnStageStart(StageDictionaryEncode)

	fieldOf := make(map[string]uint32)
	for _, d := range defs {
		for _, c := range d.Conditions {
			name := dict.NormalizeFieldName(c.Field)
			fieldOf[c.Field] = m.FieldDict.Encode(name)
		}
	}

	lst.OnStageComplete(StageDictionaryEncode, time.Since(start), Metrics{"fields_interned": m.FieldDict.Len()})
	return fieldOf, nil
}

// stageExpandDeduplicate expands every IS_ANY_OF condition into its
// Cartesian product of single-value conjunctions (spec §4.2 step 3),
// encoding each resulting scalar condition into a predicate.Predicate
// (field/value interning happens here, condition by condition).
func (p *Pipeline) stageExpandDeduplicate(lst Listener, m *model.Model, defs []rule.Definition, fieldOf map[string]uint32, cfg config.CompilerConfig) ([]expanded, error) {
	start := time.Now()
	lst.OnStageStart(StageExpandDeduplicate)

	var out []expanded
	total := 0
	for _, d := range defs {
		groups, err := p.expandRule(m, d, fieldOf, cfg)
		if err != nil {
			lst.OnError(StageExpandDeduplicate, err)
			return nil, err
		}
		total += len(groups)
		if cfg.MaxTotalCombinations > 0 && total > cfg.MaxTotalCombinations {
			err := &Error{Stage: string(StageExpandDeduplicate), Detail: "exceeded MaxTotalCombinations", RuleCode: d.RuleCode}
			lst.OnError(StageExpandDeduplicate, err)
			return nil, err
		}
		out = append(out, groups...)
	}

	lst.OnStageComplete(StageExpandDeduplicate, time.Since(start), Metrics{"conjunctions_expanded": len(out)})
	return out, nil
}

func (p *Pipeline) expandRule(m *model.Model, d rule.Definition, fieldOf map[string]uint32, cfg config.CompilerConfig) ([]expanded, error) {
	// anyOf[i] lists the candidate predicate.Predicate values for the i'th
	// IS_ANY_OF condition; fixed holds every non-IS_ANY_OF condition
	// already encoded to a single predicate.Predicate.
	var anyOf [][]predicate.Predicate
	var fixed []predicate.Predicate

	for _, c := range d.Conditions {
		fieldID := fieldOf[c.Field]
		if c.Operator == rule.IsAnyOf {
			group := make([]predicate.Predicate, 0, len(c.List))
			for _, v := range c.List {
				pr, err := encodeScalar(m, fieldID, rule.EqualTo, v)
				if err != nil {
					return nil, &Error{Stage: string(StageExpandDeduplicate), Detail: err.Error(), RuleCode: d.RuleCode, Err: err}
				}
				group = append(group, pr)
			}
			if cfg.MaxCombinationsPerRule > 0 && len(group) > cfg.MaxCombinationsPerRule {
				return nil, &Error{Stage: string(StageExpandDeduplicate), Detail: "IS_ANY_OF exceeds MaxCombinationsPerRule", RuleCode: d.RuleCode}
			}
			anyOf = append(anyOf, group)
			continue
		}
		pr, err := encodeCondition(m, fieldID, c)
		if err != nil {
			return nil, &Error{Stage: string(StageExpandDeduplicate), Detail: err.Error(), RuleCode: d.RuleCode, Err: err}
		}
		fixed = append(fixed, pr)
	}

	combos := cartesianSize(anyOf)
	if cfg.MaxCombinationsPerRule > 0 && combos > cfg.MaxCombinationsPerRule {
		return nil, &Error{Stage: string(StageExpandDeduplicate), Detail: "expansion exceeds MaxCombinationsPerRule", RuleCode: d.RuleCode}
	}

	out := make([]expanded, 0, combos)
	indices := make([]int, len(anyOf))
	for {
		preds := make([]predicate.Predicate, 0, len(fixed)+len(anyOf))
		preds = append(preds, fixed...)
		for i, idx := range indices {
			preds = append(preds, anyOf[i][idx])
		}
		out = append(out, expanded{ruleCode: d.RuleCode, priority: d.Priority, preds: preds})

		if !advance(indices, anyOf) {
			break
		}
	}
	return out, nil
}

func cartesianSize(anyOf [][]predicate.Predicate) int {
	n := 1
	for _, g := range anyOf {
		n *= len(g)
	}
	return n
}

// advance increments the mixed-radix counter indices over anyOf's group
// sizes, returning false once every combination has been produced.
func advance(indices []int, anyOf [][]predicate.Predicate) bool {
	for i := len(indices) - 1; i >= 0; i-- {
		indices[i]++
		if indices[i] < len(anyOf[i]) {
			return true
		}
		indices[i] = 0
	}
	return false
}

// encodeCondition encodes a single non-IS_ANY_OF condition into a
// predicate.Predicate.
func encodeCondition(m *model.Model, fieldID uint32, c rule.Condition) (predicate.Predicate, error) {
	switch c.Operator {
	case rule.EqualTo, rule.NotEqualTo:
		return encodeScalar(m, fieldID, c.Operator, c.Scalar)
	case rule.GreaterThan, rule.LessThan:
		n, ok := toFloat(c.Scalar)
		if !ok {
			return predicate.Predicate{}, fmt.Errorf("operand for %s must be numeric", c.Operator)
		}
		return predicate.Predicate{FieldID: fieldID, Op: c.Operator, Kind: predicate.KindNumber, Number: n}, nil
	case rule.Between:
		lo, ok1 := toFloat(c.List[0])
		hi, ok2 := toFloat(c.List[1])
		if !ok1 || !ok2 {
			return predicate.Predicate{}, fmt.Errorf("BETWEEN bounds must be numeric")
		}
		return predicate.Predicate{FieldID: fieldID, Op: rule.Between, Kind: predicate.KindRange, Lo: lo, Hi: hi}, nil
	case rule.Contains:
		s, ok := c.Scalar.(string)
		if !ok {
			return predicate.Predicate{}, fmt.Errorf("CONTAINS operand must be a string")
		}
		return predicate.Predicate{FieldID: fieldID, Op: rule.Contains, Kind: predicate.KindSubstring, Text: dict.NormalizeValue(s)}, nil
	case rule.Regex:
		s, ok := c.Scalar.(string)
		if !ok {
			return predicate.Predicate{}, fmt.Errorf("REGEX operand must be a string")
		}
		re, err := rx.Compile(s)
		if err != nil {
			return predicate.Predicate{}, &rx.CompileError{Pattern: s, Err: err}
		}
		return predicate.Predicate{FieldID: fieldID, Op: rule.Regex, Kind: predicate.KindPattern, PatternSrc: s, Pattern: re}, nil
	default:
		return predicate.Predicate{}, fmt.Errorf("operator %s cannot appear in a compiled predicate", c.Operator)
	}
}

// encodeScalar encodes an EQUAL_TO/NOT_EQUAL_TO operand (or an IS_ANY_OF
// member, always lowered to EQUAL_TO) by payload type: string values are
// interned into the value dictionary, numbers and booleans carry their raw
// value uninterned (spec §4.1 "Numeric and boolean attribute values are
// NEVER interned").
func encodeScalar(m *model.Model, fieldID uint32, op rule.Operator, operand any) (predicate.Predicate, error) {
	switch v := operand.(type) {
	case string:
		id := m.ValueDict.Encode(dict.NormalizeValue(v))
		return predicate.Predicate{FieldID: fieldID, Op: op, Kind: predicate.KindValue, ValueID: id}, nil
	case bool:
		return predicate.Predicate{FieldID: fieldID, Op: op, Kind: predicate.KindBool, Bool: v}, nil
	default:
		n, ok := toFloat(operand)
		if !ok {
			return predicate.Predicate{}, fmt.Errorf("unsupported operand type %T", operand)
		}
		return predicate.Predicate{FieldID: fieldID, Op: op, Kind: predicate.KindNumber, Number: n}, nil
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// stageRegister deduplicates predicates by DedupKey and combinations by
// CanonicalKey (spec §4.2 step 4), and attributes each (ruleCode,
// priority) to every combination it produced (step 5), deduping a
// ruleCode added twice to the same combination.
func (p *Pipeline) stageRegister(lst Listener, m *model.Model, expansions []expanded) (map[string]uint32, []rule.Combination, map[uint32][]rule.RuleRef, error) {
	predByKey := make(map[string]uint32)
	comboByKey := make(map[string]uint32)
	var combos []rule.Combination
	comboRules := make(map[uint32][]rule.RuleRef)
	comboSeenRule := make(map[uint32]map[string]bool)

	for _, e := range expansions {
		ids := make([]uint32, 0, len(e.preds))
		for _, pr := range e.preds {
			key := pr.DedupKey()
			id, ok := predByKey[key]
			if !ok {
				id = uint32(len(m.Predicates))
				pr.ID = id
				m.Predicates = append(m.Predicates, pr)
				predByKey[key] = id
			}
			ids = append(ids, id)
		}
		ids = sortUniqueUint32(ids)

		ckey := rule.CanonicalKey(ids)
		cid, ok := comboByKey[ckey]
		if !ok {
			cid = uint32(len(combos))
			combos = append(combos, rule.Combination{ID: cid, PredicateIDs: ids, PredicateCount: uint16(len(ids))})
			comboByKey[ckey] = cid
			comboSeenRule[cid] = make(map[string]bool)
		}

		if !comboSeenRule[cid][e.ruleCode] {
			comboSeenRule[cid][e.ruleCode] = true
			comboRules[cid] = append(comboRules[cid], rule.RuleRef{RuleCode: e.ruleCode, Priority: e.priority})
		}
	}

	return predByKey, combos, comboRules, nil
}

func sortUniqueUint32(ids []uint32) []uint32 {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := ids[:0]
	var last uint32
	first := true
	for _, id := range ids {
		if first || id != last {
			out = append(out, id)
			last = id
			first = false
		}
	}
	return out
}

// weightForOperator ranks families by evaluation cost (spec §4.2 step 6:
// "regex > contains > between > numeric-compare > equality").
func weightForOperator(op rule.Operator) float64 {
	switch op {
	case rule.Regex:
		return 50
	case rule.Contains:
		return 20
	case rule.Between:
		return 10
	case rule.GreaterThan, rule.LessThan:
		return 8
	case rule.EqualTo, rule.NotEqualTo:
		return 1
	default:
		return 1
	}
}

// selectivityForOperator estimates the fraction of events a single
// predicate of this family is expected to pass, used only as an initial
// profiling default — real selectivity tuning from observed event traffic
// is out of scope (spec Non-goals: no cross-event state).
func selectivityForOperator(op rule.Operator) float64 {
	switch op {
	case rule.EqualTo:
		return 0.1
	case rule.NotEqualTo:
		return 0.9
	case rule.GreaterThan, rule.LessThan:
		return 0.5
	case rule.Between:
		return 0.3
	case rule.Contains:
		return 0.2
	case rule.Regex:
		return 0.15
	default:
		return 0.5
	}
}

// stageWeightProfile assigns Weight/Selectivity to every registered
// predicate and derives FieldMinWeight (spec §4.2 step 6), then populates
// each predicate family index — this is also where predicates are handed
// to their specialized evaluator (numeric/strmatch/rx/equality).
func (p *Pipeline) stageWeightProfile(lst Listener, m *model.Model, predByKey map[string]uint32) error {
	start := time.Now()
	lst.OnStageStart(StageWeightProfile)

	var staticIDs, staticFieldIDs []uint32
	for i := range m.Predicates {
		pr := &m.Predicates[i]
		pr.Weight = weightForOperator(pr.Op)
		pr.Selectivity = selectivityForOperator(pr.Op)

		if cur, ok := m.FieldMinWeight[pr.FieldID]; !ok || pr.Weight < cur {
			m.FieldMinWeight[pr.FieldID] = pr.Weight
		}

		registerPredicate(m, *pr)
		if pr.Op == rule.EqualTo {
			staticIDs = append(staticIDs, pr.ID)
			staticFieldIDs = append(staticFieldIDs, pr.FieldID)
		}
	}
	m.StaticPredicateIDs = sortUniqueUint32(staticIDs)
	m.StaticFieldIDs = sortUniqueUint32(staticFieldIDs)
	if err := m.StrMatch.Build(); err != nil {
		err := &Error{Stage: string(StageWeightProfile), Detail: "building CONTAINS automaton: " + err.Error(), Err: err}
		lst.OnError(StageWeightProfile, err)
		return err
	}

	lst.OnStageComplete(StageWeightProfile, time.Since(start), Metrics{"predicates": len(m.Predicates), "fields": len(m.FieldMinWeight)})
	return nil
}

// registerPredicate routes a finalized predicate into its family index.
func registerPredicate(m *model.Model, pr predicate.Predicate) {
	switch pr.Op {
	case rule.EqualTo:
		switch pr.Kind {
		case predicate.KindValue:
			m.Equal.AddEqualValue(pr.FieldID, pr.ID, pr.ValueID)
		case predicate.KindNumber:
			m.Equal.AddEqualNumber(pr.FieldID, pr.ID, pr.Number)
		case predicate.KindBool:
			m.Equal.AddEqualBool(pr.FieldID, pr.ID, pr.Bool)
		}
	case rule.NotEqualTo:
		switch pr.Kind {
		case predicate.KindValue:
			m.Equal.AddNotEqualValue(pr.FieldID, pr.ID, pr.ValueID)
		case predicate.KindNumber:
			m.Equal.AddNotEqualNumber(pr.FieldID, pr.ID, pr.Number)
		case predicate.KindBool:
			m.Equal.AddNotEqualBool(pr.FieldID, pr.ID, pr.Bool)
		}
	case rule.GreaterThan:
		m.Numeric.AddGreaterThan(pr.FieldID, pr.ID, pr.Number)
	case rule.LessThan:
		m.Numeric.AddLessThan(pr.FieldID, pr.ID, pr.Number)
	case rule.Between:
		m.Numeric.AddBetween(pr.FieldID, pr.ID, pr.Lo, pr.Hi)
	case rule.Contains:
		m.StrMatch.Add(pr.FieldID, pr.ID, pr.Text)
	case rule.Regex:
		m.Regex.Add(pr.FieldID, pr.ID, pr.Pattern)
	}
}

// stageIndexBuild constructs predicateId -> bitmap(combinationId) (spec
// §4.2 step 7).
func (p *Pipeline) stageIndexBuild(lst Listener, combos []rule.Combination) (*index.Index, error) {
	start := time.Now()
	lst.OnStageStart(StageIndexBuild)

	idx := index.NewBuilder()
	for _, c := range combos {
		for _, pid := range c.PredicateIDs {
			idx.Add(pid, c.ID)
		}
	}
	idx.Freeze()

	lst.OnStageComplete(StageIndexBuild, time.Since(start), Metrics{"indexed_predicates": idx.Len()})
	return idx, nil
}

// stageLayoutFinalize materializes the Structure-of-Arrays fields and the
// rule-metadata lookup tables (spec §4.2 step 8).
func (p *Pipeline) stageLayoutFinalize(lst Listener, m *model.Model, combos []rule.Combination, comboRules map[uint32][]rule.RuleRef, idx *index.Index, defs []rule.Definition) error {
	start := time.Now()
	lst.OnStageStart(StageLayoutFinalize)

	m.Combinations = combos
	m.Index = idx
	m.CombinationRules = make([][]rule.RuleRef, len(combos))
	m.PredicateCount = make([]uint16, len(combos))
	m.CombinationPredicateIDs = make([][]uint32, len(combos))

	m.AllCombinations = roaring.New()
	if len(combos) > 0 {
		m.AllCombinations.AddRange(0, uint64(len(combos)))
	}

	staticSet := make(map[uint32]struct{}, len(m.StaticPredicateIDs))
	for _, pid := range m.StaticPredicateIDs {
		staticSet[pid] = struct{}{}
	}
	m.StaticPredicateCountPerCombo = make([]uint16, len(combos))
	for cid, c := range combos {
		var n uint16
		for _, pid := range c.PredicateIDs {
			if _, ok := staticSet[pid]; ok {
				n++
			}
		}
		m.StaticPredicateCountPerCombo[cid] = n
	}

	descByCode := make(map[string]rule.Definition, len(defs))
	for _, d := range defs {
		descByCode[d.RuleCode] = d
	}

	byCode := make(map[string]*rule.Metadata)
	byPredicate := make(map[uint32][]string)

	for cid, c := range combos {
		m.PredicateCount[cid] = c.PredicateCount
		m.CombinationPredicateIDs[cid] = c.PredicateIDs
		refs := comboRules[uint32(cid)]
		m.CombinationRules[cid] = refs

		for _, ref := range refs {
			md, ok := byCode[ref.RuleCode]
			if !ok {
				md = &rule.Metadata{RuleCode: ref.RuleCode, Priority: ref.Priority, Enabled: true}
				if d, ok := descByCode[ref.RuleCode]; ok {
					md.Description = d.Description
					md.Tags = d.Tags
				}
				byCode[ref.RuleCode] = md
			}
			md.CombinationIDs = append(md.CombinationIDs, uint32(cid))
		}
		for _, pid := range c.PredicateIDs {
			for _, ref := range refs {
				byPredicate[pid] = appendUniqueString(byPredicate[pid], ref.RuleCode)
			}
		}
	}

	m.SetRuleMetadata(byCode, byPredicate)

	lst.OnStageComplete(StageLayoutFinalize, time.Since(start), Metrics{"combinations": len(combos), "rules": len(byCode)})
	return nil
}

func appendUniqueString(ss []string, s string) []string {
	for _, existing := range ss {
		if existing == s {
			return ss
		}
	}
	return append(ss, s)
}

// stageValidate asserts the cross-array invariants spec §4.2 step 9 names:
// no zero-predicate combination, equal-length SoA arrays, and a non-empty
// inverted index whenever there is at least one combination.
func (p *Pipeline) stageValidate(lst Listener, m *model.Model) error {
	start := time.Now()
	lst.OnStageStart(StageValidate)

	n := len(m.Combinations)
	if len(m.PredicateCount) != n || len(m.CombinationPredicateIDs) != n || len(m.CombinationRules) != n {
		err := &Error{Stage: string(StageValidate), Detail: "SoA arrays have mismatched lengths"}
		lst.OnError(StageValidate, err)
		return err
	}
	for cid, c := range m.Combinations {
		if len(c.PredicateIDs) == 0 {
			err := &Error{Stage: string(StageValidate), Detail: fmt.Sprintf("combination %d has zero predicates", cid)}
			lst.OnError(StageValidate, err)
			return err
		}
	}
	if n > 0 && m.Index.Len() == 0 {
		err := &Error{Stage: string(StageValidate), Detail: "inverted index is empty but combinations exist"}
		lst.OnError(StageValidate, err)
		return err
	}

	lst.OnStageComplete(StageValidate, time.Since(start), Metrics{"combinations": n, "predicates": len(m.Predicates)})
	return nil
}
