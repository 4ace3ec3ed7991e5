package engine

// ConditionExplanation reports one predicate's pass/fail outcome against a
// single event, with a human-readable reason when it failed (spec §6
// explainRule).
type ConditionExplanation struct {
	PredicateID uint32
	Passed      bool
	Reason      string
}

// CombinationExplanation reports whether one of a rule's combinations
// (conjunctions) matched, and the per-predicate detail behind that verdict.
type CombinationExplanation struct {
	CombinationID uint32
	Matched       bool
	Conditions    []ConditionExplanation
}

// Explanation is the result of ExplainRule: whether ruleCode matched ev, and
// why each of its combinations did or didn't.
type Explanation struct {
	RuleCode     string
	Matched      bool
	Combinations []CombinationExplanation
}
