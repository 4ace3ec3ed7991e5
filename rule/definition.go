// Package rule defines the declarative rule-definition wire format (the
// compiler's input) and the canonical combination/predicate types the
// compiler produces from it.
package rule

// Definition is a single user-authored rule: a conjunction of Conditions.
type Definition struct {
	RuleCode    string      `json:"ruleCode"`
	Conditions  []Condition `json:"conditions"`
	Priority    int         `json:"priority"`
	Description string      `json:"description,omitempty"`
	Enabled     bool        `json:"enabled"`
	Tags        []string    `json:"tags,omitempty"`
}

// Condition is one atom of a Definition's conjunction, in wire form (before
// dictionary encoding).
type Condition struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`

	// Scalar holds the operand for EqualTo, NotEqualTo, GreaterThan,
	// LessThan, Contains and Regex.
	Scalar any `json:"scalar,omitempty"`

	// List holds the operand for IsAnyOf (non-empty) and Between
	// (exactly two elements, [lo, hi]).
	List []any `json:"list,omitempty"`
}

// RuleRef is a (ruleCode, priority) pair attached to a Combination: one
// combination may be referenced by many logical rules after deduplication.
type RuleRef struct {
	RuleCode string
	Priority int
}

// Metadata is the queryable, runtime-facing view of a compiled rule,
// returned by the model metadata query surface.
type Metadata struct {
	RuleCode       string
	Priority       int
	Description    string
	Enabled        bool
	Tags           []string
	CombinationIDs []uint32
}
