package rule

import (
	"encoding/json"
	"fmt"
)

// Operator is the closed set of condition operators a rule's conditions may
// use. The set is closed by design (spec Non-goal: "arbitrary ad-hoc
// expressions"); dispatch on Operator is by tag, never by interface value,
// mirroring the teacher's closed-strategy dispatch.
type Operator int

const (
	// EqualTo matches when the attribute value equals the operand.
	EqualTo Operator = iota

	// NotEqualTo matches when the attribute is present and differs from
	// the operand. An absent attribute never matches NotEqualTo.
	NotEqualTo

	// GreaterThan matches numeric attributes strictly greater than the
	// operand.
	GreaterThan

	// LessThan matches numeric attributes strictly less than the operand.
	LessThan

	// Between matches numeric attributes inclusively within [lo, hi].
	Between

	// IsAnyOf is expanded at compile time into one EqualTo condition per
	// list element (see compiler's expand stage) and is never evaluated
	// at runtime; it never appears in a compiled Predicate.
	IsAnyOf

	// Contains matches a case-insensitive substring.
	Contains

	// Regex matches a compiled pattern against the full, non-folded
	// attribute string.
	Regex
)

// String implements fmt.Stringer for diagnostics and trace rendering.
func (o Operator) String() string {
	switch o {
	case EqualTo:
		return "EQUAL_TO"
	case NotEqualTo:
		return "NOT_EQUAL_TO"
	case GreaterThan:
		return "GREATER_THAN"
	case LessThan:
		return "LESS_THAN"
	case Between:
		return "BETWEEN"
	case IsAnyOf:
		return "IS_ANY_OF"
	case Contains:
		return "CONTAINS"
	case Regex:
		return "REGEX"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON renders an Operator as its wire name (e.g. "EQUAL_TO"),
// matching the rule-file format rule files are authored in.
func (o Operator) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON parses an Operator from its wire name.
func (o *Operator) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	op, ok := ParseOperator(name)
	if !ok {
		return fmt.Errorf("rule: unknown operator %q", name)
	}
	*o = op
	return nil
}

// ParseOperator maps the wire operator name to an Operator. It returns
// ok=false for any name outside the closed set.
func ParseOperator(name string) (Operator, bool) {
	switch name {
	case "EQUAL_TO":
		return EqualTo, true
	case "NOT_EQUAL_TO":
		return NotEqualTo, true
	case "GREATER_THAN":
		return GreaterThan, true
	case "LESS_THAN":
		return LessThan, true
	case "BETWEEN":
		return Between, true
	case "IS_ANY_OF":
		return IsAnyOf, true
	case "CONTAINS":
		return Contains, true
	case "REGEX":
		return Regex, true
	default:
		return 0, false
	}
}
