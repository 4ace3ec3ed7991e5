package compiler

import (
	"errors"
	"testing"

	"github.com/helioseng/helios/rule"
)

func TestStageParseValidateSkipsDisabledRules(t *testing.T) {
	p := NewPipeline(1)
	defs := []rule.Definition{
		{RuleCode: "RULE.A", Enabled: true, Conditions: []rule.Condition{{Field: "x", Operator: rule.EqualTo, Scalar: "y"}}},
		{RuleCode: "RULE.B", Enabled: false, Conditions: []rule.Condition{{Field: "x", Operator: rule.EqualTo, Scalar: "y"}}},
	}

	out, err := p.stageParseValidate(noopListener{}, defs)
	if err != nil {
		t.Fatalf("stageParseValidate: %v", err)
	}
	if len(out) != 1 || out[0].RuleCode != "RULE.A" {
		t.Fatalf("expected only RULE.A to survive, got %v", out)
	}
}

func TestStageParseValidateRejectsMissingRuleCode(t *testing.T) {
	p := NewPipeline(1)
	defs := []rule.Definition{
		{Enabled: true, Conditions: []rule.Condition{{Field: "x", Operator: rule.EqualTo, Scalar: "y"}}},
	}

	_, err := p.stageParseValidate(noopListener{}, defs)
	if err == nil {
		t.Fatal("expected an error for a rule with an empty RuleCode")
	}
	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("expected a *compiler.Error, got %T", err)
	}
	if cerr.Stage != string(StageParseValidate) {
		t.Fatalf("expected the error to be tagged with StageParseValidate, got %q", cerr.Stage)
	}
}

func TestStageParseValidateRejectsEmptyConditions(t *testing.T) {
	p := NewPipeline(1)
	defs := []rule.Definition{{RuleCode: "RULE.A", Enabled: true}}

	_, err := p.stageParseValidate(noopListener{}, defs)
	if err == nil {
		t.Fatal("expected an error for a rule with no conditions")
	}
}

func TestStageParseValidateRejectsBetweenWithoutTwoBounds(t *testing.T) {
	p := NewPipeline(1)
	defs := []rule.Definition{{
		RuleCode: "RULE.A",
		Enabled:  true,
		Conditions: []rule.Condition{
			{Field: "amount", Operator: rule.Between, List: []any{1.0}},
		},
	}}

	_, err := p.stageParseValidate(noopListener{}, defs)
	if err == nil {
		t.Fatal("expected an error when BETWEEN doesn't carry exactly two bounds")
	}
}

func TestStageParseValidateRejectsIsAnyOfWithEmptyList(t *testing.T) {
	p := NewPipeline(1)
	defs := []rule.Definition{{
		RuleCode: "RULE.A",
		Enabled:  true,
		Conditions: []rule.Condition{
			{Field: "country", Operator: rule.IsAnyOf, List: nil},
		},
	}}

	_, err := p.stageParseValidate(noopListener{}, defs)
	if err == nil {
		t.Fatal("expected an error when IS_ANY_OF carries an empty list")
	}
}

func TestErrorUnwrapsToUnderlyingCause(t *testing.T) {
	cause := errors.New("underlying validation failure")
	err := &Error{Stage: string(StageParseValidate), Detail: cause.Error(), Err: cause}

	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to see through *compiler.Error to its wrapped cause")
	}
}

func TestErrorMessageIncludesRuleCodeWhenPresent(t *testing.T) {
	withRule := &Error{Stage: "parse_validate", Detail: "bad thing", RuleCode: "RULE.X"}
	withoutRule := &Error{Stage: "parse_validate", Detail: "bad thing"}

	if withRule.Error() == withoutRule.Error() {
		t.Fatal("expected the error message to differ depending on whether RuleCode is set")
	}
}
