package equality

import (
	"testing"

	"github.com/helioseng/helios/internal/sparse"
)

type allEligible struct{}

func (allEligible) Contains(uint32) bool { return true }

func TestEvaluateValueMatchesOnlyEqualOperand(t *testing.T) {
	f := NewFamily()
	f.AddEqualValue(1, 100, 7)
	f.AddEqualValue(1, 101, 8)

	out := sparse.NewSparseSet(200)
	f.EvaluateValue(1, 7, allEligible{}, out)

	if !out.Contains(100) {
		t.Fatal("expected predicate 100 (EQUAL_TO value 7) to be true")
	}
	if out.Contains(101) {
		t.Fatal("predicate 101 (EQUAL_TO value 8) should not match value 7")
	}
}

func TestEvaluateAlsoFiresNotEqualForDifferingOperand(t *testing.T) {
	f := NewFamily()
	f.AddNotEqualValue(1, 200, 9)

	out := sparse.NewSparseSet(300)
	f.EvaluateValue(1, 7, allEligible{}, out)

	if !out.Contains(200) {
		t.Fatal("NOT_EQUAL_TO predicate over operand 9 should hold for observed value 7")
	}
}

func TestEvaluateDoesNotFireNotEqualForMatchingOperand(t *testing.T) {
	f := NewFamily()
	f.AddNotEqualValue(1, 200, 7)

	out := sparse.NewSparseSet(300)
	f.EvaluateValue(1, 7, allEligible{}, out)

	if out.Contains(200) {
		t.Fatal("NOT_EQUAL_TO predicate over operand 7 should not hold for observed value 7")
	}
}

func TestEvaluateNotEqualValueSkipsEqualFamily(t *testing.T) {
	f := NewFamily()
	f.AddEqualValue(1, 100, 7)
	f.AddNotEqualValue(1, 200, 9)

	out := sparse.NewSparseSet(300)
	f.EvaluateNotEqualValue(1, 7, allEligible{}, out)

	if out.Contains(100) {
		t.Fatal("EvaluateNotEqualValue must not report EQUAL_TO predicate 100")
	}
	if !out.Contains(200) {
		t.Fatal("EvaluateNotEqualValue should still report the differing NOT_EQUAL_TO predicate 200")
	}
}

func TestEvaluateNotEqualUnknownFiresEveryNotEqual(t *testing.T) {
	f := NewFamily()
	f.AddNotEqualValue(1, 200, 9)
	f.AddNotEqualValue(1, 201, 10)

	out := sparse.NewSparseSet(300)
	f.EvaluateNotEqualUnknown(1, allEligible{}, out)

	if !out.Contains(200) || !out.Contains(201) {
		t.Fatal("EvaluateNotEqualUnknown should mark every NOT_EQUAL_TO predicate true")
	}
}

func TestEvaluateNumberAndBool(t *testing.T) {
	f := NewFamily()
	f.AddEqualNumber(2, 10, 3.5)
	f.AddEqualBool(3, 20, true)

	out := sparse.NewSparseSet(100)
	f.EvaluateNumber(2, 3.5, allEligible{}, out)
	if !out.Contains(10) {
		t.Fatal("EvaluateNumber should match equal float operand")
	}

	out2 := sparse.NewSparseSet(100)
	f.EvaluateBool(3, false, allEligible{}, out2)
	if out2.Contains(20) {
		t.Fatal("EvaluateBool(false) should not match a predicate registered for true")
	}
}

type denyAll struct{}

func (denyAll) Contains(uint32) bool { return false }

func TestEvaluateRespectsEligibleFilter(t *testing.T) {
	f := NewFamily()
	f.AddEqualValue(1, 100, 7)

	out := sparse.NewSparseSet(200)
	f.EvaluateValue(1, 7, denyAll{}, out)

	if out.Contains(100) {
		t.Fatal("predicate not in the eligible set must not be reported true")
	}
}

func TestHasField(t *testing.T) {
	f := NewFamily()
	if f.HasField(1) {
		t.Fatal("HasField should be false before any Add")
	}
	f.AddEqualValue(1, 1, 1)
	if !f.HasField(1) {
		t.Fatal("HasField should be true after AddEqualValue")
	}
}
