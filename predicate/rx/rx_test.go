package rx

import (
	"errors"
	"testing"

	"github.com/helioseng/helios/internal/sparse"
)

type allEligible struct{}

func (allEligible) Contains(uint32) bool { return true }

func TestCompileFullMatchSemantics(t *testing.T) {
	re, err := Compile(`[a-z]+\d+`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !re.MatchString("abc123") {
		t.Fatal("expected full match of abc123 against [a-z]+\\d+")
	}
	if re.MatchString("abc123!") {
		t.Fatal("trailing characters should break the full-match anchor")
	}
	if re.MatchString("!abc123") {
		t.Fatal("leading characters should break the full-match anchor")
	}
}

func TestEvaluateMatchesOriginalCase(t *testing.T) {
	f := NewFamily()
	re, err := Compile(`Admin-\d+`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	f.Add(1, 100, re)

	out := sparse.NewSparseSet(200)
	f.Evaluate(1, "Admin-42", allEligible{}, out)
	if !out.Contains(100) {
		t.Fatal("expected pattern to match original-cased string")
	}

	out2 := sparse.NewSparseSet(200)
	f.Evaluate(1, "admin-42", allEligible{}, out2)
	if out2.Contains(100) {
		t.Fatal("REGEX matches the unfolded original string, so case must matter")
	}
}

func TestCompileErrorUnwraps(t *testing.T) {
	_, compileErr := Compile(`[`)
	if compileErr == nil {
		t.Fatal("expected an invalid pattern to fail to compile")
	}
	wrapped := &CompileError{Pattern: "[", Err: compileErr}
	if !errors.Is(wrapped, compileErr) {
		t.Fatal("CompileError should unwrap to the underlying regexp error")
	}
}

func TestHasField(t *testing.T) {
	f := NewFamily()
	if f.HasField(1) {
		t.Fatal("HasField should be false before any Add")
	}
	re, _ := Compile(`.*`)
	f.Add(1, 1, re)
	if !f.HasField(1) {
		t.Fatal("HasField should be true after Add")
	}
}
