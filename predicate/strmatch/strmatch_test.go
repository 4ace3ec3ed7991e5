package strmatch

import (
	"fmt"
	"testing"

	"github.com/helioseng/helios/internal/sparse"
)

type allEligible struct{}

func (allEligible) Contains(uint32) bool { return true }

func TestEvaluateMatchesSubstring(t *testing.T) {
	f := NewFamily()
	f.Add(1, 100, "malware")
	if err := f.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	out := sparse.NewSparseSet(200)
	f.Evaluate(1, "downloaded malware.exe", allEligible{}, out)
	if !out.Contains(100) {
		t.Fatal("expected CONTAINS predicate to match substring")
	}
}

func TestEvaluateNoMatch(t *testing.T) {
	f := NewFamily()
	f.Add(1, 100, "malware")
	if err := f.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	out := sparse.NewSparseSet(200)
	f.Evaluate(1, "clean file", allEligible{}, out)
	if out.Contains(100) {
		t.Fatal("did not expect a match for an unrelated string")
	}
}

func TestEvaluateShortPattern(t *testing.T) {
	f := NewFamily()
	f.Add(1, 100, "x")
	if err := f.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	out := sparse.NewSparseSet(200)
	f.Evaluate(1, "box", allEligible{}, out)
	if !out.Contains(100) {
		t.Fatal("single-character pattern should still match via the short-pattern path")
	}
}

// TestEvaluateAboveAutomatonThreshold exercises the Aho-Corasick prefilter
// path built once a field carries more than automatonThreshold patterns.
func TestEvaluateAboveAutomatonThreshold(t *testing.T) {
	f := NewFamily()
	for i := 0; i < automatonThreshold+5; i++ {
		f.Add(1, uint32(i), fmt.Sprintf("needle%02d", i))
	}
	if err := f.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	out := sparse.NewSparseSet(uint32(automatonThreshold + 10))
	f.Evaluate(1, "this value contains needle03 inside it", allEligible{}, out)
	if !out.Contains(3) {
		t.Fatal("expected needle03's predicate to match through the automaton-gated path")
	}

	out2 := sparse.NewSparseSet(uint32(automatonThreshold + 10))
	f.Evaluate(1, "nothing relevant here at all", allEligible{}, out2)
	if out2.Contains(0) {
		t.Fatal("automaton prefilter should reject a value matching no registered needle")
	}
}

func TestContainsUsesSIMDMemmem(t *testing.T) {
	if !contains("downloaded malware.exe", "malware") {
		t.Fatal("expected contains to find a present substring")
	}
	if contains("clean file", "malware") {
		t.Fatal("expected contains to report no match for an absent substring")
	}
	if !contains("abc", "") {
		t.Fatal("expected an empty needle to match, mirroring strings.Contains")
	}
	if contains("ab", "abc") {
		t.Fatal("expected no match when the needle is longer than the haystack")
	}
}

func TestHasField(t *testing.T) {
	f := NewFamily()
	if f.HasField(1) {
		t.Fatal("HasField should be false before any Add")
	}
	f.Add(1, 1, "abc")
	if !f.HasField(1) {
		t.Fatal("HasField should be true after Add")
	}
}
