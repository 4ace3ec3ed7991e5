// Package event defines the evaluator's input record and its
// dictionary-encoded form. Flatten's normalization rules (hyphen to
// underscore, upper-case, dotted join) are grounded directly on spec §6;
// no pack library performs this exact field-name canonicalization, so it
// is hand-rolled (see DESIGN.md), in the teacher's small-recursive-walk
// style (cf. literal/extractor.go's AST walk).
package event

import "sort"

// Event is a single input record: an attribute bag keyed by nested,
// possibly-mixed-case field paths.
type Event struct {
	EventID    string         `json:"eventId"`
	EventType  string         `json:"eventType,omitempty"`
	Attributes map[string]any `json:"attributes"`
}

// Flatten walks Attributes recursively, joining nested map keys with "."
// in stable (sorted) traversal order and normalizing every path segment to
// the dictionary's canonical UPPER_SNAKE_CASE form. The result maps a
// fully-qualified field path to its original (non-folded) scalar or slice
// value; string folding for comparison happens later, during encoding,
// so Flatten's output still carries the original case.
func (e *Event) Flatten() map[string]any {
	out := make(map[string]any, len(e.Attributes))
	flattenInto(out, "", e.Attributes)
	return out
}

func flattenInto(out map[string]any, prefix string, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		path := normalizeSegment(k)
		if prefix != "" {
			path = prefix + "." + path
		}
		switch v := m[k].(type) {
		case map[string]any:
			flattenInto(out, path, v)
		default:
			out[path] = v
		}
	}
}

func normalizeSegment(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '-' {
			c = '_'
		} else if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}
