package engine

import (
	"sort"

	"github.com/helioseng/helios/config"
)

// applySelection filters matches per the configured strategy (spec §4.4
// step 7). matches is reused as the output buffer: callers must treat the
// returned slice, not the input, as authoritative.
//
// SelectionMaxPriorityPerFamily resolves an open question in the source
// corpus, which has no separate "family" grouping concept: it is a synonym
// for SelectionAllMatches filtered down to only the matches sharing the
// single highest priority observed across all of them this evaluation (see
// DESIGN.md). SelectionFirstMatch additionally collapses that filtered set
// to one entry, breaking ties lexicographically by RuleCode.
func applySelection(strategy config.SelectionStrategy, matches []MatchEntry) []MatchEntry {
	switch strategy {
	case config.SelectionAllMatches:
		return matches
	case config.SelectionMaxPriorityPerFamily:
		return maxPriority(matches)
	case config.SelectionFirstMatch:
		return firstMatch(matches)
	default:
		return matches
	}
}

func maxPriority(matches []MatchEntry) []MatchEntry {
	if len(matches) == 0 {
		return matches
	}
	best := matches[0].Rule.Priority
	for _, m := range matches[1:] {
		if m.Rule.Priority > best {
			best = m.Rule.Priority
		}
	}
	out := matches[:0]
	for _, m := range matches {
		if m.Rule.Priority == best {
			out = append(out, m)
		}
	}
	return out
}

func firstMatch(matches []MatchEntry) []MatchEntry {
	if len(matches) == 0 {
		return matches
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Rule.Priority != matches[j].Rule.Priority {
			return matches[i].Rule.Priority > matches[j].Rule.Priority
		}
		return matches[i].Rule.RuleCode < matches[j].Rule.RuleCode
	})
	return matches[:1]
}
