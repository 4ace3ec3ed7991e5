// Package config holds the tunables for compilation, evaluation, and
// caching, grounded in the teacher's meta.Config/DefaultConfig/Validate
// idiom: a plain struct of named fields, a DefaultConfig constructor, and a
// Validate method returning a typed *ConfigError naming the offending
// field.
package config

import "github.com/helioseng/helios/cache"

// CompilerConfig controls compile-time behavior: expansion limits and
// weight-profiling knobs.
type CompilerConfig struct {
	// MaxCombinationsPerRule caps the Cartesian-product expansion an
	// IS_ANY_OF condition set may produce for a single rule, guarding
	// against combinatorial blowup from a rule with several large
	// IS_ANY_OF conditions.
	// Default: 10000
	MaxCombinationsPerRule int

	// MaxTotalCombinations caps the compiled model's total combination
	// count across all rules.
	// Default: 5_000_000
	MaxTotalCombinations int

	// DedupeCombinations is not read by the compiler: canonical-key
	// deduplication of combinations that resolve to the identical
	// predicate-id set across different rules always runs, whatever this
	// field holds.
	// Default: true
	DedupeCombinations bool
}

// EvaluatorConfig controls evaluation-time behavior: context pool sizing
// and selection strategy.
type EvaluatorConfig struct {
	// ContextPoolSize is range-checked by Validate only; the evaluator's
	// context pool does not read it and leaves sizing to sync.Pool.
	// Default: 256
	ContextPoolSize int

	// Strategy selects which matches Evaluate returns when multiple
	// combinations of the same rule, or multiple rules in the same
	// family, match the same event.
	// Default: SelectionAllMatches
	Strategy SelectionStrategy

	// EnableTrace is not read by the evaluator: EvaluateWithTrace always
	// captures a lazy trace and plain Evaluate calls never do, whatever
	// this field holds.
	// Default: true
	EnableTrace bool
}

// SelectionStrategy is the closed set of result-selection policies named
// in spec §4.4.
type SelectionStrategy int

const (
	// SelectionAllMatches returns every matching rule.
	SelectionAllMatches SelectionStrategy = iota
	// SelectionMaxPriorityPerFamily returns only the matches at the
	// single highest priority value across all matched rules. There is
	// no separate "family" grouping: this strategy name is kept for the
	// spec's vocabulary, but it resolves to a global max-priority filter
	// (see SPEC_FULL.md Open Question resolution).
	SelectionMaxPriorityPerFamily
	// SelectionFirstMatch returns only the single highest-priority match
	// overall, breaking ties lexicographically by RuleCode.
	SelectionFirstMatch
)

// CacheConfig bundles the two cache.Config instances the evaluator needs:
// one for the base-condition cache, one for the eligible-predicate-set
// cache. Each may select an independent backend.
type CacheConfig struct {
	BaseCondition     cache.Config
	EligiblePredicate cache.Config
}

// DefaultConfig returns the full default configuration: a 10K/5M
// combination ceiling, dedup on, a 256-context pool, all-matches
// selection, trace capture enabled, and both cache tiers on in-memory LRU.
func DefaultConfig() (CompilerConfig, EvaluatorConfig, CacheConfig) {
	return CompilerConfig{
			MaxCombinationsPerRule: 10_000,
			MaxTotalCombinations:   5_000_000,
			DedupeCombinations:     true,
		}, EvaluatorConfig{
			ContextPoolSize: 256,
			Strategy:        SelectionAllMatches,
			EnableTrace:     true,
		}, CacheConfig{
			BaseCondition:     cache.DefaultConfig(),
			EligiblePredicate: cache.DefaultConfig(),
		}
}

// Validate checks a CompilerConfig for internally-consistent ranges.
//
// Valid ranges:
//   - MaxCombinationsPerRule: 1 to 1,000,000
//   - MaxTotalCombinations: 1 to 100,000,000, and >= MaxCombinationsPerRule
func (c CompilerConfig) Validate() error {
	if c.MaxCombinationsPerRule < 1 || c.MaxCombinationsPerRule > 1_000_000 {
		return &ConfigError{Field: "MaxCombinationsPerRule", Message: "must be between 1 and 1,000,000"}
	}
	if c.MaxTotalCombinations < 1 || c.MaxTotalCombinations > 100_000_000 {
		return &ConfigError{Field: "MaxTotalCombinations", Message: "must be between 1 and 100,000,000"}
	}
	if c.MaxTotalCombinations < c.MaxCombinationsPerRule {
		return &ConfigError{Field: "MaxTotalCombinations", Message: "must be >= MaxCombinationsPerRule"}
	}
	return nil
}

// Validate checks an EvaluatorConfig for internally-consistent ranges.
//
// Valid ranges:
//   - ContextPoolSize: 1 to 100,000
//   - Strategy: one of the three named SelectionStrategy constants
func (c EvaluatorConfig) Validate() error {
	if c.ContextPoolSize < 1 || c.ContextPoolSize > 100_000 {
		return &ConfigError{Field: "ContextPoolSize", Message: "must be between 1 and 100,000"}
	}
	if c.Strategy < SelectionAllMatches || c.Strategy > SelectionFirstMatch {
		return &ConfigError{Field: "Strategy", Message: "must be a recognized SelectionStrategy"}
	}
	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config: " + e.Field + ": " + e.Message
}
