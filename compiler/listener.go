package compiler

import "time"

// Stage names the seven compilation stages, in pipeline order. Grounded in
// the teacher's named-phase commentary in meta/compile.go's Compile doc
// comment ("Steps: 1. Parse... 2. Compile to NFA...").
type Stage string

const (
	StageParseValidate     Stage = "parse_validate"
	StageDictionaryEncode  Stage = "dictionary_encode"
	StageExpandDeduplicate Stage = "expand_deduplicate"
	StageWeightProfile     Stage = "weight_profile"
	StageIndexBuild        Stage = "index_build"
	StageLayoutFinalize    Stage = "layout_finalize"
	StageValidate          Stage = "validate"
)

// Metrics carries the numeric counters a stage reports on completion, e.g.
// rules parsed, combinations produced, predicates deduplicated.
type Metrics map[string]int

// Listener observes pipeline progress. A nil Listener is never passed to a
// stage callback; Pipeline.Build substitutes a no-op listener when the
// caller supplies none, so stage code never needs a nil check.
type Listener interface {
	OnStageStart(stage Stage)
	OnStageComplete(stage Stage, d time.Duration, m Metrics)
	OnError(stage Stage, err error)
}

// noopListener discards every callback; the default when Build is called
// with a nil Listener.
type noopListener struct{}

func (noopListener) OnStageStart(Stage)                        {}
func (noopListener) OnStageComplete(Stage, time.Duration, Metrics) {}
func (noopListener) OnError(Stage, error)                       {}
