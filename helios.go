// Package helios provides a rule-matching engine for streaming events.
//
// helios compiles a declarative rule corpus into a frozen, immutable Model
// and evaluates events against it with a counter-based conjunction
// algorithm: every predicate a combination owns increments a per-event
// counter, and a combination matches the instant its counter reaches its
// predicate count. Base-condition and eligible-predicate-set caching keep
// repeat event shapes cheap without re-walking the full predicate set.
//
// Basic usage:
//
//	model, err := helios.Compile(ruleDefinitions)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ev := helios.NewEvaluator(model)
//	result, err := ev.Evaluate(context.Background(), event)
//
// Hot-swap usage: recompiling a rule corpus and calling ev.SwapModel(model)
// atomically replaces the active model; in-flight Evaluate calls are
// unaffected.
package helios

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/helioseng/helios/compiler"
	"github.com/helioseng/helios/config"
	"github.com/helioseng/helios/engine"
	"github.com/helioseng/helios/model"
	"github.com/helioseng/helios/rule"
)

// generationCounter assigns each compiled Model a process-unique,
// monotonically increasing Generation so an Evaluator's hot-swap detector
// (spec §5) can always tell two models apart, even two compiled from
// identical rule definitions.
var generationCounter atomic.Uint64

func nextGeneration() uint64 {
	return generationCounter.Add(1)
}

// Compile builds a frozen Model from defs using default compiler settings.
//
// Example:
//
//	model, err := helios.Compile(defs)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(defs []rule.Definition) (*model.Model, error) {
	cfg, _, _ := config.DefaultConfig()
	return CompileWithConfig(defs, cfg, nil)
}

// MustCompile compiles defs and panics if compilation fails.
//
// Example:
//
//	var threatModel = helios.MustCompile(defs)
func MustCompile(defs []rule.Definition) *model.Model {
	m, err := Compile(defs)
	if err != nil {
		panic("helios: Compile: " + err.Error())
	}
	return m
}

// CompileWithConfig builds a Model from defs, reporting stage progress to
// lst (nil is fine: Build substitutes a no-op listener) and honoring cfg's
// expansion limits. Deduplication always runs; cfg.DedupeCombinations is not
// read.
//
// Example:
//
//	cfg := config.CompilerConfig{MaxCombinationsPerRule: 50000, MaxTotalCombinations: 2_000_000, DedupeCombinations: true}
//	model, err := helios.CompileWithConfig(defs, cfg, myListener)
func CompileWithConfig(defs []rule.Definition, cfg config.CompilerConfig, lst compiler.Listener) (*model.Model, error) {
	p := compiler.NewPipeline(nextGeneration())
	return p.Build(defs, cfg, lst)
}

// CompileWithLogging builds a Model from defs using default compiler
// settings, reporting every stage transition to log via
// compiler.NewZapListener.
//
// Example:
//
//	logger, _ := zap.NewProduction()
//	model, err := helios.CompileWithLogging(defs, logger)
func CompileWithLogging(defs []rule.Definition, log *zap.Logger) (*model.Model, error) {
	cfg, _, _ := config.DefaultConfig()
	return CompileWithConfig(defs, cfg, compiler.NewZapListener(log))
}

// NewEvaluator builds an Evaluator bound to model using default evaluator
// settings.
//
// Example:
//
//	ev := helios.NewEvaluator(model)
//	result, err := ev.Evaluate(ctx, event)
func NewEvaluator(m *model.Model) *engine.Evaluator {
	_, cfg, _ := config.DefaultConfig()
	return engine.NewEvaluator(m, cfg)
}

// NewEvaluatorWithConfig builds an Evaluator bound to model using cfg's
// selection strategy. cfg.ContextPoolSize and cfg.EnableTrace are not read.
func NewEvaluatorWithConfig(m *model.Model, cfg config.EvaluatorConfig) *engine.Evaluator {
	return engine.NewEvaluator(m, cfg)
}
