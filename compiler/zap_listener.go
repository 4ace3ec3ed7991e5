package compiler

import (
	"time"

	"go.uber.org/zap"
)

// zapListener logs stage transitions through a *zap.Logger: stage starts
// at Debug, completions at Info with structured metric fields, and errors
// at Error — mirroring the teacher's convention of reporting discrete,
// named events with structured data (meta/compile.go's stage listener
// calls, meta.Engine's Stats fields).
type zapListener struct {
	log *zap.Logger
}

// NewZapListener builds a Listener that reports every stage transition to
// log. Pass the result as Build's lst argument.
func NewZapListener(log *zap.Logger) Listener {
	return &zapListener{log: log}
}

func (l *zapListener) OnStageStart(stage Stage) {
	l.log.Debug("compiler stage starting", zap.String("stage", string(stage)))
}

func (l *zapListener) OnStageComplete(stage Stage, d time.Duration, m Metrics) {
	fields := make([]zap.Field, 0, len(m)+2)
	fields = append(fields, zap.String("stage", string(stage)), zap.Duration("elapsed", d))
	for k, v := range m {
		fields = append(fields, zap.Int(k, v))
	}
	l.log.Info("compiler stage complete", fields...)
}

func (l *zapListener) OnError(stage Stage, err error) {
	l.log.Error("compiler stage failed", zap.String("stage", string(stage)), zap.Error(err))
}
