package compiler

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapListenerLogsStageLifecycle(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	lst := NewZapListener(zap.New(core))

	lst.OnStageStart(StageParseValidate)
	lst.OnStageComplete(StageParseValidate, 5*time.Millisecond, Metrics{"rules": 3})
	lst.OnError(StageIndexBuild, errShortTest{})

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 log entries, got %d", len(entries))
	}
	if entries[0].Message != "compiler stage starting" {
		t.Fatalf("unexpected first message: %q", entries[0].Message)
	}
	if entries[2].Level != zap.ErrorLevel {
		t.Fatalf("expected OnError to log at Error level, got %v", entries[2].Level)
	}
}

type errShortTest struct{}

func (errShortTest) Error() string { return "boom" }
