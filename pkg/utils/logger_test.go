package utils

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestKVLogger_ConvertsPairs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := NewKVLogger(zap.New(core))

	logger.Info("Handler registered", "event_type", "submission.resolved", "handler_name", "journal")
	logger.Error("Handler error", "error", errors.New("boom"), 42, "ignored")
	logger.Debug("dangling", "key")

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["event_type"] != "submission.resolved" || fields["handler_name"] != "journal" {
		t.Errorf("unexpected fields: %v", fields)
	}

	errFields := entries[1].ContextMap()
	if errFields["error"] != "boom" {
		t.Errorf("error field = %v, want boom", errFields["error"])
	}
	if len(errFields) != 1 {
		t.Errorf("non-string keys should be skipped, got %v", errFields)
	}

	if len(entries[2].Context) != 0 {
		t.Errorf("dangling key should be dropped, got %v", entries[2].Context)
	}
}

func TestNewLogger_DefaultsToInfo(t *testing.T) {
	logger, err := NewLogger(LoggerConfig{Level: "bogus", OutputPath: "stderr", Format: "json"})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	if logger.Core().Enabled(zap.DebugLevel) {
		t.Error("debug should be disabled for an unknown level")
	}
	if !logger.Core().Enabled(zap.InfoLevel) {
		t.Error("info should be enabled for an unknown level")
	}
}

func TestNewKVLogger_NilIsNop(t *testing.T) {
	logger := NewKVLogger(nil)
	logger.Info("nothing happens")
}
