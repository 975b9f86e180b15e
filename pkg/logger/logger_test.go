package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewWithLevel(t *testing.T) {
	log := NewWithLevel("sizefit-test", "debug")
	if !log.Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should be enabled")
	}

	log = NewWithLevel("sizefit-test", "not-a-level")
	if log.Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Error("unknown level should fall back to info")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
	log := New("sizefit-test")
	if OrNop(log) != log {
		t.Error("OrNop should return a non-nil logger unchanged")
	}
}
