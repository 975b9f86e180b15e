// Package logger builds the zap loggers shared by the engine and the CLI.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a sugared production logger at info level tagged with service.
func New(service string) *zap.SugaredLogger {
	return NewWithLevel(service, "info")
}

// NewWithLevel returns a sugared production logger at the given level.
// Unknown levels fall back to info.
func NewWithLevel(service string, level string) *zap.SugaredLogger {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.DisableStacktrace = true
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.InitialFields = map[string]any{"service": service}

	log, err := config.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}

	return log.Sugar()
}

// OrNop returns log, or a no-op logger when log is nil.
func OrNop(log *zap.SugaredLogger) *zap.SugaredLogger {
	if log == nil {
		return zap.NewNop().Sugar()
	}
	return log
}
