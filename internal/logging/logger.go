// internal/logging/logger.go
//
// The TUI owns the terminal, so nothing may log to stdout or stderr while
// it is running. Everything goes to ~/.scribe/logs/scribe.log instead, so
// users can inspect failures after the fact.

package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logFileName = "scribe.log"

// New builds a file-backed sugared logger rooted at logDir.
func New(logDir string, debug bool) (*zap.SugaredLogger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{filepath.Join(logDir, logFileName)}
	cfg.ErrorOutputPaths = cfg.OutputPaths
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return logger.Sugar(), nil
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
