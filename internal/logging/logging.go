// Package logging builds the zap logger shared by the CLI and the terminal UI.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fwlens/internal/config"
)

// Mode selects where log output goes.
type Mode int

const (
	// CLI logs to stderr.
	CLI Mode = iota
	// Interactive logs to the configured file only, since the terminal belongs to the UI.
	// Without a file, logging is disabled.
	Interactive
)

// New builds a production logger. verbose forces the debug level.
func New(cfg config.LoggingConfig, mode Mode, verbose bool) (*zap.Logger, error) {
	if mode == Interactive && cfg.File == "" {
		return zap.NewNop(), nil
	}

	zc := zap.NewProductionConfig()
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid logging level: %w", err)
		}
		level = parsed
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	if mode == Interactive {
		zc.OutputPaths = []string{cfg.File}
		zc.ErrorOutputPaths = []string{cfg.File}
	} else {
		zc.OutputPaths = []string{"stderr"}
		zc.ErrorOutputPaths = []string{"stderr"}
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
