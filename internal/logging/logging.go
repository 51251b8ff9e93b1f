// Package logging builds the zap logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"purity/internal/config"
)

// New builds a logger from cfg. With no file configured it writes to
// stderr.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		zc.OutputPaths = []string{cfg.File}
		zc.ErrorOutputPaths = []string{cfg.File}
	}

	return zc.Build()
}

// ForTUI builds a logger that never writes to the terminal: output goes to
// the configured file or to path.
func ForTUI(cfg config.LoggingConfig, path string) (*zap.Logger, error) {
	if cfg.File == "" {
		cfg.File = path
	}
	return New(cfg)
}

// Verbose raises cfg to debug level.
func Verbose(cfg config.LoggingConfig) config.LoggingConfig {
	cfg.Level = zapcore.DebugLevel.String()
	return cfg
}
