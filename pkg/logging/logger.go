// Package logging provides zap logger construction and log sanitization
// helpers for agrilend-engine.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/agrilend/agrilend-engine/pkg/config"
)

// NewLogger builds the process-wide zap logger from log configuration.
// LOG_LEVEL selects the minimum level; ENABLE_FILE_LOGGING adds a JSON
// file sink next to the console output.
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	if cfg.EnableFile {
		if dir := filepath.Dir(cfg.FilePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		zapCfg.OutputPaths = append(zapCfg.OutputPaths, cfg.FilePath)
		zapCfg.ErrorOutputPaths = append(zapCfg.ErrorOutputPaths, cfg.FilePath)
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
