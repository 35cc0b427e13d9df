// Package logging builds the shared zap logger from configuration.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aria-ai/aria/internal/config"
)

// New constructs a logger per the logging config. Console format goes
// to stderr so it never interleaves with the interactive UI on stdout;
// json format additionally writes to a file under the logs dir when
// one is configured.
func New(cfg config.LoggingConfig, logsDir string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}

	if cfg.Format == "json" {
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(level)
		zc.OutputPaths = []string{"stderr"}
		if logsDir != "" {
			if err := os.MkdirAll(logsDir, 0755); err == nil {
				zc.OutputPaths = append(zc.OutputPaths, filepath.Join(logsDir, "aria.log"))
			}
		}
		return zc.Build()
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zc.Build()
}

// Nop returns a no-op logger for tests and optional call sites.
func Nop() *zap.Logger {
	return zap.NewNop()
}
