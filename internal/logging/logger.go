// Package logging builds the zap loggers used by chaindocs.
// Logging is off unless verbose mode is enabled. Interactive sessions own the
// terminal, so they log to a file under the config directory instead of stderr.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the log file written inside the logs directory
const FileName = "chaindocs.log"

// Options selects where and how much to log
type Options struct {
	Verbose bool
	// ToFile sends output to Dir/FileName instead of stderr.
	ToFile bool
	Dir    string
}

// New builds a logger for opts. A non-verbose logger is a no-op.
func New(opts Options) (*zap.Logger, error) {
	if !opts.Verbose {
		return zap.NewNop(), nil
	}

	if !opts.ToFile {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
		cfg.DisableStacktrace = true
		return cfg.Build()
	}

	if opts.Dir == "" {
		return nil, fmt.Errorf("logs directory required")
	}
	if err := os.MkdirAll(opts.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = []string{filepath.Join(opts.Dir, FileName)}
	cfg.ErrorOutputPaths = []string{filepath.Join(opts.Dir, FileName)}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	return cfg.Build()
}
