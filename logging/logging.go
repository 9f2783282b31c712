// Package logging builds the zap loggers shared by the commands.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New returns a SugaredLogger at the given level. format "json" uses the
// production encoder, "console" the human-readable development encoder.
// Output goes to stderr unless file is set, in which case logs are appended
// there instead (the TUI uses this to keep the terminal clean).
func New(level, format, file string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch strings.ToLower(format) {
	case "", FormatJSON:
		cfg = zap.NewProductionConfig()
	case FormatConsole:
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	if file != "" {
		cfg.OutputPaths = []string{file}
		cfg.ErrorOutputPaths = []string{file}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Sugar(), nil
}

// Must is New for command entry points; it panics on a bad configuration.
func Must(level, format, file string) *zap.SugaredLogger {
	log, err := New(level, format, file)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return log
}
