// Package logging builds the zap logger used by the jsonform binaries and
// adapts it to the reporter interface library packages accept.
package logging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-jsonform/pkg/render"
	"github.com/goliatone/go-jsonform/pkg/report"
)

// New builds a logger. format "json" selects the production encoder, anything
// else the development console encoder.
func New(level, format string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	if strings.EqualFold(format, "json") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return logger, nil
}

// ParseLevel maps a level name onto a zap level. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("logging: unknown level %q", level)
	}
}

type reporter struct {
	logger *zap.Logger
}

// Reporter adapts logger to report.Reporter. Skipped fields log at warn
// level, everything else at error level.
func Reporter(logger *zap.Logger) report.Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &reporter{logger: logger}
}

func (r *reporter) Report(_ context.Context, event string, err error) {
	fields := []zap.Field{zap.String("event", event), zap.Error(err)}

	var skipped *render.SkippedFieldError
	if errors.As(err, &skipped) {
		fields = append(fields, zap.String("field", skipped.Field), zap.String("type", skipped.Type))
		r.logger.Warn("field skipped", fields...)
		return
	}
	r.logger.Error("operation failed", fields...)
}
