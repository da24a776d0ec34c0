// Package logging constructs the zap loggers used across the arcade
// application. Components receive a *zap.Logger through builder options and
// derive Named sub-loggers; nothing in this package is arcade-specific.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds configuration for the logger.
type Config struct {
	// Environment selects encoder defaults: "development" (console encoding,
	// the default) or "production" (JSON encoding).
	Environment string
	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string
	// Component is attached to every entry as a base field.
	Component string
}

// New creates a new logger with the given configuration.
//
// Parameters:
//   - cfg: logger configuration (zero value is valid)
//
// Returns:
//   - *zap.Logger: the constructed logger (never nil; panics only on
//     programmer error in the zap config itself)
func New(cfg Config) *zap.Logger {
	cfg.Environment = orDefault(cfg.Environment, "development")
	cfg.LogLevel = orDefault(cfg.LogLevel, "info")

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	encoding := "console"
	if cfg.Environment == "production" {
		encoding = "json"
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(level(cfg.LogLevel)),
		Development:      cfg.Environment == "development",
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := config.Build()
	if err != nil {
		panic(err)
	}

	if cfg.Component != "" {
		logger = logger.With(zap.String("component", cfg.Component))
	}
	return logger
}

// Nop returns a logger that discards everything. Used as the default when a
// component is built without an explicit logger.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// orDefault falls back to def when the config field was left empty.
func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func level(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
