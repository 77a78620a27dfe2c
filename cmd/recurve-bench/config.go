package main

import (
	"errors"
	"log/slog"

	"github.com/23skdu/longbow-recurve/internal/logging"
)

// Config validation errors
var (
	ErrInvalidDim         = errors.New("dim must be positive")
	ErrInvalidKeys        = errors.New("keys must be at least 2")
	ErrInvalidRounds      = errors.New("rounds must be positive")
	ErrInvalidIterations  = errors.New("baseline_iterations must be positive")
	ErrInvalidCurvature   = errors.New("curvature must be negative")
	ErrInvalidLogLevel    = errors.New("log_level must be debug, info, warn, or error")
	ErrInvalidSampleRatio = errors.New("trace_sample_ratio must be between 0 and 1")
)

// Config is processed from RECURVE_* environment variables (and an optional
// .env file), then overridden by flags.
type Config struct {
	Dim                int     `envconfig:"DIM" default:"64"`
	Keys               int     `envconfig:"KEYS" default:"1000"`
	Rounds             int     `envconfig:"ROUNDS" default:"5"`
	BaselineIterations int     `envconfig:"BASELINE_ITERATIONS" default:"50"`
	Curvature          float64 `envconfig:"CURVATURE" default:"-1.0"`
	Seed               int64   `envconfig:"SEED" default:"42"`
	MetricsAddr        string  `envconfig:"METRICS_ADDR" default:""`
	LogLevel           string  `envconfig:"LOG_LEVEL" default:"info"`
	TraceSampleRatio   float64 `envconfig:"TRACE_SAMPLE_RATIO" default:"0"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		Dim:                64,
		Keys:               1000,
		Rounds:             5,
		BaselineIterations: 50,
		Curvature:          -1.0,
		Seed:               42,
		LogLevel:           "info",
	}
}

// ValidateConfig validates the configuration and returns an error if invalid
func ValidateConfig(cfg *Config) error {
	if cfg.Dim <= 0 {
		return ErrInvalidDim
	}
	if cfg.Keys < 2 {
		return ErrInvalidKeys
	}
	if cfg.Rounds <= 0 {
		return ErrInvalidRounds
	}
	if cfg.BaselineIterations <= 0 {
		return ErrInvalidIterations
	}
	if cfg.Curvature >= 0 {
		return ErrInvalidCurvature
	}
	if cfg.LogLevel != "debug" && cfg.LogLevel != "info" && cfg.LogLevel != "warn" && cfg.LogLevel != "error" {
		return ErrInvalidLogLevel
	}
	if cfg.TraceSampleRatio < 0 || cfg.TraceSampleRatio > 1 {
		return ErrInvalidSampleRatio
	}
	return nil
}

// slogLevel maps a validated level string onto slog.
func slogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// structuredLevel maps a validated level string onto the runner's logger.
func structuredLevel(level string) logging.LogLevel {
	switch level {
	case "debug":
		return logging.DebugLevel
	case "warn":
		return logging.WarnLevel
	case "error":
		return logging.ErrorLevel
	default:
		return logging.InfoLevel
	}
}
