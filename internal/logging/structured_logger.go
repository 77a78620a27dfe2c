package logging

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	oteltrace "go.opentelemetry.io/otel/trace"
)

type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// StructuredLogger is a zerolog-backed logger that stamps entries with the
// active trace span when the context carries one.
type StructuredLogger struct {
	logger zerolog.Logger
	level  LogLevel
}

type LoggerConfig struct {
	Level           LogLevel
	Output          io.Writer
	EnableTimestamp bool
	Component       string
}

func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:           InfoLevel,
		EnableTimestamp: true,
	}
}

func NewStructuredLogger(config LoggerConfig) *StructuredLogger {
	out := config.Output
	if out == nil {
		out = os.Stdout
	}
	logger := zerolog.New(out)
	if config.EnableTimestamp {
		logger = logger.With().Timestamp().Logger()
	}
	if config.Component != "" {
		logger = logger.With().Str("component", config.Component).Logger()
	}
	logger = logger.Level(getZerologLevel(config.Level))

	return &StructuredLogger{
		logger: logger,
		level:  config.Level,
	}
}

func getZerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *StructuredLogger) emit(ctx context.Context, event *zerolog.Event, msg string, fields []map[string]any) {
	if len(fields) > 0 {
		event = event.Fields(mergeFields(fields))
	}
	if sc := oteltrace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		event = event.
			Str("trace_id", sc.TraceID().String()).
			Str("span_id", sc.SpanID().String())
	}
	event.Msg(msg)
}

func (l *StructuredLogger) Debug(ctx context.Context, msg string, fields ...map[string]any) {
	if l.level <= DebugLevel {
		l.emit(ctx, l.logger.Debug(), msg, fields)
	}
}

func (l *StructuredLogger) Info(ctx context.Context, msg string, fields ...map[string]any) {
	if l.level <= InfoLevel {
		l.emit(ctx, l.logger.Info(), msg, fields)
	}
}

func (l *StructuredLogger) Warn(ctx context.Context, msg string, fields ...map[string]any) {
	if l.level <= WarnLevel {
		l.emit(ctx, l.logger.Warn(), msg, fields)
	}
}

func (l *StructuredLogger) Error(ctx context.Context, msg string, fields ...map[string]any) {
	if l.level <= ErrorLevel {
		l.emit(ctx, l.logger.Error(), msg, fields)
	}
}

func (l *StructuredLogger) WithComponent(component string) *StructuredLogger {
	return &StructuredLogger{
		logger: l.logger.With().Str("component", component).Logger(),
		level:  l.level,
	}
}

func (l *StructuredLogger) WithFields(fields map[string]any) *StructuredLogger {
	return &StructuredLogger{
		logger: l.logger.With().Fields(fields).Logger(),
		level:  l.level,
	}
}

func mergeFields(fields []map[string]any) map[string]any {
	result := make(map[string]any)
	for _, fieldMap := range fields {
		for k, v := range fieldMap {
			result[k] = v
		}
	}
	return result
}
