package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TestNewLogger verifies basic logger creation
func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		format string
		level  string
	}{
		{"JSON Info", "json", "info"},
		{"JSON Debug", "json", "debug"},
		{"JSON Error", "json", "error"},
		{"Text Info", "text", "info"},
		{"Text Debug", "text", "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(Config{
				Format: tt.format,
				Level:  tt.level,
			})
			if err != nil {
				t.Fatalf("NewLogger() error = %v", err)
			}
			logger.Info("heartbeat")
		})
	}
}

// TestNewLogger_InvalidLevel verifies error handling for invalid log level
func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(Config{
		Format: "json",
		Level:  "invalid",
	})
	if err == nil {
		t.Error("Expected error for invalid log level")
	}
}

// TestZapStructuredFields verifies structured logging with fields
func TestZapStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Format: "json", Level: "info", Output: zapcore.AddSync(&buf)})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	logger.Info("test message", zap.String("key1", "value1"), zap.Int("key2", 42))

	output := buf.String()
	for _, want := range []string{"test message", "key1", "value1", "key2"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output, got: %s", want, output)
		}
	}
}

// TestZapLevelFiltering verifies that log levels are properly filtered
func TestZapLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Format: "json", Level: "warn", Output: zapcore.AddSync(&buf)})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	logger.Info("should be filtered")
	logger.Warn("should appear")

	output := buf.String()
	if strings.Contains(output, "should be filtered") {
		t.Errorf("Info entry leaked past warn level: %s", output)
	}
	if !strings.Contains(output, "should appear") {
		t.Errorf("Warn entry missing from output: %s", output)
	}
}

func TestStructuredLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(LoggerConfig{
		Level:     InfoLevel,
		Output:    &buf,
		Component: "geometry",
	})

	logger.Info(context.Background(), "centroid computed", map[string]any{"points": 128})

	output := buf.String()
	for _, want := range []string{"centroid computed", "geometry", "points", "128"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output, got: %s", want, output)
		}
	}
}

func TestStructuredLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(LoggerConfig{Level: InfoLevel, Output: &buf})

	logger.Debug(context.Background(), "hidden")
	logger.Error(context.Background(), "visible")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("Debug entry leaked past info level: %s", output)
	}
	if !strings.Contains(output, "visible") {
		t.Errorf("Error entry missing from output: %s", output)
	}
}

func TestStructuredLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(LoggerConfig{Level: InfoLevel, Output: &buf}).
		WithFields(map[string]any{"run_id": "abc"}).
		WithComponent("bench")

	logger.Info(context.Background(), "round done")

	output := buf.String()
	if !strings.Contains(output, "run_id") || !strings.Contains(output, "bench") {
		t.Errorf("Expected inherited fields in output, got: %s", output)
	}
}

// TestStructuredLogger_TraceStamp verifies span propagation from context
func TestStructuredLogger_TraceStamp(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(LoggerConfig{Level: InfoLevel, Output: &buf})

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10},
		SpanID:     trace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	logger.Info(ctx, "traced entry")

	output := buf.String()
	if !strings.Contains(output, "trace_id") || !strings.Contains(output, "0102030405060708090a0b0c0d0e0f10") {
		t.Errorf("Expected trace stamp in output, got: %s", output)
	}
}
