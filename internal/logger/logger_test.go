package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	t.Parallel()
	log := Default()
	if log == nil {
		t.Fatal("Default() returned nil")
	}
	// Should not panic
	log.Info("test message")
	log.Debug("debug message")
	log.Warn("warn message")
	log.Error("error message")
}

func TestJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)
	log.Info("hello", "key", "value")

	output := buf.String()
	if !strings.Contains(output, "hello") {
		t.Fatalf("expected 'hello' in output, got: %s", output)
	}
	if !strings.Contains(output, `"key":"value"`) {
		t.Fatalf("expected key=value in JSON output, got: %s", output)
	}
}

func TestJSONLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelWarn)
	log.Info("should not appear")
	log.Debug("also should not appear")

	if buf.Len() > 0 {
		t.Fatalf("expected no output for info/debug at warn level, got: %s", buf.String())
	}

	log.Warn("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Fatalf("expected warn message in output, got: %s", buf.String())
	}
}

func TestPrettyQuotesSpacedValues(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := Pretty(&buf, slog.LevelInfo)
	log.Info("launch", "device", "grid device")

	if !strings.Contains(buf.String(), `device="grid device"`) {
		t.Fatalf("expected quoted attr value, got: %s", buf.String())
	}
}

func TestWithAttrs(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := Text(&buf, slog.LevelInfo).With("tile", 16)
	log.Info("run")

	if !strings.Contains(buf.String(), "tile=16") {
		t.Fatalf("expected inherited attr in output, got: %s", buf.String())
	}
}

func TestFromContextFallback(t *testing.T) {
	t.Parallel()
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext returned nil without a stored logger")
	}

	var buf bytes.Buffer
	stored := Text(&buf, slog.LevelInfo)
	ctx := WithContext(context.Background(), stored)
	FromContext(ctx).Info("via context")
	if !strings.Contains(buf.String(), "via context") {
		t.Fatalf("expected stored logger to be used, got: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
