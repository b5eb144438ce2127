package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFormatsFields(t *testing.T) {
	var out bytes.Buffer
	logger := NewLoggerWithOutput(LevelInfo, &out)

	logger.Info("process started", map[string]string{"robot": "pr2", "pid": "42"})

	line := out.String()
	if !strings.Contains(line, `level=info msg="process started" pid="42" robot="pr2"`) {
		t.Fatalf("unexpected log line %q", line)
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var out bytes.Buffer
	logger := NewLoggerWithOutput(LevelWarning, &out)

	logger.Info("info", nil)
	logger.Warn("warn", nil)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %q", out.String())
	}
	if !strings.Contains(lines[0], `level=warning msg="warn"`) {
		t.Fatalf("expected warning line, got %q", lines[0])
	}
}

func TestLoggerWithMergesContext(t *testing.T) {
	var out bytes.Buffer
	base := NewLoggerWithOutput(LevelDebug, &out)
	logger := base.With(map[string]string{"run_id": "abc"})
	logger.Debug("tick", map[string]string{"step": "1"})
	base.Debug("plain", nil)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out.String())
	}
	if !strings.HasSuffix(lines[0], `msg="tick" run_id="abc" step="1"`) {
		t.Fatalf("expected merged context, got %q", lines[0])
	}
	if strings.Contains(lines[1], "run_id") {
		t.Fatalf("With must not change the parent logger, got %q", lines[1])
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	logger.Info("ignored", nil)
	if logger.Enabled(LevelError) {
		t.Fatalf("nil logger must not be enabled")
	}
	if logger.With(map[string]string{"a": "b"}) != nil {
		t.Fatalf("expected nil logger from With")
	}
}

func TestDiscardDropsEverything(t *testing.T) {
	logger := Discard()
	if logger.Enabled(LevelWarning) {
		t.Fatalf("discard logger should only enable errors")
	}
	logger.Error("dropped", nil)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"debug": LevelDebug, "INFO": LevelInfo, "warn": LevelWarning, " error ": LevelError}
	for input, want := range cases {
		got, ok := ParseLevel(input)
		if !ok || got != want {
			t.Fatalf("parse %q: expected %q, got %q (%v)", input, want, got, ok)
		}
	}
	if _, ok := ParseLevel("loud"); ok {
		t.Fatalf("expected unknown level to fail")
	}
}
