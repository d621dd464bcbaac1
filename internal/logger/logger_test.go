package logger

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"info", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"Error", LevelError, false},
		{"verbose", LevelInfo, true},
		{"", LevelInfo, true},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseLevel(tc.input)
			if tc.wantErr != (err != nil) {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	if LevelWarn.String() != "WARN" {
		t.Errorf("expected WARN, got %s", LevelWarn.String())
	}
	if Level(42).String() != "UNKNOWN" {
		t.Errorf("expected UNKNOWN for out-of-range level, got %s", Level(42).String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{level: LevelWarn, out: &buf}

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	output := buf.String()
	for _, hidden := range []string{"debug message", "info message"} {
		if strings.Contains(output, hidden) {
			t.Errorf("%q should be filtered at WARN level", hidden)
		}
	}
	for _, shown := range []string{"warn message", "error message"} {
		if !strings.Contains(output, shown) {
			t.Errorf("%q should be logged at WARN level", shown)
		}
	}
}

func TestLineFormat(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{level: LevelDebug, out: &buf}

	l.Info("saved %d fields", 3)

	line := buf.String()
	if !strings.Contains(line, "[INFO]") {
		t.Errorf("expected level tag in line: %q", line)
	}
	if !strings.Contains(line, "saved 3 fields") {
		t.Errorf("expected formatted message in line: %q", line)
	}
	if !strings.HasSuffix(line, "\n") {
		t.Errorf("expected trailing newline: %q", line)
	}
}

func TestConfigure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tada.log")

	l := &Logger{level: LevelInfo, out: os.Stdout}
	if err := l.Configure("debug", path); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	defer l.Close()

	l.Debug("reached the file")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(content), "reached the file") {
		t.Errorf("expected configured file to receive debug output, got %q", content)
	}
}

func TestConfigureRejectsBadLevel(t *testing.T) {
	l := &Logger{level: LevelInfo, out: os.Stdout}
	if err := l.Configure("loud", ""); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestCloseDiscardsFurtherOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tada.log")

	l := &Logger{level: LevelInfo, out: os.Stdout}
	if err := l.Configure("", path); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	l.Info("before close")
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Logging after close must not panic or resurrect the file.
	l.Info("after close")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if strings.Contains(string(content), "after close") {
		t.Error("output after Close should be discarded")
	}

	if err := l.Close(); err != nil {
		t.Errorf("repeat Close should be a no-op, got %v", err)
	}
}

func TestEnvConfiguration(t *testing.T) {
	t.Setenv("TADA_LOG_LEVEL", "debug")
	path := filepath.Join(t.TempDir(), "env.log")
	t.Setenv("TADA_LOG_FILE", path)

	l := New()
	defer l.Close()

	if l.level != LevelDebug {
		t.Errorf("expected debug level from environment, got %v", l.level)
	}

	l.Debug("hello from env config")
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(content), "hello from env config") {
		t.Error("expected env-configured file to receive output")
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	var buf bytes.Buffer
	Default.SetOutput(&buf)
	Default.SetLevel(LevelDebug)
	defer Default.SetOutput(io.Discard)

	Debug("debug %s", "test")
	Info("info %s", "test")
	Warn("warn %s", "test")
	Error("error %s", "test")

	output := buf.String()
	for _, want := range []string{"debug test", "info test", "warn test", "error test"} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q", want)
		}
	}
}
