// Package logger provides the process-wide leveled logger. Output is
// discarded unless a log file is configured, so the TUI never competes
// with log lines for the terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// String returns the string representation of a log level.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLevel parses a log level string.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("invalid log level: %s", s)
}

// Logger is a mutex-guarded leveled logger writing timestamped lines.
type Logger struct {
	mu    sync.Mutex
	level Level
	out   io.Writer
	file  *os.File
}

// Default is the process-wide logger, initialized from TADA_LOG_LEVEL and
// TADA_LOG_FILE at startup and reconfigurable via Configure.
var Default = New()

// New creates a logger from the environment. Without TADA_LOG_FILE all
// output is discarded.
func New() *Logger {
	l := &Logger{level: LevelInfo, out: io.Discard}

	if levelStr := os.Getenv("TADA_LOG_LEVEL"); levelStr != "" {
		if level, err := ParseLevel(levelStr); err == nil {
			l.level = level
		}
	}
	if path := os.Getenv("TADA_LOG_FILE"); path != "" {
		_ = l.openFile(path)
	}

	return l
}

// Configure applies config-sourced settings to the logger. Empty arguments
// leave the corresponding setting unchanged, so environment-based setup
// survives a config without logging keys.
func (l *Logger) Configure(level, path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level != "" {
		parsed, err := ParseLevel(level)
		if err != nil {
			return err
		}
		l.level = parsed
	}
	if path != "" {
		if err := l.openFile(path); err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
	}
	return nil
}

// openFile swaps the output to an append-mode file, closing any previous one.
func (l *Logger) openFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	if l.file != nil {
		_ = l.file.Close()
	}
	l.file = f
	l.out = f
	return nil
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.out = io.Discard
	return err
}

// SetLevel sets the minimum severity that gets written.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput redirects log output, mainly for tests.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

func (l *Logger) Debug(format string, v ...any) { l.write(LevelDebug, format, v...) }
func (l *Logger) Info(format string, v ...any)  { l.write(LevelInfo, format, v...) }
func (l *Logger) Warn(format string, v ...any)  { l.write(LevelWarn, format, v...) }
func (l *Logger) Error(format string, v ...any) { l.write(LevelError, format, v...) }

func (l *Logger) write(level Level, format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	ts := time.Now().Format("2006/01/02 15:04:05")
	fmt.Fprintf(l.out, "%s [%s] %s\n", ts, level, fmt.Sprintf(format, v...))
}

// Package-level functions that use the default logger.

func Debug(format string, v ...any) { Default.Debug(format, v...) }
func Info(format string, v ...any)  { Default.Info(format, v...) }
func Warn(format string, v ...any)  { Default.Warn(format, v...) }
func Error(format string, v ...any) { Default.Error(format, v...) }

// Configure applies config-sourced settings to the default logger.
func Configure(level, path string) error { return Default.Configure(level, path) }

// Close closes the default logger.
func Close() error { return Default.Close() }
