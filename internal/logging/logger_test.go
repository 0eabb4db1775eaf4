package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func readLogLines(t *testing.T, path string) []map[string]any {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("failed to parse log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestNewLogger(t *testing.T) {
	t.Run("creates log file", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "fsel_1000.log")

		logger, err := NewLogger(logPath, LevelDebug, DefaultRotationConfig())
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		defer logger.Close()

		if _, err := os.Stat(logPath); os.IsNotExist(err) {
			t.Errorf("log file was not created at %s", logPath)
		}
	})

	t.Run("writes to stderr when path is empty", func(t *testing.T) {
		logger, err := NewLogger("", LevelInfo, DefaultRotationConfig())
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		if logger.writer != nil {
			t.Error("expected no rotating writer when path is empty")
		}
		if err := logger.Close(); err != nil {
			t.Errorf("Close() = %v, want nil", err)
		}
	})
}

func TestLogLevelFiltering(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "fsel.log")

	logger, err := NewLogger(logPath, LevelWarn, DefaultRotationConfig())
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")
	logger.Close()

	entries := readLogLines(t, logPath)
	if len(entries) != 2 {
		t.Fatalf("expected 2 log lines (WARN and ERROR only), got %d", len(entries))
	}
	if entries[0]["level"] != "WARN" || entries[1]["level"] != "ERROR" {
		t.Errorf("unexpected levels: %v, %v", entries[0]["level"], entries[1]["level"])
	}
}

func TestContextPropagation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, LevelInfo)

	logger.WithCommand("add").With("uid", 1000).Info("lock acquired", "path", "/tmp/fsel_1000.lock")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log entry: %v", err)
	}

	if entry["command"] != "add" {
		t.Errorf("expected command=add, got %v", entry["command"])
	}
	if entry["uid"] != float64(1000) {
		t.Errorf("expected uid=1000, got %v", entry["uid"])
	}
	if entry["path"] != "/tmp/fsel_1000.lock" {
		t.Errorf("expected path, got %v", entry["path"])
	}
	if entry["msg"] != "lock acquired" {
		t.Errorf("expected msg=lock acquired, got %v", entry["msg"])
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, LevelInfo)

	if logger.With() != logger {
		t.Error("With() without arguments should return the same logger")
	}

	// Non-string keys are skipped; the parent is left untouched.
	child := logger.With(42, "ignored", "key", "value")
	logger.Info("parent")
	child.Info("child")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if strings.Contains(lines[0], `"key"`) {
		t.Errorf("parent logger inherited child attributes: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"key":"value"`) {
		t.Errorf("child logger missing attribute: %s", lines[1])
	}
	if strings.Contains(lines[1], "ignored") {
		t.Errorf("non-string key should be skipped: %s", lines[1])
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	logger.Error("discarded", "key", "value")
	if err := logger.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}

	if OrNop(nil) == nil {
		t.Error("OrNop(nil) returned nil")
	}
	if OrNop(logger) != logger {
		t.Error("OrNop should return a non-nil logger unchanged")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"Warn", LevelWarn},
		{"error", LevelError},
		{"verbose", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidLevels(t *testing.T) {
	levels := ValidLevels()
	if len(levels) != 4 {
		t.Fatalf("expected 4 levels, got %d", len(levels))
	}
	for _, level := range levels {
		if ParseLevel(level) != level {
			t.Errorf("ParseLevel(%q) did not round-trip", level)
		}
	}
}

func TestClose(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "fsel.log")
	logger, err := NewLogger(logPath, LevelInfo, DefaultRotationConfig())
	if err != nil {
		t.Fatal(err)
	}

	child := logger.WithCommand("clear")
	if err := child.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}

func TestConcurrentWrites(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "fsel.log")
	logger, err := NewLogger(logPath, LevelInfo, RotationConfig{})
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				logger.Info("entry", "worker", n, "seq", j)
			}
		}(i)
	}
	wg.Wait()
	logger.Close()

	if got := len(readLogLines(t, logPath)); got != 200 {
		t.Errorf("expected 200 log lines, got %d", got)
	}
}
