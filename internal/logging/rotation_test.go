package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// newTinyWriter returns a writer that rotates after 1KB.
func newTinyWriter(t *testing.T, path string, backups int) *RotatingWriter {
	t.Helper()

	rw, err := NewRotatingWriter(path, RotationConfig{MaxSizeMB: 1, MaxBackups: backups})
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}
	rw.maxSizeB = 1024
	t.Cleanup(func() { _ = rw.Close() })
	return rw
}

func TestNewRotatingWriter(t *testing.T) {
	t.Run("creates nested directories", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "nested", "dir", "fsel.log")

		rw, err := NewRotatingWriter(logPath, DefaultRotationConfig())
		if err != nil {
			t.Fatalf("NewRotatingWriter failed: %v", err)
		}
		defer rw.Close()

		if _, err := os.Stat(logPath); os.IsNotExist(err) {
			t.Errorf("log file was not created at %s", logPath)
		}
		if rw.FilePath() != logPath {
			t.Errorf("FilePath() = %q, want %q", rw.FilePath(), logPath)
		}
	})

	t.Run("picks up existing size", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "fsel.log")
		if err := os.WriteFile(logPath, []byte("existing\n"), 0600); err != nil {
			t.Fatal(err)
		}

		rw, err := NewRotatingWriter(logPath, DefaultRotationConfig())
		if err != nil {
			t.Fatal(err)
		}
		defer rw.Close()

		if rw.CurrentSize() != int64(len("existing\n")) {
			t.Errorf("CurrentSize() = %d", rw.CurrentSize())
		}
	})
}

func TestRotatingWriterRotation(t *testing.T) {
	t.Run("shifts backups and drops the oldest", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "fsel.log")
		rw := newTinyWriter(t, logPath, 2)

		chunk := []byte(strings.Repeat("x", 600) + "\n")
		for i := 0; i < 5; i++ {
			if _, err := rw.Write(chunk); err != nil {
				t.Fatalf("Write %d failed: %v", i, err)
			}
		}

		for _, p := range []string{logPath, logPath + ".1", logPath + ".2"} {
			if _, err := os.Stat(p); err != nil {
				t.Errorf("expected %s to exist: %v", p, err)
			}
		}
		if _, err := os.Stat(logPath + ".3"); !os.IsNotExist(err) {
			t.Errorf("expected backup .3 not to exist")
		}
		if rw.CurrentSize() != int64(len(chunk)) {
			t.Errorf("CurrentSize() = %d, want %d", rw.CurrentSize(), len(chunk))
		}
	})

	t.Run("no backups truncates in place", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "fsel.log")
		rw := newTinyWriter(t, logPath, 0)

		chunk := []byte(strings.Repeat("y", 700) + "\n")
		for i := 0; i < 3; i++ {
			if _, err := rw.Write(chunk); err != nil {
				t.Fatal(err)
			}
		}

		if _, err := os.Stat(logPath + ".1"); !os.IsNotExist(err) {
			t.Error("expected no backup file with MaxBackups=0")
		}
		info, err := os.Stat(logPath)
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() != int64(len(chunk)) {
			t.Errorf("log size = %d, want %d", info.Size(), len(chunk))
		}
	})

	t.Run("oversized first entry does not rotate an empty file", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "fsel.log")
		rw := newTinyWriter(t, logPath, 1)

		if _, err := rw.Write([]byte(strings.Repeat("z", 2048))); err != nil {
			t.Fatal(err)
		}
		if _, err := os.Stat(logPath + ".1"); !os.IsNotExist(err) {
			t.Error("empty file should not be rotated")
		}
	})
}

func TestRotatingWriterClose(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "fsel.log")
	rw, err := NewRotatingWriter(logPath, DefaultRotationConfig())
	if err != nil {
		t.Fatal(err)
	}

	if err := rw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := rw.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
	if _, err := rw.Write([]byte("late")); err == nil {
		t.Error("Write after Close should fail")
	}
}

func TestDefaultRotationConfig(t *testing.T) {
	cfg := DefaultRotationConfig()
	if cfg.MaxSizeMB != 1 || cfg.MaxBackups != 2 {
		t.Errorf("DefaultRotationConfig() = %+v", cfg)
	}
}
