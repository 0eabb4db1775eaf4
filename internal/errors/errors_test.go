package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// LockError Tests
// -----------------------------------------------------------------------------

func TestLockError(t *testing.T) {
	t.Run("held lock matches sentinel", func(t *testing.T) {
		err := NewLockError("cannot acquire lock", ErrLockHeld).WithPath("/tmp/fsel_1.lock")

		if !errors.Is(err, ErrLockHeld) {
			t.Error("errors.Is(err, ErrLockHeld) = false, want true")
		}
		if !err.IsRetryable() {
			t.Error("IsRetryable() = false, want true")
		}
		want := "lock error [path=/tmp/fsel_1.lock]: cannot acquire lock: lock file exists"
		if got := err.Error(); got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})

	t.Run("lost race matches both sentinels", func(t *testing.T) {
		err := NewLockError("cannot acquire lock", ErrLockRaceLost)

		if !errors.Is(err, ErrLockRaceLost) {
			t.Error("errors.Is(err, ErrLockRaceLost) = false, want true")
		}
		if !errors.Is(err, ErrLockHeld) {
			t.Error("errors.Is(err, ErrLockHeld) = false, want true")
		}
	})

	t.Run("survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("add: %w", NewLockError("cannot acquire lock", ErrLockHeld))

		var lockErr *LockError
		if !errors.As(err, &lockErr) {
			t.Fatal("errors.As(err, *LockError) = false, want true")
		}
		if !IsRetryable(err) {
			t.Error("IsRetryable() = false, want true")
		}
	})
}

// -----------------------------------------------------------------------------
// PathError Tests
// -----------------------------------------------------------------------------

func TestPathError(t *testing.T) {
	err := NewPathError("stat", "/no/such", io.EOF)

	if !errors.Is(err, ErrPathUnresolvable) {
		t.Error("errors.Is(err, ErrPathUnresolvable) = false, want true")
	}
	if !errors.Is(err, io.EOF) {
		t.Error("errors.Is(err, io.EOF) = false, want true")
	}
	if errors.Is(err, ErrLockHeld) {
		t.Error("errors.Is(err, ErrLockHeld) = true, want false")
	}
	if err.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityWarning)
	}
	want := "path error [op=stat, path=/no/such]: cannot resolve path: EOF"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

// -----------------------------------------------------------------------------
// StorageError Tests
// -----------------------------------------------------------------------------

func TestStorageError(t *testing.T) {
	tests := []struct {
		name  string
		err   *StorageError
		want  string
		cause error
	}{
		{
			name:  "with op and file",
			err:   NewStorageError("append", "/tmp/fsel_1.idx", io.ErrShortWrite),
			want:  "storage error [op=append, file=/tmp/fsel_1.idx]: short write",
			cause: io.ErrShortWrite,
		},
		{
			name: "without context",
			err:  NewStorageError("", "", nil),
			want: "storage error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, ErrStorageIO) {
				t.Error("errors.Is(err, ErrStorageIO) = false, want true")
			}
			if tt.cause != nil && !errors.Is(tt.err, tt.cause) {
				t.Errorf("errors.Is(err, %v) = false, want true", tt.cause)
			}
			if tt.err.IsRetryable() {
				t.Error("IsRetryable() = true, want false")
			}
		})
	}
}

// -----------------------------------------------------------------------------
// ValidationError Tests
// -----------------------------------------------------------------------------

func TestValidationError(t *testing.T) {
	err := NewValidationError("invalid exclude pattern").WithField("exclude").WithValue("[")

	if !errors.Is(err, ErrInvalidInput) {
		t.Error("errors.Is(err, ErrInvalidInput) = false, want true")
	}
	want := "validation error [field=exclude, value=[]: invalid exclude pattern"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

// -----------------------------------------------------------------------------
// Classification Tests
// -----------------------------------------------------------------------------

func TestClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
		severity  Severity
	}{
		{"nil", nil, false, SeverityError},
		{"plain error", New("boom"), false, SeverityError},
		{"bare held sentinel", ErrLockHeld, true, SeverityError},
		{"wrapped held sentinel", Wrap(ErrLockHeld, "list"), true, SeverityError},
		{"lock error", NewLockError("x", ErrLockHeld), true, SeverityError},
		{"path error", NewPathError("stat", "p", nil), false, SeverityWarning},
		{"storage error", NewStorageError("read", "f", nil), false, SeverityError},
		{"wrapped path error", Wrapf(NewPathError("stat", "p", nil), "add %s", "p"), false, SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
			if tt.err != nil {
				if got := GetSeverity(tt.err); got != tt.severity {
					t.Errorf("GetSeverity() = %v, want %v", got, tt.severity)
				}
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if Wrapf(nil, "ctx %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}

	err := Wrapf(ErrLockHeld, "list %s", "selection")
	if err.Error() != "list selection: lock file exists" {
		t.Errorf("Wrapf() = %q", err.Error())
	}
	if !errors.Is(err, ErrLockHeld) {
		t.Error("wrapped error lost its sentinel")
	}
}
