// Package errors provides centralized error definitions and error handling utilities
// for fsel. It defines the selection store's sentinel errors, typed errors that
// carry the file or path involved, and classification helpers used by the CLI
// to decide how a failure is reported.
//
// # Error Types
//
// Domain-specific errors represent failures in one part of the selection store:
//   - LockError: the lock token is held, or creating it lost a race
//   - PathError: a single candidate path could not be resolved
//   - StorageError: the path log, hash index or lock file could not be read or written
//
// Semantic errors represent common error conditions:
//   - ValidationError: invalid configuration or flag values
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewLockError("lock file exists", errors.ErrLockHeld).WithPath(lockPath)
//	err := errors.NewStorageError("append", indexPath, ioErr)
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrLockHeld) { ... }
//
//	var storageErr *errors.StorageError
//	if errors.As(err, &storageErr) { ... }
//
// # Error Classification
//
// Errors can be classified by behavior:
//   - Retryable: the user may re-run the command and succeed (a contested lock)
//   - Severity: whether the error affects one item of a batch or the whole operation
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityWarning is for errors that affect a single item of a batch.
	SeverityWarning Severity = iota
	// SeverityError is for errors that abort the current operation.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrLockHeld indicates that the lock token exists, either because another
	// invocation is mutating the selection or because one crashed mid-operation.
	ErrLockHeld = New("lock file exists")
	// ErrLockRaceLost indicates that the lock token was created by someone else
	// between the existence check and the exclusive create.
	ErrLockRaceLost = New("lock file created concurrently")
	// ErrPathUnresolvable indicates that a candidate path does not exist or
	// cannot be canonicalized.
	ErrPathUnresolvable = New("path cannot be resolved")
	// ErrStorageIO indicates a failure to open, read or write a state file.
	ErrStorageIO = New("selection storage failure")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// SelectionError is the base interface for all fsel errors.
type SelectionError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if re-running the command may succeed.
	IsRetryable() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message   string
	cause     error
	severity  Severity
	retryable bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// LockError reports a contested lock token. Every LockError matches
// ErrLockHeld, so a lost creation race is handled exactly like a held lock.
//
// Example:
//
//	err := errors.NewLockError("cannot acquire lock", errors.ErrLockRaceLost).WithPath("/tmp/fsel_1000.lock")
//	fmt.Println(err) // "lock error [path=/tmp/fsel_1000.lock]: cannot acquire lock: lock file created concurrently"
type LockError struct {
	baseError
	Path string
}

// NewLockError creates a new LockError.
func NewLockError(message string, cause error) *LockError {
	return &LockError{
		baseError: baseError{
			message:   message,
			cause:     cause,
			severity:  SeverityError,
			retryable: true,
		},
	}
}

// WithPath adds the lock token path to the error context.
func (e *LockError) WithPath(path string) *LockError {
	e.Path = path
	return e
}

// Error returns the formatted error message.
func (e *LockError) Error() string {
	prefix := "lock error"
	if e.Path != "" {
		prefix = fmt.Sprintf("lock error [path=%s]", e.Path)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *LockError) Is(target error) bool {
	if _, ok := target.(*LockError); ok {
		return true
	}
	if target == ErrLockHeld {
		return true
	}
	return e.baseError.Is(target)
}

// PathError reports a candidate path that could not be resolved. It never
// aborts a batch; callers count it and move on.
type PathError struct {
	baseError
	Op   string
	Path string
}

// NewPathError creates a new PathError for the given operation and candidate.
func NewPathError(op, path string, cause error) *PathError {
	return &PathError{
		baseError: baseError{
			message:   "cannot resolve path",
			cause:     cause,
			severity:  SeverityWarning,
			retryable: false,
		},
		Op:   op,
		Path: path,
	}
}

// Error returns the formatted error message.
func (e *PathError) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}

	prefix := "path error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("path error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *PathError) Is(target error) bool {
	if _, ok := target.(*PathError); ok {
		return true
	}
	if target == ErrPathUnresolvable {
		return true
	}
	return e.baseError.Is(target)
}

// StorageError reports a failed read or write of one of the state files.
//
// Example:
//
//	err := errors.NewStorageError("append", "/tmp/fsel_1000.idx", io.ErrShortWrite)
//	fmt.Println(err) // "storage error [op=append, file=/tmp/fsel_1000.idx]: short write"
type StorageError struct {
	baseError
	Op   string
	File string
}

// NewStorageError creates a new StorageError.
func NewStorageError(op, file string, cause error) *StorageError {
	return &StorageError{
		baseError: baseError{
			cause:     cause,
			severity:  SeverityError,
			retryable: false,
		},
		Op:   op,
		File: file,
	}
}

// Error returns the formatted error message.
func (e *StorageError) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.File != "" {
		parts = append(parts, fmt.Sprintf("file=%s", e.File))
	}

	prefix := "storage error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("storage error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %v", prefix, e.cause)
	}
	return prefix
}

// Is checks if this error matches the target.
func (e *StorageError) Is(target error) bool {
	if _, ok := target.(*StorageError); ok {
		return true
	}
	if target == ErrStorageIO {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("invalid exclude pattern")
//	err = err.WithField("exclude").WithValue("[")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:   message,
			severity:  SeverityError,
			retryable: false,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if target == ErrInvalidInput {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if re-running the command may succeed without any
// other change. A contested lock is retryable; a broken state file is not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var selErr SelectionError
	if As(err, &selErr) {
		return selErr.IsRetryable()
	}

	return Is(err, ErrLockHeld)
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement SelectionError.
func GetSeverity(err error) Severity {
	var selErr SelectionError
	if As(err, &selErr) {
		return selErr.Severity()
	}
	return SeverityError
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
