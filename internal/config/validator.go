package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "selection.prefix")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// prefixRegex limits the state file prefix to characters that are safe in a file name
var prefixRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateSelection()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateSelection() []ValidationError {
	var errors []ValidationError

	if c.Selection.Prefix == "" {
		errors = append(errors, ValidationError{
			Field:   "selection.prefix",
			Value:   c.Selection.Prefix,
			Message: "must not be empty",
		})
	} else if !prefixRegex.MatchString(c.Selection.Prefix) {
		errors = append(errors, ValidationError{
			Field:   "selection.prefix",
			Value:   c.Selection.Prefix,
			Message: "must contain only letters, digits, hyphens and underscores",
		})
	}

	if strings.ContainsRune(c.Selection.StateDir, 0) {
		errors = append(errors, ValidationError{
			Field:   "selection.state_dir",
			Value:   c.Selection.StateDir,
			Message: "must not contain NUL bytes",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB < 1 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be at least 1",
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
