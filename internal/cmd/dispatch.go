package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/fsel/internal/errors"
)

// rootFlags are the short operation flags accepted without a subcommand.
type rootFlags struct {
	Sort     bool
	Clear    bool
	Replace  bool
	Unlock   bool
	Validate bool
	Long     bool
}

// CommandKind is the operation a root invocation resolves to.
type CommandKind int

const (
	KindList CommandKind = iota
	KindAdd
	KindReplace
	KindClear
	KindUnlock
	KindValidate
)

// String returns the subcommand name for the kind.
func (k CommandKind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindAdd:
		return "add"
	case KindReplace:
		return "replace"
	case KindClear:
		return "clear"
	case KindUnlock:
		return "unlock"
	case KindValidate:
		return "validate"
	default:
		return "unknown"
	}
}

// ResolveKind maps root flags and the number of path arguments to an
// operation. Unlock wins over validate, which wins over everything else;
// clear only applies when no paths are given.
func ResolveKind(f rootFlags, nargs int) CommandKind {
	switch {
	case f.Unlock:
		return KindUnlock
	case f.Validate:
		return KindValidate
	case f.Clear && nargs == 0:
		return KindClear
	case nargs == 0:
		return KindList
	case f.Replace:
		return KindReplace
	default:
		return KindAdd
	}
}

type handlerFunc func(a *app, cmd *cobra.Command, args []string, f rootFlags) error

var handlers = map[CommandKind]handlerFunc{
	KindList: func(a *app, cmd *cobra.Command, _ []string, f rootFlags) error {
		return a.runList(cmd, listFlags{sort: f.Sort, long: f.Long})
	},
	KindAdd: func(a *app, cmd *cobra.Command, args []string, _ rootFlags) error {
		return a.runAdd(cmd, args, nil, false)
	},
	KindReplace: func(a *app, cmd *cobra.Command, args []string, _ rootFlags) error {
		return a.runAdd(cmd, args, nil, true)
	},
	KindClear: func(a *app, cmd *cobra.Command, _ []string, _ rootFlags) error {
		return a.runClear(cmd)
	},
	KindUnlock: func(a *app, cmd *cobra.Command, _ []string, _ rootFlags) error {
		return a.runUnlock(cmd)
	},
	KindValidate: func(a *app, cmd *cobra.Command, _ []string, _ rootFlags) error {
		return a.runValidate(cmd)
	},
}

func (a *app) dispatch(cmd *cobra.Command, kind CommandKind, args []string, f rootFlags) error {
	handler, ok := handlers[kind]
	if !ok {
		return fmt.Errorf("no handler for command %s", kind)
	}
	a.logger.Debug("dispatching root invocation", "kind", kind.String(), "args", len(args))
	return handler(a, cmd, args, f)
}

// ExitError carries a non-zero exit status. A nil Err means the command has
// already reported the failure and nothing more should be printed.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit status for err.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// ErrorMessage returns the text printed after "Error: " for err, or "" when
// the failure has already been reported.
func ErrorMessage(err error) string {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return ""
	}
	if errors.Is(err, errors.ErrLockHeld) {
		return "Lock file exists"
	}
	return err.Error()
}

// ErrorHint returns a follow-up line for failures that re-running may fix,
// or "" when there is nothing to suggest.
func ErrorHint(err error) string {
	if !errors.IsRetryable(err) {
		return ""
	}
	return "Another fsel may be running. Retry, or use -f to force the operation or 'fsel -u' to release the lock."
}
