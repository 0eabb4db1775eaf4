package selection

import (
	"context"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Iron-Ham/fsel/internal/config"
	"github.com/Iron-Ham/fsel/internal/errors"
	"github.com/Iron-Ham/fsel/internal/fingerprint"
	"github.com/Iron-Ham/fsel/internal/hashindex"
	"github.com/Iron-Ham/fsel/internal/lockfile"
	"github.com/Iron-Ham/fsel/internal/logging"
	"github.com/Iron-Ham/fsel/internal/pathlog"
)

// ResolveFunc turns a candidate path into its canonical absolute form.
type ResolveFunc func(candidate string) (string, error)

// Selection is one user's selection store.
type Selection struct {
	paths   config.StatePaths
	lock    *lockfile.Coordinator
	logger  *logging.Logger
	errOut  io.Writer
	resolve ResolveFunc
}

// Option configures a Selection.
type Option func(*Selection)

// WithLogger sets the logger used for lock and storage events.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Selection) {
		s.logger = logging.OrNop(logger)
	}
}

// WithErrorOutput sets where per-candidate resolution failures are reported.
// The default discards them.
func WithErrorOutput(w io.Writer) Option {
	return func(s *Selection) {
		if w == nil {
			w = io.Discard
		}
		s.errOut = w
	}
}

// WithResolve replaces the candidate canonicalization function.
func WithResolve(fn ResolveFunc) Option {
	return func(s *Selection) {
		if fn != nil {
			s.resolve = fn
		}
	}
}

// New creates a Selection backed by the files in paths.
func New(paths config.StatePaths, opts ...Option) *Selection {
	s := &Selection{
		paths:   paths,
		logger:  logging.NopLogger(),
		errOut:  io.Discard,
		resolve: Resolve,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lock = lockfile.New(paths.Lock, s.logger)
	return s
}

// AddOptions controls Add and Replace.
type AddOptions struct {
	// Force removes a held lock token before acquiring it.
	Force bool
}

// AddResult summarizes one Add batch.
type AddResult struct {
	Added      int
	Duplicates int
	Unresolved int
	// Total is the number of entries in the selection after the batch.
	Total int
}

// ListOptions controls List.
type ListOptions struct {
	Sort       bool
	ClearAfter bool
	Force      bool
}

// ClearOptions controls Clear.
type ClearOptions struct {
	Force bool
}

// ValidateOptions controls Validate.
type ValidateOptions struct {
	Force bool
}

// ValidateResult counts the outcome of Validate.
type ValidateResult struct {
	Valid   int
	Invalid int
}

// OK reports whether every stored path still exists.
func (r ValidateResult) OK() bool {
	return r.Invalid == 0
}

// Resolve canonicalizes candidate the way realpath(3) does: the path must
// exist, and the result is absolute with every symlink evaluated. A canonical
// path containing a newline is rejected, since the path log is line-delimited.
func Resolve(candidate string) (string, error) {
	if _, err := os.Stat(candidate); err != nil {
		return "", errors.NewPathError("stat", candidate, err)
	}
	abs, err := filepath.Abs(candidate)
	if err != nil {
		return "", errors.NewPathError("abs", candidate, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.NewPathError("realpath", candidate, err)
	}
	if strings.ContainsRune(canonical, '\n') {
		return "", errors.NewPathError("invalid", candidate, errors.New("path contains a newline"))
	}
	return canonical, nil
}

// Add resolves each candidate and appends the ones not already selected.
// Candidates that cannot be resolved are reported to the error output and
// counted; they never abort the batch. Storage failures and context
// cancellation do, after the lock is released.
func (s *Selection) Add(ctx context.Context, candidates iter.Seq[string], opts AddOptions) (result AddResult, err error) {
	lock, err := s.lock.Acquire(opts.Force)
	if err != nil {
		return AddResult{}, err
	}
	defer s.release(lock, &err)

	return s.appendCandidates(ctx, candidates)
}

// Replace empties the selection and then adds candidates to it. Emptying and
// refilling take the lock separately.
func (s *Selection) Replace(ctx context.Context, candidates iter.Seq[string], opts AddOptions) (AddResult, error) {
	if err := s.truncate(opts.Force); err != nil {
		return AddResult{}, err
	}
	return s.Add(ctx, candidates, opts)
}

func (s *Selection) truncate(force bool) (err error) {
	lock, err := s.lock.Acquire(force)
	if err != nil {
		return err
	}
	defer s.release(lock, &err)

	log, err := pathlog.Open(s.paths.Log)
	if err != nil {
		return err
	}
	defer closeQuietly(log, s.logger)

	ix, err := hashindex.Open(s.paths.Index)
	if err != nil {
		return err
	}
	defer closeQuietly(ix, s.logger)

	if err := log.Truncate(); err != nil {
		return err
	}
	if err := ix.Truncate(); err != nil {
		return err
	}

	s.logger.Info("selection truncated", "log", s.paths.Log)
	return nil
}

func (s *Selection) appendCandidates(ctx context.Context, candidates iter.Seq[string]) (AddResult, error) {
	var result AddResult

	log, err := pathlog.Open(s.paths.Log)
	if err != nil {
		s.logger.Error("failed to open path log", "error", err.Error())
		return result, err
	}
	defer closeQuietly(log, s.logger)

	ix, err := hashindex.Open(s.paths.Index)
	if err != nil {
		s.logger.Error("failed to open hash index", "error", err.Error())
		return result, err
	}
	defer closeQuietly(ix, s.logger)

	for candidate := range candidates {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("add interrupted", "added", result.Added, "error", err.Error())
			return result, err
		}

		resolved, err := s.resolve(candidate)
		if err != nil {
			s.reportUnresolved(candidate, err)
			result.Unresolved++
			continue
		}

		d := fingerprint.Sum(resolved)
		seen, err := ix.Contains(d)
		if err != nil {
			s.logger.Error("failed to scan hash index", "error", err.Error())
			return result, err
		}
		if seen {
			s.logger.Debug("skipping duplicate path", "path", resolved, "digest", d.String())
			result.Duplicates++
			continue
		}

		if err := appendEntry(log, ix, resolved, d); err != nil {
			s.logger.Error("failed to append path", "path", resolved, "error", err.Error())
			return result, err
		}
		result.Added++
	}

	total, err := ix.Count()
	if err != nil {
		return result, err
	}
	result.Total = total

	s.logger.Info("paths added",
		"added", result.Added,
		"duplicates", result.Duplicates,
		"unresolved", result.Unresolved,
		"total", result.Total,
	)
	return result, nil
}

type entryLog interface {
	Append(path string) error
	Size() (int64, error)
	TruncateTo(size int64) error
}

type entryIndex interface {
	Append(d fingerprint.Digest) error
}

// appendEntry writes path to the log and d to the index. If the index write
// fails the log is cut back to its previous length so both files keep the
// same number of entries.
func appendEntry(log entryLog, ix entryIndex, path string, d fingerprint.Digest) error {
	size, err := log.Size()
	if err != nil {
		return err
	}
	if err := log.Append(path); err != nil {
		return err
	}
	if err := ix.Append(d); err != nil {
		if terr := log.TruncateTo(size); terr != nil {
			return errors.Join(err, terr)
		}
		return err
	}
	return nil
}

func (s *Selection) reportUnresolved(candidate string, err error) {
	var pathErr *errors.PathError
	if errors.As(err, &pathErr) && pathErr.Op == "stat" {
		fmt.Fprintf(s.errOut, "Path does not exist: %s\n", candidate)
	} else {
		fmt.Fprintf(s.errOut, "Invalid path: %s\n", candidate)
	}
	s.logger.Debug("skipping unresolvable path",
		"path", candidate,
		"error", err.Error(),
		"severity", errors.GetSeverity(err).String(),
	)
}

// List yields the stored paths, in insertion order or sorted byte-wise.
// With ClearAfter the lock is held while listing and the selection is
// removed once the sequence has been fully consumed; a consumer that stops
// early leaves the selection in place. An error is yielded at most once and
// ends the sequence.
func (s *Selection) List(opts ListOptions) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if opts.ClearAfter {
			lock, err := s.lock.Acquire(opts.Force)
			if err != nil {
				yield("", err)
				return
			}
			defer func() {
				if err := lock.Release(); err != nil {
					s.logger.Error("failed to release lock", "error", err.Error())
				}
			}()
		} else if err := s.checkLock(opts.Force); err != nil {
			yield("", err)
			return
		}

		if !s.yieldPaths(opts.Sort, yield) {
			return
		}

		if opts.ClearAfter {
			if err := s.removeState(); err != nil {
				yield("", err)
				return
			}
			s.logger.Info("selection cleared after listing")
		}
	}
}

// yieldPaths reports whether every path was yielded without error.
func (s *Selection) yieldPaths(sorted bool, yield func(string, error) bool) bool {
	if !pathlog.Exists(s.paths.Log) {
		return true
	}

	if sorted {
		paths, err := pathlog.ReadAll(s.paths.Log)
		if err != nil {
			yield("", err)
			return false
		}
		slices.Sort(paths)
		for _, p := range paths {
			if !yield(p, nil) {
				return false
			}
		}
		return true
	}

	for p, err := range pathlog.Iterate(s.paths.Log) {
		if err != nil {
			yield("", err)
			return false
		}
		if !yield(p, nil) {
			return false
		}
	}
	return true
}

// Clear removes the path log and the hash index. A selection that does not
// exist is cleared successfully.
func (s *Selection) Clear(opts ClearOptions) (err error) {
	lock, err := s.lock.Acquire(opts.Force)
	if err != nil {
		return err
	}
	defer s.release(lock, &err)

	if err := s.removeState(); err != nil {
		return err
	}
	s.logger.Info("selection cleared")
	return nil
}

// Validate stats every stored path, reporting each through report, which
// may be nil. It does not take the lock.
func (s *Selection) Validate(opts ValidateOptions, report func(path string, ok bool)) (ValidateResult, error) {
	var result ValidateResult

	if err := s.checkLock(opts.Force); err != nil {
		return result, err
	}

	for p, err := range pathlog.Iterate(s.paths.Log) {
		if err != nil {
			return result, err
		}
		_, statErr := os.Stat(p)
		ok := statErr == nil
		if ok {
			result.Valid++
		} else {
			result.Invalid++
			s.logger.Debug("stored path no longer exists", "path", p)
		}
		if report != nil {
			report(p, ok)
		}
	}

	return result, nil
}

// Count returns the number of selected paths.
func (s *Selection) Count() (int, error) {
	return hashindex.CountFile(s.paths.Index)
}

// Unlock removes a lock token left by another invocation after confirm
// agrees. A nil confirm removes it unconditionally.
func (s *Selection) Unlock(confirm func() bool) (lockfile.UnlockResult, error) {
	return s.lock.RequestUnlock(confirm)
}

// LockState reports whether the lock token is absent, live or stale.
func (s *Selection) LockState() lockfile.LockState {
	return s.lock.Probe()
}

func (s *Selection) checkLock(force bool) error {
	if s.lock.IsHeld() && !force {
		s.logger.Warn("selection is locked", "path", s.lock.Path())
		return errors.NewLockError("cannot read selection", errors.ErrLockHeld).WithPath(s.lock.Path())
	}
	return nil
}

func (s *Selection) removeState() error {
	for _, name := range []string{s.paths.Log, s.paths.Index} {
		if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
			s.logger.Error("failed to remove state file", "file", name, "error", err.Error())
			return errors.NewStorageError("remove", name, err)
		}
	}
	return nil
}

// release drops lock and records a release failure in *errp unless an
// earlier error is already there.
func (s *Selection) release(lock *lockfile.Lock, errp *error) {
	if rerr := lock.Release(); rerr != nil {
		s.logger.Error("failed to release lock", "error", rerr.Error())
		if *errp == nil {
			*errp = rerr
		}
	}
}

func closeQuietly(c io.Closer, logger *logging.Logger) {
	if err := c.Close(); err != nil {
		logger.Warn("failed to close state file", "error", err.Error())
	}
}
