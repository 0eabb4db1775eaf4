// Package lockfile implements the cooperative single-writer lock that guards
// a selection's path log and hash index.
//
// The lock token is a zero-byte file at a well-known path; its existence is
// the whole state. A writer that dies while holding the lock leaves the token
// behind, and the selection stays locked until someone forces the next
// operation or runs an explicit unlock. On unix the creating process also
// holds an exclusive flock(2) on the token for as long as it owns it, which
// lets Probe tell a live holder from a stale token. Every locking decision is
// still made on existence alone.
package lockfile

import (
	"os"

	"github.com/Iron-Ham/fsel/internal/errors"
	"github.com/Iron-Ham/fsel/internal/logging"
)

// LockState describes the lock token as seen by Probe.
type LockState int

const (
	// StateFree means no token exists.
	StateFree LockState = iota
	// StateHeldLive means a token exists and a running process holds its flock.
	StateHeldLive
	// StateHeldStale means a token exists but nobody holds its flock,
	// typically left behind by a crashed or killed invocation.
	StateHeldStale
)

// String returns the state name.
func (s LockState) String() string {
	switch s {
	case StateFree:
		return "free"
	case StateHeldLive:
		return "held"
	case StateHeldStale:
		return "stale"
	default:
		return "unknown"
	}
}

// UnlockResult reports the outcome of RequestUnlock.
type UnlockResult int

const (
	// UnlockNothingToDo means there was no token to remove.
	UnlockNothingToDo UnlockResult = iota
	// UnlockRemoved means the token was removed.
	UnlockRemoved
	// UnlockDeclined means the operator answered no.
	UnlockDeclined
	// UnlockFailed means removing the token failed.
	UnlockFailed
)

// Coordinator manages the lock token at one path.
type Coordinator struct {
	path   string
	logger *logging.Logger
}

// New creates a Coordinator for the token at path. The logger may be nil.
func New(path string, logger *logging.Logger) *Coordinator {
	return &Coordinator{
		path:   path,
		logger: logging.OrNop(logger),
	}
}

// Path returns the lock token path.
func (c *Coordinator) Path() string {
	return c.path
}

// IsHeld reports whether the lock token exists.
func (c *Coordinator) IsHeld() bool {
	_, err := os.Lstat(c.path)
	return err == nil
}

// Acquire creates the lock token. If the token already exists Acquire fails
// with ErrLockHeld, unless force is set, in which case the existing token is
// removed first. A token created by someone else between that check and the
// exclusive create fails with ErrLockRaceLost.
func (c *Coordinator) Acquire(force bool) (*Lock, error) {
	if c.IsHeld() {
		if !force {
			c.logger.Warn("failed to acquire lock", "path", c.path, "reason", "lock file exists")
			return nil, errors.NewLockError("cannot acquire lock", errors.ErrLockHeld).WithPath(c.path)
		}
		if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
			c.logger.Error("failed to remove lock file", "path", c.path, "error", err.Error())
			return nil, errors.NewStorageError("remove", c.path, err)
		}
		c.logger.Warn("existing lock removed by force", "path", c.path)
	}

	f, err := os.OpenFile(c.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if os.IsExist(err) {
			c.logger.Warn("failed to acquire lock", "path", c.path, "reason", "lock file exists (race condition)")
			return nil, errors.NewLockError("cannot acquire lock", errors.ErrLockRaceLost).WithPath(c.path)
		}
		c.logger.Error("failed to create lock file", "path", c.path, "error", err.Error())
		return nil, errors.NewStorageError("create", c.path, err)
	}

	if err := holdFlock(f); err != nil {
		c.logger.Debug("advisory flock unavailable", "path", c.path, "error", err.Error())
	}

	c.logger.Debug("lock acquired", "path", c.path, "pid", os.Getpid())
	return &Lock{path: c.path, file: f, logger: c.logger}, nil
}

// Probe inspects the token without modifying it.
func (c *Coordinator) Probe() LockState {
	f, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return StateFree
		}
		return StateHeldStale
	}
	defer f.Close()

	live, err := flockHeld(f)
	if err != nil || !live {
		return StateHeldStale
	}
	return StateHeldLive
}

// RequestUnlock removes a token left by another invocation. When confirm is
// non-nil it is asked first and the token is only removed on a true answer;
// a nil confirm removes the token unconditionally.
func (c *Coordinator) RequestUnlock(confirm func() bool) (UnlockResult, error) {
	if !c.IsHeld() {
		return UnlockNothingToDo, nil
	}
	if confirm != nil && !confirm() {
		return UnlockDeclined, nil
	}

	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		c.logger.Error("failed to remove lock file", "path", c.path, "error", err.Error())
		return UnlockFailed, errors.NewStorageError("remove", c.path, err)
	}

	c.logger.Info("lock released manually", "path", c.path)
	return UnlockRemoved, nil
}

// Lock is an acquired lock token.
type Lock struct {
	path     string
	file     *os.File
	logger   *logging.Logger
	released bool
}

// Path returns the token path.
func (l *Lock) Path() string {
	return l.path
}

// Release removes the token and drops the flock. It is safe to call more
// than once, and a token that is already gone is not an error. If the token
// at the path is no longer the one this Lock created (another invocation
// forced the lock in the meantime), it is left in place.
func (l *Lock) Release() error {
	if l == nil || l.released {
		return nil
	}
	l.released = true
	defer l.file.Close()

	if !l.ownsToken() {
		l.logger.Warn("lock token replaced by another process, leaving it", "path", l.path)
		return nil
	}

	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return errors.NewStorageError("remove", l.path, err)
	}

	l.logger.Debug("lock released", "path", l.path)
	return nil
}

// ownsToken reports whether the file at the token path is the one this Lock
// created. A missing token counts as owned so Release stays idempotent.
func (l *Lock) ownsToken() bool {
	current, err := os.Lstat(l.path)
	if err != nil {
		return true
	}
	mine, err := l.file.Stat()
	if err != nil {
		return true
	}
	return os.SameFile(current, mine)
}
