//go:build unix

package lockfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// holdFlock takes a non-blocking exclusive flock on f. The lock lives until
// f is closed.
func holdFlock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
}

// flockHeld reports whether another open file description holds a flock on
// the file behind f.
func flockHeld(f *os.File) (bool, error) {
	err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err == nil {
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
		return false, nil
	}
	if err == unix.EWOULDBLOCK {
		return true, nil
	}
	return false, err
}
