//go:build !unix

package lockfile

import "os"

// holdFlock is a no-op where flock(2) is unavailable.
func holdFlock(f *os.File) error {
	return nil
}

// flockHeld cannot detect a live holder without flock(2); every present
// token is reported as stale.
func flockHeld(f *os.File) (bool, error) {
	return false, nil
}
