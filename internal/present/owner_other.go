//go:build !unix

package present

import "io/fs"

// Ownership is not exposed through FileInfo here; the placeholders stay.
func fillOwnership(*Entry, fs.FileInfo) {}
