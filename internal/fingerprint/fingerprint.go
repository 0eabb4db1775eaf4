// Package fingerprint maps path strings to fixed-width digests used for
// duplicate detection in the selection's hash index.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// Size is the width in bytes of a Digest.
const Size = sha256.Size

// Digest is the SHA-256 of a path string's bytes.
type Digest [Size]byte

// Sum returns the digest of path. It hashes the string itself, never the
// contents of the file it names.
func Sum(path string) Digest {
	return Digest(sha256.Sum256([]byte(path)))
}

// String returns the digest as lowercase hex.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}
