// Package hashindex implements the selection's hash index: an append-only
// file of fixed-width fingerprints, one per path log entry, with no header
// and no terminator.
package hashindex

import (
	"bufio"
	"io"
	"math"
	"os"

	"github.com/Iron-Ham/fsel/internal/errors"
	"github.com/Iron-Ham/fsel/internal/fingerprint"
)

// BlockSize is the width of one index entry.
const BlockSize = fingerprint.Size

// Index is an open hash index file.
type Index struct {
	path string
	f    *os.File
}

// Open opens the index at path for reading and appending, creating it
// if necessary.
func Open(path string) (*Index, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, errors.NewStorageError("open", path, err)
	}
	return &Index{path: path, f: f}, nil
}

// Path returns the index file path.
func (ix *Index) Path() string {
	return ix.path
}

// Contains scans the index from the start and reports whether d is present.
// A trailing partial block is treated as the end of the index.
func (ix *Index) Contains(d fingerprint.Digest) (bool, error) {
	r := bufio.NewReader(io.NewSectionReader(ix.f, 0, math.MaxInt64))
	var block fingerprint.Digest
	for {
		if _, err := io.ReadFull(r, block[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return false, nil
			}
			return false, errors.NewStorageError("scan", ix.path, err)
		}
		if block == d {
			return true, nil
		}
	}
}

// Append writes d as one block at the end of the index.
func (ix *Index) Append(d fingerprint.Digest) error {
	if _, err := ix.f.Write(d[:]); err != nil {
		return errors.NewStorageError("append", ix.path, err)
	}
	return nil
}

// Count returns the number of complete blocks in the index.
func (ix *Index) Count() (int, error) {
	info, err := ix.f.Stat()
	if err != nil {
		return 0, errors.NewStorageError("stat", ix.path, err)
	}
	return int(info.Size() / BlockSize), nil
}

// Truncate empties the index.
func (ix *Index) Truncate() error {
	if err := ix.f.Truncate(0); err != nil {
		return errors.NewStorageError("truncate", ix.path, err)
	}
	return nil
}

// Close closes the underlying file.
func (ix *Index) Close() error {
	if err := ix.f.Close(); err != nil {
		return errors.NewStorageError("close", ix.path, err)
	}
	return nil
}

// CountFile returns the number of complete blocks in the index at path
// without opening it for writing. A missing file counts as zero.
func CountFile(path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.NewStorageError("stat", path, err)
	}
	return int(info.Size() / BlockSize), nil
}
