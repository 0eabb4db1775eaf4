// Package pathlog implements the selection's path log: an append-only text
// file holding one absolute path per line, positionally parallel to the
// hash index.
package pathlog

import (
	"bufio"
	"iter"
	"os"

	"github.com/Iron-Ham/fsel/internal/errors"
)

// maxLineSize bounds a single log line. Paths are far shorter in practice;
// the limit only keeps a corrupt log from exhausting memory.
const maxLineSize = 1 << 20

// Log is a path log opened for appending.
type Log struct {
	path string
	f    *os.File
}

// Open opens the log at path for appending, creating it if necessary.
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, errors.NewStorageError("open", path, err)
	}
	return &Log{path: path, f: f}, nil
}

// Path returns the log file path.
func (l *Log) Path() string {
	return l.path
}

// Append writes path followed by a newline.
func (l *Log) Append(path string) error {
	if _, err := l.f.WriteString(path + "\n"); err != nil {
		return errors.NewStorageError("append", l.path, err)
	}
	return nil
}

// Size returns the current length of the log in bytes.
func (l *Log) Size() (int64, error) {
	info, err := l.f.Stat()
	if err != nil {
		return 0, errors.NewStorageError("stat", l.path, err)
	}
	return info.Size(), nil
}

// Truncate empties the log.
func (l *Log) Truncate() error {
	return l.TruncateTo(0)
}

// TruncateTo cuts the log back to size bytes, dropping anything appended
// after that offset.
func (l *Log) TruncateTo(size int64) error {
	if err := l.f.Truncate(size); err != nil {
		return errors.NewStorageError("truncate", l.path, err)
	}
	return nil
}

// Close closes the underlying file.
func (l *Log) Close() error {
	if err := l.f.Close(); err != nil {
		return errors.NewStorageError("close", l.path, err)
	}
	return nil
}

// Exists reports whether a log file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Iterate returns the entries of the log at path in insertion order with
// the trailing newline stripped. The file is opened when iteration starts,
// so the sequence can be ranged over more than once. A missing file yields
// nothing; any other failure is yielded once as an error.
func Iterate(path string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			if !os.IsNotExist(err) {
				yield("", errors.NewStorageError("open", path, err))
			}
			return
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
		for scanner.Scan() {
			if !yield(scanner.Text(), nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield("", errors.NewStorageError("read", path, err))
		}
	}
}

// ReadAll materializes the log at path.
func ReadAll(path string) ([]string, error) {
	var entries []string
	for entry, err := range Iterate(path) {
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
