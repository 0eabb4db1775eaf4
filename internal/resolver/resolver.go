// Package resolver turns command-line patterns and piped input into the
// candidate paths offered to the selection.
//
// Patterns are expanded with shell-style tilde expansion and filepath.Glob.
// Matches that are directories carry a trailing slash, and a pattern that
// matches nothing contributes nothing. When standard input is not a terminal
// every non-empty line of it is one more candidate.
package resolver

import (
	"bufio"
	"io"
	"iter"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/term"

	"github.com/Iron-Ham/fsel/internal/errors"
)

const maxLineSize = 1 << 20

// Resolver produces candidate paths.
type Resolver struct {
	stdin   io.Reader
	homeDir string
	exclude []string
	err     error
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStdin sets the reader piped paths are read from. Readers that are not
// an *os.File are always treated as non-interactive.
func WithStdin(r io.Reader) Option {
	return func(rv *Resolver) {
		rv.stdin = r
	}
}

// WithExclude drops candidates matching any of patterns. A pattern
// containing a slash is matched against the whole candidate, where '*' stops
// at slashes and '**' does not; any other pattern is matched against the
// last path element.
func WithExclude(patterns []string) Option {
	return func(rv *Resolver) {
		rv.exclude = append(rv.exclude, patterns...)
	}
}

// WithHomeDir overrides the directory '~' expands to.
func WithHomeDir(dir string) Option {
	return func(rv *Resolver) {
		rv.homeDir = dir
	}
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type excludeRule struct {
	g        glob.Glob
	fullPath bool
}

func (r *Resolver) compileExcludes() ([]excludeRule, error) {
	rules := make([]excludeRule, 0, len(r.exclude))
	for _, pattern := range r.exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, errors.NewValidationError("invalid exclude pattern").
				WithField("exclude").
				WithValue(pattern).
				WithCause(err)
		}
		rules = append(rules, excludeRule{g: g, fullPath: strings.Contains(pattern, "/")})
	}
	return rules, nil
}

// Candidates returns the expansion of patterns followed by the paths piped
// on stdin. The sequence reads stdin lazily; a read failure ends it and is
// reported by Err.
func (r *Resolver) Candidates(patterns []string) (iter.Seq[string], error) {
	rules, err := r.compileExcludes()
	if err != nil {
		return nil, err
	}

	excluded := func(candidate string) bool {
		trimmed := strings.TrimSuffix(candidate, "/")
		for _, rule := range rules {
			subject := trimmed
			if !rule.fullPath {
				subject = filepath.Base(trimmed)
			}
			if rule.g.Match(subject) {
				return true
			}
		}
		return false
	}

	return func(yield func(string) bool) {
		for _, pattern := range patterns {
			for _, match := range r.Expand(pattern) {
				if excluded(match) {
					continue
				}
				if !yield(match) {
					return
				}
			}
		}

		if r.stdin == nil || isTerminal(r.stdin) {
			return
		}

		scanner := bufio.NewScanner(r.stdin)
		scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
		for scanner.Scan() {
			line := strings.TrimSuffix(scanner.Text(), "\r")
			if line == "" || excluded(line) {
				continue
			}
			if !yield(line) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			r.err = errors.Wrap(err, "read stdin")
		}
	}, nil
}

// Err returns the first error encountered while reading stdin.
func (r *Resolver) Err() error {
	return r.err
}

// Expand returns the filesystem matches of one pattern. Directories are
// marked with a trailing slash. A pattern that is malformed or matches
// nothing returns nil.
func (r *Resolver) Expand(pattern string) []string {
	matches, err := filepath.Glob(r.expandTilde(pattern))
	if err != nil {
		return nil
	}
	for i, m := range matches {
		if strings.HasSuffix(m, "/") {
			continue
		}
		if info, err := os.Stat(m); err == nil && info.IsDir() {
			matches[i] = m + "/"
		}
	}
	return matches
}

// expandTilde replaces a leading "~" or "~user" with the matching home
// directory. Unknown users are left untouched.
func (r *Resolver) expandTilde(pattern string) string {
	if !strings.HasPrefix(pattern, "~") {
		return pattern
	}

	name, rest, _ := strings.Cut(pattern[1:], "/")
	var home string
	if name == "" {
		home = r.home()
	} else if u, err := user.Lookup(name); err == nil {
		home = u.HomeDir
	}
	if home == "" {
		return pattern
	}
	return filepath.Join(home, rest)
}

func (r *Resolver) home() string {
	if r.homeDir != "" {
		return r.homeDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
