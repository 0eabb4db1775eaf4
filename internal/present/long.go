package present

import (
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
)

// recentWindow is how old a file may be before its year replaces the time
// of day in a long listing.
const recentWindow = 180 * 24 * time.Hour

// Entry is what a long listing line shows about one path.
type Entry struct {
	Path       string
	Mode       fs.FileMode
	Nlink      uint64
	User       string
	Group      string
	Size       int64
	ModTime    time.Time
	LinkTarget string
}

// LongLine formats e the way ls -l does, relative to now.
func LongLine(e Entry, now time.Time) string {
	line := fmt.Sprintf("%s %3d %-8s %-8s %8d %s %s",
		Permissions(e.Mode), e.Nlink, e.User, e.Group, e.Size, formatTime(e.ModTime, now), e.Path)
	if e.Mode&fs.ModeSymlink != 0 && e.LinkTarget != "" {
		line += " -> " + e.LinkTarget
	}
	return line
}

// Permissions renders the file type character followed by the three rwx
// triplets.
func Permissions(mode fs.FileMode) string {
	var sb strings.Builder
	sb.WriteByte(typeChar(mode))

	const rwx = "rwx"
	perm := mode.Perm()
	for i := 8; i >= 0; i-- {
		if perm&(1<<uint(i)) != 0 {
			sb.WriteByte(rwx[(8-i)%3])
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

func typeChar(mode fs.FileMode) byte {
	switch {
	case mode&fs.ModeSymlink != 0:
		return 'l'
	case mode.IsDir():
		return 'd'
	case mode&fs.ModeCharDevice != 0:
		return 'c'
	case mode&fs.ModeDevice != 0:
		return 'b'
	case mode&fs.ModeNamedPipe != 0:
		return 'p'
	case mode&fs.ModeSocket != 0:
		return 's'
	default:
		return '-'
	}
}

func formatTime(t, now time.Time) string {
	if now.Sub(t) > recentWindow {
		return t.Format("Jan 02  2006")
	}
	return t.Format("Jan 02 15:04")
}

// Stat builds the Entry for path without following a final symlink.
func Stat(path string) (Entry, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return Entry{}, err
	}

	e := Entry{
		Path:    path,
		Mode:    info.Mode(),
		Nlink:   1,
		User:    "?",
		Group:   "?",
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
	fillOwnership(&e, info)

	if info.Mode()&fs.ModeSymlink != 0 {
		if target, err := os.Readlink(path); err == nil {
			e.LinkTarget = target
		}
	}
	return e, nil
}

// StatLine returns the long listing line for path, or the placeholder shown
// when path cannot be stat'ed.
func StatLine(path string, now time.Time) string {
	e, err := Stat(path)
	if err != nil {
		return "Could not stat " + path
	}
	return LongLine(e, now)
}
