package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/fsel/internal/logging"
)

type logsFlags struct {
	tail   int
	follow bool
	level  string
	since  string
	grep   string
}

func newLogsCmd(a *app) *cobra.Command {
	var lf logsFlags
	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "View the fsel debug log",
		Long: `View and filter the structured log written when logging.enabled is set.

Examples:
  # Show the last 50 entries
  fsel logs

  # Follow new entries as they are written
  fsel logs --follow

  # Only lock problems from the last hour
  fsel logs --level warn --since 1h --grep lock`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLogs(cmd, lf)
		},
	}

	logsCmd.Flags().IntVarP(&lf.tail, "tail", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().BoolVar(&lf.follow, "follow", false, "Follow log output (like tail -f)")
	logsCmd.Flags().StringVar(&lf.level, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&lf.since, "since", "", "Show entries since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&lf.grep, "grep", "", "Filter entries matching pattern (regex)")
	return logsCmd
}

// logEntry represents a parsed JSON log line
type logEntry struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Msg     string         `json:"msg"`
	Command string         `json:"command,omitempty"`
	Extra   map[string]any `json:"-"` // Captures additional fields
}

// UnmarshalJSON implements custom unmarshaling to capture extra fields
func (e *logEntry) UnmarshalJSON(data []byte) error {
	// First, unmarshal known fields using a type alias to avoid recursion
	type Alias logEntry
	aux := &struct {
		*Alias
	}{
		Alias: (*Alias)(e),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, known := range []string{"time", "level", "msg", "command"} {
		delete(all, known)
	}
	if len(all) > 0 {
		e.Extra = all
	}
	return nil
}

// logFilter selects which entries are shown
type logFilter struct {
	minLevel int
	since    time.Time
	grep     *regexp.Regexp
}

func newLogFilter(lf logsFlags, now time.Time) (logFilter, error) {
	f := logFilter{minLevel: -1}

	if lf.level != "" {
		f.minLevel = levelPriority(logging.ParseLevel(lf.level))
	}

	if lf.since != "" {
		duration, err := time.ParseDuration(lf.since)
		if err != nil {
			return f, fmt.Errorf("invalid duration format: %w", err)
		}
		f.since = now.Add(-duration)
	}

	if lf.grep != "" {
		re, err := regexp.Compile(lf.grep)
		if err != nil {
			return f, fmt.Errorf("invalid grep pattern: %w", err)
		}
		f.grep = re
	}
	return f, nil
}

// levelPriority returns the priority of a log level for filtering
func levelPriority(level string) int {
	switch strings.ToUpper(level) {
	case logging.LevelDebug:
		return 0
	case logging.LevelInfo:
		return 1
	case logging.LevelWarn:
		return 2
	case logging.LevelError:
		return 3
	default:
		return -1
	}
}

// passes checks if a log entry passes all filter criteria
func (f logFilter) passes(entry *logEntry) bool {
	if f.minLevel >= 0 && levelPriority(entry.Level) < f.minLevel {
		return false
	}

	if !f.since.IsZero() && entry.Time.Before(f.since) {
		return false
	}

	// Search in message and extra fields
	if f.grep != nil {
		searchText := entry.Msg
		for _, v := range entry.Extra {
			searchText += " " + fmt.Sprintf("%v", v)
		}
		if !f.grep.MatchString(searchText) {
			return false
		}
	}
	return true
}

// logStyles colors formatted entries; the zero value renders plain text
type logStyles struct {
	enabled bool
	muted   lipgloss.Style
	field   lipgloss.Style
	levels  map[string]lipgloss.Style
}

func newLogStyles(enabled bool) logStyles {
	return logStyles{
		enabled: enabled,
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		field:   lipgloss.NewStyle().Foreground(lipgloss.Color("#22D3EE")),
		levels: map[string]lipgloss.Style{
			logging.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
			logging.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA")),
			logging.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24")),
			logging.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")),
		},
	}
}

func (s logStyles) render(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return style.Render(text)
}

// format formats a log entry for terminal output
func (s logStyles) format(entry *logEntry) string {
	var sb strings.Builder

	level := strings.ToUpper(entry.Level)
	sb.WriteString(s.render(s.muted, "["+entry.Time.Format("15:04:05.000")+"]"))
	sb.WriteString(" ")
	sb.WriteString(s.render(s.levels[level], "["+level+"]"))
	sb.WriteString(" ")
	sb.WriteString(entry.Msg)

	if entry.Command != "" {
		sb.WriteString(" ")
		sb.WriteString(s.render(s.field, "command="))
		sb.WriteString(entry.Command)
	}

	// Extra fields in a stable order
	keys := make([]string, 0, len(entry.Extra))
	for key := range entry.Extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		sb.WriteString(" ")
		sb.WriteString(s.render(s.field, key+"="))
		sb.WriteString(fmt.Sprintf("%v", entry.Extra[key]))
	}

	return sb.String()
}

// formatLine parses one raw log line; ok is false when it is filtered out.
// Lines that are not JSON are passed through unchanged.
func (s logStyles) formatLine(line string, f logFilter) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return line, true
	}
	if !f.passes(&entry) {
		return "", false
	}
	return s.format(&entry), true
}

func (a *app) runLogs(cmd *cobra.Command, lf logsFlags) error {
	out := cmd.OutOrStdout()
	logPath := a.cfg.LogFile(os.Getuid())

	filter, err := newLogFilter(lf, time.Now())
	if err != nil {
		return err
	}
	styles := newLogStyles(a.colorEnabled(cmd))

	if lf.follow {
		return followLogs(cmd.Context(), out, logPath, styles, filter)
	}

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		fmt.Fprintln(out, "No logs found.")
		fmt.Fprintln(out, "Logs are stored at:", logPath)
		if !a.cfg.Logging.Enabled {
			fmt.Fprintln(out, "Enable them with logging.enabled: true or FSEL_LOGGING_ENABLED=true")
		}
		return nil
	}
	return displayLogs(out, logPath, lf.tail, styles, filter)
}

// displayLogs reads the log file and displays filtered entries
func displayLogs(out io.Writer, logPath string, tail int, styles logStyles, filter logFilter) error {
	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	var entries []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line, ok := styles.formatLine(scanner.Text(), filter); ok {
			entries = append(entries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading log file: %w", err)
	}

	if tail > 0 && len(entries) > tail {
		entries = entries[len(entries)-tail:]
	}
	for _, entry := range entries {
		fmt.Fprintln(out, entry)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No matching log entries found.")
	}
	return nil
}

// followLogs prints entries appended to logPath until ctx is done. A file
// recreated by rotation is read from its start.
func followLogs(ctx context.Context, out io.Writer, logPath string, styles logStyles, filter logFilter) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so rotation and late creation are seen
	if err := watcher.Add(filepath.Dir(logPath)); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	t := &logTail{path: logPath}
	defer t.close()
	if err := t.open(true); err != nil {
		return err
	}

	fmt.Fprintf(out, "Following %s... (Ctrl+C to stop)\n\n", logPath)

	emit := func(lines []string) {
		for _, raw := range lines {
			if line, ok := styles.formatLine(raw, filter); ok {
				fmt.Fprintln(out, line)
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(logPath) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				// Rotated or newly created: start over on the new file
				if err := t.open(false); err != nil {
					return err
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			lines, err := t.readNew()
			if err != nil {
				return err
			}
			emit(lines)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("file watcher failed: %w", err)
		}
	}
}

// logTail reads complete lines appended to a file
type logTail struct {
	path    string
	file    *os.File
	partial string
}

// open (re)opens the file, positioned at its end when atEnd is set. A file
// that does not exist yet is opened once it is created.
func (t *logTail) open(atEnd bool) error {
	t.close()
	t.partial = ""

	f, err := os.Open(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open log file: %w", err)
	}
	if atEnd {
		if _, err := f.Seek(0, io.SeekEnd); err != nil {
			f.Close()
			return fmt.Errorf("failed to seek to end: %w", err)
		}
	}
	t.file = f
	return nil
}

func (t *logTail) readNew() ([]string, error) {
	if t.file == nil {
		if err := t.open(false); err != nil || t.file == nil {
			return nil, err
		}
	}

	data, err := io.ReadAll(t.file)
	if err != nil {
		return nil, fmt.Errorf("error reading log file: %w", err)
	}

	text := t.partial + string(data)
	lines := strings.Split(text, "\n")
	t.partial = lines[len(lines)-1]
	return lines[:len(lines)-1], nil
}

func (t *logTail) close() {
	if t.file != nil {
		t.file.Close()
		t.file = nil
	}
}
