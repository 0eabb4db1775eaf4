package present

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	validMark   = "✓"
	invalidMark = "✗"
)

var (
	greenColor = lipgloss.Color("#10B981")
	redColor   = lipgloss.Color("#F87171")
)

// Marks renders validation result lines.
type Marks struct {
	color   bool
	valid   lipgloss.Style
	invalid lipgloss.Style
}

// NewMarks creates a Marks renderer. With color off the marks are plain
// text.
func NewMarks(color bool) *Marks {
	return &Marks{
		color:   color,
		valid:   lipgloss.NewStyle().Foreground(greenColor),
		invalid: lipgloss.NewStyle().Foreground(redColor),
	}
}

// Line returns the validation line for path.
func (m *Marks) Line(path string, ok bool) string {
	mark, style := validMark, m.valid
	if !ok {
		mark, style = invalidMark, m.invalid
	}
	if m.color {
		mark = style.Render(mark)
	}
	return mark + " " + path
}
