package screens

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorTitle   = lipgloss.Color("#2CD7C7")
	colorOption  = lipgloss.Color("#20B9B4")
	colorMuted   = lipgloss.Color("#2C4A54")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
)

// styles are bound to the renderer of the session's output, so colors are
// dropped when the output is not a terminal.
type styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Option   lipgloss.Style
	Muted    lipgloss.Style
	Accepted lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		Title:    r.NewStyle().Bold(true).Foreground(colorTitle),
		Label:    r.NewStyle().Bold(true),
		Option:   r.NewStyle().Foreground(colorOption),
		Muted:    r.NewStyle().Foreground(colorMuted),
		Accepted: r.NewStyle().Bold(true).Foreground(colorTitle),
		Warning:  r.NewStyle().Foreground(colorWarning),
		Error:    r.NewStyle().Foreground(colorError),
	}
}
