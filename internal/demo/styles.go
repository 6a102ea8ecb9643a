package demo

import "github.com/charmbracelet/lipgloss"

// Theme colors used by the demo host.
const (
	ColorAccent    = "86"  // Cyan/green - titles, running job
	ColorHighlight = "205" // Magenta - selected job, key hints
	ColorMuted     = "241" // Gray - hints, idle text
)

// Styles holds the demo's shared styles.
var Styles = struct {
	Title    lipgloss.Style
	Selected lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Status   lipgloss.Style
	HelpKey  lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
	HelpKey: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true),
}
