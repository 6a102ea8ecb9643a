package demo

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// keyMap is the demo's key bindings. It implements help.KeyMap.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Start  key.Binding
	Toggle key.Binding
	Quit   key.Binding
}

var _ help.KeyMap = keyMap{}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j", "down"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run job"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle overlay"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Start, k.Toggle, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newHelp() help.Model {
	h := help.New()
	h.Styles.ShortKey = Styles.HelpKey
	h.Styles.ShortDesc = Styles.Muted
	h.Styles.ShortSeparator = Styles.Muted
	h.Styles.Ellipsis = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted))
	return h
}
