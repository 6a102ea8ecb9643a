package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"loadingview/internal/anim"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func withClock(c anim.Clock) Option {
	return func(o *Options) { o.clock = c }
}

// frameFor returns the frame message the overlay's running fade waits for.
func frameFor(l *LoadingView) anim.FrameMsg {
	return anim.FrameMsg{ID: l.fade.ID(), Tag: l.fade.Tag(), Time: time.Now()}
}

// nudge is a message nobody handles; it makes views re-read their bindings.
type nudge struct{}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// stubView is host content that records what reaches it.
type stubView struct {
	text     string
	received []tea.Msg
	inits    int
}

func (s *stubView) Init() tea.Cmd {
	s.inits++
	return nil
}

func (s *stubView) Update(msg tea.Msg) (View, tea.Cmd) {
	s.received = append(s.received, msg)
	return s, nil
}

func (s *stubView) View() string { return s.text }

func (s *stubView) keys() []string {
	var out []string
	for _, m := range s.received {
		if k, ok := m.(tea.KeyMsg); ok {
			out = append(out, k.String())
		}
	}
	return out
}
