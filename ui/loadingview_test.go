package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	assert.Equal(t, White, o.SpinnerColor)
	assert.Equal(t, 30.0, o.Diameter)
	assert.Equal(t, 4.0, o.StrokeWidth)
	assert.Equal(t, "Loading...", o.Message)
	assert.Equal(t, White, o.MessageColor)
	assert.Equal(t, Black.Opacity(0.25), o.BackgroundColor)
	assert.Equal(t, 10.0, o.CornerRadius)
	assert.Equal(t, 200*time.Millisecond, o.FadeDuration)
}

func TestWithOptions_LaterOptionsApply(t *testing.T) {
	base := DefaultOptions()
	base.Message = "Syncing"
	o := buildOptions([]Option{WithOptions(base), WithCornerRadius(0)})
	assert.Equal(t, "Syncing", o.Message)
	assert.Equal(t, 0.0, o.CornerRadius)
}

func shownView(t *testing.T, opts ...Option) *LoadingView {
	t.Helper()
	shown := true
	l := NewLoadingView(BindBool(&shown), append([]Option{WithFadeDuration(0)}, opts...)...)
	l.Init()
	require.Equal(t, 1.0, l.Opacity())
	return l
}

func TestLoadingView_PanelWithMessage(t *testing.T) {
	l := shownView(t)
	panel := l.Panel(0)

	assert.Contains(t, panel, "Loading...")
	// ring + gap + label, plus vertical padding and border.
	assert.Equal(t, 8+messageGap+1+2*panelPadY+2, lipgloss.Height(panel))
}

func TestLoadingView_EmptyMessageHasNoLabelRow(t *testing.T) {
	l := shownView(t, WithMessage(""))
	panel := l.Panel(0)

	assert.NotContains(t, panel, "Loading")
	assert.Equal(t, 8+2*panelPadY+2, lipgloss.Height(panel), "no space reserved for a label")
	assert.Equal(t, 15+2*panelPadX+2, lipgloss.Width(panel))
}

func TestLoadingView_WideMessageWidensPanel(t *testing.T) {
	msg := "Fetching remote repositories"
	l := shownView(t, WithMessage(msg))
	panel := l.Panel(0)

	assert.Contains(t, panel, msg)
	assert.Equal(t, len(msg)+2*panelPadX+2, lipgloss.Width(panel))
	for _, line := range strings.Split(panel, "\n") {
		assert.Equal(t, lipgloss.Width(panel), ansi.StringWidth(line))
	}
}

func TestLoadingView_LongMessageTruncatedToScreen(t *testing.T) {
	l := shownView(t, WithMessage(strings.Repeat("x", 80)))
	out := l.Paint("", 30, 20)

	for i, line := range strings.Split(out, "\n") {
		assert.Equal(t, 30, ansi.StringWidth(line), "line %d", i)
	}
	assert.Contains(t, out, "…")
}

func TestLoadingView_CornerRadius(t *testing.T) {
	assert.Contains(t, shownView(t).Panel(0), "╭")
	square := shownView(t, WithCornerRadius(0)).Panel(0)
	assert.Contains(t, square, "┌")
	assert.NotContains(t, square, "╭")
}

func TestLoadingView_PaintCoversWholeScreen(t *testing.T) {
	l := shownView(t)
	below := "host line one\nhost line two"
	out := l.Paint(below, 60, 20)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 20)
	for i, line := range lines {
		assert.Equal(t, 60, ansi.StringWidth(line), "line %d", i)
	}
	assert.Contains(t, ansi.Strip(lines[0]), "host line one", "content shows through the backdrop")

	// The label sits on the panel, centered.
	var labelRow = -1
	for i, line := range lines {
		if strings.Contains(line, "Loading...") {
			labelRow = i
		}
	}
	require.NotEqual(t, -1, labelRow)
	panelHeight := lipgloss.Height(l.Panel(60))
	top := (20 - panelHeight) / 2
	assert.Equal(t, top+panelHeight-1-1-panelPadY, labelRow)

	stripped := ansi.Strip(lines[labelRow])
	col := ansi.StringWidth(stripped[:strings.Index(stripped, "Loading...")])
	assert.InDelta(t, 30, col+len("Loading...")/2, 2)
}

func TestLoadingView_ViewUsesWindowSize(t *testing.T) {
	l := shownView(t)
	l.Update(tea.WindowSizeMsg{Width: 40, Height: 16})
	out := l.View()
	assert.Equal(t, 16, lipgloss.Height(out))
	assert.Equal(t, 40, lipgloss.Width(out))
}

func TestLoadingView_HiddenPaintsNothing(t *testing.T) {
	shown := false
	l := NewLoadingView(BindBool(&shown))
	l.Init()
	assert.Equal(t, 0.0, l.Opacity())
	assert.Equal(t, "host", l.Paint("host", 20, 5))
}

func TestLoadingView_FadeFollowsBinding(t *testing.T) {
	clock := newFakeClock()
	shown := true
	l := NewLoadingView(BindBool(&shown), withClock(clock.Now))
	cmd := l.Init()
	require.NotNil(t, cmd)

	assert.Equal(t, 0.0, l.Opacity())
	clock.Advance(100 * time.Millisecond)
	assert.InDelta(t, 0.5, l.Opacity(), 1e-9)
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 1.0, l.Opacity())
	l.Update(frameFor(l))
	assert.True(t, l.Settled())

	shown = false
	l.Update(nudge{})
	assert.False(t, l.Settled())
	assert.Equal(t, 1.0, l.Opacity())
	clock.Advance(200 * time.Millisecond)
	assert.Equal(t, 0.0, l.Opacity())
	l.Update(frameFor(l))
	assert.True(t, l.Settled())
}

func TestLoadingView_RapidTogglesRestartFade(t *testing.T) {
	clock := newFakeClock()
	shown := true
	l := NewLoadingView(BindBool(&shown), withClock(clock.Now))
	l.Init()

	clock.Advance(50 * time.Millisecond)
	shown = false
	l.Update(nudge{})
	clock.Advance(10 * time.Millisecond)
	shown = true
	l.Update(nudge{})
	from := l.Opacity()

	// Last write wins: heading to 1 again, over the full duration.
	clock.Advance(199 * time.Millisecond)
	assert.Less(t, l.Opacity(), 1.0)
	assert.Greater(t, l.Opacity(), from)
	clock.Advance(time.Millisecond)
	assert.Equal(t, 1.0, l.Opacity())
}

func TestLoadingView_NeverWritesBinding(t *testing.T) {
	var writes int
	b := Binding{
		Get: func() bool { return true },
		Set: func(bool) { writes++ },
	}
	l := NewLoadingView(b)
	l.Init()
	l.Update(keyMsg("esc"))
	l.Update(frameFor(l))
	l.Paint("x", 20, 20)
	l.Unmount()
	assert.Zero(t, writes)
}

func TestLoadingView_UnmountStopsEverything(t *testing.T) {
	l := shownView(t)
	l.Unmount()
	assert.False(t, l.Spinner().Mounted())
	assert.True(t, l.Settled())
}
