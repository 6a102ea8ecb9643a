package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"loadingview/internal/anim"
	"loadingview/internal/textutil"
)

// PanelColor fills the centered panel, on top of the backdrop.
var PanelColor = MustHex("#1c1c1c").Opacity(0.8)

// Panel padding in cells, and the blank rows between spinner and message.
const (
	panelPadY  = 1
	panelPadX  = 3
	messageGap = 1
)

// LoadingView is the overlay itself: a full-bleed translucent backdrop with
// a centered panel holding the spinner and an optional message.
//
// Its opacity follows the bound flag through a fade that restarts from the
// current opacity whenever the flag changes. The view only observes the
// flag; it never writes it.
type LoadingView struct {
	isPresented Binding
	opts        Options
	spinner     *Spinner
	fade        *anim.Fade
	observed    bool
	width       int
	height      int
}

// Ensure LoadingView implements View.
var _ View = (*LoadingView)(nil)

// NewLoadingView creates a standalone overlay bound to isPresented, for
// hosts that place it themselves instead of using Wrap.
func NewLoadingView(isPresented Binding, opts ...Option) *LoadingView {
	return newLoadingView(isPresented, buildOptions(opts))
}

func newLoadingView(isPresented Binding, o Options) *LoadingView {
	return &LoadingView{
		isPresented: isPresented,
		opts:        o,
		spinner:     newSpinner(o.spinnerConfig()),
		fade:        anim.NewFade(0, o.FadeDuration, o.clock),
	}
}

// Options returns the overlay configuration.
func (l *LoadingView) Options() Options { return l.opts }

// Spinner returns the overlay's spinner.
func (l *LoadingView) Spinner() *Spinner { return l.spinner }

// Opacity returns the current overlay opacity in [0, 1].
func (l *LoadingView) Opacity() float64 { return l.fade.Value() }

// Settled reports whether no fade is in flight.
func (l *LoadingView) Settled() bool { return !l.fade.Running() }

// SetSize sets the screen size the backdrop covers.
func (l *LoadingView) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// Init implements View. It mounts the spinner and fades in when the flag
// is already set.
func (l *LoadingView) Init() tea.Cmd {
	l.observed = l.isPresented.Value()
	return tea.Batch(l.spinner.Init(), l.fade.Retarget(opacityFor(l.observed)))
}

// Unmount stops the spinner and abandons any in-flight fade.
func (l *LoadingView) Unmount() {
	l.spinner.Unmount()
	l.fade.Stop()
}

// Update implements View.
func (l *LoadingView) Update(msg tea.Msg) (View, tea.Cmd) {
	cmds := []tea.Cmd{l.sync()}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.SetSize(msg.Width, msg.Height)
	case anim.FrameMsg:
		_, cmd := l.fade.Update(msg)
		cmds = append(cmds, cmd)
	default:
		_, cmd := l.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}
	return l, tea.Batch(cmds...)
}

// sync restarts the fade when the bound flag changed since the last look.
func (l *LoadingView) sync() tea.Cmd {
	v := l.isPresented.Value()
	if v == l.observed {
		return nil
	}
	l.observed = v
	return l.fade.Retarget(opacityFor(v))
}

func opacityFor(shown bool) float64 {
	if shown {
		return 1
	}
	return 0
}

// View implements View. The overlay is painted over an empty screen.
func (l *LoadingView) View() string {
	return l.Paint("", l.width, l.height)
}

// Paint composites the overlay over below. Every cell of the width x height
// screen is covered by the backdrop; below shows through it dimmed.
func (l *LoadingView) Paint(below string, width, height int) string {
	opacity := l.Opacity()
	if opacity <= 0 {
		return below
	}

	panel := l.Panel(width)
	pw, ph := lipgloss.Width(panel), lipgloss.Height(panel)
	if width <= 0 {
		width = max(lipgloss.Width(below), pw)
	}
	if height <= 0 {
		height = max(lipgloss.Height(below), ph)
	}

	backdrop := l.backdrop(opacity)
	lines := l.dim(below, width, height, backdrop)

	x := max((width-pw)/2, 0)
	y := max((height-ph)/2, 0)
	for i, pl := range strings.Split(panel, "\n") {
		row := y + i
		if row >= height {
			break
		}
		if lipgloss.Width(pl) > width-x {
			pl = ansi.Truncate(pl, width-x, "")
		}
		bg := lines[row]
		lines[row] = ansi.Truncate(bg, x, "") + pl + ansi.TruncateLeft(bg, x+lipgloss.Width(pl), "")
	}
	return strings.Join(lines, "\n")
}

// backdrop is the background color after fading, flattened onto the canvas.
func (l *LoadingView) backdrop(opacity float64) Color {
	return l.opts.BackgroundColor.Opacity(opacity).Over(Canvas)
}

// dim renders below as plain text tinted by the backdrop, cut and padded to
// exactly width x height.
func (l *LoadingView) dim(below string, width, height int, backdrop Color) []string {
	tint := l.opts.BackgroundColor.Opacity(l.Opacity())
	style := lipgloss.NewStyle().
		Foreground(tint.Over(HostText).Lipgloss()).
		Background(backdrop.Lipgloss())

	src := strings.Split(ansi.Strip(below), "\n")
	lines := make([]string, height)
	for i := range lines {
		var text string
		if i < len(src) {
			text = strings.ReplaceAll(src[i], "\t", "    ")
		}
		lines[i] = style.Render(textutil.Fit(text, width))
	}
	return lines
}

// Panel renders the centered panel at the current opacity. maxWidth bounds
// the panel's outer width; zero means unbounded. The message row exists only
// when the message is non-empty.
func (l *LoadingView) Panel(maxWidth int) string {
	opacity := l.Opacity()
	backdrop := l.backdrop(opacity)
	fill := PanelColor.Opacity(opacity).Over(backdrop)
	bg := fill.Lipgloss()

	ring := l.spinner.Render(fill, opacity)
	sw, _ := l.spinner.Size()
	rows := strings.Split(ring, "\n")
	if l.opts.Message != "" {
		msg := l.opts.Message
		if maxWidth > 0 {
			// Border and padding take 2+2*panelPadX columns.
			avail := maxWidth - 2 - 2*panelPadX
			msg = textutil.Truncate(msg, max(avail, 1))
		}
		w := max(sw, textutil.VisualWidth(msg))
		rows = centerRows(rows, sw, w, bg)
		blank := lipgloss.NewStyle().Background(bg).Render(strings.Repeat(" ", w))
		for range messageGap {
			rows = append(rows, blank)
		}
		rows = append(rows, lipgloss.NewStyle().
			Bold(true).
			Foreground(l.opts.MessageColor.Opacity(opacity).Over(fill).Lipgloss()).
			Background(bg).
			Width(w).
			Align(lipgloss.Center).
			Render(msg))
	}
	content := strings.Join(rows, "\n")

	border := lipgloss.NormalBorder()
	if l.opts.CornerRadius > 0 {
		border = lipgloss.RoundedBorder()
	}
	return lipgloss.NewStyle().
		Background(bg).
		Padding(panelPadY, panelPadX).
		Border(border).
		BorderForeground(White.Opacity(0.2*opacity).Over(backdrop).Lipgloss()).
		BorderBackground(backdrop.Lipgloss()).
		Render(content)
}

// centerRows pads rows of width w to width total with background-colored
// blanks on both sides.
func centerRows(rows []string, w, total int, bg lipgloss.Color) []string {
	if total <= w {
		return rows
	}
	blank := lipgloss.NewStyle().Background(bg)
	left := blank.Render(strings.Repeat(" ", (total-w)/2))
	right := blank.Render(strings.Repeat(" ", total-w-(total-w)/2))
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = left + r + right
	}
	return out
}
