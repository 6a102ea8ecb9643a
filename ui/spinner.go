package ui

import (
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// SettleDelay is how long a freshly mounted spinner stays still before
	// it starts rotating, so the first frame lands after the initial layout.
	SettleDelay = 250 * time.Millisecond

	// RotationPeriod is one full clockwise turn.
	RotationPeriod = time.Second

	// RotationFrames is the number of pre-rendered frames per turn.
	RotationFrames = 24

	// DefaultDiameter and DefaultStrokeWidth are in braille dots. A terminal
	// cell holds 2x4 dots, which makes a dot roughly square.
	DefaultDiameter    = 30
	DefaultStrokeWidth = 4

	// MaxDiameter caps the ring at 200x100 cells.
	MaxDiameter = 400
)

// dots fainter than this are left unlit so the transparent tail of the
// gradient actually disappears.
const dotThreshold = 0.04

// SpinnerConfig is the immutable spinner configuration.
type SpinnerConfig struct {
	Color       Color
	Diameter    float64
	StrokeWidth float64
}

// DefaultSpinnerConfig returns a white 30-dot ring with a 4-dot stroke.
func DefaultSpinnerConfig() SpinnerConfig {
	return SpinnerConfig{
		Color:       White,
		Diameter:    DefaultDiameter,
		StrokeWidth: DefaultStrokeWidth,
	}
}

func (c SpinnerConfig) normalized() SpinnerConfig {
	if !validSize(c.Diameter) {
		c.Diameter = DefaultDiameter
	}
	if c.Diameter > MaxDiameter {
		c.Diameter = MaxDiameter
	}
	if !validSize(c.StrokeWidth) {
		c.StrokeWidth = DefaultStrokeWidth
	}
	if c.StrokeWidth > c.Diameter/2 {
		c.StrokeWidth = c.Diameter / 2
	}
	return c
}

// validSize reports whether v is a usable positive length.
func validSize(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// SpinnerOption customizes a Spinner.
type SpinnerOption func(*SpinnerConfig)

// WithSpinnerColor sets the ring color.
func WithSpinnerColor(c Color) SpinnerOption {
	return func(cfg *SpinnerConfig) { cfg.Color = c }
}

// WithSpinnerDiameter sets the ring diameter in dots.
func WithSpinnerDiameter(d float64) SpinnerOption {
	return func(cfg *SpinnerConfig) { cfg.Diameter = d }
}

// WithStrokeWidth sets the ring thickness in dots.
func WithStrokeWidth(w float64) SpinnerOption {
	return func(cfg *SpinnerConfig) { cfg.StrokeWidth = w }
}

var lastSpinnerID int64

// settleMsg fires once per mount, SettleDelay after Init.
type settleMsg struct {
	id    int
	mount int
}

// Spinner is a rotating ring drawn with braille dots. Its stroke fades from
// the configured color at the top to transparent at the bottom, and the
// gradient turns with the ring.
//
// The rotation loop is a bubbles spinner whose frames are the pre-rendered
// ring positions; it ticks forever while the spinner is mounted.
type Spinner struct {
	config    SpinnerConfig
	id        int
	mount     int
	mounted   bool
	animating bool
	frame     int
	frames    []ringFrame
	ring      spinner.Model
}

// Ensure Spinner implements View.
var _ View = (*Spinner)(nil)

// NewSpinner creates an unmounted spinner. Call Init to mount it.
func NewSpinner(opts ...SpinnerOption) *Spinner {
	cfg := DefaultSpinnerConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return newSpinner(cfg)
}

func newSpinner(cfg SpinnerConfig) *Spinner {
	cfg = cfg.normalized()
	s := &Spinner{
		config: cfg,
		id:     int(atomic.AddInt64(&lastSpinnerID, 1)),
		frames: ringFrames(cfg),
	}
	s.ring = s.newRing()
	return s
}

// newRing returns a fresh rotation loop. A new model has a new id, so ticks
// scheduled by a previous mount can never drive it.
func (s *Spinner) newRing() spinner.Model {
	plain := make([]string, len(s.frames))
	for i, f := range s.frames {
		plain[i] = f.plain()
	}
	return spinner.New(spinner.WithSpinner(spinner.Spinner{
		Frames: plain,
		FPS:    RotationPeriod / RotationFrames,
	}))
}

// Config returns the spinner configuration.
func (s *Spinner) Config() SpinnerConfig { return s.config }

// Animating reports whether the rotation has started.
func (s *Spinner) Animating() bool { return s.animating }

// Mounted reports whether the spinner is mounted.
func (s *Spinner) Mounted() bool { return s.mounted }

// Angle returns the current rotation in degrees, in [0, 360).
func (s *Spinner) Angle() float64 {
	return 360 * float64(s.frame) / RotationFrames
}

// Size returns the rendered width and height in cells.
func (s *Spinner) Size() (w, h int) {
	f := s.frames[0]
	if len(f) == 0 {
		return 0, 0
	}
	return len(f[0]), len(f)
}

// Init implements View. It mounts the spinner and schedules the one-shot
// settle timer; rotation starts when that timer fires.
func (s *Spinner) Init() tea.Cmd {
	s.mount++
	s.mounted = true
	s.animating = false
	id, mount := s.id, s.mount
	return tea.Tick(SettleDelay, func(time.Time) tea.Msg {
		return settleMsg{id: id, mount: mount}
	})
}

// Unmount abandons the pending settle timer and stops the rotation loop.
// Messages scheduled before the call are ignored when they arrive.
func (s *Spinner) Unmount() {
	if !s.mounted {
		return
	}
	s.mounted = false
	s.animating = false
	s.mount++
	s.ring = s.newRing()
}

// Update implements View.
func (s *Spinner) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case settleMsg:
		if msg.id != s.id || msg.mount != s.mount || !s.mounted || s.animating {
			return s, nil
		}
		s.animating = true
		return s, s.ring.Tick
	case spinner.TickMsg:
		// bubbles accepts ID 0 ticks from any spinner; only our ring's count.
		if !s.mounted || !s.animating || msg.ID != s.ring.ID() {
			return s, nil
		}
		next, cmd := s.ring.Update(msg)
		if cmd == nil {
			// Stale tick from an earlier loop.
			return s, nil
		}
		s.ring = next
		s.frame = (s.frame + 1) % RotationFrames
		return s, cmd
	}
	return s, nil
}

// View implements View.
func (s *Spinner) View() string {
	return s.Render(Canvas, 1)
}

// Render draws the current frame over backdrop with every dot's alpha scaled
// by opacity.
func (s *Spinner) Render(backdrop Color, opacity float64) string {
	bg := backdrop.Lipgloss()
	blank := lipgloss.NewStyle().Background(bg).Render(" ")
	var b strings.Builder
	for i, row := range s.frames[s.frame] {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, cell := range row {
			if cell.bits == 0 {
				b.WriteString(blank)
				continue
			}
			fg := s.config.Color.Opacity(cell.alpha * opacity).Over(backdrop)
			b.WriteString(lipgloss.NewStyle().
				Foreground(fg.Lipgloss()).
				Background(bg).
				Render(string(cell.glyph())))
		}
	}
	return b.String()
}

// ringCell is one terminal cell of a frame: the lit braille dots and their
// mean gradient alpha.
type ringCell struct {
	bits  uint8
	alpha float64
}

func (c ringCell) glyph() rune {
	return rune(0x2800 + int(c.bits))
}

type ringFrame [][]ringCell

func (f ringFrame) plain() string {
	var b strings.Builder
	for i, row := range f {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, cell := range row {
			if cell.bits == 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteRune(cell.glyph())
		}
	}
	return b.String()
}

// brailleBits maps a dot at (row, col) inside a cell to its bit.
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// ringFrames rasterizes the ring at RotationFrames evenly spaced clockwise
// angles.
func ringFrames(cfg SpinnerConfig) []ringFrame {
	r := cfg.Diameter / 2
	inner := r - cfg.StrokeWidth
	cols := int(math.Ceil(cfg.Diameter / 2))
	rows := int(math.Ceil(cfg.Diameter / 4))
	alpha := FadeOut(White)

	frames := make([]ringFrame, RotationFrames)
	for k := range frames {
		sin, cos := math.Sincos(2 * math.Pi * float64(k) / RotationFrames)
		f := make(ringFrame, rows)
		for row := range f {
			f[row] = make([]ringCell, cols)
			for col := range f[row] {
				var sum float64
				var lit int
				for dy := 0; dy < 4; dy++ {
					for dx := 0; dx < 2; dx++ {
						x := float64(col*2+dx) + 0.5 - r
						y := float64(row*4+dy) + 0.5 - r
						dist := math.Hypot(x, y)
						if dist > r || dist < inner {
							continue
						}
						// Undo the rotation; the gradient runs top to bottom in
						// the ring's own frame.
						y0 := -x*sin + y*cos
						a := alpha.At((y0/r + 1) / 2).A
						if a < dotThreshold {
							continue
						}
						f[row][col].bits |= brailleBits[dy][dx]
						sum += a
						lit++
					}
				}
				if lit > 0 {
					f[row][col].alpha = sum / float64(lit)
				}
			}
		}
		frames[k] = f
	}
	return frames
}
