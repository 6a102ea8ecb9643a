// Package anim provides value-driven tweens for Bubble Tea views.
//
// A Fade interpolates a float between its current value and a target. The
// owner retargets it whenever the value it tracks changes; the returned
// command schedules frame messages until the tween settles. Each retarget
// bumps a tag so frames scheduled for an earlier tween are dropped, the same
// way bubbles/spinner filters stale ticks.
package anim

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameInterval is the delay between animation frames (~60fps).
const FrameInterval = time.Second / 60

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// FrameMsg advances a running Fade. ID identifies the fade, Tag the
// retarget generation the frame was scheduled for.
type FrameMsg struct {
	ID   int
	Tag  int
	Time time.Time
}

// Fade is an ease-in-out tween between two values.
type Fade struct {
	id       int
	tag      int
	from     float64
	to       float64
	start    time.Time
	duration time.Duration
	running  bool
	now      Clock
}

// NewFade returns a settled fade holding initial. A nil clock uses time.Now.
func NewFade(initial float64, duration time.Duration, clock Clock) *Fade {
	if clock == nil {
		clock = time.Now
	}
	return &Fade{
		id:       nextID(),
		from:     initial,
		to:       initial,
		duration: duration,
		now:      clock,
	}
}

// ID returns the fade's identifier.
func (f *Fade) ID() int { return f.id }

// Tag returns the current retarget generation.
func (f *Fade) Tag() int { return f.tag }

// Target returns the value the fade is heading to.
func (f *Fade) Target() float64 { return f.to }

// Duration returns the fixed length of every transition.
func (f *Fade) Duration() time.Duration { return f.duration }

// Running reports whether a transition is in flight.
func (f *Fade) Running() bool { return f.running }

// Value returns the interpolated value at the current clock time.
func (f *Fade) Value() float64 {
	return f.valueAt(f.now())
}

func (f *Fade) valueAt(t time.Time) float64 {
	if !f.running || f.duration <= 0 {
		return f.to
	}
	p := float64(t.Sub(f.start)) / float64(f.duration)
	if p >= 1 {
		return f.to
	}
	if p < 0 {
		p = 0
	}
	return f.from + (f.to-f.from)*EaseInOut(p)
}

// Retarget starts a new transition from the current value toward target.
// An in-flight transition is interrupted where it stands; the new one always
// lasts the full duration. Returns nil when there is nothing to animate.
func (f *Fade) Retarget(target float64) tea.Cmd {
	now := f.now()
	current := f.valueAt(now)
	f.tag++
	f.from = current
	f.to = target
	f.start = now
	if f.duration <= 0 || current == target {
		f.running = false
		f.from = target
		return nil
	}
	f.running = true
	return f.frame()
}

// Stop abandons the transition and jumps to the target. Pending frames are
// dropped.
func (f *Fade) Stop() {
	f.tag++
	f.running = false
	f.from = f.to
}

// Update consumes a frame for this fade. settled is true when the frame
// completed the transition; cmd schedules the next frame otherwise.
func (f *Fade) Update(msg tea.Msg) (settled bool, cmd tea.Cmd) {
	m, ok := msg.(FrameMsg)
	if !ok || m.ID != f.id || m.Tag != f.tag || !f.running {
		return false, nil
	}
	if f.now().Sub(f.start) >= f.duration {
		f.running = false
		f.from = f.to
		return true, nil
	}
	return false, f.frame()
}

func (f *Fade) frame() tea.Cmd {
	id, tag := f.id, f.tag
	return tea.Tick(FrameInterval, func(t time.Time) tea.Msg {
		return FrameMsg{ID: id, Tag: tag, Time: t}
	})
}

// EaseInOut is the cubic ease-in-out curve over p in [0, 1].
func EaseInOut(p float64) float64 {
	switch {
	case p <= 0:
		return 0
	case p >= 1:
		return 1
	case p < 0.5:
		return 4 * p * p * p
	default:
		q := -2*p + 2
		return 1 - q*q*q/2
	}
}
