package ui

import (
	"time"

	"loadingview/internal/anim"
)

// DefaultMessage is shown under the spinner unless overridden.
const DefaultMessage = "Loading..."

// DefaultFadeDuration is the length of every show/hide fade.
const DefaultFadeDuration = 200 * time.Millisecond

// DefaultCornerRadius rounds the panel border.
const DefaultCornerRadius = 10

// Options configures the loading overlay. The same set is accepted by Wrap
// and NewLoadingView, with the same defaults.
type Options struct {
	SpinnerColor    Color
	Diameter        float64
	StrokeWidth     float64
	Message         string // empty suppresses the label row
	MessageColor    Color
	BackgroundColor Color // full-bleed backdrop; alpha is its opacity
	CornerRadius    float64
	FadeDuration    time.Duration

	clock anim.Clock
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		SpinnerColor:    White,
		Diameter:        DefaultDiameter,
		StrokeWidth:     DefaultStrokeWidth,
		Message:         DefaultMessage,
		MessageColor:    White,
		BackgroundColor: Black.Opacity(0.25),
		CornerRadius:    DefaultCornerRadius,
		FadeDuration:    DefaultFadeDuration,
	}
}

func (o Options) spinnerConfig() SpinnerConfig {
	return SpinnerConfig{
		Color:       o.SpinnerColor,
		Diameter:    o.Diameter,
		StrokeWidth: o.StrokeWidth,
	}
}

// Option customizes Options.
type Option func(*Options)

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.FadeDuration < 0 {
		o.FadeDuration = 0
	}
	return o
}

// WithOptions replaces every setting with o. Later options still apply.
func WithOptions(o Options) Option {
	return func(dst *Options) {
		clock := dst.clock
		*dst = o
		if dst.clock == nil {
			dst.clock = clock
		}
	}
}

// WithSpinner sets the spinner color.
func WithSpinner(c Color) Option {
	return func(o *Options) { o.SpinnerColor = c }
}

// WithDiameter sets the spinner diameter in braille dots.
func WithDiameter(d float64) Option {
	return func(o *Options) { o.Diameter = d }
}

// WithStroke sets the spinner ring thickness in braille dots.
func WithStroke(w float64) Option {
	return func(o *Options) { o.StrokeWidth = w }
}

// WithMessage sets the label under the spinner. Pass "" for no label.
func WithMessage(msg string) Option {
	return func(o *Options) { o.Message = msg }
}

// WithMessageColor sets the label color.
func WithMessageColor(c Color) Option {
	return func(o *Options) { o.MessageColor = c }
}

// WithBackground sets the backdrop color; its alpha is the dimming strength.
func WithBackground(c Color) Option {
	return func(o *Options) { o.BackgroundColor = c }
}

// WithCornerRadius sets the panel corner radius. Zero gives square corners.
func WithCornerRadius(r float64) Option {
	return func(o *Options) { o.CornerRadius = r }
}

// WithFadeDuration sets the show/hide fade length.
func WithFadeDuration(d time.Duration) Option {
	return func(o *Options) { o.FadeDuration = d }
}
