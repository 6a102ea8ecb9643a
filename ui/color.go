package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB color with straight (non-premultiplied) alpha.
// Terminals have no alpha channel, so colors are flattened onto whatever
// lies beneath them before rendering.
type Color struct {
	RGB colorful.Color
	A   float64
}

// Named colors.
var (
	White = Color{RGB: colorful.Color{R: 1, G: 1, B: 1}, A: 1}
	Black = Color{RGB: colorful.Color{}, A: 1}
	Gray  = Color{RGB: colorful.Color{R: 0.5, G: 0.5, B: 0.5}, A: 1}
	Clear = Color{}
)

// Canvas is the assumed terminal background that fully transparent pixels
// show. Host text beneath the backdrop is assumed to be HostText.
var (
	Canvas   = Black
	HostText = MustHex("#d0d0d0")
)

// ParseHex parses "#rrggbb" or "#rgb" into an opaque Color.
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		// colorful only accepts the long form.
		if len(s) == 4 && s[0] == '#' {
			long := string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
			if c, err = colorful.Hex(long); err == nil {
				return Color{RGB: c, A: 1}, nil
			}
		}
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{RGB: c, A: 1}, nil
}

// MustHex is ParseHex for literals; it panics on malformed input.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Opacity returns c with its alpha multiplied by a.
func (c Color) Opacity(a float64) Color {
	c.A = clamp01(c.A * clamp01(a))
	return c
}

// Over composites c on top of dst (Porter-Duff source-over).
func (c Color) Over(dst Color) Color {
	a := clamp01(c.A)
	da := clamp01(dst.A)
	outA := a + da*(1-a)
	if outA == 0 {
		return Clear
	}
	mix := func(s, d float64) float64 {
		return (s*a + d*da*(1-a)) / outA
	}
	return Color{
		RGB: colorful.Color{
			R: mix(c.RGB.R, dst.RGB.R),
			G: mix(c.RGB.G, dst.RGB.G),
			B: mix(c.RGB.B, dst.RGB.B),
		},
		A: outA,
	}
}

// Flatten composites c onto the opaque canvas and returns its hex form.
func (c Color) Flatten() string {
	return c.Over(Canvas).RGB.Clamped().Hex()
}

// Lipgloss returns c flattened onto the canvas as a lipgloss color.
func (c Color) Lipgloss() lipgloss.Color {
	return lipgloss.Color(c.Flatten())
}

// Gradient is a list of evenly spaced color stops.
type Gradient []Color

// At samples the gradient at t in [0, 1]. RGB is blended with go-colorful,
// alpha linearly.
func (g Gradient) At(t float64) Color {
	switch len(g) {
	case 0:
		return Clear
	case 1:
		return g[0]
	}
	t = clamp01(t)
	pos := t * float64(len(g)-1)
	i := int(pos)
	if i >= len(g)-1 {
		return g[len(g)-1]
	}
	frac := pos - float64(i)
	a, b := g[i], g[i+1]
	return Color{
		RGB: a.RGB.BlendRgb(b.RGB, frac),
		A:   a.A + (b.A-a.A)*frac,
	}
}

// FadeOut returns the top-to-bottom gradient used by the spinner ring: c at
// full strength fading through quarter steps to fully transparent.
func FadeOut(c Color) Gradient {
	return Gradient{
		c,
		c.Opacity(0.75),
		c.Opacity(0.5),
		c.Opacity(0.25),
		c.Opacity(0),
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
