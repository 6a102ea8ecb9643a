// Package textutil provides unicode-aware text utilities for TUI rendering.
package textutil

import (
	"github.com/mattn/go-runewidth"
)

// TruncateEllipsis is the unicode ellipsis character used for truncation.
const TruncateEllipsis = "…"

// VisualWidth returns the number of terminal columns s occupies.
// s must not contain ANSI escape codes.
func VisualWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate shortens s to at most maxWidth columns, ending in an ellipsis
// when anything was cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisualWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= VisualWidth(TruncateEllipsis) {
		return TruncateEllipsis
	}
	return runewidth.Truncate(s, maxWidth, TruncateEllipsis)
}

// Fit cuts s to exactly width columns, padding with spaces on the right.
// Wide runes that would straddle the edge are replaced by padding.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if VisualWidth(s) > width {
		s = runewidth.Truncate(s, width, "")
	}
	return runewidth.FillRight(s, width)
}
