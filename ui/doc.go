// Package ui provides a blocking loading overlay for Bubble Tea programs.
//
// Pieces, leaf to root:
//   - Spinner: a rotating braille ring with a fading gradient stroke
//   - LoadingView: full-screen translucent backdrop plus a centered panel
//     holding the spinner and an optional message; fades with the bound flag
//   - Modifier: wraps host content and stacks the LoadingView on top while
//     the flag is set (Wrap)
//   - ZStack: z-ordered layers composited into one frame
//
// The host owns the visibility flag and passes it as a Binding. Nothing in
// this package writes it.
package ui
