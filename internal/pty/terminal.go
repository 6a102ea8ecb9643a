// Package pty provides pseudo-terminals for driving the TUI end to end.
package pty

import (
	"fmt"
	"os"

	"github.com/creack/pty"
)

// Size represents terminal dimensions in rows and columns.
type Size struct {
	Rows uint16
	Cols uint16
}

// Terminal is an open pseudo-terminal pair. A program under test reads and
// writes TTY; the driver reads its output from and types into Master.
type Terminal struct {
	Master *os.File
	TTY    *os.File
}

// Open allocates a pseudo-terminal with the given size.
func Open(size Size) (*Terminal, error) {
	master, tty, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("open pty: %w", err)
	}
	t := &Terminal{Master: master, TTY: tty}
	if err := t.Resize(size); err != nil {
		t.Close()
		return nil, err
	}
	return t, nil
}

// Resize changes the terminal dimensions.
func (t *Terminal) Resize(size Size) error {
	if err := pty.Setsize(t.Master, &pty.Winsize{Rows: size.Rows, Cols: size.Cols}); err != nil {
		return fmt.Errorf("resize pty: %w", err)
	}
	return nil
}

// Size reports the current terminal dimensions.
func (t *Terminal) Size() (Size, error) {
	rows, cols, err := pty.Getsize(t.TTY)
	if err != nil {
		return Size{}, fmt.Errorf("get pty size: %w", err)
	}
	return Size{Rows: uint16(rows), Cols: uint16(cols)}, nil
}

// Type writes keystrokes as if typed at the keyboard.
func (t *Terminal) Type(keys string) error {
	_, err := t.Master.WriteString(keys)
	return err
}

// Close releases both ends.
func (t *Terminal) Close() error {
	ttyErr := t.TTY.Close()
	if err := t.Master.Close(); err != nil {
		return err
	}
	return ttyErr
}
