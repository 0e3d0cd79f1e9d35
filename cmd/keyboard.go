package cmd

import (
	"bytes"
	"context"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	keyEscape = 0x1b
	keyCtrlC  = 0x03
)

// watchKeyboard cancels the run when ESC is pressed on an interactive
// terminal. The terminal is put in raw mode until restore is called; in raw
// mode Ctrl+C no longer raises SIGINT, so it cancels too.
func watchKeyboard(cancel context.CancelFunc) (raw bool, restore func()) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return false, func() {}
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return false, func() {}
	}

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 1 && (buf[0] == keyEscape || buf[0] == keyCtrlC) {
				cancel()
				return
			}
		}
	}()

	return true, func() {
		_ = term.Restore(fd, state)
	}
}

// crlfWriter turns line feeds into carriage return line feeds, which a
// terminal in raw mode needs to start new lines at the left edge.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
