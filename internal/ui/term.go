package ui

import (
	"io"

	"golang.org/x/term"
)

// IsTerminal reports whether w writes to a terminal. Writers without a
// file descriptor, such as buffers, never do.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
