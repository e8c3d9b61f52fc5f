// ABOUTME: Pty is the collaborator contract the terminal composes: slave streams, attribute get/set, window size, close.
// ABOUTME: Concrete pty acquisition (ioctl choreography) is out of scope per spec; PosixPty and VirtualPty are the two implementations this module ships.

package pty

import "io"

// Attr is an opaque snapshot of terminal attributes (raw/cooked mode
// and the rest of the termios state), obtained from Pty.Attr and
// restored via Pty.SetAttr.
type Attr interface{}

// Size is a pty window size in character cells.
type Size struct {
	Rows uint16
	Cols uint16
}

// Pty is the pseudo-terminal collaborator contract consumed by
// pkg/term/terminal. Lifetime is owned by whoever calls Open; the
// terminal releases it on Close.
type Pty interface {
	// SlaveInput is the byte stream a process attached to the slave
	// side would read its input from.
	SlaveInput() io.Reader
	// SlaveOutput is the byte stream a process attached to the slave
	// side would write its output to.
	SlaveOutput() io.Writer

	// Attr returns the current terminal attributes.
	Attr() (Attr, error)
	// SetAttr installs attr as the current terminal attributes.
	SetAttr(attr Attr) error

	// GetSize returns the current window size.
	GetSize() (Size, error)
	// SetSize installs size as the current window size.
	SetSize(size Size) error

	Close() error
}
