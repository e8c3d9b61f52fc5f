// ABOUTME: PosixPty implements Pty over a real pseudo-terminal slave file descriptor.
// ABOUTME: OpenCurrent wraps this process's own controlling terminal; OpenNew allocates a fresh pty pair for tests or spawned children.

package pty

import (
	"fmt"
	"io"
	"os"

	creackpty "github.com/creack/pty"
	"golang.org/x/term"
)

// PosixPty is a Pty backed by a real slave file descriptor.
type PosixPty struct {
	slave *os.File
}

// OpenCurrent wraps this process's own controlling terminal (its
// stdin, already attached to a pty slave by whatever spawned this
// process) as a Pty. Both SlaveInput and SlaveOutput use os.Stdin;
// os.Stdout is not used.
func OpenCurrent() (*PosixPty, error) {
	return &PosixPty{slave: os.Stdin}, nil
}

// OpenNew allocates a fresh pseudo-terminal pair via creack/pty and
// returns a Pty wrapping the slave side plus the master file, which
// the caller drives directly (writing simulated input, reading
// produced output) — the shape a test harness or an embedding process
// spawning a child on the slave side needs.
func OpenNew() (*PosixPty, *os.File, error) {
	master, slave, err := creackpty.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("pty: open: %w", err)
	}
	return &PosixPty{slave: slave}, master, nil
}

func (p *PosixPty) SlaveInput() io.Reader  { return p.slave }
func (p *PosixPty) SlaveOutput() io.Writer { return p.slave }

// Attr returns the slave's current termios state.
func (p *PosixPty) Attr() (Attr, error) {
	state, err := term.GetState(int(p.slave.Fd()))
	if err != nil {
		return nil, fmt.Errorf("pty: get attr: %w", err)
	}
	return state, nil
}

// SetAttr installs attr, which must be a *term.State previously
// returned by Attr (or by MakeRaw below).
func (p *PosixPty) SetAttr(attr Attr) error {
	state, ok := attr.(*term.State)
	if !ok {
		return fmt.Errorf("pty: set attr: %T is not a *term.State", attr)
	}
	if err := term.Restore(int(p.slave.Fd()), state); err != nil {
		return fmt.Errorf("pty: set attr: %w", err)
	}
	return nil
}

// MakeRaw switches the slave into raw mode, returning the previous
// attributes for a later SetAttr to restore.
func (p *PosixPty) MakeRaw() (Attr, error) {
	prev, err := p.Attr()
	if err != nil {
		return nil, err
	}
	if _, err := term.MakeRaw(int(p.slave.Fd())); err != nil {
		return nil, fmt.Errorf("pty: make raw: %w", err)
	}
	return prev, nil
}

func (p *PosixPty) GetSize() (Size, error) {
	ws, err := creackpty.GetsizeFull(p.slave)
	if err != nil {
		return Size{}, fmt.Errorf("pty: get size: %w", err)
	}
	return Size{Rows: ws.Rows, Cols: ws.Cols}, nil
}

func (p *PosixPty) SetSize(size Size) error {
	ws := &creackpty.Winsize{Rows: size.Rows, Cols: size.Cols}
	if err := creackpty.Setsize(p.slave, ws); err != nil {
		return fmt.Errorf("pty: set size: %w", err)
	}
	return nil
}

func (p *PosixPty) Close() error {
	if p.slave == os.Stdin {
		return nil
	}
	return p.slave.Close()
}
