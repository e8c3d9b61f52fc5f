// ABOUTME: Capabilities parses a terminal type's terminfo entry and exposes the subset pkg/term/terminal needs.
// ABOUTME: Wraps github.com/xo/terminfo, whose own split of capabilities into boolean/numeric/string tables this mirrors with a narrower, domain-specific vocabulary.

package terminfo

import (
	"fmt"

	xoterminfo "github.com/xo/terminfo"
)

// Number names an integer capability.
type Number int

const (
	Columns Number = iota
	Lines
)

// String names a string capability: an escape sequence a terminal
// driver sends to change display mode.
type String int

const (
	EnterCA String = iota
	ExitCA
	ClearScreen
	CursorHome
	KeypadXmit
	KeypadLocal
)

// Capabilities is a parsed terminfo entry.
type Capabilities struct {
	ti   *xoterminfo.Terminfo
	name string
}

// Parse loads the terminfo entry for termType (e.g. the TERM
// environment variable).
func Parse(termType string) (*Capabilities, error) {
	ti, err := xoterminfo.Load(termType)
	if err != nil {
		return nil, fmt.Errorf("terminfo: load %q: %w", termType, err)
	}
	return &Capabilities{ti: ti, name: termType}, nil
}

// Name returns the terminal type this entry was parsed for.
func (c *Capabilities) Name() string { return c.name }

// Number returns the value of an integer capability, or -1 if the
// entry does not define it.
func (c *Capabilities) Number(name Number) int {
	switch name {
	case Columns:
		return c.ti.Num(xoterminfo.Columns)
	case Lines:
		return c.ti.Num(xoterminfo.Lines)
	default:
		return -1
	}
}

// String returns the escape sequence for a string capability, or ""
// if the entry does not define it.
func (c *Capabilities) String(name String) string {
	switch name {
	case EnterCA:
		return string(c.ti.Strings[xoterminfo.EnterCaMode])
	case ExitCA:
		return string(c.ti.Strings[xoterminfo.ExitCaMode])
	case ClearScreen:
		return string(c.ti.Strings[xoterminfo.ClearScreen])
	case CursorHome:
		return string(c.ti.Strings[xoterminfo.CursorHome])
	case KeypadXmit:
		return string(c.ti.Strings[xoterminfo.KeypadXmit])
	case KeypadLocal:
		return string(c.ti.Strings[xoterminfo.KeypadLocal])
	default:
		return ""
	}
}
