// ABOUTME: SequenceForName resolves a human key-name string ("ctrl+g", "alt+p", "up") to the raw code points a terminal actually sends.
// ABOUTME: Config files name keys the way a person types them, but a KeyMap binds on the wire form a terminal actually produces.

package key

import "strings"

// namedSequences maps named (non-rune) keys to their canonical wire
// form. Arrow and navigation keys use the CSI forms a terminal sends
// outside application mode, rather than the SS3 variants.
var namedSequences = map[string]string{
	"enter":     "\r",
	"tab":       "\t",
	"backspace": "\x7f",
	"escape":    "\x1b",
	"delete":    "\x1b[3~",
	"up":        "\x1b[A",
	"down":      "\x1b[B",
	"left":      "\x1b[D",
	"right":     "\x1b[C",
	"home":      "\x1b[H",
	"end":       "\x1b[F",
	"pgup":      "\x1b[5~",
	"pgdown":    "\x1b[6~",
}

// SequenceForName resolves a config-file key name such as "ctrl+g",
// "alt+p", "shift+tab", or "@" into the rune sequence a terminal
// sends for it. It returns false for names it cannot resolve, e.g.
// shift+<rune> combinations a terminal reports as the shifted rune
// itself rather than as a distinct modifier bit.
func SequenceForName(name string) ([]rune, bool) {
	parts := strings.Split(name, "+")
	base := parts[len(parts)-1]
	mods := parts[:len(parts)-1]

	var alt, ctrl, shift bool
	for _, m := range mods {
		switch m {
		case "alt":
			alt = true
		case "ctrl":
			ctrl = true
		case "shift":
			shift = true
		default:
			return nil, false
		}
	}

	// Shift on a Ctrl+<letter> combo doesn't change the control byte a
	// terminal sends; only a few named keys carry a distinct shifted
	// form at all.
	if shift && !ctrl {
		switch base {
		case "tab":
			return []rune("\x1b[Z"), true
		case "pgup":
			return []rune("\x1b[5;2~"), true
		case "pgdown":
			return []rune("\x1b[6;2~"), true
		default:
			return nil, false
		}
	}

	var seq string
	switch {
	case ctrl && len(base) == 1 && base[0] >= 0x3f && base[0] <= 0x7f:
		// Ctrl clears bits 5 and 6 of the ASCII code; this covers
		// letters and the punctuation ctrl combos (@, [, \, ], ^, _, ?)
		// uniformly.
		seq = string(rune(base[0] & 0x1f))
	case ctrl:
		return nil, false
	case len(base) == 1:
		seq = base
	default:
		s, ok := namedSequences[base]
		if !ok {
			return nil, false
		}
		seq = s
	}

	if alt {
		seq = "\x1b" + seq
	}
	return []rune(seq), true
}
