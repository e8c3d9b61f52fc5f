// ABOUTME: Encoding registry for the non-blocking character source.
// ABOUTME: UTF-8 decodes to full code points; UTF-16 decodes to raw code units so surrogate combination stays with the caller.

package chars

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// unit is one decode step: the value produced, the number of input
// bytes it consumed, and whether more bytes are needed before a value
// can be produced at all.
type unit struct {
	value    rune
	consumed int
	needMore bool
}

// unitDecoder decodes the next unit from the front of buf. For UTF-8
// and single-byte charmaps a unit is always a full code point. For
// UTF-16 a unit is a single 16-bit code unit, which may be one half of
// a surrogate pair; combining surrogate pairs is binding.Reader's job,
// not this layer's.
type unitDecoder func(buf []byte) unit

// resolveDecoder maps a caller-specified encoding name to a decoder.
// An unrecognized name is a ConfigError at the terminal layer.
func resolveDecoder(name string) (unitDecoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return decodeUTF8, nil
	case "utf-16le", "utf16le":
		return utf16Decoder(binary.LittleEndian), nil
	case "utf-16be", "utf16be", "utf-16", "utf16":
		return utf16Decoder(binary.BigEndian), nil
	case "ascii", "us-ascii":
		return decodeASCII, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return decodeIdentityByte, nil
	case "windows-1252", "cp1252":
		return charmapDecoder(charmap.Windows1252), nil
	default:
		return nil, fmt.Errorf("chars: unknown encoding %q", name)
	}
}

func decodeUTF8(buf []byte) unit {
	if len(buf) == 0 {
		return unit{needMore: true}
	}
	if !utf8.FullRune(buf) {
		// Could still be an incomplete multi-byte sequence; only
		// give up once it can't possibly complete.
		if len(buf) < utf8.UTFMax {
			return unit{needMore: true}
		}
	}
	r, size := utf8.DecodeRune(buf)
	if r == utf8.RuneError && size <= 1 {
		// Invalid byte: consume it and surface U+FFFD rather than
		// stalling forever on garbage input.
		return unit{value: utf8.RuneError, consumed: 1}
	}
	return unit{value: r, consumed: size}
}

func decodeASCII(buf []byte) unit {
	if len(buf) == 0 {
		return unit{needMore: true}
	}
	b := buf[0]
	if b > 0x7f {
		return unit{value: utf8.RuneError, consumed: 1}
	}
	return unit{value: rune(b), consumed: 1}
}

// decodeIdentityByte handles ISO-8859-1, where every byte value is
// already its own Unicode code point; no table lookup is needed, so
// there is nothing for x/text to add here.
func decodeIdentityByte(buf []byte) unit {
	if len(buf) == 0 {
		return unit{needMore: true}
	}
	return unit{value: rune(buf[0]), consumed: 1}
}

// charmapDecoder handles single-byte encodings whose mapping to
// Unicode is not the identity function (e.g. Windows-1252 differs
// from Latin-1 in 0x80-0x9F), where x/text's lookup table earns its
// keep.
func charmapDecoder(cm *charmap.Charmap) unitDecoder {
	return func(buf []byte) unit {
		if len(buf) == 0 {
			return unit{needMore: true}
		}
		r := cm.DecodeByte(buf[0])
		return unit{value: r, consumed: 1}
	}
}

// utf16Decoder returns a decoder that yields one raw 16-bit code unit
// per call. A lone surrogate is a perfectly valid return value here;
// encoding/binary (stdlib) is used instead of x/text/encoding/unicode
// because that package's decoder only ever emits fully-combined runes
// and has no way to hand back a bare surrogate half.
func utf16Decoder(order binary.ByteOrder) unitDecoder {
	return func(buf []byte) unit {
		if len(buf) < 2 {
			return unit{needMore: true}
		}
		return unit{value: rune(order.Uint16(buf[:2])), consumed: 2}
	}
}
