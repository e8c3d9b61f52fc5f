// ABOUTME: Writer is a buffered text writer over a byte stream, encoding runes per the same encoding vocabulary resolveDecoder understands.
// ABOUTME: Paired with Source so a Terminal can offer symmetric input/output under one caller-chosen encoding name.

package chars

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// runeEncoder appends the bytes for r to bw.
type runeEncoder func(bw *bufio.Writer, r rune) error

// Writer is a buffered text writer. It is not safe for concurrent use
// by multiple goroutines; the terminal that owns it serializes access.
type Writer struct {
	bw     *bufio.Writer
	encode runeEncoder
}

// NewWriter wraps w as a buffered text writer using encodingName, which
// must be one of the names resolveDecoder accepts other than the UTF-16
// ones; those have no writer and return an error.
func NewWriter(w io.Writer, encodingName string) (*Writer, error) {
	enc, err := resolveEncoder(encodingName)
	if err != nil {
		return nil, err
	}
	return &Writer{bw: bufio.NewWriter(w), encode: enc}, nil
}

// WriteString encodes and writes s.
func (wr *Writer) WriteString(s string) (int, error) {
	n := 0
	for _, r := range s {
		if err := wr.encode(wr.bw, r); err != nil {
			return n, fmt.Errorf("chars: write: %w", err)
		}
		n++
	}
	return n, nil
}

// Write implements io.Writer by treating p as UTF-8 text regardless of
// the writer's output encoding, matching bufio.Writer's own contract
// for byte-oriented callers.
func (wr *Writer) Write(p []byte) (int, error) {
	if _, err := wr.WriteString(string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Flush pushes buffered bytes to the underlying stream.
func (wr *Writer) Flush() error {
	if err := wr.bw.Flush(); err != nil {
		return fmt.Errorf("chars: flush: %w", err)
	}
	return nil
}

func resolveEncoder(name string) (runeEncoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return encodeUTF8, nil
	case "ascii", "us-ascii":
		return encodeASCII, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return encodeIdentityByte, nil
	case "windows-1252", "cp1252":
		return charmapEncoder(charmap.Windows1252), nil
	case "utf-16le", "utf16le", "utf-16be", "utf16be", "utf-16", "utf16":
		return nil, fmt.Errorf("chars: encoding %q has no writer (input-only code-unit encoding)", name)
	default:
		return nil, fmt.Errorf("chars: unknown encoding %q", name)
	}
}

func encodeUTF8(bw *bufio.Writer, r rune) error {
	_, err := bw.WriteRune(r)
	return err
}

func encodeASCII(bw *bufio.Writer, r rune) error {
	if r > 0x7f {
		r = '?'
	}
	return bw.WriteByte(byte(r))
}

func encodeIdentityByte(bw *bufio.Writer, r rune) error {
	if r > 0xff {
		r = '?'
	}
	return bw.WriteByte(byte(r))
}

func charmapEncoder(cm *charmap.Charmap) runeEncoder {
	return func(bw *bufio.Writer, r rune) error {
		b, ok := cm.EncodeRune(r)
		if !ok {
			b = '?'
		}
		return bw.WriteByte(b)
	}
}
