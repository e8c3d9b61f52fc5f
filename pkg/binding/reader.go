// ABOUTME: Reader drives a chars.Source against one or two KeyMaps to decode bound values.
// ABOUTME: ReadBinding is a package-level generic function, not a method, because Go methods cannot introduce their own type parameters.

package binding

import (
	"errors"
	"fmt"
	"io"

	"github.com/mauromedda/termio/pkg/keymap"
	"github.com/mauromedda/termio/pkg/term/chars"
)

const pollSlice = 100 // ms polling granularity of a blocking read, including the wait for a surrogate pair's second half.

// Reader holds the mutable state a binding read loop threads through
// repeated calls: the operation buffer, the push-back queue, and the
// literal sequence of the most recent emission.
type Reader struct {
	src *chars.Source

	buf         []rune
	pushback    []rune
	lastBinding []rune

	eof   bool
	ioErr error
}

// NewReader returns a Reader consuming code points from src.
func NewReader(src *chars.Source) *Reader {
	return &Reader{src: src}
}

// CurrentBuffer returns the content of the operation buffer: code
// points read but not yet bound or discarded.
func (r *Reader) CurrentBuffer() string { return string(r.buf) }

// LastBinding returns the literal key sequence of the most recent
// emission.
func (r *Reader) LastBinding() string { return string(r.lastBinding) }

// RunMacro appends text's code points to the tail of the push-back
// queue. Subsequent reads drain the push-back queue FIFO before
// touching the character source.
func (r *Reader) RunMacro(text string) {
	r.pushback = append(r.pushback, []rune(text)...)
}

// Err distinguishes, after a ReadBinding call returned false, end of
// input (io.EOF) from the non-blocking "nothing arrived yet" case
// (nil), rather than collapsing both into a single null result.
func (r *Reader) Err() error {
	if r.ioErr != nil {
		return r.ioErr
	}
	if r.eof {
		return io.EOF
	}
	return nil
}

// ReadCharacter returns the next code point, draining the push-back
// queue first. It polls the character source in fixed 100ms slices
// until real input, EOF, or an error arrives, so that waiting on the
// second half of a surrogate pair never stalls forever on a platform
// with no native timed read. High-surrogate/low-surrogate pairs are
// combined here.
func (r *Reader) ReadCharacter() (int, error) {
	return r.nextCodePoint(-1)
}

// PeekCharacter returns the next code point without consuming it. If
// the push-back queue is non-empty, it returns the head without
// touching the character source.
func (r *Reader) PeekCharacter(timeoutMs int) (int, error) {
	if len(r.pushback) > 0 {
		return int(r.pushback[0]), nil
	}
	v, err := r.src.Peek(timeoutMs)
	if err != nil {
		if errors.Is(err, chars.ErrClosed) {
			r.eof = true
			return chars.ReadEOF, nil
		}
		return 0, fmt.Errorf("binding: peek: %w", err)
	}
	return v, nil
}

// nextCodePoint returns one fully-combined code point. pollMs < 0
// polls the source in 100ms slices until data, EOF, or error arrives
// (true blocking); pollMs == 0 makes a single non-blocking attempt,
// returning chars.ReadExpired if nothing is available yet.
func (r *Reader) nextCodePoint(pollMs int) (int, error) {
	v, err := r.nextRawUnit(pollMs)
	if err != nil || v < 0 {
		if v == chars.ReadEOF {
			r.eof = true
		}
		return v, err
	}
	if !isHighSurrogate(v) {
		return v, nil
	}

	lo, err := r.nextRawUnit(-1)
	if err != nil {
		return 0, err
	}
	if lo == chars.ReadEOF {
		r.eof = true
		return v, nil
	}
	if lo >= 0 && isLowSurrogate(lo) {
		return combineSurrogates(v, lo), nil
	}
	if lo >= 0 {
		// Not a valid pair: hand the high surrogate back alone and
		// requeue lo so it isn't lost.
		r.pushback = append([]rune{rune(lo)}, r.pushback...)
	}
	return v, nil
}

// nextRawUnit returns one undecoded unit: a full code point for most
// encodings, or a raw UTF-16 code unit (possibly one half of a
// surrogate pair) for UTF-16 sources.
func (r *Reader) nextRawUnit(pollMs int) (int, error) {
	if len(r.pushback) > 0 {
		v := r.pushback[0]
		r.pushback = r.pushback[1:]
		return int(v), nil
	}

	readOnce := func(timeoutMs int) (int, error) {
		v, err := r.src.Read(timeoutMs)
		if err != nil {
			if errors.Is(err, chars.ErrClosed) {
				return chars.ReadEOF, nil
			}
			return 0, fmt.Errorf("binding: read: %w", err)
		}
		return v, nil
	}

	if pollMs >= 0 {
		return readOnce(pollMs)
	}
	for {
		v, err := readOnce(pollSlice)
		if err != nil || v != chars.ReadExpired {
			return v, err
		}
	}
}

func isHighSurrogate(v int) bool { return v >= 0xD800 && v <= 0xDBFF }
func isLowSurrogate(v int) bool  { return v >= 0xDC00 && v <= 0xDFFF }

func combineSurrogates(hi, lo int) int {
	return 0x10000 + (hi-0xD800)*0x400 + (lo - 0xDC00)
}

// lookup implements BindingReader.readBinding's step 1: query local
// first; a local match (even an ambiguous one carrying a value) wins
// outright, a local pure-prefix ambiguity (no value yet) suppresses
// the primary lookup entirely, and anything else falls through to
// primary.
func lookup[T any](buf []rune, primary, local *keymap.KeyMap[T]) (value T, ok bool, remaining int) {
	if local != nil {
		lv, lok, lrem := local.GetBound(buf)
		if lok {
			return lv, true, lrem
		}
		if lrem == -1 {
			return lv, false, -1
		}
	}
	return primary.GetBound(buf)
}

// ReadBinding drives r against primary (and, when non-nil, local) to
// produce the next bound value. It returns (zero, false) on EOF and,
// when block is false, as soon as no input is available on the very
// first attempted read of a call — the buffer is preserved either
// way for the next call. Use Err() to tell the two apart.
func ReadBinding[T any](r *Reader, primary, local *keymap.KeyMap[T], block bool) (T, bool) {
	var zero T
	r.lastBinding = nil
	alreadyRead := false

	for {
		value, ok, remaining := lookup(r.buf, primary, local)

		if ok {
			if remaining >= 0 {
				tailStart := len(r.buf) - remaining
				tail := r.buf[tailStart:]
				if len(tail) > 0 {
					r.RunMacro(string(tail))
				}
				r.buf = r.buf[:tailStart]
			} else {
				if timeout := primary.GetAmbiguousTimeout(); timeout > 0 {
					if pk, _ := r.PeekCharacter(timeout); pk != chars.ReadExpired {
						ok = false
					}
				}
			}
			if ok {
				r.lastBinding = append([]rune(nil), r.buf...)
				r.buf = r.buf[:0]
				return value, true
			}
		} else if remaining > 0 {
			cp := r.buf[0]
			rest := append([]rune(nil), r.buf[1:]...)
			r.lastBinding = []rune{cp}

			var fallback T
			var hasFallback bool
			if int(cp) >= keymap.KeymapLength {
				fallback, hasFallback = primary.GetUnicode()
			} else {
				fallback, hasFallback = primary.GetNomatch()
			}
			r.buf = rest
			if hasFallback {
				return fallback, true
			}
			continue
		}

		if !block && alreadyRead {
			return zero, false
		}

		pollMs := -1
		if !block && !alreadyRead {
			pollMs = 0
		}
		cp, err := r.nextCodePoint(pollMs)
		if err != nil {
			r.ioErr = err
			return zero, false
		}
		if cp == chars.ReadExpired {
			return zero, false
		}
		if cp == chars.ReadEOF {
			return zero, false
		}
		r.buf = append(r.buf, rune(cp))
		alreadyRead = true
	}
}
