// ABOUTME: Non-blocking character source over a blocking byte stream.
// ABOUTME: A background pump goroutine decouples the underlying Read from read(timeout)/peek(timeout) semantics.

package chars

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// Sentinel return values for Read/Peek.
const (
	ReadEOF     = -1
	ReadExpired = -2
)

// ErrClosed is returned by Read/Peek after Close.
var ErrClosed = errors.New("chars: source closed")

const pumpBufSize = 256

// Source decodes a blocking io.Reader into a stream of code points
// (or, for UTF-16 encodings, raw code units — see decode.go) with
// read(timeout)/peek(timeout)/close() semantics.
type Source struct {
	decode unitDecoder

	mu      sync.Mutex
	pending []byte // undecoded bytes carried over between calls
	peeked  rune
	hasPeek bool
	err     error // sticky terminal error (io.EOF or a real I/O failure)
	closed  bool

	chunks    chan []byte
	readErr   chan error
	closeCh   chan struct{}
	closeOnce sync.Once
}

// New starts a Source reading from r, decoding with the named
// encoding. An unrecognized encoding name is a ConfigError candidate
// for the caller (pkg/term/terminal wraps it as such).
func New(r io.Reader, encodingName string) (*Source, error) {
	dec, err := resolveDecoder(encodingName)
	if err != nil {
		return nil, err
	}
	s := &Source{
		decode:  dec,
		chunks:  make(chan []byte),
		readErr: make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go s.pump(r)
	return s, nil
}

func (s *Source) pump(r io.Reader) {
	buf := make([]byte, pumpBufSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case s.chunks <- chunk:
			case <-s.closeCh:
				return
			}
		}
		if err != nil {
			select {
			case s.readErr <- err:
			case <-s.closeCh:
			}
			return
		}
	}
}

// Read returns the next code point, ReadExpired if timeoutMs elapses
// first (negative blocks indefinitely, zero polls once), or ReadEOF at
// end of stream. Any other I/O failure is returned as an error.
func (s *Source) Read(timeoutMs int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasPeek {
		v := s.peeked
		s.hasPeek = false
		return int(v), nil
	}
	return s.next(timeoutMs)
}

// Peek returns the next code point without consuming it.
func (s *Source) Peek(timeoutMs int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasPeek {
		return int(s.peeked), nil
	}
	v, err := s.next(timeoutMs)
	if err != nil || v < 0 {
		return v, err
	}
	s.peeked = rune(v)
	s.hasPeek = true
	return v, nil
}

// Close marks the source closed; a read or peek in progress and all
// subsequent ones fail with ErrClosed.
func (s *Source) Close() error {
	// Signal closeCh before taking mu: a pending Read holds mu while it
	// waits, and only returns once it sees closeCh.
	s.closeOnce.Do(func() { close(s.closeCh) })
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// next decodes and returns the next unit, blocking on the pump
// channel as needed until timeoutMs elapses.
func (s *Source) next(timeoutMs int) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}

	for {
		if u := s.decode(s.pending); !u.needMore {
			s.pending = s.pending[u.consumed:]
			return int(u.value), nil
		}
		if s.err != nil {
			if errors.Is(s.err, io.EOF) {
				return ReadEOF, nil
			}
			return 0, fmt.Errorf("chars: read: %w", s.err)
		}

		var timer *time.Timer
		var timeoutCh <-chan time.Time
		switch {
		case timeoutMs < 0:
			// Block indefinitely: no timer.
		case timeoutMs == 0:
			select {
			case chunk := <-s.chunks:
				s.pending = append(s.pending, chunk...)
				continue
			case err := <-s.readErr:
				s.err = err
				continue
			case <-s.closeCh:
				return 0, ErrClosed
			default:
				return ReadExpired, nil
			}
		default:
			timer = time.NewTimer(time.Duration(timeoutMs) * time.Millisecond)
			timeoutCh = timer.C
		}

		select {
		case chunk := <-s.chunks:
			if timer != nil {
				timer.Stop()
			}
			s.pending = append(s.pending, chunk...)
		case err := <-s.readErr:
			if timer != nil {
				timer.Stop()
			}
			s.err = err
		case <-s.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return 0, ErrClosed
		case <-timeoutCh:
			return ReadExpired, nil
		}
	}
}
