// ABOUTME: Terminal composes the character source, signal bridge, shutdown registry, and a Pty into the POSIX system terminal described by the core.
// ABOUTME: Construction order, handle()/raise() chaining, and close()'s best-effort aggregation follow a POSIX terminal's expected lifecycle.

package terminal

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/mauromedda/termio/internal/log"
	"github.com/mauromedda/termio/pkg/term/chars"
	"github.com/mauromedda/termio/pkg/term/pty"
	sig "github.com/mauromedda/termio/pkg/term/signal"
	"github.com/mauromedda/termio/pkg/term/shutdown"
	"github.com/mauromedda/termio/pkg/term/terminfo"
)

// Terminal is a POSIX system terminal: a pty plus the character
// source, writer, and signal routing layered over it.
type Terminal struct {
	mu sync.Mutex

	name     string
	termType string
	encoding string

	pty  pty.Pty
	caps *terminfo.Capabilities

	reader *chars.Source
	writer *chars.Writer

	nativeSignals bool
	handlers      map[Signal]Handler
	tokens        map[Signal]sig.Token

	shutdownHandle *shutdown.Task
	closeGroup     singleflight.Group
	closed         bool
}

// Open constructs a Terminal bound to pty p, under the given
// declared terminal type and text encoding. When nativeSignals is
// true, every recognized signal is given the initial disposition
// described by initial, chaining through Raise for Custom.
func Open(name, termType string, p pty.Pty, encoding string, nativeSignals bool, initial Handler) (*Terminal, error) {
	reader, err := chars.New(p.SlaveInput(), encoding)
	if err != nil {
		return nil, &ConfigError{Reason: err.Error()}
	}
	writer, err := chars.NewWriter(p.SlaveOutput(), encoding)
	if err != nil {
		return nil, &ConfigError{Reason: err.Error()}
	}

	caps, err := terminfo.Parse(termType)
	if err != nil {
		return nil, &ConfigError{Reason: err.Error()}
	}

	t := &Terminal{
		name:          name,
		termType:      termType,
		encoding:      encoding,
		pty:           p,
		caps:          caps,
		reader:        reader,
		writer:        writer,
		nativeSignals: nativeSignals,
		handlers:      make(map[Signal]Handler, len(AllSignals())),
		tokens:        make(map[Signal]sig.Token),
	}

	for _, s := range AllSignals() {
		t.handlers[s] = initial
	}

	if nativeSignals {
		if err := t.installNative(initial); err != nil {
			return nil, err
		}
	}

	t.shutdownHandle = shutdown.Add(func() { _ = t.Close() })

	return t, nil
}

func (t *Terminal) installNative(initial Handler) error {
	switch initial.kind {
	case handlerDefault:
		for _, s := range AllSignals() {
			if err := sig.RegisterDefault(s.String()); err != nil {
				return &SignalError{Name: s.String(), Err: err}
			}
		}
	case handlerIgnore:
		for _, s := range AllSignals() {
			if err := sig.RegisterIgnore(s.String()); err != nil {
				return &SignalError{Name: s.String(), Err: err}
			}
		}
	default:
		for _, s := range AllSignals() {
			signal := s
			tok, err := sig.Register(signal.String(), func() { t.Raise(signal) })
			if err != nil {
				return &SignalError{Name: signal.String(), Err: err}
			}
			t.tokens[signal] = tok
		}
	}
	return nil
}

// Handle installs handler as the disposition for signal, synchronizing
// the native disposition to match, and returns the previously
// installed handler.
func (t *Terminal) Handle(signal Signal, handler Handler) (Handler, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.handlers[signal]
	t.handlers[signal] = handler
	log.Debug("terminal %s: %s disposition -> %d", t.name, signal, handler.kind)

	switch handler.kind {
	case handlerDefault:
		if err := sig.RegisterDefault(signal.String()); err != nil {
			return prev, &SignalError{Name: signal.String(), Err: err}
		}
		delete(t.tokens, signal)
	case handlerIgnore:
		if err := sig.RegisterIgnore(signal.String()); err != nil {
			return prev, &SignalError{Name: signal.String(), Err: err}
		}
		delete(t.tokens, signal)
	default:
		tok, err := sig.Register(signal.String(), func() { t.Raise(signal) })
		if err != nil {
			return prev, &SignalError{Name: signal.String(), Err: err}
		}
		t.tokens[signal] = tok
	}
	return prev, nil
}

// Raise dispatches signal to its installed handler: a Custom handler's
// callback runs; an Ignore or Default handler does nothing on its own.
// Native dispositions installed via Register only ever chain through
// Raise for Custom handlers (RegisterDefault/RegisterIgnore bypass
// Raise entirely), so in practice only the Custom case fires.
func (t *Terminal) Raise(signal Signal) {
	t.mu.Lock()
	handler := t.handlers[signal]
	t.mu.Unlock()

	if handler.kind == handlerCustom && handler.callback != nil {
		handler.callback(signal)
	}
}

// InvokeDefault runs the native disposition that was in effect for
// signal immediately before its most recent Custom registration. A
// Custom handler calls this after its own logic to chain to that prior
// disposition. Only a prior custom callback is run (see
// signal.InvokeHandler); when the prior disposition was the OS default
// or ignore, nothing happens.
func (t *Terminal) InvokeDefault(signal Signal) {
	t.mu.Lock()
	tok, ok := t.tokens[signal]
	t.mu.Unlock()
	if ok {
		sig.InvokeHandler(signal.String(), tok)
	}
}

// Reader returns the non-blocking character source over the pty's
// slave input.
func (t *Terminal) Reader() *chars.Source { return t.reader }

// Writer returns the buffered text writer over the pty's slave output.
func (t *Terminal) Writer() *chars.Writer { return t.writer }

// Input returns the raw byte stream a process attached to the slave
// side would read its input from.
func (t *Terminal) Input() io.Reader { return t.pty.SlaveInput() }

// Output returns the raw byte stream a process attached to the slave
// side would write its output to.
func (t *Terminal) Output() io.Writer { return t.pty.SlaveOutput() }

// Encoding returns the text encoding name this terminal was opened
// with.
func (t *Terminal) Encoding() string { return t.encoding }

// Type returns the declared terminal type (e.g. "xterm-256color").
func (t *Terminal) Type() string { return t.termType }

// Name returns the terminal's human label.
func (t *Terminal) Name() string { return t.name }

// String returns a terminfo string capability.
func (t *Terminal) String(name terminfo.String) string { return t.caps.String(name) }

// Number returns a terminfo numeric capability.
func (t *Terminal) Number(name terminfo.Number) int { return t.caps.Number(name) }

// Close deregisters from the shutdown registry, restores every native
// signal disposition this terminal installed, and releases the
// character source, writer, and pty. Cleanup is best-effort: failures
// are aggregated but every step still runs. Concurrent or repeated
// Close calls collapse into a single execution via singleflight.
func (t *Terminal) Close() error {
	_, err, _ := t.closeGroup.Do("close", func() (interface{}, error) {
		return nil, t.closeOnce()
	})
	return err
}

func (t *Terminal) closeOnce() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	tokens := t.tokens
	t.tokens = nil
	t.mu.Unlock()

	if t.shutdownHandle != nil {
		shutdown.Remove(t.shutdownHandle)
	}

	var errs []error

	for signal, tok := range tokens {
		if err := sig.Unregister(signal.String(), tok); err != nil {
			errs = append(errs, &SignalError{Name: signal.String(), Err: err})
		}
	}

	if err := t.reader.Close(); err != nil {
		errs = append(errs, &IoError{Op: "close reader", Err: err})
	}
	if err := t.writer.Flush(); err != nil {
		errs = append(errs, &IoError{Op: "flush writer", Err: err})
	}
	if err := t.pty.Close(); err != nil {
		errs = append(errs, &IoError{Op: "close pty", Err: err})
	}

	if len(errs) == 0 {
		return nil
	}
	joined := errors.Join(errs...)
	log.Warn("terminal %s: close aggregated %d failure(s): %v", t.name, len(errs), joined)
	return fmt.Errorf("terminal: close: %w", joined)
}
