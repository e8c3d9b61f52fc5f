// ABOUTME: Process-wide signal bridge mapping named POSIX signals to in-process callbacks.
// ABOUTME: Each Register call returns a Token capturing the prior disposition so Unregister is a pure undo.

package signal

import (
	"fmt"
	"os"
	osSignal "os/signal"
	"sync"
)

// disposition is what a given signal name currently does.
type disposition int

const (
	dispositionDefault disposition = iota
	dispositionIgnore
	dispositionCustom
)

// Token captures the disposition a signal had immediately before a
// Register call, so that Unregister can restore exactly that state.
type Token struct {
	name   string
	prior  disposition
	priorF func()
}

// entry tracks the live state for one signal name: its current
// disposition, the callback (if custom), and the machinery needed to
// stop receiving the underlying os.Signal.
type entry struct {
	disposition disposition
	callback    func()
	ch          chan os.Signal
	stop        chan struct{}
}

var (
	mu      sync.Mutex
	entries = map[string]*entry{}
)

// RegisterDefault restores the OS default disposition for name.
func RegisterDefault(name string) error {
	sig, err := lookup(name)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	stopLocked(name)
	entries[name] = &entry{disposition: dispositionDefault}
	osSignal.Reset(sig)
	return nil
}

// RegisterIgnore installs an ignore disposition for name.
func RegisterIgnore(name string) error {
	sig, err := lookup(name)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	stopLocked(name)
	entries[name] = &entry{disposition: dispositionIgnore}
	osSignal.Ignore(sig)
	return nil
}

// Register installs a custom disposition, invoking cb (on a normal
// goroutine, never the signal-delivery context itself) whenever name
// is delivered. The returned Token records the disposition name had
// immediately before this call.
func Register(name string, cb func()) (Token, error) {
	sig, err := lookup(name)
	if err != nil {
		return Token{}, err
	}

	mu.Lock()
	defer mu.Unlock()

	tok := Token{name: name}
	if prev, ok := entries[name]; ok {
		tok.prior = prev.disposition
		tok.priorF = prev.callback
	}
	stopLocked(name)

	ch := make(chan os.Signal, 1)
	stop := make(chan struct{})
	osSignal.Notify(ch, sig)
	go dispatch(ch, stop, cb)

	entries[name] = &entry{disposition: dispositionCustom, callback: cb, ch: ch, stop: stop}
	return tok, nil
}

// dispatch trampolines signal delivery onto a normal goroutine,
// keeping the in-handler work (the channel send performed by the Go
// runtime's own signal plumbing) free of arbitrary user code.
func dispatch(ch chan os.Signal, stop chan struct{}, cb func()) {
	for {
		select {
		case <-ch:
			cb()
		case <-stop:
			return
		}
	}
}

// Unregister restores the disposition captured in tok.
func Unregister(name string, tok Token) error {
	sig, err := lookup(name)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	stopLocked(name)

	switch tok.prior {
	case dispositionDefault:
		entries[name] = &entry{disposition: dispositionDefault}
		osSignal.Reset(sig)
	case dispositionIgnore:
		entries[name] = &entry{disposition: dispositionIgnore}
		osSignal.Ignore(sig)
	case dispositionCustom:
		ch := make(chan os.Signal, 1)
		stop := make(chan struct{})
		osSignal.Notify(ch, sig)
		go dispatch(ch, stop, tok.priorF)
		entries[name] = &entry{disposition: dispositionCustom, callback: tok.priorF, ch: ch, stop: stop}
	}
	return nil
}

// InvokeHandler synchronously runs the callback of the disposition tok
// captured — i.e. whatever name did immediately before the Register
// call that produced tok — when that disposition was a custom one. A
// captured default or ignore disposition is not acted on: nothing
// runs. Terminal.InvokeDefault uses this to chain to the previously
// installed handler after running its own custom handler.
func InvokeHandler(name string, tok Token) {
	if tok.prior == dispositionCustom && tok.priorF != nil {
		tok.priorF()
	}
}

// stopLocked stops any goroutine dispatching for name. Callers must
// hold mu.
func stopLocked(name string) {
	if e, ok := entries[name]; ok && e.stop != nil {
		close(e.stop)
		osSignal.Stop(e.ch)
	}
}

func lookup(name string) (os.Signal, error) {
	sig, ok := signalsByName[name]
	if !ok {
		return nil, fmt.Errorf("signal: unknown signal name %q", name)
	}
	return sig, nil
}
