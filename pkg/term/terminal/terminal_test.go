// ABOUTME: Tests for Terminal construction, signal handling, and close semantics, driven entirely over a VirtualPty.

package terminal

import (
	"testing"
	"time"

	"github.com/mauromedda/termio/pkg/term/pty"
)

func TestOpenAndClose(t *testing.T) {
	v := pty.NewVirtualPty(24, 80)
	term, err := Open("test", "dumb", v, "utf-8", false, DefaultHandler())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if term.Type() != "dumb" {
		t.Fatalf("Type() = %q, want %q", term.Type(), "dumb")
	}
	if term.Encoding() != "utf-8" {
		t.Fatalf("Encoding() = %q, want %q", term.Encoding(), "utf-8")
	}

	if err := term.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOpenUnknownEncodingIsConfigError(t *testing.T) {
	v := pty.NewVirtualPty(24, 80)
	_, err := Open("test", "dumb", v, "bogus-encoding", false, DefaultHandler())
	if err == nil {
		t.Fatal("Open(bogus encoding): want error, got nil")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("Open(bogus encoding) error = %T, want *ConfigError", err)
	}
}

func TestOpenUnknownTerminalTypeIsConfigError(t *testing.T) {
	v := pty.NewVirtualPty(24, 80)
	_, err := Open("test", "not-a-real-term-type", v, "utf-8", false, DefaultHandler())
	if err == nil {
		t.Fatal("Open(bogus type): want error, got nil")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("Open(bogus type) error = %T, want *ConfigError", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	v := pty.NewVirtualPty(24, 80)
	term, err := Open("test", "dumb", v, "utf-8", false, DefaultHandler())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := term.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := term.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestHandleReturnsPreviousHandler(t *testing.T) {
	v := pty.NewVirtualPty(24, 80)
	term, err := Open("test", "dumb", v, "utf-8", false, DefaultHandler())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer term.Close()

	prev, err := term.Handle(INT, IgnoreHandler())
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if prev.kind != handlerDefault {
		t.Fatalf("prev.kind = %v, want handlerDefault", prev.kind)
	}
}

func TestRaiseInvokesCustomHandler(t *testing.T) {
	v := pty.NewVirtualPty(24, 80)
	term, err := Open("test", "dumb", v, "utf-8", false, DefaultHandler())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer term.Close()

	received := make(chan Signal, 1)
	if _, err := term.Handle(INT, CustomHandler(func(s Signal) { received <- s })); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	term.Raise(INT)

	select {
	case s := <-received:
		if s != INT {
			t.Fatalf("received signal = %v, want INT", s)
		}
	case <-time.After(time.Second):
		t.Fatal("custom handler was not invoked")
	}
}

func TestInvokeDefaultChainsToPriorDisposition(t *testing.T) {
	v := pty.NewVirtualPty(24, 80)
	term, err := Open("test", "dumb", v, "utf-8", false, DefaultHandler())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer term.Close()

	priorRan := make(chan struct{}, 1)
	if _, err := term.Handle(CONT, CustomHandler(func(Signal) { priorRan <- struct{}{} })); err != nil {
		t.Fatalf("Handle (install prior): %v", err)
	}

	chainRan := make(chan Signal, 1)
	if _, err := term.Handle(CONT, CustomHandler(func(s Signal) {
		chainRan <- s
		term.InvokeDefault(s)
	})); err != nil {
		t.Fatalf("Handle (install chaining): %v", err)
	}

	term.Raise(CONT)

	select {
	case <-chainRan:
	case <-time.After(time.Second):
		t.Fatal("chaining handler was not invoked")
	}
	select {
	case <-priorRan:
	case <-time.After(time.Second):
		t.Fatal("InvokeDefault did not chain to the prior handler")
	}
}

func TestRaiseIgnoresWhenHandlerIsIgnore(t *testing.T) {
	v := pty.NewVirtualPty(24, 80)
	term, err := Open("test", "dumb", v, "utf-8", false, DefaultHandler())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer term.Close()

	if _, err := term.Handle(QUIT, IgnoreHandler()); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	term.Raise(QUIT) // must not panic or block
}
