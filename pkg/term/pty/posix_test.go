// ABOUTME: Tests for PosixPty against a real pty pair allocated via OpenNew.

package pty

import (
	"io"
	"testing"
)

func openTestPty(t *testing.T) (*PosixPty, interface {
	io.Reader
	io.Writer
}) {
	t.Helper()
	p, master, err := OpenNew()
	if err != nil {
		t.Skipf("pty: no pseudo-terminal device available: %v", err)
	}
	t.Cleanup(func() {
		_ = p.Close()
		_ = master.Close()
	})
	return p, master
}

func TestPosixPtyAttrRoundTrip(t *testing.T) {
	p, _ := openTestPty(t)

	attr, err := p.Attr()
	if err != nil {
		t.Fatalf("Attr: %v", err)
	}
	if err := p.SetAttr(attr); err != nil {
		t.Fatalf("SetAttr: %v", err)
	}
}

func TestPosixPtySetAttrRejectsWrongType(t *testing.T) {
	p, _ := openTestPty(t)

	if err := p.SetAttr("not a *term.State"); err == nil {
		t.Fatal("SetAttr with wrong attr type: want error")
	}
}

func TestPosixPtyMakeRawThenRestore(t *testing.T) {
	p, _ := openTestPty(t)

	prev, err := p.MakeRaw()
	if err != nil {
		t.Fatalf("MakeRaw: %v", err)
	}
	if err := p.SetAttr(prev); err != nil {
		t.Fatalf("SetAttr(prev): %v", err)
	}
}

func TestPosixPtySizeRoundTrip(t *testing.T) {
	p, _ := openTestPty(t)

	want := Size{Rows: 24, Cols: 80}
	if err := p.SetSize(want); err != nil {
		t.Fatalf("SetSize: %v", err)
	}
	got, err := p.GetSize()
	if err != nil {
		t.Fatalf("GetSize: %v", err)
	}
	if got != want {
		t.Fatalf("GetSize() = %+v, want %+v", got, want)
	}
}

func TestPosixPtyCloseIsNoopOnStdin(t *testing.T) {
	p, err := OpenCurrent()
	if err != nil {
		t.Fatalf("OpenCurrent: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close on stdin-backed PosixPty: %v", err)
	}
}

func TestPosixPtySlaveStreamsAreUsable(t *testing.T) {
	p, master := openTestPty(t)

	const msg = "hello\n"
	go func() {
		_, _ = master.Write([]byte(msg))
	}()

	buf := make([]byte, len(msg))
	if _, err := io.ReadFull(p.SlaveInput(), buf); err != nil {
		t.Fatalf("read from SlaveInput: %v", err)
	}
	if string(buf) != msg {
		t.Fatalf("SlaveInput read %q, want %q", buf, msg)
	}
}
