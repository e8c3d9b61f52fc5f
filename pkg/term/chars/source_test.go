// ABOUTME: Tests for the non-blocking character source covering timeouts, EOF, close, and encodings.
// ABOUTME: Uses io.Pipe to control exactly when bytes arrive relative to Read/Peek calls.

package chars

import (
	"io"
	"testing"
	"time"
)

func TestSource_UTF8Basic(t *testing.T) {
	t.Parallel()

	r, w := io.Pipe()
	s, err := New(r, "utf-8")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	go func() {
		_, _ = w.Write([]byte("aé"))
	}()

	cp, err := s.Read(-1)
	if err != nil || cp != 'a' {
		t.Fatalf("Read() = %d, %v, want 'a'", cp, err)
	}
	cp, err = s.Read(-1)
	if err != nil || rune(cp) != 'é' {
		t.Fatalf("Read() = %d, %v, want 'é'", cp, err)
	}
}

func TestSource_ExpiredOnNoInput(t *testing.T) {
	t.Parallel()

	r, _ := io.Pipe()
	s, err := New(r, "utf-8")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	cp, err := s.Read(20)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if cp != ReadExpired {
		t.Fatalf("Read() = %d, want ReadExpired", cp)
	}
}

func TestSource_ZeroTimeoutPolls(t *testing.T) {
	t.Parallel()

	r, _ := io.Pipe()
	s, err := New(r, "utf-8")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	cp, err := s.Read(0)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if cp != ReadExpired {
		t.Fatalf("Read(0) = %d, want ReadExpired", cp)
	}
}

func TestSource_EOF(t *testing.T) {
	t.Parallel()

	r, w := io.Pipe()
	s, err := New(r, "utf-8")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	_ = w.Close()

	cp, err := s.Read(-1)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if cp != ReadEOF {
		t.Fatalf("Read() = %d, want ReadEOF", cp)
	}

	// EOF is sticky.
	cp, err = s.Read(-1)
	if err != nil || cp != ReadEOF {
		t.Fatalf("second Read() = %d, %v, want ReadEOF, nil", cp, err)
	}
}

func TestSource_CloseFailsPendingAndFutureReads(t *testing.T) {
	t.Parallel()

	r, _ := io.Pipe()
	s, err := New(r, "utf-8")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, rerr := s.Read(-1)
		if rerr != ErrClosed {
			t.Errorf("Read() error = %v, want ErrClosed", rerr)
		}
	}()

	time.Sleep(20 * time.Millisecond)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	<-done

	if _, err := s.Read(-1); err != ErrClosed {
		t.Fatalf("Read after Close error = %v, want ErrClosed", err)
	}
}

func TestSource_PeekDoesNotConsume(t *testing.T) {
	t.Parallel()

	r, w := io.Pipe()
	s, err := New(r, "utf-8")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	go func() { _, _ = w.Write([]byte("x")) }()

	p1, err := s.Peek(-1)
	if err != nil || p1 != 'x' {
		t.Fatalf("Peek() = %d, %v, want 'x'", p1, err)
	}
	p2, err := s.Peek(-1)
	if err != nil || p2 != 'x' {
		t.Fatalf("second Peek() = %d, %v, want 'x'", p2, err)
	}
	got, err := s.Read(-1)
	if err != nil || got != 'x' {
		t.Fatalf("Read() after Peek = %d, %v, want 'x'", got, err)
	}
}

func TestSource_UTF16SurrogatePairAsRawUnits(t *testing.T) {
	t.Parallel()

	// U+1F600 GRINNING FACE encodes as the UTF-16BE surrogate pair
	// D83D DE00. The source must hand back the two raw units
	// unmodified; combining them is binding.Reader's job.
	r, w := io.Pipe()
	s, err := New(r, "utf-16be")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	go func() { _, _ = w.Write([]byte{0xD8, 0x3D, 0xDE, 0x00}) }()

	high, err := s.Read(-1)
	if err != nil || high != 0xD83D {
		t.Fatalf("Read() = %#x, %v, want 0xD83D", high, err)
	}
	low, err := s.Read(-1)
	if err != nil || low != 0xDE00 {
		t.Fatalf("Read() = %#x, %v, want 0xDE00", low, err)
	}
}

func TestSource_UnknownEncoding(t *testing.T) {
	t.Parallel()

	r, _ := io.Pipe()
	if _, err := New(r, "bogus-9000"); err == nil {
		t.Fatal("New() with unknown encoding should fail")
	}
}

func TestSource_Windows1252NonTrivialMapping(t *testing.T) {
	t.Parallel()

	// 0x80 is the Euro sign in Windows-1252 but U+0080 in Latin-1;
	// verifies the charmap decoder is actually wired in.
	r, w := io.Pipe()
	s, err := New(r, "windows-1252")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	go func() { _, _ = w.Write([]byte{0x80}) }()

	cp, err := s.Read(-1)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if cp != '€' {
		t.Fatalf("Read() = %#x, want U+20AC", cp)
	}
}
