// ABOUTME: Tests for KeyMap's longest-prefix matching, ambiguity reporting, and fallback accessors.

package keymap

import "testing"

func TestExactMatchNoAmbiguity(t *testing.T) {
	k := New[string]()
	k.BindString("\x1b[A", "UP")

	value, ok, remaining := k.GetBound([]rune("\x1b[A"))
	if !ok || value != "UP" || remaining != 0 {
		t.Fatalf("GetBound = (%q, %v, %d), want (UP, true, 0)", value, ok, remaining)
	}
}

func TestAmbiguousExactMatchWithLongerBinding(t *testing.T) {
	k := New[string]()
	k.BindString("a", "A")
	k.BindString("ab", "AB")

	value, ok, remaining := k.GetBound([]rune("a"))
	if !ok || value != "A" || remaining != -1 {
		t.Fatalf("GetBound = (%q, %v, %d), want (A, true, -1)", value, ok, remaining)
	}
}

func TestPurePrefixNoMatchYet(t *testing.T) {
	k := New[string]()
	k.BindString("ab", "AB")

	value, ok, remaining := k.GetBound([]rune("a"))
	if ok || remaining != -1 {
		t.Fatalf("GetBound = (%q, %v, %d), want (_, false, -1)", value, ok, remaining)
	}
}

func TestMatchedWithTrailingChars(t *testing.T) {
	k := New[string]()
	k.BindString("a", "A")

	value, ok, remaining := k.GetBound([]rune("az"))
	if !ok || value != "A" || remaining != 1 {
		t.Fatalf("GetBound = (%q, %v, %d), want (A, true, 1)", value, ok, remaining)
	}
}

func TestNoMatchAnywhere(t *testing.T) {
	k := New[string]()
	k.BindString("ab", "AB")

	value, ok, remaining := k.GetBound([]rune("z"))
	if ok || remaining != 1 {
		t.Fatalf("GetBound = (%q, %v, %d), want (_, false, 1)", value, ok, remaining)
	}
}

func TestEmptyBufferOnNonEmptyTrieIsAmbiguous(t *testing.T) {
	k := New[string]()
	k.BindString("a", "A")

	_, ok, remaining := k.GetBound(nil)
	if ok || remaining != -1 {
		t.Fatalf("GetBound(nil) = (_, %v, %d), want (_, false, -1)", ok, remaining)
	}
}

func TestUnicodeAndNomatchFallbacks(t *testing.T) {
	k := New[string]()
	k.SetUnicode("UNI")
	k.SetNomatch("NOMATCH")

	if v, ok := k.GetUnicode(); !ok || v != "UNI" {
		t.Fatalf("GetUnicode() = (%q, %v), want (UNI, true)", v, ok)
	}
	if v, ok := k.GetNomatch(); !ok || v != "NOMATCH" {
		t.Fatalf("GetNomatch() = (%q, %v), want (NOMATCH, true)", v, ok)
	}
}

func TestAmbiguousTimeoutRoundTrip(t *testing.T) {
	k := New[string]()
	k.SetAmbiguousTimeout(50)
	if got := k.GetAmbiguousTimeout(); got != 50 {
		t.Fatalf("GetAmbiguousTimeout() = %d, want 50", got)
	}
}

func TestRebindOverwrites(t *testing.T) {
	k := New[string]()
	k.BindString("a", "FIRST")
	k.BindString("a", "SECOND")

	value, ok, remaining := k.GetBound([]rune("a"))
	if !ok || value != "SECOND" || remaining != 0 {
		t.Fatalf("GetBound = (%q, %v, %d), want (SECOND, true, 0)", value, ok, remaining)
	}
}
