// ABOUTME: KeyMap is a trie from code-point sequences to bound values of an opaque type T, with Unicode and no-match catch-alls and an ambiguity timeout.
// ABOUTME: GetBound implements longest-prefix matching, reporting ambiguity (a buffer that is a proper prefix of a longer binding) via a -1 remaining count.

package keymap

// KeymapLength is the exclusive upper bound of the code-point range a
// KeyMap's trie is keyed over; code points at or above it always route
// through the Unicode fallback rather than the trie.
const KeymapLength = 128

// KeyMap is a trie keyed by code-point sequences. The zero value is
// not usable; construct with New.
type KeyMap[T any] struct {
	root             *node[T]
	ambiguousTimeout int

	unicode    T
	hasUnicode bool

	nomatch    T
	hasNomatch bool
}

type node[T any] struct {
	children map[rune]*node[T]
	value    T
	bound    bool
}

func newNode[T any]() *node[T] {
	return &node[T]{children: make(map[rune]*node[T])}
}

// New returns an empty KeyMap with no ambiguity timeout and no
// fallbacks configured.
func New[T any]() *KeyMap[T] {
	return &KeyMap[T]{root: newNode[T]()}
}

// Bind associates seq with value, overwriting any existing binding
// for the exact same sequence.
func (k *KeyMap[T]) Bind(seq []rune, value T) {
	n := k.root
	for _, r := range seq {
		child, ok := n.children[r]
		if !ok {
			child = newNode[T]()
			n.children[r] = child
		}
		n = child
	}
	n.value = value
	n.bound = true
}

// BindString is Bind over a string's code points.
func (k *KeyMap[T]) BindString(seq string, value T) {
	k.Bind([]rune(seq), value)
}

// GetBound performs a longest-prefix match of buf against the trie.
// It returns the bound value (if any), whether a value was found, and
// remaining: the count of trailing code points in buf not consumed by
// the match, or -1 if buf is itself a proper prefix of some longer
// binding — ambiguous, and the caller should wait for more input
// before trusting value.
func (k *KeyMap[T]) GetBound(buf []rune) (value T, ok bool, remaining int) {
	n := k.root
	bestLen := 0
	var bestValue T
	bestOK := false

	consumed := 0
	for _, r := range buf {
		if r >= KeymapLength {
			break
		}
		child, found := n.children[r]
		if !found {
			break
		}
		n = child
		consumed++
		if n.bound {
			bestValue, bestOK, bestLen = n.value, true, consumed
		}
	}

	if consumed == len(buf) && len(n.children) > 0 {
		return bestValue, bestOK, -1
	}
	return bestValue, bestOK, len(buf) - bestLen
}

// SetUnicode installs the fallback value for code points ≥ 128.
func (k *KeyMap[T]) SetUnicode(value T) {
	k.unicode, k.hasUnicode = value, true
}

// GetUnicode returns the Unicode fallback, if configured.
func (k *KeyMap[T]) GetUnicode() (value T, ok bool) { return k.unicode, k.hasUnicode }

// SetNomatch installs the fallback value for unmatched code points < 128.
func (k *KeyMap[T]) SetNomatch(value T) {
	k.nomatch, k.hasNomatch = value, true
}

// GetNomatch returns the no-match fallback, if configured.
func (k *KeyMap[T]) GetNomatch() (value T, ok bool) { return k.nomatch, k.hasNomatch }

// SetAmbiguousTimeout sets how long, in milliseconds, the binding
// reader should wait for disambiguating input before emitting an
// exact match that is also a proper prefix of a longer binding. Zero
// or negative means emit immediately, never waiting.
func (k *KeyMap[T]) SetAmbiguousTimeout(ms int) { k.ambiguousTimeout = ms }

// GetAmbiguousTimeout returns the configured ambiguity timeout.
func (k *KeyMap[T]) GetAmbiguousTimeout() int { return k.ambiguousTimeout }
