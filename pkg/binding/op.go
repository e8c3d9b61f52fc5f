// ABOUTME: Op is the tagged sum bound values resolve to: Macro, Reference, or Widget, modeling jline3's Binding marker interface.
// ABOUTME: pkg/keymap.KeyMap[T] and Reader stay generic over T; Op is simply the T this module's own callers choose to instantiate them with.

package binding

type opKind int

const (
	opMacro opKind = iota
	opReference
	opWidget
)

// Op is the value a key sequence resolves to: replay text, a named
// action to look up elsewhere, or a callback to invoke directly.
type Op struct {
	kind      opKind
	text      string
	reference string
	widget    func()
}

// Macro builds an Op that replays text as if it had been typed.
func Macro(text string) Op { return Op{kind: opMacro, text: text} }

// Reference builds an Op naming an action the application resolves by
// name (e.g. against a widget registry).
func Reference(name string) Op { return Op{kind: opReference, reference: name} }

// Widget builds an Op that invokes fn directly.
func Widget(fn func()) Op { return Op{kind: opWidget, widget: fn} }

// Kind reports which variant op is.
func (op Op) Kind() string {
	switch op.kind {
	case opMacro:
		return "macro"
	case opReference:
		return "reference"
	case opWidget:
		return "widget"
	default:
		return "unknown"
	}
}

// MacroText returns op's replay text, if op is a Macro.
func (op Op) MacroText() (string, bool) {
	if op.kind != opMacro {
		return "", false
	}
	return op.text, true
}

// ReferenceName returns op's action name, if op is a Reference.
func (op Op) ReferenceName() (string, bool) {
	if op.kind != opReference {
		return "", false
	}
	return op.reference, true
}

// WidgetFunc returns op's callback, if op is a Widget.
func (op Op) WidgetFunc() (func(), bool) {
	if op.kind != opWidget {
		return nil, false
	}
	return op.widget, true
}
