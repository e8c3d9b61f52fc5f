// ABOUTME: Keybindings manager building KeyMap[binding.Op] tries from the global defaults and project-local overrides.
// ABOUTME: Merges global and local configs, detects name-level conflicts, supports hot-reload.

package keybindings

import (
	"fmt"
	"strings"

	"github.com/mauromedda/termio/internal/config"
	"github.com/mauromedda/termio/pkg/binding"
	"github.com/mauromedda/termio/pkg/keymap"
	"github.com/mauromedda/termio/pkg/tui/key"
)

// ConflictInfo describes a binding conflict where multiple actions
// share the same configured key name.
type ConflictInfo struct {
	Key     string
	Actions []config.KeyAction
}

// Manager owns the global ("primary") and project-local tries that
// pkg/binding.ReadBinding reads against, plus the human-readable
// table they were compiled from (for Conflicts/FormatAll/export).
type Manager struct {
	bindings *config.Keybindings
	primary  *keymap.KeyMap[binding.Op]
	local    *keymap.KeyMap[binding.Op]
}

// bracketStart and bracketEnd are the xterm bracketed-paste markers.
// A terminal with bracketed paste enabled wraps pasted text between
// these so a reader can tell a paste apart from typed input; bound
// here as ordinary Reference sequences rather than a special-cased
// skip, since the trie already knows how to match exact sequences.
const (
	bracketStart = "\x1b[200~"
	bracketEnd   = "\x1b[201~"
)

// Default returns the global KeyMap built from this module's built-in
// defaults, with no project-local overlay.
func Default() *keymap.KeyMap[binding.Op] {
	return buildPrimaryTrie(config.NewKeybindings())
}

// buildPrimaryTrie is buildTrie plus the bracketed-paste markers every
// global trie carries regardless of what the config file says; local
// override tries stay sparse and don't get them.
func buildPrimaryTrie(kb *config.Keybindings) *keymap.KeyMap[binding.Op] {
	k := buildTrie(kb)
	k.BindString(bracketStart, binding.Reference("paste-start"))
	k.BindString(bracketEnd, binding.Reference("paste-end"))
	return k
}

// New builds a Manager from the built-in defaults, a global override
// file, and a project-local override file. Local bindings take
// precedence over global ones at read time via pkg/binding.Reader's
// own local-map-precedence rule; this constructor keeps the two
// tables separate rather than pre-merging them, so that rule has
// something real to operate on. Missing files are ignored.
func New(globalPath, localPath string) *Manager {
	base := config.NewKeybindings()
	if globalPath != "" {
		if g, err := config.LoadKeybindings(globalPath); err == nil {
			mergeBindings(base, g)
		}
	}

	m := &Manager{bindings: base, primary: buildPrimaryTrie(base)}
	m.loadLocal(localPath)
	return m
}

// NewFromBindings builds a Manager directly from an existing
// Keybindings table, with no local overlay.
func NewFromBindings(kb *config.Keybindings) *Manager {
	return &Manager{bindings: kb, primary: buildPrimaryTrie(kb)}
}

// Primary returns the global trie pkg/binding.ReadBinding should pass
// as its primary argument.
func (m *Manager) Primary() *keymap.KeyMap[binding.Op] { return m.primary }

// Local returns the project-local trie pkg/binding.ReadBinding should
// pass as its local argument, or nil if none was loaded.
func (m *Manager) Local() *keymap.KeyMap[binding.Op] { return m.local }

// Conflicts detects key names bound to more than one action in the
// merged global table.
func (m *Manager) Conflicts() []ConflictInfo {
	keyActions := make(map[string][]config.KeyAction)
	for action, keys := range m.bindings.Bindings {
		for _, k := range keys {
			keyActions[k] = append(keyActions[k], action)
		}
	}

	var conflicts []ConflictInfo
	for k, actions := range keyActions {
		if len(actions) > 1 {
			conflicts = append(conflicts, ConflictInfo{Key: k, Actions: actions})
		}
	}
	return conflicts
}

// Reload re-reads the global and local override files and rebuilds
// both tries.
func (m *Manager) Reload(globalPath, localPath string) {
	base := config.NewKeybindings()
	if globalPath != "" {
		if g, err := config.LoadKeybindings(globalPath); err == nil {
			mergeBindings(base, g)
		}
	}

	m.bindings = base
	m.primary = buildPrimaryTrie(base)
	m.local = nil
	m.loadLocal(localPath)
}

func (m *Manager) loadLocal(localPath string) {
	if localPath == "" {
		return
	}
	overrides, err := config.LoadKeybindings(localPath)
	if err != nil {
		return
	}
	m.local = buildTrie(overrides)
}

// FormatAll returns a formatted table of all keybindings for
// /hotkeys-style display.
func (m *Manager) FormatAll() string {
	var b strings.Builder
	b.WriteString("Keybindings:\n\n")

	categories := []struct {
		name    string
		actions []config.KeyAction
	}{
		{"Navigation", []config.KeyAction{
			config.ActionCursorUp, config.ActionCursorDown,
			config.ActionCursorLeft, config.ActionCursorRight,
			config.ActionHome, config.ActionEnd,
		}},
		{"Editing", []config.KeyAction{
			config.ActionDeleteBack, config.ActionDeleteForward,
			config.ActionDeleteWordLeft, config.ActionDeleteLine,
			config.ActionPaste, config.ActionOpenEditor,
		}},
		{"Messages", []config.KeyAction{
			config.ActionSendMessage, config.ActionQueueFollowUp,
			config.ActionHistoryPrev, config.ActionHistoryNext,
			config.ActionFileMention,
		}},
		{"Scrolling", []config.KeyAction{
			config.ActionScrollUp, config.ActionScrollDown,
			config.ActionPageUp, config.ActionPageDown,
		}},
		{"Mode & Control", []config.KeyAction{
			config.ActionToggleMode, config.ActionAbort, config.ActionExit,
			config.ActionReload, config.ActionCycleModel,
			config.ActionToggleThinking, config.ActionToggleVim,
		}},
	}

	for _, cat := range categories {
		fmt.Fprintf(&b, "## %s\n", cat.name)
		for _, action := range cat.actions {
			keys := m.bindings.GetBindings(action)
			if len(keys) == 0 {
				continue
			}
			fmt.Fprintf(&b, "  %-20s %s\n", strings.Join(keys, ", "), action)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// mergeBindings overrides base's bindings with overrides' where
// present, action by action.
func mergeBindings(base, overrides *config.Keybindings) {
	for action, keys := range overrides.Bindings {
		base.Bindings[action] = keys
	}
}

// buildTrie resolves every key name in kb to its wire sequence via
// pkg/tui/key.SequenceForName and binds it to a Reference(action) op.
// Names SequenceForName cannot resolve are skipped rather than
// treated as a load error: a config file naming a modifier
// combination this terminal's escape-sequence vocabulary doesn't
// cover shouldn't take the whole table down with it.
func buildTrie(kb *config.Keybindings) *keymap.KeyMap[binding.Op] {
	k := keymap.New[binding.Op]()
	for action, names := range kb.Bindings {
		for _, name := range names {
			seq, ok := key.SequenceForName(name)
			if !ok || len(seq) == 0 {
				continue
			}
			k.Bind(seq, binding.Reference(string(action)))
		}
	}
	return k
}
