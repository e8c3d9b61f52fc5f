// ABOUTME: Keybindings parser and loader for this module's own JSON keybinding format.
// ABOUTME: Holds the human-readable action-to-key-name table; internal/keybindings turns it into KeyMap[binding.Op] tries.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// KeyAction names an action a key sequence can resolve to. It is also
// used as the Reference name on the binding.Op the trie stores, so an
// application resolves a fired binding by looking up this string in
// its own widget/command registry.
type KeyAction string

const (
	ActionCursorUp        KeyAction = "cursorUp"
	ActionCursorDown      KeyAction = "cursorDown"
	ActionCursorLeft      KeyAction = "cursorLeft"
	ActionCursorRight     KeyAction = "cursorRight"
	ActionDeleteBack      KeyAction = "deleteBack"
	ActionDeleteForward   KeyAction = "deleteForward"
	ActionDeleteWordLeft  KeyAction = "deleteWordLeft"
	ActionDeleteLine      KeyAction = "deleteLine"
	ActionPaste           KeyAction = "paste"
	ActionOpenEditor      KeyAction = "openEditor"
	ActionAccept          KeyAction = "accept"
	ActionAbort           KeyAction = "abort"
	ActionExit            KeyAction = "exit"
	ActionHistoryPrev     KeyAction = "historyPrev"
	ActionHistoryNext     KeyAction = "historyNext"
	ActionToggleMode      KeyAction = "toggleMode"
	ActionSendMessage     KeyAction = "sendMessage"
	ActionQueueFollowUp   KeyAction = "queueFollowUp"
	ActionFileMention     KeyAction = "fileMention"
	ActionScrollUp        KeyAction = "scrollUp"
	ActionScrollDown      KeyAction = "scrollDown"
	ActionPageUp          KeyAction = "pageUp"
	ActionPageDown        KeyAction = "pageDown"
	ActionHome            KeyAction = "home"
	ActionEnd             KeyAction = "end"
	ActionToggleThinking  KeyAction = "toggleThinking"
	ActionCycleModel      KeyAction = "cycleModel"
	ActionToggleVim       KeyAction = "toggleVim"
	ActionReload          KeyAction = "reload"
)

// Keybindings is the action-to-key-names table a JSON file loads
// into. Multiple key names may resolve to the same action; a single
// key name bound to two actions is a conflict (see
// internal/keybindings.Manager.Conflicts).
type Keybindings struct {
	Bindings map[KeyAction][]string `json:"-"`
}

// RawKeybindings is the JSON wire shape: action name to key names.
type RawKeybindings map[string][]string

// NewKeybindings returns a Keybindings populated with this module's
// own defaults.
func NewKeybindings() *Keybindings {
	kb := &Keybindings{Bindings: make(map[KeyAction][]string)}
	kb.setDefaultBindings()
	return kb
}

// setDefaultBindings installs the built-in emacs-flavored defaults,
// the same vocabulary Default() in internal/keybindings compiles into
// the global trie.
func (kb *Keybindings) setDefaultBindings() {
	kb.Bindings[ActionCursorUp] = []string{"up", "ctrl+p"}
	kb.Bindings[ActionCursorDown] = []string{"down", "ctrl+n"}
	kb.Bindings[ActionCursorLeft] = []string{"left", "ctrl+b"}
	kb.Bindings[ActionCursorRight] = []string{"right", "ctrl+f"}
	kb.Bindings[ActionDeleteBack] = []string{"backspace"}
	kb.Bindings[ActionDeleteForward] = []string{"delete"}
	kb.Bindings[ActionDeleteWordLeft] = []string{"ctrl+w"}
	kb.Bindings[ActionDeleteLine] = []string{"ctrl+k"}
	kb.Bindings[ActionPaste] = []string{"ctrl+v"}
	kb.Bindings[ActionOpenEditor] = []string{"ctrl+g"}
	kb.Bindings[ActionAccept] = []string{"enter"}
	kb.Bindings[ActionAbort] = []string{"ctrl+c"}
	kb.Bindings[ActionExit] = []string{"ctrl+d"}
	kb.Bindings[ActionHistoryPrev] = []string{"alt+up"}
	kb.Bindings[ActionHistoryNext] = []string{"alt+down"}
	kb.Bindings[ActionToggleMode] = []string{"shift+tab"}
	kb.Bindings[ActionSendMessage] = []string{"enter"}
	kb.Bindings[ActionQueueFollowUp] = []string{"alt+enter"}
	kb.Bindings[ActionFileMention] = []string{"@"}
	kb.Bindings[ActionScrollUp] = []string{"pgup"}
	kb.Bindings[ActionScrollDown] = []string{"pgdown"}
	kb.Bindings[ActionPageUp] = []string{"shift+pgup"}
	kb.Bindings[ActionPageDown] = []string{"shift+pgdown"}
	kb.Bindings[ActionHome] = []string{"home"}
	kb.Bindings[ActionEnd] = []string{"end"}
	kb.Bindings[ActionToggleThinking] = []string{"alt+t"}
	kb.Bindings[ActionCycleModel] = []string{"shift+ctrl+p"}
	kb.Bindings[ActionToggleVim] = []string{"ctrl+@"}
	kb.Bindings[ActionReload] = []string{"ctrl+r"}
}

// LoadKeybindings loads an override table from path. Unlike
// NewKeybindings, the result holds only the actions path's JSON
// names: it is meant to be merged over, or layered as a local
// override on top of, a base table rather than used standalone.
func LoadKeybindings(path string) (*Keybindings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw RawKeybindings
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	kb := &Keybindings{Bindings: make(map[KeyAction][]string, len(raw))}
	for actionName, keys := range raw {
		kb.Bindings[KeyAction(actionName)] = keys
	}
	return kb, nil
}

// SaveKeybindings writes kb's table to path as JSON.
func (kb *Keybindings) SaveKeybindings(path string) error {
	raw := make(RawKeybindings, len(kb.Bindings))
	for action, keys := range kb.Bindings {
		raw[string(action)] = keys
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// GetBindings returns the key names bound to action.
func (kb *Keybindings) GetBindings(action KeyAction) []string {
	if kb == nil {
		return nil
	}
	return kb.Bindings[action]
}

// GlobalKeybindingsFile returns the path to the user-wide keybindings
// override file.
func GlobalKeybindingsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".termio", "keybindings.json")
}

// LocalKeybindingsFile returns the path to a project-local keybindings
// override file.
func LocalKeybindingsFile(projectRoot string) string {
	return filepath.Join(projectRoot, ".termio", "keybindings.json")
}

// ExportTemplate renders kb's table as an indented JSON document, for
// `--export-keybindings`-style tooling.
func (kb *Keybindings) ExportTemplate() (string, error) {
	raw := make(RawKeybindings, len(kb.Bindings))
	for action, keys := range kb.Bindings {
		raw[string(action)] = keys
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
