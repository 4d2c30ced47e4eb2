package editor

import "strings"

// KeyName identifies a key the editor understands.
type KeyName string

const (
	KeyRunes     KeyName = "runes"
	KeyTab       KeyName = "tab"
	KeyEnter     KeyName = "enter"
	KeySpace     KeyName = "space"
	KeyBackspace KeyName = "backspace"
	KeyDelete    KeyName = "delete"
	KeyLeft      KeyName = "left"
	KeyRight     KeyName = "right"
	KeyUp        KeyName = "up"
	KeyDown      KeyName = "down"
	KeyHome      KeyName = "home"
	KeyEnd       KeyName = "end"
	KeyWordLeft  KeyName = "alt+left"
	KeyWordRight KeyName = "alt+right"

	KeyShift KeyName = "shift"
	KeyCtrl  KeyName = "ctrl"
	KeyAlt   KeyName = "alt"
	KeyMeta  KeyName = "meta"
)

// Key is one key press. Runes carries the text for KeyRunes.
type Key struct {
	Name  KeyName
	Runes []rune
}

// IsModifier reports whether the key is a bare modifier, which never
// affects a suggestion.
func (k Key) IsModifier() bool {
	switch k.Name {
	case KeyShift, KeyCtrl, KeyAlt, KeyMeta:
		return true
	}
	return false
}

// Runes builds a text key.
func Runes(s string) Key {
	return Key{Name: KeyRunes, Runes: []rune(s)}
}

// Named builds a non-text key.
func Named(name KeyName) Key {
	return Key{Name: name}
}

var keyAliases = map[string]KeyName{
	"tab":        KeyTab,
	"enter":      KeyEnter,
	" ":          KeySpace,
	"space":      KeySpace,
	"backspace":  KeyBackspace,
	"ctrl+h":     KeyBackspace,
	"delete":     KeyDelete,
	"ctrl+d":     KeyDelete,
	"left":       KeyLeft,
	"right":      KeyRight,
	"up":         KeyUp,
	"down":       KeyDown,
	"home":       KeyHome,
	"ctrl+a":     KeyHome,
	"end":        KeyEnd,
	"ctrl+e":     KeyEnd,
	"alt+left":   KeyWordLeft,
	"ctrl+left":  KeyWordLeft,
	"alt+b":      KeyWordLeft,
	"alt+right":  KeyWordRight,
	"ctrl+right": KeyWordRight,
	"alt+f":      KeyWordRight,
}

// ParseKey maps a terminal key description (as produced by bubbletea's
// KeyMsg.String) and its runes onto an editor key. Unknown combinations come
// back under their own name and are ignored by HandleKey. Alt chords are
// never text.
func ParseKey(name string, runes []rune) Key {
	if alias, ok := keyAliases[name]; ok {
		return Key{Name: alias}
	}
	if len(runes) > 0 && !strings.HasPrefix(name, "alt+") {
		return Key{Name: KeyRunes, Runes: runes}
	}
	return Key{Name: KeyName(name)}
}
