package keyboard

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/tecla-dev/tecla"
)

// HotKey is a combination of keys acting as a hotkey: it tracks which of
// its required keys are currently pressed and fires the activation callback
// exactly once when the last one goes down. Releasing any required key arms
// it again. State is unguarded: the listener serializes all callback
// invocations, including notifier-echoed ones.
type HotKey struct {
	required   map[KeyCode]struct{}
	pressed    map[KeyCode]struct{}
	onActivate func()
}

func NewHotKey(keys []KeyCode, onActivate func()) *HotKey {
	required := make(map[KeyCode]struct{}, len(keys))
	for _, k := range keys {
		required[k] = struct{}{}
	}
	return &HotKey{
		required:   required,
		pressed:    map[KeyCode]struct{}{},
		onActivate: onActivate,
	}
}

// Press records a required key going down. A duplicate press of an already
// recorded key does not re-fire.
func (h *HotKey) Press(code KeyCode) {
	if _, req := h.required[code]; !req {
		return
	}
	if _, done := h.pressed[code]; done {
		return
	}
	h.pressed[code] = struct{}{}
	if len(h.pressed) == len(h.required) {
		h.onActivate()
	}
}

// Release removes a key from the pressed set, allowing a later full
// re-press to fire again.
func (h *HotKey) Release(code KeyCode) {
	delete(h.pressed, code)
}

//----------

// ParseHotKey parses a key combination string: key identifiers separated by
// '+'. Identifiers are single characters ("a", case-insensitive), symbolic
// names in angle brackets ("<ctrl>", "<f1>") or numeric virtual key codes
// in angle brackets ("<65>"). Duplicate parts are invalid.
func ParseHotKey(spec string) ([]KeyCode, error) {
	if spec == "" {
		return nil, errors.New("keyboard: empty hotkey")
	}
	parts := strings.Split(spec, "+")
	codes := make([]KeyCode, 0, len(parts))
	seen := map[KeyCode]struct{}{}
	for _, p := range parts {
		code, err := parseHotKeyPart(p)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[code]; dup {
			return nil, errors.Errorf("keyboard: duplicate hotkey part %q in %q", p, spec)
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes, nil
}

func parseHotKeyPart(p string) (KeyCode, error) {
	if strings.HasPrefix(p, "<") && strings.HasSuffix(p, ">") && len(p) > 2 {
		name := strings.ToLower(p[1 : len(p)-1])
		if k := KeyByName(name); k != KeyNone {
			// modifiers canonicalize so sided events match
			if mod := canonicalModifier(k); mod != KeyNone {
				k = mod
			}
			return KeyCode{Key: k}, nil
		}
		if vk, err := strconv.Atoi(name); err == nil {
			return FromVK(vk), nil
		}
		return KeyCode{}, errors.Errorf("keyboard: unknown key name %q", p)
	}
	runes := []rune(p)
	if len(runes) != 1 {
		return KeyCode{}, errors.Errorf("keyboard: invalid hotkey part %q", p)
	}
	return FromChar(unicode.ToLower(runes[0])), nil
}

// canonicalHotKeyCode folds an observed event code into the form hotkey
// sets are stored in: generic modifier keys, lowercased characters, bare
// symbolic keys, or the raw virtual key code.
func canonicalHotKeyCode(code KeyCode) KeyCode {
	if mod := canonicalModifier(code.Key); mod != KeyNone {
		return KeyCode{Key: mod}
	}
	if code.Char != "" && !code.IsDead {
		return KeyCode{Char: strings.ToLower(code.Char)}
	}
	if code.Key != KeyNone {
		return KeyCode{Key: code.Key}
	}
	return KeyCode{VK: code.VK}
}

//----------

// GlobalHotKeys is a keyboard listener firing callbacks for a set of global
// hotkey combinations, keyed by ParseHotKey strings.
type GlobalHotKeys struct {
	*Listener
	hotkeys []*HotKey
}

// NewGlobalHotKeys builds a listener for the given binding map. cfg's
// OnPress/OnRelease are ignored; the remaining fields (Source, Suppress,
// Notifier) configure the underlying listener.
func NewGlobalHotKeys(bindings map[string]func(), cfg ListenerConfig) (*GlobalHotKeys, error) {
	g := &GlobalHotKeys{}
	for spec, fn := range bindings {
		codes, err := ParseHotKey(spec)
		if err != nil {
			return nil, err
		}
		g.hotkeys = append(g.hotkeys, NewHotKey(codes, fn))
	}

	cfg.OnPress = g.onPress
	cfg.OnRelease = g.onRelease
	l, err := NewListener(cfg)
	if err != nil {
		return nil, err
	}
	g.Listener = l
	return g, nil
}

func (g *GlobalHotKeys) onPress(ev Event) (tecla.Action, error) {
	code := canonicalHotKeyCode(ev.Code)
	for _, h := range g.hotkeys {
		h.Press(code)
	}
	return tecla.Continue, nil
}

func (g *GlobalHotKeys) onRelease(ev Event) (tecla.Action, error) {
	code := canonicalHotKeyCode(ev.Code)
	for _, h := range g.hotkeys {
		h.Release(code)
	}
	return tecla.Continue, nil
}
