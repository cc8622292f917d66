package keyboard

import (
	"strings"
	"sync"
)

// Modifiers is a set of canonical modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModAltGr
	ModCmd
)

func (m Modifiers) Has(mod Modifiers) bool {
	return m&mod != 0
}

func (m Modifiers) With(mod Modifiers) Modifiers {
	return m | mod
}

func (m Modifiers) Without(mod Modifiers) Modifiers {
	return m &^ mod
}

func (m Modifiers) String() string {
	if m == 0 {
		return "none"
	}
	parts := []string{}
	if m.Has(ModShift) {
		parts = append(parts, "shift")
	}
	if m.Has(ModCtrl) {
		parts = append(parts, "ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "alt")
	}
	if m.Has(ModAltGr) {
		parts = append(parts, "alt_gr")
	}
	if m.Has(ModCmd) {
		parts = append(parts, "cmd")
	}
	return strings.Join(parts, "+")
}

// ModifierFor returns the Modifiers bit for a modifier key (sided variants
// canonicalize first), or 0 for non-modifiers.
func ModifierFor(k Key) Modifiers {
	switch canonicalModifier(k) {
	case KeyShift:
		return ModShift
	case KeyCtrl:
		return ModCtrl
	case KeyAlt:
		return ModAlt
	case KeyAltGr:
		return ModAltGr
	case KeyCmd:
		return ModCmd
	}
	return 0
}

//----------

// modifierTracker stores the set of currently active canonical modifiers
// and the caps-lock toggle. All accesses take the lock; Snapshot gives a
// consistent view for one press/release sequence.
type modifierTracker struct {
	mu   sync.Mutex
	set  Modifiers
	caps bool
}

// update canonicalizes k before insertion/removal and reports whether it
// was a modifier.
func (t *modifierTracker) update(k Key, press bool) bool {
	mod := ModifierFor(k)
	if mod == 0 {
		return false
	}
	t.mu.Lock()
	if press {
		t.set = t.set.With(mod)
	} else {
		t.set = t.set.Without(mod)
	}
	t.mu.Unlock()
	return true
}

func (t *modifierTracker) snapshot() Modifiers {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.set
}

func (t *modifierTracker) toggleCaps() {
	t.mu.Lock()
	t.caps = !t.caps
	t.mu.Unlock()
}

// shiftActive is true when shift is held or caps-lock is toggled on.
func (t *modifierTracker) shiftActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.set.Has(ModShift) || t.caps
}
