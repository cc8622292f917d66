//go:build linux

package uidriver

import (
	"testing"

	"github.com/tecla-dev/tecla/keyboard"
)

// A trimmed dumpkeys --full-table --keys-only dump; column order is plain,
// shift, altgr, shift+altgr.
const sampleTable = `keymaps 0-127
keycode   1 = Escape          Escape          Escape          Escape
keycode   2 = one             exclam          one             one
keycode  14 = Delete          Delete          Delete          Delete
keycode  16 = q               Q               at              at
keycode  26 = bracketleft     braceleft       bracketleft     bracketleft
keycode  28 = Return          Return          Return          Return
keycode  30 = a               A               a               A
keycode  42 = Shift
keycode  57 = space           space           space           space
keycode  86 = less            greater         bar             bar
keycode 100 = AltGr
keycode 111 = Remove          Remove          Remove          Remove
keycode 200 =
`

func TestParseLayoutRows(t *testing.T) {
	l := parseLayout(sampleTable)

	rows := []struct {
		code  uint16
		mods  keyboard.Modifiers
		found bool
		code2 keyboard.KeyCode
	}{
		{1, 0, true, keyboard.KeyEsc.Code()},
		{2, 0, true, keyboard.KeyCode{Char: "1", VK: 2}},
		{2, keyboard.ModShift, true, keyboard.KeyCode{Char: "!", VK: 2}},
		{14, 0, true, keyboard.KeyBackspace.Code()}, // console Delete
		{16, keyboard.ModAltGr, true, keyboard.KeyCode{Char: "@", VK: 16}},
		{28, 0, true, keyboard.KeyEnter.Code()},
		{30, keyboard.ModShift, true, keyboard.KeyCode{Char: "A", VK: 30}},
		{42, 0, true, keyboard.KeyShift.Code()},
		{42, keyboard.ModShift, true, keyboard.KeyShift.Code()}, // column falls back to plain
		{86, keyboard.ModShift | keyboard.ModAltGr, true, keyboard.KeyCode{Char: "|", VK: 86}},
		{100, 0, true, keyboard.KeyAltGr.Code()},
		{111, 0, true, keyboard.KeyDelete.Code()},
		{200, 0, false, keyboard.KeyCode{}},
		{250, 0, false, keyboard.KeyCode{}},
	}
	for _, r := range rows {
		code, ok := l.ForCode(r.code, r.mods)
		if ok != r.found {
			t.Fatalf("ForCode(%d,%v)=%v, expected %v", r.code, r.mods, ok, r.found)
		}
		if ok && code != r.code2 {
			t.Fatalf("ForCode(%d,%v)=%v, expected %v", r.code, r.mods, code, r.code2)
		}
	}
}

func TestParseLayoutChars(t *testing.T) {
	l := parseLayout(sampleTable)

	rows := []struct {
		r     rune
		slot  charSlot
		found bool
	}{
		{'1', charSlot{code: 2}, true},
		{'!', charSlot{code: 2, shift: true}, true},
		{'q', charSlot{code: 16}, true},
		{'Q', charSlot{code: 16, shift: true}, true},
		{'@', charSlot{code: 16, altGr: true}, true},
		{'A', charSlot{code: 30, shift: true}, true},
		{'|', charSlot{code: 86, altGr: true}, true},
		{'{', charSlot{code: 26, shift: true}, true},
		{'ß', charSlot{}, false},
	}
	for _, r := range rows {
		slot, ok := l.ForChar(r.r)
		if ok != r.found || slot != r.slot {
			t.Fatalf("ForChar(%q)=(%v,%v), expected (%v,%v)",
				r.r, slot, ok, r.slot, r.found)
		}
	}

	// duplicate columns keep the first, lowest-modifier slot
	if slot, _ := l.ForChar('['); slot != (charSlot{code: 26}) {
		t.Fatalf("ForChar('[')=%v", slot)
	}
	if slot, _ := l.ForChar(' '); slot != (charSlot{code: 57}) {
		t.Fatalf("ForChar(' ')=%v", slot)
	}
}
