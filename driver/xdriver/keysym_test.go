package xdriver

import (
	"testing"

	"github.com/jezek/xgb/xproto"

	"github.com/tecla-dev/tecla/keyboard"
)

func TestCharKeysymRoundTrip(t *testing.T) {
	pairs := []struct {
		r  rune
		ks xproto.Keysym
	}{
		{'a', 0x61},
		{' ', 0x20},
		{'é', 0xe9}, // latin-1 maps directly
		{'€', unicodeKeysymBase | 0x20ac},
		{'ã', 0xe3},
		{'世', unicodeKeysymBase | 0x4e16},
	}
	for _, p := range pairs {
		if ks := charToKeysym(p.r); ks != p.ks {
			t.Fatalf("charToKeysym(%q)=%#x, expected %#x", p.r, ks, p.ks)
		}
		if r := keysymToRune(p.ks); r != p.r {
			t.Fatalf("keysymToRune(%#x)=%q, expected %q", p.ks, r, p.r)
		}
	}

	// non-character keysyms resolve to no rune
	for _, ks := range []xproto.Keysym{noSymbol, xkBackSpace, 0xfe53} {
		if r := keysymToRune(ks); r != 0 {
			t.Fatalf("keysymToRune(%#x)=%q", ks, r)
		}
	}
}

func TestKeyKeysymTables(t *testing.T) {
	// every observable keysym maps back to a key that emits it
	for ks, key := range keysymKeys {
		ks2, ok := keyKeysyms[key]
		if !ok {
			t.Fatalf("key %v observed from %#x but not emittable", key, ks)
		}
		if ks2 != ks {
			t.Fatalf("key %v: emit %#x, observe %#x", key, ks2, ks)
		}
	}

	// generic modifiers emit through their left-side keysym
	pairs := []struct {
		generic, sided keyboard.Key
	}{
		{keyboard.KeyAlt, keyboard.KeyAltL},
		{keyboard.KeyShift, keyboard.KeyShiftL},
		{keyboard.KeyCtrl, keyboard.KeyCtrlL},
		{keyboard.KeyCmd, keyboard.KeyCmdL},
	}
	for _, p := range pairs {
		if keyKeysyms[p.generic] != keyKeysyms[p.sided] {
			t.Fatalf("%v does not alias %v", p.generic, p.sided)
		}
		if keysymKeys[keyKeysyms[p.generic]] != p.sided {
			t.Fatalf("%#x observes as %v", keyKeysyms[p.generic],
				keysymKeys[keyKeysyms[p.generic]])
		}
	}
}

func TestDeadKeysymTables(t *testing.T) {
	for comb, ks := range deadKeysyms {
		if keysymDead[ks] != comb {
			t.Fatalf("dead keysym %#x does not invert to %#x", ks, comb)
		}
		char, ok := deadChars[comb]
		if !ok {
			t.Fatalf("combining %#x has no standalone character", comb)
		}
		// the standalone character must build the same dead KeyCode the
		// observation side produces
		code, err := keyboard.FromDead(char)
		if err != nil {
			t.Fatalf("FromDead(%q): %v", char, err)
		}
		if code.Combining != comb {
			t.Fatalf("FromDead(%q).Combining=%#x, expected %#x",
				char, code.Combining, comb)
		}
	}
}

func TestIsKeypad(t *testing.T) {
	rows := []struct {
		ks xproto.Keysym
		in bool
	}{
		{0xffb0, true}, // KP_0
		{0xff8d, true}, // KP_Enter
		{0xffaa, true}, // KP_Multiply
		{0xff0d, false},
		{'0', false},
	}
	for _, r := range rows {
		if got := isKeypad(r.ks); got != r.in {
			t.Fatalf("isKeypad(%#x)=%v", r.ks, got)
		}
	}
}
