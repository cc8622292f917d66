package xdriver

import (
	"testing"

	"github.com/jezek/xgb/xproto"

	"github.com/tecla-dev/tecla/keyboard"
)

func TestTranslateKeypadNumLock(t *testing.T) {
	km := &KMap{
		minKeycode:  80,
		count:       1,
		stride:      4,
		keysyms:     []xproto.Keysym{0xff95, 0xffb7, 0, 0}, // KP_Home, KP_7
		numLockMask: xproto.KeyButMaskMod2,
	}
	s := &keyboardSource{kmap: km}

	rows := []struct {
		state uint16
		code  keyboard.KeyCode
	}{
		// numlock off: the navigation keysym, surfaced as a bare VK
		{0, keyboard.FromVK(0xff95)},
		// numlock on: the shifted keypad level, the digit
		{xproto.KeyButMaskMod2, keyboard.FromChar('7')},
		// shift undoes numlock on keypad keys
		{xproto.KeyButMaskMod2 | xproto.KeyButMaskShift, keyboard.FromVK(0xff95)},
	}
	for _, r := range rows {
		if got := s.translate(80, r.state); got != r.code {
			t.Fatalf("translate(80,%#x)=%+v, expected %+v", r.state, got, r.code)
		}
	}
}

func TestTranslateNumLockLeavesPlainKeys(t *testing.T) {
	km := &KMap{
		minKeycode:  8,
		count:       1,
		stride:      4,
		keysyms:     []xproto.Keysym{'a', 'A', 0, 0},
		numLockMask: xproto.KeyButMaskMod2,
	}
	s := &keyboardSource{kmap: km}
	if got := s.translate(8, xproto.KeyButMaskMod2); got.Char != "a" {
		t.Fatalf("translate=%+v", got)
	}
}
