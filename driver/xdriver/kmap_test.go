package xdriver

import (
	"testing"

	"github.com/jezek/xgb/xproto"
)

func TestKeysymGroup(t *testing.T) {
	pairs := []struct {
		in1, in2   xproto.Keysym
		out1, out2 xproto.Keysym
	}{
		{'a', 'A', 'a', 'A'},
		{'1', '!', '1', '!'},
		{'a', noSymbol, 'a', 'A'}, // latin lower completes its pair
		{'Q', noSymbol, 'q', 'Q'},
		{' ', noSymbol, ' ', ' '}, // non-latin repeats
		{0xff0d, noSymbol, 0xff0d, 0xff0d},
	}
	for _, p := range pairs {
		o1, o2 := keysymGroup(p.in1, p.in2)
		if o1 != p.out1 || o2 != p.out2 {
			t.Fatalf("group(%#x,%#x)=(%#x,%#x), expected (%#x,%#x)",
				p.in1, p.in2, o1, o2, p.out1, p.out2)
		}
	}
}

func TestNormalizeKeysyms(t *testing.T) {
	rows := []struct {
		in     []xproto.Keysym
		g1, g2 [2]xproto.Keysym
		ok     bool
	}{
		{[]xproto.Keysym{0, 0, 0, 0}, [2]xproto.Keysym{}, [2]xproto.Keysym{}, false},
		{[]xproto.Keysym{'a', 0, 0, 0},
			[2]xproto.Keysym{'a', 'A'}, [2]xproto.Keysym{'a', 'A'}, true},
		{[]xproto.Keysym{'1', '!', 0, 0},
			[2]xproto.Keysym{'1', '!'}, [2]xproto.Keysym{'1', '!'}, true},
		{[]xproto.Keysym{'a', 'A', 'q', 0},
			[2]xproto.Keysym{'a', 'A'}, [2]xproto.Keysym{'q', 'Q'}, true},
		{[]xproto.Keysym{'a', 'A', 'b', 'B'},
			[2]xproto.Keysym{'a', 'A'}, [2]xproto.Keysym{'b', 'B'}, true},
		// extra groups keep the effective AltGr pair at indices 4,5
		{[]xproto.Keysym{'a', 'A', 'b', 'B', 'c', 'C'},
			[2]xproto.Keysym{'a', 'A'}, [2]xproto.Keysym{'c', 'C'}, true},
	}
	for _, r := range rows {
		g1, g2, ok := normalizeKeysyms(r.in)
		if ok != r.ok || g1 != r.g1 || g2 != r.g2 {
			t.Fatalf("normalize(%#x)=(%#x,%#x,%v), expected (%#x,%#x,%v)",
				r.in, g1, g2, ok, r.g1, r.g2, r.ok)
		}
	}
}

func TestBuildLayout(t *testing.T) {
	altGr := uint16(xproto.KeyButMaskMod5)
	keysyms := []xproto.Keysym{
		'a', 'A', 0, 0, // keycode 8
		'e', 'E', 0x20ac | unicodeKeysymBase, 0, // keycode 9, AltGr euro
		'A', 0, 0, 0, // keycode 10, duplicate with higher keycode
	}
	layout := buildLayout(keysyms, 4, 8, altGr)

	rows := []struct {
		ks    xproto.Keysym
		slot  layoutSlot
		found bool
	}{
		{'a', layoutSlot{8, 0}, true},
		{'e', layoutSlot{9, 0}, true},
		{'E', layoutSlot{9, xproto.KeyButMaskShift}, true},
		{0x20ac | unicodeKeysymBase, layoutSlot{9, altGr}, true},
		{'z', layoutSlot{}, false},
	}
	for _, r := range rows {
		slot, ok := layout[r.ks]
		if ok != r.found || slot != r.slot {
			t.Fatalf("layout[%#x]=(%v,%v), expected (%v,%v)",
				r.ks, slot, ok, r.slot, r.found)
		}
	}

	// 'A' needs shift on keycode 8 but is unshifted on keycode 10; the
	// strictly smaller modifier state wins.
	if slot := layout['A']; slot.state != 0 || slot.keycode != 10 {
		t.Fatalf("layout['A']=%v", slot)
	}
}

func TestKeysymAtFallback(t *testing.T) {
	km := &KMap{
		minKeycode: 8,
		count:      1,
		stride:     4,
		keysyms:    []xproto.Keysym{'a', 'A', 0, 0},
	}
	rows := []struct {
		index int
		ks    xproto.Keysym
	}{
		{0, 'a'},
		{1, 'A'},
		{2, 'a'}, // empty AltGr slot falls back to the plain group
		{3, 'A'},
	}
	for _, r := range rows {
		if ks := km.KeysymAt(8, r.index); ks != r.ks {
			t.Fatalf("KeysymAt(8,%d)=%#x, expected %#x", r.index, ks, r.ks)
		}
	}
	if ks := km.KeysymAt(20, 0); ks != noSymbol {
		t.Fatalf("out of range keycode: %#x", ks)
	}
}

func TestShiftIndexRoundTrip(t *testing.T) {
	km := &KMap{altGrMask: xproto.KeyButMaskMod5}
	for index := 0; index < 4; index++ {
		if got := km.ShiftToIndex(km.IndexToShift(index)); got != index {
			t.Fatalf("round trip %d: %d", index, got)
		}
	}
	// unrelated modifier bits are ignored
	state := uint16(xproto.KeyButMaskControl | xproto.KeyButMaskShift)
	if got := km.ShiftToIndex(state); got != 1 {
		t.Fatalf("ShiftToIndex(%#x)=%d", state, got)
	}
	// no AltGr on the layout: the group bit never shows up
	km2 := &KMap{}
	if got := km2.ShiftToIndex(uint16(xproto.KeyButMaskMod5)); got != 0 {
		t.Fatalf("ShiftToIndex without altGr: %d", got)
	}
}
