package keyboard

import "testing"

func TestModifierFor(t *testing.T) {
	type pair struct {
		key Key
		mod Modifiers
	}
	pairs := []pair{
		{KeyShift, ModShift},
		{KeyShiftL, ModShift},
		{KeyShiftR, ModShift},
		{KeyCtrlL, ModCtrl},
		{KeyAltR, ModAlt},
		{KeyAltGr, ModAltGr},
		{KeyCmdL, ModCmd},
		{KeyEnter, 0},
		{KeyNone, 0},
	}
	for i, p := range pairs {
		if got := ModifierFor(p.key); got != p.mod {
			t.Fatalf("%d: ModifierFor(%v)=%v, want %v", i, p.key, got, p.mod)
		}
	}
}

func TestTrackerCanonicalizes(t *testing.T) {
	tr := &modifierTracker{}
	tr.update(KeyShiftL, true)
	if !tr.snapshot().Has(ModShift) {
		t.Fatal("shift not set")
	}
	// releasing the other side clears the same canonical bit
	tr.update(KeyShiftR, false)
	if tr.snapshot().Has(ModShift) {
		t.Fatal("shift still set")
	}
}

func TestTrackerNonModifier(t *testing.T) {
	tr := &modifierTracker{}
	if tr.update(KeyEnter, true) {
		t.Fatal("enter counted as modifier")
	}
	if tr.snapshot() != 0 {
		t.Fatalf("set %v", tr.snapshot())
	}
}

func TestShiftActive(t *testing.T) {
	tr := &modifierTracker{}
	if tr.shiftActive() {
		t.Fatal("active without shift")
	}
	tr.toggleCaps()
	if !tr.shiftActive() {
		t.Fatal("caps does not activate shift")
	}
	tr.toggleCaps()
	tr.update(KeyShift, true)
	if !tr.shiftActive() {
		t.Fatal("shift press does not activate")
	}
}

func TestModifiersString(t *testing.T) {
	m := Modifiers(0).With(ModCtrl).With(ModShift)
	if s := m.String(); s != "shift+ctrl" {
		t.Fatalf("got %q", s)
	}
	if s := Modifiers(0).String(); s != "none" {
		t.Fatalf("got %q", s)
	}
}
