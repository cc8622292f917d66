package keyboard_test

import (
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/tecla-dev/tecla/driver/drivertest"
	"github.com/tecla-dev/tecla/keyboard"
)

func newController(t *testing.T) (*keyboard.Controller, *drivertest.Keyboard) {
	t.Helper()
	fk := drivertest.NewKeyboard()
	return keyboard.NewController(fk, nil), fk
}

func pressChars(t *testing.T, fk *drivertest.Keyboard) string {
	t.Helper()
	s := ""
	for _, e := range fk.Events() {
		if e.Press {
			s += e.Code.Char
		}
	}
	return s
}

func TestTapEmitsPressRelease(t *testing.T) {
	c, fk := newController(t)
	if err := c.Tap(keyboard.Char('a')); err != nil {
		t.Fatal(err)
	}
	evs := fk.Events()
	if len(evs) != 2 || !evs[0].Press || evs[1].Press {
		t.Fatalf("events: %s", spew.Sdump(evs))
	}
	if evs[0].Code.Char != "a" {
		t.Fatalf("char %q", evs[0].Code.Char)
	}
}

func TestShiftUppercases(t *testing.T) {
	c, fk := newController(t)
	if err := c.Press(keyboard.KeyShift); err != nil {
		t.Fatal(err)
	}
	if err := c.Tap(keyboard.Char('a')); err != nil {
		t.Fatal(err)
	}
	if err := c.Release(keyboard.KeyShift); err != nil {
		t.Fatal(err)
	}
	char := fk.Events()[1] // 0 is the shift press
	if char.Code.Char != "A" {
		t.Fatalf("char %q", char.Code.Char)
	}
	if !char.Mods.Has(keyboard.ModShift) {
		t.Fatalf("mods %v", char.Mods)
	}
	// after release, plain again
	fk.Reset()
	if err := c.Tap(keyboard.Char('a')); err != nil {
		t.Fatal(err)
	}
	if got := fk.Events()[0].Code.Char; got != "a" {
		t.Fatalf("char %q", got)
	}
}

func TestCapsLockUppercases(t *testing.T) {
	c, fk := newController(t)
	if err := c.Tap(keyboard.KeyCapsLock); err != nil {
		t.Fatal(err)
	}
	fk.Reset()
	if err := c.Tap(keyboard.Char('a')); err != nil {
		t.Fatal(err)
	}
	if got := fk.Events()[0].Code.Char; got != "A" {
		t.Fatalf("char %q", got)
	}
	// second toggle turns it off
	if err := c.Tap(keyboard.KeyCapsLock); err != nil {
		t.Fatal(err)
	}
	fk.Reset()
	if err := c.Tap(keyboard.Char('a')); err != nil {
		t.Fatal(err)
	}
	if got := fk.Events()[0].Code.Char; got != "a" {
		t.Fatalf("char %q", got)
	}
}

//----------

func TestDeadKeyJoins(t *testing.T) {
	c, fk := newController(t)
	tilde, err := keyboard.FromDead('~')
	if err != nil {
		t.Fatal(err)
	}
	// a dead key press emits nothing
	if err := c.Tap(tilde); err != nil {
		t.Fatal(err)
	}
	if n := len(fk.Events()); n != 0 {
		t.Fatalf("%d events for dead tap", n)
	}
	if err := c.Tap(keyboard.Char('a')); err != nil {
		t.Fatal(err)
	}
	if got := pressChars(t, fk); got != "ã" {
		t.Fatalf("typed %q", got)
	}
}

func TestDeadKeyFlushOnUnjoinable(t *testing.T) {
	c, fk := newController(t)
	tilde, _ := keyboard.FromDead('~')
	if err := c.Tap(tilde); err != nil {
		t.Fatal(err)
	}
	// left arrow has no char: the pending tilde is flushed on its own
	if err := c.Tap(keyboard.KeyLeft); err != nil {
		t.Fatal(err)
	}
	evs := fk.Events()
	if len(evs) != 4 {
		t.Fatalf("events: %s", spew.Sdump(evs))
	}
	if evs[0].Code.Char != "~" || !evs[0].Press || evs[1].Press {
		t.Fatalf("flush events: %s", spew.Sdump(evs[:2]))
	}
	if evs[2].Code.Key != keyboard.KeyLeft {
		t.Fatalf("key %v", evs[2].Code.Key)
	}
}

func TestDeadKeyFallbackOnInvalid(t *testing.T) {
	c, fk := newController(t)
	fk.FailFor("ã")
	tilde, _ := keyboard.FromDead('~')
	if err := c.Tap(tilde); err != nil {
		t.Fatal(err)
	}
	if err := c.Tap(keyboard.Char('a')); err != nil {
		t.Fatal(err)
	}
	// the composed form failed: dead key tapped, then the plain key
	if got := pressChars(t, fk); got != "~a" {
		t.Fatalf("typed %q: %s", got, spew.Sdump(fk.Events()))
	}
}

func TestInvalidKeyPropagates(t *testing.T) {
	c, fk := newController(t)
	fk.FailFor("a")
	err := c.Press(keyboard.Char('a'))
	if !keyboard.IsInvalidKey(err) {
		t.Fatalf("error %v", err)
	}
}

//----------

func TestType(t *testing.T) {
	c, fk := newController(t)
	if err := c.Type("Hello World\n\tok"); err != nil {
		t.Fatal(err)
	}
	if got := fk.Text(); got != "Hello World\n\tok" {
		t.Fatalf("typed %q", got)
	}
}

func TestTypeErrorIndex(t *testing.T) {
	c, fk := newController(t)
	fk.FailFor("ó")
	err := c.Type("voó")
	var cerr *keyboard.InvalidCharacterError
	if !errors.As(err, &cerr) {
		t.Fatalf("error %v", err)
	}
	if cerr.Index != 2 || cerr.Char != 'ó' {
		t.Fatalf("index %d char %q", cerr.Index, cerr.Char)
	}
	if !keyboard.IsInvalidKey(cerr) {
		t.Fatal("cause not InvalidKeyError")
	}
}

//----------

func TestHold(t *testing.T) {
	c, fk := newController(t)
	release, err := c.Hold(keyboard.KeyCtrl, keyboard.Char('c'))
	if err != nil {
		t.Fatal(err)
	}
	if !c.CtrlPressed() {
		t.Fatal("ctrl not tracked")
	}
	release()
	if c.CtrlPressed() {
		t.Fatal("ctrl still tracked")
	}
	evs := fk.Events()
	if len(evs) != 4 {
		t.Fatalf("events: %s", spew.Sdump(evs))
	}
	// release order is the reverse of the press order
	if evs[2].Code.Char != "c" || evs[3].Code.Key != keyboard.KeyCtrl {
		t.Fatalf("release order: %s", spew.Sdump(evs[2:]))
	}
}

func TestHoldFailureReleases(t *testing.T) {
	c, fk := newController(t)
	fk.FailFor("x")
	if _, err := c.Hold(keyboard.KeyCtrl, keyboard.Char('x')); err == nil {
		t.Fatal("expecting error")
	}
	if c.CtrlPressed() {
		t.Fatal("ctrl left pressed")
	}
}

func TestModifierSnapshot(t *testing.T) {
	c, _ := newController(t)
	_ = c.Press(keyboard.KeyCtrlL)
	_ = c.Press(keyboard.KeyAltR)
	m := c.Modifiers()
	if !m.Has(keyboard.ModCtrl) || !m.Has(keyboard.ModAlt) {
		t.Fatalf("mods %v", m)
	}
	if m.Has(keyboard.ModShift) {
		t.Fatalf("mods %v", m)
	}
}
