package xdriver

import (
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgb/xtest"
	"github.com/pkg/errors"

	"github.com/tecla-dev/tecla/keyboard"
)

// Keyboard implements keyboard.Emitter over an X display. Resolution order
// for a key code: dead keysym on the layout, symbolic/virtual key through
// XTEST, character on the layout, already borrowed slot, and finally
// borrowing a new slot. The XSendEvent path carries the full modifier
// state, which XTEST cannot express per event.
type Keyboard struct {
	d    *Display
	kmap *KMap

	mu      sync.Mutex
	borrows *borrower
}

func NewKeyboard(d *Display) (*Keyboard, error) {
	kmap, err := NewKMap(d.Conn)
	if err != nil {
		return nil, err
	}
	return &Keyboard{
		d:       d,
		kmap:    kmap,
		borrows: newBorrower(connMutator{conn: d.Conn}),
	}, nil
}

func (k *Keyboard) EmitKey(code keyboard.KeyCode, press bool, mods keyboard.Modifiers) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	invalid := func() error {
		return &keyboard.InvalidKeyError{Code: code}
	}

	// dead keys resolve only through the layout's dead keysym
	if code.IsDead {
		ks, ok := deadKeysyms[code.Combining]
		if !ok {
			return invalid()
		}
		slot, ok := k.kmap.Lookup(ks)
		if !ok {
			return invalid()
		}
		return k.sendKey(slot.keycode, slot.state, press, mods)
	}

	// symbolic keys and explicit virtual codes go through XTEST, which
	// reaches server state XSendEvent cannot
	if ks, ok := keyKeysyms[code.Key]; ok {
		return k.fakeKey(ks, press, invalid)
	}
	if code.VK != 0 {
		return k.fakeKey(xproto.Keysym(code.VK), press, invalid)
	}

	rs := []rune(code.Char)
	if len(rs) != 1 {
		// multi-codepoint compositions have no single keysym
		return invalid()
	}
	ks := charToKeysym(rs[0])

	if slot, ok := k.kmap.Lookup(ks); ok {
		return k.sendKey(slot.keycode, slot.state, press, mods)
	}

	if e, ok := k.borrows.lookup(ks); ok {
		if err := k.sendKey(e.keycode, k.kmap.IndexToShift(e.index), press, mods); err != nil {
			return err
		}
		k.borrows.touch(e, press)
		return nil
	}

	e, ok, err := k.borrows.acquire(ks, code.Char)
	if err != nil {
		return errors.Wrap(err, "borrow slot")
	}
	if !ok {
		return invalid()
	}
	if err := k.sendKey(e.keycode, k.kmap.IndexToShift(e.index), press, mods); err != nil {
		return err
	}
	k.borrows.touch(e, press)
	return nil
}

//----------

// sendKey delivers a key event to the focused window with an explicit
// modifier state.
func (k *Keyboard) sendKey(kc xproto.Keycode, state uint16, press bool, mods keyboard.Modifiers) error {
	win, err := k.d.focus()
	if err != nil {
		return err
	}
	ev := xproto.KeyPressEvent{
		Detail: kc,
		Time:   xproto.TimeCurrentTime,
		Root:   k.d.Root,
		Event:  win,
		Child:  xproto.WindowNone,
		State:  state | k.modMask(mods),
	}
	var raw []byte
	if press {
		raw = ev.Bytes()
	} else {
		raw = xproto.KeyReleaseEvent(ev).Bytes()
	}
	if err := xproto.SendEventChecked(k.d.Conn, false, win, 0, string(raw)).Check(); err != nil {
		return errors.Wrap(err, "send key event")
	}
	k.d.Sync()
	return nil
}

// fakeKey injects through XTEST, resolving the keysym to any keycode
// producing it.
func (k *Keyboard) fakeKey(ks xproto.Keysym, press bool, invalid func() error) error {
	kc, ok := k.kmap.KeycodeFor(ks)
	if !ok {
		return invalid()
	}
	typ := byte(xproto.KeyPress)
	if !press {
		typ = xproto.KeyRelease
	}
	if err := xtest.FakeInputChecked(k.d.Conn, typ, byte(kc), xproto.TimeCurrentTime, k.d.Root, 0, 0, 0).Check(); err != nil {
		return errors.Wrap(err, "fake key input")
	}
	k.d.Sync()
	return nil
}

// modMask converts tracked modifiers to the X modifier state, using the
// masks detected from the modifier mapping.
func (k *Keyboard) modMask(mods keyboard.Modifiers) uint16 {
	m := uint16(0)
	if mods.Has(keyboard.ModShift) {
		m |= xproto.KeyButMaskShift
	}
	if mods.Has(keyboard.ModCtrl) {
		m |= xproto.KeyButMaskControl
	}
	if mods.Has(keyboard.ModAlt) {
		m |= k.kmap.altMask
	}
	if mods.Has(keyboard.ModAltGr) {
		m |= k.kmap.altGrMask
	}
	return m
}

//----------

// connMutator backs the borrow engine with the real server mapping.
type connMutator struct {
	conn *xgb.Conn
}

func (m connMutator) mapping() (xproto.Keycode, int, []xproto.Keysym, error) {
	si := xproto.Setup(m.conn)
	count := byte(si.MaxKeycode - si.MinKeycode + 1)
	reply, err := xproto.GetKeyboardMapping(m.conn, si.MinKeycode, count).Reply()
	if err != nil {
		return 0, 0, nil, errors.Wrap(err, "get keyboard mapping")
	}
	return si.MinKeycode, int(reply.KeysymsPerKeycode), reply.Keysyms, nil
}

func (m connMutator) apply(kc xproto.Keycode, row []xproto.Keysym) error {
	err := xproto.ChangeKeyboardMappingChecked(m.conn, 1, kc, byte(len(row)), row).Check()
	return errors.Wrap(err, "change keyboard mapping")
}
