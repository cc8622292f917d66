package keyboard

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/tecla-dev/tecla"
)

// Emitter is the platform event sink for synthesized key events. The X11
// implementation resolves codes through the layout and the borrow table;
// other backends collapse to simpler lookups. Emitters return
// *InvalidKeyError for unresolvable codes so the controller can apply the
// dead-key fallback.
type Emitter interface {
	EmitKey(code KeyCode, press bool, mods Modifiers) error
}

// Keyer is anything resolvable to a KeyCode: a Key, a KeyCode or a Char.
type Keyer interface {
	keyCode(c *Controller) (KeyCode, error)
}

// Event is one canonicalized key transition, as seen by listeners.
type Event struct {
	Code  KeyCode
	Press bool
}

//----------

// Controller sends virtual keyboard events to the system. At most one
// controller should be active per process. All methods are synchronous and
// may block on the native call.
type Controller struct {
	emit   Emitter
	notify *tecla.Notifier // may be nil; echo for backends without native echo

	mods modifierTracker

	mu   sync.Mutex // guards dead
	dead *KeyCode   // pending dead key, resolved at the following press
}

// NewController builds a controller over a platform emitter. notify may be
// nil; when set, every successfully injected event is broadcast to attached
// listeners.
func NewController(emit Emitter, notify *tecla.Notifier) *Controller {
	return &Controller{emit: emit, notify: notify}
}

//----------

// Press presses a key.
//
// A pending dead key is joined with this key; if joining is impossible the
// dead key is flushed as a standalone press+release first. A dead key is
// never emitted on press: it is kept until the next press resolves it.
func (c *Controller) Press(k Keyer) error {
	resolved, err := c.resolve(k)
	if err != nil {
		return err
	}
	c.mods.update(resolved.Key, true)
	if resolved.Key == KeyCapsLock {
		c.mods.toggleCaps()
	}

	var emitted []Event
	c.mu.Lock()
	err = c.pressLocked(resolved, &emitted)
	c.mu.Unlock()
	c.notifyAll(emitted)
	return err
}

func (c *Controller) pressLocked(resolved KeyCode, emitted *[]Event) error {
	original := resolved
	if c.dead != nil {
		joined, jerr := c.dead.Join(resolved)
		if jerr == nil {
			resolved = joined
		} else {
			// unjoinable: flush the pending dead key on its own
			if err := c.emitOne(*c.dead, true, emitted); err != nil {
				c.dead = nil
				return err
			}
			if err := c.emitOne(*c.dead, false, emitted); err != nil {
				c.dead = nil
				return err
			}
		}
	}

	if resolved.IsDead {
		d := resolved
		c.dead = &d
		return nil
	}

	err := c.emitOne(resolved, true, emitted)
	if err != nil && IsInvalidKey(err) && !resolved.Equal(original) && c.dead != nil {
		// The composed form has no native representation; emit the dead
		// key separately and retry the plain key.
		err = c.emitOne(*c.dead, true, emitted)
		if err == nil {
			err = c.emitOne(*c.dead, false, emitted)
		}
		if err == nil {
			err = c.emitOne(original, true, emitted)
		}
	}
	c.dead = nil
	return err
}

// Release releases a key. Dead keys never emit a release; they are resolved
// only at the following press.
func (c *Controller) Release(k Keyer) error {
	resolved, err := c.resolve(k)
	if err != nil {
		return err
	}
	c.mods.update(resolved.Key, false)
	if resolved.IsDead {
		return nil
	}

	var emitted []Event
	c.mu.Lock()
	err = c.emitOne(resolved, false, &emitted)
	c.mu.Unlock()
	c.notifyAll(emitted)
	return err
}

// Tap presses and releases a key.
func (c *Controller) Tap(k Keyer) error {
	if err := c.Press(k); err != nil {
		return err
	}
	return c.Release(k)
}

// Touch presses or releases depending on press.
func (c *Controller) Touch(k Keyer, press bool) error {
	if press {
		return c.Press(k)
	}
	return c.Release(k)
}

// Hold presses keys in order and returns a func releasing them in reverse
// order. On error the already pressed keys are released.
func (c *Controller) Hold(keys ...Keyer) (release func(), err error) {
	pressed := []Keyer{}
	releaseAll := func() {
		for i := len(pressed) - 1; i >= 0; i-- {
			_ = c.Release(pressed[i])
		}
	}
	for _, k := range keys {
		if err := c.Press(k); err != nil {
			releaseAll()
			return nil, err
		}
		pressed = append(pressed, k)
	}
	return releaseAll, nil
}

// Type sends all presses and releases necessary to type string s. The
// control codes \n, \r and \t map to enter and tab. An untypable character
// fails with an InvalidCharacterError carrying its rune index.
func (c *Controller) Type(s string) error {
	i := 0
	for _, r := range s {
		var k Keyer
		switch r {
		case '\n', '\r':
			k = KeyEnter
		case '\t':
			k = KeyTab
		default:
			k = Char(r)
		}
		if err := c.Tap(k); err != nil {
			return &InvalidCharacterError{Index: i, Char: r, Err: err}
		}
		i++
	}
	return nil
}

//----------

// Modifiers returns an atomic snapshot of the currently pressed canonical
// modifiers. It reflects only this controller's state, not the OS keyboard.
func (c *Controller) Modifiers() Modifiers {
	return c.mods.snapshot()
}

// ShiftPressed is true when any shift key is held or caps-lock is toggled.
func (c *Controller) ShiftPressed() bool {
	return c.mods.shiftActive()
}

func (c *Controller) CtrlPressed() bool {
	return c.Modifiers().Has(ModCtrl)
}

func (c *Controller) AltPressed() bool {
	return c.Modifiers().Has(ModAlt)
}

func (c *Controller) AltGrPressed() bool {
	return c.Modifiers().Has(ModAltGr)
}

func (c *Controller) CmdPressed() bool {
	return c.Modifiers().Has(ModCmd)
}

//----------

func (c *Controller) resolve(k Keyer) (KeyCode, error) {
	if k == nil {
		return KeyCode{}, errors.New("keyboard: nil key")
	}
	return k.keyCode(c)
}

func (c *Controller) emitOne(code KeyCode, press bool, emitted *[]Event) error {
	if err := c.emit.EmitKey(code, press, c.mods.snapshot()); err != nil {
		return err
	}
	*emitted = append(*emitted, Event{Code: code, Press: press})
	return nil
}

// notifyAll broadcasts after the controller lock is released, so listener
// callbacks may call back into the controller.
func (c *Controller) notifyAll(events []Event) {
	if c.notify == nil {
		return
	}
	for _, ev := range events {
		c.notify.Notify(ev)
	}
}
