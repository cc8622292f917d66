package mouse

import (
	"github.com/pkg/errors"
	"github.com/tecla-dev/tecla"
)

// Emitter is the platform event sink for synthesized pointer events. The
// X11 implementation maps EmitScroll to wheel pseudo-button taps; win32
// uses SendInput wheel deltas.
type Emitter interface {
	Position() (x, y int, err error)
	MoveTo(x, y int) error
	MoveBy(dx, dy int) error
	EmitButton(b Button, press bool) error
	EmitScroll(dx, dy int) error
}

// Controller sends virtual pointer events to the system. All methods are
// synchronous and may block on the native call.
type Controller struct {
	emit   Emitter
	notify *tecla.Notifier // may be nil
}

// NewController builds a controller over a platform emitter. notify may be
// nil; when set, every successfully injected event is broadcast to attached
// listeners.
func NewController(emit Emitter, notify *tecla.Notifier) *Controller {
	return &Controller{emit: emit, notify: notify}
}

// Position returns the current pointer position in screen coordinates.
func (c *Controller) Position() (x, y int, err error) {
	return c.emit.Position()
}

// SetPosition warps the pointer to absolute screen coordinates.
func (c *Controller) SetPosition(x, y int) error {
	if err := c.emit.MoveTo(x, y); err != nil {
		return errors.Wrap(err, "mouse: set position")
	}
	c.notifyMove()
	return nil
}

// Move moves the pointer relative to its current position.
func (c *Controller) Move(dx, dy int) error {
	if err := c.emit.MoveBy(dx, dy); err != nil {
		return errors.Wrap(err, "mouse: move")
	}
	c.notifyMove()
	return nil
}

//----------

// Press presses a button.
func (c *Controller) Press(b Button) error {
	if err := c.emit.EmitButton(b, true); err != nil {
		return err
	}
	c.notifyClick(b, true)
	return nil
}

// Release releases a button.
func (c *Controller) Release(b Button) error {
	if err := c.emit.EmitButton(b, false); err != nil {
		return err
	}
	c.notifyClick(b, false)
	return nil
}

// Click presses and releases a button n times.
func (c *Controller) Click(b Button, n int) error {
	for i := 0; i < n; i++ {
		if err := c.Press(b); err != nil {
			return err
		}
		if err := c.Release(b); err != nil {
			return err
		}
	}
	return nil
}

// Scroll sends wheel motion: dy steps vertically (positive up) and dx
// steps horizontally (positive right).
func (c *Controller) Scroll(dx, dy int) error {
	if err := c.emit.EmitScroll(dx, dy); err != nil {
		return errors.Wrap(err, "mouse: scroll")
	}
	if c.notify != nil {
		x, y, err := c.emit.Position()
		if err == nil {
			c.notify.Notify(Event{Kind: KindScroll, X: x, Y: y, DX: dx, DY: dy})
		}
	}
	return nil
}

//----------

func (c *Controller) notifyMove() {
	if c.notify == nil {
		return
	}
	x, y, err := c.emit.Position()
	if err != nil {
		return
	}
	c.notify.Notify(Event{Kind: KindMove, X: x, Y: y})
}

func (c *Controller) notifyClick(b Button, press bool) {
	if c.notify == nil {
		return
	}
	x, y, err := c.emit.Position()
	if err != nil {
		return
	}
	c.notify.Notify(Event{Kind: KindClick, X: x, Y: y, Button: b, Press: press})
}
