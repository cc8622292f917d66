package xdriver

import (
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgb/xtest"
	"github.com/pkg/errors"

	"github.com/tecla-dev/tecla/mouse"
)

// Native pointer button numbers. 4 to 7 are the wheel pseudo-buttons.
var buttonDetails = map[mouse.Button]byte{
	mouse.Left:        1,
	mouse.Middle:      2,
	mouse.Right:       3,
	mouse.ScrollUp:    4,
	mouse.ScrollDown:  5,
	mouse.ScrollLeft:  6,
	mouse.ScrollRight: 7,
	mouse.X1:          8,
	mouse.X2:          9,
}

// detailButtons is the observation-side inverse.
var detailButtons = map[byte]mouse.Button{}

func init() {
	for b, d := range buttonDetails {
		detailButtons[d] = b
	}
}

// Mouse implements mouse.Emitter through XTEST. Scrolling is synthesized
// as wheel pseudo-button taps, one per step.
type Mouse struct {
	d *Display
}

func NewMouse(d *Display) *Mouse {
	return &Mouse{d: d}
}

func (m *Mouse) Position() (int, int, error) {
	reply, err := xproto.QueryPointer(m.d.Conn, m.d.Root).Reply()
	if err != nil {
		return 0, 0, errors.Wrap(err, "query pointer")
	}
	return int(reply.RootX), int(reply.RootY), nil
}

func (m *Mouse) MoveTo(x, y int) error {
	// detail 0 is absolute motion
	return m.fakeMotion(0, int16(x), int16(y))
}

func (m *Mouse) MoveBy(dx, dy int) error {
	// detail 1 is relative motion
	return m.fakeMotion(1, int16(dx), int16(dy))
}

func (m *Mouse) fakeMotion(detail byte, x, y int16) error {
	err := xtest.FakeInputChecked(m.d.Conn, xproto.MotionNotify, detail,
		xproto.TimeCurrentTime, m.d.Root, x, y, 0).Check()
	if err != nil {
		return errors.Wrap(err, "fake motion input")
	}
	m.d.Sync()
	return nil
}

func (m *Mouse) EmitButton(b mouse.Button, press bool) error {
	detail, ok := buttonDetails[b]
	if !ok {
		return errors.Errorf("xdriver: no native button for %v", b)
	}
	typ := byte(xproto.ButtonPress)
	if !press {
		typ = xproto.ButtonRelease
	}
	err := xtest.FakeInputChecked(m.d.Conn, typ, detail,
		xproto.TimeCurrentTime, m.d.Root, 0, 0, 0).Check()
	if err != nil {
		return errors.Wrap(err, "fake button input")
	}
	m.d.Sync()
	return nil
}

func (m *Mouse) EmitScroll(dx, dy int) error {
	tap := func(b mouse.Button, n int) error {
		for i := 0; i < n; i++ {
			if err := m.EmitButton(b, true); err != nil {
				return err
			}
			if err := m.EmitButton(b, false); err != nil {
				return err
			}
		}
		return nil
	}
	if dy > 0 {
		if err := tap(mouse.ScrollUp, dy); err != nil {
			return err
		}
	} else if dy < 0 {
		if err := tap(mouse.ScrollDown, -dy); err != nil {
			return err
		}
	}
	if dx > 0 {
		return tap(mouse.ScrollRight, dx)
	}
	if dx < 0 {
		return tap(mouse.ScrollLeft, -dx)
	}
	return nil
}
