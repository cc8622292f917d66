//go:build windows

package windriver

import (
	"sync"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/tecla-dev/tecla/mouse"
)

// Mouse implements mouse.Emitter through SendInput and the cursor calls.
// The wheel pseudo-buttons translate to wheel deltas; win32 has no button
// form for them.
type Mouse struct {
	mu sync.Mutex
}

func NewMouse() *Mouse {
	return &Mouse{}
}

func (m *Mouse) Position() (int, int, error) {
	var pt _point
	if err := _GetCursorPos(&pt); err != nil {
		return 0, 0, err
	}
	return int(pt.x), int(pt.y), nil
}

func (m *Mouse) MoveTo(x, y int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return _SetCursorPos(int32(x), int32(y))
}

func (m *Mouse) MoveBy(dx, dy int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sendMouse(_mouseInput{
		typ:     _INPUT_MOUSE,
		dx:      int32(dx),
		dy:      int32(dy),
		dwFlags: _MOUSEEVENTF_MOVE,
	})
}

func (m *Mouse) EmitButton(b mouse.Button, press bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b.IsScroll() {
		// One wheel notch per press; the release has no wire form.
		if !press {
			return nil
		}
		return m.scrollButton(b)
	}

	var down, up uint32
	var data uint32
	switch b {
	case mouse.Left:
		down, up = _MOUSEEVENTF_LEFTDOWN, _MOUSEEVENTF_LEFTUP
	case mouse.Middle:
		down, up = _MOUSEEVENTF_MIDDLEDOWN, _MOUSEEVENTF_MIDDLEUP
	case mouse.Right:
		down, up = _MOUSEEVENTF_RIGHTDOWN, _MOUSEEVENTF_RIGHTUP
	case mouse.X1:
		down, up = _MOUSEEVENTF_XDOWN, _MOUSEEVENTF_XUP
		data = _XBUTTON1
	case mouse.X2:
		down, up = _MOUSEEVENTF_XDOWN, _MOUSEEVENTF_XUP
		data = _XBUTTON2
	default:
		return errors.Errorf("windriver: no native form for button %v", b)
	}
	flags := down
	if !press {
		flags = up
	}
	return sendMouse(_mouseInput{
		typ:       _INPUT_MOUSE,
		mouseData: data,
		dwFlags:   flags,
	})
}

func (m *Mouse) scrollButton(b mouse.Button) error {
	switch b {
	case mouse.ScrollUp:
		return m.scroll(0, 1)
	case mouse.ScrollDown:
		return m.scroll(0, -1)
	case mouse.ScrollLeft:
		return m.scroll(-1, 0)
	case mouse.ScrollRight:
		return m.scroll(1, 0)
	}
	return nil
}

func (m *Mouse) EmitScroll(dx, dy int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scroll(dx, dy)
}

func (m *Mouse) scroll(dx, dy int) error {
	if dy != 0 {
		ev := _mouseInput{
			typ:       _INPUT_MOUSE,
			mouseData: uint32(int32(dy) * _WHEEL_DELTA),
			dwFlags:   _MOUSEEVENTF_WHEEL,
		}
		if err := sendMouse(ev); err != nil {
			return err
		}
	}
	if dx != 0 {
		ev := _mouseInput{
			typ:       _INPUT_MOUSE,
			mouseData: uint32(int32(dx) * _WHEEL_DELTA),
			dwFlags:   _MOUSEEVENTF_HWHEEL,
		}
		if err := sendMouse(ev); err != nil {
			return err
		}
	}
	return nil
}

func sendMouse(in _mouseInput) error {
	return _SendInput(unsafe.Pointer(&in), 1, unsafe.Sizeof(in))
}
