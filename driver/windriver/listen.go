//go:build windows

package windriver

import (
	"runtime"
	"sync"
	"unicode/utf16"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	"github.com/tecla-dev/tecla"
	"github.com/tecla-dev/tecla/keyboard"
	"github.com/tecla-dev/tecla/mouse"
)

// hookSource runs one low-level windows hook on a locked OS thread with
// its own message pump. Suppression is a hook-procedure concern here: a
// nonzero return swallows the event instead of chaining it.
type hookSource struct {
	id       int32
	handle   func(wParam uintptr, lParam uintptr)
	suppress bool

	mu       sync.Mutex
	threadID uint32
	closed   bool
}

func (s *hookSource) Run(ready func()) error {
	// The hook and its message pump must live on one thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.threadID = _GetCurrentThreadId()
	s.mu.Unlock()

	hook, err := _SetWindowsHookEx(s.id, windows.NewCallback(s.hookProc))
	if err != nil {
		return errors.Wrap(err, "windriver hook")
	}
	defer _UnhookWindowsHookEx(hook)

	ready()

	var msg _msg
	for {
		r := _GetMessage(&msg)
		if r == 0 { // WM_QUIT from Close
			return nil
		}
		if r < 0 {
			return errors.New("windriver: message pump failed")
		}
	}
}

func (s *hookSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.threadID != 0 {
		return _PostThreadMessage(s.threadID, _WM_QUIT)
	}
	return nil
}

func (s *hookSource) hookProc(code int32, wParam, lParam uintptr) uintptr {
	if code >= 0 {
		s.handle(wParam, lParam)
		if s.suppress {
			return 1
		}
	}
	return _CallNextHookEx(code, wParam, lParam)
}

//----------

// NewKeyboardSource builds a keyboard.SourceOpener over WH_KEYBOARD_LL.
func NewKeyboardSource() keyboard.SourceOpener {
	return func(cfg keyboard.SourceConfig) (tecla.Source, error) {
		tr := &keyTranslator{}
		s := &hookSource{id: _WH_KEYBOARD_LL, suppress: cfg.Suppress}
		s.handle = func(wParam, lParam uintptr) {
			kb := (*_kbdllhookstruct)(unsafe.Pointer(lParam))
			press := wParam == _WM_KEYDOWN || wParam == _WM_SYSKEYDOWN
			cfg.Deliver(keyboard.Event{
				Code:  tr.translate(kb.vkCode, kb.scanCode),
				Press: press,
			})
		}
		return s, nil
	}
}

type keyTranslator struct {
	state [256]byte
	buf   [8]uint16
}

// translate resolves an observed virtual key code: symbolic keys first,
// then the foreground window layout for characters and dead keys.
func (t *keyTranslator) translate(vk, scan uint32) keyboard.KeyCode {
	if key, ok := vkKeys[uint16(vk)]; ok {
		return keyboard.KeyCode{Key: key, VK: int(vk)}
	}

	layout := _GetKeyboardLayout(_GetWindowThreadProcessId(_GetForegroundWindow()))
	if !_GetKeyboardState(&t.state) {
		return keyboard.FromVK(int(vk))
	}
	n := _ToUnicodeEx(vk, scan, &t.state, t.buf[:], layout)
	switch {
	case n < 0:
		// Dead key. The call consumed the thread's dead-key state;
		// repeating it puts the state back.
		dead := rune(t.buf[0])
		_ = _ToUnicodeEx(vk, scan, &t.state, t.buf[:], layout)
		code := keyboard.KeyCode{VK: int(vk), Char: string(dead), IsDead: true}
		if c, err := keyboard.FromDead(dead); err == nil {
			code.Combining = c.Combining
		}
		return code
	case n > 0:
		runes := utf16.Decode(t.buf[:n])
		return keyboard.KeyCode{VK: int(vk), Char: string(runes)}
	}
	return keyboard.FromVK(int(vk))
}

//----------

// NewMouseSource builds a mouse.SourceOpener over WH_MOUSE_LL.
func NewMouseSource() mouse.SourceOpener {
	return func(cfg mouse.SourceConfig) (tecla.Source, error) {
		s := &hookSource{id: _WH_MOUSE_LL, suppress: cfg.Suppress}
		s.handle = func(wParam, lParam uintptr) {
			ms := (*_msllhookstruct)(unsafe.Pointer(lParam))
			if ev, ok := mouseEvent(wParam, ms); ok {
				cfg.Deliver(ev)
			}
		}
		return s, nil
	}
}

func mouseEvent(wParam uintptr, ms *_msllhookstruct) (mouse.Event, bool) {
	ev := mouse.Event{X: int(ms.pt.x), Y: int(ms.pt.y)}
	switch wParam {
	case _WM_MOUSEMOVE:
		ev.Kind = mouse.KindMove
	case _WM_LBUTTONDOWN, _WM_LBUTTONUP:
		ev.Kind = mouse.KindClick
		ev.Button = mouse.Left
		ev.Press = wParam == _WM_LBUTTONDOWN
	case _WM_RBUTTONDOWN, _WM_RBUTTONUP:
		ev.Kind = mouse.KindClick
		ev.Button = mouse.Right
		ev.Press = wParam == _WM_RBUTTONDOWN
	case _WM_MBUTTONDOWN, _WM_MBUTTONUP:
		ev.Kind = mouse.KindClick
		ev.Button = mouse.Middle
		ev.Press = wParam == _WM_MBUTTONDOWN
	case _WM_XBUTTONDOWN, _WM_XBUTTONUP:
		ev.Kind = mouse.KindClick
		ev.Button = mouse.X1
		if ms.mouseData>>16 == _XBUTTON2 {
			ev.Button = mouse.X2
		}
		ev.Press = wParam == _WM_XBUTTONDOWN
	case _WM_MOUSEWHEEL:
		ev.Kind = mouse.KindScroll
		ev.DY = int(int16(ms.mouseData>>16)) / _WHEEL_DELTA
	case _WM_MOUSEHWHEEL:
		ev.Kind = mouse.KindScroll
		ev.DX = int(int16(ms.mouseData>>16)) / _WHEEL_DELTA
	default:
		return mouse.Event{}, false
	}
	return ev, true
}
