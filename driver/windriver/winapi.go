//go:build windows

// Package windriver implements the windows backend: synthesis through
// SendInput and observation through the low-level keyboard and mouse
// hooks, each pumped on its own locked thread.
package windriver

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

//----------

const (
	_WH_KEYBOARD_LL = 13
	_WH_MOUSE_LL    = 14

	_WM_QUIT = 0x0012

	_WM_KEYDOWN    = 0x0100
	_WM_KEYUP      = 0x0101
	_WM_SYSKEYDOWN = 0x0104
	_WM_SYSKEYUP   = 0x0105

	_WM_MOUSEMOVE   = 0x0200
	_WM_LBUTTONDOWN = 0x0201
	_WM_LBUTTONUP   = 0x0202
	_WM_RBUTTONDOWN = 0x0204
	_WM_RBUTTONUP   = 0x0205
	_WM_MBUTTONDOWN = 0x0207
	_WM_MBUTTONUP   = 0x0208
	_WM_MOUSEWHEEL  = 0x020a
	_WM_XBUTTONDOWN = 0x020b
	_WM_XBUTTONUP   = 0x020c
	_WM_MOUSEHWHEEL = 0x020e

	_XBUTTON1 = 1
	_XBUTTON2 = 2

	_WHEEL_DELTA = 120

	_INPUT_MOUSE    = 0
	_INPUT_KEYBOARD = 1

	_KEYEVENTF_EXTENDEDKEY = 0x0001
	_KEYEVENTF_KEYUP       = 0x0002
	_KEYEVENTF_UNICODE     = 0x0004
	_KEYEVENTF_SCANCODE    = 0x0008

	_MOUSEEVENTF_MOVE       = 0x0001
	_MOUSEEVENTF_LEFTDOWN   = 0x0002
	_MOUSEEVENTF_LEFTUP     = 0x0004
	_MOUSEEVENTF_RIGHTDOWN  = 0x0008
	_MOUSEEVENTF_RIGHTUP    = 0x0010
	_MOUSEEVENTF_MIDDLEDOWN = 0x0020
	_MOUSEEVENTF_MIDDLEUP   = 0x0040
	_MOUSEEVENTF_XDOWN      = 0x0080
	_MOUSEEVENTF_XUP        = 0x0100
	_MOUSEEVENTF_WHEEL      = 0x0800
	_MOUSEEVENTF_HWHEEL     = 0x1000

	_MAPVK_VK_TO_VSC  = 0
	_MAPVK_VK_TO_CHAR = 2

	_LLKHF_INJECTED = 0x10
	_LLMHF_INJECTED = 0x01
)

//----------

type _point struct {
	x, y int32
}

type _msg struct {
	hwnd    windows.Handle
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      _point
}

// Low-level hook payloads, per-field identical to KBDLLHOOKSTRUCT and
// MSLLHOOKSTRUCT (64-bit layout).
type _kbdllhookstruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

type _msllhookstruct struct {
	pt          _point
	mouseData   uint32
	flags       uint32
	time        uint32
	_           uint32
	dwExtraInfo uintptr
}

// SendInput payloads. The trailing pad on the keyboard variant brings the
// union member up to the size of MOUSEINPUT so both structs match
// sizeof(INPUT) (64-bit layout).
type _keyboardInput struct {
	typ         uint32
	_           uint32
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	_           uint32
	dwExtraInfo uintptr
	_           [8]byte
}

type _mouseInput struct {
	typ         uint32
	_           uint32
	dx          int32
	dy          int32
	mouseData   uint32
	dwFlags     uint32
	time        uint32
	_           uint32
	dwExtraInfo uintptr
}

//----------

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procSetWindowsHookExW        = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx      = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx           = user32.NewProc("CallNextHookEx")
	procGetMessageW              = user32.NewProc("GetMessageW")
	procPostThreadMessageW       = user32.NewProc("PostThreadMessageW")
	procSendInput                = user32.NewProc("SendInput")
	procMapVirtualKeyW           = user32.NewProc("MapVirtualKeyW")
	procGetCursorPos             = user32.NewProc("GetCursorPos")
	procSetCursorPos             = user32.NewProc("SetCursorPos")
	procGetKeyboardState         = user32.NewProc("GetKeyboardState")
	procGetKeyboardLayout        = user32.NewProc("GetKeyboardLayout")
	procToUnicodeEx              = user32.NewProc("ToUnicodeEx")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")

	procGetCurrentThreadId = kernel32.NewProc("GetCurrentThreadId")
)

//----------

func _SetWindowsHookEx(id int32, fn uintptr) (windows.Handle, error) {
	r, _, err := procSetWindowsHookExW.Call(uintptr(id), fn, 0, 0)
	if r == 0 {
		return 0, errors.Wrap(err, "setwindowshookex")
	}
	return windows.Handle(r), nil
}

func _UnhookWindowsHookEx(h windows.Handle) error {
	r, _, err := procUnhookWindowsHookEx.Call(uintptr(h))
	if r == 0 {
		return errors.Wrap(err, "unhookwindowshookex")
	}
	return nil
}

func _CallNextHookEx(code int32, wParam, lParam uintptr) uintptr {
	r, _, _ := procCallNextHookEx.Call(0, uintptr(code), wParam, lParam)
	return r
}

// _GetMessage returns 0 on WM_QUIT and -1 on error.
func _GetMessage(msg *_msg) int32 {
	r, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(msg)), 0, 0, 0)
	return int32(r)
}

func _PostThreadMessage(threadID uint32, msg uint32) error {
	r, _, err := procPostThreadMessageW.Call(uintptr(threadID), uintptr(msg), 0, 0)
	if r == 0 {
		return errors.Wrap(err, "postthreadmessage")
	}
	return nil
}

func _SendInput(inputs unsafe.Pointer, n int, size uintptr) error {
	r, _, err := procSendInput.Call(uintptr(n), uintptr(inputs), size)
	if int(r) != n {
		return errors.Wrap(err, "sendinput")
	}
	return nil
}

func _MapVirtualKey(code, mapType uint32) uint32 {
	r, _, _ := procMapVirtualKeyW.Call(uintptr(code), uintptr(mapType))
	return uint32(r)
}

func _GetCursorPos(pt *_point) error {
	r, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(pt)))
	if r == 0 {
		return errors.Wrap(err, "getcursorpos")
	}
	return nil
}

func _SetCursorPos(x, y int32) error {
	r, _, err := procSetCursorPos.Call(uintptr(x), uintptr(y))
	if r == 0 {
		return errors.Wrap(err, "setcursorpos")
	}
	return nil
}

func _GetKeyboardState(state *[256]byte) bool {
	r, _, _ := procGetKeyboardState.Call(uintptr(unsafe.Pointer(state)))
	return r != 0
}

func _GetKeyboardLayout(threadID uint32) uintptr {
	r, _, _ := procGetKeyboardLayout.Call(uintptr(threadID))
	return r
}

func _ToUnicodeEx(vk, scan uint32, state *[256]byte, buf []uint16, layout uintptr) int32 {
	r, _, _ := procToUnicodeEx.Call(
		uintptr(vk), uintptr(scan),
		uintptr(unsafe.Pointer(state)),
		uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)),
		0, layout)
	return int32(r)
}

func _GetForegroundWindow() windows.Handle {
	r, _, _ := procGetForegroundWindow.Call()
	return windows.Handle(r)
}

func _GetWindowThreadProcessId(h windows.Handle) uint32 {
	r, _, _ := procGetWindowThreadProcessId.Call(uintptr(h), 0)
	return uint32(r)
}

func _GetCurrentThreadId() uint32 {
	r, _, _ := procGetCurrentThreadId.Call()
	return uint32(r)
}
