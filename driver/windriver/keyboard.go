//go:build windows

package windriver

import (
	"sync"
	"unicode/utf16"
	"unsafe"

	"github.com/tecla-dev/tecla/keyboard"
)

// Keyboard implements keyboard.Emitter through SendInput. Symbolic keys
// and explicit virtual key codes go out as plain key events; characters go
// out as KEYEVENTF_UNICODE events, which the system resolves independently
// of the active layout, so no key borrowing is needed here.
type Keyboard struct {
	mu sync.Mutex
}

func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

func (k *Keyboard) EmitKey(code keyboard.KeyCode, press bool, mods keyboard.Modifiers) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if vk, ok := keyVKs[code.Key]; ok {
		return sendVK(vk, press)
	}
	if code.VK != 0 {
		return sendVK(uint16(code.VK), press)
	}
	if code.Scan != 0 {
		return sendScan(code.Scan, press)
	}
	if code.Char != "" {
		// Dead keys have no distinct wire form: the unicode event for
		// the standalone character already carries the right meaning.
		return sendUnicode(code.Char, press)
	}
	return &keyboard.InvalidKeyError{Code: code}
}

//----------

func sendVK(vk uint16, press bool) error {
	in := _keyboardInput{
		typ:   _INPUT_KEYBOARD,
		wVk:   vk,
		wScan: uint16(_MapVirtualKey(uint32(vk), _MAPVK_VK_TO_VSC)),
	}
	if extendedVKs[vk] {
		in.dwFlags |= _KEYEVENTF_EXTENDEDKEY
	}
	if !press {
		in.dwFlags |= _KEYEVENTF_KEYUP
	}
	return _SendInput(unsafe.Pointer(&in), 1, unsafe.Sizeof(in))
}

func sendScan(scan uint16, press bool) error {
	in := _keyboardInput{
		typ:     _INPUT_KEYBOARD,
		wScan:   scan,
		dwFlags: _KEYEVENTF_SCANCODE,
	}
	if !press {
		in.dwFlags |= _KEYEVENTF_KEYUP
	}
	return _SendInput(unsafe.Pointer(&in), 1, unsafe.Sizeof(in))
}

// sendUnicode emits one key event per UTF-16 unit, so surrogate pairs and
// uncomposable combining sequences go out as a single batch.
func sendUnicode(char string, press bool) error {
	units := utf16.Encode([]rune(char))
	if len(units) == 0 {
		return nil
	}
	ins := make([]_keyboardInput, len(units))
	for i, u := range units {
		ins[i] = _keyboardInput{
			typ:     _INPUT_KEYBOARD,
			wScan:   u,
			dwFlags: _KEYEVENTF_UNICODE,
		}
		if !press {
			ins[i].dwFlags |= _KEYEVENTF_KEYUP
		}
	}
	return _SendInput(unsafe.Pointer(&ins[0]), len(ins), unsafe.Sizeof(ins[0]))
}
