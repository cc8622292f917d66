//go:build windows

package windriver

import (
	"github.com/tecla-dev/tecla/keyboard"
)

//----------

const (
	_VK_BACK     = 0x08
	_VK_TAB      = 0x09
	_VK_RETURN   = 0x0d
	_VK_SHIFT    = 0x10
	_VK_CONTROL  = 0x11
	_VK_MENU     = 0x12
	_VK_PAUSE    = 0x13
	_VK_CAPITAL  = 0x14
	_VK_ESCAPE   = 0x1b
	_VK_SPACE    = 0x20
	_VK_PRIOR    = 0x21
	_VK_NEXT     = 0x22
	_VK_END      = 0x23
	_VK_HOME     = 0x24
	_VK_LEFT     = 0x25
	_VK_UP       = 0x26
	_VK_RIGHT    = 0x27
	_VK_DOWN     = 0x28
	_VK_SNAPSHOT = 0x2c
	_VK_INSERT   = 0x2d
	_VK_DELETE   = 0x2e
	_VK_LWIN     = 0x5b
	_VK_RWIN     = 0x5c
	_VK_APPS     = 0x5d
	_VK_F1       = 0x70
	_VK_NUMLOCK  = 0x90
	_VK_SCROLL   = 0x91
	_VK_LSHIFT   = 0xa0
	_VK_RSHIFT   = 0xa1
	_VK_LCONTROL = 0xa2
	_VK_RCONTROL = 0xa3
	_VK_LMENU    = 0xa4
	_VK_RMENU    = 0xa5

	_VK_VOLUME_MUTE      = 0xad
	_VK_VOLUME_DOWN      = 0xae
	_VK_VOLUME_UP        = 0xaf
	_VK_MEDIA_NEXT_TRACK = 0xb0
	_VK_MEDIA_PREV_TRACK = 0xb1
	_VK_MEDIA_PLAY_PAUSE = 0xb3
)

//----------

// keyVKs maps symbolic keys to virtual key codes for synthesis. The
// generic modifiers use the unsided codes; AltGr has no code of its own
// and aliases the right alt key.
var keyVKs = map[keyboard.Key]uint16{
	keyboard.KeyAlt:    _VK_MENU,
	keyboard.KeyAltL:   _VK_LMENU,
	keyboard.KeyAltR:   _VK_RMENU,
	keyboard.KeyAltGr:  _VK_RMENU,
	keyboard.KeyShift:  _VK_SHIFT,
	keyboard.KeyShiftL: _VK_LSHIFT,
	keyboard.KeyShiftR: _VK_RSHIFT,
	keyboard.KeyCtrl:   _VK_CONTROL,
	keyboard.KeyCtrlL:  _VK_LCONTROL,
	keyboard.KeyCtrlR:  _VK_RCONTROL,
	keyboard.KeyCmd:    _VK_LWIN,
	keyboard.KeyCmdL:   _VK_LWIN,
	keyboard.KeyCmdR:   _VK_RWIN,

	keyboard.KeyBackspace:   _VK_BACK,
	keyboard.KeyCapsLock:    _VK_CAPITAL,
	keyboard.KeyDelete:      _VK_DELETE,
	keyboard.KeyDown:        _VK_DOWN,
	keyboard.KeyEnd:         _VK_END,
	keyboard.KeyEnter:       _VK_RETURN,
	keyboard.KeyEsc:         _VK_ESCAPE,
	keyboard.KeyHome:        _VK_HOME,
	keyboard.KeyInsert:      _VK_INSERT,
	keyboard.KeyLeft:        _VK_LEFT,
	keyboard.KeyMenu:        _VK_APPS,
	keyboard.KeyNumLock:     _VK_NUMLOCK,
	keyboard.KeyPageDown:    _VK_NEXT,
	keyboard.KeyPageUp:      _VK_PRIOR,
	keyboard.KeyPause:       _VK_PAUSE,
	keyboard.KeyPrintScreen: _VK_SNAPSHOT,
	keyboard.KeyRight:       _VK_RIGHT,
	keyboard.KeyScrollLock:  _VK_SCROLL,
	keyboard.KeySpace:       _VK_SPACE,
	keyboard.KeyTab:         _VK_TAB,
	keyboard.KeyUp:          _VK_UP,

	keyboard.KeyF1:  _VK_F1,
	keyboard.KeyF2:  _VK_F1 + 1,
	keyboard.KeyF3:  _VK_F1 + 2,
	keyboard.KeyF4:  _VK_F1 + 3,
	keyboard.KeyF5:  _VK_F1 + 4,
	keyboard.KeyF6:  _VK_F1 + 5,
	keyboard.KeyF7:  _VK_F1 + 6,
	keyboard.KeyF8:  _VK_F1 + 7,
	keyboard.KeyF9:  _VK_F1 + 8,
	keyboard.KeyF10: _VK_F1 + 9,
	keyboard.KeyF11: _VK_F1 + 10,
	keyboard.KeyF12: _VK_F1 + 11,
	keyboard.KeyF13: _VK_F1 + 12,
	keyboard.KeyF14: _VK_F1 + 13,
	keyboard.KeyF15: _VK_F1 + 14,
	keyboard.KeyF16: _VK_F1 + 15,
	keyboard.KeyF17: _VK_F1 + 16,
	keyboard.KeyF18: _VK_F1 + 17,
	keyboard.KeyF19: _VK_F1 + 18,
	keyboard.KeyF20: _VK_F1 + 19,

	keyboard.KeyMediaPlayPause:  _VK_MEDIA_PLAY_PAUSE,
	keyboard.KeyMediaVolumeMute: _VK_VOLUME_MUTE,
	keyboard.KeyMediaVolumeDown: _VK_VOLUME_DOWN,
	keyboard.KeyMediaVolumeUp:   _VK_VOLUME_UP,
	keyboard.KeyMediaPrevious:   _VK_MEDIA_PREV_TRACK,
	keyboard.KeyMediaNext:       _VK_MEDIA_NEXT_TRACK,
}

// vkKeys is the observation-side inverse. The sided modifier codes win
// over the aliases; the generic codes keep their generic keys since the
// hook can deliver them for synthesized input.
var vkKeys = map[uint16]keyboard.Key{}

func init() {
	skip := map[keyboard.Key]bool{
		keyboard.KeyAltGr: true, // alias of alt_r
		keyboard.KeyCmd:   true, // alias of cmd_l
	}
	for k, vk := range keyVKs {
		if skip[k] {
			continue
		}
		vkKeys[vk] = k
	}
}

// extendedVKs need KEYEVENTF_EXTENDEDKEY on synthesis so the navigation
// cluster is not taken for the keypad.
var extendedVKs = map[uint16]bool{
	_VK_PRIOR:    true,
	_VK_NEXT:     true,
	_VK_END:      true,
	_VK_HOME:     true,
	_VK_LEFT:     true,
	_VK_UP:       true,
	_VK_RIGHT:    true,
	_VK_DOWN:     true,
	_VK_INSERT:   true,
	_VK_DELETE:   true,
	_VK_SNAPSHOT: true,
	_VK_NUMLOCK:  true,
	_VK_RMENU:    true,
	_VK_RCONTROL: true,
}
