//go:build linux

// Package uidriver implements the Linux console backend: synthesis through
// a uinput device, observation through evdev, and a keymap codec loaded
// from the console layout. It serves hosts without an X display.
package uidriver

import "github.com/tecla-dev/tecla/keyboard"

// input event types and codes, from linux/input-event-codes.h
const (
	evSyn = 0x00
	evKey = 0x01
	evRel = 0x02

	synReport = 0

	relX      = 0x00
	relY      = 0x01
	relHWheel = 0x06
	relWheel  = 0x08

	keyUp   = 0
	keyDown = 1
	keyHold = 2

	btnLeft   = 0x110
	btnRight  = 0x111
	btnMiddle = 0x112
	btnSide   = 0x113
	btnExtra  = 0x114
)

// kernel key codes for the symbolic keys; generic modifiers alias their
// left-side variants.
var keyCodes = map[keyboard.Key]uint16{
	keyboard.KeyAlt:    56,  // KEY_LEFTALT
	keyboard.KeyAltL:   56,
	keyboard.KeyAltR:   100, // KEY_RIGHTALT
	keyboard.KeyAltGr:  100,
	keyboard.KeyShift:  42,  // KEY_LEFTSHIFT
	keyboard.KeyShiftL: 42,
	keyboard.KeyShiftR: 54,
	keyboard.KeyCtrl:   29, // KEY_LEFTCTRL
	keyboard.KeyCtrlL:  29,
	keyboard.KeyCtrlR:  97,
	keyboard.KeyCmd:    125, // KEY_LEFTMETA
	keyboard.KeyCmdL:   125,
	keyboard.KeyCmdR:   126,

	keyboard.KeyBackspace:   14,
	keyboard.KeyCapsLock:    58,
	keyboard.KeyDelete:      111,
	keyboard.KeyDown:        108,
	keyboard.KeyEnd:         107,
	keyboard.KeyEnter:       28,
	keyboard.KeyEsc:         1,
	keyboard.KeyHome:        102,
	keyboard.KeyInsert:      110,
	keyboard.KeyLeft:        105,
	keyboard.KeyMenu:        127, // KEY_COMPOSE
	keyboard.KeyNumLock:     69,
	keyboard.KeyPageDown:    109,
	keyboard.KeyPageUp:      104,
	keyboard.KeyPause:       119,
	keyboard.KeyPrintScreen: 99, // KEY_SYSRQ
	keyboard.KeyRight:       106,
	keyboard.KeyScrollLock:  70,
	keyboard.KeySpace:       57,
	keyboard.KeyTab:         15,
	keyboard.KeyUp:          103,

	keyboard.KeyF1:  59,
	keyboard.KeyF2:  60,
	keyboard.KeyF3:  61,
	keyboard.KeyF4:  62,
	keyboard.KeyF5:  63,
	keyboard.KeyF6:  64,
	keyboard.KeyF7:  65,
	keyboard.KeyF8:  66,
	keyboard.KeyF9:  67,
	keyboard.KeyF10: 68,
	keyboard.KeyF11: 87,
	keyboard.KeyF12: 88,
	keyboard.KeyF13: 183,
	keyboard.KeyF14: 184,
	keyboard.KeyF15: 185,
	keyboard.KeyF16: 186,
	keyboard.KeyF17: 187,
	keyboard.KeyF18: 188,
	keyboard.KeyF19: 189,
	keyboard.KeyF20: 190,

	keyboard.KeyMediaNext:       163, // KEY_NEXTSONG
	keyboard.KeyMediaPlayPause:  164, // KEY_PLAYPAUSE
	keyboard.KeyMediaPrevious:   165, // KEY_PREVIOUSSONG
	keyboard.KeyMediaVolumeMute: 113, // KEY_MUTE
	keyboard.KeyMediaVolumeDown: 114,
	keyboard.KeyMediaVolumeUp:   115,
}

// codeKeys is the observation-side inverse: sided codes resolve to the
// sided keys.
var codeKeys = map[uint16]keyboard.Key{}

func init() {
	for k, c := range keyCodes {
		switch k {
		case keyboard.KeyAlt, keyboard.KeyAltGr, keyboard.KeyShift,
			keyboard.KeyCtrl, keyboard.KeyCmd:
			continue
		}
		codeKeys[c] = k
	}
}

// modifier codes the evdev listener tracks for shift/altgr selection.
var modifierCodes = map[uint16]keyboard.Modifiers{
	42:  keyboard.ModShift,
	54:  keyboard.ModShift,
	29:  keyboard.ModCtrl,
	97:  keyboard.ModCtrl,
	56:  keyboard.ModAlt,
	100: keyboard.ModAltGr,
	125: keyboard.ModCmd,
	126: keyboard.ModCmd,
}
