package xdriver

import (
	"github.com/jezek/xgb/xproto"

	"github.com/tecla-dev/tecla/keyboard"
)

// Keysym constants, from X11/keysymdef.h and XF86keysym.h. Only the ones
// the symbolic key table needs are spelled out.
const (
	noSymbol xproto.Keysym = 0

	xkBackSpace   xproto.Keysym = 0xff08
	xkTab         xproto.Keysym = 0xff09
	xkReturn      xproto.Keysym = 0xff0d
	xkPause       xproto.Keysym = 0xff13
	xkScrollLock  xproto.Keysym = 0xff14
	xkEscape      xproto.Keysym = 0xff1b
	xkHome        xproto.Keysym = 0xff50
	xkLeft        xproto.Keysym = 0xff51
	xkUp          xproto.Keysym = 0xff52
	xkRight       xproto.Keysym = 0xff53
	xkDown        xproto.Keysym = 0xff54
	xkPageUp      xproto.Keysym = 0xff55
	xkPageDown    xproto.Keysym = 0xff56
	xkEnd         xproto.Keysym = 0xff57
	xkPrint       xproto.Keysym = 0xff61
	xkInsert      xproto.Keysym = 0xff63
	xkMenu        xproto.Keysym = 0xff67
	xkNumLock     xproto.Keysym = 0xff7f
	xkF1          xproto.Keysym = 0xffbe
	xkShiftL      xproto.Keysym = 0xffe1
	xkShiftR      xproto.Keysym = 0xffe2
	xkControlL    xproto.Keysym = 0xffe3
	xkControlR    xproto.Keysym = 0xffe4
	xkCapsLock    xproto.Keysym = 0xffe5
	xkAltL        xproto.Keysym = 0xffe9
	xkAltR        xproto.Keysym = 0xffea
	xkSuperL      xproto.Keysym = 0xffeb
	xkSuperR      xproto.Keysym = 0xffec
	xkDelete      xproto.Keysym = 0xffff
	xkLevel3Shift xproto.Keysym = 0xfe03 // ISO_Level3_Shift, the usual AltGr
	xkLevel5Shift xproto.Keysym = 0xfe11
	xkGroupShift  xproto.Keysym = 0xff7e // Mode_switch

	xkSpace xproto.Keysym = 0x20

	xf86AudioLowerVolume xproto.Keysym = 0x1008ff11
	xf86AudioMute        xproto.Keysym = 0x1008ff12
	xf86AudioRaiseVolume xproto.Keysym = 0x1008ff13
	xf86AudioPlay        xproto.Keysym = 0x1008ff14
	xf86AudioPrev        xproto.Keysym = 0x1008ff16
	xf86AudioNext        xproto.Keysym = 0x1008ff17
)

// Unicode keysyms: U+0000..U+00FF map directly, the rest live in the
// 0x01000000 plane.
const unicodeKeysymBase xproto.Keysym = 0x01000000

//----------

// keyKeysyms maps symbolic keys to keysyms. The generic modifier members
// alias their left-side variants.
var keyKeysyms = map[keyboard.Key]xproto.Keysym{
	keyboard.KeyAlt:    xkAltL,
	keyboard.KeyAltL:   xkAltL,
	keyboard.KeyAltR:   xkAltR,
	keyboard.KeyAltGr:  xkLevel3Shift,
	keyboard.KeyShift:  xkShiftL,
	keyboard.KeyShiftL: xkShiftL,
	keyboard.KeyShiftR: xkShiftR,
	keyboard.KeyCtrl:   xkControlL,
	keyboard.KeyCtrlL:  xkControlL,
	keyboard.KeyCtrlR:  xkControlR,
	keyboard.KeyCmd:    xkSuperL,
	keyboard.KeyCmdL:   xkSuperL,
	keyboard.KeyCmdR:   xkSuperR,

	keyboard.KeyBackspace:   xkBackSpace,
	keyboard.KeyCapsLock:    xkCapsLock,
	keyboard.KeyDelete:      xkDelete,
	keyboard.KeyDown:        xkDown,
	keyboard.KeyEnd:         xkEnd,
	keyboard.KeyEnter:       xkReturn,
	keyboard.KeyEsc:         xkEscape,
	keyboard.KeyHome:        xkHome,
	keyboard.KeyInsert:      xkInsert,
	keyboard.KeyLeft:        xkLeft,
	keyboard.KeyMenu:        xkMenu,
	keyboard.KeyNumLock:     xkNumLock,
	keyboard.KeyPageDown:    xkPageDown,
	keyboard.KeyPageUp:      xkPageUp,
	keyboard.KeyPause:       xkPause,
	keyboard.KeyPrintScreen: xkPrint,
	keyboard.KeyRight:       xkRight,
	keyboard.KeyScrollLock:  xkScrollLock,
	keyboard.KeySpace:       xkSpace,
	keyboard.KeyTab:         xkTab,
	keyboard.KeyUp:          xkUp,

	keyboard.KeyF1:  xkF1,
	keyboard.KeyF2:  xkF1 + 1,
	keyboard.KeyF3:  xkF1 + 2,
	keyboard.KeyF4:  xkF1 + 3,
	keyboard.KeyF5:  xkF1 + 4,
	keyboard.KeyF6:  xkF1 + 5,
	keyboard.KeyF7:  xkF1 + 6,
	keyboard.KeyF8:  xkF1 + 7,
	keyboard.KeyF9:  xkF1 + 8,
	keyboard.KeyF10: xkF1 + 9,
	keyboard.KeyF11: xkF1 + 10,
	keyboard.KeyF12: xkF1 + 11,
	keyboard.KeyF13: xkF1 + 12,
	keyboard.KeyF14: xkF1 + 13,
	keyboard.KeyF15: xkF1 + 14,
	keyboard.KeyF16: xkF1 + 15,
	keyboard.KeyF17: xkF1 + 16,
	keyboard.KeyF18: xkF1 + 17,
	keyboard.KeyF19: xkF1 + 18,
	keyboard.KeyF20: xkF1 + 19,

	keyboard.KeyMediaPlayPause:  xf86AudioPlay,
	keyboard.KeyMediaVolumeMute: xf86AudioMute,
	keyboard.KeyMediaVolumeDown: xf86AudioLowerVolume,
	keyboard.KeyMediaVolumeUp:   xf86AudioRaiseVolume,
	keyboard.KeyMediaPrevious:   xf86AudioPrev,
	keyboard.KeyMediaNext:       xf86AudioNext,
}

// keysymKeys is the observation-side inverse of keyKeysyms: sided keysyms
// resolve to the sided keys, never the generic aliases.
var keysymKeys = map[xproto.Keysym]keyboard.Key{}

func init() {
	for k, ks := range keyKeysyms {
		switch k {
		case keyboard.KeyAlt, keyboard.KeyShift, keyboard.KeyCtrl, keyboard.KeyCmd:
			continue
		}
		keysymKeys[ks] = k
	}
}

//----------

// deadKeysyms maps the combining mark of a dead KeyCode to the XK_dead_*
// keysym, from keysymdef.h.
var deadKeysyms = map[rune]xproto.Keysym{
	0x0300: 0xfe50, // dead_grave
	0x0301: 0xfe51, // dead_acute
	0x0302: 0xfe52, // dead_circumflex
	0x0303: 0xfe53, // dead_tilde
	0x0304: 0xfe54, // dead_macron
	0x0306: 0xfe55, // dead_breve
	0x0307: 0xfe56, // dead_abovedot
	0x0308: 0xfe57, // dead_diaeresis
	0x030a: 0xfe58, // dead_abovering
	0x030b: 0xfe59, // dead_doubleacute
	0x030c: 0xfe5a, // dead_caron
	0x0327: 0xfe5b, // dead_cedilla
	0x0328: 0xfe5c, // dead_ogonek
	0x0345: 0xfe5d, // dead_iota
	0x0332: 0xfe90, // dead_lowline
}

// keysymDead inverts deadKeysyms, keysym to combining mark.
var keysymDead = map[xproto.Keysym]rune{}

func init() {
	for comb, ks := range deadKeysyms {
		keysymDead[ks] = comb
	}
}

// deadChars maps combining marks back to the standalone character, the
// inverse of the dead-key factory table in the keyboard package.
var deadChars = map[rune]rune{
	0x0300: '`',
	0x0301: '´',
	0x0302: '^',
	0x0303: '~',
	0x0304: '¯',
	0x0306: '˘',
	0x0307: '˙',
	0x0308: '¨',
	0x030a: '˚',
	0x030b: '˝',
	0x030c: 'ˇ',
	0x0327: '¸',
	0x0328: '˛',
	0x0345: 'ͺ',
	0x0332: '_',
}

//----------

// charToKeysym converts a unicode code point to a keysym: latin-1 maps
// directly, everything else goes through the unicode plane.
func charToKeysym(r rune) xproto.Keysym {
	if r < 0x100 {
		return xproto.Keysym(r)
	}
	return unicodeKeysymBase | xproto.Keysym(r)
}

// keysymToRune is the inverse of charToKeysym; 0 for non-character keysyms.
func keysymToRune(ks xproto.Keysym) rune {
	switch {
	case ks >= 0x20 && ks < 0x100:
		return rune(ks)
	case ks&0xff000000 == unicodeKeysymBase:
		return rune(ks &^ unicodeKeysymBase)
	}
	return 0
}

// isKeypad reports a keypad keysym, per the core protocol ranges.
func isKeypad(ks xproto.Keysym) bool {
	return (ks >= 0xff80 && ks <= 0xffbd) ||
		(ks >= 0x11000000 && ks <= 0x1100ffff)
}

func isLatinUpper(ks xproto.Keysym) bool {
	return ks >= 'A' && ks <= 'Z'
}

func isLatinLower(ks xproto.Keysym) bool {
	return ks >= 'a' && ks <= 'z'
}
