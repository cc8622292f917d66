// Package keyboard provides the platform-neutral keyboard model: symbolic
// keys, key codes with dead-key composition, a synthesis controller and an
// event listener. Platform behavior is injected through the Emitter and
// SourceOpener interfaces, implemented by the driver sub-packages.
package keyboard

// Key is a symbolic key that may not correspond to a character: modifiers,
// navigation, function and media keys. The native value a Key resolves to
// differs between platforms; the driver key codec owns that mapping.
type Key int

const (
	KeyNone Key = iota

	// modifiers; the sided variants canonicalize to the generic member
	KeyAlt
	KeyAltL
	KeyAltR
	KeyAltGr
	KeyShift
	KeyShiftL
	KeyShiftR
	KeyCtrl
	KeyCtrlL
	KeyCtrlR
	KeyCmd
	KeyCmdL
	KeyCmdR

	KeyBackspace
	KeyCapsLock
	KeyDelete
	KeyDown
	KeyEnd
	KeyEnter
	KeyEsc
	KeyHome
	KeyInsert
	KeyLeft
	KeyMenu
	KeyNumLock
	KeyPageDown
	KeyPageUp
	KeyPause
	KeyPrintScreen
	KeyRight
	KeyScrollLock
	KeySpace
	KeyTab
	KeyUp

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20

	KeyMediaPlayPause
	KeyMediaVolumeMute
	KeyMediaVolumeDown
	KeyMediaVolumeUp
	KeyMediaPrevious
	KeyMediaNext
)

var keyNames = map[Key]string{
	KeyAlt:             "alt",
	KeyAltL:            "alt_l",
	KeyAltR:            "alt_r",
	KeyAltGr:           "alt_gr",
	KeyShift:           "shift",
	KeyShiftL:          "shift_l",
	KeyShiftR:          "shift_r",
	KeyCtrl:            "ctrl",
	KeyCtrlL:           "ctrl_l",
	KeyCtrlR:           "ctrl_r",
	KeyCmd:             "cmd",
	KeyCmdL:            "cmd_l",
	KeyCmdR:            "cmd_r",
	KeyBackspace:       "backspace",
	KeyCapsLock:        "caps_lock",
	KeyDelete:          "delete",
	KeyDown:            "down",
	KeyEnd:             "end",
	KeyEnter:           "enter",
	KeyEsc:             "esc",
	KeyHome:            "home",
	KeyInsert:          "insert",
	KeyLeft:            "left",
	KeyMenu:            "menu",
	KeyNumLock:         "num_lock",
	KeyPageDown:        "page_down",
	KeyPageUp:          "page_up",
	KeyPause:           "pause",
	KeyPrintScreen:     "print_screen",
	KeyRight:           "right",
	KeyScrollLock:      "scroll_lock",
	KeySpace:           "space",
	KeyTab:             "tab",
	KeyUp:              "up",
	KeyF1:              "f1",
	KeyF2:              "f2",
	KeyF3:              "f3",
	KeyF4:              "f4",
	KeyF5:              "f5",
	KeyF6:              "f6",
	KeyF7:              "f7",
	KeyF8:              "f8",
	KeyF9:              "f9",
	KeyF10:             "f10",
	KeyF11:             "f11",
	KeyF12:             "f12",
	KeyF13:             "f13",
	KeyF14:             "f14",
	KeyF15:             "f15",
	KeyF16:             "f16",
	KeyF17:             "f17",
	KeyF18:             "f18",
	KeyF19:             "f19",
	KeyF20:             "f20",
	KeyMediaPlayPause:  "media_play_pause",
	KeyMediaVolumeMute: "media_volume_mute",
	KeyMediaVolumeDown: "media_volume_down",
	KeyMediaVolumeUp:   "media_volume_up",
	KeyMediaPrevious:   "media_previous",
	KeyMediaNext:       "media_next",
}

var keysByName = func() map[string]Key {
	m := make(map[string]Key, len(keyNames))
	for k, name := range keyNames {
		m[name] = k
	}
	return m
}()

func (k Key) String() string {
	if s, ok := keyNames[k]; ok {
		return s
	}
	return "none"
}

// KeyByName returns the Key for a lowercase symbolic name such as "ctrl" or
// "f1", and KeyNone when the name is unknown.
func KeyByName(name string) Key {
	return keysByName[name]
}

// Code returns the platform-neutral key code wrapping k. KeySpace also
// carries the space character, so that it compares equal to FromChar(' ').
func (k Key) Code() KeyCode {
	c := KeyCode{Key: k}
	if k == KeySpace {
		c.Char = " "
	}
	return c
}

func (k Key) keyCode(c *Controller) (KeyCode, error) {
	return k.Code(), nil
}

//----------

// canonicalModifier maps a modifier key (sided or generic) to its generic
// member, or KeyNone for non-modifiers.
func canonicalModifier(k Key) Key {
	switch k {
	case KeyShift, KeyShiftL, KeyShiftR:
		return KeyShift
	case KeyCtrl, KeyCtrlL, KeyCtrlR:
		return KeyCtrl
	case KeyAlt, KeyAltL, KeyAltR:
		return KeyAlt
	case KeyAltGr:
		return KeyAltGr
	case KeyCmd, KeyCmdL, KeyCmdR:
		return KeyCmd
	}
	return KeyNone
}
