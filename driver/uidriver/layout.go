//go:build linux

package uidriver

import (
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/tecla-dev/tecla/keyboard"
)

// The console keymap is read from dumpkeys rather than the raw KDGKBENT
// ioctls; the textual table is stable and covers the four addressable
// columns (plain, shift, altgr, shift+altgr).

var keycodeRe = regexp.MustCompile(`keycode\s+(\d+)\s+=(.*)`)

// layoutEntry is one column of a keycode row.
type layoutEntry struct {
	key  keyboard.Key
	char rune
	ok   bool
}

// charSlot locates a character on the console layout.
type charSlot struct {
	code  uint16
	shift bool
	altGr bool
}

type Layout struct {
	rows  map[uint16][4]layoutEntry
	chars map[rune]charSlot
}

// LoadLayout reads the active console keymap through dumpkeys. It fails
// without read access to the console, typically when not running as root.
func LoadLayout() (*Layout, error) {
	out, err := exec.Command("dumpkeys", "--full-table", "--keys-only").Output()
	if err != nil {
		return nil, errors.Wrap(err, "dumpkeys")
	}
	return parseLayout(string(out)), nil
}

func parseLayout(table string) *Layout {
	l := &Layout{
		rows:  map[uint16][4]layoutEntry{},
		chars: map[rune]charSlot{},
	}
	for _, m := range keycodeRe.FindAllStringSubmatch(table, -1) {
		code64, err := strconv.ParseUint(m[1], 10, 16)
		if err != nil {
			continue
		}
		code := uint16(code64)
		names := strings.Fields(m[2])
		var row [4]layoutEntry
		any := false
		for i := 0; i < 4 && i < len(names); i++ {
			row[i] = parseEntry(names[i])
			any = any || row[i].ok
		}
		if !any {
			continue
		}
		l.rows[code] = row
		for i, e := range row {
			if !e.ok || e.char == 0 {
				continue
			}
			if _, dup := l.chars[e.char]; dup {
				continue
			}
			l.chars[e.char] = charSlot{
				code:  code,
				shift: i&1 != 0,
				altGr: i&2 != 0,
			}
		}
	}
	return l
}

func parseEntry(name string) layoutEntry {
	name = strings.TrimPrefix(name, "+")
	if k, ok := specialNames[name]; ok {
		return layoutEntry{key: k, ok: true}
	}
	if r, ok := symbolChars[name]; ok {
		return layoutEntry{char: r, ok: true}
	}
	rs := []rune(name)
	if len(rs) == 1 {
		return layoutEntry{char: rs[0], ok: true}
	}
	return layoutEntry{}
}

// ForChar finds the key code and modifier state typing a character.
func (l *Layout) ForChar(r rune) (charSlot, bool) {
	s, ok := l.chars[r]
	return s, ok
}

// ForCode maps an observed key code and modifier state back to a KeyCode.
func (l *Layout) ForCode(code uint16, mods keyboard.Modifiers) (keyboard.KeyCode, bool) {
	row, ok := l.rows[code]
	if !ok {
		return keyboard.KeyCode{}, false
	}
	i := 0
	if mods.Has(keyboard.ModShift) {
		i |= 1
	}
	if mods.Has(keyboard.ModAltGr) {
		i |= 2
	}
	e := row[i]
	if !e.ok {
		e = row[0]
	}
	if !e.ok {
		return keyboard.KeyCode{}, false
	}
	if e.key != keyboard.KeyNone {
		return e.key.Code(), true
	}
	c := keyboard.FromChar(e.char)
	c.VK = int(code)
	return c, true
}

//----------

// specialNames maps dumpkeys key names to symbolic keys. Both the kernel
// spellings and the X style spellings appear in the wild.
var specialNames = map[string]keyboard.Key{
	"Alt":          keyboard.KeyAlt,
	"AltGr":        keyboard.KeyAltGr,
	"Alt_L":        keyboard.KeyAltL,
	"Alt_R":        keyboard.KeyAltR,
	"BackSpace":    keyboard.KeyBackspace,
	"Delete":       keyboard.KeyBackspace, // console Delete is BackSpace
	"Caps_Lock":    keyboard.KeyCapsLock,
	"CapsLock":     keyboard.KeyCapsLock,
	"Control":      keyboard.KeyCtrl,
	"Control_L":    keyboard.KeyCtrlL,
	"Control_R":    keyboard.KeyCtrlR,
	"CtrlL":        keyboard.KeyCtrlL,
	"CtrlR":        keyboard.KeyCtrlR,
	"Down":         keyboard.KeyDown,
	"End":          keyboard.KeyEnd,
	"Escape":       keyboard.KeyEsc,
	"Find":         keyboard.KeyHome,
	"Home":         keyboard.KeyHome,
	"Insert":       keyboard.KeyInsert,
	"Left":         keyboard.KeyLeft,
	"Menu":         keyboard.KeyMenu,
	"Num_Lock":     keyboard.KeyNumLock,
	"Next":         keyboard.KeyPageDown,
	"Prior":        keyboard.KeyPageUp,
	"Pause":        keyboard.KeyPause,
	"Remove":       keyboard.KeyDelete,
	"Return":       keyboard.KeyEnter,
	"Right":        keyboard.KeyRight,
	"Scroll_Lock":  keyboard.KeyScrollLock,
	"ShiftL":       keyboard.KeyShiftL,
	"ShiftR":       keyboard.KeyShiftR,
	"Shift":        keyboard.KeyShift,
	"Shift_L":      keyboard.KeyShiftL,
	"Shift_R":      keyboard.KeyShiftR,
	"Super_L":      keyboard.KeyCmdL,
	"Super_R":      keyboard.KeyCmdR,
	"Tab":          keyboard.KeyTab,
	"Up":           keyboard.KeyUp,
	"F1":           keyboard.KeyF1,
	"F2":           keyboard.KeyF2,
	"F3":           keyboard.KeyF3,
	"F4":           keyboard.KeyF4,
	"F5":           keyboard.KeyF5,
	"F6":           keyboard.KeyF6,
	"F7":           keyboard.KeyF7,
	"F8":           keyboard.KeyF8,
	"F9":           keyboard.KeyF9,
	"F10":          keyboard.KeyF10,
	"F11":          keyboard.KeyF11,
	"F12":          keyboard.KeyF12,
	"F13":          keyboard.KeyF13,
	"F14":          keyboard.KeyF14,
	"F15":          keyboard.KeyF15,
	"F16":          keyboard.KeyF16,
	"F17":          keyboard.KeyF17,
	"F18":          keyboard.KeyF18,
	"F19":          keyboard.KeyF19,
	"F20":          keyboard.KeyF20,
	"Print":        keyboard.KeyPrintScreen,
	"Mute":         keyboard.KeyMediaVolumeMute,
	"VolumeDown":   keyboard.KeyMediaVolumeDown,
	"VolumeUp":     keyboard.KeyMediaVolumeUp,
	"PlayPause":    keyboard.KeyMediaPlayPause,
	"PreviousSong": keyboard.KeyMediaPrevious,
	"NextSong":     keyboard.KeyMediaNext,
}

// symbolChars maps keysym style names to characters; single-character
// names map to themselves in parseEntry.
var symbolChars = map[string]rune{
	"space":        ' ',
	"exclam":       '!',
	"quotedbl":     '"',
	"numbersign":   '#',
	"dollar":       '$',
	"percent":      '%',
	"ampersand":    '&',
	"apostrophe":   '\'',
	"parenleft":    '(',
	"parenright":   ')',
	"asterisk":     '*',
	"plus":         '+',
	"comma":        ',',
	"minus":        '-',
	"period":       '.',
	"slash":        '/',
	"colon":        ':',
	"semicolon":    ';',
	"less":         '<',
	"equal":        '=',
	"greater":      '>',
	"question":     '?',
	"at":           '@',
	"bracketleft":  '[',
	"backslash":    '\\',
	"bracketright": ']',
	"asciicircum":  '^',
	"underscore":   '_',
	"grave":        '`',
	"braceleft":    '{',
	"bar":          '|',
	"braceright":   '}',
	"asciitilde":   '~',
	"one":          '1',
	"two":          '2',
	"three":        '3',
	"four":         '4',
	"five":         '5',
	"six":          '6',
	"seven":        '7',
	"eight":        '8',
	"nine":         '9',
	"zero":         '0',
	"eacute":       'é',
	"egrave":       'è',
	"agrave":       'à',
	"ccedilla":     'ç',
	"ugrave":       'ù',
	"section":      '§',
	"degree":       '°',
	"sterling":     '£',
	"currency":     '¤',
	"mu":           'µ',
	"ssharp":       'ß',
	"adiaeresis":   'ä',
	"odiaeresis":   'ö',
	"udiaeresis":   'ü',
	"Adiaeresis":   'Ä',
	"Odiaeresis":   'Ö',
	"Udiaeresis":   'Ü',
	"aring":        'å',
	"Aring":        'Å',
	"ae":           'æ',
	"AE":           'Æ',
	"oslash":       'ø',
	"Ooblique":     'Ø',
	"ntilde":       'ñ',
	"Ntilde":       'Ñ',
	"masculine":    'º',
	"ordfeminine":  'ª',
	"exclamdown":   '¡',
	"questiondown": '¿',
}
