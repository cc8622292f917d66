package keyboard

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// KeyCode describes a key the way the operating system does: a symbolic
// key, a native virtual key code, a character, or a dead key. Values are
// immutable and built only through the factories below; they are comparable
// and safe to use as map keys.
//
// Char is a string rather than a rune because dead-key composition can
// produce a form that does not NFC-compose to a single code point; such
// codes are still legal and resolved (or rejected) by the platform codec.
type KeyCode struct {
	Key       Key    // symbolic key, KeyNone for plain codes
	VK        int    // native virtual key code / keysym, 0 when unset
	Char      string // character, empty when unset
	IsDead    bool
	Combining rune   // combining mark, set only for dead keys
	Scan      uint16 // platform extension: native scan code (win32)
}

func FromVK(vk int) KeyCode {
	return KeyCode{VK: vk}
}

func FromChar(char rune) KeyCode {
	return KeyCode{Char: string(char)}
}

// FromString converts a one-character string to a KeyCode. Strings of any
// other length are invalid.
func FromString(s string) (KeyCode, error) {
	runes := []rune(s)
	if len(runes) != 1 {
		return KeyCode{}, fmt.Errorf("keyboard: key string %q is not one character", s)
	}
	return FromChar(runes[0]), nil
}

// FromDead creates a dead key from its standalone character, such as '~'
// for a combining tilde. It fails when the character has no Unicode
// combining counterpart.
func FromDead(char rune) (KeyCode, error) {
	combining, ok := combiningMarks[char]
	if !ok {
		return KeyCode{}, &InvalidDeadKeyError{Char: char}
	}
	return KeyCode{Char: string(char), IsDead: true, Combining: combining}, nil
}

//----------

// Equal compares two key codes the way the resolution pipeline does: codes
// that both carry a character compare by (character, deadness); anything
// else compares by symbolic key, virtual key and platform extensions.
func (c KeyCode) Equal(o KeyCode) bool {
	if c.Char != "" && o.Char != "" {
		return c.Char == o.Char && c.IsDead == o.IsDead
	}
	return c.Key == o.Key && c.VK == o.VK && c.Scan == o.Scan
}

func (c KeyCode) String() string {
	if c.IsDead {
		return fmt.Sprintf("[%q]", c.Char)
	}
	if c.Char != "" {
		return fmt.Sprintf("%q", c.Char)
	}
	if c.Key != KeyNone {
		return "<" + c.Key.String() + ">"
	}
	return fmt.Sprintf("<%d>", c.VK)
}

//----------

// Join applies this dead key to another key. Joining with space or with the
// same dead key yields the non-dead form; otherwise the other character and
// the combining mark are NFC-normalized. The result is accepted whenever
// normalization yields a non-empty form.
func (c KeyCode) Join(o KeyCode) (KeyCode, error) {
	if !c.IsDead {
		return KeyCode{}, &cannotJoinError{dead: c, other: o}
	}
	if o.Char == " " || c.Equal(o) {
		return KeyCode{Char: c.Char}, nil
	}
	if o.Char != "" {
		combined := norm.NFC.String(o.Char + string(c.Combining))
		if combined != "" {
			return KeyCode{Char: combined}, nil
		}
	}
	return KeyCode{}, &cannotJoinError{dead: c, other: o}
}

func (c KeyCode) keyCode(ctrl *Controller) (KeyCode, error) {
	// A character key pressed while shift is active resolves to its
	// uppercase form.
	if c.Char != "" && !c.IsDead && ctrl != nil && ctrl.ShiftPressed() {
		upper := upperString(c.Char)
		return KeyCode{Key: c.Key, VK: c.VK, Char: upper, Scan: c.Scan}, nil
	}
	return c, nil
}

//----------

// Char resolves to a single-character KeyCode, allowing literals like
// keyboard.Char('a') wherever a Keyer is expected.
type Char rune

func (c Char) keyCode(ctrl *Controller) (KeyCode, error) {
	return FromChar(rune(c)).keyCode(ctrl)
}

//----------

// combiningMarks maps the standalone form of a dead key to its Unicode
// combining mark.
var combiningMarks = map[rune]rune{
	'`': 0x0300, // grave
	'´': 0x0301, // acute
	'^': 0x0302, // circumflex
	'~': 0x0303, // tilde
	'¯': 0x0304, // macron
	'˘': 0x0306, // breve
	'˙': 0x0307, // dot above
	'¨': 0x0308, // diaeresis
	'˚': 0x030a, // ring above
	'˝': 0x030b, // double acute
	'ˇ': 0x030c, // caron
	'¸': 0x0327, // cedilla
	'˛': 0x0328, // ogonek
	'ͺ': 0x0345, // greek ypogegrammeni
	'_': 0x0332, // low line
}

func upperString(s string) string {
	return strings.ToUpper(s)
}
