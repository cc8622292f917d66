package keyboard

import (
	"errors"
	"fmt"
)

// InvalidKeyError reports a key that cannot be resolved to any native
// representation, including X11 borrowing exhaustion. Platform emitters
// return it so the controller can apply the dead-key fallback.
type InvalidKeyError struct {
	Code KeyCode
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("keyboard: cannot resolve key %v", e.Code)
}

// IsInvalidKey reports whether err is an InvalidKeyError.
func IsInvalidKey(err error) bool {
	var ike *InvalidKeyError
	return errors.As(err, &ike)
}

// InvalidCharacterError reports a character of a typed string that cannot
// be pressed, carrying its rune index in the string.
type InvalidCharacterError struct {
	Index int
	Char  rune
	Err   error
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("keyboard: cannot type character %q at index %d: %v",
		e.Char, e.Index, e.Err)
}

func (e *InvalidCharacterError) Unwrap() error { return e.Err }

// InvalidDeadKeyError reports a character with no Unicode combining-mark
// counterpart passed to FromDead.
type InvalidDeadKeyError struct {
	Char rune
}

func (e *InvalidDeadKeyError) Error() string {
	return fmt.Sprintf("keyboard: %q has no combining form", e.Char)
}

// cannotJoinError is the internal composition failure; Press handles it by
// flushing the pending dead key, it never reaches the caller.
type cannotJoinError struct {
	dead  KeyCode
	other KeyCode
}

func (e *cannotJoinError) Error() string {
	return fmt.Sprintf("keyboard: cannot join %v with %v", e.dead, e.other)
}
