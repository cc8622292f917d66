//go:build windows

package driver

import (
	"github.com/tecla-dev/tecla/driver/windriver"
)

// open builds the SendInput plus low-level-hooks backend. The hooks
// observe injected input too, so no notifier is needed.
func open() (*backend, error) {
	return &backend{
		keyboard: windriver.NewKeyboard(),
		mouse:    windriver.NewMouse(),
		keys:     windriver.NewKeyboardSource(),
		pointer:  windriver.NewMouseSource(),
	}, nil
}
