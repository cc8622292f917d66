//go:build linux

package driver

import (
	"os"

	"github.com/tecla-dev/tecla"
	"github.com/tecla-dev/tecla/driver/uidriver"
	"github.com/tecla-dev/tecla/driver/xdriver"
)

// open picks X11 when a display is reachable and the console backend
// (uinput and evdev, needs the input group or root) otherwise.
func open() (*backend, error) {
	if os.Getenv("DISPLAY") != "" {
		return openX11()
	}
	return openConsole()
}

func openX11() (*backend, error) {
	d, err := xdriver.Open("")
	if err != nil {
		return nil, err
	}
	kb, err := xdriver.NewKeyboard(d)
	if err != nil {
		d.Close()
		return nil, err
	}
	// RECORD does not report SendEvent traffic, so injected events are
	// echoed to listeners through the notifier.
	return &backend{
		keyboard: kb,
		mouse:    xdriver.NewMouse(d),
		keys:     xdriver.NewKeyboardSource,
		pointer:  xdriver.NewMouseSource,
		notifier: tecla.NewNotifier(),
		close:    d.Close,
	}, nil
}

func openConsole() (*backend, error) {
	kb, err := uidriver.NewKeyboard()
	if err != nil {
		return nil, err
	}
	ms, err := uidriver.NewMouse()
	if err != nil {
		_ = kb.Close()
		return nil, err
	}
	// The kernel echoes uinput events back through evdev, no notifier.
	return &backend{
		keyboard: kb,
		mouse:    ms,
		keys:     uidriver.NewKeyboardSource,
		pointer:  uidriver.NewMouseSource,
		close: func() error {
			err := kb.Close()
			if err2 := ms.Close(); err == nil {
				err = err2
			}
			return err
		},
	}, nil
}
