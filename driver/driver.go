// Package driver selects the platform input backend and bundles it behind
// one System handle: controllers for synthesis, listener constructors for
// observation, and shared teardown.
//
// Selection happens at Open: linux picks X11 when DISPLAY is set and falls
// back to the console backend (uinput and evdev) otherwise; windows uses
// SendInput and the low-level hooks. See the ErrUnsupported platforms in
// the open_* files.
package driver

import (
	"github.com/pkg/errors"

	"github.com/tecla-dev/tecla"
	"github.com/tecla-dev/tecla/keyboard"
	"github.com/tecla-dev/tecla/mouse"
)

// ErrUnsupported is returned by Open on platforms without a backend.
var ErrUnsupported = errors.New("driver: platform not supported")

// backend is what each platform fills in: the emitters, the listener
// source openers, an optional notifier for backends whose observation path
// does not see injected events, and a teardown hook.
type backend struct {
	keyboard keyboard.Emitter
	mouse    mouse.Emitter
	keys     keyboard.SourceOpener
	pointer  mouse.SourceOpener
	notifier *tecla.Notifier
	close    func() error
}

//----------

// System is the process-wide input handle. Build one with Open and reuse
// it; the controllers are safe for concurrent use, and each listener runs
// its own pump.
type System struct {
	b        *backend
	keyboard *keyboard.Controller
	mouse    *mouse.Controller
}

func Open() (*System, error) {
	b, err := open()
	if err != nil {
		return nil, errors.Wrap(err, "driver")
	}
	return &System{
		b:        b,
		keyboard: keyboard.NewController(b.keyboard, b.notifier),
		mouse:    mouse.NewController(b.mouse, b.notifier),
	}, nil
}

func (s *System) Keyboard() *keyboard.Controller { return s.keyboard }
func (s *System) Mouse() *mouse.Controller       { return s.mouse }

// NewKeyboardListener builds a listener over the platform event source.
// The config's Source and Notifier fields are owned by the system and
// overwritten.
func (s *System) NewKeyboardListener(cfg keyboard.ListenerConfig) (*keyboard.Listener, error) {
	cfg.Source = s.b.keys
	cfg.Notifier = s.b.notifier
	return keyboard.NewListener(cfg)
}

// NewMouseListener builds a listener over the platform pointer source.
func (s *System) NewMouseListener(cfg mouse.ListenerConfig) (*mouse.Listener, error) {
	cfg.Source = s.b.pointer
	cfg.Notifier = s.b.notifier
	return mouse.NewListener(cfg)
}

// NewGlobalHotKeys builds a listener firing the given hotkey bindings,
// keyed by keyboard.ParseHotKey strings.
func (s *System) NewGlobalHotKeys(bindings map[string]func()) (*keyboard.GlobalHotKeys, error) {
	return keyboard.NewGlobalHotKeys(bindings, keyboard.ListenerConfig{
		Source:   s.b.keys,
		Notifier: s.b.notifier,
	})
}

func (s *System) Close() error {
	if s.b.close != nil {
		return s.b.close()
	}
	return nil
}
