package keyboard

import (
	"github.com/pkg/errors"
	"github.com/tecla-dev/tecla"
)

// Callback handles one key event. The returned action steers the listener:
// Stop requests a graceful stop. A non-nil error stops the listener and is
// re-raised by Join.
type Callback func(ev Event) (tecla.Action, error)

// SourceConfig is handed to a SourceOpener when a listener is built.
// Deliver must be called by the native pump for every translated event.
type SourceConfig struct {
	Suppress bool
	Deliver  func(ev Event)
}

// SourceOpener builds the platform native event source for a listener.
// Implemented by the driver packages; tests inject fakes.
type SourceOpener func(cfg SourceConfig) (tecla.Source, error)

// ListenerConfig configures a keyboard listener.
type ListenerConfig struct {
	OnPress   Callback
	OnRelease Callback

	// Suppress prevents observed events from being passed on to the rest
	// of the system, on backends that support it.
	Suppress bool

	// Source opens the native event pump.
	Source SourceOpener

	// Notifier, when set, additionally delivers controller-injected events
	// (same instance the controller was built with).
	Notifier *tecla.Notifier
}

//----------

// Listener observes keyboard events on a dedicated thread. See
// tecla.Listener for the lifecycle contract.
type Listener struct {
	*tecla.Listener
	cfg    ListenerConfig
	detach func()
}

func NewListener(cfg ListenerConfig) (*Listener, error) {
	if cfg.Source == nil {
		return nil, errors.New("keyboard: listener requires a source")
	}
	l := &Listener{cfg: cfg}
	src, err := cfg.Source(SourceConfig{
		Suppress: cfg.Suppress,
		Deliver:  l.dispatch,
	})
	if err != nil {
		return nil, errors.Wrap(err, "keyboard listener")
	}
	l.Listener = tecla.NewListener(src)
	if cfg.Notifier != nil {
		l.detach = cfg.Notifier.Attach(func(ev interface{}) {
			if e, ok := ev.(Event); ok {
				l.dispatch(e)
			}
		})
	}
	return l, nil
}

func (l *Listener) dispatch(ev Event) {
	l.Deliver(func() (tecla.Action, error) {
		cb := l.cfg.OnPress
		if !ev.Press {
			cb = l.cfg.OnRelease
		}
		if cb == nil {
			return tecla.Continue, nil
		}
		return cb(ev)
	})
}

// Stop requests a cooperative stop and detaches from the notifier.
func (l *Listener) Stop() {
	l.Listener.Stop()
	if l.detach != nil {
		l.detach()
	}
}

// Join waits for the pump thread and returns any captured callback error.
func (l *Listener) Join() error {
	err := l.Listener.Join()
	if l.detach != nil {
		l.detach()
	}
	return err
}
