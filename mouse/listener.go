package mouse

import (
	"github.com/pkg/errors"
	"github.com/tecla-dev/tecla"
)

// Callback handles one pointer event. The returned action steers the
// listener: Stop requests a graceful stop. A non-nil error stops the
// listener and is re-raised by Join.
type Callback func(ev Event) (tecla.Action, error)

// SourceConfig is handed to a SourceOpener when a listener is built.
// Deliver must be called by the native pump for every translated event.
type SourceConfig struct {
	Suppress bool
	Deliver  func(ev Event)
}

// SourceOpener builds the platform native event source for a listener.
type SourceOpener func(cfg SourceConfig) (tecla.Source, error)

// ListenerConfig configures a mouse listener. Nil callbacks are skipped.
type ListenerConfig struct {
	OnMove   Callback
	OnClick  Callback
	OnScroll Callback

	// Suppress prevents observed events from being passed on to the rest
	// of the system, on backends that support it.
	Suppress bool

	// Source opens the native event pump.
	Source SourceOpener

	// Notifier, when set, additionally delivers controller-injected events.
	Notifier *tecla.Notifier
}

//----------

// Listener observes pointer events on a dedicated thread. See
// tecla.Listener for the lifecycle contract.
type Listener struct {
	*tecla.Listener
	cfg    ListenerConfig
	detach func()
}

func NewListener(cfg ListenerConfig) (*Listener, error) {
	if cfg.Source == nil {
		return nil, errors.New("mouse: listener requires a source")
	}
	l := &Listener{cfg: cfg}
	src, err := cfg.Source(SourceConfig{
		Suppress: cfg.Suppress,
		Deliver:  l.dispatch,
	})
	if err != nil {
		return nil, errors.Wrap(err, "mouse listener")
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
		var cb Callback
		switch ev.Kind {
		case KindMove:
			cb = l.cfg.OnMove
		case KindClick:
			cb = l.cfg.OnClick
		case KindScroll:
			cb = l.cfg.OnScroll
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
