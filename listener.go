package tecla

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/tecla-dev/tecla/util/syncutil"
)

// Listener lifecycle states. Stopped is terminal; a listener cannot be
// restarted.
type State int32

const (
	StateCreated State = iota
	StateStarting
	StateReady
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarting:
		return "starting"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

//----------

// Source is the native event pump installed by a listener. Implemented once
// per platform driver.
type Source interface {
	// Run installs the native hook/tap/record source and pumps events until
	// Close is called. It must call ready exactly once, after installation
	// succeeds. Events are handed to the listener through Deliver.
	Run(ready func()) error

	// Close asks the pump to unblock and return. It must be idempotent and
	// callable from any goroutine.
	Close() error
}

//----------

// Listener runs a Source on a dedicated OS thread and tracks its lifecycle.
// Callbacks mostly run on that thread; notifier-echoed events run on the
// notifying goroutine, but Deliver serializes all invocations, so callback
// state never sees two calls at once. An error returned by a callback is
// captured and re-surfaced from Join.
type Listener struct {
	src Source

	state int32 // atomic State
	ready *syncutil.OneShot
	done  chan struct{}

	deliverMu sync.Mutex
	stopOnce  sync.Once

	failMu sync.Mutex
	fail   error
}

func NewListener(src Source) *Listener {
	return &Listener{
		src:   src,
		ready: syncutil.NewOneShot(),
		done:  make(chan struct{}),
	}
}

func (l *Listener) State() State {
	return State(atomic.LoadInt32(&l.state))
}

// Running reports whether the pump is installed and events may still be
// delivered.
func (l *Listener) Running() bool {
	s := l.State()
	return s == StateReady || s == StateRunning
}

// Start spawns the pump thread. It can be called once, on a freshly created
// listener.
func (l *Listener) Start() error {
	if !atomic.CompareAndSwapInt32(&l.state,
		int32(StateCreated), int32(StateStarting)) {
		return errors.Errorf("listener: start in state %v", l.State())
	}
	go l.run()
	return nil
}

func (l *Listener) run() {
	// Native hooks are thread-affine on every backend.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	err := l.src.Run(func() {
		atomic.CompareAndSwapInt32(&l.state,
			int32(StateStarting), int32(StateReady))
		l.ready.Set()
	})
	if err != nil {
		l.setFail(err)
	}
	atomic.StoreInt32(&l.state, int32(StateStopped))
	l.ready.Set() // unblock Wait when installation failed
	close(l.done)
}

// Wait blocks the caller until the native source is installed (or until the
// listener failed to install and stopped). It never blocks callers that
// arrive late.
func (l *Listener) Wait() {
	l.ready.Wait()
}

// Stop requests a cooperative stop. It is idempotent and callable from any
// goroutine, including listener callbacks. It only asks; the pump thread
// observes the closed source and exits, after which Join returns.
func (l *Listener) Stop() {
	l.stopOnce.Do(func() {
		for {
			s := l.State()
			if s == StateStopped || s == StateStopping {
				break
			}
			if atomic.CompareAndSwapInt32(&l.state,
				int32(s), int32(StateStopping)) {
				break
			}
		}
		_ = l.src.Close()
	})
}

// Join blocks until the pump thread has exited and returns the first error
// captured from a callback (or from the source installation). A graceful
// stop, including one requested by a callback returning Stop, yields nil.
// Must not be called from the listener's own thread.
func (l *Listener) Join() error {
	<-l.done
	l.failMu.Lock()
	defer l.failMu.Unlock()
	return l.fail
}

// Done allows select{} composition around Join.
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

//----------

// Deliver runs one user callback invocation on behalf of a driver source.
// A Stop action stops the listener gracefully; a non-nil error is captured
// in the one-slot handoff, stops the listener, and is re-raised by Join.
// Events arriving outside the Ready/Running states are dropped. Deliver
// holds a mutex across the callback: the pump thread and a notifier caller
// never run callbacks concurrently. A consequence: a callback that wants
// to synthesize input on a backend that echoes through the notifier must
// do so from another goroutine.
func (l *Listener) Deliver(f func() (Action, error)) {
	l.deliverMu.Lock()
	defer l.deliverMu.Unlock()
	atomic.CompareAndSwapInt32(&l.state,
		int32(StateReady), int32(StateRunning))
	if State(atomic.LoadInt32(&l.state)) != StateRunning {
		return
	}
	act, err := f()
	if err != nil {
		l.setFail(err)
		l.Stop()
		return
	}
	if act == Stop {
		l.Stop()
	}
}

func (l *Listener) setFail(err error) {
	l.failMu.Lock()
	if l.fail == nil {
		l.fail = err
	}
	l.failMu.Unlock()
}
