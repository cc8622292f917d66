// Package tecla provides OS-level observation and synthesis of keyboard and
// mouse input behind one platform-neutral model.
//
// The root package holds the pieces shared by every platform backend: the
// listener lifecycle state machine and the notifier used to echo
// controller-injected events to live listeners. The public input APIs live
// in the keyboard and mouse packages; platform selection lives in driver.
package tecla

// Action is returned by listener callbacks to steer the dispatch loop.
type Action int

const (
	// Continue keeps the listener running.
	Continue Action = iota
	// Stop requests a graceful stop; Join will return nil.
	Stop
)

func (a Action) String() string {
	switch a {
	case Continue:
		return "continue"
	case Stop:
		return "stop"
	}
	return "unknown"
}
