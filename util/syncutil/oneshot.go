package syncutil

import (
	"time"
)

// One-shot signal, instantiated once and fired at most once for any number
// of Wait() callers. Waiters that arrive after Set() don't block.
type OneShot struct {
	once chan struct{}
	ch   chan struct{}
}

func NewOneShot() *OneShot {
	o := &OneShot{
		once: make(chan struct{}, 1),
		ch:   make(chan struct{}),
	}
	o.once <- struct{}{}
	return o
}

// Fires the signal. Calls after the first are no-ops.
func (o *OneShot) Set() {
	select {
	case <-o.once:
		close(o.ch)
	default:
	}
}

func (o *OneShot) Fired() bool {
	select {
	case <-o.ch:
		return true
	default:
		return false
	}
}

func (o *OneShot) Wait() {
	<-o.ch
}

// Waits up to timeout for the signal. Returns false on timeout.
func (o *OneShot) WaitTimeout(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-o.ch:
		return true
	case <-timer.C:
		return false
	}
}

// Allows select{} composition with other channels.
func (o *OneShot) Done() <-chan struct{} {
	return o.ch
}
