package tecla

import (
	"sync"
	"sync/atomic"
)

// Notifier broadcasts controller-injected events to live listeners, for
// backends where the native mechanism does not echo synthesized events back
// to installed hooks. It is explicitly owned: the driver constructs one and
// hands the same instance to controllers and listeners.
type Notifier struct {
	count int32 // atomic live subscriber count

	mu   sync.Mutex
	seq  int
	subs map[int]func(ev interface{})
}

func NewNotifier() *Notifier {
	return &Notifier{subs: map[int]func(ev interface{}){}}
}

// Attach registers fn and returns an idempotent detach func.
func (n *Notifier) Attach(fn func(ev interface{})) (detach func()) {
	n.mu.Lock()
	id := n.seq
	n.seq++
	n.subs[id] = fn
	n.mu.Unlock()
	atomic.AddInt32(&n.count, 1)

	once := sync.Once{}
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
			atomic.AddInt32(&n.count, -1)
		})
	}
}

// Notify delivers ev to every attached subscriber.
//
// The empty check is a deliberate race: when no listener is believed to be
// attached the lock is skipped entirely, trading a rare missed notification
// during attach for zero per-event lock overhead on the synthesis path.
func (n *Notifier) Notify(ev interface{}) {
	if atomic.LoadInt32(&n.count) == 0 {
		return
	}
	n.mu.Lock()
	fns := make([]func(ev interface{}), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()
	// Run outside the lock; a subscriber may attach/detach from its callback.
	for _, fn := range fns {
		fn(ev)
	}
}
