package navstack

import (
	"sync"

	"go.uber.org/atomic"
)

type subscriber struct {
	id uint64
	fn func()
}

// notifier manages change subscriptions for a container. Subscribers are
// invoked synchronously, in subscription order, immediately after a
// mutation and before the mutating call returns.
type notifier struct {
	lastID atomic.Uint64

	mu   sync.Mutex
	subs []subscriber
}

// subscribe registers fn and returns a cancel function. Cancel is
// idempotent.
func (n *notifier) subscribe(fn func()) func() {
	if fn == nil {
		return func() {}
	}

	id := n.lastID.Inc()

	n.mu.Lock()
	n.subs = append(n.subs, subscriber{id: id, fn: fn})
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		for i, s := range n.subs {
			if s.id == id {
				n.subs = append(n.subs[:i], n.subs[i+1:]...)
				return
			}
		}
	}
}

// notify invokes all subscribers. Uses copy-before-notify so a subscriber
// may subscribe or unsubscribe from within its callback.
func (n *notifier) notify() {
	n.mu.Lock()
	subs := make([]subscriber, len(n.subs))
	copy(subs, n.subs)
	n.mu.Unlock()

	for _, s := range subs {
		s.fn()
	}
}
