package source

import "sync"

// Notifier fans change events out to subscribers. The zero value is ready
// to use.
type Notifier struct {
	mu        sync.Mutex
	listeners map[int]func(ChangeEvent)
	next      int
}

// Subscribe registers fn. Calling the returned func more than once is safe.
func (n *Notifier) Subscribe(fn func(ChangeEvent)) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.listeners == nil {
		n.listeners = make(map[int]func(ChangeEvent))
	}
	id := n.next
	n.next++
	n.listeners[id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
}

// Notify calls every subscriber with ev. Listeners run outside the lock, so
// they may subscribe or unsubscribe themselves.
func (n *Notifier) Notify(ev ChangeEvent) {
	n.mu.Lock()
	listeners := make([]func(ChangeEvent), 0, len(n.listeners))
	for _, fn := range n.listeners {
		listeners = append(listeners, fn)
	}
	n.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// Len returns the number of subscribers.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}
