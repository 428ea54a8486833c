package router

import "sync"

// keyedMutex serializes work per key. The messaging gateway may
// redeliver an event or deliver two events for the same sender in
// close succession; without per-sender locking two handlers could both
// read stale profile state and double-apply a transition.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
