package commands

import (
	"sync"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
)

// orderLocks serializes handlers of one order inside the process. Entries
// are dropped once nobody holds or waits for them.
type orderLocks struct {
	mu      sync.Mutex
	entries map[kernel.UUID]*orderLock
}

type orderLock struct {
	mu   sync.Mutex
	refs int
}

func newOrderLocks() *orderLocks {
	return &orderLocks{entries: make(map[kernel.UUID]*orderLock)}
}

// lock blocks until id is free and returns the matching unlock.
func (l *orderLocks) lock(id kernel.UUID) func() {
	l.mu.Lock()
	entry, ok := l.entries[id]
	if !ok {
		entry = &orderLock{}
		l.entries[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.entries, id)
		}
		l.mu.Unlock()
	}
}

func (l *orderLocks) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
