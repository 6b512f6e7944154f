package services

import (
	"sync"
	"time"
)

// realClock is the production Clock.
type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// keyedLocks hands out one mutex per string key. Used for per-tenant chain
// serialization and per-transaction reconciliation serialization. Entries are
// reference counted and evicted once the last holder releases, so the map
// does not grow with every transaction ever reconciled.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*keyedLock)}
}

// acquire locks the mutex for key and returns its release function.
func (k *keyedLocks) acquire(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// size reports the number of live lock entries.
func (k *keyedLocks) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
