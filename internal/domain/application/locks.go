package application

import "sync"

// ownerLocks serializes the load-modify-save cycles of one owner. Entries are
// dropped once no caller holds or waits for them.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[string]*ownerLock
}

type ownerLock struct {
	sync.Mutex
	refs int
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[string]*ownerLock)}
}

// Lock blocks until owner is free and returns the matching unlock func.
func (l *ownerLocks) Lock(owner string) func() {
	l.mu.Lock()
	lk, ok := l.locks[owner]
	if !ok {
		lk = &ownerLock{}
		l.locks[owner] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.Lock()
	return func() {
		lk.Unlock()
		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.locks, owner)
		}
		l.mu.Unlock()
	}
}

func (l *ownerLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
