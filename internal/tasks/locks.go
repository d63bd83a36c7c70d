package tasks

import "sync"

// lockTable grants at most one in-flight sync pass per library. A second
// pass for the same library is rejected rather than queued.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.Mutex)}
}

// TryAcquire attempts to take the lock for libraryID without blocking.
// Returns false when a sync for that library is already running.
func (t *lockTable) TryAcquire(libraryID string) bool {
	t.mu.Lock()
	lock, ok := t.locks[libraryID]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[libraryID] = lock
	}
	t.mu.Unlock()

	return lock.TryLock()
}

// Release unlocks the lock for libraryID. Must only be called after a
// successful TryAcquire.
func (t *lockTable) Release(libraryID string) {
	t.mu.Lock()
	lock := t.locks[libraryID]
	t.mu.Unlock()

	if lock != nil {
		lock.Unlock()
	}
}
