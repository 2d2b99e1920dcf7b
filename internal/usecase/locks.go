package usecase

import "sync"

// LockArena serializes mutations of the order/certificate store.
// Certification is a check-then-act sequence (scan prior certificates, then
// write), so two concurrent certifications on one tender could both observe
// a stale balance; each tender gets its own mutex. Administrative rewrites
// take the arena exclusively, excluding all certifications for their
// duration. One arena is shared by every mutating use case.
type LockArena struct {
	global  sync.RWMutex
	mu      sync.Mutex
	tenders map[string]*sync.Mutex
}

// NewLockArena creates an empty lock arena.
func NewLockArena() *LockArena {
	return &LockArena{tenders: make(map[string]*sync.Mutex)}
}

// lockTender acquires the per-tender lock. The returned func releases it.
func (a *LockArena) lockTender(tenderID string) func() {
	a.global.RLock()

	a.mu.Lock()
	lock, ok := a.tenders[tenderID]
	if !ok {
		lock = &sync.Mutex{}
		a.tenders[tenderID] = lock
	}
	a.mu.Unlock()

	lock.Lock()

	return func() {
		lock.Unlock()
		a.global.RUnlock()
	}
}

// lockExclusive locks out every tender at once, for operations that rewrite
// the store wholesale.
func (a *LockArena) lockExclusive() func() {
	a.global.Lock()
	return a.global.Unlock
}
