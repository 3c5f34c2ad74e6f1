// Package locker serializes notes writes per lead within this process.
package locker

import "sync"

// LeadLocker hands out one FIFO mutex per lead id. Entries are dropped when
// the last holder releases, so the map does not grow with the lead table.
// The lock is process-local; cross-process serialization is out of scope.
type LeadLocker struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewLeadLocker() *LeadLocker {
	return &LeadLocker{entries: make(map[string]*lockEntry)}
}

// Do runs fn while holding the lead's lock. sync.Mutex hands the lock to
// waiters in FIFO order under contention (starvation mode), which gives the
// per-lead ordering guarantee.
func (l *LeadLocker) Do(leadID string, fn func()) {
	entry := l.acquire(leadID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		l.release(leadID, entry)
	}()
	fn()
}

func (l *LeadLocker) acquire(leadID string) *lockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.entries[leadID]
	if !ok {
		entry = &lockEntry{}
		l.entries[leadID] = entry
	}
	entry.refs++
	return entry
}

func (l *LeadLocker) release(leadID string, entry *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, leadID)
	}
}

// Size reports how many leads currently hold or await a lock.
func (l *LeadLocker) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
