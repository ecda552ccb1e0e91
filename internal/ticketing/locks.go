package ticketing

import "sync"

// showtimeLocks provides per-showtime mutual exclusion for the
// validate-and-commit sequence.  Sales for different showtimes proceed
// independently; at most one validate+commit runs per showtime id at a
// time.  Entries are reference counted and removed once the last holder
// releases, so the map does not grow with the number of showtimes ever
// sold.
type showtimeLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newShowtimeLocks() *showtimeLocks {
	return &showtimeLocks{entries: make(map[string]*lockEntry)}
}

// acquire blocks until the caller holds the lock for the given
// showtime id.
func (l *showtimeLocks) acquire(id string) {
	l.mu.Lock()
	e, ok := l.entries[id]
	if !ok {
		e = &lockEntry{}
		l.entries[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
}

// release unlocks the showtime and drops the entry when no other
// caller is waiting on it.
func (l *showtimeLocks) release(id string) {
	l.mu.Lock()
	e := l.entries[id]
	e.refs--
	if e.refs == 0 {
		delete(l.entries, id)
	}
	l.mu.Unlock()

	e.mu.Unlock()
}
