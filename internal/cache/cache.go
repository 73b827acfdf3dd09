package cache

import (
	"sync"
	"time"
)

// StampLayout is the fixed string form a stored timestamp may take.
const StampLayout = "2006-01-02 15:04:05"

// Store maps string keys to (timestamp, value) pairs with a fixed TTL.
// A read older than the TTL behaves as a miss; the caller repopulates.
// Entries are never evicted, the map grows for the process lifetime.
type Store struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry

	// now is swappable for tests.
	now func() time.Time
}

type entry struct {
	at    time.Time
	stamp string // set instead of at when the caller supplied a string timestamp
	value any
}

// New creates a Store with the given time-to-live.
func New(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the stored value if it is younger than the TTL.
// A corrupt string timestamp degrades to a miss.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}

	at := e.at
	if at.IsZero() {
		parsed, err := time.ParseInLocation(StampLayout, e.stamp, time.Local)
		if err != nil {
			return nil, false
		}
		at = parsed
	}

	if s.now().Sub(at) >= s.ttl {
		return nil, false
	}
	return e.value, true
}

// Put stores a value stamped with the current time.
func (s *Store) Put(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{at: s.now(), value: value}
}

// PutStamped stores a value whose timestamp is the given string in
// StampLayout form. The stamp is validated lazily on Get.
func (s *Store) PutStamped(key, stamp string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{stamp: stamp, value: value}
}

// Len reports the number of stored entries, live or stale.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
