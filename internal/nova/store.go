package nova

import (
	"sync"
	"time"
)

// ResultStore is the bounded mapping from analysis id to stored record. It
// must tolerate concurrent access from the submission path, the background
// completion path, the retrieval handler, and the reaper.
type ResultStore interface {
	// Put inserts or replaces the record for id. Inserting a new id while
	// the store is at capacity first evicts the oldest record.
	Put(id string, rec Record)

	// Get returns the record for id, if present.
	Get(id string) (Record, bool)

	// Len reports how many records the store currently holds.
	Len() int

	// EvictOldest removes the record with the smallest timestamp, if any.
	EvictOldest()

	// Sweep removes every record whose timestamp is before cutoff and
	// reports how many were removed.
	Sweep(cutoff time.Time) int
}

// MemoryStore is the in-process ResultStore used in production. Results are
// a best-effort cache: they do not survive a restart, and capacity pressure
// silently drops the oldest entries.
type MemoryStore struct {
	mu         sync.RWMutex
	maxEntries int
	entries    map[string]Record
}

var _ ResultStore = (*MemoryStore)(nil)

// NewMemoryStore creates a MemoryStore holding at most maxEntries records.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &MemoryStore{
		maxEntries: maxEntries,
		entries:    make(map[string]Record),
	}
}

// Put inserts or replaces the record for id. Replacing an existing id never
// triggers eviction; only a new id arriving at capacity does.
func (s *MemoryStore) Put(id string, rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; !exists && len(s.entries) >= s.maxEntries {
		s.evictOldestLocked()
	}
	s.entries[id] = rec
}

// Get returns a snapshot of the record for id. Records are stored by value,
// so the caller cannot observe a half-written entry.
func (s *MemoryStore) Get(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.entries[id]
	return rec, ok
}

// Len reports the current number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// EvictOldest removes the record with the smallest timestamp.
func (s *MemoryStore) EvictOldest() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictOldestLocked()
}

// evictOldestLocked scans for the minimum-timestamp entry and deletes it.
// Equal timestamps are broken by lexicographically smallest id so eviction
// is deterministic under burst load.
func (s *MemoryStore) evictOldestLocked() {
	var (
		oldestID string
		oldestTS time.Time
		found    bool
	)
	for id, rec := range s.entries {
		switch {
		case !found,
			rec.Timestamp.Before(oldestTS),
			rec.Timestamp.Equal(oldestTS) && id < oldestID:
			oldestID = id
			oldestTS = rec.Timestamp
			found = true
		}
	}
	if found {
		delete(s.entries, oldestID)
	}
}

// Sweep removes every record older than cutoff. The scan snapshots ids and
// timestamps under a read lock first, then deletes stale entries one at a
// time, re-checking each, so a large store is never blocked for a full scan.
func (s *MemoryStore) Sweep(cutoff time.Time) int {
	type stamped struct {
		id string
		ts time.Time
	}

	s.mu.RLock()
	stale := make([]stamped, 0)
	for id, rec := range s.entries {
		if rec.Timestamp.Before(cutoff) {
			stale = append(stale, stamped{id: id, ts: rec.Timestamp})
		}
	}
	s.mu.RUnlock()

	removed := 0
	for _, candidate := range stale {
		s.mu.Lock()
		// The record may have transitioned since the snapshot; only remove
		// it if the stale timestamp still stands.
		if rec, ok := s.entries[candidate.id]; ok && rec.Timestamp.Equal(candidate.ts) {
			delete(s.entries, candidate.id)
			removed++
		}
		s.mu.Unlock()
	}
	return removed
}
