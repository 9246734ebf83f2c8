package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryBackendName labels metrics recorded for a MemoryStore.
const MemoryBackendName = "memory"

// DefaultMaxEntries bounds a MemoryStore when no limit is configured.
const DefaultMaxEntries = 256

// MemoryStore implements Store in process memory. Entries are evicted least
// recently used first once MaxEntries is reached. Stored datasets are
// copied on the way in and out, so callers may modify what they receive.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]*memoryEntry
	maxEntries int
	clock      uint64
	observer   Observer
	now        func() time.Time
}

type memoryEntry struct {
	entry *Entry
	// used orders entries by recency; it increases on every access.
	used uint64
}

// NewMemoryStore creates a memory store holding at most maxEntries files.
// A non-positive maxEntries selects DefaultMaxEntries.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{
		entries:    make(map[string]*memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// WithObserver registers an observer for evictions and size changes.
func (m *MemoryStore) WithObserver(o Observer) *MemoryStore {
	m.observer = o
	return m
}

// Get returns a copy of the entry under key, or nil on a miss.
func (m *MemoryStore) Get(ctx context.Context, key string) (*Entry, error) {
	if key == "" {
		return nil, fmt.Errorf("key cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	me, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	m.clock++
	me.used = m.clock
	me.entry.LastUsed = m.now()
	return me.entry.clone(), nil
}

// Put stores a copy of entry.
func (m *MemoryStore) Put(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("entry cannot be nil")
	}
	if entry.Key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	stored := entry.clone()
	now := m.now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.LastUsed = now

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[stored.Key]; !exists && len(m.entries) >= m.maxEntries {
		m.evictOldestLocked()
	}

	m.clock++
	m.entries[stored.Key] = &memoryEntry{entry: stored, used: m.clock}
	m.reportSizeLocked()
	return nil
}

// Delete removes the entry under key.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	m.reportSizeLocked()
	return nil
}

// Len returns the number of stored entries.
func (m *MemoryStore) Len(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries), nil
}

// Prune removes entries last used before olderThan.
func (m *MemoryStore) Prune(ctx context.Context, olderThan time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for key, me := range m.entries {
		if me.entry.LastUsed.Before(olderThan) {
			delete(m.entries, key)
			deleted++
			if m.observer != nil {
				m.observer.RecordCacheEviction(MemoryBackendName)
			}
		}
	}
	m.reportSizeLocked()
	return deleted, nil
}

// Clear removes every entry.
func (m *MemoryStore) Clear(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.entries)
	clear(m.entries)
	m.reportSizeLocked()
	return n, nil
}

// Stats summarizes the stored entries.
func (m *MemoryStore) Stats(ctx context.Context) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := Stats{Entries: len(m.entries)}
	for _, me := range m.entries {
		st.Bytes += me.entry.Size
		if st.OldestUse.IsZero() || me.entry.LastUsed.Before(st.OldestUse) {
			st.OldestUse = me.entry.LastUsed
		}
		if me.entry.LastUsed.After(st.NewestUse) {
			st.NewestUse = me.entry.LastUsed
		}
	}
	return st, nil
}

// Close is a no-op; the entries are released with the store.
func (m *MemoryStore) Close() error {
	return nil
}

// evictOldestLocked evicts the least recently used entry.
// Caller must hold the lock.
func (m *MemoryStore) evictOldestLocked() {
	var (
		oldestKey  string
		oldestUsed uint64
		found      bool
	)

	for key, me := range m.entries {
		if !found || me.used < oldestUsed {
			oldestKey = key
			oldestUsed = me.used
			found = true
		}
	}

	if found {
		delete(m.entries, oldestKey)
		if m.observer != nil {
			m.observer.RecordCacheEviction(MemoryBackendName)
		}
	}
}

func (m *MemoryStore) reportSizeLocked() {
	if m.observer != nil {
		m.observer.UpdateCacheSize(MemoryBackendName, len(m.entries))
	}
}
