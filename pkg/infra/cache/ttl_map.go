package cache

import (
	"sync"
	"time"
)

type ttlEntry[V any] struct {
	value    V
	deadline time.Time
}

func (e ttlEntry[V]) liveAt(now time.Time) bool {
	return e.deadline.IsZero() || !now.After(e.deadline)
}

// TTLMap is a mutex guarded map whose entries lapse after their TTL.
// Expired entries are invisible to readers and dropped lazily or by Purge.
type TTLMap[V any] struct {
	mu         sync.RWMutex
	entries    map[string]ttlEntry[V]
	defaultTTL time.Duration
	now        func() time.Time
}

// NewTTLMap returns a map whose Set applies defaultTTL; zero keeps entries
// until deleted.
func NewTTLMap[V any](defaultTTL time.Duration) *TTLMap[V] {
	return &TTLMap[V]{
		entries:    make(map[string]ttlEntry[V]),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

func (m *TTLMap[V]) Get(key string) (V, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if ok && e.liveAt(m.now()) {
		return e.value, true
	}
	if ok {
		m.mu.Lock()
		// re-check, a concurrent Set may have refreshed it
		if cur, still := m.entries[key]; still && !cur.liveAt(m.now()) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
	}
	var zero V
	return zero, false
}

func (m *TTLMap[V]) Set(key string, value V) {
	m.SetWithTTL(key, value, m.defaultTTL)
}

func (m *TTLMap[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	e := ttlEntry[V]{value: value}
	if ttl > 0 {
		e.deadline = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
}

// Delete reports whether a live entry was removed.
func (m *TTLMap[V]) Delete(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	delete(m.entries, key)
	return ok && e.liveAt(m.now())
}

// Purge drops expired entries and returns how many went.
func (m *TTLMap[V]) Purge() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for k, e := range m.entries {
		if !e.liveAt(now) {
			delete(m.entries, k)
			n++
		}
	}
	return n
}

func (m *TTLMap[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
