package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClockedMap[V any](ttl time.Duration) (*TTLMap[V], *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := NewTTLMap[V](ttl)
	m.now = clock.now
	return m, clock
}

func TestTTLMap_ExpiresEntries(t *testing.T) {
	m, clock := newClockedMap[int](time.Minute)
	m.Set("a", 1)
	m.SetWithTTL("b", 2, 0)

	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	clock.advance(time.Minute + time.Second)
	_, ok = m.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len(), "expired entry is dropped on read")

	v, ok = m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestTTLMap_PurgeAndDelete(t *testing.T) {
	m, clock := newClockedMap[string](0)
	m.SetWithTTL("short", "x", time.Second)
	m.SetWithTTL("long", "y", time.Hour)
	m.Set("forever", "z")
	clock.advance(time.Minute)

	assert.Equal(t, 1, m.Purge())
	assert.Equal(t, 2, m.Len())
	assert.True(t, m.Delete("long"))
	assert.False(t, m.Delete("long"))

	m.SetWithTTL("stale", "w", time.Second)
	clock.advance(2 * time.Second)
	assert.False(t, m.Delete("stale"), "expired entries do not count as deleted")
}
