// Package cache layers TTL and key validation over the persisted store.
// A read is served only when the entry is younger than its TTL and was
// stored under the same query key; anything else is treated as absent.
package cache

import (
	"encoding/json"
	"time"

	"github.com/aalrahma/salah-widget/internal/store"
)

// Store keys for the widget's three caches.
const (
	LocationKey = "location"
	TimingsKey  = "timings"
	WeatherKey  = "weather"
)

// TTLs enforced by the cache layer. The store itself never expires values.
const (
	LocationTTL = 30 * time.Minute
	WeatherTTL  = 30 * time.Minute
)

// Entry wraps a cached payload with the metadata needed for validation.
type Entry[T any] struct {
	Payload  T         `json:"payload"`
	StoredAt time.Time `json:"stored_at"`
	Key      string    `json:"key"`
}

// Cache validates stored entries against TTL and query key.
// The clock is injectable for TTL boundary tests.
type Cache struct {
	store store.Store
	now   func() time.Time
}

// New creates a Cache over the given store.
func New(s store.Store) *Cache {
	return &Cache{store: s, now: time.Now}
}

// SetClock overrides the cache's time source. Tests only.
func (c *Cache) SetClock(now func() time.Time) {
	c.now = now
}

// Remove drops the entry under storeKey.
func (c *Cache) Remove(storeKey string) error {
	return c.store.Remove(storeKey)
}

// Load reads the entry under storeKey and validates it: the stored query
// key must equal queryKey and, when ttl > 0, the entry must be younger
// than ttl. Invalid or unreadable entries report absence.
func Load[T any](c *Cache, storeKey, queryKey string, ttl time.Duration) (T, bool) {
	var zero T

	data, ok := c.store.Get(storeKey)
	if !ok {
		return zero, false
	}

	var entry Entry[T]
	if err := json.Unmarshal(data, &entry); err != nil {
		return zero, false
	}

	if entry.Key != queryKey {
		return zero, false
	}
	if ttl > 0 && c.now().Sub(entry.StoredAt) > ttl {
		return zero, false
	}

	return entry.Payload, true
}

// Save writes payload under storeKey, stamped with queryKey and the
// current time.
func Save[T any](c *Cache, storeKey, queryKey string, payload T) error {
	entry := Entry[T]{
		Payload:  payload,
		StoredAt: c.now(),
		Key:      queryKey,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return c.store.Set(storeKey, data)
}
