package store

import (
	"sync"

	"github.com/i474232898/weather-team/internal/weather"
)

// CoordinateCache is a concurrency-safe in-memory map from place name to
// coordinates. It only grows: entries are never evicted for the lifetime of
// the owning resolver.
type CoordinateCache struct {
	mu sync.RWMutex

	// key: place name exactly as the caller supplied it
	data map[string]weather.Coordinates
}

// NewCoordinateCache creates an empty cache.
func NewCoordinateCache() *CoordinateCache {
	return &CoordinateCache{
		data: make(map[string]weather.Coordinates),
	}
}

// Get returns the cached coordinates for name.
func (c *CoordinateCache) Get(name string) (weather.Coordinates, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	coords, ok := c.data[name]
	return coords, ok
}

// Put stores coords under name. Concurrent writers for the same key race
// harmlessly: the value for a given name is the same, last write wins.
func (c *CoordinateCache) Put(name string, coords weather.Coordinates) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[name] = coords
}

// Len returns the number of cached names.
func (c *CoordinateCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.data)
}
