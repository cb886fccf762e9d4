package ephemeris

import (
	"sync"
	"time"
)

// Cache memoizes Provider results per (instant, body) key for the lifetime
// of one computation run. Divisional derivation, strength scoring and transit
// sampling all ask for the same instants; the upstream provider may be an
// expensive external service, so each key is resolved at most once.
type Cache struct {
	provider Provider

	mu      sync.Mutex
	entries map[cacheKey]Position
}

type cacheKey struct {
	unixNano int64
	body     Body
}

// NewCache wraps provider with per-instant memoization.
func NewCache(provider Provider) *Cache {
	return &Cache{
		provider: provider,
		entries:  make(map[cacheKey]Position),
	}
}

// Position implements Provider.
func (c *Cache) Position(t time.Time, body Body) (Position, error) {
	key := cacheKey{unixNano: t.UTC().UnixNano(), body: body}

	c.mu.Lock()
	if pos, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return pos, nil
	}
	c.mu.Unlock()

	// Errors are not cached; a transient upstream failure should not pin
	// the key for the rest of the run.
	pos, err := c.provider.Position(t, body)
	if err != nil {
		return Position{}, err
	}

	c.mu.Lock()
	c.entries[key] = pos
	c.mu.Unlock()
	return pos, nil
}

// Len returns the number of memoized entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
