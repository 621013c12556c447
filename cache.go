package protect

import (
	"crypto/sha256"

	"github.com/taurushq-io/taurus-protect-sdk-sub004/rules"
)

// ContainerCache memoizes verified rule containers by exact content, so that
// a batch of envelopes sharing one container pays for its verification once.
// Create instances with NewContainerCache.
//
// A cache is meant to be scoped to one call. It is not synchronized; sharing
// one across goroutines is the caller's responsibility. Verifying the same
// container twice because of a race is wasteful but harmless.
type ContainerCache struct {
	entries map[[sha256.Size]byte]*rules.Container
	hits    int
	misses  int
}

// CacheStats reports how often a cache answered a lookup.
type CacheStats struct {
	Hits   int
	Misses int
}

// NewContainerCache returns an empty cache.
func NewContainerCache() *ContainerCache {
	return &ContainerCache{entries: make(map[[sha256.Size]byte]*rules.Container)}
}

// Lookup returns the container verified earlier for exactly these bytes.
func (c *ContainerCache) Lookup(raw []byte) (*rules.Container, bool) {
	cont, ok := c.entries[sha256.Sum256(raw)]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return cont, ok
}

// Add stores a verified container under its content hash. An existing entry
// is kept, the first verified instance stays authoritative.
func (c *ContainerCache) Add(raw []byte, cont *rules.Container) {
	key := sha256.Sum256(raw)
	if _, ok := c.entries[key]; ok {
		return
	}
	c.entries[key] = cont
}

// Stats returns the lookup counters.
func (c *ContainerCache) Stats() CacheStats {
	return CacheStats{Hits: c.hits, Misses: c.misses}
}
