package expand

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// firstCache memoizes First lookups. Expansion is pure for a given record and
// seed, so entries never go stale; the cache is bounded by entry count only.
type firstCache struct {
	mu      sync.RWMutex
	entries map[string]firstEntry
	max     int
}

type firstEntry struct {
	t  time.Time
	ok bool
}

func newFirstCache(max int) *firstCache {
	return &firstCache{entries: make(map[string]firstEntry), max: max}
}

func cacheKey(rec string, start time.Time) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d", rec, start.Unix())
	return fmt.Sprintf("%x", h.Sum(nil))
}

func (c *firstCache) get(rec string, start time.Time) (time.Time, bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, hit := c.entries[cacheKey(rec, start)]
	return e.t, e.ok, hit
}

func (c *firstCache) put(rec string, start time.Time, t time.Time, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.max {
		for k := range c.entries {
			delete(c.entries, k)
			break
		}
	}
	c.entries[cacheKey(rec, start)] = firstEntry{t: t, ok: ok}
}
