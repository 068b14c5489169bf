package match

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/spigell/cv-matcher/internal/store"
)

const (
	// successTTL is how long a fully scored result may be reused.
	successTTL = 24 * time.Hour
	// degradedTTL is how long a fallback result may be reused before a retry.
	degradedTTL = time.Hour
)

// Fingerprint derives a stable cache key from the pair identity and both
// texts, so re-uploaded content invalidates the entry.
func Fingerprint(cvID, jobID uint, cvContent, jobDescription string) string {
	h := sha256.New()
	fmt.Fprintf(h, "cv:%d|job:%d|", cvID, jobID)
	fmt.Fprintf(h, "%x|", sha256.Sum256([]byte(cvContent)))
	fmt.Fprintf(h, "%x", sha256.Sum256([]byte(jobDescription)))
	return fmt.Sprintf("%x", h.Sum(nil))
}

type cacheEntry struct {
	result    store.MatchResult
	expiresAt time.Time
}

// resultCache is a TTL cache shared by all batch workers. Writes are
// last-write-wins.
type resultCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func newResultCache() *resultCache {
	return &resultCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns a copy of the cached result when present and not expired.
func (c *resultCache) Get(key string) (*store.MatchResult, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	result := entry.result
	return &result, true
}

// Set stores a copy of the result with the given TTL.
func (c *resultCache) Set(key string, result *store.MatchResult, ttl time.Duration) {
	if result == nil || ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{
		result:    *result,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

// Len reports the number of live entries, expired ones included until read.
func (c *resultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
