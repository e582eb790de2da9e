package logic

import (
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"codejudge/internal/ops"
)

// entry is the cached payload keyed by fingerprint: the reference
// histogram, its source text (to guard against fingerprint collisions),
// and the insertion time for observability.
type entry struct {
	histogram  ops.Histogram
	source     string
	language   string
	insertedAt time.Time
}

// Cache fingerprints (language, reference source) to the reference's
// extracted operation histogram, with per-entry time-to-live eviction. It
// is safe for concurrent use: the underlying expirable LRU supports
// concurrent readers and writers with last-writer-wins semantics on key
// collision, and runs its TTL sweep on a background goroutine rather than
// on the lookup path; a lookup that arrives mid-sweep waits for the lock
// that one sweep step holds.
type Cache struct {
	lru *lru.LRU[uint64, entry]
}

// NewCache builds a Reference Cache. softLimit bounds the LRU's size (the
// "soft size threshold" past which the cache starts evicting its oldest
// entries); ttl is the time-to-live after which an entry is considered
// stale even if the cache has not hit its size bound.
func NewCache(softLimit int, ttl time.Duration) *Cache {
	if softLimit <= 0 {
		softLimit = 100
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{lru: lru.NewLRU[uint64, entry](softLimit, nil, ttl)}
}

// Fingerprint computes the deterministic cache key for a (language,
// reference source) pair. Collisions are tolerated: Lookup re-checks the
// stored source bytes before returning a hit.
func Fingerprint(language, source string) uint64 {
	h := xxhash.New()
	_, _ = h.Write([]byte(language))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(source))
	return h.Sum64()
}

// Lookup returns the cached histogram for (language, source), or (nil,
// false) on a miss, including a fingerprint collision against a
// differently-sourced entry, which is treated as a miss.
func (c *Cache) Lookup(language, source string) (ops.Histogram, bool) {
	key := Fingerprint(language, source)
	e, ok := c.lru.Get(key)
	if !ok || e.language != language || e.source != source {
		return nil, false
	}
	return e.histogram, true
}

// Store inserts or overwrites the histogram for (language, source).
// Last-writer-wins on key collision.
func (c *Cache) Store(language, source string, h ops.Histogram) {
	key := Fingerprint(language, source)
	c.lru.Add(key, entry{histogram: h, source: source, language: language, insertedAt: time.Now()})
}

// Len reports the number of live entries currently held.
func (c *Cache) Len() int {
	return c.lru.Len()
}
