package llm

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// CacheEntry is one memoized generation result.
type CacheEntry struct {
	Key        string
	Value      string
	InsertedAt time.Time
}

// CacheStats reports cache performance counters.
type CacheStats struct {
	Entries   int   `json:"entries"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// Cache is a bounded, TTL-limited memo of generated text.
// Eviction is strictly by insertion time (FIFO), not by access.
type Cache struct {
	mu       sync.RWMutex
	items    map[string]*list.Element
	order    *list.List // front = oldest insertion
	capacity int
	ttl      time.Duration
	now      func() time.Time

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// CacheOption customizes a Cache.
type CacheOption func(*Cache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

// NewCache creates a cache holding at most capacity entries for ttl each.
// A capacity of zero or less disables caching.
func NewCache(capacity int, ttl time.Duration, opts ...CacheOption) *Cache {
	c := &Cache{
		items:    make(map[string]*list.Element),
		order:    list.New(),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CacheKey derives the cache key for a prompt and its sampling parameters.
func CacheKey(prompt string, maxTokens int, temperature float64) string {
	h := sha256.New()
	h.Write([]byte(prompt))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(maxTokens)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(temperature, 'g', -1, 64)))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached value for key. Finding an expired entry purges
// every expired entry and reports a miss.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	elem, ok := c.items[key]
	var entry CacheEntry
	if ok {
		entry = *elem.Value.(*CacheEntry)
	}
	c.mu.RUnlock()

	if !ok {
		c.misses.Add(1)
		return "", false
	}
	if c.expired(entry) {
		c.mu.Lock()
		c.purgeLocked()
		c.mu.Unlock()
		c.misses.Add(1)
		return "", false
	}
	c.hits.Add(1)
	return entry.Value, true
}

// Put stores value under key. Expired entries are purged first; when the
// cache is full the single oldest entry is evicted.
func (c *Cache) Put(key, value string) {
	if c.capacity <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.purgeLocked()

	if elem, ok := c.items[key]; ok {
		c.order.Remove(elem)
		delete(c.items, key)
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Front(); oldest != nil {
			c.removeLocked(oldest)
			c.evictions.Add(1)
		}
	}

	entry := &CacheEntry{Key: key, Value: value, InsertedAt: c.now()}
	c.items[key] = c.order.PushBack(entry)
}

// Purge drops all expired entries and returns how many were removed.
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.purgeLocked()
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order = list.New()
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.order.Len()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Entries:   c.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

func (c *Cache) expired(e CacheEntry) bool {
	return c.ttl > 0 && c.now().Sub(e.InsertedAt) > c.ttl
}

// purgeLocked walks from the oldest entry; insertion order equals timestamp
// order, so it stops at the first live entry.
func (c *Cache) purgeLocked() int {
	removed := 0
	for elem := c.order.Front(); elem != nil; {
		entry := elem.Value.(*CacheEntry)
		if !c.expired(*entry) {
			break
		}
		next := elem.Next()
		c.removeLocked(elem)
		removed++
		elem = next
	}
	return removed
}

func (c *Cache) removeLocked(elem *list.Element) {
	entry := c.order.Remove(elem).(*CacheEntry)
	delete(c.items, entry.Key)
}
