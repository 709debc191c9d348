package pipeline

import (
	"context"
	"sync"

	"github.com/couchcryptid/uwg-schema/internal/observability"
)

// ReportValidator produces a report for a raw payload.
type ReportValidator interface {
	Validate(payload []byte) (Report, error)
}

// CachedValidator wraps a ReportValidator with an in-memory LRU cache keyed
// by payload hash. Validation is a pure function of the payload, so a hit
// only needs a fresh timestamp.
type CachedValidator struct {
	inner   ReportValidator
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedValidator creates a cache decorator around a validator.
func NewCachedValidator(inner ReportValidator, maxEntries int, metrics *observability.Metrics) *CachedValidator {
	return &CachedValidator{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedValidator) Transform(_ context.Context, sub Submission) (Report, error) {
	return c.Validate(sub.Value)
}

func (c *CachedValidator) Validate(payload []byte) (Report, error) {
	key := ReportID(payload)
	if report, ok := c.cache.get(key); ok {
		c.metrics.ValidationCache.WithLabelValues("hit").Inc()
		report.ValidatedAt = clock.Now().UTC()
		return report, nil
	}
	c.metrics.ValidationCache.WithLabelValues("miss").Inc()

	report, err := c.inner.Validate(payload)
	if err != nil {
		return report, err
	}
	c.cache.put(key, report)
	return report, nil
}

// lruCache is a simple thread-safe LRU cache of reports.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value Report
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Report{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.pushFront(e)

	for len(c.entries) > c.maxEntries {
		c.evictOldest()
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.unlink(e)
	c.pushFront(e)
}

func (c *lruCache) pushFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) unlink(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictOldest() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.unlink(c.tail)
}
