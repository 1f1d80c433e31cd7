package geo

import (
	"context"
	"sync"

	"github.com/couchcryptid/sealevel-dashboard/internal/domain"
	"github.com/couchcryptid/sealevel-dashboard/internal/observability"
)

// Source is a boundary source that can be cached.
type Source interface {
	domain.BoundarySource
	Label() string
	Key() string
}

// Cache is an in-memory LRU of loaded boundary sets shared by CachedSources.
type Cache struct {
	lru *lruCache
}

// NewCache creates a cache holding at most maxEntries boundary sets.
func NewCache(maxEntries int) *Cache {
	return &Cache{lru: newLRUCache(maxEntries)}
}

// CachedSource wraps a Source so that it is loaded at most once while cached.
type CachedSource struct {
	inner   Source
	cache   *Cache
	metrics *observability.Metrics

	// mu serializes loads of the same source so concurrent callers share one fetch.
	mu sync.Mutex
}

// NewCachedSource creates a cache decorator around a boundary source.
func NewCachedSource(inner Source, cache *Cache, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{inner: inner, cache: cache, metrics: metrics}
}

// Label returns the wrapped source's label.
func (c *CachedSource) Label() string { return c.inner.Label() }

// Key returns the wrapped source's key.
func (c *CachedSource) Key() string { return c.inner.Key() }

// LoadBoundaries returns the cached set or loads it from the wrapped source.
// Failed loads are not cached.
func (c *CachedSource) LoadBoundaries(ctx context.Context) (domain.BoundarySet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.inner.Key()
	if set, ok := c.cache.lru.get(key); ok {
		c.metrics.BoundaryCache.WithLabelValues(c.inner.Label(), "hit").Inc()
		return set, nil
	}
	c.metrics.BoundaryCache.WithLabelValues(c.inner.Label(), "miss").Inc()

	set, err := c.inner.LoadBoundaries(ctx)
	if err != nil {
		return domain.BoundarySet{}, err
	}
	c.cache.lru.put(key, set)
	return set, nil
}

// lruCache is a simple thread-safe LRU cache of BoundarySets.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.BoundarySet
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.BoundarySet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.BoundarySet{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.BoundarySet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
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
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
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

func (c *lruCache) remove(e *entry) {
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

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
