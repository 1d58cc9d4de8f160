// Package lru provides a small thread-safe least-recently-used cache.
package lru

import (
	"container/list"
	"sync"
	"time"
)

// Cache is a fixed-size LRU cache. Entries optionally expire after a TTL.
type Cache[K comparable, V any] struct {
	size      int
	ttl       time.Duration
	now       func() time.Time
	evictList *list.List
	items     map[K]*list.Element
	mu        sync.Mutex
}

type entry[K comparable, V any] struct {
	key     K
	value   V
	expires time.Time
}

// New creates a cache holding at most size entries. A ttl of 0 disables
// expiry.
func New[K comparable, V any](size int, ttl time.Duration) *Cache[K, V] {
	if size < 1 {
		size = 1
	}
	return &Cache[K, V]{
		size:      size,
		ttl:       ttl,
		now:       time.Now,
		evictList: list.New(),
		items:     make(map[K]*list.Element),
	}
}

// Get retrieves a value and marks it most recently used
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	node, exists := c.items[key]
	if !exists {
		return zero, false
	}

	ent := node.Value.(*entry[K, V])
	if !ent.expires.IsZero() && c.now().After(ent.expires) {
		c.removeElement(node)
		return zero, false
	}

	c.evictList.MoveToFront(node)
	return ent.value, true
}

// Put adds or updates a value
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expires time.Time
	if c.ttl > 0 {
		expires = c.now().Add(c.ttl)
	}

	if node, exists := c.items[key]; exists {
		c.evictList.MoveToFront(node)
		ent := node.Value.(*entry[K, V])
		ent.value = value
		ent.expires = expires
		return
	}

	node := c.evictList.PushFront(&entry[K, V]{key: key, value: value, expires: expires})
	c.items[key] = node

	if c.evictList.Len() > c.size {
		if oldest := c.evictList.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// Delete removes a key
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, exists := c.items[key]; exists {
		c.removeElement(node)
	}
}

func (c *Cache[K, V]) removeElement(node *list.Element) {
	c.evictList.Remove(node)
	delete(c.items, node.Value.(*entry[K, V]).key)
}

// Clear removes all items from the cache
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*list.Element)
	c.evictList.Init()
}

// Len returns the number of items in the cache, expired ones included
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.evictList.Len()
}
