package cache

import (
	"container/list"
	"sync"
)

// Cache is a thread-safe LRU cache
type Cache[K comparable, V any] struct {
	capacity int
	items    map[K]*list.Element
	queue    *list.List
	mutex    sync.Mutex
}

type item[K comparable, V any] struct {
	key   K
	value V
}

// New creates a new cache with the given capacity. A capacity below one
// disables caching.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return &Cache[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element),
		queue:    list.New(),
	}
}

// Get retrieves a value from the cache
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if element, exists := c.items[key]; exists {
		c.queue.MoveToFront(element)
		return element.Value.(*item[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Set adds or updates a value in the cache
func (c *Cache[K, V]) Set(key K, value V) {
	if c.capacity < 1 {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if element, exists := c.items[key]; exists {
		c.queue.MoveToFront(element)
		element.Value.(*item[K, V]).value = value
		return
	}

	element := c.queue.PushFront(&item[K, V]{key: key, value: value})
	c.items[key] = element

	// Remove oldest item if cache is full
	if c.queue.Len() > c.capacity {
		oldest := c.queue.Back()
		if oldest != nil {
			c.queue.Remove(oldest)
			delete(c.items, oldest.Value.(*item[K, V]).key)
		}
	}
}

// Delete removes a value from the cache
func (c *Cache[K, V]) Delete(key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if element, exists := c.items[key]; exists {
		c.queue.Remove(element)
		delete(c.items, key)
	}
}

// Len returns the number of items in the cache
func (c *Cache[K, V]) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.items)
}
