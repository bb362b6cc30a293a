package metadata

import (
	"container/list"
	"sync"

	"github.com/hyperjump/marquee/internal/models"
)

// Key identifies a resolution request.
type Key struct {
	ExternalID string
	Title      string
	Year       int
}

// Cache is an LRU of metadata records scoped to one session.
type Cache struct {
	capacity int
	items    map[Key]*list.Element
	lru      *list.List
	mu       sync.Mutex
}

type cacheEntry struct {
	key   Key
	value models.MetadataRecord
}

// NewCache creates a cache holding up to capacity records; capacity <= 0 means unbounded.
func NewCache(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		items:    make(map[Key]*list.Element),
		lru:      list.New(),
	}
}

// Get returns the cached record for key if present.
func (c *Cache) Get(key Key) (models.MetadataRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.lru.MoveToFront(elem)
		return elem.Value.(*cacheEntry).value, true
	}
	return models.MetadataRecord{}, false
}

// Put stores the record for key, evicting the least recently used entry if at capacity.
func (c *Cache) Put(key Key, value models.MetadataRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).value = value
		return
	}

	elem := c.lru.PushFront(&cacheEntry{key: key, value: value})
	c.items[key] = elem

	if c.capacity > 0 && c.lru.Len() > c.capacity {
		if oldest := c.lru.Back(); oldest != nil {
			c.lru.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Reset drops every record.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[Key]*list.Element)
	c.lru.Init()
}
