// internal/cache/lru.go
//
// Small LRU cache with per-entry expiry, used to remember canonical
// journal lookups between validation runs.  Safe for concurrent use; good
// for a few thousand entries.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRU is a least-recently-used cache keyed by string.
type LRU[V any] struct {
	mu   sync.Mutex
	cap  int
	ttl  time.Duration // zero means entries never expire
	now  func() time.Time
	ll   *list.List
	dict map[string]*list.Element
}

type pair[V any] struct {
	key string
	val V
	exp time.Time
}

// New returns an LRU with the given capacity and TTL.  Panics on
// capacity < 1.
func New[V any](capacity int, ttl time.Duration) *LRU[V] {
	if capacity < 1 {
		panic("cache: capacity must be ≥1")
	}
	return &LRU[V]{
		cap:  capacity,
		ttl:  ttl,
		now:  time.Now,
		ll:   list.New(),
		dict: make(map[string]*list.Element, capacity),
	}
}

// Get retrieves a live value and marks it MRU.  Expired entries are
// dropped on access.
func (c *LRU[V]) Get(key string) (val V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ele, hit := c.dict[key]
	if !hit {
		return val, false
	}
	p := ele.Value.(pair[V])
	if c.ttl > 0 && c.now().After(p.exp) {
		c.ll.Remove(ele)
		delete(c.dict, key)
		return val, false
	}
	c.ll.MoveToFront(ele)
	return p.val, true
}

// Add inserts or updates a value.
func (c *LRU[V]) Add(key string, val V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := pair[V]{key: key, val: val, exp: c.now().Add(c.ttl)}
	if ele, hit := c.dict[key]; hit {
		ele.Value = p
		c.ll.MoveToFront(ele)
		return
	}
	c.dict[key] = c.ll.PushFront(p)
	if c.ll.Len() > c.cap {
		last := c.ll.Back()
		c.ll.Remove(last)
		delete(c.dict, last.Value.(pair[V]).key)
	}
}

// Len reports current size, expired entries included.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
