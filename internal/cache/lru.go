// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package cache

import (
	"sync"
	"time"
)

// lruEntry is a node of the recency list.
type lruEntry struct {
	key       string
	prev      *lruEntry
	next      *lruEntry
	expiresAt time.Time
}

// LRUCache is a thread-safe, capacity-bounded set of keys with TTL, used to
// drop redelivered interaction events.
//
// Key features:
//   - O(1) IsDuplicate, Contains and Remove
//   - O(1) LRU eviction when capacity is reached
//   - Lazy TTL expiration
type LRUCache struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration
	now      func() time.Time

	items map[string]*lruEntry

	// head.next is the most recently used, tail.prev the least
	head *lruEntry
	tail *lruEntry

	hits   int64
	misses int64
}

// NewLRUCache creates a new LRU cache with the specified capacity and TTL.
func NewLRUCache(capacity int, ttl time.Duration) *LRUCache {
	if capacity <= 0 {
		capacity = 10000
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	head := &lruEntry{}
	tail := &lruEntry{}
	head.next = tail
	tail.prev = head

	return &LRUCache{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		items:    make(map[string]*lruEntry, capacity),
		head:     head,
		tail:     tail,
	}
}

// IsDuplicate reports whether key was seen within the TTL. If not, the key
// is recorded so the next call reports true.
func (c *LRUCache) IsDuplicate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if entry, ok := c.items[key]; ok {
		if now.Before(entry.expiresAt) {
			c.unlink(entry)
			c.pushFront(entry)
			c.hits++
			return true
		}
		c.remove(entry)
	}

	entry := &lruEntry{key: key, expiresAt: now.Add(c.ttl)}
	c.pushFront(entry)
	c.items[key] = entry
	for len(c.items) > c.capacity {
		c.remove(c.tail.prev)
	}

	c.misses++
	return false
}

// Contains checks for a live key without updating recency.
func (c *LRUCache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	return ok && c.now().Before(entry.expiresAt)
}

// Remove forgets a key. Returns true if it was present.
func (c *LRUCache) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[key]; ok {
		c.remove(entry)
		return true
	}
	return false
}

// Len returns the current number of entries in the cache.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns duplicate hit/miss statistics.
func (c *LRUCache) Stats() (hits, misses int64, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, len(c.items)
}

// Internal methods (must be called with lock held)

func (c *LRUCache) pushFront(entry *lruEntry) {
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
}

func (c *LRUCache) unlink(entry *lruEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
}

func (c *LRUCache) remove(entry *lruEntry) {
	if entry == c.head || entry == c.tail {
		return
	}
	c.unlink(entry)
	delete(c.items, entry.key)
}
