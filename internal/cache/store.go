// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package cache

import (
	"hash/fnv"
	"sort"
	"sync"
)

// DefaultShards is used when NewSharded is given a non-positive shard count.
const DefaultShards = 32

// shard is one lock domain of a Sharded store.
type shard[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

// Sharded is a Store split across independently locked shards so that
// writers to different keys rarely contend.
//
// Thread Safety:
//   - Safe for concurrent access from multiple goroutines
//   - Each shard uses its own sync.RWMutex
//   - Compute holds the shard write lock for the duration of fn
type Sharded[V any] struct {
	shards []*shard[V]
	mask   uint32
}

// NewSharded creates a store with n shards, rounded up to a power of two.
func NewSharded[V any](n int) *Sharded[V] {
	if n <= 0 {
		n = DefaultShards
	}
	size := 1
	for size < n {
		size <<= 1
	}

	s := &Sharded[V]{
		shards: make([]*shard[V], size),
		mask:   uint32(size - 1), //nolint:gosec // size is a small positive power of two
	}
	for i := range s.shards {
		s.shards[i] = &shard[V]{items: make(map[string]V)}
	}
	return s
}

// shardFor picks the shard for a key using FNV-1a.
func (s *Sharded[V]) shardFor(key string) *shard[V] {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key)) // hash.Hash never returns an error
	return s.shards[h.Sum32()&s.mask]
}

// Get retrieves a value.
func (s *Sharded[V]) Get(key string) (V, bool) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	v, ok := sh.items[key]
	return v, ok
}

// Set stores a value.
func (s *Sharded[V]) Set(key string, value V) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	sh.items[key] = value
	sh.mu.Unlock()
}

// Delete removes a value.
func (s *Sharded[V]) Delete(key string) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	delete(sh.items, key)
	sh.mu.Unlock()
}

// Compute atomically updates the value under key.
func (s *Sharded[V]) Compute(key string, fn func(old V, ok bool) (V, bool)) (V, bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	old, ok := sh.items[key]
	next, keep := fn(old, ok)
	if !keep {
		delete(sh.items, key)
		var zero V
		return zero, false
	}
	sh.items[key] = next
	return next, true
}

// GetOrCreate returns the existing value or stores and returns create().
func (s *Sharded[V]) GetOrCreate(key string, create func() V) V {
	sh := s.shardFor(key)

	sh.mu.RLock()
	v, ok := sh.items[key]
	sh.mu.RUnlock()
	if ok {
		return v
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()
	if v, ok := sh.items[key]; ok {
		return v
	}
	v = create()
	sh.items[key] = v
	return v
}

// Range iterates shard by shard over a copy of each shard's entries, so fn
// may safely call back into the store.
func (s *Sharded[V]) Range(fn func(key string, value V) bool) {
	for _, sh := range s.shards {
		sh.mu.RLock()
		keys := make([]string, 0, len(sh.items))
		values := make([]V, 0, len(sh.items))
		for k, v := range sh.items {
			keys = append(keys, k)
			values = append(values, v)
		}
		sh.mu.RUnlock()

		for i := range keys {
			if !fn(keys[i], values[i]) {
				return
			}
		}
	}
}

// Keys returns all keys sorted ascending.
// DETERMINISM: callers iterate users and counters in a stable order.
func (s *Sharded[V]) Keys() []string {
	keys := make([]string, 0, s.Len())
	for _, sh := range s.shards {
		sh.mu.RLock()
		for k := range sh.items {
			keys = append(keys, k)
		}
		sh.mu.RUnlock()
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries across all shards.
func (s *Sharded[V]) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.items)
		sh.mu.RUnlock()
	}
	return n
}

// Clear removes all entries.
func (s *Sharded[V]) Clear() {
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.items = make(map[string]V)
		sh.mu.Unlock()
	}
}
