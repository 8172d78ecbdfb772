// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package cache

// Store defines a concurrent string-keyed map.
// Components receive a Store at construction instead of holding package-level
// maps, so every tracker, analyzer and recommender instance owns its state.
//
// Usage:
//
//	var s Store[int] = NewSharded[int](16)
//	s.Compute("views", func(old int, ok bool) (int, bool) {
//	    return old + 1, true
//	})
type Store[V any] interface {
	// Get retrieves a value. Returns the value and true if present.
	Get(key string) (V, bool)

	// Set stores a value, replacing any existing one (last writer wins).
	Set(key string, value V)

	// Delete removes a value.
	Delete(key string)

	// Compute atomically replaces the value under key with the result of fn.
	// fn receives the current value and whether it existed. Returning
	// keep=false removes the key. fn runs with the key's shard locked and
	// must not call back into the store.
	Compute(key string, fn func(old V, ok bool) (V, bool)) (V, bool)

	// GetOrCreate returns the value under key, storing create() first if absent.
	GetOrCreate(key string, create func() V) V

	// Range calls fn for every entry until fn returns false. Entries added
	// or removed during iteration may or may not be observed.
	Range(fn func(key string, value V) bool)

	// Keys returns all keys in ascending order.
	Keys() []string

	// Len returns the number of entries.
	Len() int

	// Clear removes all entries.
	Clear()
}

// Verify interface implementations at compile time
var (
	_ Store[int]    = (*Sharded[int])(nil)
	_ Store[string] = (*Sharded[string])(nil)
)
