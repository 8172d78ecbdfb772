// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package cache

import (
	"sync"
	"testing"
	"time"
)

func TestLRUCache_IsDuplicate(t *testing.T) {
	t.Parallel()

	c := NewLRUCache(10, time.Minute)

	if c.IsDuplicate("evt-1") {
		t.Error("first sighting should not be a duplicate")
	}
	if !c.IsDuplicate("evt-1") {
		t.Error("second sighting should be a duplicate")
	}

	hits, misses, size := c.Stats()
	if hits != 1 || misses != 1 || size != 1 {
		t.Errorf("Stats() = %d, %d, %d; want 1, 1, 1", hits, misses, size)
	}
}

func TestLRUCache_Eviction(t *testing.T) {
	t.Parallel()

	c := NewLRUCache(3, time.Minute)
	c.IsDuplicate("a")
	c.IsDuplicate("b")
	c.IsDuplicate("c")

	// touch a so b becomes least recently used
	c.IsDuplicate("a")
	c.IsDuplicate("d")

	if c.Contains("b") {
		t.Error("expected b to be evicted")
	}
	for _, k := range []string{"a", "c", "d"} {
		if !c.Contains(k) {
			t.Errorf("expected %s to be present", k)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestLRUCache_Expiration(t *testing.T) {
	t.Parallel()

	c := NewLRUCache(10, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.IsDuplicate("k")
	now = now.Add(2 * time.Minute)

	if c.Contains("k") {
		t.Error("expired key should not be contained")
	}
	if c.IsDuplicate("k") {
		t.Error("expired key should not be reported as duplicate")
	}
}

func TestLRUCache_Remove(t *testing.T) {
	t.Parallel()

	c := NewLRUCache(10, time.Minute)
	c.IsDuplicate("k")

	if !c.Remove("k") {
		t.Error("Remove(k) = false, want true")
	}
	if c.Remove("k") {
		t.Error("second Remove(k) = true, want false")
	}
}

func TestLRUCache_Concurrent(t *testing.T) {
	t.Parallel()

	c := NewLRUCache(100, time.Minute)
	var wg sync.WaitGroup
	var mu sync.Mutex
	firsts := 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !c.IsDuplicate("shared") {
				mu.Lock()
				firsts++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if firsts != 1 {
		t.Errorf("exactly one caller should see a first sighting, got %d", firsts)
	}
}
