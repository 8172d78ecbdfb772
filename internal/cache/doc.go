// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

/*
Package cache provides the in-memory data structures shared by the pipeline.

# Overview

  - Store / Sharded: a concurrent string-keyed map split across independently
    locked shards. Every component that needs per-user or per-entity state
    receives a Store instead of owning a package-level map.
  - RankHeap / TopK: bounded best-K selection used for trending lists and
    candidate ranking.
  - LRUCache: capacity and TTL bounded key set used for event deduplication.

# Usage Example

	prefs := cache.NewSharded[[]models.UserPreference](0)
	prefs.Set("user-1", loaded)

	top := cache.TopK(entries, 20, func(a, b Entry) bool {
	    return a.Score > b.Score
	})

# Thread Safety

Sharded and LRUCache are safe for concurrent use. RankHeap is not; build one
per ranking pass.
*/
package cache
