// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package cache

// RankHeap keeps the best K values seen so far, where "best" is defined by
// the better function. Internally it is a min-heap on better, so the root is
// the weakest retained value and is the one replaced when a stronger value
// arrives.
//
// It provides O(log k) Push and O(k log k) Sorted.
//
// This is used for:
//   - Top-20 trending destination and topic lists
//   - Top-K candidate selection in the hybrid recommender
//
// RankHeap is not safe for concurrent use; callers build one per ranking pass.
type RankHeap[T any] struct {
	heap   []T
	limit  int
	better func(a, b T) bool
}

// NewRankHeap creates a heap retaining at most limit values (0 = unlimited).
// better(a, b) must report whether a ranks strictly ahead of b and should
// break ties deterministically.
func NewRankHeap[T any](limit int, better func(a, b T) bool) *RankHeap[T] {
	capacity := limit
	if capacity <= 0 {
		capacity = 16
	}
	return &RankHeap[T]{
		heap:   make([]T, 0, capacity),
		limit:  limit,
		better: better,
	}
}

// Push offers a value. Returns false if it was rejected because the heap is
// full and the value does not beat the weakest retained value.
func (h *RankHeap[T]) Push(v T) bool {
	if h.limit > 0 && len(h.heap) >= h.limit {
		if !h.better(v, h.heap[0]) {
			return false
		}
		h.heap[0] = v
		h.bubbleDown(0)
		return true
	}

	h.heap = append(h.heap, v)
	h.bubbleUp(len(h.heap) - 1)
	return true
}

// Len returns the number of retained values.
func (h *RankHeap[T]) Len() int {
	return len(h.heap)
}

// Sorted drains the heap and returns the retained values best first.
func (h *RankHeap[T]) Sorted() []T {
	out := make([]T, len(h.heap))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = h.pop()
	}
	return out
}

// TopK returns the best k values of items, best first, without modifying items.
func TopK[T any](items []T, k int, better func(a, b T) bool) []T {
	h := NewRankHeap(k, better)
	for _, item := range items {
		h.Push(item)
	}
	return h.Sorted()
}

// pop removes and returns the weakest value.
func (h *RankHeap[T]) pop() T {
	n := len(h.heap) - 1
	root := h.heap[0]
	h.heap[0] = h.heap[n]
	h.heap = h.heap[:n]
	if n > 0 {
		h.bubbleDown(0)
	}
	return root
}

// weaker reports whether the value at i ranks behind the value at j.
func (h *RankHeap[T]) weaker(i, j int) bool {
	return h.better(h.heap[j], h.heap[i])
}

// bubbleUp moves element at index i up to its correct position.
func (h *RankHeap[T]) bubbleUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.weaker(i, parent) {
			break
		}
		h.heap[i], h.heap[parent] = h.heap[parent], h.heap[i]
		i = parent
	}
}

// bubbleDown moves element at index i down to its correct position.
func (h *RankHeap[T]) bubbleDown(i int) {
	n := len(h.heap)
	for {
		weakest := i
		left := 2*i + 1
		right := 2*i + 2

		if left < n && h.weaker(left, weakest) {
			weakest = left
		}
		if right < n && h.weaker(right, weakest) {
			weakest = right
		}
		if weakest == i {
			break
		}

		h.heap[i], h.heap[weakest] = h.heap[weakest], h.heap[i]
		i = weakest
	}
}
