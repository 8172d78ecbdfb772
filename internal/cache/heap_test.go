// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package cache

import (
	"reflect"
	"testing"
)

type scored struct {
	id    string
	score int
}

func byScore(a, b scored) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	return a.id < b.id
}

func TestRankHeap_KeepsBest(t *testing.T) {
	t.Parallel()

	h := NewRankHeap(3, byScore)
	for _, s := range []scored{{"a", 5}, {"b", 1}, {"c", 9}, {"d", 7}, {"e", 3}} {
		h.Push(s)
	}

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}

	got := h.Sorted()
	want := []scored{{"c", 9}, {"d", 7}, {"a", 5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sorted() = %v, want %v", got, want)
	}
}

func TestRankHeap_RejectsWeaker(t *testing.T) {
	t.Parallel()

	h := NewRankHeap(2, byScore)
	h.Push(scored{"a", 10})
	h.Push(scored{"b", 8})

	if h.Push(scored{"c", 2}) {
		t.Error("Push of weaker value into full heap should return false")
	}
	if !h.Push(scored{"d", 9}) {
		t.Error("Push of stronger value into full heap should return true")
	}
}

func TestTopK(t *testing.T) {
	t.Parallel()

	items := []scored{{"x", 2}, {"y", 2}, {"z", 4}, {"w", 0}}

	tests := []struct {
		name string
		k    int
		want []scored
	}{
		{"top two with tie break", 2, []scored{{"z", 4}, {"x", 2}}},
		{"k larger than input", 10, []scored{{"z", 4}, {"x", 2}, {"y", 2}, {"w", 0}}},
		{"unlimited", 0, []scored{{"z", 4}, {"x", 2}, {"y", 2}, {"w", 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TopK(items, tt.k, byScore); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TopK(k=%d) = %v, want %v", tt.k, got, tt.want)
			}
		})
	}

	if got := TopK([]scored{}, 3, byScore); len(got) != 0 {
		t.Errorf("TopK(empty) = %v, want empty", got)
	}
}
