// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package trends

import (
	"strings"
	"sync/atomic"
)

// Window is a trend counting window.
type Window int

const (
	Hour Window = iota
	Day
	Week
	Month

	windowCount
)

func (w Window) String() string {
	switch w {
	case Hour:
		return "hour"
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	default:
		return "unknown"
	}
}

// Counts holds one counter per window. Each counter is updated atomically;
// a reader may observe an increment in one window but not yet in another.
type Counts struct {
	windows [windowCount]atomic.Int64
}

// Increment adds one to every window.
func (c *Counts) Increment() {
	for i := range c.windows {
		c.windows[i].Add(1)
	}
}

// Get returns the current value of window w.
func (c *Counts) Get(w Window) int64 {
	return c.windows[w].Load()
}

// Set overwrites window w.
func (c *Counts) Set(w Window, v int64) {
	c.windows[w].Store(v)
}

// Age decays the short windows: hour halves, day keeps 80%, week keeps 90%.
// Results are truncated toward zero. Month is not aged.
func (c *Counts) Age() {
	update(&c.windows[Hour], func(v int64) int64 { return v / 2 })
	update(&c.windows[Day], func(v int64) int64 { return int64(float64(v) * 0.8) })
	update(&c.windows[Week], func(v int64) int64 { return int64(float64(v) * 0.9) })
}

// Score weights recent activity: hour*10 + day*3 + week.
func (c *Counts) Score() int64 {
	return Score(c.Get(Hour), c.Get(Day), c.Get(Week))
}

// Score is the trending score for the given window counts.
func Score(hour, day, week int64) int64 {
	return hour*10 + day*3 + week
}

func update(v *atomic.Int64, fn func(int64) int64) {
	for {
		old := v.Load()
		if v.CompareAndSwap(old, fn(old)) {
			return
		}
	}
}

func newCounts() *Counts {
	return &Counts{}
}

// topicKey joins type and value with the ASCII unit separator.
func topicKey(topicType, value string) string {
	return topicType + "\x1f" + value
}

func splitTopicKey(key string) (topicType, value string) {
	topicType, value, _ = strings.Cut(key, "\x1f")
	return topicType, value
}
