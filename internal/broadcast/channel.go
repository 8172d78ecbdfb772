// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

// Package broadcast provides a multi-subscriber publish channel in which every
// subscriber reads through its own cursor.
//
// A Channel retains the last N published values in a ring. Publishing never
// blocks: a subscriber that falls more than N values behind skips ahead to the
// oldest retained value and is told how many it missed. Latest() gives
// state-holder semantics (the current trending list, the current feed) while
// Subscribe()/Next() give per-subscriber FIFO delivery.
package broadcast

import (
	"context"
	"errors"
	"sync"
)

// DefaultRetain is the ring size used when New is given a non-positive value.
const DefaultRetain = 16

// ErrClosed is returned by Next once the channel is closed and the
// subscriber has consumed every retained value.
var ErrClosed = errors.New("broadcast channel closed")

// Start selects where a new subscription begins reading.
type Start int

const (
	// StartLatest delivers the current value (if any) first, then every
	// later publish.
	StartLatest Start = iota

	// StartNext delivers only values published after subscribing.
	StartNext
)

// Message is one delivered value.
type Message[T any] struct {
	// Seq is the publish sequence number, starting at 1.
	Seq uint64

	// Missed counts values skipped because the subscriber lagged
	// beyond the retained window since its previous read.
	Missed uint64

	Value T
}

type entry[T any] struct {
	seq   uint64
	value T
}

// Channel is a bounded broadcast log. The zero value is not usable; call New.
type Channel[T any] struct {
	mu     sync.Mutex
	ring   []entry[T]
	next   uint64 // next sequence number to assign
	notify chan struct{}
	closed bool
	subs   int
}

// New creates a channel retaining the last retain values.
func New[T any](retain int) *Channel[T] {
	if retain <= 0 {
		retain = DefaultRetain
	}
	return &Channel[T]{
		ring:   make([]entry[T], retain),
		next:   1,
		notify: make(chan struct{}),
	}
}

// Publish appends a value and wakes every waiting subscriber. Publishing to
// a closed channel is a no-op and returns 0.
func (c *Channel[T]) Publish(v T) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.publishLocked(v)
}

// Update publishes fn(latest, ok) atomically with respect to other
// publishers. fn runs with the channel locked and must not call back into it.
func (c *Channel[T]) Update(fn func(current T, ok bool) T) (T, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, _, ok := c.latestLocked()
	v := fn(current, ok)
	return v, c.publishLocked(v)
}

func (c *Channel[T]) publishLocked(v T) uint64 {
	if c.closed {
		return 0
	}
	seq := c.next
	c.ring[seq%uint64(len(c.ring))] = entry[T]{seq: seq, value: v}
	c.next++

	close(c.notify)
	c.notify = make(chan struct{})
	return seq
}

// Latest returns the most recently published value and its sequence.
// ok is false if nothing has been published yet.
func (c *Channel[T]) Latest() (value T, seq uint64, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latestLocked()
}

func (c *Channel[T]) latestLocked() (T, uint64, bool) {
	if c.next == 1 {
		var zero T
		return zero, 0, false
	}
	e := c.ring[(c.next-1)%uint64(len(c.ring))]
	return e.value, e.seq, true
}

// Version returns the sequence of the latest value, 0 if none.
func (c *Channel[T]) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next - 1
}

// Subscribers returns the number of open subscriptions.
func (c *Channel[T]) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subs
}

// Close wakes all subscribers. Values already retained are still delivered;
// after that Next returns ErrClosed.
func (c *Channel[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.notify)
}

// oldestLocked returns the smallest sequence still retained.
func (c *Channel[T]) oldestLocked() uint64 {
	size := uint64(len(c.ring))
	if c.next <= size {
		return 1
	}
	return c.next - size
}

// Subscribe opens a new cursor on the channel.
func (c *Channel[T]) Subscribe(start Start) *Subscription[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	cursor := c.next
	if start == StartLatest && c.next > 1 {
		cursor = c.next - 1
	}
	c.subs++
	return &Subscription[T]{ch: c, cursor: cursor}
}

// Subscription is one reader's cursor into a Channel. A Subscription must
// not be shared between goroutines.
type Subscription[T any] struct {
	ch     *Channel[T]
	cursor uint64 // next sequence to read
	done   bool
}

// Cursor returns the next sequence this subscription will read.
func (s *Subscription[T]) Cursor() uint64 {
	return s.cursor
}

// Next blocks until a value is available, the context ends, or the channel
// is closed and drained.
func (s *Subscription[T]) Next(ctx context.Context) (Message[T], error) {
	c := s.ch
	for {
		c.mu.Lock()
		var missed uint64
		if oldest := c.oldestLocked(); s.cursor < oldest {
			missed = oldest - s.cursor
			s.cursor = oldest
		}

		if s.cursor < c.next {
			e := c.ring[s.cursor%uint64(len(c.ring))]
			s.cursor++
			c.mu.Unlock()
			return Message[T]{Seq: e.seq, Missed: missed, Value: e.value}, nil
		}

		if c.closed {
			c.mu.Unlock()
			return Message[T]{}, ErrClosed
		}

		wait := c.notify
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return Message[T]{}, ctx.Err()
		case <-wait:
		}
	}
}

// TryNext returns the next value without blocking. ok is false when the
// subscriber is caught up.
func (s *Subscription[T]) TryNext() (msg Message[T], ok bool) {
	c := s.ch
	c.mu.Lock()
	defer c.mu.Unlock()

	var missed uint64
	if oldest := c.oldestLocked(); s.cursor < oldest {
		missed = oldest - s.cursor
		s.cursor = oldest
	}
	if s.cursor >= c.next {
		return Message[T]{}, false
	}
	e := c.ring[s.cursor%uint64(len(c.ring))]
	s.cursor++
	return Message[T]{Seq: e.seq, Missed: missed, Value: e.value}, true
}

// Close releases the subscription. It is safe to call more than once.
func (s *Subscription[T]) Close() {
	if s.done {
		return
	}
	s.done = true
	s.ch.mu.Lock()
	s.ch.subs--
	s.ch.mu.Unlock()
}
