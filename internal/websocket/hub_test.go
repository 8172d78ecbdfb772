// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package websocket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/wanderfeed/internal/broadcast"
	"github.com/tomtom215/wanderfeed/internal/config"
	"github.com/tomtom215/wanderfeed/internal/models"
)

type stubTrends struct {
	destinations *broadcast.Channel[[]models.TrendingDestination]
	topics       *broadcast.Channel[[]models.TrendingTopic]
}

func newStubTrends() *stubTrends {
	return &stubTrends{
		destinations: broadcast.New[[]models.TrendingDestination](4),
		topics:       broadcast.New[[]models.TrendingTopic](4),
	}
}

func (s *stubTrends) TrendingDestinations() *broadcast.Channel[[]models.TrendingDestination] {
	return s.destinations
}

func (s *stubTrends) TrendingTopics() *broadcast.Channel[[]models.TrendingTopic] {
	return s.topics
}

func testConfig() config.WebSocketConfig {
	return config.Default().WebSocket
}

// createTestClient creates a registered client without a connection.
func createTestClient(hub *Hub, userID string, buffer int) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		id:     clientIDCounter.Add(1),
		userID: userID,
		hub:    hub,
		send:   make(chan Message, buffer),
		ctx:    ctx,
		cancel: cancel,
	}
	hub.Register(c)
	return c
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed")
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func TestHubRegisterUnregister(t *testing.T) {
	t.Parallel()

	hub := NewHub(testConfig(), nil)
	c := createTestClient(hub, "u1", 4)
	if got := hub.GetClientCount(); got != 1 {
		t.Fatalf("GetClientCount() = %d, want 1", got)
	}

	hub.Unregister(c)
	hub.Unregister(c)
	if got := hub.GetClientCount(); got != 0 {
		t.Errorf("GetClientCount() = %d, want 0", got)
	}
	if _, ok := <-c.send; ok {
		t.Error("send channel should be closed")
	}
	if hub.SendTo(c, Message{Type: MessageTypePong}) {
		t.Error("SendTo() to unregistered client = true")
	}
}

func TestHubSendToDropsSlowClient(t *testing.T) {
	t.Parallel()

	hub := NewHub(testConfig(), nil)
	c := createTestClient(hub, "u1", 1)

	if !hub.SendTo(c, Message{Type: MessageTypePong}) {
		t.Fatal("first SendTo() = false")
	}
	if hub.SendTo(c, Message{Type: MessageTypePong}) {
		t.Error("SendTo() with full buffer = true")
	}
	if got := hub.GetClientCount(); got != 0 {
		t.Errorf("slow client still registered: %d", got)
	}
}

func TestHubServeBroadcastsTrends(t *testing.T) {
	t.Parallel()

	trends := newStubTrends()
	hub := NewHub(testConfig(), trends)
	a := createTestClient(hub, "u1", 8)
	b := createTestClient(hub, "u2", 8)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Serve(ctx) }()

	// follow subscribes asynchronously; republish until a message arrives.
	snapshot := []models.TrendingDestination{{ID: 1, Name: "Bali", TrendingScore: 42}}
	deadline := time.After(2 * time.Second)
	var msg Message
waiting:
	for {
		trends.destinations.Publish(snapshot)
		select {
		case msg = <-a.send:
			break waiting
		case <-deadline:
			t.Fatal("trend snapshot not broadcast")
		case <-time.After(10 * time.Millisecond):
		}
	}

	if msg.Type != MessageTypeTrendingDestinations {
		t.Errorf("Type = %q, want %q", msg.Type, MessageTypeTrendingDestinations)
	}
	if got := receive(t, b); got.Type != MessageTypeTrendingDestinations {
		t.Errorf("second client got %q", got.Type)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not stop")
	}
	if got := hub.GetClientCount(); got != 0 {
		t.Errorf("clients after shutdown = %d, want 0", got)
	}
}

func TestBroadcastToClientsDropsFull(t *testing.T) {
	t.Parallel()

	hub := NewHub(testConfig(), nil)
	full := createTestClient(hub, "u1", 1)
	full.send <- Message{Type: MessageTypePong}
	ok := createTestClient(hub, "u2", 4)

	hub.broadcastToClients(Message{Type: MessageTypeTrendingTopics})

	if got := hub.GetClientCount(); got != 1 {
		t.Errorf("GetClientCount() = %d, want 1", got)
	}
	if got := receive(t, ok); got.Type != MessageTypeTrendingTopics {
		t.Errorf("Type = %q", got.Type)
	}
}

func TestGetShutdownReason(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := getShutdownReason(ctx); got != ShutdownReasonContextCanceled {
		t.Errorf("canceled = %q", got)
	}

	ctx, cancel = context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	if got := getShutdownReason(ctx); got != ShutdownReasonContextDeadline {
		t.Errorf("deadline = %q", got)
	}
}

func TestMarshalMessage(t *testing.T) {
	t.Parallel()

	data, err := MarshalMessage(Message{Type: MessageTypeFeed, Data: FeedUpdate{UserID: "u1", Version: 3}})
	if err != nil {
		t.Fatalf("MarshalMessage() error = %v", err)
	}
	want := `{"type":"feed","data":{"user_id":"u1","version":3,"recommendations":null}}`
	if string(data) != want {
		t.Errorf("MarshalMessage() = %s, want %s", data, want)
	}
}
