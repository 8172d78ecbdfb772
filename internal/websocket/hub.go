// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wanderfeed/internal/broadcast"
	"github.com/tomtom215/wanderfeed/internal/config"
	"github.com/tomtom215/wanderfeed/internal/logging"
	"github.com/tomtom215/wanderfeed/internal/metrics"
	"github.com/tomtom215/wanderfeed/internal/models"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	MessageTypeFeed                 = "feed"
	MessageTypeTrendingDestinations = "trending_destinations"
	MessageTypeTrendingTopics       = "trending_topics"
	MessageTypePing                 = "ping"
	MessageTypePong                 = "pong"
)

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// FeedUpdate is the payload of a feed message. Missed counts feed versions
// the client skipped because it fell behind.
type FeedUpdate struct {
	UserID          string                        `json:"user_id"`
	Version         uint64                        `json:"version"`
	Missed          uint64                        `json:"missed,omitempty"`
	Recommendations []models.TravelRecommendation `json:"recommendations"`
}

// TrendSource provides the trending snapshots pushed to every client.
type TrendSource interface {
	TrendingDestinations() *broadcast.Channel[[]models.TrendingDestination]
	TrendingTopics() *broadcast.Channel[[]models.TrendingTopic]
}

// Hub tracks connected clients. Feed updates are delivered per client;
// trending snapshots are broadcast to everyone.
type Hub struct {
	cfg       config.WebSocketConfig
	trends    TrendSource
	clients   map[*Client]bool
	broadcast chan Message
	mu        sync.RWMutex
}

// NewHub creates a new Hub. trends may be nil, in which case Serve only
// relays messages passed to BroadcastJSON.
func NewHub(cfg config.WebSocketConfig, trends TrendSource) *Hub {
	return &Hub{
		cfg:       cfg,
		trends:    trends,
		broadcast: make(chan Message, 256),
		clients:   make(map[*Client]bool),
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	total := len(h.clients)
	h.mu.Unlock()
	metrics.TrackWSConnection(true)
	logging.Info().Str("user_id", c.userID).Int("total_clients", total).Msg("websocket client connected")
}

// Unregister removes a client and closes its send channel. Calling it for
// a client that is already gone is a no-op.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	total := len(h.clients)
	h.mu.Unlock()
	if ok {
		metrics.TrackWSConnection(false)
		logging.Info().Str("user_id", c.userID).Int("total_clients", total).Msg("websocket client disconnected")
	}
}

// SendTo queues a message for one client without blocking. A client whose
// buffer is full is dropped.
func (h *Hub) SendTo(c *Client, message Message) bool {
	h.mu.RLock()
	if !h.clients[c] {
		h.mu.RUnlock()
		return false
	}
	select {
	case c.send <- message:
		h.mu.RUnlock()
		return true
	default:
	}
	h.mu.RUnlock()

	metrics.RecordWSError("slow_client")
	logging.Warn().Str("user_id", c.userID).Str("message_type", message.Type).Msg("websocket client too slow, disconnecting")
	h.Unregister(c)
	return false
}

// Serve relays broadcasts until ctx is cancelled, then closes every client.
// Implements suture.Service.
//
// Context cancellation is checked before each broadcast so a pending
// backlog never delays shutdown.
func (h *Hub) Serve(ctx context.Context) error {
	if h.trends != nil {
		go h.follow(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// String implements fmt.Stringer for suture logging.
func (h *Hub) String() string {
	return "websocket-hub"
}

// follow forwards every new trending snapshot as a broadcast.
func (h *Hub) follow(ctx context.Context) {
	destinations := h.trends.TrendingDestinations().Subscribe(broadcast.StartNext)
	defer destinations.Close()
	topics := h.trends.TrendingTopics().Subscribe(broadcast.StartNext)
	defer topics.Close()

	go func() {
		for {
			msg, err := topics.Next(ctx)
			if err != nil {
				return
			}
			h.BroadcastJSON(MessageTypeTrendingTopics, msg.Value)
		}
	}()

	for {
		msg, err := destinations.Next(ctx)
		if err != nil {
			return
		}
		h.BroadcastJSON(MessageTypeTrendingDestinations, msg.Value)
	}
}

// logGracefulShutdown closes all clients and logs the shutdown. ctx.Err()
// is not logged as an error since cancellation is the expected path.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// sortedClients returns the clients in connection order. Callers hold h.mu.
func (h *Hub) sortedClients() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// broadcastToClients sends a message to all connected clients in connection
// order, dropping those whose buffers are full.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var toRemove []*Client
	for _, client := range h.sortedClients() {
		select {
		case client.send <- message:
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		metrics.TrackWSConnection(false)
		metrics.RecordWSError("slow_client")
	}
}

// closeAllClients closes every connected client in connection order.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.sortedClients() {
		close(client.send)
		delete(h.clients, client)
		metrics.TrackWSConnection(false)
	}
}

// BroadcastJSON sends a JSON message to all connected clients
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	message := Message{
		Type: messageType,
		Data: data,
	}

	select {
	case h.broadcast <- message:
	default:
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
