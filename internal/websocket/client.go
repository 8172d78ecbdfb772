// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package websocket

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/wanderfeed/internal/broadcast"
	"github.com/tomtom215/wanderfeed/internal/logging"
	"github.com/tomtom215/wanderfeed/internal/metrics"
	"github.com/tomtom215/wanderfeed/internal/models"
)

// clientIDCounter gives clients monotonically increasing IDs so broadcasts
// iterate them in connection order.
var clientIDCounter atomic.Uint64

// Client is one WebSocket connection following one user's feed.
type Client struct {
	id     uint64
	userID string
	hub    *Hub
	conn   *websocket.Conn
	send   chan Message
	ctx    context.Context
	cancel context.CancelFunc
}

// NewClient creates a client for userID's connection.
func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	buffer := hub.cfg.SendBuffer
	if buffer <= 0 {
		buffer = 16
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		id:     clientIDCounter.Add(1),
		userID: userID,
		hub:    hub,
		conn:   conn,
		send:   make(chan Message, buffer),
		ctx:    ctx,
		cancel: cancel,
	}
}

// ID returns the client's connection-ordered identifier.
func (c *Client) ID() uint64 {
	return c.id
}

// UserID returns the user whose feed the client follows.
func (c *Client) UserID() string {
	return c.userID
}

// Start registers the client and begins streaming feed, starting with the
// feed's current value.
func (c *Client) Start(feed *broadcast.Channel[[]models.TravelRecommendation]) {
	c.hub.Register(c)
	go c.writePump()
	go c.readPump()
	go c.feedPump(feed)
}

// readPump reads client messages until the connection fails, then
// unregisters the client.
func (c *Client) readPump() {
	defer func() {
		c.cancel()
		c.hub.Unregister(c)
		_ = c.conn.Close() // best-effort cleanup
	}()

	cfg := c.hub.cfg
	c.conn.SetReadLimit(cfg.MaxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				metrics.RecordWSError("read")
				logging.Error().Err(err).Str("user_id", c.userID).Msg("unexpected websocket close error")
			}
			return
		}
		if msg.Type == MessageTypePing {
			c.hub.SendTo(c, Message{Type: MessageTypePong})
		}
	}
}

// writePump writes queued messages and keepalive pings. It exits when the
// hub closes the send channel.
func (c *Client) writePump() {
	cfg := c.hub.cfg
	ticker := time.NewTicker(cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.cancel()
		_ = c.conn.Close() // best-effort cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				metrics.RecordWSError("write")
				logging.Debug().Err(err).Str("user_id", c.userID).Msg("failed to write websocket message")
				return
			}
			metrics.RecordWSMessageSent()

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// feedPump forwards every feed version to the client until it disconnects.
func (c *Client) feedPump(feed *broadcast.Channel[[]models.TravelRecommendation]) {
	sub := feed.Subscribe(broadcast.StartLatest)
	defer sub.Close()

	for {
		msg, err := sub.Next(c.ctx)
		if err != nil {
			return
		}
		update := FeedUpdate{
			UserID:          c.userID,
			Version:         msg.Seq,
			Missed:          msg.Missed,
			Recommendations: msg.Value,
		}
		if !c.hub.SendTo(c, Message{Type: MessageTypeFeed, Data: update}) {
			return
		}
	}
}
