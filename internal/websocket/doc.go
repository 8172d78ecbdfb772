// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

/*
Package websocket streams live recommendation feeds to browser clients.

Key Components:

  - Hub: tracks connected clients and broadcasts trending snapshots
  - Client: one connection following one user's feed
  - Message: typed envelope for everything written to a client

Each client runs three goroutines:

  - readPump: reads client messages (answers "ping" with "pong")
  - writePump: writes queued messages and keepalive pings
  - feedPump: subscribes to the user's feed channel and queues a "feed"
    message for every new version

Message Types:

  - feed: FeedUpdate with the user's current ranked recommendations
  - trending_destinations: latest trending destination list
  - trending_topics: latest trending topic list
  - ping / pong: application-level keepalive

Delivery never blocks: a client whose send buffer is full is disconnected.
Feed subscriptions start at the latest value, so a reconnecting client
always receives the current feed first; Missed on a FeedUpdate counts
versions the client skipped.

Usage:

	hub := websocket.NewHub(cfg.WebSocket, analyzer)
	go hub.Serve(ctx)

	conn, _ := upgrader.Upgrade(w, r, nil)
	client := websocket.NewClient(hub, conn, userID)
	client.Start(recommender.Recommendations(userID))
*/
package websocket
