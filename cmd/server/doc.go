// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

/*
Package main is the entry point for the Wanderfeed server.

Wanderfeed tracks travel interactions, infers user preferences from them,
ranks trending destinations and topics, and keeps a live recommendation
feed per user that merges a hybrid recommender with current trends.

# Application Architecture

	RootSupervisor ("wanderfeed")
	├── DataSupervisor ("data-layer")
	│   ├── Interaction bus (watermill; NATS JetStream with -tags nats)
	│   └── Feed refresh worker pool
	├── ProcessingSupervisor ("processing-layer")
	│   ├── Feed recommender (follows trending snapshots)
	│   └── Trend maintenance (cron)
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocket hub
	└── APISupervisor ("api-layer")
	    └── HTTP server

Every interaction accepted by POST /api/v1/interactions is published once
and consumed independently by preference inference, the trend analyzer and
the feed recommender.

# Configuration

Defaults, then an optional YAML file (CONFIG_PATH), then environment
variables. Commonly set:

	HTTP_PORT=8086
	STORE_BACKEND=badger BADGER_PATH=/data/wanderfeed/badger
	PATTERN_STORE_BACKEND=duckdb DUCKDB_PATH=/data/wanderfeed/patterns.duckdb
	REDIS_ENABLED=true REDIS_ADDR=redis:6379
	EVENTS_TRANSPORT=nats NATS_URL=nats://nats:4222
	RECOMMEND_ALGORITHMS=collaborative,content

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for up
to 10s, the bus waits for in-flight handlers, then the stores are closed.
*/
package main
