// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

/*
Package config loads Wanderfeed configuration with Koanf v2.

Sources are layered: built-in defaults, an optional YAML file, then
environment variables. Environment variables are mapped explicitly, for
example:

	HTTP_PORT=8086
	LOG_LEVEL=debug
	STORE_BACKEND=badger BADGER_PATH=/data/badger
	PATTERN_STORE_BACKEND=duckdb DUCKDB_PATH=/data/patterns.duckdb
	EVENTS_TRANSPORT=nats NATS_URL=nats://nats:4222
	REDIS_ENABLED=true REDIS_ADDR=redis:6379
	TRENDS_MAINTENANCE_SCHEDULE="@every 30s"

A YAML file uses the koanf keys:

	feed:
	  max_size: 15
	  stale_after: 5m
	trends:
	  destination_interval: 5m
*/
package config
