// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
are exposed at /metrics in Prometheus text format:

	curl http://localhost:8086/metrics

# Available Metrics

Pipeline:
  - wanderfeed_interactions_tracked_total{type}
  - wanderfeed_preferences_inferred_total{source,outcome}
  - wanderfeed_events_consumed_total{handler}
  - wanderfeed_trend_recomputes_total{output}
  - wanderfeed_pattern_snapshots_total{pattern_type,result}
  - wanderfeed_feed_refreshes_total{trigger,result}
  - wanderfeed_hybrid_requests_total{result}

Infrastructure:
  - wanderfeed_pool_tasks_total{pool,result}
  - wanderfeed_pool_queue_depth{pool}
  - wanderfeed_api_requests_total{method,endpoint,status_code}
  - wanderfeed_websocket_connections_active

Callers use the Record and Set helpers rather than touching collectors directly.
*/
package metrics
