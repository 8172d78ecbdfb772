// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

/*
Package middleware provides HTTP instrumentation middleware.

  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern
  - SlowRequests: structured warning for requests over a latency threshold

Both wrap the ResponseWriter to capture the status code. The wrapper
implements Hijack and Unwrap so WebSocket upgrades behind it can still take over the
connection.

Usage with chi:

	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.SlowRequests(time.Second, logger))
*/
package middleware
