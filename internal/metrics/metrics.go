// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - Interaction ingestion and preference inference
// - Interaction bus delivery
// - Trend recomputation and pattern snapshots
// - Per-user feed refreshes and the hybrid engine
// - Worker pools, API endpoints and WebSocket feeds

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderfeed_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wanderfeed_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wanderfeed_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Interaction Tracker Metrics
	InteractionsTracked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderfeed_interactions_tracked_total",
			Help: "Total number of interactions accepted by the tracker",
		},
		[]string{"type"},
	)

	InteractionBufferTrims = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wanderfeed_interaction_buffer_trims_total",
			Help: "Number of times a per-user recent interaction buffer was trimmed",
		},
	)

	PreferencesInferred = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderfeed_preferences_inferred_total",
			Help: "Preference inferences by source and outcome (insert, update, unchanged)",
		},
		[]string{"source", "outcome"},
	)

	PreferenceStoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderfeed_preference_store_errors_total",
			Help: "Preference store failures by operation",
		},
		[]string{"operation"},
	)

	// Interaction Bus Metrics
	EventsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wanderfeed_events_published_total",
			Help: "Total number of interaction events published to the bus",
		},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderfeed_events_consumed_total",
			Help: "Interaction events handled per subscriber",
		},
		[]string{"handler"},
	)

	EventsDeduplicated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wanderfeed_events_deduplicated_total",
			Help: "Interaction events dropped as redeliveries",
		},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderfeed_event_handler_errors_total",
			Help: "Interaction event handler failures per subscriber",
		},
		[]string{"handler"},
	)

	// Trend Analyzer Metrics
	TrendRecomputes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderfeed_trend_recomputes_total",
			Help: "Trend output recomputations by output (destinations, topics, patterns)",
		},
		[]string{"output"},
	)

	TrendRecomputeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wanderfeed_trend_recompute_duration_seconds",
			Help:    "Duration of trend output recomputation",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"output"},
	)

	TrendTrackedEntities = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wanderfeed_trend_tracked_entities",
			Help: "Number of destinations and topics with live counters",
		},
		[]string{"kind"},
	)

	PatternSnapshots = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderfeed_pattern_snapshots_total",
			Help: "Travel pattern snapshots written by type and result",
		},
		[]string{"pattern_type", "result"},
	)

	SnapshotSinkWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderfeed_snapshot_sink_writes_total",
			Help: "Trending snapshot exports to external caches by sink and result",
		},
		[]string{"sink", "result"},
	)

	// Feed Metrics
	FeedRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderfeed_feed_refreshes_total",
			Help: "Per-user feed updates by trigger (full, trends, topics, dismiss) and result",
		},
		[]string{"trigger", "result"},
	)

	FeedRefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wanderfeed_feed_refresh_duration_seconds",
			Help:    "Duration of per-user feed updates",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"trigger"},
	)

	FeedTrackedUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wanderfeed_feed_tracked_users",
			Help: "Number of users with a live recommendation feed",
		},
	)

	FeedSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wanderfeed_feed_size",
			Help:    "Number of entries published per feed update",
			Buckets: []float64{0, 1, 3, 5, 10, 15},
		},
	)

	// Hybrid Engine Metrics
	HybridRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderfeed_hybrid_requests_total",
			Help: "Hybrid recommendation engine calls by result (success, error, circuit_open)",
		},
		[]string{"result"},
	)

	HybridAlgorithmDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wanderfeed_hybrid_algorithm_duration_seconds",
			Help:    "Duration of individual hybrid engine algorithms",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"algorithm"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wanderfeed_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Worker Pool Metrics
	PoolTasks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderfeed_pool_tasks_total",
			Help: "Worker pool task outcomes (success, error, coalesced, rejected)",
		},
		[]string{"pool", "result"},
	)

	PoolQueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wanderfeed_pool_queue_depth",
			Help: "Keys waiting for a worker",
		},
		[]string{"pool"},
	)

	PoolTaskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wanderfeed_pool_task_duration_seconds",
			Help:    "Worker pool task run time",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"pool", "task"},
	)

	// WebSocket Metrics
	WSConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wanderfeed_websocket_connections_active",
			Help: "Current number of live feed WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wanderfeed_websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderfeed_websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordInteraction counts an accepted interaction.
func RecordInteraction(interactionType string) {
	InteractionsTracked.WithLabelValues(interactionType).Inc()
}

// RecordBufferTrim counts a recent-buffer trim.
func RecordBufferTrim() {
	InteractionBufferTrims.Inc()
}

// RecordPreferenceInference counts an inference outcome.
func RecordPreferenceInference(source, outcome string) {
	PreferencesInferred.WithLabelValues(source, outcome).Inc()
}

// RecordPreferenceStoreError counts a failed preference store call.
func RecordPreferenceStoreError(operation string) {
	PreferenceStoreErrors.WithLabelValues(operation).Inc()
}

// RecordEventPublished counts a bus publish.
func RecordEventPublished() {
	EventsPublished.Inc()
}

// RecordEventConsumed counts a handled event, or a handler failure when err is set.
func RecordEventConsumed(handler string, err error) {
	EventsConsumed.WithLabelValues(handler).Inc()
	if err != nil {
		EventHandlerErrors.WithLabelValues(handler).Inc()
	}
}

// RecordEventDeduplicated counts a dropped redelivery.
func RecordEventDeduplicated() {
	EventsDeduplicated.Inc()
}

// RecordTrendRecompute records one recomputation of a trend output.
func RecordTrendRecompute(output string, duration time.Duration) {
	TrendRecomputes.WithLabelValues(output).Inc()
	TrendRecomputeDuration.WithLabelValues(output).Observe(duration.Seconds())
}

// SetTrendTrackedEntities reports live counter set sizes.
func SetTrendTrackedEntities(destinations, topics int) {
	TrendTrackedEntities.WithLabelValues("destination").Set(float64(destinations))
	TrendTrackedEntities.WithLabelValues("topic").Set(float64(topics))
}

// RecordPatternSnapshot counts a pattern write.
func RecordPatternSnapshot(patternType string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	PatternSnapshots.WithLabelValues(patternType, result).Inc()
}

// RecordSnapshotSinkWrite counts an export to an external snapshot cache.
func RecordSnapshotSinkWrite(sink string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	SnapshotSinkWrites.WithLabelValues(sink, result).Inc()
}

// RecordFeedRefresh records a feed update.
func RecordFeedRefresh(trigger string, duration time.Duration, size int, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	FeedRefreshes.WithLabelValues(trigger, result).Inc()
	FeedRefreshDuration.WithLabelValues(trigger).Observe(duration.Seconds())
	if err == nil {
		FeedSize.Observe(float64(size))
	}
}

// SetFeedTrackedUsers reports the number of live feeds.
func SetFeedTrackedUsers(n int) {
	FeedTrackedUsers.Set(float64(n))
}

// RecordHybridRequest counts a hybrid engine call by result.
func RecordHybridRequest(result string) {
	HybridRequests.WithLabelValues(result).Inc()
}

// ObserveHybridAlgorithm records one algorithm's run time.
func ObserveHybridAlgorithm(algorithm string, duration time.Duration) {
	HybridAlgorithmDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
}

// SetCircuitBreakerState reports a breaker state (0 closed, 1 half-open, 2 open).
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordPoolTask counts a worker pool task outcome.
func RecordPoolTask(pool, result string) {
	PoolTasks.WithLabelValues(pool, result).Inc()
}

// SetPoolQueueDepth reports keys waiting in a pool.
func SetPoolQueueDepth(pool string, depth int) {
	PoolQueueDepth.WithLabelValues(pool).Set(float64(depth))
}

// ObservePoolTaskDuration records a task run time.
func ObservePoolTaskDuration(pool, task string, duration time.Duration) {
	PoolTaskDuration.WithLabelValues(pool, task).Observe(duration.Seconds())
}

// TrackWSConnection adjusts the active WebSocket connection gauge.
func TrackWSConnection(inc bool) {
	if inc {
		WSConnectionsActive.Inc()
	} else {
		WSConnectionsActive.Dec()
	}
}

// RecordWSMessageSent counts an outbound WebSocket message.
func RecordWSMessageSent() {
	WSMessagesSent.Inc()
}

// RecordWSError counts a WebSocket failure by type.
func RecordWSError(errorType string) {
	WSErrors.WithLabelValues(errorType).Inc()
}
