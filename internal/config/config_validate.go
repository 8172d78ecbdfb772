// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validate checks that the configuration is usable and reports the first problem found.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateLogging,
		c.validateTracker,
		c.validateTrends,
		c.validateFeed,
		c.validateRecommend,
		c.validateStore,
		c.validateEvents,
		c.validateRedis,
		c.validateWebSocket,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if !c.Server.RateLimitDisabled {
		if c.Server.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQS must be at least 1, got %d", c.Server.RateLimitReqs)
		}
		if c.Server.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if !validLogFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func (c *Config) validateTracker() error {
	t := c.Tracker
	if t.RecentRetain < 1 || t.RecentRetain > t.RecentCapacity {
		return fmt.Errorf("tracker.recent_retain must be between 1 and recent_capacity (%d), got %d",
			t.RecentCapacity, t.RecentRetain)
	}
	if t.CountWindow <= 0 {
		return fmt.Errorf("TRACKER_COUNT_WINDOW must be positive")
	}
	if t.ViewThreshold < 1 || t.ClickThreshold < 1 {
		return fmt.Errorf("tracker view and click thresholds must be at least 1")
	}
	return nil
}

func (c *Config) validateTrends() error {
	t := c.Trends
	if t.DestinationInterval <= 0 || t.TopicInterval <= 0 || t.PatternInterval <= 0 {
		return fmt.Errorf("trend recompute intervals must be positive")
	}
	if t.Limit < 1 {
		return fmt.Errorf("TRENDS_LIMIT must be at least 1, got %d", t.Limit)
	}
	if t.Retain < 1 {
		return fmt.Errorf("trends.retain must be at least 1, got %d", t.Retain)
	}
	if _, err := cron.ParseStandard(t.MaintenanceSchedule); err != nil {
		return fmt.Errorf("TRENDS_MAINTENANCE_SCHEDULE %q: %w", t.MaintenanceSchedule, err)
	}
	return nil
}

func (c *Config) validateFeed() error {
	f := c.Feed
	if f.MaxSize < 1 {
		return fmt.Errorf("FEED_MAX_SIZE must be at least 1, got %d", f.MaxSize)
	}
	if f.HybridCount < 0 || f.TrendCount < 0 || f.TopicCount < 0 {
		return fmt.Errorf("feed source counts must not be negative")
	}
	if f.StaleAfter <= 0 {
		return fmt.Errorf("FEED_STALE_AFTER must be positive")
	}
	if f.Workers < 1 || f.QueueSize < 1 {
		return fmt.Errorf("FEED_WORKERS and FEED_QUEUE_SIZE must be at least 1")
	}
	if f.HybridRate <= 0 || f.HybridBurst < 1 {
		return fmt.Errorf("FEED_HYBRID_RATE must be positive and FEED_HYBRID_BURST at least 1")
	}
	if f.Retain < 1 {
		return fmt.Errorf("feed.retain must be at least 1, got %d", f.Retain)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if len(r.Algorithms) == 0 {
		return fmt.Errorf("RECOMMEND_ALGORITHMS must name at least one algorithm")
	}
	for _, alg := range r.Algorithms {
		if alg != AlgorithmCollaborative && alg != AlgorithmContent {
			return fmt.Errorf("RECOMMEND_ALGORITHMS: unknown algorithm %q", alg)
		}
	}
	if r.AlgorithmTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_ALGORITHM_TIMEOUT must be positive")
	}
	if r.MinSimilarity < 0 || r.MinSimilarity >= 1 {
		return fmt.Errorf("recommend.min_similarity must be in [0, 1), got %v", r.MinSimilarity)
	}
	if r.LikedThreshold < 0 || r.LikedThreshold >= 1 {
		return fmt.Errorf("recommend.liked_threshold must be in [0, 1), got %v", r.LikedThreshold)
	}
	if r.BreakerFailureThreshold < 1 {
		return fmt.Errorf("RECOMMEND_BREAKER_FAILURE_THRESHOLD must be at least 1")
	}
	return nil
}

func (c *Config) validateStore() error {
	s := c.Store
	switch s.Backend {
	case "memory":
	case "badger":
		if s.BadgerPath == "" {
			return fmt.Errorf("BADGER_PATH is required when STORE_BACKEND=badger")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be one of: memory, badger")
	}
	switch s.PatternBackend {
	case "memory":
	case "duckdb":
		if s.DuckDBPath == "" {
			return fmt.Errorf("DUCKDB_PATH is required when PATTERN_STORE_BACKEND=duckdb")
		}
	default:
		return fmt.Errorf("PATTERN_STORE_BACKEND must be one of: memory, duckdb")
	}
	if s.Shards < 1 {
		return fmt.Errorf("STORE_SHARDS must be at least 1, got %d", s.Shards)
	}
	return nil
}

func (c *Config) validateEvents() error {
	e := c.Events
	switch e.Transport {
	case "memory":
	case "nats":
		if e.NATSURL == "" {
			return fmt.Errorf("NATS_URL is required when EVENTS_TRANSPORT=nats")
		}
	default:
		return fmt.Errorf("EVENTS_TRANSPORT must be one of: memory, nats")
	}
	if e.Topic == "" {
		return fmt.Errorf("EVENTS_TOPIC must not be empty")
	}
	if e.BufferSize < 1 {
		return fmt.Errorf("EVENTS_BUFFER_SIZE must be at least 1, got %d", e.BufferSize)
	}
	if e.RetryCount < 0 {
		return fmt.Errorf("EVENTS_RETRY_COUNT must not be negative")
	}
	if e.DeduplicationSize < 1 || e.DeduplicationTTL <= 0 {
		return fmt.Errorf("event deduplication size and TTL must be positive")
	}
	return nil
}

func (c *Config) validateRedis() error {
	if !c.Redis.Enabled {
		return nil
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required when REDIS_ENABLED=true")
	}
	if c.Redis.TTL <= 0 {
		return fmt.Errorf("REDIS_TTL must be positive")
	}
	return nil
}

func (c *Config) validateWebSocket() error {
	w := c.WebSocket
	if w.PongWait <= 0 || w.WriteWait <= 0 {
		return fmt.Errorf("websocket write and pong waits must be positive")
	}
	if w.PingPeriod <= 0 || w.PingPeriod >= w.PongWait {
		return fmt.Errorf("WS_PING_PERIOD must be positive and shorter than WS_PONG_WAIT")
	}
	if w.SendBuffer < 1 {
		return fmt.Errorf("websocket.send_buffer must be at least 1")
	}
	return nil
}
