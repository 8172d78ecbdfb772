// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
//
// Loading order (Koanf v2):
//  1. Defaults: built-in values for every setting
//  2. Config file: optional YAML (config.yaml or CONFIG_PATH)
//  3. Environment variables: mapped explicitly, highest priority
//
// Config is immutable after Load and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Tracker   TrackerConfig   `koanf:"tracker"`
	Trends    TrendsConfig    `koanf:"trends"`
	Feed      FeedConfig      `koanf:"feed"`
	Recommend RecommendConfig `koanf:"recommend"`
	Store     StoreConfig     `koanf:"store"`
	Events    EventsConfig    `koanf:"events"`
	Redis     RedisConfig     `koanf:"redis"`
	WebSocket WebSocketConfig `koanf:"websocket"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, staging, production

	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs requests per RateLimitWindow per client IP.
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json (production) or console (development).
	Format string `koanf:"format"`

	Caller bool `koanf:"caller"`
}

// TrackerConfig tunes interaction ingestion and preference inference.
type TrackerConfig struct {
	// RecentCapacity is the per-user buffer size that triggers a trim.
	RecentCapacity int `koanf:"recent_capacity"`

	// RecentRetain is how many of the newest interactions survive a trim.
	RecentRetain int `koanf:"recent_retain"`

	// CountWindow bounds how far back repeated views and clicks are counted.
	CountWindow time.Duration `koanf:"count_window"`

	ViewThreshold  int `koanf:"view_threshold"`
	ClickThreshold int `koanf:"click_threshold"`
}

// TrendsConfig tunes the trend analyzer.
type TrendsConfig struct {
	DestinationInterval time.Duration `koanf:"destination_interval"`
	TopicInterval       time.Duration `koanf:"topic_interval"`
	PatternInterval     time.Duration `koanf:"pattern_interval"`

	// Limit caps each trending list.
	Limit int `koanf:"limit"`

	// MaintenanceSchedule is a cron spec for time-driven recomputation when
	// the interaction stream is idle. Empty disables it.
	MaintenanceSchedule string `koanf:"maintenance_schedule"`

	// Retain is how many snapshots each trend channel keeps for slow readers.
	Retain int `koanf:"retain"`
}

// FeedConfig tunes the per-user recommendation feed.
type FeedConfig struct {
	MaxSize     int           `koanf:"max_size"`
	HybridCount int           `koanf:"hybrid_count"`
	TrendCount  int           `koanf:"trend_count"`
	TopicCount  int           `koanf:"topic_count"`
	StaleAfter  time.Duration `koanf:"stale_after"`

	// Worker pool for per-user refreshes.
	Workers     int           `koanf:"workers"`
	QueueSize   int           `koanf:"queue_size"`
	TaskTimeout time.Duration `koanf:"task_timeout"`

	// HybridRate limits hybrid engine invocations per second across all users.
	HybridRate  float64 `koanf:"hybrid_rate"`
	HybridBurst int     `koanf:"hybrid_burst"`

	// Retain is how many versions each user feed channel keeps.
	Retain int `koanf:"retain"`
}

// Recommendation algorithm names.
const (
	AlgorithmCollaborative = "collaborative"
	AlgorithmContent       = "content"
)

// RecommendConfig tunes the hybrid engine and its circuit breaker.
type RecommendConfig struct {
	// Algorithms lists the enabled algorithms: collaborative, content.
	Algorithms []string `koanf:"algorithms"`

	// AlgorithmTimeout bounds each algorithm run; a timed out algorithm is skipped.
	AlgorithmTimeout time.Duration `koanf:"algorithm_timeout"`

	// MinSimilarity is the cosine similarity a neighbour must exceed.
	MinSimilarity float64 `koanf:"min_similarity"`

	// LikedThreshold is the destination preference strength counted as a like.
	LikedThreshold float64 `koanf:"liked_threshold"`

	BreakerMaxRequests      uint32        `koanf:"breaker_max_requests"`
	BreakerInterval         time.Duration `koanf:"breaker_interval"`
	BreakerTimeout          time.Duration `koanf:"breaker_timeout"`
	BreakerFailureThreshold uint32        `koanf:"breaker_failure_threshold"`
}

// StoreConfig selects storage backends.
type StoreConfig struct {
	// Backend for preferences and destinations: memory or badger.
	Backend    string `koanf:"backend"`
	BadgerPath string `koanf:"badger_path"`

	// PatternBackend for travel pattern history: memory or duckdb.
	PatternBackend string `koanf:"pattern_backend"`
	DuckDBPath     string `koanf:"duckdb_path"`

	// Shards for in-memory concurrent maps. Rounded up to a power of two.
	Shards int `koanf:"shards"`
}

// EventsConfig configures the interaction bus.
type EventsConfig struct {
	// Transport is memory (watermill gochannel) or nats (requires the nats build tag).
	Transport string `koanf:"transport"`
	Topic     string `koanf:"topic"`
	NATSURL   string `koanf:"nats_url"`

	BufferSize int64 `koanf:"buffer_size"`

	RetryCount           int           `koanf:"retry_count"`
	RetryInitialInterval time.Duration `koanf:"retry_initial_interval"`
	DeduplicationSize    int           `koanf:"deduplication_size"`
	DeduplicationTTL     time.Duration `koanf:"deduplication_ttl"`
	CloseTimeout         time.Duration `koanf:"close_timeout"`
}

// RedisConfig configures the optional trending snapshot export.
type RedisConfig struct {
	Enabled   bool          `koanf:"enabled"`
	Addr      string        `koanf:"addr"`
	Password  string        `koanf:"password"`
	DB        int           `koanf:"db"`
	KeyPrefix string        `koanf:"key_prefix"`
	TTL       time.Duration `koanf:"ttl"`
}

// WebSocketConfig configures the live feed endpoint.
type WebSocketConfig struct {
	WriteWait      time.Duration `koanf:"write_wait"`
	PongWait       time.Duration `koanf:"pong_wait"`
	PingPeriod     time.Duration `koanf:"ping_period"`
	MaxMessageSize int64         `koanf:"max_message_size"`
	SendBuffer     int           `koanf:"send_buffer"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
