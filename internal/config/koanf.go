// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/wanderfeed/config.yaml",
	"/etc/wanderfeed/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8086,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			Environment:     "development",
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   300,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracker: TrackerConfig{
			RecentCapacity: 100,
			RecentRetain:   50,
			CountWindow:    7 * 24 * time.Hour,
			ViewThreshold:  3,
			ClickThreshold: 2,
		},
		Trends: TrendsConfig{
			DestinationInterval: 5 * time.Minute,
			TopicInterval:       10 * time.Minute,
			PatternInterval:     time.Hour,
			Limit:               20,
			MaintenanceSchedule: "@every 1m",
			Retain:              16,
		},
		Feed: FeedConfig{
			MaxSize:     15,
			HybridCount: 10,
			TrendCount:  5,
			TopicCount:  5,
			StaleAfter:  5 * time.Minute,
			Workers:     4,
			QueueSize:   1024,
			TaskTimeout: 30 * time.Second,
			HybridRate:  50,
			HybridBurst: 10,
			Retain:      8,
		},
		Recommend: RecommendConfig{
			Algorithms:              []string{AlgorithmCollaborative, AlgorithmContent},
			AlgorithmTimeout:        5 * time.Second,
			MinSimilarity:           0.1,
			LikedThreshold:          0.6,
			BreakerMaxRequests:      3,
			BreakerInterval:         time.Minute,
			BreakerTimeout:          30 * time.Second,
			BreakerFailureThreshold: 5,
		},
		Store: StoreConfig{
			Backend:        "memory",
			BadgerPath:     "/data/wanderfeed/badger",
			PatternBackend: "memory",
			DuckDBPath:     "/data/wanderfeed/patterns.duckdb",
			Shards:         32,
		},
		Events: EventsConfig{
			Transport:            "memory",
			Topic:                "interactions",
			NATSURL:              "nats://127.0.0.1:4222",
			BufferSize:           1024,
			RetryCount:           3,
			RetryInitialInterval: 100 * time.Millisecond,
			DeduplicationSize:    10000,
			DeduplicationTTL:     5 * time.Minute,
			CloseTimeout:         30 * time.Second,
		},
		Redis: RedisConfig{
			Addr:      "127.0.0.1:6379",
			KeyPrefix: "wanderfeed:",
			TTL:       time.Hour,
		},
		WebSocket: WebSocketConfig{
			WriteWait:      10 * time.Second,
			PongWait:       60 * time.Second,
			PingPeriod:     54 * time.Second,
			MaxMessageSize: 512,
			SendBuffer:     16,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment, then validates it.
func Load() (*Config, error) {
	return load(findConfigFile())
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths arrive from the environment as comma-separated strings.
var sliceConfigPaths = []string{
	"server.cors_origins",
	"recommend.algorithms",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored so the process environment cannot leak
// arbitrary keys into the configuration.
var envMappings = map[string]string{
	"http_port":          "server.port",
	"http_host":          "server.host",
	"http_timeout":       "server.timeout",
	"environment":        "server.environment",
	"cors_origins":       "server.cors_origins",
	"rate_limit_reqs":    "server.rate_limit_reqs",
	"rate_limit_window":  "server.rate_limit_window",
	"disable_rate_limit": "server.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"tracker_recent_capacity": "tracker.recent_capacity",
	"tracker_recent_retain":   "tracker.recent_retain",
	"tracker_count_window":    "tracker.count_window",
	"tracker_view_threshold":  "tracker.view_threshold",
	"tracker_click_threshold": "tracker.click_threshold",

	"trends_destination_interval": "trends.destination_interval",
	"trends_topic_interval":       "trends.topic_interval",
	"trends_pattern_interval":     "trends.pattern_interval",
	"trends_limit":                "trends.limit",
	"trends_maintenance_schedule": "trends.maintenance_schedule",

	"feed_max_size":     "feed.max_size",
	"feed_stale_after":  "feed.stale_after",
	"feed_workers":      "feed.workers",
	"feed_queue_size":   "feed.queue_size",
	"feed_task_timeout": "feed.task_timeout",
	"feed_hybrid_rate":  "feed.hybrid_rate",
	"feed_hybrid_burst": "feed.hybrid_burst",

	"recommend_algorithms":                "recommend.algorithms",
	"recommend_algorithm_timeout":         "recommend.algorithm_timeout",
	"recommend_breaker_timeout":           "recommend.breaker_timeout",
	"recommend_breaker_failure_threshold": "recommend.breaker_failure_threshold",

	"store_backend":         "store.backend",
	"badger_path":           "store.badger_path",
	"pattern_store_backend": "store.pattern_backend",
	"duckdb_path":           "store.duckdb_path",
	"store_shards":          "store.shards",

	"events_transport":   "events.transport",
	"events_topic":       "events.topic",
	"nats_url":           "events.nats_url",
	"events_buffer_size": "events.buffer_size",
	"events_retry_count": "events.retry_count",
	"events_dedup_ttl":   "events.deduplication_ttl",

	"redis_enabled":    "redis.enabled",
	"redis_addr":       "redis.addr",
	"redis_password":   "redis.password",
	"redis_db":         "redis.db",
	"redis_key_prefix": "redis.key_prefix",
	"redis_ttl":        "redis.ttl",

	"ws_write_wait":       "websocket.write_wait",
	"ws_pong_wait":        "websocket.pong_wait",
	"ws_ping_period":      "websocket.ping_period",
	"ws_max_message_size": "websocket.max_message_size",
}

// envTransformFunc maps e.g. HTTP_PORT -> server.port and LOG_LEVEL -> logging.level.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
