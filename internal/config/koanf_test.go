// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Feed.MaxSize != 15 {
		t.Errorf("Feed.MaxSize = %d, want 15", cfg.Feed.MaxSize)
	}
	if cfg.Tracker.RecentCapacity != 100 || cfg.Tracker.RecentRetain != 50 {
		t.Errorf("Tracker buffer = %d/%d, want 100/50", cfg.Tracker.RecentCapacity, cfg.Tracker.RecentRetain)
	}
	if cfg.Trends.DestinationInterval != 5*time.Minute || cfg.Trends.TopicInterval != 10*time.Minute {
		t.Errorf("Trends intervals = %v/%v", cfg.Trends.DestinationInterval, cfg.Trends.TopicInterval)
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlContent := `
feed:
  max_size: 12
  stale_after: 2m
trends:
  limit: 10
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("FEED_MAX_SIZE", "14")
	t.Setenv("RECOMMEND_ALGORITHMS", "content")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := load(path)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Feed.MaxSize != 14 {
		t.Errorf("Feed.MaxSize = %d, want env override 14", cfg.Feed.MaxSize)
	}
	if cfg.Feed.StaleAfter != 2*time.Minute {
		t.Errorf("Feed.StaleAfter = %v, want 2m", cfg.Feed.StaleAfter)
	}
	if cfg.Trends.Limit != 10 {
		t.Errorf("Trends.Limit = %d, want 10", cfg.Trends.Limit)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if len(cfg.Recommend.Algorithms) != 1 || cfg.Recommend.Algorithms[0] != AlgorithmContent {
		t.Errorf("Recommend.Algorithms = %v", cfg.Recommend.Algorithms)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Tracker.RecentCapacity != 100 {
		t.Errorf("Tracker.RecentCapacity = %d, want default 100", cfg.Tracker.RecentCapacity)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")

	_, err := load("")
	if err == nil || !strings.Contains(err.Error(), "STORE_BACKEND") {
		t.Fatalf("load() error = %v, want STORE_BACKEND error", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mod     func(c *Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"retain above capacity", func(c *Config) { c.Tracker.RecentRetain = 200 }, "recent_retain"},
		{"zero feed size", func(c *Config) { c.Feed.MaxSize = 0 }, "FEED_MAX_SIZE"},
		{"badger without path", func(c *Config) { c.Store.Backend = "badger"; c.Store.BadgerPath = "" }, "BADGER_PATH"},
		{"duckdb without path", func(c *Config) { c.Store.PatternBackend = "duckdb"; c.Store.DuckDBPath = "" }, "DUCKDB_PATH"},
		{"unknown transport", func(c *Config) { c.Events.Transport = "kafka" }, "EVENTS_TRANSPORT"},
		{"redis without addr", func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }, "REDIS_ADDR"},
		{"ping after pong", func(c *Config) { c.WebSocket.PingPeriod = time.Hour }, "WS_PING_PERIOD"},
		{"no algorithms", func(c *Config) { c.Recommend.Algorithms = nil }, "RECOMMEND_ALGORITHMS"},
		{"unknown algorithm", func(c *Config) { c.Recommend.Algorithms = []string{"content", "als"} }, "als"},
		{"bad maintenance schedule", func(c *Config) { c.Trends.MaintenanceSchedule = "sometimes" }, "TRENDS_MAINTENANCE_SCHEDULE"},
		{"rate limit disabled skips checks", func(c *Config) { c.Server.RateLimitDisabled = true; c.Server.RateLimitReqs = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mod(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	t.Parallel()
	s := ServerConfig{Host: "127.0.0.1", Port: 8086}
	if got := s.Addr(); got != "127.0.0.1:8086" {
		t.Errorf("Addr() = %q", got)
	}
}
