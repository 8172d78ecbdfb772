// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package trends

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/tomtom215/wanderfeed/internal/config"
	"github.com/tomtom215/wanderfeed/internal/models"
)

// TestRedisSinkRoundTrip needs a live server; set WANDERFEED_TEST_REDIS_ADDR
// to run it.
func TestRedisSinkRoundTrip(t *testing.T) {
	addr := os.Getenv("WANDERFEED_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("WANDERFEED_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	cfg := config.Default().Redis
	cfg.Addr = addr
	cfg.KeyPrefix = "wanderfeed-test:" + time.Now().Format("150405.000") + ":"
	cfg.TTL = time.Minute

	sink, err := NewRedisSink(ctx, cfg)
	if err != nil {
		t.Fatalf("NewRedisSink() error = %v", err)
	}
	defer sink.Close()

	empty, err := sink.Destinations(ctx)
	if err != nil || len(empty) != 0 {
		t.Fatalf("Destinations() on empty = %v, %v", empty, err)
	}

	want := []models.TrendingDestination{{ID: 1, Name: "Bali", Region: "Asia", TrendingScore: 33}}
	if err := sink.WriteDestinations(ctx, want); err != nil {
		t.Fatal(err)
	}
	got, err := sink.Destinations(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != want[0] {
		t.Errorf("Destinations() = %+v, want %+v", got, want)
	}

	if err := sink.WriteTopics(ctx, []models.TrendingTopic{{Type: "tag", Value: "beach", TrendingScore: 3}}); err != nil {
		t.Fatal(err)
	}
	topics, err := sink.Topics(ctx)
	if err != nil || len(topics) != 1 || topics[0].Value != "beach" {
		t.Errorf("Topics() = %+v, %v", topics, err)
	}
}

func TestRedisSinkUnreachable(t *testing.T) {
	t.Parallel()

	cfg := config.Default().Redis
	cfg.Addr = "127.0.0.1:1"
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := NewRedisSink(ctx, cfg); err == nil {
		t.Error("NewRedisSink() should fail for an unreachable server")
	}
}
