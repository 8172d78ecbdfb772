// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package trends

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/wanderfeed/internal/config"
	"github.com/tomtom215/wanderfeed/internal/models"
)

// Redis keys under the configured prefix.
const (
	redisDestinationsKey = "trending:destinations"
	redisTopicsKey       = "trending:topics"
)

// RedisSink mirrors trending snapshots into Redis so other processes can
// serve them without running an analyzer.
type RedisSink struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSink connects to Redis and verifies the connection.
func NewRedisSink(ctx context.Context, cfg config.RedisConfig) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}

	return newRedisSink(client, cfg), nil
}

func newRedisSink(client *redis.Client, cfg config.RedisConfig) *RedisSink {
	return &RedisSink{client: client, prefix: cfg.KeyPrefix, ttl: cfg.TTL}
}

// Name implements Sink.
func (s *RedisSink) Name() string { return "redis" }

// WriteDestinations implements Sink.
func (s *RedisSink) WriteDestinations(ctx context.Context, list []models.TrendingDestination) error {
	return s.set(ctx, redisDestinationsKey, list)
}

// WriteTopics implements Sink.
func (s *RedisSink) WriteTopics(ctx context.Context, list []models.TrendingTopic) error {
	return s.set(ctx, redisTopicsKey, list)
}

// Destinations reads the last mirrored destination list. A missing key
// returns an empty list.
func (s *RedisSink) Destinations(ctx context.Context) ([]models.TrendingDestination, error) {
	var list []models.TrendingDestination
	if err := s.get(ctx, redisDestinationsKey, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Topics reads the last mirrored topic list. A missing key returns an
// empty list.
func (s *RedisSink) Topics(ctx context.Context) ([]models.TrendingTopic, error) {
	var list []models.TrendingTopic
	if err := s.get(ctx, redisTopicsKey, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Ping reports whether Redis is reachable.
func (s *RedisSink) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client.
func (s *RedisSink) Close() error {
	return s.client.Close()
}

func (s *RedisSink) key(name string) string {
	return s.prefix + name
}

func (s *RedisSink) set(ctx context.Context, name string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := s.client.Set(ctx, s.key(name), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key(name), err)
	}
	return nil
}

func (s *RedisSink) get(ctx context.Context, name string, out any) error {
	payload, err := s.client.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis get %s: %w", s.key(name), err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

var _ Sink = (*RedisSink)(nil)
