// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/wanderfeed/internal/config"
	"github.com/tomtom215/wanderfeed/internal/metrics"
	"github.com/tomtom215/wanderfeed/internal/models"
)

// ErrCircuitOpen is returned while the breaker rejects hybrid requests.
var ErrCircuitOpen = errors.New("hybrid engine circuit open")

// breakerName labels the breaker in logs and metrics.
const breakerName = "hybrid-engine"

// Hybrid is the hybrid recommendation contract used by the feed.
type Hybrid interface {
	Hybrid(ctx context.Context, userID string, prefs []models.UserPreference, destinations []models.Destination, topK int) ([]models.TravelRecommendation, error)
}

// Breaker guards a Hybrid implementation with a circuit breaker. After
// BreakerFailureThreshold consecutive failures requests are rejected with
// ErrCircuitOpen until BreakerTimeout has passed.
//
// The breaker uses real time for its interval and timeout; tests drive it by
// failure counts, not by clocks.
type Breaker struct {
	next   Hybrid
	cb     *gobreaker.CircuitBreaker[[]models.TravelRecommendation]
	logger zerolog.Logger
}

// NewBreaker wraps next.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBreaker(next Hybrid, cfg config.RecommendConfig, logger zerolog.Logger) *Breaker {
	b := &Breaker{
		next:   next,
		logger: logger.With().Str("component", "recommend").Str("breaker", breakerName).Logger(),
	}

	metrics.SetCircuitBreakerState(breakerName, stateToInt(gobreaker.StateClosed))

	b.cb = gobreaker.NewCircuitBreaker[[]models.TravelRecommendation](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailureThreshold
		},
		IsSuccessful: func(err error) bool {
			// A canceled caller says nothing about engine health.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.logger.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state transition")
			metrics.SetCircuitBreakerState(name, stateToInt(to))
		},
	})
	return b
}

// Hybrid implements Hybrid.
func (b *Breaker) Hybrid(ctx context.Context, userID string, prefs []models.UserPreference, destinations []models.Destination, topK int) ([]models.TravelRecommendation, error) {
	recs, err := b.cb.Execute(func() ([]models.TravelRecommendation, error) {
		return b.next.Hybrid(ctx, userID, prefs, destinations, topK)
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordHybridRequest("rejected")
		return nil, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
	case err != nil:
		metrics.RecordHybridRequest("error")
		return nil, err
	}
	metrics.RecordHybridRequest("success")
	return recs, nil
}

// State reports the breaker state name.
func (b *Breaker) State() string {
	return b.cb.State().String()
}

func stateToInt(s gobreaker.State) int {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

var (
	_ Hybrid = (*Engine)(nil)
	_ Hybrid = (*Breaker)(nil)
)
