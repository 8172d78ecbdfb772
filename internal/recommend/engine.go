// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderfeed/internal/config"
	"github.com/tomtom215/wanderfeed/internal/metrics"
	"github.com/tomtom215/wanderfeed/internal/models"
)

// bothAlgorithmsBoost multiplies the mean relevance of a destination
// recommended by more than one algorithm.
const bothAlgorithmsBoost = 1.2

var (
	// ErrNoAlgorithms is returned by Hybrid when nothing is registered.
	ErrNoAlgorithms = errors.New("no algorithms registered")

	// ErrAllAlgorithmsFailed is returned when every registered algorithm
	// errored or timed out.
	ErrAllAlgorithmsFailed = errors.New("all algorithms failed")
)

// Engine runs the registered algorithms in parallel and merges their output.
// It is safe for concurrent use.
type Engine struct {
	cfg    config.RecommendConfig
	logger zerolog.Logger

	algorithms []Algorithm
	algMu      sync.RWMutex
}

// NewEngine creates an engine with no algorithms.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(cfg config.RecommendConfig, logger zerolog.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}
}

// RegisterAlgorithm adds an algorithm. Registration order decides which
// entry's text survives when algorithms agree on a destination.
func (e *Engine) RegisterAlgorithm(alg Algorithm) {
	e.algMu.Lock()
	defer e.algMu.Unlock()

	e.algorithms = append(e.algorithms, alg)
	e.logger.Info().
		Str("algorithm", alg.Name()).
		Msg("registered algorithm")
}

// Algorithms returns the registered algorithm names.
func (e *Engine) Algorithms() []string {
	algs := e.getAlgorithms()
	names := make([]string, len(algs))
	for i, a := range algs {
		names[i] = a.Name()
	}
	return names
}

func (e *Engine) getAlgorithms() []Algorithm {
	e.algMu.RLock()
	defer e.algMu.RUnlock()
	return e.algorithms
}

// Hybrid asks every algorithm for 2*topK candidates and merges them by
// destination. A destination produced by several algorithms gets the mean
// relevance times 1.2, clamped to 1. The result is sorted by relevance and
// capped at topK. Failing algorithms are logged and skipped.
func (e *Engine) Hybrid(ctx context.Context, userID string, prefs []models.UserPreference, destinations []models.Destination, topK int) ([]models.TravelRecommendation, error) {
	algorithms := e.getAlgorithms()
	if len(algorithms) == 0 {
		return nil, ErrNoAlgorithms
	}
	if topK <= 0 {
		return []models.TravelRecommendation{}, nil
	}

	req := &Request{
		UserID:       userID,
		K:            topK * 2,
		Preferences:  GroupByUser(prefs),
		Destinations: destinations,
	}

	results := e.runAlgorithms(ctx, req, algorithms)

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			e.logger.Warn().
				Str("algorithm", r.name).
				Str("user_id", userID).
				Err(r.err).
				Msg("algorithm failed")
		}
	}
	if failed == len(results) {
		return nil, fmt.Errorf("%w: %w", ErrAllAlgorithmsFailed, results[0].err)
	}

	merged := mergeResults(results)
	if len(merged) > topK {
		merged = merged[:topK]
	}

	e.logger.Debug().
		Str("user_id", userID).
		Int("returned", len(merged)).
		Int("failed_algorithms", failed).
		Msg("hybrid recommendation complete")
	return merged, nil
}

// algResult holds the output of a single algorithm run.
type algResult struct {
	name string
	recs []models.TravelRecommendation
	err  error
}

// runAlgorithms runs all algorithms in parallel, each under its own timeout.
func (e *Engine) runAlgorithms(ctx context.Context, req *Request, algorithms []Algorithm) []algResult {
	results := make([]algResult, len(algorithms))
	var wg sync.WaitGroup

	for i, alg := range algorithms {
		wg.Add(1)
		go func(idx int, a Algorithm) {
			defer wg.Done()
			results[idx] = e.runSingleAlgorithm(ctx, req, a)
		}(i, alg)
	}

	wg.Wait()
	return results
}

func (e *Engine) runSingleAlgorithm(ctx context.Context, req *Request, alg Algorithm) (result algResult) {
	result.name = alg.Name()
	start := time.Now()
	defer func() {
		metrics.ObserveHybridAlgorithm(result.name, time.Since(start))
	}()

	algCtx, cancel := context.WithTimeout(ctx, e.cfg.AlgorithmTimeout)
	defer cancel()

	done := make(chan algResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- algResult{name: result.name, err: fmt.Errorf("panic: %v", r)}
			}
		}()
		recs, err := alg.Recommend(algCtx, req)
		done <- algResult{name: result.name, recs: recs, err: err}
	}()

	select {
	case r := <-done:
		return r
	case <-algCtx.Done():
		result.err = fmt.Errorf("%s: %w", result.name, algCtx.Err())
		return result
	}
}

// mergeResults groups by destination in algorithm order.
func mergeResults(results []algResult) []models.TravelRecommendation {
	type group struct {
		rec   models.TravelRecommendation
		sum   float64
		count int
	}

	var order []int64
	groups := make(map[int64]*group)
	for _, r := range results {
		if r.err != nil {
			continue
		}
		for _, rec := range r.recs {
			g, ok := groups[rec.DestinationID]
			if !ok {
				g = &group{rec: rec}
				groups[rec.DestinationID] = g
				order = append(order, rec.DestinationID)
			}
			g.sum += rec.RelevanceScore
			g.count++
		}
	}

	merged := make([]models.TravelRecommendation, 0, len(order))
	for _, id := range order {
		g := groups[id]
		rec := g.rec
		if g.count > 1 {
			rec.RelevanceScore = models.Clamp01(g.sum / float64(g.count) * bothAlgorithmsBoost)
		}
		merged = append(merged, rec)
	}
	SortByRelevance(merged)
	return merged
}
