// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package main

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderfeed/internal/config"
	"github.com/tomtom215/wanderfeed/internal/recommend"
	"github.com/tomtom215/wanderfeed/internal/recommend/algorithms"
)

// algorithmRegistrar registers the configured algorithms on an engine.
type algorithmRegistrar struct {
	engine       *recommend.Engine
	cfg          config.RecommendConfig
	algorithmSet map[string]bool
	logger       zerolog.Logger
}

// initRecommend builds the hybrid engine behind its circuit breaker.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg config.RecommendConfig, logger zerolog.Logger) (*recommend.Engine, *recommend.Breaker) {
	logger.Info().
		Strs("algorithms", cfg.Algorithms).
		Dur("algorithm_timeout", cfg.AlgorithmTimeout).
		Msg("initializing recommendation engine")

	engine := recommend.NewEngine(cfg, logger)
	registrar := &algorithmRegistrar{
		engine:       engine,
		cfg:          cfg,
		algorithmSet: buildAlgorithmSet(cfg.Algorithms),
		logger:       logger,
	}
	registrar.registerAll()

	return engine, recommend.NewBreaker(engine, cfg, logger)
}

func buildAlgorithmSet(algs []string) map[string]bool {
	set := make(map[string]bool, len(algs))
	for _, alg := range algs {
		set[alg] = true
	}
	return set
}

// registerAll registers collaborative filtering before content matching:
// when both suggest a destination, the collaborative text is kept.
func (r *algorithmRegistrar) registerAll() {
	if r.algorithmSet[config.AlgorithmCollaborative] {
		r.engine.RegisterAlgorithm(algorithms.NewCollaborative(r.cfg))
	}
	if r.algorithmSet[config.AlgorithmContent] {
		r.engine.RegisterAlgorithm(algorithms.NewContentBased())
	}
}
