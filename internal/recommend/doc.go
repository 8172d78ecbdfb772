// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

// Package recommend implements the hybrid destination recommender.
//
// # Architecture
//
// The engine combines independent algorithm families registered at startup:
//
//   - Collaborative filtering: destinations liked by users with similar
//     preference vectors (cosine similarity over "type:value" keys)
//   - Content-based filtering: tag and region overlap between the user's
//     preferences and each destination
//
// Each algorithm is asked for 2*K candidates. Algorithms run concurrently
// under a per-algorithm timeout; one that fails or times out is logged and
// left out of the merge. Candidates are grouped by destination, and a
// destination proposed by more than one algorithm scores the mean relevance
// times 1.2, clamped to 1.
//
// # Usage
//
//	engine := recommend.NewEngine(cfg.Recommend, logger)
//	engine.RegisterAlgorithm(algorithms.NewCollaborative(cfg.Recommend))
//	engine.RegisterAlgorithm(algorithms.NewContentBased())
//
//	hybrid := recommend.NewBreaker(engine, cfg.Recommend, logger)
//	recs, err := hybrid.Hybrid(ctx, userID, allPrefs, destinations, 10)
//
// # Thread Safety
//
// Engine and Breaker are safe for concurrent use. Algorithms receive a
// read-only Request and must not retain it.
package recommend
