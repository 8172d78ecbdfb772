// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

// Package algorithms implements the recommendation algorithms combined by the
// hybrid engine.
//
// # Algorithms
//
//   - Collaborative: user-based collaborative filtering. Users are compared
//     by cosine similarity of their preference vectors; destinations that
//     sufficiently similar users like are scored by strength * similarity.
//   - ContentBased: scores destinations by the user's own tag and region
//     preferences.
//
// Both exclude destinations the user already has a destination preference
// for, and both produce relevance = clamp(score) and
// confidence = clamp(score*0.5 + 0.5).
//
// # Destination matching
//
// Destination preference values are resolved by destination name first and
// then by numeric ID, because preferences inferred from interactions carry
// the target ID.
//
// # Thread Safety
//
// Algorithms hold only configuration and are safe for concurrent use.
package algorithms
