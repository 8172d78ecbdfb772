// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package algorithms

import (
	"context"
	"sort"

	"github.com/tomtom215/wanderfeed/internal/config"
	"github.com/tomtom215/wanderfeed/internal/models"
	"github.com/tomtom215/wanderfeed/internal/recommend"
)

// Collaborative implements user-based collaborative filtering over
// preference vectors.
//
// For the target user u and destination d:
//
//	score(u, d) = sum over neighbours v with sim(u, v) > MinSimilarity
//	              of strength(v, d) * sim(u, v)
//
// where strength(v, d) counts only destination preferences stronger than
// LikedThreshold. Destinations u already has a preference for are excluded.
type Collaborative struct {
	minSimilarity  float64
	likedThreshold float64
}

// NewCollaborative creates the algorithm, defaulting unset thresholds to
// 0.1 similarity and 0.6 strength.
func NewCollaborative(cfg config.RecommendConfig) *Collaborative {
	if cfg.MinSimilarity <= 0 {
		cfg.MinSimilarity = 0.1
	}
	if cfg.LikedThreshold <= 0 {
		cfg.LikedThreshold = 0.6
	}
	return &Collaborative{
		minSimilarity:  cfg.MinSimilarity,
		likedThreshold: cfg.LikedThreshold,
	}
}

// Name implements recommend.Algorithm.
func (c *Collaborative) Name() string {
	return "collaborative"
}

// Recommend implements recommend.Algorithm.
func (c *Collaborative) Recommend(ctx context.Context, req *recommend.Request) ([]models.TravelRecommendation, error) {
	own := req.UserPreferences()
	if len(own) == 0 {
		return []models.TravelRecommendation{}, nil
	}

	idx := newDestinationIndex(req.Destinations)
	target := preferenceVector(own)

	scores := make(map[int64]float64)
	for _, userID := range otherUsers(req) {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}

		prefs := req.Preferences[userID]
		sim := cosineSimilarity(target, preferenceVector(prefs))
		if sim <= c.minSimilarity {
			continue
		}

		for i := range prefs {
			p := &prefs[i]
			if p.Type != models.PreferenceDestination || p.Strength <= c.likedThreshold {
				continue
			}
			if d, ok := idx.lookup(p.Value); ok {
				scores[d.ID] += p.Strength * sim
			}
		}
	}

	visited := idx.visited(own)
	candidates := make([]scored, 0, len(scores))
	for id, score := range scores {
		if _, seen := visited[id]; seen {
			continue
		}
		candidates = append(candidates, scored{dest: idx.byID[id], score: score})
	}

	top := topScored(candidates, req.K)
	recs := make([]models.TravelRecommendation, 0, len(top))
	for _, s := range top {
		recs = append(recs, recommend.FromDestination(s.dest, s.dest.ID,
			"You might like "+s.dest.Name,
			"Users with similar preferences enjoyed this destination",
			s.score*0.5+0.5,
			s.score,
		))
	}
	return recs, nil
}

// otherUsers lists every user except the requester in a stable order.
func otherUsers(req *recommend.Request) []string {
	users := make([]string, 0, len(req.Preferences))
	for id := range req.Preferences {
		if id != req.UserID {
			users = append(users, id)
		}
	}
	sort.Strings(users)
	return users
}
