// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package algorithms

import (
	"context"
	"strings"

	"github.com/tomtom215/wanderfeed/internal/models"
	"github.com/tomtom215/wanderfeed/internal/recommend"
)

// Content-based weights.
const (
	tagWeight    = 0.6
	regionWeight = 0.4
)

// ContentBased scores every destination by how well its tags and region
// match the user's own preferences:
//
//	tagScore    = sum(strength of tag prefs equal to a destination tag) / max(1, tags)
//	regionScore = strength of the region pref equal to the destination region
//	score       = 0.6*tagScore + 0.4*regionScore
//
// It needs no other users, so it also serves users with no neighbours.
type ContentBased struct{}

// NewContentBased creates the algorithm.
func NewContentBased() *ContentBased {
	return &ContentBased{}
}

// Name implements recommend.Algorithm.
func (c *ContentBased) Name() string {
	return "content"
}

// Recommend implements recommend.Algorithm.
func (c *ContentBased) Recommend(ctx context.Context, req *recommend.Request) ([]models.TravelRecommendation, error) {
	own := req.UserPreferences()
	tags := strengthsByType(own, models.PreferenceTag)
	regions := strengthsByType(own, models.PreferenceRegion)

	idx := newDestinationIndex(req.Destinations)
	visited := idx.visited(own)

	candidates := make([]scored, 0, len(req.Destinations))
	for i := range req.Destinations {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		d := &req.Destinations[i]
		if _, seen := visited[d.ID]; seen {
			continue
		}
		candidates = append(candidates, scored{dest: d, score: contentScore(d, tags, regions)})
	}

	top := topScored(candidates, req.K)
	recs := make([]models.TravelRecommendation, 0, len(top))
	for _, s := range top {
		recs = append(recs, recommend.FromDestination(s.dest, s.dest.ID,
			"Based on your interests: "+s.dest.Name,
			"This matches your preferences for "+matchingPreferences(s.dest, tags, regions),
			s.score*0.5+0.5,
			s.score,
		))
	}
	return recs, nil
}

func contentScore(d *models.Destination, tags, regions map[string]float64) float64 {
	destTags := d.TagList()
	var tagSum float64
	for _, t := range destTags {
		tagSum += tags[t]
	}
	tagScore := tagSum / float64(max(1, len(destTags)))
	return tagScore*tagWeight + regions[d.Region]*regionWeight
}

// matchingPreferences names the region and tags behind a content match.
func matchingPreferences(d *models.Destination, tags, regions map[string]float64) string {
	var matches []string
	if _, ok := regions[d.Region]; ok {
		matches = append(matches, d.Region)
	}
	for _, t := range d.TagList() {
		if _, ok := tags[t]; ok {
			matches = append(matches, t)
		}
	}
	if len(matches) == 0 {
		return "similar destinations"
	}
	return strings.Join(matches, ", ")
}
