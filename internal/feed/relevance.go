// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package feed

import (
	"strings"

	"github.com/tomtom215/wanderfeed/internal/models"
	"github.com/tomtom215/wanderfeed/internal/recommend"
)

// ID offsets keep trend and topic entries from colliding with hybrid IDs.
const (
	TrendIDOffset = 1000
	TopicIDOffset = 2000
)

const (
	baseRelevance    = 0.5
	minTrendBoost    = 0.1
	maxTrendBoost    = 0.3
	regionPrefWeight = 0.2
	tagPrefWeight    = 0.15

	topicsConsidered   = 10
	regionTopicScore   = 0.5
	tagTopicScore      = 0.3
	minTopicMatch      = 0.3
	topicConfidence    = 0.9
	minTrendConfidence = 0.7
	maxTrendConfidence = 0.95
)

// RelevanceForUser scores a destination for a user:
//
//	0.5 + clamp(raw/100, 0.1, 0.3)
//	    + region preference strength * 0.2
//	    + sum of tag preference strength * 0.15 for each tag preference
//	      contained in any destination tag (case-insensitive)
//
// clamped to [0, 1].
func RelevanceForUser(d *models.Destination, prefs []models.UserPreference, raw float64) float64 {
	relevance := baseRelevance + models.Clamp(raw/100, minTrendBoost, maxTrendBoost)

	for i := range prefs {
		p := &prefs[i]
		if p.Type == models.PreferenceRegion && p.Value == d.Region {
			relevance += p.Strength * regionPrefWeight
			break
		}
	}

	tags := d.LowerTags()
	for i := range prefs {
		p := &prefs[i]
		if p.Type != models.PreferenceTag {
			continue
		}
		needle := strings.ToLower(p.Value)
		for _, tag := range tags {
			if strings.Contains(tag, needle) {
				relevance += p.Strength * tagPrefWeight
				break
			}
		}
	}

	return models.Clamp01(relevance)
}

// TrendRecommendations turns the top 2*count trending destinations that are
// present in catalog into personalized entries and returns the best count.
func TrendRecommendations(trending []models.TrendingDestination, catalog map[int64]*models.Destination, prefs []models.UserPreference, count int) []models.TravelRecommendation {
	if count <= 0 || len(trending) == 0 {
		return []models.TravelRecommendation{}
	}

	limit := min(len(trending), count*2)
	recs := make([]models.TravelRecommendation, 0, limit)
	for _, t := range trending[:limit] {
		d, ok := catalog[t.ID]
		if !ok {
			continue
		}
		score := float64(t.TrendingScore)
		recs = append(recs, recommend.FromDestination(d, t.ID+TrendIDOffset,
			"Trending: "+t.Name,
			"This destination is currently popular among travelers",
			models.Clamp(score/100, minTrendConfidence, maxTrendConfidence),
			RelevanceForUser(d, prefs, score),
		))
	}

	recommend.SortByRelevance(recs)
	if len(recs) > count {
		recs = recs[:count]
	}
	return recs
}

// MatchTopics finds destinations matching the top trending topics: +0.5 when
// a region topic equals the destination region, +0.3 for each tag or search
// term topic contained in a destination tag. Matches scoring above 0.3 are
// ranked by RelevanceForUser and the best count returned.
func MatchTopics(topics []models.TrendingTopic, destinations []models.Destination, prefs []models.UserPreference, count int) []models.TravelRecommendation {
	if len(topics) > topicsConsidered {
		topics = topics[:topicsConsidered]
	}

	var regionTopics, tagTopics []string
	for _, t := range topics {
		switch t.Type {
		case models.PreferenceRegion:
			regionTopics = append(regionTopics, t.Value)
		case models.PreferenceTag, models.PreferenceSearchTerm:
			tagTopics = append(tagTopics, strings.ToLower(t.Value))
		}
	}

	recs := make([]models.TravelRecommendation, 0)
	for i := range destinations {
		d := &destinations[i]
		match := topicMatchScore(d, regionTopics, tagTopics)
		if match <= minTopicMatch {
			continue
		}
		relevance := RelevanceForUser(d, prefs, match)
		recs = append(recs, recommend.FromDestination(d, d.ID+TopicIDOffset,
			"Trending Topic Match: "+d.Name,
			"This matches current trending interests among travelers",
			relevance*topicConfidence,
			relevance,
		))
	}

	recommend.SortByRelevance(recs)
	if count >= 0 && len(recs) > count {
		recs = recs[:count]
	}
	return recs
}

func topicMatchScore(d *models.Destination, regionTopics, tagTopics []string) float64 {
	var score float64
	for _, r := range regionTopics {
		if r == d.Region {
			score += regionTopicScore
			break
		}
	}

	tags := d.LowerTags()
	for _, topic := range tagTopics {
		for _, tag := range tags {
			if strings.Contains(tag, topic) {
				score += tagTopicScore
				break
			}
		}
	}
	return score
}

// mergeAbsent appends the additions whose destination is not already in
// current, sorts by relevance and caps at limit. current is not modified.
func mergeAbsent(current, additions []models.TravelRecommendation, limit int) []models.TravelRecommendation {
	present := make(map[int64]struct{}, len(current))
	out := make([]models.TravelRecommendation, 0, len(current)+len(additions))
	for _, r := range current {
		present[r.DestinationID] = struct{}{}
		out = append(out, r)
	}
	for _, r := range additions {
		if _, ok := present[r.DestinationID]; ok {
			continue
		}
		present[r.DestinationID] = struct{}{}
		out = append(out, r)
	}

	recommend.SortByRelevance(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
