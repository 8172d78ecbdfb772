// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package recommend

import (
	"context"
	"sort"

	"github.com/tomtom215/wanderfeed/internal/models"
)

// Request is the input shared by every algorithm in one hybrid run.
type Request struct {
	// UserID is the user to recommend for.
	UserID string

	// K is how many recommendations the algorithm should return at most.
	K int

	// Preferences holds every user's preferences keyed by user ID.
	Preferences map[string][]models.UserPreference

	// Destinations is the full catalog.
	Destinations []models.Destination
}

// UserPreferences returns the requesting user's preferences.
func (r *Request) UserPreferences() []models.UserPreference {
	return r.Preferences[r.UserID]
}

// Algorithm produces ranked recommendations for one request.
// Implementations must be safe for concurrent use.
type Algorithm interface {
	// Name returns the algorithm identifier used in logs and metrics.
	Name() string

	// Recommend returns at most req.K recommendations, best first.
	Recommend(ctx context.Context, req *Request) ([]models.TravelRecommendation, error)
}

// GroupByUser indexes a flat preference list by user ID.
func GroupByUser(prefs []models.UserPreference) map[string][]models.UserPreference {
	out := make(map[string][]models.UserPreference)
	for i := range prefs {
		out[prefs[i].UserID] = append(out[prefs[i].UserID], prefs[i])
	}
	return out
}

// FromDestination fills the destination derived fields of a recommendation.
// Confidence and relevance are clamped to [0, 1].
func FromDestination(d *models.Destination, id int64, title, description string, confidence, relevance float64) models.TravelRecommendation {
	return models.TravelRecommendation{
		ID:              id,
		Title:           title,
		Description:     description,
		DestinationID:   d.ID,
		DestinationName: d.Name,
		ImageURL:        d.ImageURL,
		Confidence:      models.Clamp01(confidence),
		Tags:            d.TagList(),
		RelevanceScore:  models.Clamp01(relevance),
		Region:          d.Region,
		BudgetCategory:  models.BudgetCategory(d),
		TravelStyle:     models.TravelStyle(d),
		IsPredictive:    true,
	}
}

// SortByRelevance orders recommendations by relevance, highest first, ties
// by ascending ID.
func SortByRelevance(recs []models.TravelRecommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].RelevanceScore != recs[j].RelevanceScore {
			return recs[i].RelevanceScore > recs[j].RelevanceScore
		}
		return recs[i].ID < recs[j].ID
	})
}
