// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package models

// Budget categories derived from a destination's average rating.
const (
	BudgetLuxury   = "Luxury"
	BudgetMidRange = "Mid-range"
	BudgetBudget   = "Budget"
)

// TravelRecommendation is one entry of a user's recommendation feed.
type TravelRecommendation struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	DestinationID   int64    `json:"destination_id"`
	DestinationName string   `json:"destination_name"`
	ImageURL        string   `json:"image_url,omitempty"`
	Confidence      float64  `json:"confidence"`
	Tags            []string `json:"tags"`
	RelevanceScore  float64  `json:"relevance_score"`
	Region          string   `json:"region"`
	BudgetCategory  string   `json:"budget_category"`
	TravelStyle     string   `json:"travel_style"`
	IsPredictive    bool     `json:"is_predictive"`
}

// BudgetCategory maps an average rating onto a coarse price band.
func BudgetCategory(d *Destination) string {
	switch {
	case d.AverageRating > 4.5:
		return BudgetLuxury
	case d.AverageRating > 3.5:
		return BudgetMidRange
	default:
		return BudgetBudget
	}
}

// travelStyles is checked in order; the first set with a matching tag wins.
var travelStyles = []struct {
	name     string
	keywords []string
}{
	{"Beach", []string{"beach", "island", "coast", "ocean"}},
	{"Safari", []string{"wildlife", "safari", "animal"}},
	{"Adventure", []string{"mountain", "hiking", "trek", "adventure"}},
	{"Cultural", []string{"history", "museum", "heritage", "culture"}},
	{"Eco-tourism", []string{"nature", "eco", "forest", "conservation"}},
}

// TravelStyle classifies a destination by exact tag membership.
func TravelStyle(d *Destination) string {
	tags := d.LowerTags()
	for _, style := range travelStyles {
		for _, kw := range style.keywords {
			for _, tag := range tags {
				if tag == kw {
					return style.name
				}
			}
		}
	}
	return "General"
}
