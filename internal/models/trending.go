// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package models

// TrendingDestination is one entry of the ranked trending destinations list.
type TrendingDestination struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	Region              string `json:"region"`
	ImageURL            string `json:"image_url,omitempty"`
	TrendingScore       int64  `json:"trending_score"`
	HourlyInteractions  int64  `json:"hourly_interactions"`
	DailyInteractions   int64  `json:"daily_interactions"`
	WeeklyInteractions  int64  `json:"weekly_interactions"`
	MonthlyInteractions int64  `json:"monthly_interactions"`
}

// TrendingTopic is one entry of the ranked trending topics list.
type TrendingTopic struct {
	Type                string `json:"type"`
	Value               string `json:"value"`
	TrendingScore       int64  `json:"trending_score"`
	HourlyInteractions  int64  `json:"hourly_interactions"`
	DailyInteractions   int64  `json:"daily_interactions"`
	WeeklyInteractions  int64  `json:"weekly_interactions"`
	MonthlyInteractions int64  `json:"monthly_interactions"`
}
