// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package models

import "time"

// Pattern types written by the trend analyzer.
const (
	PatternTrending      = "trending"
	PatternTrendingTopic = "trending_topic"
	PatternGlobalUser    = "global"
)

// TravelPattern is a historical snapshot of trend state kept for offline
// analytics. Data holds a JSON document whose shape depends on Type.
type TravelPattern struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Type       string    `json:"pattern_type"`
	Name       string    `json:"pattern_name"`
	Value      float64   `json:"pattern_value"`
	Data       string    `json:"pattern_data"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Confidence float64   `json:"confidence"`
	SampleSize int       `json:"sample_size"`
}

// DestinationPatternData is the Data payload of a "trending" pattern.
type DestinationPatternData struct {
	TrendingDestinations []string `json:"trending_destinations"`
	TrendingRegions      []string `json:"trending_regions"`
	Timestamp            int64    `json:"timestamp"`
}

// TopicPatternData is the Data payload of a "trending_topic" pattern.
type TopicPatternData struct {
	TrendingTopics []string `json:"trending_topics"`
	TopicType      string   `json:"topic_type"`
	Timestamp      int64    `json:"timestamp"`
}
