// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package trends

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/wanderfeed/internal/metrics"
	"github.com/tomtom215/wanderfeed/internal/models"
)

const (
	patternValidity          = 7 * 24 * time.Hour
	destinationPatternConf   = 0.9
	topicPatternConf         = 0.85
	patternTopDestinations   = 5
	patternTopRegions        = 3
	patternTopTopicsPerGroup = 5
)

// snapshotPatterns records the latest trending lists as global travel
// patterns: one for destinations and one per topic type.
func (a *Analyzer) snapshotPatterns(ctx context.Context, now time.Time) {
	if dests, _, ok := a.trending.Latest(); ok && len(dests) > 0 {
		p, err := DestinationPattern(dests, now)
		if err == nil {
			err = a.patterns.Insert(ctx, p)
		}
		a.recordPattern(models.PatternTrending, err)
	}

	if topics, _, ok := a.topics.Latest(); ok && len(topics) > 0 {
		for _, group := range groupTopics(topics) {
			p, err := TopicPattern(group, now)
			if err == nil {
				err = a.patterns.Insert(ctx, p)
			}
			a.recordPattern(models.PatternTrendingTopic, err)
		}
	}
}

func (a *Analyzer) recordPattern(patternType string, err error) {
	metrics.RecordPatternSnapshot(patternType, err)
	if err != nil {
		a.logger.Error().Err(err).Str("pattern_type", patternType).Msg("Failed to record travel pattern")
	}
}

// DestinationPattern builds the "trending" pattern from a non-empty ranked
// destination list.
func DestinationPattern(dests []models.TrendingDestination, now time.Time) (*models.TravelPattern, error) {
	names := make([]string, 0, patternTopDestinations)
	for i := 0; i < len(dests) && i < patternTopDestinations; i++ {
		names = append(names, dests[i].Name)
	}

	data, err := json.Marshal(models.DestinationPatternData{
		TrendingDestinations: names,
		TrendingRegions:      topRegions(dests, patternTopRegions),
		Timestamp:            now.UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode destination pattern: %w", err)
	}

	return &models.TravelPattern{
		ID:         uuid.NewString(),
		UserID:     models.PatternGlobalUser,
		Type:       models.PatternTrending,
		Name:       "Current Trending Destinations",
		Value:      float64(dests[0].TrendingScore),
		Data:       string(data),
		StartDate:  now,
		EndDate:    now.Add(patternValidity),
		Confidence: destinationPatternConf,
		SampleSize: len(dests),
	}, nil
}

// TopicPattern builds a "trending_topic" pattern from a non-empty group of
// topics sharing one type, in rank order.
func TopicPattern(topics []models.TrendingTopic, now time.Time) (*models.TravelPattern, error) {
	values := make([]string, 0, patternTopTopicsPerGroup)
	for i := 0; i < len(topics) && i < patternTopTopicsPerGroup; i++ {
		values = append(values, topics[i].Value)
	}
	topicType := topics[0].Type

	data, err := json.Marshal(models.TopicPatternData{
		TrendingTopics: values,
		TopicType:      topicType,
		Timestamp:      now.UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode topic pattern: %w", err)
	}

	return &models.TravelPattern{
		ID:         uuid.NewString(),
		UserID:     models.PatternGlobalUser,
		Type:       models.PatternTrendingTopic,
		Name:       "Trending " + topicType,
		Value:      float64(topics[0].TrendingScore),
		Data:       string(data),
		StartDate:  now,
		EndDate:    now.Add(patternValidity),
		Confidence: topicPatternConf,
		SampleSize: len(topics),
	}, nil
}

// topRegions sums trending scores per region and returns the n best regions,
// ties by name.
func topRegions(dests []models.TrendingDestination, n int) []string {
	totals := make(map[string]int64)
	for i := range dests {
		totals[dests[i].Region] += dests[i].TrendingScore
	}
	regions := make([]string, 0, len(totals))
	for r := range totals {
		regions = append(regions, r)
	}
	sort.Slice(regions, func(i, j int) bool {
		if totals[regions[i]] != totals[regions[j]] {
			return totals[regions[i]] > totals[regions[j]]
		}
		return regions[i] < regions[j]
	})
	if len(regions) > n {
		regions = regions[:n]
	}
	return regions
}

// groupTopics splits a ranked list by type, keeping rank order within each
// group and ordering groups by first appearance.
func groupTopics(topics []models.TrendingTopic) [][]models.TrendingTopic {
	index := make(map[string]int)
	var groups [][]models.TrendingTopic
	for _, t := range topics {
		i, ok := index[t.Type]
		if !ok {
			i = len(groups)
			index[t.Type] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], t)
	}
	return groups
}
