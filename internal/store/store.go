// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

// Package store defines the persistence boundaries of the recommendation core
// and their implementations: in-memory (sharded maps), BadgerDB for preferences
// and destinations, and DuckDB for travel pattern history.
package store

import (
	"context"
	"errors"
	"sort"

	"github.com/tomtom215/wanderfeed/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicate is returned when inserting a preference that already exists
	// for the same (user, type, value).
	ErrDuplicate = errors.New("store: duplicate preference")
)

// PreferenceStore persists inferred user preferences.
// Preferences are unique per (user, type, value).
type PreferenceStore interface {
	UserPreferences(ctx context.Context, userID string) ([]models.UserPreference, error)
	UserPreferencesByTypeAndValue(ctx context.Context, userID, prefType, value string) (*models.UserPreference, error)
	Insert(ctx context.Context, pref *models.UserPreference) error
	Update(ctx context.Context, pref *models.UserPreference) error
	AllUserPreferences(ctx context.Context) ([]models.UserPreference, error)
}

// DestinationStore provides the destination catalog.
type DestinationStore interface {
	AllDestinations(ctx context.Context) ([]models.Destination, error)
	Destination(ctx context.Context, id int64) (*models.Destination, error)
	Upsert(ctx context.Context, destinations ...models.Destination) error
}

// PatternFilter narrows a pattern listing. Zero values match everything.
type PatternFilter struct {
	Type  string
	Limit int
}

// PatternStore records travel pattern snapshots.
type PatternStore interface {
	Insert(ctx context.Context, pattern *models.TravelPattern) error
	List(ctx context.Context, filter PatternFilter) ([]models.TravelPattern, error)
}

func sortPreferences(prefs []models.UserPreference) {
	sort.Slice(prefs, func(i, j int) bool {
		a, b := prefs[i], prefs[j]
		if a.UserID != b.UserID {
			return a.UserID < b.UserID
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Value < b.Value
	})
}

// sortPatterns orders newest first; ties by ID.
func sortPatterns(patterns []models.TravelPattern) {
	sort.Slice(patterns, func(i, j int) bool {
		a, b := patterns[i], patterns[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.After(b.StartDate)
		}
		return a.ID < b.ID
	})
}

func applyPatternFilter(patterns []models.TravelPattern, filter PatternFilter) []models.TravelPattern {
	out := patterns[:0]
	for _, p := range patterns {
		if filter.Type == "" || p.Type == filter.Type {
			out = append(out, p)
		}
	}
	sortPatterns(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out
}
