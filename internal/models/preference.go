// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package models

import (
	"strings"
	"time"
)

// Preference types with meaning to the recommenders. Filter interactions may
// introduce any other type string.
const (
	PreferenceRegion      = "region"
	PreferenceTag         = "tag"
	PreferenceSearchTerm  = "search_term"
	PreferenceDestination = "destination"
	PreferenceActivity    = "activity"
)

// Preference sources. Anything starting with "explicit" outranks anything
// starting with "implicit".
const (
	SourceImplicitView     = "implicit_view"
	SourceImplicitClick    = "implicit_click"
	SourceImplicitBookmark = "implicit_bookmark"
	SourceExplicitRating   = "explicit_rating"
	SourceImplicitSearch   = "implicit_search"
	SourceImplicitFilter   = "implicit_filter"
	SourceImplicitShare    = "implicit_share"
)

// UserPreference is a durable inferred or stated preference. A user has at
// most one record per (Type, Value).
type UserPreference struct {
	UserID      string    `json:"user_id"`
	Type        string    `json:"type"`
	Value       string    `json:"value"`
	Strength    float64   `json:"strength"`
	Confidence  float64   `json:"confidence"`
	Source      string    `json:"source"`
	LastUpdated time.Time `json:"last_updated"`
}

// Key returns the (type, value) identity of the preference within a user.
func (p *UserPreference) Key() string {
	return PreferenceKey(p.Type, p.Value)
}

// IsExplicit reports whether the preference was stated by the user.
func (p *UserPreference) IsExplicit() bool {
	return IsExplicitSource(p.Source)
}

// PreferenceKey builds the per-user identity key for a preference.
func PreferenceKey(typ, value string) string {
	return typ + ":" + value
}

// IsExplicitSource reports whether a source tag denotes explicit evidence.
func IsExplicitSource(source string) bool {
	return strings.HasPrefix(source, "explicit")
}

// IsImplicitSource reports whether a source tag denotes implicit evidence.
func IsImplicitSource(source string) bool {
	return strings.HasPrefix(source, "implicit")
}
