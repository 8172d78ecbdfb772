// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// InteractionSchemaVersion is the current interaction event schema version.
const InteractionSchemaVersion = 1

// DefaultTargetType is assumed when an interaction carries no target type.
const DefaultTargetType = "destination"

// InteractionType identifies what the user did.
type InteractionType string

// Interaction types accepted by the tracker.
const (
	InteractionView     InteractionType = "view"
	InteractionClick    InteractionType = "click"
	InteractionBookmark InteractionType = "bookmark"
	InteractionRate     InteractionType = "rate"
	InteractionSearch   InteractionType = "search"
	InteractionFilter   InteractionType = "filter"
	InteractionShare    InteractionType = "share"
)

// Metadata keys with special meaning for search and filter events.
const (
	MetaQuery       = "query"
	MetaFilterType  = "filter_type"
	MetaFilterValue = "filter_value"
)

// AllInteractionTypes lists every known interaction type in declaration order.
var AllInteractionTypes = []InteractionType{
	InteractionView,
	InteractionClick,
	InteractionBookmark,
	InteractionRate,
	InteractionSearch,
	InteractionFilter,
	InteractionShare,
}

// Valid reports whether t is a known interaction type.
func (t InteractionType) Valid() bool {
	for _, known := range AllInteractionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// TargetsEntity reports whether interactions of this type point at a
// concrete target (destination, tag, region) rather than carrying their
// payload in metadata.
func (t InteractionType) TargetsEntity() bool {
	switch t {
	case InteractionView, InteractionClick, InteractionBookmark, InteractionRate, InteractionShare:
		return true
	default:
		return false
	}
}

// Interaction is a single user interaction event. It is immutable once
// created: consumers must not modify Metadata.
type Interaction struct {
	SchemaVersion int `json:"schema_version,omitempty"`

	// ID uniquely identifies the event and is used for bus deduplication.
	ID        string          `json:"id"`
	UserID    string          `json:"user_id" validate:"required,max=128"`
	Timestamp time.Time       `json:"timestamp"`
	Type      InteractionType `json:"type" validate:"required,oneof=view click bookmark rate search filter share"`

	// TargetID and TargetType are optional; most entity interactions set both.
	TargetID   string `json:"target_id,omitempty" validate:"max=256"`
	TargetType string `json:"target_type,omitempty" validate:"max=64"`

	// Value carries the numeric payload of rate events, nominally 0-5.
	// Out-of-scale ratings are clamped when inferring strength.
	Value *float64 `json:"value,omitempty"`

	Metadata map[string]string `json:"metadata,omitempty"`
}

// NewInteraction creates an event with a unique ID, current timestamp and schema version.
func NewInteraction(userID string, typ InteractionType) *Interaction {
	return &Interaction{
		SchemaVersion: InteractionSchemaVersion,
		ID:            uuid.New().String(),
		UserID:        userID,
		Timestamp:     time.Now().UTC(),
		Type:          typ,
	}
}

// EnsureDefaults fills ID, timestamp and schema version when absent.
func (i *Interaction) EnsureDefaults(now time.Time) {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = now.UTC()
	}
	if i.SchemaVersion == 0 {
		i.SchemaVersion = InteractionSchemaVersion
	}
}

// Validate checks required fields and returns an error if validation fails.
func (i *Interaction) Validate() error {
	if i.ID == "" {
		return &ValidationError{Field: "id", Message: "required"}
	}
	if i.UserID == "" {
		return &ValidationError{Field: "user_id", Message: "required"}
	}
	if !i.Type.Valid() {
		return &ValidationError{Field: "type", Message: "unknown interaction type " + string(i.Type)}
	}
	return nil
}

// EffectiveTargetType returns the target type, defaulting to "destination".
func (i *Interaction) EffectiveTargetType() string {
	if i.TargetType == "" {
		return DefaultTargetType
	}
	return i.TargetType
}

// Meta returns a metadata value and whether it was present.
func (i *Interaction) Meta(key string) (string, bool) {
	if i.Metadata == nil {
		return "", false
	}
	v, ok := i.Metadata[key]
	return v, ok
}

// SearchTerms splits a free-text query on spaces, commas and semicolons,
// lowercases the pieces and drops anything of three characters or fewer.
func SearchTerms(query string) []string {
	fields := strings.FieldsFunc(query, func(r rune) bool {
		return r == ' ' || r == ',' || r == ';'
	})

	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		term := strings.ToLower(strings.TrimSpace(f))
		if len([]rune(term)) > 3 {
			terms = append(terms, term)
		}
	}
	return terms
}

// ValidationError describes a missing or malformed field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + ": " + e.Message
}
