// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

// Package validation provides struct validation using go-playground/validator v10.
// It provides a thread-safe singleton validator instance with custom validators
// for request bodies.
//
// Features:
//   - Singleton validator instance (thread-safe, caches struct info)
//   - Field names in errors use the json tag, matching what clients send
//   - interaction_type custom tag backed by models.InteractionType.Valid
//   - Uses WithRequiredStructEnabled option (v11+ compatibility)
//
// Example usage:
//
//	type TrackRequest struct {
//	    UserID string `json:"user_id" validate:"required,max=128"`
//	    Type   string `json:"type" validate:"required,interaction_type"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    apiErr := err.ToAPIError()
//	    rw.ValidationError(apiErr.Message, apiErr.Details)
//	    return
//	}
//
// # Error Format
//
// ValidateStruct returns *RequestValidationError. ToAPIError converts it to
// a VALIDATION_ERROR with either a single field's details or a "fields"
// list when several fields fail:
//
//	{"field": "user_id", "tag": "required", "value": ""}
//
// # Custom Tags
//
//   - interaction_type: one of the tracked interaction types
//
// The rules used by request and model structs (required, min, max, gt,
// gte, lte, oneof, url) have translated messages; anything else falls back
// to "<field> failed <tag> validation". Fields inside dived slices are
// reported by path, e.g. destinations[1].name.
package validation
