// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	if v1, v2 := GetValidator(), GetValidator(); v1 == nil || v1 != v2 {
		t.Error("GetValidator() should return one non-nil instance")
	}
}

type interactionRequest struct {
	UserID   string  `json:"user_id" validate:"required,max=8"`
	Type     string  `json:"type" validate:"required,interaction_type"`
	Rating   float64 `json:"rating" validate:"gte=0,lte=5"`
	Action   string  `json:"action,omitempty" validate:"omitempty,oneof=click save share dismiss"`
	Internal string  `json:"-" validate:"max=2"`
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	valid := interactionRequest{UserID: "u1", Type: "bookmark", Rating: 4}

	tests := []struct {
		name    string
		mod     func(r *interactionRequest)
		field   string
		tag     string
		message string
	}{
		{"valid", func(*interactionRequest) {}, "", "", ""},
		{"missing user", func(r *interactionRequest) { r.UserID = "" }, "user_id", "required", "user_id is required"},
		{"long user", func(r *interactionRequest) { r.UserID = "abcdefghi" }, "user_id", "max", "user_id must be at most 8 characters"},
		{"unknown type", func(r *interactionRequest) { r.Type = "poke" }, "type", "interaction_type", "type must be one of: view"},
		{"rating too high", func(r *interactionRequest) { r.Rating = 6 }, "rating", "lte", "rating must be less than or equal to 5"},
		{"bad action", func(r *interactionRequest) { r.Action = "like" }, "action", "oneof", "action must be one of: click save share dismiss"},
		{"json dash keeps go name", func(r *interactionRequest) { r.Internal = "abc" }, "Internal", "max", "Internal must be at most 2 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := valid
			tt.mod(&req)
			err := ValidateStruct(&req)

			if tt.field == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("errors = %v, want 1", errs)
			}
			if errs[0].Field() != tt.field || errs[0].Tag() != tt.tag {
				t.Errorf("field/tag = %s/%s, want %s/%s", errs[0].Field(), errs[0].Tag(), tt.field, tt.tag)
			}
			if !strings.HasPrefix(errs[0].Error(), tt.message) {
				t.Errorf("message = %q, want prefix %q", errs[0].Error(), tt.message)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	single := ValidateStruct(&interactionRequest{UserID: "u1", Type: "poke"}).ToAPIError()
	if single.Code != "VALIDATION_ERROR" || single.Details["field"] != "type" {
		t.Errorf("single = %+v", single)
	}

	multi := ValidateStruct(&interactionRequest{}).ToAPIError()
	fields, ok := multi.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("multi details = %+v", multi.Details)
	}
	if !strings.Contains(multi.Message, "user_id: user_id is required") {
		t.Errorf("multi message = %q", multi.Message)
	}

	if got := (&RequestValidationError{}).ToAPIError().Message; got != "Validation failed" {
		t.Errorf("empty message = %q", got)
	}
}

type destinationItem struct {
	ID       int64  `json:"id" validate:"required,gt=0"`
	Name     string `json:"name" validate:"required,max=16"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type seedRequest struct {
	Destinations []destinationItem `json:"destinations" validate:"required,min=1,max=2,dive"`
}

func TestValidateStructNested(t *testing.T) {
	t.Parallel()

	ok := destinationItem{ID: 1, Name: "Bali", ImageURL: "https://img.example.com/bali.jpg"}

	tests := []struct {
		name    string
		req     seedRequest
		field   string
		tag     string
		message string
	}{
		{"bad url", seedRequest{Destinations: []destinationItem{{ID: 1, Name: "Bali", ImageURL: "not a url"}}},
			"destinations[0].image_url", "url", "destinations[0].image_url must be an absolute URL"},
		{"dive into second element", seedRequest{Destinations: []destinationItem{ok, {ID: 2}}},
			"destinations[1].name", "required", "destinations[1].name is required"},
		{"non-positive id", seedRequest{Destinations: []destinationItem{{ID: -4, Name: "Alps"}}},
			"destinations[0].id", "gt", "destinations[0].id must be greater than 0"},
		{"empty list", seedRequest{Destinations: []destinationItem{}},
			"destinations", "min", "destinations must have at least 1 entries"},
		{"too many", seedRequest{Destinations: []destinationItem{ok, ok, ok}},
			"destinations", "max", "destinations must have at most 2 entries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateStruct(&tt.req)
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("errors = %v, want 1", errs)
			}
			if errs[0].Field() != tt.field || errs[0].Tag() != tt.tag {
				t.Errorf("field/tag = %s/%s, want %s/%s", errs[0].Field(), errs[0].Tag(), tt.field, tt.tag)
			}
			if errs[0].Error() != tt.message {
				t.Errorf("message = %q, want %q", errs[0].Error(), tt.message)
			}
		})
	}

	if err := ValidateStruct(&seedRequest{Destinations: []destinationItem{ok}}); err != nil {
		t.Errorf("valid request error = %v", err)
	}
}
