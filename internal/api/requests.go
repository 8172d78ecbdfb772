// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package api

import (
	"strconv"
	"time"

	"github.com/tomtom215/wanderfeed/internal/models"
)

// TrackInteractionRequest is the body of POST /interactions.
type TrackInteractionRequest struct {
	ID         string            `json:"id,omitempty" validate:"omitempty,max=128"`
	UserID     string            `json:"user_id" validate:"required,max=128"`
	Type       string            `json:"type" validate:"required,interaction_type"`
	TargetID   string            `json:"target_id,omitempty" validate:"max=256"`
	TargetType string            `json:"target_type,omitempty" validate:"max=64"`
	Value      *float64          `json:"value,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" validate:"max=32,dive,keys,max=64,endkeys,max=512"`
	Timestamp  *time.Time        `json:"timestamp,omitempty"`
}

// Interaction converts the request to a tracker event.
func (r *TrackInteractionRequest) Interaction() *models.Interaction {
	i := models.NewInteraction(r.UserID, models.InteractionType(r.Type))
	if r.ID != "" {
		i.ID = r.ID
	}
	if r.Timestamp != nil {
		i.Timestamp = *r.Timestamp
	}
	i.TargetID = r.TargetID
	i.TargetType = r.TargetType
	i.Value = r.Value
	i.Metadata = r.Metadata
	return i
}

// Feedback actions accepted by POST /users/{userID}/feedback.
const (
	FeedbackClick   = "click"
	FeedbackLike    = "like"
	FeedbackSave    = "save"
	FeedbackShare   = "share"
	FeedbackDismiss = "dismiss"
	FeedbackDislike = "dislike"
)

// FeedbackRequest reports a user's reaction to a feed entry.
type FeedbackRequest struct {
	DestinationID int64  `json:"destination_id" validate:"required,gt=0"`
	Action        string `json:"action" validate:"required,oneof=click like save share dismiss dislike"`
}

// interactionType maps positive feedback to the interaction it implies.
// Negative feedback has no interaction.
func (r *FeedbackRequest) interactionType() (models.InteractionType, bool) {
	switch r.Action {
	case FeedbackClick:
		return models.InteractionClick, true
	case FeedbackLike, FeedbackSave:
		return models.InteractionBookmark, true
	case FeedbackShare:
		return models.InteractionShare, true
	default:
		return "", false
	}
}

// removesFromFeed reports whether the action drops the entry from the feed.
func (r *FeedbackRequest) removesFromFeed() bool {
	return r.Action == FeedbackDismiss || r.Action == FeedbackDislike
}

func (r *FeedbackRequest) interaction(userID string) (*models.Interaction, bool) {
	typ, ok := r.interactionType()
	if !ok {
		return nil, false
	}
	i := models.NewInteraction(userID, typ)
	i.TargetID = strconv.FormatInt(r.DestinationID, 10)
	i.TargetType = models.DefaultTargetType
	return i, true
}

// DestinationRequest is one catalog entry in PUT /destinations.
type DestinationRequest struct {
	ID            int64   `json:"id" validate:"required,gt=0"`
	Name          string  `json:"name" validate:"required,max=256"`
	Region        string  `json:"region" validate:"max=128"`
	ImageURL      string  `json:"image_url,omitempty" validate:"omitempty,url"`
	Tags          string  `json:"tags" validate:"max=1024"`
	AverageRating float64 `json:"average_rating" validate:"gte=0,lte=5"`
}

// UpsertDestinationsRequest is the body of PUT /destinations.
type UpsertDestinationsRequest struct {
	Destinations []DestinationRequest `json:"destinations" validate:"required,min=1,max=1000,dive"`
}

func (r *UpsertDestinationsRequest) destinations() []models.Destination {
	out := make([]models.Destination, len(r.Destinations))
	for i, d := range r.Destinations {
		out[i] = models.Destination{
			ID:            d.ID,
			Name:          d.Name,
			Region:        d.Region,
			ImageURL:      d.ImageURL,
			Tags:          d.Tags,
			AverageRating: d.AverageRating,
		}
	}
	return out
}

// ListParams are the query parameters shared by list endpoints.
type ListParams struct {
	Limit int    `validate:"gte=0,lte=1000"`
	Type  string `validate:"max=64"`
}
