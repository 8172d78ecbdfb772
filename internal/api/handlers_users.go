// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/wanderfeed/internal/logging"
	"github.com/tomtom215/wanderfeed/internal/models"
)

// Preferences handles GET /api/v1/users/{userID}/preferences, strongest
// first, optionally filtered by ?type=.
func (h *Handler) Preferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	params, ok := listParams(rw, r)
	if !ok {
		return
	}

	prefs, err := h.deps.Tracker.Preferences(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		rw.StoreError(err)
		return
	}

	out := make([]models.UserPreference, 0, len(prefs))
	for _, p := range prefs {
		if params.Type == "" || p.Type == params.Type {
			out = append(out, p)
		}
	}
	if params.Limit > 0 && len(out) > params.Limit {
		out = out[:params.Limit]
	}
	rw.List(out, len(out))
}

// Recommendations handles GET /api/v1/users/{userID}/recommendations. It
// returns the current feed and schedules a refresh when the feed is stale;
// a first request for a user returns an empty feed at version 0.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	recs, version, _ := h.deps.Feed.Recommendations(chi.URLParam(r, "userID")).Latest()
	if recs == nil {
		recs = []models.TravelRecommendation{}
	}
	count := len(recs)
	rw.SuccessWithMeta(recs, &APIMeta{Count: &count, Version: version})
}

// FeedbackResult reports what a feedback request changed.
type FeedbackResult struct {
	Action        string `json:"action"`
	DestinationID int64  `json:"destination_id"`
	Removed       bool   `json:"removed"`
	InteractionID string `json:"interaction_id,omitempty"`
}

// Feedback handles POST /api/v1/users/{userID}/feedback. Positive feedback
// is tracked as the interaction it implies; dismiss and dislike remove the
// destination from the live feed.
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := chi.URLParam(r, "userID")

	var req FeedbackRequest
	if !decodeAndValidate(rw, w, r, &req) {
		return
	}

	result := FeedbackResult{Action: req.Action, DestinationID: req.DestinationID}
	if req.removesFromFeed() {
		result.Removed = h.deps.Feed.Dismiss(userID, req.DestinationID)
	}
	if interaction, ok := req.interaction(userID); ok {
		if err := h.deps.Tracker.Track(r.Context(), interaction); err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Str("user_id", userID).Msg("Failed to track feedback")
			rw.ServiceUnavailable("Feedback could not be recorded")
			return
		}
		result.InteractionID = interaction.ID
	}

	rw.Success(result)
}
