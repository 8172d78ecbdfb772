// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/wanderfeed/internal/logging"
	"github.com/tomtom215/wanderfeed/internal/models"
	"github.com/tomtom215/wanderfeed/internal/tracker"
)

// TrackedInteraction is the response to a tracked interaction.
type TrackedInteraction struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// TrackInteraction handles POST /api/v1/interactions. Inference and trend
// counting happen asynchronously, so success is 202 Accepted.
func (h *Handler) TrackInteraction(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req TrackInteractionRequest
	if !decodeAndValidate(rw, w, r, &req) {
		return
	}
	if models.InteractionType(req.Type) == models.InteractionRate && req.Value == nil {
		rw.ValidationError("value is required for rate interactions", map[string]interface{}{
			"field": "value",
			"tag":   "required",
		})
		return
	}

	interaction := req.Interaction()
	if err := h.deps.Tracker.Track(r.Context(), interaction); err != nil {
		if errors.Is(err, tracker.ErrInvalidInteraction) {
			rw.BadRequest(err.Error())
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Str("user_id", interaction.UserID).Msg("Failed to track interaction")
		rw.ServiceUnavailable("Interaction could not be published")
		return
	}

	rw.Accepted(TrackedInteraction{ID: interaction.ID, Timestamp: interaction.Timestamp})
}

// RecentInteractions handles GET /api/v1/interactions/{userID}: the user's
// buffered interactions, newest first.
func (h *Handler) RecentInteractions(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	params, ok := listParams(rw, r)
	if !ok {
		return
	}

	recent := h.deps.Tracker.Recent(chi.URLParam(r, "userID"), params.Limit)
	if params.Type != "" {
		filtered := recent[:0]
		for _, i := range recent {
			if string(i.Type) == params.Type {
				filtered = append(filtered, i)
			}
		}
		recent = filtered
	}
	rw.List(recent, len(recent))
}
