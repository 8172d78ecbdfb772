// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package api

import (
	"net/http"

	"github.com/tomtom215/wanderfeed/internal/models"
	"github.com/tomtom215/wanderfeed/internal/store"
)

// TrendingDestinations handles GET /api/v1/trending/destinations.
func (h *Handler) TrendingDestinations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	params, ok := listParams(rw, r)
	if !ok {
		return
	}

	list, version, _ := h.deps.Trends.TrendingDestinations().Latest()
	out := capped(list, params.Limit)
	count := len(out)
	rw.SuccessWithMeta(out, &APIMeta{Count: &count, Version: version})
}

// TrendingTopics handles GET /api/v1/trending/topics, optionally filtered
// by topic ?type=.
func (h *Handler) TrendingTopics(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	params, ok := listParams(rw, r)
	if !ok {
		return
	}

	list, version, _ := h.deps.Trends.TrendingTopics().Latest()
	filtered := make([]models.TrendingTopic, 0, len(list))
	for _, t := range list {
		if params.Type == "" || t.Type == params.Type {
			filtered = append(filtered, t)
		}
	}
	out := capped(filtered, params.Limit)
	count := len(out)
	rw.SuccessWithMeta(out, &APIMeta{Count: &count, Version: version})
}

// Patterns handles GET /api/v1/patterns: stored pattern snapshots, newest
// first.
func (h *Handler) Patterns(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	params, ok := listParams(rw, r)
	if !ok {
		return
	}

	patterns, err := h.deps.Patterns.List(r.Context(), store.PatternFilter{Type: params.Type, Limit: params.Limit})
	if err != nil {
		rw.StoreError(err)
		return
	}
	rw.List(patterns, len(patterns))
}

// UpsertDestinations handles PUT /api/v1/destinations, seeding or updating
// the catalog.
func (h *Handler) UpsertDestinations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req UpsertDestinationsRequest
	if !decodeAndValidate(rw, w, r, &req) {
		return
	}
	if err := h.deps.Destinations.Upsert(r.Context(), req.destinations()...); err != nil {
		rw.StoreError(err)
		return
	}
	rw.Success(map[string]int{"upserted": len(req.Destinations)})
}

// capped returns list (never nil) truncated to limit when limit > 0.
func capped[T any](list []T, limit int) []T {
	if list == nil {
		return []T{}
	}
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}
