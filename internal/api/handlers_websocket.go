// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/wanderfeed/internal/logging"
	ws "github.com/tomtom215/wanderfeed/internal/websocket"
)

// FeedWebSocket handles GET /api/v1/ws/feed/{userID}: upgrades the
// connection and streams the user's feed, current value first.
func (h *Handler) FeedWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.deps.Hub == nil {
		NewResponseWriter(w, r).ServiceUnavailable("WebSocket service unavailable")
		return
	}
	userID := chi.URLParam(r, "userID")

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	ws.NewClient(h.deps.Hub, conn, userID).Start(h.deps.Feed.Recommendations(userID))
}
