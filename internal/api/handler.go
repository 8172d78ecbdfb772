// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/wanderfeed/internal/broadcast"
	"github.com/tomtom215/wanderfeed/internal/config"
	"github.com/tomtom215/wanderfeed/internal/models"
	"github.com/tomtom215/wanderfeed/internal/store"
	"github.com/tomtom215/wanderfeed/internal/validation"
	ws "github.com/tomtom215/wanderfeed/internal/websocket"
)

// maxBodyBytes caps request bodies; destination seeding is the largest.
const maxBodyBytes = 4 << 20

// Tracker records interactions and serves per-user history.
type Tracker interface {
	Track(ctx context.Context, interaction *models.Interaction) error
	Recent(userID string, limit int) []models.Interaction
	Preferences(ctx context.Context, userID string) ([]models.UserPreference, error)
}

// Feed serves per-user recommendation feeds.
type Feed interface {
	Recommendations(userID string) *broadcast.Channel[[]models.TravelRecommendation]
	Dismiss(userID string, destinationID int64) bool
}

// Trends exposes the trending outputs.
type Trends interface {
	TrendingDestinations() *broadcast.Channel[[]models.TrendingDestination]
	TrendingTopics() *broadcast.Channel[[]models.TrendingTopic]
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Deps groups the collaborators a Handler serves.
type Deps struct {
	Tracker      Tracker
	Feed         Feed
	Trends       Trends
	Patterns     store.PatternStore
	Destinations store.DestinationStore
	Hub          *ws.Hub

	// Readiness checks run by /health/ready, keyed by dependency name.
	Readiness map[string]ReadinessCheck
}

// Handler implements the HTTP endpoints.
type Handler struct {
	deps      Deps
	config    *config.Config
	startTime time.Time
}

// NewHandler creates a handler.
func NewHandler(cfg *config.Config, deps Deps) *Handler {
	return &Handler{
		deps:      deps,
		config:    cfg,
		startTime: time.Now(),
	}
}

// decodeAndValidate reads a JSON body into dst and validates it, writing
// the error response itself. It reports whether the handler may proceed.
func decodeAndValidate(rw *ResponseWriter, w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		rw.BadRequest("Invalid JSON body")
		return false
	}
	return validateRequest(rw, dst)
}

func validateRequest(rw *ResponseWriter, req interface{}) bool {
	if verr := validation.ValidateStruct(req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

// listParams parses and validates limit and type query parameters.
func listParams(rw *ResponseWriter, r *http.Request) (ListParams, bool) {
	q := r.URL.Query()
	params := ListParams{Type: q.Get("type")}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			rw.BadRequest("limit must be an integer")
			return params, false
		}
		params.Limit = n
	}
	return params, validateRequest(rw, &params)
}

// getUpgrader creates a WebSocket upgrader with origin checking against
// the configured CORS origins.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin allows requests without an Origin header (non-browser
// clients) and browser requests from a configured origin.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.config == nil {
		return true
	}
	for _, allowed := range h.config.Server.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
