// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/wanderfeed/internal/config"
	"github.com/tomtom215/wanderfeed/internal/models"
	ws "github.com/tomtom215/wanderfeed/internal/websocket"
)

func TestFeedWebSocketWithoutHub(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	rec, env := ts.do(t, http.MethodGet, "/api/v1/ws/feed/u1", "")
	if rec.Code != http.StatusServiceUnavailable || env.Error.Code != ErrCodeServiceUnavailable {
		t.Errorf("status = %d %+v, want 503", rec.Code, env.Error)
	}
}

func TestFeedWebSocketStreamsFeed(t *testing.T) {
	t.Parallel()

	var hub *ws.Hub
	ts := newTestServer(t, func(cfg *config.Config, deps *Deps) {
		hub = ws.NewHub(cfg.WebSocket, nil)
		deps.Hub = hub
	})
	ts.feed.Recommendations("u1").Publish([]models.TravelRecommendation{
		{ID: 1001, DestinationID: 1, Title: "Trending: Bali"},
	})

	srv := httptest.NewServer(ts.handler)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/feed/u1"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline() error = %v", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}

	var msg struct {
		Type string        `json:"type"`
		Data ws.FeedUpdate `json:"data"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	if msg.Type != ws.MessageTypeFeed || msg.Data.UserID != "u1" || msg.Data.Version != 1 {
		t.Errorf("message = %+v", msg)
	}
	if len(msg.Data.Recommendations) != 1 || msg.Data.Recommendations[0].ID != 1001 {
		t.Errorf("recommendations = %+v", msg.Data.Recommendations)
	}
	if hub.GetClientCount() != 1 {
		t.Errorf("GetClientCount() = %d, want 1", hub.GetClientCount())
	}
}

func TestWebSocketOriginCheck(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Server.CORSOrigins = []string{"https://app.example.com"}
	h := NewHandler(cfg, Deps{})

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"https://app.example.com", true},
		{"https://evil.example.com", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/ws/feed/u1", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := h.checkWebSocketOrigin(r); got != tt.want {
			t.Errorf("origin %q: got %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	ts.do(t, http.MethodGet, "/api/v1/health/live", "")

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("metrics output missing runtime collectors")
	}
}
