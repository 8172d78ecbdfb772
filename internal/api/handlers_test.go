// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderfeed/internal/broadcast"
	"github.com/tomtom215/wanderfeed/internal/config"
	"github.com/tomtom215/wanderfeed/internal/models"
	"github.com/tomtom215/wanderfeed/internal/store"
	"github.com/tomtom215/wanderfeed/internal/tracker"
)

type fakeTracker struct {
	mu      sync.Mutex
	tracked []*models.Interaction
	recent  []models.Interaction
	prefs   []models.UserPreference
	err     error
}

func (f *fakeTracker) Track(_ context.Context, i *models.Interaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.tracked = append(f.tracked, i)
	return nil
}

func (f *fakeTracker) Recent(_ string, limit int) []models.Interaction {
	out := append([]models.Interaction(nil), f.recent...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (f *fakeTracker) Preferences(_ context.Context, _ string) ([]models.UserPreference, error) {
	return f.prefs, f.err
}

func (f *fakeTracker) trackedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tracked)
}

type fakeFeed struct {
	mu        sync.Mutex
	channels  map[string]*broadcast.Channel[[]models.TravelRecommendation]
	dismissed []int64
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{channels: make(map[string]*broadcast.Channel[[]models.TravelRecommendation])}
}

func (f *fakeFeed) Recommendations(userID string) *broadcast.Channel[[]models.TravelRecommendation] {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.channels[userID]
	if !ok {
		ch = broadcast.New[[]models.TravelRecommendation](4)
		f.channels[userID] = ch
	}
	return ch
}

func (f *fakeFeed) Dismiss(_ string, destinationID int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dismissed = append(f.dismissed, destinationID)
	return true
}

type fakeTrends struct {
	destinations *broadcast.Channel[[]models.TrendingDestination]
	topics       *broadcast.Channel[[]models.TrendingTopic]
}

func (f *fakeTrends) TrendingDestinations() *broadcast.Channel[[]models.TrendingDestination] {
	return f.destinations
}

func (f *fakeTrends) TrendingTopics() *broadcast.Channel[[]models.TrendingTopic] {
	return f.topics
}

type testServer struct {
	handler      http.Handler
	tracker      *fakeTracker
	feed         *fakeFeed
	trends       *fakeTrends
	patterns     *store.MemoryPatternStore
	destinations *store.MemoryDestinationStore
}

func newTestServer(t *testing.T, mutate func(cfg *config.Config, deps *Deps)) *testServer {
	t.Helper()

	cfg := config.Default()
	ts := &testServer{
		tracker: &fakeTracker{},
		feed:    newFakeFeed(),
		trends: &fakeTrends{
			destinations: broadcast.New[[]models.TrendingDestination](4),
			topics:       broadcast.New[[]models.TrendingTopic](4),
		},
		patterns:     store.NewMemoryPatternStore(4),
		destinations: store.NewMemoryDestinationStore(4),
	}
	deps := Deps{
		Tracker:      ts.tracker,
		Feed:         ts.feed,
		Trends:       ts.trends,
		Patterns:     ts.patterns,
		Destinations: ts.destinations,
	}
	if mutate != nil {
		mutate(cfg, &deps)
	}

	handler := NewHandler(cfg, deps)
	mw := NewChiMiddleware(MiddlewareConfigFromServer(&cfg.Server))
	ts.handler = NewRouter(handler, mw, zerolog.Nop()).Setup()
	return ts
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func (ts *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: invalid JSON response %q: %v", method, path, rec.Body.String(), err)
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func TestTrackInteraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		trackerErr error
		wantStatus int
		wantCode   string
	}{
		{"bookmark", `{"user_id":"u1","type":"bookmark","target_id":"7","target_type":"destination"}`, nil, http.StatusAccepted, ""},
		{"rate with value", `{"user_id":"u1","type":"rate","target_id":"7","value":4}`, nil, http.StatusAccepted, ""},
		{"rate without value", `{"user_id":"u1","type":"rate","target_id":"7"}`, nil, http.StatusBadRequest, ErrCodeValidationFailed},
		{"rate above scale", `{"user_id":"u1","type":"rate","target_id":"7","value":9}`, nil, http.StatusAccepted, ""},
		{"rate below zero", `{"user_id":"u1","type":"rate","target_id":"7","value":-1}`, nil, http.StatusAccepted, ""},
		{"unknown type", `{"user_id":"u1","type":"poke"}`, nil, http.StatusBadRequest, ErrCodeValidationFailed},
		{"missing user", `{"type":"view"}`, nil, http.StatusBadRequest, ErrCodeValidationFailed},
		{"malformed json", `{"user_id":`, nil, http.StatusBadRequest, ErrCodeBadRequest},
		{"tracker rejects", `{"user_id":"u1","type":"view"}`, fmt.Errorf("%w: bad", tracker.ErrInvalidInteraction), http.StatusBadRequest, ErrCodeBadRequest},
		{"bus down", `{"user_id":"u1","type":"view"}`, errors.New("publish interaction: closed"), http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := newTestServer(t, nil)
			ts.tracker.err = tt.trackerErr
			rec, env := ts.do(t, http.MethodPost, "/api/v1/interactions", tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				if env.Error == nil || env.Error.Code != tt.wantCode {
					t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
				}
				return
			}

			var got TrackedInteraction
			decodeData(t, env, &got)
			if got.ID == "" {
				t.Error("response missing interaction ID")
			}
			if ts.tracker.trackedCount() != 1 {
				t.Errorf("tracked = %d, want 1", ts.tracker.trackedCount())
			}
		})
	}
}

func TestTrackInteractionKeepsClientFields(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	body := `{"id":"evt-1","user_id":"u1","type":"search","metadata":{"query":"beach trip"},"timestamp":"2026-04-01T10:00:00Z"}`
	rec, _ := ts.do(t, http.MethodPost, "/api/v1/interactions", body)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rec.Code)
	}

	got := ts.tracker.tracked[0]
	if got.ID != "evt-1" || got.Type != models.InteractionSearch {
		t.Errorf("interaction = %+v", got)
	}
	if q, _ := got.Meta(models.MetaQuery); q != "beach trip" {
		t.Errorf("query = %q", q)
	}
	if !got.Timestamp.Equal(time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("timestamp = %v", got.Timestamp)
	}
}

func TestRecentInteractions(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	ts.tracker.recent = []models.Interaction{
		{ID: "3", UserID: "u1", Type: models.InteractionClick},
		{ID: "2", UserID: "u1", Type: models.InteractionView},
		{ID: "1", UserID: "u1", Type: models.InteractionClick},
	}

	_, env := ts.do(t, http.MethodGet, "/api/v1/interactions/u1?type=click", "")
	var got []models.Interaction
	decodeData(t, env, &got)
	if len(got) != 2 || got[0].ID != "3" || got[1].ID != "1" {
		t.Errorf("filtered = %+v", got)
	}
	if env.Meta.Count == nil || *env.Meta.Count != 2 {
		t.Errorf("meta count = %v", env.Meta.Count)
	}

	_, env = ts.do(t, http.MethodGet, "/api/v1/interactions/u1?limit=1", "")
	decodeData(t, env, &got)
	if len(got) != 1 {
		t.Errorf("limited = %d entries", len(got))
	}

	for _, q := range []string{"limit=abc", "limit=5000", "limit=-1"} {
		rec, _ := ts.do(t, http.MethodGet, "/api/v1/interactions/u1?"+q, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestPreferences(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	ts.tracker.prefs = []models.UserPreference{
		{UserID: "u1", Type: models.PreferenceTag, Value: "beach", Strength: 0.9},
		{UserID: "u1", Type: models.PreferenceRegion, Value: "Asia", Strength: 0.7},
		{UserID: "u1", Type: models.PreferenceTag, Value: "hiking", Strength: 0.4},
	}

	_, env := ts.do(t, http.MethodGet, "/api/v1/users/u1/preferences?type=tag&limit=1", "")
	var got []models.UserPreference
	decodeData(t, env, &got)
	if len(got) != 1 || got[0].Value != "beach" {
		t.Errorf("preferences = %+v", got)
	}

	ts.tracker.err = errors.New("disk gone")
	rec, env := ts.do(t, http.MethodGet, "/api/v1/users/u1/preferences", "")
	if rec.Code != http.StatusInternalServerError || env.Error.Code != ErrCodeStoreError {
		t.Errorf("store failure: %d %+v", rec.Code, env.Error)
	}
	if strings.Contains(rec.Body.String(), "disk gone") {
		t.Error("store error leaked to client")
	}
}

func TestRecommendations(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)

	_, env := ts.do(t, http.MethodGet, "/api/v1/users/u1/recommendations", "")
	if string(env.Data) != "[]" || env.Meta.Version != 0 {
		t.Errorf("new feed = %s version %d, want [] at 0", env.Data, env.Meta.Version)
	}

	ts.feed.Recommendations("u1").Publish([]models.TravelRecommendation{
		{ID: 1001, DestinationID: 1, Title: "Trending: Bali", RelevanceScore: 0.8},
	})
	_, env = ts.do(t, http.MethodGet, "/api/v1/users/u1/recommendations", "")
	var got []models.TravelRecommendation
	decodeData(t, env, &got)
	if len(got) != 1 || got[0].ID != 1001 || env.Meta.Version != 1 {
		t.Errorf("feed = %+v version %d", got, env.Meta.Version)
	}
}

func TestFeedback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		action      string
		wantType    models.InteractionType
		wantDismiss bool
	}{
		{FeedbackClick, models.InteractionClick, false},
		{FeedbackLike, models.InteractionBookmark, false},
		{FeedbackSave, models.InteractionBookmark, false},
		{FeedbackShare, models.InteractionShare, false},
		{FeedbackDismiss, "", true},
		{FeedbackDislike, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			t.Parallel()

			ts := newTestServer(t, nil)
			rec, env := ts.do(t, http.MethodPost, "/api/v1/users/u1/feedback",
				fmt.Sprintf(`{"destination_id":7,"action":%q}`, tt.action))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
			}

			var got FeedbackResult
			decodeData(t, env, &got)
			if got.Removed != tt.wantDismiss {
				t.Errorf("removed = %v, want %v", got.Removed, tt.wantDismiss)
			}

			if tt.wantType == "" {
				if ts.tracker.trackedCount() != 0 {
					t.Error("negative feedback should not be tracked")
				}
				return
			}
			if ts.tracker.trackedCount() != 1 {
				t.Fatalf("tracked = %d, want 1", ts.tracker.trackedCount())
			}
			i := ts.tracker.tracked[0]
			if i.Type != tt.wantType || i.TargetID != "7" || i.TargetType != models.DefaultTargetType || i.UserID != "u1" {
				t.Errorf("interaction = %+v", i)
			}
			if got.InteractionID != i.ID {
				t.Errorf("interaction_id = %q, want %q", got.InteractionID, i.ID)
			}
		})
	}
}

func TestFeedbackValidation(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	for _, body := range []string{
		`{"destination_id":7,"action":"love"}`,
		`{"destination_id":0,"action":"click"}`,
		`{"action":"click"}`,
	} {
		rec, env := ts.do(t, http.MethodPost, "/api/v1/users/u1/feedback", body)
		if rec.Code != http.StatusBadRequest || env.Error.Code != ErrCodeValidationFailed {
			t.Errorf("%s: %d %+v", body, rec.Code, env.Error)
		}
	}
}

func TestTrending(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	ts.trends.destinations.Publish([]models.TrendingDestination{
		{ID: 1, Name: "Bali", TrendingScore: 30},
		{ID: 2, Name: "Alps", TrendingScore: 20},
	})
	ts.trends.topics.Publish([]models.TrendingTopic{
		{Type: models.PreferenceRegion, Value: "Asia", TrendingScore: 9},
		{Type: models.PreferenceSearchTerm, Value: "beach", TrendingScore: 5},
	})

	_, env := ts.do(t, http.MethodGet, "/api/v1/trending/destinations?limit=1", "")
	var dests []models.TrendingDestination
	decodeData(t, env, &dests)
	if len(dests) != 1 || dests[0].ID != 1 || env.Meta.Version != 1 {
		t.Errorf("destinations = %+v version %d", dests, env.Meta.Version)
	}

	_, env = ts.do(t, http.MethodGet, "/api/v1/trending/topics?type=search_term", "")
	var topics []models.TrendingTopic
	decodeData(t, env, &topics)
	if len(topics) != 1 || topics[0].Value != "beach" {
		t.Errorf("topics = %+v", topics)
	}
}

func TestTrendingBeforeFirstSnapshot(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	_, env := ts.do(t, http.MethodGet, "/api/v1/trending/destinations", "")
	if string(env.Data) != "[]" {
		t.Errorf("data = %s, want []", env.Data)
	}
}

func TestPatterns(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	for i, typ := range []string{models.PatternTrending, models.PatternTrendingTopic, models.PatternTrending} {
		p := models.TravelPattern{
			ID:        fmt.Sprintf("p%d", i),
			UserID:    models.PatternGlobalUser,
			Type:      typ,
			StartDate: base.Add(time.Duration(i) * time.Hour),
		}
		if err := ts.patterns.Insert(ctx, &p); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	_, env := ts.do(t, http.MethodGet, "/api/v1/patterns?type=trending", "")
	var got []models.TravelPattern
	decodeData(t, env, &got)
	if len(got) != 2 || got[0].ID != "p2" {
		t.Errorf("patterns = %+v, want p2 then p0", got)
	}
}

func TestUpsertDestinations(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	body := `{"destinations":[{"id":1,"name":"Bali","region":"Asia","tags":"beach,island","average_rating":4.7}]}`
	rec, _ := ts.do(t, http.MethodPut, "/api/v1/destinations", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}

	d, err := ts.destinations.Destination(context.Background(), 1)
	if err != nil {
		t.Fatalf("Destination() error = %v", err)
	}
	if d.Name != "Bali" || d.Tags != "beach,island" || d.AverageRating != 4.7 {
		t.Errorf("stored = %+v", d)
	}

	for _, bad := range []string{
		`{"destinations":[]}`,
		`{"destinations":[{"id":2,"name":""}]}`,
		`{"destinations":[{"id":2,"name":"X","average_rating":7}]}`,
		`{"destinations":[{"id":2,"name":"X","image_url":"not a url"}]}`,
	} {
		rec, _ := ts.do(t, http.MethodPut, "/api/v1/destinations", bad)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", bad, rec.Code)
		}
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, func(_ *config.Config, deps *Deps) {
		deps.Readiness = map[string]ReadinessCheck{
			"store": func(context.Context) error { return nil },
			"redis": func(context.Context) error { return errors.New("connection refused") },
		}
	})

	rec, _ := ts.do(t, http.MethodGet, "/api/v1/health/live", "")
	if rec.Code != http.StatusOK {
		t.Errorf("live status = %d", rec.Code)
	}

	rec, env := ts.do(t, http.MethodGet, "/api/v1/health/ready", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready status = %d, want 503", rec.Code)
	}
	details, _ := json.Marshal(env.Error.Details)
	var status ReadinessStatus
	if err := json.Unmarshal(details, &status); err != nil {
		t.Fatalf("details: %v", err)
	}
	if status.Ready || status.Checks["store"] != "ok" || status.Checks["redis"] != "connection refused" {
		t.Errorf("status = %+v", status)
	}

	healthy := newTestServer(t, nil)
	if rec, _ := healthy.do(t, http.MethodGet, "/api/v1/health/ready", ""); rec.Code != http.StatusOK {
		t.Errorf("ready without checks = %d, want 200", rec.Code)
	}
}

func TestRouterEnvelopeAndHeaders(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/nope", "")
	if rec.Code != http.StatusNotFound || env.Success || env.Error.Code != ErrCodeNotFound {
		t.Errorf("not found = %d %+v", rec.Code, env.Error)
	}

	rec, _ = ts.do(t, http.MethodDelete, "/api/v1/patterns", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("method not allowed = %d", rec.Code)
	}

	rec, env = ts.do(t, http.MethodGet, "/api/v1/patterns", "")
	if !env.Success || env.Meta.RequestID == "" {
		t.Errorf("envelope = %+v", env)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
	if rec.Header().Get("X-Request-Id") != env.Meta.RequestID {
		t.Errorf("request id header %q != meta %q", rec.Header().Get("X-Request-Id"), env.Meta.RequestID)
	}
}

func TestWriteRateLimit(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, func(cfg *config.Config, _ *Deps) {
		cfg.Server.RateLimitReqs = 5
	})

	body := `{"user_id":"u1","type":"view"}`
	if rec, _ := ts.do(t, http.MethodPost, "/api/v1/interactions", body); rec.Code != http.StatusAccepted {
		t.Fatalf("first status = %d", rec.Code)
	}
	rec, env := ts.do(t, http.MethodPost, "/api/v1/interactions", body)
	if rec.Code != http.StatusTooManyRequests || env.Error.Code != ErrCodeTooManyRequests {
		t.Errorf("second = %d %+v, want 429", rec.Code, env.Error)
	}
}
