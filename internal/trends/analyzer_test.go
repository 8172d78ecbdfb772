// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package trends

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderfeed/internal/cache"
	"github.com/tomtom215/wanderfeed/internal/config"
	"github.com/tomtom215/wanderfeed/internal/models"
	"github.com/tomtom215/wanderfeed/internal/store"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingSink struct {
	mu     sync.Mutex
	dests  [][]models.TrendingDestination
	topics [][]models.TrendingTopic
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) WriteDestinations(_ context.Context, list []models.TrendingDestination) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dests = append(s.dests, list)
	return nil
}

func (s *recordingSink) WriteTopics(_ context.Context, list []models.TrendingTopic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics = append(s.topics, list)
	return nil
}

type brokenDestinations struct {
	store.DestinationStore
}

func (brokenDestinations) AllDestinations(context.Context) ([]models.Destination, error) {
	return nil, errors.New("catalog unavailable")
}

func seedDestinations(t *testing.T) *store.MemoryDestinationStore {
	t.Helper()
	dests := store.NewMemoryDestinationStore(4)
	err := dests.Upsert(context.Background(),
		models.Destination{ID: 1, Name: "Bali", Region: "Asia", Tags: "beach,island"},
		models.Destination{ID: 2, Name: "Paris", Region: "Europe", Tags: "museum,culture"},
		models.Destination{ID: 3, Name: "Kyoto", Region: "Asia", Tags: "heritage"},
	)
	if err != nil {
		t.Fatal(err)
	}
	return dests
}

func newTestAnalyzer(t *testing.T, dests store.DestinationStore) (*Analyzer, *fakeClock, *store.MemoryPatternStore, *recordingSink) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)}
	patterns := store.NewMemoryPatternStore(4)
	sink := &recordingSink{}
	a := New(config.Default().Trends, dests, patterns, zerolog.Nop(), WithClock(clock.Now), WithSink(sink))
	return a, clock, patterns, sink
}

func view(destID string) *models.Interaction {
	i := models.NewInteraction("u1", models.InteractionView)
	i.TargetID = destID
	i.TargetType = models.DefaultTargetType
	return i
}

func TestScore(t *testing.T) {
	t.Parallel()
	if got := Score(2, 3, 4); got != 33 {
		t.Errorf("Score(2,3,4) = %d, want 33", got)
	}
}

func TestCountsAge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		hour, day, week  int64
		wHour, wDay, wWk int64
	}{
		{"tens", 10, 10, 10, 5, 8, 9},
		{"ones truncate to zero", 1, 1, 1, 0, 0, 0},
		{"odd", 7, 3, 11, 3, 2, 9},
		{"zero", 0, 0, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newCounts()
			c.Set(Hour, tt.hour)
			c.Set(Day, tt.day)
			c.Set(Week, tt.week)
			c.Set(Month, 42)
			c.Age()
			if c.Get(Hour) != tt.wHour || c.Get(Day) != tt.wDay || c.Get(Week) != tt.wWk {
				t.Errorf("Age() = (%d,%d,%d), want (%d,%d,%d)",
					c.Get(Hour), c.Get(Day), c.Get(Week), tt.wHour, tt.wDay, tt.wWk)
			}
			if c.Get(Month) != 42 {
				t.Errorf("month aged to %d", c.Get(Month))
			}
		})
	}
}

func TestRankDestinations(t *testing.T) {
	t.Parallel()

	counts := cache.NewSharded[*Counts](2)
	set := func(id string, h, d, w int64) {
		c := newCounts()
		c.Set(Hour, h)
		c.Set(Day, d)
		c.Set(Week, w)
		counts.Set(id, c)
	}
	set("1", 1, 1, 1)  // 14
	set("2", 2, 3, 4)  // 33
	set("3", 0, 4, 2)  // 14
	set("99", 9, 9, 9) // unknown

	known := []models.Destination{{ID: 1, Name: "Bali"}, {ID: 2, Name: "Paris"}, {ID: 3, Name: "Kyoto"}}
	got := RankDestinations(counts, known, 20)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3 (unknown ids excluded)", len(got))
	}
	wantIDs := []int64{2, 1, 3}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("rank %d = %d, want %d", i, got[i].ID, id)
		}
	}
	if got[0].TrendingScore != 33 {
		t.Errorf("top score = %d", got[0].TrendingScore)
	}

	if capped := RankDestinations(counts, known, 2); len(capped) != 2 {
		t.Errorf("limit 2 returned %d", len(capped))
	}
}

func TestRankTopicsLimit(t *testing.T) {
	t.Parallel()

	counts := cache.NewSharded[*Counts](2)
	for i := 0; i < 30; i++ {
		c := newCounts()
		c.Set(Week, int64(i))
		counts.Set(topicKey("tag", string(rune('a'+i))), c)
	}
	got := RankTopics(counts, 20)
	if len(got) != 20 {
		t.Fatalf("len = %d, want 20", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].TrendingScore < got[i].TrendingScore {
			t.Fatalf("not sorted at %d", i)
		}
	}
	if got[0].Type != "tag" || got[0].TrendingScore != 29 {
		t.Errorf("top = %+v", got[0])
	}
}

func TestAnalyzerPublishesOnFirstEventThenThrottles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a, clock, _, sink := newTestAnalyzer(t, seedDestinations(t))

	_ = a.Handle(ctx, view("1"))
	list, seq, ok := a.TrendingDestinations().Latest()
	if !ok || seq != 1 {
		t.Fatalf("expected first snapshot, got seq=%d ok=%v", seq, ok)
	}
	if len(list) != 1 || list[0].ID != 1 || list[0].TrendingScore != 14 {
		t.Errorf("snapshot = %+v", list)
	}

	clock.Advance(4 * time.Minute)
	_ = a.Handle(ctx, view("2"))
	if v := a.TrendingDestinations().Version(); v != 1 {
		t.Errorf("republished within interval: version %d", v)
	}

	clock.Advance(2 * time.Minute)
	_ = a.Handle(ctx, view("2"))
	if v := a.TrendingDestinations().Version(); v != 2 {
		t.Errorf("version = %d, want 2", v)
	}
	if len(sink.dests) != 2 {
		t.Errorf("sink saw %d destination snapshots, want 2", len(sink.dests))
	}
}

func TestAnalyzerCountsTopics(t *testing.T) {
	t.Parallel()
	a, _, _, _ := newTestAnalyzer(t, seedDestinations(t))

	search := models.NewInteraction("u1", models.InteractionSearch)
	search.Metadata = map[string]string{models.MetaQuery: "beach holiday"}
	a.count(search)

	filter := models.NewInteraction("u1", models.InteractionFilter)
	filter.Metadata = map[string]string{models.MetaFilterType: "region", models.MetaFilterValue: "Asia"}
	a.count(filter)

	tagged := view("1")
	tagged.Metadata = map[string]string{"tag": "beach"}
	a.count(tagged)

	other := models.NewInteraction("u1", models.InteractionView)
	other.TargetID = "2"
	other.TargetType = "region"
	a.count(other)

	if _, ok := a.destCounts.Get("2"); ok {
		t.Error("non-destination target counted as destination")
	}

	got := RankTopics(a.topicCounts, 20)
	seen := make(map[string]int64)
	for _, topic := range got {
		seen[topic.Type+"="+topic.Value] = topic.TrendingScore
	}
	for _, key := range []string{"search_term=beach", "search_term=holiday", "region=Asia", "tag=beach"} {
		if seen[key] != 14 {
			t.Errorf("topic %s score = %d, want 14", key, seen[key])
		}
	}
}

func TestAnalyzerAgesAfterDestinationRefresh(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a, clock, _, _ := newTestAnalyzer(t, seedDestinations(t))

	for i := 0; i < 10; i++ {
		a.count(view("1"))
	}
	a.Maintain(ctx)

	c, _ := a.destCounts.Get("1")
	if c.Get(Hour) != 5 || c.Get(Day) != 8 || c.Get(Week) != 9 || c.Get(Month) != 10 {
		t.Errorf("after aging = (%d,%d,%d,%d)", c.Get(Hour), c.Get(Day), c.Get(Week), c.Get(Month))
	}

	clock.Advance(time.Minute)
	a.Maintain(ctx)
	if c.Get(Hour) != 5 {
		t.Error("aged again before interval elapsed")
	}
}

func TestAnalyzerPatterns(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a, _, patterns, _ := newTestAnalyzer(t, seedDestinations(t))

	for i := 0; i < 3; i++ {
		a.count(view("1"))
	}
	a.count(view("2"))
	a.count(view("3"))
	tagged := view("3")
	tagged.Metadata = map[string]string{"tag": "heritage"}
	a.count(tagged)
	a.Maintain(ctx)

	trending, err := patterns.List(ctx, store.PatternFilter{Type: models.PatternTrending})
	if err != nil {
		t.Fatal(err)
	}
	if len(trending) != 1 {
		t.Fatalf("trending patterns = %d, want 1", len(trending))
	}
	p := trending[0]
	if p.UserID != models.PatternGlobalUser || p.Confidence != 0.9 || p.SampleSize != 3 {
		t.Errorf("pattern = %+v", p)
	}
	if !strings.Contains(p.Data, `"trending_regions":["Asia","Europe"]`) {
		t.Errorf("data = %s", p.Data)
	}
	if !p.EndDate.Equal(p.StartDate.Add(7 * 24 * time.Hour)) {
		t.Errorf("validity = %v", p.EndDate.Sub(p.StartDate))
	}

	topics, _ := patterns.List(ctx, store.PatternFilter{Type: models.PatternTrendingTopic})
	if len(topics) != 1 || topics[0].Name != "Trending tag" || topics[0].Confidence != 0.85 {
		t.Errorf("topic patterns = %+v", topics)
	}
}

func TestAnalyzerDestinationStoreFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a, _, _, _ := newTestAnalyzer(t, brokenDestinations{})

	a.count(view("1"))
	a.Maintain(ctx)

	if _, _, ok := a.TrendingDestinations().Latest(); ok {
		t.Error("published destinations despite store failure")
	}
	if _, _, ok := a.TrendingTopics().Latest(); !ok {
		t.Error("topics should still publish")
	}
	if c, _ := a.destCounts.Get("1"); c.Get(Hour) != 1 {
		t.Error("counters aged despite failed refresh")
	}
}

func TestTopRegionsAndGrouping(t *testing.T) {
	t.Parallel()

	dests := []models.TrendingDestination{
		{Region: "Asia", TrendingScore: 10},
		{Region: "Europe", TrendingScore: 12},
		{Region: "Asia", TrendingScore: 5},
		{Region: "Africa", TrendingScore: 1},
		{Region: "Oceania", TrendingScore: 1},
	}
	got := topRegions(dests, 3)
	want := []string{"Asia", "Europe", "Africa"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("topRegions = %v, want %v", got, want)
		}
	}

	groups := groupTopics([]models.TrendingTopic{
		{Type: "tag", Value: "a"}, {Type: "region", Value: "b"}, {Type: "tag", Value: "c"},
	})
	if len(groups) != 2 || len(groups[0]) != 2 || groups[1][0].Value != "b" {
		t.Errorf("groupTopics = %+v", groups)
	}
}
