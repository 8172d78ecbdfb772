// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/wanderfeed/internal/broadcast"
	"github.com/tomtom215/wanderfeed/internal/cache"
	"github.com/tomtom215/wanderfeed/internal/config"
	"github.com/tomtom215/wanderfeed/internal/metrics"
	"github.com/tomtom215/wanderfeed/internal/models"
	"github.com/tomtom215/wanderfeed/internal/recommend"
	"github.com/tomtom215/wanderfeed/internal/store"
	"github.com/tomtom215/wanderfeed/internal/workpool"
)

// Refresh triggers, used as metric labels.
const (
	TriggerRequest     = "request"
	TriggerInteraction = "interaction"
	TriggerTrends      = "trends"
	TriggerTopics      = "topics"
)

// Task names for the worker pool. Pending tasks with the same name for the
// same user coalesce.
const (
	taskRefresh = "refresh"
	taskTrends  = "merge-trends"
	taskTopics  = "merge-topics"
)

// Submitter schedules keyed background work.
type Submitter interface {
	Submit(key, name string, task workpool.Task) error
}

// TrendSource exposes the trending outputs the feed follows.
type TrendSource interface {
	TrendingDestinations() *broadcast.Channel[[]models.TrendingDestination]
	TrendingTopics() *broadcast.Channel[[]models.TrendingTopic]
}

// userFeed is one user's published feed plus the time its last refresh was
// scheduled (unix nanoseconds, 0 = never).
type userFeed struct {
	ch          *broadcast.Channel[[]models.TravelRecommendation]
	lastRefresh atomic.Int64
}

// Recommender maintains a live recommendation feed per user.
type Recommender struct {
	cfg          config.FeedConfig
	prefs        store.PreferenceStore
	destinations store.DestinationStore
	hybrid       recommend.Hybrid
	trends       TrendSource
	pool         Submitter
	limiter      *rate.Limiter
	logger       zerolog.Logger
	now          func() time.Time

	feeds     cache.Store[*userFeed]
	prefCache cache.Store[[]models.UserPreference]

	catalogMu sync.RWMutex
	catalog   []models.Destination
	byID      map[int64]*models.Destination
}

// Deps groups the collaborators of a Recommender.
type Deps struct {
	Preferences  store.PreferenceStore
	Destinations store.DestinationStore
	Hybrid       recommend.Hybrid
	Trends       TrendSource
	Pool         Submitter

	// PreferenceCache defaults to a sharded in-memory store.
	PreferenceCache cache.Store[[]models.UserPreference]
}

// New creates a recommender.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg config.FeedConfig, deps Deps, logger zerolog.Logger) *Recommender {
	if deps.PreferenceCache == nil {
		deps.PreferenceCache = cache.NewSharded[[]models.UserPreference](cache.DefaultShards)
	}

	limit := rate.Inf
	if cfg.HybridRate > 0 {
		limit = rate.Limit(cfg.HybridRate)
	}

	return &Recommender{
		cfg:          cfg,
		prefs:        deps.Preferences,
		destinations: deps.Destinations,
		hybrid:       deps.Hybrid,
		trends:       deps.Trends,
		pool:         deps.Pool,
		limiter:      rate.NewLimiter(limit, max(1, cfg.HybridBurst)),
		logger:       logger.With().Str("component", "feed").Logger(),
		now:          time.Now,
		feeds:        cache.NewSharded[*userFeed](cache.DefaultShards),
		prefCache:    deps.PreferenceCache,
	}
}

// Recommendations returns the user's feed channel, creating it on first use,
// and schedules a refresh when the feed is stale.
func (r *Recommender) Recommendations(userID string) *broadcast.Channel[[]models.TravelRecommendation] {
	f := r.feed(userID)
	r.scheduleIfStale(userID, f, TriggerRequest)
	return f.ch
}

// Current returns the latest published feed for a tracked user.
func (r *Recommender) Current(userID string) ([]models.TravelRecommendation, bool) {
	f, ok := r.feeds.Get(userID)
	if !ok {
		return nil, false
	}
	recs, _, ok := f.ch.Latest()
	return recs, ok
}

// Handle schedules a refresh for the interacting user when their feed is
// tracked and stale.
func (r *Recommender) Handle(_ context.Context, interaction *models.Interaction) error {
	if f, ok := r.feeds.Get(interaction.UserID); ok {
		r.scheduleIfStale(interaction.UserID, f, TriggerInteraction)
	}
	return nil
}

// Dismiss removes every entry for destinationID from the user's feed.
// It reports whether anything was removed.
func (r *Recommender) Dismiss(userID string, destinationID int64) bool {
	f, ok := r.feeds.Get(userID)
	if !ok {
		return false
	}
	if current, _, ok := f.ch.Latest(); !ok || !containsDestination(current, destinationID) {
		return false
	}

	f.ch.Update(func(current []models.TravelRecommendation, _ bool) []models.TravelRecommendation {
		out := make([]models.TravelRecommendation, 0, len(current))
		for _, rec := range current {
			if rec.DestinationID != destinationID {
				out = append(out, rec)
			}
		}
		return out
	})
	return true
}

// TrackedUsers returns the number of users with a feed.
func (r *Recommender) TrackedUsers() int {
	return r.feeds.Len()
}

func (r *Recommender) feed(userID string) *userFeed {
	f := r.feeds.GetOrCreate(userID, func() *userFeed {
		return &userFeed{ch: broadcast.New[[]models.TravelRecommendation](r.cfg.Retain)}
	})
	metrics.SetFeedTrackedUsers(r.feeds.Len())
	return f
}

// scheduleIfStale claims the refresh slot with a CAS so concurrent callers
// schedule at most one refresh per interval.
func (r *Recommender) scheduleIfStale(userID string, f *userFeed, trigger string) {
	now := r.now().UnixNano()
	last := f.lastRefresh.Load()
	if last != 0 && time.Duration(now-last) <= r.cfg.StaleAfter {
		return
	}
	if !f.lastRefresh.CompareAndSwap(last, now) {
		return
	}

	err := r.pool.Submit(userID, taskRefresh, func(ctx context.Context) error {
		return r.Refresh(ctx, userID, trigger)
	})
	if err != nil {
		f.lastRefresh.CompareAndSwap(now, last)
		r.logger.Warn().Err(err).Str("user_id", userID).Str("trigger", trigger).Msg("Feed refresh not scheduled")
	}
}

// Refresh rebuilds the user's feed: reload preferences, ask the hybrid
// engine, add trend entries for destinations the engine did not return,
// then sort, cap and publish. A failing engine degrades to trends only.
func (r *Recommender) Refresh(ctx context.Context, userID, trigger string) (err error) {
	start := time.Now()
	size := 0
	defer func() {
		metrics.RecordFeedRefresh(trigger, time.Since(start), size, err)
	}()

	userPrefs, err := r.prefs.UserPreferences(ctx, userID)
	if err != nil {
		return fmt.Errorf("load preferences for %s: %w", userID, err)
	}
	r.prefCache.Set(userID, userPrefs)

	catalog, byID, err := r.reloadCatalog(ctx)
	if err != nil {
		return err
	}

	hybrid := r.hybridRecommendations(ctx, userID, catalog)
	trending := r.trendRecommendations(userID, byID)
	recs := mergeAbsent(hybrid, trending, r.cfg.MaxSize)

	r.feed(userID).ch.Publish(recs)
	size = len(recs)

	r.logger.Debug().
		Str("user_id", userID).
		Str("trigger", trigger).
		Int("hybrid", len(hybrid)).
		Int("trending", len(trending)).
		Int("size", size).
		Msg("Feed refreshed")
	return nil
}

func (r *Recommender) hybridRecommendations(ctx context.Context, userID string, catalog []models.Destination) []models.TravelRecommendation {
	all, err := r.prefs.AllUserPreferences(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to load preferences for hybrid recommendations")
		return nil
	}
	if err := r.limiter.Wait(ctx); err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("Hybrid recommendations throttled")
		return nil
	}

	recs, err := r.hybrid.Hybrid(ctx, userID, all, catalog, r.cfg.HybridCount)
	if err != nil {
		level := r.logger.Error()
		if errors.Is(err, recommend.ErrCircuitOpen) {
			level = r.logger.Debug()
		}
		level.Err(err).Str("user_id", userID).Msg("Hybrid recommendations unavailable")
		return nil
	}
	return recs
}

func (r *Recommender) trendRecommendations(userID string, byID map[int64]*models.Destination) []models.TravelRecommendation {
	trending, _, ok := r.trends.TrendingDestinations().Latest()
	if !ok {
		return nil
	}
	prefs, _ := r.prefCache.Get(userID)
	return TrendRecommendations(trending, byID, prefs, r.cfg.TrendCount)
}

// reloadCatalog replaces the destination cache from the store.
func (r *Recommender) reloadCatalog(ctx context.Context) ([]models.Destination, map[int64]*models.Destination, error) {
	dests, err := r.destinations.AllDestinations(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load destinations: %w", err)
	}
	byID := make(map[int64]*models.Destination, len(dests))
	for i := range dests {
		byID[dests[i].ID] = &dests[i]
	}

	r.catalogMu.Lock()
	r.catalog, r.byID = dests, byID
	r.catalogMu.Unlock()
	return dests, byID, nil
}

// cachedCatalog returns the destination cache, loading it on first use.
func (r *Recommender) cachedCatalog(ctx context.Context) ([]models.Destination, map[int64]*models.Destination, error) {
	r.catalogMu.RLock()
	dests, byID := r.catalog, r.byID
	r.catalogMu.RUnlock()
	if byID != nil {
		return dests, byID, nil
	}
	return r.reloadCatalog(ctx)
}

func containsDestination(recs []models.TravelRecommendation, destinationID int64) bool {
	for _, rec := range recs {
		if rec.DestinationID == destinationID {
			return true
		}
	}
	return false
}
