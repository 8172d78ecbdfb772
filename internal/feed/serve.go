// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package feed

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/wanderfeed/internal/broadcast"
	"github.com/tomtom215/wanderfeed/internal/metrics"
	"github.com/tomtom215/wanderfeed/internal/models"
)

// Serve follows the trend channels and merges each new snapshot into the
// tracked feeds until ctx is cancelled. Implements suture.Service.
func (r *Recommender) Serve(ctx context.Context) error {
	destinations := r.trends.TrendingDestinations().Subscribe(broadcast.StartNext)
	defer destinations.Close()
	topics := r.trends.TrendingTopics().Subscribe(broadcast.StartNext)
	defer topics.Close()

	r.logger.Info().Msg("Feed recommender started")
	defer r.logger.Info().Msg("Feed recommender stopped")

	errCh := make(chan error, 2)
	go func() {
		errCh <- follow(ctx, destinations, r.MergeTrends)
	}()
	go func() {
		errCh <- follow(ctx, topics, r.MergeTopics)
	}()

	err := <-errCh
	if errors.Is(err, broadcast.ErrClosed) {
		// One source went away; wait for the other before returning.
		err = <-errCh
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ctx.Err()
	}
	return err
}

// String implements fmt.Stringer for suture logging.
func (r *Recommender) String() string {
	return "feed-recommender"
}

func follow[T any](ctx context.Context, sub *broadcast.Subscription[T], fn func(T)) error {
	for {
		msg, err := sub.Next(ctx)
		if err != nil {
			return err
		}
		fn(msg.Value)
	}
}

// MergeTrends schedules a trend merge for every tracked user.
func (r *Recommender) MergeTrends(trending []models.TrendingDestination) {
	r.feeds.Range(func(userID string, _ *userFeed) bool {
		r.submit(userID, taskTrends, func(ctx context.Context) error {
			return r.mergeTrends(ctx, userID, trending)
		})
		return true
	})
}

// MergeTopics schedules a topic merge for every tracked user whose
// preferences are cached.
func (r *Recommender) MergeTopics(topics []models.TrendingTopic) {
	r.feeds.Range(func(userID string, _ *userFeed) bool {
		if _, ok := r.prefCache.Get(userID); !ok {
			return true
		}
		r.submit(userID, taskTopics, func(ctx context.Context) error {
			return r.mergeTopics(ctx, userID, topics)
		})
		return true
	})
}

func (r *Recommender) submit(userID, name string, fn func(context.Context) error) {
	if err := r.pool.Submit(userID, name, fn); err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Str("task", name).Msg("Feed merge not scheduled")
	}
}

func (r *Recommender) mergeTrends(ctx context.Context, userID string, trending []models.TrendingDestination) (err error) {
	start := time.Now()
	size := 0
	defer func() {
		metrics.RecordFeedRefresh(TriggerTrends, time.Since(start), size, err)
	}()

	_, byID, err := r.cachedCatalog(ctx)
	if err != nil {
		return err
	}
	prefs, _ := r.prefCache.Get(userID)
	additions := TrendRecommendations(trending, byID, prefs, r.cfg.TrendCount)
	size = r.mergeInto(userID, additions)
	return nil
}

func (r *Recommender) mergeTopics(ctx context.Context, userID string, topics []models.TrendingTopic) (err error) {
	start := time.Now()
	size := 0
	defer func() {
		metrics.RecordFeedRefresh(TriggerTopics, time.Since(start), size, err)
	}()

	prefs, ok := r.prefCache.Get(userID)
	if !ok {
		return nil
	}
	catalog, _, err := r.cachedCatalog(ctx)
	if err != nil {
		return err
	}
	additions := MatchTopics(topics, catalog, prefs, r.cfg.TopicCount)
	size = r.mergeInto(userID, additions)
	return nil
}

// mergeInto adds entries for destinations absent from the user's feed and
// returns the resulting size. Untracked users are skipped.
func (r *Recommender) mergeInto(userID string, additions []models.TravelRecommendation) int {
	f, ok := r.feeds.Get(userID)
	if !ok {
		return 0
	}
	if len(additions) == 0 {
		current, _, _ := f.ch.Latest()
		return len(current)
	}
	merged, _ := f.ch.Update(func(current []models.TravelRecommendation, _ bool) []models.TravelRecommendation {
		return mergeAbsent(current, additions, r.cfg.MaxSize)
	})
	return len(merged)
}

// Close closes every feed channel, ending their subscriptions.
func (r *Recommender) Close() {
	r.feeds.Range(func(_ string, f *userFeed) bool {
		f.ch.Close()
		return true
	})
}
