// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package trends

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderfeed/internal/broadcast"
	"github.com/tomtom215/wanderfeed/internal/cache"
	"github.com/tomtom215/wanderfeed/internal/config"
	"github.com/tomtom215/wanderfeed/internal/metrics"
	"github.com/tomtom215/wanderfeed/internal/models"
	"github.com/tomtom215/wanderfeed/internal/store"
)

// Sink receives every published trending snapshot, e.g. an external cache.
type Sink interface {
	Name() string
	WriteDestinations(ctx context.Context, list []models.TrendingDestination) error
	WriteTopics(ctx context.Context, list []models.TrendingTopic) error
}

// Analyzer keeps windowed interaction counters per destination and per topic
// and periodically publishes ranked trending lists.
type Analyzer struct {
	cfg          config.TrendsConfig
	destinations store.DestinationStore
	patterns     store.PatternStore
	destCounts   cache.Store[*Counts]
	topicCounts  cache.Store[*Counts]
	trending     *broadcast.Channel[[]models.TrendingDestination]
	topics       *broadcast.Channel[[]models.TrendingTopic]
	sinks        []Sink
	logger       zerolog.Logger
	now          func() time.Time

	// mu serializes recomputation; counters are updated without it.
	mu              sync.Mutex
	lastDestination time.Time
	lastTopic       time.Time
	lastPattern     time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithSink adds a snapshot sink.
func WithSink(s Sink) Option {
	return func(a *Analyzer) {
		a.sinks = append(a.sinks, s)
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// WithCounters injects the counter stores.
func WithCounters(destinations, topics cache.Store[*Counts]) Option {
	return func(a *Analyzer) {
		a.destCounts = destinations
		a.topicCounts = topics
	}
}

// New creates an analyzer.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg config.TrendsConfig, destinations store.DestinationStore, patterns store.PatternStore, logger zerolog.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{
		cfg:          cfg,
		destinations: destinations,
		patterns:     patterns,
		destCounts:   cache.NewSharded[*Counts](cache.DefaultShards),
		topicCounts:  cache.NewSharded[*Counts](cache.DefaultShards),
		trending:     broadcast.New[[]models.TrendingDestination](cfg.Retain),
		topics:       broadcast.New[[]models.TrendingTopic](cfg.Retain),
		logger:       logger.With().Str("component", "trends").Logger(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// TrendingDestinations is the channel of ranked destination snapshots.
func (a *Analyzer) TrendingDestinations() *broadcast.Channel[[]models.TrendingDestination] {
	return a.trending
}

// TrendingTopics is the channel of ranked topic snapshots.
func (a *Analyzer) TrendingTopics() *broadcast.Channel[[]models.TrendingTopic] {
	return a.topics
}

// Handle counts one interaction, then recomputes any output that is due.
func (a *Analyzer) Handle(ctx context.Context, interaction *models.Interaction) error {
	a.count(interaction)
	a.Maintain(ctx)
	return nil
}

func (a *Analyzer) count(interaction *models.Interaction) {
	switch interaction.Type {
	case models.InteractionSearch:
		query, ok := interaction.Meta(models.MetaQuery)
		if !ok {
			return
		}
		for _, term := range models.SearchTerms(query) {
			a.incrementTopic(models.PreferenceSearchTerm, term)
		}

	case models.InteractionFilter:
		filterType, ok := interaction.Meta(models.MetaFilterType)
		if !ok {
			return
		}
		filterValue, ok := interaction.Meta(models.MetaFilterValue)
		if !ok {
			return
		}
		a.incrementTopic(filterType, filterValue)

	default:
		if !interaction.Type.TargetsEntity() {
			return
		}
		if interaction.TargetType == models.DefaultTargetType && interaction.TargetID != "" {
			a.destCounts.GetOrCreate(interaction.TargetID, newCounts).Increment()
		}
		for key, value := range interaction.Metadata {
			a.incrementTopic(key, value)
		}
	}
}

func (a *Analyzer) incrementTopic(topicType, value string) {
	a.topicCounts.GetOrCreate(topicKey(topicType, value), newCounts).Increment()
}

// Maintain recomputes every output whose interval has strictly elapsed.
// It runs after each interaction and on the maintenance schedule.
func (a *Analyzer) Maintain(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	if now.Sub(a.lastDestination) > a.cfg.DestinationInterval {
		a.lastDestination = now
		a.refreshDestinations(ctx)
	}
	if now.Sub(a.lastTopic) > a.cfg.TopicInterval {
		a.lastTopic = now
		a.refreshTopics(ctx)
	}
	if now.Sub(a.lastPattern) > a.cfg.PatternInterval {
		a.lastPattern = now
		a.snapshotPatterns(ctx, now)
	}
	metrics.SetTrendTrackedEntities(a.destCounts.Len(), a.topicCounts.Len())
}

// refreshDestinations publishes the ranked list and then ages all counters.
// A destination store failure skips both.
func (a *Analyzer) refreshDestinations(ctx context.Context) {
	start := time.Now()

	all, err := a.destinations.AllDestinations(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to load destinations for trending")
		return
	}

	list := RankDestinations(a.destCounts, all, a.cfg.Limit)
	a.trending.Publish(list)
	a.age()

	metrics.RecordTrendRecompute("destinations", time.Since(start))
	a.logger.Debug().Int("count", len(list)).Msg("Trending destinations updated")

	for _, s := range a.sinks {
		err := s.WriteDestinations(ctx, list)
		metrics.RecordSnapshotSinkWrite(s.Name(), err)
		if err != nil {
			a.logger.Warn().Err(err).Str("sink", s.Name()).Msg("Failed to write trending destinations")
		}
	}
}

func (a *Analyzer) refreshTopics(ctx context.Context) {
	start := time.Now()

	list := RankTopics(a.topicCounts, a.cfg.Limit)
	a.topics.Publish(list)

	metrics.RecordTrendRecompute("topics", time.Since(start))
	a.logger.Debug().Int("count", len(list)).Msg("Trending topics updated")

	for _, s := range a.sinks {
		err := s.WriteTopics(ctx, list)
		metrics.RecordSnapshotSinkWrite(s.Name(), err)
		if err != nil {
			a.logger.Warn().Err(err).Str("sink", s.Name()).Msg("Failed to write trending topics")
		}
	}
}

// age decays destination and topic counters alike.
func (a *Analyzer) age() {
	for _, counters := range []cache.Store[*Counts]{a.destCounts, a.topicCounts} {
		counters.Range(func(_ string, c *Counts) bool {
			c.Age()
			return true
		})
	}
}

// RankDestinations scores every counted destination present in known and
// returns the best limit, highest score first, ties by ascending id.
func RankDestinations(counts cache.Store[*Counts], known []models.Destination, limit int) []models.TrendingDestination {
	byKey := make(map[string]*models.Destination, len(known))
	for i := range known {
		byKey[known[i].Key()] = &known[i]
	}

	h := cache.NewRankHeap(limit, func(a, b models.TrendingDestination) bool {
		if a.TrendingScore != b.TrendingScore {
			return a.TrendingScore > b.TrendingScore
		}
		return a.ID < b.ID
	})
	counts.Range(func(id string, c *Counts) bool {
		d, ok := byKey[id]
		if !ok {
			return true
		}
		hour, day, week := c.Get(Hour), c.Get(Day), c.Get(Week)
		h.Push(models.TrendingDestination{
			ID:                  d.ID,
			Name:                d.Name,
			Region:              d.Region,
			ImageURL:            d.ImageURL,
			TrendingScore:       Score(hour, day, week),
			HourlyInteractions:  hour,
			DailyInteractions:   day,
			WeeklyInteractions:  week,
			MonthlyInteractions: c.Get(Month),
		})
		return true
	})
	return h.Sorted()
}

// RankTopics scores every counted topic and returns the best limit, highest
// score first, ties by type then value.
func RankTopics(counts cache.Store[*Counts], limit int) []models.TrendingTopic {
	h := cache.NewRankHeap(limit, func(a, b models.TrendingTopic) bool {
		if a.TrendingScore != b.TrendingScore {
			return a.TrendingScore > b.TrendingScore
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Value < b.Value
	})
	counts.Range(func(key string, c *Counts) bool {
		topicType, value := splitTopicKey(key)
		hour, day, week := c.Get(Hour), c.Get(Day), c.Get(Week)
		h.Push(models.TrendingTopic{
			Type:                topicType,
			Value:               value,
			TrendingScore:       Score(hour, day, week),
			HourlyInteractions:  hour,
			DailyInteractions:   day,
			WeeklyInteractions:  week,
			MonthlyInteractions: c.Get(Month),
		})
		return true
	})
	return h.Sorted()
}
