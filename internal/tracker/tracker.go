// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

// Package tracker ingests user interactions, keeps a bounded recent history
// per user, and turns repeated or high-signal behavior into durable
// preference records.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderfeed/internal/cache"
	"github.com/tomtom215/wanderfeed/internal/config"
	"github.com/tomtom215/wanderfeed/internal/metrics"
	"github.com/tomtom215/wanderfeed/internal/models"
	"github.com/tomtom215/wanderfeed/internal/store"
)

// ErrInvalidInteraction wraps validation failures returned by Track.
var ErrInvalidInteraction = errors.New("invalid interaction")

// Inference strengths per interaction type.
const (
	ViewStrength     = 0.3
	ClickStrength    = 0.5
	BookmarkStrength = 0.8
	SearchStrength   = 0.4
	FilterStrength   = 0.6
	ShareStrength    = 0.9

	// RatingScale is the top of the rating scale; strength = value / RatingScale.
	RatingScale = 5.0
)

// Publisher delivers tracked interactions to downstream subscribers.
type Publisher interface {
	Publish(ctx context.Context, interaction *models.Interaction) error
}

// Outcome of a single preference inference.
type Outcome string

const (
	OutcomeInserted  Outcome = "insert"
	OutcomeUpdated   Outcome = "update"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeFailed    Outcome = "error"
)

// Tracker is the interaction ingestion entry point.
type Tracker struct {
	cfg    config.TrackerConfig
	prefs  store.PreferenceStore
	pub    Publisher
	recent cache.Store[[]models.Interaction]
	logger zerolog.Logger
	now    func() time.Time

	// Read-modify-write of a user's preferences is serialized per user.
	locks [lockStripes]sync.Mutex
}

const lockStripes = 64

// New creates a tracker. recent holds the per-user history buffers.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg config.TrackerConfig, prefs store.PreferenceStore, recent cache.Store[[]models.Interaction], pub Publisher, logger zerolog.Logger) *Tracker {
	return &Tracker{
		cfg:    cfg,
		prefs:  prefs,
		pub:    pub,
		recent: recent,
		logger: logger.With().Str("component", "tracker").Logger(),
		now:    time.Now,
	}
}

// Track records an interaction in the user's recent buffer and publishes it.
// Missing ID and timestamp are filled in.
func (t *Tracker) Track(ctx context.Context, interaction *models.Interaction) error {
	interaction.EnsureDefaults(t.now())
	if err := interaction.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInteraction, err)
	}

	t.appendRecent(interaction)
	metrics.RecordInteraction(string(interaction.Type))

	if err := t.pub.Publish(ctx, interaction); err != nil {
		return fmt.Errorf("publish interaction: %w", err)
	}
	return nil
}

// appendRecent adds to the buffer; past capacity it keeps the newest
// RecentRetain entries by timestamp. The slice is replaced, never mutated,
// so readers holding a previous slice are unaffected.
func (t *Tracker) appendRecent(interaction *models.Interaction) {
	t.recent.Compute(interaction.UserID, func(old []models.Interaction, _ bool) ([]models.Interaction, bool) {
		next := make([]models.Interaction, len(old), len(old)+1)
		copy(next, old)
		next = append(next, *interaction)

		if len(next) > t.cfg.RecentCapacity {
			sort.SliceStable(next, func(i, j int) bool {
				return next[i].Timestamp.After(next[j].Timestamp)
			})
			next = next[:t.cfg.RecentRetain]
			sort.SliceStable(next, func(i, j int) bool {
				return next[i].Timestamp.Before(next[j].Timestamp)
			})
			metrics.RecordBufferTrim()
		}
		return next, true
	})
}

// Recent returns up to limit of the user's buffered interactions, newest
// first. limit <= 0 returns the whole buffer.
func (t *Tracker) Recent(userID string, limit int) []models.Interaction {
	buf, _ := t.recent.Get(userID)
	out := make([]models.Interaction, len(buf))
	for i := range buf {
		out[len(buf)-1-i] = buf[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// countRecent counts buffered interactions of typ on the same target within
// the count window. Target type is compared as sent, so an unset type only
// matches other unset types.
func (t *Tracker) countRecent(userID string, typ models.InteractionType, targetID, targetType string) int {
	buf, _ := t.recent.Get(userID)
	since := t.now().Add(-t.cfg.CountWindow)

	n := 0
	for i := range buf {
		it := &buf[i]
		if it.Type == typ && it.TargetID == targetID && it.TargetType == targetType && !it.Timestamp.Before(since) {
			n++
		}
	}
	return n
}

func (t *Tracker) userLock(userID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return &t.locks[h.Sum32()%lockStripes]
}

// Preferences returns the user's stored preferences, strongest first.
func (t *Tracker) Preferences(ctx context.Context, userID string) ([]models.UserPreference, error) {
	prefs, err := t.prefs.UserPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load preferences for %s: %w", userID, err)
	}
	sort.SliceStable(prefs, func(i, j int) bool {
		return prefs[i].Strength > prefs[j].Strength
	})
	return prefs, nil
}
