// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package tracker

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderfeed/internal/metrics"
	"github.com/tomtom215/wanderfeed/internal/models"
	"github.com/tomtom215/wanderfeed/internal/store"
)

// Handle is the bus subscriber that turns one interaction into preference
// updates. Store failures are logged and counted, never returned, so the
// stream keeps flowing.
func (t *Tracker) Handle(ctx context.Context, interaction *models.Interaction) error {
	switch interaction.Type {
	case models.InteractionView:
		t.inferRepeated(ctx, interaction, t.cfg.ViewThreshold, ViewStrength, models.SourceImplicitView)
	case models.InteractionClick:
		t.inferRepeated(ctx, interaction, t.cfg.ClickThreshold, ClickStrength, models.SourceImplicitClick)
	case models.InteractionBookmark:
		t.inferTarget(ctx, interaction, BookmarkStrength, models.SourceImplicitBookmark)
	case models.InteractionShare:
		t.inferTarget(ctx, interaction, ShareStrength, models.SourceImplicitShare)
	case models.InteractionRate:
		if interaction.Value == nil {
			return nil
		}
		t.inferTarget(ctx, interaction, models.Clamp01(*interaction.Value/RatingScale), models.SourceExplicitRating)
	case models.InteractionSearch:
		query, ok := interaction.Meta(models.MetaQuery)
		if !ok {
			return nil
		}
		for _, term := range models.SearchTerms(query) {
			_, _ = t.InferPreference(ctx, interaction.UserID, models.PreferenceSearchTerm, term, SearchStrength, models.SourceImplicitSearch)
		}
	case models.InteractionFilter:
		filterType, ok := interaction.Meta(models.MetaFilterType)
		if !ok {
			return nil
		}
		filterValue, ok := interaction.Meta(models.MetaFilterValue)
		if !ok {
			return nil
		}
		_, _ = t.InferPreference(ctx, interaction.UserID, filterType, filterValue, FilterStrength, models.SourceImplicitFilter)
	}
	return nil
}

// inferRepeated infers only once the user has interacted with the same target
// at least threshold times inside the count window.
func (t *Tracker) inferRepeated(ctx context.Context, interaction *models.Interaction, threshold int, strength float64, source string) {
	if t.countRecent(interaction.UserID, interaction.Type, interaction.TargetID, interaction.TargetType) < threshold {
		return
	}
	t.inferTarget(ctx, interaction, strength, source)
}

func (t *Tracker) inferTarget(ctx context.Context, interaction *models.Interaction, strength float64, source string) {
	if interaction.TargetID == "" {
		return
	}
	_, _ = t.InferPreference(ctx, interaction.UserID, interaction.EffectiveTargetType(), interaction.TargetID, strength, source)
}

// InferPreference merges one piece of evidence into the (user, type, value)
// preference. A new record is inserted as is. An existing record changes only
// when the evidence is stronger, or explicit where the record is implicit;
// strength never decreases and the source only switches to an explicit one.
func (t *Tracker) InferPreference(ctx context.Context, userID, prefType, value string, strength float64, source string) (Outcome, error) {
	strength = models.Clamp01(strength)
	now := t.now().UTC()
	log := t.logger.With().
		Str("user_id", userID).
		Str("pref_type", prefType).
		Str("pref_value", value).
		Logger()

	mu := t.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	existing, err := t.prefs.UserPreferencesByTypeAndValue(ctx, userID, prefType, value)
	switch {
	case errors.Is(err, store.ErrNotFound):
		pref := &models.UserPreference{
			UserID:      userID,
			Type:        prefType,
			Value:       value,
			Strength:    strength,
			Confidence:  Confidence(source, strength),
			Source:      source,
			LastUpdated: now,
		}
		if err := t.prefs.Insert(ctx, pref); err != nil {
			return t.failed(log, source, "insert", err)
		}
		metrics.RecordPreferenceInference(source, string(OutcomeInserted))
		log.Debug().Float64("strength", strength).Str("source", source).Msg("Preference inferred")
		return OutcomeInserted, nil

	case err != nil:
		return t.failed(log, source, "lookup", err)
	}

	upgradesSource := models.IsExplicitSource(source) && models.IsImplicitSource(existing.Source)
	if strength <= existing.Strength && !upgradesSource {
		metrics.RecordPreferenceInference(source, string(OutcomeUnchanged))
		return OutcomeUnchanged, nil
	}

	updated := *existing
	if strength > updated.Strength {
		updated.Strength = strength
	}
	if models.IsExplicitSource(source) {
		updated.Source = source
	}
	updated.Confidence = Confidence(source, strength)
	updated.LastUpdated = now

	if err := t.prefs.Update(ctx, &updated); err != nil {
		return t.failed(log, source, "update", err)
	}
	metrics.RecordPreferenceInference(source, string(OutcomeUpdated))
	log.Debug().
		Float64("old_strength", existing.Strength).
		Float64("strength", updated.Strength).
		Str("source", updated.Source).
		Msg("Preference strengthened")
	return OutcomeUpdated, nil
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (t *Tracker) failed(log zerolog.Logger, source, op string, err error) (Outcome, error) {
	metrics.RecordPreferenceStoreError(op)
	metrics.RecordPreferenceInference(source, string(OutcomeFailed))
	log.Error().Err(err).Str("operation", op).Msg("Preference store failure")
	return OutcomeFailed, err
}

// Confidence is base * (0.5 + strength*0.5), base 0.9 for explicit sources and
// 0.7 otherwise, clamped to [0, 1].
func Confidence(source string, strength float64) float64 {
	base := 0.7
	if models.IsExplicitSource(source) {
		base = 0.9
	}
	return models.Clamp01(base * (0.5 + strength*0.5))
}
