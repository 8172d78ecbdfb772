// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package store

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/tomtom215/wanderfeed/internal/cache"
	"github.com/tomtom215/wanderfeed/internal/models"
)

// userPreferences is replaced wholesale on every write so readers can hold a
// reference without locking.
type userPreferences map[string]models.UserPreference

// MemoryPreferenceStore keeps preferences in a sharded map keyed by user.
type MemoryPreferenceStore struct {
	users cache.Store[userPreferences]
}

// NewMemoryPreferenceStore creates an empty preference store.
func NewMemoryPreferenceStore(shards int) *MemoryPreferenceStore {
	return &MemoryPreferenceStore{users: cache.NewSharded[userPreferences](shards)}
}

func (s *MemoryPreferenceStore) UserPreferences(_ context.Context, userID string) ([]models.UserPreference, error) {
	prefs, _ := s.users.Get(userID)
	out := make([]models.UserPreference, 0, len(prefs))
	for _, p := range prefs {
		out = append(out, p)
	}
	sortPreferences(out)
	return out, nil
}

func (s *MemoryPreferenceStore) UserPreferencesByTypeAndValue(_ context.Context, userID, prefType, value string) (*models.UserPreference, error) {
	prefs, _ := s.users.Get(userID)
	p, ok := prefs[models.PreferenceKey(prefType, value)]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryPreferenceStore) Insert(_ context.Context, pref *models.UserPreference) error {
	var err error
	s.users.Compute(pref.UserID, func(old userPreferences, _ bool) (userPreferences, bool) {
		if _, exists := old[pref.Key()]; exists {
			err = ErrDuplicate
			return old, len(old) > 0
		}
		next := make(userPreferences, len(old)+1)
		for k, v := range old {
			next[k] = v
		}
		next[pref.Key()] = *pref
		return next, true
	})
	return err
}

func (s *MemoryPreferenceStore) Update(_ context.Context, pref *models.UserPreference) error {
	var err error
	s.users.Compute(pref.UserID, func(old userPreferences, ok bool) (userPreferences, bool) {
		if _, exists := old[pref.Key()]; !exists {
			err = ErrNotFound
			return old, ok
		}
		next := make(userPreferences, len(old))
		for k, v := range old {
			next[k] = v
		}
		next[pref.Key()] = *pref
		return next, true
	})
	return err
}

func (s *MemoryPreferenceStore) AllUserPreferences(_ context.Context) ([]models.UserPreference, error) {
	var out []models.UserPreference
	s.users.Range(func(_ string, prefs userPreferences) bool {
		for _, p := range prefs {
			out = append(out, p)
		}
		return true
	})
	sortPreferences(out)
	return out, nil
}

// MemoryDestinationStore keeps the destination catalog in a sharded map.
type MemoryDestinationStore struct {
	destinations cache.Store[models.Destination]
}

// NewMemoryDestinationStore creates an empty destination catalog.
func NewMemoryDestinationStore(shards int) *MemoryDestinationStore {
	return &MemoryDestinationStore{destinations: cache.NewSharded[models.Destination](shards)}
}

func (s *MemoryDestinationStore) AllDestinations(_ context.Context) ([]models.Destination, error) {
	out := make([]models.Destination, 0, s.destinations.Len())
	s.destinations.Range(func(_ string, d models.Destination) bool {
		out = append(out, d)
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryDestinationStore) Destination(_ context.Context, id int64) (*models.Destination, error) {
	d, ok := s.destinations.Get((&models.Destination{ID: id}).Key())
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (s *MemoryDestinationStore) Upsert(_ context.Context, destinations ...models.Destination) error {
	for i := range destinations {
		s.destinations.Set(destinations[i].Key(), destinations[i])
	}
	return nil
}

// MemoryPatternStore keeps pattern snapshots in a sharded map keyed by ID.
type MemoryPatternStore struct {
	patterns cache.Store[models.TravelPattern]
}

// NewMemoryPatternStore creates an empty pattern store.
func NewMemoryPatternStore(shards int) *MemoryPatternStore {
	return &MemoryPatternStore{patterns: cache.NewSharded[models.TravelPattern](shards)}
}

func (s *MemoryPatternStore) Insert(_ context.Context, pattern *models.TravelPattern) error {
	if pattern.ID == "" {
		pattern.ID = uuid.New().String()
	}
	s.patterns.Set(pattern.ID, *pattern)
	return nil
}

func (s *MemoryPatternStore) List(_ context.Context, filter PatternFilter) ([]models.TravelPattern, error) {
	all := make([]models.TravelPattern, 0, s.patterns.Len())
	s.patterns.Range(func(_ string, p models.TravelPattern) bool {
		all = append(all, p)
		return true
	})
	return applyPatternFilter(all, filter), nil
}

var (
	_ PreferenceStore  = (*MemoryPreferenceStore)(nil)
	_ DestinationStore = (*MemoryDestinationStore)(nil)
	_ PatternStore     = (*MemoryPatternStore)(nil)
)
