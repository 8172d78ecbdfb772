// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderfeed/internal/models"
)

// Key prefixes for BadgerDB storage
const (
	preferenceKeyPrefix  = "pref:"
	destinationKeyPrefix = "dest:"
)

// OpenBadger opens a BadgerDB at path, or an in-memory instance when path is empty.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func OpenBadger(path string, logger zerolog.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = &badgerLogger{logger: logger.With().Str("component", "badger").Logger()}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return db, nil
}

// badgerLogger routes badger's internal logging through zerolog. Info and
// debug chatter is demoted to debug.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Trace().Msgf(format, args...)
}

func preferenceKey(userID, prefType, value string) []byte {
	return []byte(preferenceKeyPrefix + userID + ":" + prefType + ":" + value)
}

func destinationKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", destinationKeyPrefix, id))
}

// BadgerPreferenceStore implements PreferenceStore on BadgerDB.
type BadgerPreferenceStore struct {
	db *badger.DB
}

// NewBadgerPreferenceStore creates a preference store on an open database.
func NewBadgerPreferenceStore(db *badger.DB) *BadgerPreferenceStore {
	return &BadgerPreferenceStore{db: db}
}

func (s *BadgerPreferenceStore) UserPreferences(_ context.Context, userID string) ([]models.UserPreference, error) {
	prefs, err := s.scan([]byte(preferenceKeyPrefix + userID + ":"))
	if err != nil {
		return nil, fmt.Errorf("list user preferences: %w", err)
	}

	// A user ID containing ':' can share a prefix with another user's keys.
	out := prefs[:0]
	for _, p := range prefs {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sortPreferences(out)
	return out, nil
}

func (s *BadgerPreferenceStore) UserPreferencesByTypeAndValue(_ context.Context, userID, prefType, value string) (*models.UserPreference, error) {
	var pref models.UserPreference

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(preferenceKey(userID, prefType, value))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get preference: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &pref)
		})
	})
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

func (s *BadgerPreferenceStore) Insert(_ context.Context, pref *models.UserPreference) error {
	data, err := json.Marshal(pref)
	if err != nil {
		return fmt.Errorf("marshal preference: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := preferenceKey(pref.UserID, pref.Type, pref.Value)
		_, err := txn.Get(key)
		if err == nil {
			return ErrDuplicate
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check preference: %w", err)
		}
		return txn.Set(key, data)
	})
}

func (s *BadgerPreferenceStore) Update(_ context.Context, pref *models.UserPreference) error {
	data, err := json.Marshal(pref)
	if err != nil {
		return fmt.Errorf("marshal preference: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := preferenceKey(pref.UserID, pref.Type, pref.Value)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return fmt.Errorf("check preference: %w", err)
		}
		return txn.Set(key, data)
	})
}

func (s *BadgerPreferenceStore) AllUserPreferences(_ context.Context) ([]models.UserPreference, error) {
	prefs, err := s.scan([]byte(preferenceKeyPrefix))
	if err != nil {
		return nil, fmt.Errorf("list all preferences: %w", err)
	}
	sortPreferences(prefs)
	return prefs, nil
}

func (s *BadgerPreferenceStore) scan(prefix []byte) ([]models.UserPreference, error) {
	var prefs []models.UserPreference

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var p models.UserPreference
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &p)
			}); err != nil {
				return err
			}
			prefs = append(prefs, p)
		}
		return nil
	})
	return prefs, err
}

// BadgerDestinationStore implements DestinationStore on BadgerDB.
// Keys are zero-padded so iteration order is ascending by ID.
type BadgerDestinationStore struct {
	db *badger.DB
}

// NewBadgerDestinationStore creates a destination store on an open database.
func NewBadgerDestinationStore(db *badger.DB) *BadgerDestinationStore {
	return &BadgerDestinationStore{db: db}
}

func (s *BadgerDestinationStore) AllDestinations(_ context.Context) ([]models.Destination, error) {
	var destinations []models.Destination
	prefix := []byte(destinationKeyPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var d models.Destination
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &d)
			}); err != nil {
				return err
			}
			destinations = append(destinations, d)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list destinations: %w", err)
	}
	return destinations, nil
}

func (s *BadgerDestinationStore) Destination(_ context.Context, id int64) (*models.Destination, error) {
	var d models.Destination

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(destinationKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get destination: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &d)
		})
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *BadgerDestinationStore) Upsert(_ context.Context, destinations ...models.Destination) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for i := range destinations {
		data, err := json.Marshal(&destinations[i])
		if err != nil {
			return fmt.Errorf("marshal destination %d: %w", destinations[i].ID, err)
		}
		if err := wb.Set(destinationKey(destinations[i].ID), data); err != nil {
			return fmt.Errorf("write destination %d: %w", destinations[i].ID, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush destinations: %w", err)
	}
	return nil
}

var (
	_ PreferenceStore  = (*BadgerPreferenceStore)(nil)
	_ DestinationStore = (*BadgerDestinationStore)(nil)
)
