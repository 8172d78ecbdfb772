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
	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderfeed/internal/config"
)

// Stores bundles the configured backends.
type Stores struct {
	Preferences  PreferenceStore
	Destinations DestinationStore
	Patterns     PatternStore

	badgerDB *badger.DB
	duckdb   *DuckDBPatternStore
}

// Open creates the backends selected by cfg.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(ctx context.Context, cfg config.StoreConfig, logger zerolog.Logger) (*Stores, error) {
	s := &Stores{}

	switch cfg.Backend {
	case "badger":
		db, err := OpenBadger(cfg.BadgerPath, logger)
		if err != nil {
			return nil, err
		}
		s.badgerDB = db
		s.Preferences = NewBadgerPreferenceStore(db)
		s.Destinations = NewBadgerDestinationStore(db)
	default:
		s.Preferences = NewMemoryPreferenceStore(cfg.Shards)
		s.Destinations = NewMemoryDestinationStore(cfg.Shards)
	}

	switch cfg.PatternBackend {
	case "duckdb":
		pdb, err := OpenDuckDBPatternStore(ctx, cfg.DuckDBPath)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.duckdb = pdb
		s.Patterns = pdb
	default:
		s.Patterns = NewMemoryPatternStore(cfg.Shards)
	}

	logger.Info().
		Str("backend", cfg.Backend).
		Str("pattern_backend", cfg.PatternBackend).
		Msg("Stores opened")
	return s, nil
}

// Ping reports whether the persistent backends are reachable.
func (s *Stores) Ping(ctx context.Context) error {
	if s.badgerDB != nil && s.badgerDB.IsClosed() {
		return errors.New("badger db is closed")
	}
	if s.duckdb != nil {
		if err := s.duckdb.Ping(ctx); err != nil {
			return fmt.Errorf("pattern database: %w", err)
		}
	}
	return nil
}

// Close releases any opened databases.
func (s *Stores) Close() error {
	var errs []error
	if s.duckdb != nil {
		errs = append(errs, s.duckdb.Close())
	}
	if s.badgerDB != nil {
		errs = append(errs, s.badgerDB.Close())
	}
	return errors.Join(errs...)
}
