// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"

	"github.com/tomtom215/wanderfeed/internal/models"
)

const createPatternsTable = `
CREATE TABLE IF NOT EXISTS travel_patterns (
	id            VARCHAR PRIMARY KEY,
	user_id       VARCHAR NOT NULL,
	pattern_type  VARCHAR NOT NULL,
	pattern_name  VARCHAR NOT NULL,
	pattern_value DOUBLE NOT NULL,
	pattern_data  VARCHAR NOT NULL,
	start_date    TIMESTAMP NOT NULL,
	end_date      TIMESTAMP NOT NULL,
	confidence    DOUBLE NOT NULL,
	sample_size   INTEGER NOT NULL
)`

const createPatternsIndex = `CREATE INDEX IF NOT EXISTS idx_travel_patterns_type ON travel_patterns(pattern_type, start_date)`

// DuckDBPatternStore keeps travel pattern history in DuckDB.
type DuckDBPatternStore struct {
	conn *sql.DB
}

// OpenDuckDBPatternStore opens (or creates) the pattern database at path.
// An empty path opens an in-memory database.
func OpenDuckDBPatternStore(ctx context.Context, path string) (*DuckDBPatternStore, error) {
	dsn := ""
	if path != "" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
		dsn = path + "?access_mode=read_write&autoinstall_known_extensions=false&autoload_known_extensions=false"
	}

	conn, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open pattern database: %w", err)
	}
	// A single connection keeps in-memory databases shared across calls.
	conn.SetMaxOpenConns(1)

	for _, stmt := range []string{createPatternsTable, createPatternsIndex} {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to initialize pattern schema: %w", err)
		}
	}
	return &DuckDBPatternStore{conn: conn}, nil
}

func (s *DuckDBPatternStore) Insert(ctx context.Context, pattern *models.TravelPattern) error {
	if pattern.ID == "" {
		pattern.ID = uuid.New().String()
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO travel_patterns
			(id, user_id, pattern_type, pattern_name, pattern_value, pattern_data,
			 start_date, end_date, confidence, sample_size)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pattern.ID, pattern.UserID, pattern.Type, pattern.Name, pattern.Value, pattern.Data,
		pattern.StartDate.UTC(), pattern.EndDate.UTC(), pattern.Confidence, pattern.SampleSize,
	)
	if err != nil {
		return fmt.Errorf("failed to insert travel pattern: %w", err)
	}
	return nil
}

func (s *DuckDBPatternStore) List(ctx context.Context, filter PatternFilter) ([]models.TravelPattern, error) {
	query := `
		SELECT id, user_id, pattern_type, pattern_name, pattern_value, pattern_data,
		       start_date, end_date, confidence, sample_size
		FROM travel_patterns
		WHERE (? = '' OR pattern_type = ?)
		ORDER BY start_date DESC, id ASC`
	args := []interface{}{filter.Type, filter.Type}
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query travel patterns: %w", err)
	}
	defer rows.Close()

	var patterns []models.TravelPattern
	for rows.Next() {
		var p models.TravelPattern
		if err := rows.Scan(&p.ID, &p.UserID, &p.Type, &p.Name, &p.Value, &p.Data,
			&p.StartDate, &p.EndDate, &p.Confidence, &p.SampleSize); err != nil {
			return nil, fmt.Errorf("failed to scan travel pattern: %w", err)
		}
		patterns = append(patterns, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate travel patterns: %w", err)
	}
	return patterns, nil
}

// Ping checks the connection; used by the readiness probe.
func (s *DuckDBPatternStore) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// Close closes the database.
func (s *DuckDBPatternStore) Close() error {
	return s.conn.Close()
}

var _ PatternStore = (*DuckDBPatternStore)(nil)
