// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// Maintainer is satisfied by *trends.Analyzer.
type Maintainer interface {
	Maintain(ctx context.Context)
}

// TrendMaintenanceConfig configures TrendMaintenanceService.
type TrendMaintenanceConfig struct {
	// Schedule is a standard cron expression or descriptor ("@every 1m").
	Schedule string

	// RunOnStart runs one maintenance pass before the first tick.
	RunOnStart bool

	// ShutdownTimeout bounds the wait for a running pass on shutdown.
	ShutdownTimeout time.Duration
}

// TrendMaintenanceService re-checks trend outputs on a schedule.
type TrendMaintenanceService struct {
	maintainer Maintainer
	config     TrendMaintenanceConfig
	logger     zerolog.Logger
	name       string
}

// NewTrendMaintenanceService validates the schedule and creates the service.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewTrendMaintenanceService(m Maintainer, cfg TrendMaintenanceConfig, logger zerolog.Logger) (*TrendMaintenanceService, error) {
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("invalid maintenance schedule %q: %w", cfg.Schedule, err)
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &TrendMaintenanceService{
		maintainer: m,
		config:     cfg,
		logger:     logger.With().Str("service", "trend-maintenance").Logger(),
		name:       "trend-maintenance",
	}, nil
}

// Serve implements suture.Service.
func (s *TrendMaintenanceService) Serve(ctx context.Context) error {
	clog := cronLogger{logger: s.logger}
	c := cron.New(
		cron.WithLogger(clog),
		cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
	)
	if _, err := c.AddFunc(s.config.Schedule, func() { s.run(ctx, "schedule") }); err != nil {
		return fmt.Errorf("%w: schedule trend maintenance: %w", suture.ErrDoNotRestart, err)
	}

	if s.config.RunOnStart {
		s.run(ctx, "startup")
	}

	c.Start()
	s.logger.Info().Str("schedule", s.config.Schedule).Msg("trend maintenance scheduled")

	<-ctx.Done()

	stopped := c.Stop()
	select {
	case <-stopped.Done():
	case <-time.After(s.config.ShutdownTimeout):
		s.logger.Warn().Dur("timeout", s.config.ShutdownTimeout).Msg("trend maintenance still running at shutdown")
	}
	return ctx.Err()
}

func (s *TrendMaintenanceService) run(ctx context.Context, trigger string) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	s.maintainer.Maintain(ctx)
	s.logger.Debug().Str("trigger", trigger).Dur("duration", time.Since(start)).Msg("trend maintenance pass complete")
}

// String implements fmt.Stringer for suture's logs.
func (s *TrendMaintenanceService) String() string {
	return s.name
}

// cronLogger adapts zerolog to cron.Logger. cron logs every wake-up at
// info level, so those go to debug.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
