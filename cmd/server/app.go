// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderfeed/internal/api"
	"github.com/tomtom215/wanderfeed/internal/cache"
	"github.com/tomtom215/wanderfeed/internal/config"
	"github.com/tomtom215/wanderfeed/internal/eventbus"
	"github.com/tomtom215/wanderfeed/internal/feed"
	"github.com/tomtom215/wanderfeed/internal/models"
	"github.com/tomtom215/wanderfeed/internal/recommend"
	"github.com/tomtom215/wanderfeed/internal/store"
	"github.com/tomtom215/wanderfeed/internal/supervisor"
	"github.com/tomtom215/wanderfeed/internal/supervisor/services"
	"github.com/tomtom215/wanderfeed/internal/tracker"
	"github.com/tomtom215/wanderfeed/internal/trends"
	ws "github.com/tomtom215/wanderfeed/internal/websocket"
	"github.com/tomtom215/wanderfeed/internal/workpool"
)

// Bus handler names; they label consumer metrics and dedup keys.
const (
	handlerPreferences = "preference-inference"
	handlerTrends      = "trend-analyzer"
	handlerFeed        = "feed-refresh"
)

const shutdownTimeout = 10 * time.Second

// app holds every long-lived component.
type app struct {
	cfg *config.Config

	stores      *store.Stores
	bus         *eventbus.Bus
	pool        *workpool.Pool
	tracker     *tracker.Tracker
	analyzer    *trends.Analyzer
	engine      *recommend.Engine
	recommender *feed.Recommender
	hub         *ws.Hub
	redis       *trends.RedisSink

	handler   http.Handler
	readiness map[string]api.ReadinessCheck
	logger    zerolog.Logger
}

// newApp opens the stores and wires the components. Nothing runs until the
// services are added to a supervisor tree.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}
	if err := a.wire(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(ctx context.Context) (err error) {
	cfg, logger := a.cfg, a.logger

	a.stores, err = store.Open(ctx, cfg.Store, logger.With().Str("component", "store").Logger())
	if err != nil {
		return fmt.Errorf("open stores: %w", err)
	}

	var analyzerOpts []trends.Option
	if cfg.Redis.Enabled {
		a.redis, err = trends.NewRedisSink(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect trending snapshot cache: %w", err)
		}
		analyzerOpts = append(analyzerOpts, trends.WithSink(a.redis))
	}

	a.bus, err = eventbus.New(cfg.Events, logger)
	if err != nil {
		return fmt.Errorf("create interaction bus: %w", err)
	}

	a.pool = workpool.New(workpool.Config{
		Name:        "feed-refresh",
		Workers:     cfg.Feed.Workers,
		QueueSize:   cfg.Feed.QueueSize,
		TaskTimeout: cfg.Feed.TaskTimeout,
	}, logger)

	a.tracker = tracker.New(cfg.Tracker, a.stores.Preferences,
		cache.NewSharded[[]models.Interaction](cfg.Store.Shards), a.bus, logger)
	a.analyzer = trends.New(cfg.Trends, a.stores.Destinations, a.stores.Patterns, logger, analyzerOpts...)

	var hybrid recommend.Hybrid
	a.engine, hybrid = initRecommend(cfg.Recommend, logger)

	a.recommender = feed.New(cfg.Feed, feed.Deps{
		Preferences:  a.stores.Preferences,
		Destinations: a.stores.Destinations,
		Hybrid:       hybrid,
		Trends:       a.analyzer,
		Pool:         a.pool,
	}, logger)

	a.hub = ws.NewHub(cfg.WebSocket, a.analyzer)

	// Registration order is irrelevant; every handler sees every interaction.
	for name, fn := range map[string]eventbus.HandlerFunc{
		handlerPreferences: a.tracker.Handle,
		handlerTrends:      a.analyzer.Handle,
		handlerFeed:        a.recommender.Handle,
	} {
		if err = a.bus.AddHandler(name, fn); err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
	}

	a.readiness = a.readinessChecks()
	handler := api.NewHandler(cfg, api.Deps{
		Tracker:      a.tracker,
		Feed:         a.recommender,
		Trends:       a.analyzer,
		Patterns:     a.stores.Patterns,
		Destinations: a.stores.Destinations,
		Hub:          a.hub,
		Readiness:    a.readiness,
	})
	mw := api.NewChiMiddleware(api.MiddlewareConfigFromServer(&cfg.Server))
	a.handler = api.NewRouter(handler, mw, logger).Setup()

	return nil
}

func (a *app) readinessChecks() map[string]api.ReadinessCheck {
	checks := map[string]api.ReadinessCheck{
		"store": a.stores.Ping,
		"events": func(context.Context) error {
			if !a.bus.IsRunning() {
				return errors.New("interaction bus is not running")
			}
			return nil
		},
	}
	if a.redis != nil {
		checks["redis"] = a.redis.Ping
	}
	return checks
}

// register adds every service to its supervisor layer.
func (a *app) register(tree *supervisor.SupervisorTree, server services.HTTPServer) error {
	maintenance, err := services.NewTrendMaintenanceService(a.analyzer, services.TrendMaintenanceConfig{
		Schedule:        a.cfg.Trends.MaintenanceSchedule,
		RunOnStart:      true,
		ShutdownTimeout: shutdownTimeout,
	}, a.logger)
	if err != nil {
		return err
	}

	tree.AddDataService(services.NewEventBusService(a.bus, a.cfg.Events.CloseTimeout))
	tree.AddDataService(a.pool)
	tree.AddProcessingService(a.recommender)
	tree.AddProcessingService(maintenance)
	tree.AddMessagingService(a.hub)
	tree.AddAPIService(services.NewHTTPServerService(server, shutdownTimeout))
	return nil
}

// httpServer builds the listener for the API router.
func (a *app) httpServer() *http.Server {
	return &http.Server{
		Addr:              a.cfg.Server.Addr(),
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       a.cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
		// WriteTimeout stays zero: WebSocket connections are long-lived.
	}
}

// Close releases what the supervisor tree does not own.
func (a *app) Close() error {
	var errs []error
	if a.recommender != nil {
		a.recommender.Close()
	}
	if a.pool != nil {
		a.pool.Stop()
	}
	if a.bus != nil {
		errs = append(errs, a.bus.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.stores != nil {
		errs = append(errs, a.stores.Close())
	}
	return errors.Join(errs...)
}
