// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderfeed/internal/middleware"
)

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	logger        zerolog.Logger
}

// NewRouter creates a router.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRouter(handler *Handler, mw *ChiMiddleware, logger zerolog.Logger) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		logger:        logger.With().Str("component", "http").Logger(),
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, in order.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.SlowRequests(middleware.DefaultSlowThreshold, router.logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// WebSocket upgrades skip the security headers; they are not JSON.
	r.Route("/api/v1/ws", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Get("/feed/{userID}", router.handler.FeedWebSocket)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())

		r.With(router.chiMiddleware.RateLimitWrite()).Post("/interactions", router.handler.TrackInteraction)
		r.Get("/interactions/{userID}", router.handler.RecentInteractions)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/preferences", router.handler.Preferences)
			r.Get("/recommendations", router.handler.Recommendations)
			r.With(router.chiMiddleware.RateLimitWrite()).Post("/feedback", router.handler.Feedback)
		})

		r.Get("/trending/destinations", router.handler.TrendingDestinations)
		r.Get("/trending/topics", router.handler.TrendingTopics)
		r.Get("/patterns", router.handler.Patterns)
		r.With(router.chiMiddleware.RateLimitWrite()).Put("/destinations", router.handler.UpsertDestinations)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
