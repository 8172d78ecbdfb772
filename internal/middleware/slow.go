// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderfeed/internal/logging"
)

// DefaultSlowThreshold is used when SlowRequests is given a non-positive
// threshold.
const DefaultSlowThreshold = time.Second

// SlowRequests logs a warning for every request slower than threshold, with
// the request ID when one is present.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func SlowRequests(threshold time.Duration, logger zerolog.Logger) func(http.Handler) http.Handler {
	if threshold <= 0 {
		threshold = DefaultSlowThreshold
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapper := newStatusWriter(w)
			next.ServeHTTP(wrapper, r)

			duration := time.Since(start)
			if duration <= threshold {
				return
			}
			logger.Warn().
				Str("request_id", logging.RequestIDFromContext(r.Context())).
				Str("method", r.Method).
				Str("route", routePattern(r)).
				Int("status", wrapper.statusCode).
				Dur("duration", duration).
				Dur("threshold", threshold).
				Msg("Slow request detected")
		})
	}
}
