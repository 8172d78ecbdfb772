// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

/*
Package logging provides the zerolog-based logging used across Wanderfeed.

The global logger is configured once from main with Init and is safe to use
before that with JSON output at info level. Components receive a
zerolog.Logger by value and tag it with their name:

	logger := logging.WithComponent("trends")
	logger.Info().Int("destinations", n).Msg("trending destinations recomputed")

Request-scoped fields travel in the context:

	ctx = logging.ContextWithRequestID(ctx, logging.GenerateRequestID())
	ctx = logging.ContextWithUserID(ctx, userID)
	logging.Ctx(ctx).Debug().Msg("refresh scheduled")

SlogHandler bridges slog to zerolog for libraries such as sutureslog that
only accept a *slog.Logger.

Always terminate log chains with Msg or Send; an unterminated event is never
written.
*/
package logging
