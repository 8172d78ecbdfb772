// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

/*
Package api exposes the HTTP surface of the service using the chi router.

Endpoints:

	POST /api/v1/interactions                      track an interaction (202)
	GET  /api/v1/interactions/{userID}             recent interaction buffer
	GET  /api/v1/users/{userID}/preferences        inferred preferences
	GET  /api/v1/users/{userID}/recommendations    current feed
	POST /api/v1/users/{userID}/feedback           click/like/save/share/dismiss/dislike
	GET  /api/v1/trending/destinations             latest trending destinations
	GET  /api/v1/trending/topics                   latest trending topics
	GET  /api/v1/patterns                          stored pattern snapshots
	PUT  /api/v1/destinations                      seed or update the catalog
	GET  /api/v1/ws/feed/{userID}                  live feed over WebSocket
	GET  /api/v1/health/live, /api/v1/health/ready probes
	GET  /metrics                                  Prometheus

Every JSON response uses the APIResponse envelope:

	{"success": true, "data": ..., "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "VALIDATION_FAILED", "message": "..."}}

Request bodies are validated with go-playground/validator through the
validation package. Rate limits come from go-chi/httprate: a general per-IP
budget, a stricter budget for writes and a permissive one for health
probes.
*/
package api
