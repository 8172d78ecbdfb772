// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

/*
Package services provides suture.Service wrappers for Wanderfeed components
whose lifecycle is not already Serve(ctx) shaped.

  - HTTPServerService adapts http.Server's ListenAndServe/Shutdown pair.
  - EventBusService runs the watermill-backed interaction bus and closes it
    on shutdown. A bus whose router stopped cannot be restarted, so an
    unexpected stop terminates the tree.
  - TrendMaintenanceService runs trends.Analyzer.Maintain on a cron
    schedule so idle streams still age counters and publish snapshots.

The worker pool, feed recommender and WebSocket hub implement
suture.Service themselves and are added to the tree directly.
*/
package services
