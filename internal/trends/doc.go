// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

/*
Package trends derives trending destinations and topics from the interaction
stream.

Every destination and every (type, value) topic carries four counters: hour,
day, week and month. Each matching interaction increments all four. Scores
weight recent activity:

	score = hour*10 + day*3 + week

Recomputation is lazy. After each interaction the analyzer checks how long
ago each output was last produced:

  - destinations: every 5 minutes, then all counters are aged
    (hour/2, day*0.8, week*0.9, truncated)
  - topics: every 10 minutes
  - travel patterns: every hour

The same check runs on a schedule so an idle stream still decays. Ranked
lists are published on broadcast channels and optionally mirrored to Redis
via RedisSink.
*/
package trends
