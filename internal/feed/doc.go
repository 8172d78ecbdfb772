// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

/*
Package feed maintains a live, ranked recommendation feed per user.

A Recommender owns one broadcast channel per tracked user. A full refresh
combines three sources:

  - the hybrid engine (collaborative and content based), over every user's
    stored preferences
  - trending destinations, personalized with RelevanceForUser
  - trending topics matched against the destination catalog

Hybrid entries win on destination conflicts; the merged list is sorted by
relevance and capped at FeedConfig.MaxSize before it is published.

Refreshes run on a keyed worker pool so at most one refresh per user is
pending at a time. Requests and interactions schedule a refresh only when
the feed is older than FeedConfig.StaleAfter. New trend snapshots do not
re-run the hybrid engine; they only add entries for destinations not
already in a feed.

Entry IDs from trend and topic matches are offset (TrendIDOffset,
TopicIDOffset) so they do not collide with hybrid entry IDs.
*/
package feed
