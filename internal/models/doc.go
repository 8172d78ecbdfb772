// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

/*
Package models defines the data structures shared by the Wanderfeed pipeline.

Key Components:

  - Interaction: a single user interaction event (view, click, bookmark,
    rate, search, filter, share)
  - UserPreference: a durable preference, unique per (user, type, value)
  - Destination: a bookable place with region, tags and rating
  - TrendingDestination, TrendingTopic: ranked trend list entries
  - TravelRecommendation: one entry of a per-user recommendation feed
  - TravelPattern: historical trend snapshot for offline analytics

Helpers:

  - SearchTerms: the query tokenizer shared by the tracker and the analyzer
  - BudgetCategory, TravelStyle: deterministic destination classifiers

All types are plain data. Concurrency control lives in the components that
own them.
*/
package models
