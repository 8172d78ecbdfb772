// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

/*
Package eventbus carries the interaction stream from the tracker to its
subscribers using Watermill.

The default transport is an in-process gochannel pub/sub. Building with
-tags=nats adds a NATS transport (watermill-nats) so several Wanderfeed
processes can share one stream.

Every handler receives every interaction. Delivery to a handler goes through
a router middleware stack:

  - PoisonQueue: messages that still fail after retries go to "<topic>.poison"
  - Deduplicator: redeliveries of the same interaction ID to the same handler are dropped
  - Recoverer: handler panics become errors
  - Retry: exponential backoff

Usage:

	bus, err := eventbus.New(cfg.Events, logger)
	bus.AddHandler("trends", analyzer.Handle)
	go bus.Run(ctx)
	bus.Publish(ctx, interaction)
*/
package eventbus
