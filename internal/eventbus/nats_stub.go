// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

//go:build !nats

package eventbus

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/wanderfeed/internal/config"
)

// newNATSTransport is unavailable without the nats build tag.
func newNATSTransport(_ config.EventsConfig, _ watermill.LoggerAdapter) (message.Publisher, func() (message.Subscriber, error), error) {
	return nil, nil, fmt.Errorf("NATS transport not available: build with -tags=nats")
}
