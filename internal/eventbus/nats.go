// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

//go:build nats

package eventbus

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/wanderfeed/internal/config"
)

// newNATSTransport connects the bus to a NATS server. Core NATS subjects are
// used (JetStream disabled) so that every subscriber, and therefore every
// handler, receives every interaction.
func newNATSTransport(cfg config.EventsConfig, logger watermill.LoggerAdapter) (message.Publisher, func() (message.Subscriber, error), error) {
	natsOpts := []natsgo.Option{
		natsgo.Name("wanderfeed"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	marshaler := &wmNats.NATSMarshaler{}
	jetStream := wmNats.JetStreamConfig{Disabled: true}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.NATSURL,
		NatsOptions: natsOpts,
		Marshaler:   marshaler,
		JetStream:   jetStream,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create watermill nats publisher: %w", err)
	}

	newSub := func() (message.Subscriber, error) {
		sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
			URL:              cfg.NATSURL,
			SubscribersCount: 1,
			CloseTimeout:     cfg.CloseTimeout,
			AckWaitTimeout:   30 * time.Second,
			NatsOptions:      natsOpts,
			Unmarshaler:      marshaler,
			JetStream:        jetStream,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("create watermill nats subscriber: %w", err)
		}
		return sub, nil
	}

	return pub, newSub, nil
}
