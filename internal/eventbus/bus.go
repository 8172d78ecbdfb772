// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderfeed/internal/cache"
	"github.com/tomtom215/wanderfeed/internal/config"
	"github.com/tomtom215/wanderfeed/internal/logging"
	"github.com/tomtom215/wanderfeed/internal/metrics"
	"github.com/tomtom215/wanderfeed/internal/models"
)

// Metadata keys set on every interaction message.
const (
	MetadataUserID = "user_id"
	MetadataType   = "interaction_type"
)

var (
	// ErrClosed is returned when publishing on a closed bus.
	ErrClosed = errors.New("eventbus: closed")

	// ErrHandlerExists is returned when a handler name is registered twice.
	ErrHandlerExists = errors.New("eventbus: handler already registered")
)

// HandlerFunc processes one interaction. A returned error triggers retries;
// after the last retry the message is routed to the poison topic.
type HandlerFunc func(ctx context.Context, interaction *models.Interaction) error

// Bus is the interaction stream. Every registered handler receives every
// interaction in publish order. Publish only enqueues; a single forwarder
// hands interactions to the transport one at a time, so the slowest handler
// paces delivery once the queue is full.
type Bus struct {
	cfg       config.EventsConfig
	publisher message.Publisher
	newSub    func() (message.Subscriber, error)
	router    *message.Router
	logger    zerolog.Logger

	queue chan *message.Message
	done  chan struct{}

	mu       sync.Mutex
	closed   bool
	handlers map[string]struct{}
	closers  []func() error
}

// New creates a bus on the configured transport. Handlers must be registered
// before Run.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg config.EventsConfig, logger zerolog.Logger) (*Bus, error) {
	logger = logger.With().Str("component", "eventbus").Logger()
	wlogger := NewLoggerAdapter(logger)

	b := &Bus{
		cfg:      cfg,
		logger:   logger,
		queue:    make(chan *message.Message, max(1, cfg.BufferSize)),
		done:     make(chan struct{}),
		handlers: make(map[string]struct{}),
	}

	switch cfg.Transport {
	case "nats":
		pub, newSub, err := newNATSTransport(cfg, wlogger)
		if err != nil {
			return nil, err
		}
		b.publisher = pub
		b.newSub = newSub
		b.closers = append(b.closers, pub.Close)
	default:
		// Without the ack wait gochannel delivers every message on its own
		// goroutine and a handler may see interactions out of order.
		pubSub := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer:            cfg.BufferSize,
			BlockPublishUntilSubscriberAck: true,
		}, wlogger)
		b.publisher = pubSub
		b.newSub = func() (message.Subscriber, error) { return pubSub, nil }
		b.closers = append(b.closers, pubSub.Close)
	}

	router, err := newRouter(cfg, b.publisher, wlogger)
	if err != nil {
		_ = b.closeTransport()
		return nil, err
	}
	b.router = router
	return b, nil
}

// newRouter builds the router middleware stack, outermost first:
// poison queue, per-handler deduplication, panic recovery, retry.
func newRouter(cfg config.EventsConfig, poisonPub message.Publisher, logger watermill.LoggerAdapter) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	poisonQueue, err := middleware.PoisonQueue(poisonPub, cfg.Topic+".poison")
	if err != nil {
		return nil, fmt.Errorf("create poison queue middleware: %w", err)
	}
	router.AddMiddleware(poisonQueue)

	dedup := middleware.Deduplicator{
		KeyFactory: handlerScopedKey,
		Repository: newDeduplicator(cfg.DeduplicationSize, cfg.DeduplicationTTL),
	}
	router.AddMiddleware(dedup.Middleware)

	router.AddMiddleware(middleware.Recoverer)

	if cfg.RetryCount > 0 {
		retry := middleware.Retry{
			MaxRetries:      cfg.RetryCount,
			InitialInterval: cfg.RetryInitialInterval,
			MaxInterval:     cfg.RetryInitialInterval * 10,
			Multiplier:      2.0,
			Logger:          logger,
		}
		router.AddMiddleware(retry.Middleware)
	}
	return router, nil
}

// handlerScopedKey keys deduplication by handler so that fan-out copies of
// one interaction are not treated as redeliveries of each other.
func handlerScopedKey(msg *message.Message) (string, error) {
	return message.HandlerNameFromCtx(msg.Context()) + ":" + msg.UUID, nil
}

// deduplicator implements middleware.ExpiringKeyRepository on the LRU cache.
type deduplicator struct {
	seen *cache.LRUCache
}

func newDeduplicator(size int, ttl time.Duration) *deduplicator {
	return &deduplicator{seen: cache.NewLRUCache(size, ttl)}
}

func (d *deduplicator) IsDuplicate(_ context.Context, key string) (bool, error) {
	if d.seen.IsDuplicate(key) {
		metrics.RecordEventDeduplicated()
		return true, nil
	}
	return false, nil
}

// AddHandler subscribes fn to the interaction stream under a unique name.
func (b *Bus) AddHandler(name string, fn HandlerFunc) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.handlers[name]; exists {
		return fmt.Errorf("%w: %s", ErrHandlerExists, name)
	}
	sub, err := b.newSub()
	if err != nil {
		return fmt.Errorf("create subscriber for %s: %w", name, err)
	}

	logger := b.logger.With().Str("handler", name).Logger()
	b.router.AddConsumerHandler(name, b.cfg.Topic, sub, func(msg *message.Message) error {
		interaction, err := Unmarshal(msg.Payload)
		if err != nil {
			// Undecodable payloads can never succeed; drop them.
			logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("Dropping malformed interaction")
			metrics.RecordEventConsumed(name, err)
			return nil
		}

		ctx := logging.ContextWithUserID(msg.Context(), interaction.UserID)
		err = fn(ctx, interaction)
		metrics.RecordEventConsumed(name, err)
		return err
	})
	b.handlers[name] = struct{}{}
	return nil
}

// Publish validates an interaction and queues it for delivery. It waits for
// the router to start so that no handler misses events published during
// startup, and blocks while the queue is full.
func (b *Bus) Publish(ctx context.Context, interaction *models.Interaction) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrClosed
	}

	payload, err := Marshal(interaction)
	if err != nil {
		return err
	}

	select {
	case <-b.router.Running():
	case <-ctx.Done():
		return ctx.Err()
	}

	msg := message.NewMessage(interaction.ID, payload)
	msg.Metadata.Set(MetadataUserID, interaction.UserID)
	msg.Metadata.Set(MetadataType, string(interaction.Type))
	msg.SetContext(context.WithoutCancel(ctx))

	select {
	case b.queue <- msg:
	case <-b.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	metrics.RecordEventPublished()
	return nil
}

// Run starts delivery and blocks until ctx is canceled or Close is called.
func (b *Bus) Run(ctx context.Context) error {
	b.logger.Info().Int("handlers", b.HandlerCount()).Str("transport", b.cfg.Transport).Msg("Interaction bus starting")

	fwdCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go b.forward(fwdCtx)

	return b.router.Run(ctx)
}

// forward hands queued interactions to the transport in queue order. On the
// memory transport each Publish returns only after every handler acked.
// Interactions still queued at shutdown are dropped.
func (b *Bus) forward(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.done:
			return
		case msg := <-b.queue:
			if err := b.publisher.Publish(b.cfg.Topic, msg); err != nil {
				b.logger.Error().Err(err).Str("message_id", msg.UUID).Msg("Failed to deliver interaction")
			}
		}
	}
}

// QueueLen returns the number of interactions waiting for delivery.
func (b *Bus) QueueLen() int {
	return len(b.queue)
}

// Running is closed once handlers are subscribed.
func (b *Bus) Running() <-chan struct{} {
	return b.router.Running()
}

// IsRunning reports whether the router is delivering messages.
func (b *Bus) IsRunning() bool {
	return b.router.IsRunning()
}

// HandlerCount returns the number of registered handlers.
func (b *Bus) HandlerCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}

// Close stops the router, waiting up to CloseTimeout for in-flight
// handlers, then closes the transport.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.done)
	b.mu.Unlock()

	return errors.Join(b.router.Close(), b.closeTransport())
}

func (b *Bus) closeTransport() error {
	var errs []error
	for _, c := range b.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
