// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thejerf/suture/v4"
)

// EventBus is satisfied by *eventbus.Bus.
type EventBus interface {
	Run(ctx context.Context) error
	Close() error
}

// EventBusService runs the interaction bus until the context is canceled,
// then closes it.
type EventBusService struct {
	bus             EventBus
	shutdownTimeout time.Duration
	name            string
}

// NewEventBusService creates a bus service. shutdownTimeout bounds Close.
func NewEventBusService(bus EventBus, shutdownTimeout time.Duration) *EventBusService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &EventBusService{
		bus:             bus,
		shutdownTimeout: shutdownTimeout,
		name:            "interaction-bus",
	}
}

// Serve implements suture.Service.
func (s *EventBusService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.bus.Run(ctx)
	}()

	select {
	case err := <-errCh:
		if ctx.Err() != nil {
			return s.close(ctx.Err())
		}
		// A stopped watermill router cannot run again.
		closeErr := s.bus.Close()
		if err == nil {
			err = errors.New("router stopped")
		}
		return fmt.Errorf("%w: interaction bus: %w", suture.ErrTerminateSupervisorTree, errors.Join(err, closeErr))

	case <-ctx.Done():
		select {
		case <-errCh:
		case <-time.After(s.shutdownTimeout):
		}
		return s.close(ctx.Err())
	}
}

func (s *EventBusService) close(cause error) error {
	done := make(chan error, 1)
	go func() { done <- s.bus.Close() }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("interaction bus close failed: %w", err)
		}
		return cause
	case <-time.After(s.shutdownTimeout):
		return fmt.Errorf("interaction bus close timed out after %s", s.shutdownTimeout)
	}
}

// String implements fmt.Stringer for suture's logs.
func (s *EventBusService) String() string {
	return s.name
}
