// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

// Package workpool runs background tasks on a bounded set of workers with
// per-key serialization.
//
// Tasks submitted under the same key never run concurrently and run in
// submission order. Tasks with the same key and name coalesce while waiting:
// only the most recent submission runs. This is how per-user feed refreshes
// avoid racing each other to publish stale results.
package workpool

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderfeed/internal/metrics"
)

// ErrQueueFull is returned when a new key cannot be queued.
var ErrQueueFull = errors.New("work queue full")

// ErrStopped is returned when submitting to a pool that has shut down.
var ErrStopped = errors.New("work pool stopped")

// Task is a unit of background work.
type Task func(ctx context.Context) error

// Config holds pool sizing.
type Config struct {
	// Name labels the pool in logs and metrics.
	Name string

	// Workers is the number of concurrent workers. Default: 4
	Workers int

	// QueueSize bounds the number of distinct keys waiting to run. Default: 1024
	QueueSize int

	// TaskTimeout bounds a single task run. Default: 30s
	TaskTimeout time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		Workers:     4,
		QueueSize:   1024,
		TaskTimeout: 30 * time.Second,
	}
}

type namedTask struct {
	name string
	run  Task
}

// keyState is the per-key waiting list. running is true while a worker owns
// the key; queued is true while the key sits in the ready channel.
type keyState struct {
	tasks   []namedTask
	running bool
	queued  bool
}

// Stats is a point-in-time view of the pool.
type Stats struct {
	PendingKeys int
	Running     int
	Completed   int64
	Failed      int64
	Coalesced   int64
	Rejected    int64
}

// Pool is a keyed worker pool. Create with New and run with Serve.
type Pool struct {
	cfg    Config
	logger zerolog.Logger

	ready chan string

	mu      sync.Mutex
	keys    map[string]*keyState
	stopped bool
	running int

	completed int64
	failed    int64
	coalesced int64
	rejected  int64
}

// New creates a pool. Zero config fields take defaults.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func New(cfg Config, logger zerolog.Logger) *Pool {
	def := DefaultConfig(cfg.Name)
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = def.TaskTimeout
	}
	if cfg.Name == "" {
		cfg.Name = "workpool"
	}

	return &Pool{
		cfg:    cfg,
		logger: logger.With().Str("component", "workpool").Str("pool", cfg.Name).Logger(),
		ready:  make(chan string, cfg.QueueSize),
		keys:   make(map[string]*keyState),
	}
}

// Submit queues task under key. A waiting task with the same key and name is
// replaced rather than duplicated.
func (p *Pool) Submit(key, name string, task Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrStopped
	}

	st, ok := p.keys[key]
	if !ok {
		st = &keyState{}
		p.keys[key] = st
	}

	for i := range st.tasks {
		if st.tasks[i].name == name {
			st.tasks[i].run = task
			p.coalesced++
			metrics.RecordPoolTask(p.cfg.Name, "coalesced")
			// A key left idle by a canceled Serve still needs a worker.
			if st.running || st.queued || p.enqueueLocked(key, st) {
				return nil
			}
			delete(p.keys, key)
			p.rejected++
			metrics.RecordPoolTask(p.cfg.Name, "rejected")
			return fmt.Errorf("submit %s for %s: %w", name, key, ErrQueueFull)
		}
	}

	st.tasks = append(st.tasks, namedTask{name: name, run: task})
	if st.running || st.queued || p.enqueueLocked(key, st) {
		return nil
	}

	st.tasks = st.tasks[:len(st.tasks)-1]
	if len(st.tasks) == 0 {
		delete(p.keys, key)
	}
	p.rejected++
	metrics.RecordPoolTask(p.cfg.Name, "rejected")
	return fmt.Errorf("submit %s for %s: %w", name, key, ErrQueueFull)
}

// enqueueLocked hands key to the workers. It reports false when the ready
// queue is full. p.mu must be held.
func (p *Pool) enqueueLocked(key string, st *keyState) bool {
	select {
	case p.ready <- key:
		st.queued = true
		metrics.SetPoolQueueDepth(p.cfg.Name, len(p.ready))
		return true
	default:
		return false
	}
}

// Serve runs the workers until ctx is canceled. It implements suture.Service.
// Tasks still waiting at cancellation stay queued for the next Serve.
func (p *Pool) Serve(ctx context.Context) error {
	p.logger.Info().Int("workers", p.cfg.Workers).Int("queue_size", p.cfg.QueueSize).Msg("work pool started")

	var wg sync.WaitGroup
	for i := 0; i < p.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx)
		}()
	}
	wg.Wait()

	p.mu.Lock()
	pending := 0
	for _, st := range p.keys {
		pending += len(st.tasks)
	}
	p.mu.Unlock()

	p.logger.Info().Int("pending_tasks", pending).Msg("work pool stopped")
	return ctx.Err()
}

// Stop rejects further submissions.
func (p *Pool) Stop() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
}

// String returns the service name for suture logging.
func (p *Pool) String() string {
	return "workpool-" + p.cfg.Name
}

// Stats returns a snapshot of pool counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		PendingKeys: len(p.keys),
		Running:     p.running,
		Completed:   p.completed,
		Failed:      p.failed,
		Coalesced:   p.coalesced,
		Rejected:    p.rejected,
	}
}

func (p *Pool) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case key := <-p.ready:
			metrics.SetPoolQueueDepth(p.cfg.Name, len(p.ready))
			p.drainKey(ctx, key)
		}
	}
}

// drainKey runs every task waiting under key, one at a time, including tasks
// submitted while earlier ones run.
func (p *Pool) drainKey(ctx context.Context, key string) {
	p.mu.Lock()
	st := p.keys[key]
	if st == nil {
		p.mu.Unlock()
		return
	}
	st.queued = false
	st.running = true
	p.running++
	p.mu.Unlock()

	for {
		p.mu.Lock()
		if len(st.tasks) == 0 || ctx.Err() != nil {
			st.running = false
			p.running--
			switch {
			case len(st.tasks) == 0:
				delete(p.keys, key)
			case !p.enqueueLocked(key, st):
				// No room to carry the key over to the next Serve.
				delete(p.keys, key)
			}
			p.mu.Unlock()
			return
		}
		next := st.tasks[0]
		st.tasks = st.tasks[1:]
		p.mu.Unlock()

		err := p.runTask(ctx, key, next)

		p.mu.Lock()
		if err != nil {
			p.failed++
		} else {
			p.completed++
		}
		p.mu.Unlock()
	}
}

func (p *Pool) runTask(ctx context.Context, key string, t namedTask) (err error) {
	taskCtx, cancel := context.WithTimeout(ctx, p.cfg.TaskTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().
				Str("key", key).
				Str("task", t.name).
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("task panicked")
			err = fmt.Errorf("task %s panicked: %v", t.name, r)
		}

		result := "success"
		if err != nil {
			result = "error"
		}
		metrics.RecordPoolTask(p.cfg.Name, result)
		metrics.ObservePoolTaskDuration(p.cfg.Name, t.name, time.Since(start))
	}()

	if err = t.run(taskCtx); err != nil {
		p.logger.Warn().Err(err).Str("key", key).Str("task", t.name).Msg("task failed")
	}
	return err
}
