// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/relabs-tech/motion_computer/internal/queue"
)

const (
	// DefaultUpdateInterval applies until an interval is set.
	DefaultUpdateInterval = 100 * time.Millisecond
	// MinUpdateInterval is the shortest interval a stream accepts.
	MinUpdateInterval = 5 * time.Millisecond
)

// stream polls one sensor kind on a ticker, caches the latest sample and
// dispatches deliveries onto the queue given at start.
type stream[T any] struct {
	name   string
	clock  clock.Clock
	logger *zap.SugaredLogger
	sample func() (*T, error)

	interval *atomic.Duration
	active   *atomic.Bool
	dropped  *atomic.Uint64

	mu     sync.Mutex
	latest *T
	ticker *clock.Ticker
	done   chan struct{}
}

func newStream[T any](name string, c clock.Clock, logger *zap.SugaredLogger, sample func() (*T, error)) *stream[T] {
	return &stream[T]{
		name:     name,
		clock:    c,
		logger:   logger,
		sample:   sample,
		interval: atomic.NewDuration(DefaultUpdateInterval),
		active:   atomic.NewBool(false),
		dropped:  atomic.NewUint64(0),
	}
}

func (s *stream[T]) setInterval(d time.Duration) {
	if d < MinUpdateInterval {
		s.logger.Debugf("%s: interval %s raised to %s", s.name, d, MinUpdateInterval)
		d = MinUpdateInterval
	}
	s.interval.Store(d)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticker != nil {
		s.ticker.Reset(d)
	}
}

// start replaces any running poller. With a nil h samples are only cached.
func (s *stream[T]) start(q *queue.Queue, h func(*T, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	// The ticker exists before start returns so no tick is missed.
	ticker := s.clock.Ticker(s.interval.Load())
	done := make(chan struct{})
	s.ticker, s.done = ticker, done
	s.active.Store(true)

	go s.run(ticker, done, q, h)
	s.logger.Debugf("%s: polling every %s", s.name, s.interval.Load())
}

// run samples on every tick. At most one delivery per stream waits on q;
// a tick that finds the previous one not yet started only updates the cache.
func (s *stream[T]) run(ticker *clock.Ticker, done chan struct{}, q *queue.Queue, h func(*T, error)) {
	defer ticker.Stop()
	queued := atomic.NewBool(false)
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
		}

		data, err := s.sample()
		if data != nil {
			s.mu.Lock()
			s.latest = data
			s.mu.Unlock()
		}

		if h == nil || q == nil {
			if err != nil {
				s.logger.Debugf("%s: read error: %v", s.name, err)
			}
			continue
		}
		if !queued.CompareAndSwap(false, true) {
			s.dropped.Inc()
			s.logger.Debugf("%s: previous delivery still queued on %s, skipping", s.name, q.Name())
			continue
		}
		q.Dispatch(func() {
			queued.Store(false)
			h(data, err)
		})
	}
}

func (s *stream[T]) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *stream[T]) stopLocked() {
	if s.done != nil {
		close(s.done)
		s.done = nil
		s.ticker = nil
	}
	s.active.Store(false)
}

func (s *stream[T]) isActive() bool { return s.active.Load() }

// droppedDeliveries counts ticks skipped because a delivery was still queued.
func (s *stream[T]) droppedDeliveries() uint64 { return s.dropped.Load() }

func (s *stream[T]) data() *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}
