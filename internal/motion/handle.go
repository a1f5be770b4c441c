// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/relabs-tech/motion_computer/internal/queue"
)

// ErrHandlerRequired is returned by Every, EveryWith and Once when no
// handler is given. Nothing is registered with the manager in that case.
var ErrHandlerRequired = errors.New("a handler is required")

// Handler receives a normalized sample, or nil, together with the delivery
// error reported by the manager, if any.
type Handler[S any] func(sample *S, err error)

// handle is the control flow shared by every sensor kind. Concrete handles
// supply start and stop.
type handle[S any] struct {
	kind    string
	manager Manager
	queues  *QueueResolver
	logger  *zap.SugaredLogger

	start func(Options, Handler[S])
	stop  func()
}

func newHandle[S any](kind string, m Manager, queues *QueueResolver, logger *zap.SugaredLogger) handle[S] {
	if queues == nil {
		queues = NewQueueResolver(nil, nil)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return handle[S]{kind: kind, manager: m, queues: queues, logger: logger}
}

// ConvertQueue resolves spec to the queue deliveries will run on.
func (h *handle[S]) ConvertQueue(spec QueueSpec) *queue.Queue {
	return h.queues.ConvertQueue(spec)
}

// every merges a bare interval into opts, overriding opts.Interval.
func (h *handle[S]) every(interval *time.Duration, opts Options, fn Handler[S]) error {
	if fn == nil {
		return fmt.Errorf("%s: %w", h.kind, ErrHandlerRequired)
	}
	if interval != nil {
		opts = opts.WithInterval(*interval)
	}
	h.start(opts, fn)
	return nil
}

// once forwards the first delivery only and stops the sensor right after it.
// Deliveries already dispatched when Stop runs are dropped by the guard.
func (h *handle[S]) once(opts Options, fn Handler[S]) error {
	if fn == nil {
		return fmt.Errorf("%s: %w", h.kind, ErrHandlerRequired)
	}
	fired := atomic.NewBool(false)
	return h.every(nil, opts, func(sample *S, err error) {
		if !fired.CompareAndSwap(false, true) {
			return
		}
		fn(sample, err)
		h.stop()
	})
}

func (h *handle[S]) logStart(opts Options, polling bool) {
	interval := "unchanged"
	if opts.Interval != nil {
		interval = opts.Interval.String()
	}
	if polling {
		h.logger.Debugf("%s: start polling (interval=%s)", h.kind, interval)
		return
	}
	h.logger.Debugf("%s: start (interval=%s, queue=%s)", h.kind, interval, opts.Queue)
}
