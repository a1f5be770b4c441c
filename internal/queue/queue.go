// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package queue provides named serial execution contexts on which sensor
// deliveries run.
package queue

import "sync"

// Queue runs dispatched functions one at a time, in dispatch order, on a
// worker goroutine that only exists while work is pending.
type Queue struct {
	name string

	mu      sync.Mutex
	tasks   []func()
	running bool
	closed  bool
}

// New creates an empty queue with the given name.
func New(name string) *Queue {
	return &Queue{name: name}
}

// Name returns the queue name.
func (q *Queue) Name() string {
	return q.name
}

// Dispatch schedules fn. It never runs fn on the calling goroutine.
// Dispatching to a closed queue is a no-op. The backlog itself is not
// bounded; the sensor pollers keep at most one delivery each waiting here.
func (q *Queue) Dispatch(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.tasks = append(q.tasks, fn)
	if !q.running {
		q.running = true
		go q.drain()
	}
}

func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 || q.closed {
			q.tasks = nil
			q.running = false
			q.mu.Unlock()
			return
		}
		fn := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		fn()
	}
}

// Pending returns the number of tasks not yet started.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Close drops pending tasks and rejects future dispatches. A task already
// running is allowed to finish.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.tasks = nil
}

// Closed reports whether Close has been called.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
