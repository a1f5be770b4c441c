// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import "github.com/relabs-tech/motion_computer/internal/queue"

// BackgroundQueueName names every queue created for a BackgroundQueue spec.
const BackgroundQueueName = "tech.relabs.motion-computer.background-queue"

// MainQueueName names the main queue created by NewQueueResolver.
const MainQueueName = "tech.relabs.motion-computer.main-queue"

// QueueResolver turns a QueueSpec into a concrete queue.
type QueueResolver struct {
	main    *queue.Queue
	current *queue.Queue
}

// NewQueueResolver returns a resolver sharing main for Main specs and current
// for Current specs. A nil main gets a fresh queue; a nil current reuses main.
func NewQueueResolver(main, current *queue.Queue) *QueueResolver {
	if main == nil {
		main = queue.New(MainQueueName)
	}
	if current == nil {
		current = main
	}
	return &QueueResolver{main: main, current: current}
}

// Main returns the shared main queue.
func (r *QueueResolver) Main() *queue.Queue { return r.main }

// Current returns the shared current queue.
func (r *QueueResolver) Current() *queue.Queue { return r.current }

// ConvertQueue resolves spec. Background and Named specs build a new queue on
// every call.
func (r *QueueResolver) ConvertQueue(spec QueueSpec) *queue.Queue {
	switch spec.kind {
	case queueBackground:
		return queue.New(BackgroundQueueName)
	case queueCurrent:
		return r.current
	case queueNamed:
		return queue.New(spec.name)
	case queueExplicit:
		if spec.queue == nil {
			return r.main
		}
		return spec.queue
	default:
		return r.main
	}
}
