// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import (
	"fmt"
	"strings"
	"time"

	"github.com/relabs-tech/motion_computer/internal/queue"
)

// Options configures a Start, Every or Once call. Nil pointer fields are
// absent and leave the native setting untouched.
type Options struct {
	// Interval sets the native update interval.
	Interval *time.Duration
	// Queue selects where deliveries run. The zero value is the main queue.
	Queue QueueSpec
	// Reference selects the attitude reference frame. Device motion only.
	Reference *ReferenceFrame
}

// WithInterval returns a copy of o with Interval set to d.
func (o Options) WithInterval(d time.Duration) Options {
	o.Interval = &d
	return o
}

// WithQueue returns a copy of o delivering on q.
func (o Options) WithQueue(q QueueSpec) Options {
	o.Queue = q
	return o
}

// WithReference returns a copy of o with Reference set to f.
func (o Options) WithReference(f ReferenceFrame) Options {
	o.Reference = &f
	return o
}

type queueKind int

const (
	queueMain queueKind = iota
	queueBackground
	queueCurrent
	queueNamed
	queueExplicit
)

// QueueSpec names an execution context symbolically or concretely.
type QueueSpec struct {
	kind  queueKind
	name  string
	queue *queue.Queue
}

// MainQueue is the shared main queue. It is also the zero QueueSpec.
func MainQueue() QueueSpec { return QueueSpec{kind: queueMain} }

// BackgroundQueue resolves to a fresh queue named BackgroundQueueName.
func BackgroundQueue() QueueSpec { return QueueSpec{kind: queueBackground} }

// CurrentQueue resolves to the resolver's current queue.
func CurrentQueue() QueueSpec { return QueueSpec{kind: queueCurrent} }

// NamedQueue resolves to a fresh queue called name.
func NamedQueue(name string) QueueSpec { return QueueSpec{kind: queueNamed, name: name} }

// ExplicitQueue passes q through unchanged.
func ExplicitQueue(q *queue.Queue) QueueSpec { return QueueSpec{kind: queueExplicit, queue: q} }

func (s QueueSpec) String() string {
	switch s.kind {
	case queueMain:
		return "main"
	case queueBackground:
		return "background"
	case queueCurrent:
		return "current"
	case queueNamed:
		return fmt.Sprintf("named(%s)", s.name)
	case queueExplicit:
		if s.queue == nil {
			return "explicit(nil)"
		}
		return fmt.Sprintf("explicit(%s)", s.queue.Name())
	default:
		return "unknown"
	}
}

// ParseQueueSpec maps main, background and current to their symbolic specs;
// any other non-empty string is a named queue. Empty means main.
func ParseQueueSpec(s string) QueueSpec {
	switch strings.TrimSpace(s) {
	case "", "main":
		return MainQueue()
	case "background":
		return BackgroundQueue()
	case "current":
		return CurrentQueue()
	default:
		return NamedQueue(strings.TrimSpace(s))
	}
}
