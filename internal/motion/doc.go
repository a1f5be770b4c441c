// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package motion gives every motion sensor (accelerometer, gyroscope,
// magnetometer and fused device motion) the same interaction surface:
// Start, Every, Once and Stop.
//
// Handles are thin, stateless facades over a shared Manager. Samples are
// produced asynchronously by the manager, normalized into field-rich
// records, and handed to the caller's Handler on the queue resolved from
// Options.Queue.
//
// Stop is a request to cease future deliveries. It is not synchronized with
// deliveries already dispatched: a sample whose delivery began before Stop
// returned may still reach the handler afterwards. Handlers registered on
// different queues may run concurrently; the package adds no locking around
// them.
package motion
