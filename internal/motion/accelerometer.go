// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import (
	"time"

	"go.uber.org/zap"

	"github.com/relabs-tech/motion_computer/internal/imu"
)

// Accelerometer is the accelerometer handle. Accelerations are in g.
type Accelerometer struct {
	handle[AccelerometerSample]
}

// NewAccelerometer binds a handle to m. Handles are cheap and stateless.
func NewAccelerometer(m Manager, queues *QueueResolver, logger *zap.SugaredLogger) *Accelerometer {
	s := &Accelerometer{handle: newHandle[AccelerometerSample]("accelerometer", m, queues, logger)}
	s.handle.start = func(o Options, h Handler[AccelerometerSample]) { s.Start(o, h) }
	s.handle.stop = s.Stop
	return s
}

// Start applies opts.Interval, then registers h on the resolved queue. A nil
// h starts updates without deliveries; read them with Data.
func (s *Accelerometer) Start(opts Options, h Handler[AccelerometerSample]) *Accelerometer {
	if opts.Interval != nil {
		s.manager.SetAccelerometerUpdateInterval(*opts.Interval)
	}

	s.logStart(opts, h == nil)
	if h == nil {
		s.manager.StartAccelerometerUpdates()
		return s
	}

	q := s.ConvertQueue(opts.Queue)
	s.manager.StartAccelerometerUpdatesToQueue(q, func(data *imu.AccelerometerData, err error) {
		h(NormalizeAccelerometer(data), err)
	})
	return s
}

// Every starts repeating deliveries every interval. interval overrides
// opts.Interval.
func (s *Accelerometer) Every(interval time.Duration, opts Options, h Handler[AccelerometerSample]) (*Accelerometer, error) {
	return s, s.every(&interval, opts, h)
}

// EveryWith starts repeating deliveries configured by opts alone.
func (s *Accelerometer) EveryWith(opts Options, h Handler[AccelerometerSample]) (*Accelerometer, error) {
	return s, s.every(nil, opts, h)
}

// Once delivers a single sample to h and then stops the accelerometer.
func (s *Accelerometer) Once(opts Options, h Handler[AccelerometerSample]) (*Accelerometer, error) {
	return s, s.once(opts, h)
}

// Stop ends deliveries. See the package documentation for in-flight samples.
func (s *Accelerometer) Stop() {
	s.logger.Debugf("accelerometer: stop")
	s.manager.StopAccelerometerUpdates()
}

// Available reports whether the hardware is present.
func (s *Accelerometer) Available() bool { return s.manager.AccelerometerAvailable() }

// Active reports whether updates are running.
func (s *Accelerometer) Active() bool { return s.manager.AccelerometerActive() }

// Data returns the latest raw sample cached by the manager, or nil.
func (s *Accelerometer) Data() *imu.AccelerometerData { return s.manager.AccelerometerData() }
