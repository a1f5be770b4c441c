// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import (
	"time"

	"go.uber.org/zap"

	"github.com/relabs-tech/motion_computer/internal/imu"
)

// Gyroscope is the gyroscope handle. Rotation rates are in rad/s.
type Gyroscope struct {
	handle[GyroscopeSample]
}

// NewGyroscope binds a handle to m. Handles are cheap and stateless.
func NewGyroscope(m Manager, queues *QueueResolver, logger *zap.SugaredLogger) *Gyroscope {
	s := &Gyroscope{handle: newHandle[GyroscopeSample]("gyroscope", m, queues, logger)}
	s.handle.start = func(o Options, h Handler[GyroscopeSample]) { s.Start(o, h) }
	s.handle.stop = s.Stop
	return s
}

// Start applies opts.Interval, then registers h on the resolved queue. A nil
// h starts updates without deliveries; read them with Data.
func (s *Gyroscope) Start(opts Options, h Handler[GyroscopeSample]) *Gyroscope {
	if opts.Interval != nil {
		s.manager.SetGyroUpdateInterval(*opts.Interval)
	}

	s.logStart(opts, h == nil)
	if h == nil {
		s.manager.StartGyroUpdates()
		return s
	}

	q := s.ConvertQueue(opts.Queue)
	s.manager.StartGyroUpdatesToQueue(q, func(data *imu.GyroData, err error) {
		h(NormalizeGyroscope(data), err)
	})
	return s
}

// Every starts repeating deliveries every interval. interval overrides
// opts.Interval.
func (s *Gyroscope) Every(interval time.Duration, opts Options, h Handler[GyroscopeSample]) (*Gyroscope, error) {
	return s, s.every(&interval, opts, h)
}

// EveryWith starts repeating deliveries configured by opts alone.
func (s *Gyroscope) EveryWith(opts Options, h Handler[GyroscopeSample]) (*Gyroscope, error) {
	return s, s.every(nil, opts, h)
}

// Once delivers one sample to h, then stops.
func (s *Gyroscope) Once(opts Options, h Handler[GyroscopeSample]) (*Gyroscope, error) {
	return s, s.once(opts, h)
}

// Stop ends deliveries. See the package documentation for in-flight samples.
func (s *Gyroscope) Stop() {
	s.logger.Debugf("gyroscope: stop")
	s.manager.StopGyroUpdates()
}

// Available reports whether the hardware is present.
func (s *Gyroscope) Available() bool { return s.manager.GyroAvailable() }

// Active reports whether updates are running.
func (s *Gyroscope) Active() bool { return s.manager.GyroActive() }

// Data returns the latest raw sample cached by the manager, or nil.
func (s *Gyroscope) Data() *imu.GyroData { return s.manager.GyroData() }
