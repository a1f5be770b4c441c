// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import (
	"time"

	"go.uber.org/zap"

	"github.com/relabs-tech/motion_computer/internal/imu"
)

// Magnetometer is the magnetometer handle. Fields are raw µT, without
// hard-iron correction; DeviceMotion carries the calibrated field.
type Magnetometer struct {
	handle[MagnetometerSample]
}

// NewMagnetometer binds a handle to m. Handles are cheap and stateless.
func NewMagnetometer(m Manager, queues *QueueResolver, logger *zap.SugaredLogger) *Magnetometer {
	s := &Magnetometer{handle: newHandle[MagnetometerSample]("magnetometer", m, queues, logger)}
	s.handle.start = func(o Options, h Handler[MagnetometerSample]) { s.Start(o, h) }
	s.handle.stop = s.Stop
	return s
}

// Start applies opts.Interval, then registers h on the resolved queue. A nil
// h starts updates without deliveries; read them with Data.
func (s *Magnetometer) Start(opts Options, h Handler[MagnetometerSample]) *Magnetometer {
	if opts.Interval != nil {
		s.manager.SetMagnetometerUpdateInterval(*opts.Interval)
	}

	s.logStart(opts, h == nil)
	if h == nil {
		s.manager.StartMagnetometerUpdates()
		return s
	}

	q := s.ConvertQueue(opts.Queue)
	s.manager.StartMagnetometerUpdatesToQueue(q, func(data *imu.MagnetometerData, err error) {
		h(NormalizeMagnetometer(data), err)
	})
	return s
}

// Every starts repeating deliveries every interval. interval overrides
// opts.Interval.
func (s *Magnetometer) Every(interval time.Duration, opts Options, h Handler[MagnetometerSample]) (*Magnetometer, error) {
	return s, s.every(&interval, opts, h)
}

// EveryWith starts repeating deliveries configured by opts alone.
func (s *Magnetometer) EveryWith(opts Options, h Handler[MagnetometerSample]) (*Magnetometer, error) {
	return s, s.every(nil, opts, h)
}

// Once delivers a single sample to h and then stops the magnetometer.
func (s *Magnetometer) Once(opts Options, h Handler[MagnetometerSample]) (*Magnetometer, error) {
	return s, s.once(opts, h)
}

// Stop ends deliveries. See the package documentation for in-flight samples.
func (s *Magnetometer) Stop() {
	s.logger.Debugf("magnetometer: stop")
	s.manager.StopMagnetometerUpdates()
}

// Available reports whether the hardware is present.
func (s *Magnetometer) Available() bool { return s.manager.MagnetometerAvailable() }

// Active reports whether updates are running.
func (s *Magnetometer) Active() bool { return s.manager.MagnetometerActive() }

// Data returns the latest raw sample cached by the manager, or nil.
func (s *Magnetometer) Data() *imu.MagnetometerData { return s.manager.MagnetometerData() }
