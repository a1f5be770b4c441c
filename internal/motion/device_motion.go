// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import (
	"time"

	"go.uber.org/zap"

	"github.com/relabs-tech/motion_computer/internal/imu"
)

// DeviceMotion is the fused device-motion handle.
type DeviceMotion struct {
	handle[DeviceMotionSample]
}

// NewDeviceMotion binds a handle to m.
func NewDeviceMotion(m Manager, queues *QueueResolver, logger *zap.SugaredLogger) *DeviceMotion {
	d := &DeviceMotion{handle: newHandle[DeviceMotionSample]("device motion", m, queues, logger)}
	d.handle.start = func(o Options, h Handler[DeviceMotionSample]) { d.Start(o, h) }
	d.handle.stop = d.Stop
	return d
}

// Start applies opts.Interval and opts.Reference and picks the matching
// native start call: with or without a reference frame, with or without a
// queue and handler. Without a reference the native default frame applies.
func (d *DeviceMotion) Start(opts Options, h Handler[DeviceMotionSample]) *DeviceMotion {
	if opts.Interval != nil {
		d.manager.SetDeviceMotionUpdateInterval(*opts.Interval)
	}

	var frame *imu.AttitudeReferenceFrame
	if opts.Reference != nil {
		f := ConvertReferenceFrame(*opts.Reference)
		frame = &f
		d.logger.Debugf("device motion: reference frame %s", opts.Reference)
	}

	d.logStart(opts, h == nil)
	if h == nil {
		if frame != nil {
			d.manager.StartDeviceMotionUpdatesUsingReferenceFrame(*frame)
		} else {
			d.manager.StartDeviceMotionUpdates()
		}
		return d
	}

	q := d.ConvertQueue(opts.Queue)
	deliver := func(data *imu.DeviceMotionData, err error) {
		h(NormalizeDeviceMotion(data), err)
	}
	if frame != nil {
		d.manager.StartDeviceMotionUpdatesUsingReferenceFrameToQueue(*frame, q, deliver)
	} else {
		d.manager.StartDeviceMotionUpdatesToQueue(q, deliver)
	}
	return d
}

// Every starts repeating deliveries every interval. interval overrides
// opts.Interval.
func (d *DeviceMotion) Every(interval time.Duration, opts Options, h Handler[DeviceMotionSample]) (*DeviceMotion, error) {
	return d, d.every(&interval, opts, h)
}

// EveryWith starts repeating deliveries configured by opts alone.
func (d *DeviceMotion) EveryWith(opts Options, h Handler[DeviceMotionSample]) (*DeviceMotion, error) {
	return d, d.every(nil, opts, h)
}

// Once delivers a single fused sample to h and then stops device motion.
func (d *DeviceMotion) Once(opts Options, h Handler[DeviceMotionSample]) (*DeviceMotion, error) {
	return d, d.once(opts, h)
}

// Stop ends device-motion deliveries.
func (d *DeviceMotion) Stop() {
	d.logger.Debugf("device motion: stop")
	d.manager.StopDeviceMotionUpdates()
}

func (d *DeviceMotion) Available() bool { return d.manager.DeviceMotionAvailable() }

func (d *DeviceMotion) Active() bool { return d.manager.DeviceMotionActive() }

// Data returns the latest raw fused sample cached by the manager, or nil.
func (d *DeviceMotion) Data() *imu.DeviceMotionData { return d.manager.DeviceMotion() }
