// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import (
	"time"

	"github.com/relabs-tech/motion_computer/internal/imu"
	"github.com/relabs-tech/motion_computer/internal/queue"
)

// AccelerometerManager is the native accelerometer capability.
type AccelerometerManager interface {
	AccelerometerAvailable() bool
	AccelerometerActive() bool
	SetAccelerometerUpdateInterval(d time.Duration)
	AccelerometerData() *imu.AccelerometerData
	StartAccelerometerUpdates()
	StartAccelerometerUpdatesToQueue(q *queue.Queue, h func(*imu.AccelerometerData, error))
	StopAccelerometerUpdates()
}

// GyroManager is the native gyroscope capability.
type GyroManager interface {
	GyroAvailable() bool
	GyroActive() bool
	SetGyroUpdateInterval(d time.Duration)
	GyroData() *imu.GyroData
	StartGyroUpdates()
	StartGyroUpdatesToQueue(q *queue.Queue, h func(*imu.GyroData, error))
	StopGyroUpdates()
}

// MagnetometerManager is the native magnetometer capability.
type MagnetometerManager interface {
	MagnetometerAvailable() bool
	MagnetometerActive() bool
	SetMagnetometerUpdateInterval(d time.Duration)
	MagnetometerData() *imu.MagnetometerData
	StartMagnetometerUpdates()
	StartMagnetometerUpdatesToQueue(q *queue.Queue, h func(*imu.MagnetometerData, error))
	StopMagnetometerUpdates()
}

// DeviceMotionManager is the native fused device-motion capability.
type DeviceMotionManager interface {
	DeviceMotionAvailable() bool
	DeviceMotionActive() bool
	SetDeviceMotionUpdateInterval(d time.Duration)
	DeviceMotion() *imu.DeviceMotionData
	StartDeviceMotionUpdates()
	StartDeviceMotionUpdatesUsingReferenceFrame(f imu.AttitudeReferenceFrame)
	StartDeviceMotionUpdatesToQueue(q *queue.Queue, h func(*imu.DeviceMotionData, error))
	StartDeviceMotionUpdatesUsingReferenceFrameToQueue(f imu.AttitudeReferenceFrame, q *queue.Queue, h func(*imu.DeviceMotionData, error))
	StopDeviceMotionUpdates()
}

// Manager is the native motion hardware manager consumed by every handle.
// Implementations deliver samples asynchronously on the queue passed to the
// Start*ToQueue calls, never on the caller's goroutine.
type Manager interface {
	AccelerometerManager
	GyroManager
	MagnetometerManager
	DeviceMotionManager
}
