// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"

	"github.com/benbjohnson/clock"

	"github.com/relabs-tech/motion_computer/internal/imu"
)

// EarthField is the world magnetic field used by MockSource, in µT: 20 µT
// towards magnetic north and 45 µT down.
var EarthField = imu.Vector3{X: 20, Y: 0, Z: -45}

// MockSource generates smooth, physically consistent readings for a device
// that rocks in roll and pitch while spinning slowly in yaw.
type MockSource struct {
	clock clock.Clock
	start int64
}

// NewMockSource creates a mock source whose motion is driven by c.
func NewMockSource(c clock.Clock) *MockSource {
	if c == nil {
		c = clock.New()
	}
	return &MockSource{clock: c, start: c.Now().UnixNano()}
}

// MockPose returns the attitude of the mock device t seconds after start.
func MockPose(t float64) (roll, pitch, yaw float64) {
	roll = radians(20 * math.Sin(t))
	pitch = radians(15 * math.Cos(t*0.7))
	yaw = WrapAngle(radians(30 * t))
	return roll, pitch, yaw
}

// Read samples the mock device at the current clock time.
func (m *MockSource) Read() (imu.Reading, error) {
	now := m.clock.Now()
	t := float64(now.UnixNano()-m.start) / 1e9

	roll, pitch, yaw := MockPose(t)
	att := AttitudeFromEuler(roll, pitch, yaw)

	// Euler rates, differentiated from MockPose.
	rollRate := radians(20 * math.Cos(t))
	pitchRate := radians(-15 * 0.7 * math.Sin(t*0.7))
	yawRate := radians(30)

	sr, cr := math.Sincos(roll)
	sp, cp := math.Sincos(pitch)
	gyro := imu.Vector3{
		X: rollRate - sp*yawRate,
		Y: cr*pitchRate + sr*cp*yawRate,
		Z: -sr*pitchRate + cr*cp*yawRate,
	}

	accel := ToDevice(att.RotationMatrix, imu.Vector3{Z: 1})
	mag := ToDevice(att.RotationMatrix, EarthField)

	return imu.Reading{Timestamp: now, Accel: &accel, Gyro: &gyro, Mag: &mag}, nil
}

// HasMagnetometer is always true.
func (m *MockSource) HasMagnetometer() bool { return true }

// Close is a no-op.
func (m *MockSource) Close() error { return nil }
