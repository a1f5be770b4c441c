// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import "github.com/relabs-tech/motion_computer/internal/imu"

// NormalizeAccelerometer returns nil for a nil sample.
func NormalizeAccelerometer(d *imu.AccelerometerData) *AccelerometerSample {
	if d == nil {
		return nil
	}
	a := d.Acceleration
	return &AccelerometerSample{Data: d, Acceleration: a, X: a.X, Y: a.Y, Z: a.Z}
}

// NormalizeGyroscope returns nil for a nil sample.
func NormalizeGyroscope(d *imu.GyroData) *GyroscopeSample {
	if d == nil {
		return nil
	}
	r := d.RotationRate
	return &GyroscopeSample{Data: d, Rotation: r, X: r.X, Y: r.Y, Z: r.Z}
}

// NormalizeMagnetometer returns nil for a nil sample.
func NormalizeMagnetometer(d *imu.MagnetometerData) *MagnetometerSample {
	if d == nil {
		return nil
	}
	f := d.MagneticField
	return &MagnetometerSample{Data: d, Field: f, X: f.X, Y: f.Y, Z: f.Z}
}

// NormalizeDeviceMotion returns nil for a nil sample. Each sub-structure is
// merged only when present in d.
func NormalizeDeviceMotion(d *imu.DeviceMotionData) *DeviceMotionSample {
	if d == nil {
		return nil
	}
	s := &DeviceMotionSample{Data: d}

	if a := d.Attitude; a != nil {
		s.AttitudeReading = &AttitudeReading{
			Attitude:   *a,
			Roll:       a.Roll,
			Pitch:      a.Pitch,
			Yaw:        a.Yaw,
			Matrix:     a.RotationMatrix,
			Quaternion: a.Quaternion,
		}
	}

	if r := d.RotationRate; r != nil {
		s.RotationReading = &RotationReading{
			Rotation:  *r,
			RotationX: r.X,
			RotationY: r.Y,
			RotationZ: r.Z,
		}
	}

	if g := d.Gravity; g != nil {
		s.GravityReading = &GravityReading{
			Gravity:  *g,
			GravityX: g.X,
			GravityY: g.Y,
			GravityZ: g.Z,
		}
	}

	if u := d.UserAcceleration; u != nil {
		s.AccelerationReading = &AccelerationReading{
			Acceleration:  *u,
			AccelerationX: u.X,
			AccelerationY: u.Y,
			AccelerationZ: u.Z,
		}
	}

	if m := d.MagneticField; m != nil {
		s.MagneticReading = &MagneticReading{
			Magnetic:         *m,
			Field:            m.Field,
			MagneticX:        m.Field.X,
			MagneticY:        m.Field.Y,
			MagneticZ:        m.Field.Z,
			MagneticAccuracy: ClassifyAccuracy(m.Accuracy),
		}
	}

	return s
}
