// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import "github.com/relabs-tech/motion_computer/internal/imu"

// AccelerometerSample is a normalized accelerometer delivery.
type AccelerometerSample struct {
	Data         *imu.AccelerometerData `json:"data"`
	Acceleration imu.Vector3            `json:"acceleration"`
	X            float64                `json:"x"`
	Y            float64                `json:"y"`
	Z            float64                `json:"z"`
}

// GyroscopeSample is a normalized gyroscope delivery.
type GyroscopeSample struct {
	Data     *imu.GyroData `json:"data"`
	Rotation imu.Vector3   `json:"rotation"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Z        float64       `json:"z"`
}

// MagnetometerSample is a normalized magnetometer delivery.
type MagnetometerSample struct {
	Data  *imu.MagnetometerData `json:"data"`
	Field imu.Vector3           `json:"field"`
	X     float64               `json:"x"`
	Y     float64               `json:"y"`
	Z     float64               `json:"z"`
}

// DeviceMotionSample is a normalized fused delivery. Each embedded reading
// is nil when the native sample did not carry it; its fields are then absent
// from the JSON form rather than zero. Check the pointer before reading a
// promoted field such as Roll.
type DeviceMotionSample struct {
	Data *imu.DeviceMotionData `json:"data"`

	*AttitudeReading
	*RotationReading
	*GravityReading
	*AccelerationReading
	*MagneticReading
}

// AttitudeReading flattens imu.Attitude.
type AttitudeReading struct {
	Attitude   imu.Attitude       `json:"attitude"`
	Roll       float64            `json:"roll"`
	Pitch      float64            `json:"pitch"`
	Yaw        float64            `json:"yaw"`
	Matrix     imu.RotationMatrix `json:"matrix"`
	Quaternion imu.Quaternion     `json:"quaternion"`
}

// RotationReading flattens the rotation rate.
type RotationReading struct {
	Rotation  imu.Vector3 `json:"rotation"`
	RotationX float64     `json:"rotation_x"`
	RotationY float64     `json:"rotation_y"`
	RotationZ float64     `json:"rotation_z"`
}

// GravityReading flattens the gravity vector.
type GravityReading struct {
	Gravity  imu.Vector3 `json:"gravity"`
	GravityX float64     `json:"gravity_x"`
	GravityY float64     `json:"gravity_y"`
	GravityZ float64     `json:"gravity_z"`
}

// AccelerationReading flattens the user acceleration.
type AccelerationReading struct {
	Acceleration  imu.Vector3 `json:"acceleration"`
	AccelerationX float64     `json:"acceleration_x"`
	AccelerationY float64     `json:"acceleration_y"`
	AccelerationZ float64     `json:"acceleration_z"`
}

// MagneticReading flattens the calibrated magnetic field.
type MagneticReading struct {
	Magnetic         imu.CalibratedMagneticField `json:"magnetic"`
	Field            imu.Vector3                 `json:"field"`
	MagneticX        float64                     `json:"magnetic_x"`
	MagneticY        float64                     `json:"magnetic_y"`
	MagneticZ        float64                     `json:"magnetic_z"`
	MagneticAccuracy CalibrationAccuracy         `json:"magnetic_accuracy"`
}
