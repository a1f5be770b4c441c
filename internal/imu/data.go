// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package imu holds the native sample types produced by the motion hardware
// manager. Units: acceleration in g, rotation rate in rad/s, magnetic field
// in µT, angles in radians.
package imu

import (
	"math"
	"time"
)

// Vector3 is a three-axis measurement.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Sub returns v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Norm returns the Euclidean length of v.
func (v Vector3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Reading is one combined read of an IMU source. Any of the three vectors
// may be nil when the source did not provide it.
type Reading struct {
	Timestamp time.Time
	Accel     *Vector3
	Gyro      *Vector3
	Mag       *Vector3
}

// AccelerometerData is a raw accelerometer sample.
type AccelerometerData struct {
	Timestamp    time.Time `json:"time"`
	Acceleration Vector3   `json:"acceleration"`
}

// GyroData is a raw gyroscope sample.
type GyroData struct {
	Timestamp    time.Time `json:"time"`
	RotationRate Vector3   `json:"rotation_rate"`
}

// MagnetometerData is a raw, uncalibrated magnetometer sample.
type MagnetometerData struct {
	Timestamp     time.Time `json:"time"`
	MagneticField Vector3   `json:"magnetic_field"`
}

// RotationMatrix rotates body-frame vectors into the reference frame.
type RotationMatrix struct {
	M11 float64 `json:"m11"`
	M12 float64 `json:"m12"`
	M13 float64 `json:"m13"`
	M21 float64 `json:"m21"`
	M22 float64 `json:"m22"`
	M23 float64 `json:"m23"`
	M31 float64 `json:"m31"`
	M32 float64 `json:"m32"`
	M33 float64 `json:"m33"`
}

// Quaternion is a unit quaternion equivalent of RotationMatrix.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Attitude is the device orientation relative to the reference frame.
type Attitude struct {
	Roll           float64        `json:"roll"`
	Pitch          float64        `json:"pitch"`
	Yaw            float64        `json:"yaw"`
	RotationMatrix RotationMatrix `json:"rotation_matrix"`
	Quaternion     Quaternion     `json:"quaternion"`
}

// CalibratedMagneticField is the hard-iron corrected field with its
// calibration accuracy code.
type CalibratedMagneticField struct {
	Field    Vector3               `json:"field"`
	Accuracy MagneticFieldAccuracy `json:"accuracy"`
}

// DeviceMotionData is a fused sample. Every sub-structure is independently
// optional.
type DeviceMotionData struct {
	Timestamp        time.Time                `json:"time"`
	Attitude         *Attitude                `json:"attitude,omitempty"`
	RotationRate     *Vector3                 `json:"rotation_rate,omitempty"`
	Gravity          *Vector3                 `json:"gravity,omitempty"`
	UserAcceleration *Vector3                 `json:"user_acceleration,omitempty"`
	MagneticField    *CalibratedMagneticField `json:"magnetic_field,omitempty"`
}
