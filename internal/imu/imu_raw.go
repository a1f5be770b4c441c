// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

import (
	"math"
	"time"
)

// IMURaw represents a single raw IMU sample in sensor counts.
type IMURaw struct {
	Source string `json:"source"`

	Ax int16 `json:"ax"` // accel
	Ay int16 `json:"ay"`
	Az int16 `json:"az"`

	Gx int16 `json:"gx"` // gyro
	Gy int16 `json:"gy"`
	Gz int16 `json:"gz"`
}

// Full-scale ranges selected by the MPU9250 range codes 0-3.
var (
	accelFullScaleG   = [4]float64{2, 4, 8, 16}
	gyroFullScaleDegS = [4]float64{250, 500, 1000, 2000}
)

// AccelFullScale returns the ±g full scale for an accelerometer range code.
func AccelFullScale(rangeCode byte) float64 {
	return accelFullScaleG[rangeCode&0x3]
}

// GyroFullScale returns the ±°/s full scale for a gyroscope range code.
func GyroFullScale(rangeCode byte) float64 {
	return gyroFullScaleDegS[rangeCode&0x3]
}

// ToReading converts counts to physical units (g and rad/s) using the
// configured range codes.
func (r IMURaw) ToReading(ts time.Time, accelRange, gyroRange byte) Reading {
	aScale := AccelFullScale(accelRange) / 32768.0
	gScale := GyroFullScale(gyroRange) / 32768.0 * math.Pi / 180.0

	return Reading{
		Timestamp: ts,
		Accel: &Vector3{
			X: float64(r.Ax) * aScale,
			Y: float64(r.Ay) * aScale,
			Z: float64(r.Az) * aScale,
		},
		Gyro: &Vector3{
			X: float64(r.Gx) * gScale,
			Y: float64(r.Gy) * gScale,
			Z: float64(r.Gz) * gScale,
		},
	}
}
