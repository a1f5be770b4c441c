// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package sensors implements the native motion manager on top of an IMU
// source: the MPU9250 over SPI, an NMEA serial stream or a mock.
package sensors

import (
	"errors"

	"github.com/relabs-tech/motion_computer/internal/imu"
)

var (
	// ErrMagnetometerUnavailable is reported when the source has no magnetometer.
	ErrMagnetometerUnavailable = errors.New("magnetometer unavailable")
	// ErrNoSample is reported when the source has not produced the requested
	// measurement yet.
	ErrNoSample = errors.New("no sample available")
)

// Source provides combined IMU readings. Read must be cheap enough to be
// called at the fastest configured update interval.
type Source interface {
	Read() (imu.Reading, error)
	HasMagnetometer() bool
	Close() error
}
