// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import (
	"fmt"

	"github.com/relabs-tech/motion_computer/internal/imu"
)

// CalibrationAccuracy classifies a calibrated magnetic-field sample.
type CalibrationAccuracy int

const (
	Unknown CalibrationAccuracy = iota
	Low
	Medium
	High
)

// ClassifyAccuracy maps a native accuracy code. Unrecognized codes, the
// native "uncalibrated" code included, are Unknown.
func ClassifyAccuracy(code imu.MagneticFieldAccuracy) CalibrationAccuracy {
	switch code {
	case imu.MagneticFieldAccuracyLow:
		return Low
	case imu.MagneticFieldAccuracyMedium:
		return Medium
	case imu.MagneticFieldAccuracyHigh:
		return High
	default:
		return Unknown
	}
}

func (a CalibrationAccuracy) String() string {
	switch a {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a CalibrationAccuracy) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *CalibrationAccuracy) UnmarshalText(b []byte) error {
	switch string(b) {
	case "unknown":
		*a = Unknown
	case "low":
		*a = Low
	case "medium":
		*a = Medium
	case "high":
		*a = High
	default:
		return fmt.Errorf("unknown calibration accuracy %q", b)
	}
	return nil
}
