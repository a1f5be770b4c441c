// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

// AttitudeReferenceFrame is the native reference frame bit used by the
// fused device-motion computation.
type AttitudeReferenceFrame uint

const (
	XArbitraryZVertical          AttitudeReferenceFrame = 1 << 0
	XArbitraryCorrectedZVertical AttitudeReferenceFrame = 1 << 1
	XMagneticNorthZVertical      AttitudeReferenceFrame = 1 << 2
	XTrueNorthZVertical          AttitudeReferenceFrame = 1 << 3
)

// MagneticFieldAccuracy is the native calibration accuracy code.
type MagneticFieldAccuracy int

const (
	MagneticFieldAccuracyUncalibrated MagneticFieldAccuracy = -1
	MagneticFieldAccuracyLow          MagneticFieldAccuracy = 0
	MagneticFieldAccuracyMedium       MagneticFieldAccuracy = 1
	MagneticFieldAccuracyHigh         MagneticFieldAccuracy = 2
)
