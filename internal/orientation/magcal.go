// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"

	"github.com/relabs-tech/motion_computer/internal/imu"
)

const (
	magMinSamples   = 20
	magMinHalfRange = 5.0 // µT

	magHighConfidence   = 0.8
	magMediumConfidence = 0.5
)

// MagCalibrator estimates the hard-iron offset of a magnetometer from the
// min/max envelope of the samples seen so far. Not safe for concurrent use.
type MagCalibrator struct {
	n        int
	min, max imu.Vector3
}

// NewMagCalibrator returns a calibrator with no samples.
func NewMagCalibrator() *MagCalibrator {
	c := &MagCalibrator{}
	c.Reset()
	return c
}

// Reset forgets every sample.
func (c *MagCalibrator) Reset() {
	c.n = 0
	c.min = imu.Vector3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	c.max = imu.Vector3{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
}

// Add records a raw sample in µT.
func (c *MagCalibrator) Add(v imu.Vector3) {
	c.n++
	c.min.X = math.Min(c.min.X, v.X)
	c.min.Y = math.Min(c.min.Y, v.Y)
	c.min.Z = math.Min(c.min.Z, v.Z)
	c.max.X = math.Max(c.max.X, v.X)
	c.max.Y = math.Max(c.max.Y, v.Y)
	c.max.Z = math.Max(c.max.Z, v.Z)
}

// Samples returns how many samples were added since the last reset.
func (c *MagCalibrator) Samples() int { return c.n }

// Offset returns the hard-iron offset estimate.
func (c *MagCalibrator) Offset() imu.Vector3 {
	if c.n == 0 {
		return imu.Vector3{}
	}
	return imu.Vector3{
		X: (c.max.X + c.min.X) / 2,
		Y: (c.max.Y + c.min.Y) / 2,
		Z: (c.max.Z + c.min.Z) / 2,
	}
}

// HalfRange returns half the excursion seen on each axis.
func (c *MagCalibrator) HalfRange() imu.Vector3 {
	if c.n == 0 {
		return imu.Vector3{}
	}
	return imu.Vector3{
		X: (c.max.X - c.min.X) / 2,
		Y: (c.max.Y - c.min.Y) / 2,
		Z: (c.max.Z - c.min.Z) / 2,
	}
}

// Confidence is 0 until every axis has been excited, then grows as the
// excursions become balanced across axes.
func (c *MagCalibrator) Confidence() float64 {
	if !c.excited() {
		return 0
	}
	return magCoverageConfidence(c.HalfRange())
}

func (c *MagCalibrator) excited() bool {
	hr := c.HalfRange()
	return c.n >= magMinSamples &&
		hr.X >= magMinHalfRange && hr.Y >= magMinHalfRange && hr.Z >= magMinHalfRange
}

// Accuracy maps Confidence to the native accuracy code.
func (c *MagCalibrator) Accuracy() imu.MagneticFieldAccuracy {
	if !c.excited() {
		return imu.MagneticFieldAccuracyUncalibrated
	}
	conf := magCoverageConfidence(c.HalfRange())
	switch {
	case conf >= magHighConfidence:
		return imu.MagneticFieldAccuracyHigh
	case conf >= magMediumConfidence:
		return imu.MagneticFieldAccuracyMedium
	default:
		return imu.MagneticFieldAccuracyLow
	}
}

// Calibrate removes the offset from v once the calibrator has enough
// coverage. Before that v is returned unchanged.
func (c *MagCalibrator) Calibrate(v imu.Vector3) imu.Vector3 {
	if !c.excited() {
		return v
	}
	return v.Sub(c.Offset())
}

func magCoverageConfidence(halfRange imu.Vector3) float64 {
	m := (halfRange.X + halfRange.Y + halfRange.Z) / 3
	if m <= 0 {
		return 0
	}
	cv := std3(halfRange.X, halfRange.Y, halfRange.Z) / m
	return clamp01(1.0 - (cv / 0.7))
}

func std3(a, b, c float64) float64 {
	m := (a + b + c) / 3
	return math.Sqrt(((a-m)*(a-m) + (b-m)*(b-m) + (c-m)*(c-m)) / 3)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
