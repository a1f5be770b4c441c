// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"strings"

	"github.com/relabs-tech/motion_computer/internal/motion"
	"github.com/relabs-tech/motion_computer/internal/orientation"
)

func formatAccelerometer(s *motion.AccelerometerSample) string {
	return fmt.Sprintf("[ACC ]  x=%7.3fg  y=%7.3fg  z=%7.3fg", s.X, s.Y, s.Z)
}

func formatGyroscope(s *motion.GyroscopeSample) string {
	return fmt.Sprintf("[GYRO]  x=%7.3f  y=%7.3f  z=%7.3f rad/s", s.X, s.Y, s.Z)
}

func formatMagnetometer(s *motion.MagnetometerSample) string {
	return fmt.Sprintf("[MAG ]  x=%7.2f  y=%7.2f  z=%7.2f µT", s.X, s.Y, s.Z)
}

// formatDeviceMotion prints only the parts present in s.
func formatDeviceMotion(s *motion.DeviceMotionSample) string {
	parts := []string{"[MOTN]"}
	if s.AttitudeReading != nil {
		p := orientation.PoseFromAttitude(s.Attitude)
		parts = append(parts, fmt.Sprintf("ROLL=%6.2f  PITCH=%6.2f  YAW=%6.2f", p.Roll, p.Pitch, p.Yaw))
	}
	if s.AccelerationReading != nil {
		parts = append(parts, fmt.Sprintf("user=(%.3f, %.3f, %.3f)g", s.AccelerationX, s.AccelerationY, s.AccelerationZ))
	}
	if s.RotationReading != nil {
		parts = append(parts, fmt.Sprintf("rot=(%.3f, %.3f, %.3f)", s.RotationX, s.RotationY, s.RotationZ))
	}
	if s.MagneticReading != nil {
		parts = append(parts, fmt.Sprintf("mag=(%.1f, %.1f, %.1f)µT %s", s.MagneticX, s.MagneticY, s.MagneticZ, s.MagneticAccuracy))
	}
	return strings.Join(parts, "  ")
}
