// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package orientation turns raw IMU readings into attitude. Angles are in
// radians unless a type says otherwise. The world frame has Z up; yaw is
// positive counter-clockwise seen from above. A device lying flat reads
// +1 g on its accelerometer Z axis.
package orientation

import (
	"math"

	"github.com/relabs-tech/motion_computer/internal/imu"
)

// Pose is roll, pitch and yaw in degrees, for display.
type Pose struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// ComputePoseFromAccel computes roll and pitch from accelerometer data only.
// Yaw is 0.
//
//	roll  = atan2(ay, az)
//	pitch = atan2(-ax, sqrt(ay² + az²))
func ComputePoseFromAccel(ax, ay, az float64) Pose {
	roll, pitch := TiltFromAccel(imu.Vector3{X: ax, Y: ay, Z: az})
	return Pose{Roll: degrees(roll), Pitch: degrees(pitch)}
}

// PoseFromAttitude converts a to degrees.
func PoseFromAttitude(a imu.Attitude) Pose {
	return Pose{Roll: degrees(a.Roll), Pitch: degrees(a.Pitch), Yaw: degrees(a.Yaw)}
}

// TiltFromAccel returns roll and pitch in radians. The magnitude of a does
// not matter.
func TiltFromAccel(a imu.Vector3) (roll, pitch float64) {
	roll = math.Atan2(a.Y, a.Z)
	pitch = math.Atan2(-a.X, math.Sqrt(a.Y*a.Y+a.Z*a.Z))
	return roll, pitch
}

// MagneticYaw returns the yaw of the device relative to magnetic north,
// compensating the magnetometer reading m for the given tilt.
func MagneticYaw(roll, pitch float64, m imu.Vector3) float64 {
	sr, cr := math.Sincos(roll)
	sp, cp := math.Sincos(pitch)

	hx := cp*m.X + sp*(sr*m.Y+cr*m.Z)
	hy := cr*m.Y - sr*m.Z
	return math.Atan2(-hy, hx)
}

// AttitudeFromEuler builds the full attitude for R = Rz(yaw)·Ry(pitch)·Rx(roll),
// which maps device coordinates to world coordinates.
func AttitudeFromEuler(roll, pitch, yaw float64) imu.Attitude {
	sr, cr := math.Sincos(roll)
	sp, cp := math.Sincos(pitch)
	sy, cy := math.Sincos(yaw)

	m := imu.RotationMatrix{
		M11: cy * cp,
		M12: cy*sp*sr - sy*cr,
		M13: cy*sp*cr + sy*sr,
		M21: sy * cp,
		M22: sy*sp*sr + cy*cr,
		M23: sy*sp*cr - cy*sr,
		M31: -sp,
		M32: cp * sr,
		M33: cp * cr,
	}

	shr, chr := math.Sincos(roll / 2)
	shp, chp := math.Sincos(pitch / 2)
	shy, chy := math.Sincos(yaw / 2)
	q := imu.Quaternion{
		W: chr*chp*chy + shr*shp*shy,
		X: shr*chp*chy - chr*shp*shy,
		Y: chr*shp*chy + shr*chp*shy,
		Z: chr*chp*shy - shr*shp*chy,
	}

	return imu.Attitude{Roll: roll, Pitch: pitch, Yaw: yaw, RotationMatrix: m, Quaternion: q}
}

// ToDevice rotates a world vector into device coordinates (Rᵀ·v).
func ToDevice(m imu.RotationMatrix, v imu.Vector3) imu.Vector3 {
	return imu.Vector3{
		X: m.M11*v.X + m.M21*v.Y + m.M31*v.Z,
		Y: m.M12*v.X + m.M22*v.Y + m.M32*v.Z,
		Z: m.M13*v.X + m.M23*v.Y + m.M33*v.Z,
	}
}

// WrapAngle maps a into (-π, π].
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

func degrees(rad float64) float64 { return rad * 180.0 / math.Pi }

func radians(deg float64) float64 { return deg * math.Pi / 180.0 }
