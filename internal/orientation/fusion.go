// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
	"time"

	"github.com/relabs-tech/motion_computer/internal/imu"
)

const (
	// DefaultAlpha weights the integrated gyro against the absolute
	// accelerometer and magnetometer references.
	DefaultAlpha = 0.98

	maxStep = time.Second
)

// Fuser is a complementary filter producing device-motion samples from
// combined accelerometer, gyroscope and magnetometer readings.
//
// Which parts of the output are present depends on the input: attitude,
// gravity and user acceleration need the accelerometer, rotation rate needs
// the gyroscope and the magnetic field needs the magnetometer. Without a
// gyroscope the attitude follows the absolute references directly.
//
// A Fuser is not safe for concurrent use.
type Fuser struct {
	alpha       float64
	declination float64
	frame       imu.AttitudeReferenceFrame
	mag         *MagCalibrator

	initialized bool
	last        time.Time
	roll        float64
	pitch       float64
	yaw         float64

	headingRef    float64
	hasHeadingRef bool
}

// NewFuser returns a fuser for frame. declinationDeg is the local magnetic
// declination, east positive, used by the true-north frame.
func NewFuser(frame imu.AttitudeReferenceFrame, declinationDeg float64) *Fuser {
	return &Fuser{
		alpha:       DefaultAlpha,
		declination: radians(declinationDeg),
		frame:       frame,
		mag:         NewMagCalibrator(),
	}
}

// Frame returns the reference frame in use.
func (f *Fuser) Frame() imu.AttitudeReferenceFrame { return f.frame }

// MagCalibrator exposes the calibrator fed by Update.
func (f *Fuser) MagCalibrator() *MagCalibrator { return f.mag }

// Reset restarts the filter in frame. Magnetometer calibration is kept.
func (f *Fuser) Reset(frame imu.AttitudeReferenceFrame) {
	f.frame = frame
	f.initialized = false
	f.last = time.Time{}
	f.roll, f.pitch, f.yaw = 0, 0, 0
	f.hasHeadingRef = false
}

// Update folds r into the filter and returns the fused sample.
func (f *Fuser) Update(r imu.Reading) *imu.DeviceMotionData {
	out := &imu.DeviceMotionData{Timestamp: r.Timestamp}

	dt := 0.0
	if !f.last.IsZero() && !r.Timestamp.IsZero() {
		step := r.Timestamp.Sub(f.last)
		if step > 0 && step <= maxStep {
			dt = step.Seconds()
		}
	}
	if !r.Timestamp.IsZero() {
		f.last = r.Timestamp
	}

	if r.Gyro != nil {
		rate := *r.Gyro
		out.RotationRate = &rate
	}

	var field *imu.Vector3
	if r.Mag != nil {
		f.mag.Add(*r.Mag)
		calibrated := f.mag.Calibrate(*r.Mag)
		field = &calibrated
		out.MagneticField = &imu.CalibratedMagneticField{
			Field:    calibrated,
			Accuracy: f.mag.Accuracy(),
		}
	}

	if r.Accel == nil {
		return out
	}

	f.updateAttitude(*r.Accel, r.Gyro, field, dt)

	att := AttitudeFromEuler(f.roll, f.pitch, f.yaw)
	out.Attitude = &att

	// Gravity points down in device coordinates.
	gravity := imu.Vector3{X: -att.RotationMatrix.M31, Y: -att.RotationMatrix.M32, Z: -att.RotationMatrix.M33}
	out.Gravity = &gravity
	user := imu.Vector3{X: r.Accel.X + gravity.X, Y: r.Accel.Y + gravity.Y, Z: r.Accel.Z + gravity.Z}
	out.UserAcceleration = &user

	return out
}

func (f *Fuser) updateAttitude(accel imu.Vector3, gyro, field *imu.Vector3, dt float64) {
	accRoll, accPitch := TiltFromAccel(accel)

	heading, hasHeading := f.heading(accRoll, accPitch, field)

	if !f.initialized || gyro == nil {
		f.roll, f.pitch = accRoll, accPitch
		if hasHeading {
			f.yaw = heading
		}
		f.initialized = true
		return
	}

	// Euler angle rates from body rates.
	sr, cr := math.Sincos(f.roll)
	cp := math.Cos(f.pitch)
	tp := math.Tan(f.pitch)
	if math.Abs(cp) < 1e-6 {
		cp = math.Copysign(1e-6, cp)
	}
	rollRate := gyro.X + tp*(sr*gyro.Y+cr*gyro.Z)
	pitchRate := cr*gyro.Y - sr*gyro.Z
	yawRate := (sr*gyro.Y + cr*gyro.Z) / cp

	roll := WrapAngle(f.roll + rollRate*dt)
	f.roll = WrapAngle(roll + (1-f.alpha)*WrapAngle(accRoll-roll))
	pitch := f.pitch + pitchRate*dt
	f.pitch = pitch + (1-f.alpha)*(accPitch-pitch)

	yaw := WrapAngle(f.yaw + yawRate*dt)
	if hasHeading {
		yaw = WrapAngle(yaw + (1-f.alpha)*WrapAngle(heading-yaw))
	}
	f.yaw = yaw
}

// heading returns the absolute yaw reference for the current frame, if the
// frame uses one and a magnetometer reading is available.
func (f *Fuser) heading(roll, pitch float64, field *imu.Vector3) (float64, bool) {
	if field == nil || f.frame == imu.XArbitraryZVertical {
		return 0, false
	}
	magYaw := MagneticYaw(roll, pitch, *field)

	switch f.frame {
	case imu.XArbitraryCorrectedZVertical:
		if !f.hasHeadingRef {
			f.headingRef = magYaw
			f.hasHeadingRef = true
		}
		return WrapAngle(magYaw - f.headingRef), true
	case imu.XMagneticNorthZVertical:
		return magYaw, true
	case imu.XTrueNorthZVertical:
		return WrapAngle(magYaw - f.declination), true
	default:
		return 0, false
	}
}
