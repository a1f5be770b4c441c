// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import (
	"encoding/json"
	"testing"

	"go.viam.com/test"

	"github.com/relabs-tech/motion_computer/internal/imu"
)

func TestNormalizeNil(t *testing.T) {
	test.That(t, NormalizeAccelerometer(nil), test.ShouldBeNil)
	test.That(t, NormalizeGyroscope(nil), test.ShouldBeNil)
	test.That(t, NormalizeMagnetometer(nil), test.ShouldBeNil)
	test.That(t, NormalizeDeviceMotion(nil), test.ShouldBeNil)
}

func TestNormalizeGyroscope(t *testing.T) {
	d := &imu.GyroData{RotationRate: imu.Vector3{X: 0.5, Y: -0.25, Z: 3}}
	s := NormalizeGyroscope(d)
	test.That(t, s.Data, test.ShouldEqual, d)
	test.That(t, s.Rotation, test.ShouldResemble, d.RotationRate)
	test.That(t, []float64{s.X, s.Y, s.Z}, test.ShouldResemble, []float64{0.5, -0.25, 3})
}

func TestNormalizeDeviceMotionFull(t *testing.T) {
	d := &imu.DeviceMotionData{
		Attitude: &imu.Attitude{
			Roll: 0.1, Pitch: 0.2, Yaw: 0.3,
			RotationMatrix: imu.RotationMatrix{M11: 1, M22: 1, M33: 1},
			Quaternion:     imu.Quaternion{W: 1},
		},
		RotationRate:     &imu.Vector3{X: 1, Y: 2, Z: 3},
		Gravity:          &imu.Vector3{Z: -1},
		UserAcceleration: &imu.Vector3{X: 0.01},
		MagneticField: &imu.CalibratedMagneticField{
			Field:    imu.Vector3{X: 20, Z: -45},
			Accuracy: imu.MagneticFieldAccuracyHigh,
		},
	}
	s := NormalizeDeviceMotion(d)

	test.That(t, s.Data, test.ShouldEqual, d)
	test.That(t, s.Roll, test.ShouldEqual, 0.1)
	test.That(t, s.Pitch, test.ShouldEqual, 0.2)
	test.That(t, s.Yaw, test.ShouldEqual, 0.3)
	test.That(t, s.Matrix.M33, test.ShouldEqual, 1.0)
	test.That(t, s.Quaternion.W, test.ShouldEqual, 1.0)
	test.That(t, s.RotationY, test.ShouldEqual, 2.0)
	test.That(t, s.GravityZ, test.ShouldEqual, -1.0)
	test.That(t, s.AccelerationX, test.ShouldEqual, 0.01)
	test.That(t, s.MagneticX, test.ShouldEqual, 20.0)
	test.That(t, s.MagneticZ, test.ShouldEqual, -45.0)
	test.That(t, s.MagneticAccuracy, test.ShouldEqual, High)
}

func TestNormalizeDeviceMotionPartial(t *testing.T) {
	d := &imu.DeviceMotionData{
		Gravity: &imu.Vector3{X: 0.1, Y: 0, Z: -0.99},
		MagneticField: &imu.CalibratedMagneticField{
			Field:    imu.Vector3{X: 1, Y: 2, Z: 3},
			Accuracy: imu.MagneticFieldAccuracyMedium,
		},
	}
	s := NormalizeDeviceMotion(d)

	test.That(t, s.AttitudeReading, test.ShouldBeNil)
	test.That(t, s.RotationReading, test.ShouldBeNil)
	test.That(t, s.AccelerationReading, test.ShouldBeNil)
	test.That(t, s.GravityReading, test.ShouldNotBeNil)
	test.That(t, s.MagneticReading, test.ShouldNotBeNil)
	test.That(t, s.MagneticAccuracy, test.ShouldEqual, Medium)

	b, err := json.Marshal(s)
	test.That(t, err, test.ShouldBeNil)

	var fields map[string]json.RawMessage
	test.That(t, json.Unmarshal(b, &fields), test.ShouldBeNil)
	for _, absent := range []string{"roll", "pitch", "yaw", "attitude", "rotation_x", "acceleration_x"} {
		_, ok := fields[absent]
		test.That(t, ok, test.ShouldBeFalse)
	}
	for _, present := range []string{"data", "gravity", "gravity_x", "magnetic_x", "field"} {
		_, ok := fields[present]
		test.That(t, ok, test.ShouldBeTrue)
	}
	test.That(t, string(fields["magnetic_accuracy"]), test.ShouldEqual, `"medium"`)
}

func TestClassifyAccuracy(t *testing.T) {
	for _, tc := range []struct {
		code imu.MagneticFieldAccuracy
		want CalibrationAccuracy
	}{
		{imu.MagneticFieldAccuracyUncalibrated, Unknown},
		{imu.MagneticFieldAccuracyLow, Low},
		{imu.MagneticFieldAccuracyMedium, Medium},
		{imu.MagneticFieldAccuracyHigh, High},
		{42, Unknown},
		{-7, Unknown},
	} {
		test.That(t, ClassifyAccuracy(tc.code), test.ShouldEqual, tc.want)
	}
}

func TestCalibrationAccuracyText(t *testing.T) {
	for _, a := range []CalibrationAccuracy{Unknown, Low, Medium, High} {
		b, err := a.MarshalText()
		test.That(t, err, test.ShouldBeNil)

		var back CalibrationAccuracy
		test.That(t, back.UnmarshalText(b), test.ShouldBeNil)
		test.That(t, back, test.ShouldEqual, a)
	}

	var a CalibrationAccuracy
	test.That(t, a.UnmarshalText([]byte("superb")), test.ShouldNotBeNil)
}
