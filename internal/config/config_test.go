// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/relabs-tech/motion_computer/internal/motion"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "motion_config.txt")
	test.That(t, os.WriteFile(path, []byte(content), 0o644), test.ShouldBeNil)
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "# nothing but a comment\n\n"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg, test.ShouldResemble, Default())
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
MQTT_BROKER = tcp://broker:1883
MOTION_SOURCE=serial
SERIAL_PORT=/dev/ttyUSB0
SERIAL_BAUD_RATE=9600
IMU_ACCEL_RANGE=2
IMU_GYRO_RANGE=3
DEVICE_MOTION_INTERVAL=20
DEVICE_MOTION_REFERENCE=true_north
MAGNETIC_DECLINATION=-1.5
DELIVERY_QUEUE=fusion
TOPIC_DEVICE_MOTION=imu/fused
LOG_LEVEL=DEBUG
`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.MQTTBroker, test.ShouldEqual, "tcp://broker:1883")
	test.That(t, cfg.MotionSource, test.ShouldEqual, SourceSerial)
	test.That(t, cfg.SerialPort, test.ShouldEqual, "/dev/ttyUSB0")
	test.That(t, cfg.SerialBaudRate, test.ShouldEqual, uint(9600))
	test.That(t, cfg.IMUAccelRange, test.ShouldEqual, byte(2))
	test.That(t, cfg.IMUGyroRange, test.ShouldEqual, byte(3))
	test.That(t, Interval(cfg.DeviceMotionInterval), test.ShouldEqual, 20*time.Millisecond)
	test.That(t, cfg.DeviceMotionReference, test.ShouldEqual, "true_north")
	test.That(t, cfg.MagneticDeclination, test.ShouldEqual, -1.5)
	test.That(t, cfg.DeliveryQueue, test.ShouldEqual, "fusion")
	test.That(t, cfg.TopicDeviceMotion, test.ShouldEqual, "imu/fused")
	test.That(t, cfg.LogLevel, test.ShouldEqual, "debug")
}

func TestLoadErrors(t *testing.T) {
	for _, tc := range []struct {
		content string
		want    string
	}{
		{"NOT_A_KEY=1\n", "unknown config key"},
		{"MQTT_BROKER\n", "invalid config line 1"},
		{"IMU_ACCEL_RANGE=4\n", "IMU_ACCEL_RANGE must be 0-3"},
		{"IMU_GYRO_RANGE=x\n", "invalid IMU_GYRO_RANGE"},
		{"ACCELEROMETER_INTERVAL=0\n", "ACCELEROMETER_INTERVAL must be positive"},
		{"MOTION_SOURCE=bluetooth\n", "MOTION_SOURCE must be"},
		{"DEVICE_MOTION_REFERENCE=south\n", "unknown DEVICE_MOTION_REFERENCE"},
		{"MAGNETIC_DECLINATION=200\n", "MAGNETIC_DECLINATION must be"},
		{"MOTION_SOURCE=serial\n", "SERIAL_PORT is required"},
		{"MQTT_BROKER=\n", "MQTT_BROKER is required"},
		{"WEB_SERVER_PORT=70000\n", "WEB_SERVER_PORT must be"},
		{"DISPLAY_CONTENT=gps\n", "unknown DISPLAY_CONTENT"},
	} {
		_, err := Load(writeConfig(t, tc.content))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, tc.want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "failed to open config file")
}

func TestInitGlobalLoadsOnce(t *testing.T) {
	path := writeConfig(t, "WEB_SERVER_PORT=9090\n")
	test.That(t, InitGlobal(path), test.ShouldBeNil)
	test.That(t, Get().WebServerPort, test.ShouldEqual, 9090)

	// later calls are ignored
	test.That(t, InitGlobal(writeConfig(t, "WEB_SERVER_PORT=1\n")), test.ShouldBeNil)
	test.That(t, Get().WebServerPort, test.ShouldEqual, 9090)
}

func TestLoadAcceptsEveryNamedReferenceFrame(t *testing.T) {
	for _, f := range motion.NamedReferenceFrames() {
		cfg, err := Load(writeConfig(t, "DEVICE_MOTION_REFERENCE="+f.String()+"\n"))
		test.That(t, err, test.ShouldBeNil)
		parsed, err := motion.ParseReferenceFrame(cfg.DeviceMotionReference)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, parsed, test.ShouldResemble, f)
	}
}
