// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/motion_computer/internal/imu"
)

// MPU9250Config selects the SPI wiring and full-scale ranges of the IMU.
type MPU9250Config struct {
	SPIDevice  string
	CSPin      string
	AccelRange byte // 0=±2g, 1=±4g, 2=±8g, 3=±16g
	GyroRange  byte // 0=±250, 1=±500, 2=±1000, 3=±2000 °/s
}

// mpuDevice is the part of the periph driver the source reads from.
type mpuDevice interface {
	GetAccelerationX() (int16, error)
	GetAccelerationY() (int16, error)
	GetAccelerationZ() (int16, error)
	GetRotationX() (int16, error)
	GetRotationY() (int16, error)
	GetRotationZ() (int16, error)
}

// MPU9250Source reads accelerometer and gyroscope from an MPU9250 over SPI.
// The upstream driver exposes no magnetometer.
type MPU9250Source struct {
	name       string
	dev        mpuDevice
	accelRange byte
	gyroRange  byte
	clock      clock.Clock
}

// NewMPU9250Source initializes the IMU: periph host, CS pin, SPI transport,
// ranges, self-test and calibration.
func NewMPU9250Source(cfg MPU9250Config, logger *zap.SugaredLogger) (*MPU9250Source, error) {
	const name = "mpu9250"
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("%s IMU: periph host init: %w", name, err)
	}

	cs := gpioreg.ByName(cfg.CSPin)
	if cs == nil {
		return nil, fmt.Errorf("%s IMU: CS pin %q not found", name, cfg.CSPin)
	}

	tr, err := mpu9250.NewSpiTransport(cfg.SPIDevice, cs)
	if err != nil {
		return nil, fmt.Errorf("%s IMU: SPI transport (%s): %w", name, cfg.SPIDevice, err)
	}

	dev, err := mpu9250.New(*tr)
	if err != nil {
		return nil, fmt.Errorf("%s IMU: device creation: %w", name, err)
	}

	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("%s IMU: initialization: %w", name, err)
	}

	if err := dev.SetAccelRange(cfg.AccelRange); err != nil {
		return nil, fmt.Errorf("%s IMU: set accel range: %w", name, err)
	}
	logger.Infof("%s IMU: accelerometer range set to %d (±%.0fg)", name, cfg.AccelRange, imu.AccelFullScale(cfg.AccelRange))

	if err := dev.SetGyroRange(cfg.GyroRange); err != nil {
		return nil, fmt.Errorf("%s IMU: set gyro range: %w", name, err)
	}
	logger.Infof("%s IMU: gyroscope range set to %d (±%.0f°/s)", name, cfg.GyroRange, imu.GyroFullScale(cfg.GyroRange))

	if res, err := dev.SelfTest(); err != nil {
		logger.Warnf("%s IMU: self-test failed: %v", name, err)
	} else {
		logger.Infof("%s IMU: self-test passed: %+v", name, res)
	}

	if err := dev.Calibrate(); err != nil {
		logger.Warnf("%s IMU: calibration failed: %v", name, err)
	} else {
		logger.Infof("%s IMU: calibration complete", name)
	}

	return newMPU9250Source(name, dev, cfg, clock.New()), nil
}

func newMPU9250Source(name string, dev mpuDevice, cfg MPU9250Config, c clock.Clock) *MPU9250Source {
	return &MPU9250Source{name: name, dev: dev, accelRange: cfg.AccelRange, gyroRange: cfg.GyroRange, clock: c}
}

// ReadRaw reads the six raw axes.
func (s *MPU9250Source) ReadRaw() (imu.IMURaw, error) {
	ax, err := s.dev.GetAccelerationX()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU accel X: %w", s.name, err)
	}
	ay, err := s.dev.GetAccelerationY()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU accel Y: %w", s.name, err)
	}
	az, err := s.dev.GetAccelerationZ()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU accel Z: %w", s.name, err)
	}

	gx, err := s.dev.GetRotationX()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU gyro X: %w", s.name, err)
	}
	gy, err := s.dev.GetRotationY()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU gyro Y: %w", s.name, err)
	}
	gz, err := s.dev.GetRotationZ()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU gyro Z: %w", s.name, err)
	}

	return imu.IMURaw{Source: s.name, Ax: ax, Ay: ay, Az: az, Gx: gx, Gy: gy, Gz: gz}, nil
}

// Read returns the current reading in g and rad/s.
func (s *MPU9250Source) Read() (imu.Reading, error) {
	raw, err := s.ReadRaw()
	if err != nil {
		return imu.Reading{}, err
	}
	return raw.ToReading(s.clock.Now(), s.accelRange, s.gyroRange), nil
}

// HasMagnetometer is false.
func (s *MPU9250Source) HasMagnetometer() bool { return false }

// Close is a no-op; the SPI port stays owned by the periph host.
func (s *MPU9250Source) Close() error { return nil }
