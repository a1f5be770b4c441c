// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/relabs-tech/motion_computer/internal/config"
	"github.com/relabs-tech/motion_computer/internal/motion"
	"github.com/relabs-tech/motion_computer/internal/orientation"
	"github.com/relabs-tech/motion_computer/internal/sensors"
)

// Sample kinds, used as JSON keys and in log lines.
const (
	KindAccelerometer = "accelerometer"
	KindGyroscope     = "gyroscope"
	KindMagnetometer  = "magnetometer"
	KindDeviceMotion  = "device_motion"
)

// OpenSource opens the IMU selected by MOTION_SOURCE.
func OpenSource(cfg *config.Config, logger *zap.SugaredLogger) (sensors.Source, error) {
	switch cfg.MotionSource {
	case config.SourceMock, "":
		logger.Infof("using mock motion source")
		return orientation.NewMockSource(clock.New()), nil
	case config.SourceMPU9250:
		logger.Infof("using MPU9250 on %s (CS %s)", cfg.IMUSPIDevice, cfg.IMUCSPin)
		src, err := sensors.NewMPU9250Source(sensors.MPU9250Config{
			SPIDevice:  cfg.IMUSPIDevice,
			CSPin:      cfg.IMUCSPin,
			AccelRange: cfg.IMUAccelRange,
			GyroRange:  cfg.IMUGyroRange,
		}, logger)
		if err != nil {
			return nil, err
		}
		return src, nil
	case config.SourceSerial:
		logger.Infof("using serial IMU on %s", cfg.SerialPort)
		src, err := sensors.NewSerialSource(sensors.SerialConfig{
			Port:     cfg.SerialPort,
			BaudRate: cfg.SerialBaudRate,
		}, logger)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("unknown motion source %q", cfg.MotionSource)
	}
}

// NewRegistry builds the registry over a native manager reading src. The
// manager is returned too so callers can close it.
func NewRegistry(cfg *config.Config, src sensors.Source, logger *zap.SugaredLogger, opts ...sensors.Option) (*motion.Registry, *sensors.Manager, error) {
	frame, err := motion.ParseReferenceFrame(cfg.DeviceMotionReference)
	if err != nil {
		return nil, nil, err
	}

	opts = append([]sensors.Option{
		sensors.WithLogger(logger),
		sensors.WithDeclination(cfg.MagneticDeclination),
		sensors.WithDefaultReferenceFrame(motion.ConvertReferenceFrame(frame)),
	}, opts...)
	manager := sensors.NewManager(src, opts...)

	reg := motion.NewRegistry(func() motion.Manager { return manager }, motion.WithLogger(logger))
	return reg, manager, nil
}

// deliveryOptions returns the options shared by every stream of a binary.
func deliveryOptions(cfg *config.Config) motion.Options {
	return motion.Options{Queue: motion.ParseQueueSpec(cfg.DeliveryQueue)}
}
