// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/relabs-tech/motion_computer/internal/config"
	"github.com/relabs-tech/motion_computer/internal/motion"
)

// RunConsole reads each raw sensor once, then prints device motion until
// SIGINT or SIGTERM. It talks to the IMU directly, without MQTT.
func RunConsole(logger *zap.SugaredLogger) (err error) {
	cfg := config.Get()

	src, err := OpenSource(cfg, logger)
	if err != nil {
		return err
	}
	reg, manager, err := NewRegistry(cfg, src, logger)
	if err != nil {
		return multierr.Append(err, src.Close())
	}
	defer func() { err = multierr.Append(err, manager.Close()) }()
	defer reg.Close()

	opts := deliveryOptions(cfg)
	done := make(chan struct{}, 3)

	if _, err := reg.Accelerometer().Once(opts, func(s *motion.AccelerometerSample, err error) {
		defer func() { done <- struct{}{} }()
		if err != nil {
			logger.Warnf("accelerometer: %v", err)
			return
		}
		fmt.Println(formatAccelerometer(s))
	}); err != nil {
		return err
	}

	if _, err := reg.Gyroscope().Once(opts, func(s *motion.GyroscopeSample, err error) {
		defer func() { done <- struct{}{} }()
		if err != nil {
			logger.Warnf("gyroscope: %v", err)
			return
		}
		fmt.Println(formatGyroscope(s))
	}); err != nil {
		return err
	}

	pending := 2
	if mag := reg.Magnetometer(); mag.Available() {
		pending++
		if _, err := mag.Once(opts, func(s *motion.MagnetometerSample, err error) {
			defer func() { done <- struct{}{} }()
			if err != nil {
				logger.Warnf("magnetometer: %v", err)
				return
			}
			fmt.Println(formatMagnetometer(s))
		}); err != nil {
			return err
		}
	}
	for i := 0; i < pending; i++ {
		<-done
	}

	frame, err := motion.ParseReferenceFrame(cfg.DeviceMotionReference)
	if err != nil {
		return err
	}
	dm, err := reg.DeviceMotion().Every(config.Interval(cfg.DeviceMotionInterval), opts.WithReference(frame), func(s *motion.DeviceMotionSample, err error) {
		if err != nil {
			logger.Warnf("device motion: %v", err)
			return
		}
		fmt.Println(formatDeviceMotion(s))
	})
	if err != nil {
		return err
	}
	defer dm.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Infof("console: shutting down")
	return nil
}
