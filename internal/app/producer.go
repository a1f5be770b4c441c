// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/relabs-tech/motion_computer/internal/config"
	"github.com/relabs-tech/motion_computer/internal/motion"
)

// RunMotionProducer streams every available sensor to MQTT until SIGINT or
// SIGTERM.
func RunMotionProducer(logger *zap.SugaredLogger) (err error) {
	cfg := config.Get()
	logger.Infof("starting motion producer (source=%s, queue=%s)", cfg.MotionSource, cfg.DeliveryQueue)

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

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDProducer)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	logger.Infof("connected to MQTT broker at %s", cfg.MQTTBroker)

	stop, err := StartStreams(reg, cfg, NewMQTTPublisher(client), logger)
	if err != nil {
		return err
	}
	defer stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Infof("motion producer: shutting down")
	return nil
}

// StartStreams starts Every on each available sensor of reg, publishing
// normalized samples to the configured topics. The returned func stops them.
func StartStreams(reg *motion.Registry, cfg *config.Config, pub Publisher, logger *zap.SugaredLogger) (func(), error) {
	opts := deliveryOptions(cfg)
	var stops []func()

	publish := func(kind, topic string, sample interface{}, err error) {
		if err != nil {
			logger.Warnf("%s: delivery error: %v", kind, err)
			return
		}
		if err := pub.Publish(topic, sample); err != nil {
			logger.Warnf("%s: %v", kind, err)
		}
	}

	if accel := reg.Accelerometer(); accel.Available() {
		if _, err := accel.Every(config.Interval(cfg.AccelerometerInterval), opts, func(s *motion.AccelerometerSample, err error) {
			publish(KindAccelerometer, cfg.TopicAccelerometer, s, err)
		}); err != nil {
			return nil, err
		}
		stops = append(stops, accel.Stop)
		logger.Infof("publishing %s to %s every %dms", KindAccelerometer, cfg.TopicAccelerometer, cfg.AccelerometerInterval)
	}

	if gyro := reg.Gyroscope(); gyro.Available() {
		if _, err := gyro.Every(config.Interval(cfg.GyroscopeInterval), opts, func(s *motion.GyroscopeSample, err error) {
			publish(KindGyroscope, cfg.TopicGyroscope, s, err)
		}); err != nil {
			return nil, err
		}
		stops = append(stops, gyro.Stop)
		logger.Infof("publishing %s to %s every %dms", KindGyroscope, cfg.TopicGyroscope, cfg.GyroscopeInterval)
	}

	if mag := reg.Magnetometer(); mag.Available() {
		if _, err := mag.Every(config.Interval(cfg.MagnetometerInterval), opts, func(s *motion.MagnetometerSample, err error) {
			publish(KindMagnetometer, cfg.TopicMagnetometer, s, err)
		}); err != nil {
			return nil, err
		}
		stops = append(stops, mag.Stop)
		logger.Infof("publishing %s to %s every %dms", KindMagnetometer, cfg.TopicMagnetometer, cfg.MagnetometerInterval)
	} else {
		logger.Warnf("magnetometer not available, %s will not be published", cfg.TopicMagnetometer)
	}

	if dm := reg.DeviceMotion(); dm.Available() {
		frame, err := motion.ParseReferenceFrame(cfg.DeviceMotionReference)
		if err != nil {
			return nil, err
		}
		if _, err := dm.Every(config.Interval(cfg.DeviceMotionInterval), opts.WithReference(frame), func(s *motion.DeviceMotionSample, err error) {
			publish(KindDeviceMotion, cfg.TopicDeviceMotion, s, err)
		}); err != nil {
			return nil, err
		}
		stops = append(stops, dm.Stop)
		logger.Infof("publishing %s (%s) to %s every %dms", KindDeviceMotion, frame, cfg.TopicDeviceMotion, cfg.DeviceMotionInterval)
	}

	return func() {
		for _, stop := range stops {
			stop()
		}
	}, nil
}
