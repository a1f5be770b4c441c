// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/relabs-tech/motion_computer/internal/config"
	"github.com/relabs-tech/motion_computer/internal/motion"
)

// consoleLine decodes payload for kind and formats it for the console.
func consoleLine(kind string, payload []byte) (string, error) {
	switch kind {
	case KindAccelerometer:
		var s motion.AccelerometerSample
		if err := json.Unmarshal(payload, &s); err != nil {
			return "", err
		}
		return formatAccelerometer(&s), nil
	case KindGyroscope:
		var s motion.GyroscopeSample
		if err := json.Unmarshal(payload, &s); err != nil {
			return "", err
		}
		return formatGyroscope(&s), nil
	case KindMagnetometer:
		var s motion.MagnetometerSample
		if err := json.Unmarshal(payload, &s); err != nil {
			return "", err
		}
		return formatMagnetometer(&s), nil
	case KindDeviceMotion:
		var s motion.DeviceMotionSample
		if err := json.Unmarshal(payload, &s); err != nil {
			return "", err
		}
		return formatDeviceMotion(&s), nil
	default:
		return "", fmt.Errorf("unknown sample kind %q", kind)
	}
}

// topics maps each sample kind to its configured topic.
func topics(cfg *config.Config) map[string]string {
	return map[string]string{
		KindAccelerometer: cfg.TopicAccelerometer,
		KindGyroscope:     cfg.TopicGyroscope,
		KindMagnetometer:  cfg.TopicMagnetometer,
		KindDeviceMotion:  cfg.TopicDeviceMotion,
	}
}

// RunConsoleMQTT prints every sample published by the motion producer.
func RunConsoleMQTT(logger *zap.SugaredLogger) error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	logger.Infof("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	for kind, topic := range topics(cfg) {
		kind := kind
		if err := subscribe(client, topic, func(_ mqtt.Client, msg mqtt.Message) {
			line, err := consoleLine(kind, msg.Payload())
			if err != nil {
				logger.Warnf("console: %s unmarshal error: %v", kind, err)
				return
			}
			fmt.Println(line)
		}); err != nil {
			return err
		}
		logger.Infof("console: subscribed to %s", topic)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Infof("console: shutting down")
	return nil
}
