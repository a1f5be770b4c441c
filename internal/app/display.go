// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"image"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/motion_computer/internal/config"
	"github.com/relabs-tech/motion_computer/internal/motion"
	"github.com/relabs-tech/motion_computer/internal/orientation"
)

const (
	displayWidth  = 128
	displayHeight = 64
	lineHeight    = 13
)

// displayPanel holds the text currently shown for one content type.
type displayPanel struct {
	mu    sync.RWMutex
	lines []string
}

func (p *displayPanel) set(lines []string) {
	p.mu.Lock()
	p.lines = lines
	p.mu.Unlock()
}

func (p *displayPanel) get() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lines
}

// displayContent maps DISPLAY_CONTENT to the sample kind, topic and title
// shown while waiting for data.
func displayContent(cfg *config.Config) (kind, topic, title string, err error) {
	switch cfg.DisplayContent {
	case "attitude":
		return KindDeviceMotion, cfg.TopicDeviceMotion, "Attitude", nil
	case "acceleration":
		return KindAccelerometer, cfg.TopicAccelerometer, "Acceleration", nil
	case "rotation":
		return KindGyroscope, cfg.TopicGyroscope, "Rotation", nil
	case "magnetic":
		return KindMagnetometer, cfg.TopicMagnetometer, "Magnetic", nil
	default:
		return "", "", "", fmt.Errorf("unknown display content type: %s", cfg.DisplayContent)
	}
}

// displayLines decodes payload for kind into at most four short lines.
func displayLines(kind string, payload []byte) ([]string, error) {
	switch kind {
	case KindDeviceMotion:
		var s motion.DeviceMotionSample
		if err := json.Unmarshal(payload, &s); err != nil {
			return nil, err
		}
		if s.AttitudeReading == nil {
			return []string{"Attitude", "unavailable"}, nil
		}
		p := orientation.PoseFromAttitude(s.Attitude)
		return []string{
			fmt.Sprintf("R: %6.1f", p.Roll),
			fmt.Sprintf("P: %6.1f", p.Pitch),
			fmt.Sprintf("Y: %6.1f", p.Yaw),
		}, nil
	case KindAccelerometer:
		var s motion.AccelerometerSample
		if err := json.Unmarshal(payload, &s); err != nil {
			return nil, err
		}
		return []string{
			"Accel (g)",
			fmt.Sprintf("X: %7.3f", s.X),
			fmt.Sprintf("Y: %7.3f", s.Y),
			fmt.Sprintf("Z: %7.3f", s.Z),
		}, nil
	case KindGyroscope:
		var s motion.GyroscopeSample
		if err := json.Unmarshal(payload, &s); err != nil {
			return nil, err
		}
		return []string{
			"Gyro (rad/s)",
			fmt.Sprintf("X: %7.3f", s.X),
			fmt.Sprintf("Y: %7.3f", s.Y),
			fmt.Sprintf("Z: %7.3f", s.Z),
		}, nil
	case KindMagnetometer:
		var s motion.MagnetometerSample
		if err := json.Unmarshal(payload, &s); err != nil {
			return nil, err
		}
		return []string{
			"Mag (uT)",
			fmt.Sprintf("X: %7.1f", s.X),
			fmt.Sprintf("Y: %7.1f", s.Y),
			fmt.Sprintf("Z: %7.1f", s.Z),
		}, nil
	default:
		return nil, fmt.Errorf("unknown sample kind %q", kind)
	}
}

// renderLines draws lines top to bottom. With no lines it shows title and
// a waiting notice.
func renderLines(title string, lines []string) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, displayWidth, displayHeight))

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	if len(lines) == 0 {
		lines = []string{"", title, "Waiting..."}
	}
	for i, line := range lines {
		drawer.Dot = fixed.P(0, lineHeight*(i+1))
		drawer.DrawString(line)
	}
	return img
}

func splashImage() *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, displayWidth, displayHeight))

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	drawer.Dot = fixed.P(10, 26)
	drawer.DrawString("Motion Pi")

	drawer.Dot = fixed.P(5, 43)
	drawer.DrawString("Waiting for")

	drawer.Dot = fixed.P(25, 56)
	drawer.DrawString("motion")

	return img
}

// RunDisplay shows the configured content on an SSD1306 OLED.
func RunDisplay(logger *zap.SugaredLogger) error {
	cfg := config.Get()

	kind, topic, title, err := displayContent(cfg)
	if err != nil {
		return err
	}

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	defer dev.Halt()
	logger.Infof("display: initialized %s", dev)

	if err := dev.Draw(dev.Bounds(), splashImage(), image.Point{}); err != nil {
		logger.Warnf("display: error showing splash: %v", err)
	}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDDisplay)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	logger.Infof("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	panel := &displayPanel{}
	if err := subscribe(client, topic, func(_ mqtt.Client, msg mqtt.Message) {
		lines, err := displayLines(kind, msg.Payload())
		if err != nil {
			logger.Warnf("display: %s unmarshal error: %v", kind, err)
			return
		}
		panel.set(lines)
	}); err != nil {
		return err
	}
	logger.Infof("display: subscribed to %s", topic)

	ticker := time.NewTicker(config.Interval(cfg.DisplayUpdateInterval))
	defer ticker.Stop()

	logger.Infof("display: starting update loop")
	for range ticker.C {
		if err := dev.Draw(dev.Bounds(), renderLines(title, panel.get()), image.Point{}); err != nil {
			logger.Warnf("display: error updating display: %v", err)
		}
	}
	return nil
}
