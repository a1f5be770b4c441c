// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package config loads the KEY=VALUE configuration file shared by every
// motion-computer binary.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/relabs-tech/motion_computer/internal/motion"
)

// Motion sources selectable with MOTION_SOURCE.
const (
	SourceMock    = "mock"
	SourceMPU9250 = "mpu9250"
	SourceSerial  = "serial"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	MQTTClientIDDisplay  string

	// Topics
	TopicAccelerometer string
	TopicGyroscope     string
	TopicMagnetometer  string
	TopicDeviceMotion  string

	// Source
	MotionSource string

	// IMU Hardware
	IMUSPIDevice string
	IMUCSPin     string
	// Accelerometer: 0=±2g, 1=±4g, 2=±8g, 3=±16g
	IMUAccelRange byte
	// Gyroscope: 0=±250°/s, 1=±500°/s, 2=±1000°/s, 3=±2000°/s
	IMUGyroRange byte

	// Serial IMU
	SerialPort     string
	SerialBaudRate uint

	// Update intervals, milliseconds
	AccelerometerInterval int
	GyroscopeInterval     int
	MagnetometerInterval  int
	DeviceMotionInterval  int

	// Device motion
	DeviceMotionReference string  // arbitrary_z, corrected_z, magnetic_north, true_north
	MagneticDeclination   float64 // degrees, east positive

	// Delivery queue: main, background, current or a queue name
	DeliveryQueue string

	// Web Server
	WebServerPort int

	// Display
	DisplayUpdateInterval int    // milliseconds
	DisplayContent        string // attitude, acceleration, rotation, magnetic

	// Logging: debug, info, warn, error
	LogLevel string
}

// Default returns the configuration used for keys missing from the file.
func Default() *Config {
	return &Config{
		MQTTBroker:            "tcp://localhost:1883",
		MQTTClientIDProducer:  "motion-producer",
		MQTTClientIDConsole:   "motion-console",
		MQTTClientIDWeb:       "motion-web",
		MQTTClientIDDisplay:   "motion-display",
		TopicAccelerometer:    "motion/accelerometer",
		TopicGyroscope:        "motion/gyroscope",
		TopicMagnetometer:     "motion/magnetometer",
		TopicDeviceMotion:     "motion/device_motion",
		MotionSource:          SourceMock,
		IMUSPIDevice:          "/dev/spidev0.0",
		IMUCSPin:              "8",
		SerialBaudRate:        115200,
		AccelerometerInterval: 100,
		GyroscopeInterval:     100,
		MagnetometerInterval:  100,
		DeviceMotionInterval:  50,
		DeviceMotionReference: "arbitrary_z",
		DeliveryQueue:         "main",
		WebServerPort:         8080,
		DisplayUpdateInterval: 500,
		DisplayContent:        "attitude",
		LogLevel:              "info",
	}
}

// Package-level singleton: set once by InitGlobal, read through Get.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file over the defaults.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Default()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseInterval(key, value string) (int, error) {
	ms, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if ms <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, ms)
	}
	return ms, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	var err error
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_ACCELEROMETER":
		c.TopicAccelerometer = value
	case "TOPIC_GYROSCOPE":
		c.TopicGyroscope = value
	case "TOPIC_MAGNETOMETER":
		c.TopicMagnetometer = value
	case "TOPIC_DEVICE_MOTION":
		c.TopicDeviceMotion = value

	// Source
	case "MOTION_SOURCE":
		switch value {
		case SourceMock, SourceMPU9250, SourceSerial:
			c.MotionSource = value
		default:
			return fmt.Errorf("MOTION_SOURCE must be %s, %s or %s, got %q", SourceMock, SourceMPU9250, SourceSerial, value)
		}

	// IMU Hardware
	case "IMU_SPI_DEVICE":
		c.IMUSPIDevice = value
	case "IMU_CS_PIN":
		c.IMUCSPin = value
	case "IMU_ACCEL_RANGE":
		rangeVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_ACCEL_RANGE %q: %w", value, err)
		}
		if rangeVal < 0 || rangeVal > 3 {
			return fmt.Errorf("IMU_ACCEL_RANGE must be 0-3 (0=±2g, 1=±4g, 2=±8g, 3=±16g), got %d", rangeVal)
		}
		c.IMUAccelRange = byte(rangeVal)
	case "IMU_GYRO_RANGE":
		rangeVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_GYRO_RANGE %q: %w", value, err)
		}
		if rangeVal < 0 || rangeVal > 3 {
			return fmt.Errorf("IMU_GYRO_RANGE must be 0-3 (0=±250°/s, 1=±500°/s, 2=±1000°/s, 3=±2000°/s), got %d", rangeVal)
		}
		c.IMUGyroRange = byte(rangeVal)

	// Serial IMU
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD_RATE":
		baud, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid SERIAL_BAUD_RATE %q: %w", value, err)
		}
		c.SerialBaudRate = uint(baud)

	// Update intervals
	case "ACCELEROMETER_INTERVAL":
		c.AccelerometerInterval, err = parseInterval(key, value)
	case "GYROSCOPE_INTERVAL":
		c.GyroscopeInterval, err = parseInterval(key, value)
	case "MAGNETOMETER_INTERVAL":
		c.MagnetometerInterval, err = parseInterval(key, value)
	case "DEVICE_MOTION_INTERVAL":
		c.DeviceMotionInterval, err = parseInterval(key, value)

	// Device motion
	case "DEVICE_MOTION_REFERENCE":
		if _, err := motion.ParseReferenceFrame(value); err != nil {
			return fmt.Errorf("unknown DEVICE_MOTION_REFERENCE: %w", err)
		}
		c.DeviceMotionReference = value
	case "MAGNETIC_DECLINATION":
		decl, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid MAGNETIC_DECLINATION %q: %w", value, err)
		}
		if decl < -180 || decl > 180 {
			return fmt.Errorf("MAGNETIC_DECLINATION must be within ±180°, got %g", decl)
		}
		c.MagneticDeclination = decl
	case "DELIVERY_QUEUE":
		c.DeliveryQueue = value

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Display
	case "DISPLAY_UPDATE_INTERVAL":
		c.DisplayUpdateInterval, err = parseInterval(key, value)
	case "DISPLAY_CONTENT":
		switch value {
		case "attitude", "acceleration", "rotation", "magnetic":
			c.DisplayContent = value
		default:
			return fmt.Errorf("unknown DISPLAY_CONTENT %q", value)
		}

	case "LOG_LEVEL":
		c.LogLevel = strings.ToLower(value)

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return err
}

// validate checks that the fields the selected source needs are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	switch c.MotionSource {
	case SourceMPU9250:
		if c.IMUSPIDevice == "" {
			return fmt.Errorf("IMU_SPI_DEVICE is required for MOTION_SOURCE=%s", c.MotionSource)
		}
		if c.IMUCSPin == "" {
			return fmt.Errorf("IMU_CS_PIN is required for MOTION_SOURCE=%s", c.MotionSource)
		}
	case SourceSerial:
		if c.SerialPort == "" {
			return fmt.Errorf("SERIAL_PORT is required for MOTION_SOURCE=%s", c.MotionSource)
		}
		if c.SerialBaudRate == 0 {
			return fmt.Errorf("SERIAL_BAUD_RATE is required for MOTION_SOURCE=%s", c.MotionSource)
		}
	}
	if c.WebServerPort <= 0 || c.WebServerPort > 65535 {
		return fmt.Errorf("WEB_SERVER_PORT must be 1-65535, got %d", c.WebServerPort)
	}
	return nil
}

// Interval converts one of the millisecond interval fields.
func Interval(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// InitGlobal initializes the global configuration from file. Only the first
// call loads anything.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance, or nil before InitGlobal.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
