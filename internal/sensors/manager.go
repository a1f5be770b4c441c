// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/relabs-tech/motion_computer/internal/imu"
	"github.com/relabs-tech/motion_computer/internal/motion"
	"github.com/relabs-tech/motion_computer/internal/orientation"
	"github.com/relabs-tech/motion_computer/internal/queue"
)

var _ motion.Manager = (*Manager)(nil)

// Manager is the native motion manager. Each sensor kind has its own
// poller; all of them share the source, which is read under a lock.
type Manager struct {
	source       Source
	clock        clock.Clock
	logger       *zap.SugaredLogger
	defaultFrame imu.AttitudeReferenceFrame
	declination  float64

	mu    sync.Mutex // source reads and fuser
	fuser *orientation.Fuser

	accel  *stream[imu.AccelerometerData]
	gyro   *stream[imu.GyroData]
	mag    *stream[imu.MagnetometerData]
	motion *stream[imu.DeviceMotionData]
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the clock driving the pollers.
func WithClock(c clock.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithLogger sets the manager logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithDeclination sets the magnetic declination in degrees, east positive.
func WithDeclination(deg float64) Option {
	return func(m *Manager) { m.declination = deg }
}

// WithDefaultReferenceFrame sets the frame used by device-motion starts that
// name none. It defaults to XArbitraryZVertical.
func WithDefaultReferenceFrame(f imu.AttitudeReferenceFrame) Option {
	return func(m *Manager) { m.defaultFrame = f }
}

// NewManager returns a manager reading from src. Nothing polls until a
// start call.
func NewManager(src Source, opts ...Option) *Manager {
	m := &Manager{
		source:       src,
		clock:        clock.New(),
		logger:       zap.NewNop().Sugar(),
		defaultFrame: imu.XArbitraryZVertical,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.fuser = orientation.NewFuser(m.defaultFrame, m.declination)

	m.accel = newStream("accelerometer", m.clock, m.logger, m.readAccelerometer)
	m.gyro = newStream("gyroscope", m.clock, m.logger, m.readGyro)
	m.mag = newStream("magnetometer", m.clock, m.logger, m.readMagnetometer)
	m.motion = newStream("device motion", m.clock, m.logger, m.readDeviceMotion)
	return m
}

// Close stops every poller and closes the source.
func (m *Manager) Close() error {
	m.accel.stop()
	m.gyro.stop()
	m.mag.stop()
	m.motion.stop()
	if n := m.DroppedDeliveries(); n > 0 {
		m.logger.Infof("motion manager: %d deliveries skipped behind a busy queue", n)
	}
	if err := m.source.Close(); err != nil {
		return fmt.Errorf("motion manager: close source: %w", err)
	}
	return nil
}

// DroppedDeliveries returns how many ticks, across all sensors, found the
// previous delivery still waiting on its queue and were not delivered.
func (m *Manager) DroppedDeliveries() uint64 {
	return m.accel.droppedDeliveries() + m.gyro.droppedDeliveries() +
		m.mag.droppedDeliveries() + m.motion.droppedDeliveries()
}

func (m *Manager) read() (imu.Reading, error) {
	r, err := m.source.Read()
	if err != nil {
		return imu.Reading{}, err
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = m.clock.Now()
	}
	return r, nil
}

func (m *Manager) readAccelerometer() (*imu.AccelerometerData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.read()
	if err != nil {
		return nil, err
	}
	if r.Accel == nil {
		return nil, fmt.Errorf("accelerometer: %w", ErrNoSample)
	}
	return &imu.AccelerometerData{Timestamp: r.Timestamp, Acceleration: *r.Accel}, nil
}

func (m *Manager) readGyro() (*imu.GyroData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.read()
	if err != nil {
		return nil, err
	}
	if r.Gyro == nil {
		return nil, fmt.Errorf("gyroscope: %w", ErrNoSample)
	}
	return &imu.GyroData{Timestamp: r.Timestamp, RotationRate: *r.Gyro}, nil
}

func (m *Manager) readMagnetometer() (*imu.MagnetometerData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.read()
	if err != nil {
		return nil, err
	}
	if r.Mag == nil {
		return nil, fmt.Errorf("magnetometer: %w", ErrNoSample)
	}
	return &imu.MagnetometerData{Timestamp: r.Timestamp, MagneticField: *r.Mag}, nil
}

func (m *Manager) readDeviceMotion() (*imu.DeviceMotionData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.read()
	if err != nil {
		return nil, err
	}
	if r.Accel == nil {
		return nil, fmt.Errorf("device motion: %w", ErrNoSample)
	}
	return m.fuser.Update(r), nil
}

// Accelerometer

func (m *Manager) AccelerometerAvailable() bool { return true }
func (m *Manager) AccelerometerActive() bool    { return m.accel.isActive() }

func (m *Manager) SetAccelerometerUpdateInterval(d time.Duration) { m.accel.setInterval(d) }

func (m *Manager) AccelerometerData() *imu.AccelerometerData { return m.accel.data() }

func (m *Manager) StartAccelerometerUpdates() { m.accel.start(nil, nil) }

func (m *Manager) StartAccelerometerUpdatesToQueue(q *queue.Queue, h func(*imu.AccelerometerData, error)) {
	m.accel.start(q, h)
}

func (m *Manager) StopAccelerometerUpdates() { m.accel.stop() }

// Gyroscope

func (m *Manager) GyroAvailable() bool { return true }
func (m *Manager) GyroActive() bool    { return m.gyro.isActive() }

func (m *Manager) SetGyroUpdateInterval(d time.Duration) { m.gyro.setInterval(d) }

func (m *Manager) GyroData() *imu.GyroData { return m.gyro.data() }

func (m *Manager) StartGyroUpdates() { m.gyro.start(nil, nil) }

func (m *Manager) StartGyroUpdatesToQueue(q *queue.Queue, h func(*imu.GyroData, error)) {
	m.gyro.start(q, h)
}

func (m *Manager) StopGyroUpdates() { m.gyro.stop() }

// Magnetometer. On a source without one, polling is a no-op and a handler
// receives ErrMagnetometerUnavailable once.

func (m *Manager) MagnetometerAvailable() bool { return m.source.HasMagnetometer() }
func (m *Manager) MagnetometerActive() bool    { return m.mag.isActive() }

func (m *Manager) SetMagnetometerUpdateInterval(d time.Duration) { m.mag.setInterval(d) }

func (m *Manager) MagnetometerData() *imu.MagnetometerData { return m.mag.data() }

func (m *Manager) StartMagnetometerUpdates() {
	if !m.MagnetometerAvailable() {
		m.logger.Warnf("magnetometer: %v, not starting", ErrMagnetometerUnavailable)
		return
	}
	m.mag.start(nil, nil)
}

func (m *Manager) StartMagnetometerUpdatesToQueue(q *queue.Queue, h func(*imu.MagnetometerData, error)) {
	if !m.MagnetometerAvailable() {
		m.logger.Warnf("magnetometer: %v, not starting", ErrMagnetometerUnavailable)
		if q != nil && h != nil {
			q.Dispatch(func() { h(nil, ErrMagnetometerUnavailable) })
		}
		return
	}
	m.mag.start(q, h)
}

func (m *Manager) StopMagnetometerUpdates() { m.mag.stop() }

// Device motion

func (m *Manager) DeviceMotionAvailable() bool { return true }
func (m *Manager) DeviceMotionActive() bool    { return m.motion.isActive() }

func (m *Manager) SetDeviceMotionUpdateInterval(d time.Duration) { m.motion.setInterval(d) }

func (m *Manager) DeviceMotion() *imu.DeviceMotionData { return m.motion.data() }

// ReferenceFrame returns the frame the fuser currently runs in.
func (m *Manager) ReferenceFrame() imu.AttitudeReferenceFrame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fuser.Frame()
}

func (m *Manager) resetFusion(f imu.AttitudeReferenceFrame) {
	if f != imu.XArbitraryZVertical && !m.source.HasMagnetometer() {
		m.logger.Warnf("device motion: reference frame %d needs a magnetometer; yaw will drift", f)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fuser.Reset(f)
}

func (m *Manager) StartDeviceMotionUpdates() {
	m.resetFusion(m.defaultFrame)
	m.motion.start(nil, nil)
}

func (m *Manager) StartDeviceMotionUpdatesUsingReferenceFrame(f imu.AttitudeReferenceFrame) {
	m.resetFusion(f)
	m.motion.start(nil, nil)
}

func (m *Manager) StartDeviceMotionUpdatesToQueue(q *queue.Queue, h func(*imu.DeviceMotionData, error)) {
	m.resetFusion(m.defaultFrame)
	m.motion.start(q, h)
}

func (m *Manager) StartDeviceMotionUpdatesUsingReferenceFrameToQueue(f imu.AttitudeReferenceFrame, q *queue.Queue, h func(*imu.DeviceMotionData, error)) {
	m.resetFusion(f)
	m.motion.start(q, h)
}

func (m *Manager) StopDeviceMotionUpdates() { m.motion.stop() }
