// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import (
	"sync"

	"go.uber.org/zap"

	"github.com/relabs-tech/motion_computer/internal/queue"
)

// Registry owns the one Manager shared by every handle. Build it once at
// process start and pass it to whoever needs sensors.
type Registry struct {
	newManager func() Manager
	logger     *zap.SugaredLogger

	mainQueue    *queue.Queue
	currentQueue *queue.Queue
	queues       *QueueResolver

	managerOnce sync.Once
	manager     Manager

	accelOnce  sync.Once
	accel      *Accelerometer
	gyroOnce   sync.Once
	gyro       *Gyroscope
	magOnce    sync.Once
	mag        *Magnetometer
	motionOnce sync.Once
	motion     *DeviceMotion

	mu    sync.Mutex
	stops []func()
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger handed to every handle.
func WithLogger(logger *zap.SugaredLogger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

// WithMainQueue replaces the queue used for MainQueue specs.
func WithMainQueue(q *queue.Queue) RegistryOption {
	return func(r *Registry) { r.mainQueue = q }
}

// WithCurrentQueue sets the queue used for CurrentQueue specs. It defaults
// to the main queue.
func WithCurrentQueue(q *queue.Queue) RegistryOption {
	return func(r *Registry) { r.currentQueue = q }
}

// NewRegistry returns a registry that calls newManager on first use.
func NewRegistry(newManager func() Manager, opts ...RegistryOption) *Registry {
	r := &Registry{newManager: newManager}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = zap.NewNop().Sugar()
	}
	r.queues = NewQueueResolver(r.mainQueue, r.currentQueue)
	return r
}

// Manager returns the shared manager, creating it on the first call.
func (r *Registry) Manager() Manager {
	r.managerOnce.Do(func() {
		r.logger.Debugf("motion: creating manager")
		r.manager = r.newManager()
	})
	return r.manager
}

// Queues returns the resolver shared by every handle of this registry.
func (r *Registry) Queues() *QueueResolver {
	return r.queues
}

// Accelerometer returns the accelerometer handle, creating it on first use.
func (r *Registry) Accelerometer() *Accelerometer {
	r.accelOnce.Do(func() {
		r.accel = NewAccelerometer(r.Manager(), r.queues, r.logger)
		r.track(r.accel.Stop)
	})
	return r.accel
}

// Gyroscope returns the gyroscope handle, creating it on first use.
func (r *Registry) Gyroscope() *Gyroscope {
	r.gyroOnce.Do(func() {
		r.gyro = NewGyroscope(r.Manager(), r.queues, r.logger)
		r.track(r.gyro.Stop)
	})
	return r.gyro
}

// Magnetometer returns the magnetometer handle, creating it on first use.
func (r *Registry) Magnetometer() *Magnetometer {
	r.magOnce.Do(func() {
		r.mag = NewMagnetometer(r.Manager(), r.queues, r.logger)
		r.track(r.mag.Stop)
	})
	return r.mag
}

// DeviceMotion returns the device-motion handle, creating it on first use.
func (r *Registry) DeviceMotion() *DeviceMotion {
	r.motionOnce.Do(func() {
		r.motion = NewDeviceMotion(r.Manager(), r.queues, r.logger)
		r.track(r.motion.Stop)
	})
	return r.motion
}

func (r *Registry) track(stop func()) {
	r.mu.Lock()
	r.stops = append(r.stops, stop)
	r.mu.Unlock()
}

// Close stops every handle created so far and closes the main and current
// queues, dropping deliveries still waiting on them. Background and named
// queues belong to the streams that resolved them and drain on their own.
func (r *Registry) Close() {
	r.mu.Lock()
	stops := r.stops
	r.stops = nil
	r.mu.Unlock()

	for _, stop := range stops {
		stop()
	}
	r.queues.Main().Close()
	r.queues.Current().Close()
	r.logger.Debugf("motion: registry closed")
}
