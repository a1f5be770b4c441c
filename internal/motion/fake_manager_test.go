// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import (
	"fmt"
	"sync"
	"time"

	"github.com/relabs-tech/motion_computer/internal/imu"
	"github.com/relabs-tech/motion_computer/internal/queue"
)

// fakeManager records every call and lets tests push native deliveries onto
// the queue captured at start. Stop does not forget the handler so that
// in-flight deliveries can be simulated after it.
type fakeManager struct {
	mu    sync.Mutex
	calls []string

	available bool
	active    map[string]bool

	accelData  *imu.AccelerometerData
	gyroData   *imu.GyroData
	magData    *imu.MagnetometerData
	motionData *imu.DeviceMotionData

	accelQ, gyroQ, magQ, motionQ *queue.Queue
	accelH                       func(*imu.AccelerometerData, error)
	gyroH                        func(*imu.GyroData, error)
	magH                         func(*imu.MagnetometerData, error)
	motionH                      func(*imu.DeviceMotionData, error)
	motionFrame                  imu.AttitudeReferenceFrame
}

func newFakeManager() *fakeManager {
	return &fakeManager{available: true, active: map[string]bool{}}
}

func (f *fakeManager) record(format string, args ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeManager) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeManager) count(call string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeManager) isActive(kind string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active[kind]
}

// accelerometer

func (f *fakeManager) AccelerometerAvailable() bool { return f.available }
func (f *fakeManager) AccelerometerActive() bool    { return f.isActive("accel") }

func (f *fakeManager) SetAccelerometerUpdateInterval(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SetAccelerometerUpdateInterval(%s)", d)
}

func (f *fakeManager) AccelerometerData() *imu.AccelerometerData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accelData
}

func (f *fakeManager) StartAccelerometerUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("StartAccelerometerUpdates")
	f.active["accel"] = true
}

func (f *fakeManager) StartAccelerometerUpdatesToQueue(q *queue.Queue, h func(*imu.AccelerometerData, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("StartAccelerometerUpdatesToQueue(%s)", q.Name())
	f.active["accel"] = true
	f.accelQ, f.accelH = q, h
}

func (f *fakeManager) StopAccelerometerUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("StopAccelerometerUpdates")
	f.active["accel"] = false
}

func (f *fakeManager) deliverAccel(d *imu.AccelerometerData, err error) {
	f.mu.Lock()
	q, h := f.accelQ, f.accelH
	if d != nil {
		f.accelData = d
	}
	f.mu.Unlock()
	q.Dispatch(func() { h(d, err) })
}

// gyroscope

func (f *fakeManager) GyroAvailable() bool { return f.available }
func (f *fakeManager) GyroActive() bool    { return f.isActive("gyro") }

func (f *fakeManager) SetGyroUpdateInterval(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SetGyroUpdateInterval(%s)", d)
}

func (f *fakeManager) GyroData() *imu.GyroData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gyroData
}

func (f *fakeManager) StartGyroUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("StartGyroUpdates")
	f.active["gyro"] = true
}

func (f *fakeManager) StartGyroUpdatesToQueue(q *queue.Queue, h func(*imu.GyroData, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("StartGyroUpdatesToQueue(%s)", q.Name())
	f.active["gyro"] = true
	f.gyroQ, f.gyroH = q, h
}

func (f *fakeManager) StopGyroUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("StopGyroUpdates")
	f.active["gyro"] = false
}

func (f *fakeManager) deliverGyro(d *imu.GyroData, err error) {
	f.mu.Lock()
	q, h := f.gyroQ, f.gyroH
	f.mu.Unlock()
	q.Dispatch(func() { h(d, err) })
}

// magnetometer

func (f *fakeManager) MagnetometerAvailable() bool { return f.available }
func (f *fakeManager) MagnetometerActive() bool    { return f.isActive("mag") }

func (f *fakeManager) SetMagnetometerUpdateInterval(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SetMagnetometerUpdateInterval(%s)", d)
}

func (f *fakeManager) MagnetometerData() *imu.MagnetometerData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.magData
}

func (f *fakeManager) StartMagnetometerUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("StartMagnetometerUpdates")
	f.active["mag"] = true
}

func (f *fakeManager) StartMagnetometerUpdatesToQueue(q *queue.Queue, h func(*imu.MagnetometerData, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("StartMagnetometerUpdatesToQueue(%s)", q.Name())
	f.active["mag"] = true
	f.magQ, f.magH = q, h
}

func (f *fakeManager) StopMagnetometerUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("StopMagnetometerUpdates")
	f.active["mag"] = false
}

func (f *fakeManager) deliverMag(d *imu.MagnetometerData, err error) {
	f.mu.Lock()
	q, h := f.magQ, f.magH
	f.mu.Unlock()
	q.Dispatch(func() { h(d, err) })
}

// device motion

func (f *fakeManager) DeviceMotionAvailable() bool { return f.available }
func (f *fakeManager) DeviceMotionActive() bool    { return f.isActive("motion") }

func (f *fakeManager) SetDeviceMotionUpdateInterval(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SetDeviceMotionUpdateInterval(%s)", d)
}

func (f *fakeManager) DeviceMotion() *imu.DeviceMotionData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.motionData
}

func (f *fakeManager) StartDeviceMotionUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("StartDeviceMotionUpdates")
	f.active["motion"] = true
}

func (f *fakeManager) StartDeviceMotionUpdatesUsingReferenceFrame(fr imu.AttitudeReferenceFrame) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("StartDeviceMotionUpdatesUsingReferenceFrame(%d)", fr)
	f.active["motion"] = true
	f.motionFrame = fr
}

func (f *fakeManager) StartDeviceMotionUpdatesToQueue(q *queue.Queue, h func(*imu.DeviceMotionData, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("StartDeviceMotionUpdatesToQueue(%s)", q.Name())
	f.active["motion"] = true
	f.motionQ, f.motionH = q, h
}

func (f *fakeManager) StartDeviceMotionUpdatesUsingReferenceFrameToQueue(fr imu.AttitudeReferenceFrame, q *queue.Queue, h func(*imu.DeviceMotionData, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("StartDeviceMotionUpdatesUsingReferenceFrameToQueue(%d, %s)", fr, q.Name())
	f.active["motion"] = true
	f.motionFrame = fr
	f.motionQ, f.motionH = q, h
}

func (f *fakeManager) StopDeviceMotionUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("StopDeviceMotionUpdates")
	f.active["motion"] = false
}

func (f *fakeManager) deliverMotion(d *imu.DeviceMotionData, err error) {
	f.mu.Lock()
	q, h := f.motionQ, f.motionH
	f.mu.Unlock()
	q.Dispatch(func() { h(d, err) })
}
