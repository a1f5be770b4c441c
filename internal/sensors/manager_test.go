// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap/zaptest"
	"go.viam.com/test"

	"github.com/relabs-tech/motion_computer/internal/imu"
	"github.com/relabs-tech/motion_computer/internal/motion"
	"github.com/relabs-tech/motion_computer/internal/orientation"
	"github.com/relabs-tech/motion_computer/internal/queue"
)

type fakeSource struct {
	mu      sync.Mutex
	reading imu.Reading
	err     error
	hasMag  bool
	reads   int
	closed  bool
}

func (f *fakeSource) Read() (imu.Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.reading, f.err
}

func (f *fakeSource) HasMagnetometer() bool { return f.hasMag }

func (f *fakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSource) set(r imu.Reading, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reading, f.err = r, err
}

func (f *fakeSource) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

func level() imu.Reading {
	return imu.Reading{
		Accel: &imu.Vector3{Z: 1},
		Gyro:  &imu.Vector3{Z: 0.5},
	}
}

type delivery[T any] struct {
	data *T
	err  error
}

func collect[T any](ch chan delivery[T]) func(*T, error) {
	return func(d *T, err error) { ch <- delivery[T]{d, err} }
}

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
	var zero T
	return zero
}

func newTestManager(t *testing.T, src Source, opts ...Option) (*Manager, *clock.Mock) {
	clk := clock.NewMock()
	opts = append([]Option{WithClock(clk), WithLogger(zaptest.NewLogger(t).Sugar())}, opts...)
	m := NewManager(src, opts...)
	t.Cleanup(func() { m.Close() })
	return m, clk
}

func TestManagerDeliversOnEveryTick(t *testing.T) {
	src := &fakeSource{reading: level()}
	m, clk := newTestManager(t, src)

	got := make(chan delivery[imu.AccelerometerData], 4)
	m.SetAccelerometerUpdateInterval(50 * time.Millisecond)
	m.StartAccelerometerUpdatesToQueue(queue.New("test"), collect(got))
	test.That(t, m.AccelerometerActive(), test.ShouldBeTrue)
	test.That(t, m.AccelerometerData(), test.ShouldBeNil)

	clk.Add(50 * time.Millisecond)
	d := recv(t, got)
	test.That(t, d.err, test.ShouldBeNil)
	test.That(t, d.data.Acceleration, test.ShouldResemble, imu.Vector3{Z: 1})
	test.That(t, d.data.Timestamp, test.ShouldEqual, clk.Now())
	test.That(t, m.AccelerometerData(), test.ShouldEqual, d.data)

	clk.Add(50 * time.Millisecond)
	recv(t, got)

	m.StopAccelerometerUpdates()
	test.That(t, m.AccelerometerActive(), test.ShouldBeFalse)
}

func TestManagerPollingCachesWithoutDelivery(t *testing.T) {
	src := &fakeSource{reading: level()}
	m, clk := newTestManager(t, src)

	m.StartGyroUpdates()
	test.That(t, m.GyroActive(), test.ShouldBeTrue)

	clk.Add(DefaultUpdateInterval)
	deadline := time.Now().Add(2 * time.Second)
	for m.GyroData() == nil && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	test.That(t, m.GyroData(), test.ShouldNotBeNil)
	test.That(t, m.GyroData().RotationRate.Z, test.ShouldEqual, 0.5)
}

func TestManagerIntervalChangeWhileRunning(t *testing.T) {
	src := &fakeSource{reading: level()}
	m, clk := newTestManager(t, src)

	got := make(chan delivery[imu.GyroData], 4)
	m.StartGyroUpdatesToQueue(queue.New("test"), collect(got))
	m.SetGyroUpdateInterval(20 * time.Millisecond)

	clk.Add(20 * time.Millisecond)
	d := recv(t, got)
	test.That(t, d.err, test.ShouldBeNil)
}

func TestManagerIntervalIsClamped(t *testing.T) {
	m, _ := newTestManager(t, &fakeSource{})
	m.SetAccelerometerUpdateInterval(0)
	test.That(t, m.accel.interval.Load(), test.ShouldEqual, MinUpdateInterval)
}

func TestManagerForwardsReadErrors(t *testing.T) {
	boom := errors.New("spi timeout")
	src := &fakeSource{}
	src.set(imu.Reading{}, boom)
	m, clk := newTestManager(t, src)

	got := make(chan delivery[imu.AccelerometerData], 1)
	m.StartAccelerometerUpdatesToQueue(queue.New("test"), collect(got))
	clk.Add(DefaultUpdateInterval)

	d := recv(t, got)
	test.That(t, d.data, test.ShouldBeNil)
	test.That(t, d.err, test.ShouldEqual, boom)
}

func TestManagerMissingMeasurement(t *testing.T) {
	src := &fakeSource{reading: imu.Reading{Accel: &imu.Vector3{Z: 1}}}
	m, clk := newTestManager(t, src)

	got := make(chan delivery[imu.GyroData], 1)
	m.StartGyroUpdatesToQueue(queue.New("test"), collect(got))
	clk.Add(DefaultUpdateInterval)

	d := recv(t, got)
	test.That(t, d.data, test.ShouldBeNil)
	test.That(t, errors.Is(d.err, ErrNoSample), test.ShouldBeTrue)
}

func TestManagerMagnetometerUnavailable(t *testing.T) {
	src := &fakeSource{reading: level()}
	m, _ := newTestManager(t, src)

	test.That(t, m.MagnetometerAvailable(), test.ShouldBeFalse)
	got := make(chan delivery[imu.MagnetometerData], 2)
	m.StartMagnetometerUpdatesToQueue(queue.New("test"), collect(got))
	test.That(t, m.MagnetometerActive(), test.ShouldBeFalse)

	d := recv(t, got)
	test.That(t, d.data, test.ShouldBeNil)
	test.That(t, errors.Is(d.err, ErrMagnetometerUnavailable), test.ShouldBeTrue)

	m.StartMagnetometerUpdates()
	test.That(t, m.MagnetometerActive(), test.ShouldBeFalse)
}

func TestMagnetometerOnceWithoutHardwareReportsError(t *testing.T) {
	src := &fakeSource{reading: level()}
	m, _ := newTestManager(t, src)
	reg := motion.NewRegistry(func() motion.Manager { return m }, motion.WithLogger(zaptest.NewLogger(t).Sugar()))
	defer reg.Close()

	got := make(chan delivery[motion.MagnetometerSample], 1)
	_, err := reg.Magnetometer().Once(motion.Options{}, collect(got))
	test.That(t, err, test.ShouldBeNil)

	d := recv(t, got)
	test.That(t, d.data, test.ShouldBeNil)
	test.That(t, errors.Is(d.err, ErrMagnetometerUnavailable), test.ShouldBeTrue)
	test.That(t, reg.Magnetometer().Active(), test.ShouldBeFalse)
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestManagerKeepsOneDeliveryQueuedPerStream(t *testing.T) {
	src := &fakeSource{reading: level()}
	m, clk := newTestManager(t, src)

	q := queue.New("busy")
	started := make(chan struct{})
	release := make(chan struct{})
	q.Dispatch(func() {
		close(started)
		<-release
	})
	<-started

	got := make(chan delivery[imu.AccelerometerData], 8)
	m.SetAccelerometerUpdateInterval(20 * time.Millisecond)
	m.StartAccelerometerUpdatesToQueue(q, collect(got))

	for i := 1; i <= 5; i++ {
		clk.Add(20 * time.Millisecond)
		want := uint64(i - 1)
		eventually(t, func() bool { return q.Pending() == 1 && m.DroppedDeliveries() == want })
	}
	test.That(t, src.readCount(), test.ShouldEqual, 5)
	test.That(t, m.AccelerometerData().Timestamp, test.ShouldEqual, clk.Now())

	close(release)
	d := recv(t, got)
	test.That(t, d.err, test.ShouldBeNil)
	m.StopAccelerometerUpdates()

	select {
	case extra := <-got:
		t.Fatalf("unexpected extra delivery: %+v", extra)
	case <-time.After(20 * time.Millisecond):
	}

	// the queue frees up, so the next tick is delivered again
	m.StartAccelerometerUpdatesToQueue(q, collect(got))
	clk.Add(20 * time.Millisecond)
	recv(t, got)
	test.That(t, m.DroppedDeliveries(), test.ShouldEqual, uint64(4))
}

func TestManagerMagnetometer(t *testing.T) {
	r := level()
	r.Mag = &imu.Vector3{X: 20, Z: -45}
	src := &fakeSource{reading: r, hasMag: true}
	m, clk := newTestManager(t, src)

	got := make(chan delivery[imu.MagnetometerData], 1)
	m.StartMagnetometerUpdatesToQueue(queue.New("test"), collect(got))
	clk.Add(DefaultUpdateInterval)

	d := recv(t, got)
	test.That(t, d.err, test.ShouldBeNil)
	test.That(t, d.data.MagneticField, test.ShouldResemble, imu.Vector3{X: 20, Z: -45})
}

func TestManagerDeviceMotionReferenceFrame(t *testing.T) {
	src := &fakeSource{reading: level(), hasMag: true}
	m, clk := newTestManager(t, src, WithDefaultReferenceFrame(imu.XArbitraryCorrectedZVertical))
	test.That(t, m.ReferenceFrame(), test.ShouldEqual, imu.XArbitraryCorrectedZVertical)

	got := make(chan delivery[imu.DeviceMotionData], 1)
	m.StartDeviceMotionUpdatesUsingReferenceFrameToQueue(imu.XTrueNorthZVertical, queue.New("test"), collect(got))
	test.That(t, m.ReferenceFrame(), test.ShouldEqual, imu.XTrueNorthZVertical)

	clk.Add(DefaultUpdateInterval)
	d := recv(t, got)
	test.That(t, d.err, test.ShouldBeNil)
	test.That(t, d.data.Attitude, test.ShouldNotBeNil)
	test.That(t, d.data.Gravity.Z, test.ShouldAlmostEqual, -1, 1e-9)
	test.That(t, d.data.RotationRate.Z, test.ShouldEqual, 0.5)
	test.That(t, d.data.MagneticField, test.ShouldBeNil)

	m.StopDeviceMotionUpdates()
	m.StartDeviceMotionUpdates()
	test.That(t, m.ReferenceFrame(), test.ShouldEqual, imu.XArbitraryCorrectedZVertical)
	test.That(t, m.DeviceMotionActive(), test.ShouldBeTrue)
}

func TestManagerCloseStopsEverything(t *testing.T) {
	src := &fakeSource{reading: level(), hasMag: true}
	m := NewManager(src, WithClock(clock.NewMock()))

	m.StartAccelerometerUpdates()
	m.StartGyroUpdates()
	m.StartMagnetometerUpdates()
	m.StartDeviceMotionUpdates()
	test.That(t, m.Close(), test.ShouldBeNil)

	test.That(t, m.AccelerometerActive(), test.ShouldBeFalse)
	test.That(t, m.GyroActive(), test.ShouldBeFalse)
	test.That(t, m.MagnetometerActive(), test.ShouldBeFalse)
	test.That(t, m.DeviceMotionActive(), test.ShouldBeFalse)
	test.That(t, src.closed, test.ShouldBeTrue)
}

func TestRegistryOverMockSource(t *testing.T) {
	clk := clock.NewMock()
	logger := zaptest.NewLogger(t).Sugar()
	src := orientation.NewMockSource(clk)

	var native *Manager
	reg := motion.NewRegistry(func() motion.Manager {
		native = NewManager(src, WithClock(clk), WithLogger(logger))
		return native
	}, motion.WithLogger(logger))

	got := make(chan *motion.DeviceMotionSample, 4)
	opts := motion.Options{}.WithReference(motion.MagneticNorth).WithQueue(motion.BackgroundQueue())
	_, err := reg.DeviceMotion().Every(20*time.Millisecond, opts, func(s *motion.DeviceMotionSample, err error) {
		if err == nil {
			got <- s
		}
	})
	test.That(t, err, test.ShouldBeNil)
	defer native.Close()

	clk.Add(20 * time.Millisecond)
	s := recv(t, got)
	test.That(t, s.AttitudeReading, test.ShouldNotBeNil)
	test.That(t, s.RotationReading, test.ShouldNotBeNil)
	test.That(t, s.GravityReading, test.ShouldNotBeNil)
	test.That(t, s.MagneticReading, test.ShouldNotBeNil)
	test.That(t, s.MagneticAccuracy, test.ShouldEqual, motion.Unknown)

	_, _, yaw := orientation.MockPose(0.02)
	test.That(t, s.Yaw, test.ShouldAlmostEqual, yaw, 1e-9)

	reg.DeviceMotion().Stop()
	test.That(t, reg.DeviceMotion().Active(), test.ShouldBeFalse)
	test.That(t, src.Close(), test.ShouldBeNil)
}
