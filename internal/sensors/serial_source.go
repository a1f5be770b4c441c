// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	nmea "github.com/adrianmo/go-nmea"
	"github.com/benbjohnson/clock"
	serial "github.com/jacobsa/go-serial/serial"
	"go.uber.org/zap"

	"github.com/relabs-tech/motion_computer/internal/imu"
)

// SerialConfig selects the serial port of an IMU that streams NMEA XDR
// sentences.
type SerialConfig struct {
	Port     string
	BaudRate uint
}

// SerialSource keeps the latest values received as NMEA XDR transducer
// measurements:
//
//	ACCX ACCY ACCZ  acceleration in g
//	GYRX GYRY GYRZ  rotation rate in rad/s, or °/s when the unit is D
//	MAGX MAGY MAGZ  magnetic field in µT
//
// One sentence may carry any subset of the axes.
type SerialSource struct {
	port   io.ReadCloser
	clock  clock.Clock
	logger *zap.SugaredLogger

	mu      sync.Mutex
	reading imu.Reading
	err     error
	badRead int

	wg sync.WaitGroup
}

// NewSerialSource opens the port and starts reading sentences in the
// background.
func NewSerialSource(cfg SerialConfig, logger *zap.SugaredLogger) (*SerialSource, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	opts := serial.OpenOptions{
		PortName:        cfg.Port,
		BaudRate:        cfg.BaudRate,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      serial.PARITY_NONE,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("serial IMU: open %s: %w", cfg.Port, err)
	}
	logger.Infof("serial IMU: port opened on %s at %d baud", cfg.Port, cfg.BaudRate)

	return newSerialSource(port, clock.New(), logger), nil
}

func newSerialSource(port io.ReadCloser, c clock.Clock, logger *zap.SugaredLogger) *SerialSource {
	s := &SerialSource{port: port, clock: c, logger: logger}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.readLoop()
	}()
	return s
}

func (s *SerialSource) readLoop() {
	reader := bufio.NewReader(s.port)
	for {
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			s.handleLine(line)
		}
		if err != nil {
			if err != io.EOF {
				s.logger.Warnf("serial IMU: read error: %v", err)
			}
			s.mu.Lock()
			s.err = fmt.Errorf("serial IMU: %w", err)
			s.mu.Unlock()
			return
		}
	}
}

func (s *SerialSource) handleLine(line string) {
	// resync on a port opened mid-sentence
	start := strings.IndexByte(line, '$')
	if start < 0 {
		return
	}
	line = line[start:]
	sentence, err := nmea.Parse(line)
	if err != nil {
		s.mu.Lock()
		s.badRead++
		s.mu.Unlock()
		s.logger.Debugf("serial IMU: NMEA parse error: %v (line: %q)", err, line)
		return
	}
	if sentence.DataType() != nmea.TypeXDR {
		return
	}
	xdr := sentence.(nmea.XDR)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range xdr.Measurements {
		s.apply(m)
	}
	s.reading.Timestamp = s.clock.Now()
}

func (s *SerialSource) apply(m nmea.XDRMeasurement) {
	name := strings.ToUpper(m.TransducerName)
	if len(name) != 4 {
		return
	}

	var v **imu.Vector3
	value := m.Value
	switch name[:3] {
	case "ACC":
		v = &s.reading.Accel
	case "GYR":
		v = &s.reading.Gyro
		if m.Unit == "D" {
			value = value * math.Pi / 180.0
		}
	case "MAG":
		v = &s.reading.Mag
	default:
		return
	}
	if *v == nil {
		*v = &imu.Vector3{}
	}

	switch name[3] {
	case 'X':
		(*v).X = value
	case 'Y':
		(*v).Y = value
	case 'Z':
		(*v).Z = value
	}
}

// Read returns a copy of the latest values. It fails with ErrNoSample until
// the first measurement arrives, and with the read error once the port
// stops.
func (s *SerialSource) Read() (imu.Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return imu.Reading{}, s.err
	}
	r := s.reading
	if r.Accel == nil && r.Gyro == nil && r.Mag == nil {
		return imu.Reading{}, fmt.Errorf("serial IMU: %w", ErrNoSample)
	}
	r.Accel = copyVector(r.Accel)
	r.Gyro = copyVector(r.Gyro)
	r.Mag = copyVector(r.Mag)
	return r, nil
}

// BadReadings counts sentences that failed to parse.
func (s *SerialSource) BadReadings() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.badRead
}

// HasMagnetometer is true: the stream may carry MAG measurements. Until it
// does, magnetometer reads report ErrNoSample.
func (s *SerialSource) HasMagnetometer() bool { return true }

// Close closes the port and waits for the reader to exit.
func (s *SerialSource) Close() error {
	err := s.port.Close()
	s.wg.Wait()
	if err != nil {
		return fmt.Errorf("serial IMU: close: %w", err)
	}
	return nil
}

func copyVector(v *imu.Vector3) *imu.Vector3 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
