// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import (
	"fmt"
	"strings"

	"github.com/relabs-tech/motion_computer/internal/imu"
)

type frameKind int

const (
	frameArbitraryZ frameKind = iota
	frameCorrectedZ
	frameMagneticNorth
	frameTrueNorth
	frameNative
)

// ReferenceFrame is the symbolic attitude reference frame for device motion.
type ReferenceFrame struct {
	kind   frameKind
	native imu.AttitudeReferenceFrame
}

var (
	// ArbitraryZ: Z vertical, X arbitrary in the horizontal plane.
	ArbitraryZ = ReferenceFrame{kind: frameArbitraryZ}
	// CorrectedZ: as ArbitraryZ, with the magnetometer correcting yaw drift.
	CorrectedZ = ReferenceFrame{kind: frameCorrectedZ}
	// MagneticNorth: X towards magnetic north.
	MagneticNorth = ReferenceFrame{kind: frameMagneticNorth}
	// TrueNorth: X towards true north.
	TrueNorth = ReferenceFrame{kind: frameTrueNorth}
)

// NativeReferenceFrame wraps a raw native value that is passed through as is.
func NativeReferenceFrame(f imu.AttitudeReferenceFrame) ReferenceFrame {
	return ReferenceFrame{kind: frameNative, native: f}
}

// ConvertReferenceFrame maps f to the native enum value.
func ConvertReferenceFrame(f ReferenceFrame) imu.AttitudeReferenceFrame {
	switch f.kind {
	case frameArbitraryZ:
		return imu.XArbitraryZVertical
	case frameCorrectedZ:
		return imu.XArbitraryCorrectedZVertical
	case frameMagneticNorth:
		return imu.XMagneticNorthZVertical
	case frameTrueNorth:
		return imu.XTrueNorthZVertical
	default:
		return f.native
	}
}

// NamedReferenceFrames returns the frames that have a textual name, in
// the order of their native bits.
func NamedReferenceFrames() []ReferenceFrame {
	return []ReferenceFrame{ArbitraryZ, CorrectedZ, MagneticNorth, TrueNorth}
}

// ParseReferenceFrame accepts the String form of a named frame:
// arbitrary_z, corrected_z, magnetic_north or true_north.
func ParseReferenceFrame(s string) (ReferenceFrame, error) {
	name := strings.TrimSpace(s)
	for _, f := range NamedReferenceFrames() {
		if f.String() == name {
			return f, nil
		}
	}
	return ReferenceFrame{}, fmt.Errorf("unknown reference frame %q", s)
}

func (f ReferenceFrame) String() string {
	switch f.kind {
	case frameArbitraryZ:
		return "arbitrary_z"
	case frameCorrectedZ:
		return "corrected_z"
	case frameMagneticNorth:
		return "magnetic_north"
	case frameTrueNorth:
		return "true_north"
	default:
		return fmt.Sprintf("native(%d)", f.native)
	}
}
