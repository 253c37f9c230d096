// Package bitpack quantizes float vectors into fixed-width bit patterns.
//
// Full-precision variants store raw little-endian float32 components.
// Normalized variants assume inputs in [-1, 1], remap to [0, 1], and round
// to N bits per component. Bits are laid out most-significant-bit first
// within a component, components packed x, y, z tightly across byte
// boundaries.
package bitpack

import (
	"encoding/binary"
	gomath "math"

	"github.com/Faultbox/animpack/pkg/math"
)

// Packed byte widths.
const (
	SizeVector4_128 = 16
	SizeVector3_96  = 12
	SizeVector3_48  = 6
	SizeVector3_32  = 4

	// SizeVector3Variable is the per-sample storage for variable bit rates.
	// Three components at up to 19 bits each fit in a single 64-bit word.
	SizeVector3Variable = 8

	// MaxBitsPerComponent is the widest normalized component that still
	// keeps a three-component sample within 64 bits of storage.
	MaxBitsPerComponent = 19
)

// PackVector4_128 writes four raw float32 components.
func PackVector4_128(v math.Vec4, out []byte) {
	binary.LittleEndian.PutUint32(out[0:4], gomath.Float32bits(v.X))
	binary.LittleEndian.PutUint32(out[4:8], gomath.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(out[8:12], gomath.Float32bits(v.Z))
	binary.LittleEndian.PutUint32(out[12:16], gomath.Float32bits(v.W))
}

// UnpackVector4_128 reads four raw float32 components.
func UnpackVector4_128(data []byte) math.Vec4 {
	return math.Vec4{
		X: gomath.Float32frombits(binary.LittleEndian.Uint32(data[0:4])),
		Y: gomath.Float32frombits(binary.LittleEndian.Uint32(data[4:8])),
		Z: gomath.Float32frombits(binary.LittleEndian.Uint32(data[8:12])),
		W: gomath.Float32frombits(binary.LittleEndian.Uint32(data[12:16])),
	}
}

// PackVector3_96 writes three raw float32 components.
func PackVector3_96(v math.Vec4, out []byte) {
	binary.LittleEndian.PutUint32(out[0:4], gomath.Float32bits(v.X))
	binary.LittleEndian.PutUint32(out[4:8], gomath.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(out[8:12], gomath.Float32bits(v.Z))
}

// UnpackVector3_96 reads three raw float32 components.
func UnpackVector3_96(data []byte) math.Vec4 {
	return math.Vec4{
		X: gomath.Float32frombits(binary.LittleEndian.Uint32(data[0:4])),
		Y: gomath.Float32frombits(binary.LittleEndian.Uint32(data[4:8])),
		Z: gomath.Float32frombits(binary.LittleEndian.Uint32(data[8:12])),
	}
}

// PackVector3_48 writes three 16-bit normalized components.
func PackVector3_48(v math.Vec4, out []byte) {
	packBits(v, 16, 16, 16, out)
}

// UnpackVector3_48 reads three 16-bit normalized components.
func UnpackVector3_48(data []byte) math.Vec4 {
	return unpackBits(data, 16, 16, 16)
}

// PackVector3_32 writes normalized components at 11, 11, and 10 bits.
func PackVector3_32(v math.Vec4, out []byte) {
	packBits(v, 11, 11, 10, out)
}

// UnpackVector3_32 reads normalized components at 11, 11, and 10 bits.
func UnpackVector3_32(data []byte) math.Vec4 {
	return unpackBits(data, 11, 11, 10)
}

// PackVector3N writes three normalized components at numBits each.
// The output always occupies SizeVector3Variable bytes of storage.
func PackVector3N(v math.Vec4, numBits uint8, out []byte) {
	packBits(v, numBits, numBits, numBits, out)
}

// UnpackVector3N reads three normalized components at numBits each.
func UnpackVector3N(data []byte, numBits uint8) math.Vec4 {
	return unpackBits(data, numBits, numBits, numBits)
}

// quantizeUnit maps a [-1, 1] value onto [0, 2^bits - 1], rounding to
// nearest with ties away from zero. Out-of-range input saturates.
func quantizeUnit(v float32, bits uint8) uint64 {
	if v < -1 {
		v = -1
	} else if v > 1 {
		v = 1
	}
	maxValue := float64(uint64(1)<<bits - 1)
	scaled := (float64(v) + 1) * 0.5 * maxValue
	return uint64(gomath.Floor(scaled + 0.5))
}

// dequantizeUnit is the exact inverse scale-and-bias back into [-1, 1].
func dequantizeUnit(u uint64, bits uint8) float32 {
	maxValue := float64(uint64(1)<<bits - 1)
	return float32(float64(u)/maxValue*2 - 1)
}

func packBits(v math.Vec4, bitsX, bitsY, bitsZ uint8, out []byte) {
	x := quantizeUnit(v.X, bitsX)
	y := quantizeUnit(v.Y, bitsY)
	z := quantizeUnit(v.Z, bitsZ)

	totalBits := uint(bitsX) + uint(bitsY) + uint(bitsZ)
	word := x<<(uint(bitsY)+uint(bitsZ)) | y<<uint(bitsZ) | z
	word <<= 64 - totalBits

	numBytes := (totalBits + 7) / 8
	var scratch [8]byte
	binary.BigEndian.PutUint64(scratch[:], word)
	copy(out[:numBytes], scratch[:numBytes])
}

func unpackBits(data []byte, bitsX, bitsY, bitsZ uint8) math.Vec4 {
	totalBits := uint(bitsX) + uint(bitsY) + uint(bitsZ)
	numBytes := (totalBits + 7) / 8

	var scratch [8]byte
	copy(scratch[:numBytes], data[:numBytes])
	word := binary.BigEndian.Uint64(scratch[:]) >> (64 - totalBits)

	x := word >> (uint(bitsY) + uint(bitsZ)) & (1<<bitsX - 1)
	y := word >> uint(bitsZ) & (1<<bitsY - 1)
	z := word & (1<<bitsZ - 1)

	return math.Vec4{
		X: dequantizeUnit(x, bitsX),
		Y: dequantizeUnit(y, bitsY),
		Z: dequantizeUnit(z, bitsZ),
	}
}
