// Package compress implements the variable-bit-rate quantization search
// that shrinks per-bone animation tracks under a posed-skeleton error
// threshold.
package compress

import (
	"fmt"

	"github.com/Faultbox/animpack/pkg/bitpack"
)

// RotationFormat selects how a rotation track is packed.
type RotationFormat uint8

const (
	// RotationQuat128 stores four raw float32 components.
	RotationQuat128 RotationFormat = iota
	// RotationQuatDropW96 stores x, y, z as raw float32; w is reconstructed.
	RotationQuatDropW96
	// RotationQuatDropW48 stores three 16-bit normalized components.
	RotationQuatDropW48
	// RotationQuatDropW32 stores normalized components at 11/11/10 bits.
	RotationQuatDropW32
	// RotationQuatDropWVariable stores three N-bit normalized components
	// where N comes from the track's bit rate index.
	RotationQuatDropWVariable
)

// String returns a human-readable format name.
func (f RotationFormat) String() string {
	switch f {
	case RotationQuat128:
		return "Quat_128"
	case RotationQuatDropW96:
		return "QuatDropW_96"
	case RotationQuatDropW48:
		return "QuatDropW_48"
	case RotationQuatDropW32:
		return "QuatDropW_32"
	case RotationQuatDropWVariable:
		return "QuatDropW_Variable"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(f))
	}
}

// IsVariable reports whether the format's precision comes from a bit rate.
func (f RotationFormat) IsVariable() bool {
	return f == RotationQuatDropWVariable
}

// PackedSize returns the per-sample byte width of the format.
func (f RotationFormat) PackedSize() int {
	switch f {
	case RotationQuat128:
		return bitpack.SizeVector4_128
	case RotationQuatDropW96:
		return bitpack.SizeVector3_96
	case RotationQuatDropW48:
		return bitpack.SizeVector3_48
	case RotationQuatDropW32:
		return bitpack.SizeVector3_32
	case RotationQuatDropWVariable:
		return bitpack.SizeVector3Variable
	default:
		return 0
	}
}

// RotationFormatFromString parses a lowercase format name as written in
// config files.
func RotationFormatFromString(name string) (RotationFormat, error) {
	switch name {
	case "quat_128":
		return RotationQuat128, nil
	case "quatdropw_96":
		return RotationQuatDropW96, nil
	case "quatdropw_48":
		return RotationQuatDropW48, nil
	case "quatdropw_32":
		return RotationQuatDropW32, nil
	case "quatdropw_variable":
		return RotationQuatDropWVariable, nil
	default:
		return RotationQuat128, fmt.Errorf("unknown rotation format %q", name)
	}
}

// RotationVariant is the representation family of a rotation format.
type RotationVariant uint8

const (
	// VariantQuat keeps all four quaternion components.
	VariantQuat RotationVariant = iota
	// VariantQuatDropW drops the scalar part and reconstructs it at decode.
	VariantQuatDropW
)

// Variant returns the representation family of the format.
func (f RotationFormat) Variant() RotationVariant {
	if f == RotationQuat128 {
		return VariantQuat
	}
	return VariantQuatDropW
}

// HighestPrecision returns the most precise fixed format of the variant.
// Constant rotation tracks are pinned to it.
func (v RotationVariant) HighestPrecision() RotationFormat {
	if v == VariantQuat {
		return RotationQuat128
	}
	return RotationQuatDropW96
}

// VectorFormat selects how a translation or scale track is packed.
type VectorFormat uint8

const (
	// Vector3_96 stores three raw float32 components.
	Vector3_96 VectorFormat = iota
	// Vector3_48 stores three 16-bit normalized components.
	Vector3_48
	// Vector3_32 stores normalized components at 11/11/10 bits.
	Vector3_32
	// Vector3Variable stores three N-bit normalized components where N
	// comes from the track's bit rate index.
	Vector3Variable
)

// String returns a human-readable format name.
func (f VectorFormat) String() string {
	switch f {
	case Vector3_96:
		return "Vector3_96"
	case Vector3_48:
		return "Vector3_48"
	case Vector3_32:
		return "Vector3_32"
	case Vector3Variable:
		return "Vector3_Variable"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(f))
	}
}

// IsVariable reports whether the format's precision comes from a bit rate.
func (f VectorFormat) IsVariable() bool {
	return f == Vector3Variable
}

// PackedSize returns the per-sample byte width of the format.
func (f VectorFormat) PackedSize() int {
	switch f {
	case Vector3_96:
		return bitpack.SizeVector3_96
	case Vector3_48:
		return bitpack.SizeVector3_48
	case Vector3_32:
		return bitpack.SizeVector3_32
	case Vector3Variable:
		return bitpack.SizeVector3Variable
	default:
		return 0
	}
}

// VectorFormatFromString parses a lowercase format name as written in
// config files.
func VectorFormatFromString(name string) (VectorFormat, error) {
	switch name {
	case "vector3_96":
		return Vector3_96, nil
	case "vector3_48":
		return Vector3_48, nil
	case "vector3_32":
		return Vector3_32, nil
	case "vector3_variable":
		return Vector3Variable, nil
	default:
		return Vector3_96, fmt.Errorf("unknown vector format %q", name)
	}
}

// Bit rate indices. The table below maps each index to a bit count per
// component and is strictly monotonically increasing.
const (
	LowestBitRate  uint8 = 0
	HighestBitRate uint8 = 16
)

var bitRateBits = [HighestBitRate + 1]uint8{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19,
}

// BitsAtBitRate returns the bit count per component of a bit rate index.
func BitsAtBitRate(bitRate uint8) uint8 {
	return bitRateBits[bitRate]
}
