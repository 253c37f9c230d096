package compress

import (
	"fmt"

	"github.com/Faultbox/animpack/pkg/anim"
	"github.com/Faultbox/animpack/pkg/bitpack"
	"github.com/Faultbox/animpack/pkg/math"
)

// unpackRotationSample decodes the i-th sample of a rotation stream.
func unpackRotationSample(stream *RotationTrackStream, i int) math.Quat {
	data := stream.SampleBytes(i)
	switch stream.Format() {
	case RotationQuat128:
		return bitpack.UnpackVector4_128(data).Quat()
	case RotationQuatDropW96:
		v := bitpack.UnpackVector3_96(data)
		return math.QuatFromPositiveW(v.X, v.Y, v.Z)
	case RotationQuatDropW48:
		v := bitpack.UnpackVector3_48(data)
		return math.QuatFromPositiveW(v.X, v.Y, v.Z)
	case RotationQuatDropW32:
		v := bitpack.UnpackVector3_32(data)
		return math.QuatFromPositiveW(v.X, v.Y, v.Z)
	case RotationQuatDropWVariable:
		v := bitpack.UnpackVector3N(data, BitsAtBitRate(stream.BitRate()))
		return math.QuatFromPositiveW(v.X, v.Y, v.Z)
	default:
		return math.QuatIdentity()
	}
}

// unpackVectorSample decodes the i-th sample of a translation or scale
// stream. Raw 16-byte samples share the Vector3_96 layout in their first
// twelve bytes.
func unpackVectorSample(stream *TranslationTrackStream, i int) math.Vec3 {
	data := stream.SampleBytes(i)
	switch stream.Format() {
	case Vector3_96:
		return bitpack.UnpackVector3_96(data).Vec3()
	case Vector3_48:
		return bitpack.UnpackVector3_48(data).Vec3()
	case Vector3_32:
		return bitpack.UnpackVector3_32(data).Vec3()
	case Vector3Variable:
		return bitpack.UnpackVector3N(data, BitsAtBitRate(stream.BitRate())).Vec3()
	default:
		return math.Vec3{}
	}
}

// SampleRotation decodes a rotation stream at the given time with the
// runtime decoder's blend: unpack the two surrounding samples, then
// normalized linear interpolation.
func SampleRotation(stream *RotationTrackStream, t float32) math.Quat {
	if stream.IsEmpty() {
		return math.QuatIdentity()
	}
	key0, key1, alpha := anim.InterpolationKeys(stream.NumSamples(), stream.SampleRate(), t)
	q0 := unpackRotationSample(stream, key0)
	if key0 == key1 {
		return q0.Normalize()
	}
	return q0.Lerp(unpackRotationSample(stream, key1), alpha)
}

// SampleTranslation decodes a translation or scale stream at the given
// time with linear interpolation.
func SampleTranslation(stream *TranslationTrackStream, t float32) math.Vec3 {
	if stream.IsEmpty() {
		return math.Vec3{}
	}
	key0, key1, alpha := anim.InterpolationKeys(stream.NumSamples(), stream.SampleRate(), t)
	v0 := unpackVectorSample(stream, key0)
	if key0 == key1 {
		return v0
	}
	return math.LerpVec3(v0, unpackVectorSample(stream, key1), alpha)
}

// SampleStreams decodes every bone's tracks at the given time into
// outPose. This is the same unpack, lerp, and normalize the runtime
// decoder performs; the search is calibrated against it.
func SampleStreams(streams []BoneStreams, t float32, outPose anim.Pose) error {
	if len(outPose) != len(streams) {
		return fmt.Errorf("%w: %d != %d", anim.ErrPoseSizeMismatch, len(outPose), len(streams))
	}

	for i := range streams {
		bone := &streams[i]
		transform := math.TransformIdentity()

		if !bone.RotationDefault {
			transform.Rotation = SampleRotation(&bone.Rotations, t)
		}
		if !bone.TranslationDefault {
			transform.Translation = SampleTranslation(&bone.Translations, t)
		}
		if !bone.ScaleDefault {
			transform.Scale = SampleTranslation(&bone.Scales, t)
		}

		outPose[i] = transform
	}
	return nil
}
