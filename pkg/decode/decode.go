package decode

import (
	"fmt"

	"github.com/Faultbox/animpack/pkg/anim"
	"github.com/Faultbox/animpack/pkg/compress"
	"github.com/Faultbox/animpack/pkg/math"
)

// DecodePose samples every bone's streams at the given time and hands the
// results to the writer. Default tracks decode to the identity value.
// Tracks the writer skips are never unpacked.
func DecodePose(streams []compress.BoneStreams, t float32, w OutputWriter) error {
	if w == nil {
		return fmt.Errorf("decode: nil output writer")
	}

	writeRotations := !w.SkipAllRotations()
	writeTranslations := !w.SkipAllTranslations()
	writeScales := !w.SkipAllScales()

	for i := range streams {
		bone := &streams[i]
		boneIndex := uint16(i)

		if writeRotations && !w.SkipBoneRotation(boneIndex) {
			rotation := math.QuatIdentity()
			if !bone.RotationDefault {
				rotation = compress.SampleRotation(&bone.Rotations, t)
			}
			w.WriteBoneRotation(boneIndex, rotation)
		}

		if writeTranslations && !w.SkipBoneTranslation(boneIndex) {
			var translation math.Vec3
			if !bone.TranslationDefault {
				translation = compress.SampleTranslation(&bone.Translations, t)
			}
			w.WriteBoneTranslation(boneIndex, translation)
		}

		if writeScales && !w.SkipBoneScale(boneIndex) {
			scale := math.Vec3{X: 1, Y: 1, Z: 1}
			if !bone.ScaleDefault {
				scale = compress.SampleTranslation(&bone.Scales, t)
			}
			w.WriteBoneScale(boneIndex, scale)
		}
	}
	return nil
}

// DecodeIntoPose is the common whole-pose path: reset to identity, then
// decode through a PoseWriter.
func DecodeIntoPose(streams []compress.BoneStreams, t float32, pose anim.Pose) error {
	if len(pose) != len(streams) {
		return fmt.Errorf("%w: %d != %d", anim.ErrPoseSizeMismatch, len(pose), len(streams))
	}
	for i := range pose {
		pose[i] = math.TransformIdentity()
	}
	return DecodePose(streams, t, NewPoseWriter(pose))
}
