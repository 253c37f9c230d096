// Package decode samples quantized track streams back into poses.
package decode

import (
	"github.com/Faultbox/animpack/pkg/math"
)

// OutputWriter receives decoded track values. Skip predicates let a caller
// opt out of track kinds it does not need; the decoder elides the unpack
// work for skipped tracks.
type OutputWriter interface {
	SkipAllRotations() bool
	SkipAllTranslations() bool
	SkipAllScales() bool

	SkipBoneRotation(boneIndex uint16) bool
	SkipBoneTranslation(boneIndex uint16) bool
	SkipBoneScale(boneIndex uint16) bool

	WriteBoneRotation(boneIndex uint16, rotation math.Quat)
	WriteBoneTranslation(boneIndex uint16, translation math.Vec3)
	WriteBoneScale(boneIndex uint16, scale math.Vec3)
}

// PoseWriter writes every decoded track into a transform slice.
type PoseWriter struct {
	Pose []math.Transform
}

// NewPoseWriter wraps a transform slice. The slice must hold one entry per
// bone. The writer skips nothing, so DecodePose overwrites every track of
// every entry, writing the identity value for default tracks.
func NewPoseWriter(pose []math.Transform) *PoseWriter {
	return &PoseWriter{Pose: pose}
}

func (w *PoseWriter) SkipAllRotations() bool    { return false }
func (w *PoseWriter) SkipAllTranslations() bool { return false }
func (w *PoseWriter) SkipAllScales() bool       { return false }

func (w *PoseWriter) SkipBoneRotation(uint16) bool    { return false }
func (w *PoseWriter) SkipBoneTranslation(uint16) bool { return false }
func (w *PoseWriter) SkipBoneScale(uint16) bool       { return false }

// WriteBoneRotation stores the decoded rotation.
func (w *PoseWriter) WriteBoneRotation(boneIndex uint16, rotation math.Quat) {
	w.Pose[boneIndex].Rotation = rotation
}

// WriteBoneTranslation stores the decoded translation.
func (w *PoseWriter) WriteBoneTranslation(boneIndex uint16, translation math.Vec3) {
	w.Pose[boneIndex].Translation = translation
}

// WriteBoneScale stores the decoded scale.
func (w *PoseWriter) WriteBoneScale(boneIndex uint16, scale math.Vec3) {
	w.Pose[boneIndex].Scale = scale
}
