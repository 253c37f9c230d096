package compress

import (
	"github.com/Faultbox/animpack/pkg/anim"
	"github.com/Faultbox/animpack/pkg/math"
)

// Track classification thresholds. A track whose samples never deviate
// from the first sample by more than this per component is constant; a
// constant track sitting at the identity value is default.
const constantTrackThreshold = 0.00001

// ExtractBoneStreams converts a clip's raw keyframes into per-bone track
// streams, classifying each track as default, constant, or animated.
// Rotations are normalized and flipped to a non-negative scalar part so
// every drop-W variant packs the same hemisphere.
func ExtractBoneStreams(clip *anim.Clip) []BoneStreams {
	numBones := clip.NumBones()
	sampleRate := clip.SampleRate()
	streams := make([]BoneStreams, numBones)

	for boneIndex := 0; boneIndex < numBones; boneIndex++ {
		tracks := clip.Tracks(uint16(boneIndex))
		bone := &streams[boneIndex]

		rotations := make([]math.Vec4, len(tracks.Rotations))
		for i, q := range tracks.Rotations {
			rotations[i] = math.Vec4FromQuat(q.Normalize().EnsurePositiveW())
		}
		bone.Rotations, bone.RotationDefault, bone.RotationConstant =
			buildRotationStream(rotations, sampleRate)

		translations := make([]math.Vec4, len(tracks.Translations))
		for i, v := range tracks.Translations {
			translations[i] = math.Vec4FromVec3(v)
		}
		bone.Translations, bone.TranslationDefault, bone.TranslationConstant =
			buildVectorStream(translations, sampleRate, math.Vec4{})

		scales := make([]math.Vec4, len(tracks.Scales))
		for i, v := range tracks.Scales {
			scales[i] = math.Vec4FromVec3(v)
		}
		bone.Scales, bone.ScaleDefault, bone.ScaleConstant =
			buildVectorStream(scales, sampleRate, math.Vec4{X: 1, Y: 1, Z: 1})
	}

	return streams
}

func buildRotationStream(samples []math.Vec4, sampleRate float32) (RotationTrackStream, bool, bool) {
	identity := math.Vec4FromQuat(math.QuatIdentity())
	if isDefaultTrack(samples, identity) {
		return RotationTrackStream{format: RotationQuat128}, true, false
	}

	stream := NewRawRotationStream(len(samples), sampleRate)
	for i, s := range samples {
		stream.SetRawSample(i, s)
	}
	return stream, false, isConstantTrack(samples)
}

func buildVectorStream(samples []math.Vec4, sampleRate float32, identity math.Vec4) (TranslationTrackStream, bool, bool) {
	if isDefaultTrack(samples, identity) {
		return TranslationTrackStream{format: Vector3_96}, true, false
	}

	stream := NewRawTranslationStream(len(samples), sampleRate)
	for i, s := range samples {
		stream.SetRawSample(i, s)
	}
	return stream, false, isConstantTrack(samples)
}

func isConstantTrack(samples []math.Vec4) bool {
	if len(samples) <= 1 {
		return true
	}
	first := samples[0]
	for _, s := range samples[1:] {
		if !nearEqual(s, first, constantTrackThreshold) {
			return false
		}
	}
	return true
}

func isDefaultTrack(samples []math.Vec4, identity math.Vec4) bool {
	if len(samples) == 0 {
		return true
	}
	for _, s := range samples {
		if !nearEqual(s, identity, constantTrackThreshold) {
			return false
		}
	}
	return true
}

func nearEqual(a, b math.Vec4, threshold float32) bool {
	return abs(a.X-b.X) <= threshold &&
		abs(a.Y-b.Y) <= threshold &&
		abs(a.Z-b.Z) <= threshold &&
		abs(a.W-b.W) <= threshold
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
