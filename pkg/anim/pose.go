package anim

import "github.com/Faultbox/animpack/pkg/math"

// Pose holds one local-space transform per bone, indexed by bone index.
type Pose []math.Transform

// NewPose allocates a pose of the given size filled with identities.
func NewPose(numBones int) Pose {
	pose := make(Pose, numBones)
	for i := range pose {
		pose[i] = math.TransformIdentity()
	}
	return pose
}

// InterpolationKeys maps a sample time onto the two surrounding sample
// indices and the blend factor between them.
func InterpolationKeys(numSamples int, sampleRate, t float32) (key0, key1 int, alpha float32) {
	if numSamples <= 1 {
		return 0, 0, 0
	}
	offset := t * sampleRate
	key0 = int(offset)
	if key0 >= numSamples-1 {
		return numSamples - 1, numSamples - 1, 0
	}
	if key0 < 0 {
		key0 = 0
	}
	return key0, key0 + 1, offset - float32(key0)
}
