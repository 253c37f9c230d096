package compress

import (
	"github.com/Faultbox/animpack/pkg/anim"
	"github.com/Faultbox/animpack/pkg/math"
)

// BoneTrackError breaks a bone's pose error down by track kind.
type BoneTrackError struct {
	Rotation    float32
	Translation float32
	Scale       float32
}

// shellError measures how far the bone's virtual vertices drift between
// two object-space transforms. Two probe points at shell distance along
// the local X and Y axes catch rotation error around any single axis.
func shellError(raw, lossy math.Transform, shellDistance float32) float32 {
	vx := math.Vec3{X: shellDistance}
	vy := math.Vec3{Y: shellDistance}

	errX := raw.Apply(vx).Distance(lossy.Apply(vx))
	errY := raw.Apply(vy).Distance(lossy.Apply(vy))
	if errX > errY {
		return errX
	}
	return errY
}

// objectPose accumulates local transforms into object space. Bones are
// stored parents-first, so a single forward pass suffices.
func objectPose(skeleton *anim.RigidSkeleton, localPose anim.Pose, outObjectPose anim.Pose) {
	numBones := skeleton.NumBones()
	for boneIndex := 0; boneIndex < numBones; boneIndex++ {
		bone := skeleton.Bone(uint16(boneIndex))
		if bone.IsRoot() {
			outObjectPose[boneIndex] = localPose[boneIndex]
		} else {
			outObjectPose[boneIndex] = outObjectPose[bone.Parent].Mul(localPose[boneIndex])
		}
	}
}

// CalculateSkeletonError fills errorPerBone with the posed-skeleton error
// of every bone: the worst drift of its shell probes between the raw and
// lossy poses, measured in object space.
func CalculateSkeletonError(skeleton *anim.RigidSkeleton, rawLocalPose, lossyLocalPose anim.Pose, errorPerBone []float32) {
	numBones := skeleton.NumBones()
	rawObjectPose := make(anim.Pose, numBones)
	lossyObjectPose := make(anim.Pose, numBones)

	objectPose(skeleton, rawLocalPose, rawObjectPose)
	objectPose(skeleton, lossyLocalPose, lossyObjectPose)

	for boneIndex := 0; boneIndex < numBones; boneIndex++ {
		shell := skeleton.Bone(uint16(boneIndex)).ShellDistance
		errorPerBone[boneIndex] = shellError(rawObjectPose[boneIndex], lossyObjectPose[boneIndex], shell)
	}
}

// boneChain returns the bones from the root down to boneIndex, in
// root-first order. Parents strictly precede children in storage order,
// so the walk terminates.
func boneChain(skeleton *anim.RigidSkeleton, boneIndex uint16) []uint16 {
	var chain []uint16
	for index := boneIndex; index != anim.InvalidBoneIndex; index = skeleton.Bone(index).Parent {
		chain = append(chain, index)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// chainObjectTransform composes the local transforms along a root-first
// chain, optionally substituting a single component of one bone from the
// lossy pose.
func chainObjectTransform(chain []uint16, localPose anim.Pose, swapBone uint16, swap math.Transform, swapRotation, swapTranslation, swapScale bool) math.Transform {
	result := math.TransformIdentity()
	for _, boneIndex := range chain {
		local := localPose[boneIndex]
		if boneIndex == swapBone {
			if swapRotation {
				local.Rotation = swap.Rotation
			}
			if swapTranslation {
				local.Translation = swap.Translation
			}
			if swapScale {
				local.Scale = swap.Scale
			}
		}
		result = result.Mul(local)
	}
	return result
}

// CalculateSkeletonErrorContribution measures, for every bone on the
// chain from badBone up to the root, how much each of its tracks
// contributes to badBone's pose error. One track at a time is swapped
// from the raw pose to its lossy value and the drift at badBone's shell
// is recorded. Entries off the chain are zeroed.
func CalculateSkeletonErrorContribution(skeleton *anim.RigidSkeleton, rawLocalPose, lossyLocalPose anim.Pose, badBone uint16, errorPerStream []BoneTrackError) {
	for i := range errorPerStream {
		errorPerStream[i] = BoneTrackError{}
	}

	chain := boneChain(skeleton, badBone)
	shell := skeleton.Bone(badBone).ShellDistance
	reference := chainObjectTransform(chain, rawLocalPose, anim.InvalidBoneIndex, math.Transform{}, false, false, false)

	for _, boneIndex := range chain {
		lossy := lossyLocalPose[boneIndex]

		withRotation := chainObjectTransform(chain, rawLocalPose, boneIndex, lossy, true, false, false)
		withTranslation := chainObjectTransform(chain, rawLocalPose, boneIndex, lossy, false, true, false)
		withScale := chainObjectTransform(chain, rawLocalPose, boneIndex, lossy, false, false, true)

		errorPerStream[boneIndex] = BoneTrackError{
			Rotation:    shellError(reference, withRotation, shell),
			Translation: shellError(reference, withTranslation, shell),
			Scale:       shellError(reference, withScale, shell),
		}
	}
}
