package compress

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/animpack/pkg/anim"
	"github.com/Faultbox/animpack/pkg/bitpack"
)

// Quantization errors. These are precondition violations: the inputs are
// trusted, so hitting one means a caller bug, not bad data.
var (
	ErrRawSampleWidth    = errors.New("unexpected raw sample width")
	ErrVariableDispatch  = errors.New("variable format requires a bit rate dispatch")
	ErrBoneCountMismatch = errors.New("stream count does not match the skeleton bone count")
)

// quantizeFixedRotationStream rewrites a raw rotation stream at a fixed
// format. Drop-W variants pack the vector part only; the scalar part was
// flipped non-negative at extraction.
func quantizeFixedRotationStream(raw *RotationTrackStream, format RotationFormat) (RotationTrackStream, error) {
	if raw.SampleSize() != RawSampleSize {
		return RotationTrackStream{}, fmt.Errorf("%w: %d != %d", ErrRawSampleWidth, raw.SampleSize(), RawSampleSize)
	}

	numSamples := raw.NumSamples()
	quantized := NewRotationStream(numSamples, raw.SampleRate(), format, 0)

	for i := 0; i < numSamples; i++ {
		rotation := raw.RawSample(i)
		out := quantized.SampleBytes(i)

		switch format {
		case RotationQuat128:
			bitpack.PackVector4_128(rotation, out)
		case RotationQuatDropW96:
			bitpack.PackVector3_96(rotation, out)
		case RotationQuatDropW48:
			bitpack.PackVector3_48(rotation, out)
		case RotationQuatDropW32:
			bitpack.PackVector3_32(rotation, out)
		default:
			log.Error("invalid rotation format for fixed dispatch", zap.Stringer("format", format))
			return RotationTrackStream{}, fmt.Errorf("%w: %s", ErrVariableDispatch, format)
		}
	}

	return quantized, nil
}

// quantizeVariableRotationStream rewrites a raw rotation stream at the
// given bit rate index.
func quantizeVariableRotationStream(raw *RotationTrackStream, bitRate uint8) (RotationTrackStream, error) {
	if raw.SampleSize() != RawSampleSize {
		return RotationTrackStream{}, fmt.Errorf("%w: %d != %d", ErrRawSampleWidth, raw.SampleSize(), RawSampleSize)
	}

	numSamples := raw.NumSamples()
	quantized := NewRotationStream(numSamples, raw.SampleRate(), RotationQuatDropWVariable, bitRate)
	numBits := BitsAtBitRate(bitRate)

	for i := 0; i < numSamples; i++ {
		bitpack.PackVector3N(raw.RawSample(i), numBits, quantized.SampleBytes(i))
	}

	return quantized, nil
}

// quantizeFixedTranslationStream rewrites a raw vector stream at a fixed
// format.
func quantizeFixedTranslationStream(raw *TranslationTrackStream, format VectorFormat) (TranslationTrackStream, error) {
	if raw.SampleSize() != RawSampleSize {
		return TranslationTrackStream{}, fmt.Errorf("%w: %d != %d", ErrRawSampleWidth, raw.SampleSize(), RawSampleSize)
	}

	numSamples := raw.NumSamples()
	quantized := NewTranslationStream(numSamples, raw.SampleRate(), format, 0)

	for i := 0; i < numSamples; i++ {
		translation := raw.RawSample(i)
		out := quantized.SampleBytes(i)

		switch format {
		case Vector3_96:
			bitpack.PackVector3_96(translation, out)
		case Vector3_48:
			bitpack.PackVector3_48(translation, out)
		case Vector3_32:
			bitpack.PackVector3_32(translation, out)
		default:
			log.Error("invalid vector format for fixed dispatch", zap.Stringer("format", format))
			return TranslationTrackStream{}, fmt.Errorf("%w: %s", ErrVariableDispatch, format)
		}
	}

	return quantized, nil
}

// quantizeVariableTranslationStream rewrites a raw vector stream at the
// given bit rate index.
func quantizeVariableTranslationStream(raw *TranslationTrackStream, bitRate uint8) (TranslationTrackStream, error) {
	if raw.SampleSize() != RawSampleSize {
		return TranslationTrackStream{}, fmt.Errorf("%w: %d != %d", ErrRawSampleWidth, raw.SampleSize(), RawSampleSize)
	}

	numSamples := raw.NumSamples()
	quantized := NewTranslationStream(numSamples, raw.SampleRate(), Vector3Variable, bitRate)
	numBits := BitsAtBitRate(bitRate)

	for i := 0; i < numSamples; i++ {
		bitpack.PackVector3N(raw.RawSample(i), numBits, quantized.SampleBytes(i))
	}

	return quantized, nil
}

// quantizeFixedRotationStreams applies a fixed rotation format across all
// bones. Default tracks are skipped. Constant tracks pin to the highest
// precision of the format's variant so they drop out of the search's error
// budget.
func quantizeFixedRotationStreams(streams []BoneStreams, format RotationFormat) error {
	highest := format.Variant().HighestPrecision()

	for i := range streams {
		bone := &streams[i]
		if bone.RotationDefault {
			continue
		}

		target := format
		if bone.RotationConstant {
			target = highest
		}

		quantized, err := quantizeFixedRotationStream(&bone.Rotations, target)
		if err != nil {
			return err
		}
		bone.Rotations = quantized
	}
	return nil
}

// quantizeVariableRotationStreams applies one bit rate across all animated
// rotation tracks. Constants pin to the highest precision of the variant.
func quantizeVariableRotationStreams(streams []BoneStreams, bitRate uint8) error {
	highest := VariantQuatDropW.HighestPrecision()

	for i := range streams {
		bone := &streams[i]
		if bone.RotationDefault {
			continue
		}

		var err error
		if bone.RotationConstant {
			bone.Rotations, err = quantizeFixedRotationStream(&bone.Rotations, highest)
		} else {
			bone.Rotations, err = quantizeVariableRotationStream(&bone.Rotations, bitRate)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// quantizeFixedTranslationStreams applies a fixed vector format across all
// bones. Constant tracks keep all their samples and store them at full
// precision.
func quantizeFixedTranslationStreams(streams []BoneStreams, format VectorFormat) error {
	for i := range streams {
		bone := &streams[i]
		if bone.TranslationDefault {
			continue
		}

		target := format
		if bone.TranslationConstant {
			target = Vector3_96
		}

		quantized, err := quantizeFixedTranslationStream(&bone.Translations, target)
		if err != nil {
			return err
		}
		bone.Translations = quantized
	}
	return nil
}

// quantizeVariableTranslationStreams applies one bit rate across all
// animated translation tracks.
func quantizeVariableTranslationStreams(streams []BoneStreams, bitRate uint8) error {
	for i := range streams {
		bone := &streams[i]
		if bone.TranslationDefault {
			continue
		}

		var err error
		if bone.TranslationConstant {
			bone.Translations, err = quantizeFixedTranslationStream(&bone.Translations, Vector3_96)
		} else {
			bone.Translations, err = quantizeVariableTranslationStream(&bone.Translations, bitRate)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// quantizeScaleStreams packs scale tracks at full precision. Scale error
// compounds multiplicatively down the hierarchy, so scale never joins the
// variable-rate search.
func quantizeScaleStreams(streams []BoneStreams) error {
	for i := range streams {
		bone := &streams[i]
		if bone.ScaleDefault || bone.Scales.SampleSize() != RawSampleSize {
			continue
		}

		quantized, err := quantizeFixedTranslationStream(&bone.Scales, Vector3_96)
		if err != nil {
			return err
		}
		bone.Scales = quantized
	}
	return nil
}

// animatedNumSamples returns the sample count of the animated tracks.
func animatedNumSamples(streams []BoneStreams) int {
	for i := range streams {
		bone := &streams[i]
		if !bone.Rotations.IsEmpty() {
			return bone.Rotations.NumSamples()
		}
		if !bone.Translations.IsEmpty() {
			return bone.Translations.NumSamples()
		}
		if !bone.Scales.IsEmpty() {
			return bone.Scales.NumSamples()
		}
	}
	return 0
}

// trackKind identifies which track of a bone the search upgrades.
type trackKind uint8

const (
	trackRotation trackKind = iota
	trackTranslation
)

// quantizeVariableStreams runs the greedy precision-escalation search.
//
// Every variable track starts at the lowest bit rate. Each iteration finds
// the first bone whose posed error exceeds the threshold, asks the error
// metric which track along its ancestor chain is most to blame, and
// requantizes that track one bit rate higher from the raw source stream.
// Raising an ancestor helps every descendant, which keeps the total bit
// budget low.
func quantizeVariableStreams(streams []BoneStreams, rotationFormat RotationFormat, translationFormat VectorFormat, clip *anim.Clip, skeleton *anim.RigidSkeleton) error {
	numBones := len(streams)

	quantized := make([]BoneStreams, numBones)
	for i := range streams {
		quantized[i] = streams[i].Duplicate()
	}

	isRotationVariable := rotationFormat.IsVariable()
	isTranslationVariable := translationFormat.IsVariable()

	// Everything starts as coarse as possible
	if isRotationVariable {
		if err := quantizeVariableRotationStreams(quantized, LowestBitRate); err != nil {
			return err
		}
	} else {
		if err := quantizeFixedRotationStreams(quantized, rotationFormat); err != nil {
			return err
		}
	}

	if isTranslationVariable {
		if err := quantizeVariableTranslationStreams(quantized, LowestBitRate); err != nil {
			return err
		}
	} else {
		if err := quantizeFixedTranslationStreams(quantized, translationFormat); err != nil {
			return err
		}
	}

	if err := quantizeScaleStreams(quantized); err != nil {
		return err
	}

	numSamples := animatedNumSamples(streams)
	sampleRate := clip.SampleRate()
	clipDuration := clip.Duration()
	errorThreshold := clip.ErrorThreshold()

	rawLocalPose := make(anim.Pose, numBones)
	lossyLocalPose := make(anim.Pose, numBones)
	errorPerBone := make([]float32, numBones)
	errorPerStream := make([]BoneTrackError, numBones)
	lowResolutionBones := newBitset(numBones)

	iterations := 0

	for {
		// Find the first bone over the threshold, scanning samples in
		// order and bones root-first. The scan short-circuits on the
		// first offender; a whole-clip arg-max costs more for no
		// practical gain.
		badBone := anim.InvalidBoneIndex
		worstClipError := errorThreshold

		for sampleIndex := 0; sampleIndex < numSamples && badBone == anim.InvalidBoneIndex; sampleIndex++ {
			sampleTime := float32(sampleIndex) / sampleRate
			if sampleTime > clipDuration {
				sampleTime = clipDuration
			}

			// The clip is the truth, not the extracted streams: this
			// measures end-to-end error including any loss from
			// normalization and format conversion.
			if err := clip.SamplePose(sampleTime, rawLocalPose); err != nil {
				return err
			}
			if err := SampleStreams(quantized, sampleTime, lossyLocalPose); err != nil {
				return err
			}

			CalculateSkeletonError(skeleton, rawLocalPose, lossyLocalPose, errorPerBone)

			for boneIndex := 0; boneIndex < numBones; boneIndex++ {
				if errorPerBone[boneIndex] > worstClipError && !lowResolutionBones.test(boneIndex) {
					worstClipError = errorPerBone[boneIndex]
					badBone = uint16(boneIndex)
					break
				}
			}
		}

		if badBone == anim.InvalidBoneIndex {
			// Either the threshold is met or every remaining offender
			// is flagged low resolution
			break
		}

		iterations++

		// Blame the tracks along the chain from the bad bone to the
		// root, using the last sample pair examined
		CalculateSkeletonErrorContribution(skeleton, rawLocalPose, lossyLocalPose, badBone, errorPerStream)

		targetBone := anim.InvalidBoneIndex
		targetTrack := trackRotation
		worstTrackError := float32(0)

		for boneIndex := badBone; boneIndex != anim.InvalidBoneIndex; boneIndex = skeleton.Bone(boneIndex).Parent {
			bone := &quantized[boneIndex]

			if isRotationVariable && bone.IsRotationAnimated() &&
				bone.Rotations.BitRate() < HighestBitRate &&
				errorPerStream[boneIndex].Rotation > worstTrackError {
				targetBone = boneIndex
				targetTrack = trackRotation
				worstTrackError = errorPerStream[boneIndex].Rotation
			}

			if isTranslationVariable && bone.IsTranslationAnimated() &&
				bone.Translations.BitRate() < HighestBitRate &&
				errorPerStream[boneIndex].Translation > worstTrackError {
				targetBone = boneIndex
				targetTrack = trackTranslation
				worstTrackError = errorPerStream[boneIndex].Translation
			}
		}

		if targetBone == anim.InvalidBoneIndex {
			// Every upgrade path in the chain is exhausted. This happens
			// when one track kind is pinned to a lossy fixed format while
			// the other is variable: the variable tracks max out and the
			// residual error has nowhere to go. Rule the bone out and
			// keep going with the rest of the skeleton.
			lowResolutionBones.set(int(badBone))
			continue
		}

		// Requantize the chosen track one bit rate higher, always from
		// the raw source stream so error never compounds
		if targetTrack == trackRotation {
			newBitRate := quantized[targetBone].Rotations.BitRate() + 1
			stream, err := quantizeVariableRotationStream(&streams[targetBone].Rotations, newBitRate)
			if err != nil {
				return err
			}
			quantized[targetBone].Rotations = stream
		} else {
			newBitRate := quantized[targetBone].Translations.BitRate() + 1
			stream, err := quantizeVariableTranslationStream(&streams[targetBone].Translations, newBitRate)
			if err != nil {
				return err
			}
			quantized[targetBone].Translations = stream
		}
	}

	log.Debug("variable quantization converged",
		zap.Int("bones", numBones),
		zap.Int("iterations", iterations),
		zap.Int("low_resolution_bones", lowResolutionBones.count()))

	// Swap the working copy into the caller's streams
	for i := range streams {
		streams[i] = quantized[i]
	}
	return nil
}

// QuantizeStreams replaces every bone's tracks with their quantized
// equivalents. With two fixed formats this is a single batch rewrite;
// when either format is variable the greedy search drives each track to
// the lowest bit rate that keeps the posed-skeleton error under the
// clip's threshold.
func QuantizeStreams(streams []BoneStreams, rotationFormat RotationFormat, translationFormat VectorFormat, clip *anim.Clip, skeleton *anim.RigidSkeleton) error {
	if len(streams) != skeleton.NumBones() {
		return fmt.Errorf("%w: %d != %d", ErrBoneCountMismatch, len(streams), skeleton.NumBones())
	}

	if rotationFormat.IsVariable() || translationFormat.IsVariable() {
		return quantizeVariableStreams(streams, rotationFormat, translationFormat, clip, skeleton)
	}

	if err := quantizeFixedRotationStreams(streams, rotationFormat); err != nil {
		return err
	}
	if err := quantizeFixedTranslationStreams(streams, translationFormat); err != nil {
		return err
	}
	return quantizeScaleStreams(streams)
}
