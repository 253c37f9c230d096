package compress

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Faultbox/animpack/pkg/anim"
)

// ErrorSummary describes the distribution of per-bone pose errors measured
// over every sample of a clip.
type ErrorSummary struct {
	Max    float64
	Mean   float64
	StdDev float64
	Median float64
	P99    float64
}

// Stats is a per-clip compression summary.
type Stats struct {
	NumBones   int
	NumSamples int

	// AnimatedRotationTracks counts tracks that survived classification;
	// default tracks are excluded from both sizes below.
	AnimatedRotationTracks    int
	AnimatedTranslationTracks int
	AnimatedScaleTracks       int

	// RawSize is the byte size of the animated tracks before quantization.
	// CompressedSize is their packed size, counting variable tracks at
	// their true bit width rather than their padded in-memory stride.
	RawSize        int
	CompressedSize int

	// BitRateHistogram counts variable tracks per bit rate index.
	BitRateHistogram [HighestBitRate + 1]int

	Error ErrorSummary
}

// Ratio returns the compression ratio, or zero for an empty clip.
func (s *Stats) Ratio() float64 {
	if s.CompressedSize == 0 {
		return 0
	}
	return float64(s.RawSize) / float64(s.CompressedSize)
}

// packedBits returns the true bit width of one sample at the given stride
// and bit rate. Variable samples occupy a padded stride in memory but only
// three bitRate-sized components on the wire.
func packedBits(sampleSize int, variable bool, bitRate uint8) int {
	if variable {
		return 3 * int(BitsAtBitRate(bitRate))
	}
	return sampleSize * 8
}

func trackSizes(numSamples, sampleSize int, variable bool, bitRate uint8) (raw, compressed int) {
	raw = numSamples * RawSampleSize
	compressed = (numSamples*packedBits(sampleSize, variable, bitRate) + 7) / 8
	return raw, compressed
}

// CollectStats measures a quantized stream set against its source clip:
// track counts and sizes from the streams, error distribution from
// re-sampling every keyframe and comparing posed skeletons.
func CollectStats(skeleton *anim.RigidSkeleton, clip *anim.Clip, streams []BoneStreams) (Stats, error) {
	stats := Stats{
		NumBones:   clip.NumBones(),
		NumSamples: clip.NumSamples(),
	}

	for i := range streams {
		bone := &streams[i]

		if !bone.RotationDefault {
			stats.AnimatedRotationTracks++
			format := bone.Rotations.Format()
			raw, compressed := trackSizes(bone.Rotations.NumSamples(), format.PackedSize(), format.IsVariable(), bone.Rotations.BitRate())
			stats.RawSize += raw
			stats.CompressedSize += compressed
			if format.IsVariable() {
				stats.BitRateHistogram[bone.Rotations.BitRate()]++
			}
		}
		if !bone.TranslationDefault {
			stats.AnimatedTranslationTracks++
			format := bone.Translations.Format()
			raw, compressed := trackSizes(bone.Translations.NumSamples(), format.PackedSize(), format.IsVariable(), bone.Translations.BitRate())
			stats.RawSize += raw
			stats.CompressedSize += compressed
			if format.IsVariable() {
				stats.BitRateHistogram[bone.Translations.BitRate()]++
			}
		}
		if !bone.ScaleDefault {
			stats.AnimatedScaleTracks++
			format := bone.Scales.Format()
			raw, compressed := trackSizes(bone.Scales.NumSamples(), format.PackedSize(), format.IsVariable(), bone.Scales.BitRate())
			stats.RawSize += raw
			stats.CompressedSize += compressed
			if format.IsVariable() {
				stats.BitRateHistogram[bone.Scales.BitRate()]++
			}
		}
	}

	numBones := clip.NumBones()
	numSamples := clip.NumSamples()
	sampleRate := clip.SampleRate()

	rawPose := anim.NewPose(numBones)
	lossyPose := anim.NewPose(numBones)
	errorPerBone := make([]float32, numBones)
	errors := make([]float64, 0, numBones*numSamples)

	for sampleIndex := 0; sampleIndex < numSamples; sampleIndex++ {
		t := float32(sampleIndex) / sampleRate
		if err := clip.SamplePose(t, rawPose); err != nil {
			return Stats{}, err
		}
		if err := SampleStreams(streams, t, lossyPose); err != nil {
			return Stats{}, err
		}
		CalculateSkeletonError(skeleton, rawPose, lossyPose, errorPerBone)
		for _, e := range errorPerBone {
			errors = append(errors, float64(e))
		}
	}

	stats.Error = summarizeErrors(errors)
	return stats, nil
}

func summarizeErrors(errors []float64) ErrorSummary {
	if len(errors) == 0 {
		return ErrorSummary{}
	}
	sort.Float64s(errors)
	return ErrorSummary{
		Max:    errors[len(errors)-1],
		Mean:   stat.Mean(errors, nil),
		StdDev: stat.StdDev(errors, nil),
		Median: stat.Quantile(0.5, stat.Empirical, errors, nil),
		P99:    stat.Quantile(0.99, stat.Empirical, errors, nil),
	}
}
