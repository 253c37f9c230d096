package compress

import (
	"testing"

	"github.com/Faultbox/animpack/pkg/anim"
	"github.com/Faultbox/animpack/pkg/math"
)

func TestCollectStatsFixedFormats(t *testing.T) {
	skeleton := singleBoneSkeleton(t, 0.5)
	numSamples := 10

	bones := []anim.BoneTracks{{
		Rotations:    sweepRotations(math.Vec3{Y: 1}, 1.2, numSamples),
		Translations: sweepTranslations(numSamples),
	}}
	clip := mustClip(t, bones, 30, 1e-2)

	streams := ExtractBoneStreams(clip)
	if err := QuantizeStreams(streams, RotationQuatDropW48, Vector3_48, clip, skeleton); err != nil {
		t.Fatalf("quantize: %v", err)
	}

	stats, err := CollectStats(skeleton, clip, streams)
	if err != nil {
		t.Fatalf("collect stats: %v", err)
	}

	if stats.NumBones != 1 || stats.NumSamples != numSamples {
		t.Errorf("counts = %d bones, %d samples", stats.NumBones, stats.NumSamples)
	}
	if stats.AnimatedRotationTracks != 1 || stats.AnimatedTranslationTracks != 1 || stats.AnimatedScaleTracks != 0 {
		t.Errorf("track counts = %d/%d/%d, want 1/1/0",
			stats.AnimatedRotationTracks, stats.AnimatedTranslationTracks, stats.AnimatedScaleTracks)
	}

	// Two tracks of ten raw 16-byte samples against ten packed 6-byte ones
	if want := 2 * numSamples * RawSampleSize; stats.RawSize != want {
		t.Errorf("RawSize = %d, want %d", stats.RawSize, want)
	}
	if want := 2 * numSamples * 6; stats.CompressedSize != want {
		t.Errorf("CompressedSize = %d, want %d", stats.CompressedSize, want)
	}
	if ratio := stats.Ratio(); ratio < 2.6 || ratio > 2.7 {
		t.Errorf("Ratio() = %v, want 16/6", ratio)
	}

	for rate, count := range stats.BitRateHistogram {
		if count != 0 {
			t.Errorf("fixed formats filled the bit rate histogram at index %d", rate)
		}
	}
}

func TestCollectStatsVariableHistogram(t *testing.T) {
	skeleton := chainSkeleton(t, 0.2, 0.5)
	numSamples := 20
	threshold := float32(1e-2)

	bones := []anim.BoneTracks{
		{Rotations: sweepRotations(math.Vec3{Y: 1}, 1.5, numSamples), Translations: sweepTranslations(numSamples)},
		{Rotations: sweepRotations(math.Vec3{X: 1}, 0.9, numSamples)},
	}
	clip := mustClip(t, bones, 30, threshold)

	streams := ExtractBoneStreams(clip)
	if err := QuantizeStreams(streams, RotationQuatDropWVariable, Vector3Variable, clip, skeleton); err != nil {
		t.Fatalf("quantize: %v", err)
	}

	stats, err := CollectStats(skeleton, clip, streams)
	if err != nil {
		t.Fatalf("collect stats: %v", err)
	}

	variableTracks := 0
	for _, count := range stats.BitRateHistogram {
		variableTracks += count
	}
	if variableTracks != 3 {
		t.Errorf("histogram counts %d variable tracks, want 3", variableTracks)
	}

	// Variable sizes count the true bit width, so they beat the padded
	// in-memory stride
	if stats.CompressedSize >= stats.RawSize {
		t.Errorf("CompressedSize %d should undercut RawSize %d", stats.CompressedSize, stats.RawSize)
	}

	if stats.Error.Max > float64(threshold) {
		t.Errorf("Error.Max = %v exceeds the threshold %v the search met", stats.Error.Max, threshold)
	}
	if stats.Error.Median > stats.Error.Max || stats.Error.P99 > stats.Error.Max {
		t.Errorf("summary out of order: %+v", stats.Error)
	}
	if stats.Error.Mean < 0 || stats.Error.StdDev < 0 {
		t.Errorf("negative moments: %+v", stats.Error)
	}
}

func TestCollectStatsSkipsDefaultTracks(t *testing.T) {
	skeleton := chainSkeleton(t, 0.2, 0.5)
	numSamples := 6

	bones := []anim.BoneTracks{
		{Rotations: sweepRotations(math.Vec3{Y: 1}, 1.0, numSamples)},
		{},
	}
	clip := mustClip(t, bones, 30, 1e-2)

	streams := ExtractBoneStreams(clip)
	if err := QuantizeStreams(streams, RotationQuatDropW48, Vector3_48, clip, skeleton); err != nil {
		t.Fatalf("quantize: %v", err)
	}

	stats, err := CollectStats(skeleton, clip, streams)
	if err != nil {
		t.Fatalf("collect stats: %v", err)
	}

	if stats.AnimatedRotationTracks != 1 {
		t.Errorf("rotation tracks = %d, want 1", stats.AnimatedRotationTracks)
	}
	if stats.AnimatedTranslationTracks != 0 || stats.AnimatedScaleTracks != 0 {
		t.Errorf("default tracks counted: %d/%d",
			stats.AnimatedTranslationTracks, stats.AnimatedScaleTracks)
	}
	if want := numSamples * RawSampleSize; stats.RawSize != want {
		t.Errorf("RawSize = %d, want %d", stats.RawSize, want)
	}
}

func TestStatsRatioEmptyClip(t *testing.T) {
	var stats Stats
	if stats.Ratio() != 0 {
		t.Errorf("empty stats ratio = %v, want 0", stats.Ratio())
	}
}
