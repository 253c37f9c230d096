package compress

import (
	"testing"

	"github.com/Faultbox/animpack/pkg/math"
)

func TestRawStreamRoundTrip(t *testing.T) {
	stream := NewRawRotationStream(3, 30)
	if stream.SampleSize() != RawSampleSize {
		t.Fatalf("raw sample size = %d, want %d", stream.SampleSize(), RawSampleSize)
	}

	v := math.Vec4{X: 0.1, Y: -0.2, Z: 0.3, W: 0.9}
	stream.SetRawSample(1, v)
	if got := stream.RawSample(1); got != v {
		t.Errorf("raw sample round trip changed the value: %v != %v", got, v)
	}
	if got := stream.RawSample(0); got != (math.Vec4{}) {
		t.Errorf("untouched sample should stay zero, got %v", got)
	}
}

func TestStreamSampleSizeFollowsFormat(t *testing.T) {
	rotation := NewRotationStream(4, 30, RotationQuatDropW48, 0)
	if rotation.SampleSize() != RotationQuatDropW48.PackedSize() {
		t.Errorf("rotation sample size = %d, want %d", rotation.SampleSize(), RotationQuatDropW48.PackedSize())
	}
	if rotation.Format() != RotationQuatDropW48 {
		t.Errorf("rotation format = %s", rotation.Format())
	}

	translation := NewTranslationStream(4, 30, Vector3Variable, 5)
	if translation.SampleSize() != Vector3Variable.PackedSize() {
		t.Errorf("translation sample size = %d, want %d", translation.SampleSize(), Vector3Variable.PackedSize())
	}
	if translation.BitRate() != 5 {
		t.Errorf("translation bit rate = %d, want 5", translation.BitRate())
	}
}

func TestStreamIsEmpty(t *testing.T) {
	var empty RotationTrackStream
	if !empty.IsEmpty() {
		t.Error("zero-value stream should be empty")
	}
	stream := NewRawRotationStream(1, 30)
	if stream.IsEmpty() {
		t.Error("allocated stream should not be empty")
	}
}

func TestStreamDuplicateIsIndependent(t *testing.T) {
	stream := NewRawTranslationStream(2, 30)
	stream.SetRawSample(0, math.Vec4{X: 1})
	stream.SetRawSample(1, math.Vec4{X: 2})

	dup := stream.Duplicate()
	dup.SetRawSample(0, math.Vec4{X: 99})

	if got := stream.RawSample(0); got != (math.Vec4{X: 1}) {
		t.Errorf("mutating the duplicate changed the original: %v", got)
	}
	if got := dup.RawSample(1); got != (math.Vec4{X: 2}) {
		t.Errorf("duplicate lost sample data: %v", got)
	}
	if dup.Format() != stream.Format() || dup.SampleRate() != stream.SampleRate() {
		t.Error("duplicate lost stream metadata")
	}
}

func TestBoneStreamsDuplicate(t *testing.T) {
	var bone BoneStreams
	bone.Rotations = NewRawRotationStream(2, 30)
	bone.Rotations.SetRawSample(0, math.Vec4{W: 1})
	bone.TranslationDefault = true
	bone.ScaleDefault = true

	dup := bone.Duplicate()
	dup.Rotations.SetRawSample(0, math.Vec4{X: 1})

	if got := bone.Rotations.RawSample(0); got != (math.Vec4{W: 1}) {
		t.Errorf("mutating the duplicate changed the original: %v", got)
	}
	if !dup.TranslationDefault || !dup.ScaleDefault {
		t.Error("duplicate lost classification flags")
	}
}

func TestBoneStreamsAnimatedPredicates(t *testing.T) {
	bone := BoneStreams{RotationConstant: true, TranslationDefault: true}
	if bone.IsRotationAnimated() {
		t.Error("constant rotation reported as animated")
	}
	if bone.IsTranslationAnimated() {
		t.Error("default translation reported as animated")
	}
	if !bone.IsScaleAnimated() {
		t.Error("unclassified scale should count as animated")
	}
}
