package decode

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/animpack/pkg/anim"
	"github.com/Faultbox/animpack/pkg/compress"
	"github.com/Faultbox/animpack/pkg/math"
)

func testStreams(t *testing.T) []compress.BoneStreams {
	t.Helper()
	numSamples := 10

	rotations := make([]math.Quat, numSamples)
	translations := make([]math.Vec3, numSamples)
	for i := range rotations {
		angle := 1.2 * float32(i) / float32(numSamples-1)
		rotations[i] = math.QuatFromAxisAngle(math.Vec3{Y: 1}, angle)
		translations[i] = math.Vec3{X: float32(i) * 0.1}
	}

	bones := []anim.BoneTracks{
		{Rotations: rotations, Translations: translations},
		{},
	}
	clip, err := anim.NewClip(bones, 30, 1e-3)
	if err != nil {
		t.Fatalf("building clip: %v", err)
	}
	return compress.ExtractBoneStreams(clip)
}

func TestDecodeIntoPoseMatchesStreamSampling(t *testing.T) {
	streams := testStreams(t)

	decoded := anim.NewPose(2)
	sampled := anim.NewPose(2)
	for _, sampleTime := range []float32{0, 0.05, 0.15, 10} {
		if err := DecodeIntoPose(streams, sampleTime, decoded); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if err := compress.SampleStreams(streams, sampleTime, sampled); err != nil {
			t.Fatalf("sample: %v", err)
		}

		for bone := range decoded {
			if dot := gomath.Abs(float64(decoded[bone].Rotation.Dot(sampled[bone].Rotation))); dot < 0.99999 {
				t.Errorf("t=%v bone %d: rotations diverge (|dot| = %v)", sampleTime, bone, dot)
			}
			if decoded[bone].Translation != sampled[bone].Translation {
				t.Errorf("t=%v bone %d: translation %v != %v", sampleTime, bone,
					decoded[bone].Translation, sampled[bone].Translation)
			}
			if decoded[bone].Scale != sampled[bone].Scale {
				t.Errorf("t=%v bone %d: scale %v != %v", sampleTime, bone,
					decoded[bone].Scale, sampled[bone].Scale)
			}
		}
	}
}

func TestDecodeIntoPoseDefaults(t *testing.T) {
	streams := testStreams(t)

	pose := anim.NewPose(2)
	pose[1].Translation = math.Vec3{X: 99}
	if err := DecodeIntoPose(streams, 0, pose); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if pose[1] != math.TransformIdentity() {
		t.Errorf("fully default bone should reset to the identity, got %+v", pose[1])
	}
}

func TestDecodeIntoPoseSizeMismatch(t *testing.T) {
	streams := testStreams(t)
	if err := DecodeIntoPose(streams, 0, anim.NewPose(5)); !errors.Is(err, anim.ErrPoseSizeMismatch) {
		t.Errorf("expected ErrPoseSizeMismatch, got %v", err)
	}
}

func TestDecodePoseNilWriter(t *testing.T) {
	streams := testStreams(t)
	if err := DecodePose(streams, 0, nil); err == nil {
		t.Fatal("expected an error for a nil writer")
	}
}

// recordingWriter counts writes and lets tests skip track kinds or bones.
type recordingWriter struct {
	skipAllTranslations bool
	skipBoneRotations   map[uint16]bool

	rotationWrites    int
	translationWrites int
	scaleWrites       int
}

func (w *recordingWriter) SkipAllRotations() bool    { return false }
func (w *recordingWriter) SkipAllTranslations() bool { return w.skipAllTranslations }
func (w *recordingWriter) SkipAllScales() bool       { return false }

func (w *recordingWriter) SkipBoneRotation(boneIndex uint16) bool { return w.skipBoneRotations[boneIndex] }
func (w *recordingWriter) SkipBoneTranslation(uint16) bool        { return false }
func (w *recordingWriter) SkipBoneScale(uint16) bool              { return false }

func (w *recordingWriter) WriteBoneRotation(uint16, math.Quat)    { w.rotationWrites++ }
func (w *recordingWriter) WriteBoneTranslation(uint16, math.Vec3) { w.translationWrites++ }
func (w *recordingWriter) WriteBoneScale(uint16, math.Vec3)       { w.scaleWrites++ }

func TestDecodePoseSkipAllTranslations(t *testing.T) {
	streams := testStreams(t)

	w := &recordingWriter{skipAllTranslations: true}
	if err := DecodePose(streams, 0, w); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if w.translationWrites != 0 {
		t.Errorf("skipped translations were written %d times", w.translationWrites)
	}
	if w.rotationWrites != 2 || w.scaleWrites != 2 {
		t.Errorf("unskipped tracks should write once per bone: %d rotations, %d scales",
			w.rotationWrites, w.scaleWrites)
	}
}

func TestDecodePoseSkipSingleBone(t *testing.T) {
	streams := testStreams(t)

	w := &recordingWriter{skipBoneRotations: map[uint16]bool{0: true}}
	if err := DecodePose(streams, 0, w); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if w.rotationWrites != 1 {
		t.Errorf("expected 1 rotation write with bone 0 skipped, got %d", w.rotationWrites)
	}
	if w.translationWrites != 2 || w.scaleWrites != 2 {
		t.Errorf("other tracks should be unaffected: %d translations, %d scales",
			w.translationWrites, w.scaleWrites)
	}
}
