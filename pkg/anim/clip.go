package anim

import (
	"errors"
	"fmt"

	"github.com/Faultbox/animpack/pkg/math"
)

// Clip errors.
var (
	ErrNoBones          = errors.New("clip has no bone tracks")
	ErrBadSampleRate    = errors.New("clip sample rate must be positive")
	ErrTrackLength      = errors.New("track length does not match the clip sample count")
	ErrPoseSizeMismatch = errors.New("pose size does not match the clip bone count")
)

// BoneTracks holds the raw keyframes of one bone. A nil track means the
// bone holds its identity value for that kind.
type BoneTracks struct {
	Rotations    []math.Quat
	Translations []math.Vec3
	Scales       []math.Vec3
}

// Clip is the uncompressed reference animation: uniformly sampled raw
// tracks for every bone, plus the error budget the compressor must honor.
type Clip struct {
	bones          []BoneTracks
	numSamples     int
	sampleRate     float32
	errorThreshold float32
}

// NewClip validates track lengths and wraps the data. Every non-nil track
// must carry the same number of samples.
func NewClip(bones []BoneTracks, sampleRate, errorThreshold float32) (*Clip, error) {
	if len(bones) == 0 {
		return nil, ErrNoBones
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrBadSampleRate, sampleRate)
	}

	numSamples := 0
	for _, tracks := range bones {
		for _, n := range []int{len(tracks.Rotations), len(tracks.Translations), len(tracks.Scales)} {
			if n == 0 {
				continue
			}
			if numSamples == 0 {
				numSamples = n
			} else if n != numSamples {
				return nil, fmt.Errorf("%w: %d != %d", ErrTrackLength, n, numSamples)
			}
		}
	}

	return &Clip{
		bones:          bones,
		numSamples:     numSamples,
		sampleRate:     sampleRate,
		errorThreshold: errorThreshold,
	}, nil
}

// NumBones returns the bone count.
func (c *Clip) NumBones() int {
	return len(c.bones)
}

// NumSamples returns the per-track sample count.
func (c *Clip) NumSamples() int {
	return c.numSamples
}

// SampleRate returns the sampling frequency in Hz.
func (c *Clip) SampleRate() float32 {
	return c.sampleRate
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float32 {
	if c.numSamples <= 1 {
		return 0
	}
	return float32(c.numSamples-1) / c.sampleRate
}

// ErrorThreshold returns the error budget in the same unit as the skeletal
// error metric.
func (c *Clip) ErrorThreshold() float32 {
	return c.errorThreshold
}

// SetErrorThreshold replaces the error budget. Tools use this to override
// the budget baked into an imported clip.
func (c *Clip) SetErrorThreshold(threshold float32) {
	c.errorThreshold = threshold
}

// Tracks returns the raw tracks of one bone.
func (c *Clip) Tracks(boneIndex uint16) BoneTracks {
	return c.bones[boneIndex]
}

// SamplePose fills outPose with the local transforms of every bone at the
// given time, blending raw keyframes the same way the decoder does:
// normalized linear interpolation for rotations, linear for the rest.
func (c *Clip) SamplePose(t float32, outPose Pose) error {
	if len(outPose) != len(c.bones) {
		return fmt.Errorf("%w: %d != %d", ErrPoseSizeMismatch, len(outPose), len(c.bones))
	}

	for i := range c.bones {
		tracks := &c.bones[i]
		transform := math.TransformIdentity()

		if n := len(tracks.Rotations); n > 0 {
			k0, k1, alpha := InterpolationKeys(n, c.sampleRate, t)
			transform.Rotation = tracks.Rotations[k0].Lerp(tracks.Rotations[k1], alpha)
		}
		if n := len(tracks.Translations); n > 0 {
			k0, k1, alpha := InterpolationKeys(n, c.sampleRate, t)
			transform.Translation = math.LerpVec3(tracks.Translations[k0], tracks.Translations[k1], alpha)
		}
		if n := len(tracks.Scales); n > 0 {
			k0, k1, alpha := InterpolationKeys(n, c.sampleRate, t)
			transform.Scale = math.LerpVec3(tracks.Scales[k0], tracks.Scales[k1], alpha)
		}

		outPose[i] = transform
	}
	return nil
}
