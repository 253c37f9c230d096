package compress

import (
	"github.com/Faultbox/animpack/pkg/bitpack"
	"github.com/Faultbox/animpack/pkg/math"
)

// RawSampleSize is the byte width of an unquantized sample: a full Vec4.
const RawSampleSize = 16

// trackStream owns a contiguous buffer of equal-width samples.
type trackStream struct {
	data       []byte
	numSamples int
	sampleSize int
	sampleRate float32
	bitRate    uint8
}

func newTrackStream(numSamples, sampleSize int, sampleRate float32, bitRate uint8) trackStream {
	return trackStream{
		data:       make([]byte, numSamples*sampleSize),
		numSamples: numSamples,
		sampleSize: sampleSize,
		sampleRate: sampleRate,
		bitRate:    bitRate,
	}
}

// NumSamples returns the sample count.
func (s *trackStream) NumSamples() int {
	return s.numSamples
}

// SampleSize returns the per-sample byte width.
func (s *trackStream) SampleSize() int {
	return s.sampleSize
}

// SampleRate returns the sampling frequency in Hz.
func (s *trackStream) SampleRate() float32 {
	return s.sampleRate
}

// BitRate returns the bit rate index. Only meaningful on variable formats.
func (s *trackStream) BitRate() uint8 {
	return s.bitRate
}

// IsEmpty reports whether the stream holds no samples.
func (s *trackStream) IsEmpty() bool {
	return s.numSamples == 0
}

// SampleBytes returns a mutable cursor into the i-th sample.
func (s *trackStream) SampleBytes(i int) []byte {
	offset := i * s.sampleSize
	return s.data[offset : offset+s.sampleSize]
}

// RawSample reads the i-th sample of an unquantized stream.
func (s *trackStream) RawSample(i int) math.Vec4 {
	return bitpack.UnpackVector4_128(s.SampleBytes(i))
}

// SetRawSample writes the i-th sample of an unquantized stream.
func (s *trackStream) SetRawSample(i int, v math.Vec4) {
	bitpack.PackVector4_128(v, s.SampleBytes(i))
}

func (s *trackStream) duplicate() trackStream {
	dup := *s
	dup.data = make([]byte, len(s.data))
	copy(dup.data, s.data)
	return dup
}

// RotationTrackStream is a rotation track tagged with its packing format.
type RotationTrackStream struct {
	trackStream
	format RotationFormat
}

// NewRotationStream allocates a rotation stream for the given format.
func NewRotationStream(numSamples int, sampleRate float32, format RotationFormat, bitRate uint8) RotationTrackStream {
	return RotationTrackStream{
		trackStream: newTrackStream(numSamples, format.PackedSize(), sampleRate, bitRate),
		format:      format,
	}
}

// NewRawRotationStream allocates an unquantized rotation stream holding
// full Vec4 samples.
func NewRawRotationStream(numSamples int, sampleRate float32) RotationTrackStream {
	return RotationTrackStream{
		trackStream: newTrackStream(numSamples, RawSampleSize, sampleRate, 0),
		format:      RotationQuat128,
	}
}

// Format returns the packing format.
func (s *RotationTrackStream) Format() RotationFormat {
	return s.format
}

// Duplicate deep-copies the stream.
func (s *RotationTrackStream) Duplicate() RotationTrackStream {
	return RotationTrackStream{trackStream: s.duplicate(), format: s.format}
}

// TranslationTrackStream is a translation or scale track tagged with its
// packing format.
type TranslationTrackStream struct {
	trackStream
	format VectorFormat
}

// NewTranslationStream allocates a vector stream for the given format.
func NewTranslationStream(numSamples int, sampleRate float32, format VectorFormat, bitRate uint8) TranslationTrackStream {
	return TranslationTrackStream{
		trackStream: newTrackStream(numSamples, format.PackedSize(), sampleRate, bitRate),
		format:      format,
	}
}

// NewRawTranslationStream allocates an unquantized vector stream holding
// full Vec4 samples.
func NewRawTranslationStream(numSamples int, sampleRate float32) TranslationTrackStream {
	return TranslationTrackStream{
		trackStream: newTrackStream(numSamples, RawSampleSize, sampleRate, 0),
		format:      Vector3_96,
	}
}

// Format returns the packing format.
func (s *TranslationTrackStream) Format() VectorFormat {
	return s.format
}

// Duplicate deep-copies the stream.
func (s *TranslationTrackStream) Duplicate() TranslationTrackStream {
	return TranslationTrackStream{trackStream: s.duplicate(), format: s.format}
}
