package compress

// BoneStreams groups the tracks of a single skeletal joint together with
// their classification flags. For each track kind exactly one of default,
// constant, or animated holds:
//
//   - default: the track is absent and decodes to the identity value
//   - constant: every sample is equal; stored at full precision
//   - animated: the track participates in the quantization search
type BoneStreams struct {
	Rotations    RotationTrackStream
	Translations TranslationTrackStream
	Scales       TranslationTrackStream

	RotationDefault     bool
	RotationConstant    bool
	TranslationDefault  bool
	TranslationConstant bool
	ScaleDefault        bool
	ScaleConstant       bool
}

// IsRotationAnimated reports whether the rotation track takes part in the
// variable-rate search.
func (b *BoneStreams) IsRotationAnimated() bool {
	return !b.RotationDefault && !b.RotationConstant
}

// IsTranslationAnimated reports whether the translation track takes part
// in the variable-rate search.
func (b *BoneStreams) IsTranslationAnimated() bool {
	return !b.TranslationDefault && !b.TranslationConstant
}

// IsScaleAnimated reports whether the scale track changes over the clip.
func (b *BoneStreams) IsScaleAnimated() bool {
	return !b.ScaleDefault && !b.ScaleConstant
}

// Duplicate deep-copies the owned tracks. The duplicate is what the search
// mutates; the original stays untouched as the requantization source.
func (b *BoneStreams) Duplicate() BoneStreams {
	dup := *b
	dup.Rotations = b.Rotations.Duplicate()
	dup.Translations = b.Translations.Duplicate()
	dup.Scales = b.Scales.Duplicate()
	return dup
}
