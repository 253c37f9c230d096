package math

// Transform is a local-space affine transform: rotation, translation, scale.
type Transform struct {
	Rotation    Quat
	Translation Vec3
	Scale       Vec3
}

// TransformIdentity returns the identity transform.
func TransformIdentity() Transform {
	return Transform{
		Rotation: QuatIdentity(),
		Scale:    Vec3{X: 1, Y: 1, Z: 1},
	}
}

// Mul composes two transforms: the result maps a point through other, then
// through t. With t as a parent object-space transform and other as a child
// local transform, the result is the child's object-space transform.
func (t Transform) Mul(other Transform) Transform {
	return Transform{
		Rotation:    t.Rotation.Mul(other.Rotation),
		Translation: t.Apply(other.Translation),
		Scale: Vec3{
			X: t.Scale.X * other.Scale.X,
			Y: t.Scale.Y * other.Scale.Y,
			Z: t.Scale.Z * other.Scale.Z,
		},
	}
}

// Apply transforms a point: scale, rotate, then translate.
func (t Transform) Apply(p Vec3) Vec3 {
	scaled := Vec3{X: p.X * t.Scale.X, Y: p.Y * t.Scale.Y, Z: p.Z * t.Scale.Z}
	return t.Rotation.Rotate(scaled).Add(t.Translation)
}

// Lerp interpolates between two transforms with the decoder's blend:
// normalized linear interpolation for the rotation, linear for the rest.
func (t Transform) Lerp(other Transform, alpha float32) Transform {
	return Transform{
		Rotation:    t.Rotation.Lerp(other.Rotation, alpha),
		Translation: LerpVec3(t.Translation, other.Translation, alpha),
		Scale:       LerpVec3(t.Scale, other.Scale, alpha),
	}
}
