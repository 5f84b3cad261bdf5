package lin

import "math"

// Rot2 is a cached 2D rotation matrix. Objects keep one alongside their
// scalar rotation angle so that repeated local/global conversions during a
// step don't re-evaluate sin/cos.
type Rot2 struct {
	Cos, Sin float64
}

// NewRot2 returns the rotation matrix for the given angle, in radians.
func NewRot2(angle float64) Rot2 {
	s, c := math.Sincos(angle)
	return Rot2{Cos: c, Sin: s}
}

// Set updates r to the rotation matrix for the given angle. The updated
// Rot2 r is returned.
func (r *Rot2) Set(angle float64) *Rot2 {
	r.Sin, r.Cos = math.Sincos(angle)
	return r
}

// Apply sets v to a rotated by r. The updated vector v is returned.
func (v *Vec2) Apply(r *Rot2, a *Vec2) *Vec2 {
	v.X, v.Y = a.X*r.Cos-a.Y*r.Sin, a.X*r.Sin+a.Y*r.Cos
	return v
}

// ApplyInverse sets v to a rotated by the inverse of r. A rotation matrix
// is orthonormal so its inverse is its transpose; no separate matrix needs
// to be built. The updated vector v is returned.
func (v *Vec2) ApplyInverse(r *Rot2, a *Vec2) *Vec2 {
	v.X, v.Y = a.X*r.Cos+a.Y*r.Sin, -a.X*r.Sin+a.Y*r.Cos
	return v
}
