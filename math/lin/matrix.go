package lin

// Matrix provides the dense 2x2 and 3x3 matrices used to build effective
// masses for 2- and 3-row constraints (Mat2 for contact manifolds and the
// pivot/slider joints, Mat3 for the fixed joint). The rotation cached on
// every Object is the separate Rot2 type (see rot2.go).
//
// Row-major, so that applying a matrix m to a vector v gives:
//
//	x' = v.X*m.Xx + v.Y*m.Xy
//	y' = v.X*m.Yx + v.Y*m.Yy

import "math"

// Mat2 is a 2x2 matrix where the elements are individually addressable.
type Mat2 struct {
	Xx, Xy float64 // row 0
	Yx, Yy float64 // row 1
}

// Mat3 is a 3x3 matrix where the elements are individually addressable.
type Mat3 struct {
	Xx, Xy, Xz float64 // row 0
	Yx, Yy, Yz float64 // row 1
	Zx, Zy, Zz float64 // row 2
}

// SetS (=) explicitly sets the matrix scalar values. The updated matrix m
// is returned.
func (m *Mat2) SetS(xx, xy, yx, yy float64) *Mat2 {
	m.Xx, m.Xy, m.Yx, m.Yy = xx, xy, yx, yy
	return m
}

// Set (=, copy) sets m to have the same values as a. The updated matrix m
// is returned.
func (m *Mat2) Set(a *Mat2) *Mat2 {
	*m = *a
	return m
}

// Det returns the determinant of m.
func (m *Mat2) Det() float64 { return m.Xx*m.Yy - m.Xy*m.Yx }

// Inv sets m to the inverse of a. Leaves m unset and returns false if a has
// no inverse (determinant too close to zero).
func (m *Mat2) Inv(a *Mat2) bool {
	det := a.Det()
	if math.Abs(det) < Epsilon {
		return false
	}
	inv := 1 / det
	xx, xy := a.Yy*inv, -a.Xy*inv
	yx, yy := -a.Yx*inv, a.Xx*inv
	m.Xx, m.Xy, m.Yx, m.Yy = xx, xy, yx, yy
	return true
}

// MulMat2 sets v to the matrix-vector product m*a. The updated vector v is
// returned.
func (v *Vec2) MulMat2(m *Mat2, a *Vec2) *Vec2 {
	x, y := a.X*m.Xx+a.Y*m.Xy, a.X*m.Yx+a.Y*m.Yy
	v.X, v.Y = x, y
	return v
}

// SolveMat2 solves the 2x2 system m*x = b using a direct inverse, writing
// the solution into x. Returns false (leaving x unset) if m is singular.
func SolveMat2(m *Mat2, b *Vec2, x *Vec2) bool {
	var inv Mat2
	if !inv.Inv(m) {
		return false
	}
	x.MulMat2(&inv, b)
	return true
}

// SetS (=) explicitly sets the matrix scalar values. The updated matrix m
// is returned.
func (m *Mat3) SetS(xx, xy, xz, yx, yy, yz, zx, zy, zz float64) *Mat3 {
	m.Xx, m.Xy, m.Xz = xx, xy, xz
	m.Yx, m.Yy, m.Yz = yx, yy, yz
	m.Zx, m.Zy, m.Zz = zx, zy, zz
	return m
}

// Set (=, copy) sets m to have the same values as a. The updated matrix m
// is returned.
func (m *Mat3) Set(a *Mat3) *Mat3 {
	*m = *a
	return m
}

// Det returns the determinant of m.
//
// Wikipedia: "the determinant provides important information about a
// matrix that corresponds to a linear transformation of a vector space;
// the transformation has an inverse operation exactly when the
// determinant is nonzero."
func (m *Mat3) Det() float64 {
	return m.Xx*(m.Yy*m.Zz-m.Yz*m.Zy) - m.Xy*(m.Yx*m.Zz-m.Yz*m.Zx) + m.Xz*(m.Yx*m.Zy-m.Yy*m.Zx)
}

// Cof returns one of the possible cofactors of a 3x3 matrix given the
// input minor (the row and column removed from the calculation).
func (m *Mat3) Cof(row, col int) float64 {
	minor := row*10 + col
	switch minor {
	case 00:
		return m.Yy*m.Zz - m.Yz*m.Zy
	case 01:
		return m.Yz*m.Zx - m.Yx*m.Zz
	case 02:
		return m.Yx*m.Zy - m.Yy*m.Zx
	case 10:
		return m.Xz*m.Zy - m.Xy*m.Zz
	case 11:
		return m.Xx*m.Zz - m.Xz*m.Zx
	case 12:
		return m.Xy*m.Zx - m.Xx*m.Zy
	case 20:
		return m.Xy*m.Yz - m.Xz*m.Yy
	case 21:
		return m.Xz*m.Yx - m.Xx*m.Yz
	case 22:
		return m.Xx*m.Yy - m.Xy*m.Yx
	}
	return 0
}

// Inv sets m to the inverse of a, computed via the adjoint/determinant
// method. Leaves m unset and returns false if a has no inverse. For the
// small, nearly-diagonal effective-mass matrices built by the solver this
// is numerically adequate; Gaussian elimination with partial pivoting is
// used instead wherever a row can be closer to degenerate (see SolveMat3).
func (m *Mat3) Inv(a *Mat3) bool {
	det := a.Det()
	if math.Abs(det) < Epsilon {
		return false
	}
	s := 1 / det
	xx, xy, xz := a.Cof(0, 0)*s, a.Cof(1, 0)*s, a.Cof(2, 0)*s
	yx, yy, yz := a.Cof(0, 1)*s, a.Cof(1, 1)*s, a.Cof(2, 1)*s
	zx, zy, zz := a.Cof(0, 2)*s, a.Cof(1, 2)*s, a.Cof(2, 2)*s
	m.Xx, m.Xy, m.Xz = xx, xy, xz
	m.Yx, m.Yy, m.Yz = yx, yy, yz
	m.Zx, m.Zy, m.Zz = zx, zy, zz
	return true
}

// MulMat3 sets v to the matrix-vector product m*a. The updated vector v is
// returned.
func (v *Vec3) MulMat3(m *Mat3, a *Vec3) *Vec3 {
	x := a.X*m.Xx + a.Y*m.Xy + a.Z*m.Xz
	y := a.X*m.Yx + a.Y*m.Yy + a.Z*m.Yz
	z := a.X*m.Zx + a.Y*m.Zy + a.Z*m.Zz
	v.X, v.Y, v.Z = x, y, z
	return v
}

// SolveMat3 solves the 3x3 system m*x = b for x using Gaussian elimination
// with partial pivoting, which stays numerically stable for the
// near-singular rows that a grazing three-row fixed joint can produce.
// Returns false (leaving x unset) if m is singular to within Epsilon.
func SolveMat3(m *Mat3, b *Vec3, x *Vec3) bool {
	// augmented matrix, one row per equation.
	a := [3][4]float64{
		{m.Xx, m.Xy, m.Xz, b.X},
		{m.Yx, m.Yy, m.Yz, b.Y},
		{m.Zx, m.Zy, m.Zz, b.Z},
	}
	for col := 0; col < 3; col++ {
		pivot := col
		best := math.Abs(a[col][col])
		for row := col + 1; row < 3; row++ {
			if v := math.Abs(a[row][col]); v > best {
				pivot, best = row, v
			}
		}
		if best < Epsilon {
			return false
		}
		a[col], a[pivot] = a[pivot], a[col]
		for row := col + 1; row < 3; row++ {
			factor := a[row][col] / a[col][col]
			for k := col; k < 4; k++ {
				a[row][k] -= factor * a[col][k]
			}
		}
	}
	var sol [3]float64
	for row := 2; row >= 0; row-- {
		sum := a[row][3]
		for k := row + 1; k < 3; k++ {
			sum -= a[row][k] * sol[k]
		}
		sol[row] = sum / a[row][row]
	}
	x.X, x.Y, x.Z = sol[0], sol[1], sol[2]
	return true
}
