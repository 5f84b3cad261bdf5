package lin

import "testing"

func TestSetSMat2(t *testing.T) {
	m, want := &Mat2{}, &Mat2{1, 2, 3, 4}
	if m.SetS(1, 2, 3, 4); *m != *want {
		t.Errorf(format, m.Dump(), want.Dump())
	}
}

func TestDetMat2(t *testing.T) {
	m := &Mat2{1, 2, 3, 4}
	if !Aeq(m.Det(), -2) {
		t.Error("Mat2.Det")
	}
}

func TestInvMat2(t *testing.T) {
	a := &Mat2{2, 0, 0, 4}
	var inv Mat2
	if !inv.Inv(a) {
		t.Fatal("expected invertible matrix")
	}
	// a.Inv().Inv() should round-trip to a.
	var back Mat2
	if !back.Inv(&inv) || !back.Aeq2(a) {
		t.Errorf(format, back.Dump(), a.Dump())
	}
	// singular matrix reports failure.
	singular := &Mat2{1, 1, 1, 1}
	if inv.Inv(singular) {
		t.Error("singular 2x2 matrix should not invert")
	}
}

func TestMulMat2(t *testing.T) {
	m := &Mat2{1, 0, 0, 1} // identity
	v, a := &Vec2{}, &Vec2{3, 4}
	if !v.MulMat2(m, a).Eq(a) {
		t.Errorf(format, v.Dump(), a.Dump())
	}
}

func TestSolveMat2(t *testing.T) {
	m := &Mat2{2, 0, 0, 4}
	b := &Vec2{4, 8}
	var x Vec2
	want := &Vec2{2, 2}
	if !SolveMat2(m, b, &x) || !x.Aeq(want) {
		t.Errorf(format, x.Dump(), want.Dump())
	}
}

func TestDetMat3(t *testing.T) {
	m := &Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
	if !Aeq(m.Det(), 1) {
		t.Error("Mat3.Det of identity should be 1")
	}
}

func TestInvMat3(t *testing.T) {
	a := &Mat3{2, 0, 0, 0, 3, 0, 0, 0, 4}
	var inv Mat3
	if !inv.Inv(a) {
		t.Fatal("expected invertible matrix")
	}
	want := &Mat3{0.5, 0, 0, 0, 1.0 / 3.0, 0, 0, 0, 0.25}
	if !inv.Aeq3(want) {
		t.Errorf(format, inv.Dump(), want.Dump())
	}
	singular := &Mat3{1, 1, 1, 1, 1, 1, 1, 1, 1}
	if inv.Inv(singular) {
		t.Error("singular 3x3 matrix should not invert")
	}
}

func TestMulMat3(t *testing.T) {
	m := &Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
	v, a := &Vec3{}, &Vec3{1, 2, 3}
	if !v.MulMat3(m, a).Eq(a) {
		t.Errorf(format, v.Dump(), a.Dump())
	}
}

func TestSolveMat3(t *testing.T) {
	m := &Mat3{2, 0, 0, 0, 4, 0, 0, 0, 8}
	b := &Vec3{4, 8, 8}
	var x Vec3
	want := &Vec3{2, 2, 1}
	if !SolveMat3(m, b, &x) || !x.Aeq(want) {
		t.Errorf(format, x.Dump(), want.Dump())
	}
	singular := &Mat3{1, 1, 1, 1, 1, 1, 2, 2, 2}
	if SolveMat3(singular, b, &x) {
		t.Error("singular 3x3 system should not solve")
	}
}

// ============================================================================
// test helpers

func (m *Mat2) Aeq2(a *Mat2) bool {
	return Aeq(m.Xx, a.Xx) && Aeq(m.Xy, a.Xy) && Aeq(m.Yx, a.Yx) && Aeq(m.Yy, a.Yy)
}

func (m *Mat3) Aeq3(a *Mat3) bool {
	return Aeq(m.Xx, a.Xx) && Aeq(m.Xy, a.Xy) && Aeq(m.Xz, a.Xz) &&
		Aeq(m.Yx, a.Yx) && Aeq(m.Yy, a.Yy) && Aeq(m.Yz, a.Yz) &&
		Aeq(m.Zx, a.Zx) && Aeq(m.Zy, a.Zy) && Aeq(m.Zz, a.Zz)
}

func (v *Vec3) Eq(a *Vec3) bool  { return v.X == a.X && v.Y == a.Y && v.Z == a.Z }
func (v *Vec3) Aeq(a *Vec3) bool { return Aeq(v.X, a.X) && Aeq(v.Y, a.Y) && Aeq(v.Z, a.Z) }
