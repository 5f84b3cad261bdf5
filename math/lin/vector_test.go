package lin

import (
	"math"
	"testing"
)

// While the functions below are not complicated, they are foundational such
// that it is better to test each one of them than have the bugs discovered
// later from other code. Where applicable, check that the output vector can
// also be used as one or both of the input vectors.

func TestSetVec2(t *testing.T) {
	v, a := &Vec2{}, &Vec2{1, 2}
	if !v.Set(a).Eq(a) {
		t.Errorf(format, v.Dump(), a.Dump())
	}
}

func TestAddVec2(t *testing.T) {
	v, a, b, want := &Vec2{}, &Vec2{1, 2}, &Vec2{3, 4}, &Vec2{4, 6}
	if !v.Add(a, b).Eq(want) {
		t.Errorf(format, v.Dump(), want.Dump())
	}
	// v used as one of the inputs.
	if want = (&Vec2{7, 10}); !v.Add(v, b).Eq(want) {
		t.Errorf(format, v.Dump(), want.Dump())
	}
}

func TestSubVec2(t *testing.T) {
	v, a, b, want := &Vec2{}, &Vec2{3, 4}, &Vec2{1, 2}, &Vec2{2, 2}
	if !v.Sub(a, b).Eq(want) {
		t.Errorf(format, v.Dump(), want.Dump())
	}
}

func TestNegVec2(t *testing.T) {
	v, a, want := &Vec2{}, &Vec2{1, -2}, &Vec2{-1, 2}
	if !v.Neg(a).Eq(want) {
		t.Errorf(format, v.Dump(), want.Dump())
	}
}

func TestScaleVec2(t *testing.T) {
	v, a, want := &Vec2{}, &Vec2{1, 2}, &Vec2{2, 4}
	if !v.Scale(a, 2).Eq(want) {
		t.Errorf(format, v.Dump(), want.Dump())
	}
}

func TestDotVec2(t *testing.T) {
	a, b := &Vec2{1, 0}, &Vec2{0, 1}
	if !Aeq(a.Dot(b), 0) {
		t.Error("perpendicular vectors should have zero dot product")
	}
	c := &Vec2{2, 3}
	if !Aeq(c.Dot(c), 13) {
		t.Error("Dot")
	}
}

func TestCrossVec2(t *testing.T) {
	a, b := &Vec2{1, 0}, &Vec2{0, 1}
	if !Aeq(a.Cross(b), 1) || !Aeq(b.Cross(a), -1) {
		t.Error("Cross")
	}
}

func TestCrossS(t *testing.T) {
	v, r := &Vec2{}, &Vec2{1, 0}
	want := &Vec2{0, 2}
	if !v.CrossS(2, r).Eq(want) {
		t.Errorf(format, v.Dump(), want.Dump())
	}
}

func TestPerpVec2(t *testing.T) {
	v, a, want := &Vec2{}, &Vec2{1, 0}, &Vec2{0, 1}
	if !v.Perp(a).Eq(want) {
		t.Errorf(format, v.Dump(), want.Dump())
	}
}

func TestLenVec2(t *testing.T) {
	a := &Vec2{3, 4}
	if !Aeq(a.Len(), 5) {
		t.Error("Len")
	}
}

func TestUnitVec2(t *testing.T) {
	v, a := &Vec2{}, &Vec2{3, 4}
	v.Unit(a)
	if !Aeq(v.Len(), 1) {
		t.Error("Unit did not normalize to length 1")
	}
	// zero vector stays zero rather than producing NaN.
	zero := &Vec2{}
	if !v.Unit(zero).Eq(&Vec2{}) {
		t.Error("Unit of zero vector should remain zero")
	}
}

func TestRotatedVec2(t *testing.T) {
	v, a := &Vec2{}, &Vec2{1, 0}
	v.Rotated(a, math.Pi/2)
	want := &Vec2{0, 1}
	if !v.Aeq(want) {
		t.Errorf(format, v.Dump(), want.Dump())
	}
	// a full rotation by theta then -theta round-trips to the original.
	fwd, back := &Vec2{}, &Vec2{}
	fwd.Rotated(a, 0.73)
	back.Rotated(fwd, -0.73)
	if !back.Aeq(a) {
		t.Errorf(format, back.Dump(), a.Dump())
	}
}

func TestNewJacobian(t *testing.T) {
	n := &Vec2{0, 1}
	rA := &Vec2{1, 0}
	rB := &Vec2{-1, 0}
	j := NewJacobian(n, rA, rB)
	want := Vec6{0, -1, -1, 0, 1, -1}
	if j != want {
		t.Errorf("got %v wanted %v", j, want)
	}
}

func TestVec6Dot(t *testing.T) {
	a := Vec6{1, 2, 3, 4, 5, 6}
	b := Vec6{1, 1, 1, 1, 1, 1}
	if a.Dot(&b) != 21 {
		t.Error("Vec6.Dot")
	}
}

func TestVec6MulElem(t *testing.T) {
	var v Vec6
	a := Vec6{1, 2, 3, 4, 5, 6}
	b := Vec6{2, 2, 2, 2, 2, 2}
	want := Vec6{2, 4, 6, 8, 10, 12}
	if v.MulElem(&a, &b); v != want {
		t.Errorf("got %v wanted %v", v, want)
	}
}
