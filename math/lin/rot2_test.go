package lin

import (
	"math"
	"testing"
)

func TestNewRot2(t *testing.T) {
	r := NewRot2(math.Pi / 2)
	if !Aeq(r.Cos, 0) || !Aeq(r.Sin, 1) {
		t.Error("NewRot2")
	}
}

func TestRot2Set(t *testing.T) {
	var r Rot2
	r.Set(0)
	if !Aeq(r.Cos, 1) || !Aeq(r.Sin, 0) {
		t.Error("Rot2.Set")
	}
}

func TestApply(t *testing.T) {
	r := NewRot2(math.Pi / 2)
	v, a := &Vec2{}, &Vec2{1, 0}
	want := &Vec2{0, 1}
	if !v.Apply(&r, a).Aeq(want) {
		t.Errorf(format, v.Dump(), want.Dump())
	}
}

func TestApplyInverse(t *testing.T) {
	// rotating a vector by r, then by r's inverse, round-trips to the
	// original vector: rotMat(-theta).apply(rotMat(theta).apply(v)) ~= v.
	r := NewRot2(0.927)
	a := &Vec2{3, -2}
	rotated, back := &Vec2{}, &Vec2{}
	rotated.Apply(&r, a)
	back.ApplyInverse(&r, rotated)
	if !back.Aeq(a) {
		t.Errorf(format, back.Dump(), a.Dump())
	}
}
