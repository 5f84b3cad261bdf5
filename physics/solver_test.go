package physics

import (
	"math"
	"testing"

	"github.com/strata2d/strata2d/math/lin"
)

func TestVelocityVectorRoundTrip(t *testing.T) {
	a := freeBody(lin.Vec2{X: 0, Y: 0})
	b := freeBody(lin.Vec2{X: 1, Y: 0})
	a.Vel = lin.Vec2{X: 1, Y: 2}
	a.RotV = 3
	b.Vel = lin.Vec2{X: 4, Y: 5}
	b.RotV = 6

	v := velocityVector(a, b)
	want := lin.Vec6{1, 2, 3, 4, 5, 6}
	if v != want {
		t.Errorf("velocityVector: got %v want %v", v, want)
	}

	var zero lin.Vec6
	setVelocity(a, b, zero)
	if a.Vel != (lin.Vec2{}) || a.RotV != 0 || b.Vel != (lin.Vec2{}) || b.RotV != 0 {
		t.Error("setVelocity should overwrite both bodies' velocity state")
	}
}

func TestResolveRowZeroesOutCoincidentVelocity(t *testing.T) {
	a := freeBody(lin.Vec2{X: 0, Y: 0})
	b := freeBody(lin.Vec2{X: 1, Y: 0})
	a.Vel = lin.Vec2{X: 5, Y: 0}

	j := lin.Vec6{-1, 0, 0, 1, 0, 0} // relative X-velocity constraint row.
	m := inverseMassVector(a, b)
	v := velocityVector(a, b)

	lambda := resolveRow(j, m, v, 0)
	delta := applyRow(j, m, lambda)
	v.AddScaled(&v, &delta, 1)
	setVelocity(a, b, v)

	relVx := b.Vel.X - a.Vel.X
	if math.Abs(relVx) > 1e-9 {
		t.Errorf("resolveRow/applyRow should drive the constrained relative velocity to zero, got %v", relVx)
	}
}

func TestResolveRowCachedMatchesResolveRow(t *testing.T) {
	a := freeBody(lin.Vec2{X: 0, Y: 0})
	b := freeBody(lin.Vec2{X: 1, Y: 0})
	a.Vel = lin.Vec2{X: 2, Y: -1}
	b.Vel = lin.Vec2{X: -3, Y: 4}

	j := lin.Vec6{-1, 0, 0.3, 1, 0, -0.1}
	m := inverseMassVector(a, b)
	v := velocityVector(a, b)

	var mj lin.Vec6
	mj.MulElem(&m, &j)

	want := resolveRow(j, m, v, 0.2)
	got := resolveRowCached(j, mj, v, 0.2)
	if math.Abs(want-got) > 1e-12 {
		t.Errorf("resolveRowCached: got %v want %v", got, want)
	}

	wantDelta := applyRow(j, m, want)
	gotDelta := applyRowCached(mj, got)
	if wantDelta != gotDelta {
		t.Errorf("applyRowCached: got %v want %v", gotDelta, wantDelta)
	}
}
