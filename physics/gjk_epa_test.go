package physics

import (
	"math"
	"testing"

	"github.com/strata2d/strata2d/math/lin"
)

func circleAt(pos lin.Vec2, radius float64) *Circle {
	o := NewObject(1, 1, 0, 0, nil)
	o.Pos = pos
	return NewCircle(o, radius)
}

func TestGJKSeparatedCirclesNoCollision(t *testing.T) {
	a := circleAt(lin.Vec2{X: 0, Y: 0}, 1)
	b := circleAt(lin.Vec2{X: 5, Y: 0}, 1)
	col := evaluateCollision(a, b, broadphaseInitialDir)
	if col.Penetration >= 0 {
		t.Errorf("separated circles should not collide, got penetration %v", col.Penetration)
	}
}

func TestEPATwoCirclesPenetrationAndNormal(t *testing.T) {
	// Two unit-radius circles with centers 1.5 apart overlap by 0.5.
	a := circleAt(lin.Vec2{X: 0, Y: 0}, 1)
	b := circleAt(lin.Vec2{X: 1.5, Y: 0}, 1)
	col := evaluateCollision(a, b, broadphaseInitialDir)
	if col.Penetration < 0 {
		t.Fatal("overlapping circles should collide")
	}
	if math.Abs(col.Penetration-0.5) > 0.05 {
		t.Errorf("penetration: got %v want ~0.5", col.Penetration)
	}
	// normal points from B into A, i.e. roughly -X here.
	if col.Normal.X > -0.9 {
		t.Errorf("normal: got %+v want approximately {-1,0}", col.Normal)
	}
}

func TestEPAOverlappingCirclesAtOrigin(t *testing.T) {
	a := circleAt(lin.Vec2{X: -0.5, Y: 0}, 1)
	b := circleAt(lin.Vec2{X: 0.5, Y: 0}, 1)
	col := evaluateCollision(a, b, broadphaseInitialDir)
	if col.Penetration < 0 {
		t.Fatal("expected collision")
	}
	if math.Abs(col.Penetration-1) > 0.05 {
		t.Errorf("penetration: got %v want ~1", col.Penetration)
	}
}

func squarePolygon(obj *Object, halfExtent float64) *Polygon {
	pts := []lin.Vec2{
		{X: -halfExtent, Y: -halfExtent},
		{X: -halfExtent, Y: halfExtent},
		{X: halfExtent, Y: halfExtent},
		{X: halfExtent, Y: -halfExtent},
	}
	if !CheckWinding(pts) {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	return NewPolygon(obj, pts)
}

func TestCheckWindingMatchesBuiltSquare(t *testing.T) {
	o := NewObject(1, 1, 0, 0, nil)
	p := squarePolygon(o, 1)
	if !CheckWinding(p.Points) {
		t.Error("squarePolygon should build a clockwise-wound polygon")
	}
}

func TestGJKPolygonVsCircle(t *testing.T) {
	boxObj := NewObject(-1, -1, 0, 0.5, nil)
	box := squarePolygon(boxObj, 1)

	ballObj := NewObject(1, 1, 0, 0.5, nil)
	ballObj.Pos = lin.Vec2{X: 0, Y: 1.5}
	ball := NewCircle(ballObj, 1)

	col := evaluateCollision(ball, box, broadphaseInitialDir)
	if col.Penetration < 0 {
		t.Fatal("ball resting into the box's top face should collide")
	}
}
