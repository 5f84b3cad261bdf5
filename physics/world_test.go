package physics

import (
	"math"
	"testing"

	"github.com/strata2d/strata2d/math/lin"
)

func TestNewContactKeyCanonicalOrdering(t *testing.T) {
	a := NewObject(1, 1, 0, 0, nil)
	b := NewObject(1, 1, 0, 0, nil)
	if newContactKey(a, b) != newContactKey(b, a) {
		t.Error("newContactKey should not depend on argument order")
	}
}

func TestCombinePropertiesSymmetricZeroIdempotent(t *testing.T) {
	if combineProperties(0.4, 0.9) != combineProperties(0.9, 0.4) {
		t.Error("combineProperties should be symmetric")
	}
	if combineProperties(0, 0.5) != 0 {
		t.Error("combineProperties should be zero if either input is zero")
	}
	if math.Abs(combineProperties(0.3, 0.3)-0.3) > 1e-12 {
		t.Error("combineProperties should be idempotent")
	}
}

func TestBallDropSettlesOnGround(t *testing.T) {
	w := NewWorld(lin.Vec2{X: 0, Y: -10}, 0.2, 10, 0.005, 0, 0.1)

	ground := NewObject(-1, -1, 0, 0.5, nil)
	ground.Pos = lin.Vec2{X: 0, Y: 0}
	groundPts := []lin.Vec2{{X: -10, Y: -1}, {X: -10, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: -1}}
	if !CheckWinding(groundPts) {
		for i, j := 0, len(groundPts)-1; i < j; i, j = i+1, j-1 {
			groundPts[i], groundPts[j] = groundPts[j], groundPts[i]
		}
	}
	NewPolygon(ground, groundPts)
	w.AddObject(ground)

	ball := NewObject(1, 1, 0.2, 0.3, nil)
	ball.Pos = lin.Vec2{X: 0, Y: 5}
	NewCircle(ball, 1)
	w.AddObject(ball)

	const stepSize = 1.0 / 60.0
	for i := 0; i < 600; i++ {
		w.Update(stepSize)
	}

	if ball.Pos.Y < 0.8 || ball.Pos.Y > 1.3 {
		t.Errorf("ball should settle resting on the ground (center near y=1), got y=%v", ball.Pos.Y)
	}
	if math.Abs(ball.Vel.Y) > 0.5 {
		t.Errorf("a settled ball should have near-zero vertical velocity, got %v", ball.Vel.Y)
	}
}

func TestRemoveObjectClearsItsContacts(t *testing.T) {
	w := NewWorld(lin.Vec2{}, 0.2, 4, 0.005, 0, 0.1)

	a := NewObject(-1, -1, 0, 0.5, nil)
	a.Pos = lin.Vec2{X: 0, Y: 0}
	NewCircle(a, 1)
	w.AddObject(a)

	b := NewObject(1, 1, 0, 0.5, nil)
	b.Pos = lin.Vec2{X: 1, Y: 0}
	NewCircle(b, 1)
	w.AddObject(b)

	w.Update(1.0 / 60)
	if len(w.Contacts()) == 0 {
		t.Fatal("overlapping circles should produce a contact")
	}

	w.RemoveObject(b)
	for _, c := range w.Contacts() {
		if c.objA == b || c.objB == b {
			t.Error("RemoveObject should drop every contact referencing the removed body")
		}
	}
}

func TestWorldClearEmptiesEverything(t *testing.T) {
	w := NewWorld(lin.Vec2{}, 0.2, 4, 0.005, 0, 0.1)
	a := NewObject(1, 1, 0, 0, nil)
	NewCircle(a, 1)
	w.AddObject(a)
	w.Clear()
	if len(w.Objects()) != 0 {
		t.Error("Clear should empty the object list")
	}
	if len(w.Contacts()) != 0 {
		t.Error("Clear should empty the contact map")
	}
}
