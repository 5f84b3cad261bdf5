package physics

import (
	"testing"

	"github.com/strata2d/strata2d/math/lin"
)

func TestAABBUnionCommutativeAssociativeIdempotent(t *testing.T) {
	a := AABB{Lower: lin.Vec2{X: 0, Y: 0}, Upper: lin.Vec2{X: 1, Y: 1}}
	b := AABB{Lower: lin.Vec2{X: -1, Y: 0.5}, Upper: lin.Vec2{X: 2, Y: 3}}
	c := AABB{Lower: lin.Vec2{X: 5, Y: 5}, Upper: lin.Vec2{X: 6, Y: 6}}

	if Union(a, b) != Union(b, a) {
		t.Error("Union should be commutative")
	}
	if Union(Union(a, b), c) != Union(a, Union(b, c)) {
		t.Error("Union should be associative")
	}
	if Union(a, a) != a {
		t.Error("Union should be idempotent")
	}
}

func TestAABBExpandAndIntersects(t *testing.T) {
	a := AABB{Lower: lin.Vec2{X: 0, Y: 0}, Upper: lin.Vec2{X: 1, Y: 1}}
	expanded := a.Expand(1)
	want := AABB{Lower: lin.Vec2{X: -1, Y: -1}, Upper: lin.Vec2{X: 2, Y: 2}}
	if expanded != want {
		t.Errorf("Expand: got %+v want %+v", expanded, want)
	}

	touching := AABB{Lower: lin.Vec2{X: 1, Y: 0}, Upper: lin.Vec2{X: 2, Y: 1}}
	if a.Intersects(touching) {
		t.Error("boxes that only touch at an edge should not intersect (open intervals)")
	}
	overlapping := AABB{Lower: lin.Vec2{X: 0.5, Y: 0.5}, Upper: lin.Vec2{X: 2, Y: 2}}
	if !a.Intersects(overlapping) {
		t.Error("overlapping boxes should intersect")
	}
}

func TestAABBContains(t *testing.T) {
	outer := AABB{Lower: lin.Vec2{X: -5, Y: -5}, Upper: lin.Vec2{X: 5, Y: 5}}
	inner := AABB{Lower: lin.Vec2{X: -1, Y: -1}, Upper: lin.Vec2{X: 1, Y: 1}}
	if !outer.Contains(inner) {
		t.Error("outer should contain inner")
	}
	if inner.Contains(outer) {
		t.Error("inner should not contain outer")
	}
}

func dynamicBody(pos lin.Vec2) *Object {
	o := NewObject(1, 1, 0, 0.5, nil)
	o.Pos = pos
	NewCircle(o, 1)
	o.updateBounds()
	return o
}

func TestTreeAddRemoveAndPairs(t *testing.T) {
	tree := NewTree(0.1)
	a := dynamicBody(lin.Vec2{X: 0, Y: 0})
	b := dynamicBody(lin.Vec2{X: 1.5, Y: 0})
	c := dynamicBody(lin.Vec2{X: 100, Y: 100})

	tree.Add(a)
	tree.Add(b)
	tree.Add(c)

	pairs := tree.ComputePairs()
	found := false
	for _, p := range pairs {
		if (p.A == a && p.B == b) || (p.A == b && p.B == a) {
			found = true
		}
		if p.A == c || p.B == c {
			t.Error("isolated body c should not pair with anything")
		}
	}
	if !found {
		t.Error("overlapping circles a,b should produce a broad-phase pair")
	}

	tree.Remove(b)
	for _, n := range tree.ComputePairs() {
		if n.A == b || n.B == b {
			t.Error("removed body should not appear in pairs")
		}
	}
}

func TestLeafOuterContainsInnerAfterUpdate(t *testing.T) {
	tree := NewTree(0.1)
	o := dynamicBody(lin.Vec2{X: 0, Y: 0})
	tree.Add(o)

	o.Pos.X += 0.05 // small motion, stays within fattened box.
	o.updateBounds()
	tree.Update()
	if !o.node.outer.Contains(o.node.inner) {
		t.Error("leaf.outer should contain leaf.inner after Update")
	}

	o.Pos.X += 50 // large motion, forces reinsertion.
	o.updateBounds()
	tree.Update()
	if !o.node.outer.Contains(o.node.inner) {
		t.Error("leaf.outer should contain leaf.inner after reinsertion")
	}
}
