package physics

// collider.go implements the convex shapes an Object can carry: a closed
// set of two shapes (Circle, Polygon) behind the Collider interface, so
// every support query is an interface method call. There is no tagged
// variant type. Ported from the CircleCollider/PolyCollider half of
// objects.cpp.

import "github.com/strata2d/strata2d/math/lin"

// Collider is a convex shape attached to an Object.
type Collider interface {
	// Support returns the shape's furthest point in local direction dir.
	Support(dir lin.Vec2) lin.Vec2
	// GlobalSupport returns the shape's furthest point along a world
	// direction, in world space.
	GlobalSupport(dir lin.Vec2) lin.Vec2
	// Bounds returns the collider's current world AABB as (lower, upper).
	Bounds() (lin.Vec2, lin.Vec2)
	// object returns the Object the collider is attached to, used by EPA
	// to rotate a world-space direction back into local space.
	object() *Object
}

// Circle is a circular collider of the given radius, centered on its
// owning Object.
type Circle struct {
	obj    *Object
	Radius float64
}

// NewCircle attaches a circular collider to obj and returns it.
func NewCircle(obj *Object, radius float64) *Circle {
	c := &Circle{obj: obj, Radius: radius}
	obj.Colliders = append(obj.Colliders, c)
	obj.updateBounds()
	return c
}

// Support implements Collider.
func (c *Circle) Support(dir lin.Vec2) lin.Vec2 {
	l := dir.Len()
	if l < lin.Epsilon {
		return lin.Vec2{}
	}
	var v lin.Vec2
	v.Scale(&dir, c.Radius/l)
	return v
}

// GlobalSupport implements Collider.
func (c *Circle) GlobalSupport(dir lin.Vec2) lin.Vec2 {
	s := c.Support(dir)
	var v lin.Vec2
	v.Add(&c.obj.Pos, &s)
	return v
}

func (c *Circle) object() *Object { return c.obj }

// Bounds implements Collider.
func (c *Circle) Bounds() (lin.Vec2, lin.Vec2) {
	size := lin.Vec2{X: c.Radius, Y: c.Radius}
	var lo, hi lin.Vec2
	lo.Sub(&c.obj.Pos, &size)
	hi.Add(&c.obj.Pos, &size)
	return lo, hi
}

// Polygon is a convex polygon collider with clockwise-wound vertices in
// the owning Object's local frame. Use CheckWinding to validate/flip
// caller-supplied point lists before constructing one.
type Polygon struct {
	obj    *Object
	Points []lin.Vec2
}

// NewPolygon attaches a convex polygon collider to obj. points must
// already be wound clockwise (see CheckWinding).
func NewPolygon(obj *Object, points []lin.Vec2) *Polygon {
	p := &Polygon{obj: obj, Points: points}
	obj.Colliders = append(obj.Colliders, p)
	obj.updateBounds()
	return p
}

// Support implements Collider.
func (p *Polygon) Support(dir lin.Vec2) lin.Vec2 {
	best := p.Points[0]
	bestDot := best.Dot(&dir)
	for _, pt := range p.Points[1:] {
		pt := pt
		if d := pt.Dot(&dir); d > bestDot {
			best, bestDot = pt, d
		}
	}
	return best
}

// GlobalSupport implements Collider: the direction is rotated into local
// space, supported, then the result is rotated and translated back out.
func (p *Polygon) GlobalSupport(dir lin.Vec2) lin.Vec2 {
	local := p.obj.GlobalToLocalVec(dir)
	s := p.Support(local)
	return p.obj.LocalToGlobal(s)
}

func (p *Polygon) object() *Object { return p.obj }

// Bounds implements Collider.
func (p *Polygon) Bounds() (lin.Vec2, lin.Vec2) {
	first := p.obj.LocalToGlobalVec(p.Points[0])
	minX, maxX := first.X, first.X
	minY, maxY := first.Y, first.Y
	for _, pt := range p.Points[1:] {
		w := p.obj.LocalToGlobalVec(pt)
		if w.X < minX {
			minX = w.X
		} else if w.X > maxX {
			maxX = w.X
		}
		if w.Y < minY {
			minY = w.Y
		} else if w.Y > maxY {
			maxY = w.Y
		}
	}
	lo := lin.Vec2{X: minX + p.obj.Pos.X, Y: minY + p.obj.Pos.Y}
	hi := lin.Vec2{X: maxX + p.obj.Pos.X, Y: maxY + p.obj.Pos.Y}
	return lo, hi
}

// CheckWinding reports whether polygon is wound clockwise (the
// convention every Polygon collider requires). Callers should reverse
// their point list if this returns false.
func CheckWinding(polygon []lin.Vec2) bool {
	total := 0.0
	a := polygon[len(polygon)-1]
	for _, b := range polygon {
		total += (b.X - a.X) * (a.Y + b.Y)
		a = b
	}
	return total > 0
}

// checkWindingTri is the 3-point form used by GJK to keep its simplex
// triangle in the solver's clockwise convention.
func checkWindingTri(a, b, c lin.Vec2) bool {
	total := (a.X-c.X)*(c.Y+a.Y) + (b.X-a.X)*(a.Y+b.Y) + (c.X-b.X)*(b.Y+c.Y)
	return total > 0
}
