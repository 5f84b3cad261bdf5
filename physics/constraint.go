package physics

// constraint.go implements the bilateral (always-enforced, not contact-like)
// joints a World can wire between two bodies: pivot, fixed, and slider,
// plus a CustomConstraint escape hatch for caller-defined per-step
// behavior. Ported from the BaseConstraint/PivotConstraint/FixedConstraint/
// SliderConstraint/CustomConstraint hierarchy in objects.h, objects.cpp.

import "github.com/strata2d/strata2d/math/lin"

// Constraint is a bilateral relationship enforced between two bodies every
// solver iteration. Unlike a ContactConstraint it carries no penetration
// slop and is never dropped once added — removing it is the caller's job
// (see Destroy).
type Constraint interface {
	// apply resolves one solver iteration's worth of velocity correction.
	apply(baumgarteBias, slopP, slopR float64)
	// updateMassMatrix recomputes the constraint's cached inverse
	// effective-mass input after either body's mass or moment changes.
	updateMassMatrix()
	bodyA() *Object
	bodyB() *Object
	// AllowCollision reports whether the broad phase should still raise
	// contacts between the constrained pair (false suppresses them).
	AllowCollision() bool
}

// base holds the fields and bookkeeping every Constraint variant shares:
// the two bodies, the cached diagonal inverse-mass vector M, and whether
// the pair should still collide through the contact solver.
type base struct {
	objA, objB     *Object
	allowCollision bool
	m              lin.Vec6
}

func newBase(objA, objB *Object, allowCollision bool) base {
	return base{objA: objA, objB: objB, allowCollision: allowCollision, m: inverseMassVector(objA, objB)}
}

func (b *base) updateMassMatrix()    { b.m = inverseMassVector(b.objA, b.objB) }
func (b *base) bodyA() *Object       { return b.objA }
func (b *base) bodyB() *Object       { return b.objB }
func (b *base) AllowCollision() bool { return b.allowCollision }

// register appends c onto both bodies' constraint lists, as the C++
// BaseConstraint constructor does.
func register(objA, objB *Object, c Constraint) {
	objA.constraints = append(objA.constraints, c)
	objB.constraints = append(objB.constraints, c)
}

// Destroy removes c from both its bodies' constraint lists. Callers must
// not reuse c afterwards.
func Destroy(c Constraint) {
	remove := func(o *Object) {
		for i, oc := range o.constraints {
			if oc == c {
				o.constraints = append(o.constraints[:i], o.constraints[i+1:]...)
				return
			}
		}
	}
	remove(c.bodyA())
	remove(c.bodyB())
}

// PivotConstraint pins a point on objA's frame to a point on objB's frame,
// the two bodies free to rotate about the shared point.
type PivotConstraint struct {
	base
	LocalA, LocalB lin.Vec2
}

// NewPivotConstraint pins objA's localA to objB's localB and registers the
// joint on both bodies.
func NewPivotConstraint(objA, objB *Object, localA, localB lin.Vec2) *PivotConstraint {
	c := &PivotConstraint{base: newBase(objA, objB, false), LocalA: localA, LocalB: localB}
	register(objA, objB, c)
	return c
}

func (c *PivotConstraint) apply(baumgarteBias, slopP, slopR float64) {
	rA := c.objA.LocalToGlobalVec(c.LocalA)
	rB := c.objB.LocalToGlobalVec(c.LocalB)
	v := velocityVector(c.objA, c.objB)

	j := [2]lin.Vec6{
		{-1, 0, rA.Y, 1, 0, -rB.Y},
		{0, -1, -rA.X, 0, 1, rB.X},
	}

	var d, biasTerm lin.Vec2
	d.Add(&c.objB.Pos, &rB)
	var aPlusRA lin.Vec2
	aPlusRA.Add(&c.objA.Pos, &rA)
	d.Sub(&d, &aPlusRA)
	biasTerm.Scale(&d, baumgarteBias)

	lambda := resolveRow2(j, c.m, v, biasTerm)
	delta := applyRow2(j, c.m, lambda)
	v.AddScaled(&v, &delta, 1)
	setVelocity(c.objA, c.objB, v)
}

// FixedConstraint welds objA and objB together rigidly: no relative
// translation or rotation.
type FixedConstraint struct {
	base
	LocalA, LocalB lin.Vec2
}

// NewFixedConstraint welds objA's localA to objB's localB.
func NewFixedConstraint(objA, objB *Object, localA, localB lin.Vec2) *FixedConstraint {
	c := &FixedConstraint{base: newBase(objA, objB, false), LocalA: localA, LocalB: localB}
	register(objA, objB, c)
	return c
}

func (c *FixedConstraint) apply(baumgarteBias, slopP, slopR float64) {
	rA := c.objA.LocalToGlobalVec(c.LocalA)
	rB := c.objB.LocalToGlobalVec(c.LocalB)
	v := velocityVector(c.objA, c.objB)

	j := [3]lin.Vec6{
		{-1, 0, rA.Y, 1, 0, -rB.Y},
		{0, -1, -rA.X, 0, 1, rB.X},
		{0, 0, -1, 0, 0, 1},
	}

	var d, linearBias lin.Vec2
	d.Add(&c.objB.Pos, &rB)
	var aPlusRA lin.Vec2
	aPlusRA.Add(&c.objA.Pos, &rA)
	d.Sub(&d, &aPlusRA)
	linearBias.Scale(&d, baumgarteBias)
	rotationBias := 2 * baumgarteBias * (c.objB.Rot - c.objA.Rot)
	bias := lin.Vec3{X: linearBias.X, Y: linearBias.Y, Z: rotationBias}

	lambda := resolveRow3(j, c.m, v, bias)
	delta := applyRow3(j, c.m, lambda)
	v.AddScaled(&v, &delta, 1)
	setVelocity(c.objA, c.objB, v)
}

// SliderConstraint keeps objB's localB on the line through objA's localA
// whose normal is objA's localN (in objA's local frame), while holding
// both bodies' rotation locked relative to each other, free to slide
// along the line.
type SliderConstraint struct {
	base
	LocalA, LocalB, LocalN lin.Vec2
}

// NewSliderConstraint constrains objB's localB to slide along the line
// through objA's localA perpendicular to localN (both in objA's local
// frame): the offset along localN is held at zero.
func NewSliderConstraint(objA, objB *Object, localA, localB, localN lin.Vec2) *SliderConstraint {
	c := &SliderConstraint{base: newBase(objA, objB, false), LocalA: localA, LocalB: localB, LocalN: localN}
	register(objA, objB, c)
	return c
}

func (c *SliderConstraint) apply(baumgarteBias, slopP, slopR float64) {
	rA := c.objA.LocalToGlobalVec(c.LocalA)
	rB := c.objB.LocalToGlobalVec(c.LocalB)
	normal := c.objA.LocalToGlobalVec(c.LocalN)
	v := velocityVector(c.objA, c.objB)

	var d, aPlusRA lin.Vec2
	d.Add(&c.objB.Pos, &rB)
	aPlusRA.Add(&c.objA.Pos, &rA)
	d.Sub(&d, &aPlusRA)

	var aPlusD lin.Vec2
	aPlusD.Add(&rA, &d)
	j1 := lin.Vec6{-normal.X, -normal.Y, -aPlusD.Cross(&normal), normal.X, normal.Y, rB.Cross(&normal)}
	j2 := lin.Vec6{0, 0, -1, 0, 0, 1}

	var j1m, j2m lin.Vec6
	j1m.MulElem(&c.m, &j1)
	j2m.MulElem(&c.m, &j2)

	mat := lin.Mat2{
		Xx: j1.Dot(&j1m), Xy: j1.Dot(&j2m),
		Yx: j2.Dot(&j1m), Yy: j2.Dot(&j2m),
	}
	bias := lin.Vec2{
		X: -j1.Dot(&v) - baumgarteBias*d.Dot(&normal),
		Y: -j2.Dot(&v) - 2*baumgarteBias*(c.objB.Rot-c.objA.Rot),
	}

	var lambda lin.Vec2
	if !lin.SolveMat2(&mat, &bias, &lambda) {
		return
	}

	var sum lin.Vec6
	for i := range sum {
		sum[i] = j1m[i]*lambda.X + j2m[i]*lambda.Y
	}
	v.AddScaled(&v, &sum, 1)
	setVelocity(c.objA, c.objB, v)
}

// CustomConstraint runs a caller-supplied callback each solver iteration
// instead of resolving a fixed Jacobian row, the Go equivalent of the C++
// CustomConstraint<T> template — a closure replaces the template's
// function-pointer-plus-value pair.
type CustomConstraint[T any] struct {
	base
	Value    T
	Callback func(value T, objA, objB *Object)
}

// NewCustomConstraint registers a constraint whose apply step simply
// invokes callback(value, objA, objB).
func NewCustomConstraint[T any](objA, objB *Object, value T, callback func(value T, objA, objB *Object)) *CustomConstraint[T] {
	c := &CustomConstraint[T]{base: newBase(objA, objB, false), Value: value, Callback: callback}
	register(objA, objB, c)
	return c
}

func (c *CustomConstraint[T]) apply(baumgarteBias, slopP, slopR float64) {
	c.Callback(c.Value, c.objA, c.objB)
}
