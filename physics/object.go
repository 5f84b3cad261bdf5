package physics

// object.go implements the rigid body and its non-owning back-references
// to colliders and constraints. Ported from objects.cpp, objects.h.

import (
	"sync/atomic"

	"github.com/strata2d/strata2d/math/lin"
)

// nextObjectID hands out stable, monotonically increasing identities for
// Objects, used to key the world's contact-constraint map deterministically
// (see world.go) rather than by pointer address.
var nextObjectID uint64

func newObjectID() uint64 { return atomic.AddUint64(&nextObjectID, 1) }

// CollisionHandler is invoked for each narrow-phase hit found for an
// Object's pair. normal points from B into A's local collider; localA
// is the contact point in the callback's own object's local frame, and
// localB in the other object's. Returning true suppresses the default
// contact-constraint response for this pair this step.
type CollisionHandler func(self, other *Object, normal, localSelf, localOther lin.Vec2) bool

// Object is a 2D rigid body. It is also a leaf of the owning World's
// AABB tree (see aabb.go) — an Object's identity and its tree leaf's
// identity coincide, so no separate leaf allocation or leaf->body map
// is needed.
type Object struct {
	node // embeds the tree leaf; inner/outer kept current by updateBounds/updateOuter.

	id uint64

	mass, moment       float64
	invMass, invMoment float64

	Restitution float64
	Friction    float64

	Pos lin.Vec2
	Vel lin.Vec2
	Rot float64 // radians
	RotV float64

	rotMat lin.Rot2

	Colliders   []Collider
	constraints []Constraint

	OnCollision CollisionHandler
}

// NewObject returns a rigid body at the origin. A negative mass or
// moment marks the body static (infinite mass/inertia, invMass/invMoment
// become 0). onCollision may be nil.
func NewObject(mass, moment, restitution, friction float64, onCollision CollisionHandler) *Object {
	o := &Object{id: newObjectID(), Restitution: restitution, Friction: friction, OnCollision: onCollision}
	o.SetMass(mass)
	o.SetMoment(moment)
	o.rotMat = lin.NewRot2(0)
	o.updateBounds()
	return o
}

// ID returns the object's stable identity, assigned once at construction
// and used to key contact constraints deterministically.
func (o *Object) ID() uint64 { return o.id }

// Mass returns the body's mass, or -1 for a static body.
func (o *Object) Mass() float64 { return o.mass }

// InvMass returns the body's inverse mass, 0 for a static body.
func (o *Object) InvMass() float64 { return o.invMass }

// Moment returns the body's moment of inertia, or -1 for a static body.
func (o *Object) Moment() float64 { return o.moment }

// InvMoment returns the body's inverse moment of inertia, 0 for a static body.
func (o *Object) InvMoment() float64 { return o.invMoment }

// SetMass updates the body's mass and refreshes every constraint's
// cached effective-mass inputs.
func (o *Object) SetMass(mass float64) {
	if mass < 0 {
		o.mass, o.invMass = -1, 0
	} else {
		o.mass, o.invMass = mass, 1/mass
	}
	for _, c := range o.constraints {
		c.updateMassMatrix()
	}
}

// SetMoment updates the body's moment of inertia and refreshes every
// constraint's cached effective-mass inputs.
func (o *Object) SetMoment(moment float64) {
	if moment < 0 {
		o.moment, o.invMoment = -1, 0
	} else {
		o.moment, o.invMoment = moment, 1/moment
	}
	for _, c := range o.constraints {
		c.updateMassMatrix()
	}
}

// LocalToGlobal transforms a point from the body's local frame to world space.
func (o *Object) LocalToGlobal(point lin.Vec2) lin.Vec2 {
	var v lin.Vec2
	v.Apply(&o.rotMat, &point)
	v.Add(&v, &o.Pos)
	return v
}

// GlobalToLocal transforms a point from world space to the body's local frame.
func (o *Object) GlobalToLocal(point lin.Vec2) lin.Vec2 {
	var d, v lin.Vec2
	d.Sub(&point, &o.Pos)
	v.ApplyInverse(&o.rotMat, &d)
	return v
}

// LocalToGlobalVec rotates a free vector (no translation) into world space.
func (o *Object) LocalToGlobalVec(vec lin.Vec2) lin.Vec2 {
	var v lin.Vec2
	v.Apply(&o.rotMat, &vec)
	return v
}

// GlobalToLocalVec rotates a free vector (no translation) into local space.
func (o *Object) GlobalToLocalVec(vec lin.Vec2) lin.Vec2 {
	var v lin.Vec2
	v.ApplyInverse(&o.rotMat, &vec)
	return v
}

// Bounds returns the body's current tight (un-fattened) world AABB.
func (o *Object) Bounds() AABB { return o.inner }

// ApplyImpulse applies a linear impulse at the given world point,
// updating both linear and angular velocity.
func (o *Object) ApplyImpulse(impulse, point lin.Vec2) {
	o.Vel.X += impulse.X * o.invMass
	o.Vel.Y += impulse.Y * o.invMass
	var r lin.Vec2
	r.Sub(&point, &o.Pos)
	o.RotV += o.invMoment * r.Cross(&impulse)
}

// update integrates position/rotation for a still-moving body and
// refreshes its world bounds.
func (o *Object) update(stepSize float64) {
	if o.Vel.X == 0 && o.Vel.Y == 0 && o.RotV == 0 {
		return
	}
	o.Pos.X += o.Vel.X * stepSize
	o.Pos.Y += o.Vel.Y * stepSize
	o.Rot = lin.Nang(o.Rot + o.RotV*stepSize)
	o.rotMat.Set(o.Rot)
	o.updateBounds()
}

// updateConstraints applies every bilateral constraint in which this
// object participates as the A side; B-side application happens when
// that constraint's A object is visited.
func (o *Object) updateConstraints(baumgarteBias, slopP, slopR float64) {
	for _, c := range o.constraints {
		if c.bodyB() == o {
			continue
		}
		c.apply(baumgarteBias, slopP, slopR)
	}
}

// updateBounds recomputes the tight world AABB from every collider.
func (o *Object) updateBounds() {
	min := lin.Vec2{X: lin.Large, Y: lin.Large}
	max := lin.Vec2{X: -lin.Large, Y: -lin.Large}
	for _, c := range o.Colliders {
		lo, hi := c.Bounds()
		if lo.X < min.X {
			min.X = lo.X
		}
		if lo.Y < min.Y {
			min.Y = lo.Y
		}
		if hi.X > max.X {
			max.X = hi.X
		}
		if hi.Y > max.Y {
			max.Y = hi.Y
		}
	}
	o.inner = AABB{Lower: min, Upper: max}
}
