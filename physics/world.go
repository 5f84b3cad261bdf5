package physics

// world.go implements World, the simulation's single entry point: it owns
// every Object, the broad-phase tree, the persistent contact constraints,
// and (via fluid.go) the fluid solver, and advances all of them together
// one discrete step at a time. Ported from physics.h, physics.cpp.

import (
	"math"

	"github.com/strata2d/strata2d/math/lin"
)

// contactKey canonically orders a body pair by stable id so the contact
// map never depends on broad-phase traversal order or pointer addresses.
type contactKey struct{ a, b uint64 }

func newContactKey(a, b *Object) contactKey {
	if a.id <= b.id {
		return contactKey{a.id, b.id}
	}
	return contactKey{b.id, a.id}
}

// combineProperties blends two bodies' friction or restitution into one
// value for their shared contact: symmetric, zero if either input is
// zero, and idempotent (combineProperties(a,a) == a).
func combineProperties(a, b float64) float64 { return math.Sqrt(a * b) }

// World owns every Object, constraint, and the fluid solver in a
// simulation, and is the only thing callers step.
type World struct {
	Gravity       lin.Vec2
	BaumgarteBias float64
	SolverSteps   int
	SlopP, SlopR  float64

	tree *Tree

	objects    []*Object
	objIndex   map[uint64]int
	contacts   map[contactKey]*ContactConstraint

	fluid *Fluid
}

// NewWorld returns an empty World. aabbMargin sizes the broad-phase tree's
// leaf fattening (see aabb.go).
func NewWorld(gravity lin.Vec2, baumgarteBias float64, solverSteps int, slopP, slopR, aabbMargin float64) *World {
	return &World{
		Gravity:       gravity,
		BaumgarteBias: baumgarteBias,
		SolverSteps:   solverSteps,
		SlopP:         slopP,
		SlopR:         slopR,
		tree:          NewTree(aabbMargin),
		objIndex:      make(map[uint64]int),
		contacts:      make(map[contactKey]*ContactConstraint),
		fluid:         newFluid(defaultSmoothingRadius),
	}
}

// Objects returns the world's current bodies. The slice is owned by the
// World; callers must not retain or mutate it.
func (w *World) Objects() []*Object { return w.objects }

// Contacts returns every contact manifold currently tracked, including
// ones with zero live points (kept so warm-start accumulators survive a
// brief separation without reallocating).
func (w *World) Contacts() []*ContactConstraint {
	out := make([]*ContactConstraint, 0, len(w.contacts))
	for _, c := range w.contacts {
		out = append(out, c)
	}
	return out
}

// AddObject gives obj to the world: it is inserted into the broad-phase
// tree and becomes eligible for stepping.
func (w *World) AddObject(obj *Object) {
	w.objIndex[obj.id] = len(w.objects)
	w.objects = append(w.objects, obj)
	w.tree.Add(obj)
}

// RemoveObject takes obj out of the world, cascading to every
// ContactConstraint that references it (bilateral Constraints are not
// world-owned — see constraint.go's Destroy — and must be destroyed by
// the caller first).
func (w *World) RemoveObject(obj *Object) {
	if i, ok := w.objIndex[obj.id]; ok {
		last := len(w.objects) - 1
		w.objects[i] = w.objects[last]
		w.objIndex[w.objects[i].id] = i
		w.objects = w.objects[:last]
		delete(w.objIndex, obj.id)
	}

	for key, c := range w.contacts {
		if c.objA == obj || c.objB == obj {
			delete(w.contacts, key)
		}
	}

	w.tree.Remove(obj)
}

// Clear empties the world of every object and contact.
func (w *World) Clear() {
	w.objects = w.objects[:0]
	w.objIndex = make(map[uint64]int)
	w.contacts = make(map[contactKey]*ContactConstraint)
	w.tree = NewTree(w.tree.Margin)
}

// broadphaseInitialDir is the fixed initial GJK search direction the
// source always starts from rather than deriving one from body
// positions.
var broadphaseInitialDir = lin.Vec2{X: 0.7, Y: 0.4}

// broadphase refreshes the tree and returns every pair of bodies whose
// tight boxes overlap, excluding static-static pairs and pairs already
// linked by a non-allowCollision bilateral constraint.
func (w *World) broadphase() []ObjectPair {
	w.tree.Update()

	pairs := w.tree.ComputePairs()
	result := pairs[:0]
	for _, p := range pairs {
		a, b := p.A, p.B
		if a.InvMass() == 0 && b.InvMass() == 0 && a.InvMoment() == 0 && b.InvMoment() == 0 {
			continue
		}
		suppressed := false
		for _, c := range a.constraints {
			if !c.AllowCollision() && (c.bodyA() == b || c.bodyB() == b) {
				suppressed = true
				break
			}
		}
		if suppressed {
			continue
		}
		result = append(result, p)
	}
	return result
}

// resolveCollision runs each body's collision handler (either of which
// may suppress the default contact response) and, barring suppression,
// merges col into the canonically-keyed persistent manifold for (a,b).
func (w *World) resolveCollision(a, b *Object, col Collision) {
	var negNormal lin.Vec2
	negNormal.Neg(&col.Normal)

	suppressed := false
	if a.OnCollision != nil && a.OnCollision(a, b, negNormal, col.LocalA, col.LocalB) {
		suppressed = true
	}
	if b.OnCollision != nil && b.OnCollision(b, a, col.Normal, col.LocalB, col.LocalA) {
		suppressed = true
	}
	if suppressed {
		return
	}

	canonA, canonB, canonCol := a, b, col
	if a.id > b.id {
		canonA, canonB = b, a
		canonCol.LocalA, canonCol.LocalB = col.LocalB, col.LocalA
		canonCol.Normal.Neg(&col.Normal)
	}

	key := contactKey{canonA.id, canonB.id}
	c, ok := w.contacts[key]
	if !ok {
		c = NewContactConstraint(canonA, canonB, combineProperties(a.Friction, b.Friction), combineProperties(a.Restitution, b.Restitution))
		w.contacts[key] = c
	}
	c.addPoint(canonCol)
}

// Update advances the simulation by stepSize: broad phase, narrow phase,
// manifold refresh, warm-started impulse prestep, solverSteps iterations
// of bilateral and contact resolution, integration, and the fluid
// solver's own substepped update.
func (w *World) Update(stepSize float64) {
	for _, pair := range w.broadphase() {
		a, b := pair.A, pair.B
		for _, colliderA := range a.Colliders {
			for _, colliderB := range b.Colliders {
				col := evaluateCollision(colliderA, colliderB, broadphaseInitialDir)
				if col.Penetration < 0 {
					continue
				}
				w.resolveCollision(a, b, col)
			}
		}
	}

	adjustedBaumgarteBias := w.BaumgarteBias / stepSize
	var tickGravity lin.Vec2
	tickGravity.Scale(&w.Gravity, stepSize)

	for _, c := range w.contacts {
		c.updatePoints(adjustedBaumgarteBias, w.SlopP, w.SlopR, tickGravity)
	}

	for _, c := range w.contacts {
		v := velocityVector(c.objA, c.objB)
		m := inverseMassVector(c.objA, c.objB)
		for i := range c.Points {
			p := &c.Points[i]
			delta := applyRow(p.J, m, p.NImpulseSum)
			v.AddScaled(&v, &delta, 1)
		}
		setVelocity(c.objA, c.objB, v)
	}

	for j := 0; j < w.SolverSteps; j++ {
		for _, obj := range w.objects {
			obj.updateConstraints(adjustedBaumgarteBias, w.SlopP, w.SlopR)
		}
		for _, c := range w.contacts {
			if len(c.Points) != 0 {
				c.apply()
			}
		}
	}

	for _, obj := range w.objects {
		obj.update(stepSize)
		if obj.InvMass() != 0 {
			obj.Vel.Add(&obj.Vel, &tickGravity)
		}
	}

	w.fluid.update(stepSize, w.Gravity)
}

// AddFluidParticle introduces a free SPH particle into the fluid solver.
func (w *World) AddFluidParticle(pos, vel lin.Vec2, col lin.Vec3, mass float64) {
	w.fluid.addFluidParticle(pos, vel, col, mass)
}

// AddRigidParticle binds a fluid-coupling sample point (in obj's local
// frame) onto a rigid body, so the SPH solver can push on and be pushed
// by it.
func (w *World) AddRigidParticle(localPos lin.Vec2, obj *Object) {
	w.fluid.addRigidParticle(localPos, obj)
}

// FluidParticles returns the live free-fluid particles.
func (w *World) FluidParticles() []*Particle { return w.fluid.particles }

// RigidParticles returns the live rigid-coupling particles.
func (w *World) RigidParticles() []*RigidParticle { return w.fluid.rigidParticles }

// SPHScaleFactor returns the conversion factor between SPH solver units
// and world units.
func (w *World) SPHScaleFactor() float64 { return w.fluid.scaleFactor }
