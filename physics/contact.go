package physics

// contact.go implements the persistent contact manifold the narrow phase
// feeds into the solver: up to two ContactPoints per body pair, merged
// and evicted across steps so warm-started impulses survive as long as
// the contact itself does. Ported from the ContactPoint/ContactConstraint
// half of objects.h, objects.cpp.

import (
	"math"

	"github.com/strata2d/strata2d/math/lin"
)

// persistenceThresh bounds how far a new Collision's contact point may be
// from an existing manifold point and still be treated as the same
// point (merged rather than appended).
const persistenceThresh = 0.05

// ContactPoint is one persistent point of contact between two bodies:
// positions cached in both local and (for drift detection) world space,
// the separating-axis Jacobian and its tangent counterpart, and the two
// impulse accumulators warm-starting keeps alive across steps.
type ContactPoint struct {
	LocalA, LocalB   lin.Vec2
	GlobalA, GlobalB lin.Vec2
	Normal           lin.Vec2

	J, JM, JT, JTM lin.Vec6

	Bias, EffectiveMass, EffectiveTangentMass, Penetration float64

	NImpulseSum float64
	TImpulseSum float64
}

// ContactConstraint is the persistent manifold (at most two points, per
// spec) maintained between one pair of bodies.
type ContactConstraint struct {
	objA, objB         *Object
	Friction           float64
	Restitution        float64
	Points             []ContactPoint
}

// NewContactConstraint returns an empty manifold between objA and objB
// with the pair's combined friction and restitution.
func NewContactConstraint(objA, objB *Object, friction, restitution float64) *ContactConstraint {
	return &ContactConstraint{objA: objA, objB: objB, Friction: friction, Restitution: restitution}
}

// apply runs one solver iteration over the manifold: resolve the normal
// impulse(s) with the 1- or 2-point block-pivoting case, then a friction
// pass clamped to the Coulomb cone built from each point's normal impulse.
func (c *ContactConstraint) apply() {
	v := velocityVector(c.objA, c.objB)

	switch len(c.Points) {
	case 1:
		p := &c.Points[0]
		lambda := resolveRowCached(p.J, p.JM, v, p.Bias)
		if math.IsNaN(lambda) {
			return
		}
		if p.NImpulseSum+lambda < 0 {
			lambda = -p.NImpulseSum
			p.NImpulseSum = 0
		} else {
			p.NImpulseSum += lambda
		}
		delta := applyRowCached(p.JM, lambda)
		v.AddScaled(&v, &delta, 1)
	case 2:
		pa, pb := &c.Points[0], &c.Points[1]
		m := inverseMassVector(c.objA, c.objB)
		j := [2]lin.Vec6{pa.J, pb.J}
		bias := lin.Vec2{X: pa.Bias, Y: pb.Bias}
		lambda := resolveRow2(j, m, v, bias)
		if math.IsNaN(lambda.X) || math.IsNaN(lambda.Y) {
			return
		}

		sepA := lambda.X+pa.NImpulseSum < 0
		sepB := lambda.Y+pb.NImpulseSum < 0

		switch {
		case sepA && !sepB:
			delta := applyRowCached(pa.JM, -pa.NImpulseSum)
			v.AddScaled(&v, &delta, 1)
			pa.NImpulseSum = 0

			l := resolveRowCached(pb.J, pb.JM, v, pb.Bias)
			if pb.NImpulseSum+l < 0 {
				l = -pb.NImpulseSum
				pb.NImpulseSum = 0
			} else {
				pb.NImpulseSum += l
			}
			delta = applyRowCached(pb.JM, l)
			v.AddScaled(&v, &delta, 1)
		case sepB && !sepA:
			delta := applyRowCached(pb.JM, -pb.NImpulseSum)
			v.AddScaled(&v, &delta, 1)
			pb.NImpulseSum = 0

			l := resolveRowCached(pa.J, pa.JM, v, pa.Bias)
			if pa.NImpulseSum+l < 0 {
				l = -pa.NImpulseSum
				pa.NImpulseSum = 0
			} else {
				pa.NImpulseSum += l
			}
			delta = applyRowCached(pa.JM, l)
			v.AddScaled(&v, &delta, 1)
		default:
			if sepA && sepB {
				lambda.X, lambda.Y = -pa.NImpulseSum, -pb.NImpulseSum
				pa.NImpulseSum, pb.NImpulseSum = 0, 0
			} else {
				pa.NImpulseSum += lambda.X
				pb.NImpulseSum += lambda.Y
			}
			delta := applyRow2(j, m, lambda)
			v.AddScaled(&v, &delta, 1)
		}
	}

	for i := range c.Points {
		p := &c.Points[i]
		lambda := resolveRowCached(p.JT, p.JTM, v, 0)
		if len(c.Points) == 2 {
			lambda *= 0.5
		}

		cone := p.NImpulseSum * c.Friction
		newT := math.Max(math.Min(p.TImpulseSum+lambda, cone), -cone)
		lambda = newT - p.TImpulseSum
		p.TImpulseSum = newT

		delta := applyRowCached(p.JTM, lambda)
		v.AddScaled(&v, &delta, 1)
	}

	setVelocity(c.objA, c.objB, v)
}

// updatePoints refreshes cached world positions and Jacobians, evicts
// points whose bodies have drifted too far apart or separated, trims a
// manifold that grew past two points, and recomputes each surviving
// point's Baumgarte bias from the current step's tick gravity.
func (c *ContactConstraint) updatePoints(baumgarteBias, slopP, slopR float64, tickGravity lin.Vec2) {
	kept := c.Points[:0]
	for i := range c.Points {
		p := c.Points[i]
		globalA := c.objA.LocalToGlobal(p.LocalA)
		globalB := c.objB.LocalToGlobal(p.LocalB)

		var diff lin.Vec2
		diff.Sub(&globalA, &globalB)
		p.Penetration = diff.Dot(&p.Normal)

		var driftA, driftB lin.Vec2
		driftA.Sub(&globalA, &p.GlobalA)
		driftB.Sub(&globalB, &p.GlobalB)

		if p.Penetration < 0 || driftA.LenSqr() > 0.1 || driftB.LenSqr() > 0.1 || math.Abs(diff.Cross(&p.Normal)) > 0.05 {
			continue
		}

		p.GlobalA, p.GlobalB = globalA, globalB
		kept = append(kept, p)
	}
	c.Points = kept

	if len(c.Points) > 2 {
		pa := c.Points[0]
		for _, cur := range c.Points[1:] {
			if cur.Penetration > pa.Penetration {
				pa = cur
			}
		}

		pb := c.Points[0]
		var d lin.Vec2
		d.Sub(&pb.GlobalA, &pa.GlobalA)
		dist := d.LenSqr()
		for _, cur := range c.Points[1:] {
			var cd lin.Vec2
			cd.Sub(&cur.GlobalA, &pa.GlobalA)
			curDist := cd.LenSqr()
			if curDist > dist {
				pb, dist = cur, curDist
			}
		}

		c.Points = append(c.Points[:0], pa, pb)
	}

	m := inverseMassVector(c.objA, c.objB)
	for i := range c.Points {
		p := &c.Points[i]
		offsetA := c.objA.LocalToGlobalVec(p.LocalA)
		offsetB := c.objB.LocalToGlobalVec(p.LocalB)

		p.J = lin.NewJacobian(&p.Normal, &offsetA, &offsetB)
		p.JM.MulElem(&m, &p.J)

		tangent := lin.Vec2{X: -p.Normal.Y, Y: p.Normal.X}
		p.JT = lin.NewJacobian(&tangent, &offsetA, &offsetB)
		p.JTM.MulElem(&m, &p.JT)

		var perpA, perpB, velA, velB lin.Vec2
		perpA = lin.Vec2{X: -offsetA.Y, Y: offsetA.X}
		velA.Scale(&perpA, c.objA.RotV)
		velA.Add(&velA, &c.objA.Vel)
		if c.objA.InvMass() != 0 {
			velA.Sub(&velA, &tickGravity)
		}

		perpB = lin.Vec2{X: -offsetB.Y, Y: offsetB.X}
		velB.Scale(&perpB, c.objB.RotV)
		velB.Add(&velB, &c.objB.Vel)
		if c.objB.InvMass() != 0 {
			velB.Sub(&velB, &tickGravity)
		}

		var relVel lin.Vec2
		relVel.Sub(&velB, &velA)
		closingVelocity := relVel.Dot(&p.Normal)

		p.Bias = -baumgarteBias*math.Max(p.Penetration-slopP, -slopP*0.5) +
			math.Min(closingVelocity+slopR, 0)*c.Restitution
		p.TImpulseSum = 0
	}
}

// addPoint merges col into the manifold: if an existing point's world
// position is within persistenceThresh of col's (on either body), that
// point's geometry is refreshed in place so its impulse accumulators
// carry over; otherwise a fresh zero-accumulator point is appended.
func (c *ContactConstraint) addPoint(col Collision) {
	globalA := c.objA.LocalToGlobal(col.LocalA)
	globalB := c.objB.LocalToGlobal(col.LocalB)

	for i := range c.Points {
		p := &c.Points[i]
		var da, db lin.Vec2
		da.Sub(&p.GlobalA, &globalA)
		db.Sub(&p.GlobalB, &globalB)
		if da.LenSqr() < persistenceThresh || db.LenSqr() < persistenceThresh {
			p.LocalA, p.LocalB = col.LocalA, col.LocalB
			p.GlobalA, p.GlobalB = globalA, globalB
			p.Normal = col.Normal
			p.Penetration = col.Penetration
			return
		}
	}

	c.Points = append(c.Points, ContactPoint{
		LocalA: col.LocalA, LocalB: col.LocalB,
		GlobalA: globalA, GlobalB: globalB,
		Normal: col.Normal, Penetration: col.Penetration,
	})
}

// NumPoints returns how many persistent contact points the manifold holds.
func (c *ContactConstraint) NumPoints() int { return len(c.Points) }
