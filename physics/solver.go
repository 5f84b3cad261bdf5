package physics

// solver.go provides the shared sequential-impulse machinery every
// constraint — contact or bilateral — builds on: the 6-vector velocity
// state, the diagonal inverse-mass vector, and the effective-mass /
// impulse-resolution formulas. Ported from constraint.h.

import "github.com/strata2d/strata2d/math/lin"

// velocityVector packs both bodies' velocities into the solver's shared
// 6-vector layout [aVx, aVy, aW, bVx, bVy, bW].
func velocityVector(a, b *Object) lin.Vec6 {
	return lin.Vec6{a.Vel.X, a.Vel.Y, a.RotV, b.Vel.X, b.Vel.Y, b.RotV}
}

// setVelocity writes a 6-vector solver state back onto its two bodies.
func setVelocity(a, b *Object, v lin.Vec6) {
	a.Vel.X, a.Vel.Y, a.RotV = v[0], v[1], v[2]
	b.Vel.X, b.Vel.Y, b.RotV = v[3], v[4], v[5]
}

// inverseMassVector returns the diagonal inverse-mass 6-vector M⁻¹ for
// the pair (a,b): [a.mInv, a.mInv, a.Iinv, b.mInv, b.mInv, b.Iinv].
func inverseMassVector(a, b *Object) lin.Vec6 {
	return lin.Vec6{a.invMass, a.invMass, a.invMoment, b.invMass, b.invMass, b.invMoment}
}

// resolveRow returns the impulse magnitude λ satisfying a single
// constraint row: λ = -(bias + J·V) * effectiveMass, where effectiveMass
// = 1 / (J · (M⁻¹ ⊙ J)).
func resolveRow(j, m, v lin.Vec6, bias float64) float64 {
	var mj lin.Vec6
	mj.MulElem(&m, &j)
	effMassInv := j.Dot(&mj)
	if effMassInv == 0 {
		return 0
	}
	return -(bias + j.Dot(&v)) / effMassInv
}

// applyRow returns the velocity delta M⁻¹⊙J·λ that a row's impulse λ
// contributes.
func applyRow(j, m lin.Vec6, lambda float64) lin.Vec6 {
	var scaled, delta lin.Vec6
	for i := range scaled {
		scaled[i] = j[i] * lambda
	}
	delta.MulElem(&m, &scaled)
	return delta
}

// resolveRowCached is resolveRow for a contact point whose M⊙J has
// already been cached (ContactPoint.JM/JTM), avoiding recomputing the
// Hadamard product every solver iteration within a step.
func resolveRowCached(j, mj, v lin.Vec6, bias float64) float64 {
	effMassInv := j.Dot(&mj)
	if effMassInv == 0 {
		return 0
	}
	return -(bias + j.Dot(&v)) / effMassInv
}

// applyRowCached is applyRow for a precomputed M⊙J.
func applyRowCached(mj lin.Vec6, lambda float64) lin.Vec6 {
	var delta lin.Vec6
	for i := range delta {
		delta[i] = mj[i] * lambda
	}
	return delta
}

// resolveRow2 solves the 2x2 block system for a two-row constraint
// (pivot, 2-point manifold), returning (λ0, λ1).
func resolveRow2(j [2]lin.Vec6, m, v lin.Vec6, bias lin.Vec2) lin.Vec2 {
	var mj0, mj1 lin.Vec6
	mj0.MulElem(&m, &j[0])
	mj1.MulElem(&m, &j[1])

	mat := lin.Mat2{
		Xx: j[0].Dot(&mj0), Xy: j[0].Dot(&mj1),
		Yx: j[1].Dot(&mj0), Yy: j[1].Dot(&mj1),
	}
	rhs := lin.Vec2{X: -(bias.X + j[0].Dot(&v)), Y: -(bias.Y + j[1].Dot(&v))}

	var lambda lin.Vec2
	if !lin.SolveMat2(&mat, &rhs, &lambda) {
		return lin.Vec2{}
	}
	return lambda
}

// applyRow2 returns the velocity delta contributed by a 2-row impulse.
func applyRow2(j [2]lin.Vec6, m lin.Vec6, lambda lin.Vec2) lin.Vec6 {
	var sum, scaled0, scaled1 lin.Vec6
	for i := range sum {
		scaled0[i] = j[0][i] * lambda.X
		scaled1[i] = j[1][i] * lambda.Y
		sum[i] = scaled0[i] + scaled1[i]
	}
	var delta lin.Vec6
	delta.MulElem(&m, &sum)
	return delta
}

// resolveRow3 solves the 3x3 block system for the fixed joint's three
// rows (two positional, one angular).
func resolveRow3(j [3]lin.Vec6, m, v lin.Vec6, bias lin.Vec3) lin.Vec3 {
	var mj0, mj1, mj2 lin.Vec6
	mj0.MulElem(&m, &j[0])
	mj1.MulElem(&m, &j[1])
	mj2.MulElem(&m, &j[2])

	mat := lin.Mat3{
		Xx: j[0].Dot(&mj0), Xy: j[0].Dot(&mj1), Xz: j[0].Dot(&mj2),
		Yx: j[1].Dot(&mj0), Yy: j[1].Dot(&mj1), Yz: j[1].Dot(&mj2),
		Zx: j[2].Dot(&mj0), Zy: j[2].Dot(&mj1), Zz: j[2].Dot(&mj2),
	}
	rhs := lin.Vec3{X: -(bias.X + j[0].Dot(&v)), Y: -(bias.Y + j[1].Dot(&v)), Z: -(bias.Z + j[2].Dot(&v))}

	var lambda lin.Vec3
	if !lin.SolveMat3(&mat, &rhs, &lambda) {
		return lin.Vec3{}
	}
	return lambda
}

// applyRow3 returns the velocity delta contributed by a 3-row impulse.
func applyRow3(j [3]lin.Vec6, m lin.Vec6, lambda lin.Vec3) lin.Vec6 {
	var sum lin.Vec6
	for i := range sum {
		sum[i] = j[0][i]*lambda.X + j[1][i]*lambda.Y + j[2][i]*lambda.Z
	}
	var delta lin.Vec6
	delta.MulElem(&m, &sum)
	return delta
}
