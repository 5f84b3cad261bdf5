package physics

// gjk.go implements the Gilbert-Johnson-Keerthi algorithm: an incremental
// simplex search that decides whether the Minkowski difference (CSO) of
// two convex colliders contains the origin, i.e. whether the colliders
// intersect. Ported from the GJK half of physics.cpp's evaluateCollision.

import "github.com/strata2d/strata2d/math/lin"

// cso is one vertex of a simplex built in CSO (configuration-space
// obstacle) space: res is the Minkowski-difference point A-B, src is the
// direction that produced it (needed later by EPA to recover local
// contact points on each original collider).
type cso struct {
	res lin.Vec2
	src lin.Vec2
}

func csoSupport(a, b Collider, dir lin.Vec2) cso {
	var neg, sa, sb, res lin.Vec2
	neg.Neg(&dir)
	sa = a.GlobalSupport(dir)
	sb = b.GlobalSupport(neg)
	res.Sub(&sa, &sb)
	return cso{res: res, src: dir}
}

// gjkMaxIterations bounds the simplex search; exhausting it is treated
// conservatively as no collision.
const gjkMaxIterations = 20

// gjkEvaluate runs GJK from the given initial search direction. On
// success it returns the terminating triangle (wound clockwise, per
// checkWindingTri) that contains the origin, ready for EPA to expand.
func gjkEvaluate(a, b Collider, initialDir lin.Vec2) (tri [3]cso, ok bool) {
	simplex := [3]cso{}
	simplex[0] = csoSupport(a, b, initialDir)
	if simplex[0].res.Dot(&initialDir) <= 0 {
		return tri, false
	}

	var direction lin.Vec2
	direction.Neg(&simplex[0].res)

	length := 1
	i := 0
	for ; i < gjkMaxIterations; i++ {
		simplex[length] = csoSupport(a, b, direction)
		if simplex[length].res.Dot(&direction) <= 0 {
			return tri, false
		}

		if length == 1 {
			p0, p1 := simplex[0].res, simplex[1].res
			var d lin.Vec2
			d.Sub(&p0, &p1)
			dDotP0 := d.Dot(&p0)
			dLen2 := d.LenSqr()
			direction = lin.Vec2{X: d.X*dDotP0 - p0.X*dLen2, Y: d.Y*dDotP0 - p0.Y*dLen2}

			if direction.X == 0 && direction.Y == 0 {
				normal := lin.Vec2{X: p0.Y - p1.Y, Y: p1.X - p0.X}
				simplex[2] = csoSupport(a, b, normal)
				if simplex[2].res.Eq(&p0) || simplex[2].res.Eq(&p1) {
					var negNormal lin.Vec2
					negNormal.Neg(&normal)
					simplex[2] = csoSupport(a, b, negNormal)
				}
				if !checkWindingTri(simplex[0].res, simplex[1].res, simplex[2].res) {
					simplex[0], simplex[1] = simplex[1], simplex[0]
				}
				break
			}
			length = 2
			continue
		}

		if !checkWindingTri(simplex[0].res, simplex[1].res, simplex[2].res) {
			simplex[0], simplex[1] = simplex[1], simplex[0]
		}

		p0, p1, p2 := simplex[0].res, simplex[1].res, simplex[2].res
		edge12 := lin.Vec2{X: p2.Y - p1.Y, Y: p1.X - p2.X}
		if p1.Dot(&edge12) > 0 {
			var d21, d20 lin.Vec2
			d21.Sub(&p2, &p1)
			d20.Sub(&p2, &p0)
			if d21.Dot(&p2) > 0 {
				simplex[0] = simplex[2]
				direction = lin.Vec2{X: p1.Y - p2.Y, Y: p2.X - p1.X}
			} else if d20.Dot(&p0) > 0 {
				simplex[1] = simplex[2]
				direction = lin.Vec2{X: p2.Y - p0.Y, Y: p0.X - p2.X}
			} else {
				simplex[0] = simplex[2]
				direction.Neg(&p2)
				length = 1
			}
			continue
		}

		edge20 := lin.Vec2{X: p0.Y - p2.Y, Y: p2.X - p0.X}
		if p0.Dot(&edge20) > 0 {
			var d02 lin.Vec2
			d02.Sub(&p0, &p2)
			if d02.Dot(&p0) > 0 {
				simplex[1] = simplex[2]
				direction = lin.Vec2{X: p2.Y - p0.Y, Y: p0.X - p2.X}
			} else {
				simplex[0] = simplex[2]
				direction.Neg(&p2)
				length = 1
			}
			continue
		}

		break // origin is inside the triangle.
	}
	if i == gjkMaxIterations {
		return tri, false
	}
	return simplex, true
}
