package physics

// epa.go implements the Expanding Polytope Algorithm: given the triangle
// GJK found to contain the origin, repeatedly grows it towards the CSO
// boundary until the edge closest to the origin approximates the true
// boundary, yielding penetration depth, contact normal, and the two
// colliders' local contact points. Ported from the EPA half of
// physics.cpp's evaluateCollision.

import (
	"math"

	"github.com/strata2d/strata2d/math/lin"
)

// Collision is the output of the narrow phase for one pair of colliders:
// a positive-penetration hit with world contact info expressed in each
// collider's local frame so it survives being cached across steps.
type Collision struct {
	Penetration float64
	Normal      lin.Vec2 // unit, world space, points from B into A.
	LocalA      lin.Vec2
	LocalB      lin.Vec2
}

// noCollision is returned wherever the narrow phase finds no overlap.
var noCollision = Collision{Penetration: -1}

const (
	epaMaxIterations = 20
	epaEpsilon       = 0.03 * 0.03
)

// originLineDistance returns the signed distance from the origin to the
// infinite line through a and b (positive when the origin is to the
// line's outward/clockwise side, matching the polytope's winding).
func originLineDistance(a, b lin.Vec2) float64 {
	var d lin.Vec2
	d.Sub(&b, &a)
	l := d.LenSqr()
	if l == 0 {
		return a.Len()
	}
	return (b.X*a.Y - b.Y*a.X) / math.Sqrt(l)
}

// epaNode is one edge-origin vertex of the expanding polytope, kept as a
// circular singly-linked list via slice indices rather than pointers.
type epaNode struct {
	dist float64
	val  cso
	next int
}

// evaluateCollision runs GJK then, on a hit, EPA, returning the resolved
// Collision (or noCollision if the colliders don't overlap or either
// algorithm fails to converge within its iteration cap).
func evaluateCollision(a, b Collider, initialDir lin.Vec2) Collision {
	tri, ok := gjkEvaluate(a, b, initialDir)
	if !ok {
		return noCollision
	}

	nodes := make([]epaNode, 3, epaMaxIterations+2)
	nodes[0] = epaNode{dist: originLineDistance(tri[0].res, tri[1].res), val: tri[0], next: 1}
	nodes[1] = epaNode{dist: originLineDistance(tri[1].res, tri[2].res), val: tri[1], next: 2}
	nodes[2] = epaNode{dist: originLineDistance(tri[2].res, tri[0].res), val: tri[2], next: 0}

	var bestIdx, nextIdx int
	for i := 3; ; i++ {
		bestIdx = 0
		for j := 1; j < len(nodes); j++ {
			if nodes[j].dist < nodes[bestIdx].dist {
				bestIdx = j
			}
		}
		nextIdx = nodes[bestIdx].next

		best, next := nodes[bestIdx].val, nodes[nextIdx].val
		normal := lin.Vec2{X: best.res.Y - next.res.Y, Y: next.res.X - best.res.X}

		result := csoSupport(a, b, normal)

		var dNext, dBest lin.Vec2
		dNext.Sub(&result.res, &next.res)
		dBest.Sub(&result.res, &best.res)
		if dNext.LenSqr() < epaEpsilon || dBest.LenSqr() < epaEpsilon {
			break
		}
		if i == epaMaxIterations+2 {
			return noCollision
		}

		newNode := epaNode{
			next: nextIdx,
			val:  result,
			dist: originLineDistance(result.res, next.res),
		}
		nodes[bestIdx].next = len(nodes)
		nodes[bestIdx].dist = originLineDistance(best.res, result.res)
		nodes = append(nodes, newNode)
	}

	pA, pB := nodes[bestIdx].val, nodes[nextIdx].val
	dist := nodes[bestIdx].dist

	var delta lin.Vec2
	delta.Sub(&pB.res, &pA.res)
	proportion := -delta.Dot(&pA.res) / delta.LenSqr()

	var col Collision
	col.Penetration = dist
	normal := lin.Vec2{X: pA.res.Y - pB.res.Y, Y: pB.res.X - pA.res.X}
	col.Normal.Unit(&normal)

	localA1 := a.Support(globalToLocalDir(a, pA.src))
	localA2 := a.Support(globalToLocalDir(a, pB.src))
	col.LocalA = lerp2(localA1, localA2, proportion)

	var negPASrc, negPBSrc lin.Vec2
	negPASrc.Neg(&pA.src)
	negPBSrc.Neg(&pB.src)
	localB1 := b.Support(globalToLocalDir(b, negPASrc))
	localB2 := b.Support(globalToLocalDir(b, negPBSrc))
	col.LocalB = lerp2(localB1, localB2, proportion)

	return col
}

// globalToLocalDir rotates a world direction into a collider's owning
// object's local frame, the step Support (a local-space query) needs.
func globalToLocalDir(c Collider, dir lin.Vec2) lin.Vec2 {
	return c.object().GlobalToLocalVec(dir)
}

func lerp2(a, b lin.Vec2, proportion float64) lin.Vec2 {
	return lin.Vec2{
		X: a.X*(1-proportion) + b.X*proportion,
		Y: a.Y*(1-proportion) + b.Y*proportion,
	}
}
