package physics

// aabb.go implements the broad-phase acceleration structure: a dynamic
// bounding-volume hierarchy of axis-aligned boxes. Ported from aabb.cpp,
// aabb.h. Leaves are fattened (expanded by a margin plus a
// velocity-directional predictive term) so that a body's tight box can
// drift within its fattened box for several steps before the tree needs
// to reshuffle it.

import (
	"math"

	"github.com/strata2d/strata2d/math/lin"
)

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	Lower lin.Vec2
	Upper lin.Vec2
}

// Union returns the smallest AABB containing both a and b.
func Union(a, b AABB) AABB {
	return AABB{
		Lower: lin.Vec2{X: math.Min(a.Lower.X, b.Lower.X), Y: math.Min(a.Lower.Y, b.Lower.Y)},
		Upper: lin.Vec2{X: math.Max(a.Upper.X, b.Upper.X), Y: math.Max(a.Upper.Y, b.Upper.Y)},
	}
}

// Expand returns a grown by radius on every side.
func (a AABB) Expand(radius float64) AABB {
	return AABB{
		Lower: lin.Vec2{X: a.Lower.X - radius, Y: a.Lower.Y - radius},
		Upper: lin.Vec2{X: a.Upper.X + radius, Y: a.Upper.Y + radius},
	}
}

// Area returns the AABB's area (width times height).
func (a AABB) Area() float64 { return (a.Upper.X - a.Lower.X) * (a.Upper.Y - a.Lower.Y) }

// Contains returns true if a fully encloses b.
func (a AABB) Contains(b AABB) bool {
	return a.Upper.X >= b.Upper.X && a.Upper.Y >= b.Upper.Y &&
		a.Lower.X <= b.Lower.X && a.Lower.Y <= b.Lower.Y
}

// Intersects returns true if a and b overlap using open intervals — boxes
// that merely touch at an edge do not intersect.
func (a AABB) Intersects(b AABB) bool {
	return a.Upper.X > b.Lower.X && a.Lower.X < b.Upper.X &&
		a.Upper.Y > b.Lower.Y && a.Lower.Y < b.Upper.Y
}

// node is one entry of the dynamic tree: either a leaf (Inner meaningful,
// no children) or an internal branch (Outer is the union of its
// children's Outer boxes). Leaf identity coincides with an *Object —
// see object.go — so node is embedded directly in Object rather than
// allocated separately.
type node struct {
	parent   *node
	children [2]*node

	inner AABB // tight box; only meaningful for leaves.
	outer AABB // fattened box; leaves: inner+margin+velocity slop. Internal: union of children.

	// leaf is the Object owning this node, nil for internal nodes.
	leaf *Object
}

func (n *node) isLeaf() bool { return n.children[0] == nil }

func (n *node) sibling() *node {
	if n.parent.children[0] == n {
		return n.parent.children[1]
	}
	return n.parent.children[0]
}

// updateOuter recomputes n's fattened box. Leaves get inner expanded by
// margin plus an asymmetric velocity-directional pad (2*vel added to
// whichever bound is in the direction of travel) so that a body moving
// steadily in one direction doesn't immediately leave its fattened box.
// Internal nodes take the union of their children's outer boxes.
func (n *node) updateOuter(margin float64) {
	if n.isLeaf() {
		n.outer = n.inner.Expand(margin)
		const factor = 2.0
		vel := n.leaf.Vel
		if vel.X > 0 {
			n.outer.Upper.X += vel.X * factor
		} else {
			n.outer.Lower.X += vel.X * factor
		}
		if vel.Y > 0 {
			n.outer.Upper.Y += vel.Y * factor
		} else {
			n.outer.Lower.Y += vel.Y * factor
		}
		return
	}
	n.outer = Union(n.children[0].outer, n.children[1].outer)
}

// Tree is the dynamic AABB bounding-volume hierarchy used for the
// broad phase. Margin sizes the fattening applied to every leaf.
type Tree struct {
	Margin float64

	root    *node
	invalid []*node
	pairs   []ObjectPair
}

// NewTree returns an empty tree with the given leaf fattening margin.
func NewTree(margin float64) *Tree { return &Tree{Margin: margin} }

// ObjectPair is an unordered pair of objects whose tight (inner) boxes
// overlap; fattened boxes only prune the tree walk that finds them.
type ObjectPair struct {
	A, B *Object
}

// Add inserts obj's leaf node into the tree.
func (t *Tree) Add(obj *Object) {
	n := &obj.node
	n.leaf = obj
	n.updateOuter(t.Margin)
	if t.root == nil {
		t.root = n
		return
	}
	t.insert(t.root, n)
}

func (t *Tree) insert(at, leaf *node) {
	if at.isLeaf() {
		parent := &node{parent: at.parent}
		if at == t.root {
			t.root = parent
		} else if at.parent.children[0] == at {
			at.parent.children[0] = parent
		} else {
			at.parent.children[1] = parent
		}
		parent.children[0] = at
		parent.children[1] = leaf
		at.parent = parent
		leaf.parent = parent
		parent.updateOuter(t.Margin)
		return
	}

	a0 := at.children[0].outer
	a1 := at.children[1].outer
	diff0 := Union(a0, leaf.outer).Area() - a0.Area()
	diff1 := Union(a1, leaf.outer).Area() - a1.Area()
	if diff0 < diff1 {
		t.insert(at.children[0], leaf)
	} else {
		t.insert(at.children[1], leaf)
	}
	at.updateOuter(t.Margin)
}

// Remove detaches obj's leaf node from the tree, collapsing its parent.
func (t *Tree) Remove(obj *Object) {
	n := &obj.node
	if n == t.root {
		t.root = nil
		return
	}
	parent := n.parent
	sib := n.sibling()
	if parent == t.root {
		t.root = sib
		sib.parent = nil
		return
	}
	grand := parent.parent
	sib.parent = grand
	if grand.children[0] == parent {
		grand.children[0] = sib
	} else {
		grand.children[1] = sib
	}
	for a := grand; ; a = a.parent {
		a.updateOuter(t.Margin)
		if a == t.root {
			break
		}
	}
}

func (t *Tree) findInvalid(n *node) {
	if n.isLeaf() {
		if !n.outer.Contains(n.inner) {
			t.invalid = append(t.invalid, n)
		}
		return
	}
	t.findInvalid(n.children[0])
	t.findInvalid(n.children[1])
}

// Update re-fits every leaf whose tight box has escaped its fattened
// box: such leaves are pulled out of the tree and reinserted with a
// freshly fattened box, amortizing the cost over many steps of small
// motion.
func (t *Tree) Update() {
	if t.root == nil {
		return
	}
	if t.root.isLeaf() {
		t.root.updateOuter(t.Margin)
		return
	}
	t.invalid = t.invalid[:0]
	t.findInvalid(t.root)
	for _, n := range t.invalid {
		t.Remove(n.leaf)
		t.Add(n.leaf)
	}
}

func (t *Tree) findPairsForLeaf(leaf, branch *node) {
	if branch.isLeaf() {
		if branch.inner.Intersects(leaf.inner) {
			t.pairs = append(t.pairs, ObjectPair{leaf.leaf, branch.leaf})
		}
		return
	}
	if branch.outer.Intersects(leaf.inner) {
		t.findPairsForLeaf(leaf, branch.children[0])
		t.findPairsForLeaf(leaf, branch.children[1])
	}
}

func (t *Tree) findPairs(n0, n1 *node) {
	switch {
	case n0.isLeaf() && n1.isLeaf():
		if n0.inner.Intersects(n1.inner) {
			t.pairs = append(t.pairs, ObjectPair{n0.leaf, n1.leaf})
		}
	case n0.isLeaf():
		if n0.inner.Intersects(n1.outer) {
			t.findPairsForLeaf(n0, n1.children[0])
			t.findPairsForLeaf(n0, n1.children[1])
		}
	case n1.isLeaf():
		if n0.outer.Intersects(n1.inner) {
			t.findPairsForLeaf(n1, n0.children[0])
			t.findPairsForLeaf(n1, n0.children[1])
		}
	default:
		if n0.outer.Intersects(n1.outer) {
			t.findPairs(n0.children[0], n1.children[0])
			t.findPairs(n0.children[0], n1.children[1])
			t.findPairs(n0.children[1], n1.children[0])
			t.findPairs(n0.children[1], n1.children[1])
		}
	}
}

func (t *Tree) findAllPairs(n *node) {
	if n.isLeaf() {
		return
	}
	t.findPairs(n.children[0], n.children[1])
	t.findAllPairs(n.children[0])
	t.findAllPairs(n.children[1])
}

// ComputePairs returns every pair of leaves whose boxes overlap. The
// returned slice is reused across calls; callers must not retain it
// past the next call to ComputePairs.
func (t *Tree) ComputePairs() []ObjectPair {
	t.pairs = t.pairs[:0]
	if t.root == nil {
		return t.pairs
	}
	t.findAllPairs(t.root)
	return t.pairs
}
