// Copyright © 2024 Galvanized Logic Inc.

// Package physics is a real-time simulation of 2D rigid-body physics.
// Physics applies gravity, contact, and joint forces to bodies made of
// convex colliders, resolving interpenetration and relative motion each
// simulation step so that body state remains physically plausible.
//
// Package physics is provided as part of the strata2d simulation core.
package physics

// physics.go documents how this package maps onto the simulator it was
// ported from (a 2D rigid-body/SPH engine, C++). The go code keeps the
// original file-per-concern split so that porting errors are easy to
// trace back to a single source file.
//	 strata2d/physics  : physics (C++)
//	 aabb.go           : aabb.cpp aabb.h
//	 object.go         : objects.cpp objects.h (Object, BaseCollider)
//	 collider.go       : objects.cpp objects.h (CircleCollider, PolyCollider)
//	 gjk.go            : physics.cpp (GJK half of evaluateCollision)
//	 epa.go            : physics.cpp (EPA half of evaluateCollision)
//	 constraint.go     : objects.cpp objects.h, constraint.h (bilateral constraints)
//	 contact.go        : objects.cpp objects.h (ContactPoint, ContactConstraint)
//	 solver.go         : constraint.h (resolve_constraint/apply_constraint machinery)
//	 world.go          : physics.cpp physics.h (World)
//	 config.go         : (new) yaml-driven World construction
