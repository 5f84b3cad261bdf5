package physics

// fluid.go implements the SPH (smoothed-particle hydrodynamics) fluid
// solver: free particles that carry their own mass and color, and
// rigid-coupling particles that sample a rigid body's surface so fluid
// can push on, and be pushed by, rigid Objects. Ported from the
// SPHSolver/BaseParticle/Particle/RigidParticle/NeighbourhoodSolver
// machinery in sph.h, sph.cpp.
//
// The source's two accumulator scalars and its world-space normal were
// packed into one C union (BaseParticle::{volumeDerivative,outward} vs
// normal) purely to save a machine word; spec.md's design notes call
// this out as safe to separate, so they are plain fields here.
//
// The source's neighbour search deduplicates same-type pairs by pointer
// address (particle > other); this package uses each particle's stable
// slice index instead, which is equivalent but free of address-order
// nondeterminism (see the world's determinism requirements).

import (
	"math"
	"sort"

	"github.com/strata2d/strata2d/math/lin"
)

const (
	defaultSmoothingRadius     = 0.08
	targetNeighbourhoodVolume  = 3.0
	defaultViscosity           = 0.001
	defaultSurfaceTension      = 0.001
	densityCorrectionTarget    = 1.001
	divergenceCorrectionTarget = 0.0005
	correctionMaxIterations    = 20
	maximumSPHSubstep          = 0.5
	blockSize                  = 256 * 256
)

// particleState is the scratch state shared by every kind of SPH
// particle: position and velocity in SPH units, its accumulated
// neighbourhood volume, and per-step scratch scalars/vector used by the
// divergence/density correction passes and the surface-tension force.
type particleState struct {
	Pos, Vel lin.Vec2
	Volume   float64

	alpha            float64
	normal           lin.Vec2
	volumeDerivative float64
	outward          float64
}

// Particle is a free fluid sample: it carries its own inverse mass and a
// display color, and interacts with both other fluid particles and any
// nearby rigid-coupling particles.
type Particle struct {
	particleState
	Col     lin.Vec3
	invMass float64

	neighbours []*Particle // other fluid particles within the smoothing radius.
}

// RigidParticle samples a point on a rigid body's surface (in the
// body's local frame) so the fluid solver can exchange impulses with
// it. Its own pos/vel are refreshed from the body's transform every
// step by fixParticles.
type RigidParticle struct {
	particleState
	LocalPosition lin.Vec2
	obj           *Object

	selfNeighbours  []*RigidParticle // other rigid particles within the smoothing radius.
	fluidNeighbours []*Particle      // fluid particles within the smoothing radius.
}

// Object returns the rigid body this particle samples.
func (r *RigidParticle) Object() *Object { return r.obj }

// handle pairs a particle's slice index with its current Z-order cell,
// the unit neighbourHash sorts on to bucket particles by cell.
type handle struct {
	cell  uint16
	index uint32
}

// neighbourHash is a reusable Z-order spatial hash over one particle
// slice, sized to the fixed 256x256 cell domain the SPH solver assumes
// (see spec's resource-exhaustion note: particles outside this domain
// give undefined neighbour results).
type neighbourHash struct {
	handles []handle
	block   [blockSize]uint32
}

func (h *neighbourHash) rebuild(n int, pos func(i int) lin.Vec2) {
	if cap(h.handles) < n {
		h.handles = make([]handle, n)
	} else {
		h.handles = h.handles[:n]
	}
	for i := 0; i < n; i++ {
		p := pos(i)
		h.handles[i] = handle{cell: mapToZCurve(uint8(p.X), uint8(p.Y)), index: uint32(i)}
	}
	sort.Slice(h.handles, func(i, j int) bool { return h.handles[i].cell < h.handles[j].cell })

	if len(h.handles) == 0 {
		return
	}
	prev := h.handles[0].cell
	h.block[prev] = 0
	for i := 1; i < len(h.handles); i++ {
		cell := h.handles[i].cell
		if cell != prev {
			h.block[cell] = uint32(i)
			prev = cell
		}
	}
}

// forNeighbourCells invokes visit once per bucket entry found in the 3x3
// Z-order neighbourhood of cell.
func (h *neighbourHash) forNeighbourCells(cell uint16, visit func(idx uint32)) {
	for dx := int8(-1); dx != 2; dx++ {
		for dy := int8(-1); dy != 2; dy++ {
			other := zNeighbourCell(cell, dx, dy)
			ref := h.block[other]
			for int(ref) < len(h.handles) && h.handles[ref].cell == other {
				visit(h.handles[ref].index)
				ref++
			}
		}
	}
}

// Fluid is the SPH solver owned by a World: it tracks free fluid
// particles and rigid-coupling particles, and advances both through a
// divergence/density-corrected, viscosity-and-surface-tension-forced
// step each call to update.
type Fluid struct {
	particles      []*Particle
	rigidParticles []*RigidParticle

	fluidHash neighbourHash
	rigidHash neighbourHash

	scaleFactor, invScaleFactor, scaleFactor2     float64
	massConversionFactor, invMassConversionFactor float64

	Viscosity      float64
	SurfaceTension float64
}

func newFluid(scaleFactor float64) *Fluid {
	inv := 1.0 / scaleFactor
	massConv := inv * inv * targetNeighbourhoodVolume
	return &Fluid{
		scaleFactor: scaleFactor, invScaleFactor: inv, scaleFactor2: scaleFactor * scaleFactor,
		massConversionFactor: massConv, invMassConversionFactor: 1.0 / massConv,
		Viscosity: defaultViscosity, SurfaceTension: defaultSurfaceTension,
	}
}

func (f *Fluid) addFluidParticle(pos, vel lin.Vec2, col lin.Vec3, mass float64) {
	p := &Particle{Col: col, invMass: 1.0 / mass}
	p.Pos.Scale(&pos, f.scaleFactor)
	p.Vel.Scale(&vel, f.scaleFactor)
	f.particles = append(f.particles, p)
}

func (f *Fluid) addRigidParticle(localPos lin.Vec2, obj *Object) {
	f.rigidParticles = append(f.rigidParticles, &RigidParticle{LocalPosition: localPos, obj: obj})
}

// updateRigidParticleVelocities refreshes each rigid particle's velocity
// from its body's current linear/angular velocity, independent of the
// position refresh fixParticles otherwise does.
func (f *Fluid) updateRigidParticleVelocities() {
	for _, p := range f.rigidParticles {
		offset := p.obj.LocalToGlobalVec(p.LocalPosition)
		perp := lin.Vec2{X: -offset.Y, Y: offset.X}
		var v lin.Vec2
		v.Scale(&perp, p.obj.RotV)
		v.Add(&v, &p.obj.Vel)
		p.Vel.Scale(&v, f.scaleFactor)
	}
}

// fixParticles snaps every rigid particle onto its body's current
// transform, rebuilds both neighbour hashes, and computes each
// particle's neighbourhood volume and the blending weight (alpha) the
// correction passes use.
func (f *Fluid) fixParticles() {
	for _, p := range f.rigidParticles {
		offset := p.obj.LocalToGlobalVec(p.LocalPosition)
		var pos lin.Vec2
		pos.Add(&offset, &p.obj.Pos)
		p.Pos.Scale(&pos, f.scaleFactor)
	}
	f.updateRigidParticleVelocities()

	f.fluidHash.rebuild(len(f.particles), func(i int) lin.Vec2 { return f.particles[i].Pos })
	f.linkFluidSelf()

	f.rigidHash.rebuild(len(f.rigidParticles), func(i int) lin.Vec2 { return f.rigidParticles[i].Pos })
	f.linkRigidSelf()

	for _, p := range f.rigidParticles {
		p.Volume = kernelScalar(0)
		for _, other := range p.selfNeighbours {
			var delta lin.Vec2
			delta.Sub(&other.Pos, &p.Pos)
			influence := kernel(delta)
			p.Volume += influence
			other.Volume += influence
		}
	}

	f.linkRigidToFluid()

	for _, p := range f.particles {
		p.Volume = kernelScalar(0)
		p.alpha = 0
		p.normal = lin.Vec2{}

		for _, other := range p.neighbours {
			var delta lin.Vec2
			delta.Sub(&other.Pos, &p.Pos)

			influence := kernel(delta)
			p.Volume += influence
			other.Volume += influence

			grad := unsafeKernelGrad(delta)
			p.normal.Add(&p.normal, &grad)
			other.normal.Sub(&other.normal, &grad)

			length2 := grad.LenSqr()
			p.alpha += length2
			other.alpha += length2
		}
	}

	for _, p := range f.rigidParticles {
		p.alpha = targetNeighbourhoodVolume / p.Volume

		for _, other := range p.fluidNeighbours {
			var delta lin.Vec2
			delta.Sub(&p.Pos, &other.Pos)

			other.Volume += kernel(delta) * p.alpha

			grad := unsafeKernelGrad(delta)
			other.normal.Add(&other.normal, &grad)
			other.alpha += grad.LenSqr()
		}
	}

	for _, p := range f.particles {
		p.alpha = p.Volume / math.Max(p.normal.LenSqr()+p.alpha, 1e-6)
	}
}

func (f *Fluid) linkFluidSelf() {
	for _, h := range f.fluidHash.handles {
		p := f.particles[h.index]
		p.neighbours = p.neighbours[:0]
	}
	for _, h := range f.fluidHash.handles {
		p := f.particles[h.index]
		f.fluidHash.forNeighbourCells(h.cell, func(idx uint32) {
			if idx <= h.index {
				return
			}
			other := f.particles[idx]
			var d lin.Vec2
			d.Sub(&p.Pos, &other.Pos)
			dist2 := d.LenSqr()
			if dist2 != 0 && dist2 < 1 {
				p.neighbours = append(p.neighbours, other)
			}
		})
	}
}

func (f *Fluid) linkRigidSelf() {
	for _, h := range f.rigidHash.handles {
		p := f.rigidParticles[h.index]
		p.selfNeighbours = p.selfNeighbours[:0]
	}
	for _, h := range f.rigidHash.handles {
		p := f.rigidParticles[h.index]
		f.rigidHash.forNeighbourCells(h.cell, func(idx uint32) {
			if idx <= h.index {
				return
			}
			other := f.rigidParticles[idx]
			var d lin.Vec2
			d.Sub(&p.Pos, &other.Pos)
			dist2 := d.LenSqr()
			if dist2 != 0 && dist2 < 1 {
				p.selfNeighbours = append(p.selfNeighbours, other)
			}
		})
	}
}

func (f *Fluid) linkRigidToFluid() {
	for _, h := range f.rigidHash.handles {
		p := f.rigidParticles[h.index]
		p.fluidNeighbours = p.fluidNeighbours[:0]
		f.fluidHash.forNeighbourCells(h.cell, func(idx uint32) {
			other := f.particles[idx]
			var d lin.Vec2
			d.Sub(&p.Pos, &other.Pos)
			dist2 := d.LenSqr()
			if dist2 != 0 && dist2 < 1 {
				p.fluidNeighbours = append(p.fluidNeighbours, other)
			}
		})
	}
}

// applyFluidImpulse exchanges a separation impulse between two fluid
// particles along their kernel gradient.
func (f *Fluid) applyFluidImpulse(a, b *Particle, separationFactor float64) {
	var delta, impulse lin.Vec2
	delta.Sub(&a.Pos, &b.Pos)
	grad := unsafeKernelGrad(delta)
	impulse.Scale(&grad, separationFactor/(a.invMass+b.invMass))

	var da, db lin.Vec2
	da.Scale(&impulse, a.invMass)
	a.Vel.Sub(&a.Vel, &da)
	db.Scale(&impulse, b.invMass)
	b.Vel.Add(&b.Vel, &db)
}

// applyRigidFluidImpulse exchanges a separation impulse between a rigid
// particle's body and a fluid particle along their kernel gradient,
// weighted by the body's effective inverse mass at that contact point.
func (f *Fluid) applyRigidFluidImpulse(rigid *RigidParticle, fluid *Particle, separationFactor float64) {
	var delta lin.Vec2
	delta.Sub(&fluid.Pos, &rigid.Pos)
	grad := unsafeKernelGrad(delta)

	var normal lin.Vec2
	normal.Unit(&grad)
	offset := rigid.obj.LocalToGlobalVec(rigid.LocalPosition)
	crossTerm := normal.Cross(&offset)

	denom := (rigid.obj.InvMass()+rigid.obj.InvMoment()*f.scaleFactor2*crossTerm*crossTerm)*f.invMassConversionFactor + fluid.invMass

	var impulse lin.Vec2
	impulse.Scale(&grad, separationFactor/denom)

	var scaledImpulse, point lin.Vec2
	scaledImpulse.Scale(&impulse, f.massConversionFactor)
	point.Scale(&rigid.Pos, f.invScaleFactor)
	rigid.obj.ApplyImpulse(scaledImpulse, point)

	var dv lin.Vec2
	dv.Scale(&impulse, fluid.invMass)
	fluid.Vel.Sub(&fluid.Vel, &dv)
}

func (f *Fluid) updateVolumeDerivative() {
	for _, p := range f.particles {
		p.volumeDerivative = 0
		for _, other := range p.neighbours {
			var dv, dp lin.Vec2
			dv.Sub(&p.Vel, &other.Vel)
			dp.Sub(&p.Pos, &other.Pos)
			grad := unsafeKernelGrad(dp)
			derivative := dv.Dot(&grad)
			p.volumeDerivative += derivative
			other.volumeDerivative += derivative
		}
	}
	for _, p := range f.rigidParticles {
		for _, other := range p.fluidNeighbours {
			var dv, dp lin.Vec2
			dv.Sub(&other.Vel, &p.Vel)
			dp.Sub(&other.Pos, &p.Pos)
			grad := unsafeKernelGrad(dp)
			other.volumeDerivative += dv.Dot(&grad)
		}
	}
}

// applyNonPressureForces applies gravity, viscosity, and surface tension
// to every fluid particle, and viscous drag between rigid particles and
// nearby fluid.
func (f *Fluid) applyNonPressureForces(timeStep float64, gravity lin.Vec2) {
	var scaledGravity lin.Vec2
	scaledGravity.Scale(&gravity, f.scaleFactor*timeStep)
	for _, p := range f.particles {
		p.Vel.Add(&p.Vel, &scaledGravity)
	}

	for _, p := range f.particles {
		p.normal = lin.Vec2{}
		for _, other := range p.neighbours {
			var delta lin.Vec2
			delta.Sub(&p.Pos, &other.Pos)
			grad := unsafeKernelGrad(delta)

			var gp, gOther lin.Vec2
			gp.Scale(&grad, 1/p.Volume)
			p.normal.Add(&p.normal, &gp)
			gOther.Scale(&grad, 1/other.Volume)
			other.normal.Sub(&other.normal, &gOther)
		}
	}

	for _, p := range f.particles {
		for _, other := range p.neighbours {
			var delta lin.Vec2
			delta.Sub(&p.Pos, &other.Pos)
			dist := delta.Len()

			var relVel, force lin.Vec2
			relVel.Sub(&p.Vel, &other.Vel)
			force.Scale(&relVel, (2*f.Viscosity*kernelGradSize(dist))/(other.Volume*dist))

			var surfaceTensionForce lin.Vec2
			surfaceTensionForce.Sub(&other.normal, &p.normal)

			inv := 1 - dist
			var cohesion float64
			switch {
			case dist < 0.5:
				cohesion = (2*inv*inv*inv*dist*dist*dist - 1.0/64.0) / dist
			case dist < 1:
				cohesion = inv * inv * inv * dist * dist
			}
			cohesion *= 32.0 / math.Pi

			var cohesionTerm lin.Vec2
			cohesionTerm.Scale(&delta, cohesion)
			surfaceTensionForce.Sub(&surfaceTensionForce, &cohesionTerm)

			deficiency := (2 * targetNeighbourhoodVolume) / (p.Volume + other.Volume)
			var weighted lin.Vec2
			weighted.Scale(&surfaceTensionForce, f.SurfaceTension*deficiency)
			force.Add(&force, &weighted)
			force.Scale(&force, timeStep)

			var dvp, dvo lin.Vec2
			dvp.Scale(&force, p.invMass)
			p.Vel.Add(&p.Vel, &dvp)
			dvo.Scale(&force, other.invMass)
			other.Vel.Sub(&other.Vel, &dvo)
		}
	}

	for _, p := range f.rigidParticles {
		for _, other := range p.fluidNeighbours {
			var delta lin.Vec2
			delta.Sub(&p.Pos, &other.Pos)
			dist := delta.Len()

			var relVel, force lin.Vec2
			relVel.Sub(&p.Vel, &other.Vel)
			force.Scale(&relVel, (6*p.alpha*f.Viscosity*p.obj.Friction*kernelGradSize(dist))/(other.Volume*dist))
			force.Scale(&force, timeStep)

			var scaledForce, point lin.Vec2
			scaledForce.Scale(&force, f.massConversionFactor)
			point.Scale(&p.Pos, f.invScaleFactor)
			p.obj.ApplyImpulse(scaledForce, point)

			var dv lin.Vec2
			dv.Scale(&force, other.invMass)
			other.Vel.Sub(&other.Vel, &dv)
		}
	}

	f.updateRigidParticleVelocities()
}

// correctDensity iteratively applies separation impulses so each
// particle's forward-projected volume approaches the target
// neighbourhood volume, stopping early once the average relative error
// drops below densityCorrectionTarget.
func (f *Fluid) correctDensity(timeStep float64) {
	for steps := 0; steps < correctionMaxIterations; steps++ {
		total := 0.0
		f.updateVolumeDerivative()

		for _, p := range f.particles {
			forwardVolume := p.volumeDerivative*timeStep + p.Volume
			forwardVolume = math.Max(forwardVolume, targetNeighbourhoodVolume)
			total += forwardVolume
			p.outward = p.alpha * (forwardVolume - targetNeighbourhoodVolume) / (timeStep * p.Volume)

			for _, other := range p.neighbours {
				f.applyFluidImpulse(p, other, 2*(p.outward+other.outward))
			}
		}

		for _, p := range f.rigidParticles {
			for _, other := range p.fluidNeighbours {
				f.applyRigidFluidImpulse(p, other, p.alpha*other.outward)
			}
		}

		if len(f.particles) == 0 {
			return
		}
		relErr := total / (float64(len(f.particles)) * targetNeighbourhoodVolume)
		if relErr <= densityCorrectionTarget {
			return
		}
	}
}

// correctDivergence iteratively applies separation impulses so each
// particle's volume derivative (rate of compression) approaches zero,
// stopping early once the average relative error drops below
// divergenceCorrectionTarget.
func (f *Fluid) correctDivergence() {
	for steps := 0; steps < correctionMaxIterations; steps++ {
		total := 0.0
		f.updateVolumeDerivative()

		for _, p := range f.particles {
			p.volumeDerivative = math.Max(p.volumeDerivative, 0)
			total += p.volumeDerivative
			p.outward = 0.5 * p.alpha * p.volumeDerivative / p.Volume

			for _, other := range p.neighbours {
				f.applyFluidImpulse(p, other, 2*(p.outward+other.outward))
			}
		}

		for _, p := range f.rigidParticles {
			for _, other := range p.fluidNeighbours {
				f.applyRigidFluidImpulse(p, other, p.alpha*other.outward)
			}
		}

		if len(f.particles) == 0 {
			return
		}
		relErr := total / (float64(len(f.particles)) * targetNeighbourhoodVolume)
		if relErr <= divergenceCorrectionTarget {
			return
		}
	}
}

// singleStep advances the fluid solver by one sub-step no larger than
// maximumSPHSubstep: refresh particles and neighbours, remove velocity
// divergence, apply gravity/viscosity/surface-tension, remove density
// drift, then integrate position.
func (f *Fluid) singleStep(timeStep float64, gravity lin.Vec2) {
	f.fixParticles()
	f.correctDivergence()
	f.applyNonPressureForces(timeStep, gravity)
	f.correctDensity(timeStep)

	for _, p := range f.particles {
		var dp lin.Vec2
		dp.Scale(&p.Vel, timeStep)
		p.Pos.Add(&p.Pos, &dp)
	}
}

// update advances the fluid solver by totalStep (world-time seconds),
// split into chunks no larger than maximumSPHSubstep so the explicit
// integration stays stable.
func (f *Fluid) update(totalStep float64, gravity lin.Vec2) {
	current := 0.0
	for current+maximumSPHSubstep < totalStep {
		f.singleStep(maximumSPHSubstep, gravity)
		current += maximumSPHSubstep
	}
	f.singleStep(totalStep-current, gravity)
}
