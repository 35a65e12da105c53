package systems

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/beehive/components"
)

// ErrInvalidPhysics is returned when an engine cannot be built from its settings.
var ErrInvalidPhysics = errors.New("invalid physics settings")

// BodyID identifies a body inside a PhysicsEngine.
type BodyID int

// BodyState is a body transform copied back onto its entity after a step.
type BodyState struct {
	Pos      components.Position
	Vel      components.Velocity
	Grounded bool
}

// PhysicsEngine is the rigid-body collaborator. The game sets velocities
// after its behaviors run and reads transforms back after each Step.
type PhysicsEngine interface {
	AddBody(pos components.Position, radius float32) BodyID
	SetVelocity(id BodyID, v components.Velocity)
	Step(dt float32)
	Body(id BodyID) (BodyState, bool)
}

type pointMass struct {
	pos      components.Position
	vel      components.Velocity
	radius   float32
	grounded bool
}

// PointMassWorld is a minimal PhysicsEngine: point masses with gravity on Z,
// linear damping, a ground plane and reflecting world walls.
type PointMassWorld struct {
	bodies  []pointMass
	bounds  Bounds
	gravity float32
	damping float32
	ground  float32
}

// NewPointMassWorld creates an engine. Gravity and damping must be finite
// and non-negative. A zero ceiling leaves altitude unbounded.
func NewPointMassWorld(bounds Bounds, gravity, damping, ground float32) (*PointMassWorld, error) {
	for name, v := range map[string]float32{"gravity": gravity, "damping": damping} {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return nil, fmt.Errorf("%w: %s = %v", ErrInvalidPhysics, name, v)
		}
	}
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return nil, fmt.Errorf("%w: bounds %vx%v", ErrInvalidPhysics, bounds.Width, bounds.Height)
	}
	if ground < 0 {
		return nil, fmt.Errorf("%w: ground height %v below zero", ErrInvalidPhysics, ground)
	}
	// Unbounded altitude
	if bounds.Ceiling <= 0 {
		bounds.Ceiling = math.MaxFloat32
	}
	return &PointMassWorld{
		bounds:  bounds,
		gravity: gravity,
		damping: damping,
		ground:  ground,
	}, nil
}

// AddBody adds a body at pos and returns its id.
func (w *PointMassWorld) AddBody(pos components.Position, radius float32) BodyID {
	w.bodies = append(w.bodies, pointMass{pos: pos, radius: radius})
	return BodyID(len(w.bodies) - 1)
}

// SetVelocity replaces a body's velocity. Unknown ids are ignored.
func (w *PointMassWorld) SetVelocity(id BodyID, v components.Velocity) {
	if id < 0 || int(id) >= len(w.bodies) {
		return
	}
	w.bodies[id].vel = v
}

// Step advances every body by dt.
func (w *PointMassWorld) Step(dt float32) {
	keep := max(0, 1-w.damping*dt)
	for i := range w.bodies {
		b := &w.bodies[i]

		b.vel.Z -= w.gravity * dt
		b.vel.X *= keep
		b.vel.Y *= keep
		b.vel.Z *= keep

		b.pos.X += b.vel.X * dt
		b.pos.Y += b.vel.Y * dt
		b.pos.Z += b.vel.Z * dt

		// Walls and ceiling; the floor is handled at ground height below
		w.bounds.Clamp(&b.pos, &b.vel)

		b.grounded = false
		if b.pos.Z <= w.ground {
			b.pos.Z = w.ground
			if b.vel.Z < 0 {
				b.vel.Z = 0
			}
			b.grounded = true
		}
	}
}

// Body returns the current state of a body.
func (w *PointMassWorld) Body(id BodyID) (BodyState, bool) {
	if id < 0 || int(id) >= len(w.bodies) {
		return BodyState{}, false
	}
	b := &w.bodies[id]
	return BodyState{Pos: b.pos, Vel: b.vel, Grounded: b.grounded}, true
}
