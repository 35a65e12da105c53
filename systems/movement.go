package systems

import "github.com/pthm-cable/beehive/components"

// Bounds represents the simulation bounds. Ceiling 0 pins Z to the ground.
type Bounds struct {
	Width, Height, Ceiling float32
}

// Integrate advances pos by vel*dt and keeps it inside bounds.
// It is the direct-integration path used when no physics engine is present.
// Returns whether the entity ends on the ground.
func Integrate(pos *components.Position, vel *components.Velocity, dt float32, b Bounds) bool {
	pos.X += vel.X * dt
	pos.Y += vel.Y * dt
	pos.Z += vel.Z * dt
	return b.Clamp(pos, vel)
}

// Clamp keeps a position inside the bounds. Ground-plane walls reflect the
// velocity; the floor and ceiling stop it. Returns whether pos is on the floor.
func (b Bounds) Clamp(pos *components.Position, vel *components.Velocity) bool {
	if pos.X < 0 {
		pos.X = 0
		vel.X = -vel.X
	} else if pos.X > b.Width {
		pos.X = b.Width
		vel.X = -vel.X
	}
	if pos.Y < 0 {
		pos.Y = 0
		vel.Y = -vel.Y
	} else if pos.Y > b.Height {
		pos.Y = b.Height
		vel.Y = -vel.Y
	}

	if b.Ceiling <= 0 {
		pos.Z = 0
		vel.Z = 0
		return true
	}
	if pos.Z > b.Ceiling {
		pos.Z = b.Ceiling
		if vel.Z > 0 {
			vel.Z = 0
		}
	}
	if pos.Z <= 0 {
		pos.Z = 0
		if vel.Z < 0 {
			vel.Z = 0
		}
		return true
	}
	return false
}
