package systems

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/beehive/components"
)

func TestIntegrateClampsToBounds(t *testing.T) {
	b := Bounds{Width: 100, Height: 100}
	pos := components.Position{X: 95, Y: 5, Z: 3}
	vel := components.Velocity{X: 60, Y: -60, Z: 10}

	grounded := Integrate(&pos, &vel, 0.5, b)
	if pos.X != 100 || pos.Y != 0 {
		t.Errorf("pos = %+v, want clamped to (100, 0)", pos)
	}
	if vel.X != -60 || vel.Y != 60 {
		t.Errorf("walls should reflect velocity, got %+v", vel)
	}
	if pos.Z != 0 || vel.Z != 0 || !grounded {
		t.Errorf("flat world should pin Z, got pos.Z=%v vel.Z=%v grounded=%v", pos.Z, vel.Z, grounded)
	}
}

func TestIntegrateCeiling(t *testing.T) {
	b := Bounds{Width: 100, Height: 100, Ceiling: 50}
	pos := components.Position{X: 50, Y: 50, Z: 45}
	vel := components.Velocity{Z: 20}

	if grounded := Integrate(&pos, &vel, 1, b); grounded {
		t.Error("should not be grounded at the ceiling")
	}
	if pos.Z != 50 || vel.Z != 0 {
		t.Errorf("pos.Z=%v vel.Z=%v, want 50 and 0", pos.Z, vel.Z)
	}
}

func TestPointMassWorldFallsToGround(t *testing.T) {
	w, err := NewPointMassWorld(Bounds{Width: 100, Height: 100}, 30, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	id := w.AddBody(components.Position{X: 50, Y: 50, Z: 10}, 5)

	for range 120 {
		w.Step(1.0 / 60)
	}
	b, ok := w.Body(id)
	if !ok {
		t.Fatal("body missing")
	}
	if b.Pos.Z != 0 || !b.Grounded {
		t.Errorf("body should rest on the ground, got %+v", b)
	}
}

func TestPointMassWorldJump(t *testing.T) {
	w, err := NewPointMassWorld(Bounds{Width: 100, Height: 100}, 30, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	id := w.AddBody(components.Position{X: 50, Y: 50}, 5)
	w.SetVelocity(id, components.Velocity{Z: 12})

	w.Step(0.1)
	b, _ := w.Body(id)
	if b.Pos.Z <= 0 || b.Grounded {
		t.Errorf("jump should leave the ground with a zero ceiling, got %+v", b)
	}
}

func TestPointMassWorldDamping(t *testing.T) {
	w, err := NewPointMassWorld(Bounds{Width: 1000, Height: 1000}, 0, 0.5, 0)
	if err != nil {
		t.Fatal(err)
	}
	id := w.AddBody(components.Position{X: 500, Y: 500}, 5)
	w.SetVelocity(id, components.Velocity{X: 100})

	w.Step(0.1)
	b, _ := w.Body(id)
	if math.Abs(float64(b.Vel.X-95)) > 1e-3 {
		t.Errorf("vel.X = %v, want 95", b.Vel.X)
	}
}

func TestPointMassWorldInvalid(t *testing.T) {
	tests := []struct {
		name             string
		bounds           Bounds
		gravity, damping float32
		ground           float32
	}{
		{"negative gravity", Bounds{Width: 10, Height: 10}, -1, 0, 0},
		{"nan damping", Bounds{Width: 10, Height: 10}, 1, float32(math.NaN()), 0},
		{"empty bounds", Bounds{}, 1, 0, 0},
		{"below zero ground", Bounds{Width: 10, Height: 10}, 1, 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPointMassWorld(tt.bounds, tt.gravity, tt.damping, tt.ground)
			if !errors.Is(err, ErrInvalidPhysics) {
				t.Errorf("err = %v, want ErrInvalidPhysics", err)
			}
		})
	}
}

func TestPointMassWorldUnknownBody(t *testing.T) {
	w, err := NewPointMassWorld(Bounds{Width: 10, Height: 10}, 1, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	w.SetVelocity(3, components.Velocity{X: 1})
	if _, ok := w.Body(3); ok {
		t.Error("unknown body should not be found")
	}
}
