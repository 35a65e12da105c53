package renderer

import (
	"testing"

	"github.com/pthm-cable/beehive/game"
)

func frame(tick int32, flowerPollen, beePollen float64) game.Frame {
	return game.Frame{
		Tick: tick,
		Entities: []game.EntityFrame{
			{Kind: game.KindHive, Pollen: 0},
			{Kind: game.KindFlower, ID: 0, X: 10, Y: 10, Pollen: flowerPollen, Capacity: 100},
			{Kind: game.KindBee, ID: 1, X: 50, Y: 50, Pollen: beePollen, Capacity: 50},
		},
	}
}

func countType(ps []Particle, t ParticleType) int {
	n := 0
	for _, p := range ps {
		if p.Type == t {
			n++
		}
	}
	return n
}

func TestObserveFirstFrameIsBaseline(t *testing.T) {
	e := NewEffects(100)
	e.Observe(frame(1, 0, 0))
	if len(e.Particles) != 0 {
		t.Errorf("first frame emitted %d particles", len(e.Particles))
	}
}

func TestObservePickupAndDelivery(t *testing.T) {
	e := NewEffects(100)
	e.Observe(frame(1, 100, 30))
	e.Observe(frame(2, 90, 0))

	if countType(e.Particles, ParticlePickup) == 0 {
		t.Error("flower losing pollen should puff")
	}
	if countType(e.Particles, ParticleDelivery) == 0 {
		t.Error("bee unloading should spark")
	}
	for _, p := range e.Particles {
		if p.Life <= 0 || p.Life != p.MaxLife {
			t.Fatalf("fresh particle life %d/%d", p.Life, p.MaxLife)
		}
	}
}

func TestObserveIgnoresGainsAndStalledTicks(t *testing.T) {
	e := NewEffects(100)
	e.Observe(frame(1, 50, 0))
	e.Observe(frame(2, 60, 10)) // regen and pickup both gain
	if len(e.Particles) != 0 {
		t.Errorf("gains emitted %d particles", len(e.Particles))
	}

	// Paused: same tick, even a loaded import must not emit
	e.Observe(frame(2, 0, 0))
	if len(e.Particles) != 0 {
		t.Errorf("repeated tick emitted %d particles", len(e.Particles))
	}
}

func TestBurstRespectsCap(t *testing.T) {
	e := NewEffects(5)
	e.Burst(0, 0, ParticlePickup, 20)
	if len(e.Particles) != 5 {
		t.Errorf("expected cap of 5, got %d", len(e.Particles))
	}
}

func TestUpdateExpiresParticles(t *testing.T) {
	e := NewEffects(50)
	e.Burst(0, 0, ParticleDelivery, 10)
	for i := 0; i < 100; i++ {
		e.Update()
	}
	if len(e.Particles) != 0 {
		t.Errorf("%d particles outlived their life", len(e.Particles))
	}
}

func TestDeliveryDriftsUp(t *testing.T) {
	e := NewEffects(10)
	e.Burst(0, 0, ParticleDelivery, 1)
	for i := 0; i < 10; i++ {
		e.Update()
	}
	if e.Particles[0].Y >= 0 {
		t.Errorf("delivery spark at y=%v, expected above origin", e.Particles[0].Y)
	}
}

func TestBurstSize(t *testing.T) {
	if got := burstSize(0, 3); got != 3 {
		t.Errorf("burstSize(0) = %d", got)
	}
	if got := burstSize(1e9, 1); got != 12 {
		t.Errorf("burstSize capped = %d", got)
	}
}
