// Package renderer draws short-lived visual effects derived from frame changes.
package renderer

import (
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/beehive/camera"
	"github.com/pthm-cable/beehive/game"
)

// ParticleType selects an effect's motion and color.
type ParticleType uint8

const (
	// ParticlePickup puffs off a flower that lost pollen.
	ParticlePickup ParticleType = iota
	// ParticleDelivery rises from an agent that emptied its load.
	ParticleDelivery
)

// Particle is one effect particle in world space.
type Particle struct {
	X, Y       float32
	VelX, VelY float32
	Life       int32
	MaxLife    int32
	Type       ParticleType
	Size       float32
}

type entityKey struct {
	kind game.EntityKind
	id   uint32
}

// Effects turns pollen changes between consecutive frames into particles.
type Effects struct {
	Particles    []Particle
	maxParticles int
	rng          *rand.Rand

	last     map[entityKey]float64
	lastTick int32
	primed   bool
}

// NewEffects creates an effect system holding at most maxParticles.
func NewEffects(maxParticles int) *Effects {
	if maxParticles <= 0 {
		maxParticles = 500
	}
	return &Effects{
		Particles:    make([]Particle, 0, maxParticles),
		maxParticles: maxParticles,
		rng:          rand.New(rand.NewSource(1)),
		last:         make(map[entityKey]float64),
	}
}

// Observe compares f with the previously observed frame and emits a puff
// for every flower that gave pollen and every agent that unloaded.
// Repeated or rewound ticks only reset the baseline.
func (e *Effects) Observe(f game.Frame) {
	emit := e.primed && f.Tick > e.lastTick
	e.primed = true
	e.lastTick = f.Tick

	for _, ent := range f.Entities {
		if ent.Kind == game.KindHive {
			continue
		}
		key := entityKey{ent.Kind, ent.ID}
		prev, seen := e.last[key]
		e.last[key] = ent.Pollen
		if !emit || !seen || ent.Pollen >= prev {
			continue
		}
		drop := prev - ent.Pollen
		switch ent.Kind {
		case game.KindFlower:
			e.Burst(ent.X, ent.Y, ParticlePickup, burstSize(drop, 1))
		default:
			e.Burst(ent.X, ent.Y, ParticleDelivery, burstSize(drop, 3))
		}
	}
}

// burstSize scales particle count with the amount moved.
func burstSize(amount float64, min int) int {
	n := min + int(math.Log1p(amount))
	if n > 12 {
		n = 12
	}
	return n
}

// Burst emits n particles of type t at (x, y).
func (e *Effects) Burst(x, y float32, t ParticleType, n int) {
	for i := 0; i < n; i++ {
		if len(e.Particles) >= e.maxParticles {
			return
		}
		p := Particle{X: x, Y: y, Type: t}
		switch t {
		case ParticlePickup:
			p.VelX = (e.rng.Float32() - 0.5) * 1.2
			p.VelY = (e.rng.Float32() - 0.5) * 1.2
			p.Life = 20 + e.rng.Int31n(15)
			p.Size = 1.5 + e.rng.Float32()
		default:
			p.VelX = (e.rng.Float32() - 0.5) * 0.8
			p.VelY = -0.5 - e.rng.Float32()*0.8
			p.Life = 40 + e.rng.Int31n(30)
			p.Size = 2 + e.rng.Float32()*1.5
		}
		p.MaxLife = p.Life
		e.Particles = append(e.Particles, p)
	}
}

// Update ages and moves all particles, dropping expired ones.
func (e *Effects) Update() {
	alive := 0
	for i := range e.Particles {
		p := &e.Particles[i]

		p.Life--
		if p.Life <= 0 {
			continue
		}

		if p.Type == ParticleDelivery {
			// Honey sparks drift up
			p.VelY -= 0.01
		}

		p.VelX *= 0.95
		p.VelY *= 0.95
		p.X += p.VelX
		p.Y += p.VelY

		e.Particles[alive] = *p
		alive++
	}
	e.Particles = e.Particles[:alive]
}

// Draw renders all visible particles through cam.
func (e *Effects) Draw(cam *camera.Camera) {
	for i := range e.Particles {
		p := &e.Particles[i]
		if !cam.IsVisible(p.X, p.Y, p.Size) {
			continue
		}
		lifeRatio := float32(p.Life) / float32(p.MaxLife)

		var color rl.Color
		switch p.Type {
		case ParticlePickup:
			color = rl.Color{R: 250, G: 220, B: 70, A: uint8(lifeRatio * 220)}
		default:
			color = rl.Color{R: 255, G: 170, B: 30, A: uint8(lifeRatio * 200)}
		}

		size := p.Size * lifeRatio * cam.Zoom
		if size < 0.5 {
			size = 0.5
		}
		sx, sy := cam.WorldToScreen(p.X, p.Y)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, size, color)
	}
}
