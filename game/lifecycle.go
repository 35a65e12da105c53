package game

import (
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/beehive/components"
	"github.com/pthm-cable/beehive/systems"
	"github.com/pthm-cable/beehive/telemetry"
)

// beeSpawnSpread is how far from the hive new bees appear.
const beeSpawnSpread = 40.0

// spawnWorld creates the hive, the flowers, the player and the starting bees.
func (g *Game) spawnWorld() {
	cfg := g.cfg

	g.hive = g.spawnHive(cfg.Derived.HiveX, cfg.Derived.HiveY)

	flowerRadius := float32(cfg.Flowers.Radius)
	hivePos := *g.posMap.Get(g.hive)
	placement := systems.Placement{
		Bounds:      g.bounds,
		Margin:      flowerRadius,
		Avoid:       hivePos,
		AvoidRadius: float32(cfg.Hive.Radius) + 2*flowerRadius,
		Mode:        cfg.Flowers.Placement,
		Meadow: systems.MeadowParams{
			Scale:     cfg.Flowers.Meadow.Scale,
			Threshold: cfg.Flowers.Meadow.Threshold,
			Attempts:  cfg.Flowers.Meadow.Attempts,
		},
	}
	for _, pos := range placement.Place(cfg.Flowers.Count, g.rng) {
		g.spawnFlower(pos)
	}
	g.refreshRefs()
	g.resolver.Index(g.flowerRefs)

	g.player = g.spawnAgent(components.Position{X: cfg.Derived.StartX, Y: cfg.Derived.StartY},
		components.ModePlayer, float32(cfg.Player.Speed), float32(cfg.Player.Radius), cfg.Player.Capacity)
	g.playerID = g.agentMap.Get(g.player).ID

	g.syncBeeCount(cfg.Bees.Count)

	slog.Info("world spawned",
		"flowers", len(g.flowers),
		"bees", g.beeCount,
		"placement", cfg.Flowers.Placement,
		"physics", g.physics != nil,
	)
}

// spawnHive creates the hive entity.
func (g *Game) spawnHive(x, y float32) ecs.Entity {
	cfg := g.cfg
	pos := components.Position{X: x, Y: y}
	body := components.Body{Radius: float32(cfg.Hive.Radius)}
	hive := components.Hive{
		Stored:   components.NewPool(0, cfg.Hive.StoreCapacity, cfg.Hive.ConversionRate),
		Honey:    components.NewPool(cfg.Hive.StartingHoney, 0, 0),
		BaseRate: cfg.Hive.ConversionRate,
	}
	return g.hiveMapper.NewEntity(&pos, &body, &hive)
}

// spawnFlower creates a full flower and appends it to the flower list.
func (g *Game) spawnFlower(pos components.Position) ecs.Entity {
	cfg := g.cfg
	body := components.Body{Radius: float32(cfg.Flowers.Radius)}
	flower := components.Flower{
		Pollen: components.NewPool(cfg.Flowers.Capacity, cfg.Flowers.Capacity, cfg.Flowers.RegenRate),
	}
	e := g.flowerMapper.NewEntity(&pos, &body, &flower)
	g.flowers = append(g.flowers, e)
	return e
}

// spawnAgent creates a mobile agent. Must not be called during a query.
func (g *Game) spawnAgent(pos components.Position, mode components.Mode, speed, radius float32, capacity float64) ecs.Entity {
	id := g.nextID
	g.nextID++

	vel := components.Velocity{}
	rot := components.Rotation{}
	body := components.Body{Radius: radius}
	agent := components.Agent{
		ID:        id,
		Mode:      mode,
		Speed:     speed,
		BaseSpeed: speed,
		State:     components.StateSeeking,
		Target:    components.NoTarget,
		Grounded:  true,
	}
	carrier := components.Carrier{
		Pollen:       components.NewPool(0, capacity, 0),
		BaseCapacity: capacity,
	}

	e := g.agentMapper.NewEntity(&pos, &vel, &rot, &body, &agent, &carrier)

	if g.physics != nil {
		g.bodies[id] = g.physics.AddBody(pos, radius)
	}
	return e
}

// spawnBee creates an AI bee near the hive.
func (g *Game) spawnBee() ecs.Entity {
	cfg := g.cfg
	hivePos := *g.posMap.Get(g.hive)

	angle := g.rng.Float64() * 2 * math.Pi
	dist := g.rng.Float64() * beeSpawnSpread
	pos := components.Position{
		X: hivePos.X + float32(math.Cos(angle)*dist),
		Y: hivePos.Y + float32(math.Sin(angle)*dist),
	}
	var vel components.Velocity
	g.bounds.Clamp(&pos, &vel)

	mode, ok := components.ParseMode(cfg.Bees.Mode)
	if !ok {
		mode = components.ModeForage
	}

	e := g.spawnAgent(pos, mode, float32(cfg.Bees.Speed), float32(cfg.Bees.Radius), cfg.Bees.Capacity)
	id := g.agentMap.Get(e).ID
	g.beeCount++
	g.lifetimeTracker.Register(id, g.tick)
	g.logEvent(telemetry.NewSpawnEvent(g.tick, id))
	return e
}

// syncBeeCount spawns bees until there are at least n. Bees are never removed.
// Returns the number spawned.
func (g *Game) syncBeeCount(n int) int {
	spawned := 0
	for g.beeCount < n {
		g.spawnBee()
		spawned++
	}
	return spawned
}

// refreshRefs rebuilds the per-tick flower and hive views.
func (g *Game) refreshRefs() {
	g.flowerRefs = g.flowerRefs[:0]
	for _, e := range g.flowers {
		g.flowerRefs = append(g.flowerRefs, systems.FlowerRef{
			Pos:    *g.posMap.Get(e),
			Radius: g.bodyMap.Get(e).Radius,
			Flower: g.flowerMap.Get(e),
		})
	}
}

// hiveRef returns the current hive view.
func (g *Game) hiveRef() systems.HiveRef {
	return systems.HiveRef{
		Pos:    *g.posMap.Get(g.hive),
		Radius: g.bodyMap.Get(g.hive).Radius,
		Hive:   g.hiveMap.Get(g.hive),
	}
}
