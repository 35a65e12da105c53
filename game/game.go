// Package game owns the ark world and advances the bee simulation one
// fixed-order tick at a time.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/beehive/components"
	"github.com/pthm-cable/beehive/config"
	"github.com/pthm-cable/beehive/save"
	"github.com/pthm-cable/beehive/shop"
	"github.com/pthm-cable/beehive/systems"
	"github.com/pthm-cable/beehive/telemetry"
)

// noticeSeconds is how long a user-visible notice stays up.
const noticeSeconds = 3.0

// Game holds the complete game state.
type Game struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand

	// Entity mappers
	agentMapper *ecs.Map6[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Body,
		components.Agent,
		components.Carrier,
	]
	agentFilter ecs.Filter6[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Body,
		components.Agent,
		components.Carrier,
	]
	flowerMapper *ecs.Map3[components.Position, components.Body, components.Flower]
	hiveMapper   *ecs.Map3[components.Position, components.Body, components.Hive]

	// Individual component mappers for lookups
	posMap     *ecs.Map[components.Position]
	bodyMap    *ecs.Map[components.Body]
	agentMap   *ecs.Map[components.Agent]
	carrierMap *ecs.Map[components.Carrier]
	flowerMap  *ecs.Map[components.Flower]
	hiveMap    *ecs.Map[components.Hive]

	// World layout. Flowers are kept in index order; refs are rebuilt
	// every tick since component pointers do not survive structural changes.
	flowers    []ecs.Entity
	flowerRefs []systems.FlowerRef
	hive       ecs.Entity
	player     ecs.Entity
	playerID   uint32
	beeCount   int

	// Behavior and contact resolution
	tuning   systems.Tuning
	bounds   systems.Bounds
	resolver *systems.Resolver
	stepCtx  systems.StepContext
	physics  systems.PhysicsEngine
	bodies   map[uint32]systems.BodyID

	// Input
	input  systems.InputState
	inputs chan systems.InputEvent

	// Economy
	shop *shop.Shop

	// Persistence
	store         save.Store
	saveKey       string
	autosaveTicks int32
	notice        string
	noticeTicks   int32

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	bookmarkDetector *telemetry.BookmarkDetector
	lifetimeTracker  *telemetry.LifetimeTracker
	eventLog         *telemetry.EventLog
	statsCallback    func(telemetry.WindowStats)
	logStats         bool

	// Frame output
	frames     FrameSink
	frameEvery int32

	// State
	tick           int32
	nextID         uint32
	paused         bool
	stepsPerUpdate int
}

// New creates a game from options, spawns the world and, unless
// opts.NoLoad is set, restores the saved state from opts.Store.
func New(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	sh, err := shop.New(cfg.Upgrades)
	if err != nil {
		return nil, fmt.Errorf("building shop: %w", err)
	}

	world := ecs.NewWorld()

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	saveKey := opts.SaveKey
	if saveKey == "" {
		saveKey = cfg.Save.Key
	}
	inputQueue := cfg.Transport.InputQueue
	if inputQueue < 1 {
		inputQueue = 1
	}

	g := &Game{
		cfg:   cfg,
		world: world,
		rng:   rand.New(rand.NewSource(opts.Seed)),
		agentMapper: ecs.NewMap6[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Body,
			components.Agent,
			components.Carrier,
		](world),
		agentFilter: *ecs.NewFilter6[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Body,
			components.Agent,
			components.Carrier,
		](world),
		flowerMapper: ecs.NewMap3[components.Position, components.Body, components.Flower](world),
		hiveMapper:   ecs.NewMap3[components.Position, components.Body, components.Hive](world),
		posMap:       ecs.NewMap[components.Position](world),
		bodyMap:      ecs.NewMap[components.Body](world),
		agentMap:     ecs.NewMap[components.Agent](world),
		carrierMap:   ecs.NewMap[components.Carrier](world),
		flowerMap:    ecs.NewMap[components.Flower](world),
		hiveMap:      ecs.NewMap[components.Hive](world),
		bodies:       make(map[uint32]systems.BodyID),
		inputs:       make(chan systems.InputEvent, inputQueue),
		shop:         sh,
		store:        opts.Store,
		saveKey:      saveKey,
		frames:       opts.Frames,
		frameEvery:   int32(cfg.Transport.FrameEvery),

		stepsPerUpdate: steps,

		collector:        telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		lifetimeTracker:  telemetry.NewLifetimeTracker(),
		statsCallback:    opts.StatsCallback,
		logStats:         opts.LogStats,
	}

	if cfg.Save.AutosaveInterval > 0 {
		g.autosaveTicks = int32(cfg.Save.AutosaveInterval / cfg.Physics.DT)
		if g.autosaveTicks < 1 {
			g.autosaveTicks = 1
		}
	}

	g.bounds = systems.Bounds{
		Width:   cfg.Derived.WorldW32,
		Height:  cfg.Derived.WorldH32,
		Ceiling: cfg.Derived.Ceiling32,
	}
	g.physics = g.setupPhysics(opts.Physics)
	g.tuning = g.buildTuning()

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("creating output manager: %w", err)
		}
		g.outputManager = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
		el, err := telemetry.NewEventLog(om.EventLogPath())
		if err != nil {
			_ = om.Close()
			return nil, fmt.Errorf("opening event log: %w", err)
		}
		g.eventLog = el
	}

	g.resolver = systems.NewResolver(
		systems.NewSpatialGrid(g.bounds.Width, g.bounds.Height, float32(cfg.Physics.GridCellSize)),
		cfg.Player.PickupPerTick,
	)

	g.spawnWorld()
	g.applyUpgrades()

	if g.store != nil && !opts.NoLoad {
		if err := g.Load(context.Background()); err != nil && !errors.Is(err, save.ErrNotFound) {
			slog.Warn("saved state not loaded", "key", g.saveKey, "error", err)
		}
	}

	return g, nil
}

// setupPhysics returns the engine to use, or nil for direct integration.
func (g *Game) setupPhysics(engine systems.PhysicsEngine) systems.PhysicsEngine {
	if engine != nil {
		return engine
	}
	if !g.cfg.Physics.Enabled {
		return nil
	}
	w, err := systems.NewPointMassWorld(
		g.bounds,
		float32(g.cfg.Physics.Gravity),
		float32(g.cfg.Physics.Damping),
		float32(g.cfg.Physics.GroundHeight),
	)
	if err != nil {
		slog.Warn("physics unavailable, using direct integration", "error", err)
		return nil
	}
	return w
}

// buildTuning copies behavior parameters out of config.
func (g *Game) buildTuning() systems.Tuning {
	cfg := g.cfg
	return systems.Tuning{
		Flying:            cfg.Derived.Flying && g.physics == nil,
		PhysicsZ:          g.physics != nil,
		NormalizeDiagonal: cfg.Player.NormalizeDiagonal,
		LookSensitivity:   float32(cfg.Player.LookSensitivity),
		JumpImpulse:       float32(cfg.Player.JumpImpulse),
		JumpCooldown:      float32(cfg.Player.JumpCooldown),
		ArrivalThreshold:  float32(cfg.Bees.ArrivalThreshold),
		CollectionRate:    cfg.Bees.CollectionRate,
		FollowDistance:    float32(cfg.Bees.FollowDistance),
		SenseRange:        float32(cfg.Bees.SenseRange),
		WanderChance:      cfg.Bees.WanderChance,
	}
}

// Update handles pause and runs StepsPerUpdate ticks.
func (g *Game) Update() {
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step()
	}
	g.perfCollector.RecordFrame()
}

// UpdateHeadless is Update without frame accounting.
func (g *Game) UpdateHeadless() {
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step()
	}
}

// Unload autosaves and releases telemetry outputs.
func (g *Game) Unload() {
	if g.store != nil {
		if err := g.Save(context.Background()); err != nil {
			slog.Error("exit save failed", "key", g.saveKey, "error", err)
		}
	}
	if g.outputManager != nil {
		if err := g.outputManager.WriteForagers(g.lifetimeTracker.Top(20)); err != nil {
			slog.Error("failed to write foragers", "error", err)
		}
	}
	if err := g.eventLog.Close(); err != nil {
		slog.Error("failed to close event log", "error", err)
	}
	g.eventLog = nil
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	g.outputManager = nil
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Config returns the configuration the game was built with.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Paused reports whether ticks are suspended.
func (g *Game) Paused() bool {
	return g.paused
}

// SetPaused suspends or resumes tick advancement.
func (g *Game) SetPaused(p bool) {
	g.paused = p
}

// TogglePause flips the pause state.
func (g *Game) TogglePause() {
	g.paused = !g.paused
}

// Speed returns the ticks run per Update.
func (g *Game) Speed() int {
	return g.stepsPerUpdate
}

// SetSpeed sets the ticks run per Update, clamped to [1, 10].
func (g *Game) SetSpeed(n int) {
	g.stepsPerUpdate = max(1, min(n, 10))
}

// Shop returns the upgrade shop.
func (g *Game) Shop() *shop.Shop {
	return g.shop
}

// PerfStats returns the rolling per-phase timings.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perfCollector.Stats()
}

// BeeCount returns the number of AI bees.
func (g *Game) BeeCount() int {
	return g.beeCount
}

// Honey returns the hive's honey.
func (g *Game) Honey() float64 {
	return g.hiveMap.Get(g.hive).Honey.Amount
}

// Hive returns a copy of the hive component.
func (g *Game) Hive() components.Hive {
	return *g.hiveMap.Get(g.hive)
}

// PlayerPosition returns the player's position.
func (g *Game) PlayerPosition() components.Position {
	return *g.posMap.Get(g.player)
}

// PlayerCarrier returns a copy of the player's carrier.
func (g *Game) PlayerCarrier() components.Carrier {
	return *g.carrierMap.Get(g.player)
}

// Notice returns the current user-visible notice, or "" if none.
func (g *Game) Notice() string {
	return g.notice
}

// postNotice shows msg for a few seconds of simulated time.
func (g *Game) postNotice(msg string) {
	g.notice = msg
	g.noticeTicks = int32(noticeSeconds / g.cfg.Physics.DT)
}
