// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Player    PlayerConfig    `yaml:"player"`
	Bees      BeesConfig      `yaml:"bees"`
	Flowers   FlowersConfig   `yaml:"flowers"`
	Hive      HiveConfig      `yaml:"hive"`
	Upgrades  []UpgradeConfig `yaml:"upgrades"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Save      SaveConfig      `yaml:"save"`
	Transport TransportConfig `yaml:"transport"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds world dimensions.
// Ceiling is the maximum altitude; 0 gives the flat 2D world.
type WorldConfig struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Ceiling float64 `yaml:"ceiling"`
}

// PhysicsConfig holds the tick length and the optional rigid-body engine settings.
type PhysicsConfig struct {
	DT           float64 `yaml:"dt"`
	Enabled      bool    `yaml:"enabled"`        // Use the point-mass engine instead of direct integration
	Gravity      float64 `yaml:"gravity"`        // Downward acceleration on Z (units/s^2)
	Damping      float64 `yaml:"damping"`        // Linear velocity damping per second
	GroundHeight float64 `yaml:"ground_height"`  // Minimum Z for bodies
	GridCellSize float64 `yaml:"grid_cell_size"` // Spatial grid cell size for contact queries
}

// PlayerConfig holds player agent parameters.
type PlayerConfig struct {
	StartX            float64 `yaml:"start_x"` // 0 = world center
	StartY            float64 `yaml:"start_y"` // 0 = world center
	Radius            float64 `yaml:"radius"`
	Speed             float64 `yaml:"speed"`
	Capacity          float64 `yaml:"capacity"`
	PickupPerTick     float64 `yaml:"pickup_per_tick"`
	NormalizeDiagonal bool    `yaml:"normalize_diagonal"`
	LookSensitivity   float64 `yaml:"look_sensitivity"` // radians per pointer unit
	JumpImpulse       float64 `yaml:"jump_impulse"`
	JumpCooldown      float64 `yaml:"jump_cooldown"` // seconds
}

// BeesConfig holds AI bee parameters.
type BeesConfig struct {
	Count            int     `yaml:"count"`
	Mode             string  `yaml:"mode"` // "wander" or "forage"
	Radius           float64 `yaml:"radius"`
	Speed            float64 `yaml:"speed"`
	Capacity         float64 `yaml:"capacity"`
	CollectionRate   float64 `yaml:"collection_rate"`   // pollen per second while at a flower
	ArrivalThreshold float64 `yaml:"arrival_threshold"` // distance counted as "at" a target
	FollowDistance   float64 `yaml:"follow_distance"`   // dead-zone radius around the player
	SenseRange       float64 `yaml:"sense_range"`       // flower search radius (0 = unlimited)
	WanderChance     float64 `yaml:"wander_chance"`     // per-tick probability of a new heading
}

// FlowersConfig holds flower placement and pollen parameters.
type FlowersConfig struct {
	Count     int          `yaml:"count"`
	Radius    float64      `yaml:"radius"`
	Capacity  float64      `yaml:"capacity"`
	RegenRate float64      `yaml:"regen_rate"` // pollen per second
	Placement string       `yaml:"placement"`  // "uniform" or "meadow"
	Meadow    MeadowConfig `yaml:"meadow"`
}

// MeadowConfig controls noise-based flower clustering.
type MeadowConfig struct {
	Scale     float64 `yaml:"scale"`     // noise frequency (features per world width)
	Threshold float64 `yaml:"threshold"` // noise value in [0,1] a site must exceed
	Attempts  int     `yaml:"attempts"`  // rejection-sampling attempts per flower
}

// HiveConfig holds hive parameters.
type HiveConfig struct {
	X              float64 `yaml:"x"`
	Y              float64 `yaml:"y"`
	Radius         float64 `yaml:"radius"`
	ConversionRate float64 `yaml:"conversion_rate"` // pollen converted to honey per second
	StoreCapacity  float64 `yaml:"store_capacity"`  // stored pollen cap (0 = unlimited)
	StartingHoney  float64 `yaml:"starting_honey"`
}

// UpgradeConfig defines one purchasable upgrade.
type UpgradeConfig struct {
	Kind       string  `yaml:"kind"`
	Name       string  `yaml:"name"`
	BaseCost   float64 `yaml:"base_cost"`
	CostGrowth float64 `yaml:"cost_growth"` // next cost = floor(cost * growth)
	MaxLevel   int     `yaml:"max_level"`   // 0 = unlimited
	Effect     string  `yaml:"effect"`      // "add" or "mul"
	Step       float64 `yaml:"step"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// SaveConfig holds persistence settings.
type SaveConfig struct {
	Backend          string  `yaml:"backend"` // "file", "sqlite" or "none"
	Path             string  `yaml:"path"`    // directory for file, database file for sqlite
	Key              string  `yaml:"key"`
	AutosaveInterval float64 `yaml:"autosave_interval"` // simulated seconds (0 = disabled)
}

// TransportConfig holds the websocket frame stream settings.
type TransportConfig struct {
	FrameEvery  int `yaml:"frame_every"`  // broadcast every N ticks
	ClientQueue int `yaml:"client_queue"` // per-client frame buffer
	InputQueue  int `yaml:"input_queue"`  // buffered remote input events
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // Physics.DT as float32
	WorldW32  float32
	WorldH32  float32
	Ceiling32 float32
	Flying    bool // Ceiling > 0: agents may move on Z
	StartX    float32
	StartY    float32
	HiveX     float32
	HiveY     float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Clone returns a deep copy, so tuning runs can mutate a config freely.
func (c *Config) Clone() *Config {
	out := *c
	out.Upgrades = append([]UpgradeConfig(nil), c.Upgrades...)
	return &out
}

func (c *Config) validate() error {
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("world dimensions must be positive, got %vx%v", c.World.Width, c.World.Height)
	}
	if c.Player.Capacity <= 0 || c.Bees.Capacity <= 0 || c.Flowers.Capacity <= 0 {
		return fmt.Errorf("player, bee and flower capacities must be positive")
	}
	switch c.Bees.Mode {
	case "wander", "forage":
	default:
		return fmt.Errorf("bees.mode must be wander or forage, got %q", c.Bees.Mode)
	}
	for _, u := range c.Upgrades {
		if u.Effect != "add" && u.Effect != "mul" {
			return fmt.Errorf("upgrade %s: effect must be add or mul, got %q", u.Kind, u.Effect)
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.WorldW32 = float32(c.World.Width)
	c.Derived.WorldH32 = float32(c.World.Height)
	c.Derived.Ceiling32 = float32(c.World.Ceiling)
	c.Derived.Flying = c.World.Ceiling > 0

	// Player defaults to the world center
	c.Derived.StartX = float32(c.Player.StartX)
	if c.Player.StartX == 0 {
		c.Derived.StartX = c.Derived.WorldW32 / 2
	}
	c.Derived.StartY = float32(c.Player.StartY)
	if c.Player.StartY == 0 {
		c.Derived.StartY = c.Derived.WorldH32 / 2
	}
	c.Derived.HiveX = float32(c.Hive.X)
	c.Derived.HiveY = float32(c.Hive.Y)

	if c.Telemetry.PerfCollectorWindow <= 0 {
		c.Telemetry.PerfCollectorWindow = 60
	}
	if c.Transport.FrameEvery <= 0 {
		c.Transport.FrameEvery = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
