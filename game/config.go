package game

import (
	"github.com/pthm-cable/beehive/config"
	"github.com/pthm-cable/beehive/save"
	"github.com/pthm-cable/beehive/systems"
	"github.com/pthm-cable/beehive/telemetry"
)

// FrameSink receives a Frame every transport.frame_every ticks.
type FrameSink interface {
	Publish(f Frame)
}

// Options configures a new Game.
type Options struct {
	Seed           int64
	Config         *config.Config // nil = config.Cfg()
	StepsPerUpdate int

	// Telemetry
	LogStats       bool
	StatsWindowSec float64 // 0 = config telemetry.stats_window
	OutputDir      string  // CSV logs, config snapshot and event log; empty disables
	StatsCallback  func(telemetry.WindowStats)

	// Persistence
	Store   save.Store // nil disables save, load and autosave
	SaveKey string     // empty = config save.key
	NoLoad  bool       // skip loading the saved state at startup

	// Collaborators
	Physics systems.PhysicsEngine // nil = build one from config when physics.enabled
	Frames  FrameSink
}

// DefaultOptions returns options for an interactive session.
func DefaultOptions() Options {
	return Options{
		Seed:           42,
		StepsPerUpdate: 1,
	}
}
