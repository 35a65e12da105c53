package systems

import "github.com/pthm-cable/beehive/telemetry"

// Phase IDs in tick order. The perf tracker and HUD key off these.
const (
	PhaseInput        = telemetry.PhaseInput
	PhasePhysics      = telemetry.PhasePhysics
	PhaseAgents       = telemetry.PhaseAgents
	PhaseFlowers      = telemetry.PhaseFlowers
	PhaseHive         = telemetry.PhaseHive
	PhaseInteractions = telemetry.PhaseInteractions
	PhaseTelemetry    = telemetry.PhaseTelemetry
	PhaseAutosave     = telemetry.PhaseAutosave
	PhaseFrame        = telemetry.PhaseFrame
)

// SystemInfo describes a tick phase for UI display.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this phase does
	Category    string // Grouping (e.g., "core", "io")
}

// SystemRegistry holds metadata about all tick phases.
// This centralizes naming so the HUD and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known phases.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all phases in tick order.
// Update this when adding a phase to the tick.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: PhaseInput, Name: "Input", Description: "Drains queued input events", Category: "io"})

	// Simulation
	r.Register(SystemInfo{ID: PhasePhysics, Name: "Physics", Description: "Steps the physics engine and copies bodies back", Category: "core"})
	r.Register(SystemInfo{ID: PhaseAgents, Name: "Agents", Description: "Runs behaviors and integrates movement", Category: "core"})
	r.Register(SystemInfo{ID: PhaseFlowers, Name: "Flowers", Description: "Regenerates pollen", Category: "core"})
	r.Register(SystemInfo{ID: PhaseHive, Name: "Hive", Description: "Converts stored pollen to honey", Category: "core"})
	r.Register(SystemInfo{ID: PhaseInteractions, Name: "Interactions", Description: "Player pickup and deposit contacts", Category: "core"})

	// Output
	r.Register(SystemInfo{ID: PhaseTelemetry, Name: "Telemetry", Description: "Window stats and event log", Category: "io"})
	r.Register(SystemInfo{ID: PhaseAutosave, Name: "Autosave", Description: "Periodic save to the store", Category: "io"})
	r.Register(SystemInfo{ID: PhaseFrame, Name: "Frame", Description: "Builds and publishes the render frame", Category: "io"})
}

// Register adds a phase to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a phase ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered phases.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// IDs returns all phase IDs in tick order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
