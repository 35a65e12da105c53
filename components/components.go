// Package components defines ECS components for the simulation.
package components

// Mode selects an agent's behavior. It is fixed at construction.
type Mode uint8

const (
	ModePlayer Mode = iota // Velocity comes from input
	ModeWander             // Random heading changes
	ModeForage             // Flower/hive/player state machine
)

// String returns the mode name used in config and telemetry.
func (m Mode) String() string {
	switch m {
	case ModePlayer:
		return "player"
	case ModeWander:
		return "wander"
	case ModeForage:
		return "forage"
	}
	return "unknown"
}

// ParseMode maps a config string to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "player":
		return ModePlayer, true
	case "wander":
		return ModeWander, true
	case "forage":
		return ModeForage, true
	}
	return 0, false
}

// ForageState is the state of a forage-and-return agent.
type ForageState uint8

const (
	StateSeeking ForageState = iota
	StateCollecting
	StateReturning
	StateFollowing
)

// String returns the state name.
func (s ForageState) String() string {
	switch s {
	case StateSeeking:
		return "seeking"
	case StateCollecting:
		return "collecting"
	case StateReturning:
		return "returning"
	case StateFollowing:
		return "following"
	}
	return "unknown"
}

// NoTarget marks an agent without a target flower.
const NoTarget int32 = -1

// Agent holds mobile-entity state shared by all behavior modes.
type Agent struct {
	ID        uint32
	Mode      Mode
	Speed     float32 // current speed after upgrades
	BaseSpeed float32 // speed before upgrades

	// Forage state machine
	State  ForageState
	Target int32 // index into the game's flower list, NoTarget if none

	// Jump
	JumpCooldown float32 // seconds until the next jump is allowed
	Grounded     bool
}

// HasTarget reports whether the agent is heading for a flower.
func (a *Agent) HasTarget() bool {
	return a.Target != NoTarget
}

// ClearTarget drops the flower reference.
func (a *Agent) ClearTarget() {
	a.Target = NoTarget
}

// Carrier holds the pollen an agent is carrying.
type Carrier struct {
	Pollen       Pool
	BaseCapacity float64 // capacity before upgrades
}

// Flower is a stationary pollen source. Pollen.Rate is regeneration per second.
type Flower struct {
	Pollen Pool
}

// Hive is the pollen sink and honey source.
// Stored.Rate is the pollen converted to honey per second.
type Hive struct {
	Stored       Pool
	Honey        Pool // unbounded; also the upgrade currency
	BaseRate     float64
	TotalHoney   float64 // honey produced over the session
	TotalDeposit float64 // pollen received over the session
}

// Convert turns up to Stored.Rate*dt of stored pollen into honey, one to one.
// Returns the honey produced.
func (h *Hive) Convert(dt float64) float64 {
	converted := h.Stored.Withdraw(h.Stored.Rate * dt)
	produced := h.Honey.Deposit(converted)
	h.TotalHoney += produced
	return produced
}

// Receive deposits pollen into storage and returns the amount accepted.
func (h *Hive) Receive(pollen float64) float64 {
	accepted := h.Stored.Deposit(pollen)
	h.TotalDeposit += accepted
	return accepted
}
