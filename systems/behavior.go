package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/beehive/components"
)

// AgentView bundles the components a behavior reads and writes.
type AgentView struct {
	Agent   *components.Agent
	Pos     *components.Position
	Vel     *components.Velocity
	Rot     *components.Rotation
	Body    *components.Body
	Carrier *components.Carrier
}

// FlowerRef is a flower as seen by agents and the resolver.
// Index in the flower list is the flower's identity.
type FlowerRef struct {
	Pos    components.Position
	Radius float32
	Flower *components.Flower
}

// HiveRef is the hive as seen by agents and the resolver.
type HiveRef struct {
	Pos    components.Position
	Radius float32
	Hive   *components.Hive
}

// Tuning holds the behavior parameters that come from config.
type Tuning struct {
	Flying            bool // ceiling > 0 and no physics gravity: up/down move on Z
	PhysicsZ          bool // Z velocity belongs to the physics engine
	NormalizeDiagonal bool
	LookSensitivity   float32
	JumpImpulse       float32
	JumpCooldown      float32
	ArrivalThreshold  float32
	CollectionRate    float64
	FollowDistance    float32
	SenseRange        float32 // 0 = unlimited
	WanderChance      float64
}

// EventSink receives resource transfers as they happen.
type EventSink interface {
	Collected(agentID uint32, flower int32, amount float64)
	Deposited(agentID uint32, amount float64)
}

// StepContext is everything a behavior may look at besides its own agent.
// It is rebuilt by the game each tick.
type StepContext struct {
	Input     *InputState
	Rng       *rand.Rand
	Flowers   []FlowerRef
	Hive      HiveRef
	Player    components.Position
	HasPlayer bool
	Tuning    Tuning
	Events    EventSink
}

func (c *StepContext) collected(id uint32, flower int32, amount float64) {
	if c.Events != nil && amount > 0 {
		c.Events.Collected(id, flower, amount)
	}
}

func (c *StepContext) deposited(id uint32, amount float64) {
	if c.Events != nil && amount > 0 {
		c.Events.Deposited(id, amount)
	}
}

// Behavior sets an agent's velocity (and any mode state) for one tick.
// Position integration happens afterwards in Integrate or the physics engine.
type Behavior interface {
	Step(a AgentView, dt float32, ctx *StepContext)
}

var behaviors = [...]Behavior{
	components.ModePlayer: PlayerControl{},
	components.ModeWander: Wander{},
	components.ModeForage: Forage{},
}

// BehaviorFor returns the behavior registered for a mode.
func BehaviorFor(m components.Mode) (Behavior, bool) {
	if int(m) >= len(behaviors) {
		return nil, false
	}
	return behaviors[m], true
}

// PlayerControl drives an agent from the input state.
type PlayerControl struct{}

// Step implements Behavior.
func (PlayerControl) Step(a AgentView, dt float32, ctx *StepContext) {
	ag := a.Agent
	if ag.JumpCooldown > 0 {
		ag.JumpCooldown = max(0, ag.JumpCooldown-dt)
	}

	in := ctx.Input
	if in == nil {
		setVelocity(a.Vel, 0, 0, 0, ctx)
		return
	}

	if a.Rot != nil {
		if dx := in.ConsumeLook(); dx != 0 {
			a.Rot.Yaw = normalizeAngle(a.Rot.Yaw - dx*ctx.Tuning.LookSensitivity)
		}
	}

	var lx, ly, lz float32
	if jx, jy, ok := in.Joystick(); ok {
		lx, ly = jx, jy
	} else {
		lx, ly, lz = in.Axis()
		if ctx.Tuning.NormalizeDiagonal {
			if l := length3(lx, ly, 0); l > 1 {
				lx /= l
				ly /= l
			}
		}
	}
	if !ctx.Tuning.Flying {
		lz = 0
	}

	var yaw float32
	if a.Rot != nil {
		yaw = a.Rot.Yaw
	}
	wx, wy := rotate(lx, ly, yaw)
	setVelocity(a.Vel, wx*ag.Speed, wy*ag.Speed, lz*ag.Speed, ctx)

	if in.Held(ActionJump) && ag.Grounded && ag.JumpCooldown <= 0 {
		a.Vel.Z += ctx.Tuning.JumpImpulse
		ag.Grounded = false
		ag.JumpCooldown = ctx.Tuning.JumpCooldown
	}
}

// Wander re-randomizes velocity now and then and otherwise keeps it.
type Wander struct{}

// Step implements Behavior.
func (Wander) Step(a AgentView, dt float32, ctx *StepContext) {
	if ctx.Rng == nil || ctx.Rng.Float64() >= ctx.Tuning.WanderChance {
		return
	}
	s := a.Agent.Speed
	vx := (ctx.Rng.Float32() - 0.5) * s
	vy := (ctx.Rng.Float32() - 0.5) * s
	setVelocity(a.Vel, vx, vy, 0, ctx)
	face(a.Rot, vx, vy)
}

// Forage runs the seek, collect, return and follow state machine.
type Forage struct{}

// Step implements Behavior. Target selection happens first; then exactly one
// of collect, return or follow acts, chosen by target presence and load.
func (Forage) Step(a AgentView, dt float32, ctx *StepContext) {
	ag := a.Agent
	load := &a.Carrier.Pollen

	// A flower emptied by someone else is dropped before seeking
	if ag.HasTarget() && (!validFlower(ctx, ag.Target) || ctx.Flowers[ag.Target].Flower.Pollen.Empty()) {
		ag.ClearTarget()
	}

	if !ag.HasTarget() && !load.Full() {
		ag.State = components.StateSeeking
		if idx := NearestFlower(ctx.Flowers, *a.Pos, ctx.Tuning.SenseRange); idx != components.NoTarget {
			ag.Target = idx
		}
	}

	switch {
	case ag.HasTarget():
		ag.State = components.StateCollecting
		collect(a, dt, ctx)
	case load.Amount > 0:
		ag.State = components.StateReturning
		returnToHive(a, dt, ctx)
	default:
		ag.State = components.StateFollowing
		follow(a, dt, ctx)
	}
}

func collect(a AgentView, dt float32, ctx *StepContext) {
	ag := a.Agent
	f := &ctx.Flowers[ag.Target]
	if !moveToward(a, f.Pos, ctx.Tuning.ArrivalThreshold, dt, ctx) {
		return
	}

	load := &a.Carrier.Pollen
	req := math.Min(ctx.Tuning.CollectionRate*float64(dt), load.Free())
	granted := f.Flower.Pollen.Withdraw(req)
	load.Deposit(granted)
	ctx.collected(ag.ID, ag.Target, granted)

	if load.Full() || f.Flower.Pollen.Empty() {
		ag.ClearTarget()
	}
}

func returnToHive(a AgentView, dt float32, ctx *StepContext) {
	h := ctx.Hive.Hive
	if h == nil {
		setVelocity(a.Vel, 0, 0, 0, ctx)
		return
	}
	if !moveToward(a, ctx.Hive.Pos, ctx.Tuning.ArrivalThreshold, dt, ctx) {
		return
	}
	load := &a.Carrier.Pollen
	accepted := h.Receive(load.Amount)
	load.Withdraw(accepted)
	ctx.deposited(a.Agent.ID, accepted)
}

func follow(a AgentView, dt float32, ctx *StepContext) {
	if !ctx.HasPlayer {
		setVelocity(a.Vel, 0, 0, 0, ctx)
		return
	}
	moveWithin(a, ctx.Player, ctx.Tuning.FollowDistance, dt, ctx)
}

// moveToward heads for target and reports whether the agent is already
// within threshold of it (in which case velocity is zeroed).
func moveToward(a AgentView, target components.Position, threshold, dt float32, ctx *StepContext) bool {
	dx, dy, dz := offset(*a.Pos, target, ctx)
	if length3(dx, dy, dz) <= threshold {
		setVelocity(a.Vel, 0, 0, 0, ctx)
		return true
	}
	moveWithin(a, target, 0, dt, ctx)
	return false
}

// moveWithin steps toward target at the agent's speed but stops at stopAt
// from it. The step never crosses that boundary.
func moveWithin(a AgentView, target components.Position, stopAt, dt float32, ctx *StepContext) {
	dx, dy, dz := offset(*a.Pos, target, ctx)
	dist := length3(dx, dy, dz)
	if dist <= stopAt || dt <= 0 {
		setVelocity(a.Vel, 0, 0, 0, ctx)
		return
	}
	step := min(a.Agent.Speed*dt, dist-stopAt)
	v := step / dt / dist
	setVelocity(a.Vel, dx*v, dy*v, dz*v, ctx)
	face(a.Rot, dx, dy)
}

// offset is target minus pos, flattened to the ground plane when Z is not
// the agent's to steer.
func offset(pos, target components.Position, ctx *StepContext) (dx, dy, dz float32) {
	dx = target.X - pos.X
	dy = target.Y - pos.Y
	if ctx.Tuning.Flying {
		dz = target.Z - pos.Z
	}
	return dx, dy, dz
}

// setVelocity writes a velocity. When physics owns Z the vertical component
// is left alone.
func setVelocity(v *components.Velocity, x, y, z float32, ctx *StepContext) {
	v.X = x
	v.Y = y
	if !ctx.Tuning.PhysicsZ {
		v.Z = z
	}
}

// NearestFlower returns the index of the closest flower with pollen left,
// or NoTarget. Ties keep the lower index. maxRange 0 means unlimited.
func NearestFlower(flowers []FlowerRef, from components.Position, maxRange float32) int32 {
	best := components.NoTarget
	var bestDist float32
	limit := maxRange * maxRange
	for i := range flowers {
		f := &flowers[i]
		if f.Flower == nil || f.Flower.Pollen.Empty() {
			continue
		}
		d := distanceSq(from, f.Pos)
		if maxRange > 0 && d > limit {
			continue
		}
		if best == components.NoTarget || d < bestDist {
			best = int32(i)
			bestDist = d
		}
	}
	return best
}

func validFlower(ctx *StepContext, idx int32) bool {
	return idx >= 0 && int(idx) < len(ctx.Flowers) && ctx.Flowers[idx].Flower != nil
}

// rotate turns a local movement vector (-Y forward) by yaw.
func rotate(x, y, yaw float32) (float32, float32) {
	if yaw == 0 {
		return x, y
	}
	s, c := math.Sincos(float64(yaw))
	sin, cos := float32(s), float32(c)
	return x*cos - y*sin, x*sin + y*cos
}

// face points the rotation along a ground-plane heading.
func face(r *components.Rotation, dx, dy float32) {
	if r == nil || (dx == 0 && dy == 0) {
		return
	}
	r.Yaw = float32(math.Atan2(float64(dx), float64(-dy)))
}
