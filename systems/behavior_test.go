package systems

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/pthm-cable/beehive/components"
)

type testAgent struct {
	agent   components.Agent
	pos     components.Position
	vel     components.Velocity
	rot     components.Rotation
	body    components.Body
	carrier components.Carrier
}

func newTestAgent(mode components.Mode, x, y, speed float32, capacity float64) *testAgent {
	return &testAgent{
		agent:   components.Agent{ID: 1, Mode: mode, Speed: speed, BaseSpeed: speed, Target: components.NoTarget, Grounded: true},
		pos:     components.Position{X: x, Y: y},
		body:    components.Body{Radius: 10},
		carrier: components.Carrier{Pollen: components.NewPool(0, capacity, 0), BaseCapacity: capacity},
	}
}

func (ta *testAgent) view() AgentView {
	return AgentView{Agent: &ta.agent, Pos: &ta.pos, Vel: &ta.vel, Rot: &ta.rot, Body: &ta.body, Carrier: &ta.carrier}
}

func testFlower(x, y float32, pollen float64) FlowerRef {
	return FlowerRef{
		Pos:    components.Position{X: x, Y: y},
		Radius: 15,
		Flower: &components.Flower{Pollen: components.NewPool(pollen, 100, 0.1)},
	}
}

func testHive(x, y float32) HiveRef {
	return HiveRef{
		Pos:    components.Position{X: x, Y: y},
		Radius: 25,
		Hive:   &components.Hive{Stored: components.NewPool(0, 0, 0.5)},
	}
}

func testTuning() Tuning {
	return Tuning{
		NormalizeDiagonal: true,
		LookSensitivity:   0.01,
		JumpImpulse:       12,
		JumpCooldown:      0.5,
		ArrivalThreshold:  1,
		CollectionRate:    20,
		FollowDistance:    60,
		WanderChance:      0.02,
	}
}

var bigBounds = Bounds{Width: 10000, Height: 10000}

func speedOf(v components.Velocity) float64 {
	return float64(length3(v.X, v.Y, v.Z))
}

func TestBehaviorRegistry(t *testing.T) {
	for _, m := range []components.Mode{components.ModePlayer, components.ModeWander, components.ModeForage} {
		if b, ok := BehaviorFor(m); !ok || b == nil {
			t.Errorf("no behavior for %s", m)
		}
	}
	if _, ok := BehaviorFor(components.Mode(42)); ok {
		t.Error("unknown mode should not resolve")
	}
}

func TestPlayerDiagonal(t *testing.T) {
	tests := []struct {
		name      string
		normalize bool
		want      float64
	}{
		{"normalized", true, 300},
		{"raw", false, 300 * math.Sqrt2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAgent(components.ModePlayer, 100, 100, 300, 100)
			var in InputState
			in.Apply(InputEvent{Kind: EventKey, Action: ActionForward, Down: true})
			in.Apply(InputEvent{Kind: EventKey, Action: ActionLeft, Down: true})

			ctx := &StepContext{Input: &in, Tuning: testTuning()}
			ctx.Tuning.NormalizeDiagonal = tt.normalize
			PlayerControl{}.Step(a.view(), 1.0/60, ctx)

			if got := speedOf(a.vel); math.Abs(got-tt.want) > 1e-3 {
				t.Errorf("speed = %v, want %v", got, tt.want)
			}
			if a.vel.X >= 0 || a.vel.Y >= 0 {
				t.Errorf("forward-left should move -X -Y, got %+v", a.vel)
			}
		})
	}
}

func TestPlayerYawRotatesMovement(t *testing.T) {
	a := newTestAgent(components.ModePlayer, 100, 100, 100, 100)
	a.rot.Yaw = math.Pi / 2

	var in InputState
	in.Apply(InputEvent{Kind: EventKey, Action: ActionForward, Down: true})
	PlayerControl{}.Step(a.view(), 1.0/60, &StepContext{Input: &in, Tuning: testTuning()})

	if math.Abs(float64(a.vel.X-100)) > 1e-3 || math.Abs(float64(a.vel.Y)) > 1e-3 {
		t.Errorf("forward at yaw pi/2 should be +X, got %+v", a.vel)
	}
}

func TestPlayerLookTurns(t *testing.T) {
	a := newTestAgent(components.ModePlayer, 100, 100, 100, 100)
	var in InputState
	in.Apply(InputEvent{Kind: EventLook, DX: -10})
	PlayerControl{}.Step(a.view(), 1.0/60, &StepContext{Input: &in, Tuning: testTuning()})

	if math.Abs(float64(a.rot.Yaw)-0.1) > 1e-5 {
		t.Errorf("yaw = %v, want 0.1", a.rot.Yaw)
	}
}

func TestPlayerHugeLookDeltaStaysWrapped(t *testing.T) {
	for _, dx := range []float32{1e30, -1e30, float32(math.Inf(1)), float32(math.NaN())} {
		a := newTestAgent(components.ModePlayer, 100, 100, 100, 100)
		var in InputState
		in.Apply(InputEvent{Kind: EventLook, DX: dx})

		done := make(chan struct{})
		go func() {
			PlayerControl{}.Step(a.view(), 1.0/60, &StepContext{Input: &in, Tuning: testTuning()})
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("dx=%v: step did not return", dx)
		}

		yaw := float64(a.rot.Yaw)
		if math.IsNaN(yaw) || math.Abs(yaw) > math.Pi+1e-6 {
			t.Errorf("dx=%v: yaw = %v, want within [-Pi, Pi]", dx, yaw)
		}
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{3 * math.Pi, math.Pi},
		{-5 * math.Pi / 2, -math.Pi / 2},
		{float32(math.Inf(-1)), 0},
	}
	for _, tt := range tests {
		got := normalizeAngle(tt.in)
		if math.Abs(math.Abs(float64(got))-math.Abs(float64(tt.want))) > 1e-4 {
			t.Errorf("normalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := normalizeAngle(1e20); got < -math.Pi || got > math.Pi {
		t.Errorf("normalizeAngle(1e20) = %v", got)
	}
}

func TestPlayerJoystickReplacesKeys(t *testing.T) {
	a := newTestAgent(components.ModePlayer, 100, 100, 200, 100)
	var in InputState
	in.Apply(InputEvent{Kind: EventKey, Action: ActionLeft, Down: true})
	in.Apply(InputEvent{Kind: EventJoystick, X: 0.5, Y: 0})
	PlayerControl{}.Step(a.view(), 1.0/60, &StepContext{Input: &in, Tuning: testTuning()})

	if a.vel.X != 100 || a.vel.Y != 0 {
		t.Errorf("velocity = %+v, want joystick (100, 0)", a.vel)
	}
}

func TestPlayerFlatWorldIgnoresUp(t *testing.T) {
	a := newTestAgent(components.ModePlayer, 100, 100, 200, 100)
	var in InputState
	in.Apply(InputEvent{Kind: EventKey, Action: ActionUp, Down: true})
	PlayerControl{}.Step(a.view(), 1.0/60, &StepContext{Input: &in, Tuning: testTuning()})
	if a.vel.Z != 0 {
		t.Errorf("flat world should ignore up, got vz=%v", a.vel.Z)
	}

	ctx := &StepContext{Input: &in, Tuning: testTuning()}
	ctx.Tuning.Flying = true
	PlayerControl{}.Step(a.view(), 1.0/60, ctx)
	if a.vel.Z != 200 {
		t.Errorf("flying world should climb, got vz=%v", a.vel.Z)
	}
}

func TestPlayerJumpCooldown(t *testing.T) {
	a := newTestAgent(components.ModePlayer, 100, 100, 200, 100)
	var in InputState
	in.Apply(InputEvent{Kind: EventKey, Action: ActionJump, Down: true})
	ctx := &StepContext{Input: &in, Tuning: testTuning()}
	ctx.Tuning.PhysicsZ = true
	dt := float32(0.1)

	PlayerControl{}.Step(a.view(), dt, ctx)
	if a.vel.Z != 12 {
		t.Fatalf("first jump vz = %v, want 12", a.vel.Z)
	}
	if a.agent.JumpCooldown != 0.5 {
		t.Errorf("cooldown = %v, want 0.5", a.agent.JumpCooldown)
	}

	// Landed again but still cooling down
	a.vel.Z = 0
	a.agent.Grounded = true
	PlayerControl{}.Step(a.view(), dt, ctx)
	if a.vel.Z != 0 {
		t.Errorf("jump during cooldown gave vz = %v", a.vel.Z)
	}

	// Cooldown runs out tick by tick
	jumped := false
	for range 6 {
		a.vel.Z = 0
		a.agent.Grounded = true
		PlayerControl{}.Step(a.view(), dt, ctx)
		if a.vel.Z == 12 {
			jumped = true
			break
		}
	}
	if !jumped {
		t.Error("no jump after cooldown expired")
	}
}

func TestWander(t *testing.T) {
	a := newTestAgent(components.ModeWander, 100, 100, 100, 50)
	ctx := &StepContext{Rng: rand.New(rand.NewSource(1)), Tuning: testTuning()}

	ctx.Tuning.WanderChance = 1
	for range 100 {
		Wander{}.Step(a.view(), 1.0/60, ctx)
		if a.vel.X < -50 || a.vel.X > 50 || a.vel.Y < -50 || a.vel.Y > 50 {
			t.Fatalf("velocity %+v outside [-speed/2, speed/2]", a.vel)
		}
	}

	ctx.Tuning.WanderChance = 0
	before := a.vel
	for range 100 {
		Wander{}.Step(a.view(), 1.0/60, ctx)
	}
	if a.vel != before {
		t.Errorf("velocity changed with zero chance: %+v -> %+v", before, a.vel)
	}
}

func TestNearestFlower(t *testing.T) {
	from := components.Position{X: 100, Y: 100}
	flowers := []FlowerRef{
		testFlower(200, 100, 0),  // closest but empty
		testFlower(150, 100, 10), // tie
		testFlower(50, 100, 10),  // tie, later index
		testFlower(400, 100, 10),
	}

	if got := NearestFlower(flowers, from, 0); got != 1 {
		t.Errorf("NearestFlower = %d, want 1 (lowest index on tie)", got)
	}
	if got := NearestFlower(flowers, from, 40); got != components.NoTarget {
		t.Errorf("NearestFlower in range 40 = %d, want none", got)
	}
	if got := NearestFlower(nil, from, 0); got != components.NoTarget {
		t.Errorf("NearestFlower(nil) = %d, want none", got)
	}
}

func TestForageCollectReturnCycle(t *testing.T) {
	a := newTestAgent(components.ModeForage, 100, 100, 100, 50)
	flowers := []FlowerRef{testFlower(100, 100, 100)}
	hive := testHive(110, 100)
	ctx := &StepContext{Flowers: flowers, Hive: hive, Tuning: testTuning()}
	dt := float32(0.5) // 10 pollen per collecting tick

	step := func() {
		Forage{}.Step(a.view(), dt, ctx)
		Integrate(&a.pos, &a.vel, dt, bigBounds)
	}

	for i := range 5 {
		step()
		if a.agent.State != components.StateCollecting {
			t.Fatalf("tick %d: state = %s, want collecting", i, a.agent.State)
		}
	}
	if a.carrier.Pollen.Amount != 50 {
		t.Fatalf("carried = %v, want 50", a.carrier.Pollen.Amount)
	}
	if a.agent.HasTarget() {
		t.Error("target should clear once full")
	}
	if got := flowers[0].Flower.Pollen.Amount; got != 50 {
		t.Errorf("flower pollen = %v, want 50", got)
	}

	// Travel to the hive without overshooting
	step()
	if a.agent.State != components.StateReturning {
		t.Fatalf("state = %s, want returning", a.agent.State)
	}
	if math.Abs(float64(a.pos.X-110)) > 1e-3 {
		t.Errorf("x = %v, want to stop at hive 110", a.pos.X)
	}

	// Deposit
	step()
	if a.carrier.Pollen.Amount != 0 {
		t.Errorf("carried after deposit = %v, want 0", a.carrier.Pollen.Amount)
	}
	if got := hive.Hive.Stored.Amount; got != 50 {
		t.Errorf("hive stored = %v, want 50", got)
	}

	// Back to the flower
	step()
	if a.agent.State != components.StateCollecting || a.agent.Target != 0 {
		t.Errorf("expected to seek flower 0 again, state=%s target=%d", a.agent.State, a.agent.Target)
	}
}

func TestForageReturnsPartialLoadWhenFlowersEmpty(t *testing.T) {
	a := newTestAgent(components.ModeForage, 100, 100, 100, 50)
	a.carrier.Pollen.Deposit(30)
	ctx := &StepContext{Flowers: []FlowerRef{testFlower(300, 300, 0)}, Hive: testHive(100, 100), Tuning: testTuning()}

	Forage{}.Step(a.view(), 0.1, ctx)
	if a.agent.State != components.StateReturning {
		t.Fatalf("state = %s, want returning", a.agent.State)
	}
	if a.carrier.Pollen.Amount != 0 || ctx.Hive.Hive.Stored.Amount != 30 {
		t.Errorf("carried=%v stored=%v, want 0 and 30", a.carrier.Pollen.Amount, ctx.Hive.Hive.Stored.Amount)
	}
}

func TestForageFollowDeadZone(t *testing.T) {
	const followDistance = 60
	a := newTestAgent(components.ModeForage, 320, 200, 60, 50)
	ctx := &StepContext{
		Flowers:   []FlowerRef{testFlower(500, 500, 0)},
		Hive:      testHive(0, 0),
		Player:    components.Position{X: 200, Y: 200},
		HasPlayer: true,
		Tuning:    testTuning(),
	}
	ctx.Tuning.FollowDistance = followDistance
	dt := float32(1.0 / 60) // one unit per tick

	dist := func() float64 { return float64(Distance(a.pos, ctx.Player)) }

	for i := range followDistance {
		Forage{}.Step(a.view(), dt, ctx)
		Integrate(&a.pos, &a.vel, dt, bigBounds)
		if a.agent.State != components.StateFollowing {
			t.Fatalf("tick %d: state = %s, want following", i, a.agent.State)
		}
	}
	if d := dist(); math.Abs(d-followDistance) > 1e-2 {
		t.Errorf("after %d ticks distance = %v, want %v (halved)", followDistance, d, followDistance)
	}

	for range 30 {
		Forage{}.Step(a.view(), dt, ctx)
		Integrate(&a.pos, &a.vel, dt, bigBounds)
		if d := dist(); d < followDistance-1e-2 {
			t.Fatalf("entered dead-zone: distance %v", d)
		}
	}
}

func TestForageFollowWithoutPlayerStops(t *testing.T) {
	a := newTestAgent(components.ModeForage, 320, 200, 60, 50)
	a.vel = components.Velocity{X: 5, Y: 5}
	Forage{}.Step(a.view(), 0.1, &StepContext{Tuning: testTuning()})
	if a.vel != (components.Velocity{}) {
		t.Errorf("velocity = %+v, want zero", a.vel)
	}
}

func TestForageDropsInvalidTarget(t *testing.T) {
	a := newTestAgent(components.ModeForage, 100, 100, 60, 50)
	a.agent.Target = 7
	ctx := &StepContext{Flowers: []FlowerRef{testFlower(100, 100, 10)}, Hive: testHive(0, 0), Tuning: testTuning()}

	Forage{}.Step(a.view(), 0.1, ctx)
	if a.agent.Target != 0 {
		t.Errorf("target = %d, want reselected flower 0", a.agent.Target)
	}
}

func TestForageDropsTargetEmptiedEnRoute(t *testing.T) {
	a := newTestAgent(components.ModeForage, 0, 0, 60, 50)
	ctx := &StepContext{
		Flowers: []FlowerRef{testFlower(100, 0, 10), testFlower(0, 300, 10)},
		Hive:    testHive(-500, -500),
		Tuning:  testTuning(),
	}
	Forage{}.Step(a.view(), 0.1, ctx)
	if a.agent.Target != 0 {
		t.Fatalf("target = %d, want nearest flower 0", a.agent.Target)
	}

	// Someone else drains the flower before the bee arrives
	ctx.Flowers[0].Flower.Pollen.Withdraw(10)
	Forage{}.Step(a.view(), 0.1, ctx)
	if a.agent.Target != 1 {
		t.Errorf("target = %d, want retarget to flower 1", a.agent.Target)
	}
	if a.vel.Y <= 0 {
		t.Errorf("bee should head for flower 1, vel = %+v", a.vel)
	}
}
