package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/beehive/components"
	"github.com/pthm-cable/beehive/systems"
	"github.com/pthm-cable/beehive/telemetry"
)

// Step runs a single tick: input, physics, agents, flowers, hive,
// interactions, then telemetry, autosave and frame output.
func (g *Game) Step() {
	dt := g.cfg.Derived.DT32
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseInput)
	g.drainInput()

	g.perfCollector.StartPhase(telemetry.PhasePhysics)
	g.stepPhysics(dt)

	g.refreshRefs()

	g.perfCollector.StartPhase(telemetry.PhaseAgents)
	g.updateAgents(dt)

	g.perfCollector.StartPhase(telemetry.PhaseFlowers)
	systems.RegenerateFlowers(g.flowerRefs, float64(dt))

	g.perfCollector.StartPhase(telemetry.PhaseHive)
	g.updateHive(dt)

	g.perfCollector.StartPhase(telemetry.PhaseInteractions)
	g.resolveInteractions()

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.StartPhase(telemetry.PhaseAutosave)
	g.autosave()

	g.perfCollector.StartPhase(telemetry.PhaseFrame)
	g.publishFrame()

	if g.noticeTicks > 0 {
		g.noticeTicks--
		if g.noticeTicks == 0 {
			g.notice = ""
		}
	}

	g.perfCollector.EndTick()
}

// stepPhysics advances the engine and copies bodies back into components.
func (g *Game) stepPhysics(dt float32) {
	if g.physics == nil {
		return
	}
	g.physics.Step(dt)

	query := g.agentFilter.Query()
	for query.Next() {
		pos, vel, _, _, agent, _ := query.Get()
		id, ok := g.bodies[agent.ID]
		if !ok {
			continue
		}
		state, ok := g.physics.Body(id)
		if !ok {
			continue
		}
		*pos = state.Pos
		*vel = state.Vel
		agent.Grounded = state.Grounded
	}
}

// updateAgents runs every agent's behavior and moves it.
// A panicking agent is logged and skipped; the tick continues.
func (g *Game) updateAgents(dt float32) {
	ctx := &g.stepCtx
	*ctx = systems.StepContext{
		Input:   &g.input,
		Rng:     g.rng,
		Flowers: g.flowerRefs,
		Hive:    g.hiveRef(),
		Tuning:  g.tuning,
		Events:  eventSink{g},
	}
	if g.agentMap.Has(g.player) {
		ctx.Player = *g.posMap.Get(g.player)
		ctx.HasPlayer = true
	}

	query := g.agentFilter.Query()
	for query.Next() {
		pos, vel, rot, body, agent, carrier := query.Get()
		view := systems.AgentView{
			Agent:   agent,
			Pos:     pos,
			Vel:     vel,
			Rot:     rot,
			Body:    body,
			Carrier: carrier,
		}
		if err := g.stepAgent(view, dt, ctx); err != nil {
			g.agentFailed("agent update failed", agent.ID, err)
		}
	}
}

// agentFailed records a contained per-agent failure.
func (g *Game) agentFailed(msg string, id uint32, err error) {
	slog.Error(msg, "tick", g.tick, "agent", id, "error", err)
	g.collector.RecordPanic()
	g.logEvent(telemetry.NewPanicEvent(g.tick, id, err.Error()))
}

// stepAgent runs one agent's behavior and integration under a recover guard.
func (g *Game) stepAgent(a systems.AgentView, dt float32, ctx *systems.StepContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	beh, ok := systems.BehaviorFor(a.Agent.Mode)
	if !ok {
		return fmt.Errorf("no behavior for mode %s", a.Agent.Mode)
	}
	beh.Step(a, dt, ctx)

	if g.physics != nil {
		if id, ok := g.bodies[a.Agent.ID]; ok {
			g.physics.SetVelocity(id, *a.Vel)
		}
		return nil
	}
	a.Agent.Grounded = systems.Integrate(a.Pos, a.Vel, dt, g.bounds)
	return nil
}

// updateHive converts stored pollen into honey.
func (g *Game) updateHive(dt float32) {
	hive := g.hiveMap.Get(g.hive)
	if produced := hive.Convert(float64(dt)); produced > 0 {
		g.collector.RecordHoney(produced)
	}
}

// resolveInteractions runs contact pickup and deposit for player agents.
func (g *Game) resolveInteractions() {
	hive := g.hiveRef()

	query := g.agentFilter.Query()
	for query.Next() {
		pos, vel, rot, body, agent, carrier := query.Get()
		if agent.Mode != components.ModePlayer {
			continue
		}
		view := systems.AgentView{
			Agent:   agent,
			Pos:     pos,
			Vel:     vel,
			Rot:     rot,
			Body:    body,
			Carrier: carrier,
		}
		if err := g.resolveAgent(view, hive); err != nil {
			g.agentFailed("interaction failed", agent.ID, err)
		}
	}
}

// resolveAgent runs one agent's contact transfers under a recover guard.
func (g *Game) resolveAgent(a systems.AgentView, hive systems.HiveRef) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	g.resolver.Resolve(a, g.flowerRefs, hive, eventSink{g})
	return nil
}

// eventSink routes transfer events to telemetry.
type eventSink struct {
	g *Game
}

func (s eventSink) Collected(agentID uint32, flower int32, amount float64) {
	g := s.g
	g.collector.RecordCollect(amount, agentID == g.playerID)
	g.lifetimeTracker.RecordCollect(agentID, amount)
	g.logEvent(telemetry.NewCollectEvent(g.tick, agentID, flower, amount))
}

func (s eventSink) Deposited(agentID uint32, amount float64) {
	g := s.g
	g.collector.RecordDeposit(amount)
	g.lifetimeTracker.RecordDeposit(agentID, amount)
	g.logEvent(telemetry.NewDepositEvent(g.tick, agentID, amount))
}

// logEvent appends e to the event log when one is open.
func (g *Game) logEvent(e telemetry.Event) {
	if err := g.eventLog.Write(e); err != nil {
		slog.Error("failed to write event", "type", e.Type.String(), "error", err)
	}
}
