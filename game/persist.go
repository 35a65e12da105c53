package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/pthm-cable/beehive/save"
	"github.com/pthm-cable/beehive/shop"
	"github.com/pthm-cable/beehive/telemetry"
)

// ErrNoStore is returned by Save and Load when no store is configured.
var ErrNoStore = errors.New("no save store configured")

// Snapshot captures the persisted subset of the game state.
func (g *Game) Snapshot() *save.State {
	agent := g.agentMap.Get(g.player)
	carrier := g.carrierMap.Get(g.player)
	hive := g.hiveMap.Get(g.hive)

	st := &save.State{
		Version: save.Version,
		Player: &save.PlayerState{
			Pollen:   carrier.Pollen.Amount,
			Capacity: carrier.Pollen.Capacity,
			Speed:    float64(agent.Speed),
		},
		Hive: &save.HiveState{
			Honey:          hive.Honey.Amount,
			StoredPollen:   hive.Stored.Amount,
			ConversionRate: hive.Stored.Rate,
		},
		Upgrades: make(map[string]save.UpgradeState, len(g.shop.All())),
	}
	for _, u := range g.shop.All() {
		st.Upgrades[string(u.Kind)] = save.UpgradeState{Level: u.Level, Cost: u.Cost}
	}
	return st
}

// Restore applies st to the game. Everything is validated first; on error
// the game is left exactly as it was. Sections and upgrade kinds missing
// from st are left untouched.
func (g *Game) Restore(st *save.State) error {
	if err := g.checkState(st); err != nil {
		return err
	}

	for kind, u := range st.Upgrades {
		// Checked above, so this cannot fail.
		_ = g.shop.SetState(shop.Kind(kind), u.Level, u.Cost)
	}
	g.applyUpgrades()

	if p := st.Player; p != nil {
		agent := g.agentMap.Get(g.player)
		carrier := g.carrierMap.Get(g.player)

		agent.Speed = float32(p.Speed)
		agent.BaseSpeed = agent.Speed
		if u, ok := g.shop.Get(shop.KindSpeed); ok {
			agent.BaseSpeed = float32(u.Base(p.Speed))
		}

		carrier.Pollen.SetCapacity(p.Capacity)
		carrier.BaseCapacity = p.Capacity
		if u, ok := g.shop.Get(shop.KindCapacity); ok {
			carrier.BaseCapacity = u.Base(p.Capacity)
		}
		carrier.Pollen.Set(p.Pollen)
	}

	if h := st.Hive; h != nil {
		hive := g.hiveMap.Get(g.hive)
		hive.Honey.Set(h.Honey)
		hive.Stored.Set(h.StoredPollen)
		hive.Stored.Rate = h.ConversionRate
		hive.BaseRate = h.ConversionRate
		if u, ok := g.shop.Get(shop.KindHoneyRate); ok {
			hive.BaseRate = u.Base(h.ConversionRate)
		}
	}
	return nil
}

// checkState validates st against the game without changing anything.
func (g *Game) checkState(st *save.State) error {
	if st == nil {
		return fmt.Errorf("%w: empty state", save.ErrInvalidSave)
	}
	if err := st.Check(); err != nil {
		return err
	}
	if p := st.Player; p != nil {
		if !finiteNonNeg(p.Pollen) || !finiteNonNeg(p.Speed) || !finiteNonNeg(p.Capacity) || p.Capacity == 0 || p.Speed > math.MaxFloat32 {
			return fmt.Errorf("%w: bad player values %+v", save.ErrInvalidSave, *p)
		}
	}
	if h := st.Hive; h != nil {
		if !finiteNonNeg(h.Honey) || !finiteNonNeg(h.StoredPollen) || !finiteNonNeg(h.ConversionRate) {
			return fmt.Errorf("%w: bad hive values %+v", save.ErrInvalidSave, *h)
		}
		if limit := g.cfg.Hive.StoreCapacity; limit > 0 && h.StoredPollen > limit {
			return fmt.Errorf("%w: stored pollen %v exceeds hive capacity %v", save.ErrInvalidSave, h.StoredPollen, limit)
		}
	}
	for kind, u := range st.Upgrades {
		if err := g.shop.CheckState(shop.Kind(kind), u.Level, u.Cost); err != nil {
			return fmt.Errorf("%w: %v", save.ErrInvalidSave, err)
		}
	}
	if u, ok := st.Upgrades[string(shop.KindBeeCount)]; ok {
		if n := g.beeCountAt(u.Level); n > MaxBees {
			return fmt.Errorf("%w: bee count %d exceeds %d", save.ErrInvalidSave, n, MaxBees)
		}
	}
	return nil
}

func finiteNonNeg(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

// Save writes the current state to the store under the save key.
func (g *Game) Save(ctx context.Context) error {
	if g.store == nil {
		return ErrNoStore
	}
	data, err := save.Marshal(g.Snapshot())
	if err != nil {
		return err
	}
	if err := g.store.Save(ctx, g.saveKey, data); err != nil {
		return fmt.Errorf("saving %s: %w", g.saveKey, err)
	}
	g.logEvent(telemetry.NewSaveEvent(g.tick, g.saveKey))
	return nil
}

// Load restores the state saved under the save key. A missing save
// returns save.ErrNotFound; a corrupt one posts the invalid-save notice.
func (g *Game) Load(ctx context.Context) error {
	if g.store == nil {
		return ErrNoStore
	}
	data, err := g.store.Load(ctx, g.saveKey)
	if err != nil {
		return fmt.Errorf("loading %s: %w", g.saveKey, err)
	}
	st, err := save.Unmarshal(data)
	if err == nil {
		err = g.Restore(st)
	}
	if err != nil {
		g.postNotice(save.InvalidNotice)
		return fmt.Errorf("loading %s: %w", g.saveKey, err)
	}
	slog.Info("save loaded", "key", g.saveKey)
	return nil
}

// Export returns the shareable save string: base64 of the JSON state.
func (g *Game) Export() (string, error) {
	return save.Export(g.Snapshot())
}

// Import decodes a save string and restores it. On any failure the game is
// unchanged, the invalid-save notice is posted and the error wraps
// save.ErrInvalidSave.
func (g *Game) Import(str string) error {
	st, err := save.Import(str)
	if err == nil {
		err = g.Restore(st)
	}
	if err != nil {
		g.postNotice(save.InvalidNotice)
		g.logEvent(telemetry.NewImportEvent(g.tick, err.Error()))
		slog.Warn("import rejected", "error", err)
		return err
	}
	g.logEvent(telemetry.NewImportEvent(g.tick, ""))
	slog.Info("save imported", "tick", g.tick)
	return nil
}

// autosave saves every save.autosave_interval seconds of simulated time.
func (g *Game) autosave() {
	if g.store == nil || g.autosaveTicks <= 0 || g.tick%g.autosaveTicks != 0 {
		return
	}
	if err := g.Save(context.Background()); err != nil {
		slog.Error("autosave failed", "key", g.saveKey, "error", err)
		return
	}
	slog.Debug("autosave", "key", g.saveKey, "tick", g.tick)
}
