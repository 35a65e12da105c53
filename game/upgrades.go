package game

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/pthm-cable/beehive/shop"
	"github.com/pthm-cable/beehive/telemetry"
)

// Purchase buys one level of kind with hive honey and applies it.
// On error nothing changes.
func (g *Game) Purchase(kind shop.Kind) error {
	if kind == shop.KindBeeCount {
		if n := g.beeCountAt(g.shop.Level(kind) + 1); n > MaxBees {
			return fmt.Errorf("%w: %s would reach %d bees", shop.ErrMaxLevel, kind, n)
		}
	}

	hive := g.hiveMap.Get(g.hive)
	paid := hive.Honey.Amount

	u, err := g.shop.Purchase(kind, &hive.Honey)
	if err != nil {
		return err
	}
	cost := paid - hive.Honey.Amount

	g.collector.RecordPurchase(cost)
	g.logEvent(telemetry.NewPurchaseEvent(g.tick, string(kind), cost))
	slog.Info("upgrade purchased", "kind", string(kind), "level", u.Level, "cost", cost, "next_cost", u.Cost)

	g.applyUpgrades()
	return nil
}

// MaxBees caps the colony size reachable through upgrades.
const MaxBees = 10000

// beeCountAt is the configured colony size with the bee-count upgrade at level.
func (g *Game) beeCountAt(level int) int {
	u, ok := g.shop.Get(shop.KindBeeCount)
	if !ok {
		return g.cfg.Bees.Count
	}
	n := u.Effect.Apply(float64(g.cfg.Bees.Count), level)
	if math.IsNaN(n) || n > MaxBees {
		return MaxBees + 1
	}
	return int(n)
}

// fits32 reports whether v is a usable float32 attribute.
func fits32(v float64) bool {
	return !math.IsNaN(v) && math.Abs(v) <= math.MaxFloat32
}

// applyUpgrades recomputes every upgraded attribute from its base value.
// Calling it twice in a row changes nothing.
func (g *Game) applyUpgrades() {
	// Spawning is structural, so it runs before the query below.
	if count, ok := g.shop.Get(shop.KindBeeCount); ok {
		g.syncBeeCount(min(g.beeCountAt(count.Level), MaxBees))
	}

	speed, hasSpeed := g.shop.Get(shop.KindSpeed)
	capacity, hasCapacity := g.shop.Get(shop.KindCapacity)

	query := g.agentFilter.Query()
	for query.Next() {
		_, _, _, _, agent, carrier := query.Get()
		if hasSpeed {
			if v := speed.Value(float64(agent.BaseSpeed)); fits32(v) {
				agent.Speed = float32(v)
			} else {
				slog.Warn("speed upgrade out of range", "agent", agent.ID, "level", speed.Level)
			}
		}
		if hasCapacity {
			if v := capacity.Value(carrier.BaseCapacity); fits32(v) && v > 0 {
				carrier.Pollen.SetCapacity(v)
			} else {
				slog.Warn("capacity upgrade out of range", "agent", agent.ID, "level", capacity.Level)
			}
		}
	}

	if rate, ok := g.shop.Get(shop.KindHoneyRate); ok {
		hive := g.hiveMap.Get(g.hive)
		if v := rate.Value(hive.BaseRate); fits32(v) {
			hive.Stored.Rate = v
		} else {
			slog.Warn("honey rate upgrade out of range", "level", rate.Level)
		}
	}
}
