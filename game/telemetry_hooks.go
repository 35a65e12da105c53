package game

import (
	"log/slog"

	"github.com/pthm-cable/beehive/components"
	"github.com/pthm-cable/beehive/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sample())
	perfStats := g.perfCollector.Stats()

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
	if err := g.eventLog.Flush(); err != nil {
		slog.Error("failed to flush event log", "error", err)
	}

	// Check for bookmarks
	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// sample reads the world state the window stats report.
func (g *Game) sample() telemetry.Sample {
	hive := g.hiveMap.Get(g.hive)
	s := telemetry.Sample{
		Bees:         g.beeCount,
		Honey:        hive.Honey.Amount,
		StoredPollen: hive.Stored.Amount,
		FlowerPollen: make([]float64, 0, len(g.flowers)),
		BeeLoads:     make([]float64, 0, g.beeCount),
	}

	for _, e := range g.flowers {
		s.FlowerPollen = append(s.FlowerPollen, g.flowerMap.Get(e).Pollen.Amount)
	}

	query := g.agentFilter.Query()
	for query.Next() {
		_, _, _, _, agent, carrier := query.Get()
		if agent.Mode == components.ModePlayer {
			continue
		}
		s.BeeLoads = append(s.BeeLoads, carrier.Pollen.Amount)
		if agent.Mode == components.ModeForage && agent.State == components.StateFollowing {
			s.Following++
		}
	}
	return s
}
