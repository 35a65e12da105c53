package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/beehive/config"
	"github.com/pthm-cable/beehive/game"
	"github.com/pthm-cable/beehive/shop"
	"github.com/pthm-cable/beehive/telemetry"
)

// FitnessEvaluator runs headless games with an automatic buyer and scores
// how well the economy paces toward a honey target.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	targetHoney float64
	statsWindow float64

	mu          sync.Mutex
	lastResult  runSummary // aggregate from most recent Evaluate call
	bestFitness float64
	bestSummary runSummary
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config, targetHoney float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		targetHoney: targetHoney,
		statsWindow: 10.0,
		bestFitness: math.Inf(1),
	}
}

// runSummary is what one run (or the mean over seeds) produced.
type runSummary struct {
	HoneyProduced float64
	Purchases     int
	Starved       float64 // fraction of windows where the meadow ran dry
	RateCV        float64 // coefficient of variation of the honey rate
}

// LastSummary returns the seed-averaged summary of the most recent evaluation.
func (fe *FitnessEvaluator) LastSummary() runSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastResult
}

// BestSummary returns the summary of the best evaluation so far.
func (fe *FitnessEvaluator) BestSummary() runSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestSummary
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	// Run all seeds in parallel
	results := make([]runSummary, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg.Clone(), s)
		}(i, seed)
	}
	wg.Wait()

	var mean runSummary
	var total float64
	for _, r := range results {
		total += fe.computeFitness(r)
		mean.HoneyProduced += r.HoneyProduced
		mean.Purchases += r.Purchases
		mean.Starved += r.Starved
		mean.RateCV += r.RateCV
	}
	n := float64(len(results))
	mean.HoneyProduced /= n
	mean.Purchases = int(math.Round(float64(mean.Purchases) / n))
	mean.Starved /= n
	mean.RateCV /= n
	avg := total / n

	fe.mu.Lock()
	fe.lastResult = mean
	if avg < fe.bestFitness {
		fe.bestFitness = avg
		fe.bestSummary = mean
	}
	fe.mu.Unlock()

	return avg
}

// runSimulation plays one headless game, buying the cheapest affordable
// upgrade whenever one is available.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) runSummary {
	var windows []telemetry.WindowStats
	g, err := game.New(game.Options{
		Seed:           seed,
		Config:         cfg,
		StepsPerUpdate: 1,
		StatsWindowSec: fe.statsWindow,
		NoLoad:         true,
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})
	if err != nil {
		slog.Error("game setup failed", "seed", seed, "error", err)
		return runSummary{}
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
		buyCheapest(g)
	}

	return summarize(windows, cfg.Flowers.Capacity)
}

// buyCheapest purchases the cheapest upgrade the hive can afford.
func buyCheapest(g *game.Game) {
	var best *shop.Upgrade
	for _, u := range g.Shop().All() {
		if u.Maxed() || u.Cost > g.Honey() {
			continue
		}
		if best == nil || u.Cost < best.Cost {
			best = u
		}
	}
	if best != nil {
		_ = g.Purchase(best.Kind)
	}
}

// starvedFraction is the share of flower capacity under which the
// low decile counts as a dry meadow.
const starvedFraction = 0.05

// summarize reduces window stats to the numbers the fitness uses.
func summarize(windows []telemetry.WindowStats, flowerCapacity float64) runSummary {
	var s runSummary
	if len(windows) == 0 {
		return s
	}
	rates := make([]float64, 0, len(windows))
	starved := 0
	for _, w := range windows {
		s.HoneyProduced += w.HoneyProduced
		s.Purchases += w.Purchases
		rates = append(rates, w.HoneyRate)
		if w.FlowerPollenP10 < starvedFraction*flowerCapacity {
			starved++
		}
	}
	s.Starved = float64(starved) / float64(len(windows))
	s.RateCV = cv(rates)
	return s
}

// Fitness component weights.
const (
	weightTarget    = 1.0
	weightStarved   = 0.5
	weightStability = 0.25
	weightPurchases = 0.25

	// Purchases per run that read as steady progression.
	targetPurchases = 8
)

// computeFitness scores a run (lower = better). Honey produced should land
// near the target on a log scale; dry meadows, a jumpy honey rate and too
// few or too many purchases are penalized.
func (fe *FitnessEvaluator) computeFitness(r runSummary) float64 {
	honey := math.Max(r.HoneyProduced, 1)
	logErr := math.Log(honey / fe.targetHoney)

	purchaseErr := math.Log(float64(r.Purchases+1) / float64(targetPurchases+1))

	return weightTarget*logErr*logErr +
		weightStarved*r.Starved +
		weightStability*r.RateCV*r.RateCV +
		weightPurchases*purchaseErr*purchaseErr
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}
