package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Bees      int `csv:"bees"`
	Following int `csv:"following"` // forage bees with nothing to do

	// Flows during window
	PollenCollected float64 `csv:"pollen_collected"`
	PlayerCollected float64 `csv:"player_collected"`
	PollenDeposited float64 `csv:"pollen_deposited"`
	HoneyProduced   float64 `csv:"honey_produced"`
	HoneySpent      float64 `csv:"honey_spent"`
	HoneyRate       float64 `csv:"honey_rate"` // honey produced per simulated second
	Purchases       int     `csv:"purchases"`
	AgentPanics     int     `csv:"agent_panics"`

	// Stocks at window end
	Honey        float64 `csv:"honey"`
	StoredPollen float64 `csv:"stored_pollen"`

	// Flower pollen distribution (sampled at window end)
	FlowerPollenMean float64 `csv:"flower_pollen_mean"`
	FlowerPollenP10  float64 `csv:"flower_pollen_p10"`
	FlowerPollenP50  float64 `csv:"flower_pollen_p50"`
	FlowerPollenP90  float64 `csv:"flower_pollen_p90"`

	// Bee load distribution
	BeeLoadMean float64 `csv:"bee_load_mean"`
	BeeLoadStd  float64 `csv:"bee_load_std"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputePoolStats calculates mean and percentiles of pool amounts.
func ComputePoolStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	// Sort a copy for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// ComputeLoadStats calculates the mean and sample standard deviation.
func ComputeLoadStats(values []float64) (mean, std float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("bees", s.Bees),
		slog.Int("following", s.Following),
		slog.Float64("pollen_collected", s.PollenCollected),
		slog.Float64("player_collected", s.PlayerCollected),
		slog.Float64("pollen_deposited", s.PollenDeposited),
		slog.Float64("honey_produced", s.HoneyProduced),
		slog.Float64("honey_spent", s.HoneySpent),
		slog.Float64("honey_rate", s.HoneyRate),
		slog.Int("purchases", s.Purchases),
		slog.Int("agent_panics", s.AgentPanics),
		slog.Float64("honey", s.Honey),
		slog.Float64("stored_pollen", s.StoredPollen),
		slog.Float64("flower_pollen_mean", s.FlowerPollenMean),
		slog.Float64("flower_pollen_p10", s.FlowerPollenP10),
		slog.Float64("flower_pollen_p50", s.FlowerPollenP50),
		slog.Float64("flower_pollen_p90", s.FlowerPollenP90),
		slog.Float64("bee_load_mean", s.BeeLoadMean),
		slog.Float64("bee_load_std", s.BeeLoadStd),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"bees", s.Bees,
		"following", s.Following,
		"pollen_collected", s.PollenCollected,
		"player_collected", s.PlayerCollected,
		"pollen_deposited", s.PollenDeposited,
		"honey_produced", s.HoneyProduced,
		"honey_spent", s.HoneySpent,
		"honey_rate", s.HoneyRate,
		"purchases", s.Purchases,
		"agent_panics", s.AgentPanics,
		"honey", s.Honey,
		"stored_pollen", s.StoredPollen,
		"flower_pollen_mean", s.FlowerPollenMean,
		"flower_pollen_p50", s.FlowerPollenP50,
		"bee_load_mean", s.BeeLoadMean,
	)
}
