package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Counters for current window
	pollenCollected float64
	playerCollected float64
	pollenDeposited float64
	honeyProduced   float64
	honeySpent      float64
	purchases       int
	agentPanics     int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		windowStartTick:     0,
	}
}

// RecordCollect records pollen picked up from a flower.
func (c *Collector) RecordCollect(amount float64, byPlayer bool) {
	c.pollenCollected += amount
	if byPlayer {
		c.playerCollected += amount
	}
}

// RecordDeposit records pollen accepted by the hive.
func (c *Collector) RecordDeposit(amount float64) {
	c.pollenDeposited += amount
}

// RecordHoney records honey produced by the hive.
func (c *Collector) RecordHoney(amount float64) {
	c.honeyProduced += amount
}

// RecordPurchase records an upgrade bought for cost.
func (c *Collector) RecordPurchase(cost float64) {
	c.purchases++
	c.honeySpent += cost
}

// RecordPanic records an entity update that failed.
func (c *Collector) RecordPanic() {
	c.agentPanics++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Sample holds the world state read at the end of a window.
type Sample struct {
	Bees         int
	Following    int
	Honey        float64
	StoredPollen float64
	FlowerPollen []float64
	BeeLoads     []float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, sample Sample) WindowStats {
	flowerMean, flowerP10, flowerP50, flowerP90 := ComputePoolStats(sample.FlowerPollen)
	loadMean, loadStd := ComputeLoadStats(sample.BeeLoads)

	elapsed := float64(currentTick-c.windowStartTick) * float64(c.dt)
	var honeyRate float64
	if elapsed > 0 {
		honeyRate = c.honeyProduced / elapsed
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Bees:      sample.Bees,
		Following: sample.Following,

		PollenCollected: c.pollenCollected,
		PlayerCollected: c.playerCollected,
		PollenDeposited: c.pollenDeposited,
		HoneyProduced:   c.honeyProduced,
		HoneySpent:      c.honeySpent,
		HoneyRate:       honeyRate,
		Purchases:       c.purchases,
		AgentPanics:     c.agentPanics,

		Honey:        sample.Honey,
		StoredPollen: sample.StoredPollen,

		FlowerPollenMean: flowerMean,
		FlowerPollenP10:  flowerP10,
		FlowerPollenP50:  flowerP50,
		FlowerPollenP90:  flowerP90,

		BeeLoadMean: loadMean,
		BeeLoadStd:  loadStd,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.pollenCollected = 0
	c.playerCollected = 0
	c.pollenDeposited = 0
	c.honeyProduced = 0
	c.honeySpent = 0
	c.purchases = 0
	c.agentPanics = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
