package telemetry

import "sort"

// ForagerStats tracks per-bee statistics over its lifetime.
type ForagerStats struct {
	SpawnTick int32
	Collected float64 // pollen taken from flowers
	Deposited float64 // pollen accepted by the hive
	Trips     int     // completed deposits
}

// ForagerRecord is a ForagerStats tagged with its entity, for export.
type ForagerRecord struct {
	EntityID  uint32  `json:"entity_id"`
	SpawnTick int32   `json:"spawn_tick"`
	Collected float64 `json:"collected"`
	Deposited float64 `json:"deposited"`
	Trips     int     `json:"trips"`
}

// LifetimeTracker manages per-bee forager statistics.
type LifetimeTracker struct {
	stats map[uint32]*ForagerStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*ForagerStats),
	}
}

// Register creates stats for a newly spawned bee.
func (lt *LifetimeTracker) Register(entityID uint32, spawnTick int32) {
	lt.stats[entityID] = &ForagerStats{SpawnTick: spawnTick}
}

// Get returns the stats for a bee, or nil if not found.
func (lt *LifetimeTracker) Get(entityID uint32) *ForagerStats {
	return lt.stats[entityID]
}

// Remove removes a bee's stats and returns them.
func (lt *LifetimeTracker) Remove(entityID uint32) *ForagerStats {
	stats := lt.stats[entityID]
	delete(lt.stats, entityID)
	return stats
}

// RecordCollect adds pollen taken from a flower.
func (lt *LifetimeTracker) RecordCollect(entityID uint32, amount float64) {
	if s := lt.stats[entityID]; s != nil {
		s.Collected += amount
	}
}

// RecordDeposit adds pollen accepted by the hive and counts a trip.
func (lt *LifetimeTracker) RecordDeposit(entityID uint32, amount float64) {
	if s := lt.stats[entityID]; s != nil {
		s.Deposited += amount
		s.Trips++
	}
}

// Count returns the number of tracked bees.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// Top returns up to n bees ordered by deposited pollen, highest first.
// Ties keep the lower entity id first.
func (lt *LifetimeTracker) Top(n int) []ForagerRecord {
	out := make([]ForagerRecord, 0, len(lt.stats))
	for id, s := range lt.stats {
		out = append(out, ForagerRecord{
			EntityID:  id,
			SpawnTick: s.SpawnTick,
			Collected: s.Collected,
			Deposited: s.Deposited,
			Trips:     s.Trips,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Deposited != out[j].Deposited {
			return out[i].Deposited > out[j].Deposited
		}
		return out[i].EntityID < out[j].EntityID
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
