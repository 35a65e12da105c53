package systems

import "math"

// Resolver handles contact transfers between player agents and the
// flowers and hive they touch.
type Resolver struct {
	grid    *SpatialGrid
	pickup  float64 // pollen per flower contact per tick
	scratch []int
}

// NewResolver creates a resolver over the given grid.
func NewResolver(grid *SpatialGrid, pickupPerTick float64) *Resolver {
	return &Resolver{
		grid:    grid,
		pickup:  pickupPerTick,
		scratch: make([]int, 0, 16),
	}
}

// Index rebuilds the flower grid. Flowers are stationary, so this runs once
// per world setup.
func (r *Resolver) Index(flowers []FlowerRef) {
	r.grid.Clear()
	for i := range flowers {
		r.grid.Insert(i, flowers[i].Pos.X, flowers[i].Pos.Y, flowers[i].Radius)
	}
}

// Resolve runs one tick of contacts for a single agent: every touched flower
// in index order gives up to the pickup amount, then a touched hive takes the
// whole load. Returns the pollen collected and deposited.
func (r *Resolver) Resolve(a AgentView, flowers []FlowerRef, hive HiveRef, events EventSink) (collected, deposited float64) {
	load := &a.Carrier.Pollen
	radius := a.Body.Radius

	r.scratch = r.grid.QueryInto(r.scratch[:0], a.Pos.X, a.Pos.Y, radius)
	for _, idx := range r.scratch {
		if idx >= len(flowers) {
			continue
		}
		f := &flowers[idx]
		if f.Flower == nil || !Touching(*a.Pos, radius, f.Pos, f.Radius) {
			continue
		}
		if load.Full() {
			break
		}
		req := math.Min(r.pickup, load.Free())
		granted := f.Flower.Pollen.Withdraw(req)
		load.Deposit(granted)
		if granted > 0 {
			collected += granted
			if events != nil {
				events.Collected(a.Agent.ID, int32(idx), granted)
			}
		}
	}

	if hive.Hive != nil && load.Amount > 0 && Touching(*a.Pos, radius, hive.Pos, hive.Radius) {
		accepted := hive.Hive.Receive(load.Amount)
		load.Withdraw(accepted)
		deposited = accepted
		if events != nil && accepted > 0 {
			events.Deposited(a.Agent.ID, accepted)
		}
	}
	return collected, deposited
}

// RegenerateFlowers regenerates every flower by dt.
func RegenerateFlowers(flowers []FlowerRef, dt float64) {
	for i := range flowers {
		if f := flowers[i].Flower; f != nil {
			f.Pollen.Regenerate(dt)
		}
	}
}
