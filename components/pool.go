package components

import "math"

// Pool is a bounded numeric store: pollen on a flower or a bee, pollen
// waiting in the hive, or honey.
//
// A Capacity of 0 makes the pool an unbounded accumulator. Amount never
// goes negative, and never exceeds Capacity on a bounded pool. Every
// transfer returns the quantity actually moved; callers credit the other
// side of a transfer with that value, never with the request.
type Pool struct {
	Amount   float64
	Capacity float64
	Rate     float64 // regeneration or conversion per second
}

// NewPool returns a pool holding amount, clamped to capacity.
func NewPool(amount, capacity, rate float64) Pool {
	p := Pool{Capacity: capacity, Rate: rate}
	p.Deposit(amount)
	return p
}

// Bounded reports whether the pool has a capacity limit.
func (p *Pool) Bounded() bool {
	return p.Capacity > 0
}

// Free returns the remaining room. Unbounded pools report +Inf.
func (p *Pool) Free() float64 {
	if !p.Bounded() {
		return math.Inf(1)
	}
	return math.Max(0, p.Capacity-p.Amount)
}

// Full reports whether a bounded pool has no room left.
func (p *Pool) Full() bool {
	return p.Bounded() && p.Amount >= p.Capacity
}

// Empty reports whether the pool holds nothing.
func (p *Pool) Empty() bool {
	return p.Amount <= 0
}

// Fraction returns Amount/Capacity in [0,1], or 0 for unbounded pools.
func (p *Pool) Fraction() float64 {
	if !p.Bounded() {
		return 0
	}
	return p.Amount / p.Capacity
}

// Withdraw removes up to req and returns the amount granted: min(req, Amount).
func (p *Pool) Withdraw(req float64) float64 {
	if !(req > 0) {
		return 0
	}
	granted := math.Min(req, p.Amount)
	p.Amount -= granted
	if p.Amount < 0 {
		p.Amount = 0
	}
	return granted
}

// Deposit adds up to req and returns the amount accepted:
// min(req, Capacity-Amount) when bounded, req otherwise.
func (p *Pool) Deposit(req float64) float64 {
	if !(req > 0) || math.IsInf(req, 1) {
		return 0
	}
	accepted := req
	if p.Bounded() {
		accepted = math.Min(req, p.Free())
	}
	p.Amount += accepted
	if p.Bounded() && p.Amount > p.Capacity {
		p.Amount = p.Capacity
	}
	return accepted
}

// Regenerate adds Rate*dt, clamped to capacity, and returns the amount added.
func (p *Pool) Regenerate(dt float64) float64 {
	return p.Deposit(p.Rate * dt)
}

// SetCapacity changes the limit. Shrinking clamps Amount; 0 removes the limit.
func (p *Pool) SetCapacity(capacity float64) {
	if capacity < 0 {
		capacity = 0
	}
	p.Capacity = capacity
	if p.Bounded() && p.Amount > p.Capacity {
		p.Amount = p.Capacity
	}
}

// Set replaces the amount, clamped into the valid range.
func (p *Pool) Set(amount float64) {
	if !(amount > 0) {
		p.Amount = 0
		return
	}
	p.Amount = amount
	if p.Bounded() && p.Amount > p.Capacity {
		p.Amount = p.Capacity
	}
}
