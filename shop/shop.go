// Package shop implements purchasable upgrades paid for with honey.
package shop

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/beehive/components"
	"github.com/pthm-cable/beehive/config"
)

var (
	ErrUnknownUpgrade    = errors.New("unknown upgrade")
	ErrMaxLevel          = errors.New("upgrade at max level")
	ErrInsufficientFunds = errors.New("insufficient honey")
)

// Kind names an upgrade and the attribute it drives.
type Kind string

const (
	KindSpeed     Kind = "speed"      // agent speed
	KindCapacity  Kind = "capacity"   // carrier capacity
	KindHoneyRate Kind = "honey_rate" // hive conversion rate
	KindBeeCount  Kind = "bee_count"  // number of AI bees
)

// EffectMode selects how an effect combines with its base value.
type EffectMode uint8

const (
	EffectAdd EffectMode = iota // base + step*level
	EffectMul                   // base * step^level
)

// ParseEffectMode maps a config string to an EffectMode.
func ParseEffectMode(s string) (EffectMode, error) {
	switch s {
	case "add":
		return EffectAdd, nil
	case "mul":
		return EffectMul, nil
	}
	return 0, fmt.Errorf("unknown effect %q", s)
}

// Effect is an upgrade's numeric effect as a function of level.
type Effect struct {
	Mode EffectMode
	Step float64
}

// Apply returns the attribute value at level, computed from base.
// It never reads the current attribute, so re-applying is idempotent.
func (e Effect) Apply(base float64, level int) float64 {
	if level <= 0 {
		return base
	}
	switch e.Mode {
	case EffectMul:
		return base * math.Pow(e.Step, float64(level))
	default:
		return base + e.Step*float64(level)
	}
}

// MaxFactor bounds what any level may multiply into or add onto a base.
// Levels past it can be neither bought nor restored.
const MaxFactor = 1e9

// InRange reports whether level keeps the effect within MaxFactor.
func (e Effect) InRange(level int) bool {
	f := e.Apply(1, level)
	return !math.IsNaN(f) && math.Abs(f) <= MaxFactor
}

// Base inverts Apply: it returns the base that yields value at level.
// A zero multiplier cannot be inverted, so value is returned as is.
func (e Effect) Base(value float64, level int) float64 {
	if level <= 0 {
		return value
	}
	switch e.Mode {
	case EffectMul:
		f := math.Pow(e.Step, float64(level))
		if f == 0 {
			return value
		}
		return value / f
	default:
		return value - e.Step*float64(level)
	}
}

// Upgrade is one shop entry with its current level and price.
type Upgrade struct {
	Kind       Kind
	Name       string
	Level      int
	Cost       float64
	BaseCost   float64
	CostGrowth float64
	MaxLevel   int // 0 = unlimited
	Effect     Effect
}

// Maxed reports whether the upgrade can no longer be bought.
func (u *Upgrade) Maxed() bool {
	return (u.MaxLevel > 0 && u.Level >= u.MaxLevel) || !u.Effect.InRange(u.Level+1)
}

// Value returns the attribute value for base at the current level.
func (u *Upgrade) Value(base float64) float64 {
	return u.Effect.Apply(base, u.Level)
}

// Base returns the base value that yields value at the current level.
func (u *Upgrade) Base(value float64) float64 {
	return u.Effect.Base(value, u.Level)
}

// Shop holds the upgrades in display order.
type Shop struct {
	upgrades []*Upgrade
	byKind   map[Kind]*Upgrade
}

// New builds a shop from config. Every upgrade starts at level 0.
func New(cfgs []config.UpgradeConfig) (*Shop, error) {
	s := &Shop{byKind: make(map[Kind]*Upgrade, len(cfgs))}
	for _, c := range cfgs {
		mode, err := ParseEffectMode(c.Effect)
		if err != nil {
			return nil, fmt.Errorf("upgrade %s: %w", c.Kind, err)
		}
		k := Kind(c.Kind)
		if _, dup := s.byKind[k]; dup {
			return nil, fmt.Errorf("upgrade %s: duplicate kind", c.Kind)
		}
		u := &Upgrade{
			Kind:       k,
			Name:       c.Name,
			Cost:       c.BaseCost,
			BaseCost:   c.BaseCost,
			CostGrowth: c.CostGrowth,
			MaxLevel:   c.MaxLevel,
			Effect:     Effect{Mode: mode, Step: c.Step},
		}
		s.upgrades = append(s.upgrades, u)
		s.byKind[k] = u
	}
	return s, nil
}

// All returns the upgrades in display order.
func (s *Shop) All() []*Upgrade {
	return s.upgrades
}

// Get returns the upgrade of the given kind.
func (s *Shop) Get(kind Kind) (*Upgrade, bool) {
	u, ok := s.byKind[kind]
	return u, ok
}

// Level returns the level of kind, 0 if the shop does not sell it.
func (s *Shop) Level(kind Kind) int {
	if u, ok := s.byKind[kind]; ok {
		return u.Level
	}
	return 0
}

// Purchase buys one level of kind with honey from currency. On error nothing
// changes. On success the cost is debited, the level goes up by one and the
// next cost is floor(cost * growth).
func (s *Shop) Purchase(kind Kind, currency *components.Pool) (*Upgrade, error) {
	u, ok := s.byKind[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUpgrade, kind)
	}
	if u.Maxed() {
		return u, fmt.Errorf("%w: %s level %d", ErrMaxLevel, kind, u.Level)
	}
	if currency.Amount < u.Cost {
		return u, fmt.Errorf("%w: %s costs %.0f, have %.0f", ErrInsufficientFunds, kind, u.Cost, currency.Amount)
	}

	currency.Withdraw(u.Cost)
	u.Level++
	u.Cost = math.Floor(u.Cost * u.CostGrowth)
	return u, nil
}

// CheckState reports whether level and cost are acceptable for kind.
// Unknown kinds are ignored so old saves still load.
func (s *Shop) CheckState(kind Kind, level int, cost float64) error {
	u, ok := s.byKind[kind]
	if !ok {
		return nil
	}
	if level < 0 || (u.MaxLevel > 0 && level > u.MaxLevel) || !u.Effect.InRange(level) {
		return fmt.Errorf("upgrade %s: level %d out of range", kind, level)
	}
	if cost < 0 || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return fmt.Errorf("upgrade %s: invalid cost %v", kind, cost)
	}
	return nil
}

// SetState restores a saved level and cost. Unknown kinds are ignored.
func (s *Shop) SetState(kind Kind, level int, cost float64) error {
	if err := s.CheckState(kind, level, cost); err != nil {
		return err
	}
	if u, ok := s.byKind[kind]; ok {
		u.Level = level
		u.Cost = cost
	}
	return nil
}

// Reset returns every upgrade to level 0 at its base cost.
func (s *Shop) Reset() {
	for _, u := range s.upgrades {
		u.Level = 0
		u.Cost = u.BaseCost
	}
}
