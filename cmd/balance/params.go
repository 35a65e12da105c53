package main

import (
	"github.com/pthm-cable/beehive/config"
)

// ParamSpec defines a single tunable economy parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Supply
			{Name: "flower_capacity", Path: "flowers.capacity", Min: 20, Max: 300, Default: 100},
			{Name: "flower_regen", Path: "flowers.regen_rate", Min: 0.02, Max: 2.0, Default: 0.1},
			// Bees
			{Name: "bee_collection_rate", Path: "bees.collection_rate", Min: 2, Max: 60, Default: 20},
			{Name: "bee_capacity", Path: "bees.capacity", Min: 10, Max: 150, Default: 50},
			// Hive
			{Name: "conversion_rate", Path: "hive.conversion_rate", Min: 0.1, Max: 3.0, Default: 0.5},
			// Shop
			{Name: "speed_cost", Path: "upgrades[speed].base_cost", Min: 20, Max: 500, Default: 100},
			{Name: "capacity_cost", Path: "upgrades[capacity].base_cost", Min: 20, Max: 600, Default: 150},
			{Name: "honey_rate_cost", Path: "upgrades[honey_rate].base_cost", Min: 20, Max: 800, Default: 200},
			{Name: "bee_count_cost", Path: "upgrades[bee_count].base_cost", Min: 50, Max: 2000, Default: 500},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	i := 0

	cfg.Flowers.Capacity = clamped[i]
	i++
	cfg.Flowers.RegenRate = clamped[i]
	i++

	cfg.Bees.CollectionRate = clamped[i]
	i++
	cfg.Bees.Capacity = clamped[i]
	i++

	cfg.Hive.ConversionRate = clamped[i]
	i++

	for _, kind := range []string{"speed", "capacity", "honey_rate", "bee_count"} {
		setBaseCost(cfg, kind, clamped[i])
		i++
	}
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Flowers.Capacity,
		cfg.Flowers.RegenRate,
		cfg.Bees.CollectionRate,
		cfg.Bees.Capacity,
		cfg.Hive.ConversionRate,
		baseCost(cfg, "speed"),
		baseCost(cfg, "capacity"),
		baseCost(cfg, "honey_rate"),
		baseCost(cfg, "bee_count"),
	}
}

// setBaseCost sets an upgrade's starting cost; unknown kinds are ignored.
func setBaseCost(cfg *config.Config, kind string, cost float64) {
	for i := range cfg.Upgrades {
		if cfg.Upgrades[i].Kind == kind {
			cfg.Upgrades[i].BaseCost = cost
		}
	}
}

func baseCost(cfg *config.Config, kind string) float64 {
	for _, u := range cfg.Upgrades {
		if u.Kind == kind {
			return u.BaseCost
		}
	}
	return 0
}
