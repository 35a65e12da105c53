package systems

import (
	"math/rand"

	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/beehive/components"
)

// MeadowParams controls noise-clustered flower placement.
type MeadowParams struct {
	Scale     float64 // noise features across the world width
	Threshold float64 // normalized noise a site must reach
	Attempts  int     // samples per flower before taking the best seen
}

// Placement chooses flower sites.
type Placement struct {
	Bounds Bounds
	Margin float32 // keep flowers this far from the walls

	// Sites within AvoidRadius of Avoid are rejected (the hive).
	Avoid       components.Position
	AvoidRadius float32

	Mode   string // "uniform" or "meadow"
	Meadow MeadowParams
}

// Place returns n flower positions. Uniform placement draws each site at
// random; meadow placement keeps the first of Attempts samples whose simplex
// noise reaches Threshold, falling back to the highest-noise sample, so
// flowers gather in patches.
func (p Placement) Place(n int, rng *rand.Rand) []components.Position {
	out := make([]components.Position, 0, n)
	if n <= 0 {
		return out
	}

	var noise opensimplex.Noise
	if p.Mode == "meadow" {
		noise = opensimplex.NewNormalized(rng.Int63())
	}

	for len(out) < n {
		if noise == nil {
			out = append(out, p.sample(rng))
			continue
		}

		attempts := max(1, p.Meadow.Attempts)
		var best components.Position
		bestVal := -1.0
		for range attempts {
			pos := p.sample(rng)
			v := p.noiseAt(noise, pos)
			if v > bestVal {
				best, bestVal = pos, v
			}
			if v >= p.Meadow.Threshold {
				break
			}
		}
		out = append(out, best)
	}
	return out
}

// sample draws a uniform site inside the margins and outside the avoid circle.
func (p Placement) sample(rng *rand.Rand) components.Position {
	w := max(0, p.Bounds.Width-2*p.Margin)
	h := max(0, p.Bounds.Height-2*p.Margin)

	var pos components.Position
	for range 32 {
		pos = components.Position{
			X: p.Margin + rng.Float32()*w,
			Y: p.Margin + rng.Float32()*h,
		}
		if p.AvoidRadius <= 0 || !Touching(pos, 0, p.Avoid, p.AvoidRadius) {
			break
		}
	}
	return pos
}

func (p Placement) noiseAt(noise opensimplex.Noise, pos components.Position) float64 {
	scale := p.Meadow.Scale
	if scale <= 0 {
		scale = 1
	}
	// Same frequency on both axes
	k := scale / float64(p.Bounds.Width)
	return noise.Eval2(float64(pos.X)*k, float64(pos.Y)*k)
}
