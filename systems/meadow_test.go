package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/beehive/components"
)

func testPlacement(mode string) Placement {
	return Placement{
		Bounds:      Bounds{Width: 1600, Height: 1000},
		Margin:      20,
		Avoid:       components.Position{X: 100, Y: 100},
		AvoidRadius: 60,
		Mode:        mode,
		Meadow:      MeadowParams{Scale: 3, Threshold: 0.55, Attempts: 30},
	}
}

func TestPlacementBounds(t *testing.T) {
	for _, mode := range []string{"uniform", "meadow"} {
		t.Run(mode, func(t *testing.T) {
			p := testPlacement(mode)
			sites := p.Place(200, rand.New(rand.NewSource(7)))
			if len(sites) != 200 {
				t.Fatalf("got %d sites, want 200", len(sites))
			}
			for _, s := range sites {
				if s.X < 20 || s.X > 1580 || s.Y < 20 || s.Y > 980 {
					t.Errorf("site %+v outside margins", s)
				}
				if Distance(s, p.Avoid) < p.AvoidRadius {
					t.Errorf("site %+v inside the avoid circle", s)
				}
			}
		})
	}
}

func TestPlacementDeterministic(t *testing.T) {
	p := testPlacement("meadow")
	a := p.Place(20, rand.New(rand.NewSource(3)))
	b := p.Place(20, rand.New(rand.NewSource(3)))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("site %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestPlacementEmpty(t *testing.T) {
	if got := testPlacement("uniform").Place(0, rand.New(rand.NewSource(1))); len(got) != 0 {
		t.Errorf("Place(0) returned %d sites", len(got))
	}
}
