package systems

import (
	"slices"
	"testing"
)

func TestSpatialGridQueryOrder(t *testing.T) {
	g := NewSpatialGrid(1000, 1000, 64)

	// Insert out of order across several cells
	g.Insert(5, 130, 100, 15)
	g.Insert(1, 100, 100, 15)
	g.Insert(3, 70, 100, 15)
	g.Insert(0, 900, 900, 15)

	got := g.QueryInto(nil, 100, 100, 50)
	want := []int{1, 3, 5}
	if !slices.Equal(got, want) {
		t.Errorf("QueryInto = %v, want %v", got, want)
	}
}

func TestSpatialGridUsesItemRadius(t *testing.T) {
	g := NewSpatialGrid(1000, 1000, 16)
	g.Insert(0, 200, 200, 100)

	// Query circle is far smaller than a cell-reach of the item
	got := g.QueryInto(nil, 290, 200, 5)
	if len(got) != 1 {
		t.Errorf("expected large item to be found, got %v", got)
	}

	got = g.QueryInto(nil, 310, 200, 5)
	if len(got) != 0 {
		t.Errorf("expected no overlap, got %v", got)
	}
}

func TestSpatialGridClear(t *testing.T) {
	g := NewSpatialGrid(500, 500, 64)
	g.Insert(0, 10, 10, 5)
	g.Clear()

	if got := g.QueryInto(nil, 10, 10, 50); len(got) != 0 {
		t.Errorf("expected empty grid after Clear, got %v", got)
	}
}

func TestSpatialGridAppendsToDst(t *testing.T) {
	g := NewSpatialGrid(500, 500, 64)
	g.Insert(2, 50, 50, 5)

	dst := []int{99}
	dst = g.QueryInto(dst, 50, 50, 5)
	if !slices.Equal(dst, []int{99, 2}) {
		t.Errorf("QueryInto should append after existing entries, got %v", dst)
	}
}

func TestSpatialGridOutOfBoundsQuery(t *testing.T) {
	g := NewSpatialGrid(500, 500, 64)
	g.Insert(0, 5, 5, 10)

	// Positions outside the world clamp to edge cells
	got := g.QueryInto(nil, -5, -5, 10)
	if len(got) != 1 {
		t.Errorf("expected edge item from outside query, got %v", got)
	}
}
