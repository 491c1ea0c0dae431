package cpm

import (
	"errors"
	"math"
	"testing"
)

func TestNewGridRejectsBadExtents(t *testing.T) {
	if _, err := NewGrid([]int{10, 0}, nil); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("zero extent: got %v, want ErrConfiguration", err)
	}
	if _, err := NewGrid([]int{10, -3}, nil); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("negative extent: got %v, want ErrConfiguration", err)
	}
	if _, err := NewGrid(nil, nil); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("no dimensions: got %v, want ErrConfiguration", err)
	}
	if _, err := NewGrid([]int{4, 4}, []bool{true}); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("periodicity mismatch: got %v, want ErrConfiguration", err)
	}
}

func TestGridIndexRoundTrip(t *testing.T) {
	g, err := NewGrid([]int{7, 5, 3}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if g.Size() != 105 {
		t.Fatalf("size = %d, want 105", g.Size())
	}
	for idx := 0; idx < g.Size(); idx++ {
		c := g.Coord(idx)
		back, err := g.Index(c)
		if err != nil {
			t.Fatalf("Index(%v): %v", c, err)
		}
		if back != idx {
			t.Fatalf("Index(Coord(%d)) = %d", idx, back)
		}
	}
	if idx, _ := g.Index(Coord{1, 0, 0}); idx != 1 {
		t.Fatalf("dimension 0 should vary fastest, got index %d", idx)
	}
}

func TestGridOutOfRange(t *testing.T) {
	g, _ := NewGrid([]int{10, 10}, nil)
	for _, c := range []Coord{{-1, 0}, {0, 10}, {10, 3}, {1}} {
		if _, err := g.At(c); !errors.Is(err, ErrIndex) {
			t.Fatalf("At(%v): got %v, want ErrIndex", c, err)
		}
		if err := g.Set(c, 1); !errors.Is(err, ErrIndex) {
			t.Fatalf("Set(%v): got %v, want ErrIndex", c, err)
		}
		if _, err := g.Neighbors(c); !errors.Is(err, ErrIndex) {
			t.Fatalf("Neighbors(%v): got %v, want ErrIndex", c, err)
		}
	}
}

func TestGridNeighborsWrapOnTorus(t *testing.T) {
	g, _ := NewGrid([]int{10, 10}, nil)
	nbs, err := g.Neighbors(Coord{0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if len(nbs) != 8 {
		t.Fatalf("corner on torus has %d neighbours, want 8", len(nbs))
	}
	want := map[[2]int]bool{
		{9, 9}: true, {0, 9}: true, {1, 9}: true,
		{9, 0}: true, {1, 0}: true,
		{9, 1}: true, {0, 1}: true, {1, 1}: true,
	}
	for _, n := range nbs {
		if !want[[2]int{n[0], n[1]}] {
			t.Fatalf("unexpected neighbour %v", n)
		}
	}
}

func TestGridNeighborsBoundedEdges(t *testing.T) {
	g, _ := NewGrid([]int{10, 10}, []bool{false, false})
	nbs, _ := g.Neighbors(Coord{0, 0})
	if len(nbs) != 3 {
		t.Fatalf("bounded corner has %d neighbours, want 3", len(nbs))
	}
	nbs, _ = g.Neighbors(Coord{5, 0})
	if len(nbs) != 5 {
		t.Fatalf("bounded edge has %d neighbours, want 5", len(nbs))
	}
	idx, _ := g.Index(Coord{0, 0})
	for dir, off := range g.Stencil() {
		_, ok := g.NeighborIndex(idx, dir)
		inside := off[0] >= 0 && off[1] >= 0
		if ok != inside {
			t.Fatalf("direction %v: ok=%v, want %v", off, ok, inside)
		}
	}
}

func TestGridStencilIn3D(t *testing.T) {
	g, _ := NewGrid([]int{4, 4, 4}, nil)
	if n := len(g.Stencil()); n != 26 {
		t.Fatalf("3D Moore stencil has %d offsets, want 26", n)
	}
	nbs, _ := g.Neighbors(Coord{1, 1, 1})
	if len(nbs) != 26 {
		t.Fatalf("interior 3D pixel has %d neighbours, want 26", len(nbs))
	}
}

func TestGridNeighborsSkipSelfOnUnitExtent(t *testing.T) {
	g, _ := NewGrid([]int{5, 1}, nil)
	idx, _ := g.Index(Coord{2, 0})
	for _, n := range g.NeighborIndices(idx, nil) {
		if n == idx {
			t.Fatal("pixel listed as its own neighbour")
		}
	}
}

func TestTorusDistance(t *testing.T) {
	g, _ := NewGrid([]int{10, 10}, nil)
	a := g.Distance(Coord{0, 0}, Coord{9, 9})
	b := g.Distance(Coord{0, 0}, Coord{-1, -1})
	if math.Abs(a-math.Sqrt2) > 1e-12 {
		t.Fatalf("distance (0,0)-(9,9) = %v, want sqrt(2)", a)
	}
	if a != b {
		t.Fatalf("distance to (9,9) = %v differs from distance to (-1,-1) = %v", a, b)
	}
	d := g.Displacement(Coord{0, 0}, Coord{9, 2})
	if d[0] != -1 || d[1] != 2 {
		t.Fatalf("displacement = %v, want [-1 2]", d)
	}
}

func TestBoundedDistance(t *testing.T) {
	g, _ := NewGrid([]int{10, 10}, []bool{false, false})
	got := g.Distance(Coord{0, 0}, Coord{9, 9})
	if math.Abs(got-math.Sqrt(162)) > 1e-12 {
		t.Fatalf("bounded distance = %v, want sqrt(162)", got)
	}
}
