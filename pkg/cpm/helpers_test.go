package cpm

import "testing"

// singleKindConfig is the one-cell-type setup: background plus kind 1.
func singleKindConfig(w, h int, seed int64) Config {
	return Config{
		Extents:     []int{w, h},
		Seed:        seed,
		Temperature: 20,
		Adhesion:    [][]float64{{0, 20}, {20, 0}},
		LambdaV:     []float64{0, 50},
		V:           []float64{0, 25},
	}
}

// threeKindConfig mirrors the cell/obstacle parameter set with all four
// constraints enabled.
func threeKindConfig(w, h int, seed int64) Config {
	return Config{
		Extents:     []int{w, h},
		Seed:        seed,
		Temperature: 20,
		Adhesion: [][]float64{
			{0, 20, 20},
			{20, 0, 0},
			{20, 0, 0},
		},
		LambdaV:   []float64{0, 50, 1000},
		V:         []float64{0, 40, 20},
		LambdaP:   []float64{0, 2, 200},
		P:         []float64{0, 60, 16},
		LambdaAct: []float64{0, 200, 0},
		MaxAct:    []float64{0, 80, 0},
		ActMean:   MeanGeometric,
	}
}

func mustModel(t *testing.T, cfg Config, opts ...Option) *Model {
	t.Helper()
	m, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func mustSeed(t *testing.T, m *Model, kind int, c Coord) CellID {
	t.Helper()
	id, err := m.SeedCellAt(kind, c)
	if err != nil {
		t.Fatalf("SeedCellAt(%d, %v): %v", kind, c, err)
	}
	return id
}

func mustIndex(t *testing.T, m *Model, c Coord) int {
	t.Helper()
	idx, err := m.Grid().Index(c)
	if err != nil {
		t.Fatal(err)
	}
	return idx
}

// changeAt builds the proposal "pixel tgt takes the owner of src".
func changeAt(t *testing.T, m *Model, tgt, src Coord) Change {
	t.Helper()
	ti, si := mustIndex(t, m, tgt), mustIndex(t, m, src)
	v := m.View()
	return Change{
		Target:  ti,
		Source:  si,
		Old:     v.IDAt(ti),
		New:     v.IDAt(si),
		OldKind: v.KindAt(ti),
		NewKind: v.KindAt(si),
	}
}

// scanVolumes counts pixels per identifier straight from the grid.
func scanVolumes(m *Model) map[CellID]int {
	out := map[CellID]int{}
	for _, id := range m.Grid().Snapshot() {
		out[id]++
	}
	return out
}

// components counts the connected pieces of cell id using the grid stencil.
func components(m *Model, id CellID) int {
	g := m.Grid()
	seen := make([]bool, g.Size())
	count := 0
	for idx := 0; idx < g.Size(); idx++ {
		if seen[idx] || g.AtIndex(idx) != id {
			continue
		}
		count++
		stack := []int{idx}
		seen[idx] = true
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, n := range g.NeighborIndices(p, nil) {
				if !seen[n] && g.AtIndex(n) == id {
					seen[n] = true
					stack = append(stack, n)
				}
			}
		}
	}
	return count
}
