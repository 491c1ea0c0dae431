package potts

import (
	"slices"
	"testing"

	"mad-cpm/internal/config"
	"mad-cpm/internal/core"
)

func smallBundle() *config.Bundle {
	b := config.Default()
	b.FieldSize = []int{40, 40}
	b.Cells = []int{3, 1}
	b.Seed = 11
	return b
}

func mustWorld(t *testing.T, b *config.Bundle) *World {
	t.Helper()
	w, err := New(b)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

func TestResetDeterministic(t *testing.T) {
	w := mustWorld(t, smallBundle())
	initial := append([]uint8(nil), w.Cells()...)
	if w.Model().Cells().Count() != 4 {
		t.Fatalf("seeded %d cells, want 4", w.Model().Cells().Count())
	}

	for i := 0; i < 5; i++ {
		w.Step()
	}
	if w.Time() != 5 {
		t.Fatalf("time = %d, want 5", w.Time())
	}
	w.Cells()[0] = 42

	if err := w.Reset(0); err != nil {
		t.Fatal(err)
	}
	if w.Time() != 0 || w.Seed() != 11 {
		t.Fatalf("reset time/seed = %d/%d", w.Time(), w.Seed())
	}
	if !slices.Equal(initial, w.Cells()) {
		t.Fatal("Reset with the bundle seed is not deterministic")
	}

	if err := w.Reset(777); err != nil {
		t.Fatal(err)
	}
	other := append([]uint8(nil), w.Cells()...)
	if err := w.Reset(777); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(other, w.Cells()) {
		t.Fatal("Reset with an explicit seed is not deterministic")
	}
	if slices.Equal(initial, other) {
		t.Fatal("different seeds produced the same layout")
	}
}

func TestStepKeepsBookkeeping(t *testing.T) {
	w := mustWorld(t, smallBundle())
	for i := 0; i < 20; i++ {
		w.Step()
		st := w.LastStep()
		if st.Accepted+st.Rejected+st.Blocked+st.NoOps != st.Attempts {
			t.Fatalf("step %d counters do not add up: %+v", i, st)
		}
	}
	if err := w.Model().Verify(); err != nil {
		t.Fatal(err)
	}
}

func TestDisplayEncoding(t *testing.T) {
	b := smallBundle()
	b.Cells = nil
	w := mustWorld(t, b)
	for _, c := range w.Cells() {
		if c != 0 {
			t.Fatal("empty world should display background only")
		}
	}
	if _, err := w.AddCellAt(1, 5, 7); err != nil {
		t.Fatal(err)
	}
	code := w.Cells()[7*40+5]
	kind, border, act := DecodeDisplay(code)
	if kind != 1 || border {
		t.Fatalf("single pixel cell decoded as kind %d border %v", kind, border)
	}
	if act != displayActLevels {
		t.Fatalf("fresh pixel activity level = %d, want %d", act, displayActLevels)
	}

	if _, err := w.AddCellAt(2, 20, 20); err != nil {
		t.Fatal(err)
	}
	kind, border, act = DecodeDisplay(w.Cells()[20*40+20])
	if kind != 2 || !border || act != 0 {
		t.Fatalf("obstacle decoded as kind %d border %v act %d", kind, border, act)
	}
	if id, _ := w.CellAt(20, 20); id == 0 {
		t.Fatal("CellAt returned background for a seeded pixel")
	}

	if n := w.RemoveCells(-1); n != 2 {
		t.Fatalf("removed %d cells, want 2", n)
	}
	if w.Cells()[7*40+5] != 0 {
		t.Fatal("frame not refreshed after removal")
	}
}

func TestDisplayFlagsPerKind(t *testing.T) {
	b := smallBundle()
	b.Cells = nil
	b.ShowBorders = nil
	b.ActColor = []bool{false, false, false}
	w := mustWorld(t, b)
	if _, err := w.AddCellAt(1, 5, 7); err != nil {
		t.Fatal(err)
	}
	kind, border, act := DecodeDisplay(w.Cells()[7*40+5])
	if kind != 1 || !border || act != 0 {
		t.Fatalf("decoded kind %d border %v act %d, want outlined and unshaded", kind, border, act)
	}

	b = smallBundle()
	b.ShowBorders = []bool{true}
	if _, err := New(b); err == nil {
		t.Fatal("expected error for a short show_borders list")
	}
}

func TestPalette(t *testing.T) {
	w := mustWorld(t, smallBundle())
	p := w.Palette()
	if len(p) != displayPaletteLen {
		t.Fatalf("palette length = %d", len(p))
	}
	if p[0] != canvasColor {
		t.Fatalf("background colour = %v", p[0])
	}
	if p[encodeDisplay(1, true, 0)] == p[encodeDisplay(1, false, 0)] {
		t.Fatal("border should change the colour")
	}
	if p[encodeDisplay(1, false, 3)] == p[encodeDisplay(1, false, 0)] {
		t.Fatal("activity should change the colour")
	}
}

func TestParameterSetters(t *testing.T) {
	w := mustWorld(t, smallBundle())
	if !w.SetFloatParameter("temperature", 5) {
		t.Fatal("temperature rejected")
	}
	if w.Model().Temperature() != 5 {
		t.Fatalf("model temperature = %v", w.Model().Temperature())
	}
	if w.SetFloatParameter("temperature", 0) || w.SetFloatParameter("lambda", 1) {
		t.Fatal("invalid float change accepted")
	}
	if v, ok := w.Parameters().Float("temperature"); !ok || v != 5 {
		t.Fatalf("snapshot temperature = %v, %v", v, ok)
	}
	if p, ok := w.Parameters().Lookup("connectivity"); !ok || p.Type != core.ParamTypeBool || p.Display() != "off" {
		t.Fatalf("connectivity parameter = %+v, %v", p, ok)
	}

	if !w.SetIntParameter("cells.2", 4) {
		t.Fatal("seed count rejected")
	}
	if w.SetIntParameter("cells.9", 1) || w.SetIntParameter("cells.1", -1) || w.SetIntParameter("bogus", 1) {
		t.Fatal("invalid int change accepted")
	}
	if err := w.Reset(0); err != nil {
		t.Fatal(err)
	}
	if got := w.Model().Cells().CountKind(2); got != 4 {
		t.Fatalf("obstacles after reset = %d, want 4", got)
	}
	if w.Model().Temperature() != 5 {
		t.Fatal("temperature change should survive a reset")
	}
	controls := w.ParameterControls()
	if len(controls) != 3 {
		t.Fatalf("controls = %d, want 3", len(controls))
	}
	if controls[2].Label != "Obstacle seeds" {
		t.Fatalf("obstacle control label = %q", controls[2].Label)
	}
}

func TestRegistryBuildsWorld(t *testing.T) {
	sim, err := core.Build("cpm", map[string]string{"w": "30", "h": "20", "seed": "3"})
	if err != nil {
		t.Fatal(err)
	}
	if sim.Name() != "cpm" {
		t.Fatalf("name = %q", sim.Name())
	}
	if s := sim.Size(); s.W != 30 || s.H != 20 {
		t.Fatalf("size = %+v", s)
	}
	if _, err := core.Build("nope", nil); err == nil {
		t.Fatal("unknown sim built")
	}
}

func TestThreeDimensionalWorldShowsFirstSlice(t *testing.T) {
	b := smallBundle()
	b.FieldSize = []int{6, 5, 4}
	b.Torus = nil
	b.Cells = nil
	w := mustWorld(t, b)
	if s := w.Size(); s.W != 6 || s.H != 5 {
		t.Fatalf("size = %+v", s)
	}
	if _, err := w.AddCellAt(1, 2, 3); err != nil {
		t.Fatal(err)
	}
	if kind, _, _ := DecodeDisplay(w.Cells()[3*6+2]); kind != 1 {
		t.Fatalf("slice pixel kind = %d", kind)
	}
}

func TestNewRejectsInconsistentBundle(t *testing.T) {
	b := smallBundle()
	b.Cells = []int{1, 2, 3}
	if _, err := New(b); err == nil {
		t.Fatal("expected error for mismatched seed counts")
	}
}

func TestMarkersFollowCells(t *testing.T) {
	b := smallBundle()
	b.Cells = nil
	w := mustWorld(t, b)
	if _, err := w.AddCellAt(1, 3, 4); err != nil {
		t.Fatal(err)
	}
	if _, err := w.AddCellAt(2, 30, 31); err != nil {
		t.Fatal(err)
	}
	got := w.Markers()
	want := []core.Marker{{X: 3, Y: 4, Kind: 1}, {X: 30, Y: 31, Kind: 2}}
	if !slices.Equal(got, want) {
		t.Fatalf("markers = %v, want %v", got, want)
	}
}
