package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"mad-cpm/pkg/cpm"
)

func TestDefaultMatchesObstacleScenario(t *testing.T) {
	b := Default()
	if b.Kinds() != 3 {
		t.Fatalf("kinds = %d, want 3", b.Kinds())
	}
	if b.FieldSize[0] != 200 || b.FieldSize[1] != 200 {
		t.Fatalf("field size = %v", b.FieldSize)
	}
	if b.Seed != 42 || b.Temperature != 20 || b.Runtime != 500 {
		t.Fatalf("seed/temperature/runtime = %d/%v/%d", b.Seed, b.Temperature, b.Runtime)
	}
	if b.KindName(2) != "obstacle" || b.KindName(7) != "kind 7" {
		t.Fatalf("kind names = %q, %q", b.KindName(2), b.KindName(7))
	}

	cfg, err := b.Model()
	if err != nil {
		t.Fatal(err)
	}
	want := 2 * math.Pi * math.Sqrt(100/math.Pi)
	if math.Abs(cfg.P[2]-want) > 1e-9 {
		t.Fatalf("derived obstacle perimeter = %v, want %v", cfg.P[2], want)
	}
	if cfg.P[1] != 180 {
		t.Fatalf("explicit perimeter rewritten: %v", cfg.P[1])
	}
	if b.ShowsBorder(1) || !b.ShowsBorder(2) || !b.ShowsActivity(1) || b.ShowsActivity(2) {
		t.Fatalf("display flags = %v / %v", b.ShowBorders, b.ActColor)
	}
	if cfg.ActMean != cpm.MeanGeometric {
		t.Fatalf("act mean = %v", cfg.ActMean)
	}
	if b.P[2] != -1 {
		t.Fatal("Model mutated the bundle")
	}
}

func TestDefaultBuildsModel(t *testing.T) {
	b := Default()
	b.FieldSize = []int{40, 40}
	cfg, err := b.Model()
	if err != nil {
		t.Fatal(err)
	}
	m, err := cpm.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if m.Cells().Kinds() != 3 {
		t.Fatalf("model kinds = %d", m.Cells().Kinds())
	}
}

func TestApplyOverrides(t *testing.T) {
	b := FromMap(map[string]string{
		"w":            "64",
		"h":            "32",
		"seed":         "7",
		"temperature":  "5.5",
		"connectivity": "true",
		"runtime":      "12",
		"act_mean":     "arithmetic",
	})
	if b.FieldSize[0] != 64 || b.FieldSize[1] != 32 {
		t.Fatalf("field size = %v", b.FieldSize)
	}
	if b.Seed != 7 || b.Temperature != 5.5 || !b.Connectivity || b.Runtime != 12 {
		t.Fatalf("overrides not applied: %+v", b)
	}
	if b.ActMean != "arithmetic" {
		t.Fatalf("act mean = %q", b.ActMean)
	}

	b = FromMap(map[string]string{"w": "-3", "temperature": "0", "seed": "x"})
	if b.FieldSize[0] != 200 || b.Temperature != 20 || b.Seed != 42 {
		t.Fatalf("invalid overrides should be ignored: %+v", b)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	doc := "temperature: 8\nfield_size: [30, 20]\ncells: [3, 1]\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if b.Temperature != 8 || b.FieldSize[0] != 30 || b.FieldSize[1] != 20 {
		t.Fatalf("file values not applied: %+v", b)
	}
	if b.Cells[0] != 3 || b.Cells[1] != 1 {
		t.Fatalf("cells = %v", b.Cells)
	}
	if b.LambdaV[2] != 1000 {
		t.Fatal("keys absent from the file should keep their defaults")
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestModelRejectsInconsistentBundle(t *testing.T) {
	b := Default()
	b.Cells = []int{1}
	if _, err := b.Model(); !errors.Is(err, cpm.ErrConfiguration) {
		t.Fatalf("short cells list = %v, want ErrConfiguration", err)
	}

	b = Default()
	b.ActMean = "median"
	if _, err := b.Model(); !errors.Is(err, cpm.ErrConfiguration) {
		t.Fatalf("unknown mean = %v, want ErrConfiguration", err)
	}

	b = Default()
	b.ActColor = []bool{true, false}
	if _, err := b.Model(); !errors.Is(err, cpm.ErrConfiguration) {
		t.Fatalf("short act_color = %v, want ErrConfiguration", err)
	}

	b = Default()
	b.Temperature = 0
	if _, err := b.Model(); !errors.Is(err, cpm.ErrConfiguration) {
		t.Fatalf("zero temperature = %v, want ErrConfiguration", err)
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	b := Default()
	if err := Parse(b, []byte("temperature: [1, 2")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCloneIsDeep(t *testing.T) {
	b := Default()
	c := b.Clone()
	c.Adhesion[1][2] = 99
	c.Cells[0] = 1
	c.FieldSize[0] = 5
	c.ShowBorders[0] = true
	if b.Adhesion[1][2] == 99 || b.Cells[0] == 1 || b.FieldSize[0] == 5 || b.ShowBorders[0] {
		t.Fatal("Clone shares slices with its source")
	}
}
