// Package config loads the parameter bundle of a CPM run from YAML. The
// embedded defaults are always loaded first; a user file only overrides the
// keys it sets.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"mad-cpm/pkg/cpm"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Bundle mirrors the YAML document.
type Bundle struct {
	FieldSize []int  `yaml:"field_size"`
	Torus     []bool `yaml:"torus"`

	Seed            int64   `yaml:"seed"`
	Temperature     float64 `yaml:"temperature"`
	AttemptsPerStep int     `yaml:"attempts_per_step"`
	Connectivity    bool    `yaml:"connectivity"`

	KindNames []string `yaml:"kind_names"`

	Adhesion [][]float64 `yaml:"adhesion"`

	LambdaV []float64 `yaml:"lambda_v"`
	V       []float64 `yaml:"v"`

	LambdaP []float64 `yaml:"lambda_p"`
	P       []float64 `yaml:"p"`

	LambdaAct []float64 `yaml:"lambda_act"`
	MaxAct    []float64 `yaml:"max_act"`
	ActMean   string    `yaml:"act_mean"`

	// ShowBorders and ActColor are per-kind display switches. A missing
	// list enables the feature for every kind.
	ShowBorders []bool `yaml:"show_borders"`
	ActColor    []bool `yaml:"act_color"`

	// Cells holds the number of cells to seed per non-background kind.
	Cells   []int `yaml:"cells"`
	Runtime int   `yaml:"runtime"`
}

// Default returns the embedded parameter set.
func Default() *Bundle {
	b := &Bundle{}
	if err := yaml.Unmarshal(defaultsYAML, b); err != nil {
		panic(fmt.Sprintf("config: parsing embedded defaults: %v", err))
	}
	return b
}

// Load reads path over the embedded defaults. An empty path returns the
// defaults.
func Load(path string) (*Bundle, error) {
	b := Default()
	if path == "" {
		return b, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := Parse(b, data); err != nil {
		return nil, err
	}
	return b, nil
}

// Parse overlays a YAML document onto b.
func Parse(b *Bundle, data []byte) error {
	if err := yaml.Unmarshal(data, b); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// FromMap returns the defaults with flag-style overrides applied.
func FromMap(m map[string]string) *Bundle {
	b := Default()
	b.Apply(m)
	return b
}

// Apply overrides scalar settings from a string map. Keys that fail to
// parse are ignored.
func (b *Bundle) Apply(m map[string]string) {
	if m == nil {
		return
	}
	if len(b.FieldSize) >= 2 {
		if v, ok := m["w"]; ok {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				b.FieldSize[0] = parsed
			}
		}
		if v, ok := m["h"]; ok {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				b.FieldSize[1] = parsed
			}
		}
	}
	if v, ok := m["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			b.Seed = parsed
		}
	}
	if v, ok := m["temperature"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			b.Temperature = parsed
		}
	}
	if v, ok := m["attempts_per_step"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			b.AttemptsPerStep = parsed
		}
	}
	if v, ok := m["connectivity"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			b.Connectivity = parsed
		}
	}
	if v, ok := m["runtime"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			b.Runtime = parsed
		}
	}
	if v, ok := m["act_mean"]; ok {
		b.ActMean = v
	}
}

// Clone returns a deep copy of b.
func (b *Bundle) Clone() *Bundle {
	c := *b
	c.FieldSize = slices.Clone(b.FieldSize)
	c.Torus = slices.Clone(b.Torus)
	c.KindNames = slices.Clone(b.KindNames)
	c.Adhesion = nil
	for _, row := range b.Adhesion {
		c.Adhesion = append(c.Adhesion, slices.Clone(row))
	}
	c.LambdaV = slices.Clone(b.LambdaV)
	c.V = slices.Clone(b.V)
	c.LambdaP = slices.Clone(b.LambdaP)
	c.P = slices.Clone(b.P)
	c.LambdaAct = slices.Clone(b.LambdaAct)
	c.MaxAct = slices.Clone(b.MaxAct)
	c.ShowBorders = slices.Clone(b.ShowBorders)
	c.ActColor = slices.Clone(b.ActColor)
	c.Cells = slices.Clone(b.Cells)
	return &c
}

// Kinds returns the number of kinds including the background.
func (b *Bundle) Kinds() int { return len(b.Adhesion) }

// KindName returns the configured name of kind k.
func (b *Bundle) KindName(k int) string {
	if k >= 0 && k < len(b.KindNames) && b.KindNames[k] != "" {
		return b.KindNames[k]
	}
	return "kind " + strconv.Itoa(k)
}

// ShowsBorder reports whether cells of kind k are outlined.
func (b *Bundle) ShowsBorder(k int) bool { return kindFlag(b.ShowBorders, k) }

// ShowsActivity reports whether pixels of kind k are shaded by activity.
func (b *Bundle) ShowsActivity(k int) bool { return kindFlag(b.ActColor, k) }

func kindFlag(flags []bool, k int) bool {
	if flags == nil {
		return true
	}
	return k >= 0 && k < len(flags) && flags[k]
}

// Model converts the bundle into an engine configuration.
func (b *Bundle) Model() (cpm.Config, error) {
	mode, err := cpm.ParseMeanMode(b.ActMean)
	if err != nil {
		return cpm.Config{}, err
	}
	if b.Cells != nil && len(b.Cells) != b.Kinds()-1 {
		return cpm.Config{}, fmt.Errorf("%w: cells has %d entries, want one per non-background kind (%d)", cpm.ErrConfiguration, len(b.Cells), b.Kinds()-1)
	}
	for name, flags := range map[string][]bool{"show_borders": b.ShowBorders, "act_color": b.ActColor} {
		if flags != nil && len(flags) != b.Kinds() {
			return cpm.Config{}, fmt.Errorf("%w: %s has %d entries, want one per kind (%d)", cpm.ErrConfiguration, name, len(flags), b.Kinds())
		}
	}
	if b.Runtime < 0 {
		return cpm.Config{}, fmt.Errorf("%w: negative runtime %d", cpm.ErrConfiguration, b.Runtime)
	}
	cfg := cpm.Config{
		Extents:         append([]int(nil), b.FieldSize...),
		Periodic:        append([]bool(nil), b.Torus...),
		Seed:            b.Seed,
		Temperature:     b.Temperature,
		AttemptsPerStep: b.AttemptsPerStep,
		Connectivity:    b.Connectivity,
		Adhesion:        b.Adhesion,
		LambdaV:         b.LambdaV,
		V:               b.V,
		LambdaP:         b.LambdaP,
		P:               derivePerimeter(b.P, b.V),
		LambdaAct:       b.LambdaAct,
		MaxAct:          b.MaxAct,
		ActMean:         mode,
	}
	if len(b.Torus) == 0 {
		cfg.Periodic = nil
	}
	if err := cfg.Validate(); err != nil {
		return cpm.Config{}, err
	}
	return cfg, nil
}

// derivePerimeter replaces negative targets with the circumference of a
// disc whose area is the target volume of the same kind.
func derivePerimeter(p, v []float64) []float64 {
	if p == nil {
		return nil
	}
	out := append([]float64(nil), p...)
	for k, val := range out {
		if val >= 0 || k >= len(v) {
			continue
		}
		out[k] = 2 * math.Pi * math.Sqrt(v[k]/math.Pi)
	}
	return out
}
