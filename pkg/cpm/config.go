package cpm

import (
	"fmt"
	"math"
)

// Config is the parameter bundle of a model. Per-kind slices have one entry
// per kind, background (kind 0) first. A nil pair of slices disables the
// corresponding constraint.
type Config struct {
	Extents  []int
	Periodic []bool

	Seed        int64
	Temperature float64
	// AttemptsPerStep defaults to the number of pixels when zero.
	AttemptsPerStep int
	// Connectivity rejects copies that would split a cell or remove its
	// last pixel.
	Connectivity bool

	Adhesion [][]float64

	LambdaV []float64
	V       []float64

	LambdaP []float64
	P       []float64

	LambdaAct []float64
	MaxAct    []float64
	ActMean   MeanMode
}

// Kinds returns the number of kinds, including the background.
func (c Config) Kinds() int { return len(c.Adhesion) }

// Validate checks the scalar parameters and that every per-kind slice
// matches the adhesion matrix.
func (c Config) Validate() error {
	if len(c.Extents) == 0 {
		return fmt.Errorf("%w: no grid extents", ErrConfiguration)
	}
	if c.Periodic != nil && len(c.Periodic) != len(c.Extents) {
		return fmt.Errorf("%w: %d periodicity flags for %d dimensions", ErrConfiguration, len(c.Periodic), len(c.Extents))
	}
	for d, e := range c.Extents {
		if e <= 0 {
			return fmt.Errorf("%w: extent %d of dimension %d must be positive", ErrConfiguration, e, d)
		}
	}
	if !(c.Temperature > 0) || math.IsInf(c.Temperature, 0) {
		return fmt.Errorf("%w: temperature must be positive, got %v", ErrConfiguration, c.Temperature)
	}
	if c.AttemptsPerStep < 0 {
		return fmt.Errorf("%w: negative attempts per step %d", ErrConfiguration, c.AttemptsPerStep)
	}
	if c.Kinds() < 1 {
		return fmt.Errorf("%w: adhesion matrix must cover at least the background", ErrConfiguration)
	}
	_, err := c.constraints()
	return err
}

// constraints builds the constraint set the configuration enables.
func (c Config) constraints() ([]Constraint, error) {
	kinds := c.Kinds()
	adh, err := NewAdhesion(c.Adhesion)
	if err != nil {
		return nil, err
	}
	out := []Constraint{adh}
	if c.LambdaV != nil || c.V != nil {
		vol, err := NewVolume(c.LambdaV, c.V, kinds)
		if err != nil {
			return nil, err
		}
		out = append(out, vol)
	}
	if c.LambdaP != nil || c.P != nil {
		per, err := NewPerimeter(c.LambdaP, c.P, kinds)
		if err != nil {
			return nil, err
		}
		out = append(out, per)
	}
	if c.LambdaAct != nil || c.MaxAct != nil {
		act, err := NewActivity(c.LambdaAct, c.MaxAct, c.ActMean, kinds)
		if err != nil {
			return nil, err
		}
		out = append(out, act)
	}
	return out, nil
}
