package cpm

import (
	"fmt"
	"math"
	"strings"
)

// MeanMode selects how pixel activity is averaged over a neighbourhood.
type MeanMode int

const (
	// MeanGeometric takes the n-th root of the product; one inactive pixel
	// zeroes the whole neighbourhood.
	MeanGeometric MeanMode = iota
	// MeanArithmetic takes the plain average.
	MeanArithmetic
)

// ParseMeanMode accepts "geometric" or "arithmetic" (case-insensitive).
func ParseMeanMode(s string) (MeanMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "geometric":
		return MeanGeometric, nil
	case "arithmetic":
		return MeanArithmetic, nil
	}
	return 0, fmt.Errorf("%w: unknown activity mean %q", ErrConfiguration, s)
}

func (m MeanMode) String() string {
	if m == MeanArithmetic {
		return "arithmetic"
	}
	return "geometric"
}

// Activity rewards copies from pixels a cell took recently, which makes
// cells extend protrusions in the direction they already move.
type Activity struct {
	lambda []float64
	maxAct []float64
	mean   func(scores []float64) float64

	scores []float64
}

// NewActivity builds an activity term for kinds kinds.
func NewActivity(lambda, maxAct []float64, mode MeanMode, kinds int) (*Activity, error) {
	if err := checkPerKind("lambda_act", lambda, kinds); err != nil {
		return nil, err
	}
	if err := checkPerKind("max_act", maxAct, kinds); err != nil {
		return nil, err
	}
	a := &Activity{
		lambda: append([]float64(nil), lambda...),
		maxAct: append([]float64(nil), maxAct...),
	}
	switch mode {
	case MeanGeometric:
		a.mean = geometricMean
	case MeanArithmetic:
		a.mean = arithmeticMean
	default:
		return nil, fmt.Errorf("%w: unknown activity mean %d", ErrConfiguration, mode)
	}
	return a, nil
}

// Name implements Constraint.
func (a *Activity) Name() string { return "activity" }

// DeltaEnergy implements Constraint.
func (a *Activity) DeltaEnergy(v *View, ch Change) float64 {
	kind := ch.NewKind
	if ch.New == Background {
		kind = ch.OldKind
	}
	lambda, maxAct := a.lambda[kind], a.maxAct[kind]
	if lambda == 0 || maxAct == 0 {
		return 0
	}
	gain := a.At(v, ch.Source) - a.At(v, ch.Target)
	return -gain * lambda / maxAct
}

// At returns the neighbourhood activity of pixel idx for its owner.
func (a *Activity) At(v *View, idx int) float64 {
	id := v.grid.data[idx]
	if id == Background {
		return 0
	}
	rec := v.cells.record(id)
	if rec == nil {
		return 0
	}
	a.scores = append(a.scores[:0], a.pixelScore(v, rec, idx))
	for _, n := range v.Neighbors(idx) {
		if v.grid.data[n] == id {
			a.scores = append(a.scores, a.pixelScore(v, rec, n))
		}
	}
	return a.mean(a.scores)
}

// MaxAct returns the activity ceiling of kind, 0 when out of range.
func (a *Activity) MaxAct(kind int) float64 {
	if kind < 0 || kind >= len(a.maxAct) {
		return 0
	}
	return a.maxAct[kind]
}

// PixelActivity returns the activity score of a single pixel, 0 for the
// background.
func (a *Activity) PixelActivity(v *View, idx int) float64 {
	rec := v.cells.record(v.grid.data[idx])
	if rec == nil {
		return 0
	}
	return a.pixelScore(v, rec, idx)
}

func (a *Activity) pixelScore(v *View, rec *cellRecord, idx int) float64 {
	born, ok := rec.acquired[idx]
	if !ok {
		return 0
	}
	s := a.maxAct[rec.kind] - float64(v.step-born)
	if s < 0 {
		return 0
	}
	return s
}

func geometricMean(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	prod := 1.0
	for _, s := range scores {
		if s == 0 {
			return 0
		}
		prod *= s
	}
	return math.Pow(prod, 1/float64(len(scores)))
}

func arithmeticMean(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}
