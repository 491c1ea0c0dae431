// Package potts exposes the cellular Potts engine as a core.Sim so the
// viewer and the headless runner can drive it.
package potts

import (
	"context"
	"fmt"
	"log/slog"

	"mad-cpm/internal/config"
	"mad-cpm/internal/core"
	"mad-cpm/internal/logging"
	"mad-cpm/pkg/cpm"
)

// World owns one model and the display frame derived from it.
type World struct {
	bundle *config.Bundle
	log    *slog.Logger

	model    *cpm.Model
	activity *cpm.Activity
	frame    *core.Frame
	last     cpm.StepStats
	seed     int64
}

// Option configures a World.
type Option func(*World)

// WithLogger routes world and engine logs to l instead of slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// New builds a world from b and seeds it with the bundle's seed.
func New(b *config.Bundle, opts ...Option) (*World, error) {
	if b == nil {
		b = config.Default()
	}
	w := &World{bundle: b, log: slog.Default()}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.Reset(0); err != nil {
		return nil, err
	}
	return w, nil
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "cpm" }

// Size reports the displayed extent: the first two grid dimensions.
func (w *World) Size() core.Size {
	return core.Size{W: w.frame.W, H: w.frame.H}
}

// Cells exposes the display codes of the current frame.
func (w *World) Cells() []uint8 { return w.frame.Pix() }

// Model exposes the engine.
func (w *World) Model() *cpm.Model { return w.model }

// Bundle exposes the parameter bundle the world was built from.
func (w *World) Bundle() *config.Bundle { return w.bundle }

// Seed returns the seed of the last reset.
func (w *World) Seed() int64 { return w.seed }

// Time returns the number of completed Monte Carlo steps.
func (w *World) Time() int { return w.model.Time() }

// LastStep returns the counters of the most recent step.
func (w *World) LastStep() cpm.StepStats { return w.last }

// Reset rebuilds the model from the bundle and seeds the configured cells.
// A zero seed uses the bundle's seed.
func (w *World) Reset(seed int64) error {
	if seed == 0 {
		seed = w.bundle.Seed
	}
	cfg, err := w.bundle.Model()
	if err != nil {
		return err
	}
	cfg.Seed = seed
	m, err := cpm.New(cfg, cpm.WithLogger(w.log))
	if err != nil {
		return err
	}
	if w.bundle.Cells != nil {
		if _, err := m.SeedCells(w.bundle.Cells); err != nil {
			return fmt.Errorf("seeding cells: %w", err)
		}
	}
	w.model = m
	w.seed = seed
	w.last = cpm.StepStats{}
	w.activity = nil
	for _, c := range m.Constraints() {
		if act, ok := c.(*cpm.Activity); ok {
			w.activity = act
		}
	}
	ext := m.Extents()
	height := 1
	if len(ext) > 1 {
		height = ext[1]
	}
	if w.frame == nil || w.frame.W != ext[0] || w.frame.H != height {
		w.frame = core.NewFrame(ext[0], height)
	}
	w.refresh()
	w.log.Info("world reset", "seed", seed, "extents", ext, "cells", m.Cells().Count())
	return nil
}

// Step advances the model by one Monte Carlo step.
func (w *World) Step() {
	w.last = w.model.Step()
	w.refresh()
	w.log.Log(context.Background(), logging.LevelTrace, "step",
		"t", w.model.Time(),
		"accepted", w.last.Accepted,
		"rejected", w.last.Rejected,
		"blocked", w.last.Blocked)
}

// AddCell seeds one cell of kind at a random background pixel.
func (w *World) AddCell(kind int) (cpm.CellID, error) {
	id, err := w.model.SeedCellRandom(kind)
	if err != nil {
		return cpm.Background, err
	}
	w.refresh()
	return id, nil
}

// AddCellAt seeds one cell of kind at display position (x, y).
func (w *World) AddCellAt(kind, x, y int) (cpm.CellID, error) {
	id, err := w.model.SeedCellAt(kind, w.coord(x, y))
	if err != nil {
		return cpm.Background, err
	}
	w.refresh()
	return id, nil
}

// RemoveCells deletes every cell of kind, or every cell when kind is
// negative, and returns how many were removed.
func (w *World) RemoveCells(kind int) int {
	n := w.model.RemoveCells(kind)
	w.refresh()
	return n
}

// CellAt returns the identifier shown at display position (x, y).
func (w *World) CellAt(x, y int) (cpm.CellID, error) {
	return w.model.IdentifierAt(w.coord(x, y))
}

// coord maps a display position onto the grid; dimensions beyond the
// second are fixed at zero.
func (w *World) coord(x, y int) cpm.Coord {
	c := make(cpm.Coord, len(w.model.Extents()))
	c[0] = x
	if len(c) > 1 {
		c[1] = y
	}
	return c
}
