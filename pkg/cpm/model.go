// Package cpm implements a Cellular Potts Model: a lattice of pixels owned
// by cells, a Hamiltonian built from pluggable constraint terms, and a
// Metropolis update that copies pixel ownership across cell borders.
//
// A Model is not safe for concurrent use. Step, the seeding calls and the
// statistics queries must all be made from one goroutine, or serialised by
// the caller.
package cpm

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"mad-cpm/internal/logging"
	"mad-cpm/pkg/core"
)

// Random is the source of every stochastic decision the model makes.
type Random interface {
	Float64() float64
	IntN(n int) int
}

// StepStats counts the outcome of the copy attempts of one step.
type StepStats struct {
	Attempts int
	// NoOps are attempts whose pixel already shared its neighbour's owner
	// or whose neighbour fell outside a bounded edge.
	NoOps    int
	Accepted int
	Rejected int
	// Blocked are copies the energy accepted but connectivity vetoed.
	Blocked int
}

// Model owns the grid and the cell registry and is the only place that
// mutates them.
type Model struct {
	cfg         Config
	grid        *Grid
	cells       *Registry
	constraints []Constraint
	rng         Random
	log         *slog.Logger

	temperature float64
	attempts    int
	step        int

	view View
	nbuf []int

	// connectivity flood fill scratch
	mark  []uint32
	gen   uint32
	queue []int
}

// Option customises a Model at construction.
type Option func(*Model)

// WithRandom replaces the generator seeded from Config.Seed.
func WithRandom(r Random) Option {
	return func(m *Model) { m.rng = r }
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// WithConstraints adds extra terms to the Hamiltonian.
func WithConstraints(cs ...Constraint) Option {
	return func(m *Model) { m.constraints = append(m.constraints, cs...) }
}

// New validates cfg and builds a background-only model.
func New(cfg Config, opts ...Option) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	grid, err := NewGrid(cfg.Extents, cfg.Periodic)
	if err != nil {
		return nil, err
	}
	cs, err := cfg.constraints()
	if err != nil {
		return nil, err
	}
	m := &Model{
		cfg:         cfg,
		grid:        grid,
		cells:       newRegistry(cfg.Kinds()),
		constraints: cs,
		temperature: cfg.Temperature,
		attempts:    cfg.AttemptsPerStep,
		log:         logging.Discard(),
		nbuf:        make([]int, 0, len(grid.stencil)),
	}
	if m.attempts == 0 {
		m.attempts = grid.Size()
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = core.NewRNG(cfg.Seed)
	}
	m.view = View{grid: m.grid, cells: m.cells}
	m.log.Debug("cpm model created",
		"extents", cfg.Extents,
		"kinds", cfg.Kinds(),
		"temperature", cfg.Temperature,
		"attempts_per_step", m.attempts,
		"constraints", len(m.constraints))
	return m, nil
}

// Config returns the configuration the model was built from.
func (m *Model) Config() Config { return m.cfg }

// Grid exposes the lattice for read access.
func (m *Model) Grid() *Grid { return m.grid }

// Cells exposes the registry for read access.
func (m *Model) Cells() *Registry { return m.cells }

// Constraints returns the active Hamiltonian terms.
func (m *Model) Constraints() []Constraint { return m.constraints }

// View returns the read-only state window used by constraints.
func (m *Model) View() *View {
	m.view.step = m.step
	return &m.view
}

// Time returns the number of completed steps.
func (m *Model) Time() int { return m.step }

// Temperature returns the current Metropolis temperature.
func (m *Model) Temperature() float64 { return m.temperature }

// SetTemperature changes the Metropolis temperature between steps.
func (m *Model) SetTemperature(t float64) error {
	if !(t > 0) || math.IsInf(t, 0) {
		return fmt.Errorf("%w: temperature must be positive, got %v", ErrConfiguration, t)
	}
	m.temperature = t
	return nil
}

// AttemptsPerStep returns the number of copy attempts in one step.
func (m *Model) AttemptsPerStep() int { return m.attempts }

// Extents returns the grid dimensions.
func (m *Model) Extents() []int { return m.grid.Extents() }

// IdentifierAt returns the owner of the pixel at c.
func (m *Model) IdentifierAt(c Coord) (CellID, error) { return m.grid.At(c) }

// KindOf returns the kind of a cell identifier.
func (m *Model) KindOf(id CellID) (int, error) { return m.cells.KindOf(id) }

// DeltaEnergy sums every constraint for ch.
func (m *Model) DeltaEnergy(ch Change) float64 {
	v := m.View()
	total := 0.0
	for _, c := range m.constraints {
		total += c.DeltaEnergy(v, ch)
	}
	return total
}

// Step performs one round of copy attempts and advances the step counter.
func (m *Model) Step() StepStats {
	st := StepStats{Attempts: m.attempts}
	size := m.grid.Size()
	dirs := len(m.grid.stencil)
	m.view.step = m.step
	for a := 0; a < m.attempts; a++ {
		tgt := m.rng.IntN(size)
		src, ok := m.grid.NeighborIndex(tgt, m.rng.IntN(dirs))
		if !ok {
			st.NoOps++
			continue
		}
		oldID, newID := m.grid.data[tgt], m.grid.data[src]
		if oldID == newID {
			st.NoOps++
			continue
		}
		ch := Change{
			Target:  tgt,
			Source:  src,
			Old:     oldID,
			New:     newID,
			OldKind: m.cells.kind(oldID),
			NewKind: m.cells.kind(newID),
		}
		delta := 0.0
		for _, c := range m.constraints {
			delta += c.DeltaEnergy(&m.view, ch)
		}
		if !m.accept(delta) {
			st.Rejected++
			continue
		}
		if m.cfg.Connectivity && oldID != Background && !m.staysConnected(tgt, oldID) {
			st.Blocked++
			continue
		}
		m.commit(tgt, newID)
		st.Accepted++
	}
	m.step++
	m.view.step = m.step
	return st
}

// accept applies the Metropolis criterion.
func (m *Model) accept(delta float64) bool {
	if delta <= 0 {
		return true
	}
	return m.rng.Float64() < math.Exp(-delta/m.temperature)
}

// Run performs steps whole steps. The context is only consulted between
// steps; a step always runs to completion.
func (m *Model) Run(ctx context.Context, steps int) error {
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		st := m.Step()
		m.log.Debug("cpm step", "t", m.step, "accepted", st.Accepted, "rejected", st.Rejected, "blocked", st.Blocked, "cells", m.cells.Count())
	}
	return nil
}

// commit is the single mutation path: it moves pixel idx to id and updates
// every piece of per-cell bookkeeping the change touches.
func (m *Model) commit(idx int, id CellID) {
	old := m.grid.data[idx]
	if old == id {
		return
	}
	m.nbuf = m.grid.NeighborIndices(idx, m.nbuf)
	dOld, dNew := perimeterChange(m.grid, m.nbuf, old, id)
	m.grid.setIndex(idx, id)
	if old != Background {
		m.cells.pixelRemoved(old, idx)
		m.cells.adjustPerimeter(old, dOld)
	}
	if id != Background {
		m.cells.pixelAdded(id, idx, m.step)
		m.cells.adjustPerimeter(id, dNew)
	}
	if old != Background && m.cells.records[old].volume == 0 {
		kind := m.cells.records[old].kind
		m.cells.retire(old)
		m.log.Debug("cell retired", "id", old, "kind", kind, "t", m.step)
	}
}

// staysConnected reports whether cell id remains one connected component
// once pixel idx is taken away from it.
func (m *Model) staysConnected(idx int, id CellID) bool {
	rec := m.cells.records[id]
	if rec.volume <= 1 {
		return false
	}
	// Narrow periodic dimensions list the same neighbour more than once.
	m.nbuf = m.grid.NeighborIndices(idx, m.nbuf)
	var own []int
	for _, n := range m.nbuf {
		if m.grid.data[n] == id && !slices.Contains(own, n) {
			own = append(own, n)
		}
	}
	if len(own) <= 1 {
		return true
	}
	if m.mark == nil {
		m.mark = make([]uint32, m.grid.Size())
	}
	m.gen++
	if m.gen == 0 {
		for i := range m.mark {
			m.mark[i] = 0
		}
		m.gen = 1
	}
	m.mark[idx] = m.gen
	m.mark[own[0]] = m.gen
	m.queue = append(m.queue[:0], own[0])
	remaining := len(own) - 1
	var buf []int
	for len(m.queue) > 0 && remaining > 0 {
		p := m.queue[len(m.queue)-1]
		m.queue = m.queue[:len(m.queue)-1]
		buf = m.grid.NeighborIndices(p, buf)
		for _, n := range buf {
			if m.mark[n] == m.gen || m.grid.data[n] != id {
				continue
			}
			m.mark[n] = m.gen
			for _, o := range own[1:] {
				if o == n {
					remaining--
					break
				}
			}
			m.queue = append(m.queue, n)
		}
	}
	return remaining == 0
}

// Verify rescans the grid and compares it with the registry.
func (m *Model) Verify() error {
	volume := map[CellID]int{}
	perimeter := map[CellID]int{}
	var buf []int
	for idx, id := range m.grid.data {
		if id == Background {
			continue
		}
		if m.cells.record(id) == nil {
			return fmt.Errorf("%w: pixel %v owned by unregistered cell %d", ErrInvariant, m.grid.Coord(idx), id)
		}
		volume[id]++
		buf = m.grid.NeighborIndices(idx, buf)
		for _, n := range buf {
			if m.grid.data[n] != id {
				perimeter[id]++
			}
		}
	}
	for _, id := range m.cells.IDs() {
		rec := m.cells.records[id]
		if rec.volume != volume[id] {
			return fmt.Errorf("%w: cell %d registry volume %d, grid holds %d", ErrInvariant, id, rec.volume, volume[id])
		}
		if rec.perimeter != perimeter[id] {
			return fmt.Errorf("%w: cell %d registry perimeter %d, grid gives %d", ErrInvariant, id, rec.perimeter, perimeter[id])
		}
		if len(rec.acquired) != rec.volume {
			return fmt.Errorf("%w: cell %d tracks %d pixels for volume %d", ErrInvariant, id, len(rec.acquired), rec.volume)
		}
	}
	return nil
}
