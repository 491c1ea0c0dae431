package cpm

import "fmt"

// Change describes a proposed copy: pixel Target would switch from Old to
// New, the identifier currently held by its neighbour Source.
type Change struct {
	Target, Source int
	Old, New       CellID
	OldKind        int
	NewKind        int
}

// Constraint is one additive term of the Hamiltonian.
type Constraint interface {
	Name() string
	// DeltaEnergy returns the energy difference the change would cause.
	// It must not mutate any state reachable through v.
	DeltaEnergy(v *View, ch Change) float64
}

// View is the read-only window constraints get on the model state.
type View struct {
	grid  *Grid
	cells *Registry
	step  int
	nbuf  []int
}

// Grid exposes the lattice for lookups.
func (v *View) Grid() *Grid { return v.grid }

// Cells exposes the registry for lookups.
func (v *View) Cells() *Registry { return v.cells }

// Step returns the current value of the step counter.
func (v *View) Step() int { return v.step }

// IDAt returns the owner of pixel idx.
func (v *View) IDAt(idx int) CellID { return v.grid.data[idx] }

// KindAt returns the kind of the owner of pixel idx.
func (v *View) KindAt(idx int) int { return v.cells.kind(v.grid.data[idx]) }

// Neighbors returns the neighbours of idx. The slice is reused by the next
// call on the same View.
func (v *View) Neighbors(idx int) []int {
	v.nbuf = v.grid.NeighborIndices(idx, v.nbuf)
	return v.nbuf
}

// AcquiredAt returns the step at which id took pixel idx.
func (v *View) AcquiredAt(id CellID, idx int) (int, bool) {
	rec := v.cells.record(id)
	if rec == nil {
		return 0, false
	}
	s, ok := rec.acquired[idx]
	return s, ok
}

// Adhesion charges J[kind(a)][kind(b)] for every neighbour link between
// pixels of different cells.
type Adhesion struct {
	j [][]float64
}

// NewAdhesion validates that J is square and copies it.
func NewAdhesion(j [][]float64) (*Adhesion, error) {
	if len(j) == 0 {
		return nil, fmt.Errorf("%w: adhesion matrix is empty", ErrConfiguration)
	}
	cp := make([][]float64, len(j))
	for i, row := range j {
		if len(row) != len(j) {
			return nil, fmt.Errorf("%w: adhesion row %d has %d entries, want %d", ErrConfiguration, i, len(row), len(j))
		}
		cp[i] = append([]float64(nil), row...)
	}
	return &Adhesion{j: cp}, nil
}

// Name implements Constraint.
func (a *Adhesion) Name() string { return "adhesion" }

// Kinds returns the matrix dimension.
func (a *Adhesion) Kinds() int { return len(a.j) }

// DeltaEnergy implements Constraint.
func (a *Adhesion) DeltaEnergy(v *View, ch Change) float64 {
	delta := 0.0
	for _, n := range v.Neighbors(ch.Target) {
		t := v.grid.data[n]
		kt := v.cells.kind(t)
		if t != ch.New {
			delta += a.j[kt][ch.NewKind]
		}
		if t != ch.Old {
			delta -= a.j[kt][ch.OldKind]
		}
	}
	return delta
}

// Volume penalises deviation from a per-kind target volume.
type Volume struct {
	lambda []float64
	target []float64
}

// NewVolume builds a volume term for kinds kinds.
func NewVolume(lambda, target []float64, kinds int) (*Volume, error) {
	if err := checkPerKind("lambda_v", lambda, kinds); err != nil {
		return nil, err
	}
	if err := checkPerKind("v", target, kinds); err != nil {
		return nil, err
	}
	return &Volume{lambda: append([]float64(nil), lambda...), target: append([]float64(nil), target...)}, nil
}

// Name implements Constraint.
func (c *Volume) Name() string { return "volume" }

// DeltaEnergy implements Constraint.
func (c *Volume) DeltaEnergy(v *View, ch Change) float64 {
	delta := 0.0
	if rec := v.cells.record(ch.New); rec != nil {
		delta += c.term(rec.kind, rec.volume+1) - c.term(rec.kind, rec.volume)
	}
	if rec := v.cells.record(ch.Old); rec != nil {
		delta += c.term(rec.kind, rec.volume-1) - c.term(rec.kind, rec.volume)
	}
	return delta
}

func (c *Volume) term(kind, volume int) float64 {
	l := c.lambda[kind]
	if l == 0 {
		return 0
	}
	d := c.target[kind] - float64(volume)
	return l * d * d
}

// Perimeter penalises deviation from a per-kind target perimeter, where the
// perimeter counts neighbourhood links leaving the cell.
type Perimeter struct {
	lambda []float64
	target []float64
}

// NewPerimeter builds a perimeter term for kinds kinds.
func NewPerimeter(lambda, target []float64, kinds int) (*Perimeter, error) {
	if err := checkPerKind("lambda_p", lambda, kinds); err != nil {
		return nil, err
	}
	if err := checkPerKind("p", target, kinds); err != nil {
		return nil, err
	}
	return &Perimeter{lambda: append([]float64(nil), lambda...), target: append([]float64(nil), target...)}, nil
}

// Name implements Constraint.
func (c *Perimeter) Name() string { return "perimeter" }

// DeltaEnergy implements Constraint.
func (c *Perimeter) DeltaEnergy(v *View, ch Change) float64 {
	oldRec, newRec := v.cells.record(ch.Old), v.cells.record(ch.New)
	if (oldRec == nil || c.lambda[oldRec.kind] == 0) && (newRec == nil || c.lambda[newRec.kind] == 0) {
		return 0
	}
	dOld, dNew := perimeterChange(v.grid, v.Neighbors(ch.Target), ch.Old, ch.New)
	delta := 0.0
	if oldRec != nil {
		delta += c.term(oldRec.kind, oldRec.perimeter+dOld) - c.term(oldRec.kind, oldRec.perimeter)
	}
	if newRec != nil {
		delta += c.term(newRec.kind, newRec.perimeter+dNew) - c.term(newRec.kind, newRec.perimeter)
	}
	return delta
}

func (c *Perimeter) term(kind, perimeter int) float64 {
	l := c.lambda[kind]
	if l == 0 {
		return 0
	}
	d := c.target[kind] - float64(perimeter)
	return l * d * d
}

// perimeterChange returns how the perimeters of old and cur change when a
// pixel with neighbours nbs switches from old to cur. Cells other than
// these two keep their perimeter: their link to the pixel crosses a
// boundary both before and after.
func perimeterChange(g *Grid, nbs []int, old, cur CellID) (dOld, dCur int) {
	for _, n := range nbs {
		t := g.data[n]
		if t == old {
			dOld++
		} else {
			dOld--
		}
		if t == cur {
			dCur--
		} else {
			dCur++
		}
	}
	return dOld, dCur
}

func checkPerKind(name string, vals []float64, kinds int) error {
	if len(vals) != kinds {
		return fmt.Errorf("%w: %s has %d entries, want one per kind (%d)", ErrConfiguration, name, len(vals), kinds)
	}
	return nil
}
