package cpm

import (
	"fmt"
	"math"
)

// CellID identifies a cell on the grid. Zero is the background.
type CellID int

// Background is the identifier of pixels that belong to no cell.
const Background CellID = 0

// Coord is a pixel coordinate, one entry per grid dimension.
type Coord []int

// Equal reports whether c and o name the same coordinate.
func (c Coord) Equal(o Coord) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// Grid is an N-dimensional lattice of cell identifiers stored in row-major
// order with dimension 0 varying fastest. Each dimension is either periodic
// (toroidal) or bounded.
type Grid struct {
	extents  []int
	periodic []bool
	strides  []int
	size     int
	data     []CellID
	stencil  [][]int

	scratch []int
}

// NewGrid allocates a background-only grid. A nil periodic slice makes every
// dimension periodic.
func NewGrid(extents []int, periodic []bool) (*Grid, error) {
	if len(extents) == 0 {
		return nil, fmt.Errorf("%w: grid needs at least one dimension", ErrConfiguration)
	}
	if periodic == nil {
		periodic = make([]bool, len(extents))
		for i := range periodic {
			periodic[i] = true
		}
	}
	if len(periodic) != len(extents) {
		return nil, fmt.Errorf("%w: %d periodicity flags for %d dimensions", ErrConfiguration, len(periodic), len(extents))
	}
	g := &Grid{
		extents:  append([]int(nil), extents...),
		periodic: append([]bool(nil), periodic...),
		strides:  make([]int, len(extents)),
		scratch:  make([]int, len(extents)),
	}
	size := 1
	for d, e := range extents {
		if e <= 0 {
			return nil, fmt.Errorf("%w: extent %d of dimension %d must be positive", ErrConfiguration, e, d)
		}
		g.strides[d] = size
		size *= e
	}
	g.size = size
	g.data = make([]CellID, size)
	g.stencil = mooreStencil(len(extents))
	return g, nil
}

// mooreStencil lists every offset in {-1,0,1}^dims except the origin.
func mooreStencil(dims int) [][]int {
	total := 1
	for i := 0; i < dims; i++ {
		total *= 3
	}
	out := make([][]int, 0, total-1)
	for n := 0; n < total; n++ {
		off := make([]int, dims)
		zero := true
		v := n
		for d := 0; d < dims; d++ {
			off[d] = v%3 - 1
			v /= 3
			if off[d] != 0 {
				zero = false
			}
		}
		if !zero {
			out = append(out, off)
		}
	}
	return out
}

// Extents returns a copy of the grid dimensions.
func (g *Grid) Extents() []int { return append([]int(nil), g.extents...) }

// Dims returns the number of dimensions.
func (g *Grid) Dims() int { return len(g.extents) }

// Size returns the total number of pixels.
func (g *Grid) Size() int { return g.size }

// Periodic reports whether dimension d wraps around.
func (g *Grid) Periodic(d int) bool { return g.periodic[d] }

// Stencil returns the neighbourhood offsets. Callers must not modify them.
func (g *Grid) Stencil() [][]int { return g.stencil }

// Index maps a coordinate to its linear pixel index.
func (g *Grid) Index(c Coord) (int, error) {
	if len(c) != len(g.extents) {
		return 0, fmt.Errorf("%w: coordinate %v has %d components, grid has %d", ErrIndex, c, len(c), len(g.extents))
	}
	idx := 0
	for d, v := range c {
		if v < 0 || v >= g.extents[d] {
			return 0, fmt.Errorf("%w: %v outside %v", ErrIndex, c, g.extents)
		}
		idx += v * g.strides[d]
	}
	return idx, nil
}

// Coord maps a linear pixel index back to its coordinate.
func (g *Grid) Coord(idx int) Coord {
	c := make(Coord, len(g.extents))
	for d := range g.extents {
		c[d] = (idx / g.strides[d]) % g.extents[d]
	}
	return c
}

// At returns the identifier stored at c.
func (g *Grid) At(c Coord) (CellID, error) {
	idx, err := g.Index(c)
	if err != nil {
		return 0, err
	}
	return g.data[idx], nil
}

// AtIndex returns the identifier stored at a linear index.
func (g *Grid) AtIndex(idx int) CellID { return g.data[idx] }

// Set writes id at c without any bookkeeping. Engines that track per-cell
// state must route mutations through their own commit path instead.
func (g *Grid) Set(c Coord, id CellID) error {
	idx, err := g.Index(c)
	if err != nil {
		return err
	}
	g.data[idx] = id
	return nil
}

func (g *Grid) setIndex(idx int, id CellID) { g.data[idx] = id }

// Snapshot copies the identifier array.
func (g *Grid) Snapshot() []CellID { return append([]CellID(nil), g.data...) }

// NeighborIndex returns the pixel reached from idx along stencil direction
// dir. ok is false when the step leaves a bounded dimension or wraps back
// onto idx itself.
func (g *Grid) NeighborIndex(idx, dir int) (int, bool) {
	off := g.stencil[dir]
	out := 0
	for d, e := range g.extents {
		v := (idx/g.strides[d])%e + off[d]
		if v < 0 || v >= e {
			if !g.periodic[d] {
				return 0, false
			}
			v = (v%e + e) % e
		}
		out += v * g.strides[d]
	}
	if out == idx {
		return 0, false
	}
	return out, true
}

// NeighborIndices appends the neighbours of idx to buf[:0] in stencil order.
func (g *Grid) NeighborIndices(idx int, buf []int) []int {
	buf = buf[:0]
	pos := g.scratch
	for d, e := range g.extents {
		pos[d] = (idx / g.strides[d]) % e
	}
	for _, off := range g.stencil {
		n := 0
		ok := true
		for d, e := range g.extents {
			v := pos[d] + off[d]
			if v < 0 || v >= e {
				if !g.periodic[d] {
					ok = false
					break
				}
				v = (v%e + e) % e
			}
			n += v * g.strides[d]
		}
		if ok && n != idx {
			buf = append(buf, n)
		}
	}
	return buf
}

// Neighbors returns the coordinates adjacent to c.
func (g *Grid) Neighbors(c Coord) ([]Coord, error) {
	idx, err := g.Index(c)
	if err != nil {
		return nil, err
	}
	nbs := g.NeighborIndices(idx, make([]int, 0, len(g.stencil)))
	out := make([]Coord, len(nbs))
	for i, n := range nbs {
		out[i] = g.Coord(n)
	}
	return out, nil
}

// Displacement returns the shortest vector from a to b. Periodic dimensions
// fold the difference into [-L/2, L/2]. Coordinates outside the grid are
// accepted.
func (g *Grid) Displacement(a, b Coord) []float64 {
	out := make([]float64, len(g.extents))
	for d, e := range g.extents {
		diff := b[d] - a[d]
		if g.periodic[d] {
			diff %= e
			if diff > e/2 {
				diff -= e
			} else if diff < -e/2 {
				diff += e
			}
		}
		out[d] = float64(diff)
	}
	return out
}

// Distance returns the Euclidean length of Displacement(a, b).
func (g *Grid) Distance(a, b Coord) float64 {
	sum := 0.0
	for _, v := range g.Displacement(a, b) {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// wrapFloat folds a real-valued position back into the grid along periodic
// dimensions.
func (g *Grid) wrapFloat(p []float64) {
	for d, e := range g.extents {
		if !g.periodic[d] {
			continue
		}
		l := float64(e)
		p[d] = math.Mod(p[d], l)
		if p[d] < 0 {
			p[d] += l
		}
	}
}
