package cpm

import "math"

// Tracker accumulates the distance each cell's centroid travels between
// samples. Along periodic dimensions every hop is taken the short way round,
// so sampling must be frequent enough that no centroid moves half the grid
// between two samples.
type Tracker struct {
	m     *Model
	last  map[CellID][]float64
	path  map[CellID]float64
	start int
}

// NewTracker returns a tracker with a first sample taken.
func NewTracker(m *Model) *Tracker {
	t := &Tracker{m: m, path: map[CellID]float64{}, start: m.Time()}
	t.last = m.Centroids()
	return t
}

// Sample records the centroid shift of every cell seen in both this and the
// previous sample.
func (t *Tracker) Sample() {
	now := t.m.Centroids()
	for id, c := range now {
		prev, ok := t.last[id]
		if !ok {
			continue
		}
		t.path[id] += norm(t.m.grid.deltaFloat(prev, c))
	}
	t.last = now
}

// PathLength returns the distance travelled by id so far.
func (t *Tracker) PathLength(id CellID) float64 { return t.path[id] }

// MeanSpeed returns the average path length per step of the live cells of
// kind since the tracker was created.
func (t *Tracker) MeanSpeed(kind int) float64 {
	steps := t.m.Time() - t.start
	if steps <= 0 {
		return 0
	}
	sum, n := 0.0, 0
	for _, id := range t.m.cells.IDs() {
		if t.m.cells.kind(id) != kind {
			continue
		}
		sum += t.path[id]
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n) / float64(steps)
}

// deltaFloat is Displacement for real-valued positions.
func (g *Grid) deltaFloat(a, b []float64) []float64 {
	out := make([]float64, len(g.extents))
	for d, e := range g.extents {
		diff := b[d] - a[d]
		if g.periodic[d] {
			l := float64(e)
			diff = math.Mod(diff, l)
			if diff > l/2 {
				diff -= l
			} else if diff < -l/2 {
				diff += l
			}
		}
		out[d] = diff
	}
	return out
}

func norm(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
