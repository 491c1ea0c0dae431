package cpm

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// KindStats aggregates the live cells of one kind.
type KindStats struct {
	Kind          int
	Count         int
	MeanVolume    float64
	StdVolume     float64
	MeanPerimeter float64
	StdPerimeter  float64
}

// PixelsByCell lists the pixels of every cell in grid order.
func (m *Model) PixelsByCell() map[CellID][]Coord {
	out := make(map[CellID][]Coord, m.cells.Count())
	for idx, id := range m.grid.data {
		if id == Background {
			continue
		}
		out[id] = append(out[id], m.grid.Coord(idx))
	}
	return out
}

// Centroids returns the centre of mass of every cell. Along periodic
// dimensions pixels are measured relative to one reference pixel of the
// cell, so a cell that straddles the seam is not averaged across the whole
// grid; the result is wrapped back into bounds.
func (m *Model) Centroids() map[CellID][]float64 {
	pixels := m.PixelsByCell()
	out := make(map[CellID][]float64, len(pixels))
	for id, px := range pixels {
		out[id] = m.centroid(px)
	}
	return out
}

func (m *Model) centroid(px []Coord) []float64 {
	dims := m.grid.Dims()
	sum := make([]float64, dims)
	if len(px) == 0 {
		return sum
	}
	ref := px[0]
	for _, p := range px {
		floats.Add(sum, m.grid.Displacement(ref, p))
	}
	floats.Scale(1/float64(len(px)), sum)
	for d := range sum {
		sum[d] += float64(ref[d])
	}
	m.grid.wrapFloat(sum)
	return sum
}

// CellStats summarises every live cell, centroid included, in identifier
// order.
func (m *Model) CellStats() []CellInfo {
	centroids := m.Centroids()
	ids := m.cells.IDs()
	out := make([]CellInfo, 0, len(ids))
	for _, id := range ids {
		rec := m.cells.records[id]
		out = append(out, CellInfo{
			ID:        id,
			Kind:      rec.kind,
			Volume:    rec.volume,
			Perimeter: rec.perimeter,
			Centroid:  centroids[id],
		})
	}
	return out
}

// KindSummary aggregates volume and perimeter per non-background kind.
func (m *Model) KindSummary() []KindStats {
	kinds := m.cells.kinds
	vols := make([][]float64, kinds)
	pers := make([][]float64, kinds)
	for _, rec := range m.cells.records {
		if rec == nil {
			continue
		}
		vols[rec.kind] = append(vols[rec.kind], float64(rec.volume))
		pers[rec.kind] = append(pers[rec.kind], float64(rec.perimeter))
	}
	out := make([]KindStats, 0, kinds-1)
	for k := 1; k < kinds; k++ {
		ks := KindStats{Kind: k, Count: len(vols[k])}
		if ks.Count > 0 {
			ks.MeanVolume, ks.StdVolume = meanStd(vols[k])
			ks.MeanPerimeter, ks.StdPerimeter = meanStd(pers[k])
		}
		out = append(out, ks)
	}
	return out
}

func meanStd(xs []float64) (float64, float64) {
	if len(xs) == 1 {
		return xs[0], 0
	}
	return stat.MeanStdDev(xs, nil)
}

// BackgroundCount returns the number of pixels owned by no cell.
func (m *Model) BackgroundCount() int {
	return m.grid.Size() - m.cells.totalVolume()
}
