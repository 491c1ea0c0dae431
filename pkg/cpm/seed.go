package cpm

import "fmt"

// SeedCellAt creates a one-pixel cell of kind at c. The pixel must be
// background.
func (m *Model) SeedCellAt(kind int, c Coord) (CellID, error) {
	idx, err := m.grid.Index(c)
	if err != nil {
		return 0, err
	}
	if cur := m.grid.data[idx]; cur != Background {
		return 0, fmt.Errorf("%w: pixel %v already belongs to cell %d", ErrState, c, cur)
	}
	return m.seedIndex(kind, idx)
}

// SeedCellRandom creates a one-pixel cell of kind on a random background
// pixel.
func (m *Model) SeedCellRandom(kind int) (CellID, error) {
	if _, err := m.kindCheck(kind); err != nil {
		return 0, err
	}
	idx, err := m.randomBackground()
	if err != nil {
		return 0, err
	}
	return m.seedIndex(kind, idx)
}

// SeedCells seeds counts[k] cells of kind k+1 at random background pixels,
// mirroring a per-kind seeding table that leaves out the background.
func (m *Model) SeedCells(counts []int) ([]CellID, error) {
	var out []CellID
	for i, n := range counts {
		for j := 0; j < n; j++ {
			id, err := m.SeedCellRandom(i + 1)
			if err != nil {
				return out, err
			}
			out = append(out, id)
		}
	}
	return out, nil
}

// SetPixel assigns id to the pixel at c, keeping the registry in step.
// id must be the background or a live cell.
func (m *Model) SetPixel(c Coord, id CellID) error {
	idx, err := m.grid.Index(c)
	if err != nil {
		return err
	}
	if id != Background && m.cells.record(id) == nil {
		return fmt.Errorf("%w: %d", ErrLookup, id)
	}
	m.commit(idx, id)
	return nil
}

// KillCell returns every pixel of id to the background.
func (m *Model) KillCell(id CellID) error {
	if m.cells.record(id) == nil {
		return fmt.Errorf("%w: %d", ErrLookup, id)
	}
	for idx := range m.grid.data {
		if m.grid.data[idx] == id {
			m.commit(idx, Background)
		}
	}
	return nil
}

// RemoveCells returns every pixel of the given kind to the background and
// reports how many cells disappeared. A negative kind removes all cells.
func (m *Model) RemoveCells(kind int) int {
	before := m.cells.Count()
	for idx, id := range m.grid.data {
		if id == Background {
			continue
		}
		if kind < 0 || m.cells.kind(id) == kind {
			m.commit(idx, Background)
		}
	}
	removed := before - m.cells.Count()
	if removed > 0 {
		m.log.Debug("cells removed", "kind", kind, "count", removed)
	}
	return removed
}

func (m *Model) kindCheck(kind int) (int, error) {
	if kind <= 0 || kind >= m.cells.kinds {
		return 0, fmt.Errorf("%w: kind %d (valid kinds are 1..%d)", ErrLookup, kind, m.cells.kinds-1)
	}
	return kind, nil
}

func (m *Model) seedIndex(kind, idx int) (CellID, error) {
	id, err := m.cells.create(kind)
	if err != nil {
		return 0, err
	}
	m.commit(idx, id)
	m.log.Debug("cell seeded", "id", id, "kind", kind, "at", m.grid.Coord(idx), "t", m.step)
	return id, nil
}

// randomBackground samples pixels until it hits the background. After a
// bounded number of misses it falls back to a uniform pick among all
// background pixels.
func (m *Model) randomBackground() (int, error) {
	size := m.grid.Size()
	if m.cells.totalVolume() >= size {
		return 0, fmt.Errorf("%w: all %d pixels are occupied", ErrResourceExhausted, size)
	}
	for try := 0; try < maxSeedTries; try++ {
		idx := m.rng.IntN(size)
		if m.grid.data[idx] == Background {
			return idx, nil
		}
	}
	var free []int
	for idx, id := range m.grid.data {
		if id == Background {
			free = append(free, idx)
		}
	}
	if len(free) == 0 {
		return 0, fmt.Errorf("%w: all %d pixels are occupied", ErrResourceExhausted, size)
	}
	return free[m.rng.IntN(len(free))], nil
}

const maxSeedTries = 1000
