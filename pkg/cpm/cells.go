package cpm

import "fmt"

// CellInfo is a read-only summary of one cell.
type CellInfo struct {
	ID        CellID
	Kind      int
	Volume    int
	Perimeter int
	Centroid  []float64
}

type cellRecord struct {
	kind      int
	volume    int
	perimeter int
	// pixel index -> step at which this cell took the pixel
	acquired map[int]int
}

// Registry holds per-cell state. Records live in an arena indexed by
// CellID; retired slots stay nil so identifiers are never handed out twice.
type Registry struct {
	kinds   int
	records []*cellRecord
	live    int
	perKind []int
}

func newRegistry(kinds int) *Registry {
	return &Registry{
		kinds: kinds,
		// slot 0 is the background and never holds a record
		records: make([]*cellRecord, 1, 64),
		perKind: make([]int, kinds),
	}
}

func (r *Registry) create(kind int) (CellID, error) {
	if kind <= 0 || kind >= r.kinds {
		return 0, fmt.Errorf("%w: kind %d (valid kinds are 1..%d)", ErrLookup, kind, r.kinds-1)
	}
	id := CellID(len(r.records))
	r.records = append(r.records, &cellRecord{kind: kind, acquired: make(map[int]int)})
	r.live++
	r.perKind[kind]++
	return id, nil
}

func (r *Registry) record(id CellID) *cellRecord {
	if id <= 0 || int(id) >= len(r.records) {
		return nil
	}
	return r.records[id]
}

func (r *Registry) pixelAdded(id CellID, idx, step int) {
	rec := r.mustRecord(id)
	rec.volume++
	rec.acquired[idx] = step
}

func (r *Registry) pixelRemoved(id CellID, idx int) {
	rec := r.mustRecord(id)
	rec.volume--
	delete(rec.acquired, idx)
	if rec.volume < 0 {
		panic(fmt.Errorf("%w: cell %d volume dropped below zero", ErrInvariant, id))
	}
}

func (r *Registry) adjustPerimeter(id CellID, delta int) {
	r.mustRecord(id).perimeter += delta
}

func (r *Registry) retire(id CellID) {
	rec := r.mustRecord(id)
	if rec.volume != 0 || rec.perimeter != 0 {
		panic(fmt.Errorf("%w: retiring cell %d with volume %d perimeter %d", ErrInvariant, id, rec.volume, rec.perimeter))
	}
	r.records[id] = nil
	r.live--
	r.perKind[rec.kind]--
}

func (r *Registry) mustRecord(id CellID) *cellRecord {
	rec := r.record(id)
	if rec == nil {
		panic(fmt.Errorf("%w: no record for cell %d", ErrInvariant, id))
	}
	return rec
}

// kind is the hot-path variant of KindOf: unknown identifiers map to the
// background kind.
func (r *Registry) kind(id CellID) int {
	if rec := r.record(id); rec != nil {
		return rec.kind
	}
	return 0
}

// KindOf returns the kind of a cell. The background has kind 0.
func (r *Registry) KindOf(id CellID) (int, error) {
	if id == Background {
		return 0, nil
	}
	rec := r.record(id)
	if rec == nil {
		return 0, fmt.Errorf("%w: %d", ErrLookup, id)
	}
	return rec.kind, nil
}

// Volume returns the number of pixels owned by id.
func (r *Registry) Volume(id CellID) (int, error) {
	rec := r.record(id)
	if rec == nil {
		return 0, fmt.Errorf("%w: %d", ErrLookup, id)
	}
	return rec.volume, nil
}

// Perimeter returns the number of neighbourhood links from id's pixels to
// pixels owned by anyone else.
func (r *Registry) Perimeter(id CellID) (int, error) {
	rec := r.record(id)
	if rec == nil {
		return 0, fmt.Errorf("%w: %d", ErrLookup, id)
	}
	return rec.perimeter, nil
}

// Cell returns a summary of id without its centroid.
func (r *Registry) Cell(id CellID) (CellInfo, error) {
	rec := r.record(id)
	if rec == nil {
		return CellInfo{}, fmt.Errorf("%w: %d", ErrLookup, id)
	}
	return CellInfo{ID: id, Kind: rec.kind, Volume: rec.volume, Perimeter: rec.perimeter}, nil
}

// IDs lists live cells in ascending order.
func (r *Registry) IDs() []CellID {
	out := make([]CellID, 0, r.live)
	for id, rec := range r.records {
		if rec != nil {
			out = append(out, CellID(id))
		}
	}
	return out
}

// Count returns the number of live cells.
func (r *Registry) Count() int { return r.live }

// CountKind returns the number of live cells of kind.
func (r *Registry) CountKind(kind int) int {
	if kind <= 0 || kind >= len(r.perKind) {
		return 0
	}
	return r.perKind[kind]
}

// Kinds returns the number of kinds including the background.
func (r *Registry) Kinds() int { return r.kinds }

func (r *Registry) totalVolume() int {
	sum := 0
	for _, rec := range r.records {
		if rec != nil {
			sum += rec.volume
		}
	}
	return sum
}
