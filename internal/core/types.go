package core

import (
	"fmt"
	"sort"
)

// Size is the 2D extent shown by the viewer and the text renderer.
type Size struct {
	W int
	H int
}

// Sim is the contract the viewer and the headless runner drive. Step advances
// one Monte Carlo step; Cells returns the display codes of the current frame.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64) error
	Step()
	Time() int
	Cells() []uint8
}

// Factory builds a Sim from flag-style settings.
type Factory func(cfg map[string]string) (Sim, error)

var sims = map[string]Factory{}

// Register adds a factory under name. Empty names and nil factories are
// ignored.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Names lists the registered sims in sorted order.
func Names() []string {
	out := make([]string, 0, len(sims))
	for name := range sims {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Build looks name up and runs its factory.
func Build(name string, cfg map[string]string) (Sim, error) {
	f, ok := sims[name]
	if !ok {
		return nil, fmt.Errorf("unknown sim %q (have %v)", name, Names())
	}
	return f(cfg)
}

// Marker is a point of interest in display coordinates, such as a cell
// centroid.
type Marker struct {
	X, Y float64
	Kind int
}

// MarkerProvider is implemented by sims that can report markers.
type MarkerProvider interface {
	Markers() []Marker
}
