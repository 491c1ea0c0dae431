//go:build ebiten

package ui

import (
	"image/color"

	"mad-cpm/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var markerColors = []color.RGBA{
	{R: 255, G: 255, B: 255, A: 255},
	{R: 255, G: 210, B: 40, A: 255},
	{R: 40, G: 200, B: 255, A: 255},
}

// Overlay draws cell centroids on top of the field. C toggles it.
type Overlay struct {
	sim   core.Sim
	scale int
	show  bool
}

// NewOverlay builds an overlay for sim drawn at the given scale.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	return &Overlay{sim: sim, scale: max(scale, 1)}
}

// Visible reports whether markers are drawn.
func (o *Overlay) Visible() bool { return o.show }

// Update handles the toggle key.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		o.show = !o.show
	}
}

// Draw paints one ring per marker.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.show {
		return
	}
	p, ok := o.sim.(core.MarkerProvider)
	if !ok {
		return
	}
	s := float32(o.scale)
	radius := max(2, s)
	for _, mk := range p.Markers() {
		col := markerColors[mk.Kind%len(markerColors)]
		cx := (float32(mk.X) + 0.5) * s
		cy := (float32(mk.Y) + 0.5) * s
		vector.StrokeCircle(screen, cx, cy, radius, 1, col, true)
	}
}
