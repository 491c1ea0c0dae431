package potts

import (
	"image/color"
	"math"

	"mad-cpm/internal/core"
	"mad-cpm/pkg/cpm"
)

// Display codes pack the kind, a border flag and a coarse activity level.
const (
	displayKindMask   = 0x07
	displayBorderBit  = 0x08
	displayActShift   = 4
	displayActMask    = 0x30
	displayActLevels  = 3
	displayPaletteLen = 64
)

var pottsPalette = buildPalette()

// Palette returns the colour of every display code.
func (w *World) Palette() []color.RGBA { return pottsPalette }

// DecodeDisplay splits a display code into its parts.
func DecodeDisplay(code uint8) (kind int, border bool, act int) {
	return int(code & displayKindMask), code&displayBorderBit != 0, int(code&displayActMask) >> displayActShift
}

func encodeDisplay(kind int, border bool, act int) uint8 {
	if kind > displayKindMask {
		kind = displayKindMask
	}
	code := uint8(kind)
	if border {
		code |= displayBorderBit
	}
	return code | uint8(act<<displayActShift)&displayActMask
}

// refresh recomputes the frame from the z=0 slice of the grid.
func (w *World) refresh() {
	g := w.model.Grid()
	view := w.model.View()
	pix := w.frame.Pix()
	var nbuf []int
	for i := range pix {
		id := g.AtIndex(i)
		if id == cpm.Background {
			pix[i] = 0
			continue
		}
		kind := view.KindAt(i)
		border := false
		if w.bundle.ShowsBorder(kind) {
			nbuf = g.NeighborIndices(i, nbuf)
			for _, n := range nbuf {
				if g.AtIndex(n) != id {
					border = true
					break
				}
			}
		}
		pix[i] = encodeDisplay(kind, border, w.activityLevel(view, i, kind))
	}
}

func (w *World) activityLevel(v *cpm.View, idx, kind int) int {
	if w.activity == nil || !w.bundle.ShowsActivity(kind) {
		return 0
	}
	maxAct := w.activity.MaxAct(kind)
	if maxAct <= 0 {
		return 0
	}
	frac := w.activity.PixelActivity(v, idx) / maxAct
	return int(math.Ceil(frac * displayActLevels))
}

var (
	canvasColor = color.RGBA{R: 0xea, G: 0xec, B: 0xef, A: 0xff}
	kindColors  = []color.RGBA{
		canvasColor,
		{R: 0x00, G: 0x00, B: 0x00, A: 0xff},
		{R: 0x42, G: 0x42, B: 0x42, A: 0xff},
		{R: 0x2a, G: 0x6f, B: 0xb0, A: 0xff},
		{R: 0x3f, G: 0x9a, B: 0x4f, A: 0xff},
		{R: 0xb0, G: 0x7a, B: 0x2a, A: 0xff},
		{R: 0x8a, G: 0x3f, B: 0x9a, A: 0xff},
		{R: 0x20, G: 0x9a, B: 0x9a, A: 0xff},
	}
	borderColor   = color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}
	activityColor = color.RGBA{R: 0xff, G: 0x20, B: 0x20, A: 0xff}
)

func buildPalette() []color.RGBA {
	palette := make([]color.RGBA, displayPaletteLen)
	for i := range palette {
		kind, border, act := DecodeDisplay(uint8(i))
		palette[i] = paletteColorFor(kind, border, act)
	}
	return palette
}

func paletteColorFor(kind int, border bool, act int) color.RGBA {
	if kind == 0 {
		return canvasColor
	}
	base := kindColors[kind%len(kindColors)]
	if act > 0 {
		base = blend(base, activityColor, 0.35+0.65*float64(act)/displayActLevels)
	}
	if border {
		base = blend(base, borderColor, 0.7)
	}
	return base
}

func blend(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}

// Markers returns the centroid of every live cell in display coordinates.
func (w *World) Markers() []core.Marker {
	stats := w.model.CellStats()
	out := make([]core.Marker, 0, len(stats))
	for _, s := range stats {
		mk := core.Marker{X: s.Centroid[0], Kind: s.Kind}
		if len(s.Centroid) > 1 {
			mk.Y = s.Centroid[1]
		}
		out = append(out, mk)
	}
	return out
}
