//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"mad-cpm/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

var (
	panelColor    = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	titleColor    = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelColor    = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	mutedColor    = color.RGBA{R: 150, G: 150, B: 160, A: 255}
	buttonColor   = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	disabledColor = color.RGBA{R: 32, G: 34, B: 40, A: 255}
)

// HUD draws live parameters and -/+ controls in a panel right of the field.
type HUD struct {
	sim   core.Sim
	width int
	panel *ebiten.Image

	snapshot    core.ParameterSnapshot
	controls    []controlState
	intSetter   core.IntParameterSetter
	floatSetter core.FloatParameterSetter
	offsetX     int
	title       string
}

type controlState struct {
	control  core.ParameterControl
	value    float64
	hasValue bool

	top   int
	minus image.Rectangle
	plus  image.Rectangle
}

// NewHUD builds a HUD of the given panel width for sim.
func NewHUD(sim core.Sim, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{sim: sim, width: width, title: strings.ToUpper(sim.Name()) + " controls"}
	if p, ok := sim.(core.ParameterControlsProvider); ok {
		for i, c := range p.ParameterControls() {
			top := controlsTop + i*lineHeight
			y := top + (lineHeight-buttonSize)/2
			plus := image.Rect(width-panelPadding-buttonSize, y, width-panelPadding, y+buttonSize)
			minus := plus.Sub(image.Pt(buttonSize+buttonGap, 0))
			h.controls = append(h.controls, controlState{control: c, top: top, minus: minus, plus: plus})
		}
	}
	h.intSetter, _ = sim.(core.IntParameterSetter)
	h.floatSetter, _ = sim.(core.FloatParameterSetter)
	return h
}

// Update refreshes the snapshot and applies clicks on the panel.
func (h *HUD) Update(offsetX int) {
	if h == nil {
		return
	}
	h.offsetX = offsetX
	if p, ok := h.sim.(core.ParameterProvider); ok {
		h.snapshot = p.Parameters()
	}
	for i := range h.controls {
		st := &h.controls[i]
		st.value, st.hasValue = h.snapshot.Float(st.control.Key)
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	pt := image.Pt(mx-h.offsetX, my)
	for i := range h.controls {
		st := &h.controls[i]
		switch {
		case pt.In(st.minus):
			h.adjust(st, -1)
		case pt.In(st.plus):
			h.adjust(st, 1)
		}
	}
}

func (h *HUD) adjust(st *controlState, dir int) {
	if !st.hasValue {
		return
	}
	target := st.control.Nudge(st.value, dir)
	if math.Abs(target-st.value) < 1e-12 {
		return
	}
	ok := false
	switch st.control.Type {
	case core.ParamTypeInt:
		ok = h.intSetter != nil && h.intSetter.SetIntParameter(st.control.Key, int(target))
	case core.ParamTypeFloat:
		ok = h.floatSetter != nil && h.floatSetter.SetFloatParameter(st.control.Key, target)
	}
	if ok {
		st.value = target
	}
}

// Draw paints the panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	height := h.sim.Size().H * max(scale, 1)
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(panelColor)
	face := basicfont.Face7x13
	text.Draw(h.panel, h.title, face, panelPadding, panelPadding+headerBaseline, titleColor)

	for i := range h.controls {
		st := &h.controls[i]
		y := st.top + labelBaseline
		text.Draw(h.panel, st.control.Label, face, panelPadding, y, labelColor)
		value := "--"
		if st.hasValue {
			value = formatValue(st.control, st.value)
		}
		w := text.BoundString(face, value).Dx()
		text.Draw(h.panel, value, face, st.minus.Min.X-buttonGap-w, y, labelColor)
		h.drawButton(st.minus, "-", st.hasValue && st.control.Nudge(st.value, -1) != st.value)
		h.drawButton(st.plus, "+", st.hasValue && st.control.Nudge(st.value, 1) != st.value)
	}

	y := controlsTop + len(h.controls)*lineHeight + infoSpacing
	controlled := map[string]bool{}
	for _, st := range h.controls {
		controlled[st.control.Key] = true
	}
	for _, g := range h.snapshot.Groups {
		if y > height-panelPadding {
			break
		}
		text.Draw(h.panel, g.Name, face, panelPadding, y, titleColor)
		y += infoLine
		for _, p := range g.Params {
			if controlled[p.Key] {
				continue
			}
			line := fmt.Sprintf("%s: %s", p.Label, p.Display())
			text.Draw(h.panel, line, face, panelPadding, y, mutedColor)
			y += infoLine
		}
		y += infoLine / 2
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawButton(r image.Rectangle, label string, enabled bool) {
	bg, fg := buttonColor, labelColor
	if !enabled {
		bg, fg = disabledColor, mutedColor
	}
	vector.DrawFilledRect(h.panel, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), bg, false)
	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	x := r.Min.X + (r.Dx()-b.Dx())/2
	y := r.Min.Y + (r.Dy()-b.Dy())/2 + b.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func formatValue(c core.ParameterControl, v float64) string {
	if c.Type == core.ParamTypeInt {
		return strconv.Itoa(int(v))
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	infoSpacing    = 12
	infoLine       = 16
	controlsTop    = panelPadding + headerBaseline + 14
)
