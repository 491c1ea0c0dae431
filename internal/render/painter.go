//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Painter uploads display codes into a single ebiten image.
type Painter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewPainter allocates a painter for a w*h frame.
func NewPainter(w, h int) *Painter {
	return &Painter{w: w, h: h, img: ebiten.NewImage(w, h), buf: make([]byte, 4*w*h)}
}

// Blit colours codes with palette and draws them scaled onto dst.
func (p *Painter) Blit(dst *ebiten.Image, codes []uint8, palette []color.RGBA, scale int) {
	if len(codes) != p.w*p.h {
		return
	}
	fillPaletteRGBA(p.buf, codes, palette)
	p.img.WritePixels(p.buf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(p.img, op)
}
