package render

import (
	"image"
	"image/color"
)

// fillPaletteRGBA writes the palette colour of every code into buf. Codes
// past the end of the palette use its last entry; an empty palette clears
// buf to transparent black.
func fillPaletteRGBA(buf []byte, codes []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(codes)])
		return
	}
	last := len(palette) - 1
	for i, c := range codes {
		idx := int(c)
		if idx > last {
			idx = last
		}
		col := palette[idx]
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// Image renders a w*h frame of display codes into an RGBA image, scaling
// every code to a scale*scale block.
func Image(codes []uint8, w, h, scale int, palette []color.RGBA) *image.RGBA {
	if scale <= 0 {
		scale = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	if len(codes) != w*h {
		return img
	}
	if scale == 1 {
		fillPaletteRGBA(img.Pix, codes, palette)
		return img
	}
	row := make([]byte, 4*w)
	for y := 0; y < h; y++ {
		fillPaletteRGBA(row, codes[y*w:(y+1)*w], palette)
		for sy := 0; sy < scale; sy++ {
			dst := img.Pix[(y*scale+sy)*img.Stride:]
			for x := 0; x < w; x++ {
				px := row[4*x : 4*x+4]
				for sx := 0; sx < scale; sx++ {
					copy(dst[4*(x*scale+sx):], px)
				}
			}
		}
	}
	return img
}
