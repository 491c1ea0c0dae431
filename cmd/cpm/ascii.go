package main

import (
	"bufio"
	"io"

	"github.com/logrusorgru/aurora"

	"mad-cpm/internal/core"
	"mad-cpm/internal/sims/potts"
)

var kindGlyphs = []byte{'.', 'o', '@', '*', '+', '%', '&', '$'}

// renderText prints a frame as one glyph per sampled pixel. Frames wider than
// maxWidth are sampled every ceil(W/maxWidth) pixels in both directions.
func renderText(w io.Writer, au aurora.Aurora, codes []uint8, size core.Size, maxWidth int) {
	stride := 1
	if maxWidth > 0 && size.W > maxWidth {
		stride = (size.W + maxWidth - 1) / maxWidth
	}
	bw := bufio.NewWriter(w)
	defer bw.Flush()
	for y := 0; y < size.H; y += stride {
		for x := 0; x < size.W; x += stride {
			bw.WriteString(glyph(au, codes[y*size.W+x]))
		}
		bw.WriteByte('\n')
	}
}

func glyph(au aurora.Aurora, code uint8) string {
	kind, border, act := potts.DecodeDisplay(code)
	g := string(kindGlyphs[kind%len(kindGlyphs)])
	if kind == 0 {
		return au.Faint(g).String()
	}
	var v aurora.Value
	switch {
	case act > 0:
		v = au.Red(g)
	case kind == 2:
		v = au.Gray(12, g)
	default:
		v = au.Colorize(g, kindColor(kind))
	}
	if border {
		v = au.Bold(v)
	}
	return v.String()
}

func kindColor(kind int) aurora.Color {
	colors := []aurora.Color{aurora.WhiteFg, aurora.BlueFg, aurora.GreenFg, aurora.YellowFg, aurora.MagentaFg, aurora.CyanFg}
	return colors[kind%len(colors)]
}
