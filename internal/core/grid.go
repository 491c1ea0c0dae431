package core

// Frame is a row-major buffer of per-pixel display codes.
type Frame struct {
	W, H int
	pix  []uint8
}

// NewFrame allocates a frame. Non-positive extents are raised to one.
func NewFrame(w, h int) *Frame {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Frame{W: w, H: h, pix: make([]uint8, w*h)}
}

// Pix exposes the backing slice.
func (f *Frame) Pix() []uint8 { return f.pix }

// Index returns the slice index of (x, y).
func (f *Frame) Index(x, y int) int { return y*f.W + x }

// Contains reports whether (x, y) lies inside the frame.
func (f *Frame) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.W && y < f.H
}

// At returns the code at (x, y), or 0 outside the frame.
func (f *Frame) At(x, y int) uint8 {
	if !f.Contains(x, y) {
		return 0
	}
	return f.pix[f.Index(x, y)]
}

// Set writes the code at (x, y). Writes outside the frame are dropped.
func (f *Frame) Set(x, y int, v uint8) {
	if f.Contains(x, y) {
		f.pix[f.Index(x, y)] = v
	}
}

// Clear zeroes every code.
func (f *Frame) Clear() {
	clear(f.pix)
}
