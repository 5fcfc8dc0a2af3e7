package render

import (
	"image"

	"golang.org/x/image/draw"

	"snowflake-ca/internal/core"
)

// FillRGBA writes the colours of f into buf, four bytes per cell in
// row-major order. buf must hold at least 4*W*H bytes.
func FillRGBA(buf []byte, f core.Frame) {
	s := f.Size()
	n := s.W * s.H
	for i := 0; i < n; i++ {
		c := f.ColorAt(i)
		base := i * 4
		buf[base+0] = c.R
		buf[base+1] = c.G
		buf[base+2] = c.B
		buf[base+3] = c.A
	}
}

// ToImage renders f at one pixel per cell.
func ToImage(f core.Frame) *image.RGBA {
	s := f.Size()
	img := image.NewRGBA(image.Rect(0, 0, s.W, s.H))
	FillRGBA(img.Pix, f)
	return img
}

// Scale enlarges src by an integer factor without smoothing.
func Scale(src *image.RGBA, factor int) *image.RGBA {
	if factor <= 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
