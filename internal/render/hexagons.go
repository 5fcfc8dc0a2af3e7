package render

import (
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"snowflake-ca/internal/core"
)

// Hexagon tile geometry in pixels. Odd rows shift right by half a tile.
const (
	hexWidth  = 12
	hexHeight = 14
	hexPitch  = 10
)

var hexMask = newHexMask()

func newHexMask() *image.Alpha {
	z := vector.NewRasterizer(hexWidth, hexHeight)
	z.MoveTo(hexWidth/2, 0)
	z.LineTo(hexWidth, 3)
	z.LineTo(hexWidth, hexHeight-3)
	z.LineTo(hexWidth/2, hexHeight)
	z.LineTo(0, hexHeight-3)
	z.LineTo(0, 3)
	z.ClosePath()
	mask := image.NewAlpha(image.Rect(0, 0, hexWidth, hexHeight))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// HexBounds returns the image size HexImage produces for a w*h grid.
func HexBounds(w, h int) image.Rectangle {
	if w <= 0 || h <= 0 {
		return image.Rectangle{}
	}
	return image.Rect(0, 0, hexWidth*w+hexWidth/2, hexPitch*(h-1)+hexHeight)
}

// HexImage renders f as offset-row hexagon tiles, matching the lattice
// neighbourhood.
func HexImage(f core.Frame) *image.RGBA {
	s := f.Size()
	img := image.NewRGBA(HexBounds(s.W, s.H))
	var fill image.Uniform
	for y := 0; y < s.H; y++ {
		shift := 0
		if y%2 == 1 {
			shift = hexWidth / 2
		}
		for x := 0; x < s.W; x++ {
			fill.C = f.ColorAt(y*s.W + x)
			at := image.Pt(hexWidth*x+shift, hexPitch*y)
			r := image.Rectangle{Min: at, Max: at.Add(hexMask.Rect.Max)}
			draw.DrawMask(img, r, &fill, image.Point{}, hexMask, image.Point{}, draw.Over)
		}
	}
	return img
}
