//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"snowflake-ca/internal/core"
)

// GridPainter keeps a single grid-sized image updated from a frame.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	gp := &GridPainter{w: w, h: h, buf: make([]byte, 4*w*h)}
	gp.img = ebiten.NewImage(w, h)
	return gp
}

// Blit uploads the frame into the painter image and draws it scaled.
func (gp *GridPainter) Blit(dst *ebiten.Image, f core.Frame, scale int) {
	if s := f.Size(); s.W != gp.w || s.H != gp.h {
		return
	}
	FillRGBA(gp.buf, f)
	gp.img.WritePixels(gp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.img, op)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }
