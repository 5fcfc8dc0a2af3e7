//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"math"

	"snowflake-ca/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type borderProvider interface {
	BorderMask() []float32
}

type windowProvider interface {
	WindowRect() image.Rectangle
}

// Overlay draws optional debugging visuals on top of the base simulation.
// Key 1 toggles the border set, key 2 the diffusion window.
type Overlay struct {
	sim        core.Sim
	scale      int
	showBorder bool
	showWindow bool
	maskImg    *ebiten.Image
	maskBuf    []byte
	pixel      *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: scale, showWindow: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update handles the toggle keys.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showBorder = !o.showBorder
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showWindow = !o.showWindow
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}

	if o.showBorder {
		if provider, ok := o.sim.(borderProvider); ok {
			o.drawMask(screen, provider.BorderMask(), size, scale, color.RGBA{R: 255, G: 90, B: 200})
		}
	}
	if o.showWindow {
		if provider, ok := o.sim.(windowProvider); ok {
			o.drawRect(screen, provider.WindowRect(), scale, color.RGBA{R: 255, G: 210, B: 60, A: 200})
		}
	}
}

func (o *Overlay) drawRect(screen *ebiten.Image, r image.Rectangle, scale int, col color.RGBA) {
	if r.Empty() {
		return
	}
	s := float64(scale)
	x0, y0 := float64(r.Min.X)*s, float64(r.Min.Y)*s
	x1, y1 := float64(r.Max.X)*s, float64(r.Max.Y)*s
	const thickness = 1.5
	o.drawLine(screen, x0, y0, x1, y0, thickness, col)
	o.drawLine(screen, x1, y0, x1, y1, thickness, col)
	o.drawLine(screen, x1, y1, x0, y1, thickness, col)
	o.drawLine(screen, x0, y1, x0, y0, thickness, col)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawMask(screen *ebiten.Image, mask []float32, size core.Size, scale int, tint color.RGBA) {
	total := size.W * size.H
	if len(mask) != total || total == 0 {
		return
	}
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != size.W || o.maskImg.Bounds().Dy() != size.H {
		o.maskImg = ebiten.NewImage(size.W, size.H)
		o.maskBuf = make([]byte, 4*total)
	}
	MaskPixels(o.maskBuf, mask, tint)
	o.maskImg.WritePixels(o.maskBuf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(o.maskImg, op)
}
