//go:build ebiten

package ui

import (
	"image/color"

	"snowflake-ca/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the parameter and statistics panel to the right of the
// simulation view. Values are read-only.
type HUD struct {
	sim        core.Sim
	width      int
	panel      *ebiten.Image
	lastHeight int
	lines      []Line
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{sim: sim, width: width}
}

// Width returns the panel width in pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Update refreshes the cached lines from the simulation.
func (h *HUD) Update(paused bool) {
	if h == nil {
		return
	}
	h.lines = Lines(h.sim, paused)
}

// Draw paints the HUD panel anchored to the right edge of the simulation view.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := h.sim.Size().H * scale
	if height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	for _, line := range h.lines {
		if y > height {
			break
		}
		switch line.Kind {
		case LineTitle:
			text.Draw(h.panel, line.Label, face, panelPadding, y, titleColor)
		case LineGroup:
			y += groupGap
			text.Draw(h.panel, line.Label, face, panelPadding, y, groupColor)
		default:
			text.Draw(h.panel, line.Label, face, panelPadding+indent, y, labelColor)
			bounds := text.BoundString(face, line.Value)
			text.Draw(h.panel, line.Value, face, h.width-panelPadding-bounds.Dx(), y, valueColor)
		}
		y += lineHeight
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

var (
	titleColor = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	groupColor = color.RGBA{R: 140, G: 180, B: 230, A: 255}
	labelColor = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	valueColor = color.RGBA{R: 230, G: 230, B: 240, A: 255}
)

const (
	panelPadding   = 12
	lineHeight     = 16
	groupGap       = 8
	indent         = 6
	headerBaseline = 18
)
