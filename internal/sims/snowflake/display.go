package snowflake

import (
	"image/color"
	"math"

	"snowflake-ca/internal/core"
)

// VaporChannel maps vapour to 255 - floor(255*(d/rho)), clamped to a byte.
// The ratio is taken first so d == rho maps exactly to 0.
func VaporChannel(d, rho float64) uint8 {
	return clampByte(255 - math.Floor(255*(d/rho)))
}

// AgeChannel maps the attach tick to floor(255*i/total), clamped to a byte.
func AgeChannel(i, total int) uint8 {
	if total <= 0 {
		return 0
	}
	return clampByte(math.Floor(255 * float64(i) / float64(total)))
}

// CellColor returns the pixel colour of a cell: blue vapour for the
// atmosphere, green-blue by age for the crystal.
func CellColor(v CellView, rho float64, total int) color.RGBA {
	if v.InCrystal {
		return color.RGBA{R: 0, G: 255, B: AgeChannel(v.I, total), A: 255}
	}
	return color.RGBA{R: 0, G: 0, B: VaporChannel(v.D, rho), A: 255}
}

func clampByte(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}

// ColorAt returns the colour of cell i.
func (s *Snapshot) ColorAt(i int) color.RGBA {
	return CellColor(s.Cells[i], s.Rho, s.TotalTicks)
}

// plateFrame colours the live plate without copying it. It is only valid on
// the goroutine that drives the plate.
type plateFrame struct {
	p *Plate
}

func (f plateFrame) Size() core.Size { return core.Size{W: f.p.Cols(), H: f.p.Rows()} }

func (f plateFrame) ColorAt(i int) color.RGBA {
	c := &f.p.cells.Cells()[i]
	return CellColor(CellView{InCrystal: c.InCrystal, D: c.D, I: c.I}, f.p.params.Rho, f.p.cfg.Ticks)
}
