package snowflake

import (
	"errors"
	"fmt"
	"slices"

	"snowflake-ca/internal/core"
	"snowflake-ca/internal/lattice"
	pcore "snowflake-ca/pkg/core"
)

// ErrBorderInvariant reports a border set that disagrees with the crystal.
var ErrBorderInvariant = errors.New("snowflake: border invariant violated")

// Window is the inclusive row/column range diffusion runs over.
type Window struct {
	Top, Left, Bottom, Right int
}

// Contains reports whether c lies inside the window.
func (w Window) Contains(c lattice.Coord) bool {
	return c.Row >= w.Top && c.Row <= w.Bottom && c.Col >= w.Left && c.Col <= w.Right
}

// Diagnostics counts border cells whose fractions left their expected range.
type Diagnostics struct {
	Negative int
	AboveOne int
}

// TickReport summarises one tick.
type TickReport struct {
	Tick         int
	Attached     int
	CrystalCells int
	BorderCells  int
	MaxDistance  int
	Window       Window
	Diagnostics  Diagnostics
}

// Plate owns the cell grid, the border set and the per-tick scratch buffers.
type Plate struct {
	cfg    Config
	params Params
	topo   *lattice.Topology
	cells  *core.Grid[Cell]
	vapor  *core.Grid[float64]
	border *BorderSet
	rng    *pcore.RNG

	origin  lattice.Coord
	tick    int
	crystal int
	maxDist int

	order     []int
	decisions []Rule
	attached  []int
}

// NewPlate validates cfg and seeds a plate. A nil topology is built from the
// config dimensions; a shared one must match them.
func NewPlate(cfg Config, topo *lattice.Topology) (*Plate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if topo == nil {
		var err error
		if topo, err = lattice.New(cfg.Rows, cfg.Cols); err != nil {
			return nil, err
		}
	} else if topo.Rows() != cfg.Rows || topo.Cols() != cfg.Cols {
		return nil, fmt.Errorf("%w: topology is %dx%d, config is %dx%d",
			ErrInvalidConfig, topo.Rows(), topo.Cols(), cfg.Rows, cfg.Cols)
	}

	p := &Plate{
		cfg:    cfg,
		params: cfg.Params,
		topo:   topo,
		cells:  core.NewGrid[Cell](cfg.Cols, cfg.Rows),
		vapor:  core.NewGrid[float64](cfg.Cols, cfg.Rows),
		border: NewBorderSet(topo.Len()),
		rng:    pcore.NewRNG(cfg.Seed),
		origin: cfg.SeedCoord(),
	}
	p.cells.Fill(VaporCell(cfg.Params.Rho))
	seed := p.topo.Index(p.origin)
	p.cells.Cells()[seed] = SeedCell()
	p.crystal = 1
	for _, j := range p.topo.Neighbors(seed) {
		p.border.Add(int(j))
	}
	return p, nil
}

// Config returns the run configuration.
func (p *Plate) Config() Config { return p.cfg }

// Topology returns the shared neighbour table.
func (p *Plate) Topology() *lattice.Topology { return p.topo }

// Rows returns the number of rows.
func (p *Plate) Rows() int { return p.topo.Rows() }

// Cols returns the number of columns.
func (p *Plate) Cols() int { return p.topo.Cols() }

// Origin returns the seed coordinate.
func (p *Plate) Origin() lattice.Coord { return p.origin }

// Ticks returns the number of completed ticks.
func (p *Plate) Ticks() int { return p.tick }

// Cell returns a copy of the cell at c.
func (p *Plate) Cell(c lattice.Coord) Cell { return p.cells.Cells()[p.topo.Index(c)] }

// CrystalCells returns the number of crystal cells.
func (p *Plate) CrystalCells() int { return p.crystal }

// BorderLen returns the size of the border set.
func (p *Plate) BorderLen() int { return p.border.Len() }

// MaxDistance returns the farthest Chebyshev distance from the seed reached
// by the crystal.
func (p *Plate) MaxDistance() int { return p.maxDist }

// Border returns the border coordinates in row-major order.
func (p *Plate) Border() []lattice.Coord {
	idx := slices.Clone(p.border.Members())
	slices.Sort(idx)
	out := make([]lattice.Coord, len(idx))
	for k, i := range idx {
		out[k] = p.topo.Coord(i)
	}
	return out
}

// Window returns the region the next diffusion sweep covers: every row and
// column within R+M of the seed on either side, both edges included.
func (p *Plate) Window() Window {
	rows, cols := p.topo.Rows(), p.topo.Cols()
	if p.cfg.Approximation == 0 {
		return Window{Top: 0, Left: 0, Bottom: rows - 1, Right: cols - 1}
	}
	extent := p.cfg.Approximation + p.maxDist
	return Window{
		Top:    max(0, p.origin.Row-extent),
		Left:   max(0, p.origin.Col-extent),
		Bottom: min(rows-1, p.origin.Row+extent),
		Right:  min(cols-1, p.origin.Col+extent),
	}
}

// Tick runs the full phase pipeline once.
func (p *Plate) Tick() (TickReport, error) {
	tick := p.tick
	win := p.Window()

	if err := p.diffuse(win); err != nil {
		return TickReport{}, fmt.Errorf("tick %d: diffusion: %w", tick, err)
	}
	if err := p.freezeAndDecide(); err != nil {
		return TickReport{}, fmt.Errorf("tick %d: freezing: %w", tick, err)
	}
	if err := p.commitAttachments(tick); err != nil {
		return TickReport{}, fmt.Errorf("tick %d: attachment: %w", tick, err)
	}
	if err := p.melt(); err != nil {
		return TickReport{}, fmt.Errorf("tick %d: melting: %w", tick, err)
	}
	if p.params.Sigma != 0 {
		p.interfere()
	}
	p.updateBorder()
	p.tick++

	return TickReport{
		Tick:         tick,
		Attached:     len(p.attached),
		CrystalCells: p.crystal,
		BorderCells:  p.border.Len(),
		MaxDistance:  p.maxDist,
		Window:       win,
		Diagnostics:  p.diagnose(),
	}, nil
}

// VerifyBorder recomputes the border from scratch and compares it with the
// incrementally maintained set.
func (p *Plate) VerifyBorder() error {
	cells := p.cells.Cells()
	for i := range cells {
		want := !cells[i].InCrystal && p.hasCrystalNeighbor(i)
		if got := p.border.Has(i); got != want {
			return fmt.Errorf("%w: cell %v member=%v expected=%v",
				ErrBorderInvariant, p.topo.Coord(i), got, want)
		}
	}
	return nil
}

func (p *Plate) hasCrystalNeighbor(i int) bool {
	cells := p.cells.Cells()
	for _, j := range p.topo.Neighbors(i) {
		if cells[j].InCrystal {
			return true
		}
	}
	return false
}

func (p *Plate) diagnose() Diagnostics {
	var d Diagnostics
	cells := p.cells.Cells()
	for _, i := range p.border.Members() {
		c := &cells[i]
		if c.B < 0 || c.C < 0 || c.D < 0 {
			d.Negative++
		}
		if c.B > 1 || c.C > 1 {
			d.AboveOne++
		}
	}
	return d
}
