package snowflake

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"snowflake-ca/internal/lattice"
)

// minChunk keeps tiny sweeps inline instead of paying for goroutines.
const minChunk = 256

// parallel splits [0, n) into contiguous chunks and runs fn on each. Chunks
// never overlap, so fn may write slots it owns without locking.
func (p *Plate) parallel(n int, fn func(lo, hi int) error) error {
	workers := p.cfg.Workers
	if workers <= 1 || n < 2*minChunk {
		return fn(0, n)
	}
	chunk := max(minChunk, (n+workers-1)/workers)
	var g errgroup.Group
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() error { return fn(lo, hi) })
	}
	return g.Wait()
}

// diffuse averages each non-crystal cell in win with its neighbours, reading
// only the previous tick's vapour and committing after the sweep. A crystal
// neighbour contributes the cell's own vapour.
func (p *Plate) diffuse(win Window) error {
	cells := p.cells.Cells()
	next := p.vapor.Cells()
	cols := p.topo.Cols()

	err := p.parallel((win.Bottom-win.Top+1)*(win.Right-win.Left+1), func(lo, hi int) error {
		width := win.Right - win.Left + 1
		for k := lo; k < hi; k++ {
			i := (win.Top+k/width)*cols + win.Left + k%width
			if cells[i].InCrystal {
				continue
			}
			own := cells[i].D
			sum := own
			nbrs := p.topo.Neighbors(i)
			for _, j := range nbrs {
				if cells[j].InCrystal {
					sum += own
				} else {
					sum += cells[j].D
				}
			}
			next[i] = sum / float64(1+len(nbrs))
		}
		return nil
	})
	if err != nil {
		return err
	}

	for r := win.Top; r <= win.Bottom; r++ {
		for c := win.Left; c <= win.Right; c++ {
			i := r*cols + c
			if !cells[i].InCrystal {
				cells[i].D = next[i]
			}
		}
	}
	return nil
}

// freezeAndDecide freezes every border cell and records its attachment rule.
// Crystal flags do not change until commitAttachments, so every decision sees
// the crystal as it was at the start of the tick.
func (p *Plate) freezeAndDecide() error {
	p.order = append(p.order[:0], p.border.Members()...)
	if cap(p.decisions) < len(p.order) {
		p.decisions = make([]Rule, len(p.order))
	}
	p.decisions = p.decisions[:len(p.order)]

	cells := p.cells.Cells()
	return p.parallel(len(p.order), func(lo, hi int) error {
		for k := lo; k < hi; k++ {
			i := p.order[k]
			cell := &cells[i]
			if err := cell.Freeze(p.params.Kappa); err != nil {
				return fmt.Errorf("cell %v: %w", p.topo.Coord(i), err)
			}
			n, v := 0, 0.0
			for _, j := range p.topo.Neighbors(i) {
				if cells[j].InCrystal {
					n++
					v += cells[j].D
				}
			}
			p.decisions[k] = AttachRule(cell.B, n, v, p.params)
		}
		return nil
	})
}

func (p *Plate) commitAttachments(tick int) error {
	cells := p.cells.Cells()
	p.attached = p.attached[:0]
	for k, i := range p.order {
		if p.decisions[k] == RuleNone {
			continue
		}
		if err := cells[i].Attach(tick); err != nil {
			return fmt.Errorf("cell %v: %w", p.topo.Coord(i), err)
		}
		p.attached = append(p.attached, i)
		p.crystal++
		if d := lattice.Chebyshev(p.origin, p.topo.Coord(i)); d > p.maxDist {
			p.maxDist = d
		}
	}
	return nil
}

func (p *Plate) melt() error {
	cells := p.cells.Cells()
	mu, gamma := p.params.Mu, p.params.Gamma
	return p.parallel(len(p.order), func(lo, hi int) error {
		for k := lo; k < hi; k++ {
			if p.decisions[k] != RuleNone {
				continue
			}
			i := p.order[k]
			if err := cells[i].Melt(mu, gamma); err != nil {
				return fmt.Errorf("cell %v: %w", p.topo.Coord(i), err)
			}
		}
		return nil
	})
}

// interfere perturbs every non-crystal cell's vapour. Draws happen in
// row-major order so a seed reproduces the run.
func (p *Plate) interfere() {
	sigma := p.params.Sigma
	cells := p.cells.Cells()
	for i := range cells {
		if cells[i].InCrystal {
			continue
		}
		cells[i].D *= p.rng.Jitter(sigma)
	}
}

// updateBorder moves each cell attached this tick out of the border and
// exposes its remaining vapour neighbours.
func (p *Plate) updateBorder() {
	cells := p.cells.Cells()
	for _, i := range p.attached {
		p.border.Remove(i)
		for _, j := range p.topo.Neighbors(i) {
			if !cells[j].InCrystal {
				p.border.Add(int(j))
			}
		}
	}
}
